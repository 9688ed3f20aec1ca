package postgresengine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/specification-filter-go/specification"
	"github.com/AntonStoeckl/specification-filter-go/specification/postgresengine/internal/adapters"
	"github.com/AntonStoeckl/specification-filter-go/testutil/fixtures"
	"github.com/AntonStoeckl/specification-filter-go/testutil/spies"
)

func Test_BuildSelectQuery_TranslatesSpecifications(t *testing.T) {
	tests := []struct {
		name          string
		spec          specification.Specification
		expectedWhere string
	}{
		{
			name:          "nil_specification",
			spec:          nil,
			expectedWhere: `WHERE TRUE`,
		},
		{
			name:          "field_equals_string",
			spec:          specification.FieldEquals("color", "green"),
			expectedWhere: `WHERE ("payload" -> 'color' = '"green"'::jsonb) IS TRUE`,
		},
		{
			name:          "field_equals_number",
			spec:          specification.FieldEquals("weight", 3),
			expectedWhere: `WHERE ("payload" -> 'weight' = '3'::jsonb) IS TRUE`,
		},
		{
			name:          "field_equals_escapes_quotes",
			spec:          specification.FieldEquals("name", "O'Reilly"),
			expectedWhere: `WHERE ("payload" -> 'name' = '"O''Reilly"'::jsonb) IS TRUE`,
		},
		{
			name:          "field_in",
			spec:          specification.FieldIn("size", "small", "large"),
			expectedWhere: `WHERE (("payload" -> 'size' = '"small"'::jsonb) IS TRUE OR ("payload" -> 'size' = '"large"'::jsonb) IS TRUE)`,
		},
		{
			name:          "field_exists",
			spec:          specification.FieldExists("name"),
			expectedWhere: `WHERE jsonb_exists("payload", 'name')`,
		},
		{
			name:          "empty_and",
			spec:          specification.And(),
			expectedWhere: `WHERE TRUE`,
		},
		{
			name:          "empty_or",
			spec:          specification.Or(),
			expectedWhere: `WHERE FALSE`,
		},
		{
			name: "and",
			spec: specification.And(
				specification.FieldEquals("color", "green"),
				specification.FieldEquals("size", "large"),
			),
			expectedWhere: `WHERE (("payload" -> 'color' = '"green"'::jsonb) IS TRUE AND ("payload" -> 'size' = '"large"'::jsonb) IS TRUE)`,
		},
		{
			name:          "not",
			spec:          specification.Not(specification.FieldExists("name")),
			expectedWhere: `WHERE NOT (jsonb_exists("payload", 'name'))`,
		},
		{
			name:          "not_field_equals_stays_two_valued_for_missing_fields",
			spec:          specification.Not(specification.FieldEquals("color", "green")),
			expectedWhere: `WHERE NOT (("payload" -> 'color' = '"green"'::jsonb) IS TRUE)`,
		},
		{
			name:          "not_field_in",
			spec:          specification.Not(specification.FieldIn("size", "small")),
			expectedWhere: `WHERE NOT (("payload" -> 'size' = '"small"'::jsonb) IS TRUE)`,
		},
	}

	rs, err := newRecordStore(&fakeDBAdapter{})
	require.NoError(t, err)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			sqlQuery, buildErr := rs.buildSelectQuery(tc.spec)

			// assert
			require.NoError(t, buildErr)
			assert.Contains(t, sqlQuery, `SELECT "sequence_number", "payload" FROM "records"`)
			assert.Contains(t, sqlQuery, tc.expectedWhere)
			assert.Contains(t, sqlQuery, `ORDER BY "sequence_number" ASC`)
		})
	}
}

func Test_BuildSelectQuery_When_SpecificationIsNotTranslatable(t *testing.T) {
	rs, err := newRecordStore(&fakeDBAdapter{})
	require.NoError(t, err)

	spec := specification.And(
		specification.FieldExists("name"),
		specification.SpecificationFunc(func(specification.Record) bool { return true }),
	)

	_, buildErr := rs.buildSelectQuery(spec)

	assert.ErrorIs(t, buildErr, specification.ErrSpecificationNotTranslatable)
}

func Test_BuildSelectQuery_When_ValueIsNotEncodable(t *testing.T) {
	rs, err := newRecordStore(&fakeDBAdapter{})
	require.NoError(t, err)

	_, buildErr := rs.buildSelectQuery(specification.FieldEquals("name", func() {}))

	assert.ErrorIs(t, buildErr, specification.ErrBuildingQueryFailed)
}

func Test_BuildInsertQuery(t *testing.T) {
	rs, err := newRecordStore(&fakeDBAdapter{}, WithTableName("products"))
	require.NoError(t, err)

	sqlQuery, buildErr := rs.buildInsertQuery(specification.Records{fixtures.Apple(), nil})

	require.NoError(t, buildErr)
	assert.Contains(t, sqlQuery, `INSERT INTO "products" ("payload", "record_id") VALUES`)
	assert.Contains(t, sqlQuery, `'{"color":"green","name":"Apple","size":"small"}'::jsonb`)
	assert.Contains(t, sqlQuery, `'{}'::jsonb`)
}

func Test_Query_DecodesRowsInOrder(t *testing.T) {
	// arrange
	db := &fakeDBAdapter{
		rows: []fakeRow{
			{sequenceNumber: 1, payload: `{"name":"Apple","color":"green","size":"small"}`},
			{sequenceNumber: 2, payload: `{"name":"Tree","color":"green","size":"large"}`},
		},
	}
	logger := spies.NewLoggerSpy(true)
	rs, err := newRecordStore(db, WithLogger(logger))
	require.NoError(t, err)

	// act
	records, queryErr := rs.Query(context.Background(), specification.FieldEquals("color", "green"))

	// assert
	require.NoError(t, queryErr)
	assert.Equal(t, []string{"Apple", "Tree"}, fixtures.Names(records))
	assert.Len(t, db.queries, 1)
	assert.True(t, logger.HasDebugLogWithMessage(logMsgSQLExecuted+logActionQuery))
	assert.True(t, logger.HasInfoLogWithMessage(logMsgOperation+logMsgQueryCompleted))
	assert.True(t, logger.HasInfoLogWithAttribute(logAttrRecordCount, "2"))
	assert.True(t, db.closed, "rows must be closed")
}

func Test_Query_When_SpecificationIsNotTranslatable(t *testing.T) {
	isTree := specification.SpecificationFunc(func(r specification.Record) bool { return r["name"] == "Tree" })

	t.Run("without_fallback", func(t *testing.T) {
		db := &fakeDBAdapter{}
		rs, err := newRecordStore(db)
		require.NoError(t, err)

		_, queryErr := rs.Query(context.Background(), isTree)

		assert.ErrorIs(t, queryErr, specification.ErrSpecificationNotTranslatable)
		assert.Empty(t, db.queries)
	})

	t.Run("with_fallback", func(t *testing.T) {
		db := &fakeDBAdapter{
			rows: []fakeRow{
				{sequenceNumber: 1, payload: `{"name":"Apple"}`},
				{sequenceNumber: 2, payload: `{"name":"Tree"}`},
			},
		}
		rs, err := newRecordStore(db, WithInMemoryFallback())
		require.NoError(t, err)

		records, queryErr := rs.Query(context.Background(), isTree)

		require.NoError(t, queryErr)
		assert.Equal(t, []string{"Tree"}, fixtures.Names(records))
		require.Len(t, db.queries, 1)
		assert.Contains(t, db.queries[0], "WHERE TRUE")
	})
}

func Test_Query_Errors(t *testing.T) {
	tests := []struct {
		name        string
		db          *fakeDBAdapter
		expectedErr error
	}{
		{
			name:        "query_fails",
			db:          &fakeDBAdapter{queryErr: errors.New("connection refused")},
			expectedErr: specification.ErrQueryingRecordsFailed,
		},
		{
			name:        "scan_fails",
			db:          &fakeDBAdapter{rows: []fakeRow{{scanErr: errors.New("bad column")}}},
			expectedErr: specification.ErrScanningDBRowFailed,
		},
		{
			name:        "payload_is_corrupt",
			db:          &fakeDBAdapter{rows: []fakeRow{{sequenceNumber: 1, payload: `{not json`}}},
			expectedErr: specification.ErrDecodingRecordFailed,
		},
		{
			name:        "rows_fail",
			db:          &fakeDBAdapter{rowsErr: errors.New("connection reset")},
			expectedErr: specification.ErrQueryingRecordsFailed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rs, err := newRecordStore(tc.db, WithLogger(spies.NewLoggerSpy(false)))
			require.NoError(t, err)

			_, queryErr := rs.Query(context.Background(), specification.FieldExists("name"))

			assert.ErrorIs(t, queryErr, tc.expectedErr)
		})
	}
}

func Test_Save(t *testing.T) {
	tests := []struct {
		name        string
		db          *fakeDBAdapter
		expectedErr error
	}{
		{
			name: "success",
			db:   &fakeDBAdapter{rowsAffected: 3},
		},
		{
			name:        "exec_fails",
			db:          &fakeDBAdapter{execErr: errors.New("connection refused")},
			expectedErr: specification.ErrSavingRecordsFailed,
		},
		{
			name:        "rows_affected_fails",
			db:          &fakeDBAdapter{rowsAffectedErr: errors.New("not supported")},
			expectedErr: specification.ErrGettingRowsAffectedFailed,
		},
		{
			name:        "unexpected_rows_affected",
			db:          &fakeDBAdapter{rowsAffected: 2},
			expectedErr: specification.ErrUnexpectedRowsAffected,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			logger := spies.NewLoggerSpy(true)
			rs, err := newRecordStore(tc.db, WithLogger(logger))
			require.NoError(t, err)

			// act
			saveErr := rs.Save(context.Background(), fixtures.Apple(), fixtures.Tree(), fixtures.House())

			// assert
			if tc.expectedErr != nil {
				assert.ErrorIs(t, saveErr, tc.expectedErr)
				assert.False(t, logger.HasInfoLogWithMessage(logMsgOperation+logMsgRecordsSaved))

				return
			}

			require.NoError(t, saveErr)
			require.Len(t, tc.db.execs, 1)
			assert.Contains(t, tc.db.execs[0], `INSERT INTO "records"`)
			assert.True(t, logger.HasInfoLogWithAttribute(logAttrRecordCount, "3"))
		})
	}
}

func Test_Save_When_RecordIsNotEncodable(t *testing.T) {
	db := &fakeDBAdapter{}
	rs, err := newRecordStore(db)
	require.NoError(t, err)

	saveErr := rs.Save(context.Background(), specification.Record{"callback": func() {}})

	assert.ErrorIs(t, saveErr, specification.ErrEncodingRecordFailed)
	assert.Empty(t, db.execs)
}

func Test_Options(t *testing.T) {
	_, err := newRecordStore(&fakeDBAdapter{}, WithTableName(""))
	assert.ErrorIs(t, err, specification.ErrEmptyTableNameSupplied)

	rs, err := newRecordStore(&fakeDBAdapter{}, WithTableName("products"), WithInMemoryFallback())
	require.NoError(t, err)
	assert.Equal(t, "products", rs.tableName)
	assert.True(t, rs.inMemoryFallback)
}

func Test_Constructors_When_ConnectionIsNil(t *testing.T) {
	_, pgxErr := NewRecordStoreFromPGXPool(nil)
	_, replicaErr := NewRecordStoreFromPGXPoolWithReplica(nil, nil)
	_, sqlErr := NewRecordStoreFromSQLDB(nil)
	_, sqlxErr := NewRecordStoreFromSQLX(nil)

	assert.ErrorIs(t, pgxErr, specification.ErrNilDatabaseConnection)
	assert.ErrorIs(t, replicaErr, specification.ErrNilDatabaseConnection)
	assert.ErrorIs(t, sqlErr, specification.ErrNilDatabaseConnection)
	assert.ErrorIs(t, sqlxErr, specification.ErrNilDatabaseConnection)
}

func Test_ReadOnly_DelegatesQueries(t *testing.T) {
	db := &fakeDBAdapter{rows: []fakeRow{{sequenceNumber: 1, payload: `{"name":"House"}`}}}
	rs, err := newRecordStore(db)
	require.NoError(t, err)

	records, queryErr := rs.ReadOnly().Query(context.Background(), specification.FieldExists("name"))

	require.NoError(t, queryErr)
	assert.Equal(t, []string{"House"}, fixtures.Names(records))

	_, isSaver := rs.ReadOnly().(specification.RecordSaver)
	assert.False(t, isSaver)
}

/***** fake database adapter *****/

type fakeRow struct {
	sequenceNumber int64
	payload        string
	scanErr        error
}

type fakeDBAdapter struct {
	rows            []fakeRow
	queryErr        error
	rowsErr         error
	execErr         error
	rowsAffected    int64
	rowsAffectedErr error
	queries         []string
	execs           []string
	closed          bool
}

func (f *fakeDBAdapter) Query(_ context.Context, query string) (adapters.DBRows, error) {
	f.queries = append(f.queries, query)
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	return &fakeDBRows{adapter: f, position: -1}, nil
}

func (f *fakeDBAdapter) Exec(_ context.Context, query string) (adapters.DBResult, error) {
	f.execs = append(f.execs, query)
	if f.execErr != nil {
		return nil, f.execErr
	}

	return fakeDBResult{rowsAffected: f.rowsAffected, err: f.rowsAffectedErr}, nil
}

type fakeDBRows struct {
	adapter  *fakeDBAdapter
	position int
}

func (r *fakeDBRows) Next() bool {
	r.position++
	return r.position < len(r.adapter.rows)
}

func (r *fakeDBRows) Scan(dest ...any) error {
	row := r.adapter.rows[r.position]
	if row.scanErr != nil {
		return row.scanErr
	}

	*(dest[0].(*int64)) = row.sequenceNumber
	*(dest[1].(*[]byte)) = []byte(row.payload)

	return nil
}

func (r *fakeDBRows) Err() error {
	return r.adapter.rowsErr
}

func (r *fakeDBRows) Close() error {
	r.adapter.closed = true
	return nil
}

type fakeDBResult struct {
	rowsAffected int64
	err          error
}

func (r fakeDBResult) RowsAffected() (int64, error) {
	return r.rowsAffected, r.err
}
