package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/specification-filter-go/specification"
	"github.com/AntonStoeckl/specification-filter-go/specification/postgresengine/internal/adapters"
)

const (
	defaultTableName             = "records"
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgBuildInsertQueryFailed = "failed to build insert query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgDBExecFailed           = "database execution failed during save"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgDecodeRecordFailed     = "failed to decode record payload"
	logMsgEncodeRecordFailed     = "failed to encode record payload"
	logMsgRowsAffectedFailed     = "failed to get rows affected count"
	logMsgUnexpectedRows         = "unexpected number of rows affected during save"
	logMsgInMemoryFallback       = "specification not translatable, filtering in memory"
	logMsgQueryCompleted         = "query completed"
	logMsgRecordsSaved           = "records saved"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "postgresengine operation: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrRecordCount           = "record_count"
	logAttrDurationMS            = "duration_ms"
	logAttrRowsAffected          = "rows_affected"
	logAttrSpecification         = "specification"
	logAttrSequenceNumber        = "sequence_number"
	logActionQuery               = "query"
	logActionSave                = "save"
	colSequenceNumber            = "sequence_number"
	colRecordID                  = "record_id"
	colPayload                   = "payload"
	dialectPostgres              = "postgres"
	castJsonb                    = "?::jsonb"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RecordStore stores records as jsonb payloads in a PostgreSQL table.
type RecordStore struct {
	db               adapters.DBAdapter
	tableName        string
	inMemoryFallback bool
	logger           specification.Logger
}

// NewRecordStoreFromPGXPool creates a new RecordStore using a pgx Pool with optional configuration.
func NewRecordStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*RecordStore, error) {
	if db == nil {
		return nil, specification.ErrNilDatabaseConnection
	}

	return newRecordStore(adapters.NewPGXAdapter(db), options...)
}

// NewRecordStoreFromPGXPoolWithReplica creates a new RecordStore using a primary and a replica pgx Pool.
// Reads use the replica when their context was created with specification.WithEventualConsistency.
func NewRecordStoreFromPGXPoolWithReplica(
	db *pgxpool.Pool,
	replica *pgxpool.Pool,
	options ...Option,
) (*RecordStore, error) {

	if db == nil || replica == nil {
		return nil, specification.ErrNilDatabaseConnection
	}

	return newRecordStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewRecordStoreFromSQLDB creates a new RecordStore using a sql.DB with optional configuration.
func NewRecordStoreFromSQLDB(db *sql.DB, options ...Option) (*RecordStore, error) {
	if db == nil {
		return nil, specification.ErrNilDatabaseConnection
	}

	return newRecordStore(adapters.NewSQLAdapter(db), options...)
}

// NewRecordStoreFromSQLX creates a new RecordStore using a sqlx.DB with optional configuration.
func NewRecordStoreFromSQLX(db *sqlx.DB, options ...Option) (*RecordStore, error) {
	if db == nil {
		return nil, specification.ErrNilDatabaseConnection
	}

	return newRecordStore(adapters.NewSQLXAdapter(db), options...)
}

func newRecordStore(db adapters.DBAdapter, options ...Option) (*RecordStore, error) {
	rs := &RecordStore{
		db:        db,
		tableName: defaultTableName,
	}

	for _, option := range options {
		if err := option(rs); err != nil {
			return nil, err
		}
	}

	return rs, nil
}

// ReadOnly returns a view of the RecordStore which can only query.
func (rs *RecordStore) ReadOnly() specification.RecordQuerier {
	return readOnlyRecordStore{inner: rs}
}

// Query returns the records which satisfy the specification, ordered by their sequence number.
func (rs *RecordStore) Query(ctx context.Context, spec specification.Specification) (specification.Records, error) {
	filterInMemory := false

	sqlQuery, buildQueryErr := rs.buildSelectQuery(spec)
	if errors.Is(buildQueryErr, specification.ErrSpecificationNotTranslatable) && rs.inMemoryFallback {
		rs.logDebug(logMsgInMemoryFallback, logAttrSpecification, specification.Describe(spec))

		filterInMemory = true
		sqlQuery, buildQueryErr = rs.buildSelectQuery(nil)
	}

	if buildQueryErr != nil {
		rs.logError(logMsgBuildSelectQueryFailed, buildQueryErr, logAttrSpecification, specification.Describe(spec))

		return nil, buildQueryErr
	}

	rows, duration, queryErr := rs.executeQuery(ctx, sqlQuery)
	if queryErr != nil {
		return nil, queryErr
	}
	defer rs.closeRows(rows)

	records, scanErr := rs.processQueryResults(rows)
	if scanErr != nil {
		return nil, scanErr
	}

	if filterInMemory {
		records = specification.Filter(records, spec)
	}

	rs.logOperation(
		logMsgQueryCompleted,
		logAttrRecordCount, len(records),
		logAttrDurationMS, rs.durationToMilliseconds(duration),
		logAttrSpecification, specification.Describe(spec),
	)

	return records, nil
}

// executeQuery executes the SQL query and returns rows with timing information.
func (rs *RecordStore) executeQuery(ctx context.Context, sqlQuery sqlQueryString) (
	adapters.DBRows,
	time.Duration,
	error,
) {

	start := time.Now()
	rows, queryErr := rs.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	rs.logQueryWithDuration(sqlQuery, logActionQuery, duration)

	if queryErr != nil {
		rs.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)

		return nil, duration, errors.Join(specification.ErrQueryingRecordsFailed, queryErr)
	}

	return rows, duration, nil
}

// closeRows closes database rows and logs any errors.
func (rs *RecordStore) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if rs.logger != nil {
			rs.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// processQueryResults scans the rows and decodes the payloads into records.
func (rs *RecordStore) processQueryResults(rows adapters.DBRows) (specification.Records, error) {
	records := make(specification.Records, 0)

	for rows.Next() {
		var sequenceNumber int64
		var payload []byte

		if rowScanErr := rows.Scan(&sequenceNumber, &payload); rowScanErr != nil {
			rs.logError(logMsgScanRowFailed, rowScanErr)

			return nil, errors.Join(specification.ErrScanningDBRowFailed, rowScanErr)
		}

		record := specification.Record{}
		if decodeErr := json.Unmarshal(payload, &record); decodeErr != nil {
			rs.logError(logMsgDecodeRecordFailed, decodeErr, logAttrSequenceNumber, sequenceNumber)

			return nil, errors.Join(specification.ErrDecodingRecordFailed, decodeErr)
		}

		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		rs.logError(logMsgDBQueryFailed, rowsErr)

		return nil, errors.Join(specification.ErrQueryingRecordsFailed, rowsErr)
	}

	return records, nil
}

// Save inserts the records with one statement, so either all or none of them are stored.
func (rs *RecordStore) Save(
	ctx context.Context,
	record specification.Record,
	additionalRecords ...specification.Record,
) error {

	allRecords := specification.Records{record}
	allRecords = append(allRecords, additionalRecords...)

	sqlQuery, buildQueryErr := rs.buildInsertQuery(allRecords)
	if buildQueryErr != nil {
		return buildQueryErr
	}

	start := time.Now()
	result, execErr := rs.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	rs.logQueryWithDuration(sqlQuery, logActionSave, duration)

	if execErr != nil {
		rs.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)

		return errors.Join(specification.ErrSavingRecordsFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		rs.logError(logMsgRowsAffectedFailed, rowsAffectedErr)

		return errors.Join(specification.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if err := rs.validateSaveResult(rowsAffected, len(allRecords)); err != nil {
		return err
	}

	rs.logOperation(
		logMsgRecordsSaved,
		logAttrRecordCount, len(allRecords),
		logAttrDurationMS, rs.durationToMilliseconds(duration),
	)

	return nil
}

func (rs *RecordStore) validateSaveResult(rowsAffected rowsAffectedInt64, expectedRecords int) error {
	if rowsAffected != int64(expectedRecords) {
		if rs.logger != nil {
			rs.logger.Error(logMsgUnexpectedRows, logAttrRowsAffected, rowsAffected, logAttrRecordCount, expectedRecords)
		}

		return specification.ErrUnexpectedRowsAffected
	}

	return nil
}

func (rs *RecordStore) buildSelectQuery(spec specification.Specification) (sqlQueryString, error) {
	where, translateErr := toExpression(spec)
	if translateErr != nil {
		return "", translateErr
	}

	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		From(rs.tableName).
		Select(colSequenceNumber, colPayload).
		Where(where).
		Order(goqu.I(colSequenceNumber).Asc()).
		ToSQL()

	if toSQLErr != nil {
		return "", errors.Join(specification.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (rs *RecordStore) buildInsertQuery(records specification.Records) (sqlQueryString, error) {
	rows := make([]any, 0, len(records))
	for _, record := range records {
		if record == nil {
			record = specification.Record{}
		}

		payload, encodeErr := json.Marshal(record)
		if encodeErr != nil {
			rs.logError(logMsgEncodeRecordFailed, encodeErr)

			return "", errors.Join(specification.ErrEncodingRecordFailed, encodeErr)
		}

		rows = append(rows, goqu.Record{
			colRecordID: uuid.NewString(),
			colPayload:  goqu.L(castJsonb, string(payload)),
		})
	}

	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).
		Insert(rs.tableName).
		Rows(rows...).
		ToSQL()

	if toSQLErr != nil {
		rs.logError(logMsgBuildInsertQueryFailed, toSQLErr)

		return "", errors.Join(specification.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// logQueryWithDuration logs SQL queries with execution time at debug level if the logger is configured.
func (rs *RecordStore) logQueryWithDuration(sqlQuery sqlQueryString, action string, duration time.Duration) {
	rs.logDebug(logMsgSQLExecuted+action, logAttrDurationMS, rs.durationToMilliseconds(duration), logAttrQuery, sqlQuery)
}

func (rs *RecordStore) logDebug(msg string, args ...any) {
	if rs.logger != nil {
		rs.logger.Debug(msg, args...)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (rs *RecordStore) logOperation(action string, args ...any) {
	if rs.logger != nil {
		rs.logger.Info(logMsgOperation+action, args...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (rs *RecordStore) logError(message string, err error, args ...any) {
	if rs.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		rs.logger.Error(message, allArgs...)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (rs *RecordStore) durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// readOnlyRecordStore exposes only the read capability of a RecordStore.
type readOnlyRecordStore struct {
	inner *RecordStore
}

func (ro readOnlyRecordStore) Query(ctx context.Context, spec specification.Specification) (specification.Records, error) {
	return ro.inner.Query(ctx, spec)
}

var _ specification.RecordStore = (*RecordStore)(nil)
var _ specification.RecordQuerier = readOnlyRecordStore{}
