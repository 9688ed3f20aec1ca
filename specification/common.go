package specification

import (
	"errors"
)

var ErrEmptyTableNameSupplied = errors.New("empty table name supplied")
var ErrEmptyBucketNameSupplied = errors.New("empty bucket name supplied")
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrNilRecordStore = errors.New("record store must not be nil")

var ErrSpecificationNotTranslatable = errors.New("specification can not be translated into a database query")
var ErrBuildingQueryFailed = errors.New("building the query failed")
var ErrQueryingRecordsFailed = errors.New("querying records failed")
var ErrSavingRecordsFailed = errors.New("saving records failed")
var ErrScanningDBRowFailed = errors.New("scanning the database row failed")
var ErrEncodingRecordFailed = errors.New("encoding the record failed")
var ErrDecodingRecordFailed = errors.New("decoding the record failed")
var ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
var ErrUnexpectedRowsAffected = errors.New("unexpected number of rows affected")
