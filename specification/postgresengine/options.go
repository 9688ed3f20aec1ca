package postgresengine

import (
	"github.com/AntonStoeckl/specification-filter-go/specification"
)

// Option defines a functional option for configuring RecordStore.
type Option func(*RecordStore) error

// WithTableName sets the table name for the RecordStore.
func WithTableName(tableName string) Option {
	return func(rs *RecordStore) error {
		if tableName == "" {
			return specification.ErrEmptyTableNameSupplied
		}

		rs.tableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the RecordStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: record counts and durations (production-safe)
// Warn level: non-critical issues like cleanup failures
// Error level: critical failures that cause operation failures.
func WithLogger(logger specification.Logger) Option {
	return func(rs *RecordStore) error {
		rs.logger = logger
		return nil
	}
}

// WithInMemoryFallback allows Query to handle specifications which can not be translated into SQL.
// All rows of the table are then loaded and filtered in memory, which is fine for small tables only.
func WithInMemoryFallback() Option {
	return func(rs *RecordStore) error {
		rs.inMemoryFallback = true
		return nil
	}
}
