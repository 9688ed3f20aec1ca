// Package config provides PostgreSQL connections for testing the postgresengine RecordStore.
//
// It creates connections for all supported adapters (pgxpool.Pool, sql.DB, sqlx.DB) and
// prepares the records table. The DSN is read from SPECFILTER_POSTGRES_DSN and falls back
// to a local test database. Callers skip their tests when the database is unreachable.
package config
