// Package adapters provide database adapter implementations for the PostgreSQL record store.
//
// Three connection types are supported: pgxpool.Pool, sql.DB and sqlx.DB.
// All of them are hidden behind the DBAdapter interface, so the record store does not care which one is used.
//
// The pgx adapter optionally holds a replica pool, which serves reads that ask for eventual consistency.
package adapters
