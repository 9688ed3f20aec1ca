// Package postgresengine provides a PostgreSQL implementation of the specification.RecordStore.
//
// Records are stored as jsonb payloads in one table:
//
//	CREATE TABLE records (
//	    sequence_number bigserial PRIMARY KEY,
//	    record_id uuid NOT NULL,
//	    payload jsonb NOT NULL,
//	    saved_at timestamptz NOT NULL DEFAULT now()
//	);
//
// Query translates the specification into a WHERE clause, so filtering happens in the database.
// The known variants are supported: FieldEquals, FieldIn, FieldExists, And, Or and Not.
// Other variants, e.g. a SpecificationFunc, can not be translated; Query then fails with
// specification.ErrSpecificationNotTranslatable, unless the store was created WithInMemoryFallback().
//
// Three connection types are supported:
//   - pgx/v5 pgxpool.Pool, optionally with a replica pool
//   - database/sql sql.DB (e.g. with lib/pq)
//   - sqlx.DB
//
// With a replica pool, reads with a context created by specification.WithEventualConsistency go to the replica.
package postgresengine
