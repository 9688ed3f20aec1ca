package config

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableStatement = `CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number bigserial PRIMARY KEY,
	record_id uuid NOT NULL,
	payload jsonb NOT NULL,
	saved_at timestamptz NOT NULL DEFAULT now()
)`

// RecreateRecordsTable drops and creates the records table, so that every test starts with an empty table.
func RecreateRecordsTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	identifier := pgx.Identifier{tableName}.Sanitize()

	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+identifier); err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, fmt.Sprintf(createTableStatement, identifier)); err != nil {
		return err
	}

	return nil
}
