package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
)

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s (
	car_name   TEXT PRIMARY KEY,
	attributes JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS %[2]s (
	ride_id      TEXT PRIMARY KEY,
	rider        TEXT NOT NULL,
	car          JSONB NOT NULL,
	car_name     TEXT NOT NULL,
	request_time TIMESTAMPTZ NOT NULL
);
`

// Schema returns the DDL for the cars and rides tables.
func Schema(carsTable, ridesTable string) string {
	return fmt.Sprintf(schemaTemplate, pq.QuoteIdentifier(carsTable), pq.QuoteIdentifier(ridesTable))
}

// EnsureSchema applies Schema. It is idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB, carsTable, ridesTable string) error {
	_, err := db.ExecContext(ctx, Schema(carsTable, ridesTable))
	return errors.WithStack(err)
}
