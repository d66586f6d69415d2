package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema statements applied in order. Each statement is idempotent so the
// migration can run on every deploy.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS reservations (
		id            UUID PRIMARY KEY,
		guest_name    TEXT NOT NULL,
		payer_email   TEXT NOT NULL,
		room_category TEXT NOT NULL,
		unit          TEXT NOT NULL,
		start_date    DATE NOT NULL,
		end_date      DATE NOT NULL,
		party_size    INTEGER NOT NULL CHECK (party_size >= 1),
		total         NUMERIC(10, 2) NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (start_date <= end_date)
	)`,

	// Availability reads filter by category and date window.
	`CREATE INDEX IF NOT EXISTS idx_reservations_category_dates
		ON reservations (room_category, start_date, end_date)`,

	`CREATE INDEX IF NOT EXISTS idx_reservations_unit
		ON reservations (unit)`,
}

// Migrate applies the reservations schema
func Migrate(db *sqlx.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration statement %d failed: %w", i, err)
		}
	}
	return nil
}
