package repository

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS alert_rules (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		enabled        BOOLEAN NOT NULL DEFAULT TRUE,
		conditions     JSONB NOT NULL DEFAULT '[]'::jsonb,
		actions        JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at     TIMESTAMPTZ NOT NULL,
		last_triggered TIMESTAMPTZ,
		trigger_count  INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS alert_history (
		id              TEXT PRIMARY KEY,
		rule_id         TEXT NOT NULL,
		rule_name       TEXT NOT NULL,
		severity        TEXT NOT NULL,
		status          TEXT NOT NULL,
		triggered_at    TIMESTAMPTZ NOT NULL,
		resolved_at     TIMESTAMPTZ,
		acknowledged_at TIMESTAMPTZ,
		acknowledged_by TEXT,
		sensor_id       TEXT NOT NULL DEFAULT '',
		rack_id         TEXT NOT NULL DEFAULT '',
		room_id         TEXT NOT NULL DEFAULT '',
		dc_id           TEXT NOT NULL DEFAULT '',
		metric_type     TEXT NOT NULL,
		actual_value    DOUBLE PRECISION NOT NULL,
		threshold_value DOUBLE PRECISION NOT NULL,
		message         TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alert_history_triggered_at ON alert_history (triggered_at DESC)`,
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		username   TEXT NOT NULL UNIQUE,
		email      TEXT NOT NULL,
		role       TEXT NOT NULL,
		status     TEXT NOT NULL,
		last_login TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

// EnsureSchema creates the dashboard tables when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
