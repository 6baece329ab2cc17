// Package store provides the SQLite-backed durable state of rigpreview:
// process-wide settings and the pending change buffer. Everything in here
// must survive a full host environment reload, so it lives on disk and the
// rows carry no in-memory identity — only scene names, hierarchy paths and
// serialized values.
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

// schemaV1 is the initial schema for the SQLite store.
const schemaV1 = `
-- Schema bookkeeping
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Process-wide persisted settings (debug flag, preview mode, toggles...)
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Pending change buffer. At most one buffer is ever pending: one session at
-- a time, consumed exactly once on return from simulated mode.
CREATE TABLE IF NOT EXISTS change_buffer (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    scene TEXT NOT NULL,
    path TEXT NOT NULL,
    payload BLOB NOT NULL,
    saved_at TEXT NOT NULL
);
`

// InitSchema creates the schema if needed and verifies the stored version.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	var stored string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
		if _, err := db.ExecContext(ctx,
			`INSERT INTO meta (key, value) VALUES ('schema_version', ?)`,
			fmt.Sprint(SchemaVersion)); err != nil {
			return fmt.Errorf("recording schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("reading schema version: %w", err)
	case stored != fmt.Sprint(SchemaVersion):
		return fmt.Errorf("unsupported schema version %s (want %d)", stored, SchemaVersion)
	}

	return nil
}
