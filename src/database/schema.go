package database

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the version the migrations in migrations.go bring a
// database up to. Version 1 is the shape used before version tracking
// existed (two-value number status, several optional columns missing).
const SchemaVersion = 2

// Schema contains the baseline DDL. Every statement is idempotent, so it
// is safe to run on every start regardless of what already exists.
var Schema = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Devices (handsets). The device-level status is legacy; the per-number
-- status on numbers supersedes it.
CREATE TABLE IF NOT EXISTS devices (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	brand TEXT,
	imei TEXT UNIQUE,
	status TEXT NOT NULL DEFAULT 'ok' CHECK (status IN ('ok','banido')),
	is_disabled INTEGER NOT NULL DEFAULT 0,
	note TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Clients a number can be leased to
CREATE TABLE IF NOT EXISTS clients (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	color TEXT NOT NULL DEFAULT '#64748b',
	created_at TEXT NOT NULL DEFAULT (datetime('now')),
	updated_at TEXT
);

-- Phone lines ("chips"), one device each, optionally one client
CREATE TABLE IF NOT EXISTS numbers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	device_id INTEGER NOT NULL,
	phone TEXT NOT NULL UNIQUE,
	client_id INTEGER,
	status TEXT NOT NULL DEFAULT 'ok'
		CHECK (status IN ('ok','banido','desconectado','livre')),
	created_at TEXT NOT NULL DEFAULT (datetime('now')),
	FOREIGN KEY (device_id) REFERENCES devices(id) ON DELETE CASCADE,
	FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE SET NULL
);

-- Audit log, append-only. The id references are best-effort: rows are not
-- constrained so entries can outlive what they describe.
CREATE TABLE IF NOT EXISTS logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	device_id INTEGER,
	number_id INTEGER,
	client_id INTEGER,
	type TEXT NOT NULL,
	message TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Key/value settings (JSON values)
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// Indexes are created after migrations: on a legacy database some of the
// indexed columns only exist once the v2 migration has added them.
var schemaIndexes = `
CREATE INDEX IF NOT EXISTS idx_logs_device ON logs(device_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_logs_number ON logs(number_id, created_at DESC);

CREATE INDEX IF NOT EXISTS idx_numbers_client_id ON numbers(client_id);
CREATE INDEX IF NOT EXISTS idx_numbers_status    ON numbers(status);
CREATE INDEX IF NOT EXISTS idx_numbers_device    ON numbers(device_id);
CREATE INDEX IF NOT EXISTS idx_numbers_phone     ON numbers(phone);

-- Device name uniqueness is case-insensitive and trim-insensitive
CREATE UNIQUE INDEX IF NOT EXISTS uq_devices_name_norm
ON devices (lower(trim(name)));
`

// EnsureSchema creates the baseline schema if absent and brings older
// databases up to the current version. Safe to call on every start; on a
// database that already has the current shape it changes nothing.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var current int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to check schema version: %w", err)
	}

	if current == 0 {
		// Either a fresh file or a database that predates version
		// tracking. Both start at version 1: every corrective step in
		// the v2 migration is a no-op on a fresh schema.
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (1)"); err != nil {
			return fmt.Errorf("failed to insert schema version: %w", err)
		}
		current = 1
	}

	if current < SchemaVersion {
		if err := runMigrations(db, current, SchemaVersion); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	if _, err := db.Exec(schemaIndexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
