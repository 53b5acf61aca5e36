// Package database owns the SQLite schema: connection setup, baseline
// table creation and versioned migrations.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Open opens (creating if necessary) the SQLite database at path and
// applies the connection pragmas the rest of the code relies on. The
// file's parent directory is created if missing.
//
// The pragmas ride in the DSN rather than a one-off Exec: they are
// per-connection, and database/sql pools connections, so an Exec would
// only configure whichever connection happened to run it. The delete
// cascade on devices depends on foreign_keys being on for every
// connection.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// WAL keeps readers from blocking on the single writer.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}
