package models

import (
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/chipdesk/chipdesk/src/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	// In-memory databases are per-connection; pin the pool to one.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	if err := database.EnsureSchema(db); err != nil {
		t.Fatalf("Failed to set up schema: %v", err)
	}
	return db
}

func mustCreateDevice(t *testing.T, db *sql.DB, name string) *Device {
	t.Helper()
	d, err := (&DeviceModel{DB: db}).Create(DeviceInput{Name: name})
	if err != nil {
		t.Fatalf("Failed to create device %q: %v", name, err)
	}
	return d
}

func mustCreateClient(t *testing.T, db *sql.DB, name string) *Client {
	t.Helper()
	c, err := (&ClientModel{DB: db}).Create(name, "")
	if err != nil {
		t.Fatalf("Failed to create client %q: %v", name, err)
	}
	return c
}

func mustCreateNumber(t *testing.T, db *sql.DB, deviceID int64, phone string) *Number {
	t.Helper()
	n, err := (&NumberModel{DB: db}).Create(deviceID, phone, nil)
	if err != nil {
		t.Fatalf("Failed to create number %q: %v", phone, err)
	}
	return n
}

func wantValidation(t *testing.T, err error) {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
}

func wantConflict(t *testing.T, err error, field string) {
	t.Helper()
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected ConflictError, got %v", err)
	}
	if ce.Field != field {
		t.Errorf("Conflict field = %q, want %q", ce.Field, field)
	}
}

func wantNotFound(t *testing.T, err error) {
	t.Helper()
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}

func lastLog(t *testing.T, db *sql.DB) (string, string) {
	t.Helper()
	var typ string
	var msg sql.NullString
	err := db.QueryRow("SELECT type, message FROM logs ORDER BY id DESC LIMIT 1").Scan(&typ, &msg)
	if err != nil {
		t.Fatalf("Failed to read last log entry: %v", err)
	}
	return typ, msg.String
}
