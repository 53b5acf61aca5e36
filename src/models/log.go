package models

import (
	"database/sql"
)

// LogType tags an audit log entry. The set is closed: logEvent rejects
// anything else.
type LogType string

const (
	LogDeviceCreated   LogType = "device_created"
	LogDeviceStatus    LogType = "device_status"
	LogNumberAdded     LogType = "number_added"
	LogNumberDeleted   LogType = "number_deleted"
	LogNumberClientSet LogType = "number_client_set"
	LogNumberStatus    LogType = "number_status"
	LogClientCreated   LogType = "client_created"
	LogClientUpdated   LogType = "client_updated"
	LogClientDeleted   LogType = "client_deleted"
)

var validLogTypes = map[LogType]bool{
	LogDeviceCreated:   true,
	LogDeviceStatus:    true,
	LogNumberAdded:     true,
	LogNumberDeleted:   true,
	LogNumberClientSet: true,
	LogNumberStatus:    true,
	LogClientCreated:   true,
	LogClientUpdated:   true,
	LogClientDeleted:   true,
}

// LogEntry is an immutable audit record of a mutation. The id references
// are best-effort: they may outlive (or predate deletion of) the rows
// they point at.
type LogEntry struct {
	ID        int64   `json:"id"`
	DeviceID  *int64  `json:"device_id,omitempty"`
	NumberID  *int64  `json:"number_id,omitempty"`
	ClientID  *int64  `json:"client_id,omitempty"`
	Type      LogType `json:"type"`
	Message   string  `json:"message"`
	CreatedAt string  `json:"created_at"`
}

// logEvent appends an audit entry inside the caller's transaction. A
// failed write fails the enclosing operation: a mutation never commits
// without its audit trail.
func logEvent(tx *sql.Tx, e LogEntry) error {
	if !validLogTypes[e.Type] {
		return &ValidationError{Msg: "unknown log type: " + string(e.Type)}
	}
	_, err := tx.Exec(`
		INSERT INTO logs (device_id, number_id, client_id, type, message)
		VALUES (?, ?, ?, ?, ?)
	`, e.DeviceID, e.NumberID, e.ClientID, string(e.Type), e.Message)
	if err != nil {
		return storageErr("append log", err)
	}
	return nil
}

// LogModel reads the audit log.
type LogModel struct {
	DB *sql.DB
}

// ListForNumber returns up to limit most recent entries for a number,
// newest first. The limit is clamped to [1, 1000]; callers pass 0 for the
// default of 3.
func (m *LogModel) ListForNumber(numberID int64, limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = 3
	}
	if limit > 1000 {
		limit = 1000
	}

	var exists int64
	err := m.DB.QueryRow("SELECT id FROM numbers WHERE id = ?", numberID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Entity: "number"}
	}
	if err != nil {
		return nil, storageErr("lookup number", err)
	}

	rows, err := m.DB.Query(`
		SELECT id, type, message, created_at
		FROM logs
		WHERE number_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, numberID, limit)
	if err != nil {
		return nil, storageErr("list number logs", err)
	}
	defer rows.Close()

	entries := []LogEntry{}
	for rows.Next() {
		var e LogEntry
		var msg sql.NullString
		if err := rows.Scan(&e.ID, &e.Type, &msg, &e.CreatedAt); err != nil {
			return nil, storageErr("scan log entry", err)
		}
		e.Message = msg.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
