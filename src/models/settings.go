package models

import (
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// isoDateShape is the accepted shape for the last-update date. It is a
// format check only, not a calendar check: "2024-13-40" passes. The UI
// supplies dates from a date picker, so stricter validation has never
// been needed.
var isoDateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// LastUpdate is the payload stored under the "last_update" settings key:
// a free-text note and an optional ISO date, plus the row's last-modified
// timestamp on reads.
type LastUpdate struct {
	Note      string  `json:"note"`
	Date      *string `json:"date"`
	UpdatedAt *string `json:"updated_at"`
}

// SettingsModel is a generic JSON key/value store with last-modified
// tracking, upserted in place.
type SettingsModel struct {
	DB *sql.DB
}

// Get unmarshals the value stored under key into dest and returns the
// row's updated_at. A missing key returns NotFoundError.
func (m *SettingsModel) Get(key string, dest any) (string, error) {
	var value, updatedAt string
	err := m.DB.QueryRow("SELECT value, updated_at FROM settings WHERE key = ?", key).Scan(&value, &updatedAt)
	if err == sql.ErrNoRows {
		return "", &NotFoundError{Entity: "setting"}
	}
	if err != nil {
		return "", storageErr("fetch setting", err)
	}
	if err := json.Unmarshal([]byte(value), dest); err != nil {
		return "", storageErr("decode setting", err)
	}
	return updatedAt, nil
}

// Set JSON-serializes value and upserts it under key, bumping
// updated_at.
func (m *SettingsModel) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return storageErr("encode setting", err)
	}
	_, err = m.DB.Exec(`
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = datetime('now')
	`, key, string(data))
	if err != nil {
		return storageErr("upsert setting", err)
	}
	return nil
}

// GetLastUpdate reads the last-update record. When none was ever saved
// it returns an empty record rather than an error.
func (m *SettingsModel) GetLastUpdate() (*LastUpdate, error) {
	var lu LastUpdate
	updatedAt, err := m.Get("last_update", &lu)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return &LastUpdate{}, nil
		}
		return nil, err
	}
	lu.UpdatedAt = &updatedAt
	return &lu, nil
}

// SetLastUpdate validates and stores the last-update record, returning
// it as re-read from the store.
func (m *SettingsModel) SetLastUpdate(note string, date *string) (*LastUpdate, error) {
	note = strings.TrimSpace(note)
	if date != nil {
		d := strings.TrimSpace(*date)
		if !isoDateShape.MatchString(d) {
			return nil, &ValidationError{Msg: "invalid date format: use YYYY-MM-DD"}
		}
		date = &d
	}
	if err := m.Set("last_update", map[string]any{"note": note, "date": date}); err != nil {
		return nil, err
	}
	return m.GetLastUpdate()
}
