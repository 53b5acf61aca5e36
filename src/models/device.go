package models

import (
	"database/sql"
	"fmt"
	"strings"
)

// Device is a handset owning zero or more numbers. Status is the legacy
// device-level enum (ok/banido); it predates the per-number status and is
// kept for old databases and the UI badge that still reads it.
type Device struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Brand      *string  `json:"brand"`
	IMEI       *string  `json:"imei"`
	Status     string   `json:"status"`
	IsDisabled int      `json:"is_disabled"`
	Note       *string  `json:"note"`
	CreatedAt  string   `json:"created_at"`
	Numbers    []Number `json:"numbers"`
}

var validDeviceStatuses = map[string]bool{
	"ok":     true,
	"banido": true,
}

// DeviceInput carries the fields accepted when creating a device. String
// fields are normalized (trimmed, empty stored as NULL).
type DeviceInput struct {
	Name       string
	Brand      string
	IMEI       string
	IsDisabled int
	Note       string
}

// DeviceUpdate carries a partial update; nil fields are left unchanged.
type DeviceUpdate struct {
	Name       *string
	Brand      *string
	IMEI       *string
	Status     *string
	IsDisabled *int
	Note       *string
}

// DeviceFilter selects and orders the device list. Status and ClientID
// match devices owning at least one number with that status/client and
// also narrow the numbers returned per device; Query is a device-level
// free-text match only. Order is "device" (default) or "number".
type DeviceFilter struct {
	Query    string
	Status   string
	ClientID int64
	Order    string
}

// DeviceModel handles device database operations.
type DeviceModel struct {
	DB *sql.DB
}

// norm trims a string and maps the empty result to NULL.
func norm(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

type rowQuerier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func scanDevice(q rowQuerier, id int64) (*Device, error) {
	d := &Device{}
	var brand, imei, note sql.NullString
	err := q.QueryRow(`
		SELECT id, name, brand, imei, status, is_disabled, note, created_at
		FROM devices WHERE id = ?
	`, id).Scan(&d.ID, &d.Name, &brand, &imei, &d.Status, &d.IsDisabled, &note, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Entity: "device"}
	}
	if err != nil {
		return nil, storageErr("fetch device", err)
	}
	if brand.Valid {
		d.Brand = &brand.String
	}
	if imei.Valid {
		d.IMEI = &imei.String
	}
	if note.Valid {
		d.Note = &note.String
	}
	return d, nil
}

// Create inserts a device and writes a device_created audit entry. The
// name must be non-empty after trimming and unique ignoring case and
// surrounding whitespace; the IMEI, when present, must be unique.
func (m *DeviceModel) Create(in DeviceInput) (*Device, error) {
	name := norm(in.Name)
	if name == nil {
		return nil, &ValidationError{Msg: `field "name" is required`}
	}
	brand := norm(in.Brand)
	imei := norm(in.IMEI)
	note := norm(in.Note)
	disabled := 0
	if in.IsDisabled != 0 {
		disabled = 1
	}

	tx, err := m.DB.Begin()
	if err != nil {
		return nil, storageErr("begin create device", err)
	}
	defer tx.Rollback()

	var dup int64
	err = tx.QueryRow("SELECT id FROM devices WHERE lower(trim(name)) = lower(trim(?))", *name).Scan(&dup)
	if err == nil {
		return nil, &ConflictError{Field: "name", Msg: "device name already registered"}
	}
	if err != sql.ErrNoRows {
		return nil, storageErr("check device name", err)
	}

	if imei != nil {
		err = tx.QueryRow("SELECT id FROM devices WHERE imei = ?", *imei).Scan(&dup)
		if err == nil {
			return nil, &ConflictError{Field: "imei", Msg: "IMEI already registered"}
		}
		if err != sql.ErrNoRows {
			return nil, storageErr("check device imei", err)
		}
	}

	res, err := tx.Exec(`
		INSERT INTO devices (name, brand, imei, is_disabled, note)
		VALUES (?, ?, ?, ?, ?)
	`, *name, brand, imei, disabled, note)
	if err != nil {
		return nil, storageErr("insert device", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, storageErr("insert device", err)
	}

	if err := logEvent(tx, LogEntry{
		DeviceID: &id,
		Type:     LogDeviceCreated,
		Message:  fmt.Sprintf("Device created: %s", *name),
	}); err != nil {
		return nil, err
	}

	d, err := scanDevice(tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit create device", err)
	}
	d.Numbers = []Number{}
	return d, nil
}

// Update applies a partial update. Name changes are re-checked for
// uniqueness against all other devices; a legacy status change writes a
// device_status audit entry. The returned device includes all its
// numbers.
func (m *DeviceModel) Update(id int64, u DeviceUpdate) (*Device, error) {
	if u.Status != nil && !validDeviceStatuses[*u.Status] {
		return nil, &ValidationError{Msg: `invalid status: use "ok" or "banido"`}
	}

	tx, err := m.DB.Begin()
	if err != nil {
		return nil, storageErr("begin update device", err)
	}
	defer tx.Rollback()

	var prevStatus string
	err = tx.QueryRow("SELECT status FROM devices WHERE id = ?", id).Scan(&prevStatus)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Entity: "device"}
	}
	if err != nil {
		return nil, storageErr("fetch device", err)
	}

	fields := []string{}
	values := []any{}

	if u.Name != nil {
		name := norm(*u.Name)
		if name == nil {
			return nil, &ValidationError{Msg: `field "name" is required`}
		}
		var clash int64
		err = tx.QueryRow(
			"SELECT id FROM devices WHERE lower(trim(name)) = lower(trim(?)) AND id <> ?",
			*name, id,
		).Scan(&clash)
		if err == nil {
			return nil, &ConflictError{Field: "name", Msg: "device name already registered"}
		}
		if err != sql.ErrNoRows {
			return nil, storageErr("check device name", err)
		}
		fields = append(fields, "name = ?")
		values = append(values, *name)
	}
	if u.Brand != nil {
		fields = append(fields, "brand = ?")
		values = append(values, norm(*u.Brand))
	}
	if u.IMEI != nil {
		imei := norm(*u.IMEI)
		if imei != nil {
			var clash int64
			err = tx.QueryRow("SELECT id FROM devices WHERE imei = ? AND id <> ?", *imei, id).Scan(&clash)
			if err == nil {
				return nil, &ConflictError{Field: "imei", Msg: "IMEI already registered"}
			}
			if err != sql.ErrNoRows {
				return nil, storageErr("check device imei", err)
			}
		}
		fields = append(fields, "imei = ?")
		values = append(values, imei)
	}
	if u.Status != nil {
		fields = append(fields, "status = ?")
		values = append(values, *u.Status)
	}
	if u.IsDisabled != nil {
		disabled := 0
		if *u.IsDisabled != 0 {
			disabled = 1
		}
		fields = append(fields, "is_disabled = ?")
		values = append(values, disabled)
	}
	if u.Note != nil {
		fields = append(fields, "note = ?")
		values = append(values, norm(*u.Note))
	}

	if len(fields) == 0 {
		return nil, &ValidationError{Msg: "nothing to update"}
	}

	values = append(values, id)
	if _, err := tx.Exec("UPDATE devices SET "+strings.Join(fields, ", ")+" WHERE id = ?", values...); err != nil {
		return nil, storageErr("update device", err)
	}

	if u.Status != nil && *u.Status != prevStatus {
		if err := logEvent(tx, LogEntry{
			DeviceID: &id,
			Type:     LogDeviceStatus,
			Message:  fmt.Sprintf("Legacy status: %s -> %s", prevStatus, *u.Status),
		}); err != nil {
			return nil, err
		}
	}

	d, err := scanDevice(tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit update device", err)
	}

	numbers, err := listNumbersForDevice(m.DB, id, "", 0)
	if err != nil {
		return nil, err
	}
	d.Numbers = numbers
	return d, nil
}

// Delete removes a device; owned numbers go with it via the foreign key
// cascade. Cascaded numbers are deliberately not audited, matching how
// the audit trail has always behaved.
func (m *DeviceModel) Delete(id int64) error {
	res, err := m.DB.Exec("DELETE FROM devices WHERE id = ?", id)
	if err != nil {
		return storageErr("delete device", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete device", err)
	}
	if n == 0 {
		return &NotFoundError{Entity: "device"}
	}
	return nil
}

// List returns devices matching the filter, each annotated with the
// subset of its numbers passing the status/client filters. When a
// status or client filter is set, devices with no matching number are
// excluded. The free-text query matches device name, brand and IMEI plus
// owned phone numbers and their clients' names; it selects devices but
// does not narrow their numbers.
func (m *DeviceModel) List(f DeviceFilter) ([]Device, error) {
	status := f.Status
	if !validNumberStatuses[status] {
		status = ""
	}

	where := []string{}
	params := []any{}

	if status != "" {
		where = append(where, `EXISTS (
			SELECT 1 FROM numbers nn
			WHERE nn.device_id = d.id AND nn.status = ?
		)`)
		params = append(params, status)
	}
	if f.ClientID != 0 {
		where = append(where, `EXISTS (
			SELECT 1 FROM numbers n2
			WHERE n2.device_id = d.id AND n2.client_id = ?
		)`)
		params = append(params, f.ClientID)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		pat := "%" + q + "%"
		where = append(where, `(
			d.name LIKE ? OR d.brand LIKE ? OR d.imei LIKE ?
			OR EXISTS (
				SELECT 1
				FROM numbers n3
				LEFT JOIN clients c3 ON c3.id = n3.client_id
				WHERE n3.device_id = d.id
					AND (n3.phone LIKE ? OR c3.name LIKE ?)
			)
		)`)
		params = append(params, pat, pat, pat, pat, pat)
	}

	query := `
		SELECT d.id, d.name, d.brand, d.imei, d.status, d.is_disabled, d.note, d.created_at
		FROM devices d
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY d.id DESC"

	rows, err := m.DB.Query(query, params...)
	if err != nil {
		return nil, storageErr("list devices", err)
	}
	defer rows.Close()

	devices := []Device{}
	for rows.Next() {
		var d Device
		var brand, imei, note sql.NullString
		if err := rows.Scan(&d.ID, &d.Name, &brand, &imei, &d.Status, &d.IsDisabled, &note, &d.CreatedAt); err != nil {
			return nil, storageErr("scan device", err)
		}
		if brand.Valid {
			d.Brand = &brand.String
		}
		if imei.Valid {
			d.IMEI = &imei.String
		}
		if note.Valid {
			d.Note = &note.String
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list devices", err)
	}

	filtered := devices[:0]
	for i := range devices {
		numbers, err := listNumbersForDevice(m.DB, devices[i].ID, status, f.ClientID)
		if err != nil {
			return nil, err
		}
		devices[i].Numbers = numbers
		if len(numbers) == 0 && (status != "" || f.ClientID != 0) {
			continue
		}
		filtered = append(filtered, devices[i])
	}

	sortDevices(filtered, f.Order)
	return filtered, nil
}
