package models

import (
	"database/sql"
	"fmt"
	"strings"
)

// Number is a phone line ("chip") installed in exactly one device and
// optionally leased to one client. ClientName and ClientColor are joined
// in for display and are nil when unassigned.
type Number struct {
	ID          int64   `json:"id"`
	DeviceID    int64   `json:"device_id"`
	Phone       string  `json:"phone"`
	ClientID    *int64  `json:"client_id"`
	Status      string  `json:"status"`
	ClientName  *string `json:"client_name"`
	ClientColor *string `json:"client_color"`
}

var validNumberStatuses = map[string]bool{
	"ok":           true,
	"banido":       true,
	"desconectado": true,
	"livre":        true,
}

// NumberUpdate carries a partial update. SetClient distinguishes "leave
// the assignment alone" from "clear it": when SetClient is true and
// ClientID is nil the number is unassigned.
type NumberUpdate struct {
	SetClient bool
	ClientID  *int64
	Status    *string
}

// Stats counts numbers by status.
type Stats struct {
	OK           int `json:"ok"`
	Banido       int `json:"banido"`
	Desconectado int `json:"desconectado"`
	Livre        int `json:"livre"`
	Total        int `json:"total"`
}

// NumberModel handles number database operations.
type NumberModel struct {
	DB *sql.DB
}

const numberSelect = `
	SELECT n.id, n.device_id, n.phone, n.client_id, n.status,
	       c.name AS client_name, c.color AS client_color
	FROM numbers n
	LEFT JOIN clients c ON c.id = n.client_id
`

func scanNumber(scan func(dest ...any) error) (Number, error) {
	var n Number
	var clientID sql.NullInt64
	var clientName, clientColor sql.NullString
	if err := scan(&n.ID, &n.DeviceID, &n.Phone, &clientID, &n.Status, &clientName, &clientColor); err != nil {
		return n, err
	}
	if clientID.Valid {
		n.ClientID = &clientID.Int64
	}
	if clientName.Valid {
		n.ClientName = &clientName.String
	}
	if clientColor.Valid {
		n.ClientColor = &clientColor.String
	}
	return n, nil
}

// listNumbersForDevice returns a device's numbers, optionally narrowed by
// status and client, newest first.
func listNumbersForDevice(db *sql.DB, deviceID int64, status string, clientID int64) ([]Number, error) {
	where := []string{"n.device_id = ?"}
	params := []any{deviceID}

	if validNumberStatuses[status] {
		where = append(where, "n.status = ?")
		params = append(params, status)
	}
	if clientID != 0 {
		where = append(where, "n.client_id = ?")
		params = append(params, clientID)
	}

	rows, err := db.Query(numberSelect+" WHERE "+strings.Join(where, " AND ")+" ORDER BY n.id DESC", params...)
	if err != nil {
		return nil, storageErr("list numbers", err)
	}
	defer rows.Close()

	numbers := []Number{}
	for rows.Next() {
		n, err := scanNumber(rows.Scan)
		if err != nil {
			return nil, storageErr("scan number", err)
		}
		numbers = append(numbers, n)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list numbers", err)
	}
	return numbers, nil
}

// ListForDevice returns a device's numbers, optionally filtered by status
// and assigned client.
func (m *NumberModel) ListForDevice(deviceID int64, status string, clientID int64) ([]Number, error) {
	return listNumbersForDevice(m.DB, deviceID, status, clientID)
}

// Create adds a number under a device. The phone must be globally unique;
// the initial status is always "ok". Writes a number_added audit entry.
func (m *NumberModel) Create(deviceID int64, phone string, clientID *int64) (*Number, error) {
	if phone == "" {
		return nil, &ValidationError{Msg: `field "phone" is required`}
	}

	tx, err := m.DB.Begin()
	if err != nil {
		return nil, storageErr("begin create number", err)
	}
	defer tx.Rollback()

	var exists int64
	err = tx.QueryRow("SELECT id FROM devices WHERE id = ?", deviceID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Entity: "device"}
	}
	if err != nil {
		return nil, storageErr("lookup device", err)
	}

	if clientID != nil {
		err = tx.QueryRow("SELECT id FROM clients WHERE id = ?", *clientID).Scan(&exists)
		if err == sql.ErrNoRows {
			return nil, &ValidationError{Msg: "invalid client"}
		}
		if err != nil {
			return nil, storageErr("lookup client", err)
		}
	}

	err = tx.QueryRow("SELECT id FROM numbers WHERE phone = ?", phone).Scan(&exists)
	if err == nil {
		return nil, &ConflictError{Field: "phone", Msg: "number already registered"}
	}
	if err != sql.ErrNoRows {
		return nil, storageErr("check phone", err)
	}

	res, err := tx.Exec(`
		INSERT INTO numbers (device_id, phone, client_id, status)
		VALUES (?, ?, ?, 'ok')
	`, deviceID, phone, clientID)
	if err != nil {
		return nil, storageErr("insert number", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, storageErr("insert number", err)
	}

	n, err := scanNumber(tx.QueryRow(numberSelect+" WHERE n.id = ?", id).Scan)
	if err != nil {
		return nil, storageErr("fetch number", err)
	}

	if err := logEvent(tx, LogEntry{
		DeviceID: &deviceID,
		NumberID: &id,
		ClientID: clientID,
		Type:     LogNumberAdded,
		Message:  fmt.Sprintf("Number %s added", n.Phone),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit create number", err)
	}
	return &n, nil
}

// Update changes a number's client assignment and/or status. A real
// client change writes a number_client_set entry whose message says
// whether the number was assigned, unassigned or reassigned; a real
// status change writes a number_status entry.
func (m *NumberModel) Update(id int64, u NumberUpdate) (*Number, error) {
	if u.Status != nil && !validNumberStatuses[*u.Status] {
		return nil, &ValidationError{Msg: `invalid status: use "ok", "banido", "desconectado" or "livre"`}
	}

	tx, err := m.DB.Begin()
	if err != nil {
		return nil, storageErr("begin update number", err)
	}
	defer tx.Rollback()

	before, err := scanNumber(tx.QueryRow(numberSelect+" WHERE n.id = ?", id).Scan)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Entity: "number"}
	}
	if err != nil {
		return nil, storageErr("fetch number", err)
	}

	if u.SetClient && u.ClientID != nil {
		var exists int64
		err = tx.QueryRow("SELECT id FROM clients WHERE id = ?", *u.ClientID).Scan(&exists)
		if err == sql.ErrNoRows {
			return nil, &ValidationError{Msg: "invalid client"}
		}
		if err != nil {
			return nil, storageErr("lookup client", err)
		}
	}

	fields := []string{}
	values := []any{}
	if u.SetClient {
		fields = append(fields, "client_id = ?")
		values = append(values, u.ClientID)
	}
	if u.Status != nil {
		fields = append(fields, "status = ?")
		values = append(values, *u.Status)
	}
	if len(fields) == 0 {
		return nil, &ValidationError{Msg: "nothing to update"}
	}

	values = append(values, id)
	if _, err := tx.Exec("UPDATE numbers SET "+strings.Join(fields, ", ")+" WHERE id = ?", values...); err != nil {
		return nil, storageErr("update number", err)
	}

	after, err := scanNumber(tx.QueryRow(numberSelect+" WHERE n.id = ?", id).Scan)
	if err != nil {
		return nil, storageErr("fetch number", err)
	}

	if u.SetClient {
		var msg string
		switch {
		case before.ClientID == nil && after.ClientID != nil:
			msg = fmt.Sprintf("Number %s assigned to client %s", after.Phone, clientLabel(after.ClientName))
		case before.ClientID != nil && after.ClientID == nil:
			msg = fmt.Sprintf("Number %s unassigned from client", after.Phone)
		case before.ClientID != nil && after.ClientID != nil && *before.ClientID != *after.ClientID:
			msg = fmt.Sprintf("Number %s reassigned to client %s", after.Phone, clientLabel(after.ClientName))
		}
		if msg != "" {
			if err := logEvent(tx, LogEntry{
				DeviceID: &after.DeviceID,
				NumberID: &after.ID,
				ClientID: after.ClientID,
				Type:     LogNumberClientSet,
				Message:  msg,
			}); err != nil {
				return nil, err
			}
		}
	}
	if u.Status != nil && *u.Status != before.Status {
		if err := logEvent(tx, LogEntry{
			DeviceID: &after.DeviceID,
			NumberID: &after.ID,
			Type:     LogNumberStatus,
			Message:  fmt.Sprintf("Status: %s -> %s", before.Status, *u.Status),
		}); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit update number", err)
	}
	return &after, nil
}

func clientLabel(name *string) string {
	if name == nil {
		return "?"
	}
	return *name
}

// Delete removes a number, capturing its phone and device for the
// number_deleted audit entry before the row goes away.
func (m *NumberModel) Delete(id int64) error {
	tx, err := m.DB.Begin()
	if err != nil {
		return storageErr("begin delete number", err)
	}
	defer tx.Rollback()

	var deviceID int64
	var phone string
	err = tx.QueryRow("SELECT device_id, phone FROM numbers WHERE id = ?", id).Scan(&deviceID, &phone)
	if err == sql.ErrNoRows {
		return &NotFoundError{Entity: "number"}
	}
	if err != nil {
		return storageErr("fetch number", err)
	}

	if _, err := tx.Exec("DELETE FROM numbers WHERE id = ?", id); err != nil {
		return storageErr("delete number", err)
	}

	if err := logEvent(tx, LogEntry{
		DeviceID: &deviceID,
		NumberID: &id,
		Type:     LogNumberDeleted,
		Message:  fmt.Sprintf("Number %s removed", phone),
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit delete number", err)
	}
	return nil
}

// Stats returns the number counts per status, zero-filled, plus the
// total.
func (m *NumberModel) Stats() (*Stats, error) {
	rows, err := m.DB.Query("SELECT status, COUNT(*) FROM numbers GROUP BY status")
	if err != nil {
		return nil, storageErr("count numbers", err)
	}
	defer rows.Close()

	s := &Stats{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, storageErr("scan stats", err)
		}
		switch status {
		case "ok":
			s.OK = count
		case "banido":
			s.Banido = count
		case "desconectado":
			s.Desconectado = count
		case "livre":
			s.Livre = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("count numbers", err)
	}
	s.Total = s.OK + s.Banido + s.Desconectado + s.Livre
	return s, nil
}
