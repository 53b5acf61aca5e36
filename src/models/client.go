package models

import (
	"database/sql"
	"fmt"
	"strings"
)

// DefaultClientColor is the neutral gray a client gets when no display
// color is chosen.
const DefaultClientColor = "#64748b"

// Client is a lessee a number can be assigned to.
type Client struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ClientUpdate carries a partial update; nil fields are left unchanged.
type ClientUpdate struct {
	Name  *string
	Color *string
}

// ClientModel handles client database operations.
type ClientModel struct {
	DB *sql.DB
}

func scanClient(q rowQuerier, id int64) (*Client, error) {
	c := &Client{}
	err := q.QueryRow(`
		SELECT id, name, color, created_at, COALESCE(updated_at, created_at)
		FROM clients WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Color, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Entity: "client"}
	}
	if err != nil {
		return nil, storageErr("fetch client", err)
	}
	return c, nil
}

// List returns all clients, newest first.
func (m *ClientModel) List() ([]Client, error) {
	rows, err := m.DB.Query(`
		SELECT id, name, color, created_at, COALESCE(updated_at, created_at)
		FROM clients
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, storageErr("list clients", err)
	}
	defer rows.Close()

	clients := []Client{}
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, storageErr("scan client", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// Create inserts a client and writes a client_created audit entry.
func (m *ClientModel) Create(name, color string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Msg: `field "name" is required`}
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = DefaultClientColor
	}

	tx, err := m.DB.Begin()
	if err != nil {
		return nil, storageErr("begin create client", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO clients (name, color, updated_at)
		VALUES (?, ?, datetime('now'))
	`, name, color)
	if err != nil {
		return nil, storageErr("insert client", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, storageErr("insert client", err)
	}

	if err := logEvent(tx, LogEntry{
		ClientID: &id,
		Type:     LogClientCreated,
		Message:  fmt.Sprintf("Client created: %s", name),
	}); err != nil {
		return nil, err
	}

	c, err := scanClient(tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit create client", err)
	}
	return c, nil
}

// Update renames and/or recolors a client. Always bumps updated_at and
// writes a client_updated audit entry.
func (m *ClientModel) Update(id int64, u ClientUpdate) (*Client, error) {
	if u.Name == nil && u.Color == nil {
		return nil, &ValidationError{Msg: "nothing to update"}
	}

	tx, err := m.DB.Begin()
	if err != nil {
		return nil, storageErr("begin update client", err)
	}
	defer tx.Rollback()

	var curName string
	err = tx.QueryRow("SELECT name FROM clients WHERE id = ?", id).Scan(&curName)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Entity: "client"}
	}
	if err != nil {
		return nil, storageErr("fetch client", err)
	}

	fields := []string{}
	values := []any{}
	logName := curName

	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return nil, &ValidationError{Msg: `field "name" is required`}
		}
		fields = append(fields, "name = ?")
		values = append(values, name)
		logName = name
	}
	if u.Color != nil {
		color := strings.TrimSpace(*u.Color)
		if color == "" {
			color = DefaultClientColor
		}
		fields = append(fields, "color = ?")
		values = append(values, color)
	}

	fields = append(fields, "updated_at = datetime('now')")
	values = append(values, id)
	if _, err := tx.Exec("UPDATE clients SET "+strings.Join(fields, ", ")+" WHERE id = ?", values...); err != nil {
		return nil, storageErr("update client", err)
	}

	if err := logEvent(tx, LogEntry{
		ClientID: &id,
		Type:     LogClientUpdated,
		Message:  fmt.Sprintf("Client updated: %s", logName),
	}); err != nil {
		return nil, err
	}

	c, err := scanClient(tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit update client", err)
	}
	return c, nil
}

// Delete unassigns every number referencing the client, then removes the
// client and writes a client_deleted audit entry. Numbers themselves
// survive.
func (m *ClientModel) Delete(id int64) error {
	tx, err := m.DB.Begin()
	if err != nil {
		return storageErr("begin delete client", err)
	}
	defer tx.Rollback()

	var name string
	err = tx.QueryRow("SELECT name FROM clients WHERE id = ?", id).Scan(&name)
	if err == sql.ErrNoRows {
		return &NotFoundError{Entity: "client"}
	}
	if err != nil {
		return storageErr("fetch client", err)
	}

	if _, err := tx.Exec("UPDATE numbers SET client_id = NULL WHERE client_id = ?", id); err != nil {
		return storageErr("unassign numbers", err)
	}
	if _, err := tx.Exec("DELETE FROM clients WHERE id = ?", id); err != nil {
		return storageErr("delete client", err)
	}

	if err := logEvent(tx, LogEntry{
		ClientID: &id,
		Type:     LogClientDeleted,
		Message:  fmt.Sprintf("Client removed: %s", name),
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit delete client", err)
	}
	return nil
}
