package models

import (
	"strings"
	"testing"
)

func TestClientCreate(t *testing.T) {
	db := newTestDB(t)
	m := &ClientModel{DB: db}

	c, err := m.Create("  Acme  ", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.Name != "Acme" {
		t.Errorf("Name = %q, want trimmed", c.Name)
	}
	if c.Color != DefaultClientColor {
		t.Errorf("Color = %q, want default %q", c.Color, DefaultClientColor)
	}
	if c.UpdatedAt == "" {
		t.Error("UpdatedAt empty on create")
	}

	_, err = m.Create("   ", "#fff")
	wantValidation(t, err)

	typ, msg := lastLog(t, db)
	if typ != string(LogClientCreated) || !strings.Contains(msg, "Acme") {
		t.Errorf("Create log = %q %q", typ, msg)
	}
}

func TestClientUpdate(t *testing.T) {
	db := newTestDB(t)
	m := &ClientModel{DB: db}
	c := mustCreateClient(t, db, "Acme")

	_, err := m.Update(c.ID, ClientUpdate{})
	wantValidation(t, err)

	_, err = m.Update(9999, ClientUpdate{Name: strPtr("X")})
	wantNotFound(t, err)

	_, err = m.Update(c.ID, ClientUpdate{Name: strPtr("   ")})
	wantValidation(t, err)

	updated, err := m.Update(c.ID, ClientUpdate{Name: strPtr("Acme Corp"), Color: strPtr("")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "Acme Corp" {
		t.Errorf("Name = %q, want Acme Corp", updated.Name)
	}
	if updated.Color != DefaultClientColor {
		t.Errorf("Empty color = %q, want default", updated.Color)
	}

	typ, msg := lastLog(t, db)
	if typ != string(LogClientUpdated) || !strings.Contains(msg, "Acme Corp") {
		t.Errorf("Update log = %q %q", typ, msg)
	}
}

func TestClientDeleteUnassignsNumbers(t *testing.T) {
	db := newTestDB(t)
	clients := &ClientModel{DB: db}
	numbers := &NumberModel{DB: db}

	d := mustCreateDevice(t, db, "A")
	c := mustCreateClient(t, db, "Acme")
	n := mustCreateNumber(t, db, d.ID, "111")
	if _, err := numbers.Update(n.ID, NumberUpdate{SetClient: true, ClientID: &c.ID}); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	if err := clients.Delete(c.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var clientID any
	if err := db.QueryRow("SELECT client_id FROM numbers WHERE id = ?", n.ID).Scan(&clientID); err != nil {
		t.Fatalf("Number lost after client delete: %v", err)
	}
	if clientID != nil {
		t.Errorf("client_id = %v after client delete, want NULL", clientID)
	}

	typ, msg := lastLog(t, db)
	if typ != string(LogClientDeleted) || !strings.Contains(msg, "Acme") {
		t.Errorf("Delete log = %q %q", typ, msg)
	}

	wantNotFound(t, clients.Delete(c.ID))
}

func strPtr(s string) *string { return &s }
