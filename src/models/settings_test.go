package models

import "testing"

func TestLastUpdateEmpty(t *testing.T) {
	db := newTestDB(t)
	m := &SettingsModel{DB: db}

	lu, err := m.GetLastUpdate()
	if err != nil {
		t.Fatalf("GetLastUpdate failed: %v", err)
	}
	if lu.Note != "" || lu.Date != nil || lu.UpdatedAt != nil {
		t.Errorf("Empty record = %+v, want zero values", lu)
	}
}

func TestLastUpdateRoundTrip(t *testing.T) {
	db := newTestDB(t)
	m := &SettingsModel{DB: db}

	date := "2024-06-01"
	lu, err := m.SetLastUpdate("  chips conferidos  ", &date)
	if err != nil {
		t.Fatalf("SetLastUpdate failed: %v", err)
	}
	if lu.Note != "chips conferidos" {
		t.Errorf("Note = %q, want trimmed", lu.Note)
	}
	if lu.Date == nil || *lu.Date != date {
		t.Errorf("Date = %v, want %q", lu.Date, date)
	}
	if lu.UpdatedAt == nil {
		t.Error("UpdatedAt missing after save")
	}

	// Overwrite with no date.
	lu, err = m.SetLastUpdate("nova nota", nil)
	if err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}
	if lu.Note != "nova nota" || lu.Date != nil {
		t.Errorf("Overwritten record = %+v", lu)
	}
}

func TestLastUpdateDateShape(t *testing.T) {
	db := newTestDB(t)
	m := &SettingsModel{DB: db}

	// Shape check only, not a calendar check.
	impossible := "2024-13-40"
	if _, err := m.SetLastUpdate("x", &impossible); err != nil {
		t.Errorf("Shape-valid date rejected: %v", err)
	}

	for _, bad := range []string{"2024-1-1", "01/06/2024", "yesterday", ""} {
		b := bad
		_, err := m.SetLastUpdate("x", &b)
		wantValidation(t, err)
	}
}

func TestSettingsGetMissingKey(t *testing.T) {
	db := newTestDB(t)
	m := &SettingsModel{DB: db}

	var dest map[string]any
	_, err := m.Get("nope", &dest)
	wantNotFound(t, err)
}
