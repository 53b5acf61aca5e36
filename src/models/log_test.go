package models

import (
	"fmt"
	"testing"
)

func TestListForNumberDefaultsAndClamp(t *testing.T) {
	db := newTestDB(t)
	logs := &LogModel{DB: db}
	numbers := &NumberModel{DB: db}

	d := mustCreateDevice(t, db, "A")
	n := mustCreateNumber(t, db, d.ID, "111")

	// Generate a handful of status-change entries.
	statuses := []string{"banido", "ok", "desconectado", "ok", "livre"}
	for _, s := range statuses {
		sv := s
		if _, err := numbers.Update(n.ID, NumberUpdate{Status: &sv}); err != nil {
			t.Fatalf("Status update failed: %v", err)
		}
	}

	// Default limit is 3, newest first.
	entries, err := logs.ListForNumber(n.ID, 0)
	if err != nil {
		t.Fatalf("ListForNumber failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Default list length = %d, want 3", len(entries))
	}
	if entries[0].ID < entries[1].ID || entries[1].ID < entries[2].ID {
		t.Error("Entries not newest first")
	}

	// Explicit limit covers everything, number_added included.
	entries, err = logs.ListForNumber(n.ID, 100)
	if err != nil {
		t.Fatalf("ListForNumber failed: %v", err)
	}
	if len(entries) != len(statuses)+1 {
		t.Errorf("Full list length = %d, want %d", len(entries), len(statuses)+1)
	}

	_, err = logs.ListForNumber(9999, 0)
	wantNotFound(t, err)
}

func TestLogEventRejectsUnknownType(t *testing.T) {
	db := newTestDB(t)

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	defer tx.Rollback()

	err = logEvent(tx, LogEntry{Type: LogType("made_up"), Message: "x"})
	wantValidation(t, err)
}

func TestLogEntriesOutliveTargets(t *testing.T) {
	db := newTestDB(t)
	numbers := &NumberModel{DB: db}

	d := mustCreateDevice(t, db, "A")
	n := mustCreateNumber(t, db, d.ID, "111")
	if err := numbers.Delete(n.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM logs WHERE number_id = %d", n.ID)
	if err := db.QueryRow(query).Scan(&count); err != nil {
		t.Fatalf("Failed to count logs: %v", err)
	}
	if count < 2 {
		t.Errorf("Log count for deleted number = %d, want the add and delete entries", count)
	}
}
