package database

import (
	"database/sql"
	"fmt"
	"log"
	"regexp"
)

// The two shapes the numbers status CHECK clause has shipped with. Old
// databases carry the two-value form; the constraint text stored in
// sqlite_master is the only place the difference is visible.
var (
	statusCheckCurrent = regexp.MustCompile(`(?i)CHECK\s*\(\s*status\s+IN\s*\(\s*'ok'\s*,\s*'banido'\s*,\s*'desconectado'\s*,\s*'livre'\s*\)\s*\)`)
	statusCheckLegacy  = regexp.MustCompile(`(?i)CHECK\s*\(\s*status\s+IN\s*\(\s*'ok'\s*,\s*'banido'\s*\)\s*\)`)
)

// runMigrations applies migrations from fromVersion up to toVersion,
// recording each step in schema_version.
func runMigrations(db *sql.DB, fromVersion, toVersion int) error {
	log.Printf("Running database migrations from version %d to %d", fromVersion, toVersion)

	for v := fromVersion + 1; v <= toVersion; v++ {
		switch v {
		case 2:
			if err := migrateToV2(db); err != nil {
				return fmt.Errorf("migration to v2 failed: %w", err)
			}
		default:
			return fmt.Errorf("unknown migration version: %d", v)
		}

		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", v); err != nil {
			return fmt.Errorf("failed to update schema version to %d: %w", v, err)
		}

		log.Printf("Successfully migrated to version %d", v)
	}

	return nil
}

// migrateToV2 brings a pre-version-tracking database up to the current
// shape: adds the columns and indexes later builds introduced, backfills
// null number statuses and widens the two-value status constraint to the
// four-value one. Every step is guarded by an existence check, so the
// whole migration is a no-op on an up-to-date schema.
func migrateToV2(db *sql.DB) error {
	columns := []struct {
		table, column, ddl string
	}{
		{"devices", "is_disabled", "ALTER TABLE devices ADD COLUMN is_disabled INTEGER NOT NULL DEFAULT 0"},
		{"devices", "note", "ALTER TABLE devices ADD COLUMN note TEXT"},
		{"clients", "updated_at", "ALTER TABLE clients ADD COLUMN updated_at TEXT"},
		{"numbers", "client_id", "ALTER TABLE numbers ADD COLUMN client_id INTEGER"},
		{"numbers", "status", "ALTER TABLE numbers ADD COLUMN status TEXT"},
	}
	for _, c := range columns {
		exists, err := columnExists(db, c.table, c.column)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := db.Exec(c.ddl); err != nil {
			return fmt.Errorf("failed to add column %s.%s: %w", c.table, c.column, err)
		}
	}

	if _, err := db.Exec("UPDATE numbers SET status = 'ok' WHERE status IS NULL"); err != nil {
		return fmt.Errorf("failed to backfill number status: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_numbers_client_id ON numbers(client_id)",
		"CREATE INDEX IF NOT EXISTS idx_numbers_status    ON numbers(status)",
		"CREATE INDEX IF NOT EXISTS idx_numbers_device    ON numbers(device_id)",
		"CREATE INDEX IF NOT EXISTS idx_numbers_phone     ON numbers(phone)",
		"CREATE INDEX IF NOT EXISTS idx_logs_number ON logs(number_id, created_at DESC)",
	}
	for _, stmt := range indexes {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	legacy, err := numbersHasLegacyStatusCheck(db)
	if err != nil {
		return err
	}
	if legacy {
		if err := rebuildNumbersTable(db); err != nil {
			return fmt.Errorf("failed to widen numbers status constraint: %w", err)
		}
	}

	return nil
}

// numbersHasLegacyStatusCheck reports whether the numbers table still
// carries the two-value status constraint. Returns false when the table
// does not exist or already has the four-value form.
func numbersHasLegacyStatusCheck(db *sql.DB) (bool, error) {
	var ddl string
	err := db.QueryRow("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'numbers'").Scan(&ddl)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read numbers table definition: %w", err)
	}
	return statusCheckLegacy.MatchString(ddl) && !statusCheckCurrent.MatchString(ddl), nil
}

// rebuildNumbersTable replaces the numbers table with one carrying the
// four-value status constraint. SQLite cannot alter a CHECK clause in
// place, so the table is rebuilt through a shadow copy. The whole
// sequence runs in one transaction: on any failure the original table and
// its rows are left untouched.
func rebuildNumbersTable(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		CREATE TABLE numbers_new (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			device_id INTEGER NOT NULL,
			phone TEXT NOT NULL UNIQUE,
			client_id INTEGER,
			status TEXT NOT NULL DEFAULT 'ok'
				CHECK (status IN ('ok','banido','desconectado','livre')),
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY (device_id) REFERENCES devices(id) ON DELETE CASCADE,
			FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE SET NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create shadow table: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO numbers_new (id, device_id, phone, client_id, status, created_at)
		SELECT id, device_id, phone, client_id, COALESCE(status, 'ok'), created_at
		FROM numbers
	`)
	if err != nil {
		return fmt.Errorf("failed to copy number rows: %w", err)
	}

	if _, err = tx.Exec("DROP TABLE numbers"); err != nil {
		return fmt.Errorf("failed to drop old numbers table: %w", err)
	}
	if _, err = tx.Exec("ALTER TABLE numbers_new RENAME TO numbers"); err != nil {
		return fmt.Errorf("failed to rename numbers table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_numbers_client_id ON numbers(client_id)",
		"CREATE INDEX IF NOT EXISTS idx_numbers_status    ON numbers(status)",
		"CREATE INDEX IF NOT EXISTS idx_numbers_device    ON numbers(device_id)",
		"CREATE INDEX IF NOT EXISTS idx_numbers_phone     ON numbers(phone)",
	}
	for _, stmt := range indexes {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to recreate index: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rebuild: %w", err)
	}

	return nil
}

// columnExists checks pragma_table_info for a column, so migrations never
// have to attempt an ALTER and guess at the failure reason.
func columnExists(db *sql.DB, table, column string) (bool, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s.%s: %w", table, column, err)
	}
	return count > 0, nil
}
