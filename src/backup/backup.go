// Package backup creates consistent database snapshots via VACUUM INTO.
package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/chipdesk/chipdesk/src/utils"
)

// Service writes timestamped snapshots of the database into Dir and
// prunes old ones down to Keep files.
type Service struct {
	DB     *sql.DB
	Dir    string
	Keep   int
	Logger *utils.Logger
}

// New creates a backup service.
func New(db *sql.DB, dir string, keep int, logger *utils.Logger) *Service {
	if keep < 1 {
		keep = 1
	}
	return &Service{DB: db, Dir: dir, Keep: keep, Logger: logger}
}

// Create writes one snapshot and prunes old ones. VACUUM INTO produces a
// compacted, transactionally consistent copy without blocking writers.
func (s *Service) Create() (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := fmt.Sprintf("chipdesk-%s.db", time.Now().Format("20060102-150405"))
	path := filepath.Join(s.Dir, name)

	if _, err := s.DB.Exec(`VACUUM INTO ?`, path); err != nil {
		return "", fmt.Errorf("backup failed: %w", err)
	}

	if err := s.prune(); err != nil {
		s.Logger.Error("Backup prune failed: %v", err)
	}
	return path, nil
}

// prune removes the oldest snapshots beyond Keep. Snapshot names embed
// the timestamp, so lexical order is chronological.
func (s *Service) prune() error {
	matches, err := filepath.Glob(filepath.Join(s.Dir, "chipdesk-*.db"))
	if err != nil {
		return err
	}
	if len(matches) <= s.Keep {
		return nil
	}

	sort.Strings(matches)
	for _, old := range matches[:len(matches)-s.Keep] {
		if err := os.Remove(old); err != nil {
			return err
		}
	}
	return nil
}
