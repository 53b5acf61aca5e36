// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"github.com/robfig/cron/v3"

	"github.com/chipdesk/chipdesk/src/backup"
	"github.com/chipdesk/chipdesk/src/utils"
)

// Scheduler wraps robfig/cron with the jobs this server runs.
type Scheduler struct {
	cron   *cron.Cron
	logger *utils.Logger
}

// New creates a scheduler accepting standard 5-field cron expressions
// plus descriptors like @daily.
func New(logger *utils.Logger) *Scheduler {
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)))
	return &Scheduler{cron: c, logger: logger}
}

// RegisterBackup schedules periodic database snapshots.
func (s *Scheduler) RegisterBackup(svc *backup.Service, schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		path, err := svc.Create()
		if err != nil {
			s.logger.Error("Scheduled backup failed: %v", err)
			return
		}
		s.logger.Info("Backup written: %s", path)
	})
	return err
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
