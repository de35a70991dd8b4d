package backup

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"ficore/internal/logging"
)

// Sweeper deletes backup files that have outlived the session lifetime, so
// the backup directory tracks the same retention window as the cookie.
type Sweeper struct {
	store     *Store
	retention time.Duration
	logger    logging.Logger
	cron      *cron.Cron
	now       func() time.Time
}

// NewSweeper builds a sweeper over the store with the given retention.
func NewSweeper(store *Store, retention time.Duration, logger logging.Logger) *Sweeper {
	return &Sweeper{
		store:     store,
		retention: retention,
		logger:    logging.OrNop(logger),
		now:       time.Now,
	}
}

// Start schedules the sweep on the given cron spec and runs one sweep
// immediately so a restart does not leave stale files around for a cycle.
func (s *Sweeper) Start(spec string) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(spec, s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.Sweep()
	return nil
}

// Stop halts the schedule, waiting for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Sweep removes every backup file whose mtime is older than the retention
// window. Errors are logged and the sweep continues.
func (s *Sweeper) Sweep() {
	entries, err := os.ReadDir(s.store.Dir())
	if err != nil {
		s.logger.Error("backup sweep failed to list directory: %v", err)
		return
	}
	cutoff := s.now().Add(-s.retention)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !isBackupFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.store.Dir(), entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Error("backup sweep failed to remove %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info("backup sweep removed %d stale file(s)", removed)
	}
}
