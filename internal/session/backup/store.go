// Package backup mirrors session records to one JSON file per identity so a
// returning user can pick up a wizard after losing their cookie.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"ficore/internal/logging"
	"ficore/internal/metrics"
	"ficore/internal/session"
)

const maxIdentityLen = 100

var unsafeIdentityChars = regexp.MustCompile(`[^\w\-. ]`)

// SanitizeIdentity maps an identity to a filesystem-safe name. Unsafe runes
// become underscores and the result is capped at 100 characters.
func SanitizeIdentity(identity string) string {
	safe := unsafeIdentityChars.ReplaceAllString(identity, "_")
	if len(safe) > maxIdentityLen {
		safe = safe[:maxIdentityLen]
	}
	return safe
}

// Store keeps one backup file per identity under a single directory. Every
// operation is best-effort: failures are logged and swallowed so a broken
// disk never takes a request down with it.
type Store struct {
	dir     string
	logger  logging.Logger
	metrics *metrics.Metrics
}

var _ session.BackupStore = (*Store)(nil)

// NewStore creates the backup directory if needed.
func NewStore(dir string, logger logging.Logger, m *metrics.Metrics) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("backup directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}
	return &Store{dir: dir, logger: logging.OrNop(logger), metrics: m}, nil
}

func (s *Store) path(identity string) string {
	return filepath.Join(s.dir, SanitizeIdentity(identity)+".json")
}

// Backup overwrites the identity's file with the current record. The write
// goes through a temp file and rename so readers never see a torn file.
func (s *Store) Backup(identity string, rec *session.Record) {
	if identity == "" || rec == nil {
		return
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		s.logger.Error("failed to marshal backup for %s: %v", identity, err)
		s.metrics.BackupFailure()
		return
	}

	target := s.path(identity)
	tmp, err := os.CreateTemp(s.dir, ".backup-*.tmp")
	if err != nil {
		s.logger.Error("failed to create backup temp file: %v", err)
		s.metrics.BackupFailure()
		return
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		s.logger.Error("failed to write backup for %s: %v", identity, err)
		s.metrics.BackupFailure()
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		s.logger.Error("failed to close backup temp file: %v", err)
		s.metrics.BackupFailure()
		return
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		s.logger.Error("failed to replace backup for %s: %v", identity, err)
		s.metrics.BackupFailure()
		return
	}
	s.logger.Debug("session backed up for %s", identity)
}

// Restore merges the stored backup into rec. Stored fields win over whatever
// the cookie carried; fields absent from the file are left alone. When no
// backup exists rec comes back untouched.
func (s *Store) Restore(identity string, rec *session.Record) *session.Record {
	if identity == "" {
		return rec
	}
	if rec == nil {
		rec = session.NewRecord()
	}
	data, err := os.ReadFile(s.path(identity))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("failed to read backup for %s: %v", identity, err)
			s.metrics.BackupFailure()
		}
		return rec
	}
	if err := json.Unmarshal(data, rec); err != nil {
		s.logger.Error("corrupt backup for %s: %v", identity, err)
		s.metrics.BackupFailure()
		return rec
	}
	rec.Touch()
	return rec
}

// Delete removes the identity's backup file. A missing file is not an error.
func (s *Store) Delete(identity string) {
	if identity == "" {
		return
	}
	if err := os.Remove(s.path(identity)); err != nil && !os.IsNotExist(err) {
		s.logger.Error("failed to delete backup for %s: %v", identity, err)
		s.metrics.BackupFailure()
	}
}

// Dir exposes the backing directory for the retention sweeper.
func (s *Store) Dir() string { return s.dir }

// isBackupFile filters sweeper candidates to the files this store writes.
func isBackupFile(name string) bool {
	return strings.HasSuffix(name, ".json") && !strings.HasPrefix(name, ".")
}
