package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ficore/internal/logging"
	"ficore/internal/metrics"
)

// DefaultCookieName matches the session cookie the deployment expects.
const DefaultCookieName = "session_id"

// BackupStore mirrors session contents to durable per-identity files. All
// operations are best-effort: implementations log and swallow I/O failures.
type BackupStore interface {
	Backup(identity string, rec *Record)
	// Restore merges a stored backup into rec (stored fields win) and
	// marks it modified; rec is returned unchanged when no backup exists.
	Restore(identity string, rec *Record) *Record
	Delete(identity string)
}

// ManagerConfig configures the cookie lifecycle.
type ManagerConfig struct {
	CookieName string
	Lifetime   time.Duration
	Secure     bool
}

// Manager opens and saves the session record around each request.
type Manager struct {
	env     *Envelope
	backup  BackupStore
	cfg     ManagerConfig
	logger  logging.Logger
	metrics *metrics.Metrics
}

// NewManager wires the envelope and backup store into a request-cycle
// manager. backup may be nil to disable durable mirroring.
func NewManager(env *Envelope, backup BackupStore, cfg ManagerConfig, logger logging.Logger, m *metrics.Metrics) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = DefaultLifetime
	}
	return &Manager{
		env:     env,
		backup:  backup,
		cfg:     cfg,
		logger:  logging.OrNop(logger),
		metrics: m,
	}
}

// Open produces the request's session record: cookie decode first, then a
// backup restore when the active draft keys are gone but an identity
// survived (the cleared-browser / new-device case).
func (m *Manager) Open(c *gin.Context) *Record {
	cookie, err := c.Cookie(m.cfg.CookieName)
	if err != nil || cookie == "" {
		m.logger.Debug("no session cookie, starting fresh")
		return NewRecord()
	}
	rec := m.env.Open(cookie)

	if m.backup != nil && rec.ActiveEmpty() {
		if identity := rec.Identity(); identity != "" {
			restored := m.backup.Restore(identity, rec)
			if restored.Modified() {
				m.logger.Info("session restored from backup for %s", identity)
				m.metrics.BackupRestore()
			}
			return restored
		}
	}
	return rec
}

// Save persists rec to the response cookie when it changed, mirroring it to
// the backup store whenever an identity is known. A cleared record deletes
// the cookie instead.
func (m *Manager) Save(c *gin.Context, rec *Record) {
	if rec == nil || !rec.Modified() {
		return
	}

	if rec.IsZero() {
		c.SetCookie(m.cfg.CookieName, "", -1, "/", "", m.cfg.Secure, true)
		return
	}

	token, err := m.env.Seal(rec)
	if err != nil {
		m.logger.Error("failed to seal session: %v", err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, token, int(m.cfg.Lifetime.Seconds()), "/", "", m.cfg.Secure, true)

	if m.backup != nil {
		if identity := rec.Identity(); identity != "" {
			m.backup.Backup(identity, rec)
		}
	}
}

// DeleteBackup removes the durable mirror for an identity (logout).
func (m *Manager) DeleteBackup(identity string) {
	if m.backup == nil || identity == "" {
		return
	}
	m.backup.Delete(identity)
}
