// Package metrics exports the wizard's operational counters to Prometheus.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics captures telemetry for the session layer, the backup store and
// flow finalization. All record methods are nil-receiver safe so wiring
// metrics stays optional in tests.
type Metrics struct {
	submissions    *prometheus.CounterVec
	decodeFailures *prometheus.CounterVec
	backupRestores prometheus.Counter
	backupFailures prometheus.Counter
	mailFailures   prometheus.Counter
	appendDuration *prometheus.HistogramVec
	appendErrors   *prometheus.CounterVec
}

// New registers the wizard metrics against reg (DefaultRegisterer when nil).
func New(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if namespace == "" {
		namespace = "ficore"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Finalized wizard submissions per flow.",
		}, []string{"flow"}),
		decodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_decode_failures_total",
			Help:      "Session cookies rejected at open, by cause.",
		}, []string{"cause"}),
		backupRestores: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backup_restores_total",
			Help:      "Sessions repopulated from the backup store.",
		}),
		backupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backup_failures_total",
			Help:      "Best-effort backup operations that failed.",
		}),
		mailFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mail_failures_total",
			Help:      "Background report emails that could not be sent.",
		}),
		appendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "population_append_duration_seconds",
			Help:      "Latency for durable population store appends.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"flow"}),
		appendErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "population_append_errors_total",
			Help:      "Population store appends that failed after retries.",
		}, []string{"flow"}),
	}

	collectors := []prometheus.Collector{
		m.submissions, m.decodeFailures, m.backupRestores,
		m.backupFailures, m.mailFailures, m.appendDuration, m.appendErrors,
	}
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return nil, fmt.Errorf("register wizard metric: %w", err)
		}
	}
	return m, nil
}

// Submission counts one finalized flow.
func (m *Metrics) Submission(flow string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(flow).Inc()
}

// DecodeFailure counts one rejected session cookie.
func (m *Metrics) DecodeFailure(cause string) {
	if m == nil {
		return
	}
	m.decodeFailures.WithLabelValues(cause).Inc()
}

// BackupRestore counts one session restored from disk.
func (m *Metrics) BackupRestore() {
	if m == nil {
		return
	}
	m.backupRestores.Inc()
}

// BackupFailure counts one swallowed backup I/O failure.
func (m *Metrics) BackupFailure() {
	if m == nil {
		return
	}
	m.backupFailures.Inc()
}

// MailFailure counts one failed background email.
func (m *Metrics) MailFailure() {
	if m == nil {
		return
	}
	m.mailFailures.Inc()
}

// ObserveAppend tracks population append latency and failures.
func (m *Metrics) ObserveAppend(flow string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.appendDuration.WithLabelValues(flow).Observe(duration.Seconds())
	if err != nil {
		m.appendErrors.WithLabelValues(flow).Inc()
	}
}
