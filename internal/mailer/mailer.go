// Package mailer delivers result report emails off the request path. A
// bounded queue feeds a small worker pool; when the queue is full the
// message is dropped and counted, never blocking a submission.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"sync"

	"ficore/internal/async"
	"ficore/internal/logging"
	"ficore/internal/metrics"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig locates the outbound mail server.
type SMTPConfig struct {
	Addr     string // host:port
	Username string
	Password string
	From     string
}

// SMTPSender sends mail through a single SMTP server.
type SMTPSender struct {
	cfg SMTPConfig
}

var _ Sender = (*SMTPSender)(nil)

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Addr == "" || cfg.From == "" {
		return nil, fmt.Errorf("smtp sender requires addr and from")
	}
	return &SMTPSender{cfg: cfg}, nil
}

func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	var auth smtp.Auth
	if s.cfg.Username != "" {
		host := s.cfg.Addr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, host)
	}
	payload := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.cfg.From, msg.To, msg.Subject, msg.Body)
	return smtp.SendMail(s.cfg.Addr, auth, s.cfg.From, []string{msg.To}, []byte(payload))
}

// Dispatcher fans queued messages out to workers. Failures are logged and
// counted; report mail is best-effort and never retried.
type Dispatcher struct {
	sender  Sender
	queue   chan Message
	logger  logging.Logger
	metrics *metrics.Metrics

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewDispatcher starts workers goroutines draining a queue of queueSize.
func NewDispatcher(sender Sender, workers, queueSize int, logger logging.Logger, m *metrics.Metrics) *Dispatcher {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	d := &Dispatcher{
		sender:  sender,
		queue:   make(chan Message, queueSize),
		logger:  logging.OrNop(logger),
		metrics: m,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		async.Go(d.logger, fmt.Sprintf("mailer-worker-%d", i), d.work)
	}
	return d
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for msg := range d.queue {
		if err := d.sender.Send(context.Background(), msg); err != nil {
			d.logger.Error("failed to send mail to %s: %v", msg.To, err)
			d.metrics.MailFailure()
			continue
		}
		d.logger.Debug("mail sent to %s", msg.To)
	}
}

// Enqueue queues a message without blocking. Returns false when the queue
// is full and the message was dropped.
func (d *Dispatcher) Enqueue(msg Message) bool {
	select {
	case d.queue <- msg:
		return true
	default:
		d.logger.Warn("mail queue full, dropping message to %s", msg.To)
		d.metrics.MailFailure()
		return false
	}
}

// Close stops accepting messages and waits for in-flight sends.
func (d *Dispatcher) Close() {
	d.stopOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}
