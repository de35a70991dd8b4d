package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ficore/internal/errs"
	"ficore/internal/logging"
	"ficore/internal/metrics"
)

// DefaultLifetime bounds how long an issued token stays valid.
const DefaultLifetime = time.Hour

// Envelope wraps the codec payload in a signed, time-limited token:
//
//	<hex payload>.<unix timestamp>.<base64url hmac-sha256>
//
// Open verifies signature and expiry before touching the compressed bytes.
// It never fails towards the caller: any bad token yields a fresh empty
// record, with the cause logged and counted.
type Envelope struct {
	secret   []byte
	lifetime time.Duration
	codec    Codec
	logger   logging.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewEnvelope builds an Envelope. The secret must be non-empty; lifetime
// falls back to DefaultLifetime when zero.
func NewEnvelope(secret string, lifetime time.Duration, logger logging.Logger, m *metrics.Metrics) (*Envelope, error) {
	if secret == "" {
		return nil, fmt.Errorf("session envelope requires a secret key")
	}
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Envelope{
		secret:   []byte(secret),
		lifetime: lifetime,
		logger:   logging.OrNop(logger),
		metrics:  m,
		now:      time.Now,
	}, nil
}

// Seal encodes and signs rec into a cookie-safe token.
func (e *Envelope) Seal(rec *Record) (string, error) {
	payload, err := e.codec.Encode(rec)
	if err != nil {
		return "", err
	}
	ts := strconv.FormatInt(e.now().Unix(), 10)
	sig := e.sign(payload, ts)
	return payload + "." + ts + "." + sig, nil
}

// Open verifies and decodes a token. Failure returns an empty record, never
// an error; the decode-failure taxonomy is internal bookkeeping only.
func (e *Envelope) Open(token string) *Record {
	rec, err := e.open(token)
	if err != nil {
		var decodeErr *errs.DecodeFailureError
		cause := "malformed"
		if errors.As(err, &decodeErr) {
			cause = decodeErr.Cause
		}
		e.logger.Error("rejecting session token: %v", err)
		e.metrics.DecodeFailure(cause)
		return NewRecord()
	}
	return rec
}

func (e *Envelope) open(token string) (*Record, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, &errs.DecodeFailureError{Cause: "malformed"}
	}
	payload, ts, sig := parts[0], parts[1], parts[2]

	if !hmac.Equal([]byte(sig), []byte(e.sign(payload, ts))) {
		return nil, &errs.DecodeFailureError{Cause: "bad_signature"}
	}

	issued, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil, &errs.DecodeFailureError{Cause: "malformed", Err: err}
	}
	age := e.now().Sub(time.Unix(issued, 0))
	if age > e.lifetime || age < -time.Minute {
		return nil, &errs.DecodeFailureError{Cause: "expired"}
	}

	rec, err := e.codec.Decode(payload)
	if err != nil {
		return nil, &errs.DecodeFailureError{Cause: "corrupt_payload", Err: err}
	}
	return rec, nil
}

func (e *Envelope) sign(payload, ts string) string {
	mac := hmac.New(sha256.New, e.secret)
	mac.Write([]byte(payload))
	mac.Write([]byte("."))
	mac.Write([]byte(ts))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
