package errs

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"syscall"
)

// ValidationError reports per-field problems with a submitted wizard step.
// It is recovered locally: the same step is re-rendered with the messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// NewValidation builds a ValidationError for a single field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// SessionExpiredError indicates a wizard draft was required but absent.
// Recovered by redirecting the user back to step 1 of the flow.
type SessionExpiredError struct {
	Flow string
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session expired for %s flow", e.Flow)
}

// BackendUnavailableError indicates the population store stayed unreachable
// after retries. The request still completes with a retry-later notice.
type BackendUnavailableError struct {
	Op  string
	Err error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("backend unavailable during %s: %v", e.Op, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error { return e.Err }

// DecodeFailureError describes a cookie token that could not be opened.
// Never surfaced to the user; the session silently starts fresh.
type DecodeFailureError struct {
	Cause string
	Err   error
}

func (e *DecodeFailureError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("session decode failed: %s", e.Cause)
	}
	return fmt.Sprintf("session decode failed: %s: %v", e.Cause, e.Err)
}

func (e *DecodeFailureError) Unwrap() error { return e.Err }

// ComputationError wraps an unexpected failure (including a recovered panic)
// inside the scoring path. Caught at the flow boundary.
type ComputationError struct {
	Flow string
	Err  error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation failed for %s flow: %v", e.Flow, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

// TransientError marks an error as retryable for the backoff helpers.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("transient: %v", e.Err) }
func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError marks an error that must not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return fmt.Sprintf("permanent: %v", e.Err) }
func (e *PermanentError) Unwrap() error { return e.Err }

// Transient wraps err as retryable. Returns nil for nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// Permanent wraps err as non-retryable. Returns nil for nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsTransient reports whether err should be retried. Explicit markers win;
// otherwise common network failure shapes are treated as transient and
// everything else as permanent.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var transient *TransientError
	if errors.As(err, &transient) {
		return true
	}
	var permanent *PermanentError
	if errors.As(err, &permanent) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	return false
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsSessionExpired reports whether err is (or wraps) a SessionExpiredError.
func IsSessionExpired(err error) bool {
	var s *SessionExpiredError
	return errors.As(err, &s)
}

// IsBackendUnavailable reports whether err is (or wraps) a BackendUnavailableError.
func IsBackendUnavailable(err error) bool {
	var b *BackendUnavailableError
	return errors.As(err, &b)
}
