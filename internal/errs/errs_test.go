package errs

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 2,
		BaseDelay:   time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"marked transient", Transient(errors.New("boom")), true},
		{"marked permanent", Permanent(errors.New("boom")), false},
		{"wrapped transient", fmt.Errorf("outer: %w", Transient(errors.New("boom"))), true},
		{"connection refused", syscall.ECONNREFUSED, true},
		{"connection reset", syscall.ECONNRESET, true},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range cases {
		if got := IsTransient(tc.err); got != tc.want {
			t.Errorf("%s: IsTransient() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(), nil, func(context.Context) error {
		attempts++
		if attempts < 3 {
			return Transient(errors.New("flaky"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	attempts := 0
	sentinel := errors.New("bad input")
	err := Retry(context.Background(), fastRetryConfig(), nil, func(context.Context) error {
		attempts++
		return Permanent(sentinel)
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Retry() error = %v, want wrapped sentinel", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1 (no retry on permanent errors)", attempts)
	}
}

func TestRetryExhaustsBudget(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(), nil, func(context.Context) error {
		attempts++
		return Transient(errors.New("still down"))
	})
	if err == nil {
		t.Fatal("Retry() should fail when every attempt fails")
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3 (initial + 2 retries)", attempts)
	}
}

func TestRetryWithResult(t *testing.T) {
	calls := 0
	got, err := RetryWithResult(context.Background(), fastRetryConfig(), nil, func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, Transient(errors.New("flaky"))
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("RetryWithResult() error = %v", err)
	}
	if got != 42 {
		t.Fatalf("RetryWithResult() = %d, want 42", got)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, fastRetryConfig(), nil, func(context.Context) error {
		return Transient(errors.New("flaky"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Retry() error = %v, want context.Canceled", err)
	}
}

func TestValidationErrorListsFields(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"email":          "Invalid email address",
		"monthly_income": "Invalid number",
	}}
	want := "validation failed: email, monthly_income"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
	if !IsValidation(fmt.Errorf("wrap: %w", err)) {
		t.Fatal("IsValidation should see through wrapping")
	}
}

func TestTaxonomyPredicates(t *testing.T) {
	if !IsSessionExpired(&SessionExpiredError{Flow: "budget"}) {
		t.Fatal("IsSessionExpired failed on direct error")
	}
	if !IsBackendUnavailable(fmt.Errorf("wrap: %w", &BackendUnavailableError{Op: "append", Err: errors.New("down")})) {
		t.Fatal("IsBackendUnavailable should see through wrapping")
	}
	if IsSessionExpired(errors.New("other")) {
		t.Fatal("IsSessionExpired matched an unrelated error")
	}
}
