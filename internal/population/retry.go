package population

import (
	"context"

	"ficore/internal/errs"
	"ficore/internal/logging"
)

// RetryingStore wraps another store with the shared backoff policy. Writes
// against a flaky backend get retried; validation errors do not.
type RetryingStore struct {
	inner  Store
	cfg    errs.RetryConfig
	logger logging.Logger
}

var _ Store = (*RetryingStore)(nil)

func NewRetryingStore(inner Store, cfg errs.RetryConfig, logger logging.Logger) *RetryingStore {
	return &RetryingStore{inner: inner, cfg: cfg, logger: logging.OrNop(logger)}
}

func (s *RetryingStore) Append(ctx context.Context, flow Flow, row []string) error {
	return errs.Retry(ctx, s.cfg, s.logger, func(ctx context.Context) error {
		return s.inner.Append(ctx, flow, row)
	})
}

func (s *RetryingStore) Rows(ctx context.Context, flow Flow) ([][]string, error) {
	return errs.RetryWithResult(ctx, s.cfg, s.logger, func(ctx context.Context) ([][]string, error) {
		return s.inner.Rows(ctx, flow)
	})
}
