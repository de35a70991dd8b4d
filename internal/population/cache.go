package population

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedStore is a read-through cache over another store. Full-worksheet
// reads back every ranking computation, so they are cached with a TTL and
// invalidated whenever this process appends.
type CachedStore struct {
	inner Store
	cache *expirable.LRU[Flow, [][]string]
}

var _ Store = (*CachedStore)(nil)

// NewCachedStore caches Rows results for ttl per flow.
func NewCachedStore(inner Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		inner: inner,
		cache: expirable.NewLRU[Flow, [][]string](8, nil, ttl),
	}
}

func (s *CachedStore) Append(ctx context.Context, flow Flow, row []string) error {
	if err := s.inner.Append(ctx, flow, row); err != nil {
		return err
	}
	s.cache.Remove(flow)
	return nil
}

func (s *CachedStore) Rows(ctx context.Context, flow Flow) ([][]string, error) {
	if rows, ok := s.cache.Get(flow); ok {
		return rows, nil
	}
	rows, err := s.inner.Rows(ctx, flow)
	if err != nil {
		return nil, err
	}
	s.cache.Add(flow, rows)
	return rows, nil
}
