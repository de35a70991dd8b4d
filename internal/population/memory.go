package population

import (
	"context"
	"sync"
)

// MemoryStore keeps worksheets in process memory. It is the dev-mode and
// test backend.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[Flow][][]string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[Flow][][]string)}
}

func (s *MemoryStore) Append(_ context.Context, flow Flow, row []string) error {
	if err := ValidateRow(flow, row); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]string, len(row))
	copy(cp, row)
	s.rows[flow] = append(s.rows[flow], cp)
	return nil
}

func (s *MemoryStore) Rows(_ context.Context, flow Flow) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.rows[flow]
	out := make([][]string, len(stored))
	for i, row := range stored {
		cp := make([]string, len(row))
		copy(cp, row)
		out[i] = cp
	}
	return out, nil
}
