package store

import (
	"context"
	"sync"
)

// Memory is an in-process occupancy backend.  A single mutex serializes
// commits, which makes the conditional insert trivially atomic; reads
// copy the set so callers never observe a mid-commit state.
type Memory struct {
	mu   sync.Mutex
	sold map[string]struct{}
}

// NewMemory returns an empty in-memory store.  Seed ids, if any, are
// recorded as already sold; use this to mirror a pre-existing occupancy
// set in tests and single-node deployments.
func NewMemory(seed ...string) *Memory {
	m := &Memory{sold: make(map[string]struct{}, len(seed))}
	for _, id := range seed {
		if id != "" {
			m.sold[id] = struct{}{}
		}
	}
	return m
}

// Snapshot returns a copy of the sold set.
func (m *Memory) Snapshot(ctx context.Context) (map[string]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrUnavailable
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]struct{}, len(m.sold))
	for id := range m.sold {
		out[id] = struct{}{}
	}
	return out, nil
}

// Commit performs the conditional insert under the store mutex.  Either
// every id is added or, when any id is already sold, none are and the
// sold subset is reported.
func (m *Memory) Commit(ctx context.Context, seatIDs []string) error {
	if err := ctx.Err(); err != nil {
		return ErrUnavailable
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var contested []string
	for _, id := range seatIDs {
		if _, sold := m.sold[id]; sold {
			contested = append(contested, id)
		}
	}
	if len(contested) > 0 {
		return &ConflictError{Contested: contested}
	}
	for _, id := range seatIDs {
		m.sold[id] = struct{}{}
	}
	return nil
}
