package booking

import (
	"context"
	"log"
	"sync"
	"time"
)

// Registry owns the set of live sessions.  Sessions are ephemeral: one
// is created per booking attempt and removed on checkout, abandonment
// or idle eviction.  Eviction releases the session's holds silently —
// held seats were never visible outside the session, so removal needs
// no compensation anywhere else.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	maxSeats int
	feeCents uint32
	idleTTL  time.Duration
}

// NewRegistry builds a registry that stamps every new session with the
// given cap and fee.  idleTTL of zero disables eviction.
func NewRegistry(maxSeats int, feeCents uint32, idleTTL time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		maxSeats: maxSeats,
		feeCents: feeCents,
		idleTTL:  idleTTL,
	}
}

// Create starts a new booking attempt and returns its session.
func (r *Registry) Create() (*Session, error) {
	s, err := NewSession(r.maxSeats, r.feeCents)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s, nil
}

// Get looks up a live session and refreshes its idle clock.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch()
	return s, nil
}

// Remove discards a session.  Used both for explicit abandonment and
// after a successful checkout.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep(now time.Time) int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-r.idleTTL)
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// StartJanitor runs Sweep on the given interval until ctx is cancelled.
// Call it in a goroutine from main.
func (r *Registry) StartJanitor(ctx context.Context, interval time.Duration) {
	if r.idleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.Sweep(now); n > 0 {
				log.Printf("session-janitor: evicted %d idle sessions", n)
			}
		}
	}
}
