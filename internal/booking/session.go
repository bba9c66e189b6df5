package booking

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/rjsarena/arena-booking/internal/model"
)

// DefaultMaxSeats caps how many seats a single booking may hold.
const DefaultMaxSeats = 6

// heldSeat snapshots a seat's identity and price at selection time, so
// pricing stays stable for the life of the session even if the caller
// rebuilds the seat map.
type heldSeat struct {
	ID         string
	Tier       model.Tier
	PriceCents uint32
}

// Session is one booking attempt's selection state.  The held list is
// ordered by selection and bounded by maxSeats.  Holds are local to the
// session: they are invisible to other sessions and never touch the
// occupancy store.  A session is discarded on successful checkout or
// abandonment; either way no trace of its holds remains.
type Session struct {
	ID string

	mu         sync.Mutex
	held       []heldSeat
	maxSeats   int
	feeCents   uint32
	lastActive time.Time
}

// NewSession creates a session with a fresh random id.  maxSeats values
// below one fall back to DefaultMaxSeats.
func NewSession(maxSeats int, feeCents uint32) (*Session, error) {
	if maxSeats < 1 {
		maxSeats = DefaultMaxSeats
	}
	id, err := randomToken(16)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:         id,
		maxSeats:   maxSeats,
		feeCents:   feeCents,
		lastActive: time.Now().UTC(),
	}, nil
}

// Toggle flips the hold on one seat.  The seat must come from a freshly
// built seat map so its State reflects current occupancy:
//
//   - an occupied seat fails with ErrSeatUnavailable, no state change;
//   - a seat already held by this session is released;
//   - otherwise the seat is added, unless the session is at its cap,
//     which fails with ErrSelectionLimit and changes nothing.
func (s *Session) Toggle(seat model.Seat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now().UTC()

	if seat.State == model.SeatOccupied {
		return ErrSeatUnavailable
	}
	for i, h := range s.held {
		if h.ID == seat.ID {
			s.held = append(s.held[:i], s.held[i+1:]...)
			return nil
		}
	}
	if len(s.held) >= s.maxSeats {
		return ErrSelectionLimit
	}
	s.held = append(s.held, heldSeat{ID: seat.ID, Tier: seat.Tier, PriceCents: seat.PriceCents})
	return nil
}

// Drop releases the given seats from the session without validation.
// Used after a commit conflict to shed the contested ids, whose true
// state is now occupied.
func (s *Session) Drop(seatIDs []string) {
	if len(seatIDs) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		drop[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now().UTC()
	kept := s.held[:0]
	for _, h := range s.held {
		if _, gone := drop[h.ID]; !gone {
			kept = append(kept, h)
		}
	}
	s.held = kept
}

// HeldIDs returns the held seat ids in selection order.
func (s *Session) HeldIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.held))
	for i, h := range s.held {
		ids[i] = h.ID
	}
	return ids
}

// Subtotal is the sum of the held seats' prices in cents.
func (s *Session) Subtotal() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotalLocked()
}

func (s *Session) subtotalLocked() uint32 {
	var sum uint32
	for _, h := range s.held {
		sum += h.PriceCents
	}
	return sum
}

// Fee is the flat processing fee: zero when nothing is held.
func (s *Session) Fee() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.held) == 0 {
		return 0
	}
	return s.feeCents
}

// Total is Subtotal plus Fee.
func (s *Session) Total() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.held) == 0 {
		return 0
	}
	return s.subtotalLocked() + s.feeCents
}

// Len reports how many seats the session currently holds.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.held)
}

// touch refreshes the idle clock; called by the registry on lookup.
func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = time.Now().UTC()
	s.mu.Unlock()
}

// idleSince reports the last time the session was used.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// randomToken returns n cryptographically random bytes hex-encoded.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
