package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/rjsarena/arena-booking/internal/venue"
)

func mustSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(DefaultMaxSeats, 450)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func TestToggleAddRemoveInverse(t *testing.T) {
	s := mustSession(t)
	seats := venue.BuildSeatMap(venue.Default(), nil)
	a1, _ := venue.FindSeat(seats, "A1")

	if err := s.Toggle(a1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if got := s.HeldIDs(); len(got) != 1 || got[0] != "A1" {
		t.Fatalf("expected held [A1], got %v", got)
	}
	if err := s.Toggle(a1); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if got := s.HeldIDs(); len(got) != 0 {
		t.Fatalf("expected empty held list, got %v", got)
	}
}

func TestToggleOccupiedSeat(t *testing.T) {
	s := mustSession(t)
	seats := venue.BuildSeatMap(venue.Default(), map[string]struct{}{"A5": {}})
	a5, _ := venue.FindSeat(seats, "A5")

	if err := s.Toggle(a5); !errors.Is(err, ErrSeatUnavailable) {
		t.Fatalf("expected ErrSeatUnavailable, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("held list must be unchanged, has %d", s.Len())
	}
}

func TestToggleSelectionLimit(t *testing.T) {
	s := mustSession(t)
	seats := venue.BuildSeatMap(venue.Default(), nil)

	for _, id := range []string{"C1", "C2", "C3", "C4", "C5", "C6"} {
		seat, _ := venue.FindSeat(seats, id)
		if err := s.Toggle(seat); err != nil {
			t.Fatalf("toggle %s: %v", id, err)
		}
	}
	seventh, _ := venue.FindSeat(seats, "C7")
	if err := s.Toggle(seventh); !errors.Is(err, ErrSelectionLimit) {
		t.Fatalf("expected ErrSelectionLimit, got %v", err)
	}
	if s.Len() != 6 {
		t.Errorf("held count must stay 6, got %d", s.Len())
	}
	// Removing a held seat still works at the cap.
	c3, _ := venue.FindSeat(seats, "C3")
	if err := s.Toggle(c3); err != nil {
		t.Fatalf("remove at cap: %v", err)
	}
	if s.Len() != 5 {
		t.Errorf("expected 5 held after removal, got %d", s.Len())
	}
}

func TestPricing(t *testing.T) {
	s := mustSession(t)
	seats := venue.BuildSeatMap(venue.Default(), nil)

	if s.Fee() != 0 || s.Total() != 0 {
		t.Fatalf("empty session must price to zero, fee=%d total=%d", s.Fee(), s.Total())
	}
	for _, id := range []string{"A1", "A2", "B1"} {
		seat, _ := venue.FindSeat(seats, id)
		if err := s.Toggle(seat); err != nil {
			t.Fatalf("toggle %s: %v", id, err)
		}
	}
	if got := s.Subtotal(); got != 32000 {
		t.Errorf("subtotal = %d cents, want 32000", got)
	}
	if got := s.Fee(); got != 450 {
		t.Errorf("fee = %d cents, want 450", got)
	}
	if got := s.Total(); got != 32450 {
		t.Errorf("total = %d cents, want 32450", got)
	}
	if s.Total() != s.Subtotal()+s.Fee() {
		t.Error("total must equal subtotal plus fee")
	}
}

func TestDropContested(t *testing.T) {
	s := mustSession(t)
	seats := venue.BuildSeatMap(venue.Default(), nil)
	for _, id := range []string{"C9", "C10", "C11"} {
		seat, _ := venue.FindSeat(seats, id)
		if err := s.Toggle(seat); err != nil {
			t.Fatalf("toggle %s: %v", id, err)
		}
	}
	s.Drop([]string{"C10"})
	got := s.HeldIDs()
	if len(got) != 2 || got[0] != "C9" || got[1] != "C11" {
		t.Fatalf("expected [C9 C11] in order, got %v", got)
	}
}

func TestSessionIDsUnique(t *testing.T) {
	a := mustSession(t)
	b := mustSession(t)
	if a.ID == b.ID {
		t.Fatal("session ids must be unique")
	}
	if len(a.ID) != 32 {
		t.Errorf("expected 32 hex chars, got %d", len(a.ID))
	}
}

func TestRegistrySweep(t *testing.T) {
	r := NewRegistry(DefaultMaxSeats, 450, 10*time.Millisecond)
	s, err := r.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := r.Get(s.ID); err != nil {
		t.Fatalf("get: %v", err)
	}

	// Not yet idle long enough.
	if n := r.Sweep(time.Now()); n != 0 {
		t.Errorf("premature eviction of %d sessions", n)
	}
	// Well past the TTL.
	if n := r.Sweep(time.Now().Add(time.Minute)); n != 1 {
		t.Errorf("expected 1 eviction, got %d", n)
	}
	if _, err := r.Get(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after eviction, got %v", err)
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry(DefaultMaxSeats, 450, 0)
	s, _ := r.Create()
	r.Remove(s.ID)
	if _, err := r.Get(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("registry should be empty, has %d", r.Len())
	}
}
