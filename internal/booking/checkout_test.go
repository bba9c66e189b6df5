package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rjsarena/arena-booking/internal/model"
	"github.com/rjsarena/arena-booking/internal/store"
	"github.com/rjsarena/arena-booking/internal/venue"
)

// stalledStore blocks until the commit context expires.
type stalledStore struct{}

func (stalledStore) Snapshot(ctx context.Context) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func (stalledStore) Commit(ctx context.Context, seatIDs []string) error {
	<-ctx.Done()
	return ctx.Err()
}

func holdSeats(t *testing.T, s *Session, occ map[string]struct{}, ids ...string) {
	t.Helper()
	seats := venue.BuildSeatMap(venue.Default(), occ)
	for _, id := range ids {
		seat, ok := venue.FindSeat(seats, id)
		if !ok {
			t.Fatalf("seat %s not in layout", id)
		}
		if err := s.Toggle(seat); err != nil {
			t.Fatalf("toggle %s: %v", id, err)
		}
	}
}

func TestCheckoutEmptySelection(t *testing.T) {
	touched := false
	p := &Processor{Store: commitSpy{onCommit: func() { touched = true }}}
	s := mustSession(t)

	_, err := p.Checkout(context.Background(), s)
	if !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
	if touched {
		t.Error("store must not be contacted for an empty selection")
	}
}

// commitSpy records whether Commit was called.
type commitSpy struct{ onCommit func() }

func (c commitSpy) Snapshot(ctx context.Context) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func (c commitSpy) Commit(ctx context.Context, seatIDs []string) error {
	c.onCommit()
	return nil
}

func TestCheckoutSuccess(t *testing.T) {
	mem := store.NewMemory()
	var published *model.Ticket
	p := &Processor{
		Store:   mem,
		Timeout: time.Second,
		Events: func(ctx context.Context, ticket model.Ticket, sessionID string) {
			published = &ticket
		},
	}
	s := mustSession(t)
	holdSeats(t, s, nil, "A1", "A2", "B1")

	ticket, err := p.Checkout(context.Background(), s)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !strings.HasPrefix(ticket.TicketID, "RJS-") {
		t.Errorf("ticket id %q missing venue prefix", ticket.TicketID)
	}
	want := []string{"A1", "A2", "B1"}
	if len(ticket.SeatIDs) != len(want) {
		t.Fatalf("ticket seats = %v, want %v", ticket.SeatIDs, want)
	}
	for i, id := range want {
		if ticket.SeatIDs[i] != id {
			t.Errorf("seat order not preserved: %v", ticket.SeatIDs)
			break
		}
	}
	if ticket.SubtotalCents != 32000 || ticket.FeeCents != 450 || ticket.TotalCents != 32450 {
		t.Errorf("pricing = %d/%d/%d, want 32000/450/32450",
			ticket.SubtotalCents, ticket.FeeCents, ticket.TotalCents)
	}
	if ticket.IssuedAt.IsZero() {
		t.Error("ticket must carry an issue timestamp")
	}
	if published == nil || published.TicketID != ticket.TicketID {
		t.Error("event sink did not receive the minted ticket")
	}
	// The seats are now durably occupied.
	snap, _ := mem.Snapshot(context.Background())
	for _, id := range want {
		if _, ok := snap[id]; !ok {
			t.Errorf("seat %s not occupied after checkout", id)
		}
	}
}

func TestCheckoutConflictThenRetry(t *testing.T) {
	mem := store.NewMemory("C10")
	p := &Processor{Store: mem, Timeout: time.Second}
	s := mustSession(t)
	// The session held C10 before it was sold elsewhere; the map it
	// toggled against predates the sale.
	holdSeats(t, s, nil, "C9", "C10", "C11")

	_, err := p.Checkout(context.Background(), s)
	var conflict *store.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(conflict.Contested) != 1 || conflict.Contested[0] != "C10" {
		t.Fatalf("contested = %v, want [C10]", conflict.Contested)
	}
	// Nothing was sold by the failed attempt.
	snap, _ := mem.Snapshot(context.Background())
	if len(snap) != 1 {
		t.Fatalf("conflicted commit sold seats: %v", snap)
	}

	// Drop the contested id and resubmit the remainder.
	s.Drop(conflict.Contested)
	ticket, err := p.Checkout(context.Background(), s)
	if err != nil {
		t.Fatalf("retry checkout: %v", err)
	}
	if len(ticket.SeatIDs) != 2 || ticket.SeatIDs[0] != "C9" || ticket.SeatIDs[1] != "C11" {
		t.Fatalf("retry ticket seats = %v, want [C9 C11]", ticket.SeatIDs)
	}
}

// Two sessions hold the same seat and check out concurrently; exactly
// one wins it.
func TestCheckoutConcurrentSingleWinner(t *testing.T) {
	mem := store.NewMemory()
	p := &Processor{Store: mem, Timeout: time.Second}

	s1 := mustSession(t)
	s2 := mustSession(t)
	holdSeats(t, s1, nil, "C10")
	holdSeats(t, s2, nil, "C10")

	type outcome struct {
		ticket *model.Ticket
		err    error
	}
	results := make(chan outcome, 2)
	var wg sync.WaitGroup
	for _, s := range []*Session{s1, s2} {
		wg.Add(1)
		go func(sess *Session) {
			defer wg.Done()
			tk, err := p.Checkout(context.Background(), sess)
			results <- outcome{tk, err}
		}(s)
	}
	wg.Wait()
	close(results)

	var tickets, conflicts int
	for res := range results {
		if res.err == nil {
			tickets++
			if len(res.ticket.SeatIDs) != 1 || res.ticket.SeatIDs[0] != "C10" {
				t.Errorf("winning ticket seats = %v", res.ticket.SeatIDs)
			}
			continue
		}
		var conflict *store.ConflictError
		if !errors.As(res.err, &conflict) {
			t.Errorf("loser got unexpected error: %v", res.err)
			continue
		}
		conflicts++
		if len(conflict.Contested) != 1 || conflict.Contested[0] != "C10" {
			t.Errorf("loser contested = %v, want [C10]", conflict.Contested)
		}
	}
	if tickets != 1 || conflicts != 1 {
		t.Fatalf("expected 1 ticket and 1 conflict, got %d/%d", tickets, conflicts)
	}
}

func TestCheckoutStalledStoreTimesOut(t *testing.T) {
	p := &Processor{Store: stalledStore{}, Timeout: 20 * time.Millisecond}
	s := mustSession(t)
	holdSeats(t, s, nil, "D1")

	start := time.Now()
	_, err := p.Checkout(context.Background(), s)
	if !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("checkout blocked for %v, should have timed out quickly", elapsed)
	}
	// The held list survives a storage failure; the attempt may be retried.
	if s.Len() != 1 {
		t.Errorf("held list changed on storage failure: %d", s.Len())
	}
}

func TestNewTicketIDFormat(t *testing.T) {
	a, err := NewTicketID()
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	b, _ := NewTicketID()
	if a == b {
		t.Fatal("ticket ids must be unique")
	}
	if !strings.HasPrefix(a, "RJS-") || len(a) != 4+32 {
		t.Errorf("unexpected ticket id format: %q", a)
	}
	if strings.ToUpper(a) != a {
		t.Errorf("ticket id should be upper case: %q", a)
	}
}
