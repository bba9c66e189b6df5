package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rjsarena/arena-booking/internal/model"
	"github.com/rjsarena/arena-booking/internal/store"
)

// ticketPrefix marks every ticket id issued by this venue.
const ticketPrefix = "RJS-"

// EventSink receives the ticket minted by a successful checkout.
// Implementations must not fail the checkout; publish errors are theirs
// to log and swallow.
type EventSink func(ctx context.Context, ticket model.Ticket, sessionID string)

// Processor validates a session and attempts the atomic commit against
// the occupancy store.  It performs no retries: after a conflict the
// caller drops the contested ids and decides whether to resubmit.
type Processor struct {
	Store   store.Occupancy
	Timeout time.Duration // bounds each commit attempt; zero means no deadline
	Events  EventSink     // optional
}

// Checkout commits the session's held seats.
//
//   - ErrEmptySelection when nothing is held; the store is not touched.
//   - *store.ConflictError when the commit lost a race; nothing was
//     sold and Contested names the seats now occupied elsewhere.
//   - store.ErrUnavailable when the store cannot be reached or the
//     commit ran past its deadline; nothing was sold.
//
// On success the minted ticket is returned, the held seats are durably
// occupied, and the session is complete — the caller should discard it.
func (p *Processor) Checkout(ctx context.Context, s *Session) (*model.Ticket, error) {
	ids := s.HeldIDs()
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}

	commitCtx := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		commitCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	if err := p.Store.Commit(commitCtx, ids); err != nil {
		var conflict *store.ConflictError
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		if errors.Is(err, store.ErrUnavailable) {
			return nil, err
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, errors.Join(store.ErrUnavailable, err)
		}
		return nil, errors.Join(store.ErrUnavailable, err)
	}

	ticketID, err := NewTicketID()
	if err != nil {
		// Seats are sold at this point; an id must still be produced.
		// crypto/rand failing is a broken host, surface it as storage
		// trouble rather than minting a weak id.
		return nil, errors.Join(store.ErrUnavailable, err)
	}
	ticket := model.Ticket{
		TicketID:      ticketID,
		SeatIDs:       ids,
		SubtotalCents: s.Subtotal(),
		FeeCents:      s.Fee(),
		TotalCents:    s.Total(),
		IssuedAt:      time.Now().UTC(),
	}
	if p.Events != nil {
		p.Events(ctx, ticket, s.ID)
	}
	return &ticket, nil
}

// NewTicketID mints a collision-resistant ticket identifier: the venue
// prefix plus 128 random bits, hex encoded.
func NewTicketID() (string, error) {
	tok, err := randomToken(16)
	if err != nil {
		return "", err
	}
	return ticketPrefix + strings.ToUpper(tok), nil
}
