package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rjsarena/arena-booking/internal/booking"
	"github.com/rjsarena/arena-booking/internal/store"
	"github.com/rjsarena/arena-booking/internal/venue"
)

// BookingHandler drives the session lifecycle: create, toggle seats,
// inspect, abandon and check out.  Validation failures never reach the
// occupancy store; only checkout does.
type BookingHandler struct {
	Layout    venue.Layout
	Store     store.Occupancy
	Sessions  *booking.Registry
	Processor *booking.Processor
}

// NewBookingHandler constructs a BookingHandler.  All dependencies must
// be non-nil.
func NewBookingHandler(layout venue.Layout, occ store.Occupancy, sessions *booking.Registry, processor *booking.Processor) *BookingHandler {
	if occ == nil || sessions == nil || processor == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Layout: layout, Store: occ, Sessions: sessions, Processor: processor}
}

// sessionSummary is the canonical session representation returned by
// every session endpoint.
type sessionSummary struct {
	SessionID     string   `json:"session_id"`
	SeatIDs       []string `json:"seat_ids"`
	SubtotalCents uint32   `json:"subtotal_cents"`
	FeeCents      uint32   `json:"fee_cents"`
	TotalCents    uint32   `json:"total_cents"`
}

func summarize(s *booking.Session) sessionSummary {
	return sessionSummary{
		SessionID:     s.ID,
		SeatIDs:       s.HeldIDs(),
		SubtotalCents: s.Subtotal(),
		FeeCents:      s.Fee(),
		TotalCents:    s.Total(),
	}
}

// CreateSession handles POST /v1/sessions.  It starts a new booking
// attempt and returns the opaque session id the client must present on
// subsequent calls.
func (h *BookingHandler) CreateSession(c echo.Context) error {
	s, err := h.Sessions.Create()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create session"})
	}
	return c.JSON(http.StatusCreated, summarize(s))
}

// GetSession handles GET /v1/sessions/:id and returns the held seats
// and pricing summary.
func (h *BookingHandler) GetSession(c echo.Context) error {
	s, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	return c.JSON(http.StatusOK, summarize(s))
}

// ToggleSeat handles POST /v1/sessions/:id/toggle.  The body names one
// seat; holding an available seat adds it, toggling a held seat
// releases it.  The seat's occupancy is checked against a fresh
// snapshot so a seat sold since the client last rendered cannot be
// held.
func (h *BookingHandler) ToggleSeat(c echo.Context) error {
	s, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	var body struct {
		SeatID string `json:"seat_id"`
	}
	if err := c.Bind(&body); err != nil || body.SeatID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id is required"})
	}

	ctx := c.Request().Context()
	occupied, err := h.Store.Snapshot(ctx)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage_unavailable"})
	}
	seats := venue.BuildSeatMap(h.Layout, occupied)
	seat, ok := venue.FindSeat(seats, body.SeatID)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown seat", "seat_id": body.SeatID})
	}

	switch err := s.Toggle(seat); {
	case err == nil:
		return c.JSON(http.StatusOK, summarize(s))
	case errors.Is(err, booking.ErrSeatUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat_unavailable", "seat_id": seat.ID})
	case errors.Is(err, booking.ErrSelectionLimit):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "selection_limit_exceeded"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle failed"})
	}
}

// AbandonSession handles DELETE /v1/sessions/:id.  The session's holds
// vanish without trace; its seats were never visible to anyone else.
func (h *BookingHandler) AbandonSession(c echo.Context) error {
	h.Sessions.Remove(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

// Checkout handles POST /v1/sessions/:id/checkout.  On success the
// session is discarded and the minted ticket returned.  On a seat
// conflict the contested ids are dropped from the session — their true
// state is now occupied — and returned so the client may retry with
// the remainder.
func (h *BookingHandler) Checkout(c echo.Context) error {
	s, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}

	ticket, err := h.Processor.Checkout(c.Request().Context(), s)
	if err != nil {
		var conflict *store.ConflictError
		switch {
		case errors.Is(err, booking.ErrEmptySelection):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty_selection"})
		case errors.As(err, &conflict):
			s.Drop(conflict.Contested)
			return c.JSON(http.StatusConflict, echo.Map{
				"error":     "seat_conflict",
				"contested": conflict.Contested,
			})
		case errors.Is(err, store.ErrUnavailable):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage_unavailable"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "checkout failed"})
		}
	}

	h.Sessions.Remove(s.ID)
	return c.JSON(http.StatusCreated, ticket)
}
