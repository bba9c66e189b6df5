// Package handler exposes the HTTP surface of the booking engine:
// read-only venue endpoints and the session/checkout lifecycle.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rjsarena/arena-booking/internal/booking"
	"github.com/rjsarena/arena-booking/internal/model"
	"github.com/rjsarena/arena-booking/internal/store"
	"github.com/rjsarena/arena-booking/internal/venue"
)

// VenueHandler serves the static layout and the live seat map.  The
// seat map is rebuilt from a fresh occupancy snapshot on every request;
// nothing is cached here (the cache middleware handles that).
type VenueHandler struct {
	Layout   venue.Layout
	Store    store.Occupancy
	Sessions *booking.Registry // for overlaying a session's holds
}

// NewVenueHandler constructs a VenueHandler.  Store must be non-nil.
func NewVenueHandler(layout venue.Layout, occ store.Occupancy, sessions *booking.Registry) *VenueHandler {
	if occ == nil {
		panic("nil occupancy store passed to NewVenueHandler")
	}
	return &VenueHandler{Layout: layout, Store: occ, Sessions: sessions}
}

// GetLayout handles GET /v1/venue/layout.  The layout is fixed at
// configuration time, so the response never changes while the process
// lives.
func (h *VenueHandler) GetLayout(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Layout)
}

// seatMapResponse is the payload for GET /v1/venue/seats.
type seatMapResponse struct {
	Venue     string       `json:"venue"`
	Seats     []model.Seat `json:"seats"`
	Available int          `json:"available"`
}

// GetSeats handles GET /v1/venue/seats.  It snapshots occupancy, builds
// the canonical seat map and, when a ?session= id is supplied and known,
// overlays that session's holds as HELD.  Holds belonging to other
// sessions are never visible.
func (h *VenueHandler) GetSeats(c echo.Context) error {
	ctx := c.Request().Context()
	occupied, err := h.Store.Snapshot(ctx)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage_unavailable"})
	}
	seats := venue.BuildSeatMap(h.Layout, occupied)

	if sid := c.QueryParam("session"); sid != "" && h.Sessions != nil {
		if s, err := h.Sessions.Get(sid); err == nil {
			seats = venue.OverlayHolds(seats, s.HeldIDs())
		}
	}
	return c.JSON(http.StatusOK, seatMapResponse{
		Venue:     h.Layout.VenueName,
		Seats:     seats,
		Available: venue.CountAvailable(seats),
	})
}
