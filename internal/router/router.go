// Package router wires the engine's HTTP routes onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rjsarena/arena-booking/internal/handler"
)

// RegisterRoutes registers routes that need no dependencies.  Currently
// that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterVenue registers the read-only venue endpoints.  cacheware,
// when non-nil, is applied to these routes only: the seat map tolerates
// a short-TTL cache, the session routes never do.
func RegisterVenue(e *echo.Echo, v *handler.VenueHandler, cacheware ...echo.MiddlewareFunc) {
	g := e.Group("/v1/venue", cacheware...)
	g.GET("/layout", v.GetLayout)
	g.GET("/seats", v.GetSeats)
}

// RegisterBooking registers the session lifecycle and checkout routes.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler) {
	e.POST("/v1/sessions", b.CreateSession)
	e.GET("/v1/sessions/:id", b.GetSession)
	e.POST("/v1/sessions/:id/toggle", b.ToggleSeat)
	e.DELETE("/v1/sessions/:id", b.AbandonSession)
	e.POST("/v1/sessions/:id/checkout", b.Checkout)
}
