package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/eventbook/slot-reservation/internal/config"
	"github.com/eventbook/slot-reservation/internal/handler"
	"github.com/eventbook/slot-reservation/internal/middleware"
)

// RegisterRoutes registers routes that carry no reservation semantics.
// Currently this is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints.  These
// are the only routes wrapped by the response cache: everything
// downstream of a capacity decision must read current state.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cache := middleware.NewResponseCache(cacheCfg, rdb)
	e.GET("/v1/events", p.ListEvents, cache)
	e.GET("/v1/events/:id", p.GetEvent, cache)
}

// RegisterAvailability registers the read side of the reservation core.
// Both endpoints are open to anonymous callers; the availability
// listing personalises its numbers with the optional session header.
func RegisterAvailability(e *echo.Echo, a *handler.AvailabilityHandler) {
	e.GET("/v1/events/:id/availability", a.ListAvailability)
	e.GET("/v1/events/:id/can-book", a.CanBook)
}

// RegisterReservation registers the write side: holds and
// confirmations.  A session identifier is required by every handler in
// this group; a bearer token is optional and only enriches the records
// with a user_id.
func RegisterReservation(e *echo.Echo, h *handler.HoldHandler, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.OptionalAuth(jwtSecret))
	g.POST("/slots/:id/holds", h.CreateHold)
	g.GET("/holds/:id", h.VerifyHold)
	g.DELETE("/holds/:id", h.ReleaseHold)
	g.POST("/holds/:id/confirm", b.ConfirmBooking)
	g.GET("/bookings/:reference", b.GetBooking)
}
