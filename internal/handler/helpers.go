package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventbook/slot-reservation/internal/repository"
)

// Caller-facing deadlines.  Reads get 5s, the two transactional writes
// get 10s.  A deadline that fires after the commit point does not undo
// the committed effect; the caller re-reads to observe it.
const (
	readDeadline  = 5 * time.Second
	writeDeadline = 10 * time.Second
)

// opContext derives a deadline-bound context for one operation from the
// incoming request context.
func opContext(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), d)
}

// sessionID extracts the caller's opaque session identifier: the
// X-Session-ID header, falling back to a session_id query parameter.
// The outer layer produces the value; this core only requires it to be
// non-empty on reservation operations.
func sessionID(c echo.Context) string {
	if v := c.Request().Header.Get("X-Session-ID"); v != "" {
		return v
	}
	return c.QueryParam("session_id")
}

// currentUserID returns the authenticated user's ID when the optional
// bearer token middleware put one on the context, nil otherwise.
func currentUserID(c echo.Context) *uint64 {
	v := c.Get("user_id")
	if v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return nil
	}
	return &id
}

// writeError translates the repository error taxonomy into an HTTP
// response with a stable machine-readable kind.  Clients branch on
// "error"; "message" is for humans.
func writeError(c echo.Context, err error) error {
	var capErr *repository.CapacityError
	switch {
	case errors.Is(err, repository.ErrInvalidQuantity):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_quantity", "message": err.Error()})
	case errors.Is(err, repository.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_argument", "message": err.Error()})
	case errors.Is(err, repository.ErrInvalidAttendee):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_attendee", "message": err.Error()})
	case errors.Is(err, repository.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event_not_found", "message": err.Error()})
	case errors.Is(err, repository.ErrSlotNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "slot_not_found", "message": err.Error()})
	case errors.Is(err, repository.ErrSlotUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot_unavailable", "message": err.Error()})
	case errors.Is(err, repository.ErrHoldInvalid):
		return c.JSON(http.StatusConflict, echo.Map{"error": "hold_invalid", "message": err.Error()})
	case errors.As(err, &capErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "capacity_exceeded",
			"message":   err.Error(),
			"available": capErr.Available,
		})
	case errors.Is(err, repository.ErrTransientStorage):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "transient_storage", "message": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "message": "unexpected error"})
	}
}
