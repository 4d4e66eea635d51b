// This file defines handlers for the public browsing API.  These
// routes let unauthenticated visitors discover events before picking a
// slot.  Lifecycle and template fields are filtered from responses.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eventbook/slot-reservation/internal/model"
	"github.com/eventbook/slot-reservation/internal/repository"
)

// PublicHandler serves sanitized event data to unauthenticated callers.
type PublicHandler struct {
	EventRepo *repository.EventRepo
}

// PublicEvent represents an event exposed via the public API.  It
// contains only safe fields.
type PublicEvent struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// ListEvents handles GET /v1/events.  It returns all active, public
// events.  Unlisted events stay reachable by direct link but never
// appear here.
func (h *PublicHandler) ListEvents(c echo.Context) error {
	ctx, cancel := opContext(c, readDeadline)
	defer cancel()

	events, err := h.EventRepo.ListPublic(ctx)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]PublicEvent, 0, len(events))
	for _, e := range events {
		out = append(out, PublicEvent{ID: e.ID, Title: e.Title, Description: e.Description})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetEvent handles GET /v1/events/:id.  Active events of any
// visibility other than private (public, unlisted, protected) are
// visible; anything else reads as not found so private drafts do not
// leak their existence.
func (h *PublicHandler) GetEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_argument", "message": "invalid event id"})
	}
	ctx, cancel := opContext(c, readDeadline)
	defer cancel()

	e, err := h.EventRepo.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if e.Status != model.EventStatusActive || e.Visibility == model.VisibilityPrivate {
		return writeError(c, repository.ErrEventNotFound)
	}
	return c.JSON(http.StatusOK, PublicEvent{ID: e.ID, Title: e.Title, Description: e.Description})
}
