package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventbook/slot-reservation/internal/repository"
)

// AvailabilityHandler serves the read side of the reservation core:
// per-slot live availability and the pre-flight bookability check.
// Both are open to unauthenticated callers.
type AvailabilityHandler struct {
	EventRepo *repository.EventRepo
	SlotRepo  *repository.SlotRepo
	HoldRepo  *repository.HoldRepo
}

// NewAvailabilityHandler constructs an AvailabilityHandler.  All
// dependencies must be non-nil.
func NewAvailabilityHandler(eventRepo *repository.EventRepo, slotRepo *repository.SlotRepo, holdRepo *repository.HoldRepo) *AvailabilityHandler {
	if eventRepo == nil || slotRepo == nil || holdRepo == nil {
		panic("nil repository passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{EventRepo: eventRepo, SlotRepo: slotRepo, HoldRepo: holdRepo}
}

// AvailabilityRow is one bookable slot with the availability the
// calling session would see: confirmed bookings and other sessions'
// active holds subtracted, the caller's own holds not.
type AvailabilityRow struct {
	SlotID             uint64    `json:"slot_id"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	TotalCapacity      uint32    `json:"total_capacity"`
	EffectiveAvailable int64     `json:"effective_available"`
	PriceCents         uint32    `json:"price_cents"`
}

// ListAvailability handles GET /v1/events/:id/availability.  For each
// future available slot of the event it reports the effective
// availability for the calling session, ordered by start time.  Rows
// whose effective availability has dropped to zero or below are still
// emitted; clients that hide full slots filter them.
func (h *AvailabilityHandler) ListAvailability(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_argument", "message": "invalid event id"})
	}
	ctx, cancel := opContext(c, readDeadline)
	defer cancel()

	if _, err := h.EventRepo.GetByID(ctx, eventID); err != nil {
		return writeError(c, err)
	}

	// Opportunistic sweep; correctness never depends on it because
	// every hold query also filters on expires_at > now.
	if _, err := h.HoldRepo.ReleaseExpiredByEvent(ctx, eventID); err != nil {
		log.Printf("availability: expiry sweep for event %d failed: %v", eventID, err)
	}

	slots, err := h.SlotRepo.ListOpenByEvent(ctx, eventID)
	if err != nil {
		return writeError(c, err)
	}
	sums, err := h.HoldRepo.ActiveSumsByEvent(ctx, eventID, sessionID(c))
	if err != nil {
		return writeError(c, err)
	}

	rows := make([]AvailabilityRow, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, AvailabilityRow{
			SlotID:             s.ID,
			StartTime:          s.StartTime,
			EndTime:            s.EndTime,
			TotalCapacity:      s.TotalCapacity,
			EffectiveAvailable: s.EffectiveAvailable(sums[s.ID]),
			PriceCents:         s.PriceCents,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows})
}

// CanBook handles GET /v1/events/:id/can-book.  It always answers with
// a tuple: whether the event currently has at least one slot that can
// seat the requested quantity, an optional reason when it cannot, and
// the number of such slots.  The check is session-agnostic – every
// active hold counts against capacity.
func (h *AvailabilityHandler) CanBook(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_argument", "message": "invalid event id"})
	}
	quantity := int64(1)
	if q := c.QueryParam("quantity"); q != "" {
		n, err := strconv.ParseInt(q, 10, 64)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_quantity", "message": "quantity must be a positive integer"})
		}
		quantity = n
	}
	ctx, cancel := opContext(c, readDeadline)
	defer cancel()

	refuse := func(reason string) error {
		return c.JSON(http.StatusOK, echo.Map{
			"can_book":             false,
			"reason":               reason,
			"available_slot_count": 0,
		})
	}

	ev, err := h.EventRepo.GetByID(ctx, eventID)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return refuse("event not found")
		}
		return writeError(c, err)
	}
	if !ev.Bookable() {
		return refuse("event is not open for booking")
	}

	slots, err := h.SlotRepo.ListOpenByEvent(ctx, eventID)
	if err != nil {
		return writeError(c, err)
	}
	sums, err := h.HoldRepo.ActiveSumsByEvent(ctx, eventID, "")
	if err != nil {
		return writeError(c, err)
	}
	count := 0
	for _, s := range slots {
		if s.EffectiveAvailable(sums[s.ID]) >= quantity {
			count++
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"can_book":             count > 0,
		"reason":               nil,
		"available_slot_count": count,
	})
}
