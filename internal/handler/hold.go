package handler

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventbook/slot-reservation/internal/model"
	"github.com/eventbook/slot-reservation/internal/repository"
)

// Bounds on the caller-supplied hold duration, in minutes.
const (
	minHoldMinutes = 1
	maxHoldMinutes = 60
)

// HoldHandler implements the two-phase reservation state machine's
// first phase: create, verify and release holds.  Creation runs inside
// a per-slot critical section; verification and release are cheap
// row-level operations.
type HoldHandler struct {
	EventRepo *repository.EventRepo
	SlotRepo  *repository.SlotRepo
	HoldRepo  *repository.HoldRepo

	// DefaultHoldMinutes applies when the caller does not supply a
	// duration.  Configured via HOLD_DURATION_MIN, default 10.
	DefaultHoldMinutes int
}

// NewHoldHandler constructs a HoldHandler.  All repositories must be
// non-nil.
func NewHoldHandler(eventRepo *repository.EventRepo, slotRepo *repository.SlotRepo, holdRepo *repository.HoldRepo, defaultHoldMinutes int) *HoldHandler {
	if eventRepo == nil || slotRepo == nil || holdRepo == nil {
		panic("nil repository passed to NewHoldHandler")
	}
	return &HoldHandler{
		EventRepo:          eventRepo,
		SlotRepo:           slotRepo,
		HoldRepo:           holdRepo,
		DefaultHoldMinutes: defaultHoldMinutes,
	}
}

// clampDuration resolves the effective hold duration in minutes from
// the optional caller value and the configured default, bounded to
// [1, 60].
func clampDuration(requested *int, def int) int {
	d := def
	if requested != nil {
		d = *requested
	}
	if d < minHoldMinutes {
		return minHoldMinutes
	}
	if d > maxHoldMinutes {
		return maxHoldMinutes
	}
	return d
}

// CreateHold handles POST /v1/slots/:id/holds.  It reserves quantity
// seats on the slot for the calling session for a bounded time.  The
// whole protocol – expiry sweep, bookability check, capacity guard,
// replacement of the session's prior hold, insert – runs inside one
// transaction holding the slot's row lock, which is what makes two
// concurrent requests for the last seat resolve to exactly one winner.
func (h *HoldHandler) CreateHold(c echo.Context) error {
	slotID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || slotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_argument", "message": "invalid slot id"})
	}
	var body struct {
		SessionID   string  `json:"session_id"`
		Quantity    int64   `json:"quantity"`
		DurationMin *int    `json:"duration_min"`
		UserID      *uint64 `json:"user_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_argument", "message": "invalid request body"})
	}
	session := body.SessionID
	if session == "" {
		session = sessionID(c)
	}
	if session == "" {
		return writeError(c, repository.ErrInvalidArgument)
	}
	if body.Quantity < 1 {
		return writeError(c, repository.ErrInvalidQuantity)
	}
	userID := currentUserID(c)
	if userID == nil {
		userID = body.UserID
	}
	duration := time.Duration(clampDuration(body.DurationMin, h.DefaultHoldMinutes)) * time.Minute

	ctx, cancel := opContext(c, writeDeadline)
	defer cancel()

	hold := &model.Hold{
		SlotID:    slotID,
		SessionID: session,
		UserID:    userID,
		Quantity:  uint32(body.Quantity),
	}
	err = repository.RunInTx(ctx, h.SlotRepo.DB(), func(tx *sql.Tx) error {
		// The slot lock comes first so every statement below, the
		// scoped expiry sweep included, runs serialised per slot.
		slot, err := h.SlotRepo.GetForUpdateTx(ctx, tx, slotID)
		if err != nil {
			return err
		}
		if _, err := h.HoldRepo.ReleaseExpiredBySlotTx(ctx, tx, slotID); err != nil {
			return err
		}
		now := time.Now().UTC()
		if slot.Status != model.SlotStatusAvailable || !slot.StartTime.After(now) {
			return repository.ErrSlotUnavailable
		}
		ev, err := h.EventRepo.GetTx(ctx, tx, slot.EventID)
		if err != nil {
			return err
		}
		if !ev.Bookable() {
			return repository.ErrSlotUnavailable
		}
		held, err := h.HoldRepo.SumActiveExcludingSessionTx(ctx, tx, slotID, session)
		if err != nil {
			return err
		}
		effective := slot.EffectiveAvailable(held)
		if effective < body.Quantity {
			return &repository.CapacityError{Available: effective}
		}
		if _, err := h.HoldRepo.DeactivateBySlotSessionTx(ctx, tx, slotID, session); err != nil {
			return err
		}
		hold.ExpiresAt = now.Add(duration)
		return h.HoldRepo.CreateTx(ctx, tx, hold)
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"hold_id":    hold.ID,
		"expires_at": hold.ExpiresAt.Format(time.RFC3339),
	})
}

// VerifyHold handles GET /v1/holds/:id.  It reports whether the hold
// can still be exchanged for a booking.  An expired-but-still-active
// hold is healed on the spot; the transition is idempotent, so
// concurrent verifiers race benignly.  For a well-formed request the
// answer is a tuple, and a missing hold is reported as "not found"
// inside it; a missing session, a malformed hold id or a storage
// failure is answered with an error kind.
func (h *HoldHandler) VerifyHold(c echo.Context) error {
	if sessionID(c) == "" {
		return writeError(c, repository.ErrInvalidArgument)
	}
	holdID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || holdID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_argument", "message": "invalid hold id"})
	}
	ctx, cancel := opContext(c, readDeadline)
	defer cancel()

	hold, err := h.HoldRepo.GetByID(ctx, holdID)
	if err != nil {
		return writeError(c, err)
	}
	if hold == nil {
		return c.JSON(http.StatusOK, echo.Map{"is_valid": false, "reason": "not found", "expires_at": nil})
	}
	expiresAt := hold.ExpiresAt.Format(time.RFC3339)
	if !hold.IsActive {
		return c.JSON(http.StatusOK, echo.Map{"is_valid": false, "reason": "released", "expires_at": expiresAt})
	}
	if hold.Expired(time.Now().UTC()) {
		if err := h.HoldRepo.MarkExpired(ctx, holdID); err != nil {
			log.Printf("verify: self-heal of hold %d failed: %v", holdID, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"is_valid": false, "reason": "expired", "expires_at": expiresAt})
	}
	return c.JSON(http.StatusOK, echo.Map{"is_valid": true, "reason": nil, "expires_at": expiresAt})
}

// ReleaseHold handles DELETE /v1/holds/:id.  Best-effort and
// idempotent: the response reports whether the active→released
// transition was applied, and callers must not treat false as fatal –
// the expiry sweep reaps anything missed.  Storage errors are logged
// and suppressed for the same reason.
func (h *HoldHandler) ReleaseHold(c echo.Context) error {
	if sessionID(c) == "" {
		return writeError(c, repository.ErrInvalidArgument)
	}
	holdID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || holdID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_argument", "message": "invalid hold id"})
	}
	ctx, cancel := opContext(c, readDeadline)
	defer cancel()

	released, err := h.HoldRepo.Release(ctx, holdID)
	if err != nil {
		log.Printf("release: hold %d: %v", holdID, err)
		released = false
	}
	return c.JSON(http.StatusOK, echo.Map{"released": released})
}
