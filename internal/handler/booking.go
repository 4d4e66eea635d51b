package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventbook/slot-reservation/internal/model"
	"github.com/eventbook/slot-reservation/internal/queue"
	"github.com/eventbook/slot-reservation/internal/repository"
	publisher "github.com/eventbook/slot-reservation/internal/service"
)

// emailPattern is a conservative syntactic check: one @, no whitespace,
// a dot somewhere in the domain.  Deliverability is not this core's
// problem.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Attendee carries the attendee details required to confirm a booking.
type Attendee struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

// Validate trims all fields in place and checks that first name, last
// name and a syntactically valid email are present.  The returned
// error wraps ErrInvalidAttendee with the offending field.
func (a *Attendee) Validate() error {
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.LastName = strings.TrimSpace(a.LastName)
	a.Email = strings.TrimSpace(a.Email)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Notes = strings.TrimSpace(a.Notes)
	if a.FirstName == "" {
		return fmt.Errorf("%w: first_name is required", repository.ErrInvalidAttendee)
	}
	if a.LastName == "" {
		return fmt.Errorf("%w: last_name is required", repository.ErrInvalidAttendee)
	}
	if a.Email == "" || !emailPattern.MatchString(a.Email) {
		return fmt.Errorf("%w: email is missing or malformed", repository.ErrInvalidAttendee)
	}
	return nil
}

// BookingHandler implements the second phase of the reservation
// protocol: converting a valid hold into a confirmed booking, plus the
// post-booking lookup by reference.
type BookingHandler struct {
	EventRepo   *repository.EventRepo
	SlotRepo    *repository.SlotRepo
	HoldRepo    *repository.HoldRepo
	BookingRepo *repository.BookingRepo
	AttemptRepo *repository.AttemptRepo
}

// NewBookingHandler constructs a BookingHandler.  All repositories must
// be non-nil.
func NewBookingHandler(eventRepo *repository.EventRepo, slotRepo *repository.SlotRepo, holdRepo *repository.HoldRepo, bookingRepo *repository.BookingRepo, attemptRepo *repository.AttemptRepo) *BookingHandler {
	if eventRepo == nil || slotRepo == nil || holdRepo == nil || bookingRepo == nil || attemptRepo == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{
		EventRepo:   eventRepo,
		SlotRepo:    slotRepo,
		HoldRepo:    holdRepo,
		BookingRepo: bookingRepo,
		AttemptRepo: attemptRepo,
	}
}

// ConfirmBooking handles POST /v1/holds/:id/confirm.  Inside one
// transaction holding the slot's row lock it re-validates the hold,
// re-runs the capacity guard with the consumed hold excluded from the
// subtracted set, writes the booking with a unique reference, bumps the
// slot counters, consumes the hold and appends a success row to the
// attempt log.  Failed attempts are logged to the attempt log in their
// own statement so the trail survives the rollback.
func (h *BookingHandler) ConfirmBooking(c echo.Context) error {
	if sessionID(c) == "" {
		return writeError(c, repository.ErrInvalidArgument)
	}
	holdID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || holdID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_argument", "message": "invalid hold id"})
	}
	var att Attendee
	if err := c.Bind(&att); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_argument", "message": "invalid request body"})
	}
	if err := att.Validate(); err != nil {
		return writeError(c, err)
	}

	ctx, cancel := opContext(c, writeDeadline)
	defer cancel()

	booking := &model.Booking{
		FirstName: att.FirstName,
		LastName:  att.LastName,
		Email:     att.Email,
	}
	if att.Phone != "" {
		booking.Phone = &att.Phone
	}
	if att.Notes != "" {
		booking.Notes = &att.Notes
	}

	var eventTitle string
	var slotStart time.Time
	txErr := repository.RunInTx(ctx, h.SlotRepo.DB(), func(tx *sql.Tx) error {
		hold, err := h.HoldRepo.GetForUpdateTx(ctx, tx, holdID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if hold == nil || !hold.IsActive || hold.Expired(now) {
			return repository.ErrHoldInvalid
		}
		slot, err := h.SlotRepo.GetForUpdateTx(ctx, tx, hold.SlotID)
		if err != nil {
			return err
		}
		booking.EventID = slot.EventID
		booking.SlotID = slot.ID
		booking.UserID = hold.UserID
		booking.Quantity = hold.Quantity
		slotStart = slot.StartTime

		ev, err := h.EventRepo.GetTx(ctx, tx, slot.EventID)
		if err != nil {
			return err
		}
		eventTitle = ev.Title

		// Capacity guard, round two.  The hold being consumed is
		// excluded: its quantity is about to convert, not stack.
		held, err := h.HoldRepo.SumActiveExcludingHoldTx(ctx, tx, slot.ID, hold.ID)
		if err != nil {
			return err
		}
		residual := slot.EffectiveAvailable(held)
		if residual < int64(hold.Quantity) {
			return &repository.CapacityError{Available: residual}
		}

		booking.SlotDate = slot.StartTime.UTC().Format("2006-01-02")
		booking.SlotTime = slot.StartTime.UTC().Format("15:04:05")
		if err := h.BookingRepo.CreateTx(ctx, tx, booking); err != nil {
			return err
		}
		newBooked := slot.BookedCount + hold.Quantity
		status := slot.Status
		if newBooked >= slot.TotalCapacity {
			status = model.SlotStatusFull
		}
		if err := h.SlotRepo.ApplyBookingTx(ctx, tx, slot.ID, newBooked, status); err != nil {
			return err
		}
		if err := h.HoldRepo.DeactivateTx(ctx, tx, hold.ID); err != nil {
			return err
		}
		return h.AttemptRepo.AppendTx(ctx, tx, &model.Attempt{
			EventID: slot.EventID,
			SlotID:  slot.ID,
			UserID:  hold.UserID,
			Email:   booking.Email,
			Status:  model.AttemptSuccess,
		})
	})
	if txErr != nil {
		h.logFailedAttempt(c, booking, txErr)
		return writeError(c, txErr)
	}

	// Post-commit, best-effort: downstream consumers (notifications,
	// analytics) learn about the confirmation via the broker.
	ev := queue.BookingConfirmedEvent{
		BookingID:   booking.ID,
		Reference:   booking.Reference,
		EventID:     booking.EventID,
		EventTitle:  eventTitle,
		SlotID:      booking.SlotID,
		SlotStart:   slotStart.UTC().Format(time.RFC3339),
		Quantity:    booking.Quantity,
		Email:       booking.Email,
		ConfirmedAt: booking.ConfirmedAt.UTC().Format(time.RFC3339),
	}
	if booking.UserID != nil {
		ev.UserID = *booking.UserID
	}
	if err := publisher.PublishBookingConfirmed(c.Request().Context(), ev); err != nil {
		log.Printf("confirm: publish booking.confirmed for %s failed: %v", booking.Reference, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":        booking.ID,
		"booking_reference": booking.Reference,
		"status":            booking.Status,
		"confirmed_at":      booking.ConfirmedAt.UTC().Format(time.RFC3339),
	})
}

// logFailedAttempt appends a failed row to the attempt log outside the
// rolled-back transaction.  Only attempts that got far enough to know
// their slot are recorded; errors here are logged and suppressed.
func (h *BookingHandler) logFailedAttempt(c echo.Context, b *model.Booking, cause error) {
	if b.SlotID == 0 {
		return
	}
	reason := failureReason(cause)
	if err := h.AttemptRepo.Append(c.Request().Context(), &model.Attempt{
		EventID:       b.EventID,
		SlotID:        b.SlotID,
		UserID:        b.UserID,
		Email:         b.Email,
		Status:        model.AttemptFailed,
		FailureReason: &reason,
	}); err != nil {
		log.Printf("confirm: attempt log write failed: %v", err)
	}
}

// failureReason compresses an error into the short tag stored in
// attempt_log.failure_reason.
func failureReason(err error) string {
	var capErr *repository.CapacityError
	switch {
	case errors.Is(err, repository.ErrHoldInvalid):
		return "hold invalid"
	case errors.As(err, &capErr):
		return "capacity exceeded"
	case errors.Is(err, repository.ErrTransientStorage):
		return "transient storage"
	default:
		msg := err.Error()
		if len(msg) > 255 {
			msg = msg[:255]
		}
		return msg
	}
}

// GetBooking handles GET /v1/bookings/:reference, the post-booking
// confirmation screen's lookup.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	if sessionID(c) == "" {
		return writeError(c, repository.ErrInvalidArgument)
	}
	ref := strings.ToUpper(strings.TrimSpace(c.Param("reference")))
	if len(ref) != 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_argument", "message": "invalid booking reference"})
	}
	ctx, cancel := opContext(c, readDeadline)
	defer cancel()

	b, err := h.BookingRepo.GetByReference(ctx, ref)
	if err != nil {
		return writeError(c, err)
	}
	if b == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking_not_found", "message": "booking not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking_id":        b.ID,
		"booking_reference": b.Reference,
		"event_id":          b.EventID,
		"slot_id":           b.SlotID,
		"first_name":        b.FirstName,
		"last_name":         b.LastName,
		"email":             b.Email,
		"quantity":          b.Quantity,
		"status":            b.Status,
		"slot_date":         b.SlotDate,
		"slot_time":         b.SlotTime,
		"confirmed_at":      b.ConfirmedAt.UTC().Format(time.RFC3339),
	})
}
