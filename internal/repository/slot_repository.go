package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eventbook/slot-reservation/internal/model"
)

// SlotRepo manages persistence for time slots.  The reservation flow
// always touches a slot through GetForUpdateTx so that every capacity
// decision on that slot is serialised by the InnoDB row lock.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo returns a new SlotRepo bound to the given database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// DB exposes the underlying sql.DB for transaction control.
func (r *SlotRepo) DB() *sql.DB { return r.db }

const slotColumns = `id, event_id, start_time, end_time, total_capacity, booked_count, status, price_cents, created_at, updated_at`

func scanSlot(row interface{ Scan(...any) error }) (*model.TimeSlot, error) {
	var s model.TimeSlot
	err := row.Scan(
		&s.ID, &s.EventID, &s.StartTime, &s.EndTime,
		&s.TotalCapacity, &s.BookedCount, &s.Status, &s.PriceCents,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID returns the slot with the given ID or ErrSlotNotFound.
func (r *SlotRepo) GetByID(ctx context.Context, id uint64) (*model.TimeSlot, error) {
	const q = `SELECT ` + slotColumns + ` FROM time_slots WHERE id = ?`
	s, err := scanSlot(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	return s, err
}

// GetForUpdateTx loads the slot row under an exclusive row lock.  This
// is the entry point of the per-slot critical section: concurrent
// reservation transactions on the same slot queue behind this lock, so
// each observes the committed effects of those ordered before it.
func (r *SlotRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.TimeSlot, error) {
	const q = `SELECT ` + slotColumns + ` FROM time_slots WHERE id = ? FOR UPDATE`
	s, err := scanSlot(tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	return s, err
}

// ListOpenByEvent returns the event's bookable slots: available, in the
// future, with uncommitted capacity remaining, ordered by start time.
func (r *SlotRepo) ListOpenByEvent(ctx context.Context, eventID uint64) ([]model.TimeSlot, error) {
	const q = `SELECT ` + slotColumns + `
	           FROM time_slots
	           WHERE event_id = ?
	             AND status = ?
	             AND start_time > UTC_TIMESTAMP()
	             AND booked_count < total_capacity
	           ORDER BY start_time ASC`
	rows, err := r.db.QueryContext(ctx, q, eventID, model.SlotStatusAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]model.TimeSlot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

// ApplyBookingTx writes the slot counters after a confirmation.  The
// caller computed newBookedCount and status from the row it holds FOR
// UPDATE, so the write is an absolute assignment rather than an
// increment.  Status flips to "full" when the slot fills up.
func (r *SlotRepo) ApplyBookingTx(ctx context.Context, tx *sql.Tx, slotID uint64, newBookedCount uint32, status string) error {
	const q = `UPDATE time_slots SET booked_count = ?, status = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, newBookedCount, status, slotID)
	return err
}
