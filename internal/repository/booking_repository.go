package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eventbook/slot-reservation/internal/model"
)

// referenceAlphabet is the character set for booking references.
// Ambiguous characters are intentionally not excluded.
const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// referenceLength is the fixed width of a booking reference.
const referenceLength = 8

// maxReferenceAttempts caps the uniqueness retry loop.  The reference
// space holds ~2.8e12 values, so repeated collisions are effectively a
// storage fault; colliding on all five attempts is reported as
// transient.
const maxReferenceAttempts = 5

// BookingRepo provides data access to the bookings table.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// GenerateReference produces a random 8 character uppercase
// alphanumeric booking reference.  Uniqueness is enforced by the
// database; CreateTx retries on collision.
func GenerateReference() (string, error) {
	buf := make([]byte, referenceLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, referenceLength)
	for i, b := range buf {
		out[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}
	return string(out), nil
}

// CreateTx inserts a confirmed booking within the provided transaction,
// generating the booking reference inside a bounded retry loop: on a
// uniqueness violation of uq_bookings_reference a fresh reference is
// drawn and the insert repeated.  Exhausting the loop surfaces
// ErrTransientStorage.  On success the generated ID, reference and
// timestamps are populated on the record.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
	           (event_id, slot_id, user_id, first_name, last_name, email, phone, notes,
	            quantity, booking_reference, status, slot_date, slot_time)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var userID any
	if b.UserID != nil {
		userID = *b.UserID
	}
	var phone, notes any
	if b.Phone != nil {
		phone = *b.Phone
	}
	if b.Notes != nil {
		notes = *b.Notes
	}
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		ref, err := GenerateReference()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, q,
			b.EventID, b.SlotID, userID,
			b.FirstName, b.LastName, b.Email, phone, notes,
			b.Quantity, ref, model.BookingStatusConfirmed, b.SlotDate, b.SlotTime,
		)
		if err != nil {
			if isDuplicate(err) {
				continue
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		b.ID = uint64(id)
		b.Reference = ref
		b.Status = model.BookingStatusConfirmed
		const sel = `SELECT confirmed_at, created_at FROM bookings WHERE id = ?`
		return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.ConfirmedAt, &b.CreatedAt)
	}
	return fmt.Errorf("%w: booking reference collisions exhausted retries", ErrTransientStorage)
}

// GetByReference returns the booking carrying the given reference, or
// nil when no such booking exists.
func (r *BookingRepo) GetByReference(ctx context.Context, ref string) (*model.Booking, error) {
	// DATE/TIME columns are formatted in SQL so they scan as plain
	// strings regardless of the DSN's parseTime setting.
	const q = `SELECT id, event_id, slot_id, user_id, first_name, last_name, email, phone, notes,
	                  quantity, booking_reference, status,
	                  DATE_FORMAT(slot_date, '%Y-%m-%d'), TIME_FORMAT(slot_time, '%H:%i:%s'),
	                  confirmed_at, created_at
	           FROM bookings WHERE booking_reference = ?`
	var b model.Booking
	var userID sql.NullInt64
	var phone, notes sql.NullString
	err := r.db.QueryRowContext(ctx, q, ref).Scan(
		&b.ID, &b.EventID, &b.SlotID, &userID,
		&b.FirstName, &b.LastName, &b.Email, &phone, &notes,
		&b.Quantity, &b.Reference, &b.Status, &b.SlotDate, &b.SlotTime,
		&b.ConfirmedAt, &b.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		v := uint64(userID.Int64)
		b.UserID = &v
	}
	if phone.Valid {
		v := phone.String
		b.Phone = &v
	}
	if notes.Valid {
		v := notes.String
		b.Notes = &v
	}
	return &b, nil
}
