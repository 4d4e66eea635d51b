package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eventbook/slot-reservation/internal/model"
)

// HoldRepo provides data access to the holds table.  All expiry
// comparisons happen in SQL against UTC_TIMESTAMP(); the opportunistic
// and background sweeps are an optimisation, never a correctness
// requirement, because every query that treats a hold as active also
// filters on expires_at > now.
type HoldRepo struct {
	db *sql.DB
}

// NewHoldRepo returns a new HoldRepo bound to the given database.
func NewHoldRepo(db *sql.DB) *HoldRepo { return &HoldRepo{db: db} }

// DB exposes the underlying sql.DB for transaction control.
func (r *HoldRepo) DB() *sql.DB { return r.db }

const holdColumns = `id, slot_id, session_id, user_id, quantity, is_active, created_at, expires_at, released_at`

func scanHold(row interface{ Scan(...any) error }) (*model.Hold, error) {
	var h model.Hold
	var userID sql.NullInt64
	var released sql.NullTime
	err := row.Scan(
		&h.ID, &h.SlotID, &h.SessionID, &userID, &h.Quantity,
		&h.IsActive, &h.CreatedAt, &h.ExpiresAt, &released,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		v := uint64(userID.Int64)
		h.UserID = &v
	}
	if released.Valid {
		v := released.Time
		h.ReleasedAt = &v
	}
	return &h, nil
}

// GetByID returns the hold with the given ID, or nil when it does not
// exist.  Absence is an expected outcome for verify and release, so it
// is not reported as an error.
func (r *HoldRepo) GetByID(ctx context.Context, id uint64) (*model.Hold, error) {
	const q = `SELECT ` + holdColumns + ` FROM holds WHERE id = ?`
	h, err := scanHold(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return h, err
}

// GetForUpdateTx loads a hold under an exclusive row lock so that a
// confirmation and a concurrent release/expiry cannot both consume it.
func (r *HoldRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Hold, error) {
	const q = `SELECT ` + holdColumns + ` FROM holds WHERE id = ? FOR UPDATE`
	h, err := scanHold(tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return h, err
}

// CreateTx inserts a new active hold within the provided transaction
// and populates the generated ID and created_at on the record.
func (r *HoldRepo) CreateTx(ctx context.Context, tx *sql.Tx, h *model.Hold) error {
	const q = `INSERT INTO holds (slot_id, session_id, user_id, quantity, is_active, expires_at)
	           VALUES (?, ?, ?, ?, 1, ?)`
	var userID any
	if h.UserID != nil {
		userID = *h.UserID
	}
	res, err := tx.ExecContext(ctx, q, h.SlotID, h.SessionID, userID, h.Quantity, h.ExpiresAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	h.IsActive = true
	const sel = `SELECT created_at FROM holds WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, h.ID).Scan(&h.CreatedAt)
}

// ReleaseExpiredBySlotTx deactivates every expired hold on one slot.
// It runs inside the reservation transaction, scoped to the locked slot
// so the sweep cannot contend with unrelated slots.
func (r *HoldRepo) ReleaseExpiredBySlotTx(ctx context.Context, tx *sql.Tx, slotID uint64) (int64, error) {
	const q = `UPDATE holds
	           SET is_active = 0, released_at = UTC_TIMESTAMP()
	           WHERE slot_id = ? AND is_active = 1 AND expires_at <= UTC_TIMESTAMP()`
	res, err := tx.ExecContext(ctx, q, slotID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReleaseExpiredByEvent deactivates expired holds across all slots of
// an event.  Called opportunistically when availability is listed.
func (r *HoldRepo) ReleaseExpiredByEvent(ctx context.Context, eventID uint64) (int64, error) {
	const q = `UPDATE holds h
	           JOIN time_slots ts ON ts.id = h.slot_id
	           SET h.is_active = 0, h.released_at = UTC_TIMESTAMP()
	           WHERE ts.event_id = ? AND h.is_active = 1 AND h.expires_at <= UTC_TIMESTAMP()`
	res, err := r.db.ExecContext(ctx, q, eventID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReleaseExpired deactivates every expired hold in the system.  The
// background sweeper calls this on a loose cadence.  Idempotent and
// safe to run concurrently with itself and with the scoped variants.
func (r *HoldRepo) ReleaseExpired(ctx context.Context) (int64, error) {
	const q = `UPDATE holds
	           SET is_active = 0, released_at = UTC_TIMESTAMP()
	           WHERE is_active = 1 AND expires_at <= UTC_TIMESTAMP()`
	res, err := r.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SumActiveExcludingSessionTx returns the total quantity held on a slot
// by sessions other than the given one.  The rows are locked so a
// concurrent transaction cannot release or expire them until this
// transaction decides.  Excluding the caller's own session keeps a
// refresh from counting the caller's reservation against them.
func (r *HoldRepo) SumActiveExcludingSessionTx(ctx context.Context, tx *sql.Tx, slotID uint64, sessionID string) (int64, error) {
	const q = `SELECT COALESCE(SUM(quantity), 0)
	           FROM holds
	           WHERE slot_id = ? AND is_active = 1 AND expires_at > UTC_TIMESTAMP()
	             AND session_id <> ?
	           FOR UPDATE`
	var sum int64
	err := tx.QueryRowContext(ctx, q, slotID, sessionID).Scan(&sum)
	return sum, err
}

// SumActiveExcludingHoldTx returns the total quantity held on a slot by
// active holds other than the given one.  Used by the confirmation
// guard: the hold being consumed must not be double-counted.
func (r *HoldRepo) SumActiveExcludingHoldTx(ctx context.Context, tx *sql.Tx, slotID, holdID uint64) (int64, error) {
	const q = `SELECT COALESCE(SUM(quantity), 0)
	           FROM holds
	           WHERE slot_id = ? AND is_active = 1 AND expires_at > UTC_TIMESTAMP()
	             AND id <> ?
	           FOR UPDATE`
	var sum int64
	err := tx.QueryRowContext(ctx, q, slotID, holdID).Scan(&sum)
	return sum, err
}

// ActiveSumsByEvent returns, per slot of the event, the total quantity
// of active non-expired holds not owned by excludeSession.  Pass an
// empty session to count every active hold (the session-agnostic form
// used by the pre-flight bookability check).
func (r *HoldRepo) ActiveSumsByEvent(ctx context.Context, eventID uint64, excludeSession string) (map[uint64]int64, error) {
	const q = `SELECT h.slot_id, COALESCE(SUM(h.quantity), 0)
	           FROM holds h
	           JOIN time_slots ts ON ts.id = h.slot_id
	           WHERE ts.event_id = ? AND h.is_active = 1 AND h.expires_at > UTC_TIMESTAMP()
	             AND h.session_id <> ?
	           GROUP BY h.slot_id`
	rows, err := r.db.QueryContext(ctx, q, eventID, excludeSession)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sums := make(map[uint64]int64)
	for rows.Next() {
		var slotID uint64
		var sum int64
		if err := rows.Scan(&slotID, &sum); err != nil {
			return nil, err
		}
		sums[slotID] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sums, nil
}

// DeactivateBySlotSessionTx deactivates any active hold the session
// already has on the slot.  At most one exists; re-holding replaces it.
func (r *HoldRepo) DeactivateBySlotSessionTx(ctx context.Context, tx *sql.Tx, slotID uint64, sessionID string) (int64, error) {
	const q = `UPDATE holds
	           SET is_active = 0, released_at = UTC_TIMESTAMP()
	           WHERE slot_id = ? AND session_id = ? AND is_active = 1`
	res, err := tx.ExecContext(ctx, q, slotID, sessionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeactivateTx deactivates one hold inside the provided transaction.
// Used when a confirmation consumes the hold.
func (r *HoldRepo) DeactivateTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `UPDATE holds
	           SET is_active = 0, released_at = UTC_TIMESTAMP()
	           WHERE id = ? AND is_active = 1`
	_, err := tx.ExecContext(ctx, q, id)
	return err
}

// Release deactivates one hold iff it is currently active, reporting
// whether the transition was applied.  Idempotent: a second call, or a
// call on an unknown hold, returns false with no state change.
func (r *HoldRepo) Release(ctx context.Context, id uint64) (bool, error) {
	const q = `UPDATE holds
	           SET is_active = 0, released_at = UTC_TIMESTAMP()
	           WHERE id = ? AND is_active = 1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkExpired performs the self-healing transition for a hold whose
// expiry has passed: it is deactivated iff still active and expired.
// Concurrent callers race benignly; the guard makes the write
// idempotent.
func (r *HoldRepo) MarkExpired(ctx context.Context, id uint64) error {
	const q = `UPDATE holds
	           SET is_active = 0, released_at = UTC_TIMESTAMP()
	           WHERE id = ? AND is_active = 1 AND expires_at <= UTC_TIMESTAMP()`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
