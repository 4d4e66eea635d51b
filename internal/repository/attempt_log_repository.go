package repository

import (
	"context"
	"database/sql"

	"github.com/eventbook/slot-reservation/internal/model"
)

// AttemptRepo appends rows to the attempt log.  The log is append-only
// observability data: success rows ride inside the confirmation
// transaction, failure rows are written on the pool in their own tiny
// statement so they survive the rollback that produced them.
type AttemptRepo struct {
	db *sql.DB
}

// NewAttemptRepo returns a new AttemptRepo bound to the given database.
func NewAttemptRepo(db *sql.DB) *AttemptRepo { return &AttemptRepo{db: db} }

const attemptInsert = `INSERT INTO attempt_log (event_id, slot_id, user_id, email, status, failure_reason)
                       VALUES (?, ?, ?, ?, ?, ?)`

func attemptArgs(a *model.Attempt) []any {
	var userID any
	if a.UserID != nil {
		userID = *a.UserID
	}
	var reason any
	if a.FailureReason != nil {
		reason = *a.FailureReason
	}
	return []any{a.EventID, a.SlotID, userID, a.Email, a.Status, reason}
}

// AppendTx records an attempt inside the provided transaction.  Used
// for success rows so the log entry commits atomically with the
// booking.
func (r *AttemptRepo) AppendTx(ctx context.Context, tx *sql.Tx, a *model.Attempt) error {
	_, err := tx.ExecContext(ctx, attemptInsert, attemptArgs(a)...)
	return err
}

// Append records an attempt outside any transaction.  Used for failure
// rows after a rollback; callers log and suppress any error since the
// write is best-effort.
func (r *AttemptRepo) Append(ctx context.Context, a *model.Attempt) error {
	_, err := r.db.ExecContext(ctx, attemptInsert, attemptArgs(a)...)
	return err
}
