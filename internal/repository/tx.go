package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// RunInTx executes fn inside a transaction, committing on nil error and
// rolling back otherwise.  A deadlock or lock-wait timeout – the way a
// lost serialisation race surfaces under InnoDB – is retried once
// transparently; a second failure is reported as ErrTransientStorage.
// Context deadline expiry is likewise mapped to ErrTransientStorage so
// callers see a single retryable kind.  Every other error from fn is
// surfaced unchanged.
func RunInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		err := runOnce(ctx, db, fn)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrTransientStorage, err)
		}
		if !isSerializationFailure(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: %v", ErrTransientStorage, lastErr)
}

func runOnce(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
