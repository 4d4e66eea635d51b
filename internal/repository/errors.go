// Package repository contains the data access layer for the slot
// reservation service.  This file defines the error taxonomy shared by
// every repository.  Each sentinel maps to a stable error kind that
// callers branch on: malformed requests must not be retried, capacity
// and hold failures require a fresh availability listing or a fresh
// hold, and transient storage failures may be retried once.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrEventNotFound indicates the referenced event does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrSlotNotFound indicates the referenced time slot does not exist.
var ErrSlotNotFound = errors.New("slot not found")

// ErrSlotUnavailable indicates the slot exists but is not in a bookable
// state: full, cancelled, already started, or its owning event is not
// open for booking.
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrHoldInvalid indicates a hold referenced by a confirm or verify is
// missing, released, or expired.  The caller must obtain a new hold.
var ErrHoldInvalid = errors.New("hold invalid")

// ErrInvalidQuantity indicates a non-positive seat quantity.
var ErrInvalidQuantity = errors.New("invalid quantity")

// ErrInvalidArgument indicates a malformed request, such as an empty
// session identifier.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInvalidAttendee indicates attendee details failed validation.
var ErrInvalidAttendee = errors.New("invalid attendee")

// ErrTransientStorage indicates a serialisation failure, storage
// timeout or reference-collision exhaustion after the internal retry.
// The caller may retry the same request once; further retries should
// back off.
var ErrTransientStorage = errors.New("transient storage failure")

// CapacityError is returned when the capacity guard refuses a hold or a
// confirmation.  Available carries the effective availability observed
// inside the failing transaction so clients can render it.
type CapacityError struct {
	Available int64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded: %d seats available", e.Available)
}

// MySQL server error numbers the critical sections care about.
const (
	mysqlErrDuplicateEntry = 1062
	mysqlErrLockWait       = 1205
	mysqlErrDeadlock       = 1213
)

// isDuplicate reports whether err is a uniqueness violation.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry
}

// isSerializationFailure reports whether err is a deadlock or lock-wait
// timeout, the two shapes a lost serialisation race takes under InnoDB.
func isSerializationFailure(err error) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	return me.Number == mysqlErrDeadlock || me.Number == mysqlErrLockWait
}
