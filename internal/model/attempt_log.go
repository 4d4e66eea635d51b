package model

import "time"

// Attempt outcomes recorded in the attempt log.
const (
	AttemptSuccess   = "success"
	AttemptFailed    = "failed"
	AttemptAbandoned = "abandoned"
)

// Attempt is one append-only row describing a confirmation attempt.
// The log exists for observability into racing commits; the reservation
// logic itself never consults it.
type Attempt struct {
	ID            uint64    // attempt_log.id
	EventID       uint64    // attempt_log.event_id
	SlotID        uint64    // attempt_log.slot_id
	UserID        *uint64   // attempt_log.user_id (nullable)
	Email         string    // attempt_log.email
	Status        string    // attempt_log.status
	FailureReason *string   // attempt_log.failure_reason (nullable)
	AttemptedAt   time.Time // attempt_log.attempted_at
}
