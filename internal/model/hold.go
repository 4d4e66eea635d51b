package model

import "time"

// Hold is a short-lived, server-side reservation that deducts from a
// slot's capacity for everyone except its own session, and can be
// exchanged for a booking while it is still active.  A hold leaves the
// active state exactly once – released by its owner, reaped by the
// expiry sweep, or consumed by a confirmation – and is then retained
// for audit.
//
// Fields:
//  ID         – primary key identifier.
//  SlotID     – slot whose capacity is being held.
//  SessionID  – opaque browser-session identifier; the unit of hold
//               deduplication (at most one active hold per slot+session).
//  UserID     – authenticated user, when known (nullable).
//  Quantity   – seats requested.
//  IsActive   – true from creation until release/expiry/consumption.
//  CreatedAt  – creation timestamp.
//  ExpiresAt  – when the hold stops counting against capacity.
//  ReleasedAt – set when IsActive transitions to false (nullable).
type Hold struct {
	ID         uint64     // holds.id
	SlotID     uint64     // holds.slot_id
	SessionID  string     // holds.session_id
	UserID     *uint64    // holds.user_id (nullable)
	Quantity   uint32     // holds.quantity
	IsActive   bool       // holds.is_active
	CreatedAt  time.Time  // holds.created_at
	ExpiresAt  time.Time  // holds.expires_at
	ReleasedAt *time.Time // holds.released_at (nullable)
}

// Expired reports whether the hold's expiry has passed at the given
// instant.  Queries never rely on this alone; they always filter on
// is_active AND expires_at > now in SQL as well.
func (h *Hold) Expired(now time.Time) bool {
	return !h.ExpiresAt.After(now)
}
