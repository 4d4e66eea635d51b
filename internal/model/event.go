package model

import "time"

// Event statuses.  Only an active event accepts new reservations.
const (
	EventStatusDraft     = "draft"
	EventStatusActive    = "active"
	EventStatusPaused    = "paused"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

// Event visibilities.  "protected" is accepted by the bookability check
// exactly like "unlisted"; it carries no additional semantics here.
const (
	VisibilityPublic    = "public"
	VisibilityUnlisted  = "unlisted"
	VisibilityProtected = "protected"
	VisibilityPrivate   = "private"
)

// Event is a bookable entity that owns one or more time slots.  The
// weekday/window fields form the scheduling template consumed by the
// external slot generator; the reservation core never reads them.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – human readable name of the event.
//  Description – optional longer description.
//  Status      – lifecycle state (draft, active, paused, completed, cancelled).
//  Visibility  – who may discover the event (public, unlisted, private).
//  Weekdays    – template: comma separated weekdays slots are generated on.
//  WindowStart – template: daily window opening time ("HH:MM:SS").
//  WindowEnd   – template: daily window closing time.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Event struct {
	ID          uint64     // events.id
	Title       string     // events.title
	Description *string    // events.description (nullable)
	Status      string     // events.status
	Visibility  string     // events.visibility
	Weekdays    *string    // events.weekdays (nullable)
	WindowStart *string    // events.window_start (nullable)
	WindowEnd   *string    // events.window_end (nullable)
	CreatedAt   time.Time  // events.created_at
	UpdatedAt   time.Time  // events.updated_at
}

// Bookable reports whether anonymous callers may reserve slots on this
// event: it must be active and publicly reachable.
func (e *Event) Bookable() bool {
	if e.Status != EventStatusActive {
		return false
	}
	switch e.Visibility {
	case VisibilityPublic, VisibilityUnlisted, VisibilityProtected:
		return true
	}
	return false
}
