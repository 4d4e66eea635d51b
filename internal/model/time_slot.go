package model

import "time"

// Time slot statuses.  A slot must be "full" exactly when its booked
// count has reached total capacity.
const (
	SlotStatusAvailable = "available"
	SlotStatusFull      = "full"
	SlotStatusCancelled = "cancelled"
)

// TimeSlot is a concrete, dated instance of an event with finite
// capacity.  BookedCount only grows through confirmed bookings; the
// live availability seen by a caller additionally subtracts active
// holds belonging to other sessions.
//
// Fields:
//  ID            – primary key identifier.
//  EventID       – owning event.
//  StartTime     – when the slot begins (must be in the future to book).
//  EndTime       – when the slot ends.
//  TotalCapacity – seats issued for this slot; immutable once created.
//  BookedCount   – seats consumed by confirmed bookings.
//  Status        – available, full or cancelled.
//  PriceCents    – price per seat in cents.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type TimeSlot struct {
	ID            uint64    // time_slots.id
	EventID       uint64    // time_slots.event_id
	StartTime     time.Time // time_slots.start_time
	EndTime       time.Time // time_slots.end_time
	TotalCapacity uint32    // time_slots.total_capacity
	BookedCount   uint32    // time_slots.booked_count
	Status        string    // time_slots.status
	PriceCents    uint32    // time_slots.price_cents
	CreatedAt     time.Time // time_slots.created_at
	UpdatedAt     time.Time // time_slots.updated_at
}

// Available returns the seats not yet consumed by confirmed bookings.
// Active holds are not subtracted here; see EffectiveAvailable.
func (s *TimeSlot) Available() int64 {
	return int64(s.TotalCapacity) - int64(s.BookedCount)
}

// EffectiveAvailable is the live count of seats a caller could still
// reserve: confirmed bookings and the given sum of competing active
// holds are both subtracted.  The result may be negative when holds
// briefly overlapped; callers treat anything <= 0 as full.
func (s *TimeSlot) EffectiveAvailable(heldByOthers int64) int64 {
	return s.Available() - heldByOthers
}
