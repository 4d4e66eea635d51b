package model

import "time"

// Booking statuses.  Bookings are created confirmed; cancellation paths
// live outside this core.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking is the durable record produced by consuming a valid hold.
// The reference is an 8 character uppercase alphanumeric token meant to
// be read aloud; it is unique across all bookings.
//
// Fields:
//  ID          – primary key identifier.
//  EventID     – event the booking belongs to.
//  SlotID      – slot the seats were taken from (always a slot of EventID).
//  UserID      – authenticated user, when known (nullable).
//  FirstName   – attendee first name (trimmed, non-empty).
//  LastName    – attendee last name (trimmed, non-empty).
//  Email       – attendee email (syntactically validated).
//  Phone       – optional phone number.
//  Notes       – optional free-form notes.
//  Quantity    – seats booked, copied from the consumed hold.
//  Reference   – unique 8 character [A-Z0-9] booking reference.
//  Status      – confirmed or cancelled.
//  SlotDate    – date projected from the slot's start time ("2006-01-02").
//  SlotTime    – time of day projected from the slot's start time ("15:04:05").
//  ConfirmedAt – when the booking was confirmed.
//  CreatedAt   – row creation timestamp.
type Booking struct {
	ID          uint64    // bookings.id
	EventID     uint64    // bookings.event_id
	SlotID      uint64    // bookings.slot_id
	UserID      *uint64   // bookings.user_id (nullable)
	FirstName   string    // bookings.first_name
	LastName    string    // bookings.last_name
	Email       string    // bookings.email
	Phone       *string   // bookings.phone (nullable)
	Notes       *string   // bookings.notes (nullable)
	Quantity    uint32    // bookings.quantity
	Reference   string    // bookings.booking_reference
	Status      string    // bookings.status
	SlotDate    string    // bookings.slot_date
	SlotTime    string    // bookings.slot_time
	ConfirmedAt time.Time // bookings.confirmed_at
	CreatedAt   time.Time // bookings.created_at
}
