// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a hold is successfully
// converted into a booking.  It carries enough information for
// downstream consumers to notify, log or feed analytics without
// querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   uint64 `json:"booking_id"`
	Reference   string `json:"booking_reference"`
	EventID     uint64 `json:"event_id"`
	EventTitle  string `json:"event_title"`
	SlotID      uint64 `json:"slot_id"`
	SlotStart   string `json:"slot_start"`
	Quantity    uint32 `json:"quantity"`
	UserID      uint64 `json:"user_id,omitempty"`
	Email       string `json:"email"`
	ConfirmedAt string `json:"confirmed_at"`
}
