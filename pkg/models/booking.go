package models

import "fmt"

// BookingStatus represents the lifecycle state of a seat booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// ErrInvalidTransition is returned when a status change is not allowed.
type ErrInvalidTransition struct {
	From BookingStatus
	To   BookingStatus
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("booking status transition %s -> %s is not allowed", e.From, e.To)
}

// bookingTransitions is the single shared definition of allowed status
// changes. Completed and cancelled are terminal; in particular a completed
// trip can no longer be cancelled.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCancelled: {},
	BookingCompleted: {},
}

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// CanTransition reports whether a booking may move from s to next.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition validates and applies a status change.
func (s BookingStatus) Transition(next BookingStatus) (BookingStatus, error) {
	if !s.CanTransition(next) {
		return s, &ErrInvalidTransition{From: s, To: next}
	}
	return next, nil
}

// Booking is a seat reservation on a published ride.
type Booking struct {
	ID          string        `json:"id"`
	RideID      string        `json:"ride_id"`
	PassengerID string        `json:"passenger_id"`
	SeatsBooked int           `json:"seats_booked"`
	TotalPrice  float64       `json:"total_price"`
	Status      BookingStatus `json:"status"`
	PickupNote  string        `json:"pickup_note,omitempty"`
	CreatedAt   string        `json:"created_at,omitempty"`
	UpdatedAt   string        `json:"updated_at,omitempty"`
}
