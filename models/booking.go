package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingNoShow    BookingStatus = "no-show"
)

// Booking represents a court reservation. Start and End are minutes from
// midnight on Date; the booking occupies the half-open interval [Start, End).
type Booking struct {
	ID          string        `bson:"id" json:"id"`                 // Unique booking identifier (UUID)
	CourtID     string        `bson:"court_id" json:"courtId"`      // Court being reserved
	UserID      string        `bson:"user_id" json:"userId"`        // Member who made the booking
	Date        string        `bson:"date" json:"date"`             // Calendar day in "2006-01-02" format
	Start       int           `bson:"start" json:"start"`           // Start time (minutes from midnight)
	End         int           `bson:"end" json:"end"`               // End time (minutes from midnight)
	Status      BookingStatus `bson:"status" json:"status"`
	TotalPrice  float64       `bson:"total_price" json:"totalPrice"`
	Players     []string      `bson:"players,omitempty" json:"players,omitempty"`
	CreatedAt   time.Time     `bson:"created_at" json:"createdAt"`
	CancelledAt *time.Time    `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
}

// Occupies reports whether the booking counts against court capacity.
// Cancelled, completed and no-show bookings free their slot.
func (b Booking) Occupies() bool {
	return b.Status == BookingConfirmed || b.Status == BookingPending
}

// OverlapsMinutes reports whether the booking intersects the half-open
// wall-clock interval [start, end) on its own date. Touching endpoints do
// not overlap.
func (b Booking) OverlapsMinutes(start, end int) bool {
	return b.Start < end && b.End > start
}
