package models

import "time"

// Court types.
const (
	CourtTypeIndoor  = "indoor"
	CourtTypeOutdoor = "outdoor"
	CourtTypeCovered = "covered"
)

// Court surfaces.
const (
	SurfaceHard      = "hard"
	SurfaceClay      = "clay"
	SurfaceGrass     = "grass"
	SurfaceSynthetic = "synthetic"
)

// Court represents a bookable tennis court and its booking policy.
type Court struct {
	ID             string                 `bson:"id" json:"id"`                          // Unique court identifier (UUID)
	Name           string                 `bson:"name" json:"name"`                      // Display name (e.g., "Court 3")
	Type           string                 `bson:"type" json:"type"`                      // "indoor", "outdoor", or "covered"
	Surface        string                 `bson:"surface" json:"surface"`                // "hard", "clay", "grass", or "synthetic"
	OperatingHours map[string]HoursWindow `bson:"operating_hours" json:"operatingHours"` // Keyed by lowercase weekday name; missing key means closed
	BookingRules   BookingRules           `bson:"booking_rules" json:"bookingRules"`
	Pricing        PricingPolicy          `bson:"pricing" json:"pricing"`
	IsActive       bool                   `bson:"is_active" json:"isActive"`
	Blocks         []CourtBlock           `bson:"blocks,omitempty" json:"blocks,omitempty"`
	CreatedAt      time.Time              `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time              `bson:"updated_at" json:"updatedAt"`
}

// HoursWindow is a daily operating window in "HH:MM" wall-clock time.
type HoursWindow struct {
	Open  string `bson:"open" json:"open"`
	Close string `bson:"close" json:"close"`
}

// BookingRules is the per-court booking policy.
type BookingRules struct {
	MinDurationMinutes        int `bson:"min_duration_minutes" json:"minDurationMinutes"`
	MaxDurationMinutes        int `bson:"max_duration_minutes" json:"maxDurationMinutes"`
	AdvanceBookingDays        int `bson:"advance_booking_days" json:"advanceBookingDays"`
	CancellationDeadlineHours int `bson:"cancellation_deadline_hours" json:"cancellationDeadlineHours"`
	SlotIncrementMinutes      int `bson:"slot_increment_minutes" json:"slotIncrementMinutes"`
}

// PricingPolicy holds the court's pricing parameters.
type PricingPolicy struct {
	BasePricePerHour   float64      `bson:"base_price_per_hour" json:"basePricePerHour"`
	PeakHourMultiplier float64      `bson:"peak_hour_multiplier" json:"peakHourMultiplier"`
	PeakWindows        []PeakWindow `bson:"peak_windows,omitempty" json:"peakWindows,omitempty"`
}

// PeakWindow is a recurring weekly range during which the peak multiplier applies.
type PeakWindow struct {
	Weekday string `bson:"weekday" json:"weekday"` // Lowercase weekday name (e.g., "monday")
	Start   string `bson:"start" json:"start"`     // "HH:MM"
	End     string `bson:"end" json:"end"`         // "HH:MM"
}

// CourtBlock is an admin-defined interval during which the court is
// unavailable regardless of bookings. Bounds are absolute timestamps,
// not per-day wall-clock times.
type CourtBlock struct {
	ID          string    `bson:"id" json:"id"`
	Reason      string    `bson:"reason" json:"reason"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Start       time.Time `bson:"start" json:"start"`
	End         time.Time `bson:"end" json:"end"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

// OverlapsRange reports whether the block intersects [start, end).
func (b CourtBlock) OverlapsRange(start, end time.Time) bool {
	return b.Start.Before(end) && b.End.After(start)
}

// WindowFor returns the operating window for the given lowercase weekday as
// minutes from midnight. ok is false when the court is closed that day or the
// configured window is malformed or empty.
func (c Court) WindowFor(weekday string) (openMin, closeMin int, ok bool) {
	w, found := c.OperatingHours[weekday]
	if !found {
		return 0, 0, false
	}
	openMin, okOpen := MinuteOfDay(w.Open)
	closeMin, okClose := MinuteOfDay(w.Close)
	if !okOpen || !okClose || openMin >= closeMin {
		return 0, 0, false
	}
	return openMin, closeMin, true
}
