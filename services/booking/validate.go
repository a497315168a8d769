package booking

import (
	"time"

	"courtbook/models"
)

// Request is a proposed booking as received from the HTTP boundary, with
// wall-clock times already converted to minutes from midnight.
type Request struct {
	CourtID string
	UserID  string
	Date    string // "2006-01-02"
	Start   int
	End     int
	Players []string
}

// Validate runs the conflict and policy checks for a proposed booking, in
// order, short-circuiting on the first failure. courtBookings must hold the
// bookings for the requested court and date; userBookings the requesting
// user's bookings for that date across all courts. Returns nil on success or
// a *Rejection naming the first violated rule.
func Validate(
	req Request,
	court models.Court,
	courtBookings []models.Booking,
	userBookings []models.Booking,
	now time.Time,
) error {
	if !court.IsActive {
		return reject(ReasonCourtInactive, "court %s is not accepting bookings", court.Name)
	}

	loc := now.Location()
	day, ok := models.ParseDate(req.Date, loc)
	if !ok {
		return reject(ReasonPastDate, "invalid booking date %q", req.Date)
	}
	// Day-boundary comparison is by calendar date, not timestamp.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if day.Before(today) {
		return reject(ReasonPastDate, "cannot book a date in the past")
	}
	if court.BookingRules.AdvanceBookingDays > 0 {
		limit := today.AddDate(0, 0, court.BookingRules.AdvanceBookingDays)
		if day.After(limit) {
			return reject(ReasonTooFarInAdvance,
				"bookings open %d days in advance", court.BookingRules.AdvanceBookingDays)
		}
	}

	duration := req.End - req.Start
	rules := court.BookingRules
	if duration < rules.MinDurationMinutes || duration > rules.MaxDurationMinutes {
		return reject(ReasonDurationOutOfRange,
			"duration must be between %d and %d minutes",
			rules.MinDurationMinutes, rules.MaxDurationMinutes)
	}

	weekday, _ := models.WeekdayOf(req.Date, loc)
	open, close, ok := court.WindowFor(weekday)
	if !ok || req.Start < open || req.End > close {
		return reject(ReasonOutsideOperatingHours,
			"court %s is closed at the requested time", court.Name)
	}

	absStart := day.Add(time.Duration(req.Start) * time.Minute)
	absEnd := day.Add(time.Duration(req.End) * time.Minute)
	if overlapsBlock(court.Blocks, absStart, absEnd) {
		return reject(ReasonCourtBlocked, "court %s is blocked at the requested time", court.Name)
	}

	if overlapsBooking(courtBookings, req.Start, req.End) {
		return reject(ReasonSlotTaken, "requested slot is already booked")
	}

	for _, b := range userBookings {
		if b.Occupies() && b.OverlapsMinutes(req.Start, req.End) {
			return reject(ReasonUserDoubleBooked,
				"you already have a booking from %s to %s that day",
				models.FormatMinute(b.Start), models.FormatMinute(b.End))
		}
	}

	return nil
}
