package booking

import (
	"time"

	"courtbook/models"
)

// ComputeAvailableSlots enumerates the free slots of the given duration on a
// court for one calendar day. Candidate starts advance from the opening time
// by the court's slot increment; a candidate survives only if its half-open
// interval overlaps no confirmed or pending booking and no block. Bookings
// and blocks must already be filtered to this court; bookings to this date.
//
// This is a pure query: it never errors and never mutates its inputs. A day
// with no operating window, a malformed date, or a window too short for the
// requested duration all degrade to an empty result.
func ComputeAvailableSlots(
	court models.Court,
	date string,
	durationMinutes int,
	bookings []models.Booking,
	blocks []models.CourtBlock,
) []models.Slot {
	if durationMinutes <= 0 {
		return nil
	}
	loc := time.Local
	weekday, ok := models.WeekdayOf(date, loc)
	if !ok {
		return nil
	}
	open, close, ok := court.WindowFor(weekday)
	if !ok {
		return nil
	}
	step := court.BookingRules.SlotIncrementMinutes
	if step <= 0 {
		step = durationMinutes
	}

	dayStart, _ := models.ParseDate(date, loc)

	var slots []models.Slot
	for start := open; start+durationMinutes <= close; start += step {
		end := start + durationMinutes
		if overlapsBooking(bookings, start, end) {
			continue
		}
		// Blocks carry absolute bounds; anchor the candidate to the day
		// before comparing.
		absStart := dayStart.Add(time.Duration(start) * time.Minute)
		absEnd := dayStart.Add(time.Duration(end) * time.Minute)
		if overlapsBlock(blocks, absStart, absEnd) {
			continue
		}
		slots = append(slots, models.Slot{
			Start:      start,
			End:        end,
			StartClock: models.FormatMinute(start),
			EndClock:   models.FormatMinute(end),
			Available:  true,
		})
	}
	return slots
}

func overlapsBooking(bookings []models.Booking, start, end int) bool {
	for _, b := range bookings {
		if b.Occupies() && b.OverlapsMinutes(start, end) {
			return true
		}
	}
	return false
}

func overlapsBlock(blocks []models.CourtBlock, start, end time.Time) bool {
	for _, blk := range blocks {
		if blk.OverlapsRange(start, end) {
			return true
		}
	}
	return false
}
