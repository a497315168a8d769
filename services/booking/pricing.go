package booking

import (
	"math"
	"time"

	"courtbook/models"
)

// QuotePrice computes the charge for a slot of durationMinutes starting at
// startMinute on date. The whole booking is priced at the peak rate when its
// start falls inside a matching peak window; there is no pro-rating across
// the boundary. A zero or unset base price always quotes zero.
func QuotePrice(court models.Court, date string, startMinute, durationMinutes int) float64 {
	base := court.Pricing.BasePricePerHour
	if base <= 0 || durationMinutes <= 0 {
		return 0
	}
	amount := base * float64(durationMinutes) / 60
	if startsInPeakWindow(court.Pricing, date, startMinute) {
		amount *= court.Pricing.PeakHourMultiplier
	}
	return roundCents(amount)
}

func startsInPeakWindow(pricing models.PricingPolicy, date string, startMinute int) bool {
	if pricing.PeakHourMultiplier <= 0 || len(pricing.PeakWindows) == 0 {
		return false
	}
	weekday, ok := models.WeekdayOf(date, time.Local)
	if !ok {
		return false
	}
	for _, pw := range pricing.PeakWindows {
		if pw.Weekday != weekday {
			continue
		}
		start, okStart := models.MinuteOfDay(pw.Start)
		end, okEnd := models.MinuteOfDay(pw.End)
		if !okStart || !okEnd {
			continue
		}
		// Peak window is half-open: a booking starting exactly at the
		// window's end is not peak.
		if startMinute >= start && startMinute < end {
			return true
		}
	}
	return false
}

// roundCents rounds to 2 decimal places, half away from zero.
func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
