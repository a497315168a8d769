package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used throughout the service.
const DateLayout = "2006-01-02"

// MinuteOfDay parses an "HH:MM" wall-clock time into minutes from midnight.
func MinuteOfDay(clock string) (int, bool) {
	var h, m int
	if _, err := fmt.Sscanf(clock, "%d:%d", &h, &m); err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// FormatMinute renders minutes from midnight as "HH:MM".
func FormatMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// ParseDate parses a "2006-01-02" calendar day at midnight in loc.
func ParseDate(date string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AnchorMinute converts a (calendar day, minute-of-day) pair to an absolute
// timestamp in loc. Blocks carry absolute bounds, so wall-clock intervals
// must be anchored before being compared against them.
func AnchorMinute(date string, minute int, loc *time.Location) (time.Time, bool) {
	day, ok := ParseDate(date, loc)
	if !ok {
		return time.Time{}, false
	}
	return day.Add(time.Duration(minute) * time.Minute), true
}

// WeekdayOf returns the lowercase weekday name of a calendar day.
func WeekdayOf(date string, loc *time.Location) (string, bool) {
	day, ok := ParseDate(date, loc)
	if !ok {
		return "", false
	}
	return strings.ToLower(day.Weekday().String()), true
}
