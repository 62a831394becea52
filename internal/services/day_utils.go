package services

import (
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

// CalendarDay drops the clock and zone of value and returns its calendar date
// as UTC midnight. All stored and computed days use this form.
func CalendarDay(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	year, month, day := value.In(location).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func DayRange(value time.Time) (time.Time, time.Time) {
	start := CalendarDay(value)
	return start, start.AddDate(0, 0, 1)
}

func AddDays(value time.Time, days int) time.Time {
	return CalendarDay(value).AddDate(0, 0, days)
}

// DaysBetween counts calendar days from a to b. Both sides are normalized to
// UTC midnight first, so DST transitions in the caller's zone never shift it.
func DaysBetween(a time.Time, b time.Time) int {
	return int(CalendarDay(b).Sub(CalendarDay(a)).Hours() / 24)
}

func SameDay(a time.Time, b time.Time) bool {
	return CalendarDay(a).Equal(CalendarDay(b))
}

func DayKey(value time.Time) string {
	return CalendarDay(value).Format(DayLayout)
}

func ParseDay(raw string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DayLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return parsed, nil
}
