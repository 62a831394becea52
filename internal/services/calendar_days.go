package services

import (
	"time"

	"github.com/arnowelzel/periodical/internal/models"
)

type CalendarDayState struct {
	Date        time.Time      `json:"-"`
	DateString  string         `json:"date"`
	Day         int            `json:"day"`
	InMonth     bool           `json:"in_month"`
	IsToday     bool           `json:"is_today"`
	Kind        models.DayKind `json:"kind"`
	DayOfCycle  int            `json:"day_of_cycle,omitempty"`
	IsPeriod    bool           `json:"is_period"`
	IsFertile   bool           `json:"is_fertile"`
	IsOvulation bool           `json:"is_ovulation"`
}

type CalendarMonth struct {
	Month       string               `json:"month"`
	StartOfWeek int                  `json:"start_of_week"`
	Generation  uint64               `json:"generation"`
	Weeks       [][]CalendarDayState `json:"weeks"`
}

func MonthStart(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// CalendarGridRange returns the first and last day of the full weeks covering
// the month of value, with weeks beginning on startOfWeek (0 = Sunday).
func CalendarGridRange(value time.Time, startOfWeek int) (time.Time, time.Time) {
	first := MonthStart(value)
	last := first.AddDate(0, 1, -1)

	leading := (int(first.Weekday()) - startOfWeek + 7) % 7
	trailing := (startOfWeek + 6 - int(last.Weekday())) % 7
	return first.AddDate(0, 0, -leading), last.AddDate(0, 0, trailing)
}

func BuildCalendarMonth(snapshot *Snapshot, month time.Time, startOfWeek int, today time.Time) CalendarMonth {
	if startOfWeek < 0 || startOfWeek > 6 {
		startOfWeek = models.DefaultStartOfWeek
	}
	monthStart := MonthStart(month)
	gridStart, gridEnd := CalendarGridRange(monthStart, startOfWeek)
	todayKey := DayKey(today)

	result := CalendarMonth{
		Month:       monthStart.Format("2006-01"),
		StartOfWeek: startOfWeek,
		Weeks:       make([][]CalendarDayState, 0, 6),
	}
	if snapshot != nil {
		result.Generation = snapshot.Generation
	}

	week := make([]CalendarDayState, 0, 7)
	for day := gridStart; !day.After(gridEnd); day = day.AddDate(0, 0, 1) {
		classification := snapshot.Lookup(day)
		key := day.Format(DayLayout)
		week = append(week, CalendarDayState{
			Date:        day,
			DateString:  key,
			Day:         day.Day(),
			InMonth:     day.Month() == monthStart.Month(),
			IsToday:     key == todayKey,
			Kind:        classification.Kind,
			DayOfCycle:  classification.DayOfCycle,
			IsPeriod:    classification.Kind.IsPeriod(),
			IsFertile:   classification.Kind.IsFertile(),
			IsOvulation: classification.Kind.IsOvulation(),
		})
		if len(week) == 7 {
			result.Weeks = append(result.Weeks, week)
			week = make([]CalendarDayState, 0, 7)
		}
	}
	return result
}
