package services

import (
	"time"

	"github.com/arnowelzel/periodical/internal/models"
)

const (
	fertileWindowStartOffset = 18
	fertileWindowEndOffset   = 11
)

type CyclePrediction struct {
	Statistics models.CycleStatistics
	Days       []models.DayClassification
	// Intervals is the number of observed cycles between consecutive events.
	Intervals int
	// DegenerateIntervals counts intervals shorter than two days (duplicate or
	// out of order dates). They add no gap days but still feed the statistics.
	DegenerateIntervals int
}

type cycleDayKinds struct {
	period    models.DayKind
	ovulation models.DayKind
	fertile   models.DayKind
	infertile models.DayKind
}

var (
	predictedCycleKinds = cycleDayKinds{
		period:    models.DayPeriodConfirmed,
		ovulation: models.DayOvulationPredicted,
		fertile:   models.DayFertilityPredicted,
		infertile: models.DayInfertilePredicted,
	}
	futureCycleKinds = cycleDayKinds{
		period:    models.DayPeriodPredicted,
		ovulation: models.DayOvulationFuture,
		fertile:   models.DayFertilityFuture,
		infertile: models.DayInfertileFuture,
	}
)

// classify applies the tiers in a fixed order: period, ovulation, fertile
// window, infertile. An ovulation day inside the period stays a period day.
func (kinds cycleDayKinds) classify(day int, periodLength int, ovulationDay int, shortest int, longest int) models.DayKind {
	switch {
	case day <= periodLength:
		return kinds.period
	case day == ovulationDay:
		return kinds.ovulation
	case day >= shortest-fertileWindowStartOffset && day <= longest-fertileWindowEndOffset:
		return kinds.fertile
	default:
		return kinds.infertile
	}
}

// Recompute derives the cycle statistics and the classification of every day
// from the first recorded event through three projected cycles.
func Recompute(events []models.Event, config CycleConfig) (models.CycleStatistics, []models.DayClassification) {
	prediction := BuildCyclePrediction(events, config)
	return prediction.Statistics, prediction.Days
}

// BuildCyclePrediction expects events in ascending date order. Shortest and
// longest only consider the trailing window of the last intervals while the
// average covers every interval.
func BuildCyclePrediction(events []models.Event, config CycleConfig) CyclePrediction {
	prediction := CyclePrediction{
		Statistics: models.DefaultCycleStatistics(),
		Days:       []models.DayClassification{},
	}
	if len(events) == 0 {
		return prediction
	}

	previous := events[0]
	days := make([]models.DayClassification, 0, estimatedDayCount(events))
	days = append(days, models.DayClassification{
		Date:       CalendarDay(previous.Date),
		Kind:       previous.Type.DayKind(),
		DayOfCycle: 1,
	})

	countLimit := len(events) - models.StatisticsWindowCycles
	if countLimit < 1 {
		countLimit = 1
	}

	shortest := prediction.Statistics.Shortest
	longest := prediction.Statistics.Longest
	averageSum := 0
	runningAverage := 0
	count := 0

	for _, event := range events[1:] {
		count++
		length := DaysBetween(previous.Date, event.Date)

		if count == countLimit {
			shortest = length
			longest = length
		} else if count > countLimit {
			shortest = min(shortest, length)
			longest = max(longest, length)
		}

		averageSum += length
		runningAverage = averageSum / count
		ovulationDay := runningAverage - config.LutealLength

		if length < 2 {
			prediction.DegenerateIntervals++
		}
		for day := 2; day <= length; day++ {
			days = append(days, models.DayClassification{
				Date:       AddDays(previous.Date, day-1),
				Kind:       predictedCycleKinds.classify(day, config.PeriodLength, ovulationDay, shortest, longest),
				DayOfCycle: day,
			})
		}

		days = append(days, models.DayClassification{
			Date:       CalendarDay(event.Date),
			Kind:       event.Type.DayKind(),
			DayOfCycle: 1,
		})
		previous = event
	}

	prediction.Intervals = count
	if count == 0 {
		prediction.Days = days
		return prediction
	}

	prediction.Statistics = models.CycleStatistics{
		Average:  runningAverage,
		Shortest: shortest,
		Longest:  longest,
	}

	ovulationDay := runningAverage - config.LutealLength
	cursor := CalendarDay(previous.Date)
	for cycleIndex := 0; cycleIndex < models.ProjectedCycles; cycleIndex++ {
		kinds := futureCycleKinds
		firstDay := 1
		if cycleIndex == 0 {
			kinds = predictedCycleKinds
			firstDay = 2
		}

		for day := firstDay; day <= runningAverage; day++ {
			cursor = AddDays(cursor, 1)
			days = append(days, models.DayClassification{
				Date:       cursor,
				Kind:       kinds.classify(day, config.PeriodLength, ovulationDay, shortest, longest),
				DayOfCycle: day,
			})
		}
	}

	prediction.Days = days
	return prediction
}

// ClassificationForDate returns the classification recorded for date, or an
// Empty one when the sequence does not cover it. The last match wins.
func ClassificationForDate(days []models.DayClassification, date time.Time) models.DayClassification {
	target := CalendarDay(date)
	for index := len(days) - 1; index >= 0; index-- {
		if days[index].Date.Equal(target) {
			return days[index]
		}
	}
	return models.DayClassification{Date: target, Kind: models.DayEmpty}
}

func estimatedDayCount(events []models.Event) int {
	span := DaysBetween(events[0].Date, events[len(events)-1].Date)
	if span < 0 {
		span = 0
	}
	return span + 1 + models.ProjectedCycles*models.DefaultCycleLength
}
