package models

import "time"

type DayKind string

const (
	DayEmpty              DayKind = "empty"
	DayPeriodStart        DayKind = "period_start"
	DayPeriodConfirmed    DayKind = "period_confirmed"
	DayPeriodPredicted    DayKind = "period_predicted"
	DayFertilityPredicted DayKind = "fertility_predicted"
	DayFertilityFuture    DayKind = "fertility_future"
	DayOvulationPredicted DayKind = "ovulation_predicted"
	DayOvulationFuture    DayKind = "ovulation_future"
	DayInfertilePredicted DayKind = "infertile_predicted"
	DayInfertileFuture    DayKind = "infertile_future"
)

func (kind DayKind) IsPeriod() bool {
	switch kind {
	case DayPeriodStart, DayPeriodConfirmed, DayPeriodPredicted:
		return true
	default:
		return false
	}
}

func (kind DayKind) IsFertile() bool {
	switch kind {
	case DayFertilityPredicted, DayFertilityFuture, DayOvulationPredicted, DayOvulationFuture:
		return true
	default:
		return false
	}
}

func (kind DayKind) IsOvulation() bool {
	return kind == DayOvulationPredicted || kind == DayOvulationFuture
}

type DayClassification struct {
	Date       time.Time `json:"date"`
	Kind       DayKind   `json:"kind"`
	DayOfCycle int       `json:"day_of_cycle"`
}

const (
	DefaultCycleLength     = 28
	DefaultPeriodLength    = 4
	DefaultLutealLength    = 14
	DefaultMaxCycleLength  = 183
	DefaultStartOfWeek     = 0
	MinPeriodLength        = 1
	MaxPeriodLength        = 14
	MinLutealLength        = 1
	MinMaxCycleLength      = 60
	ProjectedCycles        = 3
	StatisticsWindowCycles = 13
)

type CycleStatistics struct {
	Average  int `json:"average"`
	Shortest int `json:"shortest"`
	Longest  int `json:"longest"`
}

func DefaultCycleStatistics() CycleStatistics {
	return CycleStatistics{
		Average:  0,
		Shortest: DefaultCycleLength,
		Longest:  DefaultCycleLength,
	}
}
