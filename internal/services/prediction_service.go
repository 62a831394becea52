package services

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arnowelzel/periodical/internal/models"
)

type EventLog interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	CountEvents(ctx context.Context) (int64, error)
}

type CycleConfigLoader interface {
	Load(ctx context.Context) (CycleConfig, error)
}

// Snapshot is one published generation of the prediction. It is never
// modified after publication.
type Snapshot struct {
	Generation          uint64
	Statistics          models.CycleStatistics
	Days                []models.DayClassification
	Config              CycleConfig
	EventCount          int
	LastEventDate       time.Time
	Intervals           int
	DegenerateIntervals int
	ComputedAt          time.Time

	indexByDay map[string]int
}

func newSnapshot(generation uint64, prediction CyclePrediction, config CycleConfig, events []models.Event, computedAt time.Time) *Snapshot {
	indexByDay := make(map[string]int, len(prediction.Days))
	for index, day := range prediction.Days {
		indexByDay[DayKey(day.Date)] = index
	}
	lastEventDate := time.Time{}
	if len(events) > 0 {
		lastEventDate = CalendarDay(events[len(events)-1].Date)
	}
	return &Snapshot{
		Generation:          generation,
		Statistics:          prediction.Statistics,
		Days:                prediction.Days,
		Config:              config,
		EventCount:          len(events),
		LastEventDate:       lastEventDate,
		Intervals:           prediction.Intervals,
		DegenerateIntervals: prediction.DegenerateIntervals,
		ComputedAt:          computedAt,
		indexByDay:          indexByDay,
	}
}

func (snapshot *Snapshot) Lookup(date time.Time) models.DayClassification {
	if snapshot == nil {
		return models.DayClassification{Date: CalendarDay(date), Kind: models.DayEmpty}
	}
	if index, ok := snapshot.indexByDay[DayKey(date)]; ok {
		return snapshot.Days[index]
	}
	return models.DayClassification{Date: CalendarDay(date), Kind: models.DayEmpty}
}

// Range returns one classification per day in [from, to], Empty where the
// snapshot has nothing.
func (snapshot *Snapshot) Range(from time.Time, to time.Time) []models.DayClassification {
	days := make([]models.DayClassification, 0, max(DaysBetween(from, to)+1, 0))
	for day := CalendarDay(from); !day.After(CalendarDay(to)); day = AddDays(day, 1) {
		days = append(days, snapshot.Lookup(day))
	}
	return days
}

// LastEvent returns the day of the most recent stored event of either type.
func (snapshot *Snapshot) LastEvent() (time.Time, bool) {
	if snapshot == nil || snapshot.LastEventDate.IsZero() {
		return time.Time{}, false
	}
	return snapshot.LastEventDate, true
}

type PredictionService struct {
	events  EventLog
	configs CycleConfigLoader
	now     func() time.Time

	computeMu sync.Mutex
	requested atomic.Uint64
	current   atomic.Pointer[Snapshot]
	trigger   chan struct{}
}

func NewPredictionService(events EventLog, configs CycleConfigLoader) *PredictionService {
	return &PredictionService{
		events:  events,
		configs: configs,
		now:     time.Now,
		trigger: make(chan struct{}, 1),
	}
}

// Current returns the last published snapshot, or nil before the first
// successful refresh.
func (service *PredictionService) Current() *Snapshot {
	return service.current.Load()
}

func (service *PredictionService) Lookup(date time.Time) models.DayClassification {
	return service.Current().Lookup(date)
}

// Refresh recomputes the prediction from the whole event log and publishes it.
// Computations never overlap. A computation reads the log after every request
// queued behind the lock was made, so it publishes under the newest requested
// generation and those requests return its snapshot without recomputing.
func (service *PredictionService) Refresh(ctx context.Context) (*Snapshot, error) {
	generation := service.requested.Add(1)

	service.computeMu.Lock()
	defer service.computeMu.Unlock()

	if current := service.current.Load(); current != nil && current.Generation >= generation {
		return current, nil
	}
	generation = service.requested.Load()

	events, err := service.events.ListEvents(ctx)
	if err != nil {
		return nil, wrapStorageError("list events", err)
	}
	config, err := service.configs.Load(ctx)
	if err != nil {
		return nil, err
	}

	prediction := BuildCyclePrediction(events, config)
	if prediction.DegenerateIntervals > 0 {
		log.Printf("prediction: %d of %d intervals shorter than two days", prediction.DegenerateIntervals, prediction.Intervals)
	}

	snapshot := newSnapshot(generation, prediction, config, events, service.now())
	service.current.Store(snapshot)
	return snapshot, nil
}

// Ensure returns the current snapshot, computing the first one if needed.
func (service *PredictionService) Ensure(ctx context.Context) (*Snapshot, error) {
	if current := service.Current(); current != nil {
		return current, nil
	}
	return service.Refresh(ctx)
}

// Trigger asks the background worker for a refresh. Requests made while one is
// pending collapse into it.
func (service *PredictionService) Trigger() {
	select {
	case service.trigger <- struct{}{}:
	default:
	}
}

func (service *PredictionService) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-service.trigger:
				if _, err := service.Refresh(ctx); err != nil {
					log.Printf("prediction: refresh failed: %v", err)
				}
			}
		}
	}()
}
