package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/arnowelzel/periodical/internal/models"
)

var (
	ErrEventDateInvalid         = errors.New("event date invalid")
	ErrEventTypeInvalid         = errors.New("event type invalid")
	ErrEventIntensityOutOfRange = errors.New("event intensity out of range")
	ErrEventNotesTooLong        = errors.New("event notes too long")
	ErrEventNotFound            = errors.New("event not found")
)

type EventInput struct {
	Type      models.EventType
	Intensity int
	Notes     string
}

type EventRepository interface {
	ListAscending(ctx context.Context) ([]models.Event, error)
	Count(ctx context.Context) (int64, error)
	FindByDayRange(ctx context.Context, dayStart time.Time, dayEnd time.Time) (models.Event, bool, error)
	UpsertByDay(ctx context.Context, entry *models.Event, dayEnd time.Time) (bool, error)
	DeleteByDayRange(ctx context.Context, dayStart time.Time, dayEnd time.Time) (int64, error)
}

type EventService struct {
	events EventRepository
}

func NewEventService(events EventRepository) *EventService {
	return &EventService{events: events}
}

func (service *EventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	events, err := service.events.ListAscending(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list events", Err: err}
	}
	return events, nil
}

func (service *EventService) CountEvents(ctx context.Context) (int64, error) {
	count, err := service.events.Count(ctx)
	if err != nil {
		return 0, &StorageError{Op: "count events", Err: err}
	}
	return count, nil
}

func (service *EventService) FindEvent(ctx context.Context, day time.Time) (models.Event, bool, error) {
	dayStart, dayEnd := DayRange(day)
	entry, found, err := service.events.FindByDayRange(ctx, dayStart, dayEnd)
	if err != nil {
		return models.Event{}, false, &StorageError{Op: "find event", Err: err}
	}
	return entry, found, nil
}

// AddEvent records input on day. An event already stored on that day is
// updated in place; the returned flag reports whether a new row was created.
func (service *EventService) AddEvent(ctx context.Context, day time.Time, input EventInput) (models.Event, bool, error) {
	if day.IsZero() {
		return models.Event{}, false, ErrEventDateInvalid
	}
	normalized, err := NormalizeEventInput(input)
	if err != nil {
		return models.Event{}, false, err
	}

	dayStart, dayEnd := DayRange(day)
	entry := models.Event{
		Date:      dayStart,
		Type:      normalized.Type,
		Intensity: normalized.Intensity,
		Notes:     normalized.Notes,
	}
	created, err := service.events.UpsertByDay(ctx, &entry, dayEnd)
	if err != nil {
		return models.Event{}, false, &StorageError{Op: "add event", Err: err}
	}
	return entry, created, nil
}

func (service *EventService) RemoveEvent(ctx context.Context, day time.Time) error {
	dayStart, dayEnd := DayRange(day)
	removed, err := service.events.DeleteByDayRange(ctx, dayStart, dayEnd)
	if err != nil {
		return &StorageError{Op: "remove event", Err: err}
	}
	if removed == 0 {
		return ErrEventNotFound
	}
	return nil
}

func NormalizeEventInput(input EventInput) (EventInput, error) {
	if input.Type == 0 {
		input.Type = models.EventPeriodStart
	}
	if !input.Type.Valid() {
		return EventInput{}, ErrEventTypeInvalid
	}
	if input.Intensity < models.IntensityNone || input.Intensity > models.IntensityMax {
		return EventInput{}, ErrEventIntensityOutOfRange
	}
	input.Notes = strings.TrimSpace(input.Notes)
	if utf8.RuneCountInString(input.Notes) > models.MaxEventNotesSize {
		return EventInput{}, ErrEventNotesTooLong
	}
	return input, nil
}
