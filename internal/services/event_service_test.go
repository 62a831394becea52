package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/arnowelzel/periodical/internal/models"
)

type memEventRepository struct {
	events  map[string]models.Event
	err     error
	nextUID int
}

func newMemEventRepository() *memEventRepository {
	return &memEventRepository{events: make(map[string]models.Event)}
}

func (repo *memEventRepository) ListAscending(context.Context) ([]models.Event, error) {
	if repo.err != nil {
		return nil, repo.err
	}
	result := make([]models.Event, 0, len(repo.events))
	for _, entry := range repo.events {
		result = append(result, entry)
	}
	for i := 1; i < len(result); i++ {
		for j := i; j > 0 && result[j].Date.Before(result[j-1].Date); j-- {
			result[j], result[j-1] = result[j-1], result[j]
		}
	}
	return result, nil
}

func (repo *memEventRepository) Count(context.Context) (int64, error) {
	return int64(len(repo.events)), repo.err
}

func (repo *memEventRepository) FindByDayRange(_ context.Context, dayStart time.Time, _ time.Time) (models.Event, bool, error) {
	if repo.err != nil {
		return models.Event{}, false, repo.err
	}
	entry, ok := repo.events[DayKey(dayStart)]
	return entry, ok, nil
}

func (repo *memEventRepository) UpsertByDay(_ context.Context, entry *models.Event, _ time.Time) (bool, error) {
	if repo.err != nil {
		return false, repo.err
	}
	key := DayKey(entry.Date)
	existing, found := repo.events[key]
	if found {
		entry.UID = existing.UID
	} else {
		repo.nextUID++
		entry.UID = "uid-" + string(rune('0'+repo.nextUID))
	}
	repo.events[key] = *entry
	return !found, nil
}

func (repo *memEventRepository) DeleteByDayRange(_ context.Context, dayStart time.Time, _ time.Time) (int64, error) {
	if repo.err != nil {
		return 0, repo.err
	}
	key := DayKey(dayStart)
	if _, ok := repo.events[key]; !ok {
		return 0, nil
	}
	delete(repo.events, key)
	return 1, nil
}

func TestEventServiceAddUpdatesSameDay(t *testing.T) {
	repo := newMemEventRepository()
	service := NewEventService(repo)
	ctx := context.Background()
	day := time.Date(2026, time.March, 10, 18, 45, 0, 0, time.UTC)

	first, created, err := service.AddEvent(ctx, day, EventInput{Notes: "  cramps  "})
	if err != nil || !created {
		t.Fatalf("AddEvent() created=%v err=%v", created, err)
	}
	if first.Type != models.EventPeriodStart || first.Notes != "cramps" || DayKey(first.Date) != "2026-03-10" || first.Date.Hour() != 0 {
		t.Fatalf("unexpected event: %#v", first)
	}

	second, created, err := service.AddEvent(ctx, mustParseDay(t, "2026-03-10"), EventInput{Type: models.EventPeriodConfirmed, Intensity: 2})
	if err != nil || created {
		t.Fatalf("expected update in place, created=%v err=%v", created, err)
	}
	if second.UID != first.UID || second.Type != models.EventPeriodConfirmed {
		t.Fatalf("unexpected updated event: %#v", second)
	}
	if count, _ := service.CountEvents(ctx); count != 1 {
		t.Fatalf("expected one stored event, got %d", count)
	}

	found, ok, err := service.FindEvent(ctx, day)
	if err != nil || !ok || found.Intensity != 2 {
		t.Fatalf("FindEvent() = %#v, %v, %v", found, ok, err)
	}
}

func TestEventServiceRemove(t *testing.T) {
	repo := newMemEventRepository()
	service := NewEventService(repo)
	ctx := context.Background()
	day := mustParseDay(t, "2026-01-01")

	if err := service.RemoveEvent(ctx, day); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, _, err := service.AddEvent(ctx, day, EventInput{}); err != nil {
		t.Fatalf("AddEvent() unexpected error: %v", err)
	}
	if err := service.RemoveEvent(ctx, day); err != nil {
		t.Fatalf("RemoveEvent() unexpected error: %v", err)
	}
	if events, _ := service.ListEvents(ctx); len(events) != 0 {
		t.Fatalf("expected empty log, got %d events", len(events))
	}
}

func TestEventServiceWrapsStorageErrors(t *testing.T) {
	repo := newMemEventRepository()
	repo.err = errors.New("disk I/O error")
	service := NewEventService(repo)
	ctx := context.Background()
	day := mustParseDay(t, "2026-01-01")

	if _, err := service.ListEvents(ctx); !IsStorageError(err) {
		t.Fatalf("ListEvents() expected storage error, got %v", err)
	}
	if _, _, err := service.AddEvent(ctx, day, EventInput{}); !IsStorageError(err) {
		t.Fatalf("AddEvent() expected storage error, got %v", err)
	}
	if err := service.RemoveEvent(ctx, day); !IsStorageError(err) {
		t.Fatalf("RemoveEvent() expected storage error, got %v", err)
	}
}

func TestNormalizeEventInput(t *testing.T) {
	tests := []struct {
		name    string
		input   EventInput
		wantErr error
	}{
		{name: "default type", input: EventInput{}},
		{name: "confirmed", input: EventInput{Type: models.EventPeriodConfirmed, Intensity: models.IntensityMax}},
		{name: "unknown type", input: EventInput{Type: 7}, wantErr: ErrEventTypeInvalid},
		{name: "negative intensity", input: EventInput{Intensity: -1}, wantErr: ErrEventIntensityOutOfRange},
		{name: "intensity too high", input: EventInput{Intensity: models.IntensityMax + 1}, wantErr: ErrEventIntensityOutOfRange},
		{name: "notes too long", input: EventInput{Notes: strings.Repeat("x", models.MaxEventNotesSize+1)}, wantErr: ErrEventNotesTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			normalized, err := NormalizeEventInput(tc.input)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeEventInput() unexpected error: %v", err)
			}
			if !normalized.Type.Valid() {
				t.Fatalf("expected a valid type, got %d", normalized.Type)
			}
		})
	}

	if _, _, err := NewEventService(newMemEventRepository()).AddEvent(context.Background(), time.Time{}, EventInput{}); !errors.Is(err, ErrEventDateInvalid) {
		t.Fatalf("expected invalid date error, got %v", err)
	}
}
