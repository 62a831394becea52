package db

import (
	"context"
	"time"

	"github.com/arnowelzel/periodical/internal/models"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type EventRepository struct {
	database *gorm.DB
}

func NewEventRepository(database *gorm.DB) *EventRepository {
	return &EventRepository{database: database}
}

func (repo *EventRepository) ListAscending(ctx context.Context) ([]models.Event, error) {
	events := make([]models.Event, 0)
	if err := repo.database.WithContext(ctx).Order("date ASC, id ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (repo *EventRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.database.WithContext(ctx).Model(&models.Event{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *EventRepository) FindByDayRange(ctx context.Context, dayStart time.Time, dayEnd time.Time) (models.Event, bool, error) {
	entry := models.Event{}
	result := repo.database.WithContext(ctx).
		Where("date >= ? AND date < ?", dayStart, dayEnd).
		Order("date ASC, id ASC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.Event{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Event{}, false, nil
	}
	return entry, true, nil
}

// UpsertByDay stores entry on its day, updating the row already recorded there.
// entry.Date must be a normalized calendar day.
func (repo *EventRepository) UpsertByDay(ctx context.Context, entry *models.Event, dayEnd time.Time) (bool, error) {
	created := false
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing := models.Event{}
		result := tx.Where("date >= ? AND date < ?", entry.Date, dayEnd).Limit(1).Find(&existing)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected > 0 {
			existing.Type = entry.Type
			existing.Intensity = entry.Intensity
			existing.Notes = entry.Notes
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			*entry = existing
			return nil
		}

		if entry.UID == "" {
			entry.UID = newEventUID()
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

func (repo *EventRepository) DeleteByDayRange(ctx context.Context, dayStart time.Time, dayEnd time.Time) (int64, error) {
	result := repo.database.WithContext(ctx).
		Where("date >= ? AND date < ?", dayStart, dayEnd).
		Delete(&models.Event{})
	return result.RowsAffected, result.Error
}

func newEventUID() string {
	return ulid.Make().String()
}
