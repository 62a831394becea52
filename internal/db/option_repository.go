package db

import (
	"context"

	"github.com/arnowelzel/periodical/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OptionRepository struct {
	database *gorm.DB
}

func NewOptionRepository(database *gorm.DB) *OptionRepository {
	return &OptionRepository{database: database}
}

func (repo *OptionRepository) Get(ctx context.Context, name string) (string, bool, error) {
	option := models.Option{}
	result := repo.database.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&option)
	if result.Error != nil {
		return "", false, result.Error
	}
	if result.RowsAffected == 0 {
		return "", false, nil
	}
	return option.Value, true, nil
}

func (repo *OptionRepository) Set(ctx context.Context, name string, value string) error {
	return upsertOption(repo.database.WithContext(ctx), name, value)
}

func (repo *OptionRepository) SetMany(ctx context.Context, values map[string]string) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for name, value := range values {
			if err := upsertOption(tx, name, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (repo *OptionRepository) Delete(ctx context.Context, name string) error {
	return repo.database.WithContext(ctx).Where("name = ?", name).Delete(&models.Option{}).Error
}

func (repo *OptionRepository) All(ctx context.Context) (map[string]string, error) {
	options := make([]models.Option, 0)
	if err := repo.database.WithContext(ctx).Order("name ASC").Find(&options).Error; err != nil {
		return nil, err
	}
	values := make(map[string]string, len(options))
	for _, option := range options {
		values[option.Name] = option.Value
	}
	return values, nil
}

func upsertOption(database *gorm.DB, name string, value string) error {
	return database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.Option{Name: name, Value: value}).Error
}
