package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/terzahh/samara-repository-sub000/internal/model"
)

type SettingsRepository interface {
	Upsert(ctx context.Context, setting *model.SystemSetting) error
	FindByKey(ctx context.Context, key string) (*model.SystemSetting, error)
	FindAll(ctx context.Context) ([]*model.SystemSetting, error)
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Upsert(ctx context.Context, setting *model.SystemSetting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(setting).Error
}

func (r *settingsRepository) FindByKey(ctx context.Context, key string) (*model.SystemSetting, error) {
	var setting model.SystemSetting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingsRepository) FindAll(ctx context.Context) ([]*model.SystemSetting, error) {
	var settings []*model.SystemSetting
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
