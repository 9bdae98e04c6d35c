package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/model"
)

type DownloadRepository interface {
	Create(ctx context.Context, download *model.Download) error
	Count(ctx context.Context) (int64, error)
}

type downloadRepository struct {
	db *gorm.DB
}

func NewDownloadRepository(db *gorm.DB) DownloadRepository {
	return &downloadRepository{db: db}
}

func (r *downloadRepository) Create(ctx context.Context, download *model.Download) error {
	return r.db.WithContext(ctx).Create(download).Error
}

func (r *downloadRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Download{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
