package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/model"
)

type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *model.Bookmark) error
	Delete(ctx context.Context, userID, researchID uuid.UUID) error
	Exists(ctx context.Context, userID, researchID uuid.UUID) (bool, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*model.Bookmark, int64, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Create(ctx context.Context, bookmark *model.Bookmark) error {
	return r.db.WithContext(ctx).Create(bookmark).Error
}

func (r *bookmarkRepository) Delete(ctx context.Context, userID, researchID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND research_id = ?", userID, researchID).
		Delete(&model.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *bookmarkRepository) Exists(ctx context.Context, userID, researchID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Bookmark{}).
		Where("user_id = ? AND research_id = ?", userID, researchID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bookmarkRepository) FindByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*model.Bookmark, int64, error) {
	var bookmarks []*model.Bookmark
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.Bookmark{}).
		Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Research").
		Preload("Research.Department").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&bookmarks).Error; err != nil {
		return nil, 0, err
	}

	return bookmarks, total, nil
}
