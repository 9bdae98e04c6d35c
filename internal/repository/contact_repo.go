package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/model"
)

type ContactRepository interface {
	Create(ctx context.Context, message *model.ContactMessage) error
	FindAll(ctx context.Context, offset, limit int) ([]*model.ContactMessage, int64, error)
	MarkRead(ctx context.Context, id uint) error
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, message *model.ContactMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *contactRepository) FindAll(ctx context.Context, offset, limit int) ([]*model.ContactMessage, int64, error) {
	var messages []*model.ContactMessage
	var total int64

	query := r.db.WithContext(ctx).Model(&model.ContactMessage{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&messages).Error; err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (r *contactRepository) MarkRead(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&model.ContactMessage{}).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
