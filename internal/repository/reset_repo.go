package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/terzahh/samara-repository-sub000/internal/model"
)

type ResetTokenRepository interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	FindActiveByHash(ctx context.Context, tokenHash string, now time.Time) (*model.PasswordResetToken, error)
	// Redeem marks the token used and writes the new password hash in one
	// transaction. The token update is a single conditional statement, so a
	// concurrent redemption of the same token loses the race and gets
	// gorm.ErrRecordNotFound.
	Redeem(ctx context.Context, tokenHash string, newPasswordHash string, now time.Time) error
}

type resetTokenRepository struct {
	db *gorm.DB
}

func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

func (r *resetTokenRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *resetTokenRepository) FindActiveByHash(ctx context.Context, tokenHash string, now time.Time) (*model.PasswordResetToken, error) {
	var token model.PasswordResetToken
	if err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Where("used = ?", false).
		Where("expires_at > ?", now).
		First(&token).Error; err != nil {
		return nil, err
	}

	return &token, nil
}

func (r *resetTokenRepository) Redeem(ctx context.Context, tokenHash string, newPasswordHash string, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token model.PasswordResetToken
		if err := tx.Where("token_hash = ?", tokenHash).First(&token).Error; err != nil {
			return err
		}

		res := tx.Model(&model.PasswordResetToken{}).
			Where("token_hash = ?", tokenHash).
			Where("used = ?", false).
			Where("expires_at > ?", now).
			Update("used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&model.User{}).
			Where("id = ?", token.UserID).
			Update("password_hash", newPasswordHash).Error
	})
}
