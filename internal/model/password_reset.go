package model

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken stores only the SHA-256 digest of the token handed to the
// user. The raw token never touches the database, so a leaked table cannot be
// replayed. Lifecycle: issued -> (redeemed | expired), terminal either way.
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TokenHash string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	Email     string    `gorm:"size:100;not null" json:"email"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PasswordResetToken) TableName() string {
	return "password_resets"
}
