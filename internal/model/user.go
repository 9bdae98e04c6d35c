package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin          = "admin"
	RoleDepartmentHead = "department_head"
	RoleUser           = "user"
	RoleGuest          = "guest"
)

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Department struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type User struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string      `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"size:255;not null" json:"-"`
	DisplayName  string      `gorm:"size:100;not null" json:"display_name"`
	RoleID       *uint       `json:"role_id"`
	Role         Role        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"role"`
	DepartmentID *uuid.UUID  `gorm:"type:uuid" json:"department_id,omitempty"`
	Department   *Department `gorm:"constraint:OnDelete:SET NULL" json:"department,omitempty"`
	// Approved gates department-head login. A nil value counts as approved so
	// rows created before the column existed keep working.
	Approved  *bool     `json:"approved,omitempty"`
	AvatarURL *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsApproved reports whether the account may receive a session. Only an
// explicit false blocks.
func (u *User) IsApproved() bool {
	return u.Approved == nil || *u.Approved
}
