package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AccessPublic     = "public"
	AccessRestricted = "restricted"
)

type Research struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Author       string     `gorm:"size:255;not null" json:"author"`
	DepartmentID uuid.UUID  `gorm:"type:uuid;not null;index" json:"department_id"`
	Department   Department `json:"department"`
	Type         string     `gorm:"size:50;not null;index" json:"type"`
	Year         int        `gorm:"not null;index" json:"year"`
	Abstract     string     `gorm:"type:text" json:"abstract"`
	Keywords     string     `gorm:"type:text" json:"keywords"`
	AccessLevel  string     `gorm:"size:20;not null;default:public" json:"access_level"`
	FilePath     string     `gorm:"type:text;not null" json:"file_path"`
	FileURL      string     `gorm:"type:text" json:"file_url"`
	FileName     string     `gorm:"size:255" json:"file_name"`
	FileSize     int64      `json:"file_size"`
	Downloads    int        `gorm:"default:0" json:"downloads"`
	UploadedByID uuid.UUID  `gorm:"type:uuid;not null" json:"uploaded_by_id"`
	UploadedBy   User       `gorm:"foreignKey:UploadedByID" json:"uploaded_by"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Research) TableName() string {
	return "research"
}

func (r *Research) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Comments are append-only: no update or delete anywhere in the API.
type Comment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ResearchID uuid.UUID `gorm:"type:uuid;not null;index" json:"research_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User       User      `json:"user"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Bookmark struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmark_user_research" json:"user_id"`
	ResearchID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmark_user_research" json:"research_id"`
	Research   Research  `json:"research"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (b *Bookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Download is an event-log row, written once and never mutated.
type Download struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ResearchID uuid.UUID  `gorm:"type:uuid;not null;index" json:"research_id"`
	UserID     *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
