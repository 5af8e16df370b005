package model

import (
	"time"

	"gorm.io/gorm"
)

// Announcement represents a platform-wide announcement managed by admins
type Announcement struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Title       string         `gorm:"not null" json:"title"`
	Body        string         `gorm:"type:text;not null" json:"body"`
	IsPinned    bool           `gorm:"default:false" json:"is_pinned"`
	PublishedAt *time.Time     `gorm:"index" json:"published_at,omitempty"` // nil means unpublished
}
