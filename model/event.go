package model

import (
	"time"

	"gorm.io/gorm"
)

// Event represents a community event shown on the public site
type Event struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Location    string         `gorm:"type:varchar(255)" json:"location"`
	CoverImage  string         `gorm:"type:varchar(512)" json:"cover_image,omitempty"`
	ExternalURL string         `gorm:"type:varchar(512)" json:"external_url,omitempty"`
	StartsAt    time.Time      `gorm:"not null;index" json:"starts_at"`
	EndsAt      time.Time      `json:"ends_at"`
	IsPublished bool           `gorm:"default:false;index" json:"is_published"`
}
