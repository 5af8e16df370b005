package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project represents a member-owned project that grant applications are
// submitted for
type Project struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	RepoURL     string         `gorm:"type:varchar(512)" json:"repo_url"`
	DemoURL     string         `gorm:"type:varchar(512)" json:"demo_url"`
	CoverImage  string         `gorm:"type:varchar(512)" json:"cover_image"`
	Tags        datatypes.JSON `gorm:"type:jsonb" json:"tags"`

	// Relationships
	User         User               `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Applications []GrantApplication `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}
