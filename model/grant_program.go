package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProgramStatus represents the lifecycle state of a grant program
type ProgramStatus string

const (
	ProgramStatusDraft     ProgramStatus = "draft"
	ProgramStatusActive    ProgramStatus = "active"
	ProgramStatusClosed    ProgramStatus = "closed"
	ProgramStatusCompleted ProgramStatus = "completed"
)

// ValidProgramStatus reports whether s is one of the four lifecycle states.
// All states are mutually reachable; only membership is checked.
func ValidProgramStatus(s ProgramStatus) bool {
	switch s {
	case ProgramStatusDraft, ProgramStatusActive, ProgramStatusClosed, ProgramStatusCompleted:
		return true
	}
	return false
}

// Currency represents the currency a grant is denominated in
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyINR Currency = "INR"
)

// ValidCurrency reports whether c is a supported currency
func ValidCurrency(c Currency) bool {
	return c == CurrencyUSD || c == CurrencyINR
}

// GrantProgram represents a grant-funding opportunity with eligibility
// criteria and a deadline
type GrantProgram struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Descriptive
	Title        string         `gorm:"not null" json:"title"`
	Subtitle     string         `gorm:"type:varchar(255)" json:"subtitle,omitempty"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	CoverImage   string         `gorm:"type:varchar(512)" json:"cover_image,omitempty"`
	ExternalLink string         `gorm:"type:varchar(512);not null" json:"external_link"`
	Tags         datatypes.JSON `gorm:"type:jsonb" json:"tags"`

	// Financial
	GrantAmount         float64  `gorm:"not null" json:"grant_amount"`
	Currency            Currency `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	TotalProjectsFunded int      `gorm:"not null" json:"total_projects_funded"`
	DisbursementPhases  int      `gorm:"default:1" json:"disbursement_phases"`

	// Eligibility criteria
	WorkingPrototypeRequired  bool           `gorm:"default:false" json:"working_prototype_required"`
	WomenLeadershipPercentage int            `gorm:"default:0" json:"women_leadership_percentage"` // 0..100
	ProgressDurationMonths    int            `gorm:"default:0" json:"progress_duration_months"`
	Values                    datatypes.JSON `gorm:"type:jsonb" json:"values"`
	Region                    string         `gorm:"type:varchar(100)" json:"region"` // empty means any region

	// Required application sections
	RequiresTeamDetails     bool `gorm:"default:false" json:"requires_team_details"`
	RequiresProjectOverview bool `gorm:"default:false" json:"requires_project_overview"`
	RequiresRoadmap         bool `gorm:"default:false" json:"requires_roadmap"`
	RequiresVisionImpact    bool `gorm:"default:false" json:"requires_vision_impact"`
	RequiresWhyGrant        bool `gorm:"default:false" json:"requires_why_grant"`
	RequiresScreenshots     bool `gorm:"default:false" json:"requires_screenshots"`

	// Dates: applications_open <= deadline <= winners_announced
	ApplicationsOpen time.Time `gorm:"not null" json:"applications_open"`
	Deadline         time.Time `gorm:"not null;index" json:"deadline"`
	WinnersAnnounced time.Time `gorm:"not null" json:"winners_announced"`

	// Lifecycle
	Status     ProgramStatus `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	IsFeatured bool          `gorm:"default:false" json:"is_featured"`

	// Derived at read time, never persisted
	ApplicationsCount int64 `gorm:"-" json:"applications_count"`
}

// EligibilityCriteria extracts the program's eligibility requirements
func (p *GrantProgram) EligibilityCriteria() EligibilityCriteria {
	return EligibilityCriteria{
		RequiredWomenLeadershipPercentage: p.WomenLeadershipPercentage,
		RequiredProgressDurationMonths:    p.ProgressDurationMonths,
		RequiresWorkingPrototype:          p.WorkingPrototypeRequired,
		RequiredRegion:                    p.Region,
	}
}

// EligibilityCriteria is the subset of program fields the eligibility
// evaluator compares against
type EligibilityCriteria struct {
	RequiredWomenLeadershipPercentage int    `json:"required_women_leadership_percentage"`
	RequiredProgressDurationMonths    int    `json:"required_progress_duration_months"`
	RequiresWorkingPrototype          bool   `json:"requires_working_prototype"`
	RequiredRegion                    string `json:"required_region"`
}
