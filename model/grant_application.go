package model

import (
	"time"

	"gorm.io/gorm"
)

// ApplicationStatus represents the moderation state of a grant application
type ApplicationStatus string

const (
	ApplicationStatusSubmitted ApplicationStatus = "submitted"
	ApplicationStatusInReview  ApplicationStatus = "in-review"
	ApplicationStatusApproved  ApplicationStatus = "approved"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
)

// ValidApplicationStatus reports whether s is one of the four moderation
// states. Admins may move an application between any of them; only
// membership is checked.
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationStatusSubmitted, ApplicationStatusInReview,
		ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// GrantApplication represents a member's submission against a grant program.
// GrantProgramID deliberately carries no foreign-key constraint: deleting a
// program leaves its applications in place with a dangling reference, and
// they stay queryable.
type GrantApplication struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ProjectID      uint `gorm:"not null;index" json:"project_id"`
	ApplicantID    uint `gorm:"not null;index" json:"applicant_id"`
	GrantProgramID uint `gorm:"not null;index" json:"grant_program_id"`

	// Eligibility attributes snapshotted at submission time, so later
	// program edits never retroactively invalidate past applications
	WomenLeadershipPercentage int  `gorm:"default:0" json:"women_leadership_percentage"`
	ProgressDurationMonths    int  `gorm:"default:0" json:"progress_duration_months"`
	WorkingPrototype          bool `gorm:"default:false" json:"working_prototype"`

	// Content
	Proposal            string `gorm:"type:text;not null" json:"proposal"`
	BudgetBreakdown     string `gorm:"type:text" json:"budget_breakdown,omitempty"`
	Timeline            string `gorm:"type:text" json:"timeline,omitempty"`
	ExpectedImpact      string `gorm:"type:text" json:"expected_impact,omitempty"`
	TeamDetails         string `gorm:"type:text" json:"team_details,omitempty"`
	ProjectOverview     string `gorm:"type:text" json:"project_overview,omitempty"`
	Roadmap             string `gorm:"type:text" json:"roadmap,omitempty"`
	VisionImpact        string `gorm:"type:text" json:"vision_impact,omitempty"`
	WhyGrant            string `gorm:"type:text" json:"why_grant,omitempty"`
	AdditionalMaterials string `gorm:"type:text" json:"additional_materials,omitempty"`
	ReviewNotes         string `gorm:"type:text" json:"review_notes,omitempty"`

	// Media
	PitchVideoURL   string `gorm:"type:varchar(512)" json:"pitch_video_url,omitempty"`
	PresentationURL string `gorm:"type:varchar(512)" json:"presentation_url,omitempty"`
	DemoVideoURL    string `gorm:"type:varchar(512)" json:"demo_video_url,omitempty"`

	Status        ApplicationStatus `gorm:"type:varchar(20);default:'submitted';index" json:"status"`
	SubmittedDate time.Time         `gorm:"not null" json:"submitted_date"`

	// Relationships. GrantProgram is resolved manually because the
	// reference may dangle after program deletion.
	Project   Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	Applicant User    `gorm:"foreignKey:ApplicantID;constraint:OnDelete:CASCADE" json:"applicant,omitempty"`
}

// Attributes extracts the snapshotted eligibility attributes
func (a *GrantApplication) Attributes(region string) CandidateAttributes {
	return CandidateAttributes{
		WomenLeadershipPercentage: a.WomenLeadershipPercentage,
		ProgressDurationMonths:    a.ProgressDurationMonths,
		WorkingPrototype:          a.WorkingPrototype,
		Region:                    region,
	}
}

// CandidateAttributes is the applicant-declared side of an eligibility check
type CandidateAttributes struct {
	WomenLeadershipPercentage int    `json:"women_leadership_percentage"`
	ProgressDurationMonths    int    `json:"progress_duration_months"`
	WorkingPrototype          bool   `json:"working_prototype"`
	Region                    string `json:"region"`
}
