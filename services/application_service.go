package services

import (
	"context"
	"fmt"
	"time"

	"github.com/codeforchange/community-api/model"
	"github.com/codeforchange/community-api/utils/validation"
	"gorm.io/gorm"
)

// ApplicationService orchestrates grant application submission and admin
// moderation. Every mutation returns server-confirmed state.
type ApplicationService struct {
	db *gorm.DB
}

// NewApplicationService creates a new application service
func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{db: db}
}

// ApplicationInput is the submission form for a grant application
type ApplicationInput struct {
	ProjectID      uint `json:"project_id"`
	GrantProgramID uint `json:"grant_program_id"`

	// Declared eligibility attributes, snapshotted on the application
	WomenLeadershipPercentage int    `json:"women_leadership_percentage"`
	ProgressDurationMonths    int    `json:"progress_duration_months"`
	WorkingPrototype          bool   `json:"working_prototype"`
	Region                    string `json:"region"`

	Proposal            string `json:"proposal"`
	BudgetBreakdown     string `json:"budget_breakdown"`
	Timeline            string `json:"timeline"`
	ExpectedImpact      string `json:"expected_impact"`
	TeamDetails         string `json:"team_details"`
	ProjectOverview     string `json:"project_overview"`
	Roadmap             string `json:"roadmap"`
	VisionImpact        string `json:"vision_impact"`
	WhyGrant            string `json:"why_grant"`
	AdditionalMaterials string `json:"additional_materials"`

	PitchVideoURL   string `json:"pitch_video_url"`
	PresentationURL string `json:"presentation_url"`
	DemoVideoURL    string `json:"demo_video_url"`
}

// ValidateApplicationInput checks the submission form against the program's
// required-section flags. Pure: runs before any store write.
func ValidateApplicationInput(input ApplicationInput, program model.GrantProgram) FieldErrors {
	errs := FieldErrors{}

	if input.ProjectID == 0 {
		errs["project_id"] = "project is required"
	}
	if input.GrantProgramID == 0 {
		errs["grant_program_id"] = "grant program is required"
	}
	if validation.SanitizeString(input.Proposal) == "" {
		errs["proposal"] = "proposal is required"
	}
	if input.WomenLeadershipPercentage < 0 || input.WomenLeadershipPercentage > 100 {
		errs["women_leadership_percentage"] = "women leadership percentage must be between 0 and 100"
	}
	if input.ProgressDurationMonths < 0 {
		errs["progress_duration_months"] = "progress duration must not be negative"
	}

	if program.RequiresTeamDetails && validation.SanitizeString(input.TeamDetails) == "" {
		errs["team_details"] = "team details are required for this program"
	}
	if program.RequiresProjectOverview && validation.SanitizeString(input.ProjectOverview) == "" {
		errs["project_overview"] = "project overview is required for this program"
	}
	if program.RequiresRoadmap && validation.SanitizeString(input.Roadmap) == "" {
		errs["roadmap"] = "roadmap is required for this program"
	}
	if program.RequiresVisionImpact && validation.SanitizeString(input.VisionImpact) == "" {
		errs["vision_impact"] = "vision and impact section is required for this program"
	}
	if program.RequiresWhyGrant && validation.SanitizeString(input.WhyGrant) == "" {
		errs["why_grant"] = "why-grant section is required for this program"
	}
	if program.RequiresScreenshots && input.DemoVideoURL == "" && input.PresentationURL == "" {
		errs["additional_materials"] = "a demo video or presentation is required for this program"
	}

	for field, value := range map[string]string{
		"pitch_video_url":  input.PitchVideoURL,
		"presentation_url": input.PresentationURL,
		"demo_video_url":   input.DemoVideoURL,
	} {
		if value != "" && !validation.ValidateURL(value) {
			errs[field] = field + " must be a valid URL"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Submit creates an application against an active program. Eligibility is
// re-evaluated here authoritatively; the client-side check is advisory only.
// The initial status is always submitted.
func (s *ApplicationService) Submit(ctx context.Context, applicantID uint, input ApplicationInput) (*model.GrantApplication, error) {
	var program model.GrantProgram
	if err := s.db.WithContext(ctx).First(&program, input.GrantProgramID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to fetch program: %w", err)
	}

	if program.Status != model.ProgramStatusActive {
		return nil, ErrProgramNotOpen
	}

	if errs := ValidateApplicationInput(input, program); errs != nil {
		return nil, errs
	}

	var project model.Project
	if err := s.db.WithContext(ctx).First(&project, input.ProjectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}
	if project.UserID != applicantID {
		return nil, ErrNotProjectOwner
	}

	// One live application per applicant and program; re-applying after
	// rejection is allowed
	var pending int64
	if err := s.db.WithContext(ctx).
		Model(&model.GrantApplication{}).
		Where("applicant_id = ? AND grant_program_id = ? AND status IN ?",
			applicantID, input.GrantProgramID,
			[]model.ApplicationStatus{model.ApplicationStatusSubmitted, model.ApplicationStatusInReview}).
		Count(&pending).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing applications: %w", err)
	}
	if pending > 0 {
		return nil, ErrDuplicateSubmission
	}

	application := model.GrantApplication{
		ProjectID:      input.ProjectID,
		ApplicantID:    applicantID,
		GrantProgramID: input.GrantProgramID,

		WomenLeadershipPercentage: input.WomenLeadershipPercentage,
		ProgressDurationMonths:    input.ProgressDurationMonths,
		WorkingPrototype:          input.WorkingPrototype,

		Proposal:            validation.StripHTML(input.Proposal),
		BudgetBreakdown:     validation.StripHTML(input.BudgetBreakdown),
		Timeline:            validation.StripHTML(input.Timeline),
		ExpectedImpact:      validation.StripHTML(input.ExpectedImpact),
		TeamDetails:         validation.StripHTML(input.TeamDetails),
		ProjectOverview:     validation.StripHTML(input.ProjectOverview),
		Roadmap:             validation.StripHTML(input.Roadmap),
		VisionImpact:        validation.StripHTML(input.VisionImpact),
		WhyGrant:            validation.StripHTML(input.WhyGrant),
		AdditionalMaterials: validation.StripHTML(input.AdditionalMaterials),

		PitchVideoURL:   validation.SanitizeString(input.PitchVideoURL),
		PresentationURL: validation.SanitizeString(input.PresentationURL),
		DemoVideoURL:    validation.SanitizeString(input.DemoVideoURL),

		Status:        model.ApplicationStatusSubmitted,
		SubmittedDate: time.Now().UTC(),
	}

	// Evaluate against the snapshot the application will actually persist
	verdict := EvaluateEligibility(program.EligibilityCriteria(), application.Attributes(input.Region))
	if !verdict.Eligible {
		return nil, &IneligibleError{UnmetCriteria: verdict.UnmetCriteria}
	}

	if err := s.db.WithContext(ctx).Create(&application).Error; err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	return s.Get(ctx, application.ID)
}

// UpdateStatus moves an application to any of the four moderation states.
// The permissiveness is deliberate: approved and rejected are not terminal.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id uint, status model.ApplicationStatus, reviewNotes string) (*model.GrantApplication, error) {
	if !model.ValidApplicationStatus(status) {
		return nil, ErrInvalidStatus
	}

	updates := map[string]interface{}{"status": status}
	if reviewNotes != "" {
		updates["review_notes"] = validation.StripHTML(reviewNotes)
	}

	result := s.db.WithContext(ctx).
		Model(&model.GrantApplication{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update application status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrApplicationNotFound
	}

	return s.Get(ctx, id)
}

// Delete removes an application for good. Irreversible, admin-only at the
// route layer.
func (s *ApplicationService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Unscoped().Delete(&model.GrantApplication{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete application: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// ApplicationListOptions filters and paginates the application collection
type ApplicationListOptions struct {
	Status         string
	GrantProgramID uint
	ApplicantID    uint
	Page           int
	Limit          int
}

// List returns applications matching the options plus the unpaginated
// total. Programs are not preloaded: the reference may dangle after a
// program deletion and the rows must stay listable regardless.
func (s *ApplicationService) List(ctx context.Context, opts ApplicationListOptions) ([]model.GrantApplication, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.GrantApplication{})

	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.GrantProgramID != 0 {
		query = query.Where("grant_program_id = ?", opts.GrantProgramID)
	}
	if opts.ApplicantID != 0 {
		query = query.Where("applicant_id = ?", opts.ApplicantID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 20
	}

	var applications []model.GrantApplication
	if err := query.
		Preload("Project").
		Preload("Applicant").
		Order("submitted_date DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&applications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch applications: %w", err)
	}

	return applications, total, nil
}

// Get returns a single application
func (s *ApplicationService) Get(ctx context.Context, id uint) (*model.GrantApplication, error) {
	var application model.GrantApplication
	if err := s.db.WithContext(ctx).
		Preload("Project").
		Preload("Applicant").
		First(&application, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}
	return &application, nil
}

// FilterByStatus is the client-local projection over an already fetched
// collection. Order is preserved; the result is independent of fetch order
// beyond that.
func FilterByStatus(applications []model.GrantApplication, status model.ApplicationStatus) []model.GrantApplication {
	filtered := make([]model.GrantApplication, 0, len(applications))
	for _, application := range applications {
		if application.Status == status {
			filtered = append(filtered, application)
		}
	}
	return filtered
}
