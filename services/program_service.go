package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/codeforchange/community-api/model"
	"github.com/codeforchange/community-api/utils/cache"
	"github.com/codeforchange/community-api/utils/validation"
	"gorm.io/gorm"
)

// programStatsTTL bounds how stale a cached per-program stats read can be
const programStatsTTL = 60 * time.Second

// ProgramService orchestrates the grant program lifecycle: create, update,
// delete, feature toggle and status changes. All mutations return the
// reloaded entity so callers always see server-confirmed state.
type ProgramService struct {
	db    *gorm.DB
	cache *cache.RedisCache // optional, stats caching is skipped when nil
}

// NewProgramService creates a new program service
func NewProgramService(db *gorm.DB, redisCache *cache.RedisCache) *ProgramService {
	return &ProgramService{
		db:    db,
		cache: redisCache,
	}
}

// ProgramInput is the full program form. Update uses the same shape and the
// same validation as create.
type ProgramInput struct {
	Title        string   `json:"title"`
	Subtitle     string   `json:"subtitle"`
	Description  string   `json:"description"`
	CoverImage   string   `json:"cover_image"`
	ExternalLink string   `json:"external_link"`
	Tags         []string `json:"tags"`

	GrantAmount         float64 `json:"grant_amount"`
	Currency            string  `json:"currency"`
	TotalProjectsFunded int     `json:"total_projects_funded"`
	DisbursementPhases  int     `json:"disbursement_phases"`

	WorkingPrototypeRequired  bool     `json:"working_prototype_required"`
	WomenLeadershipPercentage int      `json:"women_leadership_percentage"`
	ProgressDurationMonths    int      `json:"progress_duration_months"`
	Values                    []string `json:"values"`
	Region                    string   `json:"region"`

	RequiresTeamDetails     bool `json:"requires_team_details"`
	RequiresProjectOverview bool `json:"requires_project_overview"`
	RequiresRoadmap         bool `json:"requires_roadmap"`
	RequiresVisionImpact    bool `json:"requires_vision_impact"`
	RequiresWhyGrant        bool `json:"requires_why_grant"`
	RequiresScreenshots     bool `json:"requires_screenshots"`

	ApplicationsOpen string `json:"applications_open"`
	Deadline         string `json:"deadline"`
	WinnersAnnounced string `json:"winners_announced"`

	Status string `json:"status"`
}

// ParseProgramDate accepts RFC 3339 timestamps or plain calendar dates
func ParseProgramDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// ValidateProgramInput checks the full program form and returns per-field
// errors. Pure: runs before any store access.
func ValidateProgramInput(input ProgramInput) FieldErrors {
	errs := FieldErrors{}

	if validation.SanitizeString(input.Title) == "" {
		errs["title"] = "title is required"
	}
	if validation.SanitizeString(input.Description) == "" {
		errs["description"] = "description is required"
	}
	if input.GrantAmount < 0 {
		errs["grant_amount"] = "grant amount must not be negative"
	}
	if input.TotalProjectsFunded < 1 {
		errs["total_projects_funded"] = "total projects funded must be at least 1"
	}
	if input.DisbursementPhases < 0 {
		errs["disbursement_phases"] = "disbursement phases must be positive"
	}
	if input.WomenLeadershipPercentage < 0 || input.WomenLeadershipPercentage > 100 {
		errs["women_leadership_percentage"] = "women leadership percentage must be between 0 and 100"
	}
	if input.ProgressDurationMonths < 0 {
		errs["progress_duration_months"] = "progress duration must not be negative"
	}

	if input.ExternalLink == "" {
		errs["external_link"] = "external link is required"
	} else if !validation.ValidateURL(input.ExternalLink) {
		errs["external_link"] = "external link must be a valid URL"
	}

	if input.Currency != "" && !model.ValidCurrency(model.Currency(input.Currency)) {
		errs["currency"] = "currency must be USD or INR"
	}

	if input.Status != "" && !model.ValidProgramStatus(model.ProgramStatus(input.Status)) {
		errs["status"] = "status must be draft, active, closed or completed"
	}

	var opensAt, deadline, winnersAt time.Time
	var err error

	if input.ApplicationsOpen == "" {
		errs["applications_open"] = "applications open date is required"
	} else if opensAt, err = ParseProgramDate(input.ApplicationsOpen); err != nil {
		errs["applications_open"] = "applications open date is not a valid date"
	}

	if input.Deadline == "" {
		errs["deadline"] = "deadline is required"
	} else if deadline, err = ParseProgramDate(input.Deadline); err != nil {
		errs["deadline"] = "deadline is not a valid date"
	}

	if input.WinnersAnnounced == "" {
		errs["winners_announced"] = "winners announced date is required"
	} else if winnersAt, err = ParseProgramDate(input.WinnersAnnounced); err != nil {
		errs["winners_announced"] = "winners announced date is not a valid date"
	}

	// applications_open <= deadline <= winners_announced
	if !opensAt.IsZero() && !deadline.IsZero() && deadline.Before(opensAt) {
		errs["deadline"] = "deadline must not be before the applications open date"
	}
	if !deadline.IsZero() && !winnersAt.IsZero() && winnersAt.Before(deadline) {
		errs["winners_announced"] = "winners announced date must not be before the deadline"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (s *ProgramService) applyInput(program *model.GrantProgram, input ProgramInput) error {
	tags, err := json.Marshal(validation.NormalizeStringSet(input.Tags))
	if err != nil {
		return err
	}
	values, err := json.Marshal(validation.NormalizeStringSet(input.Values))
	if err != nil {
		return err
	}

	opensAt, _ := ParseProgramDate(input.ApplicationsOpen)
	deadline, _ := ParseProgramDate(input.Deadline)
	winnersAt, _ := ParseProgramDate(input.WinnersAnnounced)

	program.Title = validation.SanitizeString(input.Title)
	program.Subtitle = validation.SanitizeString(input.Subtitle)
	program.Description = validation.StripHTML(input.Description)
	program.CoverImage = validation.SanitizeString(input.CoverImage)
	program.ExternalLink = validation.SanitizeString(input.ExternalLink)
	program.Tags = tags
	program.GrantAmount = input.GrantAmount
	program.TotalProjectsFunded = input.TotalProjectsFunded
	program.WorkingPrototypeRequired = input.WorkingPrototypeRequired
	program.WomenLeadershipPercentage = input.WomenLeadershipPercentage
	program.ProgressDurationMonths = input.ProgressDurationMonths
	program.Values = values
	program.Region = validation.SanitizeString(input.Region)
	program.RequiresTeamDetails = input.RequiresTeamDetails
	program.RequiresProjectOverview = input.RequiresProjectOverview
	program.RequiresRoadmap = input.RequiresRoadmap
	program.RequiresVisionImpact = input.RequiresVisionImpact
	program.RequiresWhyGrant = input.RequiresWhyGrant
	program.RequiresScreenshots = input.RequiresScreenshots
	program.ApplicationsOpen = opensAt
	program.Deadline = deadline
	program.WinnersAnnounced = winnersAt

	program.Currency = model.CurrencyUSD
	if input.Currency != "" {
		program.Currency = model.Currency(input.Currency)
	}

	program.DisbursementPhases = input.DisbursementPhases
	if program.DisbursementPhases == 0 {
		program.DisbursementPhases = 1
	}

	// New programs default to draft unless the creator chose a state
	program.Status = model.ProgramStatusDraft
	if input.Status != "" {
		program.Status = model.ProgramStatus(input.Status)
	}

	return nil
}

// Create validates and persists a new program
func (s *ProgramService) Create(ctx context.Context, input ProgramInput) (*model.GrantProgram, error) {
	if errs := ValidateProgramInput(input); errs != nil {
		return nil, errs
	}

	var program model.GrantProgram
	if err := s.applyInput(&program, input); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&program).Error; err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}

	return s.Get(ctx, program.ID)
}

// Update applies the full form to an existing program, using the same
// validation as create
func (s *ProgramService) Update(ctx context.Context, id uint, input ProgramInput) (*model.GrantProgram, error) {
	if errs := ValidateProgramInput(input); errs != nil {
		return nil, errs
	}

	var program model.GrantProgram
	if err := s.db.WithContext(ctx).First(&program, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to fetch program: %w", err)
	}

	priorStatus := program.Status
	if err := s.applyInput(&program, input); err != nil {
		return nil, err
	}
	// An unset status on update keeps the current state instead of
	// falling back to draft
	if input.Status == "" {
		program.Status = priorStatus
	}

	if err := s.db.WithContext(ctx).Save(&program).Error; err != nil {
		return nil, fmt.Errorf("failed to update program: %w", err)
	}

	s.invalidateStats(ctx, id)
	return s.Get(ctx, id)
}

// Delete removes the program row for good. Applications keep their
// grant_program_id and stay queryable with the dangling reference.
func (s *ProgramService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Unscoped().Delete(&model.GrantProgram{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete program: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProgramNotFound
	}

	s.invalidateStats(ctx, id)
	return nil
}

// ToggleFeatured flips is_featured in a single statement so concurrent
// admins cannot lose updates; two sequential toggles restore the original
// value.
func (s *ProgramService) ToggleFeatured(ctx context.Context, id uint) (*model.GrantProgram, error) {
	result := s.db.WithContext(ctx).
		Model(&model.GrantProgram{}).
		Where("id = ?", id).
		UpdateColumn("is_featured", gorm.Expr("NOT is_featured"))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to toggle featured flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrProgramNotFound
	}

	return s.Get(ctx, id)
}

// SetStatus assigns a lifecycle state directly. All four states are mutually
// reachable; only enum membership is validated.
func (s *ProgramService) SetStatus(ctx context.Context, id uint, status model.ProgramStatus) (*model.GrantProgram, error) {
	if !model.ValidProgramStatus(status) {
		return nil, ErrInvalidStatus
	}

	result := s.db.WithContext(ctx).
		Model(&model.GrantProgram{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to set program status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrProgramNotFound
	}

	return s.Get(ctx, id)
}

// ProgramListOptions filters and paginates the program collection
type ProgramListOptions struct {
	Status   string
	Featured *bool
	Search   string
	Tag      string
	Page     int
	Limit    int
}

// List returns programs matching the options plus the unpaginated total
func (s *ProgramService) List(ctx context.Context, opts ProgramListOptions) ([]model.GrantProgram, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.GrantProgram{})

	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.Featured != nil {
		query = query.Where("is_featured = ?", *opts.Featured)
	}
	if opts.Search != "" {
		like := "%" + opts.Search + "%"
		query = query.Where("title ILIKE ? OR subtitle ILIKE ? OR description ILIKE ?", like, like, like)
	}
	if opts.Tag != "" {
		tagJSON, err := json.Marshal([]string{opts.Tag})
		if err != nil {
			return nil, 0, err
		}
		query = query.Where("tags @> ?", string(tagJSON))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count programs: %w", err)
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 10
	}

	var programs []model.GrantProgram
	if err := query.
		Order("is_featured DESC, deadline ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&programs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch programs: %w", err)
	}

	if err := s.fillApplicationCounts(ctx, programs); err != nil {
		return nil, 0, err
	}

	return programs, total, nil
}

// Get returns a single program with its derived applications count
func (s *ProgramService) Get(ctx context.Context, id uint) (*model.GrantProgram, error) {
	var program model.GrantProgram
	if err := s.db.WithContext(ctx).First(&program, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to fetch program: %w", err)
	}

	if err := s.db.WithContext(ctx).
		Model(&model.GrantApplication{}).
		Where("grant_program_id = ?", id).
		Count(&program.ApplicationsCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	return &program, nil
}

func (s *ProgramService) fillApplicationCounts(ctx context.Context, programs []model.GrantProgram) error {
	if len(programs) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(programs))
	for _, p := range programs {
		ids = append(ids, p.ID)
	}

	var rows []struct {
		GrantProgramID uint
		Count          int64
	}
	if err := s.db.WithContext(ctx).
		Model(&model.GrantApplication{}).
		Select("grant_program_id, COUNT(*) as count").
		Where("grant_program_id IN ?", ids).
		Group("grant_program_id").
		Scan(&rows).Error; err != nil {
		return fmt.Errorf("failed to count applications: %w", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.GrantProgramID] = row.Count
	}
	for i := range programs {
		programs[i].ApplicationsCount = counts[programs[i].ID]
	}
	return nil
}

// ProgramStats summarizes a program's applications by moderation state
type ProgramStats struct {
	ProgramID         uint             `json:"program_id"`
	TotalApplications int64            `json:"total_applications"`
	ByStatus          map[string]int64 `json:"by_status"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

// Stats computes per-program application counts, served from Redis when a
// fresh snapshot exists
func (s *ProgramService) Stats(ctx context.Context, id uint) (*ProgramStats, error) {
	cacheKey := fmt.Sprintf("program_stats:%d", id)

	if s.cache != nil {
		var cached ProgramStats
		if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	// Confirm the program exists before reporting stats for it
	var exists int64
	if err := s.db.WithContext(ctx).
		Model(&model.GrantProgram{}).
		Where("id = ?", id).
		Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("failed to check program: %w", err)
	}
	if exists == 0 {
		return nil, ErrProgramNotFound
	}

	stats := &ProgramStats{
		ProgramID:   id,
		ByStatus:    make(map[string]int64),
		GeneratedAt: time.Now().UTC(),
	}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := s.db.WithContext(ctx).
		Model(&model.GrantApplication{}).
		Select("status, COUNT(*) as count").
		Where("grant_program_id = ?", id).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate applications: %w", err)
	}

	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.TotalApplications += row.Count
	}

	if s.cache != nil {
		s.cache.SetJSON(ctx, cacheKey, stats, programStatsTTL)
	}

	return stats, nil
}

func (s *ProgramService) invalidateStats(ctx context.Context, id uint) {
	if s.cache != nil {
		s.cache.Delete(ctx, fmt.Sprintf("program_stats:%d", id))
	}
}
