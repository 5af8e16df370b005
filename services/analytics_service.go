package services

import (
	"context"
	"fmt"
	"time"

	"github.com/codeforchange/community-api/model"
	"gorm.io/gorm"
)

// AnalyticsService computes the admin dashboard aggregates
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// DashboardStats represents overall platform statistics for the admin
// dashboard
type DashboardStats struct {
	TotalUsers           int64            `json:"total_users"`
	NewUsersToday        int64            `json:"new_users_today"`
	TotalProjects        int64            `json:"total_projects"`
	TotalPrograms        int64            `json:"total_programs"`
	ProgramsByStatus     map[string]int64 `json:"programs_by_status"`
	TotalApplications    int64            `json:"total_applications"`
	ApplicationsByStatus map[string]int64 `json:"applications_by_status"`
	ApplicationsToday    int64            `json:"applications_today"`
	TotalEvents          int64            `json:"total_events"`
	UpcomingEvents       int64            `json:"upcoming_events"`
	TotalAnnouncements   int64            `json:"total_announcements"`
	CommittedGrantAmount float64          `json:"committed_grant_amount"`
}

// GetDashboardStats retrieves overall platform statistics
func (s *AnalyticsService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		ProgramsByStatus:     make(map[string]int64),
		ApplicationsByStatus: make(map[string]int64),
	}
	db := s.db.WithContext(ctx)

	if err := db.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	today := time.Now().Truncate(24 * time.Hour)
	if err := db.Model(&model.User{}).
		Where("created_at >= ?", today).
		Count(&stats.NewUsersToday).Error; err != nil {
		return nil, fmt.Errorf("failed to count new users: %w", err)
	}

	if err := db.Model(&model.Project{}).Count(&stats.TotalProjects).Error; err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	var programRows []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&model.GrantProgram{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&programRows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate programs: %w", err)
	}
	for _, row := range programRows {
		stats.ProgramsByStatus[row.Status] = row.Count
		stats.TotalPrograms += row.Count
	}

	var applicationRows []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&model.GrantApplication{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&applicationRows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate applications: %w", err)
	}
	for _, row := range applicationRows {
		stats.ApplicationsByStatus[row.Status] = row.Count
		stats.TotalApplications += row.Count
	}

	if err := db.Model(&model.GrantApplication{}).
		Where("submitted_date >= ?", today).
		Count(&stats.ApplicationsToday).Error; err != nil {
		return nil, fmt.Errorf("failed to count today's applications: %w", err)
	}

	if err := db.Model(&model.Event{}).Count(&stats.TotalEvents).Error; err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	if err := db.Model(&model.Event{}).
		Where("starts_at >= ? AND is_published = ?", time.Now(), true).
		Count(&stats.UpcomingEvents).Error; err != nil {
		return nil, fmt.Errorf("failed to count upcoming events: %w", err)
	}

	if err := db.Model(&model.Announcement{}).Count(&stats.TotalAnnouncements).Error; err != nil {
		return nil, fmt.Errorf("failed to count announcements: %w", err)
	}

	// Sum of grant amounts across approved applications. Applications whose
	// program was deleted contribute nothing here but remain counted above.
	var committedResult struct {
		Total float64
	}
	if err := db.Model(&model.GrantApplication{}).
		Select("COALESCE(SUM(grant_programs.grant_amount), 0) as total").
		Joins("JOIN grant_programs ON grant_programs.id = grant_applications.grant_program_id").
		Where("grant_applications.status = ?", model.ApplicationStatusApproved).
		Scan(&committedResult).Error; err != nil {
		return nil, fmt.Errorf("failed to calculate committed amount: %w", err)
	}
	stats.CommittedGrantAmount = committedResult.Total

	return stats, nil
}

// ApplicationTrendPoint is one day of submission counts
type ApplicationTrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// GetApplicationTrend returns daily submission counts for the last N days
func (s *AnalyticsService) GetApplicationTrend(ctx context.Context, days int) ([]ApplicationTrendPoint, error) {
	if days < 1 {
		days = 30
	}

	since := time.Now().AddDate(0, 0, -days).Truncate(24 * time.Hour)

	var points []ApplicationTrendPoint
	if err := s.db.WithContext(ctx).
		Model(&model.GrantApplication{}).
		Select("TO_CHAR(submitted_date, 'YYYY-MM-DD') as date, COUNT(*) as count").
		Where("submitted_date >= ?", since).
		Group("date").
		Order("date ASC").
		Scan(&points).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate application trend: %w", err)
	}

	return points, nil
}
