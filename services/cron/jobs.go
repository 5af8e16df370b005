package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/codeforchange/community-api/model"
	"github.com/codeforchange/community-api/services"
	"github.com/codeforchange/community-api/utils/auth"
)

// CleanupExpiredTokens removes expired entries from the JWT blacklist.
// Runs hourly; expired entries can never match a live token again.
func (m *CronManager) CleanupExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	jobName := "cleanup_expired_tokens"

	blacklist := auth.NewBlacklistService(m.db)
	if err := blacklist.CleanupExpiredTokens(ctx); err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to cleanup blacklist: %w", err))
		return
	}

	m.logJobComplete(jobName, "Expired blacklist entries removed")
}

// SnapshotStatistics stores the daily dashboard aggregates in app settings
// so historic trends survive even as live data changes
func (m *CronManager) SnapshotStatistics() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	jobName := "snapshot_statistics"

	analytics := services.NewAnalyticsService(m.db)
	stats, err := analytics.GetDashboardStats(ctx)
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to compute stats: %w", err))
		return
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to encode stats: %w", err))
		return
	}

	key := "stats_snapshot:" + time.Now().UTC().Format("2006-01-02")
	setting := model.AppSetting{
		Key:         key,
		Value:       string(payload),
		Type:        "json",
		Category:    "analytics",
		Description: "Daily dashboard statistics snapshot",
	}

	if err := m.db.WithContext(ctx).
		Where(model.AppSetting{Key: key}).
		Assign(model.AppSetting{Value: setting.Value, Type: "json", Category: "analytics"}).
		FirstOrCreate(&setting).Error; err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to store snapshot: %w", err))
		return
	}

	m.logJobComplete(jobName, "Stored snapshot "+key)
}

// AutoClosePrograms moves active programs whose deadline has passed to
// closed. Only registered when the feature flag enables it.
func (m *CronManager) AutoClosePrograms() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	jobName := "auto_close_programs"

	result := m.db.WithContext(ctx).
		Model(&model.GrantProgram{}).
		Where("status = ? AND deadline < ?", model.ProgramStatusActive, time.Now()).
		UpdateColumn("status", model.ProgramStatusClosed)
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to close programs: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Closed %d programs past deadline", result.RowsAffected))
}
