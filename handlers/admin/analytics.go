package admin

import (
	"strconv"

	"github.com/codeforchange/community-api/services"
	"github.com/codeforchange/community-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminHandler handles back-office requests
type AdminHandler struct {
	db        *gorm.DB
	analytics *services.AnalyticsService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{
		db:        db,
		analytics: services.NewAnalyticsService(db),
	}
}

// GetDashboard handles GET /api/v1/admin/dashboard
func (h *AdminHandler) GetDashboard(c *fiber.Ctx) error {
	stats, err := h.analytics.GetDashboardStats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute dashboard statistics")
	}

	return response.Success(c, stats)
}

// GetApplicationTrend handles GET /api/v1/admin/dashboard/application-trend
func (h *AdminHandler) GetApplicationTrend(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "30"))

	points, err := h.analytics.GetApplicationTrend(c.Context(), days)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute application trend")
	}

	return response.Success(c, points)
}
