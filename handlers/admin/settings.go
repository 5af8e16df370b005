package admin

import (
	"github.com/codeforchange/community-api/model"
	"github.com/codeforchange/community-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListSettings handles GET /api/v1/admin/settings
func (h *AdminHandler) ListSettings(c *fiber.Ctx) error {
	query := h.db.Model(&model.AppSetting{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var settings []model.AppSetting
	if err := query.Order("category, key").Find(&settings).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch settings")
	}

	return response.Success(c, settings)
}

// GetSetting handles GET /api/v1/admin/settings/:key
func (h *AdminHandler) GetSetting(c *fiber.Ctx) error {
	key := c.Params("key")

	var setting model.AppSetting
	if err := h.db.Where("key = ?", key).First(&setting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Setting not found")
		}
		return response.InternalServerError(c, "Failed to fetch setting")
	}

	return response.Success(c, setting)
}

// UpsertSettingRequest represents the request body for writing a setting
type UpsertSettingRequest struct {
	Value       string `json:"value"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

// UpsertSetting handles PUT /api/v1/admin/settings/:key. Creates the
// setting when it does not exist yet.
func (h *AdminHandler) UpsertSetting(c *fiber.Ctx) error {
	key := c.Params("key")

	var req UpsertSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Type == "" {
		req.Type = "string"
	}
	switch req.Type {
	case "string", "int", "bool", "json":
	default:
		return response.BadRequest(c, "Type must be string, int, bool or json")
	}

	setting := model.AppSetting{Key: key}
	if err := h.db.
		Where(model.AppSetting{Key: key}).
		Assign(model.AppSetting{
			Value:       req.Value,
			Type:        req.Type,
			Category:    req.Category,
			Description: req.Description,
			IsPublic:    req.IsPublic,
		}).
		FirstOrCreate(&setting).Error; err != nil {
		return response.InternalServerError(c, "Failed to store setting")
	}

	return response.Success(c, setting)
}

// DeleteSetting handles DELETE /api/v1/admin/settings/:key
func (h *AdminHandler) DeleteSetting(c *fiber.Ctx) error {
	key := c.Params("key")

	result := h.db.Where("key = ?", key).Delete(&model.AppSetting{})
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete setting")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Setting not found")
	}

	return response.SuccessWithMessage(c, "Setting deleted", nil)
}
