package announcement

import (
	"strconv"
	"time"

	"github.com/codeforchange/community-api/model"
	"github.com/codeforchange/community-api/utils/response"
	"github.com/codeforchange/community-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AnnouncementHandler handles platform announcement requests
type AnnouncementHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewAnnouncementHandler creates a new announcement handler
func NewAnnouncementHandler(db *gorm.DB) *AnnouncementHandler {
	return &AnnouncementHandler{db: db, validator: validation.NewValidator()}
}

// AnnouncementRequest represents the request body for creating or updating
// an announcement
type AnnouncementRequest struct {
	Title    string `json:"title" validate:"required,min=3,max=255"`
	Body     string `json:"body" validate:"required"`
	IsPinned bool   `json:"is_pinned"`
	Publish  bool   `json:"publish"`
}

// ListAnnouncements handles GET /api/v1/announcements. Public listings only
// include published entries, pinned first.
func (h *AnnouncementHandler) ListAnnouncements(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	includeAll := c.Query("all", "") == "true" && c.Locals("user_role") == "admin"

	query := h.db.Model(&model.Announcement{})
	if !includeAll {
		query = query.Where("published_at IS NOT NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count announcements")
	}

	pagination := response.CalculatePagination(page, limit, total)

	var announcements []model.Announcement
	if err := query.Order("is_pinned DESC, published_at DESC NULLS LAST, created_at DESC").
		Limit(pagination.PerPage).
		Offset((pagination.CurrentPage - 1) * pagination.PerPage).
		Find(&announcements).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch announcements")
	}

	return response.Paginated(c, announcements, pagination)
}

// GetAnnouncement handles GET /api/v1/announcements/:id
func (h *AnnouncementHandler) GetAnnouncement(c *fiber.Ctx) error {
	id := c.Params("id")

	var announcement model.Announcement
	if err := h.db.First(&announcement, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Announcement not found")
		}
		return response.InternalServerError(c, "Failed to fetch announcement")
	}

	if announcement.PublishedAt == nil && c.Locals("user_role") != "admin" {
		return response.NotFound(c, "Announcement not found")
	}

	return response.Success(c, announcement)
}

// CreateAnnouncement handles POST /api/v1/announcements (admin only)
func (h *AnnouncementHandler) CreateAnnouncement(c *fiber.Ctx) error {
	var req AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}
	if validation.SanitizeString(req.Title) == "" || validation.SanitizeString(req.Body) == "" {
		return response.BadRequest(c, "Title and body are required")
	}

	announcement := model.Announcement{
		Title:    validation.SanitizeString(req.Title),
		Body:     validation.StripHTML(req.Body),
		IsPinned: req.IsPinned,
	}
	if req.Publish {
		now := time.Now()
		announcement.PublishedAt = &now
	}

	if err := h.db.Create(&announcement).Error; err != nil {
		return response.InternalServerError(c, "Failed to create announcement")
	}

	return response.Created(c, announcement)
}

// UpdateAnnouncement handles PUT /api/v1/announcements/:id (admin only).
// Setting publish on an unpublished announcement stamps the publish time;
// clearing it unpublishes.
func (h *AnnouncementHandler) UpdateAnnouncement(c *fiber.Ctx) error {
	id := c.Params("id")

	var announcement model.Announcement
	if err := h.db.First(&announcement, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Announcement not found")
		}
		return response.InternalServerError(c, "Failed to fetch announcement")
	}

	var req AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}
	if validation.SanitizeString(req.Title) == "" || validation.SanitizeString(req.Body) == "" {
		return response.BadRequest(c, "Title and body are required")
	}

	announcement.Title = validation.SanitizeString(req.Title)
	announcement.Body = validation.StripHTML(req.Body)
	announcement.IsPinned = req.IsPinned

	if req.Publish && announcement.PublishedAt == nil {
		now := time.Now()
		announcement.PublishedAt = &now
	}
	if !req.Publish {
		announcement.PublishedAt = nil
	}

	if err := h.db.Save(&announcement).Error; err != nil {
		return response.InternalServerError(c, "Failed to update announcement")
	}

	return response.Success(c, announcement)
}

// DeleteAnnouncement handles DELETE /api/v1/announcements/:id (admin only)
func (h *AnnouncementHandler) DeleteAnnouncement(c *fiber.Ctx) error {
	id := c.Params("id")

	result := h.db.Delete(&model.Announcement{}, id)
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete announcement")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Announcement not found")
	}

	return response.SuccessWithMessage(c, "Announcement deleted", nil)
}
