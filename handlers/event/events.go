package event

import (
	"strconv"
	"time"

	"github.com/codeforchange/community-api/model"
	"github.com/codeforchange/community-api/utils/response"
	"github.com/codeforchange/community-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EventHandler handles community event requests
type EventHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewEventHandler creates a new event handler
func NewEventHandler(db *gorm.DB) *EventHandler {
	return &EventHandler{db: db, validator: validation.NewValidator()}
}

// EventRequest represents the request body for creating or updating an event
type EventRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description"`
	Location    string `json:"location"`
	CoverImage  string `json:"cover_image"`
	ExternalURL string `json:"external_url" validate:"omitempty,url"`
	StartsAt    string `json:"starts_at" validate:"required"`
	EndsAt      string `json:"ends_at"`
	IsPublished bool   `json:"is_published"`
}

func (r EventRequest) apply(event *model.Event) (string, bool) {
	if validation.SanitizeString(r.Title) == "" {
		return "Title is required", false
	}

	startsAt, err := time.Parse(time.RFC3339, r.StartsAt)
	if err != nil {
		return "Start time must be an RFC 3339 timestamp", false
	}

	var endsAt time.Time
	if r.EndsAt != "" {
		endsAt, err = time.Parse(time.RFC3339, r.EndsAt)
		if err != nil {
			return "End time must be an RFC 3339 timestamp", false
		}
		if endsAt.Before(startsAt) {
			return "End time must not be before the start time", false
		}
	}

	event.Title = validation.SanitizeString(r.Title)
	event.Description = validation.StripHTML(r.Description)
	event.Location = validation.SanitizeString(r.Location)
	event.CoverImage = validation.SanitizeString(r.CoverImage)
	event.ExternalURL = validation.SanitizeString(r.ExternalURL)
	event.StartsAt = startsAt
	event.EndsAt = endsAt
	event.IsPublished = r.IsPublished
	return "", true
}

// ListEvents handles GET /api/v1/events. Public listings only include
// published events; admins pass ?all=true to see drafts too.
func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	upcoming := c.Query("upcoming", "")
	includeAll := c.Query("all", "") == "true" && c.Locals("user_role") == "admin"

	query := h.db.Model(&model.Event{})
	if !includeAll {
		query = query.Where("is_published = ?", true)
	}
	if upcoming == "true" {
		query = query.Where("starts_at >= ?", time.Now())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count events")
	}

	pagination := response.CalculatePagination(page, limit, total)

	var events []model.Event
	if err := query.Order("starts_at ASC").
		Limit(pagination.PerPage).
		Offset((pagination.CurrentPage - 1) * pagination.PerPage).
		Find(&events).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch events")
	}

	return response.Paginated(c, events, pagination)
}

// GetEvent handles GET /api/v1/events/:id
func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	id := c.Params("id")

	var event model.Event
	if err := h.db.First(&event, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to fetch event")
	}

	if !event.IsPublished && c.Locals("user_role") != "admin" {
		return response.NotFound(c, "Event not found")
	}

	return response.Success(c, event)
}

// CreateEvent handles POST /api/v1/events (admin only)
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	var event model.Event
	if msg, ok := req.apply(&event); !ok {
		return response.BadRequest(c, msg)
	}

	if err := h.db.Create(&event).Error; err != nil {
		return response.InternalServerError(c, "Failed to create event")
	}

	return response.Created(c, event)
}

// UpdateEvent handles PUT /api/v1/events/:id (admin only)
func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	id := c.Params("id")

	var event model.Event
	if err := h.db.First(&event, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to fetch event")
	}

	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	if msg, ok := req.apply(&event); !ok {
		return response.BadRequest(c, msg)
	}

	if err := h.db.Save(&event).Error; err != nil {
		return response.InternalServerError(c, "Failed to update event")
	}

	return response.Success(c, event)
}

// DeleteEvent handles DELETE /api/v1/events/:id (admin only)
func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	id := c.Params("id")

	result := h.db.Delete(&model.Event{}, id)
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete event")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Event not found")
	}

	return response.SuccessWithMessage(c, "Event deleted", nil)
}
