package grantprogram

import (
	"errors"
	"strconv"

	"github.com/codeforchange/community-api/model"
	"github.com/codeforchange/community-api/services"
	"github.com/codeforchange/community-api/utils/cache"
	"github.com/codeforchange/community-api/utils/response"
	"github.com/codeforchange/community-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ProgramHandler handles grant program requests
type ProgramHandler struct {
	db        *gorm.DB
	service   *services.ProgramService
	validator *validation.Validator
}

// NewProgramHandler creates a new grant program handler
func NewProgramHandler(db *gorm.DB, redisCache *cache.RedisCache) *ProgramHandler {
	return &ProgramHandler{
		db:        db,
		service:   services.NewProgramService(db, redisCache),
		validator: validation.NewValidator(),
	}
}

// ListPrograms handles GET /api/v1/grant-programs
func (h *ProgramHandler) ListPrograms(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	opts := services.ProgramListOptions{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
		Page:   page,
		Limit:  limit,
	}

	if featured := c.Query("featured"); featured != "" {
		value := featured == "true"
		opts.Featured = &value
	}

	programs, total, err := h.service.List(c.Context(), opts)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch grant programs")
	}

	return response.Paginated(c, programs, response.CalculatePagination(page, limit, total))
}

// GetProgram handles GET /api/v1/grant-programs/:id
func (h *ProgramHandler) GetProgram(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid program ID")
	}

	program, err := h.service.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrProgramNotFound) {
			return response.NotFound(c, "Grant program not found")
		}
		return response.InternalServerError(c, "Failed to fetch grant program")
	}

	return response.Success(c, program)
}

// CreateProgram handles POST /api/v1/grant-programs (admin only)
func (h *ProgramHandler) CreateProgram(c *fiber.Ctx) error {
	var input services.ProgramInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	program, err := h.service.Create(c.Context(), input)
	if err != nil {
		var fieldErrs services.FieldErrors
		if errors.As(err, &fieldErrs) {
			return response.ValidationError(c, fieldErrs)
		}
		return response.InternalServerError(c, "Failed to create grant program")
	}

	return response.Created(c, program)
}

// UpdateProgram handles PUT /api/v1/grant-programs/:id (admin only).
// Takes the full form and validates it exactly like create.
func (h *ProgramHandler) UpdateProgram(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid program ID")
	}

	var input services.ProgramInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	program, err := h.service.Update(c.Context(), uint(id), input)
	if err != nil {
		var fieldErrs services.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			return response.ValidationError(c, fieldErrs)
		case errors.Is(err, services.ErrProgramNotFound):
			return response.NotFound(c, "Grant program not found")
		}
		return response.InternalServerError(c, "Failed to update grant program")
	}

	return response.Success(c, program)
}

// DeleteProgram handles DELETE /api/v1/grant-programs/:id (admin only).
// Applications referencing the program are left in place.
func (h *ProgramHandler) DeleteProgram(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid program ID")
	}

	if err := h.service.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrProgramNotFound) {
			return response.NotFound(c, "Grant program not found")
		}
		return response.InternalServerError(c, "Failed to delete grant program")
	}

	return response.SuccessWithMessage(c, "Grant program deleted", nil)
}

// ToggleFeatured handles PATCH /api/v1/grant-programs/:id/feature (admin only)
func (h *ProgramHandler) ToggleFeatured(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid program ID")
	}

	program, err := h.service.ToggleFeatured(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrProgramNotFound) {
			return response.NotFound(c, "Grant program not found")
		}
		return response.InternalServerError(c, "Failed to toggle featured flag")
	}

	return response.Success(c, program)
}

// SetStatusRequest represents a program status change request
type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SetStatus handles PATCH /api/v1/grant-programs/:id/status (admin only)
func (h *ProgramHandler) SetStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid program ID")
	}

	var req SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	program, err := h.service.SetStatus(c.Context(), uint(id), model.ProgramStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			return response.BadRequest(c, "Status must be draft, active, closed or completed")
		case errors.Is(err, services.ErrProgramNotFound):
			return response.NotFound(c, "Grant program not found")
		}
		return response.InternalServerError(c, "Failed to set program status")
	}

	return response.Success(c, program)
}

// GetStats handles GET /api/v1/grant-programs/:id/stats (admin only)
func (h *ProgramHandler) GetStats(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid program ID")
	}

	stats, err := h.service.Stats(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrProgramNotFound) {
			return response.NotFound(c, "Grant program not found")
		}
		return response.InternalServerError(c, "Failed to compute program stats")
	}

	return response.Success(c, stats)
}
