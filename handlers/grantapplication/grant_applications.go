package grantapplication

import (
	"errors"
	"strconv"

	"github.com/codeforchange/community-api/model"
	"github.com/codeforchange/community-api/services"
	"github.com/codeforchange/community-api/utils/middleware"
	"github.com/codeforchange/community-api/utils/response"
	"github.com/codeforchange/community-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ApplicationHandler handles grant application requests
type ApplicationHandler struct {
	db        *gorm.DB
	service   *services.ApplicationService
	validator *validation.Validator
}

// NewApplicationHandler creates a new grant application handler
func NewApplicationHandler(db *gorm.DB) *ApplicationHandler {
	return &ApplicationHandler{
		db:        db,
		service:   services.NewApplicationService(db),
		validator: validation.NewValidator(),
	}
}

// SubmitApplication handles POST /api/v1/grant-applications.
// Eligibility failures return the unmet criteria so the client can show
// exactly which requirements were missed.
func (h *ApplicationHandler) SubmitApplication(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var input services.ApplicationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	application, err := h.service.Submit(c.Context(), userID, input)
	if err != nil {
		var fieldErrs services.FieldErrors
		var ineligible *services.IneligibleError
		switch {
		case errors.As(err, &fieldErrs):
			return response.ValidationError(c, fieldErrs)
		case errors.As(err, &ineligible):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(response.Response{
				Success: false,
				Error: &response.ErrorDetail{
					Code:    "NOT_ELIGIBLE",
					Message: "Applicant does not meet the program's eligibility criteria",
				},
				Data: fiber.Map{"unmet_criteria": ineligible.UnmetCriteria},
			})
		case errors.Is(err, services.ErrProgramNotFound):
			return response.NotFound(c, "Grant program not found")
		case errors.Is(err, services.ErrProgramNotOpen):
			return response.BadRequest(c, "Grant program is not accepting applications")
		case errors.Is(err, services.ErrProjectNotFound):
			return response.NotFound(c, "Project not found")
		case errors.Is(err, services.ErrNotProjectOwner):
			return response.Forbidden(c, "You can only apply with your own projects")
		case errors.Is(err, services.ErrDuplicateSubmission):
			return response.Conflict(c, "An application to this program is already under consideration")
		}
		return response.InternalServerError(c, "Failed to submit application")
	}

	return response.Created(c, application)
}

// ListApplications handles GET /api/v1/grant-applications (admin only).
// Supports ?status=, ?program_id= and pagination.
func (h *ApplicationHandler) ListApplications(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	programID, _ := strconv.ParseUint(c.Query("program_id", "0"), 10, 32)

	applications, total, err := h.service.List(c.Context(), services.ApplicationListOptions{
		Status:         c.Query("status"),
		GrantProgramID: uint(programID),
		Page:           page,
		Limit:          limit,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch applications")
	}

	return response.Paginated(c, applications, response.CalculatePagination(page, limit, total))
}

// ListMyApplications handles GET /api/v1/grant-applications/mine
func (h *ApplicationHandler) ListMyApplications(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	applications, total, err := h.service.List(c.Context(), services.ApplicationListOptions{
		Status:      c.Query("status"),
		ApplicantID: userID,
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch applications")
	}

	return response.Paginated(c, applications, response.CalculatePagination(page, limit, total))
}

// GetApplication handles GET /api/v1/grant-applications/:id.
// Visible to the applicant who owns it and to admins.
func (h *ApplicationHandler) GetApplication(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	application, err := h.service.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			return response.NotFound(c, "Grant application not found")
		}
		return response.InternalServerError(c, "Failed to fetch application")
	}

	if application.ApplicantID != user.ID && !user.IsAdmin() {
		return response.Forbidden(c, "You can only view your own applications")
	}

	return response.Success(c, application)
}

// UpdateStatusRequest represents an application moderation request
type UpdateStatusRequest struct {
	Status      string `json:"status" validate:"required"`
	ReviewNotes string `json:"review_notes,omitempty"`
}

// UpdateStatus handles PATCH /api/v1/grant-applications/:id/status (admin
// only). Any of the four states can be assigned from any other.
func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}

	application, err := h.service.UpdateStatus(c.Context(), uint(id), model.ApplicationStatus(req.Status), req.ReviewNotes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			return response.BadRequest(c, "Status must be submitted, in-review, approved or rejected")
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Grant application not found")
		}
		return response.InternalServerError(c, "Failed to update application status")
	}

	return response.Success(c, application)
}

// DeleteApplication handles DELETE /api/v1/grant-applications/:id (admin only)
func (h *ApplicationHandler) DeleteApplication(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	if err := h.service.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			return response.NotFound(c, "Grant application not found")
		}
		return response.InternalServerError(c, "Failed to delete application")
	}

	return response.SuccessWithMessage(c, "Grant application deleted", nil)
}
