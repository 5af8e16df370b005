package project

import (
	"encoding/json"
	"strconv"

	"github.com/codeforchange/community-api/model"
	"github.com/codeforchange/community-api/utils/middleware"
	"github.com/codeforchange/community-api/utils/response"
	"github.com/codeforchange/community-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ProjectHandler handles project-related requests
type ProjectHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{db: db, validator: validation.NewValidator()}
}

// ProjectRequest represents the request body for creating or updating a
// project
type ProjectRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=255"`
	Description string   `json:"description"`
	RepoURL     string   `json:"repo_url" validate:"omitempty,url"`
	DemoURL     string   `json:"demo_url" validate:"omitempty,url"`
	CoverImage  string   `json:"cover_image"`
	Tags        []string `json:"tags"`
}

func (r ProjectRequest) apply(project *model.Project) error {
	tags, err := json.Marshal(validation.NormalizeStringSet(r.Tags))
	if err != nil {
		return err
	}

	project.Title = validation.SanitizeString(r.Title)
	project.Description = validation.StripHTML(r.Description)
	project.RepoURL = validation.SanitizeString(r.RepoURL)
	project.DemoURL = validation.SanitizeString(r.DemoURL)
	project.CoverImage = validation.SanitizeString(r.CoverImage)
	project.Tags = tags
	return nil
}

// ListProjects handles GET /api/v1/projects. Public, with optional
// ?user_id= and search filters.
func (h *ProjectHandler) ListProjects(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := c.Query("search", "")
	userIDStr := c.Query("user_id", "")

	query := h.db.Model(&model.Project{})

	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if userIDStr != "" {
		if userID, err := strconv.ParseUint(userIDStr, 10, 32); err == nil {
			query = query.Where("user_id = ?", userID)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count projects")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var projects []model.Project
	if err := query.Preload("User").
		Order("created_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&projects).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch projects")
	}

	return response.Paginated(c, projects, pagination)
}

// GetProject handles GET /api/v1/projects/:id
func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	id := c.Params("id")

	var project model.Project
	if err := h.db.Preload("User").First(&project, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Project not found")
		}
		return response.InternalServerError(c, "Failed to fetch project")
	}

	return response.Success(c, project)
}

// CreateProject handles POST /api/v1/projects
func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}
	// Whitespace-only titles pass the min tag but are still empty
	if validation.SanitizeString(req.Title) == "" {
		return response.BadRequest(c, "Title is required")
	}

	project := model.Project{UserID: userID}
	if err := req.apply(&project); err != nil {
		return response.InternalServerError(c, "Failed to encode project tags")
	}

	if err := h.db.Create(&project).Error; err != nil {
		return response.InternalServerError(c, "Failed to create project")
	}

	return response.Created(c, project)
}

// UpdateProject handles PUT /api/v1/projects/:id. Owners only.
func (h *ProjectHandler) UpdateProject(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id := c.Params("id")

	var project model.Project
	if err := h.db.First(&project, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Project not found")
		}
		return response.InternalServerError(c, "Failed to fetch project")
	}

	if project.UserID != userID {
		return response.Forbidden(c, "You can only update your own projects")
	}

	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFieldErrors(c, validation.FormatValidationErrors(err))
	}
	// Whitespace-only titles pass the min tag but are still empty
	if validation.SanitizeString(req.Title) == "" {
		return response.BadRequest(c, "Title is required")
	}

	if err := req.apply(&project); err != nil {
		return response.InternalServerError(c, "Failed to encode project tags")
	}

	if err := h.db.Save(&project).Error; err != nil {
		return response.InternalServerError(c, "Failed to update project")
	}

	return response.Success(c, project)
}

// DeleteProject handles DELETE /api/v1/projects/:id. Owners only; admins
// remove projects through the back-office user tools instead.
func (h *ProjectHandler) DeleteProject(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id := c.Params("id")

	var project model.Project
	if err := h.db.First(&project, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Project not found")
		}
		return response.InternalServerError(c, "Failed to fetch project")
	}

	if project.UserID != userID {
		return response.Forbidden(c, "You can only delete your own projects")
	}

	if err := h.db.Delete(&project).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete project")
	}

	return response.SuccessWithMessage(c, "Project deleted", nil)
}
