package admin

import (
	"strconv"
	"strings"

	"github.com/codeforchange/community-api/model"
	"github.com/codeforchange/community-api/utils/auth"
	"github.com/codeforchange/community-api/utils/middleware"
	"github.com/codeforchange/community-api/utils/response"
	"github.com/codeforchange/community-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListUsersRequest represents the query parameters for listing users
type ListUsersRequest struct {
	Page    int    `query:"page"`
	Limit   int    `query:"limit"`
	Role    string `query:"role"`
	Search  string `query:"search"`
	Sort    string `query:"sort"`
	SortDir string `query:"sort_dir"`
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Region string `json:"region"`
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var req ListUsersRequest
	if err := c.QueryParser(&req); err != nil {
		return response.BadRequest(c, "Invalid query parameters")
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Sort == "" {
		req.Sort = "created_at"
	}
	if req.SortDir != "asc" && req.SortDir != "desc" {
		req.SortDir = "desc"
	}

	// Only allow sorting on known columns
	switch req.Sort {
	case "created_at", "name", "email", "role":
	default:
		req.Sort = "created_at"
	}

	query := h.db.Model(&model.User{})

	if req.Role != "" {
		query = query.Where("role = ?", req.Role)
	}
	if req.Search != "" {
		searchTerm := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count users")
	}

	var users []model.User
	offset := (req.Page - 1) * req.Limit
	if err := query.Order(req.Sort + " " + req.SortDir).
		Limit(req.Limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch users")
	}

	return response.Paginated(c, users, response.CalculatePagination(req.Page, req.Limit, total))
}

// GetUser handles GET /api/v1/admin/users/:id
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var user model.User
	if err := h.db.Preload("Projects").First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	return response.Success(c, user)
}

// UpdateUser handles PUT /api/v1/admin/users/:id. Role changes invalidate
// the user's existing tokens so the new role takes effect immediately.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Role != "" && req.Role != "member" && req.Role != "admin" {
		return response.BadRequest(c, "Role must be member or admin")
	}

	var user model.User
	if err := h.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	roleChanged := req.Role != "" && req.Role != user.Role

	if req.Name != "" {
		user.Name = validation.SanitizeString(req.Name)
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Region != "" {
		user.Region = validation.SanitizeString(req.Region)
	}

	if err := h.db.Save(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to update user")
	}

	if roleChanged {
		blacklist := auth.NewBlacklistService(h.db)
		if err := blacklist.RevokeAllUserTokens(c.Context(), user.ID); err != nil {
			return response.InternalServerError(c, "Failed to invalidate user tokens")
		}
	}

	return response.Success(c, user)
}

// DeleteUser handles DELETE /api/v1/admin/users/:id. Admins cannot delete
// their own account.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	if uint(id) == adminID {
		return response.BadRequest(c, "You cannot delete your own account")
	}

	result := h.db.Delete(&model.User{}, id)
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete user")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "User not found")
	}

	return response.SuccessWithMessage(c, "User deleted", nil)
}
