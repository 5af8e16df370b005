package media

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/codeforchange/community-api/services/storage"
	"github.com/codeforchange/community-api/utils/middleware"
	"github.com/codeforchange/community-api/utils/pdfvalidation"
	"github.com/codeforchange/community-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// maxImageSizeMB bounds cover image uploads
const maxImageSizeMB = 10

var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// MediaHandler handles file uploads to object storage
type MediaHandler struct {
	spaces *storage.SpacesClient
}

// NewMediaHandler creates a new media handler. A nil storage client leaves
// uploads disabled.
func NewMediaHandler(spaces *storage.SpacesClient) *MediaHandler {
	return &MediaHandler{spaces: spaces}
}

// UploadImage handles POST /api/v1/media/images. Accepts cover images for
// programs, projects and events.
func (h *MediaHandler) UploadImage(c *fiber.Ctx) error {
	if h.spaces == nil {
		return response.Error(c, fiber.StatusServiceUnavailable,
			"File uploads are not configured", "UPLOADS_DISABLED")
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "A file is required")
	}

	if file.Size > maxImageSizeMB*1024*1024 {
		return response.BadRequest(c, fmt.Sprintf("Image must be at most %dMB", maxImageSizeMB))
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType, ok := imageExtensions[ext]
	if !ok {
		return response.BadRequest(c, "Image must be a JPEG, PNG or WebP file")
	}

	src, err := file.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	key := fmt.Sprintf("images/%d/%s/%s%s",
		userID, time.Now().UTC().Format("2006-01"), uuid.New().String(), ext)

	url, err := h.spaces.UploadFile(c.Context(), key, src, contentType)
	if err != nil {
		return response.InternalServerError(c, "Failed to store uploaded file")
	}

	return response.Created(c, fiber.Map{
		"key": key,
		"url": url,
	})
}

// UploadPitchDeck handles POST /api/v1/media/pitch-decks. The PDF is
// validated for size and page count before it is stored.
func (h *MediaHandler) UploadPitchDeck(c *fiber.Ctx) error {
	if h.spaces == nil {
		return response.Error(c, fiber.StatusServiceUnavailable,
			"File uploads are not configured", "UPLOADS_DISABLED")
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "A file is required")
	}

	result, err := pdfvalidation.ValidatePDFFile(file, pdfvalidation.PitchDeckLimits)
	if err != nil {
		return response.InternalServerError(c, "Failed to validate PDF")
	}
	if !result.Valid {
		return response.BadRequest(c, result.Error)
	}

	src, err := file.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}

	key := fmt.Sprintf("pitch-decks/%d/%s.pdf", userID, uuid.New().String())

	url, err := h.spaces.UploadBytes(c.Context(), key, content, "application/pdf")
	if err != nil {
		return response.InternalServerError(c, "Failed to store uploaded file")
	}

	return response.Created(c, fiber.Map{
		"key":        key,
		"url":        url,
		"page_count": result.PageCount,
	})
}

// DeleteFile handles DELETE /api/v1/media (admin only). Removes an object
// by its storage key.
func (h *MediaHandler) DeleteFile(c *fiber.Ctx) error {
	if h.spaces == nil {
		return response.Error(c, fiber.StatusServiceUnavailable,
			"File uploads are not configured", "UPLOADS_DISABLED")
	}

	var req struct {
		Key string `json:"key"`
	}
	if err := c.BodyParser(&req); err != nil || req.Key == "" {
		return response.BadRequest(c, "A storage key is required")
	}

	if err := h.spaces.DeleteFile(c.Context(), req.Key); err != nil {
		return response.InternalServerError(c, "Failed to delete file")
	}

	return response.SuccessWithMessage(c, "File deleted", nil)
}
