package announcement

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codeforchange/community-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAnnouncementRejectsMissingBody(t *testing.T) {
	h := &AnnouncementHandler{validator: validation.NewValidator()}
	app := fiber.New()
	app.Post("/announcements", h.CreateAnnouncement)

	req := httptest.NewRequest(http.MethodPost, "/announcements",
		strings.NewReader(`{"title":"Maintenance window"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
		Data map[string]map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Contains(t, body.Data["fields"], "body")
}
