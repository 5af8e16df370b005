package grantapplication

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

func TestUpdateStatusRejectsMissingStatus(t *testing.T) {
	h := &ApplicationHandler{validator: validation.NewValidator()}
	app := fiber.New()
	app.Patch("/applications/:id/status", h.UpdateStatus)

	req := httptest.NewRequest(http.MethodPatch, "/applications/1/status",
		strings.NewReader(`{"review_notes":"looks fine"}`))
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
	assert.Contains(t, body.Data["fields"], "status")
}
