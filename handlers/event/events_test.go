package event

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

func TestCreateEventRejectsMissingFields(t *testing.T) {
	h := &EventHandler{validator: validation.NewValidator()}
	app := fiber.New()
	app.Post("/events", h.CreateEvent)

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Data map[string]map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Data["fields"], "title")
	assert.Contains(t, body.Data["fields"], "startsat")
}

func TestCreateEventRejectsInvalidExternalURL(t *testing.T) {
	h := &EventHandler{validator: validation.NewValidator()}
	app := fiber.New()
	app.Post("/events", h.CreateEvent)

	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(
		`{"title":"Demo day","starts_at":"2026-09-01T18:00:00Z","external_url":"not a url"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Data map[string]map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Data["fields"], "externalurl")
}
