package auth

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

type validationBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Data map[string]map[string]string `json:"data"`
}

func postJSON(t *testing.T, app *fiber.App, path, payload string) (*http.Response, validationBody) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	var body validationBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func newTestAuthHandler() *AuthHandler {
	// No DB: requests below fail struct validation before any query runs
	return &AuthHandler{validator: validation.NewValidator()}
}

func TestRegisterRejectsMalformedEmail(t *testing.T) {
	app := fiber.New()
	app.Post("/register", newTestAuthHandler().Register)

	resp, body := postJSON(t, app, "/register",
		`{"email":"not-an-email","password":"longenough1","name":"Jo"}`)

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.False(t, body.Success)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Contains(t, body.Data["fields"], "email")
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	app := fiber.New()
	app.Post("/register", newTestAuthHandler().Register)

	resp, body := postJSON(t, app, "/register",
		`{"email":"member@example.org","password":"short","name":"Jo"}`)

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body.Data["fields"], "password")
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	app := fiber.New()
	app.Post("/register", newTestAuthHandler().Register)

	resp, body := postJSON(t, app, "/register", `{}`)

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	fields := body.Data["fields"]
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "name")
}

func TestLoginRejectsMalformedEmail(t *testing.T) {
	app := fiber.New()
	app.Post("/login", newTestAuthHandler().Login)

	resp, body := postJSON(t, app, "/login",
		`{"email":"nope","password":"whatever"}`)

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body.Data["fields"], "email")
}

func TestRefreshRejectsMissingToken(t *testing.T) {
	app := fiber.New()
	app.Post("/refresh", newTestAuthHandler().RefreshToken)

	resp, body := postJSON(t, app, "/refresh", `{}`)

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body.Data["fields"], "refreshtoken")
}
