package project

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

func newTestApp() *fiber.App {
	h := &ProjectHandler{validator: validation.NewValidator()}
	app := fiber.New()
	app.Post("/projects", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		return c.Next()
	}, h.CreateProject)
	return app
}

func createProject(t *testing.T, app *fiber.App, payload string) (*http.Response, map[string]string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	var body struct {
		Data map[string]map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body.Data["fields"]
}

func TestCreateProjectRejectsShortTitle(t *testing.T) {
	resp, fields := createProject(t, newTestApp(), `{"title":"ab"}`)

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, fields, "title")
}

func TestCreateProjectRejectsInvalidURLs(t *testing.T) {
	resp, fields := createProject(t, newTestApp(),
		`{"title":"Solar tracker","repo_url":"not a url","demo_url":"ftp://example.org"}`)

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, fields, "repourl")
	assert.Contains(t, fields, "demourl")
}
