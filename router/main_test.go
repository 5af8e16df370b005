package router

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type stubStore struct {
	db *gorm.DB
}

func (s *stubStore) Init() error        { return nil }
func (s *stubStore) Close() error       { return nil }
func (s *stubStore) HealthCheck() error { return nil }
func (s *stubStore) GetDB() interface{} { return s.db }

func TestRouteTable(t *testing.T) {
	t.Setenv("JWT_SECRET", "route-table-test-secret")
	t.Setenv("GO_ENV", "test")

	app := fiber.New()
	SetupRoutes(app, &stubStore{db: &gorm.DB{}})

	registered := make(map[string]bool)
	for _, routes := range app.Stack() {
		for _, route := range routes {
			registered[route.Method+" "+route.Path] = true
		}
	}

	expected := []string{
		"POST /api/v1/grant-programs/:id/eligibility-check",
		"PATCH /api/v1/grant-programs/:id/feature",
		"PATCH /api/v1/grant-programs/:id/status",
		"PATCH /api/v1/grant-applications/:id/status",
		"POST /api/v1/media/images",
		"POST /api/v1/media/pitch-decks",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}

	// The feature toggle moved off POST when it became a partial update
	assert.False(t, registered["POST /api/v1/grant-programs/:id/feature"])
	assert.False(t, registered["POST /api/v1/grant-programs/:id/check-eligibility"])
}
