package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/codeforchange/community-api/database"
	"github.com/codeforchange/community-api/model"
	"gorm.io/gorm"
)

// setupIntegrationDB connects to the configured Postgres instance. Requires
// RUN_INTEGRATION_TESTS=true and the usual DB_* environment variables.
func setupIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run")
	}

	store, err := database.StartGORM()
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		t.Fatal("Failed to get GORM DB instance")
	}

	t.Cleanup(func() { store.Close() })
	return db
}

func createTestMember(t *testing.T, db *gorm.DB) model.User {
	t.Helper()

	user := model.User{
		Email:        fmt.Sprintf("member-%d@test.local", time.Now().UnixNano()),
		PasswordHash: "irrelevant",
		Name:         "Test Member",
		Role:         "member",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(&user) })
	return user
}

func createTestProject(t *testing.T, db *gorm.DB, ownerID uint) model.Project {
	t.Helper()

	project := model.Project{
		UserID: ownerID,
		Title:  "Flood Sensor Network",
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(&project) })
	return project
}

func activeProgramInput() ProgramInput {
	now := time.Now().UTC()
	return ProgramInput{
		Title:               "Integration Test Grant",
		Description:         "Program created by the integration suite.",
		ExternalLink:        "https://example.org/integration-grant",
		GrantAmount:         1000,
		TotalProjectsFunded: 1,
		ApplicationsOpen:    now.AddDate(0, 0, -1).Format(time.RFC3339),
		Deadline:            now.AddDate(0, 1, 0).Format(time.RFC3339),
		WinnersAnnounced:    now.AddDate(0, 2, 0).Format(time.RFC3339),
		Status:              string(model.ProgramStatusActive),
	}
}

func TestProgramLifecycle_Integration(t *testing.T) {
	db := setupIntegrationDB(t)
	ctx := context.Background()
	svc := NewProgramService(db, nil)

	program, err := svc.Create(ctx, activeProgramInput())
	if err != nil {
		t.Fatalf("Failed to create program: %v", err)
	}
	defer db.Unscoped().Delete(&model.GrantProgram{}, program.ID)

	if program.Status != model.ProgramStatusActive {
		t.Errorf("Expected active status, got %s", program.Status)
	}
	if program.IsFeatured {
		t.Error("New programs must not start featured")
	}

	// Two toggles restore the original value
	toggled, err := svc.ToggleFeatured(ctx, program.ID)
	if err != nil {
		t.Fatalf("Failed to toggle featured: %v", err)
	}
	if !toggled.IsFeatured {
		t.Error("First toggle should set the featured flag")
	}

	restored, err := svc.ToggleFeatured(ctx, program.ID)
	if err != nil {
		t.Fatalf("Failed to toggle featured back: %v", err)
	}
	if restored.IsFeatured {
		t.Error("Second toggle should clear the featured flag")
	}

	// Update with an empty status keeps the current state
	input := activeProgramInput()
	input.Status = ""
	input.Title = "Integration Test Grant (renamed)"
	updated, err := svc.Update(ctx, program.ID, input)
	if err != nil {
		t.Fatalf("Failed to update program: %v", err)
	}
	if updated.Status != model.ProgramStatusActive {
		t.Errorf("Update without status should keep active, got %s", updated.Status)
	}
	if updated.Title != "Integration Test Grant (renamed)" {
		t.Errorf("Title was not updated, got %q", updated.Title)
	}
}

func TestApplicationWorkflow_Integration(t *testing.T) {
	db := setupIntegrationDB(t)
	ctx := context.Background()

	programs := NewProgramService(db, nil)
	applications := NewApplicationService(db)

	member := createTestMember(t, db)
	project := createTestProject(t, db, member.ID)

	program, err := programs.Create(ctx, activeProgramInput())
	if err != nil {
		t.Fatalf("Failed to create program: %v", err)
	}
	defer db.Unscoped().Delete(&model.GrantProgram{}, program.ID)

	input := ApplicationInput{
		ProjectID:      project.ID,
		GrantProgramID: program.ID,
		Proposal:       "Integration test proposal.",
	}

	application, err := applications.Submit(ctx, member.ID, input)
	if err != nil {
		t.Fatalf("Failed to submit application: %v", err)
	}
	defer db.Unscoped().Delete(&model.GrantApplication{}, application.ID)

	if application.Status != model.ApplicationStatusSubmitted {
		t.Errorf("New applications must start submitted, got %s", application.Status)
	}

	// A second live submission to the same program is blocked
	if _, err := applications.Submit(ctx, member.ID, input); !errors.Is(err, ErrDuplicateSubmission) {
		t.Errorf("Expected ErrDuplicateSubmission, got %v", err)
	}

	// Rejection frees the slot for a re-application
	if _, err := applications.UpdateStatus(ctx, application.ID, model.ApplicationStatusRejected, "not this round"); err != nil {
		t.Fatalf("Failed to reject application: %v", err)
	}

	second, err := applications.Submit(ctx, member.ID, input)
	if err != nil {
		t.Fatalf("Re-application after rejection should succeed: %v", err)
	}
	defer db.Unscoped().Delete(&model.GrantApplication{}, second.ID)

	// Any state is reachable from any other, including leaving approved
	for _, status := range []model.ApplicationStatus{
		model.ApplicationStatusApproved,
		model.ApplicationStatusInReview,
		model.ApplicationStatusSubmitted,
	} {
		if _, err := applications.UpdateStatus(ctx, second.ID, status, ""); err != nil {
			t.Fatalf("Failed to move application to %s: %v", status, err)
		}
	}

	// Deleting the program leaves the applications queryable
	if err := programs.Delete(ctx, program.ID); err != nil {
		t.Fatalf("Failed to delete program: %v", err)
	}

	remaining, err := applications.Get(ctx, second.ID)
	if err != nil {
		t.Fatalf("Application should survive program deletion: %v", err)
	}
	if remaining.GrantProgramID != program.ID {
		t.Errorf("Dangling program reference should be preserved, got %d", remaining.GrantProgramID)
	}
}
