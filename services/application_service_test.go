package services

import (
	"testing"

	"github.com/codeforchange/community-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validApplicationInput() ApplicationInput {
	return ApplicationInput{
		ProjectID:      1,
		GrantProgramID: 2,
		Proposal:       "We will build an open data pipeline for flood sensors.",
	}
}

func TestValidateApplicationInput_MinimalFormPasses(t *testing.T) {
	assert.Nil(t, ValidateApplicationInput(validApplicationInput(), model.GrantProgram{}))
}

func TestValidateApplicationInput_BaseFailures(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ApplicationInput)
		wantField string
	}{
		{
			name:      "missing project",
			mutate:    func(in *ApplicationInput) { in.ProjectID = 0 },
			wantField: "project_id",
		},
		{
			name:      "missing program",
			mutate:    func(in *ApplicationInput) { in.GrantProgramID = 0 },
			wantField: "grant_program_id",
		},
		{
			name:      "blank proposal",
			mutate:    func(in *ApplicationInput) { in.Proposal = "   " },
			wantField: "proposal",
		},
		{
			name:      "percentage out of range",
			mutate:    func(in *ApplicationInput) { in.WomenLeadershipPercentage = 120 },
			wantField: "women_leadership_percentage",
		},
		{
			name:      "malformed pitch video url",
			mutate:    func(in *ApplicationInput) { in.PitchVideoURL = "not-a-url" },
			wantField: "pitch_video_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validApplicationInput()
			tt.mutate(&input)

			errs := ValidateApplicationInput(input, model.GrantProgram{})

			require.NotNil(t, errs)
			assert.Contains(t, errs, tt.wantField)
		})
	}
}

func TestValidateApplicationInput_ProgramRequiredSections(t *testing.T) {
	program := model.GrantProgram{
		RequiresTeamDetails:     true,
		RequiresProjectOverview: true,
		RequiresRoadmap:         true,
		RequiresVisionImpact:    true,
		RequiresWhyGrant:        true,
		RequiresScreenshots:     true,
	}

	errs := ValidateApplicationInput(validApplicationInput(), program)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "team_details")
	assert.Contains(t, errs, "project_overview")
	assert.Contains(t, errs, "roadmap")
	assert.Contains(t, errs, "vision_impact")
	assert.Contains(t, errs, "why_grant")
	assert.Contains(t, errs, "additional_materials")

	input := validApplicationInput()
	input.TeamDetails = "Three engineers, one designer"
	input.ProjectOverview = "An open flood sensor network"
	input.Roadmap = "Q1 hardware, Q2 rollout"
	input.VisionImpact = "Early flood warnings for river towns"
	input.WhyGrant = "Sensor hardware costs"
	input.DemoVideoURL = "https://example.org/demo.mp4"

	assert.Nil(t, ValidateApplicationInput(input, program))
}

func TestValidateApplicationInput_SectionsOptionalWhenNotRequired(t *testing.T) {
	// The same empty sections pass against a program without the flags
	assert.Nil(t, ValidateApplicationInput(validApplicationInput(), model.GrantProgram{}))
}

func TestApplicationAttributesFeedEligibility(t *testing.T) {
	application := model.GrantApplication{
		WomenLeadershipPercentage: 60,
		ProgressDurationMonths:    8,
		WorkingPrototype:          true,
	}

	attrs := application.Attributes("India")
	assert.Equal(t, application.WomenLeadershipPercentage, attrs.WomenLeadershipPercentage)
	assert.Equal(t, application.ProgressDurationMonths, attrs.ProgressDurationMonths)
	assert.Equal(t, application.WorkingPrototype, attrs.WorkingPrototype)
	assert.Equal(t, "India", attrs.Region)

	// The persisted snapshot is what the verdict must be based on
	verdict := EvaluateEligibility(strictCriteria(), attrs)
	assert.True(t, verdict.Eligible)

	application.WorkingPrototype = false
	verdict = EvaluateEligibility(strictCriteria(), application.Attributes("India"))
	require.False(t, verdict.Eligible)
	assert.Contains(t, verdict.UnmetCriteria[0].Code, "prototype")
}

func TestFilterByStatus(t *testing.T) {
	applications := []model.GrantApplication{
		{ID: 1, Status: model.ApplicationStatusSubmitted},
		{ID: 2, Status: model.ApplicationStatusApproved},
		{ID: 3, Status: model.ApplicationStatusSubmitted},
		{ID: 4, Status: model.ApplicationStatusRejected},
	}

	filtered := FilterByStatus(applications, model.ApplicationStatusSubmitted)

	require.Len(t, filtered, 2)
	assert.Equal(t, uint(1), filtered[0].ID)
	assert.Equal(t, uint(3), filtered[1].ID)
}

func TestFilterByStatus_NoMatches(t *testing.T) {
	applications := []model.GrantApplication{
		{ID: 1, Status: model.ApplicationStatusSubmitted},
	}

	filtered := FilterByStatus(applications, model.ApplicationStatusInReview)

	assert.NotNil(t, filtered)
	assert.Empty(t, filtered)
}

func TestValidApplicationStatus_AllFourStatesAccepted(t *testing.T) {
	for _, status := range []model.ApplicationStatus{
		model.ApplicationStatusSubmitted,
		model.ApplicationStatusInReview,
		model.ApplicationStatusApproved,
		model.ApplicationStatusRejected,
	} {
		assert.True(t, model.ValidApplicationStatus(status))
	}

	assert.False(t, model.ValidApplicationStatus("archived"))
	assert.False(t, model.ValidApplicationStatus(""))
}
