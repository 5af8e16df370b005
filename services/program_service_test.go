package services

import (
	"testing"
	"time"

	"github.com/codeforchange/community-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProgramInput() ProgramInput {
	return ProgramInput{
		Title:               "Open Source Climate Tech Grant",
		Description:         "Funds climate-focused open source tooling.",
		ExternalLink:        "https://example.org/climate-grant",
		GrantAmount:         25000,
		Currency:            "USD",
		TotalProjectsFunded: 5,
		ApplicationsOpen:    "2026-01-01",
		Deadline:            "2026-03-01",
		WinnersAnnounced:    "2026-04-01",
		Status:              "active",
	}
}

func TestValidateProgramInput_ValidForm(t *testing.T) {
	assert.Nil(t, ValidateProgramInput(validProgramInput()))
}

func TestValidateProgramInput_FieldFailures(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ProgramInput)
		wantField string
	}{
		{
			name:      "missing title",
			mutate:    func(in *ProgramInput) { in.Title = "  " },
			wantField: "title",
		},
		{
			name:      "missing description",
			mutate:    func(in *ProgramInput) { in.Description = "" },
			wantField: "description",
		},
		{
			name:      "negative grant amount",
			mutate:    func(in *ProgramInput) { in.GrantAmount = -1 },
			wantField: "grant_amount",
		},
		{
			name:      "zero projects funded",
			mutate:    func(in *ProgramInput) { in.TotalProjectsFunded = 0 },
			wantField: "total_projects_funded",
		},
		{
			name:      "percentage above 100",
			mutate:    func(in *ProgramInput) { in.WomenLeadershipPercentage = 101 },
			wantField: "women_leadership_percentage",
		},
		{
			name:      "missing external link",
			mutate:    func(in *ProgramInput) { in.ExternalLink = "" },
			wantField: "external_link",
		},
		{
			name:      "malformed external link",
			mutate:    func(in *ProgramInput) { in.ExternalLink = "not a url" },
			wantField: "external_link",
		},
		{
			name:      "unsupported currency",
			mutate:    func(in *ProgramInput) { in.Currency = "EUR" },
			wantField: "currency",
		},
		{
			name:      "unknown status",
			mutate:    func(in *ProgramInput) { in.Status = "archived" },
			wantField: "status",
		},
		{
			name:      "unparseable deadline",
			mutate:    func(in *ProgramInput) { in.Deadline = "soon" },
			wantField: "deadline",
		},
		{
			name:      "deadline before applications open",
			mutate:    func(in *ProgramInput) { in.Deadline = "2025-12-01" },
			wantField: "deadline",
		},
		{
			name:      "winners announced before deadline",
			mutate:    func(in *ProgramInput) { in.WinnersAnnounced = "2026-02-01" },
			wantField: "winners_announced",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validProgramInput()
			tt.mutate(&input)

			errs := ValidateProgramInput(input)

			require.NotNil(t, errs)
			assert.Contains(t, errs, tt.wantField)
		})
	}
}

func TestValidateProgramInput_ReportsAllFailuresAtOnce(t *testing.T) {
	input := validProgramInput()
	input.Title = ""
	input.GrantAmount = -50
	input.ExternalLink = ""

	errs := ValidateProgramInput(input)

	require.NotNil(t, errs)
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "grant_amount")
	assert.Contains(t, errs, "external_link")
}

func TestFieldErrors_ErrorIsDeterministic(t *testing.T) {
	errs := FieldErrors{
		"title":        "title is required",
		"grant_amount": "grant amount must not be negative",
	}

	first := errs.Error()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, errs.Error())
	}
	assert.Contains(t, first, "grant_amount: ")
}

func TestParseProgramDate(t *testing.T) {
	plain, err := ParseProgramDate("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), plain)

	stamped, err := ParseProgramDate("2026-03-01T12:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 12, stamped.Hour())

	_, err = ParseProgramDate("March 1st")
	assert.Error(t, err)
}

func TestApplyInput_Defaults(t *testing.T) {
	svc := &ProgramService{}

	input := validProgramInput()
	input.Currency = ""
	input.Status = ""
	input.DisbursementPhases = 0
	input.Tags = []string{" climate ", "climate", "open-source"}

	var program model.GrantProgram
	require.NoError(t, svc.applyInput(&program, input))

	assert.Equal(t, model.CurrencyUSD, program.Currency)
	assert.Equal(t, model.ProgramStatusDraft, program.Status)
	assert.Equal(t, 1, program.DisbursementPhases)
	assert.JSONEq(t, `["climate","open-source"]`, string(program.Tags))
}

func TestApplyInput_DescriptionIsStrippedOfMarkup(t *testing.T) {
	svc := &ProgramService{}

	input := validProgramInput()
	input.Description = "<p>Funds <b>open source</b> tooling.</p><script>alert(1)</script>"

	var program model.GrantProgram
	require.NoError(t, svc.applyInput(&program, input))

	assert.NotContains(t, program.Description, "<")
	assert.Contains(t, program.Description, "open source")
}
