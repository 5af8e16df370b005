package services

import (
	"testing"

	"github.com/codeforchange/community-api/model"
	"github.com/stretchr/testify/assert"
)

func strictCriteria() model.EligibilityCriteria {
	return model.EligibilityCriteria{
		RequiredWomenLeadershipPercentage: 51,
		RequiredProgressDurationMonths:    6,
		RequiresWorkingPrototype:          true,
		RequiredRegion:                    "India",
	}
}

func qualifiedCandidate() model.CandidateAttributes {
	return model.CandidateAttributes{
		WomenLeadershipPercentage: 60,
		ProgressDurationMonths:    8,
		WorkingPrototype:          true,
		Region:                    "India",
	}
}

func TestEvaluateEligibility_AllCriteriaMet(t *testing.T) {
	verdict := EvaluateEligibility(strictCriteria(), qualifiedCandidate())

	assert.True(t, verdict.Eligible)
	assert.Empty(t, verdict.UnmetCriteria)
}

func TestEvaluateEligibility_ExactThresholdsPass(t *testing.T) {
	candidate := qualifiedCandidate()
	candidate.WomenLeadershipPercentage = 51
	candidate.ProgressDurationMonths = 6

	verdict := EvaluateEligibility(strictCriteria(), candidate)

	assert.True(t, verdict.Eligible, "meeting a threshold exactly should qualify")
}

func TestEvaluateEligibility_SingleUnmetCriterion(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*model.CandidateAttributes)
		wantCode string
	}{
		{
			name:     "women leadership below threshold",
			mutate:   func(c *model.CandidateAttributes) { c.WomenLeadershipPercentage = 50 },
			wantCode: "women_leadership_percentage",
		},
		{
			name:     "progress duration below threshold",
			mutate:   func(c *model.CandidateAttributes) { c.ProgressDurationMonths = 5 },
			wantCode: "progress_duration_months",
		},
		{
			name:     "missing working prototype",
			mutate:   func(c *model.CandidateAttributes) { c.WorkingPrototype = false },
			wantCode: "working_prototype",
		},
		{
			name:     "wrong region",
			mutate:   func(c *model.CandidateAttributes) { c.Region = "Brazil" },
			wantCode: "region",
		},
		{
			name:     "region match is case sensitive",
			mutate:   func(c *model.CandidateAttributes) { c.Region = "india" },
			wantCode: "region",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := qualifiedCandidate()
			tt.mutate(&candidate)

			verdict := EvaluateEligibility(strictCriteria(), candidate)

			assert.False(t, verdict.Eligible)
			if assert.Len(t, verdict.UnmetCriteria, 1) {
				assert.Equal(t, tt.wantCode, verdict.UnmetCriteria[0].Code)
				assert.NotEmpty(t, verdict.UnmetCriteria[0].Message)
			}
		})
	}
}

func TestEvaluateEligibility_AllCriteriaUnmet(t *testing.T) {
	verdict := EvaluateEligibility(strictCriteria(), model.CandidateAttributes{})

	assert.False(t, verdict.Eligible)
	assert.Len(t, verdict.UnmetCriteria, 4, "every failed criterion should be reported, not just the first")
}

func TestEvaluateEligibility_EmptyRegionAcceptsAnyCandidate(t *testing.T) {
	criteria := strictCriteria()
	criteria.RequiredRegion = ""

	candidate := qualifiedCandidate()
	candidate.Region = "Anywhere"

	verdict := EvaluateEligibility(criteria, candidate)
	assert.True(t, verdict.Eligible)

	candidate.Region = ""
	verdict = EvaluateEligibility(criteria, candidate)
	assert.True(t, verdict.Eligible)
}

func TestEvaluateEligibility_ZeroCriteriaAcceptEveryone(t *testing.T) {
	verdict := EvaluateEligibility(model.EligibilityCriteria{}, model.CandidateAttributes{})

	assert.True(t, verdict.Eligible)
	assert.Empty(t, verdict.UnmetCriteria)
}
