package services

import (
	"fmt"

	"github.com/codeforchange/community-api/model"
)

// UnmetCriterion identifies a single eligibility requirement the candidate
// does not satisfy, with a display message
type UnmetCriterion struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EligibilityVerdict is the result of evaluating a candidate against a
// program's criteria
type EligibilityVerdict struct {
	Eligible      bool             `json:"eligible"`
	UnmetCriteria []UnmetCriterion `json:"unmet_criteria"`
}

// EvaluateEligibility compares a candidate's declared attributes against a
// program's criteria. Pure: no side effects, no I/O. It runs client-facing
// for instant feedback and again inside submission as the authoritative
// check.
//
// An empty required region accepts any region; otherwise the match is exact
// and case-sensitive.
func EvaluateEligibility(criteria model.EligibilityCriteria, candidate model.CandidateAttributes) EligibilityVerdict {
	verdict := EligibilityVerdict{UnmetCriteria: []UnmetCriterion{}}

	if candidate.WomenLeadershipPercentage < criteria.RequiredWomenLeadershipPercentage {
		verdict.UnmetCriteria = append(verdict.UnmetCriteria, UnmetCriterion{
			Code: "women_leadership_percentage",
			Message: fmt.Sprintf("Requires at least %d%% women leadership, declared %d%%",
				criteria.RequiredWomenLeadershipPercentage, candidate.WomenLeadershipPercentage),
		})
	}

	if candidate.ProgressDurationMonths < criteria.RequiredProgressDurationMonths {
		verdict.UnmetCriteria = append(verdict.UnmetCriteria, UnmetCriterion{
			Code: "progress_duration_months",
			Message: fmt.Sprintf("Requires at least %d months of progress, declared %d",
				criteria.RequiredProgressDurationMonths, candidate.ProgressDurationMonths),
		})
	}

	if criteria.RequiresWorkingPrototype && !candidate.WorkingPrototype {
		verdict.UnmetCriteria = append(verdict.UnmetCriteria, UnmetCriterion{
			Code:    "working_prototype",
			Message: "Requires a working prototype",
		})
	}

	if criteria.RequiredRegion != "" && candidate.Region != criteria.RequiredRegion {
		verdict.UnmetCriteria = append(verdict.UnmetCriteria, UnmetCriterion{
			Code:    "region",
			Message: fmt.Sprintf("Open to projects in %s only", criteria.RequiredRegion),
		})
	}

	verdict.Eligible = len(verdict.UnmetCriteria) == 0
	return verdict
}
