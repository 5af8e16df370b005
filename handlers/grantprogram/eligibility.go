package grantprogram

import (
	"errors"
	"strconv"

	"github.com/codeforchange/community-api/model"
	"github.com/codeforchange/community-api/services"
	"github.com/codeforchange/community-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// EligibilityCheckRequest carries the applicant-declared attributes to
// evaluate against a program's criteria
type EligibilityCheckRequest struct {
	WomenLeadershipPercentage int    `json:"women_leadership_percentage"`
	ProgressDurationMonths    int    `json:"progress_duration_months"`
	WorkingPrototype          bool   `json:"working_prototype"`
	Region                    string `json:"region"`
}

// CheckEligibility handles POST /api/v1/grant-programs/:id/eligibility-check.
// The verdict is advisory; submission re-evaluates the same rules
// authoritatively.
func (h *ProgramHandler) CheckEligibility(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid program ID")
	}

	var req EligibilityCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	program, err := h.service.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrProgramNotFound) {
			return response.NotFound(c, "Grant program not found")
		}
		return response.InternalServerError(c, "Failed to fetch grant program")
	}

	verdict := services.EvaluateEligibility(program.EligibilityCriteria(), model.CandidateAttributes{
		WomenLeadershipPercentage: req.WomenLeadershipPercentage,
		ProgressDurationMonths:    req.ProgressDurationMonths,
		WorkingPrototype:          req.WorkingPrototype,
		Region:                    req.Region,
	})

	return response.Success(c, verdict)
}
