package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrProgramNotFound     = errors.New("grant program not found")
	ErrApplicationNotFound = errors.New("grant application not found")
	ErrProjectNotFound     = errors.New("project not found")
	ErrNotProjectOwner     = errors.New("project does not belong to the applicant")
	ErrProgramNotOpen      = errors.New("grant program is not accepting applications")
	ErrDuplicateSubmission = errors.New("an application to this program is already under consideration")
	ErrInvalidStatus       = errors.New("invalid status value")
)

// FieldErrors reports per-field validation failures detected before any
// store write
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IneligibleError carries the unmet criteria of a rejected submission
type IneligibleError struct {
	UnmetCriteria []UnmetCriterion
}

func (e *IneligibleError) Error() string {
	codes := make([]string, 0, len(e.UnmetCriteria))
	for _, c := range e.UnmetCriteria {
		codes = append(codes, c.Code)
	}
	return "applicant is not eligible: " + strings.Join(codes, ", ")
}
