package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/bibbank/cardiorisk/internal/application/dto"
	"github.com/bibbank/cardiorisk/internal/domain/port"
	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
)

const (
	// DefaultListLimit is the page size used when none is requested.
	DefaultListLimit = 200
	// MaxListLimit caps the page size.
	MaxListLimit = 1000
)

// ListAssessments is the use case for browsing a tenant's assessment history.
type ListAssessments struct {
	repo port.AssessmentRepository
}

// NewListAssessments creates a new ListAssessments use case.
func NewListAssessments(repo port.AssessmentRepository) *ListAssessments {
	return &ListAssessments{repo: repo}
}

// Execute returns one page of history, newest first unless Sort says otherwise.
func (uc *ListAssessments) Execute(ctx context.Context, req dto.ListAssessmentsRequest) (dto.ListAssessmentsResponse, error) {
	filter, err := BuildListFilter(req)
	if err != nil {
		return dto.ListAssessmentsResponse{}, fmt.Errorf("failed to list assessments: %w", err)
	}

	assessments, total, err := uc.repo.List(ctx, req.TenantID, filter)
	if err != nil {
		return dto.ListAssessmentsResponse{}, fmt.Errorf("failed to list assessments: %w", err)
	}

	resp := dto.ListAssessmentsResponse{
		Assessments: make([]dto.AssessmentResponse, 0, len(assessments)),
		Total:       total,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	for _, a := range assessments {
		resp.Assessments = append(resp.Assessments, dto.FromModel(a))
	}
	return resp, nil
}

// BuildListFilter normalises a list request into a repository filter.
// An empty sort means newest assessment first.
func BuildListFilter(req dto.ListAssessmentsRequest) (port.ListFilter, error) {
	if err := dto.Validate(req); err != nil {
		return port.ListFilter{}, err
	}

	filter := port.ListFilter{
		Search:     strings.TrimSpace(req.Search),
		SortBy:     port.SortAssessedOn,
		Descending: true,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}

	if sort := strings.TrimSpace(req.Sort); sort != "" {
		key, desc := strings.CutPrefix(sort, "-")
		if !port.IsSortKey(key) {
			return port.ListFilter{}, fmt.Errorf("%w: unknown sort key %q", valueobject.ErrInvalidInput, key)
		}
		filter.SortBy = key
		filter.Descending = desc
	}

	switch {
	case filter.Limit == 0:
		filter.Limit = DefaultListLimit
	case filter.Limit > MaxListLimit:
		filter.Limit = MaxListLimit
	}
	return filter, nil
}
