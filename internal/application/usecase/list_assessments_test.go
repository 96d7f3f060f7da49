package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/cardiorisk/internal/application/dto"
	"github.com/bibbank/cardiorisk/internal/application/usecase"
	"github.com/bibbank/cardiorisk/internal/domain/model"
	"github.com/bibbank/cardiorisk/internal/domain/port"
	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
)

func TestBuildListFilter(t *testing.T) {
	tests := []struct {
		name     string
		req      dto.ListAssessmentsRequest
		expected port.ListFilter
	}{
		{
			name:     "defaults to newest first",
			req:      dto.ListAssessmentsRequest{},
			expected: port.ListFilter{SortBy: port.SortAssessedOn, Descending: true, Limit: usecase.DefaultListLimit},
		},
		{
			name:     "ascending sort key",
			req:      dto.ListAssessmentsRequest{Sort: "patient_ref", Limit: 10, Offset: 20},
			expected: port.ListFilter{SortBy: port.SortPatientRef, Limit: 10, Offset: 20},
		},
		{
			name:     "descending sort key",
			req:      dto.ListAssessmentsRequest{Sort: "-risk_score"},
			expected: port.ListFilter{SortBy: port.SortRiskScore, Descending: true, Limit: usecase.DefaultListLimit},
		},
		{
			name:     "limit is capped",
			req:      dto.ListAssessmentsRequest{Limit: 5000},
			expected: port.ListFilter{SortBy: port.SortAssessedOn, Descending: true, Limit: usecase.MaxListLimit},
		},
		{
			name:     "search is trimmed",
			req:      dto.ListAssessmentsRequest{Search: "  tinggi "},
			expected: port.ListFilter{Search: "tinggi", SortBy: port.SortAssessedOn, Descending: true, Limit: usecase.DefaultListLimit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := usecase.BuildListFilter(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, filter)
		})
	}
}

func TestBuildListFilter_Invalid(t *testing.T) {
	for _, req := range []dto.ListAssessmentsRequest{
		{Sort: "password"},
		{Sort: "-"},
		{Limit: -1},
		{Offset: -5},
	} {
		_, err := usecase.BuildListFilter(req)
		require.Error(t, err)
		assert.ErrorIs(t, err, valueobject.ErrInvalidInput)
	}
}

func TestListAssessments_Execute(t *testing.T) {
	tenantID := uuid.New()
	stored := []*model.RiskAssessment{
		storedAssessment(t, tenantID, "P-001"),
		storedAssessment(t, tenantID, "P-002"),
	}
	repo := &mockAssessmentRepository{
		listFunc: func(_ context.Context, tid uuid.UUID, filter port.ListFilter) ([]*model.RiskAssessment, int, error) {
			assert.Equal(t, tenantID, tid)
			return stored, 7, nil
		},
	}

	resp, err := usecase.NewListAssessments(repo).Execute(context.Background(), dto.ListAssessmentsRequest{
		TenantID: tenantID,
		Search:   "P-00",
		Limit:    2,
	})
	require.NoError(t, err)

	require.Len(t, resp.Assessments, 2)
	assert.Equal(t, "P-001", resp.Assessments[0].PatientRef)
	assert.Equal(t, 7, resp.Total)
	assert.Equal(t, 2, resp.Limit)
	assert.Equal(t, "P-00", repo.lastFilter.Search)
}
