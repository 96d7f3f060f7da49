package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/bibbank/cardiorisk/internal/application/dto"
)

// Exporter renders assessments into a downloadable document.
type Exporter interface {
	WriteAssessments(w io.Writer, assessments []dto.AssessmentResponse) error
}

// ExportAssessments writes a tenant's assessment history through an Exporter.
type ExportAssessments struct {
	list     *ListAssessments
	exporter Exporter
}

// NewExportAssessments creates a new ExportAssessments use case.
func NewExportAssessments(list *ListAssessments, exporter Exporter) *ExportAssessments {
	return &ExportAssessments{list: list, exporter: exporter}
}

// Execute collects every matching assessment, page by page, and writes them to w.
// A request limit, when set, caps the total exported.
func (uc *ExportAssessments) Execute(ctx context.Context, req dto.ExportAssessmentsRequest, w io.Writer) (dto.ExportAssessmentsResponse, error) {
	wanted := req.Limit
	page := req.ListAssessmentsRequest
	page.Limit = MaxListLimit

	var all []dto.AssessmentResponse
	for {
		resp, err := uc.list.Execute(ctx, page)
		if err != nil {
			return dto.ExportAssessmentsResponse{}, fmt.Errorf("failed to export assessments: %w", err)
		}
		all = append(all, resp.Assessments...)
		page.Offset += len(resp.Assessments)

		if len(resp.Assessments) == 0 || page.Offset >= resp.Total || (wanted > 0 && len(all) >= wanted) {
			break
		}
	}
	if wanted > 0 && len(all) > wanted {
		all = all[:wanted]
	}

	if err := uc.exporter.WriteAssessments(w, all); err != nil {
		return dto.ExportAssessmentsResponse{}, fmt.Errorf("failed to write export: %w", err)
	}
	return dto.ExportAssessmentsResponse{Count: len(all)}, nil
}
