package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/bibbank/cardiorisk/internal/application/dto"
	"github.com/bibbank/cardiorisk/internal/domain/service"
	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
)

// DefaultImportConcurrency bounds how many rows are assessed at once.
const DefaultImportConcurrency = 8

// RowAbortedError marks the row whose storage or publishing failure stopped
// the batch.
const RowAbortedError = "import aborted at this row"

// ImportAssessments assesses a batch of spreadsheet rows. Each row stands on
// its own: a row with bad input is reported and skipped, while a storage or
// publishing failure aborts the whole batch.
type ImportAssessments struct {
	assess      *AssessRisk
	scorer      service.Scorer
	logger      *slog.Logger
	concurrency int
}

// NewImportAssessments creates a new ImportAssessments use case. A
// concurrency below 1 uses DefaultImportConcurrency.
func NewImportAssessments(assess *AssessRisk, scorer service.Scorer, concurrency int, logger *slog.Logger) *ImportAssessments {
	if concurrency < 1 {
		concurrency = DefaultImportConcurrency
	}
	return &ImportAssessments{assess: assess, scorer: scorer, logger: logger, concurrency: concurrency}
}

// Execute assesses every row. With DryRun set rows are scored but nothing is
// stored or published.
//
// When the batch aborts, the returned response is still filled in with the
// rows handled before the failure and Aborted is set; rows with an
// AssessmentID were stored. Rows never started are left out.
func (uc *ImportAssessments) Execute(ctx context.Context, req dto.ImportAssessmentsRequest) (dto.ImportAssessmentsResponse, error) {
	results := make([]dto.ImportRowResult, len(req.Rows))
	handled := make([]bool, len(req.Rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)

	for i, row := range req.Rows {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res, err := uc.importRow(gctx, req, row)
			if err != nil {
				if !errors.Is(err, valueobject.ErrInvalidInput) {
					res.Error = RowAbortedError
					results[i], handled[i] = res, true
					return fmt.Errorf("row %d: %w", row.Row, err)
				}
				res.Error = err.Error()
				uc.logger.WarnContext(gctx, "import row rejected",
					slog.Int("row", row.Row),
					slog.String("patient_ref", row.PatientRef),
					slog.String("error", err.Error()),
				)
			}
			results[i], handled[i] = res, true
			return nil
		})
	}

	err := g.Wait()

	resp := dto.ImportAssessmentsResponse{Results: make([]dto.ImportRowResult, 0, len(results)), Aborted: err != nil}
	for i, r := range results {
		if !handled[i] {
			continue
		}
		resp.Results = append(resp.Results, r)
		if r.Error != "" {
			resp.Failed++
		} else {
			resp.Imported++
		}
	}
	if err != nil {
		return resp, fmt.Errorf("import aborted: %w", err)
	}
	return resp, nil
}

func (uc *ImportAssessments) importRow(ctx context.Context, req dto.ImportAssessmentsRequest, row dto.ImportRow) (dto.ImportRowResult, error) {
	res := dto.ImportRowResult{Row: row.Row, PatientRef: row.PatientRef}
	assessReq := dto.AssessRiskRequest{
		TenantID:         req.TenantID,
		PatientRef:       row.PatientRef,
		AssessedOn:       row.AssessedOn,
		MeasurementInput: row.MeasurementInput,
	}

	if req.DryRun {
		in, err := assessReq.Parse()
		if err != nil {
			return res, err
		}
		result := uc.scorer.Compute(in.Measurements)
		res.RiskScore = result.Score
		res.RiskLevel = result.Level.String()
		return res, nil
	}

	resp, err := uc.assess.Execute(ctx, assessReq)
	if err != nil {
		return res, err
	}
	res.AssessmentID = resp.ID
	res.RiskScore = resp.RiskScore
	res.RiskLevel = resp.RiskLevel
	return res, nil
}
