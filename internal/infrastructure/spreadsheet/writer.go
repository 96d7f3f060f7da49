package spreadsheet

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/bibbank/cardiorisk/internal/application/dto"
	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
)

// ResultSheet is the name of the sheet written by WriteAssessments.
const ResultSheet = "Hasil Diagnosa"

// ExportHeader lists the export columns in order.
var ExportHeader = []string{
	"ID", "Usia", "Tekanan Darah", "Kolesterol", "BMI", "Merokok", "Nilai Risiko", "Keterangan Risiko",
}

// Exporter writes assessments as an xlsx workbook with risk labels in Locale.
type Exporter struct {
	Locale string
}

// NewExporter creates an Exporter. An empty locale means "id".
func NewExporter(locale string) *Exporter {
	if locale == "" {
		locale = "id"
	}
	return &Exporter{Locale: locale}
}

// WriteAssessments implements usecase.Exporter.
func (e *Exporter) WriteAssessments(w io.Writer, assessments []dto.AssessmentResponse) error {
	return WriteAssessments(w, assessments, e.Locale)
}

// WriteAssessments renders assessments to a single-sheet workbook. Scores are
// rounded to two decimal places.
func WriteAssessments(w io.Writer, assessments []dto.AssessmentResponse, locale string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ResultSheet); err != nil {
		return fmt.Errorf("spreadsheet: name sheet: %w", err)
	}

	header := make([]any, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(ResultSheet, "A1", &header); err != nil {
		return fmt.Errorf("spreadsheet: write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("spreadsheet: header style: %w", err)
	}
	if err := f.SetRowStyle(ResultSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("spreadsheet: header style: %w", err)
	}

	for i, a := range assessments {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("spreadsheet: row %d: %w", i+2, err)
		}
		row := []any{
			a.PatientRef,
			a.Age,
			a.BloodPressure,
			a.Cholesterol,
			a.BMI,
			a.SmokingYears,
			decimal.NewFromFloat(a.RiskScore).Round(2).InexactFloat64(),
			riskLabel(a.RiskLevel, locale),
		}
		if err := f.SetSheetRow(ResultSheet, cell, &row); err != nil {
			return fmt.Errorf("spreadsheet: row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(ResultSheet, "A", "H", 16); err != nil {
		return fmt.Errorf("spreadsheet: column width: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("spreadsheet: write workbook: %w", err)
	}
	return nil
}

func riskLabel(level, locale string) string {
	l, err := valueobject.RiskLevelFromString(level)
	if err != nil {
		return level
	}
	return l.Label(locale)
}
