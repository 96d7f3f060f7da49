package dto

import "github.com/google/uuid"

// ImportRow is one spreadsheet row awaiting assessment. Row is the 1-based
// sheet row number, used for error reporting.
type ImportRow struct {
	PatientRef string
	AssessedOn string
	MeasurementInput
	Row int
}

// ImportAssessmentsRequest is the input DTO for batch import.
type ImportAssessmentsRequest struct {
	Rows     []ImportRow
	DryRun   bool
	TenantID uuid.UUID
}

// ImportRowResult reports the outcome of one imported row. Error is set when
// the row was rejected.
type ImportRowResult struct {
	PatientRef   string    `json:"patient_ref"`
	RiskLevel    string    `json:"risk_level,omitempty"`
	Error        string    `json:"error,omitempty"`
	RiskScore    float64   `json:"risk_score,omitempty"`
	Row          int       `json:"row"`
	AssessmentID uuid.UUID `json:"assessment_id,omitempty"`
}

// ImportAssessmentsResponse summarises a batch import. Results are in row
// order. Aborted is set when a storage failure stopped the batch; Results then
// holds only the rows handled before it.
type ImportAssessmentsResponse struct {
	Results  []ImportRowResult `json:"results"`
	Imported int               `json:"imported"`
	Failed   int               `json:"failed"`
	Aborted  bool              `json:"aborted,omitempty"`
}

// ExportAssessmentsRequest selects the history to export.
type ExportAssessmentsRequest struct {
	ListAssessmentsRequest
}

// ExportAssessmentsResponse reports how many assessments were written.
type ExportAssessmentsResponse struct {
	Count int `json:"count"`
}
