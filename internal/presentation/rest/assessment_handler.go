package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/bibbank/cardiorisk/internal/application/dto"
	"github.com/bibbank/cardiorisk/internal/application/usecase"
	"github.com/bibbank/cardiorisk/internal/domain/port"
	"github.com/bibbank/cardiorisk/internal/domain/valueobject"
	"github.com/bibbank/cardiorisk/pkg/auth"
)

const (
	maxJSONBody   = 1 << 20
	maxUploadBody = 10 << 20

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFilename  = "hasil-diagnosa.xlsx"
)

// RowReader parses an uploaded spreadsheet into import rows.
type RowReader func(r io.Reader) ([]dto.ImportRow, error)

// UseCases groups the application use cases served over HTTP.
type UseCases struct {
	ComputeRisk       *usecase.ComputeRisk
	AssessRisk        *usecase.AssessRisk
	GetAssessment     *usecase.GetAssessment
	ListAssessments   *usecase.ListAssessments
	ImportAssessments *usecase.ImportAssessments
	ExportAssessments *usecase.ExportAssessments
}

// AssessmentHandler serves the risk assessment REST API.
type AssessmentHandler struct {
	uc       UseCases
	readRows RowReader
	logger   *slog.Logger
}

// NewAssessmentHandler creates a new REST handler.
func NewAssessmentHandler(uc UseCases, readRows RowReader, logger *slog.Logger) *AssessmentHandler {
	return &AssessmentHandler{uc: uc, readRows: readRows, logger: logger}
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ImportAbortedResponse is returned when a storage failure stops an import.
// It carries the rows handled before the failure; those with an assessment ID
// were stored.
type ImportAbortedResponse struct {
	Error string `json:"error"`
	dto.ImportAssessmentsResponse
}

// RegisterRoutes registers the API routes on the provided ServeMux.
func (h *AssessmentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/risk/compute", h.ComputeRisk)
	mux.HandleFunc("POST /v1/assessments", h.AssessRisk)
	mux.HandleFunc("GET /v1/assessments", h.ListAssessments)
	mux.HandleFunc("GET /v1/assessments/{id}", h.GetAssessment)
	mux.HandleFunc("GET /v1/assessments/export", h.ExportAssessments)
	mux.HandleFunc("POST /v1/assessments/import", h.ImportAssessments)
}

// ComputeRisk scores measurements without storing them.
func (h *AssessmentHandler) ComputeRisk(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authorize(w, r, auth.RoleClinician, auth.RoleAPIClient); !ok {
		return
	}

	var req dto.ComputeRiskRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.uc.ComputeRisk.Execute(r.Context(), req)
	if err != nil {
		h.writeError(r.Context(), w, "compute risk", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// AssessRisk scores and stores a patient's measurements.
func (h *AssessmentHandler) AssessRisk(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.authorize(w, r, auth.RoleClinician, auth.RoleAPIClient)
	if !ok {
		return
	}

	var req dto.AssessRiskRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.TenantID = tenantID

	resp, err := h.uc.AssessRisk.Execute(r.Context(), req)
	if err != nil {
		h.writeError(r.Context(), w, "assess risk", err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// GetAssessment returns one stored assessment.
func (h *AssessmentHandler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.authorize(w, r, auth.RoleClinician, auth.RoleAuditor, auth.RoleAPIClient)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return
	}

	resp, err := h.uc.GetAssessment.Execute(r.Context(), dto.GetAssessmentRequest{
		TenantID:     tenantID,
		AssessmentID: id,
	})
	if err != nil {
		h.writeError(r.Context(), w, "get assessment", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListAssessments pages through the tenant's history. Query parameters are
// q, sort, limit and offset.
func (h *AssessmentHandler) ListAssessments(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.authorize(w, r, auth.RoleClinician, auth.RoleAuditor, auth.RoleAPIClient)
	if !ok {
		return
	}

	req, err := listRequest(r, tenantID)
	if err != nil {
		h.writeError(r.Context(), w, "list assessments", err)
		return
	}

	resp, err := h.uc.ListAssessments.Execute(r.Context(), req)
	if err != nil {
		h.writeError(r.Context(), w, "list assessments", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ExportAssessments downloads the matching history as an xlsx workbook.
func (h *AssessmentHandler) ExportAssessments(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.authorize(w, r, auth.RoleClinician, auth.RoleAuditor)
	if !ok {
		return
	}

	req, err := listRequest(r, tenantID)
	if err != nil {
		h.writeError(r.Context(), w, "export assessments", err)
		return
	}

	// Buffered so a failure can still be reported as JSON.
	var buf bytes.Buffer
	resp, err := h.uc.ExportAssessments.Execute(r.Context(), dto.ExportAssessmentsRequest{ListAssessmentsRequest: req}, &buf)
	if err != nil {
		h.writeError(r.Context(), w, "export assessments", err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename))
	w.Header().Set("X-Export-Count", strconv.Itoa(resp.Count))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// ImportAssessments assesses every row of an uploaded workbook. The file is
// sent as the multipart field "file"; dry_run=true scores without storing.
func (h *AssessmentHandler) ImportAssessments(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.authorize(w, r, auth.RoleClinician)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "multipart field \"file\" is required"})
		return
	}
	defer file.Close()

	rows, err := h.readRows(file)
	if err != nil {
		h.writeError(r.Context(), w, "import assessments", err)
		return
	}

	dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dry_run"))
	resp, err := h.uc.ImportAssessments.Execute(r.Context(), dto.ImportAssessmentsRequest{
		TenantID: tenantID,
		Rows:     rows,
		DryRun:   dryRun,
	})
	if err != nil {
		if resp.Aborted {
			h.logger.ErrorContext(r.Context(), "import aborted",
				slog.String("tenant_id", tenantID.String()),
				slog.Int("imported", resp.Imported),
				slog.String("error", err.Error()),
			)
			writeJSON(w, http.StatusInternalServerError, ImportAbortedResponse{
				Error:                     "internal error",
				ImportAssessmentsResponse: resp,
			})
			return
		}
		h.writeError(r.Context(), w, "import assessments", err)
		return
	}

	h.logger.InfoContext(r.Context(), "assessments imported",
		slog.String("tenant_id", tenantID.String()),
		slog.Int("imported", resp.Imported),
		slog.Int("failed", resp.Failed),
		slog.Bool("dry_run", dryRun),
	)
	writeJSON(w, http.StatusOK, resp)
}

func listRequest(r *http.Request, tenantID uuid.UUID) (dto.ListAssessmentsRequest, error) {
	q := r.URL.Query()
	req := dto.ListAssessmentsRequest{
		TenantID: tenantID,
		Search:   q.Get("q"),
		Sort:     q.Get("sort"),
	}

	var err error
	if req.Limit, err = intParam(q.Get("limit")); err != nil {
		return req, fmt.Errorf("%w: limit: %v", valueobject.ErrInvalidInput, err)
	}
	if req.Offset, err = intParam(q.Get("offset")); err != nil {
		return req, fmt.Errorf("%w: offset: %v", valueobject.ErrInvalidInput, err)
	}
	return req, nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func (h *AssessmentHandler) authorize(w http.ResponseWriter, r *http.Request, roles ...string) (uuid.UUID, bool) {
	claims, err := auth.Authorize(r.Context(), roles...)
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return uuid.Nil, false
	case errors.Is(err, auth.ErrForbidden):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "insufficient permissions"})
		return uuid.Nil, false
	case err != nil:
		h.writeError(r.Context(), w, "authorize", err)
		return uuid.Nil, false
	}
	return claims.TenantID, true
}

func (h *AssessmentHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed JSON body"})
		return false
	}
	return true
}

// writeError maps use case errors onto HTTP status codes. Internal details
// are logged and not returned to the caller.
func (h *AssessmentHandler) writeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, valueobject.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, port.ErrAssessmentNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "assessment not found"})
	default:
		h.logger.ErrorContext(ctx, "request failed",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
