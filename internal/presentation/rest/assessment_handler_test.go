package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bibbank/cardiorisk/internal/application/dto"
	"github.com/bibbank/cardiorisk/internal/application/usecase"
	"github.com/bibbank/cardiorisk/internal/domain/model"
	"github.com/bibbank/cardiorisk/internal/domain/port"
	"github.com/bibbank/cardiorisk/internal/domain/service"
	"github.com/bibbank/cardiorisk/internal/infrastructure/spreadsheet"
	"github.com/bibbank/cardiorisk/pkg/auth"
	"github.com/bibbank/cardiorisk/pkg/events"
)

var testTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000010")

// memoryRepo is an in-memory AssessmentRepository scoped by tenant.
type memoryRepo struct {
	mu      sync.Mutex
	items   []*model.RiskAssessment
	saveErr error
}

func (r *memoryRepo) Save(_ context.Context, a *model.RiskAssessment) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, a)
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.RiskAssessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.items {
		if a.TenantID() == tenantID && a.ID() == id {
			return a, nil
		}
	}
	return nil, port.ErrAssessmentNotFound
}

func (r *memoryRepo) List(_ context.Context, tenantID uuid.UUID, filter port.ListFilter) ([]*model.RiskAssessment, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*model.RiskAssessment
	for _, a := range r.items {
		if a.TenantID() == tenantID && strings.Contains(a.PatientRef(), filter.Search) {
			matched = append(matched, a)
		}
	}
	total := len(matched)
	if filter.Offset >= total {
		return nil, total, nil
	}
	end := min(filter.Offset+filter.Limit, total)
	return matched[filter.Offset:end], total, nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ...events.DomainEvent) error { return nil }

func newTestMux(repo *memoryRepo) *http.ServeMux {
	engine := service.NewDecisionEngine()
	assess := usecase.NewAssessRisk(repo, noopPublisher{}, engine, nil)
	list := usecase.NewListAssessments(repo)

	h := NewAssessmentHandler(UseCases{
		ComputeRisk:       usecase.NewComputeRisk(engine, "id"),
		AssessRisk:        assess,
		GetAssessment:     usecase.NewGetAssessment(repo),
		ListAssessments:   list,
		ImportAssessments: usecase.NewImportAssessments(assess, engine, 2, testLogger()),
		ExportAssessments: usecase.NewExportAssessments(list, spreadsheet.NewExporter("id")),
	}, spreadsheet.ReadRows, testLogger())

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return mux
}

func withRoles(req *http.Request, roles ...string) *http.Request {
	claims := &auth.Claims{UserID: uuid.New(), TenantID: testTenantID, Roles: roles}
	return req.WithContext(auth.ContextWithClaims(req.Context(), claims))
}

func serve(mux *http.ServeMux, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

const assessBody = `{"patient_ref":"P-001","assessed_on":"2024-03-09","age":45,"blood_pressure":"130/85","cholesterol":220,"bmi":27,"smoking_years":8}`

func TestComputeRiskEndpoint(t *testing.T) {
	mux := newTestMux(&memoryRepo{})

	tests := []struct {
		name         string
		body         string
		roles        []string
		expectedCode int
	}{
		{"scores measurements", `{"age":45,"blood_pressure":"130/85","cholesterol":220,"bmi":27,"smoking_years":8}`, []string{auth.RoleClinician}, http.StatusOK},
		{"missing field", `{"age":45,"blood_pressure":"130/85","bmi":27,"smoking_years":8}`, []string{auth.RoleClinician}, http.StatusBadRequest},
		{"malformed json", `{"age":`, []string{auth.RoleAPIClient}, http.StatusBadRequest},
		{"auditor is forbidden", `{}`, []string{auth.RoleAuditor}, http.StatusForbidden},
		{"no claims", `{}`, nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/risk/compute", strings.NewReader(tt.body))
			if tt.roles != nil {
				req = withRoles(req, tt.roles...)
			}
			rec := serve(mux, req)
			require.Equal(t, tt.expectedCode, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}

	t.Run("response body", func(t *testing.T) {
		req := withRoles(httptest.NewRequest(http.MethodPost, "/v1/risk/compute",
			strings.NewReader(`{"age":45,"blood_pressure":"130/85","cholesterol":220,"bmi":27,"smoking_years":8}`)), auth.RoleClinician)
		rec := serve(mux, req)

		var resp dto.ComputeRiskResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "MEDIUM", resp.RiskLevel)
		assert.Equal(t, "Sedang", resp.RiskLabel)
		assert.InDelta(t, 58.571, resp.RiskScore, 0.001)
	})
}

func TestAssessAndFetch(t *testing.T) {
	repo := &memoryRepo{}
	mux := newTestMux(repo)

	rec := serve(mux, withRoles(httptest.NewRequest(http.MethodPost, "/v1/assessments", strings.NewReader(assessBody)), auth.RoleClinician))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created dto.AssessmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, testTenantID, created.TenantID)
	assert.Equal(t, "2024-03-09", created.AssessedOn)
	assert.Equal(t, "MEDIUM", created.RiskLevel)

	t.Run("get by id", func(t *testing.T) {
		rec := serve(mux, withRoles(httptest.NewRequest(http.MethodGet, "/v1/assessments/"+created.ID.String(), nil), auth.RoleAuditor))
		require.Equal(t, http.StatusOK, rec.Code)

		var got dto.AssessmentResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "130/85", got.BloodPressure)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := serve(mux, withRoles(httptest.NewRequest(http.MethodGet, "/v1/assessments/"+uuid.NewString(), nil), auth.RoleAuditor))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := serve(mux, withRoles(httptest.NewRequest(http.MethodGet, "/v1/assessments/abc", nil), auth.RoleAuditor))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		rec := serve(mux, withRoles(httptest.NewRequest(http.MethodGet, "/v1/assessments?q=P-00&limit=10", nil), auth.RoleClinician))
		require.Equal(t, http.StatusOK, rec.Code)

		var page dto.ListAssessmentsResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
		assert.Equal(t, 1, page.Total)
		assert.Equal(t, 10, page.Limit)
		require.Len(t, page.Assessments, 1)
	})

	t.Run("list rejects bad paging", func(t *testing.T) {
		for _, q := range []string{"limit=ten", "offset=-1", "sort=secret"} {
			rec := serve(mux, withRoles(httptest.NewRequest(http.MethodGet, "/v1/assessments?"+q, nil), auth.RoleClinician))
			assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		}
	})
}

func TestAssessRisk_StorageFailureHidesDetails(t *testing.T) {
	mux := newTestMux(&memoryRepo{saveErr: errors.New("pq: disk full")})

	rec := serve(mux, withRoles(httptest.NewRequest(http.MethodPost, "/v1/assessments", strings.NewReader(assessBody)), auth.RoleAPIClient))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk full")
}

func uploadRequest(t *testing.T, target string, rows ...[]any) *http.Request {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	xlsx, err := f.WriteToBuffer()
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "pasien.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImportThenExport(t *testing.T) {
	repo := &memoryRepo{}
	mux := newTestMux(repo)

	header := []any{"ID", "Usia", "Tekanan Darah", "Kolesterol", "BMI", "Merokok"}
	req := uploadRequest(t, "/v1/assessments/import", header,
		[]any{"P-001", 45, "130/85", 220, 27, 8},
		[]any{"P-002", 60, "150/95", 260, 33, 25},
		[]any{"P-003", -4, "120/80", 190, 22, 0},
	)
	rec := serve(mux, withRoles(req, auth.RoleClinician))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var imported dto.ImportAssessmentsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&imported))
	assert.Equal(t, 2, imported.Imported)
	assert.Equal(t, 1, imported.Failed)
	require.Len(t, imported.Results, 3)
	assert.Equal(t, 4, imported.Results[2].Row)
	assert.NotEmpty(t, imported.Results[2].Error)
	assert.Len(t, repo.items, 2)

	rec = serve(mux, withRoles(httptest.NewRequest(http.MethodGet, "/v1/assessments/export", nil), auth.RoleAuditor))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), exportFilename)
	assert.Equal(t, "2", rec.Header().Get("X-Export-Count"))

	out, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer out.Close()
	rows, err := out.GetRows(spreadsheet.ResultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, spreadsheet.ExportHeader, rows[0])
}

func TestImport_DryRunStoresNothing(t *testing.T) {
	repo := &memoryRepo{}
	mux := newTestMux(repo)

	req := uploadRequest(t, "/v1/assessments/import?dry_run=true",
		[]any{"ID", "Usia", "TekananDarah", "Kolesterol", "BMI", "Merokok"},
		[]any{"P-001", 45, "130/85", 220, 27, 8},
	)
	rec := serve(mux, withRoles(req, auth.RoleClinician))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var imported dto.ImportAssessmentsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&imported))
	assert.Equal(t, 1, imported.Imported)
	assert.Empty(t, repo.items)
}

func TestImport_StorageFailureReturnsHandledRows(t *testing.T) {
	repo := &memoryRepo{saveErr: errors.New("connection reset")}
	mux := newTestMux(repo)

	req := uploadRequest(t, "/v1/assessments/import",
		[]any{"ID", "Usia", "TekananDarah", "Kolesterol", "BMI", "Merokok"},
		[]any{"P-001", 45, "130/85", 220, 27, 8},
	)
	rec := serve(mux, withRoles(req, auth.RoleClinician))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")

	var body ImportAbortedResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "internal error", body.Error)
	assert.True(t, body.Aborted)
	assert.Zero(t, body.Imported)
	require.Len(t, body.Results, 1)
	assert.Equal(t, usecase.RowAbortedError, body.Results[0].Error)
	assert.Equal(t, uuid.Nil, body.Results[0].AssessmentID)
}

func TestImport_RejectsBadUploads(t *testing.T) {
	mux := newTestMux(&memoryRepo{})

	t.Run("missing file field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/assessments/import", strings.NewReader(""))
		rec := serve(mux, withRoles(req, auth.RoleClinician))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing required columns", func(t *testing.T) {
		req := uploadRequest(t, "/v1/assessments/import", []any{"ID", "Usia", "BMI"})
		rec := serve(mux, withRoles(req, auth.RoleClinician))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Kolesterol")
	})

	t.Run("auditor cannot import", func(t *testing.T) {
		req := uploadRequest(t, "/v1/assessments/import", []any{"ID"})
		rec := serve(mux, withRoles(req, auth.RoleAuditor))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
