package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHealthz(t *testing.T) {
	mux := http.NewServeMux()
	NewHealthHandler(testLogger(), nil).RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, ServiceName, body.Service)
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name           string
		dbErr          error
		expectedCode   int
		expectedStatus string
		expectedCheck  string
	}{
		{"database reachable", nil, http.StatusOK, "ready", "ok"},
		{"database down", errors.New("connection refused"), http.StatusServiceUnavailable, "not ready", "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			NewHealthHandler(testLogger(), map[string]Pinger{
				"database": PingerFunc(func(context.Context) error { return tt.dbErr }),
			}).RegisterRoutes(mux)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			require.Equal(t, tt.expectedCode, rec.Code)
			var body ReadinessResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.expectedStatus, body.Status)
			assert.Equal(t, tt.expectedCheck, body.Checks["database"])
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}
