package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-collector/internal/domain"
)

type stubReadiness struct {
	err error
}

func (s *stubReadiness) CheckReadiness(_ context.Context) error { return s.err }

type stubRuns struct {
	summary domain.RunSummary
	ok      bool
}

func (s *stubRuns) LastRun() (domain.RunSummary, bool) { return s.summary, s.ok }

func testServer(ready *stubReadiness, runs *stubRuns) *Server {
	return NewServer(":0", ready, runs,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func doRequest(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	srv := testServer(&stubReadiness{}, &stubRuns{})

	rec := doRequest(t, srv, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestServer_Ready(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "ready", err: nil, wantStatus: http.StatusOK},
		{name: "not ready", err: errors.New("no successful run yet"), wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testServer(&stubReadiness{err: tt.err}, &stubRuns{})

			rec := doRequest(t, srv, "/readyz")

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestServer_LastRun_NoneYet(t *testing.T) {
	srv := testServer(&stubReadiness{}, &stubRuns{ok: false})

	rec := doRequest(t, srv, "/lastrun")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_LastRun(t *testing.T) {
	start := time.Date(2026, 1, 15, 18, 0, 0, 0, time.UTC)
	summary := domain.RunSummary{
		RunID:             "a5e74f5e-6fb1-4f2e-9f43-2a4d9c90f001",
		ExecutionStart:    start,
		ExecutionEnd:      start.Add(20 * time.Second),
		ProcessedCount:    13,
		FailedCount:       1,
		SuccessfulRegions: []string{"Phoenix_AZ"},
		FailedRegions:     []domain.RegionFailure{{Region: "Anchorage_AK", Error: "resolve grid point: timeout"}},
	}
	srv := testServer(&stubReadiness{}, &stubRuns{summary: summary, ok: true})

	rec := doRequest(t, srv, "/lastrun")

	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.RunSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, summary.RunID, got.RunID)
	assert.Equal(t, 13, got.ProcessedCount)
	assert.Equal(t, 1, got.FailedCount)
	require.Len(t, got.FailedRegions, 1)
	assert.Equal(t, "Anchorage_AK", got.FailedRegions[0].Region)
}

func TestServer_UnknownRoute(t *testing.T) {
	srv := testServer(&stubReadiness{}, &stubRuns{})

	rec := doRequest(t, srv, "/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
