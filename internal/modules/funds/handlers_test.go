package funds

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	handler := NewHandler(newTestRegistry(t), zerolog.Nop())
	r := chi.NewRouter()
	r.Route("/api/funds", handler.RegisterRoutes)
	return r
}

func TestHandleList(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/funds/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		AsOf  string     `json:"as_of"`
		Count int        `json:"count"`
		Funds []Snapshot `json:"funds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-10-15", body.AsOf)
	assert.Equal(t, len(Families)*len(SeriesMonths), body.Count)
	assert.Len(t, body.Funds, body.Count)
}

func TestHandleListFiltered(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/funds/?reference_asset=QQQ&series_month=May", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Funds []Snapshot `json:"funds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Funds, 1)
	assert.Equal(t, "CQMB", body.Funds[0].Ticker)
}

func TestHandleGet(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/funds/CSMB", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "CSMB", snap.Ticker)
	assert.Equal(t, "deep", string(snap.BufferType))
}

func TestHandleGetUnknownTicker(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/funds/ZZZZ", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSeries(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/funds/CQMB/series", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Ticker string            `json:"ticker"`
		Points []TimeSeriesPoint `json:"points"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "CQMB", body.Ticker)
	require.NotEmpty(t, body.Points)
	assert.Equal(t, "2026-05-01", body.Points[0].Date)
}

func TestHandleExportCSV(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/funds/export?buffer_type=full", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), CSVFilename)

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	// Header plus the four full-buffer series.
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "Ticker")
	assert.Contains(t, lines[0], "Remaining Buffer (Net)")
	for _, line := range lines[1:] {
		assert.Contains(t, line, "CF")
	}
}

func TestHandleAsOf(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/funds/as-of", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-10-15", body["as_of"])
}
