package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corgilabs/bufferscope/internal/config"
	"github.com/corgilabs/bufferscope/internal/modules/funds"
	"github.com/corgilabs/bufferscope/internal/modules/performance"
	"github.com/corgilabs/bufferscope/internal/modules/watchlists"
	"github.com/corgilabs/bufferscope/internal/testutil"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	storeDB := testutil.NewStoreDB(t)
	cacheDB := testutil.NewCacheDB(t)

	asOf := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	registry := funds.NewRegistry(asOf, zerolog.Nop())

	perfRepo := performance.NewRepository(cacheDB, zerolog.Nop())
	perfService := performance.NewService(registry, perfRepo, zerolog.Nop())

	watchlistRepo := watchlists.NewRepository(storeDB, zerolog.Nop())
	watchlistService := watchlists.NewService(watchlistRepo, registry, zerolog.Nop())

	return New(Config{
		Log: zerolog.Nop(),
		Config: &config.Config{
			DataDir:  t.TempDir(),
			Port:     8010,
			DevMode:  true,
			AsOfDate: asOf,
		},
		StoreDB:            storeDB,
		CacheDB:            cacheDB,
		Registry:           registry,
		PerformanceService: perfService,
		WatchlistRepo:      watchlistRepo,
		WatchlistService:   watchlistService,
	})
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "bufferscope", body["service"])
}

func TestModuleRoutesMounted(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{
		"/api/funds",
		"/api/funds/as-of",
		"/api/funds/CQMB",
		"/api/scenarios/CQMB",
		"/api/analysis/grid",
		"/api/performance/CQMB",
		"/api/watchlists",
		"/api/alerts",
	} {
		rec := get(t, srv, path)
		assert.Equal(t, http.StatusOK, rec.Code, "GET %s", path)
	}
}

func TestHandleDatabaseStats(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/api/system/database/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body, "store")
	require.Contains(t, body, "cache")
	assert.Equal(t, true, body["store"]["healthy"])
	assert.Greater(t, body["store"]["page_count"], float64(0))
}

func TestHandleSystemStatus(t *testing.T) {
	srv := newTestServer(t)

	rec := get(t, srv, "/api/system/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "running", body["status"])
	assert.Contains(t, body, "cpu_percent")
	assert.Contains(t, body, "ram_percent")
}

func TestBackupEndpointsUnconfigured(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/system/backup", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = get(t, srv, "/api/system/backups")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
