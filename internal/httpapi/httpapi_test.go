package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunolopes/shiftcore/internal/resultcache"
	"github.com/brunolopes/shiftcore/internal/solver/driver"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newCachingServer(t *testing.T) *Server {
	t.Helper()
	cache, err := resultcache.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return NewServer(driver.New(log.Default()), cache, nil, log.Default())
}

func newServerNoCache(t *testing.T) *Server {
	t.Helper()
	return NewServer(driver.New(log.Default()), nil, nil, log.Default())
}

func TestSolveEndpointReturnsSchedule(t *testing.T) {
	srv := newCachingServer(t)

	body := []byte(`{
		"start": "2026-01-05",
		"end": "2026-01-07",
		"work_shifts": [{"Name": "Day", "StaffedFlag": true}],
		"holiday_types": [{"Name": "Off", "FixedQuota": false}],
		"global_max_consec": 10,
		"staff": [{"name": "Alice"}, {"name": "Bob"}],
		"req": [
			{"day": "2026-01-05", "shift": "Day", "count": 1},
			{"day": "2026-01-06", "shift": "Day", "count": 1},
			{"day": "2026-01-07", "shift": "Day", "count": 1}
		],
		"solver_timeout_secs": 10
	}`)

	req := httptest.NewRequest(http.MethodPost, "/api/solve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp["cached"].(bool))
	assert.NotEmpty(t, resp["signature"])
	schedule := resp["schedule"].(map[string]any)
	assert.Len(t, schedule["cells"], 6) // 2 staff x 3 days
}

func TestSolveEndpointServesFromCacheOnSecondCall(t *testing.T) {
	srv := newCachingServer(t)

	body := []byte(`{
		"start": "2026-01-05",
		"end": "2026-01-05",
		"work_shifts": [{"Name": "Day", "StaffedFlag": true}],
		"holiday_types": [{"Name": "Off", "FixedQuota": false}],
		"global_max_consec": 10,
		"staff": [{"name": "Alice"}],
		"req": [{"day": "2026-01-05", "shift": "Day", "count": 1}],
		"solver_timeout_secs": 10
	}`)

	for i, wantCached := range []bool{false, true} {
		req := httptest.NewRequest(http.MethodPost, "/api/solve", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "call %d: %s", i, rec.Body.String())

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, wantCached, resp["cached"], "call %d", i)
	}
}

func TestSolveEndpointRejectsMalformedConfig(t *testing.T) {
	srv := newServerNoCache(t)

	req := httptest.NewRequest(http.MethodPost, "/api/solve", bytes.NewReader([]byte(`{"start": "not-a-date"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDiagnoseEndpointReturnsCauses(t *testing.T) {
	srv := newServerNoCache(t)

	body := []byte(`{
		"start": "2026-01-05",
		"end": "2026-01-05",
		"work_shifts": [{"Name": "Day", "StaffedFlag": true}],
		"global_max_consec": 10,
		"staff": [{"name": "Alice", "able_shifts": {"Day": false}}],
		"hopes": [{"staff": "Alice", "day": "2026-01-05", "token": "Day"}],
		"solver_timeout_secs": 10
	}`)

	req := httptest.NewRequest(http.MethodPost, "/api/diagnose", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	causes := resp["causes"].([]any)
	assert.NotEmpty(t, causes)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newServerNoCache(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status": "ok"}`, string(body))
}
