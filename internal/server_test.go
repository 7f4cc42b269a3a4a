package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/2beens/gymbros/internal/config"
	"github.com/2beens/gymbros/internal/testinternals"
	"github.com/2beens/gymbros/internal/workouts"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper"))
}

func testConfig() *config.Config {
	return &config.Config{
		Host:                   "localhost",
		Port:                   9000,
		PrometheusMetricsHost:  "localhost",
		PrometheusMetricsPort:  "2112",
		StorageDriver:          config.StorageDriverMemory,
		ProgressionPolicy:      "best",
		RateLimitAllowedPerMin: 10,
	}
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	s, err := NewServer(context.Background(), NewServerParams{
		Config:      testConfig(),
		VersionInfo: "test-version",
	})
	require.NoError(t, err)

	router, err := s.routerSetup()
	require.NoError(t, err)

	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		require.NoError(t, s.backend.Close())
	})
	return s, ts
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestNewServer_UnknownPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.ProgressionPolicy = "heaviest-ever"

	s, err := NewServer(context.Background(), NewServerParams{Config: cfg})
	require.Error(t, err)
	assert.Nil(t, s)
}

func TestNewServer_MemoryDriverHasNoRateLimiter(t *testing.T) {
	s, _ := newTestServer(t)
	assert.Nil(t, s.redisClient)
	assert.Equal(t, "best", s.sessionManager.Policy().Name())
}

func TestServer_Health(t *testing.T) {
	_, ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "test-version", health.Version)
	assert.Equal(t, "memory", health.StorageDriver)
	assert.Equal(t, "none", health.SessionState)
	assert.Empty(t, health.LastWriteError)
}

func TestServer_UnknownPath(t *testing.T) {
	_, ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/no-such-thing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_SessionFlow(t *testing.T) {
	s, ts := newTestServer(t)
	internals := testinternals.NewTestingInternals()
	routine := testinternals.NewRoutine(internals.Faker, "bench-press", "squat")

	resp := doJSON(t, http.MethodPost, ts.URL+"/routines", routine)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/session/start/"+routine.ID, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/health", nil)
	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "idle", health.SessionState)

	resp = doJSON(t, http.MethodPost, ts.URL+"/session/begin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, ts.URL+"/session/complete", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var workout workouts.Workout
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&workout))
	assert.Equal(t, routine.ID, workout.RoutineID)

	resp = doJSON(t, http.MethodGet, ts.URL+"/routines/"+routine.ID+"/workouts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []workouts.Workout
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	require.Len(t, history, 1)
	assert.Equal(t, workout.ID, history[0].ID)

	assert.Equal(t, float64(1), testutil.ToFloat64(s.metricsManager.CounterSessions.WithLabelValues("completed")))
	// add routine, start, complete
	assert.Equal(t, float64(3), testutil.ToFloat64(s.metricsManager.CounterRequests.WithLabelValues("POST", "201")))
}

func TestServer_ClearAll(t *testing.T) {
	s, ts := newTestServer(t)
	internals := testinternals.NewTestingInternals()
	routine := testinternals.NewRoutine(internals.Faker, "deadlift")

	resp := doJSON(t, http.MethodPost, ts.URL+"/routines", routine)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, s.store.GetRoutines(context.Background()), 1)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/data", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, s.store.GetRoutines(context.Background()))
}

func TestServer_connStateMetrics(t *testing.T) {
	s, _ := newTestServer(t)
	gauge := s.metricsManager.GaugeRequests
	before := testutil.ToFloat64(gauge)

	s.connStateMetrics(nil, http.StateNew)
	s.connStateMetrics(nil, http.StateNew)
	s.connStateMetrics(nil, http.StateActive)
	assert.Equal(t, before+2, testutil.ToFloat64(gauge))

	s.connStateMetrics(nil, http.StateClosed)
	assert.Equal(t, before+1, testutil.ToFloat64(gauge))
}
