package bundle_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/gymbros/internal/bundle"
	"github.com/2beens/gymbros/internal/testinternals"
	"github.com/2beens/gymbros/internal/workouts"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

var exportTime = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func seed(t *testing.T, internals *testinternals.Internals) (workouts.Routine, workouts.Workout) {
	t.Helper()
	ctx := context.Background()
	routine := testinternals.NewRoutine(internals.Faker, "bench-press", "pull-ups")
	internals.Store.AddRoutine(ctx, routine)
	w := testinternals.NewWorkout(internals.Faker, routine, time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC), 55)
	internals.Store.AddWorkout(ctx, w)
	internals.Store.SaveSettings(ctx, workouts.AppSettings{DarkMode: true, DefaultWeightUnit: workouts.WeightUnitLbs})
	return routine, w
}

func TestExport(t *testing.T) {
	internals := testinternals.NewTestingInternals()
	routine, w := seed(t, internals)

	b := bundle.Export(context.Background(), internals.Store, exportTime)
	assert.Equal(t, bundle.Version, b.Version)
	assert.Equal(t, exportTime, b.ExportDate)
	assert.Equal(t, []workouts.Routine{routine}, b.Routines)
	assert.Equal(t, []workouts.Workout{w}, b.Workouts)
	assert.True(t, b.Settings.DarkMode)

	encoded, err := bundle.Encode(b)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), "\n  \"routines\": [")
	assert.Contains(t, string(encoded), `"exportDate": "2024-05-06T07:08:09Z"`)
	assert.Contains(t, string(encoded), `"version": "1.0.0"`)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "gym-bros-backup-2024-05-06.json", bundle.FileName(exportTime))
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	source := testinternals.NewTestingInternals()
	seed(t, source)

	encoded, err := bundle.Encode(bundle.Export(ctx, source.Store, exportTime))
	require.NoError(t, err)

	target := testinternals.NewTestingInternals()
	result, err := bundle.Import(ctx, target.Store, encoded)
	require.NoError(t, err)
	assert.Equal(t, bundle.ImportResult{RoutinesImported: 1, WorkoutsImported: 1, SettingsImported: true}, result)

	assertSameJSON(t, source.Store.GetRoutines(ctx), target.Store.GetRoutines(ctx))
	assertSameJSON(t, source.Store.GetWorkouts(ctx), target.Store.GetWorkouts(ctx))
	assert.Equal(t, source.Store.GetSettings(ctx), target.Store.GetSettings(ctx))
}

func assertSameJSON(t *testing.T, expected, actual any) {
	t.Helper()
	e, err := json.Marshal(expected)
	require.NoError(t, err)
	a, err := json.Marshal(actual)
	require.NoError(t, err)
	assert.JSONEq(t, string(e), string(a))
}

func TestImport_PartialBundle(t *testing.T) {
	ctx := context.Background()
	internals := testinternals.NewTestingInternals()
	routine, _ := seed(t, internals)

	result, err := bundle.Import(ctx, internals.Store, []byte(`{"workouts": [], "settings": null}`))
	require.NoError(t, err)
	assert.Equal(t, bundle.ImportResult{}, result)

	assert.Empty(t, internals.Store.GetWorkouts(ctx))
	assert.Equal(t, []workouts.Routine{routine}, internals.Store.GetRoutines(ctx))
	assert.True(t, internals.Store.GetSettings(ctx).DarkMode)

	result, err = bundle.Import(ctx, internals.Store, []byte(`{"settings": {"darkMode": false}}`))
	require.NoError(t, err)
	assert.True(t, result.SettingsImported)
	assert.Equal(t, workouts.DefaultSettings(), internals.Store.GetSettings(ctx))
}

func TestImport_ValidationIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	internals := testinternals.NewTestingInternals()
	routine, w := seed(t, internals)

	for _, tc := range []struct {
		name  string
		data  string
		field string
	}{
		{name: "malformed", data: `{"routines": [`, field: "bundle"},
		{name: "not an object", data: `[1, 2]`, field: "bundle"},
		{name: "routines not array", data: `{"routines": {"id": "x"}}`, field: "routines"},
		{name: "invalid routine", data: `{"workouts": [], "routines": [{"id": "r1", "name": ""}]}`, field: "routines[0]"},
		{name: "invalid workout", data: `{"routines": [], "workouts": [{"id": "w1", "routineId": "r1"}]}`, field: "workouts[0]"},
		{name: "settings unit", data: `{"routines": [], "settings": {"defaultWeightUnit": "stone"}}`, field: "settings"},
		{name: "settings type", data: `{"settings": "dark"}`, field: "settings"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := bundle.Import(ctx, internals.Store, []byte(tc.data))
			require.Error(t, err)
			var validationErr *bundle.ImportValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)

			assert.Equal(t, []workouts.Routine{routine}, internals.Store.GetRoutines(ctx))
			assert.Equal(t, []workouts.Workout{w}, internals.Store.GetWorkouts(ctx))
			assert.True(t, internals.Store.GetSettings(ctx).DarkMode)
		})
	}
}

func TestHandler_ExportAndImport(t *testing.T) {
	ctx := context.Background()
	source := testinternals.NewTestingInternals()
	seed(t, source)

	r := mux.NewRouter()
	bundle.NewHandler(source.Store, func() time.Time { return exportTime }, source.MetricsManager).SetupRoutes(r, nil)

	req, err := http.NewRequest("GET", "/bundle/export", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `attachment; filename="gym-bros-backup-2024-05-06.json"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	exported := rr.Body.Bytes()

	target := testinternals.NewTestingInternals()
	tr := mux.NewRouter()
	bundle.NewHandler(target.Store, nil, target.MetricsManager).SetupRoutes(tr, nil)

	req, err = http.NewRequest("POST", "/bundle/import", bytes.NewReader(exported))
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	tr.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var result bundle.ImportResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 1, result.RoutinesImported)
	assert.Len(t, target.Store.GetWorkouts(ctx), 1)

	req, err = http.NewRequest("POST", "/bundle/import", bytes.NewReader([]byte("not json")))
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	tr.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "[bundle]")

	assert.Equal(t, 1.0, testutil.ToFloat64(target.MetricsManager.CounterImports.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(target.MetricsManager.CounterImports.WithLabelValues("invalid")))
}
