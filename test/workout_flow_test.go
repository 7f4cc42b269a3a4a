package test

import (
	"context"
	"io"
	"net/http"

	"github.com/2beens/gymbros/internal/bundle"
	"github.com/2beens/gymbros/internal/session"
	"github.com/2beens/gymbros/internal/stats"
	"github.com/2beens/gymbros/internal/testinternals"
	"github.com/2beens/gymbros/internal/workouts"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *EndToEndTestSuite) addRoutine(ctx context.Context, exerciseIDs ...string) workouts.Routine {
	t := s.T()
	routine := testinternals.NewRoutine(gofakeit.New(11), exerciseIDs...)

	resp := s.do(ctx, http.MethodPost, "/routines", routine)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[workouts.Routine](t, resp)
}

func (s *EndToEndTestSuite) TestWorkoutSession_PrefillsFromLastWorkout() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	routine := s.addRoutine(ctx, "bench-press", "squat")

	resp := s.do(ctx, http.MethodGet, "/progression/"+routine.ID+"/exercise/bench-press", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	progression := decodeBody[session.ProgressionResponse](t, resp)
	assert.False(t, progression.Found)

	// first session: log 80 x 5 @ 2 on the first bench set
	resp = s.do(ctx, http.MethodPost, "/session/start/"+routine.ID, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	draft := decodeBody[session.Draft](t, resp)
	assert.Equal(t, session.StateIdle, draft.State)

	resp = s.do(ctx, http.MethodPost, "/session/begin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	bench := draft.Exercises[0]
	resp = s.do(ctx, http.MethodPut, "/session/exercise/"+bench.ID+"/sets/"+bench.Sets[0].ID, `{"weight": 80, "reps": 5, "rir": 2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(ctx, http.MethodPut, "/session/notes", `{"notes": "felt strong"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(ctx, http.MethodPost, "/session/complete", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	workout := decodeBody[workouts.Workout](t, resp)
	assert.Equal(t, routine.ID, workout.RoutineID)
	assert.Equal(t, "felt strong", workout.Notes)
	require.NotNil(t, workout.Duration)

	resp = s.do(ctx, http.MethodGet, "/session", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(ctx, http.MethodGet, "/progression/"+routine.ID+"/exercise/bench-press", nil)
	progression = decodeBody[session.ProgressionResponse](t, resp)
	require.True(t, progression.Found)
	assert.Equal(t, 80.0, progression.Data.Weight)
	assert.Equal(t, 5, progression.Data.Reps)
	assert.Equal(t, 2, progression.Data.RIR)

	// second session starts from what was done last time
	resp = s.do(ctx, http.MethodPost, "/session/start/"+routine.ID, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	draft = decodeBody[session.Draft](t, resp)
	first := draft.Exercises[0].Sets[0]
	assert.Equal(t, 80.0, first.Weight)
	assert.Equal(t, 5, first.Reps)
	assert.Equal(t, 2, first.RIR)

	// only one session at a time
	resp = s.do(ctx, http.MethodPost, "/session/start/"+routine.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(ctx, http.MethodPost, "/session/cancel", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(ctx, http.MethodGet, "/stats/general", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	general := decodeBody[stats.GeneralStats](t, resp)
	assert.Equal(t, 1, general.TotalWorkouts)
	assert.Equal(t, 2, general.TotalExercises)

	resp = s.do(ctx, http.MethodGet, "/stats/streak", nil)
	streak := decodeBody[stats.StreakResponse](t, resp)
	assert.Equal(t, 1, streak.Days)

	resp = s.do(ctx, http.MethodGet, "/stats/progress/bench-press", nil)
	progress := decodeBody[[]stats.WeightPoint](t, resp)
	require.Len(t, progress, 1)
	assert.Equal(t, workout.ID, progress[0].WorkoutID)
}

func (s *EndToEndTestSuite) TestData_SurvivesRestart() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	routine := s.addRoutine(ctx, "deadlift")

	resp := s.do(ctx, http.MethodPut, "/settings", `{"darkMode": true, "defaultWeightUnit": "lbs"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	s.restartServer()

	resp = s.do(ctx, http.MethodGet, "/routines", nil)
	routines := decodeBody[[]workouts.Routine](t, resp)
	require.Len(t, routines, 1)
	assert.Equal(t, routine.ID, routines[0].ID)

	resp = s.do(ctx, http.MethodGet, "/settings", nil)
	settings := decodeBody[workouts.AppSettings](t, resp)
	assert.True(t, settings.DarkMode)
	assert.Equal(t, workouts.WeightUnitLbs, settings.DefaultWeightUnit)
}

func (s *EndToEndTestSuite) TestBundle_ExportClearImport() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	routine := s.addRoutine(ctx, "pull-ups", "lat-pulldown")

	resp := s.do(ctx, http.MethodGet, "/bundle/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "gym-bros-backup-")
	exported, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	resp = s.do(ctx, http.MethodDelete, "/data", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(ctx, http.MethodGet, "/routines", nil)
	assert.Empty(t, decodeBody[[]workouts.Routine](t, resp))

	// a broken bundle changes nothing
	resp = s.do(ctx, http.MethodPost, "/bundle/import", `{"routines": [{"id": "", "name": "bad"}]}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(ctx, http.MethodPost, "/bundle/import", string(exported))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeBody[bundle.ImportResult](t, resp)
	assert.Equal(t, 1, result.RoutinesImported)
	assert.Equal(t, 0, result.WorkoutsImported)
	assert.True(t, result.SettingsImported)

	resp = s.do(ctx, http.MethodGet, "/routines/"+routine.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	restored := decodeBody[workouts.Routine](t, resp)
	assert.Equal(t, routine.Name, restored.Name)
}

func (s *EndToEndTestSuite) TestCors() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()

	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, serverEndpoint+"/routines", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, serverEndpoint+"/routines", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example.com")
	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
