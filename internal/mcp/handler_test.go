package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/2beens/gymbros/internal/stats"
	"github.com/2beens/gymbros/internal/workouts"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestHandler_ListRoutinesTool(t *testing.T) {
	t.Run("returns_routines", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockcontextService(ctrl)
		svc.EXPECT().ListRoutines(gomock.Any()).Return([]workouts.Routine{{ID: "r1", Name: "Push"}}, nil)

		res, _, err := NewHandler(svc).ListRoutinesTool()(context.Background(), &mcp.CallToolRequest{}, ListRoutinesInput{})
		require.NoError(t, err)
		assert.False(t, res.IsError)

		var routines []workouts.Routine
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &routines))
		require.Len(t, routines, 1)
		assert.Equal(t, "Push", routines[0].Name)
	})

	t.Run("returns_error_when_service_fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockcontextService(ctrl)
		svc.EXPECT().ListRoutines(gomock.Any()).Return(nil, errors.New("disk gone"))

		res, _, err := NewHandler(svc).ListRoutinesTool()(context.Background(), &mcp.CallToolRequest{}, ListRoutinesInput{})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Equal(t, "Error listing routines: disk gone", resultText(t, res))
	})
}

func TestHandler_WorkoutsForTimeRangeTool(t *testing.T) {
	t.Run("invalid_from_date", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := NewHandler(NewMockcontextService(ctrl))
		res, _, err := h.WorkoutsForTimeRangeTool()(context.Background(), &mcp.CallToolRequest{}, WorkoutsTimeRangeInput{
			FromDate: "bad",
			ToDate:   "2025-01-15",
		})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Equal(t, "Invalid from_date: use YYYY-MM-DD", resultText(t, res))
	})

	t.Run("invalid_to_date", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := NewHandler(NewMockcontextService(ctrl))
		res, _, err := h.WorkoutsForTimeRangeTool()(context.Background(), &mcp.CallToolRequest{}, WorkoutsTimeRangeInput{
			FromDate: "2025-01-01",
			ToDate:   "bad",
		})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Equal(t, "Invalid to_date: use YYYY-MM-DD", resultText(t, res))
	})

	t.Run("end_of_day_inclusive", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockcontextService(ctrl)
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 1, 15, 23, 59, 59, 999999999, time.UTC)
		svc.EXPECT().ListWorkouts(gomock.Any(), from, to).Return([]workouts.Workout{{ID: "w1"}}, nil)

		res, _, err := NewHandler(svc).WorkoutsForTimeRangeTool()(context.Background(), &mcp.CallToolRequest{}, WorkoutsTimeRangeInput{
			FromDate: "2025-01-01",
			ToDate:   "2025-01-15",
		})
		require.NoError(t, err)
		assert.False(t, res.IsError)
		assert.Contains(t, resultText(t, res), `"id": "w1"`)
	})

	t.Run("returns_error_when_service_fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := NewMockcontextService(ctrl)
		svc.EXPECT().ListWorkouts(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("bad range"))

		res, _, err := NewHandler(svc).WorkoutsForTimeRangeTool()(context.Background(), &mcp.CallToolRequest{}, WorkoutsTimeRangeInput{
			FromDate: "2025-01-15",
			ToDate:   "2025-01-01",
		})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Equal(t, "Error listing workouts: bad range", resultText(t, res))
	})
}

func TestHandler_LastExerciseDataTool(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockcontextService(ctrl)
	svc.EXPECT().LastExerciseData(gomock.Any(), "r1", "bench-press").
		Return(&workouts.LastSetData{Weight: 60, Reps: 8, RIR: 1, WeightUnit: workouts.WeightUnitKg}, true, nil)
	svc.EXPECT().LastExerciseData(gomock.Any(), "r1", "squat").Return(nil, false, nil)

	h := NewHandler(svc)
	res, _, err := h.LastExerciseDataTool()(context.Background(), &mcp.CallToolRequest{}, LastExerciseDataInput{RoutineID: "r1", ExerciseID: "bench-press"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"found": true, "data": {"weight": 60, "reps": 8, "rir": 1, "weightUnit": "kg"}}`, resultText(t, res))

	res, _, err = h.LastExerciseDataTool()(context.Background(), &mcp.CallToolRequest{}, LastExerciseDataInput{RoutineID: "r1", ExerciseID: "squat"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"found": false}`, resultText(t, res))
}

func TestHandler_GeneralStatsTool(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockcontextService(ctrl)
	svc.EXPECT().GeneralStats(gomock.Any()).Return(stats.GeneralStats{TotalWorkouts: 4, AvgDuration: 50}, nil)
	svc.EXPECT().GeneralStats(gomock.Any()).Return(stats.GeneralStats{}, errors.New("boom"))

	h := NewHandler(svc)
	res, _, err := h.GeneralStatsTool()(context.Background(), &mcp.CallToolRequest{}, GeneralStatsInput{})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"totalWorkouts": 4`)

	res, _, err = h.GeneralStatsTool()(context.Background(), &mcp.CallToolRequest{}, GeneralStatsInput{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "Error computing stats: boom", resultText(t, res))
}

func TestHandler_ExerciseCatalogTool(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockcontextService(ctrl)
	svc.EXPECT().ExerciseCatalog(gomock.Any(), "Legs", "squat").
		Return([]workouts.Exercise{{ID: "squat", Name: "Squat", Category: "Legs"}}, nil)

	res, _, err := NewHandler(svc).ExerciseCatalogTool()(context.Background(), &mcp.CallToolRequest{}, ExerciseCatalogInput{Category: "Legs", Query: "squat"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"id": "squat"`)
}
