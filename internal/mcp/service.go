package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/gymbros/internal/stats"
	"github.com/2beens/gymbros/internal/workouts"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=mcp

// dataStore is the read side of the workouts store.
type dataStore interface {
	Reload(ctx context.Context)
	GetRoutines(ctx context.Context) []workouts.Routine
	GetWorkoutsByDateRange(ctx context.Context, start, end time.Time) []workouts.Workout
}

type progressionLookup interface {
	LastWorkoutDataForExercise(ctx context.Context, exerciseID, routineID string) (*workouts.LastSetData, bool)
}

type statsAnalyzer interface {
	General(ctx context.Context) (stats.GeneralStats, error)
}

type exerciseCatalog interface {
	All() []workouts.Exercise
	ByCategory(category string) []workouts.Exercise
	Search(query string) []workouts.Exercise
}

// contextService provides the gymbros data exposed as MCP tools.
// Used by Handler for testability.
type contextService interface {
	ListRoutines(ctx context.Context) ([]workouts.Routine, error)
	ListWorkouts(ctx context.Context, from, to time.Time) ([]workouts.Workout, error)
	LastExerciseData(ctx context.Context, routineID, exerciseID string) (*workouts.LastSetData, bool, error)
	GeneralStats(ctx context.Context) (stats.GeneralStats, error)
	ExerciseCatalog(ctx context.Context, category, query string) ([]workouts.Exercise, error)
}

type NewContextServiceParams struct {
	Store       dataStore
	Progression progressionLookup
	Analyzer    statsAnalyzer
	Catalog     exerciseCatalog
	// ReloadOnRead makes every call re-read the store from its backend. Needed when another
	// process (the HTTP service) owns the writes.
	ReloadOnRead bool
}

// ContextService holds dependencies and implements the read-only tools logic.
type ContextService struct {
	store        dataStore
	progression  progressionLookup
	analyzer     statsAnalyzer
	catalog      exerciseCatalog
	reloadOnRead bool
}

func NewContextService(params NewContextServiceParams) *ContextService {
	return &ContextService{
		store:        params.Store,
		progression:  params.Progression,
		analyzer:     params.Analyzer,
		catalog:      params.Catalog,
		reloadOnRead: params.ReloadOnRead,
	}
}

func (s *ContextService) refresh(ctx context.Context) {
	if s.reloadOnRead {
		s.store.Reload(ctx)
	}
}

func (s *ContextService) ListRoutines(ctx context.Context) ([]workouts.Routine, error) {
	s.refresh(ctx)
	return s.store.GetRoutines(ctx), nil
}

// ListWorkouts returns the workouts done between from and to, both inclusive.
func (s *ContextService) ListWorkouts(ctx context.Context, from, to time.Time) ([]workouts.Workout, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("range end %s is before its start %s", to.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	s.refresh(ctx)
	return s.store.GetWorkoutsByDateRange(ctx, from, to), nil
}

func (s *ContextService) LastExerciseData(ctx context.Context, routineID, exerciseID string) (*workouts.LastSetData, bool, error) {
	if routineID == "" || exerciseID == "" {
		return nil, false, fmt.Errorf("routine id and exercise id are required")
	}
	s.refresh(ctx)
	data, found := s.progression.LastWorkoutDataForExercise(ctx, exerciseID, routineID)
	return data, found, nil
}

func (s *ContextService) GeneralStats(ctx context.Context) (stats.GeneralStats, error) {
	s.refresh(ctx)
	return s.analyzer.General(ctx)
}

// ExerciseCatalog filters the catalog by category and/or name query. With neither, all entries are returned.
func (s *ContextService) ExerciseCatalog(_ context.Context, category, query string) ([]workouts.Exercise, error) {
	var list []workouts.Exercise
	switch {
	case query != "":
		list = s.catalog.Search(query)
		if category != "" {
			filtered := list[:0]
			for _, ex := range list {
				if strings.EqualFold(ex.Category, category) {
					filtered = append(filtered, ex)
				}
			}
			list = filtered
		}
	case category != "":
		list = s.catalog.ByCategory(category)
	default:
		list = s.catalog.All()
	}
	if list == nil {
		list = make([]workouts.Exercise, 0)
	}
	return list, nil
}
