package session

import (
	"context"
	"fmt"
	"sort"

	"github.com/2beens/gymbros/internal/telemetry/tracing"
	"github.com/2beens/gymbros/internal/workouts"

	"go.opentelemetry.io/otel/attribute"
)

// SetPolicy picks, out of the sets an exercise had in a past workout, the one used to pre-fill
// the next session.
type SetPolicy interface {
	Name() string
	Pick(sets []workouts.ExerciseSet) (workouts.ExerciseSet, bool)
}

// FirstSetPolicy takes the first set, usually the top (working) set.
type FirstSetPolicy struct{}

func (FirstSetPolicy) Name() string { return "first" }

func (FirstSetPolicy) Pick(sets []workouts.ExerciseSet) (workouts.ExerciseSet, bool) {
	if len(sets) == 0 {
		return workouts.ExerciseSet{}, false
	}
	return sets[0], true
}

// BestSetPolicy takes the heaviest set, more reps break ties, then the earlier set wins.
type BestSetPolicy struct{}

func (BestSetPolicy) Name() string { return "best" }

func (BestSetPolicy) Pick(sets []workouts.ExerciseSet) (workouts.ExerciseSet, bool) {
	if len(sets) == 0 {
		return workouts.ExerciseSet{}, false
	}
	best := sets[0]
	for _, s := range sets[1:] {
		if s.Weight > best.Weight || (s.Weight == best.Weight && s.Reps > best.Reps) {
			best = s
		}
	}
	return best, true
}

// LastSetPolicy takes the last set done.
type LastSetPolicy struct{}

func (LastSetPolicy) Name() string { return "last" }

func (LastSetPolicy) Pick(sets []workouts.ExerciseSet) (workouts.ExerciseSet, bool) {
	if len(sets) == 0 {
		return workouts.ExerciseSet{}, false
	}
	return sets[len(sets)-1], true
}

func PolicyByName(name string) (SetPolicy, error) {
	switch name {
	case "", "first":
		return FirstSetPolicy{}, nil
	case "best":
		return BestSetPolicy{}, nil
	case "last":
		return LastSetPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown set policy: %s", name)
	}
}

// LastWorkoutDataForExercise looks through the workouts done from routineID, newest first,
// and returns the set the policy picks from the first one whose first entry of the exercise
// has at least one set.
// Workouts with equal dates keep their store order.
func (m *Manager) LastWorkoutDataForExercise(ctx context.Context, exerciseID, routineID string) (*workouts.LastSetData, bool) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.progression.lookup")
	defer span.End()
	span.SetAttributes(
		attribute.String("exercise.id", exerciseID),
		attribute.String("routine.id", routineID),
	)

	history := m.store.GetWorkoutsByRoutine(ctx, routineID)
	return lastSetData(history, exerciseID, m.policy)
}

func lastSetData(history []workouts.Workout, exerciseID string, policy SetPolicy) (*workouts.LastSetData, bool) {
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.After(history[j].Date)
	})

	for _, w := range history {
		// only the first entry of the exercise counts, an empty one moves on to an older workout
		idx, ok := workouts.FindExercise(w.Exercises, exerciseID)
		if !ok {
			continue
		}
		we := w.Exercises[idx]
		set, ok := policy.Pick(we.Sets)
		if !ok {
			continue
		}
		return &workouts.LastSetData{
			Weight:     set.Weight,
			Reps:       set.Reps,
			RIR:        set.RIR,
			WeightUnit: we.WeightUnit,
		}, true
	}
	return nil, false
}

// buildDraftExercises deep copies the routine exercises and pre-fills the first set of each
// from history. Only weight, reps and rir of that set (and the exercise weight unit) change.
func (m *Manager) buildDraftExercises(ctx context.Context, routine workouts.Routine) []workouts.WorkoutExercise {
	history := m.store.GetWorkoutsByRoutine(ctx, routine.ID)

	exercises := workouts.CloneExercises(routine.Exercises)
	if exercises == nil {
		exercises = make([]workouts.WorkoutExercise, 0)
	}
	entryIDs := make(map[string]bool, len(exercises))
	for i := range exercises {
		we := &exercises[i]
		// edits address entries by id, so every entry needs its own
		if we.ID == "" || entryIDs[we.ID] {
			we.ID = m.newID()
		}
		entryIDs[we.ID] = true
		if len(we.Sets) == 0 {
			we.Sets = []workouts.ExerciseSet{m.newSet()}
		}

		last, ok := lastSetData(history, we.ExerciseID, m.policy)
		if !ok {
			continue
		}
		we.Sets[0].Weight = last.Weight
		we.Sets[0].Reps = last.Reps
		we.Sets[0].RIR = last.RIR
		we.WeightUnit = last.WeightUnit
	}
	return exercises
}
