package session

import (
	"time"

	"github.com/2beens/gymbros/internal/workouts"
)

// State of the session slot. Completed and Cancelled are terminal, the slot is freed on them.
type State string

const (
	StateIdle      State = "idle"
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
)

func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// Draft is the mutable, not yet persisted workout of a session.
type Draft struct {
	State                State                      `json:"state"`
	RoutineID            string                     `json:"routineId"`
	Routine              workouts.Routine           `json:"routine"`
	Exercises            []workouts.WorkoutExercise `json:"exercises"`
	CurrentExerciseIndex int                        `json:"currentExerciseIndex"`
	StartedAt            *time.Time                 `json:"startedAt,omitempty"`
	ElapsedSeconds       int64                      `json:"elapsedSeconds"`
	Notes                string                     `json:"notes,omitempty"`
}

func (d *Draft) clone() Draft {
	c := *d
	c.Routine = d.Routine.Clone()
	c.Exercises = workouts.CloneExercises(d.Exercises)
	if d.StartedAt != nil {
		t := *d.StartedAt
		c.StartedAt = &t
	}
	return c
}

// exercise finds an entry by its WorkoutExercise id, not by catalog exercise id.
func (d *Draft) exercise(entryID string) (*workouts.WorkoutExercise, error) {
	idx, ok := workouts.FindWorkoutExercise(d.Exercises, entryID)
	if !ok {
		return nil, ErrExerciseNotFound
	}
	return &d.Exercises[idx], nil
}

func setIndex(we *workouts.WorkoutExercise, setID string) (int, error) {
	for i := range we.Sets {
		if we.Sets[i].ID == setID {
			return i, nil
		}
	}
	return -1, ErrSetNotFound
}

// SetUpdate holds the set fields to change, nil fields are left as they are.
type SetUpdate struct {
	Weight *float64 `json:"weight,omitempty"`
	Reps   *int     `json:"reps,omitempty"`
	RIR    *int     `json:"rir,omitempty"`
	Notes  *string  `json:"notes,omitempty"`
}

func (u SetUpdate) apply(set workouts.ExerciseSet) workouts.ExerciseSet {
	if u.Weight != nil {
		set.Weight = *u.Weight
	}
	if u.Reps != nil {
		set.Reps = *u.Reps
	}
	if u.RIR != nil {
		set.RIR = *u.RIR
	}
	if u.Notes != nil {
		set.Notes = *u.Notes
	}
	return set
}
