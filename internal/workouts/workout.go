package workouts

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRoutine    = errors.New("invalid routine")
	ErrInvalidWorkout    = errors.New("invalid workout")
	ErrInvalidWeightUnit = errors.New("invalid weight unit")
	ErrInvalidSet        = errors.New("invalid exercise set")
)

// WeightUnit can be one of:
//   - kg
//   - lbs
type WeightUnit string

const (
	WeightUnitKg  WeightUnit = "kg"
	WeightUnitLbs WeightUnit = "lbs"
)

func (wu WeightUnit) String() string {
	return string(wu)
}

func (wu WeightUnit) IsValid() bool {
	switch wu {
	case WeightUnitKg, WeightUnitLbs:
		return true
	default:
		return false
	}
}

// Exercise is a catalog entry, reference data only.
type Exercise struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	MuscleGroups []string `json:"muscleGroups"`
	Equipment    string   `json:"equipment,omitempty"`
}

// ExerciseSet is one performed (or planned) set.
// RIR - reps in reserve, conventionally 0-10.
type ExerciseSet struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
	RIR    int     `json:"rir"`
	Notes  string  `json:"notes,omitempty"`
}

// WorkoutExercise binds an Exercise to its sets. All the sets share the same weight unit.
type WorkoutExercise struct {
	ID         string        `json:"id"`
	ExerciseID string        `json:"exerciseId"`
	Exercise   Exercise      `json:"exercise"`
	Sets       []ExerciseSet `json:"sets"`
	WeightUnit WeightUnit    `json:"weightUnit"`
}

// Routine is a reusable workout template. Set values are targets, not performance.
type Routine struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Exercises   []WorkoutExercise `json:"exercises"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// Workout is one completed performance of a Routine.
// Routine holds a snapshot of the routine taken when the session was started, so the
// history stays valid after the routine itself is changed or deleted.
type Workout struct {
	ID        string            `json:"id"`
	RoutineID string            `json:"routineId"`
	Routine   Routine           `json:"routine"`
	Exercises []WorkoutExercise `json:"exercises"`
	Date      time.Time         `json:"date"`
	Duration  *int              `json:"duration,omitempty"` // minutes
	Notes     string            `json:"notes,omitempty"`
}

type AppSettings struct {
	DarkMode          bool       `json:"darkMode"`
	DefaultWeightUnit WeightUnit `json:"defaultWeightUnit"`
}

// LastSetData is what the progression lookup found for an exercise.
type LastSetData struct {
	Weight     float64    `json:"weight"`
	Reps       int        `json:"reps"`
	RIR        int        `json:"rir"`
	WeightUnit WeightUnit `json:"weightUnit"`
}

func DefaultSettings() AppSettings {
	return AppSettings{
		DarkMode:          false,
		DefaultWeightUnit: WeightUnitKg,
	}
}

func NewID() string {
	return uuid.NewString()
}

func (s ExerciseSet) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidSet)
	}
	if s.Weight < 0 {
		return fmt.Errorf("%w: negative weight %v", ErrInvalidSet, s.Weight)
	}
	if s.Reps < 0 {
		return fmt.Errorf("%w: negative reps %d", ErrInvalidSet, s.Reps)
	}
	if s.RIR < 0 {
		return fmt.Errorf("%w: negative rir %d", ErrInvalidSet, s.RIR)
	}
	return nil
}

func (we WorkoutExercise) Validate() error {
	if we.ExerciseID == "" {
		return errors.New("exercise id empty")
	}
	if !we.WeightUnit.IsValid() {
		return fmt.Errorf("%w: [%s]", ErrInvalidWeightUnit, we.WeightUnit)
	}
	if len(we.Sets) == 0 {
		return fmt.Errorf("exercise [%s] has no sets", we.ExerciseID)
	}
	for _, s := range we.Sets {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("exercise [%s]: %w", we.ExerciseID, err)
		}
	}
	return nil
}

func (r Routine) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRoutine)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidRoutine)
	}
	for _, we := range r.Exercises {
		if err := we.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRoutine, err)
		}
	}
	return nil
}

func (w Workout) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidWorkout)
	}
	if w.RoutineID == "" {
		return fmt.Errorf("%w: empty routine id", ErrInvalidWorkout)
	}
	if w.Date.IsZero() {
		return fmt.Errorf("%w: date not set", ErrInvalidWorkout)
	}
	if w.Duration != nil && *w.Duration < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidWorkout)
	}
	for _, we := range w.Exercises {
		if err := we.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidWorkout, err)
		}
	}
	return nil
}

func (s AppSettings) Validate() error {
	if !s.DefaultWeightUnit.IsValid() {
		return fmt.Errorf("%w: [%s]", ErrInvalidWeightUnit, s.DefaultWeightUnit)
	}
	return nil
}

// FindExercise returns the index of the first exercise with the given exercise (catalog) id.
func FindExercise(exercises []WorkoutExercise, exerciseID string) (int, bool) {
	for i := range exercises {
		if exercises[i].ExerciseID == exerciseID {
			return i, true
		}
	}
	return -1, false
}

// FindWorkoutExercise returns the index of the entry with the given id. A routine can hold the
// same catalog exercise more than once, the entry id tells them apart.
func FindWorkoutExercise(exercises []WorkoutExercise, id string) (int, bool) {
	for i := range exercises {
		if exercises[i].ID == id {
			return i, true
		}
	}
	return -1, false
}
