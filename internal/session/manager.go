package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/2beens/gymbros/internal/telemetry/metrics"
	"github.com/2beens/gymbros/internal/telemetry/tracing"
	"github.com/2beens/gymbros/internal/workouts"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrInvalidSessionState = errors.New("invalid session state")
	ErrSessionInProgress   = errors.New("a session is already in progress")
	ErrRoutineNotFound     = errors.New("routine not found")
	ErrNotFound            = errors.New("not found")
	ErrExerciseNotFound    = fmt.Errorf("exercise %w", ErrNotFound)
	ErrSetNotFound         = fmt.Errorf("set %w", ErrNotFound)
	ErrLastSet             = errors.New("an exercise must keep at least one set")
)

// workoutsStore is the part of the data store the session manager needs.
type workoutsStore interface {
	GetRoutine(ctx context.Context, id string) (workouts.Routine, bool)
	GetWorkoutsByRoutine(ctx context.Context, routineID string) []workouts.Workout
	AddWorkout(ctx context.Context, workout workouts.Workout)
}

type NewManagerParams struct {
	Store          workoutsStore
	Policy         SetPolicy
	Clock          func() time.Time
	NewID          func() string
	MetricsManager *metrics.Manager
}

// Manager owns the single session slot: at most one non-terminal draft exists at a time.
type Manager struct {
	store          workoutsStore
	policy         SetPolicy
	clock          func() time.Time
	newID          func() string
	metricsManager *metrics.Manager

	mutex sync.Mutex
	draft *Draft
}

func NewManager(params NewManagerParams) *Manager {
	m := &Manager{
		store:          params.Store,
		policy:         params.Policy,
		clock:          params.Clock,
		newID:          params.NewID,
		metricsManager: params.MetricsManager,
	}
	if m.policy == nil {
		m.policy = FirstSetPolicy{}
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	if m.newID == nil {
		m.newID = workouts.NewID
	}
	return m
}

func (m *Manager) Policy() SetPolicy {
	return m.policy
}

// newSet returns a zero valued set with a fresh id.
func (m *Manager) newSet() workouts.ExerciseSet {
	return workouts.ExerciseSet{ID: m.newID()}
}

func (m *Manager) countEvent(event string) {
	if m.metricsManager == nil {
		return
	}
	m.metricsManager.CounterSessions.WithLabelValues(event).Inc()
}

func (m *Manager) setActiveGauge(v float64) {
	if m.metricsManager == nil {
		return
	}
	m.metricsManager.GaugeActiveSession.Set(v)
}

// StartSession builds a pre-filled Idle draft from the routine.
func (m *Manager) StartSession(ctx context.Context, routineID string) (draft Draft, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.start")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routineID))

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.draft != nil {
		return Draft{}, fmt.Errorf("%w: %w", ErrInvalidSessionState, ErrSessionInProgress)
	}

	routine, ok := m.store.GetRoutine(ctx, routineID)
	if !ok {
		return Draft{}, fmt.Errorf("%w: %w: %s", ErrInvalidSessionState, ErrRoutineNotFound, routineID)
	}

	m.draft = &Draft{
		State:     StateIdle,
		RoutineID: routine.ID,
		Routine:   routine.Clone(),
		Exercises: m.buildDraftExercises(ctx, routine),
	}
	m.countEvent("started")
	m.setActiveGauge(1)
	log.Debugf("session started for routine %s [%s]", routine.ID, routine.Name)

	return m.current(), nil
}

// Begin moves the Idle draft to Active and records the start time.
func (m *Manager) Begin() (Draft, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.draft == nil || m.draft.State != StateIdle {
		return Draft{}, fmt.Errorf("%w: begin needs an idle session", ErrInvalidSessionState)
	}

	startedAt := m.clock()
	m.draft.State = StateActive
	m.draft.StartedAt = &startedAt
	m.countEvent("begun")

	return m.current(), nil
}

// edit runs fn on the draft if it is Active. fn must not leave the draft half changed on error.
func (m *Manager) edit(fn func(d *Draft) error) (Draft, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.draft == nil || m.draft.State != StateActive {
		return Draft{}, ErrInvalidSessionState
	}
	if err := fn(m.draft); err != nil {
		return Draft{}, err
	}
	return m.current(), nil
}

// AddSet appends a zero valued set to the draft entry.
func (m *Manager) AddSet(entryID string) (Draft, error) {
	return m.edit(func(d *Draft) error {
		we, err := d.exercise(entryID)
		if err != nil {
			return err
		}
		we.Sets = append(we.Sets, m.newSet())
		return nil
	})
}

// RemoveSet removes the set, unless it is the last one of the entry. In that case nothing
// changes and false is returned.
func (m *Manager) RemoveSet(entryID, setID string) (bool, error) {
	removed := false
	_, err := m.edit(func(d *Draft) error {
		we, err := d.exercise(entryID)
		if err != nil {
			return err
		}
		idx, err := setIndex(we, setID)
		if err != nil {
			return err
		}
		if len(we.Sets) <= 1 {
			return nil
		}
		we.Sets = append(we.Sets[:idx], we.Sets[idx+1:]...)
		removed = true
		return nil
	})
	return removed, err
}

func (m *Manager) UpdateSet(entryID, setID string, update SetUpdate) (Draft, error) {
	return m.edit(func(d *Draft) error {
		we, err := d.exercise(entryID)
		if err != nil {
			return err
		}
		idx, err := setIndex(we, setID)
		if err != nil {
			return err
		}
		updated := update.apply(we.Sets[idx])
		if err := updated.Validate(); err != nil {
			return err
		}
		we.Sets[idx] = updated
		return nil
	})
}

func (m *Manager) SetWeightUnit(entryID string, unit workouts.WeightUnit) (Draft, error) {
	return m.edit(func(d *Draft) error {
		if !unit.IsValid() {
			return fmt.Errorf("%w: [%s]", workouts.ErrInvalidWeightUnit, unit)
		}
		we, err := d.exercise(entryID)
		if err != nil {
			return err
		}
		we.WeightUnit = unit
		return nil
	})
}

// NextExercise moves the view to the next exercise, staying on the last one.
func (m *Manager) NextExercise() (Draft, error) {
	return m.edit(func(d *Draft) error {
		if d.CurrentExerciseIndex < len(d.Exercises)-1 {
			d.CurrentExerciseIndex++
		}
		return nil
	})
}

// PrevExercise moves the view to the previous exercise, staying on the first one.
func (m *Manager) PrevExercise() (Draft, error) {
	return m.edit(func(d *Draft) error {
		if d.CurrentExerciseIndex > 0 {
			d.CurrentExerciseIndex--
		}
		return nil
	})
}

func (m *Manager) SetNotes(notes string) (Draft, error) {
	return m.edit(func(d *Draft) error {
		d.Notes = notes
		return nil
	})
}

// Complete turns the Active draft into a Workout, saves it, and frees the slot.
// Duration is the elapsed time in whole minutes, the workout date is the session start.
func (m *Manager) Complete(ctx context.Context) (workout workouts.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.complete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.draft == nil || m.draft.State != StateActive || m.draft.StartedAt == nil {
		return workouts.Workout{}, fmt.Errorf("%w: complete needs an active session", ErrInvalidSessionState)
	}

	startedAt := *m.draft.StartedAt
	elapsed := m.clock().Sub(startedAt)
	duration := int(math.Floor(elapsed.Minutes()))
	if duration < 0 {
		duration = 0
	}

	workout = workouts.Workout{
		ID:        m.newID(),
		RoutineID: m.draft.RoutineID,
		Routine:   m.draft.Routine.Clone(),
		Exercises: workouts.CloneExercises(m.draft.Exercises),
		Date:      startedAt,
		Duration:  &duration,
		Notes:     m.draft.Notes,
	}
	if workout.Exercises == nil {
		workout.Exercises = make([]workouts.WorkoutExercise, 0)
	}

	m.store.AddWorkout(ctx, workout)
	m.draft.State = StateCompleted
	m.draft = nil

	m.countEvent("completed")
	m.setActiveGauge(0)
	if m.metricsManager != nil {
		m.metricsManager.HistogramWorkoutDurations.Observe(float64(duration))
	}
	span.SetAttributes(
		attribute.String("workout.id", workout.ID),
		attribute.Int("workout.duration", duration),
	)
	log.Debugf("session completed, workout %s saved (%d min)", workout.ID, duration)

	return workout.Clone(), nil
}

// Cancel discards the draft without touching the store.
func (m *Manager) Cancel() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.draft == nil {
		return fmt.Errorf("%w: no session to cancel", ErrInvalidSessionState)
	}

	m.draft.State = StateCancelled
	m.draft = nil
	m.countEvent("cancelled")
	m.setActiveGauge(0)
	log.Debugln("session cancelled")

	return nil
}

// Current returns a copy of the draft, false if the slot is free.
func (m *Manager) Current() (Draft, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.draft == nil {
		return Draft{}, false
	}
	return m.current(), true
}

func (m *Manager) current() Draft {
	d := m.draft.clone()
	if d.StartedAt != nil {
		d.ElapsedSeconds = int64(m.clock().Sub(*d.StartedAt) / time.Second)
	}
	return d
}
