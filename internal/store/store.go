package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/2beens/gymbros/internal/storage"
	"github.com/2beens/gymbros/internal/telemetry/metrics"
	"github.com/2beens/gymbros/internal/telemetry/tracing"
	"github.com/2beens/gymbros/internal/workouts"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const (
	RoutinesKey = "gym-bros-routines"
	WorkoutsKey = "gym-bros-workouts"
	SettingsKey = "gym-bros-settings"
)

// Store owns the three persisted collections: routines, workouts and settings.
//
// The backend is read once, in New, and the in-memory copy is authoritative after that:
// every change is applied in memory first and then persisted. A failed read falls back to
// the empty/default value, a failed write is logged, counted and kept as LastWriteError,
// neither is returned to the caller.
type Store struct {
	backend        storage.Backend
	metricsManager *metrics.Manager

	mutex        sync.RWMutex
	routines     []workouts.Routine
	workouts     []workouts.Workout
	settings     workouts.AppSettings
	lastWriteErr error

	// version grows on every change of the in-memory state
	version atomic.Uint64
}

func New(ctx context.Context, backend storage.Backend, metricsManager *metrics.Manager) *Store {
	s := &Store{
		backend:        backend,
		metricsManager: metricsManager,
	}
	s.Reload(ctx)
	return s
}

// Reload replaces the in-memory state with what the backend holds.
func (s *Store) Reload(ctx context.Context) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.reload")
	defer span.End()

	var routines []workouts.Routine
	if !s.load(ctx, RoutinesKey, &routines) || routines == nil {
		routines = make([]workouts.Routine, 0)
	}

	var workoutsList []workouts.Workout
	if !s.load(ctx, WorkoutsKey, &workoutsList) || workoutsList == nil {
		workoutsList = make([]workouts.Workout, 0)
	}

	settings := workouts.DefaultSettings()
	if !s.load(ctx, SettingsKey, &settings) {
		settings = workouts.DefaultSettings()
	} else if err := settings.Validate(); err != nil {
		log.Warnf("store: invalid settings: %s, using default", err)
		settings = workouts.DefaultSettings()
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.routines = routines
	s.workouts = workoutsList
	s.settings = settings
	s.version.Add(1)
}

// load decodes key into dest. It returns false (and leaves dest usable as a default)
// when the key is missing, unreadable or does not hold valid JSON.
func (s *Store) load(ctx context.Context, key string, dest any) bool {
	raw, err := s.backend.Get(ctx, key)
	switch {
	case errors.Is(err, storage.ErrKeyNotFound):
		log.Debugf("store: key [%s] not found, using default", key)
		s.countRead(key, "missing")
		return false
	case err != nil:
		log.Warnf("store: read [%s]: %s, using default", key, err)
		s.countRead(key, "error")
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		log.Warnf("store: corrupt value under [%s]: %s, using default", key, err)
		s.countRead(key, "corrupt")
		return false
	}

	s.countRead(key, "ok")
	return true
}

func (s *Store) countRead(key, result string) {
	if s.metricsManager != nil {
		s.metricsManager.CounterStoreReads.WithLabelValues(key, result).Inc()
	}
}

// persist must be called with the write lock held.
func (s *Store) persist(ctx context.Context, key string, value any) {
	s.version.Add(1)

	ctx, span := tracing.GlobalTracer.Start(ctx, "store.persist")
	var err error
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	raw, err := json.Marshal(value)
	if err != nil {
		s.writeFailed(key, fmt.Errorf("marshal %s: %w", key, err))
		return
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterStoreWrites.WithLabelValues(key).Inc()
	}
	if err = s.backend.Set(ctx, key, raw); err != nil {
		s.writeFailed(key, fmt.Errorf("write %s: %w", key, err))
		return
	}
	s.lastWriteErr = nil
}

func (s *Store) writeFailed(key string, err error) {
	log.Errorf("store: %s", err)
	if s.metricsManager != nil {
		s.metricsManager.CounterStoreWriteFailures.WithLabelValues(key).Inc()
	}
	s.lastWriteErr = err
}

// LastWriteError is the error of the most recent write, nil once a later write succeeds.
func (s *Store) LastWriteError() error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.lastWriteErr
}

// Version changes whenever the stored data may have changed, so values derived from the store
// can be cached under it.
func (s *Store) Version() uint64 {
	return s.version.Load()
}

func (s *Store) Backend() storage.Backend {
	return s.backend
}

func (s *Store) GetRoutines(_ context.Context) []workouts.Routine {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return workouts.CloneRoutines(s.routines)
}

// SaveRoutines replaces the whole routines collection.
func (s *Store) SaveRoutines(ctx context.Context, routines []workouts.Routine) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.routines = workouts.CloneRoutines(routines)
	s.persist(ctx, RoutinesKey, s.routines)
}

func (s *Store) GetWorkouts(_ context.Context) []workouts.Workout {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return workouts.CloneWorkouts(s.workouts)
}

// SaveWorkouts replaces the whole workouts collection.
func (s *Store) SaveWorkouts(ctx context.Context, workoutsList []workouts.Workout) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.workouts = workouts.CloneWorkouts(workoutsList)
	s.persist(ctx, WorkoutsKey, s.workouts)
}

func (s *Store) GetSettings(_ context.Context) workouts.AppSettings {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.settings
}

func (s *Store) SaveSettings(ctx context.Context, settings workouts.AppSettings) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.settings = settings
	s.persist(ctx, SettingsKey, s.settings)
}

// ClearAll erases all three keys and resets the in-memory state to defaults.
func (s *Store) ClearAll(ctx context.Context) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.clearAll")
	var err error
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.routines = make([]workouts.Routine, 0)
	s.workouts = make([]workouts.Workout, 0)
	s.settings = workouts.DefaultSettings()
	s.version.Add(1)

	for _, key := range []string{RoutinesKey, WorkoutsKey, SettingsKey} {
		if removeErr := s.backend.Remove(ctx, key); removeErr != nil {
			err = multierr.Append(err, fmt.Errorf("remove %s: %w", key, removeErr))
			if s.metricsManager != nil {
				s.metricsManager.CounterStoreWriteFailures.WithLabelValues(key).Inc()
			}
		}
	}

	if err != nil {
		log.Errorf("store: clear all: %s", err)
		s.lastWriteErr = err
		return
	}
	s.lastWriteErr = nil
	log.Infof("store: all data cleared")
}

func (s *Store) AddRoutine(ctx context.Context, routine workouts.Routine) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.routines = append(s.routines, routine.Clone())
	s.persist(ctx, RoutinesKey, s.routines)
}

// AddRoutineIfAbsent adds the routine unless one with the same id is stored.
// The check and the add happen under one lock.
func (s *Store) AddRoutineIfAbsent(ctx context.Context, routine workouts.Routine) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, r := range s.routines {
		if r.ID == routine.ID {
			return false
		}
	}
	s.routines = append(s.routines, routine.Clone())
	s.persist(ctx, RoutinesKey, s.routines)
	return true
}

// UpdateRoutine replaces the routine with the given id, the stored record keeps that id.
// Returns false (and writes nothing) if there is no such routine.
func (s *Store) UpdateRoutine(ctx context.Context, id string, routine workouts.Routine) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.routines {
		if s.routines[i].ID != id {
			continue
		}
		updated := routine.Clone()
		updated.ID = id
		s.routines[i] = updated
		s.persist(ctx, RoutinesKey, s.routines)
		return true
	}
	return false
}

// DeleteRoutine removes the routine, workouts done from it are kept.
func (s *Store) DeleteRoutine(ctx context.Context, id string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	kept := make([]workouts.Routine, 0, len(s.routines))
	for _, r := range s.routines {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(s.routines) {
		return false
	}

	s.routines = kept
	s.persist(ctx, RoutinesKey, s.routines)
	return true
}

func (s *Store) GetRoutine(_ context.Context, id string) (workouts.Routine, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, r := range s.routines {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return workouts.Routine{}, false
}

func (s *Store) AddWorkout(ctx context.Context, workout workouts.Workout) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.workouts = append(s.workouts, workout.Clone())
	s.persist(ctx, WorkoutsKey, s.workouts)
}

// AddWorkoutIfAbsent adds the workout unless one with the same id is stored.
func (s *Store) AddWorkoutIfAbsent(ctx context.Context, workout workouts.Workout) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, w := range s.workouts {
		if w.ID == workout.ID {
			return false
		}
	}
	s.workouts = append(s.workouts, workout.Clone())
	s.persist(ctx, WorkoutsKey, s.workouts)
	return true
}

// UpdateWorkout replaces the workout with the given id, the stored record keeps that id.
func (s *Store) UpdateWorkout(ctx context.Context, id string, workout workouts.Workout) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.workouts {
		if s.workouts[i].ID != id {
			continue
		}
		updated := workout.Clone()
		updated.ID = id
		s.workouts[i] = updated
		s.persist(ctx, WorkoutsKey, s.workouts)
		return true
	}
	return false
}

func (s *Store) DeleteWorkout(ctx context.Context, id string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	kept := make([]workouts.Workout, 0, len(s.workouts))
	for _, w := range s.workouts {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	if len(kept) == len(s.workouts) {
		return false
	}

	s.workouts = kept
	s.persist(ctx, WorkoutsKey, s.workouts)
	return true
}

func (s *Store) GetWorkout(_ context.Context, id string) (workouts.Workout, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, w := range s.workouts {
		if w.ID == id {
			return w.Clone(), true
		}
	}
	return workouts.Workout{}, false
}

// GetWorkoutsByRoutine returns the workouts done from the routine, in store order.
func (s *Store) GetWorkoutsByRoutine(_ context.Context, routineID string) []workouts.Workout {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	res := make([]workouts.Workout, 0)
	for _, w := range s.workouts {
		if w.RoutineID == routineID {
			res = append(res, w.Clone())
		}
	}
	return res
}

// GetWorkoutsByDateRange returns the workouts with start <= date <= end, in store order.
func (s *Store) GetWorkoutsByDateRange(_ context.Context, start, end time.Time) []workouts.Workout {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	res := make([]workouts.Workout, 0)
	for _, w := range s.workouts {
		if !w.Date.Before(start) && !w.Date.After(end) {
			res = append(res, w.Clone())
		}
	}
	return res
}
