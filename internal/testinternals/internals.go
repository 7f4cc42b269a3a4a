package testinternals

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/2beens/gymbros/internal/catalog"
	"github.com/2beens/gymbros/internal/storage"
	"github.com/2beens/gymbros/internal/store"
	"github.com/2beens/gymbros/internal/telemetry/metrics"
	"github.com/2beens/gymbros/internal/workouts"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
)

// Internals wires a Store on an in-memory backend, plus a redis mock, for tests.
type Internals struct {
	Backend        *storage.MemoryBackend
	Store          *store.Store
	MetricsManager *metrics.Manager
	Clock          *FakeClock
	Faker          *gofakeit.Faker

	// redis
	RedisClient *redis.Client
	RedisMock   redismock.ClientMock
}

func NewTestingInternals() *Internals {
	backend := storage.NewMemoryBackend()
	metricsManager := metrics.NewTestManager()
	rdb, redisMock := redismock.NewClientMock()

	return &Internals{
		Backend:        backend,
		Store:          store.New(context.Background(), backend, metricsManager),
		MetricsManager: metricsManager,
		Clock:          NewFakeClock(time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)),
		Faker:          gofakeit.New(42),
		RedisClient:    rdb,
		RedisMock:      redisMock,
	}
}

// FakeClock is a manually advanced clock.
type FakeClock struct {
	mutex sync.Mutex
	now   time.Time
}

func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.now = c.now.Add(d)
}

func (c *FakeClock) Set(now time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.now = now
}

// SequenceIDs returns an id generator yielding prefix-1, prefix-2, ...
func SequenceIDs(prefix string) func() string {
	var (
		mutex sync.Mutex
		n     int
	)
	return func() string {
		mutex.Lock()
		defer mutex.Unlock()
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}

// NewRoutine builds a valid routine from catalog exercises, with random set targets.
func NewRoutine(faker *gofakeit.Faker, exerciseIDs ...string) workouts.Routine {
	c := catalog.Default()
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	routine := workouts.Routine{
		ID:          faker.UUID(),
		Name:        faker.Adjective() + " " + faker.Noun() + " day",
		Description: faker.Sentence(6),
		Exercises:   make([]workouts.WorkoutExercise, 0, len(exerciseIDs)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, exID := range exerciseIDs {
		ex, ok := c.Get(exID)
		if !ok {
			ex = workouts.Exercise{ID: exID, Name: exID, Category: "Other", MuscleGroups: []string{}}
		}
		we := workouts.WorkoutExercise{
			ID:         faker.UUID(),
			ExerciseID: exID,
			Exercise:   ex,
			WeightUnit: workouts.WeightUnitKg,
		}
		for i := 0; i < faker.IntRange(1, 4); i++ {
			we.Sets = append(we.Sets, workouts.ExerciseSet{
				ID:     faker.UUID(),
				Weight: float64(faker.IntRange(4, 40)) * 2.5,
				Reps:   faker.IntRange(5, 12),
				RIR:    faker.IntRange(0, 3),
			})
		}
		routine.Exercises = append(routine.Exercises, we)
	}
	return routine
}

// NewWorkout builds a completed workout of the routine, done at date.
func NewWorkout(faker *gofakeit.Faker, routine workouts.Routine, date time.Time, durationMin int) workouts.Workout {
	d := durationMin
	return workouts.Workout{
		ID:        faker.UUID(),
		RoutineID: routine.ID,
		Routine:   routine.Clone(),
		Exercises: workouts.CloneExercises(routine.Exercises),
		Date:      date,
		Duration:  &d,
		Notes:     faker.Sentence(4),
	}
}

// SetFirst overwrites the first set of the exercise in the workout.
func SetFirst(w *workouts.Workout, exerciseID string, weight float64, reps, rir int) {
	idx, ok := workouts.FindExercise(w.Exercises, exerciseID)
	if !ok {
		return
	}
	w.Exercises[idx].Sets[0].Weight = weight
	w.Exercises[idx].Sets[0].Reps = reps
	w.Exercises[idx].Sets[0].RIR = rir
}
