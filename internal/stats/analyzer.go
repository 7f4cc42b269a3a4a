package stats

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/2beens/gymbros/internal/telemetry/tracing"
	"github.com/2beens/gymbros/internal/workouts"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=stats_test

const consistencyWindowDays = 30

var ErrInvalidParam = errors.New("invalid parameter")

type workoutsRepo interface {
	GetWorkouts(ctx context.Context) []workouts.Workout
	GetWorkoutsByRoutine(ctx context.Context, routineID string) []workouts.Workout
}

type GeneralStats struct {
	TotalWorkouts  int `json:"totalWorkouts"`
	TotalExercises int `json:"totalExercises"`
	TotalSets      int `json:"totalSets"`
	// AvgDuration in minutes, over workouts with a recorded (non zero) duration
	AvgDuration int `json:"avgDuration"`
	// Consistency is the percentage of the last 30 days with at least one workout
	Consistency int `json:"consistency"`
}

type WeekCount struct {
	WeekStart time.Time `json:"weekStart"`
	Workouts  int       `json:"workouts"`
}

type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type WeightPoint struct {
	WorkoutID  string              `json:"workoutId"`
	Date       time.Time           `json:"date"`
	Weight     float64             `json:"weight"`
	WeightUnit workouts.WeightUnit `json:"weightUnit"`
}

type RoutineSummary struct {
	RoutineID   string     `json:"routineId"`
	Workouts    int        `json:"workouts"`
	LastDate    *time.Time `json:"lastDate,omitempty"`
	AvgDuration int        `json:"avgDuration"`
}

// Analyzer computes statistics over the stored workouts. Days are calendar days in the
// location of the clock.
type Analyzer struct {
	repo  workoutsRepo
	clock func() time.Time
}

func NewAnalyzer(repo workoutsRepo, clock func() time.Time) *Analyzer {
	if clock == nil {
		clock = time.Now
	}
	return &Analyzer{
		repo:  repo,
		clock: clock,
	}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func avgDuration(list []workouts.Workout) int {
	var sum, count int
	for _, w := range list {
		if w.Duration == nil || *w.Duration <= 0 {
			continue
		}
		sum += *w.Duration
		count++
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}

func (a *Analyzer) General(ctx context.Context) (_ GeneralStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.general")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	list := a.repo.GetWorkouts(ctx)
	now := a.clock()
	since := now.AddDate(0, 0, -consistencyWindowDays)

	stats := GeneralStats{
		TotalWorkouts: len(list),
		AvgDuration:   avgDuration(list),
	}
	days := make(map[time.Time]struct{})
	for _, w := range list {
		stats.TotalExercises += len(w.Exercises)
		for _, we := range w.Exercises {
			stats.TotalSets += len(we.Sets)
		}
		if !w.Date.Before(since) {
			days[startOfDay(w.Date, now.Location())] = struct{}{}
		}
	}
	stats.Consistency = int(math.Round(float64(len(days)) / consistencyWindowDays * 100))

	return stats, nil
}

// Weekly counts workouts per week (weeks start on Sunday) for the last n weeks, oldest first.
// The last entry is the current week.
func (a *Analyzer) Weekly(ctx context.Context, n int) (_ []WeekCount, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.weekly")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("weeks", n))

	if n <= 0 {
		return nil, fmt.Errorf("%w: weeks must be positive", ErrInvalidParam)
	}

	now := a.clock()
	today := startOfDay(now, now.Location())
	currentWeekStart := today.AddDate(0, 0, -int(today.Weekday()))

	weeks := make([]WeekCount, n)
	for i := range weeks {
		weeks[i].WeekStart = currentWeekStart.AddDate(0, 0, -7*(n-1-i))
	}

	for _, w := range a.repo.GetWorkouts(ctx) {
		date := w.Date.In(now.Location())
		for i := range weeks {
			end := weeks[i].WeekStart.AddDate(0, 0, 7)
			if !date.Before(weeks[i].WeekStart) && date.Before(end) {
				weeks[i].Workouts++
				break
			}
		}
	}

	return weeks, nil
}

func sortedCounts(counts map[string]int) []NameCount {
	list := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		list = append(list, NameCount{Name: name, Count: count})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		return list[i].Name < list[j].Name
	})
	return list
}

// ExerciseFrequency returns the most done exercises, by name, at most limit of them.
func (a *Analyzer) ExerciseFrequency(ctx context.Context, limit int) (_ []NameCount, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.exercise-frequency")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidParam)
	}

	counts := make(map[string]int)
	for _, w := range a.repo.GetWorkouts(ctx) {
		for _, we := range w.Exercises {
			name := we.Exercise.Name
			if name == "" {
				name = we.ExerciseID
			}
			counts[name]++
		}
	}

	list := sortedCounts(counts)
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (a *Analyzer) MuscleGroupDistribution(ctx context.Context) (_ []NameCount, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.muscle-groups")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	counts := make(map[string]int)
	for _, w := range a.repo.GetWorkouts(ctx) {
		for _, we := range w.Exercises {
			for _, mg := range we.Exercise.MuscleGroups {
				counts[mg]++
			}
		}
	}
	return sortedCounts(counts), nil
}

// Streak is the number of consecutive training days ending today, or yesterday when
// there was no workout today yet.
func (a *Analyzer) Streak(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.streak")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := a.clock()
	loc := now.Location()
	days := make(map[time.Time]struct{})
	for _, w := range a.repo.GetWorkouts(ctx) {
		days[startOfDay(w.Date, loc)] = struct{}{}
	}

	day := startOfDay(now, loc)
	if _, ok := days[day]; !ok {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, ok := days[day]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}

// WeightProgress returns the heaviest set of the exercise per workout, oldest first,
// for the last limit workouts that had it.
func (a *Analyzer) WeightProgress(ctx context.Context, exerciseID string, limit int) (_ []WeightPoint, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.weight-progress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	if exerciseID == "" {
		return nil, fmt.Errorf("%w: exercise id empty", ErrInvalidParam)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidParam)
	}

	points := make([]WeightPoint, 0)
	for _, w := range a.repo.GetWorkouts(ctx) {
		idx, ok := workouts.FindExercise(w.Exercises, exerciseID)
		if !ok || len(w.Exercises[idx].Sets) == 0 {
			continue
		}
		we := w.Exercises[idx]
		maxWeight := we.Sets[0].Weight
		for _, s := range we.Sets[1:] {
			maxWeight = math.Max(maxWeight, s.Weight)
		}
		points = append(points, WeightPoint{
			WorkoutID:  w.ID,
			Date:       w.Date,
			Weight:     maxWeight,
			WeightUnit: we.WeightUnit,
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	if len(points) > limit {
		points = points[len(points)-limit:]
	}
	return points, nil
}

func (a *Analyzer) RoutineSummary(ctx context.Context, routineID string) (_ RoutineSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.routine-summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("routine.id", routineID))

	if routineID == "" {
		return RoutineSummary{}, fmt.Errorf("%w: routine id empty", ErrInvalidParam)
	}

	list := a.repo.GetWorkoutsByRoutine(ctx, routineID)
	summary := RoutineSummary{
		RoutineID:   routineID,
		Workouts:    len(list),
		AvgDuration: avgDuration(list),
	}
	for _, w := range list {
		if summary.LastDate == nil || w.Date.After(*summary.LastDate) {
			d := w.Date
			summary.LastDate = &d
		}
	}
	return summary, nil
}
