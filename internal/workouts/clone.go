package workouts

func (e Exercise) Clone() Exercise {
	c := e
	if e.MuscleGroups != nil {
		c.MuscleGroups = append([]string(nil), e.MuscleGroups...)
	}
	return c
}

func (we WorkoutExercise) Clone() WorkoutExercise {
	c := we
	c.Exercise = we.Exercise.Clone()
	if we.Sets != nil {
		c.Sets = make([]ExerciseSet, len(we.Sets))
		copy(c.Sets, we.Sets)
	}
	return c
}

func CloneExercises(exercises []WorkoutExercise) []WorkoutExercise {
	if exercises == nil {
		return nil
	}
	c := make([]WorkoutExercise, len(exercises))
	for i := range exercises {
		c[i] = exercises[i].Clone()
	}
	return c
}

func (r Routine) Clone() Routine {
	c := r
	c.Exercises = CloneExercises(r.Exercises)
	return c
}

func (w Workout) Clone() Workout {
	c := w
	c.Routine = w.Routine.Clone()
	c.Exercises = CloneExercises(w.Exercises)
	if w.Duration != nil {
		d := *w.Duration
		c.Duration = &d
	}
	return c
}

func CloneRoutines(routines []Routine) []Routine {
	c := make([]Routine, len(routines))
	for i := range routines {
		c[i] = routines[i].Clone()
	}
	return c
}

func CloneWorkouts(workouts []Workout) []Workout {
	c := make([]Workout, len(workouts))
	for i := range workouts {
		c[i] = workouts[i].Clone()
	}
	return c
}
