package catalog

import (
	"sort"
	"strings"

	"github.com/2beens/gymbros/internal/workouts"
)

var DefaultCategories = []string{
	"Chest", "Back", "Shoulders", "Arms", "Legs", "Core", "Cardio",
}

var DefaultMuscleGroups = []string{
	"Chest", "Upper Chest", "Lower Chest", "Back", "Lats", "Traps", "Rear Delts",
	"Shoulders", "Front Delts", "Side Delts", "Biceps", "Triceps", "Forearms",
	"Quads", "Hamstrings", "Glutes", "Calves", "Abs", "Obliques", "Core",
}

// builtin is the exercise list shipped with the app. Some ids appear under more than
// one category (e.g. dumbbell-press), the first occurrence wins for Get.
var builtin = []workouts.Exercise{
	// Chest
	{ID: "bench-press", Name: "Bench Press", Category: "Chest", MuscleGroups: []string{"Chest", "Shoulders", "Triceps"}, Equipment: "Barbell"},
	{ID: "incline-bench-press", Name: "Incline Bench Press", Category: "Chest", MuscleGroups: []string{"Upper Chest", "Shoulders", "Triceps"}, Equipment: "Barbell"},
	{ID: "decline-bench-press", Name: "Decline Bench Press", Category: "Chest", MuscleGroups: []string{"Lower Chest", "Shoulders", "Triceps"}, Equipment: "Barbell"},
	{ID: "dumbbell-press", Name: "Dumbbell Press", Category: "Chest", MuscleGroups: []string{"Chest", "Shoulders", "Triceps"}, Equipment: "Dumbbells"},
	{ID: "incline-dumbbell-press", Name: "Incline Dumbbell Press", Category: "Chest", MuscleGroups: []string{"Upper Chest", "Shoulders", "Triceps"}, Equipment: "Dumbbells"},
	{ID: "dumbbell-flyes", Name: "Dumbbell Flyes", Category: "Chest", MuscleGroups: []string{"Chest"}, Equipment: "Dumbbells"},
	{ID: "incline-flyes", Name: "Incline Flyes", Category: "Chest", MuscleGroups: []string{"Upper Chest"}, Equipment: "Dumbbells"},
	{ID: "push-ups", Name: "Push-ups", Category: "Chest", MuscleGroups: []string{"Chest", "Shoulders", "Triceps"}, Equipment: "Bodyweight"},
	{ID: "dips", Name: "Dips", Category: "Chest", MuscleGroups: []string{"Chest", "Triceps", "Shoulders"}, Equipment: "Bodyweight"},
	{ID: "cable-flyes", Name: "Cable Flyes", Category: "Chest", MuscleGroups: []string{"Chest"}, Equipment: "Cable"},

	// Back
	{ID: "deadlift", Name: "Deadlift", Category: "Back", MuscleGroups: []string{"Back", "Glutes", "Hamstrings"}, Equipment: "Barbell"},
	{ID: "bent-over-row", Name: "Bent Over Row", Category: "Back", MuscleGroups: []string{"Back", "Biceps"}, Equipment: "Barbell"},
	{ID: "pull-ups", Name: "Pull-ups", Category: "Back", MuscleGroups: []string{"Back", "Biceps"}, Equipment: "Bodyweight"},
	{ID: "lat-pulldown", Name: "Lat Pulldown", Category: "Back", MuscleGroups: []string{"Back", "Biceps"}, Equipment: "Cable"},
	{ID: "seated-row", Name: "Seated Row", Category: "Back", MuscleGroups: []string{"Back", "Biceps"}, Equipment: "Cable"},
	{ID: "t-bar-row", Name: "T-Bar Row", Category: "Back", MuscleGroups: []string{"Back", "Biceps"}, Equipment: "Barbell"},
	{ID: "one-arm-dumbbell-row", Name: "One-Arm Dumbbell Row", Category: "Back", MuscleGroups: []string{"Back", "Biceps"}, Equipment: "Dumbbells"},
	{ID: "face-pulls", Name: "Face Pulls", Category: "Back", MuscleGroups: []string{"Rear Delts", "Upper Back"}, Equipment: "Cable"},
	{ID: "shrugs", Name: "Shrugs", Category: "Back", MuscleGroups: []string{"Traps"}, Equipment: "Barbell"},
	{ID: "reverse-flyes", Name: "Reverse Flyes", Category: "Back", MuscleGroups: []string{"Rear Delts"}, Equipment: "Dumbbells"},

	// Shoulders
	{ID: "overhead-press", Name: "Overhead Press", Category: "Shoulders", MuscleGroups: []string{"Shoulders", "Triceps"}, Equipment: "Barbell"},
	{ID: "dumbbell-press", Name: "Dumbbell Press", Category: "Shoulders", MuscleGroups: []string{"Shoulders", "Triceps"}, Equipment: "Dumbbells"},
	{ID: "lateral-raises", Name: "Lateral Raises", Category: "Shoulders", MuscleGroups: []string{"Side Delts"}, Equipment: "Dumbbells"},
	{ID: "front-raises", Name: "Front Raises", Category: "Shoulders", MuscleGroups: []string{"Front Delts"}, Equipment: "Dumbbells"},
	{ID: "rear-delt-flyes", Name: "Rear Delt Flyes", Category: "Shoulders", MuscleGroups: []string{"Rear Delts"}, Equipment: "Dumbbells"},
	{ID: "arnold-press", Name: "Arnold Press", Category: "Shoulders", MuscleGroups: []string{"Shoulders", "Triceps"}, Equipment: "Dumbbells"},
	{ID: "upright-row", Name: "Upright Row", Category: "Shoulders", MuscleGroups: []string{"Shoulders", "Traps"}, Equipment: "Barbell"},
	{ID: "pike-push-ups", Name: "Pike Push-ups", Category: "Shoulders", MuscleGroups: []string{"Shoulders", "Triceps"}, Equipment: "Bodyweight"},

	// Arms
	{ID: "barbell-curl", Name: "Barbell Curl", Category: "Arms", MuscleGroups: []string{"Biceps"}, Equipment: "Barbell"},
	{ID: "dumbbell-curl", Name: "Dumbbell Curl", Category: "Arms", MuscleGroups: []string{"Biceps"}, Equipment: "Dumbbells"},
	{ID: "hammer-curl", Name: "Hammer Curl", Category: "Arms", MuscleGroups: []string{"Biceps", "Forearms"}, Equipment: "Dumbbells"},
	{ID: "preacher-curl", Name: "Preacher Curl", Category: "Arms", MuscleGroups: []string{"Biceps"}, Equipment: "Barbell"},
	{ID: "concentration-curl", Name: "Concentration Curl", Category: "Arms", MuscleGroups: []string{"Biceps"}, Equipment: "Dumbbells"},
	{ID: "close-grip-bench-press", Name: "Close Grip Bench Press", Category: "Arms", MuscleGroups: []string{"Triceps"}, Equipment: "Barbell"},
	{ID: "tricep-dips", Name: "Tricep Dips", Category: "Arms", MuscleGroups: []string{"Triceps"}, Equipment: "Bodyweight"},
	{ID: "overhead-tricep-extension", Name: "Overhead Tricep Extension", Category: "Arms", MuscleGroups: []string{"Triceps"}, Equipment: "Dumbbells"},
	{ID: "tricep-pushdown", Name: "Tricep Pushdown", Category: "Arms", MuscleGroups: []string{"Triceps"}, Equipment: "Cable"},
	{ID: "skull-crushers", Name: "Skull Crushers", Category: "Arms", MuscleGroups: []string{"Triceps"}, Equipment: "Barbell"},

	// Legs
	{ID: "squat", Name: "Squat", Category: "Legs", MuscleGroups: []string{"Quads", "Glutes", "Hamstrings"}, Equipment: "Barbell"},
	{ID: "front-squat", Name: "Front Squat", Category: "Legs", MuscleGroups: []string{"Quads", "Glutes", "Core"}, Equipment: "Barbell"},
	{ID: "bulgarian-split-squat", Name: "Bulgarian Split Squat", Category: "Legs", MuscleGroups: []string{"Quads", "Glutes"}, Equipment: "Bodyweight"},
	{ID: "lunges", Name: "Lunges", Category: "Legs", MuscleGroups: []string{"Quads", "Glutes"}, Equipment: "Bodyweight"},
	{ID: "leg-press", Name: "Leg Press", Category: "Legs", MuscleGroups: []string{"Quads", "Glutes"}, Equipment: "Machine"},
	{ID: "leg-extension", Name: "Leg Extension", Category: "Legs", MuscleGroups: []string{"Quads"}, Equipment: "Machine"},
	{ID: "romanian-deadlift", Name: "Romanian Deadlift", Category: "Legs", MuscleGroups: []string{"Hamstrings", "Glutes"}, Equipment: "Barbell"},
	{ID: "stiff-leg-deadlift", Name: "Stiff Leg Deadlift", Category: "Legs", MuscleGroups: []string{"Hamstrings", "Glutes"}, Equipment: "Barbell"},
	{ID: "leg-curl", Name: "Leg Curl", Category: "Legs", MuscleGroups: []string{"Hamstrings"}, Equipment: "Machine"},
	{ID: "calf-raises", Name: "Calf Raises", Category: "Legs", MuscleGroups: []string{"Calves"}, Equipment: "Bodyweight"},
	{ID: "seated-calf-raises", Name: "Seated Calf Raises", Category: "Legs", MuscleGroups: []string{"Calves"}, Equipment: "Machine"},
	{ID: "hip-thrust", Name: "Hip Thrust", Category: "Legs", MuscleGroups: []string{"Glutes", "Hamstrings"}, Equipment: "Barbell"},
	{ID: "glute-bridge", Name: "Glute Bridge", Category: "Legs", MuscleGroups: []string{"Glutes", "Hamstrings"}, Equipment: "Bodyweight"},

	// Core
	{ID: "plank", Name: "Plank", Category: "Core", MuscleGroups: []string{"Core"}, Equipment: "Bodyweight"},
	{ID: "crunches", Name: "Crunches", Category: "Core", MuscleGroups: []string{"Abs"}, Equipment: "Bodyweight"},
	{ID: "russian-twists", Name: "Russian Twists", Category: "Core", MuscleGroups: []string{"Obliques"}, Equipment: "Bodyweight"},
	{ID: "mountain-climbers", Name: "Mountain Climbers", Category: "Core", MuscleGroups: []string{"Core", "Cardio"}, Equipment: "Bodyweight"},
	{ID: "dead-bug", Name: "Dead Bug", Category: "Core", MuscleGroups: []string{"Core"}, Equipment: "Bodyweight"},
	{ID: "bicycle-crunches", Name: "Bicycle Crunches", Category: "Core", MuscleGroups: []string{"Abs", "Obliques"}, Equipment: "Bodyweight"},
	{ID: "hanging-leg-raises", Name: "Hanging Leg Raises", Category: "Core", MuscleGroups: []string{"Abs"}, Equipment: "Bodyweight"},
	{ID: "ab-wheel", Name: "Ab Wheel", Category: "Core", MuscleGroups: []string{"Core"}, Equipment: "Ab Wheel"},
	{ID: "pallof-press", Name: "Pallof Press", Category: "Core", MuscleGroups: []string{"Core"}, Equipment: "Cable"},

	// Cardio
	{ID: "running", Name: "Running", Category: "Cardio", MuscleGroups: []string{"Full Body"}, Equipment: "Treadmill"},
	{ID: "cycling", Name: "Cycling", Category: "Cardio", MuscleGroups: []string{"Legs"}, Equipment: "Bike"},
	{ID: "rowing", Name: "Rowing", Category: "Cardio", MuscleGroups: []string{"Full Body"}, Equipment: "Rowing Machine"},
	{ID: "elliptical", Name: "Elliptical", Category: "Cardio", MuscleGroups: []string{"Full Body"}, Equipment: "Elliptical"},
	{ID: "jumping-jacks", Name: "Jumping Jacks", Category: "Cardio", MuscleGroups: []string{"Full Body"}, Equipment: "Bodyweight"},
	{ID: "burpees", Name: "Burpees", Category: "Cardio", MuscleGroups: []string{"Full Body"}, Equipment: "Bodyweight"},
	{ID: "jump-rope", Name: "Jump Rope", Category: "Cardio", MuscleGroups: []string{"Full Body"}, Equipment: "Jump Rope"},
	{ID: "high-knees", Name: "High Knees", Category: "Cardio", MuscleGroups: []string{"Legs"}, Equipment: "Bodyweight"},

	// PPL Routine Specific Exercises

	// Chest - PUSH Day
	{ID: "barbell-bench-press", Name: "Press Banca Barra", Category: "Chest", MuscleGroups: []string{"Chest", "Shoulders", "Triceps"}, Equipment: "Barbell"},
	{ID: "incline-machine-press", Name: "Press Inclinado Máquina Discos", Category: "Chest", MuscleGroups: []string{"Upper Chest", "Shoulders", "Triceps"}, Equipment: "Machine"},
	{ID: "pec-deck", Name: "Pec Deck", Category: "Chest", MuscleGroups: []string{"Chest"}, Equipment: "Machine"},
	{ID: "incline-dumbbell-press", Name: "Press Inclinado Mancuernas", Category: "Chest", MuscleGroups: []string{"Upper Chest", "Shoulders", "Triceps"}, Equipment: "Dumbbells"},
	{ID: "flat-machine-press", Name: "Press Plano Máquina", Category: "Chest", MuscleGroups: []string{"Chest", "Shoulders", "Triceps"}, Equipment: "Machine"},
	{ID: "cable-flyes", Name: "Flies con Cable (Cruce)", Category: "Chest", MuscleGroups: []string{"Chest"}, Equipment: "Cable"},

	// Shoulders - PUSH Day
	{ID: "cable-lateral-raises", Name: "Elevaciones Laterales Cable (con muñequera)", Category: "Shoulders", MuscleGroups: []string{"Side Delts"}, Equipment: "Cable"},

	// Triceps - PUSH Day
	{ID: "tricep-pushdown-bar", Name: "Extensión Tríceps en Polea Barra Recta", Category: "Arms", MuscleGroups: []string{"Triceps"}, Equipment: "Cable"},
	{ID: "overhead-tricep-extension-cable", Name: "Extensión Overhead Tríceps Cuerda", Category: "Arms", MuscleGroups: []string{"Triceps"}, Equipment: "Cable"},
	{ID: "tricep-pushdown", Name: "Extensión Tríceps Barra Recta", Category: "Arms", MuscleGroups: []string{"Triceps"}, Equipment: "Cable"},
	{ID: "unilateral-tricep-extension", Name: "Extensión Unilateral Tríceps Polea", Category: "Arms", MuscleGroups: []string{"Triceps"}, Equipment: "Cable"},

	// Back - PULL Day
	{ID: "wide-grip-pulldown", Name: "Jalón al Pecho Agarre Amplio", Category: "Back", MuscleGroups: []string{"Lats", "Biceps"}, Equipment: "Cable"},
	{ID: "seated-cable-row", Name: "Remo Sentado Polea", Category: "Back", MuscleGroups: []string{"Back", "Biceps"}, Equipment: "Cable"},
	{ID: "open-row-machine", Name: "Remo Abierto en Máquina", Category: "Back", MuscleGroups: []string{"Upper Back", "Rear Delts"}, Equipment: "Machine"},
	{ID: "reverse-pec-deck", Name: "Reverse Pec Deck", Category: "Back", MuscleGroups: []string{"Rear Delts", "Upper Back"}, Equipment: "Machine"},
	{ID: "assisted-pullups", Name: "Dominadas Asistidas", Category: "Back", MuscleGroups: []string{"Lats", "Biceps"}, Equipment: "Machine"},
	{ID: "neutral-grip-pulldown", Name: "Jalón Neutro", Category: "Back", MuscleGroups: []string{"Lats", "Biceps"}, Equipment: "Cable"},
	{ID: "close-grip-pulldown", Name: "Jalón al Pecho Cerrado", Category: "Back", MuscleGroups: []string{"Lats", "Biceps"}, Equipment: "Cable"},
	{ID: "machine-row", Name: "Remo en Máquina", Category: "Back", MuscleGroups: []string{"Back", "Biceps"}, Equipment: "Machine"},
	{ID: "face-pulls", Name: "Face Pull", Category: "Back", MuscleGroups: []string{"Rear Delts", "Upper Back"}, Equipment: "Cable"},

	// Biceps - PULL Day
	{ID: "unilateral-preacher-curl", Name: "Curl Predicador Unilateral Mancuernas", Category: "Arms", MuscleGroups: []string{"Biceps"}, Equipment: "Dumbbells"},
	{ID: "bayesian-curl", Name: "Curl Bayesian (Polea)", Category: "Arms", MuscleGroups: []string{"Biceps"}, Equipment: "Cable"},
	{ID: "unilateral-preacher-curl-alt", Name: "Curl Predicador Unilateral", Category: "Arms", MuscleGroups: []string{"Biceps"}, Equipment: "Dumbbells"},
	{ID: "hammer-curl", Name: "Curl Martillo Mancuernas", Category: "Arms", MuscleGroups: []string{"Biceps", "Forearms"}, Equipment: "Dumbbells"},

	// Legs - LEGS Day
	{ID: "smith-squat", Name: "Sentadilla Smith Profunda", Category: "Legs", MuscleGroups: []string{"Quads", "Glutes"}, Equipment: "Smith Machine"},
	{ID: "romanian-deadlift", Name: "Peso Muerto Rumano", Category: "Legs", MuscleGroups: []string{"Hamstrings", "Glutes"}, Equipment: "Barbell"},
	{ID: "leg-press-45", Name: "Prensa 45°", Category: "Legs", MuscleGroups: []string{"Quads", "Glutes"}, Equipment: "Machine"},
	{ID: "leg-extension", Name: "Extensión de Cuádriceps", Category: "Legs", MuscleGroups: []string{"Quads"}, Equipment: "Machine"},
	{ID: "leg-curl", Name: "Curl Femoral Tumbado/Sentado", Category: "Legs", MuscleGroups: []string{"Hamstrings"}, Equipment: "Machine"},
	{ID: "hip-abduction", Name: "Abductores en Máquina", Category: "Legs", MuscleGroups: []string{"Glutes", "Hip Abductors"}, Equipment: "Machine"},
	{ID: "seated-calf-raises", Name: "Gemelos (Sentado)", Category: "Legs", MuscleGroups: []string{"Calves"}, Equipment: "Machine"},
	{ID: "standing-calf-raises", Name: "Gemelos (De Pie)", Category: "Legs", MuscleGroups: []string{"Calves"}, Equipment: "Machine"},

	// Machine and cable variations
	{ID: "machine-row-high-focus", Name: "Remo en máquina (foco espalda alta)", Category: "Back", MuscleGroups: []string{"Upper Back", "Rear Delts", "Traps"}, Equipment: "Machine"},
	{ID: "cable-lateral-raises-pulley", Name: "Elevaciones laterales en polea", Category: "Shoulders", MuscleGroups: []string{"Side Delts"}, Equipment: "Cable"},
	{ID: "scott-curl-unilateral", Name: "Curl de bíceps (Scott unilateral)", Category: "Arms", MuscleGroups: []string{"Biceps"}, Equipment: "Dumbbells"},
	{ID: "jm-press", Name: "JM Press", Category: "Arms", MuscleGroups: []string{"Triceps", "Shoulders"}, Equipment: "Barbell"},
	{ID: "military-press-dumbbells", Name: "Press militar (mancuernas/máquina)", Category: "Shoulders", MuscleGroups: []string{"Front Delts", "Shoulders"}, Equipment: "Dumbbells"},
	{ID: "close-grip-pulldown-triangle", Name: "Jalón al pecho (agarre cerrado/triángulo)", Category: "Back", MuscleGroups: []string{"Lats", "Biceps"}, Equipment: "Cable"},
	{ID: "tricep-rope-extension", Name: "Extensión de tríceps cuerda", Category: "Arms", MuscleGroups: []string{"Triceps"}, Equipment: "Cable"},
	{ID: "pec-deck-machine", Name: "Pec Deck", Category: "Chest", MuscleGroups: []string{"Chest", "Inner Chest"}, Equipment: "Machine"},
}

// Catalog is a read-only index over a list of exercises.
type Catalog struct {
	exercises []workouts.Exercise
	byID      map[string]int
}

func New(exercises []workouts.Exercise) *Catalog {
	c := &Catalog{
		exercises: make([]workouts.Exercise, 0, len(exercises)),
		byID:      make(map[string]int, len(exercises)),
	}
	for _, e := range exercises {
		c.exercises = append(c.exercises, e.Clone())
		if _, exists := c.byID[e.ID]; !exists {
			c.byID[e.ID] = len(c.exercises) - 1
		}
	}
	return c
}

// Default returns the catalog with the built-in exercises.
func Default() *Catalog {
	return New(builtin)
}

func (c *Catalog) All() []workouts.Exercise {
	all := make([]workouts.Exercise, len(c.exercises))
	for i := range c.exercises {
		all[i] = c.exercises[i].Clone()
	}
	return all
}

func (c *Catalog) Get(id string) (workouts.Exercise, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return workouts.Exercise{}, false
	}
	return c.exercises[idx].Clone(), true
}

func (c *Catalog) ByCategory(category string) []workouts.Exercise {
	res := make([]workouts.Exercise, 0)
	for _, e := range c.exercises {
		if strings.EqualFold(e.Category, category) {
			res = append(res, e.Clone())
		}
	}
	return res
}

// Categories returns the distinct categories present in the catalog, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	for _, e := range c.exercises {
		seen[e.Category] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for cat := range seen {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	return categories
}

// Search does a case-insensitive substring match on the exercise name.
func (c *Catalog) Search(query string) []workouts.Exercise {
	query = strings.ToLower(strings.TrimSpace(query))
	res := make([]workouts.Exercise, 0)
	if query == "" {
		return res
	}
	for _, e := range c.exercises {
		if strings.Contains(strings.ToLower(e.Name), query) {
			res = append(res, e.Clone())
		}
	}
	return res
}
