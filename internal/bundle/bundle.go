package bundle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/gymbros/internal/telemetry/tracing"
	"github.com/2beens/gymbros/internal/workouts"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	Version        = "1.0.0"
	fileNamePrefix = "gym-bros-backup-"
)

// Bundle is the portable JSON form of all the user data.
type Bundle struct {
	Routines   []workouts.Routine   `json:"routines"`
	Workouts   []workouts.Workout   `json:"workouts"`
	Settings   workouts.AppSettings `json:"settings"`
	ExportDate time.Time            `json:"exportDate"`
	Version    string               `json:"version"`
}

// ImportValidationError reports the first part of an import payload that failed validation.
type ImportValidationError struct {
	Field  string
	Reason string
}

func (e *ImportValidationError) Error() string {
	return fmt.Sprintf("invalid import bundle, field [%s]: %s", e.Field, e.Reason)
}

type ImportResult struct {
	RoutinesImported int  `json:"routinesImported"`
	WorkoutsImported int  `json:"workoutsImported"`
	SettingsImported bool `json:"settingsImported"`
}

type dataStore interface {
	GetRoutines(ctx context.Context) []workouts.Routine
	SaveRoutines(ctx context.Context, routines []workouts.Routine)
	GetWorkouts(ctx context.Context) []workouts.Workout
	SaveWorkouts(ctx context.Context, workoutsList []workouts.Workout)
	GetSettings(ctx context.Context) workouts.AppSettings
	SaveSettings(ctx context.Context, settings workouts.AppSettings)
}

func Export(ctx context.Context, store dataStore, now time.Time) Bundle {
	_, span := tracing.GlobalTracer.Start(ctx, "bundle.export")
	defer span.End()

	b := Bundle{
		Routines:   store.GetRoutines(ctx),
		Workouts:   store.GetWorkouts(ctx),
		Settings:   store.GetSettings(ctx),
		ExportDate: now,
		Version:    Version,
	}
	span.SetAttributes(
		attribute.Int("routines", len(b.Routines)),
		attribute.Int("workouts", len(b.Workouts)),
	)
	return b
}

// Encode writes the bundle as indented JSON.
func Encode(b Bundle) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return nil, fmt.Errorf("encode bundle: %w", err)
	}
	return buf.Bytes(), nil
}

func FileName(now time.Time) string {
	return fileNamePrefix + now.Format("2006-01-02") + ".json"
}

// importPayload keeps the raw sections, so absent ones can be told apart from empty ones.
type importPayload struct {
	Routines json.RawMessage `json:"routines"`
	Workouts json.RawMessage `json:"workouts"`
	Settings json.RawMessage `json:"settings"`
	Version  string          `json:"version"`
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Import validates the whole payload first, then overwrites each collection present in it.
// Absent (or null) sections are left as they are. On any validation error nothing is applied.
func Import(ctx context.Context, store dataStore, data []byte) (result ImportResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "bundle.import")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var payload importPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return ImportResult{}, &ImportValidationError{Field: "bundle", Reason: err.Error()}
	}

	var (
		routines     []workouts.Routine
		workoutsList []workouts.Workout
		settings     workouts.AppSettings
	)

	hasRoutines := present(payload.Routines)
	if hasRoutines {
		if err := json.Unmarshal(payload.Routines, &routines); err != nil {
			return ImportResult{}, &ImportValidationError{Field: "routines", Reason: "must be an array of routines"}
		}
		for i, r := range routines {
			if err := r.Validate(); err != nil {
				return ImportResult{}, &ImportValidationError{Field: fmt.Sprintf("routines[%d]", i), Reason: err.Error()}
			}
		}
	}

	hasWorkouts := present(payload.Workouts)
	if hasWorkouts {
		if err := json.Unmarshal(payload.Workouts, &workoutsList); err != nil {
			return ImportResult{}, &ImportValidationError{Field: "workouts", Reason: "must be an array of workouts"}
		}
		for i, w := range workoutsList {
			if err := w.Validate(); err != nil {
				return ImportResult{}, &ImportValidationError{Field: fmt.Sprintf("workouts[%d]", i), Reason: err.Error()}
			}
		}
	}

	hasSettings := present(payload.Settings)
	if hasSettings {
		settings = workouts.DefaultSettings()
		if err := json.Unmarshal(payload.Settings, &settings); err != nil {
			return ImportResult{}, &ImportValidationError{Field: "settings", Reason: "must be a settings object"}
		}
		if err := settings.Validate(); err != nil {
			return ImportResult{}, &ImportValidationError{Field: "settings", Reason: err.Error()}
		}
	}

	if hasRoutines {
		if routines == nil {
			routines = make([]workouts.Routine, 0)
		}
		store.SaveRoutines(ctx, routines)
		result.RoutinesImported = len(routines)
	}
	if hasWorkouts {
		if workoutsList == nil {
			workoutsList = make([]workouts.Workout, 0)
		}
		store.SaveWorkouts(ctx, workoutsList)
		result.WorkoutsImported = len(workoutsList)
	}
	if hasSettings {
		store.SaveSettings(ctx, settings)
		result.SettingsImported = true
	}

	if payload.Version != "" && payload.Version != Version {
		log.Warnf("imported bundle version %s, current is %s", payload.Version, Version)
	}
	log.Debugf("bundle imported: %d routines, %d workouts, settings: %t",
		result.RoutinesImported, result.WorkoutsImported, result.SettingsImported)

	return result, nil
}
