package store

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/gymbros/internal/telemetry/tracing"
	"github.com/2beens/gymbros/internal/workouts"
	"github.com/2beens/gymbros/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const dateLayout = "2006-01-02"

type DeletedResponse struct {
	DeletedID string `json:"deletedId"`
}

type Handler struct {
	store *Store
	now   func() time.Time
}

func NewHandler(store *Store, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		store: store,
		now:   now,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/routines", handler.HandleListRoutines).Methods("GET", "OPTIONS")
	r.HandleFunc("/routines", handler.HandleAddRoutine).Methods("POST", "OPTIONS")
	r.HandleFunc("/routines/{id}", handler.HandleGetRoutine).Methods("GET", "OPTIONS")
	r.HandleFunc("/routines/{id}", handler.HandleUpdateRoutine).Methods("PUT", "OPTIONS")
	r.HandleFunc("/routines/{id}", handler.HandleDeleteRoutine).Methods("DELETE", "OPTIONS")
	r.HandleFunc("/routines/{id}/workouts", handler.HandleRoutineWorkouts).Methods("GET", "OPTIONS")

	r.HandleFunc("/workouts", handler.HandleListWorkouts).Methods("GET", "OPTIONS")
	r.HandleFunc("/workouts", handler.HandleAddWorkout).Methods("POST", "OPTIONS")
	r.HandleFunc("/workouts/range", handler.HandleWorkoutsRange).Methods("GET", "OPTIONS")
	r.HandleFunc("/workouts/{id}", handler.HandleGetWorkout).Methods("GET", "OPTIONS")
	r.HandleFunc("/workouts/{id}", handler.HandleUpdateWorkout).Methods("PUT", "OPTIONS")
	r.HandleFunc("/workouts/{id}", handler.HandleDeleteWorkout).Methods("DELETE", "OPTIONS")

	r.HandleFunc("/settings", handler.HandleGetSettings).Methods("GET", "OPTIONS")
	r.HandleFunc("/settings", handler.HandleSaveSettings).Methods("PUT", "OPTIONS")
}

func (handler *Handler) HandleListRoutines(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.list")
	defer span.End()

	pkg.WriteJSON(w, handler.store.GetRoutines(ctx), http.StatusOK)
}

func (handler *Handler) HandleAddRoutine(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.add")
	defer span.End()

	var routine workouts.Routine
	if err := json.NewDecoder(r.Body).Decode(&routine); err != nil {
		log.Tracef("add routine, unmarshal json: %s", err)
		http.Error(w, "invalid routine json", http.StatusBadRequest)
		return
	}

	if routine.ID == "" {
		routine.ID = workouts.NewID()
	}
	now := handler.now()
	if routine.CreatedAt.IsZero() {
		routine.CreatedAt = now
	}
	routine.UpdatedAt = now

	if err := routine.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !handler.store.AddRoutineIfAbsent(ctx, routine) {
		http.Error(w, "routine with that id already exists", http.StatusConflict)
		return
	}
	span.SetAttributes(attribute.String("routine.id", routine.ID))
	log.Debugf("routine added: %s [%s]", routine.ID, routine.Name)

	pkg.WriteJSON(w, routine, http.StatusCreated)
}

func (handler *Handler) HandleGetRoutine(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.get")
	defer span.End()

	id := mux.Vars(r)["id"]
	routine, ok := handler.store.GetRoutine(ctx, id)
	if !ok {
		http.Error(w, "routine not found", http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, routine, http.StatusOK)
}

func (handler *Handler) HandleUpdateRoutine(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.update")
	defer span.End()

	id := mux.Vars(r)["id"]

	var routine workouts.Routine
	if err := json.NewDecoder(r.Body).Decode(&routine); err != nil {
		log.Tracef("update routine, unmarshal json: %s", err)
		http.Error(w, "invalid routine json", http.StatusBadRequest)
		return
	}
	if routine.ID != "" && routine.ID != id {
		http.Error(w, "routine id does not match the path id", http.StatusBadRequest)
		return
	}
	routine.ID = id
	routine.UpdatedAt = handler.now()

	existing, ok := handler.store.GetRoutine(ctx, id)
	if !ok {
		http.Error(w, "routine not found", http.StatusNotFound)
		return
	}
	if routine.CreatedAt.IsZero() {
		routine.CreatedAt = existing.CreatedAt
	}

	if err := routine.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !handler.store.UpdateRoutine(ctx, id, routine) {
		http.Error(w, "routine not found", http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, routine, http.StatusOK)
}

func (handler *Handler) HandleDeleteRoutine(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if !handler.store.DeleteRoutine(ctx, id) {
		http.Error(w, "routine not found", http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, DeletedResponse{DeletedID: id}, http.StatusOK)
}

func (handler *Handler) HandleRoutineWorkouts(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.workouts")
	defer span.End()

	id := mux.Vars(r)["id"]
	pkg.WriteJSON(w, handler.store.GetWorkoutsByRoutine(ctx, id), http.StatusOK)
}

func (handler *Handler) HandleListWorkouts(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	pkg.WriteJSON(w, handler.store.GetWorkouts(ctx), http.StatusOK)
}

func (handler *Handler) HandleAddWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.add")
	defer span.End()

	var workout workouts.Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Tracef("add workout, unmarshal json: %s", err)
		http.Error(w, "invalid workout json", http.StatusBadRequest)
		return
	}

	if workout.ID == "" {
		workout.ID = workouts.NewID()
	}
	if workout.Date.IsZero() {
		workout.Date = handler.now()
	}

	if err := workout.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !handler.store.AddWorkoutIfAbsent(ctx, workout) {
		http.Error(w, "workout with that id already exists", http.StatusConflict)
		return
	}
	pkg.WriteJSON(w, workout, http.StatusCreated)
}

func (handler *Handler) HandleGetWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	id := mux.Vars(r)["id"]
	workout, ok := handler.store.GetWorkout(ctx, id)
	if !ok {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, workout, http.StatusOK)
}

func (handler *Handler) HandleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update")
	defer span.End()

	id := mux.Vars(r)["id"]

	var workout workouts.Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Tracef("update workout, unmarshal json: %s", err)
		http.Error(w, "invalid workout json", http.StatusBadRequest)
		return
	}
	if workout.ID != "" && workout.ID != id {
		http.Error(w, "workout id does not match the path id", http.StatusBadRequest)
		return
	}
	workout.ID = id

	if err := workout.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !handler.store.UpdateWorkout(ctx, id, workout) {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, workout, http.StatusOK)
}

func (handler *Handler) HandleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if !handler.store.DeleteWorkout(ctx, id) {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, DeletedResponse{DeletedID: id}, http.StatusOK)
}

// HandleWorkoutsRange expects from and to query params, either as YYYY-MM-DD
// (to then covers the whole day) or as RFC3339 timestamps.
func (handler *Handler) HandleWorkoutsRange(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.range")
	defer span.End()

	from, err := ParseRangeBound(r.URL.Query().Get("from"), false)
	if err != nil {
		http.Error(w, "invalid from: "+err.Error(), http.StatusBadRequest)
		return
	}
	to, err := ParseRangeBound(r.URL.Query().Get("to"), true)
	if err != nil {
		http.Error(w, "invalid to: "+err.Error(), http.StatusBadRequest)
		return
	}
	if to.Before(from) {
		http.Error(w, "to is before from", http.StatusBadRequest)
		return
	}

	pkg.WriteJSON(w, handler.store.GetWorkoutsByDateRange(ctx, from, to), http.StatusOK)
}

func (handler *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.settings.get")
	defer span.End()

	pkg.WriteJSON(w, handler.store.GetSettings(ctx), http.StatusOK)
}

func (handler *Handler) HandleSaveSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.settings.save")
	defer span.End()

	var settings workouts.AppSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, "invalid settings json", http.StatusBadRequest)
		return
	}
	if err := settings.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	handler.store.SaveSettings(ctx, settings)
	pkg.WriteJSON(w, settings, http.StatusOK)
}

// HandleClearAll erases everything. It is mounted by the server, behind the rate limiter when one exists.
func (handler *Handler) HandleClearAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.data.clear")
	defer span.End()

	handler.store.ClearAll(ctx)
	if err := handler.store.LastWriteError(); err != nil {
		log.Errorf("clear all data: %s", err)
		http.Error(w, "failed to clear all data", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var errEmptyBound = errors.New("empty")

func ParseRangeBound(value string, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errEmptyBound
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, errors.New("use YYYY-MM-DD or RFC3339")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
