package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/gymbros/internal/telemetry/tracing"
	"github.com/2beens/gymbros/internal/workouts"
	"github.com/2beens/gymbros/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type ProgressionResponse struct {
	Found bool                  `json:"found"`
	Data  *workouts.LastSetData `json:"data,omitempty"`
}

type RemoveSetResponse struct {
	Removed bool  `json:"removed"`
	Draft   Draft `json:"draft"`
}

type unitRequest struct {
	WeightUnit workouts.WeightUnit `json:"weightUnit"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{
		manager: manager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/progression/{routineId}/exercise/{exerciseId}", handler.HandleProgression).Methods("GET", "OPTIONS")

	r.HandleFunc("/session", handler.HandleCurrent).Methods("GET", "OPTIONS")
	r.HandleFunc("/session/start/{routineId}", handler.HandleStart).Methods("POST", "OPTIONS")
	r.HandleFunc("/session/begin", handler.HandleBegin).Methods("POST", "OPTIONS")
	r.HandleFunc("/session/exercise/{entryId}/sets", handler.HandleAddSet).Methods("POST", "OPTIONS")
	r.HandleFunc("/session/exercise/{entryId}/sets/{setId}", handler.HandleRemoveSet).Methods("DELETE", "OPTIONS")
	r.HandleFunc("/session/exercise/{entryId}/sets/{setId}", handler.HandleUpdateSet).Methods("PUT", "OPTIONS")
	r.HandleFunc("/session/exercise/{entryId}/unit", handler.HandleSetWeightUnit).Methods("PUT", "OPTIONS")
	r.HandleFunc("/session/next", handler.HandleNext).Methods("POST", "OPTIONS")
	r.HandleFunc("/session/prev", handler.HandlePrev).Methods("POST", "OPTIONS")
	r.HandleFunc("/session/notes", handler.HandleSetNotes).Methods("PUT", "OPTIONS")
	r.HandleFunc("/session/complete", handler.HandleComplete).Methods("POST", "OPTIONS")
	r.HandleFunc("/session/cancel", handler.HandleCancel).Methods("POST", "OPTIONS")
}

// writeError maps session errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRoutineNotFound), errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidSessionState):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, workouts.ErrInvalidSet), errors.Is(err, workouts.ErrInvalidWeightUnit):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("session handler: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (handler *Handler) writeDraft(w http.ResponseWriter, draft Draft, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	pkg.WriteJSON(w, draft, http.StatusOK)
}

func (handler *Handler) HandleProgression(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression")
	defer span.End()

	vars := mux.Vars(r)
	data, found := handler.manager.LastWorkoutDataForExercise(ctx, vars["exerciseId"], vars["routineId"])
	span.SetAttributes(attribute.Bool("found", found))

	pkg.WriteJSON(w, ProgressionResponse{Found: found, Data: data}, http.StatusOK)
}

func (handler *Handler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.current")
	defer span.End()

	draft, ok := handler.manager.Current()
	if !ok {
		http.Error(w, "no session", http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, draft, http.StatusOK)
}

func (handler *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.start")
	defer span.End()

	draft, err := handler.manager.StartSession(ctx, mux.Vars(r)["routineId"])
	if err != nil {
		writeError(w, err)
		return
	}
	pkg.WriteJSON(w, draft, http.StatusCreated)
}

func (handler *Handler) HandleBegin(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.begin")
	defer span.End()

	draft, err := handler.manager.Begin()
	handler.writeDraft(w, draft, err)
}

func (handler *Handler) HandleAddSet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.sets.add")
	defer span.End()

	draft, err := handler.manager.AddSet(mux.Vars(r)["entryId"])
	handler.writeDraft(w, draft, err)
}

func (handler *Handler) HandleRemoveSet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.sets.remove")
	defer span.End()

	vars := mux.Vars(r)
	removed, err := handler.manager.RemoveSet(vars["entryId"], vars["setId"])
	if err != nil {
		writeError(w, err)
		return
	}
	if !removed {
		http.Error(w, ErrLastSet.Error(), http.StatusConflict)
		return
	}

	draft, _ := handler.manager.Current()
	pkg.WriteJSON(w, RemoveSetResponse{Removed: true, Draft: draft}, http.StatusOK)
}

func (handler *Handler) HandleUpdateSet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.sets.update")
	defer span.End()

	var update SetUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid set update json", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	draft, err := handler.manager.UpdateSet(vars["entryId"], vars["setId"], update)
	handler.writeDraft(w, draft, err)
}

func (handler *Handler) HandleSetWeightUnit(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.unit")
	defer span.End()

	var req unitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid unit json", http.StatusBadRequest)
		return
	}

	draft, err := handler.manager.SetWeightUnit(mux.Vars(r)["entryId"], req.WeightUnit)
	handler.writeDraft(w, draft, err)
}

func (handler *Handler) HandleNext(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.next")
	defer span.End()

	draft, err := handler.manager.NextExercise()
	handler.writeDraft(w, draft, err)
}

func (handler *Handler) HandlePrev(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.prev")
	defer span.End()

	draft, err := handler.manager.PrevExercise()
	handler.writeDraft(w, draft, err)
}

func (handler *Handler) HandleSetNotes(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.notes")
	defer span.End()

	var req notesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid notes json", http.StatusBadRequest)
		return
	}

	draft, err := handler.manager.SetNotes(req.Notes)
	handler.writeDraft(w, draft, err)
}

func (handler *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.complete")
	defer span.End()

	workout, err := handler.manager.Complete(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	pkg.WriteJSON(w, workout, http.StatusCreated)
}

func (handler *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.cancel")
	defer span.End()

	if err := handler.manager.Cancel(); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
