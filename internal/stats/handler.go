package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/2beens/gymbros/internal/cache"
	"github.com/2beens/gymbros/internal/telemetry/metrics"
	"github.com/2beens/gymbros/internal/telemetry/tracing"
	"github.com/2beens/gymbros/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	defaultWeeks          = 12
	defaultFrequencyLimit = 8
	defaultProgressLimit  = 10
)

type StreakResponse struct {
	Days int `json:"days"`
}

type Handler struct {
	analyzer *Analyzer

	// optional response cache, see WithCache
	responseCache  cache.Cache
	dataVersion    func() uint64
	metricsManager *metrics.Manager
}

func NewHandler(analyzer *Analyzer) *Handler {
	return &Handler{
		analyzer: analyzer,
	}
}

// WithCache makes the handler keep encoded responses in c. Entries are keyed by the request,
// by dataVersion (which must change on every write to the workouts) and by the current day,
// so a write or midnight makes older entries unreachable.
func (handler *Handler) WithCache(c cache.Cache, dataVersion func() uint64, metricsManager *metrics.Manager) *Handler {
	handler.responseCache = c
	handler.dataVersion = dataVersion
	handler.metricsManager = metricsManager
	return handler
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/stats/general", handler.HandleGeneral).Methods("GET", "OPTIONS")
	r.HandleFunc("/stats/weekly", handler.HandleWeekly).Methods("GET", "OPTIONS")
	r.HandleFunc("/stats/frequency", handler.HandleFrequency).Methods("GET", "OPTIONS")
	r.HandleFunc("/stats/muscles", handler.HandleMuscles).Methods("GET", "OPTIONS")
	r.HandleFunc("/stats/streak", handler.HandleStreak).Methods("GET", "OPTIONS")
	r.HandleFunc("/stats/progress/{exerciseId}", handler.HandleProgress).Methods("GET", "OPTIONS")
	r.HandleFunc("/stats/routines/{routineId}", handler.HandleRoutineSummary).Methods("GET", "OPTIONS")
}

// intParam reads a positive int query param, falling back to def when absent.
func intParam(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func (handler *Handler) cacheKey(r *http.Request) string {
	day := handler.analyzer.clock().Format("2006-01-02")
	return fmt.Sprintf("stats|%d|%s|%s", handler.dataVersion(), day, r.URL.RequestURI())
}

func (handler *Handler) countCache(hit bool) {
	if handler.metricsManager == nil {
		return
	}
	if hit {
		handler.metricsManager.CounterCacheHits.Inc()
	} else {
		handler.metricsManager.CounterCacheMisses.Inc()
	}
}

// respond writes the result of compute as JSON, serving it from the response cache when the
// same request was already answered for the current data.
func (handler *Handler) respond(w http.ResponseWriter, r *http.Request, compute func() (any, error)) {
	key := ""
	if handler.responseCache != nil {
		// key before compute, so a racing write leaves the entry under the old version
		key = handler.cacheKey(r)
		if body, ok := handler.responseCache.Get(key); ok {
			handler.countCache(true)
			pkg.WriteResponseBytes(w, pkg.ContentType.JSON, body, http.StatusOK)
			return
		}
		handler.countCache(false)
	}

	v, err := compute()
	if err != nil {
		if errors.Is(err, ErrInvalidParam) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("stats: %s", err)
		http.Error(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}

	body, err := json.Marshal(v)
	if err != nil {
		log.Errorf("stats: marshal response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	if handler.responseCache != nil {
		if err := handler.responseCache.Set(key, body); err != nil {
			log.Debugf("stats cache: %s", err)
		}
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, body, http.StatusOK)
}

func (handler *Handler) HandleGeneral(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.general")
	defer span.End()

	handler.respond(w, r, func() (any, error) {
		return handler.analyzer.General(ctx)
	})
}

func (handler *Handler) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.weekly")
	defer span.End()

	weeks, ok := intParam(r, "weeks", defaultWeeks)
	if !ok {
		http.Error(w, "invalid weeks parameter (must be positive integer)", http.StatusBadRequest)
		return
	}
	handler.respond(w, r, func() (any, error) {
		return handler.analyzer.Weekly(ctx, weeks)
	})
}

func (handler *Handler) HandleFrequency(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.frequency")
	defer span.End()

	limit, ok := intParam(r, "limit", defaultFrequencyLimit)
	if !ok {
		http.Error(w, "invalid limit parameter (must be positive integer)", http.StatusBadRequest)
		return
	}
	handler.respond(w, r, func() (any, error) {
		return handler.analyzer.ExerciseFrequency(ctx, limit)
	})
}

func (handler *Handler) HandleMuscles(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.muscles")
	defer span.End()

	handler.respond(w, r, func() (any, error) {
		return handler.analyzer.MuscleGroupDistribution(ctx)
	})
}

func (handler *Handler) HandleStreak(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.streak")
	defer span.End()

	handler.respond(w, r, func() (any, error) {
		days, err := handler.analyzer.Streak(ctx)
		return StreakResponse{Days: days}, err
	})
}

func (handler *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.progress")
	defer span.End()

	limit, ok := intParam(r, "limit", defaultProgressLimit)
	if !ok {
		http.Error(w, "invalid limit parameter (must be positive integer)", http.StatusBadRequest)
		return
	}
	exerciseID := mux.Vars(r)["exerciseId"]
	handler.respond(w, r, func() (any, error) {
		return handler.analyzer.WeightProgress(ctx, exerciseID, limit)
	})
}

func (handler *Handler) HandleRoutineSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.routine")
	defer span.End()

	routineID := mux.Vars(r)["routineId"]
	handler.respond(w, r, func() (any, error) {
		return handler.analyzer.RoutineSummary(ctx, routineID)
	})
}
