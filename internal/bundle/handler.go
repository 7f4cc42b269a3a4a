package bundle

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/2beens/gymbros/internal/telemetry/metrics"
	"github.com/2beens/gymbros/internal/telemetry/tracing"
	"github.com/2beens/gymbros/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const maxImportSize = 32 << 20

type Handler struct {
	store          dataStore
	now            func() time.Time
	metricsManager *metrics.Manager
}

func NewHandler(store dataStore, now func() time.Time, metricsManager *metrics.Manager) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		store:          store,
		now:            now,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers the bundle routes. importLimit, when set, wraps the import route.
func (handler *Handler) SetupRoutes(r *mux.Router, importLimit mux.MiddlewareFunc) {
	r.HandleFunc("/bundle/export", handler.HandleExport).Methods("GET", "OPTIONS")

	var importHandler http.Handler = http.HandlerFunc(handler.HandleImport)
	if importLimit != nil {
		importHandler = importLimit(importHandler)
	}
	r.Handle("/bundle/import", importHandler).Methods("POST", "OPTIONS")
}

func (handler *Handler) countImport(result string) {
	if handler.metricsManager == nil {
		return
	}
	handler.metricsManager.CounterImports.WithLabelValues(result).Inc()
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.bundle.export")
	defer span.End()

	now := handler.now()
	encoded, err := Encode(Export(ctx, handler.store, now))
	if err != nil {
		log.Errorf("export bundle: %s", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+FileName(now)+`"`)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, encoded, http.StatusOK)
}

func (handler *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.bundle.import")
	defer span.End()

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		handler.countImport("read_error")
		http.Error(w, "failed to read import body", http.StatusBadRequest)
		return
	}

	result, err := Import(ctx, handler.store, data)
	if err != nil {
		var validationErr *ImportValidationError
		if errors.As(err, &validationErr) {
			handler.countImport("invalid")
			http.Error(w, validationErr.Error(), http.StatusBadRequest)
			return
		}
		handler.countImport("error")
		log.Errorf("import bundle: %s", err)
		http.Error(w, "import failed", http.StatusInternalServerError)
		return
	}

	handler.countImport("ok")
	pkg.WriteJSON(w, result, http.StatusOK)
}
