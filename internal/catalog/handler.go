package catalog

import (
	"net/http"

	"github.com/2beens/gymbros/internal/telemetry/tracing"
	"github.com/2beens/gymbros/pkg"

	"github.com/gorilla/mux"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{
		catalog: catalog,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/catalog", handler.HandleList).Methods("GET", "OPTIONS")
	r.HandleFunc("/catalog/categories", handler.HandleCategories).Methods("GET", "OPTIONS")
	r.HandleFunc("/catalog/{id}", handler.HandleGet).Methods("GET", "OPTIONS")
}

// HandleList lists the whole catalog, or filters it by ?category= or ?q= (name search).
func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.list")
	defer span.End()

	query := r.URL.Query()
	switch {
	case query.Get("q") != "":
		pkg.WriteJSON(w, handler.catalog.Search(query.Get("q")), http.StatusOK)
	case query.Get("category") != "":
		pkg.WriteJSON(w, handler.catalog.ByCategory(query.Get("category")), http.StatusOK)
	default:
		pkg.WriteJSON(w, handler.catalog.All(), http.StatusOK)
	}
}

func (handler *Handler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.categories")
	defer span.End()

	pkg.WriteJSON(w, handler.catalog.Categories(), http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.get")
	defer span.End()

	exercise, ok := handler.catalog.Get(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}
	pkg.WriteJSON(w, exercise, http.StatusOK)
}
