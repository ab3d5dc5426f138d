package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"tagmatrix/internal/dispatch"
	"tagmatrix/internal/filter"
	httpmiddleware "tagmatrix/internal/middleware/http"
	"tagmatrix/internal/registry"
	"tagmatrix/internal/session"
)

// SetupRouter wires the demo HTTP surface: a health check, the query
// result interface, and the drop event interface. This is not the core —
// it exists only to exercise the core's four external interfaces over
// HTTP for the matrixctl CLI and any browser-based renderer.
func SetupRouter(registries *registry.Store, sessions *session.Repository, dispatcher *dispatch.Dispatcher, cache *filter.Cache, limits filter.Limits) *mux.Router {
	healthHandler := NewHealthHandler()
	queryHandler := NewQueryHandler(registries, sessions, cache, limits)
	dropHandler := NewDropHandler(dispatcher)

	router := mux.NewRouter()
	router.Use(httpmiddleware.Recovery)
	router.Use(httpmiddleware.CORS)
	router.Use(httpmiddleware.LoggingMiddleware)
	router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", healthHandler.HealthCheck).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionId}/query", queryHandler.Query).Methods(http.MethodGet)
	api.HandleFunc("/drops", dropHandler.Drop).Methods(http.MethodPost)

	return router
}
