package handlers

import (
	"net/http"
	"time"

	"kings-admin/logger"
	"kings-admin/services"

	"github.com/gorilla/mux"
)

const requestIDHeader = "X-Request-ID"

// NewRouter регистрирует маршруты веб-интерфейса и JSON API
func NewRouter(h *WebHandler) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, loggingMiddleware)

	r.HandleFunc("/", h.IndexHandler).Methods(http.MethodGet)
	r.HandleFunc("/refresh", h.RefreshHandler).Methods(http.MethodPost)
	r.HandleFunc("/users/{id}/status", h.StatusHandler).Methods(http.MethodPost)
	r.HandleFunc("/users/{id}/delete", h.ConfirmDeleteHandler).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}/delete", h.DeleteHandler).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/users", h.GetUsersHandler).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/status", h.APIStatusHandler).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}", h.APIDeleteHandler).Methods(http.MethodDelete)
	api.HandleFunc("/users/{id}/decision", h.GetUserDecisionHandler).Methods(http.MethodGet)
	api.HandleFunc("/decisions", h.GetDecisionsHandler).Methods(http.MethodGet)
	api.HandleFunc("/decisions/stats", h.GetDecisionStatsHandler).Methods(http.MethodGet)

	r.HandleFunc("/healthz", h.HealthHandler).Methods(http.MethodGet)

	return r
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := services.WithRequestID(r.Context(), r.Header.Get(requestIDHeader))
		w.Header().Set(requestIDHeader, services.RequestIDFromContext(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", services.RequestIDFromContext(r.Context()),
		)
	})
}
