package http

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps carries everything the router wires together.
type RouterDeps struct {
	Registrations *RegistrationHandler
	Events        *EventsHandler
	Auth          *AuthMiddleware
	SubmitLimiter *RateLimiter
	Registry      *prometheus.Registry
	DB            *sql.DB
}

// NewRouter builds the full route table. The submission endpoint is public
// and rate limited; everything under /admin requires an administrator token.
func NewRouter(deps RouterDeps) *mux.Router {
	r := mux.NewRouter()

	r.Handle("/api/v1/registrations",
		deps.SubmitLimiter.Middleware(http.HandlerFunc(deps.Registrations.HandleSubmit))).
		Methods("POST")

	admin := r.PathPrefix("/api/v1/admin").Subrouter()
	admin.Use(deps.Auth.RequireAdmin)
	admin.HandleFunc("/registrations", deps.Registrations.HandleList).Methods("GET")
	admin.HandleFunc("/registrations/{id}", deps.Registrations.HandleGet).Methods("GET")
	admin.HandleFunc("/registrations/{id}/decision", deps.Registrations.HandleDecide).Methods("POST")
	admin.HandleFunc("/registrations/{id}/log", deps.Registrations.HandleApprovalLog).Methods("GET")
	admin.HandleFunc("/companies", deps.Registrations.HandleListCompanies).Methods("GET")
	admin.HandleFunc("/events", deps.Events.HandleStream).Methods("GET")

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := deps.DB.PingContext(req.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})).Methods("GET")

	return r
}
