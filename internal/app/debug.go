package app

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jobboard-client/internal/session"
)

type healthResponse struct {
	Status    string `json:"status"`
	AuthState string `json:"auth_state"`
	Storage   string `json:"storage"`
}

func (a *App) setupDebugRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/healthz", a.handleHealth)

	return r
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:    "ok",
		AuthState: a.state.State().String(),
		Storage:   a.store.Kind(),
	}
	if a.state.State() == session.AuthStateUnauthenticated {
		resp.Status = "reauthentication_required"
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		a.logger.Error("Failed to encode health response", "error", err)
	}
}
