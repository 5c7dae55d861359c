// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/spinwheel/internal/adapters/repository"
	service "github.com/okian/spinwheel/internal/app"
	"github.com/okian/spinwheel/internal/domain/model"
	"github.com/okian/spinwheel/internal/domain/wheel"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	ListWheels(ctx context.Context) (map[string]wheel.Document, error)
	GetWheel(ctx context.Context, key string) (wheel.Document, error)
	PutWheel(ctx context.Context, key string, doc wheel.Document) error
	DeleteWheel(ctx context.Context, key string) error

	Spin(ctx context.Context, req service.SpinRequest) (service.SpinResult, error)
	History(ctx context.Context, key string, limit int) ([]model.SpinRecord, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	wheelsHandler *WheelsHandler
	spinHandler   *SpinHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	cfg := serverConfig{maxHistoryLimit: defaultMaxHistoryLimit}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(deps),
		wheelsHandler: NewWheelsHandler(deps),
		spinHandler:   NewSpinHandler(deps, cfg.maxHistoryLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /api/wheels", MetricsMiddleware(s.wheelsHandler.HandleList, "wheels"))
	mux.HandleFunc("GET /api/wheels/{key}", MetricsMiddleware(s.wheelsHandler.HandleGet, "wheel"))
	mux.HandleFunc("PUT /api/wheels/{key}", MetricsMiddleware(s.wheelsHandler.HandleSave, "wheel"))
	mux.HandleFunc("POST /api/wheels/{key}", MetricsMiddleware(s.wheelsHandler.HandleSave, "wheel"))
	mux.HandleFunc("DELETE /api/wheels/{key}", MetricsMiddleware(s.wheelsHandler.HandleDelete, "wheel"))

	mux.HandleFunc("POST /api/wheels/{key}/spin", MetricsMiddleware(s.spinHandler.HandleSpin, "spin"))
	mux.HandleFunc("GET /api/wheels/{key}/history", MetricsMiddleware(s.spinHandler.HandleHistory, "history"))
}

type okResponse struct {
	OK  bool   `json:"ok"`
	Key string `json:"key,omitempty"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{OK: false, Code: code, Error: msg})
}

// writeServiceError maps service and store sentinels to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", errNotFound)
	case errors.Is(err, repository.ErrEmptyKey),
		errors.Is(err, service.ErrInvalidLayer),
		errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrNothingToWin):
		writeError(w, http.StatusUnprocessableEntity, "nothing_to_win", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
