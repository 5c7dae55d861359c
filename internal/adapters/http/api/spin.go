package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	service "github.com/okian/spinwheel/internal/app"
	"github.com/okian/spinwheel/internal/domain/model"
)

// IdempotencyHeader carries the client's retry key for POST .../spin.
const IdempotencyHeader = "Idempotency-Key"

const defaultHistoryLimit = 20

// SpinDependencies defines the spin operations.
type SpinDependencies interface {
	Spin(ctx context.Context, req service.SpinRequest) (service.SpinResult, error)
	History(ctx context.Context, key string, limit int) ([]model.SpinRecord, error)
}

// SpinHandler serves spin and history requests.
type SpinHandler struct {
	deps     SpinDependencies
	maxLimit int
}

// NewSpinHandler creates a new spin handler.
func NewSpinHandler(deps SpinDependencies, maxLimit int) *SpinHandler {
	return &SpinHandler{deps: deps, maxLimit: maxLimit}
}

// spinRequest is the optional body of POST /api/wheels/{key}/spin.
type spinRequest struct {
	Layer *int     `json:"layer"`
	Speed *float64 `json:"speed"`
}

type spinResponse struct {
	Status string            `json:"status"`
	SpinID string            `json:"spin_id"`
	Spin   *model.SpinRecord `json:"spin,omitempty"`
}

type historyResponse struct {
	Key   string             `json:"key"`
	Spins []model.SpinRecord `json:"spins"`
}

// HandleSpin handles POST /api/wheels/{key}/spin.
func (h *SpinHandler) HandleSpin(w http.ResponseWriter, r *http.Request) {
	var body spinRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxDocumentBytes)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	res, err := h.deps.Spin(r.Context(), service.SpinRequest{
		Key:            r.PathValue("key"),
		Layer:          body.Layer,
		Speed:          body.Speed,
		IdempotencyKey: r.Header.Get(IdempotencyHeader),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if res.Duplicate {
		writeJSON(w, http.StatusOK, spinResponse{Status: "duplicate", SpinID: res.SpinID})
		return
	}
	writeJSON(w, http.StatusOK, spinResponse{Status: "ok", SpinID: res.SpinID, Spin: &res.Record})
}

// HandleHistory handles GET /api/wheels/{key}/history?limit=N.
func (h *SpinHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	// Without an explicit limit the default never exceeds the cap.
	limit := min(defaultHistoryLimit, h.maxLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded",
				fmt.Errorf("%w: limit must not exceed %d", ErrBadRequest, h.maxLimit))
			return
		}
		limit = n
	}

	key := r.PathValue("key")
	recs, err := h.deps.History(r.Context(), key, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Key: key, Spins: recs})
}
