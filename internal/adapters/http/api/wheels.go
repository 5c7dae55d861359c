package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/spinwheel/internal/domain/wheel"
)

// maxDocumentBytes bounds a wheel document upload.
const maxDocumentBytes = 1 << 20

// WheelsDependencies defines the wheel document operations.
type WheelsDependencies interface {
	ListWheels(ctx context.Context) (map[string]wheel.Document, error)
	GetWheel(ctx context.Context, key string) (wheel.Document, error)
	PutWheel(ctx context.Context, key string, doc wheel.Document) error
	DeleteWheel(ctx context.Context, key string) error
}

// WheelsHandler serves /api/wheels.
type WheelsHandler struct {
	deps WheelsDependencies
}

// NewWheelsHandler creates a new wheels handler.
func NewWheelsHandler(deps WheelsDependencies) *WheelsHandler {
	return &WheelsHandler{deps: deps}
}

// HandleList handles GET /api/wheels.
func (h *WheelsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.deps.ListWheels(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// HandleGet handles GET /api/wheels/{key}.
func (h *WheelsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := h.deps.GetWheel(r.Context(), r.PathValue("key"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// HandleSave handles PUT and POST /api/wheels/{key}. The body may use the
// layered document shape or either legacy shape.
func (h *WheelsHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: read body: %w", ErrBadRequest, err))
		return
	}
	if len(body) > maxDocumentBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", nil)
		return
	}
	doc, err := wheel.Decode(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.PutWheel(r.Context(), key, doc); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true, Key: key})
}

// HandleDelete handles DELETE /api/wheels/{key}.
func (h *WheelsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteWheel(r.Context(), r.PathValue("key")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}
