// Package site serves the embedded browser pages.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded pages to mux.
//
//	GET /             -> index.html and other static assets
//	GET /wheel/{key}  -> wheel.html, which loads the wheel through the API
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.FileServer(FS())
	mux.Handle("GET /", files)
	mux.HandleFunc("GET /wheel/{key}", NewWheelHandler().HandleWheel)
}

// WheelHandler serves the single-wheel page.
type WheelHandler struct {
	page []byte
}

// NewWheelHandler creates a new wheel page handler.
func NewWheelHandler() *WheelHandler {
	return &WheelHandler{page: wheelPage}
}

// HandleWheel handles GET /wheel/{key}. The key is read client side from
// the URL so the page itself is static.
func (h *WheelHandler) HandleWheel(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("key") == "" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.page)
}
