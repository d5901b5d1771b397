// Package site serves the embedded dashboard page.
package site

import (
	"context"
	"errors"
	"io"
	"net/http"
)

// Error constants
var (
	ErrServe = errors.New("dashboard serve failed")
)

const dashboardFile = "dashboard.html"

// Register attaches the dashboard routes to mux. "/" only matches the exact
// root path; any other unregistered path is a 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	h := NewRootHandler()
	mux.HandleFunc("/", h.HandleRoot)
	mux.HandleFunc("/dashboard", h.HandleDashboard)
}

// RootHandler serves the dashboard page.
type RootHandler struct {
	fs http.FileSystem
}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return newRootHandler(FS())
}

func newRootHandler(fs http.FileSystem) *RootHandler {
	return &RootHandler{fs: fs}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.HandleDashboard(w, r)
}

// HandleDashboard handles GET /dashboard requests.
func (h *RootHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	f, err := h.fs.Open(dashboardFile)
	if err != nil {
		http.Error(w, ErrServe.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close() //nolint:errcheck // embedded file

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = io.Copy(w, f)
}
