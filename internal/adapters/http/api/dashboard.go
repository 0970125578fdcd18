// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// dashboardHandler handles dashboard requests
type dashboardHandler struct{}

// newdashboardHandler creates a new dashboard handler
func newdashboardHandler() *dashboardHandler {
	return &dashboardHandler{}
}

// HandleDashboard handles GET /dashboard requests
// Returns an HTML page that polls the leaderboard and stats endpoints
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	// Serve embedded dashboard page.
	// http.ServeFileFS requires Go 1.22; serve the same file through
	// http.FileServer so this builds with Go 1.21.
	req := r.Clone(r.Context())
	req.URL.Path = "/dashboard.html"
	http.FileServer(http.FS(dashboardFS)).ServeHTTP(w, req)
}
