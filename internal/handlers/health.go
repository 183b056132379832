package handlers

import (
	"net/http"

	"github.com/xelth-com/asbuiltgo/internal/buildinfo"
)

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// getStatus reports build metadata and database reachability
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	database := "ok"
	if err := r.svc.Store.Ping(req.Context()); err != nil {
		database = "unavailable"
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "running",
		"database": database,
		"build":    buildinfo.Get(),
	})
}
