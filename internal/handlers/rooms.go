package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/xelth-com/asbuiltgo/internal/models"
)

// listRooms returns the rooms, optionally of one building
func (r *Router) listRooms(w http.ResponseWriter, req *http.Request) {
	rooms, err := r.svc.Store.ListRooms(req.Context(), buildingParam(req))
	r.respondRead(w, req, rooms, []models.Room{}, err)
}

// getRoom returns a room by its name
func (r *Router) getRoom(w http.ResponseWriter, req *http.Request) {
	room, err := r.svc.Store.RoomByName(req.Context(), mux.Vars(req)["nome"])
	if err != nil {
		r.fail(w, req, err, "Failed to load room")
		return
	}
	respondJSON(w, http.StatusOK, room)
}

// getRoomIssues returns the issues of a room, newest first
func (r *Router) getRoomIssues(w http.ResponseWriter, req *http.Request) {
	issues, err := r.svc.Store.IssuesByRoom(req.Context(), mux.Vars(req)["nome"])
	r.respondRead(w, req, issues, []models.Issue{}, err)
}

// listIssues returns the issues, optionally of one building
func (r *Router) listIssues(w http.ResponseWriter, req *http.Request) {
	issues, err := r.svc.Store.ListIssues(req.Context(), buildingParam(req))
	r.respondRead(w, req, issues, []models.Issue{}, err)
}
