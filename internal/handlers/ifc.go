package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/xelth-com/asbuiltgo/internal/models"
	"github.com/xelth-com/asbuiltgo/internal/services/ifc"
)

// LinkRequest binds a room to an IFC element
type LinkRequest struct {
	IfcExpressID *int `json:"ifcExpressId"`
}

func (r *Router) listIfcFiles(w http.ResponseWriter, req *http.Request) {
	files, err := r.svc.IFC.List(req.Context(), buildingParam(req))
	r.respondRead(w, req, files, []models.IfcFile{}, err)
}

func (r *Router) uploadIfcFile(w http.ResponseWriter, req *http.Request) {
	body, data, err := decodeUpload(req)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
		r.fail(w, req, err, "Invalid request payload")
		return
	}
	if strings.TrimSpace(body.FileName) == "" {
		respondError(w, http.StatusBadRequest, "fileName is required")
		return
	}
	if body.Building != nil && strings.TrimSpace(*body.Building) == "" {
		body.Building = nil
	}

	result, err := r.svc.IFC.Upload(req.Context(), data, body.FileName, body.Building, models.SystemUserID)
	if err != nil {
		r.fail(w, req, err, "Failed to store IFC file")
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (r *Router) deleteIfcFile(w http.ResponseWriter, req *http.Request) {
	id, ok := idParam(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid file id")
		return
	}
	if err := r.svc.IFC.Delete(req.Context(), id); err != nil {
		r.fail(w, req, err, "Failed to delete IFC file")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// listIfcRooms returns the rooms with their viewer colours
func (r *Router) listIfcRooms(w http.ResponseWriter, req *http.Request) {
	rooms, err := r.svc.IFC.RoomsWithColors(req.Context())
	r.respondRead(w, req, rooms, []ifc.RoomWithColor{}, err)
}

func (r *Router) linkIfcElement(w http.ResponseWriter, req *http.Request) {
	id, ok := idParam(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid room id")
		return
	}
	var body LinkRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.IfcExpressID == nil {
		respondError(w, http.StatusBadRequest, "ifcExpressId is required")
		return
	}
	if err := r.svc.IFC.LinkElement(req.Context(), id, *body.IfcExpressID); err != nil {
		r.fail(w, req, err, "Failed to link IFC element")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
