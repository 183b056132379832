package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/xelth-com/asbuiltgo/internal/models"
	"github.com/xelth-com/asbuiltgo/internal/services/delivery"
)

// idParam parses the {id} route variable
func idParam(req *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (r *Router) listDeliveries(w http.ResponseWriter, req *http.Request) {
	list, err := r.svc.Delivery.List(req.Context(), buildingParam(req), req.URL.Query().Get("status"))
	r.respondRead(w, req, list, []models.Delivery{}, err)
}

func (r *Router) getDelivery(w http.ResponseWriter, req *http.Request) {
	id, ok := idParam(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid delivery id")
		return
	}
	d, err := r.svc.Delivery.Get(req.Context(), id)
	if err != nil {
		r.fail(w, req, err, "Failed to load delivery")
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (r *Router) createDelivery(w http.ResponseWriter, req *http.Request) {
	var in delivery.Input
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	in.ID = 0

	d, err := r.svc.Delivery.Save(req.Context(), in)
	if err != nil {
		r.fail(w, req, err, "Failed to create delivery")
		return
	}
	respondJSON(w, http.StatusCreated, d)
}

func (r *Router) updateDelivery(w http.ResponseWriter, req *http.Request) {
	id, ok := idParam(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid delivery id")
		return
	}
	var in delivery.Input
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	in.ID = id

	d, err := r.svc.Delivery.Save(req.Context(), in)
	if err != nil {
		r.fail(w, req, err, "Failed to update delivery")
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (r *Router) deleteDelivery(w http.ResponseWriter, req *http.Request) {
	id, ok := idParam(req)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid delivery id")
		return
	}
	if err := r.svc.Delivery.Delete(req.Context(), id); err != nil {
		r.fail(w, req, err, "Failed to delete delivery")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (r *Router) getDeliveryStats(w http.ResponseWriter, req *http.Request) {
	stats, err := r.svc.Delivery.Stats(req.Context(), buildingParam(req))
	r.respondRead(w, req, stats, &delivery.Stats{}, err)
}
