package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/xelth-com/asbuiltgo/internal/services/dashboard"
	"github.com/xelth-com/asbuiltgo/internal/store"
)

// buildingParam reads the optional ?edificacao= filter
func buildingParam(req *http.Request) string {
	return strings.TrimSpace(req.URL.Query().Get("edificacao"))
}

func (r *Router) getKPIs(w http.ResponseWriter, req *http.Request) {
	building := buildingParam(req)
	kpis, err := r.svc.Dashboard.KPIs(req.Context(), building)
	r.respondRead(w, req, kpis, &dashboard.KPIs{Building: building}, err)
}

func (r *Router) getStatusDistribution(w http.ResponseWriter, req *http.Request) {
	dist, err := r.svc.Dashboard.StatusDistribution(req.Context(), buildingParam(req))
	r.respondRead(w, req, dist, dashboard.EmptyDistribution(), err)
}

func (r *Router) getTopRooms(w http.ResponseWriter, req *http.Request) {
	rooms, err := r.svc.Dashboard.TopImpactedRooms(req.Context(), buildingParam(req))
	r.respondRead(w, req, rooms, []store.RoomIssueCount{}, err)
}

func (r *Router) getIssuesByDiscipline(w http.ResponseWriter, req *http.Request) {
	rows, err := r.svc.Dashboard.IssuesByDiscipline(req.Context(), buildingParam(req))
	r.respondRead(w, req, rows, []dashboard.DisciplineCount{}, err)
}

func (r *Router) getIssuesByRoom(w http.ResponseWriter, req *http.Request) {
	rows, err := r.svc.Dashboard.IssuesByRoom(req.Context())
	r.respondRead(w, req, rows, []dashboard.RoomCount{}, err)
}

func (r *Router) getWeeklyTrend(w http.ResponseWriter, req *http.Request) {
	points, err := r.svc.Dashboard.WeeklyTrend(req.Context(), buildingParam(req))
	r.respondRead(w, req, points, []dashboard.WeekPoint{}, err)
}

func (r *Router) getTopDivergences(w http.ResponseWriter, req *http.Request) {
	rows, err := r.svc.Dashboard.TopDivergences(req.Context())
	r.respondRead(w, req, rows, []dashboard.DivergenceCount{}, err)
}

func (r *Router) getIntegrity(w http.ResponseWriter, req *http.Request) {
	report, err := r.svc.Dashboard.Integrity(req.Context())
	r.respondRead(w, req, report, &dashboard.Integrity{Items: []dashboard.UnmappedRoom{}}, err)
}

func (r *Router) getBuildings(w http.ResponseWriter, req *http.Request) {
	buildings, err := r.svc.Dashboard.Buildings(req.Context())
	r.respondRead(w, req, buildings, []string{}, err)
}

func (r *Router) getRoomsPerBuilding(w http.ResponseWriter, req *http.Request) {
	rows, err := r.svc.Dashboard.RoomsPerBuilding(req.Context())
	r.respondRead(w, req, rows, []dashboard.BuildingCount{}, err)
}

func (r *Router) getIssuesPerBuilding(w http.ResponseWriter, req *http.Request) {
	rows, err := r.svc.Dashboard.IssuesPerBuilding(req.Context())
	r.respondRead(w, req, rows, []dashboard.BuildingCount{}, err)
}

// getDashboardQR renders a QR code pointing at the public dashboard URL
func (r *Router) getDashboardQR(w http.ResponseWriter, req *http.Request) {
	url := r.cfg.Report.DashboardURL
	if url == "" {
		respondError(w, http.StatusNotFound, "Dashboard URL not configured")
		return
	}

	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate QR")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Write(png)
}
