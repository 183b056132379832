package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/xelth-com/asbuiltgo/internal/config"
	"github.com/xelth-com/asbuiltgo/internal/middleware"
	"github.com/xelth-com/asbuiltgo/internal/services/dashboard"
	"github.com/xelth-com/asbuiltgo/internal/services/delivery"
	"github.com/xelth-com/asbuiltgo/internal/services/ifc"
	"github.com/xelth-com/asbuiltgo/internal/services/ingestion"
	"github.com/xelth-com/asbuiltgo/internal/services/report"
	"github.com/xelth-com/asbuiltgo/internal/store"
)

// Services bundles what the HTTP layer calls into
type Services struct {
	Store     *store.Store
	Dashboard *dashboard.Service
	Ingestion *ingestion.Service
	IFC       *ifc.Service
	Report    *report.Service
	Delivery  *delivery.Service
}

// Router wraps the mux router and the services behind it
type Router struct {
	*mux.Router
	svc Services
	cfg *config.Config
	log *zap.Logger
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(cfg *config.Config, svc Services, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Router{
		Router: mux.NewRouter(),
		svc:    svc,
		cfg:    cfg,
		log:    log,
	}

	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.BodyLimit(cfg.MaxUploadBytes))
	api.HandleFunc("/status", r.getStatus).Methods("GET")

	// Dashboard
	dash := api.PathPrefix("/dashboard").Subrouter()
	dash.HandleFunc("/kpis", r.getKPIs).Methods("GET")
	dash.HandleFunc("/status", r.getStatusDistribution).Methods("GET")
	dash.HandleFunc("/top-rooms", r.getTopRooms).Methods("GET")
	dash.HandleFunc("/issues/by-discipline", r.getIssuesByDiscipline).Methods("GET")
	dash.HandleFunc("/issues/by-room", r.getIssuesByRoom).Methods("GET")
	dash.HandleFunc("/issues/by-week", r.getWeeklyTrend).Methods("GET")
	dash.HandleFunc("/divergences", r.getTopDivergences).Methods("GET")
	dash.HandleFunc("/integrity", r.getIntegrity).Methods("GET")
	dash.HandleFunc("/buildings", r.getBuildings).Methods("GET")
	dash.HandleFunc("/buildings/rooms", r.getRoomsPerBuilding).Methods("GET")
	dash.HandleFunc("/buildings/issues", r.getIssuesPerBuilding).Methods("GET")
	dash.HandleFunc("/qr", r.getDashboardQR).Methods("GET")

	// Rooms and issues
	api.HandleFunc("/rooms", r.listRooms).Methods("GET")
	api.HandleFunc("/rooms/{nome}", r.getRoom).Methods("GET")
	api.HandleFunc("/rooms/{nome}/issues", r.getRoomIssues).Methods("GET")
	api.HandleFunc("/issues", r.listIssues).Methods("GET")

	// Spreadsheet uploads
	api.HandleFunc("/uploads/excel", r.uploadExcel).Methods("POST")
	api.HandleFunc("/uploads", r.listUploads).Methods("GET")

	// Reports
	api.HandleFunc("/reports/pdf", r.getPDFReport).Methods("GET")
	api.HandleFunc("/reports/excel", r.getExcelReport).Methods("GET")

	// Deliveries
	deliveries := api.PathPrefix("/deliveries").Subrouter()
	deliveries.HandleFunc("", r.listDeliveries).Methods("GET")
	deliveries.HandleFunc("", r.createDelivery).Methods("POST")
	deliveries.HandleFunc("/stats", r.getDeliveryStats).Methods("GET")
	deliveries.HandleFunc("/{id:[0-9]+}", r.getDelivery).Methods("GET")
	deliveries.HandleFunc("/{id:[0-9]+}", r.updateDelivery).Methods("PUT")
	deliveries.HandleFunc("/{id:[0-9]+}", r.deleteDelivery).Methods("DELETE")

	// IFC models
	ifcRoutes := api.PathPrefix("/ifc").Subrouter()
	ifcRoutes.HandleFunc("/files", r.listIfcFiles).Methods("GET")
	ifcRoutes.HandleFunc("/files", r.uploadIfcFile).Methods("POST")
	ifcRoutes.HandleFunc("/files/{id:[0-9]+}", r.deleteIfcFile).Methods("DELETE")
	ifcRoutes.HandleFunc("/rooms", r.listIfcRooms).Methods("GET")
	ifcRoutes.HandleFunc("/rooms/{id:[0-9]+}/link", r.linkIfcElement).Methods("POST")

	// Uploaded models are served as static files
	r.PathPrefix(ifc.PublicPrefix).Handler(
		http.StripPrefix(ifc.PublicPrefix, http.FileServer(http.Dir(cfg.Storage.UploadDir))))

	return r
}

// Handler returns the router wrapped in the request-wide middleware
func (r *Router) Handler() http.Handler {
	var h http.Handler = r.Router
	h = middleware.CaseInsensitiveMiddleware(r.routeTemplates())(h)
	h = middleware.CORS(r.cfg.CORSOrigin)(h)
	h = middleware.RequestLogger(r.log)(h)
	return h
}

// routeTemplates lists the path templates of all routes
func (r *Router) routeTemplates() []string {
	var templates []string
	_ = r.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if tpl, err := route.GetPathTemplate(); err == nil {
			templates = append(templates, tpl)
		}
		return nil
	})
	return templates
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
