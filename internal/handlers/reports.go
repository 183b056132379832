package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/xelth-com/asbuiltgo/internal/services/report"
)

func (r *Router) getPDFReport(w http.ResponseWriter, req *http.Request) {
	r.serveReport(w, req, r.svc.Report.PDF)
}

func (r *Router) getExcelReport(w http.ResponseWriter, req *http.Request) {
	r.serveReport(w, req, r.svc.Report.Excel)
}

// serveReport renders a report and returns it as JSON with base64 data, or
// as a file download when ?download=1
func (r *Router) serveReport(w http.ResponseWriter, req *http.Request, render func(context.Context, string) (*report.File, error)) {
	file, err := render(req.Context(), buildingParam(req))
	if err != nil {
		r.fail(w, req, err, "Failed to generate report")
		return
	}

	if download, _ := strconv.ParseBool(req.URL.Query().Get("download")); !download {
		respondJSON(w, http.StatusOK, file)
		return
	}

	// Set headers for download
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.Write(file.Data)
}
