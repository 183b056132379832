package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/xelth-com/asbuiltgo/internal/models"
	"github.com/xelth-com/asbuiltgo/internal/utils"
)

const defaultUploadHistory = 20

// FileUploadRequest carries a base64 file in a JSON body
type FileUploadRequest struct {
	FileBuffer string  `json:"fileBuffer"`
	FileName   string  `json:"fileName"`
	Building   *string `json:"edificacao,omitempty"`
}

// decodeUpload reads the JSON body and decodes its file buffer
func decodeUpload(req *http.Request) (*FileUploadRequest, []byte, error) {
	var body FileUploadRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return nil, nil, err
	}
	data, err := utils.DecodeFileBuffer(body.FileBuffer)
	if err != nil {
		return nil, nil, err
	}
	return &body, data, nil
}

// uploadExcel replaces the dataset with the uploaded workbook
func (r *Router) uploadExcel(w http.ResponseWriter, req *http.Request) {
	body, data, err := decodeUpload(req)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
		r.fail(w, req, err, "Invalid request payload")
		return
	}

	result, err := r.svc.Ingestion.Ingest(req.Context(), body.FileName, data, models.SystemUserID)
	if err != nil {
		r.log.Warn("❌ Excel upload failed", zap.String("file", body.FileName), zap.Error(err))
		r.fail(w, req, err, "Failed to process Excel file")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// listUploads returns the most recent uploads
func (r *Router) listUploads(w http.ResponseWriter, req *http.Request) {
	limit := defaultUploadHistory
	if v, err := strconv.Atoi(req.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	uploads, err := r.svc.Ingestion.History(req.Context(), limit)
	r.respondRead(w, req, uploads, []models.Upload{}, err)
}
