package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xelth-com/asbuiltgo/internal/ingest"
	"github.com/xelth-com/asbuiltgo/internal/lock"
	"github.com/xelth-com/asbuiltgo/internal/services/delivery"
	"github.com/xelth-com/asbuiltgo/internal/services/ifc"
	"github.com/xelth-com/asbuiltgo/internal/store"
	"github.com/xelth-com/asbuiltgo/internal/utils"
)

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	var verr *delivery.ValidationError
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ingest.ErrLegacyWorkbook):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ingest.ErrMalformedWorkbook),
		errors.Is(err, ifc.ErrEmptyFile),
		errors.Is(err, utils.ErrEmptyPayload),
		errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lock.ErrLocked):
		return http.StatusConflict
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Internal errors are logged and
// answered with the fallback message only.
func (r *Router) fail(w http.ResponseWriter, req *http.Request, err error, fallback string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		r.log.Error(fallback,
			zap.String("path", req.URL.Path),
			zap.Error(err))
		respondError(w, status, fallback)
		return
	}
	respondError(w, status, err.Error())
}

// respondRead answers a read endpoint. When the database is unreachable the
// empty payload is served instead, so the dashboard renders zeros.
func (r *Router) respondRead(w http.ResponseWriter, req *http.Request, data, empty interface{}, err error) {
	if err == nil {
		respondJSON(w, http.StatusOK, data)
		return
	}
	if errors.Is(err, store.ErrUnavailable) {
		r.log.Warn("⚠️ Database unavailable, serving empty payload",
			zap.String("path", req.URL.Path),
			zap.Error(err))
		respondJSON(w, http.StatusOK, empty)
		return
	}
	r.fail(w, req, err, "Failed to load data")
}
