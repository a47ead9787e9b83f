package handlers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"harjoitus/internal/progress"
	"harjoitus/internal/service"
)

// DataHandler serves the persistence endpoints used by the progress mirror
type DataHandler struct {
	dataService *service.DataService
	maxSize     int64
	logger      *zap.Logger
}

// NewDataHandler creates a data handler; uploads above maxSize bytes are rejected
func NewDataHandler(dataService *service.DataService, maxSize int64, logger *zap.Logger) *DataHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataHandler{dataService: dataService, maxSize: maxSize, logger: logger}
}

// GetData returns the stored CSV snapshot
func (h *DataHandler) GetData(w http.ResponseWriter, r *http.Request) {
	data, err := h.dataService.Get(r.Context())
	if errors.Is(err, service.ErrNoData) {
		http.Error(w, "No data stored", http.StatusNotFound)
		return
	}
	if err != nil {
		respondWithError(h.logger, w, http.StatusInternalServerError, ErrInternalServerError, "failed to read data", err)
		return
	}

	w.Header().Set("Content-Type", contentTypeCSV)
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(data); err != nil {
		h.logger.Debug("failed to write data response", zap.Error(err))
	}
}

// PostData replaces the stored snapshot with the request body
func (h *DataHandler) PostData(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondJSONError(h.logger, w, http.StatusRequestEntityTooLarge, "Upload too large", err)
			return
		}
		respondJSONError(h.logger, w, http.StatusBadRequest, ErrInvalidRequest, err)
		return
	}

	if _, err := h.dataService.Put(r.Context(), body); err != nil {
		if errors.Is(err, progress.ErrMalformedCSV) {
			respondJSONError(h.logger, w, http.StatusBadRequest, "Invalid progress data", err)
			return
		}
		h.logger.Error("failed to store data", zap.Error(err))
		respondJSONError(h.logger, w, http.StatusInternalServerError, ErrInternalServerError, nil)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, map[string]bool{"success": true})
}

// Health reports that the server is up
func (h *DataHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(h.logger, w, http.StatusOK, map[string]string{"status": "ok"})
}
