package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

func respondWithError(logger *zap.Logger, w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		logger.Warn(logMsg, zap.Int("status", status), zap.Error(err))
	}

	http.Error(w, userMsg, status)
}

func respondJSON(logger *zap.Logger, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func respondJSONError(logger *zap.Logger, w http.ResponseWriter, status int, userMsg string, err error) {
	if err != nil {
		logger.Debug(userMsg, zap.Int("status", status), zap.Error(err))
	}
	respondJSON(logger, w, status, map[string]string{"error": userMsg})
}
