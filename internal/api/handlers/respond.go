package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"cybershield/internal/domain/models"
)

// APIResponse is the envelope every endpoint responds with
type APIResponse struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// APIError carries a machine-readable code and human-readable message
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Success:   false,
		Error:     &APIError{Code: code, Message: message},
		Timestamp: time.Now().UTC(),
	})
}

// respondEvaluationError maps validation failures to 400 and everything
// else to 500.
func respondEvaluationError(w http.ResponseWriter, err error) {
	if models.IsInvalidInput(err) {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "analysis failed")
}

func respondStorageUnavailable(w http.ResponseWriter) {
	respondError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "persistent storage is not configured")
}
