package handlers

import (
	"encoding/json"
	"net/http"

	"cybershield/internal/domain/services"
	"cybershield/pkg/logger"
)

// PasswordHandler handles password strength and breach check requests.
// Passwords are processed in memory only and never logged or stored.
type PasswordHandler struct {
	passwords *services.PasswordAnalyzer
	breach    *services.BreachClient
	logger    *logger.Logger
}

// NewPasswordHandler creates a new password handler
func NewPasswordHandler(passwords *services.PasswordAnalyzer, breach *services.BreachClient, log *logger.Logger) *PasswordHandler {
	return &PasswordHandler{
		passwords: passwords,
		breach:    breach,
		logger:    log.WithComponent("password-handler"),
	}
}

// PasswordCheckRequest is the body of both password endpoints
type PasswordCheckRequest struct {
	Password string `json:"password"`
}

// Check handles POST /api/v1/password/check. The strength evaluation is
// fully local.
func (h *PasswordHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req PasswordCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if req.Password == "" {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "password is required")
		return
	}

	result := h.passwords.EvaluatePassword(req.Password)
	respondData(w, http.StatusOK, result)
}

// CheckBreach handles POST /api/v1/password/breach. Only a five
// character hash prefix ever leaves the service.
func (h *PasswordHandler) CheckBreach(w http.ResponseWriter, r *http.Request) {
	var req PasswordCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if req.Password == "" {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "password is required")
		return
	}

	result := h.breach.CheckBreach(r.Context(), req.Password)
	respondData(w, http.StatusOK, result)
}
