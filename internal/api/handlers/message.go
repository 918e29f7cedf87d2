package handlers

import (
	"encoding/json"
	"net/http"

	"cybershield/internal/domain/models"
	"cybershield/internal/domain/services"
	"cybershield/pkg/logger"
)

// MessageHandler handles message and email scam analysis requests
type MessageHandler struct {
	messages *services.MessageAnalyzer
	logger   *logger.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messages *services.MessageAnalyzer, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		messages: messages,
		logger:   log.WithComponent("message-handler"),
	}
}

// MessageAnalyzeRequest is the body of the message analysis endpoint
type MessageAnalyzeRequest struct {
	Message string `json:"message"`
}

// Analyze handles POST /api/v1/message/analyze
func (h *MessageHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req MessageAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}

	result, err := h.messages.EvaluateMessage(r.Context(), req.Message)
	if err != nil {
		if !models.IsInvalidInput(err) {
			h.logger.Error().Err(err).Msg("failed to evaluate message")
		}
		respondEvaluationError(w, err)
		return
	}

	respondData(w, http.StatusOK, result)
}
