package handlers

import (
	"encoding/json"
	"net/http"

	"cybershield/internal/domain/models"
	"cybershield/internal/domain/services"
	"cybershield/pkg/logger"
)

// AnalyzeHandler handles the combined analysis endpoint
type AnalyzeHandler struct {
	analysis *services.AnalysisService
	logger   *logger.Logger
}

// NewAnalyzeHandler creates a new AnalyzeHandler
func NewAnalyzeHandler(analysis *services.AnalysisService, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysis: analysis,
		logger:   log.WithComponent("analyze-handler"),
	}
}

// Analyze handles POST /api/v1/analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}

	result, err := h.analysis.Analyze(r.Context(), req)
	if err != nil {
		if !models.IsInvalidInput(err) {
			h.logger.Error().Err(err).Str("input_type", string(req.Type)).Msg("analysis failed")
		}
		respondEvaluationError(w, err)
		return
	}

	respondData(w, http.StatusOK, result)
}
