package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"cybershield/internal/domain/models"
	"cybershield/internal/infrastructure/database/repository"
	"cybershield/pkg/logger"
)

// FeedbackHandler records user verdicts on past analyses
type FeedbackHandler struct {
	repos  *repository.Repositories
	logger *logger.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(repos *repository.Repositories, log *logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		repos:  repos,
		logger: log.WithComponent("feedback-handler"),
	}
}

// FeedbackRequest is the body of the feedback endpoint
type FeedbackRequest struct {
	AnalysisHash string `json:"analysisHash"`
	FeedbackType string `json:"feedbackType"`
	Comment      string `json:"comment,omitempty"`
}

// Submit handles POST /api/v1/feedback
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.repos == nil {
		respondStorageUnavailable(w)
		return
	}

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if req.AnalysisHash == "" {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "analysisHash is required")
		return
	}
	fbType := models.FeedbackType(req.FeedbackType)
	if !models.ValidFeedbackType(fbType) {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "feedbackType must be one of: false_positive, false_negative, accurate")
		return
	}

	fb := &models.Feedback{
		ID:           uuid.New(),
		AnalysisHash: req.AnalysisHash,
		FeedbackType: fbType,
		Comment:      req.Comment,
		CreatedAt:    time.Now().UTC(),
	}
	// Feedback insert and false-positive flip commit or roll back together
	updated, err := h.repos.SubmitFeedback(r.Context(), fb)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to record feedback")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to record feedback")
		return
	}

	h.auditFeedback(r, fb, updated)

	respondData(w, http.StatusOK, map[string]any{
		"id":              fb.ID,
		"status":          "recorded",
		"analysisUpdated": updated,
	})
}

func (h *FeedbackHandler) auditFeedback(r *http.Request, fb *models.Feedback, updated bool) {
	entry := &models.AuditEntry{
		ID:       uuid.New(),
		Action:   "feedback.submit",
		Resource: "analysis",
		Details: map[string]any{
			"feedback_id":      fb.ID.String(),
			"feedback_type":    string(fb.FeedbackType),
			"analysis_updated": updated,
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := h.repos.Audit.Create(r.Context(), entry); err != nil {
		h.logger.Warn().Err(err).Msg("failed to write audit entry")
	}
}
