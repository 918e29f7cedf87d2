package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cybershield/internal/domain/models"
	"cybershield/internal/infrastructure/database/repository"
	"cybershield/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// HistoryHandler serves the anonymized analysis history
type HistoryHandler struct {
	repos  *repository.Repositories
	logger *logger.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(repos *repository.Repositories, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		repos:  repos,
		logger: log.WithComponent("history-handler"),
	}
}

// List handles GET /api/v1/history
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.repos == nil {
		respondStorageUnavailable(w)
		return
	}

	filter, err := parseHistoryFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	page, err := h.repos.Analyses.List(r.Context(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list analysis history")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list history")
		return
	}

	// The full input hash stays internal
	for i := range page.Items {
		page.Items[i].InputHash = truncateHash(page.Items[i].InputHash)
	}

	respondData(w, http.StatusOK, page)
}

// Get handles GET /api/v1/history/{id}
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.repos == nil {
		respondStorageUnavailable(w)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "id must be a valid UUID")
		return
	}

	rec, err := h.repos.Analyses.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "analysis not found")
			return
		}
		h.logger.Error().Err(err).Str("analysis_id", id.String()).Msg("failed to fetch analysis")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to fetch analysis")
		return
	}

	// The full input hash stays internal
	rec.InputHash = truncateHash(rec.InputHash)
	respondData(w, http.StatusOK, rec)
}

func parseHistoryFilter(r *http.Request) (models.HistoryFilter, error) {
	q := r.URL.Query()
	filter := models.HistoryFilter{
		Page:       1,
		PageSize:   defaultPageSize,
		Severity:   q.Get("severity"),
		ThreatType: q.Get("threat_type"),
		InputType:  q.Get("input_type"),
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return filter, errors.New("page must be a positive integer")
		}
		filter.Page = page
	}
	if raw := q.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > maxPageSize {
			return filter, errors.New("page_size must be between 1 and 50")
		}
		filter.PageSize = size
	}
	return filter, nil
}

func truncateHash(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}
