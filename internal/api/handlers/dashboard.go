package handlers

import (
	"net/http"
	"strconv"

	"cybershield/internal/infrastructure/database/repository"
	"cybershield/pkg/logger"
)

const (
	defaultTrendDays = 7
	maxTrendDays     = 30
)

// DashboardHandler serves aggregate metrics and trend charts
type DashboardHandler struct {
	repos  *repository.Repositories
	logger *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(repos *repository.Repositories, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		repos:  repos,
		logger: log.WithComponent("dashboard-handler"),
	}
}

// Metrics handles GET /api/v1/dashboard/metrics
func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.repos == nil {
		respondStorageUnavailable(w)
		return
	}

	metrics, err := h.repos.Analyses.Metrics(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to compute dashboard metrics")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to compute metrics")
		return
	}

	respondData(w, http.StatusOK, metrics)
}

// Trends handles GET /api/v1/dashboard/trends?days=7
func (h *DashboardHandler) Trends(w http.ResponseWriter, r *http.Request) {
	if h.repos == nil {
		respondStorageUnavailable(w)
		return
	}

	days := defaultTrendDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxTrendDays {
			respondError(w, http.StatusBadRequest, "INVALID_INPUT", "days must be between 1 and 30")
			return
		}
		days = parsed
	}

	trends, err := h.repos.Analyses.Trends(r.Context(), days)
	if err != nil {
		h.logger.Error().Err(err).Int("days", days).Msg("failed to compute dashboard trends")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to compute trends")
		return
	}

	respondData(w, http.StatusOK, trends)
}
