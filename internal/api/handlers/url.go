package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"cybershield/internal/domain/models"
	"cybershield/internal/domain/services"
	"cybershield/internal/infrastructure/cache"
	"cybershield/pkg/logger"
)

// URLHandler handles URL risk assessment requests
type URLHandler struct {
	urls   *services.URLAnalyzer
	cache  *cache.RedisCache
	logger *logger.Logger
}

// NewURLHandler creates a new URL handler
func NewURLHandler(urls *services.URLAnalyzer, c *cache.RedisCache, log *logger.Logger) *URLHandler {
	return &URLHandler{
		urls:   urls,
		cache:  c,
		logger: log.WithComponent("url-handler"),
	}
}

// URLCheckRequest is the body of the URL check endpoint
type URLCheckRequest struct {
	URL string `json:"url"`
}

// Check handles POST /api/v1/url/check
func (h *URLHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req URLCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "url is required")
		return
	}

	sum := sha256.Sum256([]byte(req.URL))
	urlHash := hex.EncodeToString(sum[:])

	if h.cache != nil {
		var cached models.URLAssessment
		if err := h.cache.GetCachedURLVerdict(r.Context(), urlHash, &cached); err == nil {
			cached.CacheHit = true
			respondData(w, http.StatusOK, &cached)
			return
		}
	}

	result, err := h.urls.EvaluateURL(r.Context(), req.URL)
	if err != nil {
		if !models.IsInvalidInput(err) {
			h.logger.Error().Err(err).Msg("failed to evaluate URL")
		}
		respondEvaluationError(w, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.CacheURLVerdict(r.Context(), urlHash, result); err != nil {
			h.logger.Warn().Err(err).Msg("failed to cache URL verdict")
		}
	}

	respondData(w, http.StatusOK, result)
}
