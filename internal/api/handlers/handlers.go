package handlers

import (
	"cybershield/internal/domain/services"
	"cybershield/internal/infrastructure/cache"
	"cybershield/internal/infrastructure/database/repository"
	"cybershield/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health    *HealthHandler
	Analyze   *AnalyzeHandler
	URL       *URLHandler
	Message   *MessageHandler
	Password  *PasswordHandler
	Dashboard *DashboardHandler
	History   *HistoryHandler
	Feedback  *FeedbackHandler
}

// Dependencies holds dependencies for handlers. Repos may be nil when
// the service runs without PostgreSQL; evaluation endpoints still work.
type Dependencies struct {
	Analysis  *services.AnalysisService
	URLs      *services.URLAnalyzer
	Messages  *services.MessageAnalyzer
	Passwords *services.PasswordAnalyzer
	Breach    *services.BreachClient
	Cache     *cache.RedisCache
	Repos     *repository.Repositories
	Logger    *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(deps.Cache, deps.Repos, deps.Logger),
		Analyze:   NewAnalyzeHandler(deps.Analysis, deps.Logger),
		URL:       NewURLHandler(deps.URLs, deps.Cache, deps.Logger),
		Message:   NewMessageHandler(deps.Messages, deps.Logger),
		Password:  NewPasswordHandler(deps.Passwords, deps.Breach, deps.Logger),
		Dashboard: NewDashboardHandler(deps.Repos, deps.Logger),
		History:   NewHistoryHandler(deps.Repos, deps.Logger),
		Feedback:  NewFeedbackHandler(deps.Repos, deps.Logger),
	}
}
