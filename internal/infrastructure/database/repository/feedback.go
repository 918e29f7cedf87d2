package repository

import (
	"context"
	"fmt"

	"cybershield/internal/domain/models"
	"cybershield/internal/infrastructure/database"
	"cybershield/pkg/logger"
)

// FeedbackRepository persists user feedback on past analyses
type FeedbackRepository struct {
	db     database.DBTX
	logger *logger.Logger
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db database.DBTX, log *logger.Logger) *FeedbackRepository {
	return &FeedbackRepository{
		db:     db,
		logger: log.WithComponent("feedback-repository"),
	}
}

// withDB returns a copy bound to the given querier, typically a transaction
func (r *FeedbackRepository) withDB(db database.DBTX) *FeedbackRepository {
	return &FeedbackRepository{db: db, logger: r.logger}
}

// Create inserts a feedback record
func (r *FeedbackRepository) Create(ctx context.Context, fb *models.Feedback) error {
	query := `
		INSERT INTO user_feedback (id, analysis_hash, feedback_type, user_comment, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query, fb.ID, fb.AnalysisHash, fb.FeedbackType, fb.Comment, fb.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}
