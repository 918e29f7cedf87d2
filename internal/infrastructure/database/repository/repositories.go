package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"cybershield/internal/domain/models"
	"cybershield/internal/infrastructure/database"
	"cybershield/pkg/logger"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// Repositories bundles all data access objects
type Repositories struct {
	Analyses *AnalysisRepository
	Feedback *FeedbackRepository
	Audit    *AuditRepository

	db *database.PostgresDB
}

// NewRepositories creates all repositories sharing one connection pool
func NewRepositories(db *database.PostgresDB, log *logger.Logger) *Repositories {
	return &Repositories{
		Analyses: NewAnalysisRepository(db.Pool(), log),
		Feedback: NewFeedbackRepository(db.Pool(), log),
		Audit:    NewAuditRepository(db.Pool(), log),
		db:       db,
	}
}

// SubmitFeedback stores a feedback record and, for false-positive reports,
// flips the matching analysis in the same transaction. Returns whether an
// analysis row was updated.
func (r *Repositories) SubmitFeedback(ctx context.Context, fb *models.Feedback) (bool, error) {
	updated := false
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := r.Feedback.withDB(tx).Create(ctx, fb); err != nil {
			return err
		}
		if fb.FeedbackType == models.FeedbackFalsePositive {
			var err error
			updated, err = r.Analyses.withDB(tx).MarkFalsePositive(ctx, fb.AnalysisHash)
			if err != nil {
				return err
			}
		}
		return nil
	})
	return updated, err
}
