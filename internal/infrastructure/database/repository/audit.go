package repository

import (
	"context"
	"fmt"

	"cybershield/internal/domain/models"
	"cybershield/internal/infrastructure/database"
	"cybershield/pkg/logger"
)

// AuditRepository persists the audit trail of data-changing actions
type AuditRepository struct {
	db     database.DBTX
	logger *logger.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db database.DBTX, log *logger.Logger) *AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: log.WithComponent("audit-repository"),
	}
}

// Create inserts an audit entry
func (r *AuditRepository) Create(ctx context.Context, e *models.AuditEntry) error {
	query := `
		INSERT INTO audit_log (id, action, resource, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query, e.ID, e.Action, e.Resource, e.Details, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}
