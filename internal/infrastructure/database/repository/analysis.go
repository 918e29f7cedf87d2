package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cybershield/internal/domain/models"
	"cybershield/internal/infrastructure/database"
	"cybershield/pkg/logger"
)

// AnalysisRepository persists anonymized threat analyses
type AnalysisRepository struct {
	db     database.DBTX
	logger *logger.Logger
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db database.DBTX, log *logger.Logger) *AnalysisRepository {
	return &AnalysisRepository{
		db:     db,
		logger: log.WithComponent("analysis-repository"),
	}
}

// withDB returns a copy bound to the given querier, typically a transaction
func (r *AnalysisRepository) withDB(db database.DBTX) *AnalysisRepository {
	return &AnalysisRepository{db: db, logger: r.logger}
}

// Create inserts a new analysis record
func (r *AnalysisRepository) Create(ctx context.Context, rec *models.AnalysisRecord) error {
	query := `
		INSERT INTO threat_analyses (
			id, input_hash, input_type, threat_type, severity,
			risk_score, confidence, summary, indicators, recommendations,
			risk_contributions, analyzed_at, processing_time_ms, engine_version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.InputHash, rec.InputType, rec.ThreatType, rec.Severity,
		rec.RiskScore, rec.Confidence, rec.Summary, rec.Indicators, rec.Recommendations,
		rec.RiskContributions, rec.AnalyzedAt, rec.ProcessingTimeMs, rec.EngineVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// GetByID fetches a single analysis record
func (r *AnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRecord, error) {
	query := `
		SELECT id, input_hash, input_type, threat_type, severity,
		       risk_score, confidence, summary, indicators, recommendations,
		       risk_contributions, is_false_positive, feedback_at,
		       analyzed_at, processing_time_ms, engine_version
		FROM threat_analyses
		WHERE id = $1`

	var rec models.AnalysisRecord
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.InputHash, &rec.InputType, &rec.ThreatType, &rec.Severity,
		&rec.RiskScore, &rec.Confidence, &rec.Summary, &rec.Indicators, &rec.Recommendations,
		&rec.RiskContributions, &rec.IsFalsePositive, &rec.FeedbackAt,
		&rec.AnalyzedAt, &rec.ProcessingTimeMs, &rec.EngineVersion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch analysis: %w", err)
	}
	return &rec, nil
}

// List returns one page of analysis history, newest first
func (r *AnalysisRepository) List(ctx context.Context, filter models.HistoryFilter) (*models.HistoryPage, error) {
	where, args := buildHistoryWhere(filter)

	var total int64
	countQuery := "SELECT COUNT(*) FROM threat_analyses" + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count analyses: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := fmt.Sprintf(`
		SELECT id, input_type, input_hash, threat_type, severity, risk_score, analyzed_at
		FROM threat_analyses%s
		ORDER BY analyzed_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	items := make([]models.HistoryEntry, 0, filter.PageSize)
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.InputType, &e.InputHash, &e.ThreatType, &e.Severity, &e.RiskScore, &e.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return &models.HistoryPage{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		HasMore:  int64(filter.Page*filter.PageSize) < total,
	}, nil
}

func buildHistoryWhere(filter models.HistoryFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.Severity != "" {
		args = append(args, filter.Severity)
		conds = append(conds, fmt.Sprintf("severity = $%d", len(args)))
	}
	if filter.ThreatType != "" {
		args = append(args, filter.ThreatType)
		conds = append(conds, fmt.Sprintf("threat_type = $%d", len(args)))
	}
	if filter.InputType != "" {
		args = append(args, filter.InputType)
		conds = append(conds, fmt.Sprintf("input_type = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// MarkFalsePositive flags the most recent analysis whose input hash starts
// with the given prefix. Returns false when no record matches.
func (r *AnalysisRepository) MarkFalsePositive(ctx context.Context, hashPrefix string) (bool, error) {
	query := `
		UPDATE threat_analyses
		SET is_false_positive = TRUE, feedback_at = NOW()
		WHERE id = (
			SELECT id FROM threat_analyses
			WHERE input_hash LIKE $1 || '%'
			ORDER BY analyzed_at DESC
			LIMIT 1
		)`

	tag, err := r.db.Exec(ctx, query, hashPrefix)
	if err != nil {
		return false, fmt.Errorf("failed to mark false positive: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Metrics computes the dashboard KPI aggregates
func (r *AnalysisRepository) Metrics(ctx context.Context) (*models.DashboardMetrics, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE severity <> 'safe'),
			COUNT(*) FILTER (WHERE severity IN ('high', 'critical')),
			COUNT(*) FILTER (WHERE severity <> 'safe' AND analyzed_at >= date_trunc('day', NOW())),
			COALESCE(AVG(risk_score), 0),
			COUNT(*) FILTER (WHERE is_false_positive)
		FROM threat_analyses`

	var total, threats, highRisk, today, falsePositives int64
	var avgRisk float64
	err := r.db.QueryRow(ctx, query).Scan(&total, &threats, &highRisk, &today, &avgRisk, &falsePositives)
	if err != nil {
		return nil, fmt.Errorf("failed to compute metrics: %w", err)
	}

	m := &models.DashboardMetrics{
		TotalThreats:  threats,
		HighRiskCount: highRisk,
		ThreatsToday:  today,
		AvgRiskScore:  avgRisk,
	}
	if total > 0 {
		m.DetectionRate = float64(threats) / float64(total) * 100
		m.FalsePositiveRate = float64(falsePositives) / float64(total) * 100
	}
	return m, nil
}

// Trends returns chart aggregates over the last N days
func (r *AnalysisRepository) Trends(ctx context.Context, days int) (*models.DashboardTrends, error) {
	trends := &models.DashboardTrends{
		ThreatsOverTime:      make([]models.TrendPoint, 0, days),
		ThreatsByType:        make(map[string]int64),
		SeverityDistribution: make(map[string]int64),
	}

	overTime := `
		SELECT to_char(day, 'YYYY-MM-DD'), COALESCE(counts.n, 0)
		FROM generate_series(
			date_trunc('day', NOW()) - make_interval(days => $1 - 1),
			date_trunc('day', NOW()),
			'1 day'
		) AS day
		LEFT JOIN (
			SELECT date_trunc('day', analyzed_at) AS d, COUNT(*) AS n
			FROM threat_analyses
			WHERE severity <> 'safe' AND analyzed_at >= date_trunc('day', NOW()) - make_interval(days => $1 - 1)
			GROUP BY d
		) counts ON counts.d = day
		ORDER BY day`

	rows, err := r.db.Query(ctx, overTime, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query threat trend: %w", err)
	}
	for rows.Next() {
		var p models.TrendPoint
		if err := rows.Scan(&p.Date, &p.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan trend point: %w", err)
		}
		trends.ThreatsOverTime = append(trends.ThreatsOverTime, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate threat trend: %w", err)
	}

	byType := `
		SELECT threat_type, COUNT(*)
		FROM threat_analyses
		WHERE severity <> 'safe' AND analyzed_at >= date_trunc('day', NOW()) - make_interval(days => $1 - 1)
		GROUP BY threat_type`
	if err := r.scanCounts(ctx, byType, days, trends.ThreatsByType); err != nil {
		return nil, err
	}

	bySeverity := `
		SELECT severity, COUNT(*)
		FROM threat_analyses
		WHERE analyzed_at >= date_trunc('day', NOW()) - make_interval(days => $1 - 1)
		GROUP BY severity`
	if err := r.scanCounts(ctx, bySeverity, days, trends.SeverityDistribution); err != nil {
		return nil, err
	}

	return trends, nil
}

func (r *AnalysisRepository) scanCounts(ctx context.Context, query string, days int, dst map[string]int64) error {
	rows, err := r.db.Query(ctx, query, days)
	if err != nil {
		return fmt.Errorf("failed to query counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("failed to scan count: %w", err)
		}
		dst[key] = n
	}
	return rows.Err()
}
