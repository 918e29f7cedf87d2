package database

import (
	"context"
	"fmt"
)

// schema is applied at startup; statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS threat_analyses (
		id                 UUID PRIMARY KEY,
		input_hash         TEXT NOT NULL,
		input_type         TEXT NOT NULL,
		threat_type        TEXT NOT NULL,
		severity           TEXT NOT NULL,
		risk_score         INTEGER NOT NULL,
		confidence         INTEGER NOT NULL,
		summary            TEXT NOT NULL DEFAULT '',
		indicators         JSONB,
		recommendations    JSONB,
		risk_contributions JSONB,
		is_false_positive  BOOLEAN NOT NULL DEFAULT FALSE,
		feedback_at        TIMESTAMPTZ,
		analyzed_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		processing_time_ms BIGINT NOT NULL DEFAULT 0,
		engine_version     TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_threat_analyses_analyzed_at ON threat_analyses (analyzed_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_threat_analyses_input_hash ON threat_analyses (input_hash)`,
	`CREATE INDEX IF NOT EXISTS idx_threat_analyses_severity ON threat_analyses (severity)`,
	`CREATE TABLE IF NOT EXISTS user_feedback (
		id            UUID PRIMARY KEY,
		analysis_hash TEXT NOT NULL,
		feedback_type TEXT NOT NULL,
		user_comment  TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id         UUID PRIMARY KEY,
		action     TEXT NOT NULL,
		resource   TEXT NOT NULL,
		details    JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate applies the schema. Safe to run on every startup.
func (db *PostgresDB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	db.logger.Info().Msg("database schema is up to date")
	return nil
}
