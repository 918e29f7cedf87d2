package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cybershield/internal/domain/models"
	"cybershield/pkg/logger"
)

// EngineVersion is reported with every combined analysis result
const EngineVersion = "1.0.0"

// displayHashLen is how many hex characters of the input hash are exposed
const displayHashLen = 16

// AnalysisStore persists anonymized analysis records
type AnalysisStore interface {
	Create(ctx context.Context, rec *models.AnalysisRecord) error
}

// AuditStore persists audit trail entries
type AuditStore interface {
	Create(ctx context.Context, e *models.AuditEntry) error
}

// AnalysisService routes combined analyze requests to the per-type
// evaluators and persists the anonymized result. Both stores may be
// nil; analysis still works, results are just not recorded.
type AnalysisService struct {
	urls     *URLAnalyzer
	messages *MessageAnalyzer
	store    AnalysisStore
	audit    AuditStore
	maxInput int
	logger   *logger.Logger
}

// NewAnalysisService creates the combined analysis orchestrator
func NewAnalysisService(urls *URLAnalyzer, messages *MessageAnalyzer, store AnalysisStore, audit AuditStore, maxInput int, log *logger.Logger) *AnalysisService {
	if maxInput <= 0 {
		maxInput = 10000
	}
	return &AnalysisService{
		urls:     urls,
		messages: messages,
		store:    store,
		audit:    audit,
		maxInput: maxInput,
		logger:   log.WithComponent("analysis-service"),
	}
}

// Analyze evaluates content of the given type and returns the anonymized
// result. The raw content is hashed immediately and never stored.
func (s *AnalysisService) Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	if req.Content == "" {
		return nil, models.NewInvalidInput("content", "must not be empty")
	}
	if len(req.Content) > s.maxInput {
		return nil, models.NewInvalidInput("content", fmt.Sprintf("exceeds maximum size of %d bytes", s.maxInput))
	}

	start := time.Now()
	sum := sha256.Sum256([]byte(req.Content))
	fullHash := hex.EncodeToString(sum[:])

	resp := &models.AnalyzeResponse{
		ID:            uuid.New(),
		AnalyzedAt:    start.UTC(),
		InputHash:     fullHash[:displayHashLen],
		EngineVersion: EngineVersion,
	}

	switch req.Type {
	case models.InputTypeURL:
		result, err := s.urls.EvaluateURL(ctx, req.Content)
		if err != nil {
			return nil, err
		}
		resp.RiskScore = result.RiskScore
		resp.Severity = result.Severity
		resp.Indicators = result.Findings
		resp.Recommendations = result.Recommendations
		resp.RiskContributions = result.RiskContributions
		resp.ThreatType = urlThreatType(result)
		resp.Confidence = analysisConfidence(req.Type, result.RiskScore, len(result.Findings))

	case models.InputTypeMessage:
		result, err := s.messages.EvaluateMessage(ctx, req.Content)
		if err != nil {
			return nil, err
		}
		resp.RiskScore = result.RiskScore
		resp.Severity = result.Severity
		resp.Indicators = result.Findings
		resp.Recommendations = result.Recommendations
		resp.RiskContributions = result.RiskContributions
		resp.ThreatType = messageThreatType(result)
		resp.Confidence = analysisConfidence(req.Type, result.RiskScore, len(result.Findings))

	case models.InputTypeEmail:
		result, err := s.messages.EvaluateEmail(ctx, req.Content)
		if err != nil {
			return nil, err
		}
		resp.RiskScore = result.RiskScore
		resp.Severity = result.Severity
		resp.Indicators = result.Findings
		resp.Recommendations = result.Recommendations
		resp.RiskContributions = result.RiskContributions
		resp.ThreatType = result.ThreatType
		resp.Confidence = analysisConfidence(req.Type, result.RiskScore, len(result.Findings))

	default:
		return nil, models.NewInvalidInput("type", "must be one of: url, message, email")
	}

	resp.Summary = analysisSummary(req.Type, resp)
	resp.FalsePositiveLikelihood = fpLikelihood(resp.Confidence)
	resp.ProcessingTimeMs = time.Since(start).Milliseconds()

	s.persist(ctx, req.Type, fullHash, resp)

	s.logger.WithAnalysisHash(resp.InputHash).Info().
		Str("input_type", string(req.Type)).
		Str("threat_type", resp.ThreatType).
		Int("risk_score", resp.RiskScore).
		Int64("duration_ms", resp.ProcessingTimeMs).
		Msg("analysis completed")

	return resp, nil
}

// persist writes the record and audit entry, logging failures without
// surfacing them. Analysis results are valid even when storage is down.
func (s *AnalysisService) persist(ctx context.Context, inputType models.InputType, fullHash string, resp *models.AnalyzeResponse) {
	if s.store == nil {
		return
	}

	rec := &models.AnalysisRecord{
		ID:                resp.ID,
		InputHash:         fullHash,
		InputType:         inputType,
		ThreatType:        resp.ThreatType,
		Severity:          resp.Severity,
		RiskScore:         resp.RiskScore,
		Confidence:        resp.Confidence,
		Summary:           resp.Summary,
		Indicators:        resp.Indicators,
		Recommendations:   resp.Recommendations,
		RiskContributions: resp.RiskContributions,
		AnalyzedAt:        resp.AnalyzedAt,
		ProcessingTimeMs:  resp.ProcessingTimeMs,
		EngineVersion:     resp.EngineVersion,
	}
	if err := s.store.Create(ctx, rec); err != nil {
		s.logger.Warn().Err(err).Str("analysis_id", resp.ID.String()).Msg("failed to persist analysis record")
		return
	}

	if s.audit == nil {
		return
	}
	entry := &models.AuditEntry{
		ID:       uuid.New(),
		Action:   "analysis.create",
		Resource: string(inputType),
		Details: map[string]any{
			"analysis_id": resp.ID.String(),
			"severity":    string(resp.Severity),
			"risk_score":  resp.RiskScore,
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("analysis_id", resp.ID.String()).Msg("failed to write audit entry")
	}
}

// analysisConfidence estimates result confidence from the indicator
// count and score. Each input type has its own base and caps.
func analysisConfidence(inputType models.InputType, score, indicators int) int {
	var conf, caps int
	switch inputType {
	case models.InputTypeEmail:
		conf = 60 + indicators*5 + score/5
		caps = 98
	case models.InputTypeURL:
		conf = 55 + indicators*8 + score/4
		caps = 95
	default:
		conf = 50 + indicators*10 + score/5
		caps = 95
	}
	if conf > caps {
		conf = caps
	}
	return conf
}

func urlThreatType(result *models.URLAssessment) string {
	switch result.Severity {
	case models.SeverityCritical, models.SeverityHigh:
		return "phishing"
	case models.SeverityMedium:
		return "suspicious_url"
	case models.SeverityLow:
		return "unknown"
	default:
		return "safe"
	}
}

func messageThreatType(result *models.MessageAssessment) string {
	switch {
	case result.IsScam:
		return "scam"
	case result.RiskScore >= 20:
		return "unknown"
	default:
		return "safe"
	}
}

// fpLikelihood labels how likely the verdict is a false positive,
// inverse to confidence.
func fpLikelihood(confidence int) string {
	switch {
	case confidence >= 85:
		return models.FPLikelihoodLow
	case confidence >= 65:
		return models.FPLikelihoodMedium
	default:
		return models.FPLikelihoodHigh
	}
}

func analysisSummary(inputType models.InputType, resp *models.AnalyzeResponse) string {
	noun := "content"
	switch inputType {
	case models.InputTypeURL:
		noun = "URL"
	case models.InputTypeMessage:
		noun = "message"
	case models.InputTypeEmail:
		noun = "email"
	}

	n := len(resp.Indicators)
	if n == 0 {
		return fmt.Sprintf("Analysis of the submitted %s found no risk indicators.", noun)
	}
	plural := "indicators"
	if n == 1 {
		plural = "indicator"
	}
	return fmt.Sprintf("Analysis of the submitted %s found %d risk %s resulting in a %s severity rating (risk score %d/100).",
		noun, n, plural, resp.Severity, resp.RiskScore)
}
