package services

import (
	"context"
	"testing"

	"cybershield/internal/domain/models"
)

func newTestAnalysisService() *AnalysisService {
	patterns := NewPatternLibrary()
	log := testLogger()
	urls := NewURLAnalyzer(patterns, nil, log)
	messages := NewMessageAnalyzer(patterns, nil, log)
	return NewAnalysisService(urls, messages, nil, nil, 0, log)
}

// --- Routing tests ---

func TestAnalyzeURLInput(t *testing.T) {
	s := newTestAnalysisService()
	resp, err := s.Analyze(context.Background(), models.AnalyzeRequest{
		Type:    models.InputTypeURL,
		Content: "http://example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.RiskScore != 20 {
		t.Errorf("expected risk score 20, got %d", resp.RiskScore)
	}
	if resp.ThreatType != "unknown" {
		t.Errorf("expected unknown threat type for low severity, got %q", resp.ThreatType)
	}
	// url confidence: 55 + 1 indicator * 8 + 20/4
	if resp.Confidence != 68 {
		t.Errorf("expected confidence 68, got %d", resp.Confidence)
	}
	if resp.FalsePositiveLikelihood != models.FPLikelihoodMedium {
		t.Errorf("expected medium FP likelihood, got %q", resp.FalsePositiveLikelihood)
	}
	if len(resp.InputHash) != 16 {
		t.Errorf("expected 16-character display hash, got %q", resp.InputHash)
	}
	if resp.EngineVersion != EngineVersion {
		t.Errorf("expected engine version %s, got %s", EngineVersion, resp.EngineVersion)
	}
	if resp.Summary == "" {
		t.Error("expected a summary")
	}
}

func TestAnalyzeMessageInput(t *testing.T) {
	s := newTestAnalysisService()
	resp, err := s.Analyze(context.Background(), models.AnalyzeRequest{
		Type:    models.InputTypeMessage,
		Content: "Congratulations, you have won! Claim your prize at https://bit.ly/3xYz",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ThreatType != "scam" {
		t.Errorf("expected scam threat type, got %q", resp.ThreatType)
	}
	if resp.Severity != models.SeverityMedium {
		t.Errorf("expected medium severity, got %s", resp.Severity)
	}
}

func TestAnalyzeEmailInput(t *testing.T) {
	s := newTestAnalysisService()
	resp, err := s.Analyze(context.Background(), models.AnalyzeRequest{
		Type:    models.InputTypeEmail,
		Content: "Please verify your account and confirm your password at http://paypal-secure.tk",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ThreatType != "phishing" {
		t.Errorf("expected phishing threat type, got %q", resp.ThreatType)
	}
}

// --- Validation tests ---

func TestAnalyzeRejectsUnknownType(t *testing.T) {
	s := newTestAnalysisService()
	_, err := s.Analyze(context.Background(), models.AnalyzeRequest{
		Type:    models.InputTypePassword,
		Content: "hunter2",
	})
	if err == nil {
		t.Fatal("expected error for password type")
	}
	if !models.IsInvalidInput(err) {
		t.Errorf("expected InvalidInputError, got %T", err)
	}
}

func TestAnalyzeRejectsEmptyContent(t *testing.T) {
	s := newTestAnalysisService()
	_, err := s.Analyze(context.Background(), models.AnalyzeRequest{Type: models.InputTypeURL})
	if err == nil {
		t.Fatal("expected error for empty content")
	}
	if !models.IsInvalidInput(err) {
		t.Errorf("expected InvalidInputError, got %T", err)
	}
}

func TestAnalyzeRejectsOversizedContent(t *testing.T) {
	s := newTestAnalysisService()
	big := make([]byte, 10001)
	for i := range big {
		big[i] = 'a'
	}
	_, err := s.Analyze(context.Background(), models.AnalyzeRequest{
		Type:    models.InputTypeMessage,
		Content: string(big),
	})
	if err == nil {
		t.Fatal("expected error for oversized content")
	}
	if !models.IsInvalidInput(err) {
		t.Errorf("expected InvalidInputError, got %T", err)
	}
}

// --- Persistence tests ---

type capturingStore struct {
	rec *models.AnalysisRecord
}

func (s *capturingStore) Create(_ context.Context, rec *models.AnalysisRecord) error {
	s.rec = rec
	return nil
}

func TestAnalyzePersistsFullHash(t *testing.T) {
	patterns := NewPatternLibrary()
	log := testLogger()
	store := &capturingStore{}
	s := NewAnalysisService(
		NewURLAnalyzer(patterns, nil, log),
		NewMessageAnalyzer(patterns, nil, log),
		store, nil, 0, log,
	)

	resp, err := s.Analyze(context.Background(), models.AnalyzeRequest{
		Type:    models.InputTypeURL,
		Content: "http://example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.rec == nil {
		t.Fatal("expected record to be persisted")
	}
	if len(store.rec.InputHash) != 64 {
		t.Errorf("expected full 64-character hash in storage, got %d characters", len(store.rec.InputHash))
	}
	if store.rec.InputHash[:16] != resp.InputHash {
		t.Error("expected display hash to be a prefix of the stored hash")
	}
	if store.rec.ID != resp.ID {
		t.Error("expected matching record and response IDs")
	}
}

// --- Helper tests ---

func TestFPLikelihood(t *testing.T) {
	if got := fpLikelihood(90); got != models.FPLikelihoodLow {
		t.Errorf("expected low, got %s", got)
	}
	if got := fpLikelihood(70); got != models.FPLikelihoodMedium {
		t.Errorf("expected medium, got %s", got)
	}
	if got := fpLikelihood(50); got != models.FPLikelihoodHigh {
		t.Errorf("expected high, got %s", got)
	}
}

func TestAnalysisConfidenceCaps(t *testing.T) {
	if got := analysisConfidence(models.InputTypeEmail, 100, 20); got != 98 {
		t.Errorf("expected email cap 98, got %d", got)
	}
	if got := analysisConfidence(models.InputTypeURL, 100, 20); got != 95 {
		t.Errorf("expected url cap 95, got %d", got)
	}
	if got := analysisConfidence(models.InputTypeMessage, 0, 0); got != 50 {
		t.Errorf("expected message base 50, got %d", got)
	}
}
