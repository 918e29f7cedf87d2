package services

import (
	"context"
	"testing"

	"cybershield/internal/domain/models"
	"cybershield/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func newTestURLAnalyzer() *URLAnalyzer {
	return NewURLAnalyzer(NewPatternLibrary(), nil, testLogger())
}

// --- Scoring tests ---

func TestEvaluateURLInsecureScheme(t *testing.T) {
	a := newTestURLAnalyzer()
	result, err := a.EvaluateURL(context.Background(), "http://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RiskScore != 20 {
		t.Errorf("expected score 20, got %d", result.RiskScore)
	}
	if result.Severity != models.SeverityLow {
		t.Errorf("expected low severity, got %s", result.Severity)
	}
	if !result.Safe {
		t.Error("expected safe flag for score below 30")
	}
	if result.Domain != "example.com" {
		t.Errorf("expected domain example.com, got %s", result.Domain)
	}
	if len(result.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(result.Findings))
	}
	if result.Findings[0].Weight != 20 {
		t.Errorf("expected finding weight 20, got %d", result.Findings[0].Weight)
	}
}

func TestEvaluateURLPhishingStack(t *testing.T) {
	a := newTestURLAnalyzer()
	result, err := a.EvaluateURL(context.Background(), "https://secure-login.paypa1.xyz/verify")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// suspicious TLD (25) + typosquat (40) + hyphenated lure host (20)
	if result.RiskScore != 85 {
		t.Errorf("expected score 85, got %d", result.RiskScore)
	}
	if result.Severity != models.SeverityCritical {
		t.Errorf("expected critical severity, got %s", result.Severity)
	}
	if result.Safe {
		t.Error("expected unsafe verdict")
	}
	if result.DomainAge != models.DomainAgeRecent {
		t.Errorf("expected recent domain age, got %s", result.DomainAge)
	}
	if len(result.Recommendations) == 0 {
		t.Error("expected recommendations for critical URL")
	}
}

func TestEvaluateURLMainstreamClean(t *testing.T) {
	a := newTestURLAnalyzer()
	result, err := a.EvaluateURL(context.Background(), "https://github.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RiskScore != 0 {
		t.Errorf("expected score 0, got %d", result.RiskScore)
	}
	if result.Severity != models.SeveritySafe {
		t.Errorf("expected safe severity, got %s", result.Severity)
	}
	if result.DomainAge != models.DomainAgeEstablished {
		t.Errorf("expected established domain age, got %s", result.DomainAge)
	}
	if len(result.Recommendations) != 0 {
		t.Errorf("expected no recommendations, got %v", result.Recommendations)
	}
}

func TestEvaluateURLShortenerWithoutScheme(t *testing.T) {
	a := newTestURLAnalyzer()
	result, err := a.EvaluateURL(context.Background(), "bit.ly/3xYz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RiskScore != 15 {
		t.Errorf("expected score 15, got %d", result.RiskScore)
	}
	if result.Severity != models.SeverityLow {
		t.Errorf("expected low severity, got %s", result.Severity)
	}
}

func TestEvaluateURLIPHost(t *testing.T) {
	a := newTestURLAnalyzer()
	result, err := a.EvaluateURL(context.Background(), "http://192.168.1.10/login")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// insecure scheme (20) + IP host (30)
	if result.RiskScore != 50 {
		t.Errorf("expected score 50, got %d", result.RiskScore)
	}
	if result.Severity != models.SeverityHigh {
		t.Errorf("expected high severity, got %s", result.Severity)
	}
	if result.Safe {
		t.Error("expected unsafe verdict at score 50")
	}
}

func TestEvaluateURLDeepSubdomains(t *testing.T) {
	a := newTestURLAnalyzer()
	result, err := a.EvaluateURL(context.Background(), "https://a.b.c.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RiskScore != 15 {
		t.Errorf("expected score 15, got %d", result.RiskScore)
	}
}

func TestEvaluateURLDangerousScheme(t *testing.T) {
	a := newTestURLAnalyzer()
	result, err := a.EvaluateURL(context.Background(), "javascript:alert(document.cookie)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// insecure transport (20) + dangerous scheme (50)
	if result.RiskScore != 70 {
		t.Errorf("expected score 70, got %d", result.RiskScore)
	}
	if result.Severity != models.SeverityCritical {
		t.Errorf("expected critical severity, got %s", result.Severity)
	}
	if len(result.Findings) != 2 {
		t.Errorf("expected 2 findings, got %d", len(result.Findings))
	}
	if result.Domain != "" {
		t.Errorf("expected empty domain for script URI, got %s", result.Domain)
	}
	if result.DomainAge != models.DomainAgeUnknown {
		t.Errorf("expected unknown domain age, got %s", result.DomainAge)
	}
}

func TestEvaluateURLImpersonationInPath(t *testing.T) {
	a := newTestURLAnalyzer()
	result, err := a.EvaluateURL(context.Background(), "https://evil.xyz/paypa1.login/verify")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// suspicious TLD (25) + impersonation token in the path (40)
	if result.RiskScore != 65 {
		t.Errorf("expected score 65, got %d", result.RiskScore)
	}
	if result.Severity != models.SeverityHigh {
		t.Errorf("expected high severity, got %s", result.Severity)
	}
	found := false
	for _, f := range result.Findings {
		if f.Weight == 40 {
			found = true
		}
	}
	if !found {
		t.Error("expected an impersonation finding for the path segment")
	}
}

func TestEvaluateURLIdempotent(t *testing.T) {
	a := newTestURLAnalyzer()
	first, err := a.EvaluateURL(context.Background(), "http://paypa1.xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := a.EvaluateURL(context.Background(), "http://paypa1.xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.RiskScore != second.RiskScore || first.Severity != second.Severity {
		t.Errorf("expected identical verdicts, got %d/%s and %d/%s",
			first.RiskScore, first.Severity, second.RiskScore, second.Severity)
	}
}

// --- Validation tests ---

func TestEvaluateURLEmptyInput(t *testing.T) {
	a := newTestURLAnalyzer()
	_, err := a.EvaluateURL(context.Background(), "   ")
	if err == nil {
		t.Fatal("expected error for empty input")
	}
	if !models.IsInvalidInput(err) {
		t.Errorf("expected InvalidInputError, got %T", err)
	}
}

func TestEvaluateURLUnparseable(t *testing.T) {
	a := newTestURLAnalyzer()
	_, err := a.EvaluateURL(context.Background(), "http://")
	if err == nil {
		t.Fatal("expected error for hostless URL")
	}
	if !models.IsInvalidInput(err) {
		t.Errorf("expected InvalidInputError, got %T", err)
	}
}

// --- Contribution grouping tests ---

func TestContributionsGroupByCategory(t *testing.T) {
	findings := []models.RiskFinding{
		{Type: "url", Weight: 20},
		{Type: "url", Weight: 25},
		{Type: "pattern", Weight: 40},
	}
	contributions := contributionsFromFindings(findings)
	if len(contributions) != 2 {
		t.Fatalf("expected 2 contributions, got %d", len(contributions))
	}
	if contributions[0].Category != "url" || contributions[0].Value != 45 {
		t.Errorf("expected url contribution 45, got %s=%d", contributions[0].Category, contributions[0].Value)
	}
	if contributions[1].Category != "pattern" || contributions[1].Value != 40 {
		t.Errorf("expected pattern contribution 40, got %s=%d", contributions[1].Category, contributions[1].Value)
	}
	if contributions[0].Label != "URL Structure" {
		t.Errorf("expected URL Structure label, got %s", contributions[0].Label)
	}
}

func TestContributionsEmptyFindings(t *testing.T) {
	if got := contributionsFromFindings(nil); got != nil {
		t.Errorf("expected nil for no findings, got %v", got)
	}
}
