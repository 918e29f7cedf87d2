package services

import (
	"context"
	"testing"

	"cybershield/internal/domain/models"
)

func newTestMessageAnalyzer() *MessageAnalyzer {
	return NewMessageAnalyzer(NewPatternLibrary(), nil, testLogger())
}

// --- Message scoring tests ---

func TestEvaluateMessagePrizeScamWithShortener(t *testing.T) {
	a := newTestMessageAnalyzer()
	result, err := a.EvaluateMessage(context.Background(),
		"Congratulations! You have won a prize. Claim your reward at https://bit.ly/3xYz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// prize family (15) + suspicious link (25)
	if result.RiskScore != 40 {
		t.Errorf("expected score 40, got %d", result.RiskScore)
	}
	if !result.IsScam {
		t.Error("expected scam verdict at score 40")
	}
	if result.ScamType != models.ScamTypePrizeLottery {
		t.Errorf("expected prize scam type, got %q", result.ScamType)
	}
	if result.Severity != models.SeverityMedium {
		t.Errorf("expected medium severity, got %s", result.Severity)
	}
	if result.Confidence != 60 {
		t.Errorf("expected confidence 60, got %d", result.Confidence)
	}
	if len(result.ExtractedURLs) != 1 || !result.ExtractedURLs[0].Suspicious {
		t.Errorf("expected one suspicious extracted URL, got %+v", result.ExtractedURLs)
	}
}

func TestEvaluateMessageBareShortenerLink(t *testing.T) {
	a := newTestMessageAnalyzer()
	result, err := a.EvaluateMessage(context.Background(),
		"Congratulations! You've won $1,000,000! Click bit.ly/win123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// prize family (15) + financial family via "$" (15) + suspicious link (25)
	if result.RiskScore != 55 {
		t.Errorf("expected score 55, got %d", result.RiskScore)
	}
	if !result.IsScam {
		t.Error("expected scam verdict for bare-shortener lure")
	}
	if result.ScamType != models.ScamTypePrizeLottery {
		t.Errorf("expected prize scam type, got %q", result.ScamType)
	}
	if len(result.ExtractedURLs) != 1 {
		t.Fatalf("expected one extracted URL, got %+v", result.ExtractedURLs)
	}
	link := result.ExtractedURLs[0]
	if link.URL != "bit.ly/win123" || link.Domain != "bit.ly" || !link.Suspicious {
		t.Errorf("expected bit.ly/win123 flagged as suspicious, got %+v", link)
	}
}

func TestEvaluateMessageIgnoresBenignBareDomain(t *testing.T) {
	a := newTestMessageAnalyzer()
	result, err := a.EvaluateMessage(context.Background(),
		"The slides are on example.com if you need them")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.ExtractedURLs) != 0 {
		t.Errorf("expected no extracted URLs for a plain prose domain, got %+v", result.ExtractedURLs)
	}
	if result.RiskScore != 0 {
		t.Errorf("expected score 0, got %d", result.RiskScore)
	}
}

func TestEvaluateMessageBenign(t *testing.T) {
	a := newTestMessageAnalyzer()
	result, err := a.EvaluateMessage(context.Background(), "See you at lunch tomorrow?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RiskScore != 0 {
		t.Errorf("expected score 0, got %d", result.RiskScore)
	}
	if result.IsScam {
		t.Error("expected legitimate verdict")
	}
	if result.ScamType != "" {
		t.Errorf("expected empty scam type, got %q", result.ScamType)
	}
	if result.Severity != models.SeveritySafe {
		t.Errorf("expected safe severity, got %s", result.Severity)
	}
}

func TestEvaluateMessageFamilyCountedOnce(t *testing.T) {
	a := newTestMessageAnalyzer()
	result, err := a.EvaluateMessage(context.Background(),
		"Urgent! Act now, this expires immediately!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// three urgency keywords are still one family finding
	if result.RiskScore != 15 {
		t.Errorf("expected score 15, got %d", result.RiskScore)
	}
	if len(result.Findings) != 1 {
		t.Errorf("expected 1 finding, got %d", len(result.Findings))
	}
}

func TestEvaluateMessagePhoneWithLureBonus(t *testing.T) {
	a := newTestMessageAnalyzer()
	result, err := a.EvaluateMessage(context.Background(),
		"Your account is suspended. Call 555-123-4567 immediately.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// account_threat (15) + urgency (15) + callback number (10)
	if result.RiskScore != 40 {
		t.Errorf("expected score 40, got %d", result.RiskScore)
	}
	if result.ScamType != models.ScamTypeAccount {
		t.Errorf("expected account threat scam type, got %q", result.ScamType)
	}
	if len(result.ExtractedPhones) != 1 || result.ExtractedPhones[0] != "5551234567" {
		t.Errorf("expected normalized phone 5551234567, got %v", result.ExtractedPhones)
	}
}

func TestEvaluateMessageIdempotent(t *testing.T) {
	a := newTestMessageAnalyzer()
	const text = "Urgent! Your package is on hold, pay the customs fee at bit.ly/fee"
	first, err := a.EvaluateMessage(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := a.EvaluateMessage(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.RiskScore != second.RiskScore || first.IsScam != second.IsScam || first.ScamType != second.ScamType {
		t.Errorf("expected identical verdicts, got %+v and %+v", first, second)
	}
}

func TestEvaluateMessageEmptyInput(t *testing.T) {
	a := newTestMessageAnalyzer()
	_, err := a.EvaluateMessage(context.Background(), " \n ")
	if err == nil {
		t.Fatal("expected error for empty input")
	}
	if !models.IsInvalidInput(err) {
		t.Errorf("expected InvalidInputError, got %T", err)
	}
}

// --- Email tests ---

func TestEvaluateEmailCredentialPhishing(t *testing.T) {
	a := newTestMessageAnalyzer()
	result, err := a.EvaluateEmail(context.Background(),
		"Please verify your account and confirm your password at http://paypal-secure.tk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// account_threat (15) + credential request (15) + suspicious link (25)
	if result.RiskScore != 55 {
		t.Errorf("expected score 55, got %d", result.RiskScore)
	}
	if result.ThreatType != "phishing" {
		t.Errorf("expected phishing threat type, got %q", result.ThreatType)
	}
	if !result.IsScam {
		t.Error("expected scam verdict")
	}
}

func TestEvaluateEmailBenignThreatType(t *testing.T) {
	a := newTestMessageAnalyzer()
	result, err := a.EvaluateEmail(context.Background(), "Meeting notes attached, reviewed by the team.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ThreatType != "safe" {
		t.Errorf("expected safe threat type, got %q", result.ThreatType)
	}
}

// --- AI nudge tests ---

func TestApplyAINudge(t *testing.T) {
	cases := []struct {
		score  int
		isScam bool
		want   int
	}{
		{45, true, 60},
		{10, true, 60},
		{55, true, 55},
		{25, false, 15},
		{5, false, 0},
		{35, false, 35},
	}
	for _, tc := range cases {
		if got := applyAINudge(tc.score, tc.isScam); got != tc.want {
			t.Errorf("applyAINudge(%d, %v) = %d, want %d", tc.score, tc.isScam, got, tc.want)
		}
	}
}

func TestMessageConfidenceCap(t *testing.T) {
	if got := messageConfidence(95); got != 99 {
		t.Errorf("expected confidence capped at 99, got %d", got)
	}
	if got := messageConfidence(30); got != 50 {
		t.Errorf("expected confidence 50, got %d", got)
	}
}

// --- Extraction tests ---

func TestExtractPhonesDeduplicatesAndCaps(t *testing.T) {
	text := "Call 555-123-4567 or (555) 123-4567 or 555-987-6543 or 555-222-3333 or 555-444-5555"
	phones := extractPhones(text)
	if len(phones) != maxExtractedPhones {
		t.Fatalf("expected %d phones, got %d: %v", maxExtractedPhones, len(phones), phones)
	}
	seen := map[string]bool{}
	for _, p := range phones {
		if seen[p] {
			t.Errorf("duplicate phone %s", p)
		}
		seen[p] = true
	}
}

func TestExtractPhonesRejectsShortNumbers(t *testing.T) {
	if phones := extractPhones("Call 911 now"); len(phones) != 0 {
		t.Errorf("expected no phones, got %v", phones)
	}
}

func TestLightURLCheckWWWPrefix(t *testing.T) {
	a := newTestMessageAnalyzer()
	extracted := a.lightURLCheck("www.tinyurl.com/abc")
	if !extracted.Suspicious {
		t.Error("expected www shortener to be suspicious")
	}
	if extracted.Domain != "www.tinyurl.com" && extracted.Domain != "tinyurl.com" {
		t.Errorf("unexpected domain %q", extracted.Domain)
	}
}
