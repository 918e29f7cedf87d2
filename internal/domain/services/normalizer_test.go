package services

import (
	"testing"

	"cybershield/internal/domain/models"
)

// --- Severity tier tests ---

func TestNormalizeSeverityURLTiers(t *testing.T) {
	cases := []struct {
		score int
		want  models.Severity
	}{
		{0, models.SeveritySafe},
		{14, models.SeveritySafe},
		{15, models.SeverityLow},
		{29, models.SeverityLow},
		{30, models.SeverityMedium},
		{49, models.SeverityMedium},
		{50, models.SeverityHigh},
		{69, models.SeverityHigh},
		{70, models.SeverityCritical},
		{100, models.SeverityCritical},
	}
	for _, tc := range cases {
		if got := normalizeSeverity(tc.score, urlTiers); got != tc.want {
			t.Errorf("normalizeSeverity(%d, urlTiers) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestNormalizeSeverityMessageTiers(t *testing.T) {
	cases := []struct {
		score int
		want  models.Severity
	}{
		{19, models.SeveritySafe},
		{20, models.SeverityLow},
		{40, models.SeverityMedium},
		{60, models.SeverityHigh},
		{80, models.SeverityCritical},
	}
	for _, tc := range cases {
		if got := normalizeSeverity(tc.score, messageTiers); got != tc.want {
			t.Errorf("normalizeSeverity(%d, messageTiers) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

// --- Strength tier tests ---

func TestNormalizeStrengthBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  models.PasswordStrength
	}{
		{0, models.PasswordWeak},
		{29, models.PasswordWeak},
		{30, models.PasswordFair},
		{49, models.PasswordFair},
		{50, models.PasswordGood},
		{69, models.PasswordGood},
		{70, models.PasswordStrong},
		{89, models.PasswordStrong},
		{90, models.PasswordExcellent},
		{100, models.PasswordExcellent},
	}
	for _, tc := range cases {
		if got := normalizeStrength(tc.score); got != tc.want {
			t.Errorf("normalizeStrength(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

// --- Clamp tests ---

func TestClampScore(t *testing.T) {
	if got := clampScore(-5); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := clampScore(130); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}
	if got := clampScore(55); got != 55 {
		t.Errorf("expected 55, got %d", got)
	}
}
