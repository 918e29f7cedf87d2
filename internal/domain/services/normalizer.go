package services

import "cybershield/internal/domain/models"

// tierThreshold maps a minimum score to a severity tier
type tierThreshold struct {
	Min      int
	Severity models.Severity
}

// Tier tables are ordered highest-first; normalizeSeverity takes the first
// threshold the score reaches. The tables intentionally differ per evaluator.
var (
	urlTiers = []tierThreshold{
		{70, models.SeverityCritical},
		{50, models.SeverityHigh},
		{30, models.SeverityMedium},
		{15, models.SeverityLow},
	}

	messageTiers = []tierThreshold{
		{80, models.SeverityCritical},
		{60, models.SeverityHigh},
		{40, models.SeverityMedium},
		{20, models.SeverityLow},
	}
)

// normalizeSeverity returns the tier for score, or safe when no threshold is met
func normalizeSeverity(score int, tiers []tierThreshold) models.Severity {
	for _, t := range tiers {
		if score >= t.Min {
			return t.Severity
		}
	}
	return models.SeveritySafe
}

// strengthThreshold maps an exclusive upper bound to a strength label
type strengthThreshold struct {
	Below    int
	Strength models.PasswordStrength
}

var strengthTiers = []strengthThreshold{
	{30, models.PasswordWeak},
	{50, models.PasswordFair},
	{70, models.PasswordGood},
	{90, models.PasswordStrong},
}

// normalizeStrength returns the strength label for a password score
func normalizeStrength(score int) models.PasswordStrength {
	for _, t := range strengthTiers {
		if score < t.Below {
			return t.Strength
		}
	}
	return models.PasswordExcellent
}

// clampScore bounds a risk score to [0,100]
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
