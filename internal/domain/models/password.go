package models

import "time"

// PasswordStrength is the qualitative strength label for a password score
type PasswordStrength string

const (
	PasswordWeak      PasswordStrength = "weak"
	PasswordFair      PasswordStrength = "fair"
	PasswordGood      PasswordStrength = "good"
	PasswordStrong    PasswordStrength = "strong"
	PasswordExcellent PasswordStrength = "excellent"
)

// PasswordCheck is one named criterion with pass/fail and an optional fix
type PasswordCheck struct {
	Name       string `json:"name"`
	Passed     bool   `json:"passed"`
	Suggestion string `json:"suggestion,omitempty"`
}

// PasswordAssessment is the result of evaluating password strength.
// The password itself is never echoed back or persisted.
type PasswordAssessment struct {
	Score       int              `json:"score"`
	Strength    PasswordStrength `json:"strength"`
	EntropyBits float64          `json:"entropyBits"`
	CrackTime   string           `json:"crackTime"`
	Checks      []PasswordCheck  `json:"checks"`
	Suggestions []string         `json:"suggestions,omitempty"`
	Breach      *BreachResult    `json:"breach,omitempty"`
}

// BreachResult is the outcome of a k-anonymity breach lookup.
// A failed lookup reports not-breached with Degraded set; lookups never
// surface an error to callers.
type BreachResult struct {
	Breached  bool      `json:"breached"`
	Count     int       `json:"count"`
	Degraded  bool      `json:"degraded,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}
