package services

import (
	"fmt"
	"math"
	"unicode"

	"cybershield/internal/domain/models"
	"cybershield/pkg/logger"
)

// Password scoring constants
const (
	charsetLower   = 26
	charsetUpper   = 26
	charsetDigit   = 10
	charsetSpecial = 32

	// guesses per second assumed for offline cracking
	crackGuessesPerSecond = 1e10
)

// PasswordAnalyzer evaluates password strength. Evaluation is pure and
// never errors; empty input is a valid (very weak) password.
type PasswordAnalyzer struct {
	patterns *PatternLibrary
	logger   *logger.Logger
}

// NewPasswordAnalyzer creates a password analyzer
func NewPasswordAnalyzer(patterns *PatternLibrary, log *logger.Logger) *PasswordAnalyzer {
	return &PasswordAnalyzer{
		patterns: patterns,
		logger:   log.WithComponent("password-analyzer"),
	}
}

// EvaluatePassword scores a password and reports named criteria checks.
// The password is never logged or persisted.
func (a *PasswordAnalyzer) EvaluatePassword(password string) *models.PasswordAssessment {
	runes := []rune(password)
	length := len(runes)

	score := 0
	var checks []models.PasswordCheck
	var suggestions []string

	// Length
	switch {
	case length >= 16:
		score += 30
		checks = append(checks, models.PasswordCheck{Name: "length", Passed: true})
	case length >= 12:
		score += 20
		checks = append(checks, models.PasswordCheck{Name: "length", Passed: true})
	case length >= 8:
		score += 10
		checks = append(checks, models.PasswordCheck{Name: "length", Passed: true,
			Suggestion: "Use 12 or more characters for a stronger password"})
		suggestions = append(suggestions, "Use 12 or more characters for a stronger password")
	default:
		checks = append(checks, models.PasswordCheck{Name: "length", Passed: false,
			Suggestion: "Use at least 8 characters"})
		suggestions = append(suggestions, "Use at least 8 characters")
	}

	// Character classes
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	classCheck := func(name string, present bool, points int, suggestion string) {
		if present {
			score += points
			checks = append(checks, models.PasswordCheck{Name: name, Passed: true})
			return
		}
		checks = append(checks, models.PasswordCheck{Name: name, Passed: false, Suggestion: suggestion})
		suggestions = append(suggestions, suggestion)
	}

	classCheck("uppercase", hasUpper, 10, "Add uppercase letters")
	classCheck("lowercase", hasLower, 10, "Add lowercase letters")
	classCheck("digits", hasDigit, 10, "Add digits")
	classCheck("special", hasSpecial, 15, "Add special characters")

	// Deductions. Each one floors the running score at zero before the next.
	floorDeduct := func(points int) {
		score -= points
		if score < 0 {
			score = 0
		}
	}

	if a.patterns.IsCommonPassword(password) {
		floorDeduct(40)
		checks = append(checks, models.PasswordCheck{Name: "not_common", Passed: false,
			Suggestion: "This password is on common-password lists - pick something unique"})
		suggestions = append(suggestions, "Avoid dictionary passwords found in breach wordlists")
	} else {
		checks = append(checks, models.PasswordCheck{Name: "not_common", Passed: true})
	}

	if a.patterns.ContainsKeyboardRun(password) {
		floorDeduct(15)
		suggestions = append(suggestions, "Avoid keyboard walks like qwerty or asdf")
	}

	if hasRepeatedRun(runes) {
		floorDeduct(10)
		suggestions = append(suggestions, "Avoid repeating the same character three or more times")
	}

	if penalty := sequentialPenalty(runes); penalty > 0 {
		floorDeduct(penalty)
		suggestions = append(suggestions, "Avoid sequential runs like 123 or abc")
	}

	// Entropy bonus
	charset := 0
	if hasLower {
		charset += charsetLower
	}
	if hasUpper {
		charset += charsetUpper
	}
	if hasDigit {
		charset += charsetDigit
	}
	if hasSpecial {
		charset += charsetSpecial
	}

	var entropy float64
	if charset > 0 && length > 0 {
		entropy = float64(length) * math.Log2(float64(charset))
	}
	switch {
	case entropy > 60:
		score += 15
	case entropy > 40:
		score += 10
	case entropy > 28:
		score += 5
	}

	score = clampScore(score)

	return &models.PasswordAssessment{
		Score:       score,
		Strength:    normalizeStrength(score),
		EntropyBits: math.Round(entropy*10) / 10,
		CrackTime:   crackTimeLabel(charset, length),
		Checks:      checks,
		Suggestions: suggestions,
	}
}

// hasRepeatedRun reports three or more identical consecutive characters
func hasRepeatedRun(runes []rune) bool {
	for i := 2; i < len(runes); i++ {
		if runes[i] == runes[i-1] && runes[i] == runes[i-2] {
			return true
		}
	}
	return false
}

// sequentialPenalty deducts proportionally to ascending runs such as
// "123" or "abc": 5 points per extra character past the second.
func sequentialPenalty(runes []rune) int {
	penalty := 0
	runLen := 1
	for i := 1; i < len(runes); i++ {
		prev := unicode.ToLower(runes[i-1])
		cur := unicode.ToLower(runes[i])
		if cur == prev+1 && (isSequencable(prev) && isSequencable(cur)) {
			runLen++
			continue
		}
		if runLen >= 3 {
			penalty += (runLen - 2) * 5
		}
		runLen = 1
	}
	if runLen >= 3 {
		penalty += (runLen - 2) * 5
	}
	return penalty
}

func isSequencable(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// crackTimeLabel buckets the brute-force time for the password's search
// space assuming an offline attacker at crackGuessesPerSecond.
func crackTimeLabel(charset, length int) string {
	if charset == 0 || length == 0 {
		return "instant"
	}

	// average case is half the search space
	seconds := math.Pow(float64(charset), float64(length)) / (2 * crackGuessesPerSecond)

	switch {
	case seconds < 1:
		return "instant"
	case seconds < 60:
		return fmt.Sprintf("%.0f seconds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%.0f minutes", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%.0f hours", seconds/3600)
	case seconds < 2592000:
		return fmt.Sprintf("%.0f days", seconds/86400)
	case seconds < 31536000:
		return fmt.Sprintf("%.0f months", seconds/2592000)
	case seconds < 31536000*1000:
		return fmt.Sprintf("%.0f years", seconds/31536000)
	case seconds < 31536000*1e6:
		return "millennia"
	default:
		return "centuries+"
	}
}
