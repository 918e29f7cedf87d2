package services

import (
	"strings"
	"testing"

	"cybershield/internal/domain/models"
)

func newTestPasswordAnalyzer() *PasswordAnalyzer {
	return NewPasswordAnalyzer(NewPatternLibrary(), testLogger())
}

// --- Scoring tests ---

func TestEvaluatePasswordCommonWord(t *testing.T) {
	a := newTestPasswordAnalyzer()
	result := a.EvaluatePassword("password")
	// length (10) + lowercase (10) - common (40, floored) + entropy (5)
	if result.Score != 5 {
		t.Errorf("expected score 5, got %d", result.Score)
	}
	if result.Strength != models.PasswordWeak {
		t.Errorf("expected weak strength, got %s", result.Strength)
	}

	var notCommon *models.PasswordCheck
	for i := range result.Checks {
		if result.Checks[i].Name == "not_common" {
			notCommon = &result.Checks[i]
		}
	}
	if notCommon == nil {
		t.Fatal("expected not_common check")
	}
	if notCommon.Passed {
		t.Error("expected not_common check to fail for dictionary password")
	}
}

func TestEvaluatePasswordStrongMix(t *testing.T) {
	a := newTestPasswordAnalyzer()
	result := a.EvaluatePassword("X9#mQ2$vL7@pW4zT")
	// length (30) + all four classes (45) + entropy (15)
	if result.Score != 90 {
		t.Errorf("expected score 90, got %d", result.Score)
	}
	if result.Strength != models.PasswordExcellent {
		t.Errorf("expected excellent strength, got %s", result.Strength)
	}
	if result.CrackTime != "centuries+" {
		t.Errorf("expected centuries+ crack time, got %q", result.CrackTime)
	}
	if len(result.Suggestions) != 0 {
		t.Errorf("expected no suggestions, got %v", result.Suggestions)
	}
}

func TestEvaluatePasswordMixedWithSequentialTail(t *testing.T) {
	a := newTestPasswordAnalyzer()
	result := a.EvaluatePassword("Tr0ub4dor&3xyz!9Qp")
	// length (30) + all four classes (45) - xyz run (5) + entropy (15)
	if result.Score != 85 {
		t.Errorf("expected score 85, got %d", result.Score)
	}
	if result.Strength != models.PasswordStrong {
		t.Errorf("expected strong strength, got %s", result.Strength)
	}
	if result.CrackTime != "centuries+" {
		t.Errorf("expected centuries+ crack time, got %q", result.CrackTime)
	}
	found := false
	for _, s := range result.Suggestions {
		if strings.Contains(s, "sequential") {
			found = true
		}
	}
	if !found {
		t.Error("expected a sequential-run suggestion for the xyz tail")
	}
}

func TestEvaluatePasswordIdempotent(t *testing.T) {
	a := newTestPasswordAnalyzer()
	first := a.EvaluatePassword("Tr0ub4dor&3xyz!9Qp")
	second := a.EvaluatePassword("Tr0ub4dor&3xyz!9Qp")
	if first.Score != second.Score || first.Strength != second.Strength || first.CrackTime != second.CrackTime {
		t.Errorf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestEvaluatePasswordNeverNegative(t *testing.T) {
	a := newTestPasswordAnalyzer()
	// common word plus keyboard walk stacks deductions past zero
	result := a.EvaluatePassword("qwerty")
	if result.Score < 0 {
		t.Errorf("expected non-negative score, got %d", result.Score)
	}
	if result.Strength != models.PasswordWeak {
		t.Errorf("expected weak strength, got %s", result.Strength)
	}
}

func TestEvaluatePasswordSequentialRun(t *testing.T) {
	a := newTestPasswordAnalyzer()
	result := a.EvaluatePassword("abc")
	// lowercase (10) - sequential run abc (5)
	if result.Score != 5 {
		t.Errorf("expected score 5, got %d", result.Score)
	}
}

func TestEvaluatePasswordRepeatedRun(t *testing.T) {
	a := newTestPasswordAnalyzer()
	result := a.EvaluatePassword("aaa111")
	// lowercase (10) + digits (10) - repeats (10) + entropy (5)
	if result.Score != 15 {
		t.Errorf("expected score 15, got %d", result.Score)
	}
	found := false
	for _, s := range result.Suggestions {
		if strings.Contains(s, "repeating") {
			found = true
		}
	}
	if !found {
		t.Error("expected a repeated-character suggestion")
	}
}

func TestEvaluatePasswordEmpty(t *testing.T) {
	a := newTestPasswordAnalyzer()
	result := a.EvaluatePassword("")
	if result.Score != 0 {
		t.Errorf("expected score 0, got %d", result.Score)
	}
	if result.CrackTime != "instant" {
		t.Errorf("expected instant crack time, got %q", result.CrackTime)
	}
	if result.EntropyBits != 0 {
		t.Errorf("expected 0 entropy bits, got %f", result.EntropyBits)
	}
}

// --- Helper tests ---

func TestSequentialPenaltyProportional(t *testing.T) {
	cases := []struct {
		input string
		want  int
	}{
		{"ab", 0},
		{"abc", 5},
		{"abcd", 10},
		{"1234", 10},
		{"abcxyz123", 15},
		{"zzz", 0},
	}
	for _, tc := range cases {
		if got := sequentialPenalty([]rune(tc.input)); got != tc.want {
			t.Errorf("sequentialPenalty(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestHasRepeatedRun(t *testing.T) {
	if !hasRepeatedRun([]rune("xxxy")) {
		t.Error("expected repeated run in xxxy")
	}
	if hasRepeatedRun([]rune("xxyx")) {
		t.Error("expected no repeated run in xxyx")
	}
}

func TestCrackTimeLabelBuckets(t *testing.T) {
	if got := crackTimeLabel(26, 4); got != "instant" {
		t.Errorf("expected instant for tiny space, got %q", got)
	}
	if got := crackTimeLabel(26, 12); !strings.Contains(got, "months") {
		t.Errorf("expected months bucket, got %q", got)
	}
	if got := crackTimeLabel(94, 16); got != "centuries+" {
		t.Errorf("expected centuries+ for huge space, got %q", got)
	}
}
