package services

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"cybershield/internal/domain/models"
	"cybershield/internal/domain/services/ai"
	"cybershield/pkg/logger"
)

// URL risk weights. Weights are additive per signal; only the aggregate
// score is clamped to [0,100].
const (
	weightInsecureScheme  = 20
	weightSuspiciousTLD   = 25
	weightShortener       = 15
	weightImpersonation   = 40
	weightIPHost          = 30
	weightDeepSubdomains  = 15
	weightHyphenKeyword   = 20
	weightDangerousScheme = 50
	weightOverlongURL     = 10

	aiAugmentationFloor = 20
	maxURLLength        = 200
)

var (
	schemeRe     = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	ipv4HostRe   = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)
	hostKeywords = []string{"login", "secure", "verify"}
)

// URLAnalyzer evaluates URLs for phishing and malicious hosting signals
type URLAnalyzer struct {
	patterns *PatternLibrary
	llm      *ai.LLMClient
	logger   *logger.Logger
}

// NewURLAnalyzer creates a URL analyzer. llm may be nil to run
// heuristics only.
func NewURLAnalyzer(patterns *PatternLibrary, llm *ai.LLMClient, log *logger.Logger) *URLAnalyzer {
	return &URLAnalyzer{
		patterns: patterns,
		llm:      llm,
		logger:   log.WithComponent("url-analyzer"),
	}
}

// EvaluateURL scores a single URL. Input without a scheme is treated as
// https. Unparseable input returns InvalidInputError.
func (a *URLAnalyzer) EvaluateURL(ctx context.Context, rawURL string) (*models.URLAssessment, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, models.NewInvalidInput("url", "empty input")
	}

	lower := strings.ToLower(trimmed)

	result := &models.URLAssessment{
		URL: trimmed,
	}

	var score int
	var findings []models.RiskFinding

	addFinding := func(ftype, value string, weight int, desc string) {
		score += weight
		findings = append(findings, models.RiskFinding{
			Type:        ftype,
			Value:       value,
			Weight:      weight,
			Description: desc,
		})
	}

	// data: and javascript: payloads are scored without host analysis.
	// The insecure-transport signal still applies: weights accumulate
	// across every check that fires.
	if strings.HasPrefix(lower, "data:") || strings.HasPrefix(lower, "javascript:") {
		scheme := strings.SplitN(lower, ":", 2)[0]
		addFinding("url", scheme+":", weightInsecureScheme,
			"Connection is not encrypted; credentials and data can be intercepted")
		addFinding("url", scheme+": scheme", weightDangerousScheme,
			"Script or data URI schemes can execute attacker-controlled content")
		if len(trimmed) > maxURLLength {
			addFinding("pattern", "overlong URL", weightOverlongURL,
				"Excessively long URLs often hide their true destination")
		}
		a.finalize(result, score, findings)
		return result, nil
	}

	candidate := trimmed
	if !schemeRe.MatchString(candidate) {
		candidate = "https://" + candidate
	}

	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Hostname() == "" {
		return nil, models.NewInvalidInput("url", "not a parseable URL")
	}

	host := strings.ToLower(parsed.Hostname())
	result.Domain = host

	if parsed.Scheme != "https" {
		addFinding("url", parsed.Scheme+"://", weightInsecureScheme,
			"Connection is not encrypted; credentials and data can be intercepted")
	}

	if tld, ok := a.patterns.IsSuspiciousTLD(host); ok {
		addFinding("url", "suspicious TLD ("+tld+")", weightSuspiciousTLD,
			"Free or cheap domain commonly used for malicious sites")
	}

	if a.patterns.IsShortener(host) {
		addFinding("url", "URL shortener ("+host+")", weightShortener,
			"Shortened link hides the actual destination")
	}

	// Impersonation tokens hide in the path as often as in the hostname
	// ("evil.xyz/paypa1.login"), so both are scanned.
	if dp, ok := a.patterns.MatchImpersonation(host + strings.ToLower(parsed.Path)); ok {
		addFinding("pattern", dp.Name, weightImpersonation, dp.Description)
	}

	if ipv4HostRe.MatchString(host) {
		addFinding("url", "IP-based URL", weightIPHost,
			"URL uses an IP address instead of a domain name")
	}

	if labels := strings.Split(host, "."); len(labels) > 3 {
		addFinding("pattern", "excessive subdomains", weightDeepSubdomains,
			"Deep subdomain nesting can disguise the real domain")
	}

	if strings.Contains(host, "-") && containsAny(host, hostKeywords) {
		addFinding("pattern", "hyphenated lure hostname", weightHyphenKeyword,
			"Hostname combines hyphens with login/secure/verify bait words")
	}

	if len(trimmed) > maxURLLength {
		addFinding("pattern", "overlong URL", weightOverlongURL,
			"Excessively long URLs often hide their true destination")
	}

	a.finalize(result, score, findings)
	a.augment(ctx, result)

	return result, nil
}

// finalize clamps the score and fills the derived fields
func (a *URLAnalyzer) finalize(result *models.URLAssessment, score int, findings []models.RiskFinding) {
	result.RiskScore = clampScore(score)
	result.Severity = normalizeSeverity(result.RiskScore, urlTiers)
	// The safe flag deliberately tracks the medium boundary, not the low one:
	// a low-tier URL is still reported as safe to browse with caution.
	result.Safe = result.RiskScore < 30
	result.Findings = findings
	result.DomainAge = a.estimateDomainAge(result.Domain)
	result.RiskContributions = contributionsFromFindings(findings)
	result.Recommendations = a.recommendations(result)
}

// estimateDomainAge labels the domain without a WHOIS lookup
func (a *URLAnalyzer) estimateDomainAge(host string) string {
	if host == "" {
		return models.DomainAgeUnknown
	}
	if _, ok := a.patterns.IsMainstreamDomain(host); ok {
		return models.DomainAgeEstablished
	}
	if _, ok := a.patterns.IsSuspiciousTLD(host); ok {
		return models.DomainAgeRecent
	}
	return models.DomainAgeUnknown
}

// augment attaches the LLM second opinion when the heuristic score
// warrants it. Failures degrade to the heuristic-only result.
func (a *URLAnalyzer) augment(ctx context.Context, result *models.URLAssessment) {
	if result.RiskScore <= aiAugmentationFloor || !a.llm.Enabled() {
		return
	}

	verdict, err := a.llm.AssessURL(ctx, result.URL)
	if err != nil {
		a.logger.Warn().Err(err).Str("domain", result.Domain).Msg("AI augmentation failed, using heuristics only")
		return
	}

	result.AIAnalysis = &models.AIInsight{
		Verdict:   verdict.Verdict,
		RiskScore: verdict.RiskScore,
		Summary:   verdict.Summary,
		RedFlags:  verdict.RedFlags,
		ModelUsed: verdict.ModelUsed,
	}
}

func (a *URLAnalyzer) recommendations(result *models.URLAssessment) []string {
	if result.Severity == models.SeveritySafe {
		return nil
	}

	recs := []string{}
	for _, f := range result.Findings {
		switch {
		case strings.Contains(f.Value, "shortener"):
			recs = append(recs, "Expand the shortened link before visiting - the destination is hidden")
		case f.Type == "pattern" && strings.Contains(f.Description, "typosquatting"):
			recs = append(recs, "This domain imitates a well-known brand - do not enter credentials")
		case strings.Contains(f.Value, "IP-based"):
			recs = append(recs, "Legitimate services rarely use raw IP addresses - avoid this link")
		}
	}

	if result.Severity == models.SeverityCritical || result.Severity == models.SeverityHigh {
		recs = append(recs,
			"Do NOT enter personal or payment information on this site",
			"Block and report the source that sent you this link")
	} else {
		recs = append(recs, "Verify the address carefully before entering any information")
	}

	return recs
}

// contributionsFromFindings groups findings by type into labelled components
func contributionsFromFindings(findings []models.RiskFinding) []models.RiskContribution {
	if len(findings) == 0 {
		return nil
	}

	labels := map[string]string{
		"url":        "URL Structure",
		"pattern":    "Deceptive Patterns",
		"keyword":    "Trigger Keywords",
		"behavioral": "Behavioral Signals",
	}

	totals := map[string]int{}
	order := []string{}
	for _, f := range findings {
		if _, seen := totals[f.Type]; !seen {
			order = append(order, f.Type)
		}
		totals[f.Type] += f.Weight
	}

	contributions := make([]models.RiskContribution, 0, len(order))
	for _, t := range order {
		label := labels[t]
		if label == "" {
			label = t
		}
		contributions = append(contributions, models.RiskContribution{
			Label:    label,
			Value:    totals[t],
			Category: t,
		})
	}
	return contributions
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
