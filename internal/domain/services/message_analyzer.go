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

// Message risk weights
const (
	weightKeywordFamily  = 15
	weightSuspiciousLink = 25
	weightPhoneWithLure  = 10

	maxExtractedPhones = 3

	scamScoreFloor = 40
)

var (
	messageURLRe = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+|www\.[^\s<>"{}|\\^` + "`" + `\[\]]+`)

	// bare domain-looking tokens without a scheme ("bit.ly/win123")
	bareLinkRe = regexp.MustCompile(`(?i)\b(?:[a-z0-9][a-z0-9-]*\.)+[a-z]{2,}(?:/[^\s<>"')\]]*)?`)

	phoneRes = []*regexp.Regexp{
		regexp.MustCompile(`\+?1?[-.\s]?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`),
		regexp.MustCompile(`\+[0-9]{1,3}[-.\s]?[0-9]{6,14}`),
	}
	nonPhoneCharsRe = regexp.MustCompile(`[^\d+]`)
)

// MessageAnalyzer evaluates free text and SMS bodies for scam signals
type MessageAnalyzer struct {
	patterns *PatternLibrary
	llm      *ai.LLMClient
	logger   *logger.Logger
}

// NewMessageAnalyzer creates a message analyzer. llm may be nil to run
// heuristics only.
func NewMessageAnalyzer(patterns *PatternLibrary, llm *ai.LLMClient, log *logger.Logger) *MessageAnalyzer {
	return &MessageAnalyzer{
		patterns: patterns,
		llm:      llm,
		logger:   log.WithComponent("message-analyzer"),
	}
}

// EvaluateMessage scores a message body. Empty input returns
// InvalidInputError.
func (a *MessageAnalyzer) EvaluateMessage(ctx context.Context, text string) (*models.MessageAssessment, error) {
	result, _, err := a.evaluate(ctx, text, false)
	return result, err
}

// EvaluateEmail scores email content: the message families plus a
// credential-request family, with an email threat-type label.
func (a *MessageAnalyzer) EvaluateEmail(ctx context.Context, text string) (*models.EmailAssessment, error) {
	result, familyCount, err := a.evaluate(ctx, text, true)
	if err != nil {
		return nil, err
	}

	email := &models.EmailAssessment{MessageAssessment: *result}
	email.ThreatType = emailThreatType(result, familyCount)
	return email, nil
}

func (a *MessageAnalyzer) evaluate(ctx context.Context, text string, email bool) (*models.MessageAssessment, int, error) {
	if strings.TrimSpace(text) == "" {
		return nil, 0, models.NewInvalidInput("content", "empty input")
	}

	textLower := strings.ToLower(text)
	result := &models.MessageAssessment{}

	var score int
	var findings []models.RiskFinding

	// Each matching keyword family contributes exactly one finding.
	families := a.patterns.MatchFamilies(textLower)
	for _, fam := range families {
		findings = append(findings, models.RiskFinding{
			Type:        "keyword",
			Value:       `"` + fam.FirstKeyword(textLower) + `"`,
			Weight:      weightKeywordFamily,
			Description: fam.Description,
		})
		score += weightKeywordFamily
	}

	credentialMatched := false
	if email {
		if cred, ok := a.patterns.MatchCredentialFamily(textLower); ok {
			credentialMatched = true
			findings = append(findings, models.RiskFinding{
				Type:        "pattern",
				Value:       `"` + cred.FirstKeyword(textLower) + `"`,
				Weight:      weightKeywordFamily,
				Description: cred.Description,
			})
			score += weightKeywordFamily
		}
	}

	result.ExtractedURLs = a.extractURLs(text)
	urlSuspicious := false
	for _, u := range result.ExtractedURLs {
		if u.Suspicious {
			urlSuspicious = true
			break
		}
	}
	if urlSuspicious {
		findings = append(findings, models.RiskFinding{
			Type:        "url",
			Value:       "suspicious link",
			Weight:      weightSuspiciousLink,
			Description: "Message contains a link with known phishing characteristics",
		})
		score += weightSuspiciousLink
	}

	result.ExtractedPhones = extractPhones(text)
	if len(result.ExtractedPhones) > 0 && len(families) > 0 {
		findings = append(findings, models.RiskFinding{
			Type:        "behavioral",
			Value:       "callback number with lure",
			Weight:      weightPhoneWithLure,
			Description: "Scam language combined with a phone number to call",
		})
		score += weightPhoneWithLure
	}

	score = clampScore(score)
	result.Findings = findings

	// AI blend: a scam verdict lifts borderline scores, a clean verdict
	// softens low ones. Heuristic findings stay untouched either way.
	if a.llm.Enabled() {
		if verdict, err := a.llm.AssessMessage(ctx, text); err != nil {
			a.logger.Warn().Err(err).Msg("AI augmentation failed, using heuristics only")
		} else {
			score = applyAINudge(score, verdict.IsScam)
			result.AIAnalysis = &models.AIInsight{
				Verdict:    messageVerdictLabel(verdict.IsScam),
				Confidence: verdict.Confidence,
				Summary:    verdict.Summary,
				RedFlags:   verdict.RedFlags,
				ModelUsed:  verdict.ModelUsed,
			}
		}
	}

	result.RiskScore = score
	result.Severity = normalizeSeverity(score, messageTiers)
	result.IsScam = score >= scamScoreFloor
	result.Confidence = messageConfidence(score)
	result.ScamType = a.classifyScamType(result, families, credentialMatched, urlSuspicious)
	result.RiskContributions = contributionsFromFindings(findings)
	result.Recommendations = a.recommendations(result, families)

	return result, len(families), nil
}

// applyAINudge blends the LLM verdict into the heuristic score
func applyAINudge(score int, aiSaysScam bool) int {
	if aiSaysScam && score < 50 {
		return 60
	}
	if !aiSaysScam && score < 30 {
		score -= 10
		if score < 0 {
			score = 0
		}
	}
	return score
}

// messageConfidence derives confidence from the risk score, capped at 99
func messageConfidence(score int) int {
	confidence := score + 20
	if confidence > 99 {
		confidence = 99
	}
	return confidence
}

func messageVerdictLabel(isScam bool) string {
	if isScam {
		return "scam"
	}
	return "legitimate"
}

// classifyScamType picks the scam label by fixed family priority
func (a *MessageAnalyzer) classifyScamType(result *models.MessageAssessment, families []KeywordFamily, credential, urlSuspicious bool) string {
	if !result.IsScam {
		return ""
	}

	matched := map[string]bool{}
	for _, fam := range families {
		matched[fam.Name] = true
	}

	switch {
	case matched["prize"]:
		return models.ScamTypePrizeLottery
	case matched["delivery"]:
		return models.ScamTypeDelivery
	case matched["account_threat"]:
		return models.ScamTypeAccount
	case matched["financial"]:
		return models.ScamTypeFinancial
	case matched["personal_info"] || credential:
		return models.ScamTypePersonalInfo
	default:
		return models.ScamTypeGeneric
	}
}

// emailThreatType labels email content by accumulated score and signals
func emailThreatType(result *models.MessageAssessment, familyCount int) string {
	urlSuspicious := false
	for _, u := range result.ExtractedURLs {
		if u.Suspicious {
			urlSuspicious = true
			break
		}
	}

	switch {
	case result.RiskScore >= 70:
		if familyCount > 0 || urlSuspicious {
			return "phishing"
		}
		return "social_engineering"
	case result.RiskScore >= 50:
		if urlSuspicious {
			return "phishing"
		}
		return "spam"
	case result.RiskScore >= 30:
		return "spam"
	case result.RiskScore >= 15:
		return "unknown"
	default:
		return "safe"
	}
}

// extractURLs pulls URLs out of the text and runs the light suspicion check
func (a *MessageAnalyzer) extractURLs(text string) []models.ExtractedURL {
	seen := make(map[string]bool)
	var urls []models.ExtractedURL

	for _, match := range messageURLRe.FindAllString(text, -1) {
		if seen[match] {
			continue
		}
		seen[match] = true
		urls = append(urls, a.lightURLCheck(match))
	}

	// Scammers drop the scheme ("Click bit.ly/win123") to dodge naive link
	// filters. Bare tokens are kept only when the host itself trips the
	// light check, so ordinary prose domains are not flagged.
	for _, loc := range bareLinkRe.FindAllStringIndex(text, -1) {
		if loc[0] > 0 {
			switch text[loc[0]-1] {
			case '/', '.', '@', '-':
				continue
			}
		}
		match := text[loc[0]:loc[1]]
		if seen[match] {
			continue
		}
		checked := a.lightURLCheck(match)
		if !checked.Suspicious {
			continue
		}
		seen[match] = true
		urls = append(urls, checked)
	}

	return urls
}

// lightURLCheck is the cheap in-message URL verdict: shorteners,
// throwaway TLDs, and impersonation domains only.
func (a *MessageAnalyzer) lightURLCheck(rawURL string) models.ExtractedURL {
	extracted := models.ExtractedURL{URL: rawURL}

	candidate := rawURL
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Hostname() == "" {
		extracted.Suspicious = true
		extracted.Reason = "unparseable URL"
		return extracted
	}

	host := strings.ToLower(parsed.Hostname())
	extracted.Domain = host

	switch {
	case a.patterns.IsShortener(host):
		extracted.Suspicious = true
		extracted.Reason = "shortened URL hides the destination"
	default:
		if tld, ok := a.patterns.IsSuspiciousTLD(host); ok {
			extracted.Suspicious = true
			extracted.Reason = "suspicious TLD (" + tld + ")"
		} else if dp, ok := a.patterns.MatchImpersonation(host); ok {
			extracted.Suspicious = true
			extracted.Reason = dp.Description
		}
	}

	return extracted
}

// extractPhones extracts deduplicated NA-style phone numbers, capped
func extractPhones(text string) []string {
	seen := make(map[string]bool)
	var phones []string

	for _, re := range phoneRes {
		for _, match := range re.FindAllString(text, -1) {
			cleaned := nonPhoneCharsRe.ReplaceAllString(match, "")
			if len(cleaned) < 10 || seen[cleaned] {
				continue
			}
			seen[cleaned] = true
			phones = append(phones, cleaned)
			if len(phones) >= maxExtractedPhones {
				return phones
			}
		}
	}
	return phones
}

func (a *MessageAnalyzer) recommendations(result *models.MessageAssessment, families []KeywordFamily) []string {
	if result.Severity == models.SeveritySafe {
		return nil
	}

	recs := []string{}

	for _, u := range result.ExtractedURLs {
		if u.Suspicious {
			recs = append(recs, "Do not tap the link in this message - the destination is untrustworthy")
			break
		}
	}

	for _, fam := range families {
		switch fam.Name {
		case "prize":
			recs = append(recs, "Be skeptical of unsolicited prize or reward messages - these are usually scams")
		case "urgency":
			recs = append(recs, "Be wary of messages demanding immediate action - urgency is a common scam tactic")
		case "personal_info":
			recs = append(recs, "Never share personal information (SSN, passwords) over SMS or email")
		case "financial":
			recs = append(recs, "Never send money or payment details in response to unsolicited messages")
		}
	}

	if result.Severity == models.SeverityCritical || result.Severity == models.SeverityHigh {
		recs = append(recs,
			"Block this sender to prevent future messages",
			"Report this message as spam/phishing to your carrier or provider")
	}

	if len(recs) > 5 {
		recs = recs[:5]
	}
	return recs
}
