package services

import (
	"regexp"
	"strings"
)

// PatternLibrary holds the process-wide read-only detection tables.
// Loaded once at startup and safe for concurrent use.
type PatternLibrary struct {
	suspiciousTLDs    []string
	shorteners        map[string]bool
	mainstreamDomains map[string]string
	domainPatterns    []DomainPattern
	keywordFamilies   []KeywordFamily
	credentialFamily  KeywordFamily
	commonPasswords   map[string]bool
	keyboardRuns      []string
}

// DomainPattern is a compiled regex for impersonation/typosquat domains
type DomainPattern struct {
	Name        string
	Pattern     *regexp.Regexp
	Description string
}

// KeywordFamily is a named group of scam trigger keywords.
// A family contributes one finding no matter how many keywords match.
type KeywordFamily struct {
	Name        string
	Label       string
	Description string
	Keywords    []string
}

// NewPatternLibrary builds the library with the default tables
func NewPatternLibrary() *PatternLibrary {
	p := &PatternLibrary{}
	p.initDomainTables()
	p.initKeywordFamilies()
	p.initPasswordTables()
	return p
}

func (p *PatternLibrary) initDomainTables() {
	p.suspiciousTLDs = []string{
		".xyz", ".top", ".club", ".work", ".click", ".link",
		".gq", ".ml", ".cf", ".tk", ".ga", ".buzz", ".rest",
	}

	p.shorteners = map[string]bool{
		"bit.ly": true, "tinyurl.com": true, "t.co": true, "goo.gl": true,
		"ow.ly": true, "is.gd": true, "buff.ly": true, "adf.ly": true,
		"j.mp": true, "rb.gy": true, "cutt.ly": true, "short.io": true,
		"rebrand.ly": true, "bl.ink": true, "soo.gd": true, "s.id": true,
		"clk.sh": true, "shorturl.at": true, "tiny.cc": true, "bc.vc": true,
	}

	p.mainstreamDomains = map[string]string{
		"google.com":        "Google",
		"amazon.com":        "Amazon",
		"apple.com":         "Apple",
		"microsoft.com":     "Microsoft",
		"paypal.com":        "PayPal",
		"netflix.com":       "Netflix",
		"facebook.com":      "Facebook",
		"github.com":        "GitHub",
		"wikipedia.org":     "Wikipedia",
		"usps.com":          "USPS",
		"ups.com":           "UPS",
		"fedex.com":         "FedEx",
		"chase.com":         "Chase",
		"wellsfargo.com":    "Wells Fargo",
		"bankofamerica.com": "Bank of America",
		"citibank.com":      "Citibank",
	}

	p.domainPatterns = []DomainPattern{
		{
			Name:        "paypal_typo",
			Pattern:     regexp.MustCompile(`(?i)(paypa1|pay-pal|paypai|payp4l|paypall|paipal)\.`),
			Description: "PayPal typosquatting domain",
		},
		{
			Name:        "amazon_typo",
			Pattern:     regexp.MustCompile(`(?i)(amaz0n|amazn|arnazon|amzon|amazon-[a-z]+)\.`),
			Description: "Amazon typosquatting domain",
		},
		{
			Name:        "apple_typo",
			Pattern:     regexp.MustCompile(`(?i)(app1e|appie|appl3|apple-[a-z]+)\.`),
			Description: "Apple typosquatting domain",
		},
		{
			Name:        "microsoft_typo",
			Pattern:     regexp.MustCompile(`(?i)(micr0soft|mircosoft|microsft|microsooft|microsoft-[a-z]+)\.`),
			Description: "Microsoft typosquatting domain",
		},
		{
			Name:        "google_typo",
			Pattern:     regexp.MustCompile(`(?i)(g00gle|googel|gooogle|gogle|google-[a-z]+)\.`),
			Description: "Google typosquatting domain",
		},
		{
			Name:        "netflix_typo",
			Pattern:     regexp.MustCompile(`(?i)(netf1ix|netfilx|netfix|netflix-[a-z]+)\.`),
			Description: "Netflix typosquatting domain",
		},
		{
			Name:        "brand_subdomain",
			Pattern:     regexp.MustCompile(`(?i)(paypal|amazon|apple|google|microsoft|netflix|bank)[.-][a-z0-9-]+\.(xyz|top|club|work|click|link|gq|ml|cf|tk|ga)`),
			Description: "Brand name on a throwaway TLD",
		},
	}
}

func (p *PatternLibrary) initKeywordFamilies() {
	p.keywordFamilies = []KeywordFamily{
		{
			Name:        "urgency",
			Label:       "Urgency Language",
			Description: "Pressure language designed to bypass careful reading",
			Keywords: []string{
				"urgent", "immediately", "act now", "expires", "expire",
				"final notice", "last chance", "limited time", "asap",
				"don't delay", "right away", "within 24 hours",
			},
		},
		{
			Name:        "prize",
			Label:       "Prize/Lottery Lure",
			Description: "Promises a prize, reward, or lottery winnings",
			Keywords: []string{
				"you have won", "you've won", "winner", "congratulations",
				"prize", "lottery", "claim your", "free gift", "reward",
				"sweepstakes", "lucky",
			},
		},
		{
			Name:        "financial",
			Label:       "Financial Lure",
			Description: "References money transfers or payment instruments",
			Keywords: []string{
				"wire transfer", "western union", "bitcoin", "crypto",
				"gift card", "itunes card", "amazon card", "bank transfer",
				"cash", "money", "payment", "refund", "$",
			},
		},
		{
			Name:        "account_threat",
			Label:       "Account Threat",
			Description: "Threatens account suspension or claims unauthorized activity",
			Keywords: []string{
				"suspended", "locked", "blocked", "unusual activity",
				"unauthorized", "compromised", "verify your account",
				"account will be", "deactivated", "security alert",
			},
		},
		{
			Name:        "personal_info",
			Label:       "Personal Information Request",
			Description: "Requests identity or account identifiers",
			Keywords: []string{
				"social security", "ssn", "date of birth", "mother's maiden",
				"pin number", "confirm your identity", "verify your identity",
				"full name and address",
			},
		},
		{
			Name:        "delivery",
			Label:       "Delivery Scam",
			Description: "Fake parcel or delivery notification",
			Keywords: []string{
				"package", "parcel", "delivery", "shipment", "tracking",
				"reschedule", "customs fee", "delivery attempt", "on hold",
			},
		},
	}

	p.credentialFamily = KeywordFamily{
		Name:        "credential_request",
		Label:       "Credential Harvesting",
		Description: "Requests passwords or financial credentials",
		Keywords: []string{
			"password", "login", "username", "credit card", "bank account",
			"routing number", "cvv", "card number", "billing information",
		},
	}
}

func (p *PatternLibrary) initPasswordTables() {
	common := []string{
		"password", "password1", "password123", "123456", "12345678",
		"123456789", "12345", "1234567890", "qwerty", "qwerty123",
		"abc123", "letmein", "welcome", "admin", "monkey", "dragon",
		"iloveyou", "sunshine", "princess", "football", "baseball",
		"master", "shadow", "superman", "trustno1", "passw0rd",
		"login", "starwars", "whatever", "1q2w3e4r", "654321",
	}
	p.commonPasswords = make(map[string]bool, len(common))
	for _, w := range common {
		p.commonPasswords[w] = true
	}

	p.keyboardRuns = []string{
		"qwerty", "qwertz", "azerty", "asdf", "asdfgh", "zxcv", "zxcvbn",
		"qazwsx", "1qaz", "zaq1", "wsxedc",
	}
}

// IsSuspiciousTLD reports whether host ends in a throwaway TLD
func (p *PatternLibrary) IsSuspiciousTLD(host string) (string, bool) {
	host = strings.ToLower(host)
	for _, tld := range p.suspiciousTLDs {
		if strings.HasSuffix(host, tld) {
			return tld, true
		}
	}
	return "", false
}

// IsShortener reports whether host is a known URL shortener
func (p *PatternLibrary) IsShortener(host string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	return p.shorteners[host]
}

// MatchImpersonation returns the first impersonation pattern the subject
// matches. The subject may be a bare hostname or a host+path string.
func (p *PatternLibrary) MatchImpersonation(subject string) (DomainPattern, bool) {
	for _, dp := range p.domainPatterns {
		if dp.Pattern.MatchString(subject) {
			return dp, true
		}
	}
	return DomainPattern{}, false
}

// IsMainstreamDomain reports whether host is (a subdomain of) a known brand domain
func (p *PatternLibrary) IsMainstreamDomain(host string) (string, bool) {
	host = strings.ToLower(host)
	if brand, ok := p.mainstreamDomains[host]; ok {
		return brand, true
	}
	for domain, brand := range p.mainstreamDomains {
		if strings.HasSuffix(host, "."+domain) {
			return brand, true
		}
	}
	return "", false
}

// MatchFamilies returns the keyword families that match the lowered text
func (p *PatternLibrary) MatchFamilies(textLower string) []KeywordFamily {
	var matched []KeywordFamily
	for _, fam := range p.keywordFamilies {
		if fam.matches(textLower) {
			matched = append(matched, fam)
		}
	}
	return matched
}

// MatchCredentialFamily reports whether the credential-request family matches
func (p *PatternLibrary) MatchCredentialFamily(textLower string) (KeywordFamily, bool) {
	if p.credentialFamily.matches(textLower) {
		return p.credentialFamily, true
	}
	return KeywordFamily{}, false
}

func (f KeywordFamily) matches(textLower string) bool {
	for _, kw := range f.Keywords {
		if strings.Contains(textLower, kw) {
			return true
		}
	}
	return false
}

// FirstKeyword returns the first keyword of the family found in the text,
// used as finding evidence.
func (f KeywordFamily) FirstKeyword(textLower string) string {
	for _, kw := range f.Keywords {
		if strings.Contains(textLower, kw) {
			return kw
		}
	}
	return ""
}

// IsCommonPassword reports whether pw is in the common-password set
func (p *PatternLibrary) IsCommonPassword(pw string) bool {
	return p.commonPasswords[strings.ToLower(pw)]
}

// ContainsKeyboardRun reports whether pw contains a keyboard walk
func (p *PatternLibrary) ContainsKeyboardRun(pw string) bool {
	lower := strings.ToLower(pw)
	for _, run := range p.keyboardRuns {
		if strings.Contains(lower, run) {
			return true
		}
	}
	return false
}
