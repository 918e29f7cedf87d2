package models

// Severity represents the threat tier assigned to an assessment
type Severity string

const (
	SeveritySafe     Severity = "safe"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityRank returns a comparable rank for a severity level
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// InputType represents the kind of content submitted for analysis
type InputType string

const (
	InputTypeURL      InputType = "url"
	InputTypeMessage  InputType = "message"
	InputTypeEmail    InputType = "email"
	InputTypePassword InputType = "password"
)

// RiskFinding is a single signal that contributed to a risk score
type RiskFinding struct {
	Type        string `json:"type"` // keyword, url, pattern, behavioral
	Value       string `json:"value"`
	Weight      int    `json:"riskContribution"`
	Description string `json:"description"`
}

// RiskContribution groups findings into a labelled score component
type RiskContribution struct {
	Label    string `json:"label"`
	Value    int    `json:"value"`
	Category string `json:"category"`
}

// DomainAge labels for URL assessments
const (
	DomainAgeEstablished = "established"
	DomainAgeRecent      = "recent"
	DomainAgeUnknown     = "unknown"
)

// URLAssessment is the result of evaluating a single URL
type URLAssessment struct {
	URL               string             `json:"url"`
	Domain            string             `json:"domain"`
	RiskScore         int                `json:"riskScore"`
	Severity          Severity           `json:"severity"`
	Safe              bool               `json:"safe"`
	DomainAge         string             `json:"domainAge"`
	Findings          []RiskFinding      `json:"findings"`
	RiskContributions []RiskContribution `json:"riskContributions,omitempty"`
	Recommendations   []string           `json:"recommendations,omitempty"`
	AIAnalysis        *AIInsight         `json:"aiAnalysis,omitempty"`
	CacheHit          bool               `json:"cacheHit,omitempty"`
}

// AIInsight carries the optional LLM augmentation attached to a result.
// Absent when no provider is configured or the augmentation call failed.
type AIInsight struct {
	Verdict    string   `json:"verdict"` // malicious, scam, suspicious, legitimate
	RiskScore  int      `json:"riskScore,omitempty"`
	Confidence int      `json:"confidence,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	RedFlags   []string `json:"redFlags,omitempty"`
	ModelUsed  string   `json:"modelUsed,omitempty"`
}
