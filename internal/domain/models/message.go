package models

// ScamType labels assigned to message assessments, in detection priority order
const (
	ScamTypePrizeLottery = "Prize/Lottery Scam"
	ScamTypeDelivery     = "Delivery Scam"
	ScamTypeAccount      = "Account Threat Scam"
	ScamTypeFinancial    = "Financial Scam"
	ScamTypePersonalInfo = "Personal Information Phishing"
	ScamTypeGeneric      = "Suspicious Message"
)

// ExtractedURL is a URL pulled out of message text with a light verdict
type ExtractedURL struct {
	URL        string `json:"url"`
	Domain     string `json:"domain"`
	Suspicious bool   `json:"suspicious"`
	Reason     string `json:"reason,omitempty"`
}

// MessageAssessment is the result of evaluating a message or SMS body
type MessageAssessment struct {
	RiskScore         int                `json:"riskScore"`
	Severity          Severity           `json:"severity"`
	IsScam            bool               `json:"isScam"`
	Confidence        int                `json:"confidence"`
	ScamType          string             `json:"scamType,omitempty"`
	Findings          []RiskFinding      `json:"findings"`
	RiskContributions []RiskContribution `json:"riskContributions,omitempty"`
	ExtractedURLs     []ExtractedURL     `json:"extractedUrls,omitempty"`
	ExtractedPhones   []string           `json:"extractedPhones,omitempty"`
	Recommendations   []string           `json:"recommendations,omitempty"`
	AIAnalysis        *AIInsight         `json:"aiAnalysis,omitempty"`
}

// EmailAssessment extends message analysis with email threat-type labelling
type EmailAssessment struct {
	MessageAssessment
	ThreatType string `json:"threatType"` // phishing, social_engineering, spam, safe
}
