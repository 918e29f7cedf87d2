package models

import (
	"time"

	"github.com/google/uuid"
)

// FalsePositiveLikelihood labels derived from analysis confidence
const (
	FPLikelihoodLow    = "low"
	FPLikelihoodMedium = "medium"
	FPLikelihoodHigh   = "high"
)

// AnalyzeRequest is the body of the combined analyze endpoint
type AnalyzeRequest struct {
	Type    InputType `json:"type"`
	Content string    `json:"content"`
}

// AnalyzeResponse is the full anonymized result of a combined analysis.
// Raw content never appears here; InputHash is truncated for display.
type AnalyzeResponse struct {
	ID                      uuid.UUID          `json:"id"`
	ThreatType              string             `json:"threatType"`
	Severity                Severity           `json:"severity"`
	RiskScore               int                `json:"riskScore"`
	Confidence              int                `json:"confidence"`
	Summary                 string             `json:"summary"`
	Indicators              []RiskFinding      `json:"indicators"`
	Recommendations         []string           `json:"recommendations"`
	RiskContributions       []RiskContribution `json:"riskContributions"`
	AnalyzedAt              time.Time          `json:"analyzedAt"`
	InputHash               string             `json:"inputHash"`
	ProcessingTimeMs        int64              `json:"processingTimeMs"`
	EngineVersion           string             `json:"modelVersion"`
	FalsePositiveLikelihood string             `json:"falsePositiveLikelihood"`
}

// AnalysisRecord is the persisted, anonymized form of an analysis
type AnalysisRecord struct {
	ID                uuid.UUID          `json:"id"`
	InputHash         string             `json:"inputHash"`
	InputType         InputType          `json:"inputType"`
	ThreatType        string             `json:"threatType"`
	Severity          Severity           `json:"severity"`
	RiskScore         int                `json:"riskScore"`
	Confidence        int                `json:"confidence"`
	Summary           string             `json:"summary"`
	Indicators        []RiskFinding      `json:"indicators,omitempty"`
	Recommendations   []string           `json:"recommendations,omitempty"`
	RiskContributions []RiskContribution `json:"riskContributions,omitempty"`
	IsFalsePositive   bool               `json:"isFalsePositive"`
	FeedbackAt        *time.Time         `json:"feedbackAt,omitempty"`
	AnalyzedAt        time.Time          `json:"analyzedAt"`
	ProcessingTimeMs  int64              `json:"processingTimeMs"`
	EngineVersion     string             `json:"modelVersion"`
}

// HistoryEntry is the compact listing form of an analysis record
type HistoryEntry struct {
	ID         uuid.UUID `json:"id"`
	InputType  InputType `json:"inputType"`
	InputHash  string    `json:"inputHash"`
	ThreatType string    `json:"threatType"`
	Severity   Severity  `json:"severity"`
	RiskScore  int       `json:"riskScore"`
	AnalyzedAt time.Time `json:"analyzedAt"`
}

// HistoryFilter holds pagination and filter parameters for history queries
type HistoryFilter struct {
	Page       int
	PageSize   int
	Severity   string
	ThreatType string
	InputType  string
}

// HistoryPage is one page of analysis history
type HistoryPage struct {
	Items    []HistoryEntry `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
	HasMore  bool           `json:"hasMore"`
}

// DashboardMetrics holds the KPI aggregates for the dashboard
type DashboardMetrics struct {
	TotalThreats      int64   `json:"totalThreats"`
	HighRiskCount     int64   `json:"highRiskCount"`
	ThreatsToday      int64   `json:"threatsToday"`
	AvgRiskScore      float64 `json:"avgRiskScore"`
	DetectionRate     float64 `json:"detectionRate"`
	FalsePositiveRate float64 `json:"falsePositiveRate"`
}

// TrendPoint is one day's threat count
type TrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// DashboardTrends holds chart data over a day range
type DashboardTrends struct {
	ThreatsOverTime      []TrendPoint     `json:"threatsOverTime"`
	ThreatsByType        map[string]int64 `json:"threatsByType"`
	SeverityDistribution map[string]int64 `json:"severityDistribution"`
}

// FeedbackType classifies user feedback on an analysis
type FeedbackType string

const (
	FeedbackFalsePositive FeedbackType = "false_positive"
	FeedbackFalseNegative FeedbackType = "false_negative"
	FeedbackAccurate      FeedbackType = "accurate"
)

// ValidFeedbackType reports whether t is a recognized feedback type
func ValidFeedbackType(t FeedbackType) bool {
	switch t {
	case FeedbackFalsePositive, FeedbackFalseNegative, FeedbackAccurate:
		return true
	}
	return false
}

// Feedback is a user-submitted verdict on a past analysis
type Feedback struct {
	ID           uuid.UUID    `json:"id"`
	AnalysisHash string       `json:"analysisHash"`
	FeedbackType FeedbackType `json:"feedbackType"`
	Comment      string       `json:"comment,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// AuditEntry records a privileged or data-changing action
type AuditEntry struct {
	ID        uuid.UUID      `json:"id"`
	Action    string         `json:"action"`
	Resource  string         `json:"resource"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
