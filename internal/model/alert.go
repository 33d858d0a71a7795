package model

import "time"

// RiskLevel ranks the urgency of a finding or alert.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// AlertType classifies a predictive alert.
type AlertType string

const (
	AlertComplianceGap        AlertType = "compliance_gap"
	AlertRegulatoryDeadline   AlertType = "regulatory_deadline"
	AlertPerformanceDecline   AlertType = "performance_decline"
	AlertIndustryShift        AlertType = "industry_shift"
	AlertProactiveOpportunity AlertType = "proactive_opportunity"
	AlertPenaltyRisk          AlertType = "penalty_risk"
)

// Alert is a stored predictive alert for a single user.
type Alert struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Type               AlertType `json:"alert_type"`
	RiskLevel          RiskLevel `json:"risk_level"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	PredictedImpact    string    `json:"predicted_impact"`
	RecommendedActions []string  `json:"recommended_actions"`
	TimelineDays       int       `json:"timeline_days"`
	Confidence         float64   `json:"confidence_score"`
	DataSources        []string  `json:"data_sources"`
	CreatedAt          time.Time `json:"created_at"`
	ExpiresAt          time.Time `json:"expires_at"`
	Resolved           bool      `json:"resolved"`
}

// Active reports whether the alert is still actionable at the given time.
func (a Alert) Active(now time.Time) bool {
	return !a.Resolved && now.Before(a.ExpiresAt)
}

// Expiry derives the expiry timestamp from creation time and timeline.
// Alerts with a zero or negative timeline stay visible for one day.
func Expiry(createdAt time.Time, timelineDays int) time.Time {
	if timelineDays < 1 {
		timelineDays = 1
	}
	return createdAt.Add(time.Duration(timelineDays) * 24 * time.Hour)
}
