package model

import "time"

// CategoryScores holds the 0-100 score per ESG pillar.
type CategoryScores struct {
	Environmental float64 `json:"environmental"`
	Social        float64 `json:"social"`
	Governance    float64 `json:"governance"`
}

// Get returns the score for a category by name.
func (c CategoryScores) Get(cat Category) float64 {
	switch cat {
	case CategoryEnvironmental:
		return c.Environmental
	case CategorySocial:
		return c.Social
	case CategoryGovernance:
		return c.Governance
	}
	return 0
}

// Score is a full assessment snapshot: the weighted overall score, the
// per-category and per-sub-category breakdowns, and the qualitative
// recommendations derived from them.
type Score struct {
	ID             string             `json:"id"`
	UserID         string             `json:"user_id"`
	Overall        float64            `json:"overall_score"`
	Categories     CategoryScores     `json:"category_scores"`
	SubScores      map[string]float64 `json:"sub_scores"`
	Badge          string             `json:"badge"`
	Level          int                `json:"level"`
	Percentile     float64            `json:"percentile"`
	Improvements   []string           `json:"improvement_areas"`
	Strengths      []string           `json:"strengths"`
	QuickWins      []string           `json:"quick_wins"`
	LongTermGoals  []string           `json:"long_term_goals"`
	Industry       string             `json:"industry"`
	CompanySize    string             `json:"company_size,omitempty"`
	Trend          string             `json:"trend,omitempty"`
	AnsweredCount  int                `json:"answered_count"`
	QuestionCount  int                `json:"question_count"`
	CalculatedAt   time.Time          `json:"calculated_at"`
}

// Trend labels set when a snapshot is recorded against prior history.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)
