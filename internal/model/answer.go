package model

import "time"

// Provenance records where an answer value came from.
type Provenance string

const (
	SourceUser            Provenance = "user"
	SourceLLMSuggested    Provenance = "llm_suggested"
	SourceIndustryDefault Provenance = "industry_default"
	SourceFallback        Provenance = "fallback"
	SourceSystemDefault   Provenance = "system_default"
)

// Answer is a single response to a questionnaire question. Value holds a
// float64, bool, or string depending on the question's AnswerType.
type Answer struct {
	QuestionID string     `json:"question_id"`
	Value      any        `json:"value"`
	Confidence float64    `json:"confidence"`
	Source     Provenance `json:"source"`
	AnsweredAt time.Time  `json:"answered_at,omitempty"`
}

// AnswerSet maps question IDs to answers for a single assessment.
type AnswerSet map[string]Answer
