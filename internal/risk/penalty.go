package risk

import (
	"math"

	"github.com/greenledger/esg-compass/internal/model"
)

// Readiness estimates 0-100 preparedness for a compliance track from the
// score breakdown. Unknown tracks fall back to the overall score.
func Readiness(track string, score model.Score) float64 {
	c := score.Categories
	switch track {
	case "CSRD_reporting":
		return round1(score.Overall*0.5 + c.Governance*0.3 + score.SubScores["transparency"]*0.2)
	case "carbon_disclosure":
		return round1(c.Environmental*0.7 + score.SubScores["emissions"]*0.3)
	case "diversity_reporting":
		return round1(c.Social*0.6 + score.SubScores["diversity"]*0.4)
	case "packaging_regulations":
		return round1(c.Environmental*0.5 + score.SubScores["waste"]*0.5)
	}
	return score.Overall
}

// Escalation describes how close a deadline is to requiring intervention.
type Escalation string

const (
	EscalationCritical Escalation = "critical"
	EscalationHigh     Escalation = "high"
	EscalationElevated Escalation = "elevated"
	EscalationNormal   Escalation = "normal"
)

// penaltyEntry is one regulatory track in the penalty catalog.
type penaltyEntry struct {
	Severity       string
	TypicalPenalty string
	LeadTimes      []int
}

var penaltyCatalog = map[string]penaltyEntry{
	"CSRD_reporting": {
		Severity:       "high",
		TypicalPenalty: "Administrative fines and disclosure orders",
		LeadTimes:      []int{90, 60, 30, 14, 7, 3},
	},
	"carbon_disclosure": {
		Severity:       "medium",
		TypicalPenalty: "Fines or corrective action mandates",
		LeadTimes:      []int{60, 30, 14, 7},
	},
	"packaging_regulations": {
		Severity:       "medium",
		TypicalPenalty: "Waste compliance fines",
		LeadTimes:      []int{60, 30, 14, 7},
	},
	"diversity_reporting": {
		Severity:       "low",
		TypicalPenalty: "Notices and improvement plans",
		LeadTimes:      []int{60, 30, 14},
	},
}

// CatalogSeverity returns the catalog severity for a track, or "unknown"
// for tracks outside the catalog.
func CatalogSeverity(track string) string {
	if entry, ok := penaltyCatalog[track]; ok {
		return entry.Severity
	}
	return "unknown"
}

// Penalty is the estimated exposure for missing one track deadline.
type Penalty struct {
	Track           string     `json:"track"`
	Severity        string     `json:"severity"`
	TypicalPenalty  string     `json:"typical_penalty"`
	MissProbability float64    `json:"miss_probability"`
	Escalation      Escalation `json:"escalation"`
	LeadTimes       []int      `json:"lead_times"`
	DaysUntil       int        `json:"days_until"`
	Readiness       float64    `json:"readiness"`
}

// PenaltyRisk estimates the likelihood and severity of missing a track
// deadline given current readiness and remaining time.
func PenaltyRisk(track string, readiness float64, daysUntil int) Penalty {
	entry, known := penaltyCatalog[track]

	p := Penalty{
		Track:      track,
		DaysUntil:  daysUntil,
		Readiness:  readiness,
		Escalation: escalation(daysUntil),
	}

	if !known {
		p.Severity = "unknown"
		p.MissProbability = 0.2
		p.Escalation = EscalationNormal
		return p
	}

	p.Severity = entry.Severity
	p.TypicalPenalty = entry.TypicalPenalty
	p.LeadTimes = entry.LeadTimes

	base := math.Max(0, 0.7-readiness/100)
	p.MissProbability = clamp(base+timeFactor(daysUntil), 0.05, 0.95)

	return p
}

func timeFactor(days int) float64 {
	switch {
	case days <= 7:
		return 0.25
	case days <= 14:
		return 0.20
	case days <= 30:
		return 0.15
	case days <= 60:
		return 0.10
	case days <= 90:
		return 0.05
	default:
		return 0
	}
}

func escalation(days int) Escalation {
	switch {
	case days <= 7:
		return EscalationCritical
	case days <= 14:
		return EscalationHigh
	case days <= 30:
		return EscalationElevated
	default:
		return EscalationNormal
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
