package alert

import "github.com/greenledger/esg-compass/internal/model"

// Recommendation is a preventive action suggested before a category slips
// below its compliance threshold.
type Recommendation struct {
	Category     string   `json:"category"`
	CurrentScore float64  `json:"current_score"`
	Threshold    float64  `json:"threshold"`
	Type         string   `json:"recommendation_type"`
	Actions      []string `json:"actions"`
}

// mediumThresholds are the per-category scores below which a compliance
// alert would fire; proactive recommendations target the band just above.
var mediumThresholds = map[model.Category]float64{
	model.CategoryEnvironmental: 60,
	model.CategorySocial:        65,
	model.CategoryGovernance:    70,
}

var proactiveActions = map[model.Category][]string{
	model.CategoryEnvironmental: {
		"Schedule an energy audit before the next assessment",
		"Ask packaging suppliers for recyclability certificates",
		"Track monthly CO2 figures instead of annual estimates",
	},
	model.CategorySocial: {
		"Run a pulse survey to catch satisfaction drops early",
		"Review hiring pipeline diversity this quarter",
		"Document employee wellbeing initiatives",
	},
	model.CategoryGovernance: {
		"Refresh ethics training before completion rates lapse",
		"Review supplier code acknowledgements",
		"Draft next year's sustainability report outline early",
	},
}

// ProactiveRecommendations flags categories sitting within ten points of
// their compliance threshold, before they become findings.
func (s *Service) ProactiveRecommendations(current model.Score) []Recommendation {
	var out []Recommendation
	for _, cat := range []model.Category{
		model.CategoryEnvironmental,
		model.CategorySocial,
		model.CategoryGovernance,
	} {
		score := current.Categories.Get(cat)
		threshold := mediumThresholds[cat]
		if score > threshold && score <= threshold+10 {
			out = append(out, Recommendation{
				Category:     string(cat),
				CurrentScore: score,
				Threshold:    threshold,
				Type:         "preventive_action",
				Actions:      proactiveActions[cat],
			})
		}
	}
	return out
}
