package scoring

import "github.com/greenledger/esg-compass/internal/model"

const (
	improvementThreshold    = 60.0
	subImprovementThreshold = 50.0
	strengthThreshold       = 75.0
	quickWinThreshold       = 60.0
	longTermThreshold       = 70.0
	maxRecommendations      = 5
)

var categoryImprovements = map[model.Category]string{
	model.CategoryEnvironmental: "Reduce energy consumption and carbon emissions",
	model.CategorySocial:        "Improve workforce diversity and employee wellbeing",
	model.CategoryGovernance:    "Strengthen compliance policies and transparency",
}

var subImprovements = map[string]string{
	"emissions":    "Measure and offset CO2 emissions from operations",
	"energy":       "Switch to renewable energy sources or reduce usage",
	"waste":        "Increase the recyclable share of product packaging",
	"diversity":    "Set diversity targets for hiring and leadership",
	"employee":     "Run regular satisfaction surveys and act on results",
	"ethics":       "Roll out ethics training and a supplier code of conduct",
	"transparency": "Publish an annual sustainability report",
}

var categoryStrengths = map[model.Category]string{
	model.CategoryEnvironmental: "Strong environmental management",
	model.CategorySocial:        "Strong social responsibility practices",
	model.CategoryGovernance:    "Strong governance and compliance",
}

var categoryQuickWins = map[model.Category][]string{
	model.CategoryEnvironmental: {
		"Switch to LED lighting",
		"Audit packaging suppliers for recyclable alternatives",
	},
	model.CategorySocial: {
		"Launch an anonymous employee feedback channel",
		"Publish diversity statistics internally",
	},
	model.CategoryGovernance: {
		"Adopt a written supplier code of conduct",
		"Schedule ethics training for all staff",
	},
}

var categoryLongTermGoals = map[model.Category][]string{
	model.CategoryEnvironmental: {
		"Transition to renewable energy contracts",
		"Set science-based emission reduction targets",
	},
	model.CategorySocial: {
		"Build a structured DEI program with leadership targets",
		"Establish community engagement partnerships",
	},
	model.CategoryGovernance: {
		"Publish externally assured ESG reports",
		"Integrate ESG criteria into supplier contracts",
	},
}

// orderedCategories keeps recommendation output deterministic.
var orderedCategories = []model.Category{
	model.CategoryEnvironmental,
	model.CategorySocial,
	model.CategoryGovernance,
}

func improvementAreas(cats model.CategoryScores, subs map[string]float64) []string {
	var out []string
	for _, cat := range orderedCategories {
		if cats.Get(cat) < improvementThreshold {
			out = append(out, categoryImprovements[cat])
		}
	}
	for _, name := range model.SubCategoryNames {
		if msg, ok := subImprovements[name]; ok && subs[name] < subImprovementThreshold {
			out = append(out, msg)
		}
	}
	return cap5(out)
}

func strengths(cats model.CategoryScores) []string {
	var out []string
	for _, cat := range orderedCategories {
		if cats.Get(cat) >= strengthThreshold {
			out = append(out, categoryStrengths[cat])
		}
	}
	return out
}

func quickWins(cats model.CategoryScores) []string {
	var out []string
	for _, cat := range orderedCategories {
		if cats.Get(cat) < quickWinThreshold {
			out = append(out, categoryQuickWins[cat]...)
		}
	}
	return cap5(out)
}

func longTermGoals(cats model.CategoryScores) []string {
	var out []string
	for _, cat := range orderedCategories {
		if cats.Get(cat) < longTermThreshold {
			out = append(out, categoryLongTermGoals[cat]...)
		}
	}
	return cap5(out)
}

func cap5(items []string) []string {
	if len(items) > maxRecommendations {
		return items[:maxRecommendations]
	}
	return items
}
