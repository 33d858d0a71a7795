// Package model defines the reference data and value types shared across
// the scoring, risk, and alerting subsystems.
package model

// Category is a top-level ESG pillar.
type Category string

const (
	CategoryEnvironmental Category = "environmental"
	CategorySocial        Category = "social"
	CategoryGovernance    Category = "governance"
)

// AnswerType describes how a question's answer value is interpreted.
type AnswerType string

const (
	AnswerBoolean    AnswerType = "boolean"
	AnswerPercentage AnswerType = "percentage"
	AnswerNumeric    AnswerType = "numeric"
	AnswerText       AnswerType = "text"
)

// Question is one entry in the questionnaire registry. Immutable reference
// data loaded at startup.
type Question struct {
	ID              string     `json:"id"`
	Category        Category   `json:"category"`
	Text            string     `json:"text"`
	Type            AnswerType `json:"type"`
	Unit            string     `json:"unit,omitempty"`
	Weight          float64    `json:"weight"`
	IndustryDefault *float64   `json:"industry_default,omitempty"`
	HelpText        string     `json:"help_text,omitempty"`
	Required        bool       `json:"required"`
}

// subCategories maps question IDs to the sub-category used for the
// fine-grained score breakdown. Questions outside the map contribute only
// to their main category.
var subCategories = map[string]string{
	"energy_consumption":      "energy",
	"co2_emissions":           "emissions",
	"packaging_recyclability": "waste",
	"diversity_percentage":    "diversity",
	"female_leadership":       "diversity",
	"employee_satisfaction":   "employee",
	"data_privacy_compliance": "ethics",
	"ethics_training":         "ethics",
	"supplier_code":           "ethics",
	"transparency_reporting":  "transparency",
}

// SubCategory returns the sub-category for a question ID, or "other" when
// the question has no sub-category mapping.
func SubCategory(questionID string) string {
	if sc, ok := subCategories[questionID]; ok {
		return sc
	}
	return "other"
}

// SubCategoryNames lists the eight tracked sub-categories in a stable order.
var SubCategoryNames = []string{
	"emissions", "energy", "waste",
	"diversity", "employee", "community",
	"ethics", "transparency",
}

func f64(v float64) *float64 { return &v }

// DefaultQuestions is the built-in questionnaire for retail SMBs.
// Weights are relative importance within the question's category.
var DefaultQuestions = []Question{
	{
		ID:              "energy_consumption",
		Category:        CategoryEnvironmental,
		Text:            "What is your annual energy consumption?",
		Type:            AnswerNumeric,
		Unit:            "kWh",
		Weight:          0.15,
		IndustryDefault: f64(50000),
		HelpText:        "Include electricity, gas, and other energy sources used in your operations",
		Required:        true,
	},
	{
		ID:              "co2_emissions",
		Category:        CategoryEnvironmental,
		Text:            "What are your annual CO2 emissions?",
		Type:            AnswerNumeric,
		Unit:            "tonnes CO2",
		Weight:          0.20,
		IndustryDefault: f64(10),
		HelpText:        "Include direct and indirect emissions from your business operations",
		Required:        true,
	},
	{
		ID:              "packaging_recyclability",
		Category:        CategoryEnvironmental,
		Text:            "What percentage of your packaging is recyclable?",
		Type:            AnswerPercentage,
		Unit:            "%",
		Weight:          0.15,
		IndustryDefault: f64(60),
		HelpText:        "Percentage of product packaging that can be recycled by consumers",
		Required:        true,
	},
	{
		ID:              "diversity_percentage",
		Category:        CategorySocial,
		Text:            "What is your workforce diversity percentage (DEI)?",
		Type:            AnswerPercentage,
		Unit:            "%",
		Weight:          0.15,
		IndustryDefault: f64(35),
		HelpText:        "Percentage of employees from underrepresented groups",
		Required:        true,
	},
	{
		ID:              "female_leadership",
		Category:        CategorySocial,
		Text:            "What percentage of leadership positions are held by women?",
		Type:            AnswerPercentage,
		Unit:            "%",
		Weight:          0.10,
		IndustryDefault: f64(30),
		HelpText:        "Percentage of management and executive roles held by women",
		Required:        true,
	},
	{
		ID:              "employee_satisfaction",
		Category:        CategorySocial,
		Text:            "What is your employee satisfaction score?",
		Type:            AnswerNumeric,
		Unit:            "1-10 scale",
		Weight:          0.10,
		IndustryDefault: f64(7.5),
		HelpText:        "Average employee satisfaction rating from surveys (1-10 scale)",
		Required:        true,
	},
	{
		ID:       "data_privacy_compliance",
		Category: CategoryGovernance,
		Text:     "Are you compliant with data privacy regulations (GDPR/CCPA)?",
		Type:     AnswerBoolean,
		Weight:   0.05,
		HelpText: "Do you have proper data privacy policies and procedures in place?",
		Required: true,
	},
	{
		ID:              "ethics_training",
		Category:        CategoryGovernance,
		Text:            "What percentage of employees completed ethics training?",
		Type:            AnswerPercentage,
		Unit:            "%",
		Weight:          0.05,
		IndustryDefault: f64(85),
		HelpText:        "Percentage of employees who completed ethics and compliance training",
		Required:        true,
	},
	{
		ID:       "supplier_code",
		Category: CategoryGovernance,
		Text:     "Do you have a supplier code of conduct?",
		Type:     AnswerBoolean,
		Weight:   0.03,
		HelpText: "Do you require suppliers to follow ethical and sustainable practices?",
		Required: true,
	},
	{
		ID:       "transparency_reporting",
		Category: CategoryGovernance,
		Text:     "Do you publish ESG or sustainability reports?",
		Type:     AnswerBoolean,
		Weight:   0.02,
		HelpText: "Do you regularly publish reports on your ESG performance?",
		Required: true,
	},
}

// QuestionIndex builds a lookup table from question ID to Question.
func QuestionIndex(questions []Question) map[string]Question {
	idx := make(map[string]Question, len(questions))
	for _, q := range questions {
		idx[q.ID] = q
	}
	return idx
}
