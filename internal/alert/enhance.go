package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/greenledger/esg-compass/internal/llm"
	"github.com/greenledger/esg-compass/internal/model"
	"github.com/greenledger/esg-compass/internal/risk"
)

// alertCopy is the narrative part of an alert, either LLM-generated or
// taken from the deterministic templates.
type alertCopy struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	PredictedImpact    string   `json:"predicted_impact"`
	RecommendedActions []string `json:"recommended_actions"`
	Confidence         float64  `json:"confidence_score"`
}

const templateConfidence = 0.7

// enhanceCopy asks the provider chain to write alert copy for a finding.
// Any failure (no provider, bad JSON, missing fields) falls back to the
// template so alert generation never depends on the LLM.
func enhanceCopy(ctx context.Context, chain *llm.Chain, f risk.Finding, score model.Score) alertCopy {
	if chain == nil || !chain.Enabled() {
		return templateCopy(f)
	}

	text, err := chain.GenerateText(ctx, enhancePrompt(f, score), 1024)
	if err != nil {
		zap.L().Debug("alerts: llm enhancement unavailable, using template",
			zap.String("kind", string(f.Kind)))
		return templateCopy(f)
	}

	copyOut, ok := parseAlertCopy(text)
	if !ok {
		zap.L().Warn("alerts: llm returned unusable copy, using template",
			zap.String("kind", string(f.Kind)))
		return templateCopy(f)
	}
	return copyOut
}

func enhancePrompt(f risk.Finding, score model.Score) string {
	var b strings.Builder
	b.WriteString("You are an ESG compliance advisor for small retail businesses.\n")
	b.WriteString("Write alert copy for the following compliance finding.\n\n")
	fmt.Fprintf(&b, "Finding: %s\n", f.Description)
	fmt.Fprintf(&b, "Risk level: %s\n", f.RiskLevel)
	fmt.Fprintf(&b, "Timeline: %d days\n", f.TimelineDays)
	fmt.Fprintf(&b, "Current overall ESG score: %.1f (environmental %.1f, social %.1f, governance %.1f)\n",
		score.Overall,
		score.Categories.Environmental,
		score.Categories.Social,
		score.Categories.Governance)
	if score.CompanySize != "" {
		fmt.Fprintf(&b, "Company size: %s\n", score.CompanySize)
	}
	b.WriteString("\nRespond with only a JSON object with keys: ")
	b.WriteString(`"title", "description", "predicted_impact", "recommended_actions" (array of strings), "confidence_score" (0-1).`)
	return b.String()
}

// parseAlertCopy extracts and validates the JSON object from a model
// response, tolerating surrounding prose.
func parseAlertCopy(text string) (alertCopy, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return alertCopy{}, false
	}

	var out alertCopy
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return alertCopy{}, false
	}
	if out.Title == "" || out.Description == "" || len(out.RecommendedActions) == 0 {
		return alertCopy{}, false
	}
	if out.Confidence <= 0 || out.Confidence > 1 {
		out.Confidence = templateConfidence
	}
	return out, true
}

// templateCopy is the deterministic fallback narrative per finding kind.
func templateCopy(f risk.Finding) alertCopy {
	switch f.Kind {
	case risk.KindCriticalScore:
		return alertCopy{
			Title:           fmt.Sprintf("Critical %s compliance gap", f.Category),
			Description:     f.Description,
			PredictedImpact: "Regulatory exposure and loss of buyer trust if unaddressed",
			RecommendedActions: []string{
				fmt.Sprintf("Prioritize the lowest-scoring %s questions in your next assessment", f.Category),
				"Assign an owner and a 30-day remediation plan",
				"Re-run the assessment after corrective actions",
			},
			Confidence: templateConfidence,
		}
	case risk.KindLowScore:
		return alertCopy{
			Title:           fmt.Sprintf("%s score below compliance threshold", capitalize(f.Category)),
			Description:     f.Description,
			PredictedImpact: "Widening gap against upcoming reporting obligations",
			RecommendedActions: []string{
				fmt.Sprintf("Review the %s improvement recommendations in your score report", f.Category),
				"Target the two weakest sub-scores first",
			},
			Confidence: templateConfidence,
		}
	case risk.KindSubcategoryRisk:
		return alertCopy{
			Title:           fmt.Sprintf("Elevated %s risk", f.Category),
			Description:     f.Description,
			PredictedImpact: "This sub-area can drag down the category score at the next review",
			RecommendedActions: []string{
				fmt.Sprintf("Collect baseline data for %s this quarter", f.Category),
				"Set a measurable 90-day improvement target",
			},
			Confidence: templateConfidence,
		}
	case risk.KindDecliningTrend, risk.KindCategoryDecline:
		return alertCopy{
			Title:           "ESG performance declining",
			Description:     f.Description,
			PredictedImpact: "Continued decline risks falling below compliance thresholds",
			RecommendedActions: []string{
				"Compare the last three assessments to locate the drop",
				"Reinstate practices that were in place at the higher score",
			},
			Confidence: templateConfidence,
		}
	case risk.KindUpcomingDeadline:
		return alertCopy{
			Title:           fmt.Sprintf("%s deadline approaching", f.Category),
			Description:     f.Description,
			PredictedImpact: "Missing the deadline can trigger fines or mandatory disclosures",
			RecommendedActions: []string{
				"Gather the required evidence and documentation now",
				"Book time with your compliance advisor before the deadline",
			},
			Confidence: templateConfidence,
		}
	case risk.KindBelowBenchmark:
		return alertCopy{
			Title:           "Below industry benchmark",
			Description:     f.Description,
			PredictedImpact: "Competitors with stronger ESG positioning may win sustainability-conscious buyers",
			RecommendedActions: []string{
				"Focus on the quick wins from your score report",
				"Benchmark against the industry leaders in your category",
			},
			Confidence: templateConfidence,
		}
	}

	return alertCopy{
		Title:              "ESG compliance finding",
		Description:        f.Description,
		PredictedImpact:    "Unassessed compliance exposure",
		RecommendedActions: []string{"Review the finding with your compliance advisor"},
		Confidence:         templateConfidence,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// alertTypeFor maps a finding kind to its alert classification.
func alertTypeFor(kind risk.FindingKind) model.AlertType {
	switch kind {
	case risk.KindCriticalScore, risk.KindLowScore, risk.KindSubcategoryRisk:
		return model.AlertComplianceGap
	case risk.KindDecliningTrend, risk.KindCategoryDecline:
		return model.AlertPerformanceDecline
	case risk.KindUpcomingDeadline:
		return model.AlertRegulatoryDeadline
	case risk.KindBelowBenchmark:
		return model.AlertIndustryShift
	}
	return model.AlertComplianceGap
}
