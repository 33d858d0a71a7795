package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenledger/esg-compass/internal/model"
	"github.com/greenledger/esg-compass/internal/risk"
)

func TestParseAlertCopy(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
	}{
		{
			name: "clean json",
			text: `{"title":"T","description":"D","predicted_impact":"I","recommended_actions":["A"],"confidence_score":0.8}`,
			ok:   true,
		},
		{
			name: "json wrapped in prose",
			text: "Here is your alert:\n{\"title\":\"T\",\"description\":\"D\",\"recommended_actions\":[\"A\"],\"confidence_score\":0.8}\nLet me know if you need more.",
			ok:   true,
		},
		{
			name: "no json at all",
			text: "I cannot help with that.",
			ok:   false,
		},
		{
			name: "missing title",
			text: `{"description":"D","recommended_actions":["A"],"confidence_score":0.8}`,
			ok:   false,
		},
		{
			name: "empty actions",
			text: `{"title":"T","description":"D","recommended_actions":[],"confidence_score":0.8}`,
			ok:   false,
		},
		{
			name: "malformed json",
			text: `{"title":"T","description":`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseAlertCopy(tt.text)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, "T", got.Title)
			}
		})
	}
}

func TestParseAlertCopyClampsConfidence(t *testing.T) {
	got, ok := parseAlertCopy(`{"title":"T","description":"D","recommended_actions":["A"],"confidence_score":3.5}`)
	require.True(t, ok)
	assert.InDelta(t, templateConfidence, got.Confidence, 0.001)
}

func TestTemplateCopyCoversAllKinds(t *testing.T) {
	kinds := []risk.FindingKind{
		risk.KindCriticalScore,
		risk.KindLowScore,
		risk.KindSubcategoryRisk,
		risk.KindDecliningTrend,
		risk.KindCategoryDecline,
		risk.KindUpcomingDeadline,
		risk.KindBelowBenchmark,
		risk.FindingKind("something_new"),
	}

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			c := templateCopy(risk.Finding{Kind: kind, Category: "environmental", Description: "desc"})
			assert.NotEmpty(t, c.Title)
			assert.NotEmpty(t, c.Description)
			assert.NotEmpty(t, c.RecommendedActions)
			assert.InDelta(t, templateConfidence, c.Confidence, 0.001)
		})
	}
}

func TestAlertTypeMapping(t *testing.T) {
	tests := []struct {
		kind risk.FindingKind
		want model.AlertType
	}{
		{risk.KindCriticalScore, model.AlertComplianceGap},
		{risk.KindLowScore, model.AlertComplianceGap},
		{risk.KindSubcategoryRisk, model.AlertComplianceGap},
		{risk.KindDecliningTrend, model.AlertPerformanceDecline},
		{risk.KindCategoryDecline, model.AlertPerformanceDecline},
		{risk.KindUpcomingDeadline, model.AlertRegulatoryDeadline},
		{risk.KindBelowBenchmark, model.AlertIndustryShift},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, alertTypeFor(tt.kind), string(tt.kind))
	}
}
