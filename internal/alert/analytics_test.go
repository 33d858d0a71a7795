package alert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenledger/esg-compass/internal/model"
)

func TestBenchmarking(t *testing.T) {
	svc, _ := newTestService(nil)

	// retail benchmarks: overall 65, env 62, soc 68, gov 66
	current := testScore(75, 85, 60, 66)
	insights := svc.Benchmarking(current, "retail")

	assert.Equal(t, "retail", insights.Industry)
	assert.InDelta(t, 65.0, insights.IndustryAverage, 0.001)
	assert.InDelta(t, 85.0, insights.Percentiles["overall"], 0.001)       // +10
	assert.InDelta(t, 95.0, insights.Percentiles["environmental"], 0.001) // +23
	assert.InDelta(t, 40.0, insights.Percentiles["social"], 0.001)        // -8
	assert.InDelta(t, 70.0, insights.Percentiles["governance"], 0.001)    // 0
	assert.Contains(t, insights.AboveBenchmark, "environmental")
	assert.Contains(t, insights.BelowBenchmark, "social")
}

func TestComplianceReadiness(t *testing.T) {
	svc, _ := newTestService(nil)

	// Uniform sub-scores make every track readiness 60.
	current := testScore(60, 60, 60, 60)
	idx := svc.ComplianceReadiness(current, "retail")

	require.Len(t, idx.Tracks, 4)
	assert.InDelta(t, 60.0, idx.Index, 0.001)

	for _, tr := range idx.Tracks {
		assert.InDelta(t, 60.0, tr.Readiness, 0.001)
		assert.Greater(t, tr.Weight, 0.0)
	}
}

func TestComplianceReadinessWeighting(t *testing.T) {
	svc, _ := newTestService(nil)

	// CSRD (high severity) readiness drops; the index should sit below a
	// plain average because CSRD carries more weight.
	current := testScore(60, 80, 80, 20)
	current.SubScores["transparency"] = 20
	idx := svc.ComplianceReadiness(current, "retail")

	var csrd *TrackReadiness
	for i := range idx.Tracks {
		if idx.Tracks[i].Track == "CSRD_reporting" {
			csrd = &idx.Tracks[i]
		}
	}
	require.NotNil(t, csrd)
	assert.Equal(t, "high", csrd.Severity)

	var plain float64
	for _, tr := range idx.Tracks {
		plain += tr.Readiness
	}
	plain /= float64(len(idx.Tracks))
	assert.Less(t, idx.Index, plain)
}

func TestEstimateROI(t *testing.T) {
	svc, _ := newTestService(nil)

	// Mid-July: CSRD's September deadline (60d) and packaging's July
	// deadline (due now) are within the horizon. Energy 40 and waste 40
	// leave 30-point efficiency gaps.
	current := testScore(40, 40, 40, 40)
	est := svc.EstimateROI(current, "retail")

	assert.Equal(t, 60, est.HorizonDays)
	// CSRD readiness 40 → p = 0.3 + 0.10 = 0.40; high severity $10k → $4000.
	// Packaging readiness 40 → p = 0.3 + 0.25 = 0.55; medium $5k → $2750.
	assert.InDelta(t, 6750.0, est.PenaltyAvoidance, 0.5)
	// (70-40)*30 + (70-40)*20 = 900 + 600
	assert.InDelta(t, 1500.0, est.EfficiencySavings, 0.5)
	assert.InDelta(t, est.PenaltyAvoidance+est.EfficiencySavings, est.Total, 0.001)
	assert.NotEmpty(t, est.Items)
}

func TestEstimateROINoGaps(t *testing.T) {
	svc, _ := newTestService(nil)

	current := testScore(90, 90, 90, 90)
	est := svc.EstimateROI(current, "retail")
	assert.InDelta(t, 0.0, est.EfficiencySavings, 0.001)
	// Readiness 90 zeroes the base risk; only the time factor remains.
	// CSRD at 60d: 0.10 × $10k = $1000. Packaging due now: 0.25 × $5k = $1250.
	assert.InDelta(t, 2250.0, est.PenaltyAvoidance, 0.5)
}

func TestRiskDashboard(t *testing.T) {
	svc, store := newTestService(nil)
	ctx := context.Background()

	alerts := []model.Alert{
		{ID: "a-1", UserID: "user-1", Type: model.AlertComplianceGap, RiskLevel: model.RiskCritical,
			TimelineDays: 30, RecommendedActions: []string{"fix the critical gap"},
			CreatedAt: fixedNow, ExpiresAt: model.Expiry(fixedNow, 30)},
		{ID: "a-2", UserID: "user-1", Type: model.AlertComplianceGap, RiskLevel: model.RiskHigh,
			TimelineDays: 60, RecommendedActions: []string{"fix the high gap"},
			CreatedAt: fixedNow, ExpiresAt: model.Expiry(fixedNow, 60)},
		{ID: "a-3", UserID: "user-1", Type: model.AlertPenaltyRisk, RiskLevel: model.RiskMedium,
			TimelineDays: 90, RecommendedActions: []string{"review the checklist"},
			CreatedAt: fixedNow, ExpiresAt: model.Expiry(fixedNow, 90)},
		{ID: "a-4", UserID: "user-1", Type: model.AlertPenaltyRisk, RiskLevel: model.RiskHigh,
			TimelineDays: 20, Resolved: true,
			CreatedAt: fixedNow, ExpiresAt: model.Expiry(fixedNow, 20)},
	}
	require.NoError(t, store.AppendAlerts(ctx, "user-1", alerts))

	dash, err := svc.RiskDashboard(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 3, dash.TotalActive)
	assert.Equal(t, 1, dash.CriticalCount)
	assert.Equal(t, 1, dash.HighCount)
	assert.InDelta(t, 60.0, dash.AverageTimelineDays, 0.001)
	assert.Equal(t, 2, dash.ByType[string(model.AlertComplianceGap)])
	assert.Equal(t, 1, dash.ByType[string(model.AlertPenaltyRisk)])
	require.Len(t, dash.NextActions, 3)
	assert.Equal(t, "fix the critical gap", dash.NextActions[0])
}

func TestRiskDashboardEmpty(t *testing.T) {
	svc, _ := newTestService(nil)

	dash, err := svc.RiskDashboard(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, dash.TotalActive)
	assert.InDelta(t, 0.0, dash.AverageTimelineDays, 0.001)
	assert.Empty(t, dash.NextActions)
}
