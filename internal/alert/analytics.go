package alert

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/greenledger/esg-compass/internal/model"
	"github.com/greenledger/esg-compass/internal/risk"
	"github.com/greenledger/esg-compass/internal/scoring"
)

// BenchmarkingInsights compares a snapshot against industry reference
// scores, pillar by pillar.
type BenchmarkingInsights struct {
	Industry        string             `json:"industry"`
	IndustryAverage float64            `json:"industry_average"`
	Benchmarks      map[string]float64 `json:"benchmarks"`
	Percentiles     map[string]float64 `json:"percentiles"`
	AboveBenchmark  []string           `json:"above_benchmark"`
	BelowBenchmark  []string           `json:"below_benchmark"`
}

// Benchmarking buckets each pillar against the industry benchmark table.
func (s *Service) Benchmarking(current model.Score, industry string) BenchmarkingInsights {
	bench := risk.BenchmarkFor(industry)

	benchmarks := map[string]float64{
		"overall":       bench.Overall,
		"environmental": bench.Environmental,
		"social":        bench.Social,
		"governance":    bench.Governance,
	}
	scores := map[string]float64{
		"overall":       current.Overall,
		"environmental": current.Categories.Environmental,
		"social":        current.Categories.Social,
		"governance":    current.Categories.Governance,
	}

	insights := BenchmarkingInsights{
		Industry:        industry,
		IndustryAverage: scoring.IndustryAverage(industry),
		Benchmarks:      benchmarks,
		Percentiles:     make(map[string]float64, len(scores)),
	}

	for _, pillar := range []string{"overall", "environmental", "social", "governance"} {
		diff := scores[pillar] - benchmarks[pillar]
		insights.Percentiles[pillar] = percentileBucket(diff)
		if diff >= 0 {
			insights.AboveBenchmark = append(insights.AboveBenchmark, pillar)
		} else {
			insights.BelowBenchmark = append(insights.BelowBenchmark, pillar)
		}
	}

	return insights
}

func percentileBucket(diff float64) float64 {
	switch {
	case diff >= 20:
		return 95
	case diff >= 10:
		return 85
	case diff >= 0:
		return 70
	case diff >= -10:
		return 40
	default:
		return 20
	}
}

// TrackReadiness is the weighted readiness of one compliance track.
type TrackReadiness struct {
	Track     string  `json:"track"`
	Readiness float64 `json:"readiness"`
	DaysUntil int     `json:"days_until"`
	Severity  string  `json:"severity"`
	Weight    float64 `json:"weight"`
}

// ReadinessIndex is the severity- and time-weighted readiness across all
// compliance tracks.
type ReadinessIndex struct {
	Index  float64          `json:"index"`
	Tracks []TrackReadiness `json:"tracks"`
}

// ComplianceReadiness computes the weighted readiness index. Tracks with
// closer deadlines and harsher penalties weigh more.
func (s *Service) ComplianceReadiness(current model.Score, industry string) ReadinessIndex {
	now := s.now().UTC()

	var (
		out       ReadinessIndex
		weightSum float64
		total     float64
	)

	for _, track := range s.model.OrderedTracks(industry) {
		days := nearestDeadlineDays(track.Entry.DeadlineMonths, now)
		severity := risk.CatalogSeverity(track.Name)
		readiness := risk.Readiness(track.Name, current)
		weight := severityWeight(severity) * timeWeight(days)

		out.Tracks = append(out.Tracks, TrackReadiness{
			Track:     track.Name,
			Readiness: readiness,
			DaysUntil: days,
			Severity:  severity,
			Weight:    weight,
		})
		total += readiness * weight
		weightSum += weight
	}

	if weightSum > 0 {
		out.Index = math.Round(total/weightSum*10) / 10
	}
	return out
}

// nearestDeadlineDays returns the days until the soonest deadline month.
func nearestDeadlineDays(months []int, now time.Time) int {
	nearest := math.MaxInt32
	for _, m := range months {
		if d := risk.DaysUntil(m, now); d < nearest {
			nearest = d
		}
	}
	return nearest
}

func severityWeight(severity string) float64 {
	switch severity {
	case "high":
		return 1.5
	case "medium":
		return 1.25
	default:
		return 1.0
	}
}

func timeWeight(days int) float64 {
	switch {
	case days <= 30:
		return 1.5
	case days <= 60:
		return 1.2
	default:
		return 1.0
	}
}

// severityAmounts are indicative penalty magnitudes in USD.
var severityAmounts = map[string]float64{
	"low":    2000,
	"medium": 5000,
	"high":   10000,
}

const defaultSeverityAmount = 3000

// ROIItem is one contributor to the ROI estimate.
type ROIItem struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// ROIEstimate projects the financial upside of acting on compliance gaps
// within the next 60 days.
type ROIEstimate struct {
	PenaltyAvoidance  float64   `json:"penalty_avoidance"`
	EfficiencySavings float64   `json:"efficiency_savings"`
	Total             float64   `json:"total"`
	HorizonDays       int       `json:"horizon_days"`
	Items             []ROIItem `json:"items"`
}

// EstimateROI sums expected penalty avoidance for near-term deadlines and
// efficiency savings from closing energy and waste gaps to a target of 70.
func (s *Service) EstimateROI(current model.Score, industry string) ROIEstimate {
	now := s.now().UTC()
	est := ROIEstimate{HorizonDays: 60}

	for _, track := range s.model.OrderedTracks(industry) {
		days := nearestDeadlineDays(track.Entry.DeadlineMonths, now)
		if days > 60 {
			continue
		}
		readiness := risk.Readiness(track.Name, current)
		p := risk.PenaltyRisk(track.Name, readiness, days)

		amount, ok := severityAmounts[p.Severity]
		if !ok {
			amount = defaultSeverityAmount
		}
		expected := math.Round(p.MissProbability * amount)
		est.PenaltyAvoidance += expected
		est.Items = append(est.Items, ROIItem{
			Label:  track.Name + " penalty avoidance",
			Amount: expected,
		})
	}

	const efficiencyTarget = 70.0
	if gap := efficiencyTarget - current.SubScores["energy"]; gap > 0 {
		saving := math.Round(gap * 30)
		est.EfficiencySavings += saving
		est.Items = append(est.Items, ROIItem{Label: "energy efficiency", Amount: saving})
	}
	if gap := efficiencyTarget - current.SubScores["waste"]; gap > 0 {
		saving := math.Round(gap * 20)
		est.EfficiencySavings += saving
		est.Items = append(est.Items, ROIItem{Label: "waste reduction", Amount: saving})
	}

	est.Total = est.PenaltyAvoidance + est.EfficiencySavings
	return est
}

// Dashboard summarizes the user's active alert load.
type Dashboard struct {
	TotalActive         int            `json:"total_active"`
	CriticalCount       int            `json:"critical_count"`
	HighCount           int            `json:"high_count"`
	AverageTimelineDays float64        `json:"average_timeline_days"`
	ByType              map[string]int `json:"by_type"`
	NextActions         []string       `json:"next_actions"`
}

// RiskDashboard aggregates the user's active alerts into headline numbers
// and the top three recommended next actions.
func (s *Service) RiskDashboard(ctx context.Context, userID string) (Dashboard, error) {
	active, err := s.ActiveAlerts(ctx, userID)
	if err != nil {
		return Dashboard{}, eris.Wrap(err, "alerts: dashboard")
	}

	dash := Dashboard{
		TotalActive: len(active),
		ByType:      make(map[string]int),
	}

	var timelineSum int
	for _, a := range active {
		dash.ByType[string(a.Type)]++
		timelineSum += a.TimelineDays
		switch a.RiskLevel {
		case model.RiskCritical:
			dash.CriticalCount++
		case model.RiskHigh:
			dash.HighCount++
		}
	}
	if len(active) > 0 {
		dash.AverageTimelineDays = math.Round(float64(timelineSum)/float64(len(active))*10) / 10
	}

	// Most urgent first: shortest timeline within the highest risk level.
	sorted := make([]model.Alert, len(active))
	copy(sorted, active)
	sort.SliceStable(sorted, func(i, j int) bool {
		if ri, rj := riskRank(sorted[i].RiskLevel), riskRank(sorted[j].RiskLevel); ri != rj {
			return ri > rj
		}
		return sorted[i].TimelineDays < sorted[j].TimelineDays
	})
	for _, a := range sorted {
		if len(dash.NextActions) == 3 {
			break
		}
		if len(a.RecommendedActions) > 0 {
			dash.NextActions = append(dash.NextActions, a.RecommendedActions[0])
		}
	}

	return dash, nil
}

func riskRank(level model.RiskLevel) int {
	switch level {
	case model.RiskCritical:
		return 3
	case model.RiskHigh:
		return 2
	case model.RiskMedium:
		return 1
	default:
		return 0
	}
}
