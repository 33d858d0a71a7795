package risk

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/greenledger/esg-compass/internal/model"
)

// FindingKind identifies which analyzer produced a finding.
type FindingKind string

const (
	KindCriticalScore    FindingKind = "critical_score"
	KindLowScore         FindingKind = "low_score"
	KindSubcategoryRisk  FindingKind = "subcategory_risk"
	KindDecliningTrend   FindingKind = "declining_trend"
	KindCategoryDecline  FindingKind = "category_decline"
	KindUpcomingDeadline FindingKind = "upcoming_deadline"
	KindBelowBenchmark   FindingKind = "below_benchmark"
)

// Finding is one detected compliance risk, ready to be turned into an
// alert.
type Finding struct {
	Kind         FindingKind     `json:"kind"`
	Category     string          `json:"category"`
	RiskLevel    model.RiskLevel `json:"risk_level"`
	Priority     int             `json:"priority"`
	TimelineDays int             `json:"timeline_days"`
	Description  string          `json:"description"`

	CurrentScore   float64 `json:"current_score"`
	TrendSlope     float64 `json:"trend_slope"`
	DeadlineDays   int     `json:"deadline_days,omitempty"`
	ReadinessScore float64 `json:"readiness_score,omitempty"`
	Benchmark      float64 `json:"benchmark,omitempty"`
	Gap            float64 `json:"gap,omitempty"`
}

// categoryThresholds holds the critical and high cut-offs for one pillar.
type categoryThresholds struct {
	Critical float64
	High     float64
}

// Model analyzes score snapshots against thresholds, trends, the
// compliance calendar, and industry benchmarks.
type Model struct {
	calendar   Calendar
	thresholds map[model.Category]categoryThresholds
}

// NewModel builds a risk model over a compliance calendar.
func NewModel(calendar Calendar) *Model {
	return &Model{
		calendar: calendar,
		thresholds: map[model.Category]categoryThresholds{
			model.CategoryEnvironmental: {Critical: 30, High: 45},
			model.CategorySocial:        {Critical: 35, High: 50},
			model.CategoryGovernance:    {Critical: 40, High: 55},
		},
	}
}

// riskySubScores are the sub-categories that trigger their own finding
// when they fall to 40 or below.
var riskySubScores = []string{"emissions", "energy", "diversity", "ethics"}

// Analyze runs all analyzers over the current snapshot and its history
// and returns findings ordered by priority, highest first.
func (m *Model) Analyze(current model.Score, history []model.Score, industry string, now time.Time) []Finding {
	var findings []Finding
	findings = append(findings, m.scoreFindings(current)...)
	findings = append(findings, m.trendFindings(history)...)
	findings = append(findings, m.deadlineFindings(current, industry, now)...)
	findings = append(findings, m.benchmarkFindings(current, industry)...)

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Priority > findings[j].Priority
	})

	zap.L().Debug("risk: analysis complete",
		zap.String("user_id", current.UserID),
		zap.Int("findings", len(findings)))

	return findings
}

func (m *Model) scoreFindings(current model.Score) []Finding {
	var out []Finding

	for _, cat := range []model.Category{
		model.CategoryEnvironmental,
		model.CategorySocial,
		model.CategoryGovernance,
	} {
		score := current.Categories.Get(cat)
		th := m.thresholds[cat]
		switch {
		case score <= th.Critical:
			out = append(out, Finding{
				Kind:         KindCriticalScore,
				Category:     string(cat),
				RiskLevel:    model.RiskCritical,
				Priority:     95,
				TimelineDays: 30,
				CurrentScore: score,
				Description: fmt.Sprintf("%s score %.1f is at or below the critical threshold of %.0f",
					cat, score, th.Critical),
			})
		case score <= th.High:
			out = append(out, Finding{
				Kind:         KindLowScore,
				Category:     string(cat),
				RiskLevel:    model.RiskHigh,
				Priority:     80,
				TimelineDays: 60,
				CurrentScore: score,
				Description: fmt.Sprintf("%s score %.1f is at or below the compliance threshold of %.0f",
					cat, score, th.High),
			})
		}
	}

	for _, sub := range riskySubScores {
		score, ok := current.SubScores[sub]
		if !ok || score > 40 {
			continue
		}
		out = append(out, Finding{
			Kind:         KindSubcategoryRisk,
			Category:     sub,
			RiskLevel:    model.RiskMedium,
			Priority:     65,
			TimelineDays: 90,
			CurrentScore: score,
			Description: fmt.Sprintf("%s sub-score %.1f signals elevated compliance exposure",
				sub, score),
		})
	}

	return out
}

func (m *Model) deadlineFindings(current model.Score, industry string, now time.Time) []Finding {
	var out []Finding

	for _, track := range orderedTracks(m.calendar.ForIndustry(industry)) {
		for _, month := range track.Entry.DeadlineMonths {
			days := DaysUntil(month, now)
			if days > 90 {
				continue
			}
			readiness := Readiness(track.Name, current)
			if readiness >= 70 {
				continue
			}

			level := model.RiskHigh
			priority := 75
			if days <= 30 {
				level = model.RiskCritical
				priority = 90
			}
			out = append(out, Finding{
				Kind:           KindUpcomingDeadline,
				Category:       track.Name,
				RiskLevel:      level,
				Priority:       priority,
				TimelineDays:   days,
				DeadlineDays:   days,
				ReadinessScore: readiness,
				Description: fmt.Sprintf("%s deadline in %d days with readiness %.1f",
					track.Name, days, readiness),
			})
		}
	}

	return out
}

func (m *Model) benchmarkFindings(current model.Score, industry string) []Finding {
	bench := BenchmarkFor(industry)
	if current.Overall >= bench.Overall-15 {
		return nil
	}
	return []Finding{{
		Kind:         KindBelowBenchmark,
		Category:     "overall",
		RiskLevel:    model.RiskMedium,
		Priority:     60,
		TimelineDays: 120,
		CurrentScore: current.Overall,
		Benchmark:    bench.Overall,
		Gap:          bench.Overall - current.Overall,
		Description: fmt.Sprintf("overall score %.1f trails the %s benchmark of %.0f",
			current.Overall, industry, bench.Overall),
	}}
}

// NamedTrack pairs a track with its name for deterministic iteration.
type NamedTrack struct {
	Name  string
	Entry Track
}

// OrderedTracks returns the industry's compliance tracks sorted by name.
func (m *Model) OrderedTracks(industry string) []NamedTrack {
	return orderedTracks(m.calendar.ForIndustry(industry))
}

func orderedTracks(tracks map[string]Track) []NamedTrack {
	names := make([]string, 0, len(tracks))
	for name := range tracks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]NamedTrack, 0, len(names))
	for _, name := range names {
		out = append(out, NamedTrack{Name: name, Entry: tracks[name]})
	}
	return out
}

// IndustryBenchmark holds per-pillar reference scores.
type IndustryBenchmark struct {
	Overall       float64
	Environmental float64
	Social        float64
	Governance    float64
}

var industryBenchmarks = map[string]IndustryBenchmark{
	"retail": {Overall: 65, Environmental: 62, Social: 68, Governance: 66},
}

// BenchmarkFor returns the benchmark table for an industry, defaulting
// to retail.
func BenchmarkFor(industry string) IndustryBenchmark {
	if b, ok := industryBenchmarks[industry]; ok {
		return b
	}
	return industryBenchmarks["retail"]
}
