package alert

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/greenledger/esg-compass/internal/llm"
	"github.com/greenledger/esg-compass/internal/model"
	"github.com/greenledger/esg-compass/internal/risk"
)

// maxGeneratedAlerts caps how many findings become alerts per run.
const maxGeneratedAlerts = 5

// defaultDataSources names the inputs behind every generated alert.
var defaultDataSources = []string{"esg_scoring", "trend_analysis", "industry_benchmarks"}

// Service generates, stores, and queries predictive alerts.
type Service struct {
	store Store
	model *risk.Model
	chain *llm.Chain
	now   func() time.Time
}

// NewService wires the alert pipeline. chain may be nil to disable LLM
// enhancement entirely.
func NewService(store Store, riskModel *risk.Model, chain *llm.Chain) *Service {
	return &Service{
		store: store,
		model: riskModel,
		chain: chain,
		now:   time.Now,
	}
}

// trendDelta is the overall-score movement needed before a snapshot is
// labelled improving or declining rather than stable.
const trendDelta = 2.0

// RecordScore labels the snapshot's trend against the previous one and
// appends it to the user's score history.
func (s *Service) RecordScore(ctx context.Context, userID string, score model.Score) error {
	prev, err := s.store.ListScores(ctx, userID, 1)
	if err != nil {
		return eris.Wrap(err, "alerts: load previous score")
	}
	if len(prev) > 0 {
		switch diff := score.Overall - prev[0].Overall; {
		case diff > trendDelta:
			score.Trend = model.TrendImproving
		case diff < -trendDelta:
			score.Trend = model.TrendDeclining
		default:
			score.Trend = model.TrendStable
		}
	}
	return s.store.AppendScore(ctx, userID, score)
}

// History returns the user's most recent score snapshots.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]model.Score, error) {
	return s.store.ListScores(ctx, userID, limit)
}

// GenerateAlerts analyzes the current snapshot against history, turns the
// top findings into alerts, and replaces the user's stored set.
func (s *Service) GenerateAlerts(ctx context.Context, userID string, current model.Score, history []model.Score, industry string) ([]model.Alert, error) {
	now := s.now().UTC()
	findings := s.model.Analyze(current, history, industry, now)
	if len(findings) > maxGeneratedAlerts {
		findings = findings[:maxGeneratedAlerts]
	}

	alerts := make([]model.Alert, 0, len(findings))
	for _, f := range findings {
		c := enhanceCopy(ctx, s.chain, f, current)
		alerts = append(alerts, model.Alert{
			ID:                 uuid.NewString(),
			UserID:             userID,
			Type:               alertTypeFor(f.Kind),
			RiskLevel:          f.RiskLevel,
			Title:              c.Title,
			Description:        c.Description,
			PredictedImpact:    c.PredictedImpact,
			RecommendedActions: c.RecommendedActions,
			TimelineDays:       f.TimelineDays,
			Confidence:         c.Confidence,
			DataSources:        defaultDataSources,
			CreatedAt:          now,
			ExpiresAt:          model.Expiry(now, f.TimelineDays),
		})
	}

	if err := s.store.ReplaceAlerts(ctx, userID, alerts); err != nil {
		return nil, eris.Wrap(err, "alerts: replace stored alerts")
	}

	zap.L().Info("alerts: generated",
		zap.String("user_id", userID),
		zap.Int("findings", len(findings)),
		zap.Int("alerts", len(alerts)))

	return alerts, nil
}

// GeneratePenaltyWarnings builds penalty-risk alerts for every track
// deadline within 90 days and appends them to the stored set. Within a
// risk level the shortest deadline sorts first; the most urgent exposure
// leads rather than the longest-dated one.
func (s *Service) GeneratePenaltyWarnings(ctx context.Context, userID string, current model.Score, industry string) ([]model.Alert, error) {
	now := s.now().UTC()

	var alerts []model.Alert
	for _, track := range s.model.OrderedTracks(industry) {
		for _, month := range track.Entry.DeadlineMonths {
			days := risk.DaysUntil(month, now)
			if days > 90 {
				continue
			}

			readiness := risk.Readiness(track.Name, current)
			p := risk.PenaltyRisk(track.Name, readiness, days)

			alerts = append(alerts, model.Alert{
				ID:                 uuid.NewString(),
				UserID:             userID,
				Type:               model.AlertPenaltyRisk,
				RiskLevel:          penaltyRiskLevel(p),
				Title:              track.Name + " penalty exposure",
				Description:        penaltyDescription(p),
				PredictedImpact:    p.TypicalPenalty,
				RecommendedActions: penaltyActions(track.Name),
				TimelineDays:       days,
				Confidence:         penaltyConfidence(readiness),
				DataSources:        []string{"compliance_calendar", "penalty_catalog"},
				CreatedAt:          now,
				ExpiresAt:          model.Expiry(now, days),
			})
		}
	}

	// Critical first (alphabetical works for the four levels), then the
	// shortest deadline within each level.
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].RiskLevel != alerts[j].RiskLevel {
			return alerts[i].RiskLevel < alerts[j].RiskLevel
		}
		return alerts[i].TimelineDays < alerts[j].TimelineDays
	})

	if err := s.store.AppendAlerts(ctx, userID, alerts); err != nil {
		return nil, eris.Wrap(err, "alerts: append penalty warnings")
	}

	zap.L().Info("alerts: penalty warnings generated",
		zap.String("user_id", userID),
		zap.Int("count", len(alerts)))

	return alerts, nil
}

func penaltyRiskLevel(p risk.Penalty) model.RiskLevel {
	switch {
	case p.Escalation == risk.EscalationCritical || p.MissProbability >= 0.7:
		return model.RiskCritical
	case p.Escalation == risk.EscalationHigh || p.MissProbability >= 0.5:
		return model.RiskHigh
	default:
		return model.RiskMedium
	}
}

// penaltyConfidence is highest when readiness is near the extremes, where
// the miss estimate is most certain.
func penaltyConfidence(readiness float64) float64 {
	return math.Max(0.5, 1-math.Abs(readiness-50)/100)
}

func penaltyDescription(p risk.Penalty) string {
	return fmt.Sprintf("%s deadline in %d days with an estimated %.0f%% chance of non-compliance",
		p.Track, p.DaysUntil, p.MissProbability*100)
}

func penaltyActions(track string) []string {
	return []string{
		"Review the " + track + " requirements checklist",
		"Close the highest-impact readiness gaps first",
		"Prepare submission evidence ahead of the deadline",
	}
}

// ActiveAlerts returns the user's unresolved, unexpired alerts.
func (s *Service) ActiveAlerts(ctx context.Context, userID string) ([]model.Alert, error) {
	all, err := s.store.ListAlerts(ctx, userID)
	if err != nil {
		return nil, eris.Wrap(err, "alerts: list alerts")
	}

	now := s.now().UTC()
	active := make([]model.Alert, 0, len(all))
	for _, a := range all {
		if a.Active(now) {
			active = append(active, a)
		}
	}
	return active, nil
}

// Resolve marks an alert resolved. It returns false for an unknown alert
// and never treats not-found as an error.
func (s *Service) Resolve(ctx context.Context, userID, alertID string) (bool, error) {
	ok, err := s.store.ResolveAlert(ctx, userID, alertID)
	if err != nil {
		return false, eris.Wrapf(err, "alerts: resolve %s", alertID)
	}
	return ok, nil
}
