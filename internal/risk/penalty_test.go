package risk

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/greenledger/esg-compass/internal/model"
)

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name  string
		month int
		now   time.Time
		want  int
	}{
		{"later this year", 9, midJuly, 60},
		{"end of year", 12, midJuly, 150},
		{"wraps to next year", 3, midJuly, 240},
		{"same month is due now", 7, midJuly, 0},
		{"next month", 8, midJuly, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(tt.month, tt.now))
		})
	}
}

func TestReadiness(t *testing.T) {
	score := model.Score{
		Overall: 60,
		Categories: model.CategoryScores{
			Environmental: 80,
			Social:        70,
			Governance:    50,
		},
		SubScores: map[string]float64{
			"emissions":    60,
			"waste":        40,
			"diversity":    55,
			"transparency": 30,
		},
	}

	tests := []struct {
		track string
		want  float64
	}{
		{"CSRD_reporting", 51.0},        // 60*.5 + 50*.3 + 30*.2
		{"carbon_disclosure", 74.0},     // 80*.7 + 60*.3
		{"diversity_reporting", 64.0},   // 70*.6 + 55*.4
		{"packaging_regulations", 60.0}, // 80*.5 + 40*.5
		{"unknown_track", 60.0},         // falls back to overall
	}

	for _, tt := range tests {
		t.Run(tt.track, func(t *testing.T) {
			assert.InDelta(t, tt.want, Readiness(tt.track, score), 0.001)
		})
	}
}

func TestPenaltyRisk(t *testing.T) {
	tests := []struct {
		name       string
		track      string
		readiness  float64
		days       int
		wantProb   float64
		wantSev    string
		wantEscal  Escalation
	}{
		{"low readiness imminent", "CSRD_reporting", 20, 5, 0.75, "high", EscalationCritical},
		{"mid readiness two weeks", "carbon_disclosure", 50, 14, 0.40, "medium", EscalationHigh},
		{"high readiness distant", "diversity_reporting", 95, 120, 0.05, "low", EscalationNormal},
		{"month out", "packaging_regulations", 40, 30, 0.45, "medium", EscalationElevated},
		{"ceiling", "CSRD_reporting", 0, 3, 0.95, "high", EscalationCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PenaltyRisk(tt.track, tt.readiness, tt.days)
			assert.InDelta(t, tt.wantProb, p.MissProbability, 0.001)
			assert.Equal(t, tt.wantSev, p.Severity)
			assert.Equal(t, tt.wantEscal, p.Escalation)
			assert.NotEmpty(t, p.TypicalPenalty)
			assert.NotEmpty(t, p.LeadTimes)
		})
	}
}

func TestPenaltyRiskUnknownTrack(t *testing.T) {
	p := PenaltyRisk("mystery_track", 50, 10)
	assert.Equal(t, "unknown", p.Severity)
	assert.InDelta(t, 0.2, p.MissProbability, 0.001)
	assert.Equal(t, EscalationNormal, p.Escalation)
	assert.Empty(t, p.TypicalPenalty)
}

func TestLoadCalendarDefault(t *testing.T) {
	cal, err := LoadCalendar("")
	assert.NoError(t, err)
	assert.Contains(t, cal.ForIndustry("retail"), "CSRD_reporting")
	// unknown industries fall back to retail
	assert.Contains(t, cal.ForIndustry("mining"), "packaging_regulations")
}

func TestLoadCalendarOverride(t *testing.T) {
	path := t.TempDir() + "/calendar.yaml"
	content := `
manufacturing:
  emissions_permits:
    deadline_months: [2, 8]
    criticality: high
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cal, err := LoadCalendar(path)
	assert.NoError(t, err)
	tracks := cal["manufacturing"]
	assert.Equal(t, []int{2, 8}, tracks["emissions_permits"].DeadlineMonths)
	assert.Equal(t, "high", tracks["emissions_permits"].Criticality)
}

func TestLoadCalendarMissingFile(t *testing.T) {
	_, err := LoadCalendar("/nonexistent/calendar.yaml")
	assert.Error(t, err)
}
