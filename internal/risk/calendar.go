// Package risk derives compliance findings from score snapshots: rule
// thresholds, score trends, regulatory deadlines, and penalty exposure.
package risk

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Track is one regulatory obligation in the compliance calendar.
type Track struct {
	DeadlineMonths []int  `yaml:"deadline_months"`
	Criticality    string `yaml:"criticality"`
}

// Calendar maps industry → track name → deadline schedule.
type Calendar map[string]map[string]Track

// DefaultCalendar covers the retail vertical; other industries fall back
// to the retail schedule until their own is defined.
var DefaultCalendar = Calendar{
	"retail": {
		"CSRD_reporting":        {DeadlineMonths: []int{3, 6, 9, 12}, Criticality: "high"},
		"carbon_disclosure":     {DeadlineMonths: []int{6, 12}, Criticality: "medium"},
		"diversity_reporting":   {DeadlineMonths: []int{12}, Criticality: "medium"},
		"packaging_regulations": {DeadlineMonths: []int{1, 4, 7, 10}, Criticality: "medium"},
	},
}

// ForIndustry returns the track schedule for an industry, defaulting to
// the retail schedule.
func (c Calendar) ForIndustry(industry string) map[string]Track {
	if tracks, ok := c[industry]; ok {
		return tracks
	}
	return c["retail"]
}

// LoadCalendar reads a calendar override from a YAML file. An empty path
// returns the built-in calendar.
func LoadCalendar(path string) (Calendar, error) {
	if path == "" {
		return DefaultCalendar, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "risk: read calendar %s", path)
	}

	var cal Calendar
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return nil, eris.Wrap(err, "risk: parse calendar")
	}
	if len(cal) == 0 {
		return nil, eris.Errorf("risk: calendar %s defines no industries", path)
	}

	zap.L().Info("risk: compliance calendar loaded",
		zap.String("path", path),
		zap.Int("industries", len(cal)))

	return cal, nil
}

// DaysUntil approximates the days until the next occurrence of a deadline
// month, counting 30 days per month and wrapping into the next year. A
// deadline in the current month is due now (0 days).
func DaysUntil(month int, now time.Time) int {
	current := int(now.Month())
	if month >= current {
		return (month - current) * 30
	}
	return (12 - current + month) * 30
}
