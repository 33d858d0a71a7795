package risk

import (
	"fmt"
	"sort"

	"github.com/greenledger/esg-compass/internal/model"
)

const trendWindow = 3

// Slope fits a least-squares line over values indexed 0..n-1 and returns
// its gradient in score points per snapshot.
func Slope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}

	var sumX, sumY float64
	for i, v := range values {
		sumX += float64(i)
		sumY += v
	}
	meanX, meanY := sumX/n, sumY/n

	var num, den float64
	for i, v := range values {
		dx := float64(i) - meanX
		num += dx * (v - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// trendFindings detects sustained declines over the three most recent
// historical snapshots, evaluated newest first.
func (m *Model) trendFindings(history []model.Score) []Finding {
	window := recentWindow(history)
	if len(window) < trendWindow {
		return nil
	}

	var out []Finding

	overall := make([]float64, len(window))
	for i, s := range window {
		overall[i] = s.Overall
	}
	if slope := Slope(overall); slope < -5 {
		out = append(out, Finding{
			Kind:         KindDecliningTrend,
			Category:     "overall",
			RiskLevel:    model.RiskHigh,
			Priority:     85,
			TimelineDays: 45,
			TrendSlope:   slope,
			Description: fmt.Sprintf("overall score declining at %.1f points per assessment",
				-slope),
		})
	}

	for _, cat := range []model.Category{
		model.CategoryEnvironmental,
		model.CategorySocial,
		model.CategoryGovernance,
	} {
		values := make([]float64, len(window))
		for i, s := range window {
			values[i] = s.Categories.Get(cat)
		}
		if slope := Slope(values); slope < -3 {
			out = append(out, Finding{
				Kind:         KindCategoryDecline,
				Category:     string(cat),
				RiskLevel:    model.RiskMedium,
				Priority:     70,
				TimelineDays: 60,
				TrendSlope:   slope,
				Description: fmt.Sprintf("%s score declining at %.1f points per assessment",
					cat, -slope),
			})
		}
	}

	return out
}

// recentWindow selects the three most recent historical snapshots, most
// recent first. The slope is fit over that order: a series reading
// [70, 65, 58] newest-to-oldest produces a slope of -6.
func recentWindow(history []model.Score) []model.Score {
	all := make([]model.Score, len(history))
	copy(all, history)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CalculatedAt.After(all[j].CalculatedAt)
	})
	if len(all) > trendWindow {
		all = all[:trendWindow]
	}
	return all
}
