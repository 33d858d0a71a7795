package scoring

// industryAverages holds static overall-score baselines per industry.
// Used until enough real cohort data exists to compute them.
var industryAverages = map[string]float64{
	"retail":        65,
	"manufacturing": 60,
	"technology":    70,
	"finance":       68,
	"healthcare":    72,
}

const defaultIndustryAverage = 65.0

// IndustryAverage returns the baseline overall score for an industry,
// falling back to the retail baseline for unknown industries.
func IndustryAverage(industry string) float64 {
	if avg, ok := industryAverages[industry]; ok {
		return avg
	}
	return defaultIndustryAverage
}

// IndustryPercentile buckets an overall score against the industry
// baseline into a coarse percentile estimate.
func IndustryPercentile(overall float64, industry string) float64 {
	diff := overall - IndustryAverage(industry)
	switch {
	case diff >= 20:
		return 95
	case diff >= 10:
		return 80
	case diff >= 0:
		return 60
	case diff >= -10:
		return 40
	default:
		return 20
	}
}
