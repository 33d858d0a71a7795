// Package scoring normalizes questionnaire answers and aggregates them
// into a weighted score snapshot.
package scoring

import (
	"strconv"
	"strings"

	"github.com/greenledger/esg-compass/internal/model"
)

// neutralScore is used when a question has no usable industry baseline or
// a category has no answered questions.
const neutralScore = 50.0

// Normalize converts a raw answer value to a 0-100 score for its question.
// The second return value is false when the answer cannot contribute to
// the score (nil value, unparseable text, or text-type question).
func Normalize(value any, q model.Question) (float64, bool) {
	if value == nil {
		return 0, false
	}

	switch q.Type {
	case model.AnswerBoolean:
		b, ok := toBool(value)
		if !ok {
			return 0, false
		}
		if b {
			return 100, true
		}
		return 0, true

	case model.AnswerPercentage:
		v, ok := toFloat(value)
		if !ok {
			return 0, false
		}
		return clamp(v, 0, 100), true

	case model.AnswerNumeric:
		v, ok := toFloat(value)
		if !ok {
			return 0, false
		}
		if q.IndustryDefault == nil || *q.IndustryDefault == 0 {
			return neutralScore, true
		}
		// For emissions lower is better; everything else scales up
		// toward twice the industry baseline.
		if q.ID == "co2_emissions" {
			return clamp(100-v / *q.IndustryDefault*50, 0, 100), true
		}
		return clamp(v / *q.IndustryDefault*50, 0, 100), true
	}

	return 0, false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case float64:
		return t != 0, true
	case int:
		return t != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1":
			return true, true
		case "false", "no", "n", "0", "":
			return false, true
		}
	}
	return false, false
}
