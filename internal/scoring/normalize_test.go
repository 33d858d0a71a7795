package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/greenledger/esg-compass/internal/model"
)

func questionByID(t *testing.T, id string) model.Question {
	t.Helper()
	q, ok := model.QuestionIndex(model.DefaultQuestions)[id]
	if !ok {
		t.Fatalf("question %s not in registry", id)
	}
	return q
}

func TestNormalizeBoolean(t *testing.T) {
	q := questionByID(t, "data_privacy_compliance")

	tests := []struct {
		name  string
		value any
		want  float64
		ok    bool
	}{
		{"true", true, 100, true},
		{"false", false, 0, true},
		{"yes string", "yes", 100, true},
		{"no string", "no", 0, true},
		{"garbage", "maybe", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.value, q)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}

func TestNormalizePercentage(t *testing.T) {
	q := questionByID(t, "packaging_recyclability")

	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{"in range", 72.5, 72.5},
		{"clamped high", 140.0, 100},
		{"clamped low", -5.0, 0},
		{"string value", "60", 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.value, q)
			assert.True(t, ok)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestNormalizeNumeric(t *testing.T) {
	energy := questionByID(t, "energy_consumption") // baseline 50000
	co2 := questionByID(t, "co2_emissions")         // baseline 10, lower is better

	tests := []struct {
		name  string
		q     model.Question
		value any
		want  float64
	}{
		{"energy at baseline", energy, 50000.0, 50},
		{"energy double baseline", energy, 100000.0, 100},
		{"energy clamped", energy, 500000.0, 100},
		{"co2 at baseline", co2, 10.0, 50},
		{"co2 zero emissions", co2, 0.0, 100},
		{"co2 double baseline", co2, 20.0, 0},
		{"co2 clamped", co2, 100.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.value, tt.q)
			assert.True(t, ok)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestNormalizeNumericWithoutBaseline(t *testing.T) {
	q := model.Question{ID: "custom_metric", Type: model.AnswerNumeric}

	got, ok := Normalize(42.0, q)
	assert.True(t, ok)
	assert.InDelta(t, 50.0, got, 0.001)
}
