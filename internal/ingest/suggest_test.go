package ingest

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenledger/esg-compass/internal/llm"
	"github.com/greenledger/esg-compass/internal/model"
)

type cannedProvider struct {
	text string
	err  error
}

func (p *cannedProvider) Name() string                   { return "canned" }
func (p *cannedProvider) Available(context.Context) bool { return true }

func (p *cannedProvider) GenerateText(context.Context, string, int) (string, error) {
	return p.text, p.err
}

func answeredExcept(questions []model.Question, missingID string) []model.Answer {
	var answers []model.Answer
	for _, q := range questions {
		if q.ID == missingID {
			continue
		}
		answers = append(answers, model.Answer{QuestionID: q.ID, Value: 1.0, Source: model.SourceUser})
	}
	return answers
}

func TestSuggestMissingLLMSuggested(t *testing.T) {
	chain := llm.NewChain(&cannedProvider{
		text: `{"suggested_value": 62.5, "confidence": 0.8, "explanation": "typical for retail", "source": "industry_data"}`,
	})

	answers := answeredExcept(model.DefaultQuestions, "packaging_recyclability")
	got := SuggestMissing(context.Background(), chain, answers, model.DefaultQuestions, "retail")

	require.Len(t, got, 1)
	assert.Equal(t, "packaging_recyclability", got[0].QuestionID)
	assert.Equal(t, model.SourceLLMSuggested, got[0].Source)
	assert.InDelta(t, 62.5, got[0].Value.(float64), 0.001)
	assert.InDelta(t, 0.8, got[0].Confidence, 0.001)
}

func TestSuggestMissingNoChain(t *testing.T) {
	answers := answeredExcept(model.DefaultQuestions, "data_privacy_compliance")
	got := SuggestMissing(context.Background(), nil, answers, model.DefaultQuestions, "retail")

	require.Len(t, got, 1)
	assert.Equal(t, model.SourceSystemDefault, got[0].Source)
	assert.Equal(t, false, got[0].Value)
	assert.InDelta(t, 0.3, got[0].Confidence, 0.001)
}

func TestSuggestMissingChainError(t *testing.T) {
	chain := llm.NewChain(&cannedProvider{err: eris.New("model offline")})

	answers := answeredExcept(model.DefaultQuestions, "packaging_recyclability")
	got := SuggestMissing(context.Background(), chain, answers, model.DefaultQuestions, "retail")

	require.Len(t, got, 1)
	assert.Equal(t, model.SourceSystemDefault, got[0].Source)
	assert.InDelta(t, 50.0, got[0].Value.(float64), 0.001)
	assert.InDelta(t, 0.3, got[0].Confidence, 0.001)
}

func TestSuggestMissingUnusableResponse(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no json", "I think around sixty percent."},
		{"wrong value type", `{"suggested_value": "lots", "confidence": 0.8}`},
		{"confidence out of range", `{"suggested_value": 60, "confidence": 1.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := llm.NewChain(&cannedProvider{text: tt.text})
			answers := answeredExcept(model.DefaultQuestions, "packaging_recyclability")
			got := SuggestMissing(context.Background(), chain, answers, model.DefaultQuestions, "retail")

			require.Len(t, got, 1)
			assert.Equal(t, model.SourceFallback, got[0].Source)
			assert.InDelta(t, 50.0, got[0].Value.(float64), 0.001)
			assert.InDelta(t, 0.5, got[0].Confidence, 0.001)
		})
	}
}

func TestSuggestMissingAllAnswered(t *testing.T) {
	var answers []model.Answer
	for _, q := range model.DefaultQuestions {
		answers = append(answers, model.Answer{QuestionID: q.ID, Value: 1.0})
	}
	got := SuggestMissing(context.Background(), nil, answers, model.DefaultQuestions, "retail")
	assert.Nil(t, got)
}

func TestSuggestMissingOnlyRequired(t *testing.T) {
	optional := model.Question{ID: "optional_q", Text: "Optional", Type: model.AnswerText, Category: model.CategoryGovernance}
	questions := append([]model.Question{optional}, model.DefaultQuestions[0])

	got := SuggestMissing(context.Background(), nil, nil, questions, "retail")
	require.Len(t, got, 1)
	assert.Equal(t, model.DefaultQuestions[0].ID, got[0].QuestionID)
}
