package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/greenledger/esg-compass/internal/llm"
	"github.com/greenledger/esg-compass/internal/model"
)

// suggestConcurrency bounds parallel LLM calls per batch.
const suggestConcurrency = 4

// suggestion is the JSON contract for a suggested answer.
type suggestion struct {
	SuggestedValue any     `json:"suggested_value"`
	Confidence     float64 `json:"confidence"`
	Explanation    string  `json:"explanation"`
	Source         string  `json:"source"`
}

// SuggestMissing fills unanswered required questions with LLM-suggested
// values, falling back to conservative per-type defaults when the model
// is unavailable or returns something unusable.
func SuggestMissing(ctx context.Context, chain *llm.Chain, answers []model.Answer, questions []model.Question, industry string) []model.Answer {
	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		answered[a.QuestionID] = true
	}

	var missing []model.Question
	for _, q := range questions {
		if q.Required && !answered[q.ID] {
			missing = append(missing, q)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	out := make([]model.Answer, len(missing))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(suggestConcurrency)
	for i, q := range missing {
		g.Go(func() error {
			out[i] = suggestOne(gctx, chain, q, industry)
			return nil
		})
	}
	// workers never return errors; defaults cover every failure mode
	_ = g.Wait()

	zap.L().Info("ingest: suggested missing answers",
		zap.Int("missing", len(missing)),
		zap.String("industry", industry))

	return out
}

func suggestOne(ctx context.Context, chain *llm.Chain, q model.Question, industry string) model.Answer {
	now := time.Now().UTC()

	if chain == nil || !chain.Enabled() {
		return defaultAnswer(q, now, model.SourceSystemDefault, 0.3)
	}

	text, err := chain.GenerateText(ctx, suggestPrompt(q, industry), 512)
	if err != nil {
		return defaultAnswer(q, now, model.SourceSystemDefault, 0.3)
	}

	s, ok := parseSuggestion(text, q.Type)
	if !ok {
		zap.L().Debug("ingest: unusable suggestion, using fallback",
			zap.String("question_id", q.ID))
		return defaultAnswer(q, now, model.SourceFallback, 0.5)
	}

	return model.Answer{
		QuestionID: q.ID,
		Value:      s.SuggestedValue,
		Confidence: s.Confidence,
		Source:     model.SourceLLMSuggested,
		AnsweredAt: now,
	}
}

func suggestPrompt(q model.Question, industry string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Estimate a typical answer for a small %s business to this ESG question.\n\n", industry)
	fmt.Fprintf(&b, "Question: %s\n", q.Text)
	fmt.Fprintf(&b, "Answer type: %s\n", q.Type)
	if q.Unit != "" {
		fmt.Fprintf(&b, "Unit: %s\n", q.Unit)
	}
	if q.IndustryDefault != nil {
		fmt.Fprintf(&b, "Industry baseline: %g\n", *q.IndustryDefault)
	}
	b.WriteString("\nRespond with only a JSON object with keys: ")
	b.WriteString(`"suggested_value", "confidence" (0-1), "explanation", "source".`)
	return b.String()
}

func parseSuggestion(text string, t model.AnswerType) (suggestion, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return suggestion{}, false
	}

	var s suggestion
	if err := json.Unmarshal([]byte(text[start:end+1]), &s); err != nil {
		return suggestion{}, false
	}
	if s.Confidence <= 0 || s.Confidence > 1 {
		return suggestion{}, false
	}

	// The value must match the question's answer type.
	switch t {
	case model.AnswerBoolean:
		_, ok := s.SuggestedValue.(bool)
		return s, ok
	case model.AnswerNumeric, model.AnswerPercentage:
		_, ok := s.SuggestedValue.(float64)
		return s, ok
	case model.AnswerText:
		_, ok := s.SuggestedValue.(string)
		return s, ok
	}
	return suggestion{}, false
}

// defaultAnswer is the conservative stand-in per answer type: numeric 0,
// percentage 50, boolean false.
func defaultAnswer(q model.Question, now time.Time, source model.Provenance, confidence float64) model.Answer {
	var value any
	switch q.Type {
	case model.AnswerBoolean:
		value = false
	case model.AnswerPercentage:
		value = 50.0
	case model.AnswerNumeric:
		value = 0.0
	default:
		value = ""
	}
	return model.Answer{
		QuestionID: q.ID,
		Value:      value,
		Confidence: confidence,
		Source:     source,
		AnsweredAt: now,
	}
}
