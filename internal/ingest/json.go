package ingest

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/rotisserie/eris"

	"github.com/greenledger/esg-compass/internal/model"
)

// jsonAnswer is one entry of a JSON answers file.
type jsonAnswer struct {
	QuestionID string `json:"question_id"`
	Value      any    `json:"value"`
}

// ParseJSON reads an answers file encoded as a JSON array of
// {question_id, value} objects. Tolerance rules match ParseCSV: unknown
// question IDs are skipped and unusable values become validation errors.
func (p *Parser) ParseJSON(ctx context.Context, r io.Reader) (*Result, error) {
	if ctx.Err() != nil {
		return nil, eris.Wrap(ctx.Err(), "ingest: context cancelled")
	}

	var rows []jsonAnswer
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, eris.Wrap(err, "ingest: decode json answers")
	}

	now := time.Now().UTC()
	result := &Result{}
	for i, row := range rows {
		q, ok := p.questions[row.QuestionID]
		if !ok {
			continue
		}

		value, err := coerceValue(row.Value, q.Type)
		if err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Row:     i + 1,
				Column:  row.QuestionID,
				Message: err.Error(),
			})
			continue
		}

		result.Answers = append(result.Answers, model.Answer{
			QuestionID: q.ID,
			Value:      value,
			Confidence: 1.0,
			Source:     model.SourceUser,
			AnsweredAt: now,
		})
	}

	return result, nil
}

// coerceValue checks a decoded JSON value against the question's answer
// type. String values go through the spreadsheet parsing rules, so
// "85%" and "yes" work in JSON files too.
func coerceValue(v any, t model.AnswerType) (any, error) {
	if s, ok := v.(string); ok && t != model.AnswerText {
		return parseValue(s, t)
	}

	switch t {
	case model.AnswerBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, eris.Errorf("not a boolean: %v", v)
	case model.AnswerPercentage, model.AnswerNumeric:
		if f, ok := v.(float64); ok {
			return f, nil
		}
		return nil, eris.Errorf("not a number: %v", v)
	case model.AnswerText:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, eris.Errorf("not text: %v", v)
	}
	return nil, eris.Errorf("unsupported answer type %q", t)
}
