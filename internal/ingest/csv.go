// Package ingest parses questionnaire answers from CSV and XLSX uploads
// and fills gaps with LLM-suggested values.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/greenledger/esg-compass/internal/model"
)

// ValidationError records one unusable cell. The batch keeps going.
type ValidationError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("ingest: row %d column %s: %s", e.Row, e.Column, e.Message)
}

// Result holds the parsed answers and any per-cell validation errors.
type Result struct {
	Answers []model.Answer
	Errors  []ValidationError
}

// Parser maps spreadsheet columns onto questionnaire answers.
type Parser struct {
	questions map[string]model.Question
	// columns maps a column header to a question ID. Defaults to the
	// identity mapping over the registry.
	columns map[string]string
}

// NewParser builds a parser over a question registry.
func NewParser(questions []model.Question) *Parser {
	idx := model.QuestionIndex(questions)
	columns := make(map[string]string, len(idx))
	for id := range idx {
		columns[id] = id
	}
	return &Parser{questions: idx, columns: columns}
}

// MapColumn overrides the question a column header feeds into.
func (p *Parser) MapColumn(header, questionID string) {
	p.columns[strings.ToLower(strings.TrimSpace(header))] = questionID
}

// ParseCSV reads a CSV with a header row; each data row becomes one set
// of answers. Unknown columns are ignored; bad cells are reported in
// Result.Errors without failing the batch.
func (p *Parser) ParseCSV(ctx context.Context, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("ingest: empty csv")
	}
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv header")
	}

	result := &Result{}
	rowNum := 1
	for {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "ingest: context cancelled")
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read csv row")
		}
		rowNum++
		p.parseRow(header, record, rowNum, result)
	}

	return result, nil
}

// parseRow converts one spreadsheet row into answers, appending any cell
// problems to the result.
func (p *Parser) parseRow(header, record []string, rowNum int, result *Result) {
	now := time.Now().UTC()

	for i, raw := range record {
		if i >= len(header) {
			break
		}
		col := strings.ToLower(strings.TrimSpace(header[i]))
		questionID, ok := p.columns[col]
		if !ok {
			continue
		}
		q, ok := p.questions[questionID]
		if !ok {
			continue
		}

		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		value, err := parseValue(raw, q.Type)
		if err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Row:     rowNum,
				Column:  header[i],
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
}

func parseValue(raw string, t model.AnswerType) (any, error) {
	switch t {
	case model.AnswerBoolean:
		switch strings.ToLower(raw) {
		case "true", "yes", "y", "1":
			return true, nil
		case "false", "no", "n", "0":
			return false, nil
		}
		return nil, eris.Errorf("not a boolean: %q", raw)

	case model.AnswerPercentage, model.AnswerNumeric:
		cleaned := strings.TrimSuffix(raw, "%")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		v, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
		if err != nil {
			return nil, eris.Errorf("not a number: %q", raw)
		}
		return v, nil

	case model.AnswerText:
		return raw, nil
	}

	return nil, eris.Errorf("unsupported answer type %q", t)
}
