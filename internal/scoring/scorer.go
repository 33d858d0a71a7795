package scoring

import (
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greenledger/esg-compass/internal/model"
)

// Weights are the relative category weights for the overall score.
type Weights struct {
	Environmental float64
	Social        float64
	Governance    float64
}

// DefaultWeights mirrors the shipped configuration.
var DefaultWeights = Weights{Environmental: 0.4, Social: 0.3, Governance: 0.3}

// Scorer aggregates normalized answers into a score snapshot.
type Scorer struct {
	weights   Weights
	questions map[string]model.Question
}

// NewScorer builds a scorer over a question registry.
func NewScorer(weights Weights, questions []model.Question) *Scorer {
	return &Scorer{
		weights:   weights,
		questions: model.QuestionIndex(questions),
	}
}

type accumulator struct {
	sum float64
	n   int
}

// Score computes the full snapshot for one set of answers. Answers for
// unknown question IDs are ignored. companySize is carried on the
// snapshot for downstream context and may be empty.
func (s *Scorer) Score(userID string, answers []model.Answer, industry, companySize string) model.Score {
	catAcc := map[model.Category]*accumulator{
		model.CategoryEnvironmental: {},
		model.CategorySocial:        {},
		model.CategoryGovernance:    {},
	}
	subAcc := map[string]*accumulator{}
	answered := 0

	for _, a := range answers {
		q, ok := s.questions[a.QuestionID]
		if !ok {
			zap.L().Debug("scoring: unknown question skipped",
				zap.String("question_id", a.QuestionID))
			continue
		}

		score, ok := Normalize(a.Value, q)
		if !ok {
			continue
		}
		answered++

		acc := catAcc[q.Category]
		acc.sum += score * q.Weight
		acc.n++

		sub := model.SubCategory(q.ID)
		if subAcc[sub] == nil {
			subAcc[sub] = &accumulator{}
		}
		subAcc[sub].sum += score
		subAcc[sub].n++
	}

	cats := model.CategoryScores{
		Environmental: categoryScore(catAcc[model.CategoryEnvironmental]),
		Social:        categoryScore(catAcc[model.CategorySocial]),
		Governance:    categoryScore(catAcc[model.CategoryGovernance]),
	}

	subs := make(map[string]float64, len(model.SubCategoryNames))
	for _, name := range model.SubCategoryNames {
		if acc, ok := subAcc[name]; ok && acc.n > 0 {
			subs[name] = round1(acc.sum / float64(acc.n))
		} else {
			subs[name] = neutralScore
		}
	}

	overall := round1(cats.Environmental*s.weights.Environmental +
		cats.Social*s.weights.Social +
		cats.Governance*s.weights.Governance)

	score := model.Score{
		ID:            uuid.NewString(),
		UserID:        userID,
		Overall:       overall,
		Categories:    cats,
		SubScores:     subs,
		Badge:         Badge(overall),
		Level:         Level(overall),
		Percentile:    IndustryPercentile(overall, industry),
		Improvements:  improvementAreas(cats, subs),
		Strengths:     strengths(cats),
		QuickWins:     quickWins(cats),
		LongTermGoals: longTermGoals(cats),
		Industry:      industry,
		CompanySize:   companySize,
		AnsweredCount: answered,
		QuestionCount: len(s.questions),
		CalculatedAt:  time.Now().UTC(),
	}

	zap.L().Info("scoring: snapshot calculated",
		zap.String("user_id", userID),
		zap.Float64("overall", overall),
		zap.String("badge", score.Badge),
		zap.Int("answered", answered))

	return score
}

// categoryScore is the arithmetic mean of a category's weighted answer
// scores. Categories with no answered questions get the neutral score.
func categoryScore(acc *accumulator) float64 {
	if acc.n == 0 {
		return neutralScore
	}
	return round1(acc.sum / float64(acc.n))
}

// Badge maps an overall score to its achievement badge.
func Badge(overall float64) string {
	switch {
	case overall >= 90:
		return "ESG Champion"
	case overall >= 80:
		return "Green Leader"
	case overall >= 70:
		return "Sustainability Star"
	case overall >= 60:
		return "Eco Improver"
	case overall >= 50:
		return "ESG Starter"
	default:
		return "ESG Beginner"
	}
}

// Level maps an overall score to a 1-10 gamification level.
func Level(overall float64) int {
	level := int(overall/10) + 1
	if level > 10 {
		level = 10
	}
	return level
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
