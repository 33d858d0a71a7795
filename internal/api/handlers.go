package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/greenledger/esg-compass/internal/ingest"
	"github.com/greenledger/esg-compass/internal/model"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("api: encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]apiError{"error": {Code: code, Message: message}})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.questions)
}

type scoreRequest struct {
	Industry    string `json:"industry"`
	CompanySize string `json:"company_size"`
	Answers     []struct {
		QuestionID string `json:"question_id"`
		Value      any    `json:"value"`
	} `json:"answers"`
	SuggestMissing bool `json:"suggest_missing"`
}

type scoreResponse struct {
	Score     model.Score    `json:"score"`
	Suggested []model.Answer `json:"suggested_answers,omitempty"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if len(req.Answers) == 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "answers are required")
		return
	}
	industry := defaultIndustry(req.Industry)

	now := time.Now().UTC()
	answers := make([]model.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		if a.QuestionID == "" {
			respondError(w, http.StatusBadRequest, "validation_error", "answer is missing question_id")
			return
		}
		answers = append(answers, model.Answer{
			QuestionID: a.QuestionID,
			Value:      a.Value,
			Confidence: 1.0,
			Source:     model.SourceUser,
			AnsweredAt: now,
		})
	}

	var suggested []model.Answer
	if req.SuggestMissing {
		suggested = ingest.SuggestMissing(r.Context(), s.chain, answers, s.questions, industry)
		answers = append(answers, suggested...)
	}

	score := s.scorer.Score(userID(r), answers, industry, req.CompanySize)
	if err := s.alerts.RecordScore(r.Context(), userID(r), score); err != nil {
		zap.L().Error("api: record score", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to record score")
		return
	}

	respondJSON(w, http.StatusOK, scoreResponse{Score: score, Suggested: suggested})
}

func (s *Server) handleScoreHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "validation_error", "limit must be an integer")
			return
		}
		limit = n
	}

	scores, err := s.alerts.History(r.Context(), userID(r), limit)
	if err != nil {
		zap.L().Error("api: list score history", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list scores")
		return
	}
	respondJSON(w, http.StatusOK, scores)
}

// analysisRequest carries an optional inline snapshot; without one the
// latest recorded score is used.
type analysisRequest struct {
	Industry string       `json:"industry"`
	Score    *model.Score `json:"score,omitempty"`
}

// resolveScore picks the snapshot to analyze and the history behind it.
// The returned history never includes the current snapshot.
func (s *Server) resolveScore(w http.ResponseWriter, r *http.Request) (model.Score, []model.Score, string, bool) {
	var req analysisRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return model.Score{}, nil, "", false
		}
	}
	history, err := s.alerts.History(r.Context(), userID(r), 0)
	if err != nil {
		zap.L().Error("api: list score history", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list scores")
		return model.Score{}, nil, "", false
	}

	if req.Score != nil {
		return *req.Score, history, industryFor(req.Industry, *req.Score), true
	}
	if len(history) == 0 {
		respondError(w, http.StatusNotFound, "no_score", "no score recorded; submit one via /v1/score")
		return model.Score{}, nil, "", false
	}
	return history[0], history[1:], industryFor(req.Industry, history[0]), true
}

// industryFor prefers the explicit request value, then the snapshot's own
// industry, then the retail default.
func industryFor(requested string, score model.Score) string {
	if requested != "" {
		return requested
	}
	if score.Industry != "" {
		return score.Industry
	}
	return "retail"
}

func (s *Server) handleGenerateAlerts(w http.ResponseWriter, r *http.Request) {
	current, history, industry, ok := s.resolveScore(w, r)
	if !ok {
		return
	}

	alerts, err := s.alerts.GenerateAlerts(r.Context(), userID(r), current, history, industry)
	if err != nil {
		zap.L().Error("api: generate alerts", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to generate alerts")
		return
	}
	respondJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleActiveAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.alerts.ActiveAlerts(r.Context(), userID(r))
	if err != nil {
		zap.L().Error("api: list active alerts", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list alerts")
		return
	}
	respondJSON(w, http.StatusOK, alerts)
}

func (s *Server) handlePenaltyWarnings(w http.ResponseWriter, r *http.Request) {
	current, _, industry, ok := s.resolveScore(w, r)
	if !ok {
		return
	}

	warnings, err := s.alerts.GeneratePenaltyWarnings(r.Context(), userID(r), current, industry)
	if err != nil {
		zap.L().Error("api: generate penalty warnings", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to generate penalty warnings")
		return
	}
	respondJSON(w, http.StatusOK, warnings)
}

func (s *Server) handleResolveAlert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AlertID string `json:"alert_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.AlertID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "alert_id is required")
		return
	}

	found, err := s.alerts.Resolve(r.Context(), userID(r), req.AlertID)
	if err != nil {
		zap.L().Error("api: resolve alert", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to resolve alert")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "alert_not_found", "alert not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"resolved": true})
}

func (s *Server) handleRiskDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.alerts.RiskDashboard(r.Context(), userID(r))
	if err != nil {
		zap.L().Error("api: risk dashboard", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to build dashboard")
		return
	}
	respondJSON(w, http.StatusOK, dash)
}

func (s *Server) handleBenchmarking(w http.ResponseWriter, r *http.Request) {
	current, _, industry, ok := s.resolveScore(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.alerts.Benchmarking(current, industry))
}

func (s *Server) handleReadinessIndex(w http.ResponseWriter, r *http.Request) {
	current, _, industry, ok := s.resolveScore(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.alerts.ComplianceReadiness(current, industry))
}

func (s *Server) handleROIEstimate(w http.ResponseWriter, r *http.Request) {
	current, _, industry, ok := s.resolveScore(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.alerts.EstimateROI(current, industry))
}

func (s *Server) handleProactive(w http.ResponseWriter, r *http.Request) {
	current, _, _, ok := s.resolveScore(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.alerts.ProactiveRecommendations(current))
}

func defaultIndustry(industry string) string {
	if industry == "" {
		return "retail"
	}
	return industry
}
