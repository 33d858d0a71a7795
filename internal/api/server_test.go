package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenledger/esg-compass/internal/alert"
	"github.com/greenledger/esg-compass/internal/model"
	"github.com/greenledger/esg-compass/internal/risk"
	"github.com/greenledger/esg-compass/internal/scoring"
)

func newTestServer() *Server {
	store := alert.NewMemoryStore()
	svc := alert.NewService(store, risk.NewModel(risk.DefaultCalendar), nil)
	scorer := scoring.NewScorer(scoring.DefaultWeights, model.DefaultQuestions)
	return NewServer(svc, scorer, nil, model.DefaultQuestions)
}

func doJSON(t *testing.T, s *Server, method, path string, body any, user string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func lowScore() model.Score {
	return model.Score{
		Overall: 25,
		Categories: model.CategoryScores{
			Environmental: 20, Social: 25, Governance: 30,
		},
		SubScores: map[string]float64{
			"emissions": 20, "energy": 20, "waste": 20,
			"diversity": 25, "employee": 25,
			"ethics": 30, "transparency": 30,
		},
		Industry: "retail",
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireUserHeader(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodGet, "/v1/questions", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuestions(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodGet, "/v1/questions", nil, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var questions []model.Question
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &questions))
	assert.Len(t, questions, len(model.DefaultQuestions))
}

func TestScoreEndpoint(t *testing.T) {
	s := newTestServer()

	payload := map[string]any{
		"industry": "retail",
		"answers": []map[string]any{
			{"question_id": "co2_emissions", "value": 8.5},
			{"question_id": "data_privacy_compliance", "value": true},
		},
	}
	rec := doJSON(t, s, http.MethodPost, "/v1/score", payload, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp scoreResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.GreaterOrEqual(t, resp.Score.Overall, 0.0)
	assert.LessOrEqual(t, resp.Score.Overall, 100.0)
	assert.Equal(t, 2, resp.Score.AnsweredCount)

	// The snapshot landed in history.
	rec = doJSON(t, s, http.MethodGet, "/v1/score/history", nil, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []model.Score
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history, 1)
}

func TestScoreMalformedBody(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/v1/score", bytes.NewBufferString("{not json"))
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoreMissingAnswers(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodPost, "/v1/score", map[string]any{"industry": "retail"}, "user-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateAlertsNoScore(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodPost, "/v1/alerts/generate", nil, "user-1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateAlertsInlineScore(t *testing.T) {
	s := newTestServer()

	payload := analysisRequest{Industry: "retail", Score: ptr(lowScore())}
	rec := doJSON(t, s, http.MethodPost, "/v1/alerts/generate", payload, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var alerts []model.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
	require.NotEmpty(t, alerts)
	assert.LessOrEqual(t, len(alerts), 5)

	// All three pillar scores sit below their critical thresholds, so the
	// top findings are critical compliance gaps.
	assert.Equal(t, model.AlertComplianceGap, alerts[0].Type)
	assert.Equal(t, model.RiskCritical, alerts[0].RiskLevel)

	rec = doJSON(t, s, http.MethodGet, "/v1/alerts/active", nil, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)
	var active []model.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &active))
	assert.Len(t, active, len(alerts))
}

func TestResolveAlert(t *testing.T) {
	s := newTestServer()

	payload := analysisRequest{Industry: "retail", Score: ptr(lowScore())}
	rec := doJSON(t, s, http.MethodPost, "/v1/alerts/generate", payload, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)
	var alerts []model.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
	require.NotEmpty(t, alerts)

	rec = doJSON(t, s, http.MethodPost, "/v1/alerts/resolve",
		map[string]string{"alert_id": alerts[0].ID}, "user-1")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/v1/alerts/resolve",
		map[string]string{"alert_id": "no-such-alert"}, "user-1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPenaltyWarnings(t *testing.T) {
	s := newTestServer()

	payload := analysisRequest{Industry: "retail", Score: ptr(lowScore())}
	rec := doJSON(t, s, http.MethodPost, "/v1/alerts/penalty-warnings", payload, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var warnings []model.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &warnings))
	for _, a := range warnings {
		assert.Equal(t, model.AlertPenaltyRisk, a.Type)
		assert.LessOrEqual(t, a.TimelineDays, 90)
	}
}

func TestRiskDashboardEndpoint(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodGet, "/v1/analytics/risk-dashboard", nil, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var dash alert.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Equal(t, 0, dash.TotalActive)
}

func TestBenchmarkingEndpoint(t *testing.T) {
	s := newTestServer()

	payload := analysisRequest{Score: ptr(lowScore())}
	rec := doJSON(t, s, http.MethodPost, "/v1/analytics/benchmarking", payload, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var insights alert.BenchmarkingInsights
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &insights))
	assert.Equal(t, "retail", insights.Industry)
}

func TestProactiveNoScore(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodGet, "/v1/recommendations/proactive", nil, "user-1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func ptr[T any](v T) *T { return &v }
