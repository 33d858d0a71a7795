package alert

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenledger/esg-compass/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func sampleAlert(id string) model.Alert {
	now := time.Date(2026, time.July, 15, 12, 0, 0, 0, time.UTC)
	return model.Alert{
		ID:                 id,
		UserID:             "user-1",
		Type:               model.AlertComplianceGap,
		RiskLevel:          model.RiskHigh,
		Title:              "Social score below compliance threshold",
		Description:        "social score 48.0 is below the compliance threshold of 50",
		PredictedImpact:    "Widening gap against upcoming reporting obligations",
		RecommendedActions: []string{"Review the social improvement recommendations"},
		TimelineDays:       60,
		Confidence:         0.7,
		DataSources:        []string{"esg_scoring"},
		CreatedAt:          now,
		ExpiresAt:          model.Expiry(now, 60),
	}
}

func TestPostgresStore_ReplaceAlerts(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM alerts WHERE user_id = \$1 AND resolved = false`).
		WithArgs("user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`INSERT INTO alerts`).
		WithArgs("alert-1", "user-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := s.ReplaceAlerts(context.Background(), "user-1", []model.Alert{sampleAlert("alert-1")})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ResolveAlert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE alerts SET resolved = true WHERE user_id = \$1 AND id = \$2`).
		WithArgs("user-1", "alert-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := s.ResolveAlert(context.Background(), "user-1", "alert-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ResolveAlert_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE alerts SET resolved = true`).
		WithArgs("user-1", "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := s.ResolveAlert(context.Background(), "user-1", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListAlerts(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	a := sampleAlert("alert-1")
	rows := pgxmock.NewRows([]string{
		"id", "user_id", "alert_type", "risk_level", "title", "description",
		"predicted_impact", "recommended_actions", "timeline_days", "confidence",
		"data_sources", "created_at", "expires_at", "resolved",
	}).AddRow(
		a.ID, a.UserID, string(a.Type), string(a.RiskLevel), a.Title, a.Description,
		a.PredictedImpact, []byte(`["Review the social improvement recommendations"]`),
		a.TimelineDays, a.Confidence, []byte(`["esg_scoring"]`),
		a.CreatedAt, a.ExpiresAt, false,
	)

	mock.ExpectQuery(`SELECT .+ FROM alerts WHERE user_id = \$1 ORDER BY created_at DESC`).
		WithArgs("user-1").
		WillReturnRows(rows)

	got, err := s.ListAlerts(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, model.AlertComplianceGap, got[0].Type)
	assert.Equal(t, a.RecommendedActions, got[0].RecommendedActions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_AppendScore(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO score_history`).
		WithArgs("score-1", "user-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	score := model.Score{ID: "score-1", UserID: "user-1", Overall: 62.3, CalculatedAt: time.Now()}
	err := s.AppendScore(context.Background(), "user-1", score)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListScores(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{"snapshot"}).
		AddRow([]byte(`{"id":"score-2","overall_score":58}`)).
		AddRow([]byte(`{"id":"score-1","overall_score":65}`))

	mock.ExpectQuery(`SELECT snapshot FROM score_history WHERE user_id = \$1 ORDER BY calculated_at DESC LIMIT \$2`).
		WithArgs("user-1", 3).
		WillReturnRows(rows)

	got, err := s.ListScores(context.Background(), "user-1", 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "score-2", got[0].ID)
	assert.InDelta(t, 58.0, got[0].Overall, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}
