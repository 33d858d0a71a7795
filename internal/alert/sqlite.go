package alert

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/greenledger/esg-compass/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS alerts (
	id                  TEXT PRIMARY KEY,
	user_id             TEXT NOT NULL,
	alert_type          TEXT NOT NULL,
	risk_level          TEXT NOT NULL,
	title               TEXT NOT NULL,
	description         TEXT NOT NULL,
	predicted_impact    TEXT NOT NULL DEFAULT '',
	recommended_actions TEXT NOT NULL DEFAULT '[]',
	timeline_days       INTEGER NOT NULL,
	confidence          REAL NOT NULL,
	data_sources        TEXT NOT NULL DEFAULT '[]',
	created_at          DATETIME NOT NULL,
	expires_at          DATETIME NOT NULL,
	resolved            INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS score_history (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	snapshot      TEXT NOT NULL,
	calculated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_alerts_user_id ON alerts(user_id);
CREATE INDEX IF NOT EXISTS idx_alerts_expires_at ON alerts(expires_at);
CREATE INDEX IF NOT EXISTS idx_score_history_user_id ON score_history(user_id);
CREATE INDEX IF NOT EXISTS idx_score_history_calculated_at ON score_history(calculated_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ReplaceAlerts(ctx context.Context, userID string, alerts []model.Alert) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin replace alerts")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM alerts WHERE user_id = ? AND resolved = 0`, userID,
	); err != nil {
		return eris.Wrap(err, "sqlite: clear unresolved alerts")
	}

	for _, a := range alerts {
		a.UserID = userID
		if err := insertAlertTx(ctx, tx, a); err != nil {
			return err
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit replace alerts")
}

func (s *SQLiteStore) AppendAlerts(ctx context.Context, userID string, alerts []model.Alert) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin append alerts")
	}
	defer tx.Rollback()

	for _, a := range alerts {
		a.UserID = userID
		if err := insertAlertTx(ctx, tx, a); err != nil {
			return err
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit append alerts")
}

func insertAlertTx(ctx context.Context, tx *sql.Tx, a model.Alert) error {
	actions, err := json.Marshal(a.RecommendedActions)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal actions")
	}
	sources, err := json.Marshal(a.DataSources)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal data sources")
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO alerts (id, user_id, alert_type, risk_level, title, description,
			predicted_impact, recommended_actions, timeline_days, confidence,
			data_sources, created_at, expires_at, resolved)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, string(a.Type), string(a.RiskLevel), a.Title, a.Description,
		a.PredictedImpact, string(actions), a.TimelineDays, a.Confidence,
		string(sources), a.CreatedAt.UTC(), a.ExpiresAt.UTC(), a.Resolved,
	)
	return eris.Wrapf(err, "sqlite: insert alert %s", a.ID)
}

func (s *SQLiteStore) ListAlerts(ctx context.Context, userID string) ([]model.Alert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, alert_type, risk_level, title, description,
			predicted_impact, recommended_actions, timeline_days, confidence,
			data_sources, created_at, expires_at, resolved
		 FROM alerts WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list alerts")
	}
	defer rows.Close()

	var out []model.Alert
	for rows.Next() {
		var a model.Alert
		var alertType, riskLevel, actions, sources string
		if err := rows.Scan(&a.ID, &a.UserID, &alertType, &riskLevel, &a.Title,
			&a.Description, &a.PredictedImpact, &actions, &a.TimelineDays,
			&a.Confidence, &sources, &a.CreatedAt, &a.ExpiresAt, &a.Resolved,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan alert")
		}
		a.Type = model.AlertType(alertType)
		a.RiskLevel = model.RiskLevel(riskLevel)
		if err := json.Unmarshal([]byte(actions), &a.RecommendedActions); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal actions")
		}
		if err := json.Unmarshal([]byte(sources), &a.DataSources); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal data sources")
		}
		out = append(out, a)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate alerts")
}

func (s *SQLiteStore) ResolveAlert(ctx context.Context, userID, alertID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET resolved = 1 WHERE user_id = ? AND id = ?`,
		userID, alertID,
	)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: resolve alert %s", alertID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "sqlite: rows affected")
	}
	return n > 0, nil
}

func (s *SQLiteStore) AppendScore(ctx context.Context, userID string, score model.Score) error {
	snapshot, err := json.Marshal(score)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal score")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO score_history (id, user_id, snapshot, calculated_at) VALUES (?, ?, ?, ?)`,
		score.ID, userID, string(snapshot), score.CalculatedAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: insert score %s", score.ID)
}

func (s *SQLiteStore) ListScores(ctx context.Context, userID string, limit int) ([]model.Score, error) {
	query := `SELECT snapshot FROM score_history WHERE user_id = ? ORDER BY calculated_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list scores")
	}
	defer rows.Close()

	var out []model.Score
	for rows.Next() {
		var snapshot string
		if err := rows.Scan(&snapshot); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan score")
		}
		var score model.Score
		if err := json.Unmarshal([]byte(snapshot), &score); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal score")
		}
		out = append(out, score)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate scores")
}
