package alert

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/greenledger/esg-compass/internal/model"
)

// Pool is the subset of pgxpool.Pool used by the store. pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the hot store operations.
var preparedStatements = map[string]string{
	"insert_alert": `INSERT INTO alerts (id, user_id, alert_type, risk_level, title, description,
		predicted_impact, recommended_actions, timeline_days, confidence,
		data_sources, created_at, expires_at, resolved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
	"list_alerts": `SELECT id, user_id, alert_type, risk_level, title, description,
		predicted_impact, recommended_actions, timeline_days, confidence,
		data_sources, created_at, expires_at, resolved
		FROM alerts WHERE user_id = $1 ORDER BY created_at DESC`,
	"resolve_alert": `UPDATE alerts SET resolved = true WHERE user_id = $1 AND id = $2`,
	"insert_score":  `INSERT INTO score_history (id, user_id, snapshot, calculated_at) VALUES ($1, $2, $3, $4)`,
	"list_scores":   `SELECT snapshot FROM score_history WHERE user_id = $1 ORDER BY calculated_at DESC LIMIT $2`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wires an existing pool, primarily for tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS alerts (
	id                  TEXT PRIMARY KEY,
	user_id             TEXT NOT NULL,
	alert_type          TEXT NOT NULL,
	risk_level          TEXT NOT NULL,
	title               TEXT NOT NULL,
	description         TEXT NOT NULL,
	predicted_impact    TEXT NOT NULL DEFAULT '',
	recommended_actions JSONB NOT NULL DEFAULT '[]',
	timeline_days       INTEGER NOT NULL,
	confidence          DOUBLE PRECISION NOT NULL,
	data_sources        JSONB NOT NULL DEFAULT '[]',
	created_at          TIMESTAMPTZ NOT NULL,
	expires_at          TIMESTAMPTZ NOT NULL,
	resolved            BOOLEAN NOT NULL DEFAULT false
);

CREATE TABLE IF NOT EXISTS score_history (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	snapshot      JSONB NOT NULL,
	calculated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_alerts_user_id ON alerts(user_id);
CREATE INDEX IF NOT EXISTS idx_alerts_expires_at ON alerts(expires_at);
CREATE INDEX IF NOT EXISTS idx_score_history_user_id ON score_history(user_id);
CREATE INDEX IF NOT EXISTS idx_score_history_calculated_at ON score_history(calculated_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ReplaceAlerts(ctx context.Context, userID string, alerts []model.Alert) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin replace alerts")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM alerts WHERE user_id = $1 AND resolved = false`, userID,
	); err != nil {
		return eris.Wrap(err, "postgres: clear unresolved alerts")
	}

	for _, a := range alerts {
		a.UserID = userID
		if err := insertAlertPgx(ctx, tx, a); err != nil {
			return err
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit replace alerts")
}

func (s *PostgresStore) AppendAlerts(ctx context.Context, userID string, alerts []model.Alert) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin append alerts")
	}
	defer tx.Rollback(ctx)

	for _, a := range alerts {
		a.UserID = userID
		if err := insertAlertPgx(ctx, tx, a); err != nil {
			return err
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit append alerts")
}

func insertAlertPgx(ctx context.Context, tx pgx.Tx, a model.Alert) error {
	actions, err := json.Marshal(a.RecommendedActions)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal actions")
	}
	sources, err := json.Marshal(a.DataSources)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal data sources")
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO alerts (id, user_id, alert_type, risk_level, title, description,
			predicted_impact, recommended_actions, timeline_days, confidence,
			data_sources, created_at, expires_at, resolved)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		a.ID, a.UserID, string(a.Type), string(a.RiskLevel), a.Title, a.Description,
		a.PredictedImpact, actions, a.TimelineDays, a.Confidence,
		sources, a.CreatedAt.UTC(), a.ExpiresAt.UTC(), a.Resolved,
	)
	return eris.Wrapf(err, "postgres: insert alert %s", a.ID)
}

func (s *PostgresStore) ListAlerts(ctx context.Context, userID string) ([]model.Alert, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, alert_type, risk_level, title, description,
			predicted_impact, recommended_actions, timeline_days, confidence,
			data_sources, created_at, expires_at, resolved
		 FROM alerts WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list alerts")
	}
	defer rows.Close()

	var out []model.Alert
	for rows.Next() {
		var a model.Alert
		var alertType, riskLevel string
		var actions, sources []byte
		if err := rows.Scan(&a.ID, &a.UserID, &alertType, &riskLevel, &a.Title,
			&a.Description, &a.PredictedImpact, &actions, &a.TimelineDays,
			&a.Confidence, &sources, &a.CreatedAt, &a.ExpiresAt, &a.Resolved,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan alert")
		}
		a.Type = model.AlertType(alertType)
		a.RiskLevel = model.RiskLevel(riskLevel)
		if err := json.Unmarshal(actions, &a.RecommendedActions); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal actions")
		}
		if err := json.Unmarshal(sources, &a.DataSources); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal data sources")
		}
		out = append(out, a)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate alerts")
}

func (s *PostgresStore) ResolveAlert(ctx context.Context, userID, alertID string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE alerts SET resolved = true WHERE user_id = $1 AND id = $2`,
		userID, alertID,
	)
	if err != nil {
		return false, eris.Wrapf(err, "postgres: resolve alert %s", alertID)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) AppendScore(ctx context.Context, userID string, score model.Score) error {
	snapshot, err := json.Marshal(score)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal score")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO score_history (id, user_id, snapshot, calculated_at) VALUES ($1, $2, $3, $4)`,
		score.ID, userID, snapshot, score.CalculatedAt.UTC(),
	)
	return eris.Wrapf(err, "postgres: insert score %s", score.ID)
}

func (s *PostgresStore) ListScores(ctx context.Context, userID string, limit int) ([]model.Score, error) {
	query := `SELECT snapshot FROM score_history WHERE user_id = $1 ORDER BY calculated_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list scores")
	}
	defer rows.Close()

	var out []model.Score
	for rows.Next() {
		var snapshot []byte
		if err := rows.Scan(&snapshot); err != nil {
			return nil, eris.Wrap(err, "postgres: scan score")
		}
		var score model.Score
		if err := json.Unmarshal(snapshot, &score); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal score")
		}
		out = append(out, score)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate scores")
}
