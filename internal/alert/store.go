// Package alert turns risk findings into stored predictive alerts and
// exposes analytics over them.
package alert

import (
	"context"
	"sort"
	"sync"

	"github.com/greenledger/esg-compass/internal/model"
)

// Store persists alerts and score history per user.
type Store interface {
	// ReplaceAlerts swaps the user's unresolved generated alerts for a
	// fresh set, keeping resolved ones for the audit trail.
	ReplaceAlerts(ctx context.Context, userID string, alerts []model.Alert) error
	// AppendAlerts adds alerts without touching the existing set.
	AppendAlerts(ctx context.Context, userID string, alerts []model.Alert) error
	// ListAlerts returns all stored alerts for the user, newest first.
	ListAlerts(ctx context.Context, userID string) ([]model.Alert, error)
	// ResolveAlert marks an alert resolved. Returns false when the alert
	// does not belong to the user; resolving twice is a no-op success.
	ResolveAlert(ctx context.Context, userID, alertID string) (bool, error)
	// AppendScore records a score snapshot in the user's history.
	AppendScore(ctx context.Context, userID string, score model.Score) error
	// ListScores returns up to limit snapshots, most recent first.
	// limit <= 0 means no limit.
	ListScores(ctx context.Context, userID string, limit int) ([]model.Score, error)
	// Migrate creates backing tables where applicable.
	Migrate(ctx context.Context) error
	Close() error
}

// MemoryStore is the in-process Store used for tests and single-node
// deployments without a database.
type MemoryStore struct {
	mu     sync.RWMutex
	alerts map[string][]model.Alert
	scores map[string][]model.Score
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		alerts: make(map[string][]model.Alert),
		scores: make(map[string][]model.Score),
	}
}

func (s *MemoryStore) ReplaceAlerts(_ context.Context, userID string, alerts []model.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []model.Alert
	for _, a := range s.alerts[userID] {
		if a.Resolved {
			kept = append(kept, a)
		}
	}
	s.alerts[userID] = append(kept, alerts...)
	return nil
}

func (s *MemoryStore) AppendAlerts(_ context.Context, userID string, alerts []model.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts[userID] = append(s.alerts[userID], alerts...)
	return nil
}

func (s *MemoryStore) ListAlerts(_ context.Context, userID string) ([]model.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Alert, len(s.alerts[userID]))
	copy(out, s.alerts[userID])
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) ResolveAlert(_ context.Context, userID, alertID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alerts := s.alerts[userID]
	for i := range alerts {
		if alerts[i].ID == alertID {
			alerts[i].Resolved = true
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) AppendScore(_ context.Context, userID string, score model.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[userID] = append(s.scores[userID], score)
	return nil
}

func (s *MemoryStore) ListScores(_ context.Context, userID string, limit int) ([]model.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Score, len(s.scores[userID]))
	copy(out, s.scores[userID])
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CalculatedAt.After(out[j].CalculatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Migrate(_ context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
