// mock_storage.go - In-memory attempt history for testing
package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hotspot-trainer/backend/internal/models"
)

// MockHistory keeps attempts in memory. It satisfies storage.Store.
type MockHistory struct {
	mu       sync.RWMutex
	attempts []models.LevelAttempt
	nextID   int64

	// FailRecord makes RecordAttempt return an error.
	FailRecord bool
}

// NewMockHistory creates an empty history.
func NewMockHistory() *MockHistory {
	return &MockHistory{nextID: 1}
}

func (m *MockHistory) RecordAttempt(ctx context.Context, a *models.LevelAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRecord {
		return errors.New("history unavailable")
	}
	if a.RecordedAt.IsZero() {
		a.RecordedAt = time.Now()
	}
	a.ID = m.nextID
	m.nextID++
	m.attempts = append(m.attempts, *a)
	return nil
}

// ListAttempts returns the newest attempts first, like the DuckDB store.
func (m *MockHistory) ListAttempts(ctx context.Context, runID string, limit int) ([]models.LevelAttempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	out := make([]models.LevelAttempt, 0)
	for i := len(m.attempts) - 1; i >= 0 && len(out) < limit; i-- {
		if runID == "" || m.attempts[i].RunID == runID {
			out = append(out, m.attempts[i])
		}
	}
	return out, nil
}

func (m *MockHistory) Close() error {
	return nil
}

// Attempts returns every attempt in recording order.
func (m *MockHistory) Attempts() []models.LevelAttempt {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.LevelAttempt(nil), m.attempts...)
}
