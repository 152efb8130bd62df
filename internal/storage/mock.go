package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/FJavierRG/mansion-ambar/pkg/engine"
)

// MockStorage is an in-memory Storage for testing.
type MockStorage struct {
	mu        sync.RWMutex
	saves     map[uuid.UUID]*engine.SaveState
	pingError error
}

var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates an empty mock storage.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		saves: make(map[uuid.UUID]*engine.SaveState),
	}
}

// SetPingError configures the mock to fail on ping with the given error.
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error { return nil }

func (m *MockStorage) SaveSession(ctx context.Context, id uuid.UUID, s *engine.SaveState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.saves[id] = &cp
	return nil
}

func (m *MockStorage) LoadSession(ctx context.Context, id uuid.UUID) (*engine.SaveState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.saves[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.saves[id]; !ok {
		return ErrNotFound
	}
	delete(m.saves, id)
	return nil
}

func (m *MockStorage) ListSessions(ctx context.Context) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(m.saves))
	for id := range m.saves {
		ids = append(ids, id)
	}
	return ids, nil
}
