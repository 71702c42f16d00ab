package storage

import (
	"context"
	"sync"
)

// MockStore is an in-memory Store used by tests and the "memory" backend.
type MockStore struct {
	mu        sync.RWMutex
	values    map[string]string
	pingError error
	getError  error
	setError  error
	sets      int
}

// Ensure MockStore implements Store interface
var _ Store = (*MockStore)(nil)

// NewMockStore creates a new mock store
func NewMockStore() *MockStore {
	return &MockStore{
		values: make(map[string]string),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetGetError configures the mock to fail every Get
func (m *MockStore) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getError = err
}

// SetSetError configures the mock to fail every Set
func (m *MockStore) SetSetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setError = err
}

// Put seeds a raw value, bypassing Set accounting
func (m *MockStore) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// SetCalls returns how many successful Set calls were made
func (m *MockStore) SetCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sets
}

func (m *MockStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getError != nil {
		return "", false, m.getError
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MockStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setError != nil {
		return m.setError
	}
	m.values[key] = value
	m.sets++
	return nil
}

func (m *MockStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return m.getError
	}
	cur, ok := m.values[key]
	value, changed, err := fn(cur, ok)
	if err != nil || !changed {
		return err
	}
	if m.setError != nil {
		return m.setError
	}
	m.values[key] = value
	m.sets++
	return nil
}
