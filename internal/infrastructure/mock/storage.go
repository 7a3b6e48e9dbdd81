// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"sync"
)

// MockKeyValueStore is an in-memory KeyValueStore, also used when saved
// searches are not persisted
type MockKeyValueStore struct {
	mu       sync.Mutex
	values   map[string][]byte
	getError error
	setError error
}

// NewMockKeyValueStore creates an empty store
func NewMockKeyValueStore() *MockKeyValueStore {
	return &MockKeyValueStore{values: make(map[string][]byte)}
}

// Get implements KeyValueStore
func (m *MockKeyValueStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getError != nil {
		return nil, false, m.getError
	}
	value, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Set implements KeyValueStore
func (m *MockKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setError != nil {
		return m.setError
	}
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// SetGetError sets the mock error for Get calls
func (m *MockKeyValueStore) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getError = err
}

// SetSetError sets the mock error for Set calls
func (m *MockKeyValueStore) SetSetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setError = err
}
