package mocks

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
)

// MockCredentialStore is a mock implementation of CredentialStore for testing
type MockCredentialStore struct {
	mu          sync.RWMutex
	credentials map[string]json.RawMessage
}

// NewMockCredentialStore creates a new MockCredentialStore
func NewMockCredentialStore() *MockCredentialStore {
	return &MockCredentialStore{
		credentials: make(map[string]json.RawMessage),
	}
}

func credentialKey(userID string, provider domain.Provider) string {
	return userID + ":" + string(provider)
}

func (m *MockCredentialStore) Store(ctx context.Context, userID string, provider domain.Provider, payload json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make(json.RawMessage, len(payload))
	copy(stored, payload)
	m.credentials[credentialKey(userID, provider)] = stored
	return nil
}

func (m *MockCredentialStore) Get(ctx context.Context, userID string, provider domain.Provider) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	payload, ok := m.credentials[credentialKey(userID, provider)]
	if !ok {
		return nil, nil
	}
	return payload, nil
}

func (m *MockCredentialStore) Delete(ctx context.Context, userID string, provider domain.Provider) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.credentials, credentialKey(userID, provider))
	return nil
}

func (m *MockCredentialStore) Ping(ctx context.Context) error {
	return nil
}

// Count returns the number of stored credentials.
func (m *MockCredentialStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.credentials)
}
