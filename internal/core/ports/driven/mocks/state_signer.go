package mocks

import (
	"errors"
	"time"

	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driven"
)

// MockStateSigner is a mock implementation of StateSigner for testing
type MockStateSigner struct {
	SignFn   func(claims driven.StateClaims, ttl time.Duration) (string, error)
	VerifyFn func(state string) (*driven.StateClaims, error)
}

func NewMockStateSigner() *MockStateSigner {
	return &MockStateSigner{}
}

func (m *MockStateSigner) Sign(claims driven.StateClaims, ttl time.Duration) (string, error) {
	if m.SignFn != nil {
		return m.SignFn(claims, ttl)
	}
	return "signed-" + claims.Nonce, nil
}

func (m *MockStateSigner) Verify(state string) (*driven.StateClaims, error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(state)
	}
	return nil, errors.New("unknown state")
}
