package mocks

import "context"

// MockRateLimiter is a mock implementation of RateLimiter for testing
type MockRateLimiter struct {
	AllowFn func(ctx context.Context, key string) (bool, error)
}

func NewMockRateLimiter() *MockRateLimiter {
	return &MockRateLimiter{}
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if m.AllowFn != nil {
		return m.AllowFn(ctx, key)
	}
	return true, nil
}

func (m *MockRateLimiter) Ping(ctx context.Context) error {
	return nil
}
