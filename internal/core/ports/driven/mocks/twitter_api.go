package mocks

import (
	"context"
	"time"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driven"
)

// MockTwitterAPI is a mock implementation of TwitterAPI for testing
type MockTwitterAPI struct {
	BuildAuthURLFn func(state, verifier, redirectURI string) string
	ExchangeCodeFn func(ctx context.Context, code, verifier, redirectURI string) (*driven.TwitterToken, error)
	RefreshTokenFn func(ctx context.Context, refreshToken string) (*driven.TwitterToken, error)
	GetMeFn        func(ctx context.Context, accessToken string) (*domain.TwitterAccount, error)
	CreateTweetFn  func(ctx context.Context, accessToken, text string) (*domain.PostReceipt, error)
	DeleteTweetFn  func(ctx context.Context, accessToken, tweetID string) (bool, error)
}

func NewMockTwitterAPI() *MockTwitterAPI {
	return &MockTwitterAPI{}
}

func (m *MockTwitterAPI) BuildAuthURL(state, verifier, redirectURI string) string {
	if m.BuildAuthURLFn != nil {
		return m.BuildAuthURLFn(state, verifier, redirectURI)
	}
	return "https://twitter.com/i/oauth2/authorize?state=" + state
}

func (m *MockTwitterAPI) ExchangeCode(ctx context.Context, code, verifier, redirectURI string) (*driven.TwitterToken, error) {
	if m.ExchangeCodeFn != nil {
		return m.ExchangeCodeFn(ctx, code, verifier, redirectURI)
	}
	return &driven.TwitterToken{
		TokenType:    "bearer",
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(2 * time.Hour).Unix(),
		Scope:        "tweet.read tweet.write users.read offline.access",
	}, nil
}

func (m *MockTwitterAPI) RefreshToken(ctx context.Context, refreshToken string) (*driven.TwitterToken, error) {
	if m.RefreshTokenFn != nil {
		return m.RefreshTokenFn(ctx, refreshToken)
	}
	return &driven.TwitterToken{
		TokenType:    "bearer",
		AccessToken:  "refreshed-access-token",
		RefreshToken: "rotated-refresh-token",
		ExpiresAt:    time.Now().Add(2 * time.Hour).Unix(),
	}, nil
}

func (m *MockTwitterAPI) GetMe(ctx context.Context, accessToken string) (*domain.TwitterAccount, error) {
	if m.GetMeFn != nil {
		return m.GetMeFn(ctx, accessToken)
	}
	return &domain.TwitterAccount{ID: "twitter-user", Username: "mockuser"}, nil
}

func (m *MockTwitterAPI) CreateTweet(ctx context.Context, accessToken, text string) (*domain.PostReceipt, error) {
	if m.CreateTweetFn != nil {
		return m.CreateTweetFn(ctx, accessToken, text)
	}
	return &domain.PostReceipt{ID: "tweet-1", Timestamp: time.Now()}, nil
}

func (m *MockTwitterAPI) DeleteTweet(ctx context.Context, accessToken, tweetID string) (bool, error) {
	if m.DeleteTweetFn != nil {
		return m.DeleteTweetFn(ctx, accessToken, tweetID)
	}
	return true, nil
}
