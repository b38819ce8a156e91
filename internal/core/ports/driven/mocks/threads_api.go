package mocks

import (
	"context"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driven"
)

// MockThreadsAPI is a mock implementation of ThreadsAPI for testing
type MockThreadsAPI struct {
	BuildAuthURLFn      func(state, redirectURI string) string
	ExchangeCodeFn      func(ctx context.Context, code, redirectURI string) (*driven.ThreadsToken, error)
	ExchangeLongLivedFn func(ctx context.Context, accessToken string) (*driven.ThreadsToken, error)
	RefreshTokenFn      func(ctx context.Context, accessToken string) (*driven.ThreadsToken, error)
	GetProfileFn        func(ctx context.Context, accessToken, userID string) (*domain.ThreadsAccount, error)
	GetInsightsFn       func(ctx context.Context, accessToken, userID string) (*domain.ThreadsInsights, error)
	CreateContainerFn   func(ctx context.Context, accessToken, userID, text, imageURL string) (string, error)
	ContainerStatusFn   func(ctx context.Context, accessToken, containerID string) (string, error)
	PublishContainerFn  func(ctx context.Context, accessToken, userID, containerID string) (string, error)
	GetPostFn           func(ctx context.Context, accessToken, postID string) (*domain.PostReceipt, error)
	DeletePostFn        func(ctx context.Context, accessToken, postID string) error
}

func NewMockThreadsAPI() *MockThreadsAPI {
	return &MockThreadsAPI{}
}

func (m *MockThreadsAPI) BuildAuthURL(state, redirectURI string) string {
	if m.BuildAuthURLFn != nil {
		return m.BuildAuthURLFn(state, redirectURI)
	}
	return "https://threads.net/oauth/authorize?state=" + state
}

func (m *MockThreadsAPI) ExchangeCode(ctx context.Context, code, redirectURI string) (*driven.ThreadsToken, error) {
	if m.ExchangeCodeFn != nil {
		return m.ExchangeCodeFn(ctx, code, redirectURI)
	}
	return &driven.ThreadsToken{AccessToken: "short-lived-token", UserID: "threads-user"}, nil
}

func (m *MockThreadsAPI) ExchangeLongLived(ctx context.Context, accessToken string) (*driven.ThreadsToken, error) {
	if m.ExchangeLongLivedFn != nil {
		return m.ExchangeLongLivedFn(ctx, accessToken)
	}
	return &driven.ThreadsToken{AccessToken: "long-lived-token", ExpiresIn: 5184000}, nil
}

func (m *MockThreadsAPI) RefreshToken(ctx context.Context, accessToken string) (*driven.ThreadsToken, error) {
	if m.RefreshTokenFn != nil {
		return m.RefreshTokenFn(ctx, accessToken)
	}
	return &driven.ThreadsToken{AccessToken: "refreshed-token", ExpiresIn: 5184000}, nil
}

func (m *MockThreadsAPI) GetProfile(ctx context.Context, accessToken, userID string) (*domain.ThreadsAccount, error) {
	if m.GetProfileFn != nil {
		return m.GetProfileFn(ctx, accessToken, userID)
	}
	return &domain.ThreadsAccount{ID: userID, Username: "mockuser"}, nil
}

func (m *MockThreadsAPI) GetInsights(ctx context.Context, accessToken, userID string) (*domain.ThreadsInsights, error) {
	if m.GetInsightsFn != nil {
		return m.GetInsightsFn(ctx, accessToken, userID)
	}
	return &domain.ThreadsInsights{}, nil
}

func (m *MockThreadsAPI) CreateContainer(ctx context.Context, accessToken, userID, text, imageURL string) (string, error) {
	if m.CreateContainerFn != nil {
		return m.CreateContainerFn(ctx, accessToken, userID, text, imageURL)
	}
	return "container-1", nil
}

func (m *MockThreadsAPI) ContainerStatus(ctx context.Context, accessToken, containerID string) (string, error) {
	if m.ContainerStatusFn != nil {
		return m.ContainerStatusFn(ctx, accessToken, containerID)
	}
	return "FINISHED", nil
}

func (m *MockThreadsAPI) PublishContainer(ctx context.Context, accessToken, userID, containerID string) (string, error) {
	if m.PublishContainerFn != nil {
		return m.PublishContainerFn(ctx, accessToken, userID, containerID)
	}
	return "post-1", nil
}

func (m *MockThreadsAPI) GetPost(ctx context.Context, accessToken, postID string) (*domain.PostReceipt, error) {
	if m.GetPostFn != nil {
		return m.GetPostFn(ctx, accessToken, postID)
	}
	return &domain.PostReceipt{ID: postID}, nil
}

func (m *MockThreadsAPI) DeletePost(ctx context.Context, accessToken, postID string) error {
	if m.DeletePostFn != nil {
		return m.DeletePostFn(ctx, accessToken, postID)
	}
	return nil
}
