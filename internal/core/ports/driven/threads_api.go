package driven

import (
	"context"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
)

// ThreadsToken is a token response from the Threads OAuth endpoints.
// ExpiresIn is zero for short-lived exchange responses, which carry no
// lifetime of their own.
type ThreadsToken struct {
	AccessToken string
	UserID      string
	ExpiresIn   int64
}

// ThreadsAPI is the outbound client for the Threads Graph API.
type ThreadsAPI interface {
	// BuildAuthURL returns the user-facing authorization URL for the flow
	// identified by state.
	BuildAuthURL(state, redirectURI string) string

	// ExchangeCode trades an authorization code for a short-lived token.
	ExchangeCode(ctx context.Context, code, redirectURI string) (*ThreadsToken, error)

	// ExchangeLongLived trades a short-lived token for a long-lived one.
	ExchangeLongLived(ctx context.Context, accessToken string) (*ThreadsToken, error)

	// RefreshToken extends an unexpired long-lived token.
	RefreshToken(ctx context.Context, accessToken string) (*ThreadsToken, error)

	// GetProfile fetches the authenticated user's profile.
	GetProfile(ctx context.Context, accessToken, userID string) (*domain.ThreadsAccount, error)

	// GetInsights fetches account-level metric totals.
	GetInsights(ctx context.Context, accessToken, userID string) (*domain.ThreadsInsights, error)

	// CreateContainer creates an unpublished post container and returns
	// its id.
	CreateContainer(ctx context.Context, accessToken, userID, text, imageURL string) (string, error)

	// ContainerStatus reports a container's readiness state.
	ContainerStatus(ctx context.Context, accessToken, containerID string) (string, error)

	// PublishContainer publishes a ready container and returns the post id.
	PublishContainer(ctx context.Context, accessToken, userID, containerID string) (string, error)

	// GetPost fetches a published post's permalink and timestamp.
	GetPost(ctx context.Context, accessToken, postID string) (*domain.PostReceipt, error)

	// DeletePost removes a published post.
	DeletePost(ctx context.Context, accessToken, postID string) error
}
