package driven

import (
	"context"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
)

// TwitterToken is a token response from the Twitter OAuth endpoints.
// ExpiresAt is UNIX epoch seconds.
type TwitterToken struct {
	TokenType    string
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
	Scope        string
}

// TwitterAPI is the outbound client for the Twitter v2 API.
type TwitterAPI interface {
	// BuildAuthURL returns the authorization URL carrying the PKCE
	// challenge derived from verifier.
	BuildAuthURL(state, verifier, redirectURI string) string

	// ExchangeCode trades an authorization code plus PKCE verifier for a
	// token pair.
	ExchangeCode(ctx context.Context, code, verifier, redirectURI string) (*TwitterToken, error)

	// RefreshToken trades a refresh token for a fresh token pair.
	// When the provider omits a rotated refresh token the old one is kept.
	RefreshToken(ctx context.Context, refreshToken string) (*TwitterToken, error)

	// GetMe fetches the authenticated user's profile.
	GetMe(ctx context.Context, accessToken string) (*domain.TwitterAccount, error)

	// CreateTweet posts a tweet and returns its receipt.
	CreateTweet(ctx context.Context, accessToken, text string) (*domain.PostReceipt, error)

	// DeleteTweet removes a tweet. The returned flag reports whether the
	// provider confirmed the deletion.
	DeleteTweet(ctx context.Context, accessToken, tweetID string) (bool, error)
}
