package driving

import (
	"context"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
)

// PostRequest carries a publish request.
// @Description Content to publish to a social platform
type PostRequest struct {
	UserID   string `json:"user_id" example:"8412345"`
	Message  string `json:"message" example:"hello from telepost"`
	ImageURL string `json:"image_url,omitempty" example:"https://example.com/pic.jpg"`
}

// SocialController is the uniform per-provider posting contract.
// Every method resolves to a response envelope; callers dispatch on its
// Status field rather than on error values.
type SocialController interface {
	// Platform names the provider this controller serves.
	Platform() domain.Provider

	// GetUserAccount fetches the profile and metrics snapshot.
	GetUserAccount(ctx context.Context, userID string) domain.Envelope

	// Post publishes content to the platform.
	Post(ctx context.Context, req PostRequest) domain.Envelope

	// DeletePost removes a previously published post.
	DeletePost(ctx context.Context, userID, postID string) domain.Envelope

	// TokenValidity wraps the auth handler's validity snapshot.
	TokenValidity(ctx context.Context, userID string) domain.Envelope
}
