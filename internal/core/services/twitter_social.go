package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driven"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driving"
)

// Ensure TwitterSocialController implements the interface.
var _ driving.SocialController = (*TwitterSocialController)(nil)

// TwitterSocialControllerConfig holds dependencies for the Twitter
// social controller.
type TwitterSocialControllerConfig struct {
	Auth   driving.AuthHandler
	API    driven.TwitterAPI
	Logger *slog.Logger
}

// TwitterSocialController runs posting and account operations against
// the Twitter v2 API. Unlike Threads, publishing is a single create call.
type TwitterSocialController struct {
	auth   driving.AuthHandler
	api    driven.TwitterAPI
	logger *slog.Logger
}

// NewTwitterSocialController creates the Twitter social controller.
func NewTwitterSocialController(cfg TwitterSocialControllerConfig) *TwitterSocialController {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TwitterSocialController{auth: cfg.Auth, api: cfg.API, logger: logger}
}

// Platform names the provider this controller serves.
func (c *TwitterSocialController) Platform() domain.Provider { return domain.ProviderTwitter }

func (c *TwitterSocialController) activeCredentials(ctx context.Context, userID string) (*domain.TwitterCredentials, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id", domain.ErrMissingParameter)
	}
	payload, err := c.auth.ActiveCredentials(ctx, userID)
	if err != nil {
		return nil, err
	}
	var creds domain.TwitterCredentials
	if err := decodeCredentials(payload, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// GetUserAccount fetches the profile snapshot with public metrics.
func (c *TwitterSocialController) GetUserAccount(ctx context.Context, userID string) domain.Envelope {
	creds, err := c.activeCredentials(ctx, userID)
	if err != nil {
		return envelopeFromError(domain.ProviderTwitter, err)
	}

	account, err := c.api.GetMe(ctx, creds.AccessToken)
	if err != nil {
		return envelopeFromError(domain.ProviderTwitter, err)
	}

	return domain.SuccessEnvelope(domain.ProviderTwitter, account)
}

// Post publishes a tweet. Media upload is not part of the v2 create
// endpoint; an image URL is appended to the text so the link unfurls.
func (c *TwitterSocialController) Post(ctx context.Context, req driving.PostRequest) domain.Envelope {
	if req.Message == "" {
		return domain.ErrorEnvelope(domain.ProviderTwitter, http.StatusBadRequest, "message is required")
	}

	creds, err := c.activeCredentials(ctx, req.UserID)
	if err != nil {
		return envelopeFromError(domain.ProviderTwitter, err)
	}

	text := req.Message
	if req.ImageURL != "" {
		text = text + " " + req.ImageURL
	}

	receipt, err := c.api.CreateTweet(ctx, creds.AccessToken, text)
	if err != nil {
		return envelopeFromError(domain.ProviderTwitter, err)
	}

	c.logger.Info("tweet published", "user_id", req.UserID, "post_id", receipt.ID)
	return domain.SuccessEnvelope(domain.ProviderTwitter, receipt)
}

// DeletePost removes a tweet.
func (c *TwitterSocialController) DeletePost(ctx context.Context, userID, postID string) domain.Envelope {
	if postID == "" {
		return domain.ErrorEnvelope(domain.ProviderTwitter, http.StatusBadRequest, "post id is required")
	}

	creds, err := c.activeCredentials(ctx, userID)
	if err != nil {
		return envelopeFromError(domain.ProviderTwitter, err)
	}

	deleted, err := c.api.DeleteTweet(ctx, creds.AccessToken, postID)
	if err != nil {
		return envelopeFromError(domain.ProviderTwitter, err)
	}

	c.logger.Info("tweet deleted", "user_id", userID, "post_id", postID, "confirmed", deleted)
	return domain.SuccessEnvelope(domain.ProviderTwitter, map[string]any{"id": postID, "deleted": deleted})
}

// TokenValidity wraps the auth handler's validity snapshot.
func (c *TwitterSocialController) TokenValidity(ctx context.Context, userID string) domain.Envelope {
	if userID == "" {
		return domain.ErrorEnvelope(domain.ProviderTwitter, http.StatusBadRequest, "user_id is required")
	}
	validity, err := c.auth.GetTokenValidity(ctx, userID)
	if err != nil {
		return envelopeFromError(domain.ProviderTwitter, err)
	}
	return domain.SuccessEnvelope(domain.ProviderTwitter, validity)
}
