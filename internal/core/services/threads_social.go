package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driven"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driving"
)

// Ensure ThreadsSocialController implements the interface.
var _ driving.SocialController = (*ThreadsSocialController)(nil)

const (
	// containerPollAttempts bounds how long we wait for a Threads post
	// container to reach FINISHED before giving up.
	containerPollAttempts = 10
	containerPollInterval = time.Second
)

// ThreadsSocialControllerConfig holds dependencies for the Threads
// social controller.
type ThreadsSocialControllerConfig struct {
	Auth   driving.AuthHandler
	API    driven.ThreadsAPI
	Logger *slog.Logger
}

// ThreadsSocialController runs posting and account operations against
// Threads. Credential retrieval and the expiration policy are delegated
// to the auth handler; this controller only ever sees active tokens.
type ThreadsSocialController struct {
	auth   driving.AuthHandler
	api    driven.ThreadsAPI
	logger *slog.Logger
}

// NewThreadsSocialController creates the Threads social controller.
func NewThreadsSocialController(cfg ThreadsSocialControllerConfig) *ThreadsSocialController {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ThreadsSocialController{auth: cfg.Auth, api: cfg.API, logger: logger}
}

// Platform names the provider this controller serves.
func (c *ThreadsSocialController) Platform() domain.Provider { return domain.ProviderThreads }

// activeCredentials resolves a usable token through the auth handler.
func (c *ThreadsSocialController) activeCredentials(ctx context.Context, userID string) (*domain.ThreadsCredentials, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id", domain.ErrMissingParameter)
	}
	payload, err := c.auth.ActiveCredentials(ctx, userID)
	if err != nil {
		return nil, err
	}
	var creds domain.ThreadsCredentials
	if err := decodeCredentials(payload, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// GetUserAccount fetches the profile and metrics snapshot. A failing
// insights call degrades to zeroed metrics; profile availability must
// not hinge on the metrics endpoint.
func (c *ThreadsSocialController) GetUserAccount(ctx context.Context, userID string) domain.Envelope {
	creds, err := c.activeCredentials(ctx, userID)
	if err != nil {
		return envelopeFromError(domain.ProviderThreads, err)
	}

	account, err := c.api.GetProfile(ctx, creds.AccessToken, creds.UserID)
	if err != nil {
		return envelopeFromError(domain.ProviderThreads, err)
	}

	insights, err := c.api.GetInsights(ctx, creds.AccessToken, creds.UserID)
	if err != nil {
		c.logger.Warn("threads insights unavailable", "user_id", userID, "error", err)
	} else {
		account.Insights = *insights
	}

	return domain.SuccessEnvelope(domain.ProviderThreads, account)
}

// Post publishes content as a two-phase Threads publish: create a
// container, wait for it to become ready, publish it, then fetch the
// published object. A container that was created but never published is
// reported as its own error state, container id included.
func (c *ThreadsSocialController) Post(ctx context.Context, req driving.PostRequest) domain.Envelope {
	if req.Message == "" && req.ImageURL == "" {
		return domain.ErrorEnvelope(domain.ProviderThreads, http.StatusBadRequest, "message or image_url is required")
	}

	creds, err := c.activeCredentials(ctx, req.UserID)
	if err != nil {
		return envelopeFromError(domain.ProviderThreads, err)
	}

	containerID, err := c.api.CreateContainer(ctx, creds.AccessToken, creds.UserID, req.Message, req.ImageURL)
	if err != nil {
		return envelopeFromError(domain.ProviderThreads, &domain.PublishError{Stage: domain.PublishStageContainer, Err: err})
	}

	if err := c.awaitContainer(ctx, creds.AccessToken, containerID); err != nil {
		return envelopeFromError(domain.ProviderThreads, &domain.PublishError{Stage: domain.PublishStagePublish, ContainerID: containerID, Err: err})
	}

	postID, err := c.api.PublishContainer(ctx, creds.AccessToken, creds.UserID, containerID)
	if err != nil {
		return envelopeFromError(domain.ProviderThreads, &domain.PublishError{Stage: domain.PublishStagePublish, ContainerID: containerID, Err: err})
	}

	receipt, err := c.api.GetPost(ctx, creds.AccessToken, postID)
	if err != nil {
		// The post is live even though the read-back failed; return what
		// we know rather than reporting a publish failure.
		c.logger.Warn("published thread read-back failed", "user_id", req.UserID, "post_id", postID, "error", err)
		receipt = &domain.PostReceipt{ID: postID, Timestamp: time.Now().UTC()}
	}

	c.logger.Info("thread published", "user_id", req.UserID, "post_id", receipt.ID)
	return domain.SuccessEnvelope(domain.ProviderThreads, receipt)
}

// awaitContainer polls the container status until it is ready.
func (c *ThreadsSocialController) awaitContainer(ctx context.Context, accessToken, containerID string) error {
	for attempt := 0; attempt < containerPollAttempts; attempt++ {
		status, err := c.api.ContainerStatus(ctx, accessToken, containerID)
		if err != nil {
			return err
		}
		switch status {
		case "FINISHED":
			return nil
		case "ERROR", "EXPIRED":
			return fmt.Errorf("container entered %s state", status)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(containerPollInterval):
		}
	}
	return fmt.Errorf("container not ready after %d checks", containerPollAttempts)
}

// DeletePost removes a published thread.
func (c *ThreadsSocialController) DeletePost(ctx context.Context, userID, postID string) domain.Envelope {
	if postID == "" {
		return domain.ErrorEnvelope(domain.ProviderThreads, http.StatusBadRequest, "post id is required")
	}

	creds, err := c.activeCredentials(ctx, userID)
	if err != nil {
		return envelopeFromError(domain.ProviderThreads, err)
	}

	if err := c.api.DeletePost(ctx, creds.AccessToken, postID); err != nil {
		return envelopeFromError(domain.ProviderThreads, err)
	}

	c.logger.Info("thread deleted", "user_id", userID, "post_id", postID)
	return domain.SuccessEnvelope(domain.ProviderThreads, map[string]any{"id": postID, "deleted": true})
}

// TokenValidity wraps the auth handler's validity snapshot.
func (c *ThreadsSocialController) TokenValidity(ctx context.Context, userID string) domain.Envelope {
	if userID == "" {
		return domain.ErrorEnvelope(domain.ProviderThreads, http.StatusBadRequest, "user_id is required")
	}
	validity, err := c.auth.GetTokenValidity(ctx, userID)
	if err != nil {
		return envelopeFromError(domain.ProviderThreads, err)
	}
	return domain.SuccessEnvelope(domain.ProviderThreads, validity)
}
