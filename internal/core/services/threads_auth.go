package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driven"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driving"
)

// Ensure ThreadsAuthHandler implements the interface.
var _ driving.AuthHandler = (*ThreadsAuthHandler)(nil)

// ThreadsAuthHandlerConfig holds dependencies for the Threads auth handler.
type ThreadsAuthHandlerConfig struct {
	API         driven.ThreadsAPI
	Store       driven.CredentialStore
	Signer      driven.StateSigner
	RedirectURI string
	Scopes      []string
	Logger      *slog.Logger
}

// ThreadsAuthHandler runs the Threads authorization-code flow: a code is
// exchanged for a short-lived token, which is immediately traded up for a
// long-lived one. Long-lived tokens refresh through their own endpoint
// while unexpired.
type ThreadsAuthHandler struct {
	api         driven.ThreadsAPI
	store       driven.CredentialStore
	signer      driven.StateSigner
	tracker     *StateTracker
	redirectURI string
	scopes      []string
	logger      *slog.Logger
}

// NewThreadsAuthHandler creates the Threads auth handler with an empty
// transaction tracker.
func NewThreadsAuthHandler(cfg ThreadsAuthHandlerConfig) *ThreadsAuthHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ThreadsAuthHandler{
		api:         cfg.API,
		store:       cfg.Store,
		signer:      cfg.Signer,
		tracker:     NewStateTracker(),
		redirectURI: cfg.RedirectURI,
		scopes:      cfg.Scopes,
		logger:      logger,
	}
}

// Platform names the provider this handler serves.
func (h *ThreadsAuthHandler) Platform() domain.Provider { return domain.ProviderThreads }

// Tracker exposes the pending-transaction table. Used by Disconnect and
// by tests; request handling goes through the AuthHandler methods.
func (h *ThreadsAuthHandler) Tracker() *StateTracker { return h.tracker }

// Authorize starts an authorization flow and returns the URL the user
// must visit. Any pending flow for the user is replaced.
func (h *ThreadsAuthHandler) Authorize(ctx context.Context, userID string) (*domain.Authorization, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id", domain.ErrMissingParameter)
	}

	state, err := h.signer.Sign(driven.StateClaims{
		UserID:   userID,
		Platform: domain.ProviderThreads,
		Nonce:    uuid.NewString(),
	}, stateTTL)
	if err != nil {
		return nil, fmt.Errorf("sign oauth state: %w", err)
	}

	h.tracker.StoreState(userID, state, "")
	h.logger.Info("threads authorization started", "user_id", userID)

	return &domain.Authorization{URL: h.api.BuildAuthURL(state, h.redirectURI)}, nil
}

// CompleteAuthorization consumes the provider callback. The pending state
// is cleared on every terminal outcome so a failed exchange cannot leave
// a stuck transaction behind.
func (h *ThreadsAuthHandler) CompleteAuthorization(ctx context.Context, req driving.CallbackRequest) *driving.CallbackResult {
	result := &driving.CallbackResult{Platform: domain.ProviderThreads}

	userID, ok := h.tracker.UserIDFromState(req.State)
	if !ok {
		// The signature can still attribute the callback to a user for
		// the failure page, even though the flow itself is gone.
		if claims, err := h.signer.Verify(req.State); err == nil {
			result.UserID = claims.UserID
		}
		result.Err = domain.ErrInvalidOAuthState
		return result
	}
	result.UserID = userID
	defer h.tracker.ClearState(userID)

	if req.Error != "" {
		result.Err = fmt.Errorf("provider denied authorization: %s: %s", req.Error, req.ErrorDescription)
		return result
	}
	if req.Code == "" {
		result.Err = fmt.Errorf("%w: code", domain.ErrMissingParameter)
		return result
	}

	short, err := h.api.ExchangeCode(ctx, req.Code, req.RedirectURI)
	if err != nil {
		result.Err = fmt.Errorf("exchange authorization code: %w", err)
		return result
	}

	long, err := h.api.ExchangeLongLived(ctx, short.AccessToken)
	if err != nil {
		result.Err = fmt.Errorf("exchange long-lived token: %w", err)
		return result
	}

	creds := domain.ThreadsCredentials{
		AccessToken: long.AccessToken,
		UserID:      short.UserID,
		Scopes:      h.scopes,
		ShortLived:  false,
		Expiration:  time.Now().UTC().Add(time.Duration(long.ExpiresIn) * time.Second).Format(domain.ThreadsExpirationLayout),
	}

	payload, err := json.Marshal(creds)
	if err != nil {
		result.Err = fmt.Errorf("encode credentials: %w", err)
		return result
	}
	if err := h.store.Store(ctx, userID, domain.ProviderThreads, payload); err != nil {
		result.Err = err
		return result
	}

	h.logger.Info("threads account connected", "user_id", userID, "threads_user_id", short.UserID)
	return result
}

// credentials loads and decodes the stored payload.
// Returns domain.ErrNotConnected when nothing is stored.
func (h *ThreadsAuthHandler) credentials(ctx context.Context, userID string) (*domain.ThreadsCredentials, json.RawMessage, error) {
	payload, err := h.store.Get(ctx, userID, domain.ProviderThreads)
	if err != nil {
		return nil, nil, err
	}
	if payload == nil {
		return nil, nil, domain.ErrNotConnected
	}
	var creds domain.ThreadsCredentials
	if err := decodeCredentials(payload, &creds); err != nil {
		return nil, nil, err
	}
	return &creds, payload, nil
}

// VerifyCredentials confirms the stored token against the live profile
// endpoint. A provider rejection reads as invalid, not as an error.
func (h *ThreadsAuthHandler) VerifyCredentials(ctx context.Context, userID string) (bool, error) {
	creds, _, err := h.credentials(ctx, userID)
	if err != nil {
		return false, err
	}

	if _, err := h.api.GetProfile(ctx, creds.AccessToken, creds.UserID); err != nil {
		h.logger.Warn("threads token rejected by provider", "user_id", userID, "error", err)
		return false, nil
	}
	return true, nil
}

// CheckCredentialsExpiration reports whether the stored token is expired.
// Purely local; a safety margin counts tokens about to lapse as expired,
// and an unparseable expiration fails safe as expired.
func (h *ThreadsAuthHandler) CheckCredentialsExpiration(ctx context.Context, userID string) (bool, error) {
	creds, _, err := h.credentials(ctx, userID)
	if err != nil {
		return true, err
	}
	return threadsExpired(creds), nil
}

func threadsExpired(creds *domain.ThreadsCredentials) bool {
	exp, err := creds.ExpiresAt()
	if err != nil {
		return true
	}
	return expiredWithMargin(exp)
}

// CanRefreshToken reports whether the stored token can go through the
// refresh endpoint. Only long-lived tokens qualify.
func (h *ThreadsAuthHandler) CanRefreshToken(ctx context.Context, userID string) (bool, error) {
	creds, _, err := h.credentials(ctx, userID)
	if err != nil {
		return false, err
	}
	return creds.Refreshable(), nil
}

// RefreshToken extends the stored long-lived token and persists the new
// expiry. Failures reduce to false.
func (h *ThreadsAuthHandler) RefreshToken(ctx context.Context, userID string) bool {
	creds, _, err := h.credentials(ctx, userID)
	if err != nil {
		return false
	}
	if !creds.Refreshable() {
		return false
	}

	token, err := h.api.RefreshToken(ctx, creds.AccessToken)
	if err != nil {
		h.logger.Warn("threads token refresh failed", "user_id", userID, "error", err)
		return false
	}

	creds.AccessToken = token.AccessToken
	creds.ShortLived = false
	creds.Expiration = time.Now().UTC().Add(time.Duration(token.ExpiresIn) * time.Second).Format(domain.ThreadsExpirationLayout)

	payload, err := json.Marshal(creds)
	if err != nil {
		return false
	}
	if err := h.store.Store(ctx, userID, domain.ProviderThreads, payload); err != nil {
		h.logger.Error("store refreshed threads credentials", "user_id", userID, "error", err)
		return false
	}

	h.logger.Info("threads token refreshed", "user_id", userID)
	return true
}

// GetTokenValidity composes the full status snapshot in one read.
func (h *ThreadsAuthHandler) GetTokenValidity(ctx context.Context, userID string) (*domain.TokenValidity, error) {
	creds, _, err := h.credentials(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.TokenValidity{
		Valid:           !threadsExpired(creds),
		ExpiresIn:       creds.SecondsUntilExpiry(),
		RefreshPossible: creds.Refreshable(),
		Platform:        domain.ProviderThreads,
	}, nil
}

// IsConnected reports whether usable credentials exist. An expired token
// is refreshed when possible; otherwise the dead credential is deleted.
func (h *ThreadsAuthHandler) IsConnected(ctx context.Context, userID string) (bool, error) {
	_, err := h.ActiveCredentials(ctx, userID)
	switch {
	case err == nil:
		return true, nil
	case isNotUsable(err):
		return false, nil
	default:
		return false, err
	}
}

// ActiveCredentials returns the stored payload after the expiration
// policy ran: an expired token is refreshed when refreshable, deleted
// otherwise.
func (h *ThreadsAuthHandler) ActiveCredentials(ctx context.Context, userID string) ([]byte, error) {
	creds, payload, err := h.credentials(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !threadsExpired(creds) {
		return payload, nil
	}

	if creds.Refreshable() && h.RefreshToken(ctx, userID) {
		_, refreshed, err := h.credentials(ctx, userID)
		if err != nil {
			return nil, err
		}
		return refreshed, nil
	}

	if err := h.store.Delete(ctx, userID, domain.ProviderThreads); err != nil {
		return nil, err
	}
	h.logger.Info("expired threads credentials removed", "user_id", userID)
	return nil, domain.ErrExpiredCredentials
}

// Disconnect clears pending OAuth state and deletes stored credentials.
func (h *ThreadsAuthHandler) Disconnect(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user_id", domain.ErrMissingParameter)
	}
	h.tracker.ClearState(userID)
	if err := h.store.Delete(ctx, userID, domain.ProviderThreads); err != nil {
		return err
	}
	h.logger.Info("threads account disconnected", "user_id", userID)
	return nil
}
