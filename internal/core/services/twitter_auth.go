package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driven"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driving"
)

// Ensure TwitterAuthHandler implements the interface.
var _ driving.AuthHandler = (*TwitterAuthHandler)(nil)

// TwitterAuthHandlerConfig holds dependencies for the Twitter auth handler.
type TwitterAuthHandlerConfig struct {
	API         driven.TwitterAPI
	Store       driven.CredentialStore
	Signer      driven.StateSigner
	RedirectURI string
	Logger      *slog.Logger
}

// TwitterAuthHandler runs the Twitter OAuth2 authorization-code flow with
// PKCE. Tokens expire on an epoch-seconds clock and refresh through the
// refresh_token grant while the refresh token is within the provider's
// acceptance window.
type TwitterAuthHandler struct {
	api         driven.TwitterAPI
	store       driven.CredentialStore
	signer      driven.StateSigner
	tracker     *StateTracker
	redirectURI string
	logger      *slog.Logger
}

// NewTwitterAuthHandler creates the Twitter auth handler with an empty
// transaction tracker.
func NewTwitterAuthHandler(cfg TwitterAuthHandlerConfig) *TwitterAuthHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TwitterAuthHandler{
		api:         cfg.API,
		store:       cfg.Store,
		signer:      cfg.Signer,
		tracker:     NewStateTracker(),
		redirectURI: cfg.RedirectURI,
		logger:      logger,
	}
}

// Platform names the provider this handler serves.
func (h *TwitterAuthHandler) Platform() domain.Provider { return domain.ProviderTwitter }

// Tracker exposes the pending-transaction table.
func (h *TwitterAuthHandler) Tracker() *StateTracker { return h.tracker }

// Authorize starts an authorization flow and returns the URL the user
// must visit. Generates a fresh PKCE verifier per flow; any pending flow
// for the user is replaced.
func (h *TwitterAuthHandler) Authorize(ctx context.Context, userID string) (*domain.Authorization, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id", domain.ErrMissingParameter)
	}

	state, err := h.signer.Sign(driven.StateClaims{
		UserID:   userID,
		Platform: domain.ProviderTwitter,
		Nonce:    uuid.NewString(),
	}, stateTTL)
	if err != nil {
		return nil, fmt.Errorf("sign oauth state: %w", err)
	}

	verifier, err := generateCodeVerifier()
	if err != nil {
		return nil, err
	}

	h.tracker.StoreState(userID, state, verifier)
	h.logger.Info("twitter authorization started", "user_id", userID)

	return &domain.Authorization{URL: h.api.BuildAuthURL(state, verifier, h.redirectURI)}, nil
}

// CompleteAuthorization consumes the provider callback. The pending state
// is cleared on every terminal outcome.
func (h *TwitterAuthHandler) CompleteAuthorization(ctx context.Context, req driving.CallbackRequest) *driving.CallbackResult {
	result := &driving.CallbackResult{Platform: domain.ProviderTwitter}

	userID, ok := h.tracker.UserIDFromState(req.State)
	if !ok {
		if claims, err := h.signer.Verify(req.State); err == nil {
			result.UserID = claims.UserID
		}
		result.Err = domain.ErrInvalidOAuthState
		return result
	}
	result.UserID = userID
	verifier, _ := h.tracker.CodeVerifierFromState(req.State)
	defer h.tracker.ClearState(userID)

	if req.Error != "" {
		result.Err = fmt.Errorf("provider denied authorization: %s: %s", req.Error, req.ErrorDescription)
		return result
	}
	if req.Code == "" {
		result.Err = fmt.Errorf("%w: code", domain.ErrMissingParameter)
		return result
	}

	token, err := h.api.ExchangeCode(ctx, req.Code, verifier, req.RedirectURI)
	if err != nil {
		result.Err = fmt.Errorf("exchange authorization code: %w", err)
		return result
	}

	creds := domain.TwitterCredentials{
		TokenType:    token.TokenType,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.ExpiresAt,
		Scope:        token.Scope,
	}

	payload, err := json.Marshal(creds)
	if err != nil {
		result.Err = fmt.Errorf("encode credentials: %w", err)
		return result
	}
	if err := h.store.Store(ctx, userID, domain.ProviderTwitter, payload); err != nil {
		result.Err = err
		return result
	}

	h.logger.Info("twitter account connected", "user_id", userID)
	return result
}

// credentials loads and decodes the stored payload.
// Returns domain.ErrNotConnected when nothing is stored.
func (h *TwitterAuthHandler) credentials(ctx context.Context, userID string) (*domain.TwitterCredentials, json.RawMessage, error) {
	payload, err := h.store.Get(ctx, userID, domain.ProviderTwitter)
	if err != nil {
		return nil, nil, err
	}
	if payload == nil {
		return nil, nil, domain.ErrNotConnected
	}
	var creds domain.TwitterCredentials
	if err := decodeCredentials(payload, &creds); err != nil {
		return nil, nil, err
	}
	return &creds, payload, nil
}

// VerifyCredentials confirms the stored token against the live users/me
// endpoint. A provider rejection reads as invalid, not as an error.
func (h *TwitterAuthHandler) VerifyCredentials(ctx context.Context, userID string) (bool, error) {
	creds, _, err := h.credentials(ctx, userID)
	if err != nil {
		return false, err
	}

	if _, err := h.api.GetMe(ctx, creds.AccessToken); err != nil {
		h.logger.Warn("twitter token rejected by provider", "user_id", userID, "error", err)
		return false, nil
	}
	return true, nil
}

// CheckCredentialsExpiration reports whether the stored token is expired.
// Purely local; a safety margin counts tokens about to lapse as expired,
// and a missing expiration fails safe as expired.
func (h *TwitterAuthHandler) CheckCredentialsExpiration(ctx context.Context, userID string) (bool, error) {
	creds, _, err := h.credentials(ctx, userID)
	if err != nil {
		return true, err
	}
	return twitterExpired(creds), nil
}

func twitterExpired(creds *domain.TwitterCredentials) bool {
	if creds.ExpiresAt == 0 {
		return true
	}
	return expiredWithMargin(creds.ExpiryTime())
}

// CanRefreshToken reports whether a refresh attempt is worthwhile: a
// refresh token must be present and not too far past expiry.
func (h *TwitterAuthHandler) CanRefreshToken(ctx context.Context, userID string) (bool, error) {
	creds, _, err := h.credentials(ctx, userID)
	if err != nil {
		return false, err
	}
	return creds.CanRefresh(), nil
}

// RefreshToken trades the stored refresh token for a fresh pair and
// persists it. The provider rotates refresh tokens; when it omits one
// the old token is kept. Failures reduce to false.
func (h *TwitterAuthHandler) RefreshToken(ctx context.Context, userID string) bool {
	creds, _, err := h.credentials(ctx, userID)
	if err != nil {
		return false
	}
	if !creds.CanRefresh() {
		return false
	}

	token, err := h.api.RefreshToken(ctx, creds.RefreshToken)
	if err != nil {
		h.logger.Warn("twitter token refresh failed", "user_id", userID, "error", err)
		return false
	}

	creds.AccessToken = token.AccessToken
	creds.ExpiresAt = token.ExpiresAt
	if token.TokenType != "" {
		creds.TokenType = token.TokenType
	}
	if token.RefreshToken != "" {
		creds.RefreshToken = token.RefreshToken
	}
	if token.Scope != "" {
		creds.Scope = token.Scope
	}

	payload, err := json.Marshal(creds)
	if err != nil {
		return false
	}
	if err := h.store.Store(ctx, userID, domain.ProviderTwitter, payload); err != nil {
		h.logger.Error("store refreshed twitter credentials", "user_id", userID, "error", err)
		return false
	}

	h.logger.Info("twitter token refreshed", "user_id", userID)
	return true
}

// GetTokenValidity composes the full status snapshot in one read.
func (h *TwitterAuthHandler) GetTokenValidity(ctx context.Context, userID string) (*domain.TokenValidity, error) {
	creds, _, err := h.credentials(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.TokenValidity{
		Valid:           !twitterExpired(creds),
		ExpiresIn:       creds.SecondsUntilExpiry(),
		RefreshPossible: creds.CanRefresh(),
		Platform:        domain.ProviderTwitter,
	}, nil
}

// IsConnected reports whether usable credentials exist. An expired token
// is refreshed when possible; otherwise the dead credential is deleted.
func (h *TwitterAuthHandler) IsConnected(ctx context.Context, userID string) (bool, error) {
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
func (h *TwitterAuthHandler) ActiveCredentials(ctx context.Context, userID string) ([]byte, error) {
	creds, payload, err := h.credentials(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !twitterExpired(creds) {
		return payload, nil
	}

	if creds.CanRefresh() && h.RefreshToken(ctx, userID) {
		_, refreshed, err := h.credentials(ctx, userID)
		if err != nil {
			return nil, err
		}
		return refreshed, nil
	}

	if err := h.store.Delete(ctx, userID, domain.ProviderTwitter); err != nil {
		return nil, err
	}
	h.logger.Info("expired twitter credentials removed", "user_id", userID)
	return nil, domain.ErrExpiredCredentials
}

// Disconnect clears pending OAuth state and deletes stored credentials.
func (h *TwitterAuthHandler) Disconnect(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user_id", domain.ErrMissingParameter)
	}
	h.tracker.ClearState(userID)
	if err := h.store.Delete(ctx, userID, domain.ProviderTwitter); err != nil {
		return err
	}
	h.logger.Info("twitter account disconnected", "user_id", userID)
	return nil
}
