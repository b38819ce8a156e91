package driving

import (
	"context"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
)

// CallbackRequest carries the query parameters of a provider redirect.
// @Description OAuth callback parameters from provider redirect
type CallbackRequest struct {
	// State is the CSRF token returned by the provider.
	State string `json:"state" example:"eyJhbGciOi..."`

	// Code is the authorization code from the provider.
	Code string `json:"code" example:"AQDx7..."`

	// Error is set if the provider returned an error.
	Error string `json:"error,omitempty" example:"access_denied"`

	// ErrorDescription provides details about the error.
	ErrorDescription string `json:"error_description,omitempty" example:"The user denied access"`

	// RedirectURI is the exact external callback URL the provider
	// redirected to, scheme-corrected behind proxies. Token exchange
	// must present this same value.
	RedirectURI string `json:"-"`
}

// CallbackResult is the terminal outcome of an authorization flow.
// UserID may be recovered from a signed state value even when the flow
// failed, so failure pages can still target the right user.
type CallbackResult struct {
	UserID   string
	Platform domain.Provider
	Err      error
}

// Succeeded reports whether the flow reached a stored credential.
func (r *CallbackResult) Succeeded() bool {
	return r.Err == nil
}

// AuthHandler is the uniform per-provider authorization contract.
// One long-lived instance exists per platform; each owns its pending
// OAuth transaction state.
type AuthHandler interface {
	// Platform names the provider this handler serves.
	Platform() domain.Provider

	// Authorize starts an authorization flow and returns the URL to
	// present to the user. Overwrites any pending flow for the user.
	// Returns domain.ErrMissingParameter when userID is empty.
	Authorize(ctx context.Context, userID string) (*domain.Authorization, error)

	// CompleteAuthorization consumes the provider callback: resolves the
	// user from tracked state, exchanges the code, stores credentials.
	// Pending state is cleared on every terminal outcome. Never panics and
	// never returns a nil result; failures land in CallbackResult.Err.
	CompleteAuthorization(ctx context.Context, req CallbackRequest) *CallbackResult

	// VerifyCredentials performs a live provider call to confirm the
	// stored token is actually accepted. Returns domain.ErrNotConnected
	// when nothing is stored.
	VerifyCredentials(ctx context.Context, userID string) (bool, error)

	// CheckCredentialsExpiration reports whether stored credentials are
	// expired. Purely local; unparseable expirations count as expired.
	CheckCredentialsExpiration(ctx context.Context, userID string) (bool, error)

	// CanRefreshToken reports whether stored credentials support a
	// refresh attempt.
	CanRefreshToken(ctx context.Context, userID string) (bool, error)

	// RefreshToken exchanges stored credentials for fresh ones and
	// persists them. Failures reduce to false, never an error.
	RefreshToken(ctx context.Context, userID string) bool

	// GetTokenValidity composes the full status snapshot in one read.
	GetTokenValidity(ctx context.Context, userID string) (*domain.TokenValidity, error)

	// IsConnected reports whether usable credentials exist. Expired and
	// unrefreshable credentials are deleted on the way.
	IsConnected(ctx context.Context, userID string) (bool, error)

	// ActiveCredentials returns the stored payload after the expiration
	// policy ran: refreshed when a refresh was needed and possible,
	// deleted with domain.ErrExpiredCredentials when not.
	ActiveCredentials(ctx context.Context, userID string) ([]byte, error)

	// Disconnect clears pending OAuth state and deletes stored
	// credentials. Both are idempotent.
	Disconnect(ctx context.Context, userID string) error
}
