package domain

import (
	"strings"
	"time"
)

// ThreadsExpirationLayout renders an expiration timestamp with microsecond
// precision and an explicit UTC offset, matching what the token endpoints
// store and return.
const ThreadsExpirationLayout = "2006-01-02T15:04:05.000000-07:00"

// TwitterRefreshWindow is how long past expiry a Twitter refresh token is
// still accepted by the provider.
const TwitterRefreshWindow = 24 * time.Hour

// ThreadsCredentials is the stored credential payload for a Threads account.
// Expiration stays a string so the stored value round-trips byte for byte.
type ThreadsCredentials struct {
	AccessToken string   `json:"access_token"`
	UserID      string   `json:"user_id"`
	Scopes      []string `json:"scopes,omitempty"`
	ShortLived  bool     `json:"short_lived"`
	Expiration  string   `json:"expiration"`
}

// ExpiresAt parses the stored expiration timestamp.
func (c *ThreadsCredentials) ExpiresAt() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, c.Expiration)
}

// SecondsUntilExpiry returns the remaining token lifetime, clamped at zero.
// A missing or unparseable expiration counts as already expired.
func (c *ThreadsCredentials) SecondsUntilExpiry() int64 {
	exp, err := c.ExpiresAt()
	if err != nil {
		return 0
	}
	remaining := int64(time.Until(exp).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Refreshable reports whether the token can go through the refresh endpoint.
// Only long-lived Threads tokens are refreshable.
func (c *ThreadsCredentials) Refreshable() bool {
	return !c.ShortLived
}

// TwitterCredentials is the stored credential payload for a Twitter account.
// ExpiresAt is UNIX epoch seconds as returned by the token endpoint.
type TwitterCredentials struct {
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresAt    int64  `json:"expires_at"`
	Scope        string `json:"scope,omitempty"`
}

// ExpiryTime converts the epoch expiration to a time.Time.
func (c *TwitterCredentials) ExpiryTime() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

// SecondsUntilExpiry returns the remaining token lifetime, clamped at zero.
func (c *TwitterCredentials) SecondsUntilExpiry() int64 {
	if c.ExpiresAt == 0 {
		return 0
	}
	remaining := int64(time.Until(c.ExpiryTime()).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CanRefresh reports whether a refresh grant is still worth attempting.
// Requires a refresh token and an expiry no further than the provider's
// refresh window in the past.
func (c *TwitterCredentials) CanRefresh() bool {
	if c.RefreshToken == "" {
		return false
	}
	if c.ExpiresAt == 0 {
		return true
	}
	return time.Since(c.ExpiryTime()) <= TwitterRefreshWindow
}

// ScopeList splits the space-delimited scope string.
func (c *TwitterCredentials) ScopeList() []string {
	if c.Scope == "" {
		return nil
	}
	return strings.Fields(c.Scope)
}
