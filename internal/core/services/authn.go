package services

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
)

// expirySafetyMargin is subtracted from a token's remaining lifetime when
// deciding whether it is still usable. A token lapsing mid publish
// round-trip is as good as expired.
const expirySafetyMargin = 60 * time.Second

// generateCodeVerifier returns a PKCE code verifier: 64 random bytes,
// URL-safe base64 without padding, within RFC 7636 length bounds.
func generateCodeVerifier() (string, error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate code verifier: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// decodeCredentials unmarshals a stored payload into the provider's
// credential type. Stored payloads only ever come from our own Store
// calls, so a decode failure means storage corruption, not user input.
func decodeCredentials(payload json.RawMessage, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: decode stored credentials: %w", domain.ErrStorage, err)
	}
	return nil
}

// expiredWithMargin reports whether an expiration instant is within the
// safety margin of now, or already past.
func expiredWithMargin(expiresAt time.Time) bool {
	return time.Until(expiresAt) <= expirySafetyMargin
}

// isNotUsable reports whether err means "no usable credentials" rather
// than an infrastructure failure.
func isNotUsable(err error) bool {
	return errors.Is(err, domain.ErrNotConnected) || errors.Is(err, domain.ErrExpiredCredentials)
}
