package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driven"
)

// Ensure StateSigner implements the interface
var _ driven.StateSigner = (*StateSigner)(nil)

// stateTokenClaims wraps driven.StateClaims for JWT compatibility
type stateTokenClaims struct {
	Platform string `json:"platform"`
	jwt.RegisteredClaims
}

// StateSigner mints HS256-signed OAuth state values. The signature lets a
// callback be attributed to a user even when the in-memory tracker lost
// the pending flow, so the failure page can still deep-link that user.
type StateSigner struct {
	secret []byte
}

// NewStateSigner creates a state signer with the given signing secret.
func NewStateSigner(secret string) *StateSigner {
	return &StateSigner{secret: []byte(secret)}
}

// NewNonce returns a fresh unique token id for a state value.
func NewNonce() string {
	return uuid.NewString()
}

// Sign mints a state token carrying the claims, valid for ttl.
func (s *StateSigner) Sign(claims driven.StateClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	tc := stateTokenClaims{
		Platform: string(claims.Platform),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			ID:        claims.Nonce,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tc)
	return token.SignedString(s.secret)
}

// Verify validates a state token and extracts its claims.
func (s *StateSigner) Verify(state string) (*driven.StateClaims, error) {
	token, err := jwt.ParseWithClaims(state, &stateTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidOAuthState, err)
	}

	claims, ok := token.Claims.(*stateTokenClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidOAuthState
	}

	return &driven.StateClaims{
		UserID:   claims.Subject,
		Platform: domain.Provider(claims.Platform),
		Nonce:    claims.ID,
	}, nil
}
