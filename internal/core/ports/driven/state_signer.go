package driven

import (
	"time"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
)

// StateClaims is the user context embedded in a signed OAuth state value.
type StateClaims struct {
	UserID   string
	Platform domain.Provider
	Nonce    string
}

// StateSigner mints and verifies signed OAuth state values.
// The in-memory tracker stays authoritative for pending flows; the
// signature only lets a callback that outlived the tracker (process
// restart) still be attributed to a user for the failure page.
type StateSigner interface {
	// Sign mints a state value carrying the claims, valid for ttl.
	Sign(claims StateClaims, ttl time.Duration) (string, error)

	// Verify checks the signature and expiry of a state value and
	// returns its claims.
	Verify(state string) (*StateClaims, error)
}
