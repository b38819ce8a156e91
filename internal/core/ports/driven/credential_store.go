package driven

import (
	"context"
	"encoding/json"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
)

// CredentialStore persists encrypted provider credentials keyed by
// (external user id, provider). Payloads are opaque provider-defined JSON;
// the store never inspects them.
type CredentialStore interface {
	// Store encrypts and upserts the credential payload for the user.
	// Storing over an existing credential replaces it.
	Store(ctx context.Context, userID string, provider domain.Provider, payload json.RawMessage) error

	// Get decrypts and returns the stored payload.
	// Returns nil, nil when no credential is stored.
	// A decryption failure surfaces as an error wrapping domain.ErrStorage,
	// never as an absent credential.
	Get(ctx context.Context, userID string, provider domain.Provider) (json.RawMessage, error)

	// Delete removes the stored credential for the provider.
	// Deleting an absent credential is not an error.
	Delete(ctx context.Context, userID string, provider domain.Provider) error

	// Ping checks storage connectivity.
	Ping(ctx context.Context) error
}
