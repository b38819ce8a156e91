package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
	"github.com/AshesOfPhoenix/telepost/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore implements driven.CredentialStore using PostgreSQL.
// Payloads are encrypted before they touch the database and decrypted on
// the way out; the store itself never reads them.
type CredentialStore struct {
	db     *DB
	cipher *CredentialCipher
}

// NewCredentialStore creates a new PostgreSQL-backed credential store.
func NewCredentialStore(db *DB, cipher *CredentialCipher) *CredentialStore {
	return &CredentialStore{
		db:     db,
		cipher: cipher,
	}
}

// credentialColumn maps a provider to its credential column. Column names
// are fixed here, never interpolated from request input.
func credentialColumn(provider domain.Provider) (string, error) {
	switch provider {
	case domain.ProviderThreads:
		return "threads_credentials", nil
	case domain.ProviderTwitter:
		return "twitter_credentials", nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidProvider, provider)
}

// Store encrypts and upserts the credential payload for the user.
func (s *CredentialStore) Store(ctx context.Context, userID string, provider domain.Provider, payload json.RawMessage) error {
	column, err := credentialColumn(provider)
	if err != nil {
		return err
	}

	blob, err := s.cipher.Encrypt(payload)
	if err != nil {
		return fmt.Errorf("encrypt %s credentials: %w", provider, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO users (telegram_id, %[1]s, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (telegram_id)
		DO UPDATE SET %[1]s = EXCLUDED.%[1]s, updated_at = now()
	`, column)

	if _, err := s.db.ExecContext(ctx, query, userID, blob); err != nil {
		return fmt.Errorf("store %s credentials: %w", provider, err)
	}
	return nil
}

// Get decrypts and returns the stored payload, or nil when absent.
func (s *CredentialStore) Get(ctx context.Context, userID string, provider domain.Provider) (json.RawMessage, error) {
	column, err := credentialColumn(provider)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM users WHERE telegram_id = $1", column)

	var blob []byte
	err = s.db.QueryRowContext(ctx, query, userID).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s credentials: %w", provider, err)
	}
	if len(blob) == 0 {
		return nil, nil
	}

	payload, err := s.cipher.Decrypt(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: decrypt %s credentials: %w", domain.ErrStorage, provider, err)
	}
	return payload, nil
}

// Delete clears the stored credential column. Clearing an absent
// credential is a no-op.
func (s *CredentialStore) Delete(ctx context.Context, userID string, provider domain.Provider) error {
	column, err := credentialColumn(provider)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("UPDATE users SET %s = NULL, updated_at = now() WHERE telegram_id = $1", column)

	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete %s credentials: %w", provider, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
