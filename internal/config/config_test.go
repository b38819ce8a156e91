package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_KEY", "k")
	t.Setenv("ENCRYPTION_KEY", "secret")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, s.Port)
	assert.Equal(t, "X-API-Key", s.APIKeyHeaderName)
	assert.Equal(t, "https://graph.threads.net", s.ThreadsAPIURL)
	assert.Len(t, s.TwitterScopes, 4)
}

func TestStateSigningSecretFallsBackToAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "the-api-key")
	t.Setenv("STATE_SIGNING_SECRET", "")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "the-api-key", s.StateSigningSecret)
}

func TestValidateReportsMissingFields(t *testing.T) {
	s := &Settings{}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
	assert.Contains(t, err.Error(), "ENCRYPTION_KEY")

	s = &Settings{
		APIKey:              "k",
		EncryptionKey:       "e",
		ThreadsAppID:        "a",
		ThreadsAppSecret:    "b",
		TwitterClientID:     "c",
		TwitterClientSecret: "d",
	}
	assert.NoError(t, s.Validate())
}

func TestRedirectURIs(t *testing.T) {
	s := &Settings{
		APIPublicURL:        "https://api.example.com/",
		ThreadsRedirectPath: "/auth/threads/callback",
		TwitterRedirectPath: "/auth/twitter/callback",
	}

	assert.Equal(t, "https://api.example.com/auth/threads/callback", s.ThreadsRedirectURI())
	assert.Equal(t, "https://api.example.com/auth/twitter/callback", s.TwitterRedirectURI())
}
