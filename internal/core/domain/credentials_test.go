package domain

import (
	"testing"
	"time"
)

func TestThreadsCredentialsExpiresAt(t *testing.T) {
	tests := []struct {
		name       string
		expiration string
		wantErr    bool
	}{
		{name: "microseconds with offset", expiration: "2025-04-09T09:06:20.800964+00:00"},
		{name: "no fraction", expiration: "2025-04-09T09:06:20+00:00"},
		{name: "zulu suffix", expiration: "2025-04-09T09:06:20.800964Z"},
		{name: "empty", expiration: "", wantErr: true},
		{name: "garbage", expiration: "next tuesday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := &ThreadsCredentials{Expiration: tt.expiration}
			got, err := creds.ExpiresAt()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected parse error for %q", tt.expiration)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.IsZero() {
				t.Error("expected non-zero time")
			}
		})
	}
}

func TestThreadsExpirationLayoutRoundTrip(t *testing.T) {
	ts := time.Date(2025, 4, 9, 9, 6, 20, 800964000, time.UTC)
	formatted := ts.Format(ThreadsExpirationLayout)

	if formatted != "2025-04-09T09:06:20.800964+00:00" {
		t.Fatalf("unexpected format: %s", formatted)
	}

	creds := &ThreadsCredentials{Expiration: formatted}
	parsed, err := creds.ExpiresAt()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !parsed.Equal(ts) {
		t.Errorf("round trip mismatch: %v != %v", parsed, ts)
	}
}

func TestThreadsCredentialsSecondsUntilExpiry(t *testing.T) {
	tests := []struct {
		name       string
		expiration string
		wantZero   bool
	}{
		{
			name:       "future expiry",
			expiration: time.Now().Add(time.Hour).UTC().Format(ThreadsExpirationLayout),
		},
		{
			name:       "past expiry clamps to zero",
			expiration: time.Now().Add(-time.Hour).UTC().Format(ThreadsExpirationLayout),
			wantZero:   true,
		},
		{
			name:       "unparseable counts as expired",
			expiration: "not a timestamp",
			wantZero:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := &ThreadsCredentials{Expiration: tt.expiration}
			got := creds.SecondsUntilExpiry()
			if got < 0 {
				t.Fatalf("seconds must never be negative, got %d", got)
			}
			if tt.wantZero && got != 0 {
				t.Errorf("expected 0, got %d", got)
			}
			if !tt.wantZero && got == 0 {
				t.Error("expected positive seconds remaining")
			}
		})
	}
}

func TestThreadsCredentialsRefreshable(t *testing.T) {
	longLived := &ThreadsCredentials{ShortLived: false}
	if !longLived.Refreshable() {
		t.Error("expected long-lived token to be refreshable")
	}

	shortLived := &ThreadsCredentials{ShortLived: true}
	if shortLived.Refreshable() {
		t.Error("expected short-lived token to not be refreshable")
	}
}

func TestTwitterCredentialsSecondsUntilExpiry(t *testing.T) {
	future := &TwitterCredentials{ExpiresAt: time.Now().Add(time.Hour).Unix()}
	if got := future.SecondsUntilExpiry(); got == 0 {
		t.Error("expected positive seconds for future expiry")
	}

	past := &TwitterCredentials{ExpiresAt: time.Now().Add(-time.Hour).Unix()}
	if got := past.SecondsUntilExpiry(); got != 0 {
		t.Errorf("expected 0 for past expiry, got %d", got)
	}

	missing := &TwitterCredentials{}
	if got := missing.SecondsUntilExpiry(); got != 0 {
		t.Errorf("expected 0 for missing expiry, got %d", got)
	}
}

func TestTwitterCredentialsCanRefresh(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name         string
		refreshToken string
		expiresAt    int64
		want         bool
	}{
		{
			name:         "refresh token with live expiry",
			refreshToken: "rt-1",
			expiresAt:    now.Add(time.Hour).Unix(),
			want:         true,
		},
		{
			name:         "refresh token recently expired",
			refreshToken: "rt-2",
			expiresAt:    now.Add(-time.Hour).Unix(),
			want:         true,
		},
		{
			name:         "refresh token expired beyond window",
			refreshToken: "rt-3",
			expiresAt:    now.Add(-25 * time.Hour).Unix(),
			want:         false,
		},
		{
			name:         "no refresh token",
			refreshToken: "",
			expiresAt:    now.Add(time.Hour).Unix(),
			want:         false,
		},
		{
			name:         "refresh token without expiry",
			refreshToken: "rt-4",
			expiresAt:    0,
			want:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := &TwitterCredentials{RefreshToken: tt.refreshToken, ExpiresAt: tt.expiresAt}
			if got := creds.CanRefresh(); got != tt.want {
				t.Errorf("expected CanRefresh() = %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTwitterCredentialsScopeList(t *testing.T) {
	creds := &TwitterCredentials{Scope: "tweet.read tweet.write users.read offline.access"}
	scopes := creds.ScopeList()
	if len(scopes) != 4 {
		t.Fatalf("expected 4 scopes, got %d", len(scopes))
	}
	if scopes[0] != "tweet.read" {
		t.Errorf("expected tweet.read first, got %s", scopes[0])
	}

	empty := &TwitterCredentials{}
	if empty.ScopeList() != nil {
		t.Error("expected nil scope list for empty scope")
	}
}
