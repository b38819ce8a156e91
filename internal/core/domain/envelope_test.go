package domain

import (
	"encoding/json"
	"testing"
)

func TestEnvelopeConstructors(t *testing.T) {
	tests := []struct {
		name       string
		envelope   Envelope
		wantStatus ResponseStatus
		wantCode   int
	}{
		{
			name:       "success",
			envelope:   SuccessEnvelope(ProviderThreads, map[string]string{"id": "1"}),
			wantStatus: StatusSuccess,
			wantCode:   200,
		},
		{
			name:       "missing",
			envelope:   MissingEnvelope(ProviderTwitter),
			wantStatus: StatusMissing,
			wantCode:   404,
		},
		{
			name:       "expired",
			envelope:   ExpiredEnvelope(ProviderThreads),
			wantStatus: StatusExpired,
			wantCode:   401,
		},
		{
			name:       "error",
			envelope:   ErrorEnvelope(ProviderTwitter, 502, "provider unavailable"),
			wantStatus: StatusError,
			wantCode:   502,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envelope.Status != tt.wantStatus {
				t.Errorf("expected status %s, got %s", tt.wantStatus, tt.envelope.Status)
			}
			if tt.envelope.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, tt.envelope.Code)
			}
			if tt.envelope.Platform == "" {
				t.Error("expected platform to be set")
			}
		})
	}
}

func TestEnvelopeJSONShape(t *testing.T) {
	env := SuccessEnvelope(ProviderThreads, map[string]string{"id": "42"})

	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []string{"status", "code", "message", "platform", "data"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("expected key %q in envelope JSON", key)
		}
	}
}

func TestEnvelopeOmitsEmptyData(t *testing.T) {
	raw, err := json.Marshal(MissingEnvelope(ProviderTwitter))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := decoded["data"]; ok {
		t.Error("expected data to be omitted when empty")
	}
}
