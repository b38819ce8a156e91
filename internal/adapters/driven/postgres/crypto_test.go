package postgres

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"testing"
)

func TestCredentialCipher_RoundTrip(t *testing.T) {
	// Generate a test key (32 bytes)
	key := []byte("01234567890123456789012345678901")

	cipher, err := NewCredentialCipher(key)
	if err != nil {
		t.Fatalf("NewCredentialCipher: %v", err)
	}

	original := []byte(`{"access_token":"th_abc123","user_id":"9912","short_lived":false,"expiration":"2025-04-09T09:06:20.800964+00:00"}`)

	// Encrypt
	blob, err := cipher.Encrypt(original)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	// Verify blob format
	if len(blob) < 1+nonceSize {
		t.Fatalf("blob too short: %d bytes", len(blob))
	}
	if blob[0] != blobVersion {
		t.Errorf("version byte: got %d, want %d", blob[0], blobVersion)
	}

	// Decrypt
	decrypted, err := cipher.Decrypt(blob)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}

	if !bytes.Equal(decrypted, original) {
		t.Errorf("round trip mismatch: got %q, want %q", decrypted, original)
	}
}

func TestCredentialCipher_InvalidKeySize(t *testing.T) {
	tests := []struct {
		name    string
		keySize int
	}{
		{"too short", 16},
		{"too long", 64},
		{"empty", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := make([]byte, tt.keySize)
			_, err := NewCredentialCipher(key)
			if err == nil {
				t.Error("expected error for invalid key size")
			}
		})
	}
}

func TestCredentialCipher_DecryptInvalidBlob(t *testing.T) {
	key := []byte("01234567890123456789012345678901")
	cipher, _ := NewCredentialCipher(key)

	tests := []struct {
		name string
		blob []byte
	}{
		{"empty", []byte{}},
		{"too short", []byte{0x01, 0x02}},
		{"wrong version", append([]byte{0x99}, make([]byte, 100)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := cipher.Decrypt(tt.blob); err == nil {
				t.Error("expected error for invalid blob")
			}
		})
	}
}

func TestCredentialCipher_WrongKey(t *testing.T) {
	key1 := []byte("01234567890123456789012345678901")
	key2 := []byte("10987654321098765432109876543210")

	c1, _ := NewCredentialCipher(key1)
	c2, _ := NewCredentialCipher(key2)

	// Encrypt with key1
	blob, err := c1.Encrypt([]byte("secret data"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	// Try to decrypt with key2
	if _, err := c2.Decrypt(blob); err == nil {
		t.Error("expected error when decrypting with wrong key")
	}
}

func TestCredentialCipher_UniqueNonce(t *testing.T) {
	key := []byte("01234567890123456789012345678901")
	cipher, _ := NewCredentialCipher(key)

	// Encrypt the same value multiple times
	blobs := make([][]byte, 10)
	for i := range blobs {
		blob, err := cipher.Encrypt([]byte("same value"))
		if err != nil {
			t.Fatalf("Encrypt %d: %v", i, err)
		}
		blobs[i] = blob
	}

	// Verify all nonces are unique
	nonces := make(map[string]bool)
	for i, blob := range blobs {
		nonce := string(blob[1 : 1+nonceSize])
		if nonces[nonce] {
			t.Errorf("duplicate nonce at index %d", i)
		}
		nonces[nonce] = true
	}
}

func TestLoadKey(t *testing.T) {
	raw := []byte("01234567890123456789012345678901")

	tests := []struct {
		name     string
		material string
		want     []byte
	}{
		{
			name:     "standard base64",
			material: base64.StdEncoding.EncodeToString(raw),
			want:     raw,
		},
		{
			name:     "url-safe base64",
			material: base64.URLEncoding.EncodeToString(raw),
			want:     raw,
		},
		{
			name:     "hex",
			material: hex.EncodeToString(raw),
			want:     raw,
		},
		{
			name:     "passphrase",
			material: "correct horse battery staple",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := LoadKey(tt.material)
			if err != nil {
				t.Fatalf("LoadKey: %v", err)
			}
			if len(key) != keySize {
				t.Fatalf("expected %d-byte key, got %d", keySize, len(key))
			}
			if tt.want != nil && !bytes.Equal(key, tt.want) {
				t.Error("decoded key does not match input")
			}
		})
	}
}

func TestLoadKeyDeterministicPassphrase(t *testing.T) {
	first, err := LoadKey("some passphrase")
	if err != nil {
		t.Fatalf("LoadKey: %v", err)
	}
	second, err := LoadKey("some passphrase")
	if err != nil {
		t.Fatalf("LoadKey: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("passphrase derivation must be deterministic")
	}

	other, err := LoadKey("another passphrase")
	if err != nil {
		t.Fatalf("LoadKey: %v", err)
	}
	if bytes.Equal(first, other) {
		t.Error("different passphrases must yield different keys")
	}
}

func TestLoadKeyEmpty(t *testing.T) {
	if _, err := LoadKey(""); err == nil {
		t.Error("expected error for empty key material")
	}
}
