package domain

// AuthState is a pending OAuth transaction awaiting its provider callback.
// CodeVerifier is set only for providers that require PKCE.
type AuthState struct {
	State        string
	CodeVerifier string
}

// Authorization carries the URL the end user must visit to grant access.
type Authorization struct {
	URL string `json:"url"`
}
