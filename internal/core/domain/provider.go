package domain

import "fmt"

// Provider identifies a supported social platform.
type Provider string

const (
	ProviderThreads Provider = "threads"
	ProviderTwitter Provider = "twitter"
)

// Providers returns every supported platform.
func Providers() []Provider {
	return []Provider{ProviderThreads, ProviderTwitter}
}

// ParseProvider validates a raw platform identifier.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderThreads:
		return ProviderThreads, nil
	case ProviderTwitter:
		return ProviderTwitter, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidProvider, s)
}

func (p Provider) String() string { return string(p) }

// Valid reports whether p names a known platform.
func (p Provider) Valid() bool {
	return p == ProviderThreads || p == ProviderTwitter
}
