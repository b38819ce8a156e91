package driven

import "context"

// RateLimiter bounds request rates per caller key.
type RateLimiter interface {
	// Allow consumes one unit of the caller's budget and reports whether
	// the request may proceed. Implementations should fail open when the
	// backing store is unreachable.
	Allow(ctx context.Context, key string) (bool, error)

	// Ping checks if the limiter backend is healthy.
	Ping(ctx context.Context) error
}
