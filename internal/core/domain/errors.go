package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrMissingParameter indicates a required request parameter was absent
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrNotConnected indicates no credentials are stored for the user
	ErrNotConnected = errors.New("account not connected")

	// ErrExpiredCredentials indicates stored credentials have lapsed and cannot be refreshed
	ErrExpiredCredentials = errors.New("credentials expired")

	// ErrInvalidOAuthState indicates a callback state with no pending authorization
	ErrInvalidOAuthState = errors.New("oauth state not recognized")

	// ErrInvalidProvider indicates an unknown platform was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrStorage indicates the persistence or encryption layer failed
	ErrStorage = errors.New("storage failure")

	// ErrRateLimited indicates the caller exceeded the request budget
	ErrRateLimited = errors.New("rate limit exceeded")
)

// ProviderError is a rejection returned by a social platform API.
// Status carries the stable internal code callers dispatch on,
// Code the provider-native numeric code when one was present.
type ProviderError struct {
	Platform Provider
	Status   string
	Code     int
	Message  string
	Detail   string
}

func (e *ProviderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s api error %d: %s", e.Platform, e.Code, e.Message)
	}
	return fmt.Sprintf("%s api error: %s", e.Platform, e.Message)
}

// PublishStage identifies the phase of a two-step publish.
type PublishStage string

const (
	PublishStageContainer PublishStage = "container"
	PublishStagePublish   PublishStage = "publish"
)

// PublishError reports a failed publish and the phase it stopped in.
// A container that was created but never published keeps its ID here,
// so that outcome stays distinguishable from one where nothing was created.
type PublishError struct {
	Stage       PublishStage
	ContainerID string
	Err         error
}

func (e *PublishError) Error() string {
	if e.ContainerID != "" {
		return fmt.Sprintf("publish failed at %s stage (container %s): %v", e.Stage, e.ContainerID, e.Err)
	}
	return fmt.Sprintf("publish failed at %s stage: %v", e.Stage, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
