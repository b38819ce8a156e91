package services

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
)

// stateTTL bounds how long a pending OAuth flow stays resolvable. A
// callback arriving later is treated as invalid state.
const stateTTL = 10 * time.Minute

// StateTracker holds pending OAuth transactions for one auth handler,
// keyed by external user id. Entries expire on their own; a process
// restart drops them all, which callers must treat as a normal
// invalid-state outcome.
//
// Lookup by state value is a scan over live entries. Cardinality is
// bounded by users mid-flow, so a scan beats maintaining a reverse index.
type StateTracker struct {
	entries *cache.Cache
}

// NewStateTracker creates an empty tracker.
func NewStateTracker() *StateTracker {
	return &StateTracker{
		entries: cache.New(stateTTL, stateTTL),
	}
}

// StoreState records a pending flow for the user, replacing any previous
// one. The old flow's callback will no longer resolve.
func (t *StateTracker) StoreState(userID, state, codeVerifier string) {
	t.entries.Set(userID, domain.AuthState{State: state, CodeVerifier: codeVerifier}, stateTTL)
}

// UserIDFromState resolves the user who started the flow identified by
// state. Returns "" and false on a miss; a miss is the caller's decision
// to handle, never an error here.
func (t *StateTracker) UserIDFromState(state string) (string, bool) {
	for userID, item := range t.entries.Items() {
		if item.Expired() {
			continue
		}
		if s, ok := item.Object.(domain.AuthState); ok && s.State == state {
			return userID, true
		}
	}
	return "", false
}

// CodeVerifierFromState returns the PKCE verifier stored with the flow
// identified by state, or "" when the flow is unknown or carries none.
func (t *StateTracker) CodeVerifierFromState(state string) (string, bool) {
	for _, item := range t.entries.Items() {
		if item.Expired() {
			continue
		}
		if s, ok := item.Object.(domain.AuthState); ok && s.State == state {
			return s.CodeVerifier, true
		}
	}
	return "", false
}

// StateForUser returns the user's pending flow, if any.
func (t *StateTracker) StateForUser(userID string) (domain.AuthState, bool) {
	v, ok := t.entries.Get(userID)
	if !ok {
		return domain.AuthState{}, false
	}
	s, ok := v.(domain.AuthState)
	return s, ok
}

// ClearState drops the user's pending flow. Clearing an absent entry is
// a no-op.
func (t *StateTracker) ClearState(userID string) {
	t.entries.Delete(userID)
}

// Len reports the number of live entries.
func (t *StateTracker) Len() int {
	return t.entries.ItemCount()
}
