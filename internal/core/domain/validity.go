package domain

// TokenValidity is the full status snapshot for a stored credential,
// composed so callers get one read instead of several primitive calls.
type TokenValidity struct {
	Valid           bool     `json:"valid"`
	ExpiresIn       int64    `json:"expires_in"`
	RefreshPossible bool     `json:"refresh_possible"`
	Platform        Provider `json:"platform"`
}
