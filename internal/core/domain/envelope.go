package domain

// ResponseStatus classifies an operation outcome for API clients.
type ResponseStatus string

const (
	StatusSuccess ResponseStatus = "success"
	StatusError   ResponseStatus = "error"
	StatusMissing ResponseStatus = "missing"
	StatusExpired ResponseStatus = "expired"
)

// Envelope is the uniform response wrapper for social operations.
// Clients dispatch on Status and Code without parsing Message.
type Envelope struct {
	Status   ResponseStatus `json:"status"`
	Code     int            `json:"code"`
	Message  string         `json:"message"`
	Platform Provider       `json:"platform"`
	Data     any            `json:"data,omitempty"`
}

// SuccessEnvelope wraps the result of a completed operation.
func SuccessEnvelope(platform Provider, data any) Envelope {
	return Envelope{Status: StatusSuccess, Code: 200, Message: "ok", Platform: platform, Data: data}
}

// MissingEnvelope reports that the user never connected the platform.
func MissingEnvelope(platform Provider) Envelope {
	return Envelope{Status: StatusMissing, Code: 404, Message: "account not connected", Platform: platform}
}

// ExpiredEnvelope reports credentials that lapsed and were removed.
func ExpiredEnvelope(platform Provider) Envelope {
	return Envelope{Status: StatusExpired, Code: 401, Message: "credentials expired", Platform: platform}
}

// ErrorEnvelope reports a failed operation with an HTTP-style code.
func ErrorEnvelope(platform Provider, code int, message string) Envelope {
	return Envelope{Status: StatusError, Code: code, Message: message, Platform: platform}
}
