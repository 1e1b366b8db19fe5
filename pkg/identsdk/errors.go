package identsdk

import "fmt"

// Error codes surfaced in the envelope's code field.
const (
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "TOKEN_INVALID"
)

// APIError is a non-2xx response decoded from the uniform envelope.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     []FieldError
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("identity api: %d %s (%s)", e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("identity api: %d %s", e.StatusCode, e.Message)
}

// IsTokenExpired reports whether the server rejected an expired token, which
// callers typically handle by refreshing and retrying.
func (e *APIError) IsTokenExpired() bool {
	return e.Code == CodeTokenExpired
}
