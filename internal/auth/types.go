package auth

// AuthError is a structured authentication error with a stable code
type AuthError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e AuthError) Error() string {
	return e.Message
}

var (
	ErrUnauthorized = AuthError{Code: "UNAUTHORIZED", Message: "authentication required"}
	ErrInvalidToken = AuthError{Code: "INVALID_TOKEN", Message: "invalid or malformed token"}
	ErrTokenExpired = AuthError{Code: "TOKEN_EXPIRED", Message: "token has expired"}
)

// ClientClaims identifies an API client in a token
type ClientClaims struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name,omitempty"`
}
