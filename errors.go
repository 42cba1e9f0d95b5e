package roamauth

import (
	"errors"

	"github.com/roamly-app/roamauth/credstore"
)

var (
	// ErrClientNotReady is an exported constant or variable used by the session client.
	ErrClientNotReady = errors.New("client not initialized")
	// ErrAuthenticationFailed is an exported constant or variable used by the session client.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrSessionExpired is an exported constant or variable used by the session client.
	ErrSessionExpired = errors.New("session expired, please log in again")
	// ErrNoPendingVerification is an exported constant or variable used by the session client.
	ErrNoPendingVerification = errors.New("no email to verify")
	// ErrMissingCode is an exported constant or variable used by the session client.
	ErrMissingCode = errors.New("verification code required")
	// ErrMissingCredentials is an exported constant or variable used by the session client.
	ErrMissingCredentials = errors.New("email and password required")
	// ErrStoreUnavailable is an exported constant or variable used by the session client.
	ErrStoreUnavailable = credstore.ErrUnavailable
)

// ServerError carries the human-readable message extracted from a non-2xx
// backend response. Auth operations return it so UI layers can render the
// text directly, without inspecting status codes.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// IsServerError reports whether err wraps a backend-supplied failure message
// and returns it when present.
func IsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
