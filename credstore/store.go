package credstore

import (
	"context"
	"errors"
)

// Well-known credential keys. The triple is valid only when all three are
// present together; a partial set is corrupted state.
const (
	// KeyAccessToken is an exported constant or variable used by the credential store.
	KeyAccessToken = "accessToken"
	// KeyRefreshToken is an exported constant or variable used by the credential store.
	KeyRefreshToken = "refreshToken"
	// KeyUser is an exported constant or variable used by the credential store.
	KeyUser = "user"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("credential not found")

// ErrUnavailable wraps backend failures (storage unreachable, I/O error).
var ErrUnavailable = errors.New("credential store unavailable")

// Store is the abstract persistence contract for the credential triple.
// All operations may fail; readers must treat failure as "value absent" and
// writers must not assume a write succeeded without checking the error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}

// TripleKeys returns the three well-known keys in a fixed order, for bulk
// removal.
func TripleKeys() []string {
	return []string{KeyAccessToken, KeyRefreshToken, KeyUser}
}
