package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLeeway guards against tokens that expire while the request carrying
// them is still in flight.
const DefaultLeeway = 30 * time.Second

// Inspector defines a public type used by roamauth APIs.
//
// Inspector instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Inspector struct {
	leeway time.Duration
	now    func() time.Time
}

// NewInspector returns an Inspector with the given expiry leeway. A negative
// leeway is clamped to zero.
func NewInspector(leeway time.Duration) *Inspector {
	if leeway < 0 {
		leeway = 0
	}
	return &Inspector{
		leeway: leeway,
		now:    time.Now,
	}
}

// IsExpired reports whether tok should be treated as expired for outgoing
// requests. It returns true when tok is empty, does not parse as a
// three-segment token, lacks a numeric exp claim, or when the current time
// exceeds exp minus the configured leeway.
//
// IsExpired performs no network or storage access and never panics on
// malformed input.
func (i *Inspector) IsExpired(tok string) bool {
	exp, err := i.expiresAt(tok)
	if err != nil {
		return true
	}
	return i.now().After(exp.Add(-i.leeway))
}

// ExpiresAt returns the decoded exp claim of tok. The error is non-nil for
// any token IsExpired would fail closed on.
func (i *Inspector) ExpiresAt(tok string) (time.Time, error) {
	return i.expiresAt(tok)
}

func (i *Inspector) expiresAt(tok string) (time.Time, error) {
	if tok == "" {
		return time.Time{}, jwt.ErrTokenMalformed
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		return time.Time{}, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, jwt.ErrTokenRequiredClaimMissing
	}

	return exp.Time, nil
}
