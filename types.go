package roamauth

import (
	"io"

	internalaudit "github.com/roamly-app/roamauth/internal/audit"
)

// Phase represents the externally visible lifecycle state of the session.
//
//	Anonymous -> PendingVerification -> Authenticated
//
// Logout (or an irrecoverable refresh failure) returns the session to
// PhaseAnonymous from any state.
type Phase uint8

const (
	// PhaseAnonymous is an exported constant or variable used by the session client.
	PhaseAnonymous Phase = iota
	// PhasePendingVerification is an exported constant or variable used by the session client.
	PhasePendingVerification
	// PhaseAuthenticated is an exported constant or variable used by the session client.
	PhaseAuthenticated
)

// String returns the phase name for logs and diagnostics.
func (p Phase) String() string {
	switch p {
	case PhaseAnonymous:
		return "anonymous"
	case PhasePendingVerification:
		return "pending_verification"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// District is a preference-catalogue entry returned by the backend.
type District struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Geography is a preference-catalogue entry returned by the backend.
type Geography struct {
	Code    string `json:"code"`
	APICode string `json:"api_code"`
	Name    string `json:"name"`
}

// User is the profile record attached to an authenticated session. It is
// persisted as JSON under the credential store's user key and rehydrated at
// process start.
type User struct {
	ID                   string      `json:"id"`
	Username             string      `json:"username"`
	Email                string      `json:"email"`
	Age                  int         `json:"age,omitempty"`
	Gender               string      `json:"gender,omitempty"`
	PreferredDistricts   []District  `json:"preferred_districts,omitempty"`
	PreferredGeographies []Geography `json:"preferred_geographies,omitempty"`
}

// Session is the authoritative in-memory record of the current authenticated
// identity.
//
// Invariant: IsAuthenticated == true implies AccessToken is non-empty and
// User is non-nil. A reader never observes a half-updated Session.
type Session struct {
	User            *User
	IsAuthenticated bool
	IsLoading       bool
	AccessToken     string
}

// SignupRequest is the full registration payload for [Client.Signup].
// Field names follow the backend's snake_case wire contract.
type SignupRequest struct {
	Username             string   `json:"username"`
	Age                  int      `json:"age"`
	Gender               string   `json:"gender"`
	PreferredDistricts   []string `json:"preferred_districts"`
	PreferredGeographies []string `json:"preferred_geographies"`
	Email                string   `json:"email"`
	Password             string   `json:"password"`
}

// loginResponse is the success body of POST /auth/login/.
type loginResponse struct {
	User    User   `json:"user"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// verifyOTPResponse is the success body of POST /auth/verify-otp/. The token
// pair is nested here, unlike the flat login response; both shapes are
// backend-given.
type verifyOTPResponse struct {
	User   User `json:"user"`
	Tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	} `json:"tokens"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// AuditEvent is a structured audit record emitted by the client.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the client's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
