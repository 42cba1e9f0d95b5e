package roamauth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Audit event types emitted by the session lifecycle. These values are
// stable; sinks may rely on them for filtering.
const (
	auditEventLoginSuccess    = "login_success"
	auditEventLoginFailure    = "login_failure"
	auditEventSignupSuccess   = "signup_success"
	auditEventSignupFailure   = "signup_failure"
	auditEventOTPSuccess      = "otp_success"
	auditEventOTPFailure      = "otp_failure"
	auditEventRefreshSuccess  = "refresh_success"
	auditEventRefreshFailure  = "refresh_failure"
	auditEventLogout          = "logout"
	auditEventSessionHydrated = "session_hydrated"
	auditEventSessionRepaired = "session_repaired"
	auditEventSessionExpired  = "session_expired"
)

// emitAudit builds and dispatches an audit event. metaFn is evaluated only
// when the dispatcher is live, so metadata construction stays off the hot
// path for unaudited builds.
func (c *Client) emitAudit(_ context.Context, eventType string, success bool, email string, cause error, metaFn func() map[string]string) {
	if c == nil || c.audit == nil {
		return
	}

	ev := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Email:     email,
		RequestID: uuid.NewString(),
		Success:   success,
	}
	if cause != nil {
		ev.Error = cause.Error()
	}
	if metaFn != nil {
		ev.Metadata = metaFn()
	}

	c.audit.Emit(ev)
}
