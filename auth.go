package roamauth

import (
	"context"
	"net/http"
)

// Login authenticates with email and password. On success the credential
// triple is persisted and the session becomes Authenticated in one step.
//
// Failures are returned as errors whose message is suitable for direct
// display: a [*ServerError] carries the backend's own wording, credential
// validation failures return [ErrMissingCredentials] before any network
// traffic. The session is left untouched on failure. IsLoading is true for
// the duration of the call and false on every exit path.
func (c *Client) Login(ctx context.Context, email, password string) error {
	if c == nil || c.state == nil {
		return ErrClientNotReady
	}
	if email == "" || password == "" {
		return ErrMissingCredentials
	}

	c.state.setLoading(true)
	defer c.state.setLoading(false)

	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	var lr loginResponse
	if err := c.doJSON(ctx, http.MethodPost, c.config.API.LoginPath, payload, &lr, "login failed", WithoutAuth()); err != nil {
		c.metricInc(MetricLoginFailure)
		c.emitAudit(ctx, auditEventLoginFailure, false, email, err, nil)
		return err
	}

	if err := c.persistCredentials(ctx, lr.Access, lr.Refresh, &lr.User); err != nil {
		c.metricInc(MetricLoginFailure)
		c.emitAudit(ctx, auditEventLoginFailure, false, email, err, func() map[string]string {
			return map[string]string{"reason": "credential_persist_failed"}
		})
		return &ServerError{Message: "login failed"}
	}

	c.state.setAuthenticated(&lr.User, lr.Access)
	c.metricInc(MetricLoginSuccess)
	c.emitAudit(ctx, auditEventLoginSuccess, true, email, nil, nil)
	return nil
}

// Signup registers a new account. On success the session moves to the
// PendingVerification phase: the submitted email is remembered so a later
// [Client.VerifyOTP] call does not need it repeated. No credentials exist
// until verification completes.
//
// Validation failures from the backend arrive as a [*ServerError] whose
// message aggregates the per-field errors, one line per field.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	if c == nil || c.state == nil {
		return ErrClientNotReady
	}
	if req.Email == "" || req.Password == "" {
		return ErrMissingCredentials
	}

	c.state.setLoading(true)
	defer c.state.setLoading(false)

	if err := c.doJSON(ctx, http.MethodPost, c.config.API.SignupPath, req, nil, "signup failed", WithoutAuth()); err != nil {
		c.metricInc(MetricSignupFailure)
		c.emitAudit(ctx, auditEventSignupFailure, false, req.Email, err, nil)
		return err
	}

	c.state.setPendingEmail(req.Email)
	c.metricInc(MetricSignupSuccess)
	c.emitAudit(ctx, auditEventSignupSuccess, true, req.Email, nil, nil)
	return nil
}

// VerifyOTP submits the one-time code for the email remembered by the last
// successful [Client.Signup]. On success the session becomes Authenticated
// exactly as a login would: credentials persisted, pending email cleared.
//
// With no signup pending, VerifyOTP returns [ErrNoPendingVerification]
// without touching the network. A rejected code leaves the pending email in
// place so the user can retry.
func (c *Client) VerifyOTP(ctx context.Context, code string) error {
	if c == nil || c.state == nil {
		return ErrClientNotReady
	}

	email := c.state.pending()
	if email == "" {
		return ErrNoPendingVerification
	}
	if code == "" {
		return ErrMissingCode
	}

	c.state.setLoading(true)
	defer c.state.setLoading(false)

	payload := map[string]string{
		"email": email,
		"otp":   code,
	}

	var vr verifyOTPResponse
	if err := c.doJSON(ctx, http.MethodPost, c.config.API.VerifyOTPPath, payload, &vr, "verification failed", WithoutAuth()); err != nil {
		c.metricInc(MetricOTPFailure)
		c.emitAudit(ctx, auditEventOTPFailure, false, email, err, nil)
		return err
	}

	if err := c.persistCredentials(ctx, vr.Tokens.Access, vr.Tokens.Refresh, &vr.User); err != nil {
		c.metricInc(MetricOTPFailure)
		c.emitAudit(ctx, auditEventOTPFailure, false, email, err, func() map[string]string {
			return map[string]string{"reason": "credential_persist_failed"}
		})
		return &ServerError{Message: "verification failed"}
	}

	c.state.setAuthenticated(&vr.User, vr.Tokens.Access)
	c.metricInc(MetricOTPSuccess)
	c.emitAudit(ctx, auditEventOTPSuccess, true, email, nil, nil)
	return nil
}

// Logout ends the session locally: in-memory state resets to Anonymous and
// the credential triple is removed from storage. No backend call is made and
// Logout never fails; a storage error during removal is logged and the
// session still ends.
func (c *Client) Logout(ctx context.Context) {
	if c == nil || c.state == nil {
		return
	}

	c.state.setLoading(true)
	defer c.state.setLoading(false)

	email := ""
	if u := c.state.snapshot().User; u != nil {
		email = u.Email
	}

	c.clearSession(ctx)
	c.metricInc(MetricLogout)
	c.emitAudit(ctx, auditEventLogout, true, email, nil, nil)
}
