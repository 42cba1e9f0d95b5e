// Package roamauth is the authenticated-session core of the GlobeMate mobile
// client, rebuilt as a headless Go SDK. It acquires, persists, refreshes, and
// invalidates the access/refresh token pair used to authorize every protected
// request against the GlobeMate REST backend.
//
// The package is designed for long-lived client processes: Client methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// roamauth is the public surface. It exposes [Client], [Builder], [Config],
// and value types (Session, User, MetricsSnapshot, etc.). Token expiry triage
// lives in the token sub-package, credential persistence in credstore, and
// internal coordination (audit dispatch, error-body parsing) lives under
// internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Verify token signatures. Local expiry decoding is advisory triage only;
//     the backend remains the sole authority on token validity.
//   - Retry a failed refresh. At most one refresh attempt runs per authorized
//     call; a failed refresh clears the session.
//   - Mutate session state outside the four auth operations and the gateway's
//     refresh-failure path.
//
// # Request contract
//
// Do is the hot path. It reads the access token from the credential store (not
// process memory, to tolerate cross-restart state), refreshes at most once when
// the token is inside the expiry leeway, and attaches the Authorization header
// itself. Caller-supplied headers can never override it.
package roamauth
