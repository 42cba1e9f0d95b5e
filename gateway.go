package roamauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/roamly-app/roamauth/credstore"
	"github.com/roamly-app/roamauth/internal/resterr"
)

// maxBodyBytes caps how much of a response body the JSON helpers will read.
const maxBodyBytes = 1 << 20

type requestOptions struct {
	header http.Header
	query  url.Values
	noAuth bool
}

// RequestOption customizes a single outgoing request.
type RequestOption func(*requestOptions)

// WithHeader adds a header to the outgoing request. The Authorization header
// is always owned by the session and cannot be set through this option.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.header == nil {
			o.header = http.Header{}
		}
		o.header.Add(key, value)
	}
}

// WithQuery adds a query parameter to the outgoing request URL.
func WithQuery(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.query == nil {
			o.query = url.Values{}
		}
		o.query.Add(key, value)
	}
}

// WithoutAuth marks the request as unauthenticated: no session logic runs
// and no Authorization header is attached.
func WithoutAuth() RequestOption {
	return func(o *requestOptions) {
		o.noAuth = true
	}
}

// Do issues an HTTP request against the backend, attaching a valid bearer
// token unless [WithoutAuth] is supplied.
//
// The access token is read from the credential store, not process memory, so
// a restarted process picks up where it left off. When the stored token is
// inside the expiry leeway, at most one refresh runs before the request:
//
//   - no refresh token stored: [ErrAuthenticationFailed], the request is
//     never issued;
//   - refresh rejected or unreachable: the credential triple and session
//     state are cleared (local logout) and the call fails with
//     [ErrSessionExpired];
//   - refresh succeeded: the new access token is persisted and attached.
//
// Concurrent callers that observe an expired token share a single refresh
// flight. The response is returned raw; Do does not interpret domain status
// codes.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*http.Response, error) {
	if c == nil || c.http == nil {
		return nil, ErrClientNotReady
	}

	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	var bearer string
	if o.noAuth {
		c.metricInc(MetricRequestUnauthenticated)
	} else {
		tok, err := c.ensureFreshToken(ctx)
		if err != nil {
			return nil, err
		}
		bearer = tok
		c.metricInc(MetricRequestAuthorized)
	}

	req, err := c.newRequest(ctx, method, path, body, o, bearer)
	if err != nil {
		return nil, err
	}

	if c.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() {
			c.metrics.Observe(MetricRequestLatency, time.Since(start))
		}()
	}

	return c.http.Do(req)
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.config.API.BaseURL, "/") + path
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any, o requestOptions, bearer string) (*http.Request, error) {
	target := c.endpoint(path)
	if len(o.query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + o.query.Encode()
	}

	var reader io.Reader
	switch v := body.(type) {
	case nil:
	case io.Reader:
		reader = v
	case []byte:
		reader = bytes.NewReader(v)
	default:
		payload, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.config.API.UserAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	for key, values := range o.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	// The Authorization header is the session's, regardless of what the
	// caller merged in.
	req.Header.Del("Authorization")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	return req, nil
}

// ensureFreshToken returns an access token worth sending, refreshing it
// first when the stored one is expired or missing.
func (c *Client) ensureFreshToken(ctx context.Context) (string, error) {
	tok := c.storedValue(ctx, credstore.KeyAccessToken)
	if !c.inspector.IsExpired(tok) {
		return tok, nil
	}

	v, err, shared := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		return c.refreshAccessToken(ctx)
	})
	if shared {
		c.metricInc(MetricRefreshCoalesced)
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// refreshAccessToken exchanges the stored refresh token for a new access
// token. Exactly one attempt; a terminal failure clears the session.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	refresh := c.storedValue(ctx, credstore.KeyRefreshToken)
	if refresh == "" {
		c.metricInc(MetricRefreshFailure)
		c.emitAudit(ctx, auditEventRefreshFailure, false, "", ErrAuthenticationFailed, func() map[string]string {
			return map[string]string{"reason": "no_refresh_token"}
		})
		return "", ErrAuthenticationFailed
	}

	payload, err := json.Marshal(map[string]string{"refresh": refresh})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(c.config.API.RefreshPath), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.config.API.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", c.expireSession(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", c.expireSession(ctx, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.expireSession(ctx, fmt.Errorf("refresh endpoint returned %d", resp.StatusCode))
	}

	var rr refreshResponse
	if err := json.Unmarshal(body, &rr); err != nil || rr.Access == "" {
		return "", c.expireSession(ctx, errors.New("malformed refresh response"))
	}

	if err := c.store.Set(ctx, credstore.KeyAccessToken, rr.Access); err != nil {
		log.Print("roamauth: refreshed access token persistence failed")
	}
	c.state.setAccessToken(rr.Access)
	c.metricInc(MetricRefreshSuccess)
	c.emitAudit(ctx, auditEventRefreshSuccess, true, "", nil, nil)

	return rr.Access, nil
}

// expireSession is the gateway's terminal refresh-failure path: the local
// equivalent of logout, surfaced as ErrSessionExpired.
func (c *Client) expireSession(ctx context.Context, cause error) error {
	c.clearSession(ctx)
	c.metricInc(MetricRefreshFailure)
	c.metricInc(MetricSessionCleared)
	c.emitAudit(ctx, auditEventSessionExpired, false, "", cause, nil)
	return ErrSessionExpired
}

// doJSON wraps Do with the non-throwing message contract used by the auth
// operations and the typed API surface: transport and parse failures become
// a generic [ServerError], non-2xx responses carry the backend's extracted
// message, and gateway sentinels pass through untouched.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, fallback string, opts ...RequestOption) error {
	resp, err := c.Do(ctx, method, path, in, opts...)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrAuthenticationFailed) || errors.Is(err, ErrClientNotReady) {
			return err
		}
		return &ServerError{Message: fallback}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &ServerError{Message: fallback}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    resterr.Message(body, fallback),
		}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return &ServerError{Message: fallback}
		}
	}

	return nil
}
