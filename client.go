package roamauth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/roamly-app/roamauth/credstore"
	"github.com/roamly-app/roamauth/token"
	"golang.org/x/sync/singleflight"
)

// Client defines a public type used by roamauth APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Client struct {
	config    Config
	http      *http.Client
	store     credstore.Store
	inspector *token.Inspector
	state     *sessionState
	audit     *auditDispatcher
	metrics   *Metrics

	refreshGroup singleflight.Group
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.audit != nil {
		c.audit.Close()
	}
}

// Session returns a point-in-time snapshot of the current session.
func (c *Client) Session() Session {
	if c == nil || c.state == nil {
		return Session{}
	}
	return c.state.snapshot()
}

// PendingEmail returns the address awaiting one-time-code verification, or
// "" when no signup is pending.
func (c *Client) PendingEmail() string {
	if c == nil || c.state == nil {
		return ""
	}
	return c.state.pending()
}

// Phase returns the externally visible session lifecycle phase.
func (c *Client) Phase() Phase {
	if c == nil || c.state == nil {
		return PhaseAnonymous
	}
	return c.state.phase()
}

// Subscribe registers a watcher that receives a session snapshot after every
// state change. Slow consumers miss intermediate snapshots rather than
// blocking mutations. The returned func cancels the watcher.
func (c *Client) Subscribe() (<-chan Session, func()) {
	return c.state.subscribe()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

// AuditDropped reports how many audit events were dropped by the dispatcher.
func (c *Client) AuditDropped() uint64 {
	if c == nil || c.audit == nil {
		return 0
	}
	return c.audit.Dropped()
}

func (c *Client) metricInc(id MetricID) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Inc(id)
}

// Hydrate populates session state from the credential store. When all three
// credential keys are present and the user record parses, the session becomes
// Authenticated; any partial triple is corrupted state and is proactively
// cleared so the session remains Anonymous.
//
// Hydrate is intended to run once at process start, before the first
// authorized request.
func (c *Client) Hydrate(ctx context.Context) error {
	if c == nil || c.store == nil {
		return ErrClientNotReady
	}

	access := c.storedValue(ctx, credstore.KeyAccessToken)
	refresh := c.storedValue(ctx, credstore.KeyRefreshToken)
	userJSON := c.storedValue(ctx, credstore.KeyUser)

	if access == "" && refresh == "" && userJSON == "" {
		return nil
	}

	var user User
	parseOK := userJSON != "" && json.Unmarshal([]byte(userJSON), &user) == nil

	if access == "" || refresh == "" || !parseOK {
		if err := c.store.Remove(ctx, credstore.TripleKeys()...); err != nil {
			log.Print("roamauth: partial credential cleanup failed")
		}
		c.metricInc(MetricSessionRepaired)
		c.emitAudit(ctx, auditEventSessionRepaired, false, "", nil, nil)
		return nil
	}

	c.state.setAuthenticated(&user, access)
	c.metricInc(MetricSessionHydrated)
	c.emitAudit(ctx, auditEventSessionHydrated, true, user.Email, nil, nil)
	return nil
}

// storedValue reads a credential key, mapping every failure to "absent".
func (c *Client) storedValue(ctx context.Context, key string) string {
	v, err := c.store.Get(ctx, key)
	if err != nil {
		return ""
	}
	return v
}

// persistCredentials writes the credential triple. Writes are sequential and
// non-transactional; Hydrate repairs any partial triple left by a crash.
func (c *Client) persistCredentials(ctx context.Context, access, refresh string, user *User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}

	if err := c.store.Set(ctx, credstore.KeyAccessToken, access); err != nil {
		return err
	}
	if err := c.store.Set(ctx, credstore.KeyRefreshToken, refresh); err != nil {
		return err
	}
	return c.store.Set(ctx, credstore.KeyUser, string(userJSON))
}

// persistUser rewrites only the stored user record, leaving the token pair
// untouched.
func (c *Client) persistUser(ctx context.Context, user *User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, credstore.KeyUser, string(userJSON))
}

// clearSession drops in-memory state and removes the credential triple.
// Storage failures are logged, never surfaced: clearing must always appear
// to succeed to the caller.
func (c *Client) clearSession(ctx context.Context) {
	c.state.clear()
	if err := c.store.Remove(ctx, credstore.TripleKeys()...); err != nil {
		log.Print("roamauth: credential removal failed during session clear")
	}
}
