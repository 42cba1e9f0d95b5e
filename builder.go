package roamauth

import (
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/roamly-app/roamauth/credstore"
	"github.com/roamly-app/roamauth/token"
)

// Builder defines a public type used by roamauth APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config     Config
	httpClient *http.Client
	store      credstore.Store
	redis      *redis.Client
	auditSink  AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL sets the API base URL without replacing the rest of the config.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithHTTPClient overrides the HTTP client used for every network call.
// The caller owns timeout configuration when supplying one.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithCredentialStore selects the credential persistence backend. When unset,
// an in-process [credstore.MemoryStore] is used.
func (b *Builder) WithCredentialStore(store credstore.Store) *Builder {
	b.store = store
	return b
}

// WithRedis is a convenience that backs the credential store with Redis,
// namespaced by Config.Storage.RedisPrefix. It is mutually exclusive with
// WithCredentialStore.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.store != nil && b.redis != nil {
		return nil, errors.New("WithCredentialStore and WithRedis are mutually exclusive")
	}

	store := b.store
	switch {
	case store != nil:
	case b.redis != nil:
		store = credstore.NewRedisStore(b.redis, cfg.Storage.RedisPrefix)
	default:
		store = credstore.NewMemoryStore()
	}

	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.API.Timeout}
	}

	client := &Client{
		config:    cfg,
		http:      httpClient,
		store:     store,
		inspector: token.NewInspector(cfg.Token.ExpiryLeeway),
		state:     newSessionState(),
		audit:     newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:   NewMetrics(cfg.Metrics),
	}

	b.built = true

	return client, nil
}
