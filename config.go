package roamauth

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config defines a public type used by roamauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API     APIConfig     `envPrefix:"API_"`
	Token   TokenConfig   `envPrefix:"TOKEN_"`
	Storage StorageConfig `envPrefix:"STORAGE_"`
	Audit   AuditConfig   `envPrefix:"AUDIT_"`
	Metrics MetricsConfig `envPrefix:"METRICS_"`
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig defines a public type used by roamauth APIs.
//
// APIConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type APIConfig struct {
	// BaseURL is the deployment-specific prefix, e.g. "https://api.example.com/api".
	BaseURL string `env:"BASE_URL"`
	// Timeout bounds every network call. Timeouts follow the network-failure
	// path of whichever operation issued the call.
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"30s"`
	UserAgent string        `env:"USER_AGENT" envDefault:"roamauth-go"`

	LoginPath     string `env:"LOGIN_PATH" envDefault:"/auth/login/"`
	SignupPath    string `env:"SIGNUP_PATH" envDefault:"/auth/signup/"`
	VerifyOTPPath string `env:"VERIFY_OTP_PATH" envDefault:"/auth/verify-otp/"`
	RefreshPath   string `env:"REFRESH_PATH" envDefault:"/token/refresh/"`
	ProfilePath   string `env:"PROFILE_PATH" envDefault:"/auth/profile/"`
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by roamauth APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	// ExpiryLeeway is subtracted from the decoded exp claim when triaging a
	// token locally, guarding against tokens that expire mid-flight.
	ExpiryLeeway time.Duration `env:"EXPIRY_LEEWAY" envDefault:"30s"`
}

/*
====================================
STORAGE CONFIG
====================================
*/

// StorageConfig defines a public type used by roamauth APIs.
//
// StorageConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StorageConfig struct {
	// RedisPrefix namespaces credential keys when the Redis-backed store is
	// selected through [Builder.WithRedis].
	RedisPrefix string `env:"REDIS_PREFIX" envDefault:"ra"`
}

// AuditConfig defines a public type used by roamauth APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool `env:"ENABLED"`
	BufferSize int  `env:"BUFFER_SIZE" envDefault:"1024"`
	DropIfFull bool `env:"DROP_IF_FULL" envDefault:"true"`
}

// MetricsConfig defines a public type used by roamauth APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool `env:"ENABLED"`
	EnableLatencyHistograms bool `env:"LATENCY_HISTOGRAMS"`
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "roamauth-go",
			LoginPath:     "/auth/login/",
			SignupPath:    "/auth/signup/",
			VerifyOTPPath: "/auth/verify-otp/",
			RefreshPath:   "/token/refresh/",
			ProfilePath:   "/auth/profile/",
		},
		Token: TokenConfig{
			ExpiryLeeway: 30 * time.Second,
		},
		Storage: StorageConfig{
			RedisPrefix: "ra",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// ConfigFromEnv builds a Config from ROAMAUTH_* environment variables layered
// over the defaults. It does not validate; Build does.
func ConfigFromEnv() (Config, error) {
	cfg := defaultConfig()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "ROAMAUTH_"}); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("API BaseURL required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("API BaseURL must be an absolute URL")
	}
	if c.API.Timeout <= 0 {
		return errors.New("API Timeout must be positive")
	}
	for _, p := range []string{
		c.API.LoginPath,
		c.API.SignupPath,
		c.API.VerifyOTPPath,
		c.API.RefreshPath,
	} {
		if !strings.HasPrefix(p, "/") {
			return errors.New("API paths must start with /")
		}
	}
	if c.Token.ExpiryLeeway < 0 || c.Token.ExpiryLeeway > 5*time.Minute {
		return errors.New("invalid token expiry leeway")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a deep copy.
	return cfg
}
