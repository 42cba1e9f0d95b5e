package roamauth

import (
	"testing"
	"time"
)

func validTestConfig() Config {
	cfg := defaultConfig()
	cfg.API.BaseURL = "https://api.example.com/api"
	return cfg
}

func TestValidateAcceptsDefaultsWithBaseURL(t *testing.T) {
	if err := validTestConfig().Validate(); err != nil {
		t.Fatalf("Validate failed on defaults: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }},
		{"relative base url", func(c *Config) { c.API.BaseURL = "/api" }},
		{"no scheme", func(c *Config) { c.API.BaseURL = "api.example.com" }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }},
		{"relative login path", func(c *Config) { c.API.LoginPath = "auth/login/" }},
		{"relative refresh path", func(c *Config) { c.API.RefreshPath = "token/refresh/" }},
		{"negative leeway", func(c *Config) { c.Token.ExpiryLeeway = -time.Second }},
		{"absurd leeway", func(c *Config) { c.Token.ExpiryLeeway = time.Hour }},
		{"audit enabled with zero buffer", func(c *Config) {
			c.Audit.Enabled = true
			c.Audit.BufferSize = 0
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validTestConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate accepted an invalid config")
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ROAMAUTH_API_BASE_URL", "https://staging.example.com/api")
	t.Setenv("ROAMAUTH_API_TIMEOUT", "10s")
	t.Setenv("ROAMAUTH_TOKEN_EXPIRY_LEEWAY", "45s")
	t.Setenv("ROAMAUTH_STORAGE_REDIS_PREFIX", "stage")
	t.Setenv("ROAMAUTH_AUDIT_ENABLED", "true")
	t.Setenv("ROAMAUTH_METRICS_ENABLED", "true")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv failed: %v", err)
	}

	if cfg.API.BaseURL != "https://staging.example.com/api" {
		t.Fatalf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Fatalf("Timeout = %s", cfg.API.Timeout)
	}
	if cfg.Token.ExpiryLeeway != 45*time.Second {
		t.Fatalf("ExpiryLeeway = %s", cfg.Token.ExpiryLeeway)
	}
	if cfg.Storage.RedisPrefix != "stage" {
		t.Fatalf("RedisPrefix = %q", cfg.Storage.RedisPrefix)
	}
	if !cfg.Audit.Enabled || !cfg.Metrics.Enabled {
		t.Fatal("boolean env toggles not applied")
	}

	// Untouched fields keep their defaults.
	if cfg.API.LoginPath != "/auth/login/" {
		t.Fatalf("LoginPath = %q", cfg.API.LoginPath)
	}
	if cfg.Audit.BufferSize != 1024 {
		t.Fatalf("BufferSize = %d", cfg.Audit.BufferSize)
	}
}
