package roamauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/roamly-app/roamauth/credstore"
)

// mintTestToken builds an unsigned three-segment JWT with the given expiry.
// The inspector never verifies signatures, so a fake one is enough.
func mintTestToken(t *testing.T, exp time.Time) string {
	t.Helper()

	payload, err := json.Marshal(map[string]any{"exp": exp.Unix(), "sub": "u-1"})
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func testConfig(baseURL string) Config {
	cfg := defaultConfig()
	cfg.API.BaseURL = baseURL
	cfg.Metrics.Enabled = true
	return cfg
}

func newTestClient(t *testing.T, baseURL string, mutate ...func(*Config)) *Client {
	t.Helper()

	cfg := testConfig(baseURL)
	for _, fn := range mutate {
		fn(&cfg)
	}

	client, err := New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(client.Close)

	return client
}

// seedCredentials writes a full triple directly into the client's store.
func seedCredentials(t *testing.T, c *Client, access, refresh string, user *User) {
	t.Helper()

	ctx := context.Background()
	if err := c.store.Set(ctx, credstore.KeyAccessToken, access); err != nil {
		t.Fatalf("seed access token: %v", err)
	}
	if err := c.store.Set(ctx, credstore.KeyRefreshToken, refresh); err != nil {
		t.Fatalf("seed refresh token: %v", err)
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	if err := c.store.Set(ctx, credstore.KeyUser, string(userJSON)); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func storedOrEmpty(t *testing.T, c *Client, key string) string {
	t.Helper()
	v, err := c.store.Get(context.Background(), key)
	if err != nil {
		return ""
	}
	return v
}

func testUser() *User {
	return &User{
		ID:       "u-1",
		Username: "alice",
		Email:    "alice@example.com",
	}
}

// jsonBody is a shorthand for building response bodies in backend stubs.
func jsonBody(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("jsonBody: %v", err))
	}
	return string(data)
}
