package credstore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	s := NewRedisStore(client, "ra")

	if _, err := s.Get(ctx, KeyRefreshToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store = %v, want ErrNotFound", err)
	}

	if err := s.Set(ctx, KeyRefreshToken, "rt-1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Keys are namespaced under the prefix.
	if !mr.Exists("ra:refreshToken") {
		t.Fatal("expected namespaced key ra:refreshToken in redis")
	}

	v, err := s.Get(ctx, KeyRefreshToken)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != "rt-1" {
		t.Fatalf("Get = %q, want %q", v, "rt-1")
	}
}

func TestRedisStorePrefixIsolation(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)

	a := NewRedisStore(client, "app-a")
	b := NewRedisStore(client, "app-b")

	if err := a.Set(ctx, KeyAccessToken, "token-a"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := b.Get(ctx, KeyAccessToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("prefix b sees prefix a's key: %v", err)
	}
}

func TestRedisStoreRemove(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	s := NewRedisStore(client, "ra")

	for _, k := range TripleKeys() {
		if err := s.Set(ctx, k, "v"); err != nil {
			t.Fatalf("Set(%s) failed: %v", k, err)
		}
	}
	if err := s.Remove(ctx, TripleKeys()...); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	for _, k := range TripleKeys() {
		if _, err := s.Get(ctx, k); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get(%s) after Remove = %v, want ErrNotFound", k, err)
		}
	}

	if err := s.Remove(ctx); err != nil {
		t.Fatalf("Remove with no keys failed: %v", err)
	}
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	s := NewRedisStore(client, "ra")

	mr.Close()

	if _, err := s.Get(ctx, KeyAccessToken); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Get against closed redis = %v, want ErrUnavailable", err)
	}
	if err := s.Set(ctx, KeyAccessToken, "v"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Set against closed redis = %v, want ErrUnavailable", err)
	}
	if err := s.Remove(ctx, KeyAccessToken); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Remove against closed redis = %v, want ErrUnavailable", err)
	}
}
