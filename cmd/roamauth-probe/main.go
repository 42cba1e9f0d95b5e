package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	roamauth "github.com/roamly-app/roamauth"
)

func main() {
	var (
		baseURL   = flag.String("base-url", "", "API base URL; if empty, ROAMAUTH_API_BASE_URL env is used")
		email     = flag.String("email", "", "account email")
		password  = flag.String("password", "", "account password")
		redisAddr = flag.String("redis-addr", "", "redis address for credential storage; if empty, miniredis is used")
		timeout   = flag.Duration("timeout", 30*time.Second, "overall probe timeout")
	)
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "email and password are required")
		os.Exit(2)
	}

	cfg, err := roamauth.ConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

	addr := *redisAddr
	var cleanup func()
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		cleanup = mr.Close
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		cleanup = func() {}
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	client, err := roamauth.New().
		WithConfig(cfg).
		WithRedis(rdb).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := client.Hydrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "hydrate: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	if err := client.Login(ctx, *email, *password); err != nil {
		fmt.Fprintf(os.Stderr, "login: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("login ok in %s\n", time.Since(start).Round(time.Millisecond))

	if u := client.Session().User; u != nil {
		fmt.Printf("authenticated as %s <%s>\n", u.Username, u.Email)
	}

	start = time.Now()
	places, err := client.Places(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "places: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("fetched %d places in %s\n", len(places), time.Since(start).Round(time.Millisecond))

	snap := client.MetricsSnapshot()
	ids := make([]roamauth.MetricID, 0, len(snap.Counters))
	for id := range snap.Counters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fmt.Println("metrics:")
	for _, id := range ids {
		if snap.Counters[id] == 0 {
			continue
		}
		fmt.Printf("  %-26s %d\n", id, snap.Counters[id])
	}
	for id, buckets := range snap.Histograms {
		fmt.Printf("  %s buckets: %v\n", id, buckets)
	}
}
