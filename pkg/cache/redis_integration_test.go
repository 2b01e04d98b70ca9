//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Run with: LEDWALL_TEST_REDIS_ADDR=localhost:6379 go test -tags integration ./pkg/cache
func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("LEDWALL_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LEDWALL_TEST_REDIS_ADDR not set")
	}
	c, err := NewRedisCache(context.Background(), RedisOptions{
		Addr:   addr,
		Prefix: "ledwall-test:" + t.Name() + ":",
	})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Clear(context.Background())
		_ = c.Close()
	})
	return c
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c := newTestRedis(t)

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("missing key: hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = %q hit=%v err=%v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}
}

func TestRedisCacheClear(t *testing.T) {
	ctx := context.Background()
	c := newTestRedis(t)
	for _, k := range []string{"a", "b"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("cleared key should miss")
	}
}

func TestRedisCacheUnavailable(t *testing.T) {
	if os.Getenv("LEDWALL_TEST_REDIS_ADDR") == "" {
		t.Skip("LEDWALL_TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1"}); err == nil {
		t.Error("expected error for unreachable redis")
	}
}
