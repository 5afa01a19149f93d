package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestRedisCache runs against a live server when WSGRAPH_TEST_REDIS_URL is set.
func TestRedisCache(t *testing.T) {
	url := os.Getenv("WSGRAPH_TEST_REDIS_URL")
	if url == "" {
		t.Skip("WSGRAPH_TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	c, err := NewRedisCache(ctx, url)
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()

	key := "wsgraph:test:" + uuid.NewString()
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("Get on fresh key: hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("digraph {}"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "digraph {}" {
		t.Errorf("Get = %q, hit %v, err %v", data, hit, err)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not a url"); err == nil {
		t.Error("NewRedisCache should reject a malformed URL")
	}
}
