package services

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Fatal("Get on empty cache reported a hit")
	}

	c.Set(ctx, "k", []byte("v"), time.Minute)
	got, ok := c.Get(ctx, "k")
	if !ok || string(got) != "v" {
		t.Fatalf("Get = %q, %v; want v, true", got, ok)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", []byte("v"), time.Minute)
	now = now.Add(59 * time.Second)
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("entry expired early")
	}
	now = now.Add(time.Second)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("entry still present after ttl")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, expired entry should be dropped on read", c.Len())
	}
}

func TestMemoryCacheZeroTTLIsNotStored(t *testing.T) {
	c := NewMemoryCache()
	c.Set(context.Background(), "k", []byte("v"), 0)
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestMemoryCacheBounded(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	c.maxEntries = 4
	for i := 0; i < 10; i++ {
		c.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), time.Minute)
	}
	if c.Len() > 4 {
		t.Errorf("Len = %d, want at most 4", c.Len())
	}
	if _, ok := c.Get(ctx, "k9"); !ok {
		t.Error("most recent entry was evicted")
	}
}

func TestNewCacheWithoutAddrUsesMemory(t *testing.T) {
	c := NewCache(context.Background(), "", "", 0)
	if c.Backend() != "memory" {
		t.Errorf("Backend = %q, want memory", c.Backend())
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
