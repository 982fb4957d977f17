package cache

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestCache(t *testing.T) *RistrettoCache {
	t.Helper()

	c, err := NewRistrettoCache(&RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
		Logger:      zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("create cache: %v", err)
	}
	t.Cleanup(c.Close)

	return c.(*RistrettoCache)
}

func TestSetAndGet(t *testing.T) {
	c := newTestCache(t)

	if !c.Set("key", "value", time.Minute) {
		t.Fatal("expected set to succeed")
	}
	c.Wait()

	got, found := c.Get("key")
	if !found {
		t.Fatal("expected key to be found")
	}
	if got != "value" {
		t.Errorf("expected 'value', got %v", got)
	}
}

func TestGetMissing(t *testing.T) {
	c := newTestCache(t)

	if _, found := c.Get("nope"); found {
		t.Error("expected miss for unknown key")
	}
}

func TestDelete(t *testing.T) {
	c := newTestCache(t)

	c.Set("key", 42, time.Minute)
	c.Wait()

	c.Delete("key")

	if _, found := c.Get("key"); found {
		t.Error("expected key gone after delete")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := newTestCache(t)

	c.Set("key", "value", 50*time.Millisecond)
	c.Wait()

	time.Sleep(100 * time.Millisecond)

	if _, found := c.Get("key"); found {
		t.Error("expected key expired")
	}
}
