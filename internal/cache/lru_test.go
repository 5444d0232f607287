package cache

import (
	"testing"
	"time"
)

func TestLRUCacheBasics(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)

	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("get a: %q %v", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatal("missing key must not hit")
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("deleted key must not hit")
	}
}

func TestLRUCacheEvictsOldest(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // refresh a
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should have survived")
	}
	if c.Size() != 2 {
		t.Fatalf("size %d", c.Size())
	}
}

func TestLRUCacheTTL(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry must not hit")
	}

	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("c", 3)
	if removed := c.CleanExpired(); removed != 1 {
		t.Fatalf("expected 1 cleaned entry, got %d", removed)
	}
}
