package cache

import (
	"testing"
	"time"
)

func TestLRUEviction(t *testing.T) {
	c := NewLRUCache[int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a missing")
	}
	c.Set("c", 3) // evicts b, the least recently used

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}

	c.Delete("a")
	if c.Contains("a") {
		t.Error("a still present after Delete")
	}
}

func TestLRUExpiry(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	c.Set("j", "w")
	if !c.Contains("k") {
		t.Fatal("fresh entry missing")
	}

	now = now.Add(2 * time.Minute)
	if c.Contains("k") {
		t.Error("expired entry reported present")
	}
	if removed := c.CleanExpired(); removed != 2 {
		t.Errorf("CleanExpired() = %d, want 2", removed)
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d after cleanup", c.Size())
	}
}

func TestDigest(t *testing.T) {
	a := Digest([]byte(`{"reserve":1}`))
	if a != Digest([]byte(`{"reserve":1}`)) {
		t.Error("digest not stable")
	}
	if a == Digest([]byte(`{"reserve":2}`)) {
		t.Error("different payloads share a digest")
	}
	if len(a) != 64 {
		t.Errorf("unexpected digest length %d", len(a))
	}
}

func TestManagerCleansRegisteredCaches(t *testing.T) {
	c := NewLRUCache[int](10, time.Nanosecond)
	c.Set("x", 1)

	removed := make(chan int, 1)
	m := NewManager(func(n int) {
		select {
		case removed <- n:
		default:
		}
	})
	m.Register(c)
	m.StartCleanup(5 * time.Millisecond)
	defer m.Stop()

	select {
	case n := <-removed:
		if n != 1 {
			t.Errorf("removed %d entries, want 1", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup never ran")
	}
}
