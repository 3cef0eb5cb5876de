package cache

import (
	"context"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := New[string, int](time.Minute)

	c.Set(ctx, "a", 42)

	got, ok := c.Get(ctx, "a")
	if !ok {
		t.Fatal("expected hit")
	}
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	ctx := context.Background()
	c := New[string, int](time.Minute)

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := New[string, string](500 * time.Millisecond)

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Set(ctx, "k", "v")

	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("expected hit before expiry")
	}

	c.now = func() time.Time { return now.Add(time.Second) }
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("expected miss after expiry")
	}
}

func TestCache_Sweep(t *testing.T) {
	ctx := context.Background()
	c := New[string, int](time.Millisecond)

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)

	c.now = func() time.Time { return now.Add(time.Second) }
	c.Sweep()

	if c.Len() != 0 {
		t.Errorf("expected empty cache after sweep, got %d entries", c.Len())
	}
}

func TestCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := New[string, int](time.Minute)

	c.Set(ctx, "a", 1)
	c.Delete(ctx, "a")

	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("expected miss after delete")
	}
}
