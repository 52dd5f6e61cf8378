package session

import (
	"testing"
	"time"
)

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := t.Context()
	store := NewMemoryStore(time.Hour)

	if _, ok, err := store.Get(ctx, "s1", "k"); err != nil || ok {
		t.Fatalf("Get() on empty store = ok %v, err %v", ok, err)
	}

	if err := store.Set(ctx, "s1", "k", "v1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(ctx, "s2", "k", "v2"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok, err := store.Get(ctx, "s1", "k")
	if err != nil || !ok || got != "v1" {
		t.Errorf("Get(s1) = %q, %v, %v; want v1", got, ok, err)
	}
	got, _, _ = store.Get(ctx, "s2", "k")
	if got != "v2" {
		t.Errorf("Get(s2) = %q, want v2", got)
	}

	if err := store.Clear(ctx, "s1"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok, _ := store.Get(ctx, "s1", "k"); ok {
		t.Error("Get() after Clear() should miss")
	}
	if _, ok, _ := store.Get(ctx, "s2", "k"); !ok {
		t.Error("Clear() removed another scope")
	}
}

func TestMemoryStore_SlidingExpiry(t *testing.T) {
	ctx := t.Context()
	store := NewMemoryStore(time.Minute)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(ctx, "s", "a", "1")

	now = now.Add(50 * time.Second)
	store.Set(ctx, "s", "b", "2")

	// a was written 100s ago but b's write extended the whole scope.
	now = now.Add(50 * time.Second)
	if _, ok, _ := store.Get(ctx, "s", "a"); !ok {
		t.Error("entry expired although the scope was touched")
	}

	now = now.Add(time.Minute)
	if _, ok, _ := store.Get(ctx, "s", "b"); ok {
		t.Error("entry should expire after the scope is idle for the TTL")
	}
	if len(store.scopes) != 0 {
		t.Errorf("expired scope not evicted, %d scopes left", len(store.scopes))
	}
}

func TestNewMemoryStore_DefaultTTL(t *testing.T) {
	if got := NewMemoryStore(0).ttl; got != DefaultTTL {
		t.Errorf("ttl = %v, want %v", got, DefaultTTL)
	}
}
