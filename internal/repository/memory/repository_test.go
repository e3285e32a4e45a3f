package memory

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestRepositoryExpiresEntries(t *testing.T) {
	clock := clockwork.NewFakeClock()
	repo := NewRepository[string](clock)

	repo.Save("k", "v", time.Minute)
	if v, ok := repo.Get("k"); !ok || v != "v" {
		t.Fatalf("expected fresh entry, got %q %v", v, ok)
	}

	clock.Advance(59 * time.Second)
	if _, ok := repo.Get("k"); !ok {
		t.Fatalf("entry should still be fresh")
	}

	clock.Advance(time.Second)
	if _, ok := repo.Get("k"); ok {
		t.Fatalf("entry should have expired")
	}
}

func TestRepositoryPurge(t *testing.T) {
	clock := clockwork.NewFakeClock()
	repo := NewRepository[int](clock)

	repo.Save("short", 1, time.Second)
	repo.Save("long", 2, time.Hour)
	clock.Advance(time.Minute)

	if removed := repo.Purge(); removed != 1 {
		t.Fatalf("expected 1 purged entry, got %d", removed)
	}
	if repo.Len() != 1 {
		t.Fatalf("expected 1 entry left, got %d", repo.Len())
	}
	if v, ok := repo.Get("long"); !ok || v != 2 {
		t.Fatalf("expected long-lived entry to survive")
	}
}
