package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sportnumerics/sportnumerics/internal/config"
)

type countingSource struct {
	gets    atomic.Int32
	lists   atomic.Int32
	objects map[string]Object
	release chan struct{}
}

func (c *countingSource) Get(ctx context.Context, key string) (Object, error) {
	c.gets.Add(1)
	if c.release != nil {
		select {
		case <-c.release:
		case <-ctx.Done():
			return Object{}, ctx.Err()
		}
	}
	obj, ok := c.objects[key]
	if !ok {
		return Object{}, ErrNotFound
	}
	return obj, nil
}

func (c *countingSource) List(_ context.Context, _ string) ([]string, error) {
	c.lists.Add(1)
	return []string{"2024"}, nil
}

func TestLocalSourceGetAndList(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "2024", "schedules"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "2023"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "2024", "team-ratings.json"), []byte(`[]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	src := NewLocalSource(dir)
	ctx := context.Background()

	obj, err := src.Get(ctx, "2024/team-ratings.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(obj.Body) != "[]" || obj.LastModified.IsZero() {
		t.Fatalf("unexpected object: %+v", obj)
	}

	if _, err := src.Get(ctx, "2024/missing.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	names, err := src.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "2023" || names[1] != "2024" {
		t.Fatalf("unexpected listing: %v", names)
	}

	if _, err := src.List(ctx, "1999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found listing, got %v", err)
	}
}

func TestCachedSourceServesFromCacheUntilExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	origin := &countingSource{objects: map[string]Object{"k": {Body: []byte("v")}}}
	cached := NewCachedSource(origin, 10*time.Minute, clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		obj, err := cached.Get(ctx, "k")
		if err != nil || string(obj.Body) != "v" {
			t.Fatalf("unexpected get: %v %v", obj, err)
		}
	}
	if origin.gets.Load() != 1 {
		t.Fatalf("expected 1 upstream read, got %d", origin.gets.Load())
	}

	clock.Advance(10 * time.Minute)
	if _, err := cached.Get(ctx, "k"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if origin.gets.Load() != 2 {
		t.Fatalf("expected refetch after ttl, got %d reads", origin.gets.Load())
	}

	for i := 0; i < 2; i++ {
		if _, err := cached.List(ctx, ""); err != nil {
			t.Fatalf("list: %v", err)
		}
	}
	if origin.lists.Load() != 1 {
		t.Fatalf("expected 1 upstream list, got %d", origin.lists.Load())
	}
}

func TestCachedSourceDoesNotCacheErrors(t *testing.T) {
	origin := &countingSource{objects: map[string]Object{}}
	cached := NewCachedSource(origin, time.Minute, clockwork.NewFakeClock())

	for i := 0; i < 2; i++ {
		if _, err := cached.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if origin.gets.Load() != 2 {
		t.Fatalf("expected errors to be retried, got %d reads", origin.gets.Load())
	}
}

func TestCachedSourceCoalescesConcurrentMisses(t *testing.T) {
	origin := &countingSource{
		objects: map[string]Object{"k": {Body: []byte("v")}},
		release: make(chan struct{}),
	}
	cached := NewCachedSource(origin, time.Minute, clockwork.NewFakeClock())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cached.Get(context.Background(), "k"); err != nil {
				t.Errorf("get: %v", err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(origin.release)
	wg.Wait()

	if n := origin.gets.Load(); n != 1 {
		t.Fatalf("expected concurrent misses to share one read, got %d", n)
	}
}

func TestCachedSourceCallerCancelDoesNotFailOthers(t *testing.T) {
	origin := &countingSource{
		objects: map[string]Object{"k": {Body: []byte("v")}},
		release: make(chan struct{}),
	}
	cached := NewCachedSource(origin, time.Minute, clockwork.NewFakeClock())

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := cached.Get(ctxA, "k")
		errA <- err
	}()

	type result struct {
		obj Object
		err error
	}
	resB := make(chan result, 1)
	go func() {
		obj, err := cached.Get(context.Background(), "k")
		resB <- result{obj, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled caller to stop waiting, got %v", err)
	}

	close(origin.release)
	b := <-resB
	if b.err != nil {
		t.Fatalf("expected other caller to succeed, got %v", b.err)
	}
	if string(b.obj.Body) != "v" {
		t.Fatalf("unexpected body %q", b.obj.Body)
	}
	if n := origin.gets.Load(); n != 1 {
		t.Fatalf("expected one shared read, got %d", n)
	}
	if _, err := cached.Get(context.Background(), "k"); err != nil || origin.gets.Load() != 1 {
		t.Fatalf("expected the shared read to be cached, err=%v reads=%d", err, origin.gets.Load())
	}
}

func TestNewRequiresBackend(t *testing.T) {
	if _, err := New(context.Background(), config.Data{}); err == nil {
		t.Fatalf("expected error without bucket or path")
	}
	src, err := New(context.Background(), config.Data{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := src.(*LocalSource); !ok {
		t.Fatalf("expected local source, got %T", src)
	}
}
