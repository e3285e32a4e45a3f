package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/sportnumerics/sportnumerics/internal/repository/memory"
)

// Upper bound on a shared upstream read once the caller that started it
// has gone away.
const loadTimeout = 30 * time.Second

// CachedSource is a read-through cache in front of another Source.
// Successful reads are kept for ttl; failures are not cached. Concurrent
// misses for the same key share one upstream read.
type CachedSource struct {
	origin  Source
	ttl     time.Duration
	objects *memory.Repository[Object]
	lists   *memory.Repository[[]string]
	group   singleflight.Group
}

func NewCachedSource(origin Source, ttl time.Duration, clock clockwork.Clock) *CachedSource {
	return &CachedSource{
		origin:  origin,
		ttl:     ttl,
		objects: memory.NewRepository[Object](clock),
		lists:   memory.NewRepository[[]string](clock),
	}
}

func (c *CachedSource) Get(ctx context.Context, key string) (Object, error) {
	if obj, ok := c.objects.Get(key); ok {
		return obj, nil
	}
	v, err := c.share(ctx, "get:"+key, func(ctx context.Context) (any, error) {
		obj, err := c.origin.Get(ctx, key)
		if err != nil {
			return Object{}, err
		}
		c.objects.Save(key, obj, c.ttl)
		return obj, nil
	})
	if err != nil {
		return Object{}, err
	}
	return v.(Object), nil
}

func (c *CachedSource) List(ctx context.Context, prefix string) ([]string, error) {
	if names, ok := c.lists.Get(prefix); ok {
		return names, nil
	}
	v, err := c.share(ctx, "list:"+prefix, func(ctx context.Context) (any, error) {
		names, err := c.origin.List(ctx, prefix)
		if err != nil {
			return nil, err
		}
		c.lists.Save(prefix, names, c.ttl)
		return names, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// share runs load once per key for all concurrent callers. The load is
// detached from any single caller's cancellation; each caller stops
// waiting when its own ctx is done.
func (c *CachedSource) share(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return load(loadCtx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Check forwards to the origin when it supports health checks.
func (c *CachedSource) Check(ctx context.Context) error {
	if checker, ok := c.origin.(interface{ Check(context.Context) error }); ok {
		return checker.Check(ctx)
	}
	return nil
}

// Origin returns the uncached backend.
func (c *CachedSource) Origin() Source {
	return c.origin
}

// Purge drops expired entries.
func (c *CachedSource) Purge() {
	removed := c.objects.Purge() + c.lists.Purge()
	if removed > 0 {
		slog.Debug("Purged cache entries", "removed", removed)
	}
}
