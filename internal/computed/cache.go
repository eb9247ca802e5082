// Package computed memoises expensive per-load artifacts (network records,
// navigation timestamps, metric results) so repeated requests for the same
// trace and settings are computed once.
package computed

import (
	"context"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultSize is the number of artifacts kept when no size is configured.
const DefaultSize = 256

// Key identifies one computed artifact.
type Key struct {
	Kind     string // artifact kind, e.g. "network_records"
	Identity string // bundle or trace identity
	Settings string // settings the artifact depends on
}

// String quotes each field so distinct keys never render alike.
func (k Key) String() string {
	return fmt.Sprintf("%q|%q|%q", k.Kind, k.Identity, k.Settings)
}

// Stats counts cache traffic.
type Stats struct {
	Hits   int64
	Misses int64
	Len    int
}

// Cache is safe for concurrent use.
type Cache struct {
	entries *lru.Cache[Key, any]
	group   singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

// New returns a cache holding at most size artifacts.
func New(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[Key, any](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Len: c.entries.Len()}
}

// Purge drops every cached artifact.
func (c *Cache) Purge() {
	c.entries.Purge()
}

// Request returns the cached artifact for key, computing it with fn on a
// miss. Concurrent misses on one key share a single fn call. Errors are not
// cached.
func Request[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if v, ok := c.entries.Get(key); ok {
		c.hits.Add(1)
		return v.(T), nil
	}

	ch := c.group.DoChan(key.String(), func() (interface{}, error) {
		if v, ok := c.entries.Get(key); ok {
			return v, nil
		}
		c.misses.Add(1)
		// Waiters share fn, so it must not inherit one caller's cancellation.
		v, err := fn(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.entries.Add(key, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		return r.Val.(T), nil
	}
}
