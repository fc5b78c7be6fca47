// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Log verbs for the path a cached call took
const (
	VerbHit     = "using cache"
	VerbCompute = "computing and caching result"
	VerbBypass  = "computing result"
)

type Config struct {
	Kind Kind

	// Disabled turns caching off for every call
	Disabled bool

	// SingleFlight collapses concurrent misses on the same key into one
	// computation. Off by default: concurrent misses each compute and
	// the last write wins.
	SingleFlight bool
}

// RequestContext is the per-request state a cached call needs
type RequestContext struct {
	Redis redis.UniversalClient
	Debug bool
}

// Cache owns the process-local store and the settings chosen at startup
type Cache struct {
	cfg   Config
	local *LocalStore
	group singleflight.Group
}

func New(cfg Config) *Cache {
	if cfg.Kind == "" {
		cfg.Kind = KindLocal
	}
	return &Cache{cfg: cfg, local: NewLocalStore()}
}

func (c *Cache) Config() Config {
	return c.cfg
}

// Store returns the backing store for a request
func (c *Cache) Store(rc *RequestContext) (Store, error) {
	if c.cfg.Kind == KindLocal {
		return c.local, nil
	}
	if rc == nil || rc.Redis == nil {
		return nil, ErrNoRedisClient
	}
	return NewRedisStore(rc.Redis), nil
}

// Get reads and decodes one entry
func (c *Cache) Get(ctx context.Context, rc *RequestContext, key string, dest any) (bool, error) {
	store, err := c.Store(rc)
	if err != nil {
		return false, err
	}
	b, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache entry %q: %w", key, err)
	}
	return true, nil
}

// Set encodes and stores one entry, overwriting any previous value
func (c *Cache) Set(ctx context.Context, rc *RequestContext, key string, value any) (int, error) {
	store, err := c.Store(rc)
	if err != nil {
		return 0, err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return 0, fmt.Errorf("failed to encode cache entry %q: %w", key, err)
	}
	return len(b), store.Set(ctx, key, b)
}

// Clear removes every entry from the backing store
func (c *Cache) Clear(ctx context.Context, rc *RequestContext) error {
	store, err := c.Store(rc)
	if err != nil {
		return err
	}
	if err := store.Clear(ctx); err != nil {
		return err
	}
	slog.Info("cache cleared", "cache_type", c.cfg.Kind)
	return nil
}

// Input is what a cached computation receives. Request is nil when the
// call bypassed the cache.
type Input[O any] struct {
	Options O
	Request *RequestContext
}

// Func is a named computation. The name is part of the cache key.
type Func[O, R any] struct {
	Name string
	Call func(ctx context.Context, in Input[O]) (R, error)
}

func (f Func[O, R]) FuncName() string {
	return f.Name
}

type callOptions struct {
	key string
}

type CallOption func(*callOptions)

// WithKey overrides the computed cache key
func WithKey(key string) CallOption {
	return func(o *callOptions) {
		o.key = key
	}
}

// Use returns the cached result of fn for options, computing and storing
// it on a miss. Caching is skipped when disabled in Config or when the
// request is in debug mode. Zero results are returned but not stored.
func Use[O, R any](ctx context.Context, c *Cache, fn Func[O, R], rc *RequestContext, options O, opts ...CallOption) (R, error) {
	startedAt := time.Now()

	var co callOptions
	for _, opt := range opts {
		opt(&co)
	}
	key := co.key
	if key == "" {
		key = ComputeKey(fn.Name, options)
	}

	debug := rc != nil && rc.Debug
	enabled := !c.cfg.Disabled && !debug

	var (
		value R
		verb  string
		size  int
		err   error
	)

	if enabled {
		var hit bool
		hit, err = c.Get(ctx, rc, key, &value)
		if err != nil {
			return value, err
		}
		if hit {
			verb = VerbHit
		} else {
			verb = VerbCompute
			value, size, err = computeAndStore(ctx, c, key, fn, Input[O]{Options: options, Request: rc})
			if err != nil {
				return value, err
			}
		}
	} else {
		verb = VerbBypass
		value, err = fn.Call(ctx, Input[O]{Options: options})
		if err != nil {
			return value, err
		}
	}

	attrs := []any{
		"key", key,
		"duration_ms", time.Since(startedAt).Milliseconds(),
		"debug", debug,
		"disable_cache", c.cfg.Disabled,
		"cache_type", c.cfg.Kind,
	}
	if size > 0 {
		attrs = append(attrs, "size", humanize.Bytes(uint64(size)))
	}
	slog.Info(verb, attrs...)

	return value, nil
}

type computed[R any] struct {
	value R
	size  int
}

func computeAndStore[O, R any](ctx context.Context, c *Cache, key string, fn Func[O, R], in Input[O]) (R, int, error) {
	compute := func(ctx context.Context) (computed[R], error) {
		value, err := fn.Call(ctx, in)
		if err != nil || isZero(value) {
			return computed[R]{value: value}, err
		}
		size, err := c.Set(ctx, in.Request, key, value)
		return computed[R]{value: value, size: size}, err
	}

	if !c.cfg.SingleFlight {
		res, err := compute(ctx)
		return res.value, res.size, err
	}

	// Waiters share the result, so one caller cancelling must not fail the rest
	v, err, _ := c.group.Do(key, func() (any, error) {
		return compute(context.WithoutCancel(ctx))
	})
	res, _ := v.(computed[R])
	return res.value, res.size, err
}

func isZero(v any) bool {
	rv := reflect.ValueOf(v)
	return !rv.IsValid() || rv.IsZero()
}
