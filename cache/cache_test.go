// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countOptions struct {
	Slug string
}

type countResult struct {
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// countingFunc returns a Func that records how it was called
func countingFunc(calls *atomic.Int32, sawRequest *atomic.Bool) Func[countOptions, countResult] {
	return Func[countOptions, countResult]{
		Name: "countResponses",
		Call: func(ctx context.Context, in Input[countOptions]) (countResult, error) {
			calls.Add(1)
			if sawRequest != nil {
				sawRequest.Store(in.Request != nil)
			}
			return countResult{Slug: in.Options.Slug, Count: 42}, nil
		},
	}
}

func TestUse_MissThenHit(t *testing.T) {
	ctx := context.Background()
	c := New(Config{Kind: KindLocal})
	rc := &RequestContext{}

	var calls atomic.Int32
	var sawRequest atomic.Bool
	fn := countingFunc(&calls, &sawRequest)

	first, err := Use(ctx, c, fn, rc, countOptions{Slug: "js2024"})
	require.NoError(t, err)
	assert.Equal(t, countResult{Slug: "js2024", Count: 42}, first)
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, sawRequest.Load(), "cached computation should receive the request context")

	var stored countResult
	hit, err := c.Get(ctx, rc, `func_countResponses("js2024")`, &stored)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, stored)

	second, err := Use(ctx, c, fn, rc, countOptions{Slug: "js2024"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())

	_, err = Use(ctx, c, fn, rc, countOptions{Slug: "css2024"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestUse_DebugBypassesStore(t *testing.T) {
	ctx := context.Background()
	c := New(Config{Kind: KindLocal})
	rc := &RequestContext{Debug: true}

	var calls atomic.Int32
	sawRequest := &atomic.Bool{}
	sawRequest.Store(true)
	fn := countingFunc(&calls, sawRequest)

	_, err := Use(ctx, c, fn, rc, countOptions{Slug: "js2024"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, sawRequest.Load(), "bypassed computation should not receive the request context")
	assert.Equal(t, 0, c.local.Len())

	_, err = Use(ctx, c, fn, rc, countOptions{Slug: "js2024"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 0, c.local.Len())
}

func TestUse_DisabledBypassesStore(t *testing.T) {
	ctx := context.Background()
	c := New(Config{Kind: KindRedis, Disabled: true})

	var calls atomic.Int32
	fn := countingFunc(&calls, nil)

	// No redis client: the store must never be reached
	_, err := Use(ctx, c, fn, &RequestContext{}, countOptions{Slug: "a"})
	require.NoError(t, err)
	_, err = Use(ctx, c, fn, nil, countOptions{Slug: "a"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestUse_ZeroResultNotStored(t *testing.T) {
	ctx := context.Background()
	c := New(Config{Kind: KindLocal})

	var calls atomic.Int32
	fn := Func[countOptions, int]{
		Name: "countBallots",
		Call: func(ctx context.Context, in Input[countOptions]) (int, error) {
			calls.Add(1)
			return 0, nil
		},
	}

	v, err := Use(ctx, c, fn, &RequestContext{}, countOptions{Slug: "empty"})
	require.NoError(t, err)
	assert.Equal(t, 0, v)
	assert.Equal(t, 0, c.local.Len())

	_, err = Use(ctx, c, fn, &RequestContext{}, countOptions{Slug: "empty"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestUse_NilSliceNotStored(t *testing.T) {
	c := New(Config{Kind: KindLocal})
	fn := Func[struct{}, []string]{
		Name: "listSlugs",
		Call: func(ctx context.Context, in Input[struct{}]) ([]string, error) {
			return nil, nil
		},
	}

	v, err := Use(context.Background(), c, fn, &RequestContext{}, struct{}{})
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, 0, c.local.Len())
}

func TestUse_ErrorPropagates(t *testing.T) {
	ctx := context.Background()
	c := New(Config{Kind: KindLocal})
	boom := errors.New("database unavailable")

	fn := Func[countOptions, countResult]{
		Name: "failing",
		Call: func(ctx context.Context, in Input[countOptions]) (countResult, error) {
			return countResult{Count: 1}, boom
		},
	}

	_, err := Use(ctx, c, fn, &RequestContext{}, countOptions{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.local.Len())

	_, err = Use(ctx, c, fn, &RequestContext{Debug: true}, countOptions{})
	assert.ErrorIs(t, err, boom)
}

func TestUse_ExplicitKey(t *testing.T) {
	ctx := context.Background()
	c := New(Config{Kind: KindLocal})
	rc := &RequestContext{}

	var calls atomic.Int32
	fn := countingFunc(&calls, nil)

	_, err := Use(ctx, c, fn, rc, countOptions{Slug: "a"}, WithKey("responses:count"))
	require.NoError(t, err)

	var stored countResult
	hit, err := c.Get(ctx, rc, "responses:count", &stored)
	require.NoError(t, err)
	assert.True(t, hit)

	// Different options, same explicit key: served from cache
	v, err := Use(ctx, c, fn, rc, countOptions{Slug: "b"}, WithKey("responses:count"))
	require.NoError(t, err)
	assert.Equal(t, "a", v.Slug)
	assert.Equal(t, int32(1), calls.Load())
}

func TestUse_LogsPath(t *testing.T) {
	logs := captureLogs(t)
	ctx := context.Background()
	c := New(Config{Kind: KindLocal})

	var calls atomic.Int32
	fn := countingFunc(&calls, nil)

	_, _ = Use(ctx, c, fn, &RequestContext{}, countOptions{Slug: "x"})
	_, _ = Use(ctx, c, fn, &RequestContext{}, countOptions{Slug: "x"})
	_, _ = Use(ctx, c, fn, &RequestContext{Debug: true}, countOptions{Slug: "x"})

	out := logs.String()
	assert.Contains(t, out, VerbCompute)
	assert.Contains(t, out, VerbHit)
	assert.Contains(t, out, VerbBypass)
	assert.Contains(t, out, "cache_type=local")
	assert.Equal(t, 3, strings.Count(out, "duration_ms="))
}

func TestUse_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	c := New(Config{Kind: KindRedis})
	rc := &RequestContext{Redis: client}

	var calls atomic.Int32
	fn := countingFunc(&calls, nil)

	_, err := Use(ctx, c, fn, rc, countOptions{Slug: "js2024"})
	require.NoError(t, err)

	raw, err := mr.Get(`func_countResponses("js2024")`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"slug":"js2024","count":42}`, raw)

	v, err := Use(ctx, c, fn, rc, countOptions{Slug: "js2024"})
	require.NoError(t, err)
	assert.Equal(t, 42, v.Count)
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, c.Clear(ctx, rc))
	assert.False(t, mr.Exists(`func_countResponses("js2024")`))

	_, err = Use(ctx, c, fn, rc, countOptions{Slug: "js2024"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestUse_RedisFailurePropagates(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	var calls atomic.Int32
	c := New(Config{Kind: KindRedis})
	_, err := Use(context.Background(), c, countingFunc(&calls, nil), &RequestContext{Redis: client}, countOptions{})
	assert.Error(t, err)
	assert.Equal(t, int32(0), calls.Load())
}

func TestUse_RedisWithoutClient(t *testing.T) {
	c := New(Config{Kind: KindRedis})
	var calls atomic.Int32
	_, err := Use(context.Background(), c, countingFunc(&calls, nil), &RequestContext{}, countOptions{})
	assert.ErrorIs(t, err, ErrNoRedisClient)
}

func TestUse_SingleFlight(t *testing.T) {
	ctx := context.Background()
	c := New(Config{Kind: KindLocal, SingleFlight: true})

	var calls atomic.Int32
	release := make(chan struct{})
	fn := Func[countOptions, countResult]{
		Name: "slowCount",
		Call: func(ctx context.Context, in Input[countOptions]) (countResult, error) {
			calls.Add(1)
			<-release
			return countResult{Count: 7}, nil
		},
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]countResult, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Use(ctx, c, fn, &RequestContext{}, countOptions{Slug: "same"})
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Let every caller reach the in-flight computation
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, 7, r.Count)
	}
}

func TestUse_SingleFlightSurvivesLeaderCancel(t *testing.T) {
	c := New(Config{Kind: KindLocal, SingleFlight: true})

	started := make(chan struct{})
	var startOnce sync.Once
	release := make(chan struct{})
	fn := Func[countOptions, countResult]{
		Name: "slowCount",
		Call: func(ctx context.Context, in Input[countOptions]) (countResult, error) {
			startOnce.Do(func() { close(started) })
			<-release
			if err := ctx.Err(); err != nil {
				return countResult{}, err
			}
			return countResult{Count: 7}, nil
		},
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_, _ = Use(leaderCtx, c, fn, &RequestContext{}, countOptions{Slug: "same"})
	}()
	<-started

	followerDone := make(chan countResult, 1)
	followerErr := make(chan error, 1)
	go func() {
		v, err := Use(context.Background(), c, fn, &RequestContext{}, countOptions{Slug: "same"})
		followerDone <- v
		followerErr <- err
	}()

	// Let the follower join the in-flight computation, then drop the leader
	time.Sleep(50 * time.Millisecond)
	cancel()
	close(release)

	require.NoError(t, <-followerErr)
	assert.Equal(t, 7, (<-followerDone).Count)
}

func TestCache_ClearLocal(t *testing.T) {
	ctx := context.Background()
	c := New(Config{Kind: KindLocal})
	rc := &RequestContext{}

	_, err := c.Set(ctx, rc, "k", map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, 1, c.local.Len())

	require.NoError(t, c.Clear(ctx, rc))
	assert.Equal(t, 0, c.local.Len())
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, KindLocal, ParseKind("local"))
	assert.Equal(t, KindRedis, ParseKind("redis"))
	assert.Equal(t, KindRedis, ParseKind(""))
	assert.Equal(t, KindRedis, ParseKind("LOCAL"))
}

func TestNew_DefaultsToLocal(t *testing.T) {
	assert.Equal(t, KindLocal, New(Config{}).Config().Kind)
}
