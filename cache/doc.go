// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cache memoizes named computations behind deterministic keys.

# Cached Calls

Wrap a computation in a Func and call it through Use:

	var getParsedSurvey = cache.Func[SurveyOptions, models.ParsedSurvey]{
		Name: "getParsedSurvey",
		Call: func(ctx context.Context, in cache.Input[SurveyOptions]) (models.ParsedSurvey, error) {
			// ...
		},
	}

	parsed, err := cache.Use(ctx, c, getParsedSurvey, rc, SurveyOptions{Slug: slug})

On a miss the result is computed, JSON encoded and stored; later calls with
the same key decode the stored value. Zero results are never stored.

Caching is bypassed when Config.Disabled is set or the request context is
in debug mode. Bypassed calls receive no request context.

# Keys

	func_getParsedSurvey("css2024")

Option values are JSON encoded, except Named values and functions which
render as their name. cache.WithKey overrides the computed key.

# Stores

Config.Kind picks the backing store once at startup:

  - KindLocal: process memory (go-cache), lost on restart
  - KindRedis: the redis client carried by the request context

Entries never expire. Clear flushes the store.

# Concurrency

Concurrent misses on one key each compute and store; the last write wins.
Set Config.SingleFlight to share one computation between them.
*/
package cache
