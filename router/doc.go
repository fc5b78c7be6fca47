// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Survey API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, c, rdb)

rdb is the Redis client used by the redis cache store and may be nil when
the cache is local.

# Endpoints

Health:

	GET /health

Surveys:

	POST /surveys        - Upload a survey (JSON or YAML), returns admin key
	GET  /surveys        - List surveys (cached)
	GET  /surveys/{slug} - Parsed survey with field names (cached)

Responses:

	POST /surveys/{slug}/responses - Submit answers keyed by field name
	GET  /surveys/{slug}/responses - List answers (requires X-Admin-Key)

Cache:

	POST /cache/clear - Flush the cache store (requires cache admin key)

Any cached route accepts ?debug=true or X-Debug: 1 to bypass the cache.
*/
package router
