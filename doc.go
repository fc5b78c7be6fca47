// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Survey API server.

Quickly Survey hosts survey outlines. Outlines are uploaded as YAML or JSON,
parsed into questions with globally unique field names, and served through
a read-through cache backed by process memory or Redis.

# Starting the Server

The server reads configuration from CLI flags, environment variables, or a
.env file in the working directory:

	DATABASE_URL=quickly.db ADMIN_KEY_SALT=dev CACHE_TYPE=local go run .

Or with flags:

	go run . -p 4020 -t postgres -d "postgres://..." -cache redis -redis "redis://localhost:6379/1"

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC
  - REDIS_URL (-redis): Required unless CACHE_TYPE is "local"

Optional settings:

  - PORT (-p): Server port (default: 4020)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - CACHE_TYPE (-cache): local or redis; anything but "local" means redis
  - DISABLE_CACHE: Compute every call, never touch the store
  - CACHE_SINGLE_FLIGHT: Collapse concurrent misses on the same key

# Architecture

  - survey: Outline loading and parsing into field names
  - cache: Keyed read-through cache with local and Redis stores
  - handlers: HTTP request handlers (surveys, responses, cache)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, debug flag
  - models: Survey and request/response types
  - auth: Admin keys and IP hashing
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing

The cmd/parsesurvey tool runs the parser offline. The cmd/adminkey tool
prints admin keys, including the one for POST /cache/clear.

See package documentation for each component.
*/
package main
