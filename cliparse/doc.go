// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 4020)
  - DatabaseURL: database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - CacheType: local or redis (anything but "local" means redis)
  - RedisURL: redis connection URL (required for the redis cache)
  - DisableCache: bypass the cache for every call
  - SingleFlight: share one computation between concurrent cache misses

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	--cache       Cache type
	--redis       Redis URL
	--admin-salt  Admin key salt

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	CACHE_TYPE     → --cache
	REDIS_URL      → --redis
	ADMIN_KEY_SALT → --admin-salt

DISABLE_CACHE and CACHE_SINGLE_FLIGHT are environment only and accept the
values understood by strconv.ParseBool.

CLI flags take precedence over environment variables. main loads a .env
file, if present, before parsing.
*/
package cliparse
