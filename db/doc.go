// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connections

Open picks the driver from DATABASE_TYPE:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

  - postgres: github.com/lib/pq
  - sqlite: modernc.org/sqlite (default, also used by tests)

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - survey: raw survey document (JSON) keyed by slug
  - survey_response: submitted answers keyed by field name (JSON)

	survey 1──* survey_response

Parsed surveys are never stored; they are computed from the raw document
and kept in the cache.
*/
package db
