// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// DriverName maps a DATABASE_TYPE value to its database/sql driver
func DriverName(databaseType string) (string, error) {
	switch databaseType {
	case "postgres":
		return "postgres", nil
	case "sqlite", "":
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported database type %q", databaseType)
	}
}

// Open connects to the configured database and verifies the connection
func Open(databaseType, url string) (*sql.DB, error) {
	driver, err := DriverName(databaseType)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite allows a single writer
	if driver == "sqlite" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Schema is valid for both postgres and sqlite
const Schema = `
-- Surveys
CREATE TABLE IF NOT EXISTS survey (
    slug TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    document TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_survey_created_at ON survey(created_at);

-- Responses
CREATE TABLE IF NOT EXISTS survey_response (
    id TEXT PRIMARY KEY,
    survey_slug TEXT NOT NULL REFERENCES survey(slug) ON DELETE CASCADE,
    answers TEXT NOT NULL,
    submitted_at TIMESTAMP NOT NULL,
    ip_hash TEXT
);

CREATE INDEX IF NOT EXISTS idx_survey_response_slug ON survey_response(survey_slug);
`
