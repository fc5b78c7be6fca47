// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command adminkey prints the admin key for a scope, derived from the
// server's ADMIN_KEY_SALT.
//
//	ADMIN_KEY_SALT=... adminkey                # key for POST /cache/clear
//	adminkey -admin-salt ... -survey css2024   # key for one survey's responses
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/quickly-survey/auth"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error("adminkey failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	var salt, slug string

	fs := flag.NewFlagSet("adminkey", flag.ContinueOnError)
	fs.StringVar(&salt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&slug, "survey", "", "Survey slug; omit for the cache key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if salt == "" {
		salt = os.Getenv("ADMIN_KEY_SALT")
	}
	if salt == "" {
		return errors.New("ADMIN_KEY_SALT required")
	}

	scope := auth.CacheScope
	if slug != "" {
		scope = auth.SurveyScope(slug)
	}

	_, err := fmt.Fprintln(stdout, auth.GenerateAdminKey(scope, salt))
	return err
}
