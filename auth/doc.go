// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin keys and IP hashing.

# Admin Keys

Admin keys use HMAC-SHA256 over a scope to create deterministic, verifiable
keys:

	adminKey := auth.GenerateAdminKey(auth.SurveyScope(slug), salt)
	err := auth.ValidateAdminKey(auth.SurveyScope(slug), adminKey, salt)

Scopes:

  - SurveyScope(slug): reading a survey's responses
  - CacheScope: clearing the cache

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same scope and salt always produce the same key. This allows validation
without storing the key in the database.

# IP Hashing

Responses store a salted hash of the client IP, never the IP itself:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
