// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Survey API.

# Handler Types

Each handler is a struct with its database, config and cache dependencies:

  - SurveyHandler: survey upload, listing and parsed survey retrieval
  - ResponseHandler: answer submission and listing
  - CacheHandler: cache maintenance

	surveyHandler := handlers.NewSurveyHandler(db, cfg, c, rdb)
	responseHandler := handlers.NewResponseHandler(db, cfg, surveyHandler)

# Surveys

	POST /surveys        → CreateSurvey (JSON or YAML body, returns admin_key)
	GET  /surveys        → ListSurveys (cached as listSurveys)
	GET  /surveys/{slug} → GetSurvey (cached as getParsedSurvey)

Stored documents are raw outlines. Parsing happens on read, through the
cache, so a cache hit skips both the database and the parser. Append
?debug=true to bypass the cache.

# Responses

	POST /surveys/{slug}/responses → SubmitResponse
	GET  /surveys/{slug}/responses → ListResponses (X-Admin-Key)

Answers are keyed by field name. ValidateAnswers rejects unknown field
names and non-numeric values for number questions.

# Cache

	POST /cache/clear → ClearCache (X-Admin-Key for the cache scope)

# Admin Keys

Admin keys are HMAC-SHA256 over the scope, keyed with ADMIN_KEY_SALT and
encoded as unpadded URL-safe base64. A survey's scope is "survey:<slug>"
and its key is returned by CreateSurvey. The cache scope is "cache"; print
its key with:

	ADMIN_KEY_SALT=... go run ./cmd/adminkey
*/
package handlers
