// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/quickly-survey/cache"
	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/handlers"
	"github.com/danielhkuo/quickly-survey/middleware"
)

// NewRouter wires all handlers. rdb may be nil when the cache is local.
func NewRouter(db *sql.DB, cfg cliparse.Config, c *cache.Cache, rdb redis.UniversalClient) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	surveyHandler := handlers.NewSurveyHandler(db, cfg, c, rdb)
	responseHandler := handlers.NewResponseHandler(db, cfg, surveyHandler)
	cacheHandler := handlers.NewCacheHandler(cfg, c, rdb)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Surveys
	mux.HandleFunc("POST /surveys", middleware.WithLogging(surveyHandler.CreateSurvey))
	mux.HandleFunc("GET /surveys", middleware.WithLogging(surveyHandler.ListSurveys))
	mux.HandleFunc("GET /surveys/{slug}", middleware.WithLogging(surveyHandler.GetSurvey))

	// Responses
	mux.HandleFunc("POST /surveys/{slug}/responses", middleware.WithLogging(responseHandler.SubmitResponse))
	mux.HandleFunc("GET /surveys/{slug}/responses", middleware.WithLogging(responseHandler.ListResponses))

	// Cache administration
	mux.HandleFunc("POST /cache/clear", middleware.WithLogging(cacheHandler.ClearCache))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-survey API v1"))
	})

	return mux
}
