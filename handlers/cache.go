// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/cache"
	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
)

type CacheHandler struct {
	cfg   cliparse.Config
	cache *cache.Cache
	redis redis.UniversalClient
}

func NewCacheHandler(cfg cliparse.Config, c *cache.Cache, rdb redis.UniversalClient) *CacheHandler {
	return &CacheHandler{cfg: cfg, cache: c, redis: rdb}
}

// ClearCache handles POST /cache/clear
// Requires the cache admin key
func (h *CacheHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(auth.CacheScope, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	rc := &cache.RequestContext{Redis: h.redis}
	if err := h.cache.Clear(r.Context(), rc); err != nil {
		slog.Error("failed to clear cache", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to clear cache")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ClearCacheResponse{
		Message: "Cache cleared",
	})
}
