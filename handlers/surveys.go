// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/cache"
	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/survey"
)

// maxSurveyBytes bounds survey upload bodies
const maxSurveyBytes = 1 << 20

type surveyOptions struct {
	Slug string
}

type SurveyHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	cache *cache.Cache
	redis redis.UniversalClient

	getParsedSurvey cache.Func[surveyOptions, models.ParsedSurvey]
	listSurveys     cache.Func[struct{}, []models.SurveySummary]
}

func NewSurveyHandler(db *sql.DB, cfg cliparse.Config, c *cache.Cache, rdb redis.UniversalClient) *SurveyHandler {
	h := &SurveyHandler{db: db, cfg: cfg, cache: c, redis: rdb}
	h.getParsedSurvey = cache.Func[surveyOptions, models.ParsedSurvey]{
		Name: "getParsedSurvey",
		Call: func(ctx context.Context, in cache.Input[surveyOptions]) (models.ParsedSurvey, error) {
			doc, err := h.loadDocument(ctx, in.Options.Slug)
			if err != nil {
				return models.ParsedSurvey{}, err
			}
			return survey.Parse(doc), nil
		},
	}
	h.listSurveys = cache.Func[struct{}, []models.SurveySummary]{
		Name: "listSurveys",
		Call: func(ctx context.Context, _ cache.Input[struct{}]) ([]models.SurveySummary, error) {
			return h.loadSummaries(ctx)
		},
	}
	return h
}

// requestContext carries what cached calls need for this request
func (h *SurveyHandler) requestContext(r *http.Request) *cache.RequestContext {
	return &cache.RequestContext{
		Redis: h.redis,
		Debug: middleware.IsDebug(r),
	}
}

// ParsedSurvey returns the parsed survey for slug through the cache.
// sql.ErrNoRows means the survey does not exist.
func (h *SurveyHandler) ParsedSurvey(ctx context.Context, rc *cache.RequestContext, slug string) (models.ParsedSurvey, error) {
	return cache.Use(ctx, h.cache, h.getParsedSurvey, rc, surveyOptions{Slug: slug})
}

// CreateSurvey handles POST /surveys
// Accepts a JSON or YAML survey document
func (h *SurveyHandler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeSurveyBody(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid survey document")
		return
	}

	if err := survey.Validate(doc); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}
	if strings.Contains(doc.Slug, models.FieldNameSeparator) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug must not contain "+models.FieldNameSeparator)
		return
	}

	createdAt := survey.ParseCreatedAt(doc.CreatedAt)
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
		doc.CreatedAt = createdAt.Format(time.RFC3339Nano)
	}

	document, err := json.Marshal(doc)
	if err != nil {
		slog.Error("failed to encode survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create survey")
		return
	}

	// The primary key decides between concurrent creates of one slug
	result, err := h.db.ExecContext(r.Context(), `
		INSERT INTO survey (slug, name, document, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO NOTHING
	`, doc.Slug, doc.Name, string(document), createdAt)

	if err != nil {
		slog.Error("failed to insert survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create survey")
		return
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		slog.Error("failed to check survey insert", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create survey")
		return
	}
	if inserted == 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Survey already exists")
		return
	}

	slog.Info("survey created", "slug", doc.Slug, "sections", len(doc.Outline))

	// The cached list predates this survey; recompute and overwrite it
	h.refreshSurveyList(r.Context(), h.requestContext(r))

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSurveyResponse{
		Slug:     doc.Slug,
		AdminKey: auth.GenerateAdminKey(auth.SurveyScope(doc.Slug), h.cfg.AdminKeySalt),
	})
}

// GetSurvey handles GET /surveys/{slug}
// Returns the parsed survey with field names
func (h *SurveyHandler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	parsed, err := h.ParsedSurvey(r.Context(), h.requestContext(r), slug)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	}
	if err != nil {
		slog.Error("failed to get survey", "slug", slug, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load survey")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, parsed)
}

// ListSurveys handles GET /surveys
func (h *SurveyHandler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	summaries, err := cache.Use(r.Context(), h.cache, h.listSurveys, h.requestContext(r), struct{}{})
	if err != nil {
		slog.Error("failed to list surveys", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to list surveys")
		return
	}
	if summaries == nil {
		summaries = []models.SurveySummary{}
	}

	middleware.JSONResponse(w, http.StatusOK, summaries)
}

// refreshSurveyList overwrites the cached survey list. Debug requests only
// skip cache reads, so the write still happens for them.
// Failures are logged; the stale entry stays until the next overwrite.
func (h *SurveyHandler) refreshSurveyList(ctx context.Context, rc *cache.RequestContext) {
	if h.cache.Config().Disabled {
		return
	}
	rc = &cache.RequestContext{Redis: rc.Redis}
	summaries, err := h.loadSummaries(ctx)
	if err != nil || len(summaries) == 0 {
		return
	}
	key := cache.ComputeKey(h.listSurveys.Name, struct{}{})
	if _, err := h.cache.Set(ctx, rc, key, summaries); err != nil {
		slog.Warn("failed to refresh survey list", "key", key, "error", err)
	}
}

func (h *SurveyHandler) loadDocument(ctx context.Context, slug string) (models.SurveyDocument, error) {
	var document string
	err := h.db.QueryRowContext(ctx, "SELECT document FROM survey WHERE slug = $1", slug).Scan(&document)
	if err != nil {
		return models.SurveyDocument{}, err
	}

	var doc models.SurveyDocument
	if err := json.Unmarshal([]byte(document), &doc); err != nil {
		return models.SurveyDocument{}, fmt.Errorf("failed to decode stored survey %q: %w", slug, err)
	}
	return doc, nil
}

func (h *SurveyHandler) loadSummaries(ctx context.Context) ([]models.SurveySummary, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT slug, name, document, created_at
		FROM survey
		ORDER BY created_at DESC, slug
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query surveys: %w", err)
	}
	defer rows.Close()

	summaries := []models.SurveySummary{}
	for rows.Next() {
		var s models.SurveySummary
		var document string
		if err := rows.Scan(&s.Slug, &s.Name, &document, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan survey: %w", err)
		}
		var doc models.SurveyDocument
		if err := json.Unmarshal([]byte(document), &doc); err != nil {
			return nil, fmt.Errorf("failed to decode stored survey %q: %w", s.Slug, err)
		}
		s.QuestionCount = survey.QuestionCount(survey.Parse(doc))
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// decodeSurveyBody reads a survey document as YAML when the content type
// says so, as JSON when it says so, and sniffs otherwise
func decodeSurveyBody(r *http.Request) (models.SurveyDocument, error) {
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, maxSurveyBytes))
	if err != nil {
		return models.SurveyDocument{}, err
	}

	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.Contains(contentType, "yaml"):
		return survey.DecodeYAML(data)
	case strings.Contains(contentType, "json"):
		return survey.DecodeJSON(data)
	default:
		return survey.Load(bytes.NewReader(data))
	}
}
