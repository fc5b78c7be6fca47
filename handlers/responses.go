// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/survey"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidValue = errors.New("invalid value")
)

type ResponseHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	surveys *SurveyHandler
}

func NewResponseHandler(db *sql.DB, cfg cliparse.Config, surveys *SurveyHandler) *ResponseHandler {
	return &ResponseHandler{db: db, cfg: cfg, surveys: surveys}
}

// SubmitResponse handles POST /surveys/{slug}/responses
func (h *ResponseHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var req models.SubmitResponseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Answers) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "answers are required")
		return
	}

	parsed, err := h.surveys.ParsedSurvey(r.Context(), h.surveys.requestContext(r), slug)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	}
	if err != nil {
		slog.Error("failed to get survey", "slug", slug, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load survey")
		return
	}

	if err := ValidateAnswers(parsed, req.Answers); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	answers, err := json.Marshal(req.Answers)
	if err != nil {
		slog.Error("failed to encode answers", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save response")
		return
	}

	responseID := uuid.NewString()
	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt)

	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO survey_response (id, survey_slug, answers, submitted_at, ip_hash)
		VALUES ($1, $2, $3, $4, $5)
	`, responseID, slug, string(answers), time.Now().UTC(), ipHash)

	if err != nil {
		slog.Error("failed to insert response", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save response")
		return
	}

	slog.Info("response submitted", "slug", slug, "response_id", responseID, "answers", len(req.Answers))

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitResponseResponse{
		ResponseID: responseID,
		Message:    "Response recorded",
	})
}

// ListResponses handles GET /surveys/{slug}/responses
// Requires the survey's admin key
func (h *ResponseHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(auth.SurveyScope(slug), adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, survey_slug, answers, submitted_at
		FROM survey_response
		WHERE survey_slug = $1
		ORDER BY submitted_at, id
	`, slug)
	if err != nil {
		slog.Error("failed to query responses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	responses := []models.SurveyResponse{}
	for rows.Next() {
		var resp models.SurveyResponse
		var answers string
		if err := rows.Scan(&resp.ID, &resp.SurveySlug, &answers, &resp.SubmittedAt); err != nil {
			slog.Error("failed to scan response", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if err := json.Unmarshal([]byte(answers), &resp.Answers); err != nil {
			slog.Error("failed to decode answers", "response_id", resp.ID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		responses = append(responses, resp)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate responses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, responses)
}

// ValidateAnswers checks answers against a parsed survey's field names.
// Number fields take JSON numbers. "<fieldName>__other" takes a string and
// is only accepted when the question shows the other option.
func ValidateAnswers(parsed models.ParsedSurvey, answers map[string]any) error {
	fields := survey.Fields(parsed)

	names := make([]string, 0, len(answers))
	for name := range answers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := answers[name]

		if q, ok := fields[name]; ok {
			if q.Type == models.ValueNumber {
				if _, isNumber := value.(float64); !isNumber && value != nil {
					return fmt.Errorf("%w for %s: expected a number", ErrInvalidValue, name)
				}
			}
			continue
		}

		otherSuffix := models.FieldNameSeparator + models.OtherSuffix
		if base, found := strings.CutSuffix(name, otherSuffix); found {
			if q, ok := fields[base]; ok && q.ShowOther {
				if _, isString := value.(string); !isString {
					return fmt.Errorf("%w for %s: expected text", ErrInvalidValue, name)
				}
				continue
			}
		}

		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	return nil
}
