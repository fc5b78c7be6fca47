// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-survey/cache"
	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/survey"
)

// TestDBURL is an in-memory sqlite database, private to each *sql.DB
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         4020,
		DatabaseURL:  TestDBURL,
		DatabaseType: "sqlite",
		AdminKeySalt: "test-admin-salt",
		CacheType:    cache.KindLocal,
	}
}

// NewTestCache returns a local cache built from cfg
func NewTestCache(cfg cliparse.Config) *cache.Cache {
	return cache.New(cfg.CacheConfig())
}

// TestSurvey returns a small survey document exercising section slugs,
// section ids, overrides, suffixes, number fields and other options
func TestSurvey(slug string) models.SurveyDocument {
	return models.SurveyDocument{
		Slug:      slug,
		Name:      "Test Survey",
		CreatedAt: "2024-06-01T00:00:00Z",
		Outline: []models.SurveySection{
			{
				Slug: "features",
				Questions: []models.Field{
					{ID: "subgrid"},
					{ID: "container_queries", AllowOther: true},
				},
			},
			{Slug: "intro"},
			{
				ID: "about",
				Questions: []models.Field{
					{ID: "years_of_experience", FieldType: "Number"},
					{ID: "source", SectionSlug: "user_info", Suffix: "freeform"},
				},
			},
		},
	}
}

// CreateTestSurvey stores a survey document directly in the database
func CreateTestSurvey(t *testing.T, conn *sql.DB, doc models.SurveyDocument) {
	t.Helper()

	document, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to encode test survey: %v", err)
	}

	createdAt := survey.ParseCreatedAt(doc.CreatedAt)
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = conn.Exec(`
		INSERT INTO survey (slug, name, document, created_at)
		VALUES ($1, $2, $3, $4)
	`, doc.Slug, doc.Name, string(document), createdAt)
	if err != nil {
		t.Fatalf("Failed to create test survey: %v", err)
	}
}

// CountResponses returns the number of stored responses for a survey
func CountResponses(t *testing.T, conn *sql.DB, slug string) int {
	t.Helper()

	var count int
	err := conn.QueryRow("SELECT COUNT(*) FROM survey_response WHERE survey_slug = $1", slug).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count responses: %v", err)
	}
	return count
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
