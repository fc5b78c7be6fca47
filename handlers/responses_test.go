// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/survey"
	"github.com/danielhkuo/quickly-survey/testutil"
)

func newTestResponseHandler(t *testing.T) (*ResponseHandler, func()) {
	t.Helper()
	surveys, cleanup := newTestSurveyHandler(t)
	testutil.CreateTestSurvey(t, surveys.db, testutil.TestSurvey("css2024"))
	return NewResponseHandler(surveys.db, surveys.cfg, surveys), cleanup
}

func TestSubmitResponse(t *testing.T) {
	tests := []struct {
		name           string
		slug           string
		body           interface{}
		expectedStatus int
	}{
		{
			name: "valid answers",
			slug: "css2024",
			body: models.SubmitResponseRequest{Answers: map[string]any{
				"css2024__features__subgrid":           "used",
				"css2024__about__years_of_experience":  7,
				"css2024__user_info__source__freeform": "a friend",
			}},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "other answer on question that allows it",
			slug: "css2024",
			body: models.SubmitResponseRequest{Answers: map[string]any{
				"css2024__features__container_queries":        "heard",
				"css2024__features__container_queries__other": "only in demos",
			}},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "unknown field",
			slug: "css2024",
			body: models.SubmitResponseRequest{Answers: map[string]any{
				"css2024__features__nope": "used",
			}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "text for number field",
			slug: "css2024",
			body: models.SubmitResponseRequest{Answers: map[string]any{
				"css2024__about__years_of_experience": "seven",
			}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "other answer on question without other",
			slug: "css2024",
			body: models.SubmitResponseRequest{Answers: map[string]any{
				"css2024__features__subgrid__other": "something",
			}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "no answers",
			slug:           "css2024",
			body:           models.SubmitResponseRequest{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown survey",
			slug: "js2024",
			body: models.SubmitResponseRequest{Answers: map[string]any{
				"js2024__features__proxies": "used",
			}},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, cleanup := newTestResponseHandler(t)
			defer cleanup()

			req := testutil.MakeRequest("POST", "/surveys/"+tt.slug+"/responses", tt.body, nil)
			req.SetPathValue("slug", tt.slug)
			w := httptest.NewRecorder()

			h.SubmitResponse(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			want := 0
			if tt.expectedStatus == http.StatusCreated {
				want = 1
				var resp models.SubmitResponseResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.ResponseID == "" {
					t.Error("Expected response_id")
				}
			}
			if got := testutil.CountResponses(t, h.db, tt.slug); got != want {
				t.Errorf("Expected %d stored responses, got %d", want, got)
			}
		})
	}
}

func TestSubmitResponse_InvalidJSON(t *testing.T) {
	h, cleanup := newTestResponseHandler(t)
	defer cleanup()

	req := httptest.NewRequest("POST", "/surveys/css2024/responses", nil)
	req.SetPathValue("slug", "css2024")
	w := httptest.NewRecorder()

	h.SubmitResponse(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestListResponses(t *testing.T) {
	h, cleanup := newTestResponseHandler(t)
	defer cleanup()

	for _, answer := range []string{"used", "heard"} {
		req := testutil.MakeRequest("POST", "/surveys/css2024/responses", models.SubmitResponseRequest{
			Answers: map[string]any{"css2024__features__subgrid": answer},
		}, nil)
		req.SetPathValue("slug", "css2024")
		w := httptest.NewRecorder()
		h.SubmitResponse(w, req)
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	adminKey := auth.GenerateAdminKey(auth.SurveyScope("css2024"), h.cfg.AdminKeySalt)

	tests := []struct {
		name           string
		adminKey       string
		expectedStatus int
	}{
		{"valid admin key", adminKey, http.StatusOK},
		{"missing admin key", "", http.StatusUnauthorized},
		{"cache admin key", auth.GenerateAdminKey(auth.CacheScope, h.cfg.AdminKeySalt), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/surveys/css2024/responses", nil, map[string]string{
				"X-Admin-Key": tt.adminKey,
			})
			req.SetPathValue("slug", "css2024")
			w := httptest.NewRecorder()

			h.ListResponses(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var responses []models.SurveyResponse
			testutil.AssertJSON(t, w, &responses)
			if len(responses) != 2 {
				t.Fatalf("Expected 2 responses, got %d", len(responses))
			}
			for _, resp := range responses {
				if resp.SurveySlug != "css2024" {
					t.Errorf("Expected survey slug css2024, got %s", resp.SurveySlug)
				}
				if _, ok := resp.Answers["css2024__features__subgrid"]; !ok {
					t.Errorf("Expected subgrid answer in %v", resp.Answers)
				}
			}
		})
	}
}

func TestValidateAnswers(t *testing.T) {
	parsed := survey.Parse(testutil.TestSurvey("css2024"))

	tests := []struct {
		name    string
		answers map[string]any
		wantErr error
	}{
		{"string field", map[string]any{"css2024__features__subgrid": "used"}, nil},
		{"number field", map[string]any{"css2024__about__years_of_experience": float64(3)}, nil},
		{"null number", map[string]any{"css2024__about__years_of_experience": nil}, nil},
		{"array for string field", map[string]any{"css2024__features__subgrid": []any{"a", "b"}}, nil},
		{"number as text", map[string]any{"css2024__about__years_of_experience": "3"}, ErrInvalidValue},
		{"other text", map[string]any{"css2024__features__container_queries__other": "x"}, nil},
		{"other not text", map[string]any{"css2024__features__container_queries__other": float64(1)}, ErrInvalidValue},
		{"other not allowed", map[string]any{"css2024__features__subgrid__other": "x"}, ErrUnknownField},
		{"section slug not overridden", map[string]any{"css2024__about__source__freeform": "x"}, ErrUnknownField},
		{"other survey", map[string]any{"js2024__features__subgrid": "used"}, ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAnswers(parsed, tt.answers)
			if tt.wantErr == nil && err != nil {
				t.Errorf("ValidateAnswers() unexpected error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAnswers() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
