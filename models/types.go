// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// ValueType is the inferred storage type of a question's answer.
type ValueType string

// Closed set of answer value types
const (
	ValueString ValueType = "string"
	ValueNumber ValueType = "number"
)

// FieldTypeNumber is the only type hint that changes the inferred value type
const FieldTypeNumber = "Number"

// FieldNameSeparator joins the parts of a generated field name
const FieldNameSeparator = "__"

// OtherSuffix marks the free-text "other" answer of a question
const OtherSuffix = "other"

// Raw survey definition types, as authored in YAML or JSON

type SurveyDocument struct {
	Slug      string          `json:"slug" yaml:"slug"`
	Name      string          `json:"name,omitempty" yaml:"name,omitempty"`
	CreatedAt string          `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	Outline   []SurveySection `json:"outline" yaml:"outline"`
}

type SurveySection struct {
	Slug      string  `json:"slug,omitempty" yaml:"slug,omitempty"`
	ID        string  `json:"id,omitempty" yaml:"id,omitempty"`
	Questions []Field `json:"questions,omitempty" yaml:"questions,omitempty"`
}

type Field struct {
	ID          string        `json:"id" yaml:"id"`
	FieldType   string        `json:"fieldType,omitempty" yaml:"fieldType,omitempty"`
	AllowOther  bool          `json:"allowother,omitempty" yaml:"allowother,omitempty"`
	SectionSlug string        `json:"sectionSlug,omitempty" yaml:"sectionSlug,omitempty"`
	Suffix      string        `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Options     []FieldOption `json:"options,omitempty" yaml:"options,omitempty"`
}

type FieldOption struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Parsed survey types

type ParsedQuestion struct {
	Field
	Slug      string    `json:"slug"`
	Type      ValueType `json:"type"`
	ShowOther bool      `json:"showOther"`
	FieldName string    `json:"fieldName"`
	Number    int       `json:"number"`

	// UnsupportedHint holds a fieldType that was not recognized and fell
	// back to ValueString.
	UnsupportedHint string `json:"unsupportedHint,omitempty"`
}

type ParsedSection struct {
	Slug      string           `json:"slug,omitempty"`
	ID        string           `json:"id,omitempty"`
	Questions []ParsedQuestion `json:"questions,omitempty"`
}

type ParsedSurvey struct {
	Slug      string          `json:"slug"`
	Name      string          `json:"name,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	Outline   []ParsedSection `json:"outline"`
}

// Response types

type CreateSurveyResponse struct {
	Slug     string `json:"slug"`
	AdminKey string `json:"admin_key"`
}

type SurveySummary struct {
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at"`
	QuestionCount int       `json:"question_count"`
}

type SubmitResponseRequest struct {
	Answers map[string]any `json:"answers"`
}

type SubmitResponseResponse struct {
	ResponseID string `json:"response_id"`
	Message    string `json:"message"`
}

type SurveyResponse struct {
	ID          string         `json:"id"`
	SurveySlug  string         `json:"survey_slug"`
	Answers     map[string]any `json:"answers"`
	SubmittedAt time.Time      `json:"submitted_at"`
	IPHash      *string        `json:"-"` // Never expose in JSON
}

type ClearCacheResponse struct {
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
