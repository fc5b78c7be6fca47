// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines survey, request, and response types for the API.

# Survey Definitions

Raw survey outlines, as authored in YAML or JSON:

  - SurveyDocument: slug, name, createdAt, outline
  - SurveySection: slug or id, optional questions
  - Field: id, fieldType, allowother, sectionSlug, suffix, options

# Parsed Surveys

Produced by the survey package, never persisted:

  - ParsedSurvey: document with createdAt as time.Time
  - ParsedSection: section with normalized questions
  - ParsedQuestion: Field plus slug, type, showOther, fieldName, number

# Response Types

  - CreateSurveyResponse: slug, admin_key
  - SurveySummary: slug, name, created_at, question_count
  - SubmitResponseResponse: response_id, message
  - SurveyResponse: stored answers keyed by field name
  - ClearCacheResponse: message
  - ErrorResponse: error, message

# Constants

Value types:

	ValueString = "string"
	ValueNumber = "number"

Field names are joined with FieldNameSeparator ("__").
*/
package models
