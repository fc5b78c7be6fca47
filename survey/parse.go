// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"time"

	"github.com/danielhkuo/quickly-survey/models"
)

// createdAtLayouts are tried in order when converting createdAt
var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// InferType maps a fieldType hint to a value type.
// ok is false when a non-empty hint was not recognized.
func InferType(hint string) (t models.ValueType, ok bool) {
	switch hint {
	case models.FieldTypeNumber:
		return models.ValueNumber, true
	case "":
		return models.ValueString, true
	default:
		return models.ValueString, false
	}
}

// NormalizeQuestion builds a question object from an outline field.
// number is the question's 1-based position in the survey, 0 when unknown.
func NormalizeQuestion(field models.Field, section models.SurveySection, number int) models.ParsedQuestion {
	q := models.ParsedQuestion{
		Field:     field,
		Slug:      field.ID,
		ShowOther: field.AllowOther,
		Number:    number,
	}

	t, ok := InferType(field.FieldType)
	q.Type = t
	if !ok {
		q.UnsupportedHint = field.FieldType
	}

	return q
}

// SectionSlug returns the section a question's field name is built from.
// The question's own sectionSlug overrides the section's slug, which
// overrides the section's id.
func SectionSlug(section models.SurveySection, question models.ParsedQuestion) string {
	if question.SectionSlug != "" {
		return question.SectionSlug
	}
	if section.Slug != "" {
		return section.Slug
	}
	return section.ID
}

// FieldName computes the unique answer key of a question.
// Identifiers are not escaped: ids containing "__" can collide.
func FieldName(surveySlug string, section models.SurveySection, question models.ParsedQuestion) string {
	sep := models.FieldNameSeparator
	name := surveySlug + sep + SectionSlug(section, question) + sep + question.ID
	if question.Suffix != "" {
		name += sep + question.Suffix
	}
	return name
}

// Parse processes a raw survey to give slugs, types and field names to
// every question. It does not attach templates so it can be reused
// outside of rendering.
func Parse(doc models.SurveyDocument) models.ParsedSurvey {
	parsed := models.ParsedSurvey{
		Slug:      doc.Slug,
		Name:      doc.Name,
		CreatedAt: ParseCreatedAt(doc.CreatedAt),
		Outline:   make([]models.ParsedSection, 0, len(doc.Outline)),
	}

	n := 0
	for _, section := range doc.Outline {
		ps := models.ParsedSection{
			Slug: section.Slug,
			ID:   section.ID,
		}
		if section.Questions != nil {
			ps.Questions = make([]models.ParsedQuestion, 0, len(section.Questions))
			for _, field := range section.Questions {
				n++
				q := NormalizeQuestion(field, section, n)
				q.FieldName = FieldName(doc.Slug, section, q)
				ps.Questions = append(ps.Questions, q)
			}
		}
		parsed.Outline = append(parsed.Outline, ps)
	}

	return parsed
}

// ParseCreatedAt converts a createdAt string to a time.
// Unparseable values yield the zero time.
func ParseCreatedAt(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Fields indexes a parsed survey's questions by field name
func Fields(s models.ParsedSurvey) map[string]models.ParsedQuestion {
	fields := make(map[string]models.ParsedQuestion)
	for _, section := range s.Outline {
		for _, q := range section.Questions {
			fields[q.FieldName] = q
		}
	}
	return fields
}

// QuestionCount returns the number of questions across all sections
func QuestionCount(s models.ParsedSurvey) int {
	count := 0
	for _, section := range s.Outline {
		count += len(section.Questions)
	}
	return count
}
