// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/quickly-survey/models"
)

var ErrMissingSlug = errors.New("survey slug is required")

// DecodeYAML decodes a survey outline authored in YAML
func DecodeYAML(data []byte) (models.SurveyDocument, error) {
	var doc models.SurveyDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return models.SurveyDocument{}, fmt.Errorf("failed to decode survey yaml: %w", err)
	}
	return doc, nil
}

// DecodeJSON decodes a survey outline sent as JSON
func DecodeJSON(data []byte) (models.SurveyDocument, error) {
	var doc models.SurveyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.SurveyDocument{}, fmt.Errorf("failed to decode survey json: %w", err)
	}
	return doc, nil
}

// Load reads a survey outline, detecting JSON by its leading brace.
// Anything else is decoded as YAML.
func Load(r io.Reader) (models.SurveyDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.SurveyDocument{}, fmt.Errorf("failed to read survey: %w", err)
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return DecodeJSON(trimmed)
	}
	return DecodeYAML(data)
}

// Validate checks the fields the storage layer relies on.
// Question ids are deliberately not checked.
func Validate(doc models.SurveyDocument) error {
	if doc.Slug == "" {
		return ErrMissingSlug
	}
	return nil
}
