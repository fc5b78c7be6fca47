// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package survey turns raw survey outlines into parsed surveys.

# Parsing

Parse gives every question a slug, a value type, a show-other flag and a
field name:

	parsed := survey.Parse(doc)

The input document is not modified. Templates are not attached, so Parse
can be used from scripts as well as from the API.

# Field Names

Field names join the survey slug, the section slug and the question id:

	<survey>__<section>__<question>[__<suffix>]

The section slug comes from the question's sectionSlug if set, then the
section's slug, then the section's id.

# Value Types

Only the "Number" fieldType produces ValueNumber. Any other non-empty hint
falls back to ValueString and is kept in ParsedQuestion.UnsupportedHint.

# Loading

	doc, err := survey.Load(file)   // YAML or JSON
*/
package survey
