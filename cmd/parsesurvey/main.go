// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command parsesurvey parses a survey outline offline and prints the parsed
// survey as JSON.
//
//	parsesurvey survey.yml
//	cat survey.json | parsesurvey -fields
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/danielhkuo/quickly-survey/survey"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		slog.Error("parsesurvey failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("parsesurvey", flag.ContinueOnError)
	fieldsOnly := fs.Bool("fields", false, "Print only the field names, one per line")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := stdin
	if path := fs.Arg(0); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	doc, err := survey.Load(in)
	if err != nil {
		return err
	}
	if err := survey.Validate(doc); err != nil {
		return err
	}

	parsed := survey.Parse(doc)
	slog.Debug("parsed survey", "slug", parsed.Slug, "questions", survey.QuestionCount(parsed))

	if *fieldsOnly {
		for _, section := range parsed.Outline {
			for _, q := range section.Questions {
				if _, err := fmt.Fprintln(stdout, q.FieldName); err != nil {
					return err
				}
			}
		}
		return nil
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(parsed)
}
