package config

import (
	"fmt"
	"strings"

	"ranfeat/pkg/logging"
)

var validFormats = []string{"table", "wide", "json", "yaml", "markdown", "csv"}

// Validate checks value ranges and enumerations. It returns an empty
// collection for a valid config.
func Validate(c RanfeatConfig) *ConfigurationErrorCollection {
	errs := &ConfigurationErrorCollection{}

	if strings.TrimSpace(c.Snapshot.Dir) == "" {
		errs.Add("snapshot.dir", "must not be empty", "set it to the directory containing features.json")
	}
	if c.Snapshot.Debounce < 0 {
		errs.Add("snapshot.debounce", "must not be negative")
	}

	if !contains(validFormats, c.Output.Format) {
		errs.Add("output.format", fmt.Sprintf("unknown format %q", c.Output.Format),
			"use one of: "+strings.Join(validFormats, ", "))
	}

	if c.Search.Limit < 0 {
		errs.Add("search.limit", "must not be negative")
	}
	if c.Search.FuzzyThreshold < 0 || c.Search.FuzzyThreshold > 1 {
		errs.Add("search.fuzzyThreshold", "must be between 0 and 1")
	}
	if c.Search.AcronymThreshold < 0 || c.Search.AcronymThreshold > 1 {
		errs.Add("search.acronymThreshold", "must be between 0 and 1")
	}

	if c.Build.Workers < 0 {
		errs.Add("build.workers", "must not be negative", "use 0 for the number of CPUs")
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs.Add("logging.level", err.Error(), "use debug, info, warn or error")
	}
	if c.Logging.Format != "" && c.Logging.Format != string(logging.FormatText) && c.Logging.Format != string(logging.FormatJSON) {
		errs.Add("logging.format", fmt.Sprintf("unknown format %q", c.Logging.Format), "use text or json")
	}

	return errs
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
