package config

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError describes one problem with config.yaml.
type ConfigurationError struct {
	FilePath    string   `json:"filePath"`
	Field       string   `json:"field,omitempty"` // Dotted YAML path, e.g. "search.limit"
	ErrorType   string   `json:"errorType"`       // parse or validation
	Message     string   `json:"message"`
	Details     string   `json:"details,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Error implements the error interface
func (ce *ConfigurationError) Error() string {
	if ce.Field != "" {
		return fmt.Sprintf("%s: %s: %s", ce.FilePath, ce.Field, ce.Message)
	}
	return fmt.Sprintf("%s: %s", ce.FilePath, ce.Message)
}

// DetailedError returns a multi-line message including details and
// suggestions.
func (ce *ConfigurationError) DetailedError() string {
	parts := []string{"Configuration error: " + ce.Error()}
	if ce.Details != "" {
		parts = append(parts, "  Details: "+ce.Details)
	}
	if len(ce.Suggestions) > 0 {
		parts = append(parts, "  Suggestions:")
		for _, s := range ce.Suggestions {
			parts = append(parts, "    - "+s)
		}
	}
	return strings.Join(parts, "\n")
}

// ConfigurationErrorCollection holds multiple configuration errors
type ConfigurationErrorCollection struct {
	Errors []ConfigurationError `json:"errors"`
}

// Error implements the error interface for the collection
func (cec *ConfigurationErrorCollection) Error() string {
	switch len(cec.Errors) {
	case 0:
		return "no configuration errors"
	case 1:
		return cec.Errors[0].Error()
	default:
		return fmt.Sprintf("%d configuration errors: %s (and %d more)",
			len(cec.Errors), cec.Errors[0].Error(), len(cec.Errors)-1)
	}
}

// HasErrors returns true if there are any errors in the collection
func (cec *ConfigurationErrorCollection) HasErrors() bool {
	return len(cec.Errors) > 0
}

// Add records a validation problem for field.
func (cec *ConfigurationErrorCollection) Add(field, message string, suggestions ...string) {
	cec.Errors = append(cec.Errors, ConfigurationError{
		Field:       field,
		ErrorType:   "validation",
		Message:     message,
		Suggestions: suggestions,
	})
}

// IsConfigurationErr reports whether err is a single configuration error or
// a collection of them.
func IsConfigurationErr(err error) bool {
	var single *ConfigurationError
	var many *ConfigurationErrorCollection
	return errors.As(err, &single) || errors.As(err, &many)
}
