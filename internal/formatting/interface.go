// Package formatting renders command results in the output formats the CLI
// and the interactive shell support.
//
// Every result is described once as a Document: the structured value used
// for json and yaml output, plus the sections (tables, text blocks, notes)
// used for table, wide, markdown and csv output. A Formatter picks whichever
// half its format needs.
package formatting

import (
	"fmt"
	"io"
	"strings"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable    OutputFormat = "table"    // Rich table output
	FormatWide     OutputFormat = "wide"     // Table output including wide-only columns
	FormatJSON     OutputFormat = "json"     // JSON output
	FormatYAML     OutputFormat = "yaml"     // YAML output
	FormatMarkdown OutputFormat = "markdown" // Markdown tables
	FormatCSV      OutputFormat = "csv"      // Comma separated tables
)

// ValidFormats contains all valid output format values.
var ValidFormats = []OutputFormat{
	FormatTable,
	FormatWide,
	FormatJSON,
	FormatYAML,
	FormatMarkdown,
	FormatCSV,
}

// ParseFormat validates an output format name. An empty name means table.
func ParseFormat(s string) (OutputFormat, error) {
	if s == "" {
		return FormatTable, nil
	}
	for _, f := range ValidFormats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	names := make([]string, len(ValidFormats))
	for i, f := range ValidFormats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unsupported output format %q (valid: %s)", s, strings.Join(names, ", "))
}

// IsStructured reports whether the format serializes Document.Data instead
// of rendering sections.
func (f OutputFormat) IsStructured() bool {
	return f == FormatJSON || f == FormatYAML
}

// Options configures the formatter behavior
type Options struct {
	Format    OutputFormat
	NoHeaders bool // Suppress table header rows
	Quiet     bool // Suppress titles and notes
	Color     bool // Enable colored output
	Boxed     bool // Draw table and wide output with rounded borders
}

// Formatter writes a Document in one output format.
type Formatter interface {
	Format(w io.Writer, doc *Document) error
}

// Factory creates formatters for different output formats
type Factory interface {
	CreateFormatter(options Options) Formatter
}

// NewFactory creates a new formatter factory
func NewFactory() Factory {
	return &factory{}
}

type factory struct{}

// CreateFormatter creates the appropriate formatter based on options
func (f *factory) CreateFormatter(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	default:
		return NewTableFormatter(options)
	}
}

// Write renders doc to w with a formatter chosen from options.
func Write(w io.Writer, doc *Document, options Options) error {
	return NewFactory().CreateFormatter(options).Format(w, doc)
}
