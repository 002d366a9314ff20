package formatting

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONFormatter writes Document.Data as indented JSON.
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{options: options}
}

// Format encodes doc.Data.
func (f *JSONFormatter) Format(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc.Data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
