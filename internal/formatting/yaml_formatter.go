package formatting

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter writes Document.Data as YAML. The value goes through JSON
// first so field names follow the json tags of the result types.
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options) Formatter {
	return &YAMLFormatter{options: options}
}

// Format encodes doc.Data.
func (f *YAMLFormatter) Format(w io.Writer, doc *Document) error {
	out, err := ToYAML(doc.Data)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// ToYAML converts v to YAML using its JSON field names.
func ToYAML(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	out, err := yaml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to YAML: %w", err)
	}
	return out, nil
}
