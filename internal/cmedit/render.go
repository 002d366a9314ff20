package cmedit

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/google/uuid"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = template.Must(
	template.New("cmedit").Funcs(sprig.TxtFuncMap()).ParseFS(templatesFS, "templates/*.tmpl"),
)

// Format selects how a command set is rendered.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatScript   Format = "script"
	FormatJSON     Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatMarkdown, FormatScript, FormatJSON}

// ParseFormat validates a format name. An empty name means text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported cmedit format %q (want text, markdown, script or json)", s)
}

// Header identifies one generated script.
type Header struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Scope       string    `json:"scope"`
}

// NewHeader stamps a fresh run id and the current time.
func NewHeader(scope Scope) Header {
	return Header{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Scope:       scope.String(),
	}
}

type renderData struct {
	Header     Header
	Site       string
	Collection string
	Commands   *CommandSet
	Plan       *PlanScript
}

func newRenderData(scope Scope, header Header) renderData {
	d := renderData{Header: header, Collection: scope.Collection}
	if !scope.IsCollection() {
		d.Site = scope.String()
	}
	return d
}

// Render writes set in the requested format.
func (g *Generator) Render(w io.Writer, set *CommandSet, format Format, header Header) error {
	if format == FormatJSON {
		return writeJSON(w, struct {
			Header   Header      `json:"header"`
			Feature  FeatureInfo `json:"feature"`
			Commands *CommandSet `json:"commands"`
		}{header, set.Feature, set})
	}
	data := newRenderData(g.scope, header)
	data.Commands = set
	if err := templates.ExecuteTemplate(w, string(format), data); err != nil {
		return fmt.Errorf("failed to render %s commands: %w", format, err)
	}
	return nil
}

// RenderPlan writes plan as a shell script, or as JSON when format is
// FormatJSON.
func (g *Generator) RenderPlan(w io.Writer, plan *PlanScript, format Format, header Header) error {
	if format == FormatJSON {
		return writeJSON(w, struct {
			Header Header      `json:"header"`
			Plan   *PlanScript `json:"plan"`
		}{header, plan})
	}
	data := newRenderData(g.scope, header)
	data.Plan = plan
	if err := templates.ExecuteTemplate(w, "plan", data); err != nil {
		return fmt.Errorf("failed to render activation plan: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
