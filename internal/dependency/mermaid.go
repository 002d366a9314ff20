package dependency

import (
	"fmt"
	"strings"

	"ranfeat/internal/feature"
	pkgstrings "ranfeat/pkg/strings"
)

// MermaidOptions tunes Mermaid output.
type MermaidOptions struct {
	// Fenced wraps the diagram in a ```mermaid block.
	Fenced bool
	// MaxDependents caps the dependents drawn; the rest collapse into one
	// "+N more" node. Zero means 5.
	MaxDependents int
}

var mermaidClasses = []string{
	"classDef target fill:#4a90d9,stroke:#2c5282,color:white",
	"classDef prereq fill:#48bb78,stroke:#276749,color:white",
	"classDef conflict fill:#fc8181,stroke:#c53030,color:white",
	"classDef dependent fill:#9f7aea,stroke:#6b46c1,color:white",
}

// Mermaid renders the neighbourhood of key as a Mermaid flowchart:
// prerequisites point at the feature, conflicts hang off dashed edges and
// dependents are drawn below it.
func (g *Graph) Mermaid(key feature.Key, opts MermaidOptions) string {
	if opts.MaxDependents <= 0 {
		opts.MaxDependents = 5
	}

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, "    "+format+"\n", args...)
	}

	if opts.Fenced {
		b.WriteString("```mermaid\n")
	}
	b.WriteString("flowchart TD\n")
	for _, c := range mermaidClasses {
		line("%s", c)
	}
	b.WriteString("\n")

	main := mermaidID(key)
	line(`%s["%s<br/><small>%s</small>"]`, main, g.mermaidLabel(key), key.Code())
	line("class %s target", main)

	if prereqs := g.Outgoing(key, feature.Prerequisite); len(prereqs) > 0 {
		b.WriteString("\n")
		for _, e := range uniqueTargets(prereqs) {
			id := mermaidID(e)
			line(`%s["%s<br/><small>%s</small>"]`, id, g.mermaidLabel(e), e.Code())
			line("%s -->|requires| %s", id, main)
			line("class %s prereq", id)
		}
	}

	if conflicts := g.ConflictsOf(key); len(conflicts) > 0 {
		b.WriteString("\n")
		for _, c := range conflicts {
			id := mermaidID(c)
			line(`%s["%s<br/><small>%s</small>"]`, id, g.mermaidLabel(c), c.Code())
			line("%s -.-x|conflicts| %s", main, id)
			line("class %s conflict", id)
		}
	}

	if dependents := g.DependentsOf(key, false); len(dependents) > 0 {
		b.WriteString("\n")
		shown := dependents
		if len(shown) > opts.MaxDependents {
			shown = shown[:opts.MaxDependents]
		}
		for _, d := range shown {
			id := mermaidID(d)
			line(`%s["%s"]`, id, g.mermaidLabel(d))
			line("%s -->|enables| %s", main, id)
			line("class %s dependent", id)
		}
		if extra := len(dependents) - len(shown); extra > 0 {
			line("more_deps([+%d more])", extra)
			line("%s --> more_deps", main)
		}
	}

	if opts.Fenced {
		b.WriteString("```\n")
	}
	return b.String()
}

func (g *Graph) mermaidLabel(key feature.Key) string {
	if n, ok := g.nodes[key]; ok && n.Acronym != "" {
		return n.Acronym
	}
	return strings.ReplaceAll(pkgstrings.TruncateLabel(g.Name(key), pkgstrings.DefaultLabelMaxLen), `"`, "'")
}

func mermaidID(key feature.Key) string {
	return strings.NewReplacer(" ", "_", "-", "_").Replace(string(key))
}

func uniqueTargets(edges []Edge) []feature.Key {
	seen := make(map[feature.Key]bool)
	var out []feature.Key
	for _, e := range edges {
		if !seen[e.To] {
			seen[e.To] = true
			out = append(out, e.To)
		}
	}
	return out
}
