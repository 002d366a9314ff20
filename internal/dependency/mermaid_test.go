package dependency

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ranfeat/internal/feature"
)

func TestMermaid(t *testing.T) {
	defs := []def{
		{code: "FAJ 60 1", name: "Carrier Aggregation", acronym: "CA", deps: []feature.Dependency{
			requires("FAJ 60 2"), conflicts("FAJ 60 3"),
		}},
		{code: "FAJ 60 2", name: "Very Long Feature Name That Needs Cutting"},
		{code: "FAJ 60 3", name: "Rival", acronym: "RV"},
	}
	for i := 0; i < 7; i++ {
		defs = append(defs, def{
			code: fmt.Sprintf("FAJ 61 %d", i),
			name: fmt.Sprintf("Dependent %d", i),
			deps: []feature.Dependency{requires("FAJ 60 1")},
		})
	}
	g := graphOf(defs...)

	out := g.Mermaid(key("FAJ 60 1"), MermaidOptions{Fenced: true})

	assert.True(t, strings.HasPrefix(out, "```mermaid\nflowchart TD\n"))
	assert.True(t, strings.HasSuffix(out, "```\n"))
	assert.Contains(t, out, `FAJ_60_1["CA<br/><small>FAJ 60 1</small>"]`)
	assert.Contains(t, out, "class FAJ_60_1 target")
	assert.Contains(t, out, `FAJ_60_2["Very Long Feature Name Th..<br/><small>FAJ 60 2</small>"]`)
	assert.Contains(t, out, "FAJ_60_2 -->|requires| FAJ_60_1")
	assert.Contains(t, out, "FAJ_60_1 -.-x|conflicts| FAJ_60_3")
	assert.Contains(t, out, "class FAJ_60_3 conflict")
	assert.Equal(t, 5, strings.Count(out, "-->|enables|"))
	assert.Contains(t, out, "more_deps([+2 more])")
}

func TestMermaid_Unfenced(t *testing.T) {
	g := graphOf(def{code: "FAJ 62 1", name: "Lonely"})

	out := g.Mermaid(key("FAJ 62 1"), MermaidOptions{})
	assert.True(t, strings.HasPrefix(out, "flowchart TD\n"))
	assert.NotContains(t, out, "```")
	assert.NotContains(t, out, "more_deps")
}
