package cli

import (
	"fmt"
	"strconv"
	"strings"

	"ranfeat/internal/dependency"
	"ranfeat/internal/feature"
	"ranfeat/internal/formatting"
)

const notIndexed = "[not indexed]"

// FeatureRef names a feature in command output.
type FeatureRef struct {
	Key     feature.Key `json:"faj"`
	Name    string      `json:"name"`
	Acronym string      `json:"acronym,omitempty"`
	InIndex bool        `json:"in_index"`
}

// Ref describes key as seen by g.
func Ref(g *dependency.Graph, key feature.Key) FeatureRef {
	node, _ := g.Node(key)
	return FeatureRef{Key: key, Name: g.Name(key), Acronym: node.Acronym, InIndex: g.InIndex(key)}
}

// Refs describes every key in keys.
func Refs(g *dependency.Graph, keys []feature.Key) []FeatureRef {
	out := make([]FeatureRef, 0, len(keys))
	for _, k := range keys {
		out = append(out, Ref(g, k))
	}
	return out
}

func (r FeatureRef) display() string {
	s := fmt.Sprintf("%s (%s)", r.Name, r.Key)
	if !r.InIndex {
		s += " " + notIndexed
	}
	return s
}

func refRow(r FeatureRef) []string {
	idx := "yes"
	if !r.InIndex {
		idx = "no"
	}
	return []string{string(r.Key), r.Name, dash(r.Acronym), idx}
}

// DepsOptions selects what the deps command shows.
type DepsOptions struct {
	Depth     int
	Reverse   bool
	Recursive bool
	Mermaid   bool
}

// DepsResult is the output of the deps command.
type DepsResult struct {
	Query         string                       `json:"query"`
	Feature       FeatureRef                   `json:"feature"`
	Prerequisites *dependency.PrerequisiteNode `json:"prerequisites,omitempty"`
	Dependents    []FeatureRef                 `json:"dependents,omitempty"`
	Conflicts     []FeatureRef                 `json:"conflicts"`
	Mermaid       string                       `json:"mermaid,omitempty"`
}

// NewDepsResult runs the queries the deps command needs for key.
func NewDepsResult(g *dependency.Graph, query string, key feature.Key, opts DepsOptions) *DepsResult {
	r := &DepsResult{
		Query:     query,
		Feature:   Ref(g, key),
		Conflicts: Refs(g, g.ConflictsOf(key)),
	}
	if opts.Reverse {
		r.Dependents = Refs(g, g.DependentsOf(key, opts.Recursive))
	} else {
		r.Prerequisites = g.PrerequisitesOf(key, opts.Depth)
	}
	if opts.Mermaid {
		r.Mermaid = g.Mermaid(key, dependency.MermaidOptions{})
	}
	return r
}

// DepsDocument renders a deps result. A Mermaid diagram replaces the
// tables in text output.
func DepsDocument(r *DepsResult) *formatting.Document {
	doc := formatting.NewDocument(r)
	if r.Mermaid != "" {
		doc.Text("", r.Mermaid)
		return doc
	}
	if r.Prerequisites != nil {
		s := doc.Text("Prerequisites of "+r.Feature.Name, RenderTree(r.Prerequisites))
		s.Note(fmt.Sprintf("%d prerequisite(s)", r.Prerequisites.Count()))
	} else {
		s := doc.Table("Features depending on "+r.Feature.Name, "faj", "name", "acronym", "indexed").
			WhenEmpty("No dependents found")
		for _, d := range r.Dependents {
			s.AddRow(refRow(d)...)
		}
	}
	s := doc.Table("Conflicts", "faj", "name", "acronym", "indexed").WhenEmpty("No conflicts")
	for _, c := range r.Conflicts {
		s.AddRow(refRow(c)...)
	}
	return doc
}

// RenderTree draws a prerequisite tree with box-drawing branches.
func RenderTree(root *dependency.PrerequisiteNode) string {
	var sb strings.Builder
	sb.WriteString(nodeLabel(root))
	sb.WriteString("\n")
	writeChildren(&sb, root.Children, "")
	return sb.String()
}

func writeChildren(sb *strings.Builder, children []*dependency.PrerequisiteNode, prefix string) {
	for i, c := range children {
		branch, next := "├── ", "│   "
		if i == len(children)-1 {
			branch, next = "└── ", "    "
		}
		sb.WriteString(prefix + branch + nodeLabel(c) + "\n")
		writeChildren(sb, c.Children, prefix+next)
	}
}

func nodeLabel(n *dependency.PrerequisiteNode) string {
	s := fmt.Sprintf("%s (%s)", n.Name, n.Key)
	if !n.InIndex {
		s += " " + notIndexed
	}
	return s
}

// FeatureConflicts lists the conflicts of one feature.
type FeatureConflicts struct {
	Feature   FeatureRef   `json:"feature"`
	Conflicts []FeatureRef `json:"conflicts"`
}

// FeatureConflictsDocument renders the conflicts of one feature.
func FeatureConflictsDocument(fc *FeatureConflicts) *formatting.Document {
	doc := formatting.NewDocument(fc)
	s := doc.Table("Conflicts of "+fc.Feature.Name, "faj", "name", "acronym", "indexed").
		WhenEmpty("No conflicts for " + fc.Feature.Name)
	for _, c := range fc.Conflicts {
		s.AddRow(refRow(c)...)
	}
	return doc
}

// ConflictsDocument renders every conflicting pair.
func ConflictsDocument(pairs []dependency.ConflictPair) *formatting.Document {
	if pairs == nil {
		pairs = []dependency.ConflictPair{}
	}
	doc := formatting.NewDocument(pairs)
	s := doc.Table("Conflicting pairs", "feature", "name", "conflicts with", "name").WhenEmpty("No conflicts found")
	for _, p := range pairs {
		s.AddRow(string(p.A), p.AName, string(p.B), p.BName)
	}
	if len(pairs) > 0 {
		s.Note(fmt.Sprintf("%d pair(s)", len(pairs)))
	}
	return doc
}

// CycleEntry is one prerequisite cycle.
type CycleEntry struct {
	Length   int          `json:"length"`
	Features []FeatureRef `json:"features"`
}

// CyclesDocument renders prerequisite cycles as "A -> B -> A" paths. Each
// cycle repeats its first key at the end.
func CyclesDocument(g *dependency.Graph, cycles [][]feature.Key) *formatting.Document {
	entries := make([]CycleEntry, 0, len(cycles))
	for _, c := range cycles {
		entries = append(entries, CycleEntry{Length: len(c) - 1, Features: Refs(g, c)})
	}
	doc := formatting.NewDocument(entries)
	s := doc.Table("Prerequisite cycles", "#", "length", "path").WhenEmpty("No cycles found")
	for i, e := range entries {
		names := make([]string, 0, len(e.Features))
		for _, f := range e.Features {
			names = append(names, f.Name)
		}
		s.AddRow(strconv.Itoa(i+1), strconv.Itoa(e.Length), strings.Join(names, " -> "))
	}
	return doc
}

// ImpactDocument renders an impact report.
func ImpactDocument(g *dependency.Graph, r *dependency.ImpactReport) *formatting.Document {
	doc := formatting.NewDocument(r)
	s := doc.Table(fmt.Sprintf("Impact of changing %s (%s)", r.Name, r.Key), "distance", "faj", "name", "indexed").
		WhenEmpty("No feature depends on " + r.Name)
	for _, d := range r.Dependents {
		idx := "yes"
		if !d.InIndex {
			idx = "no"
		}
		s.AddRow(strconv.Itoa(d.Distance), string(d.Key), d.Name, idx)
	}
	s.Note(fmt.Sprintf("%d direct, %d total dependent(s)", len(r.Direct), r.Total()))

	if len(r.Conflicts) > 0 {
		c := doc.Table("Conflicts", "faj", "name", "acronym", "indexed")
		for _, ref := range Refs(g, r.Conflicts) {
			c.AddRow(refRow(ref)...)
		}
	}
	if len(r.Related) > 0 {
		rel := doc.Table("Related", "faj", "name", "acronym", "indexed")
		for _, ref := range Refs(g, r.Related) {
			rel.AddRow(refRow(ref)...)
		}
	}
	return doc
}

// StatsResult summarises the loaded index.
type StatsResult struct {
	Source   string           `json:"source"`
	Features int              `json:"features"`
	Graph    dependency.Stats `json:"graph"`
}

// NewStatsResult collects statistics for g.
func NewStatsResult(g *dependency.Graph) *StatsResult {
	snap := g.Snapshot()
	return &StatsResult{Source: snap.Path(), Features: snap.Len(), Graph: g.Stats()}
}

// StatsDocument renders index statistics as a key/value table.
func StatsDocument(r *StatsResult) *formatting.Document {
	doc := formatting.NewDocument(r)
	s := doc.Table("Feature index", "metric", "value")
	s.AddRow("source", dash(r.Source))
	s.AddRow("features", strconv.Itoa(r.Features))
	s.AddRow("graph nodes", strconv.Itoa(r.Graph.Nodes))
	s.AddRow("dangling nodes", strconv.Itoa(r.Graph.Dangling))
	s.AddRow("prerequisite edges", strconv.Itoa(r.Graph.Prerequisites))
	s.AddRow("related edges", strconv.Itoa(r.Graph.Related))
	s.AddRow("conflict edges", strconv.Itoa(r.Graph.Conflicts))
	s.AddRow("skipped entries", strconv.Itoa(r.Graph.Skipped))
	return doc
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
