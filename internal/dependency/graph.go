package dependency

import (
	"sort"

	"ranfeat/internal/feature"
	"ranfeat/pkg/logging"
)

// Node is a feature as seen by the graph. Nodes for dependency targets that
// are not in the snapshot are synthesized with InIndex=false and carry no
// outgoing edges.
type Node struct {
	Key       feature.Key `json:"faj"`
	Name      string      `json:"name"`
	Acronym   string      `json:"acronym,omitempty"`
	CXC       string      `json:"cxc,omitempty"`
	InIndex   bool        `json:"in_index"`
	InDegree  int         `json:"in_degree"`
	OutDegree int         `json:"out_degree"`
}

// Edge is a directed, typed relation. For Prerequisite it reads "From
// requires To".
type Edge struct {
	From       feature.Key          `json:"from"`
	To         feature.Key          `json:"to"`
	Kind       feature.RelationKind `json:"type"`
	TargetName string               `json:"-"`
}

// Stats summarises a graph.
type Stats struct {
	Nodes         int `json:"total_nodes"`
	Indexed       int `json:"indexed_nodes"`
	Dangling      int `json:"dangling_nodes"`
	Prerequisites int `json:"requires_edges"`
	Related       int `json:"related_edges"`
	Conflicts     int `json:"conflicts_edges"`
	Skipped       int `json:"skipped_entries"`
}

// Graph is the typed dependency graph derived from a snapshot. It is never
// mutated after Build and is safe for concurrent readers.
type Graph struct {
	snap  *feature.Snapshot
	nodes map[feature.Key]*Node
	keys  []feature.Key
	edges map[feature.RelationKind][]Edge
	out   map[feature.Key][]Edge
	in    map[feature.Key][]Edge
}

// Build derives the dependency graph from snap. Edges to features outside
// the snapshot are kept and their nodes synthesized so that dangling
// references stay visible.
func Build(snap *feature.Snapshot) *Graph {
	g := &Graph{
		snap:  snap,
		nodes: make(map[feature.Key]*Node, snap.Len()),
		edges: make(map[feature.RelationKind][]Edge),
		out:   make(map[feature.Key][]Edge),
		in:    make(map[feature.Key][]Edge),
	}

	for _, key := range snap.Keys() {
		rec, _ := snap.Get(key)
		g.nodes[key] = &Node{
			Key:     key,
			Name:    snap.DisplayName(key, ""),
			Acronym: rec.Acronym,
			CXC:     rec.CXC,
			InIndex: true,
		}
	}

	dangling := 0
	for _, key := range snap.Keys() {
		rec, _ := snap.Get(key)
		for _, e := range rec.Edges() {
			edge := Edge{From: key, To: e.Target, Kind: e.Kind, TargetName: e.TargetName}
			g.edges[e.Kind] = append(g.edges[e.Kind], edge)
			g.out[key] = append(g.out[key], edge)
			g.in[e.Target] = append(g.in[e.Target], edge)

			if e.Kind == feature.Prerequisite {
				g.nodes[key].OutDegree++
			}
			if _, ok := g.nodes[e.Target]; !ok {
				g.nodes[e.Target] = &Node{Key: e.Target, Name: e.TargetName}
				dangling++
			}
		}
	}

	for _, e := range g.edges[feature.Prerequisite] {
		g.nodes[e.To].InDegree++
	}

	g.keys = make([]feature.Key, 0, len(g.nodes))
	for key := range g.nodes {
		g.keys = append(g.keys, key)
	}
	sort.Slice(g.keys, func(i, j int) bool { return g.keys[i] < g.keys[j] })

	logging.Debug("GraphBuilder", "Built graph with %d nodes (%d dangling), %d requires, %d related, %d conflicts edges",
		len(g.nodes), dangling,
		len(g.edges[feature.Prerequisite]), len(g.edges[feature.Related]), len(g.edges[feature.Conflicting]))
	return g
}

// Snapshot returns the snapshot the graph was built from.
func (g *Graph) Snapshot() *feature.Snapshot {
	return g.snap
}

// Node returns a copy of the node stored for key.
func (g *Graph) Node(key feature.Key) (Node, bool) {
	n, ok := g.nodes[key]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Nodes returns copies of all nodes in key order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.keys))
	for _, key := range g.keys {
		out = append(out, *g.nodes[key])
	}
	return out
}

// Keys returns every node key, including synthesized ones, in ascending
// order.
func (g *Graph) Keys() []feature.Key {
	return g.keys
}

// Edges returns all edges of kind in build order.
func (g *Graph) Edges(kind feature.RelationKind) []Edge {
	return g.edges[kind]
}

// Outgoing returns the edges of kind declared by key, in declaration order.
func (g *Graph) Outgoing(key feature.Key, kind feature.RelationKind) []Edge {
	return filterKind(g.out[key], kind)
}

// Incoming returns the edges of kind that target key.
func (g *Graph) Incoming(key feature.Key, kind feature.RelationKind) []Edge {
	return filterKind(g.in[key], kind)
}

func filterKind(edges []Edge, kind feature.RelationKind) []Edge {
	var out []Edge
	for _, e := range edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Name is the display name used for output and ordering tie-breaks.
func (g *Graph) Name(key feature.Key) string {
	if n, ok := g.nodes[key]; ok && n.Name != "" {
		return n.Name
	}
	return key.Code()
}

// Label is the acronym when known, else the display name.
func (g *Graph) Label(key feature.Key) string {
	if n, ok := g.nodes[key]; ok && n.Acronym != "" {
		return n.Acronym
	}
	return g.Name(key)
}

// InIndex reports whether key is a record of the snapshot.
func (g *Graph) InIndex(key feature.Key) bool {
	return g.snap.Has(key)
}

// Stats counts nodes and edges per kind.
func (g *Graph) Stats() Stats {
	s := Stats{
		Nodes:         len(g.nodes),
		Indexed:       g.snap.Len(),
		Prerequisites: len(g.edges[feature.Prerequisite]),
		Related:       len(g.edges[feature.Related]),
		Conflicts:     len(g.edges[feature.Conflicting]),
		Skipped:       len(g.snap.Skipped()),
	}
	s.Dangling = s.Nodes - s.Indexed
	return s
}
