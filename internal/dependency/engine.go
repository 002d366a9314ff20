package dependency

import (
	"ranfeat/internal/feature"
)

// Engine answers questions about sets of features. Queries are turned into
// keys by the injected Resolver; the Engine never does its own lookup.
type Engine struct {
	graph    *Graph
	resolver feature.Resolver
}

// NewEngine binds a graph to a resolver.
func NewEngine(g *Graph, r feature.Resolver) *Engine {
	return &Engine{graph: g, resolver: r}
}

// Graph returns the underlying graph.
func (e *Engine) Graph() *Graph {
	return e.graph
}

// Resolve looks up a single query.
func (e *Engine) Resolve(query string) (feature.Key, bool) {
	key, _, ok := e.resolver.Resolve(query)
	return key, ok
}

// ResolveAll resolves queries in order. Keys are de-duplicated keeping the
// first occurrence; queries that do not resolve are returned as given.
func (e *Engine) ResolveAll(queries []string) (keys []feature.Key, unresolved []string) {
	seen := make(map[feature.Key]bool)
	for _, q := range queries {
		key, ok := e.Resolve(q)
		if !ok {
			unresolved = append(unresolved, q)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys, unresolved
}
