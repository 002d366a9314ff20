// Package dependency models the typed dependency graph between RAN features
// and answers the questions asked of it.
//
// # Graph
//
// Build turns a feature.Snapshot into a Graph. Every dependency entry of
// every record becomes a directed edge from the declaring feature to its
// target, bucketed by kind:
//
//   - Prerequisite: "source requires target"
//   - Related: informational
//   - Conflicting: the two features must not be active together. Source
//     data often declares a conflict on one side only, so every consumer
//     treats it as symmetric.
//
// In- and out-degree count Prerequisite edges only. Targets that are not in
// the snapshot still get a node (InIndex=false) so dangling references are
// visible in every result. The graph may contain cycles; all traversals
// guard against them.
//
// # Queries
//
// Single-feature queries are methods on Graph:
//
//	g.PrerequisitesOf(key, 0)    // prerequisite tree rooted at key
//	g.PrerequisitesFlat(key)     // deepest first, self excluded
//	g.DependentsOf(key, true)    // reverse closure
//	g.ConflictsOf(key)           // both directions
//	g.FindCycles()               // prerequisite cycles
//	g.Impact(key)                // dependents with distance
//	g.Mermaid(key, opts)         // flowchart source
//
// # Sets of features
//
// An Engine combines a Graph with a feature.Resolver so callers can pass
// free-form queries (FAJ code, acronym, partial name):
//
//	eng := dependency.NewEngine(g, feature.NewResolver(snap))
//	plan := eng.Order([]string{"CA", "FAJ 121 4219"})
//	res := eng.Validate([]string{"CA", "UL-CA"})
//
// Order produces an activation sequence with prerequisites first and ties
// broken by display name, so identical sets always give identical scripts.
// Validate reports conflicts within the set (fatal to coexistence) and
// missing prerequisites (advisory). Queries that do not resolve are
// returned alongside the result instead of failing the call.
//
// # Thread Safety
//
// Graphs and Engines are read-only after construction and may be shared by
// any number of goroutines.
package dependency
