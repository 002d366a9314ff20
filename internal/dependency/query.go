package dependency

import (
	"sort"

	"ranfeat/internal/feature"
)

// PrerequisiteNode is one level of a prerequisite tree.
type PrerequisiteNode struct {
	Key      feature.Key         `json:"faj"`
	Name     string              `json:"name"`
	Depth    int                 `json:"depth"`
	InIndex  bool                `json:"in_index"`
	Children []*PrerequisiteNode `json:"children,omitempty"`
}

// Count returns the number of nodes below n.
func (n *PrerequisiteNode) Count() int {
	total := 0
	for _, c := range n.Children {
		total += 1 + c.Count()
	}
	return total
}

// PrerequisitesOf expands the Prerequisite edges of key into a tree rooted at
// key itself. A feature already on the current branch is not expanded again,
// so cycles truncate the tree. Features outside the snapshot are leaves.
// maxDepth <= 0 means unlimited; maxDepth 1 returns direct prerequisites only.
func (g *Graph) PrerequisitesOf(key feature.Key, maxDepth int) *PrerequisiteNode {
	onPath := make(map[feature.Key]bool)
	return g.expand(key, g.Name(key), 0, maxDepth, onPath)
}

func (g *Graph) expand(key feature.Key, name string, depth, maxDepth int, onPath map[feature.Key]bool) *PrerequisiteNode {
	n := &PrerequisiteNode{Key: key, Name: name, Depth: depth, InIndex: g.InIndex(key)}
	if !n.InIndex || (maxDepth > 0 && depth >= maxDepth) {
		return n
	}

	onPath[key] = true
	defer delete(onPath, key)

	seen := make(map[feature.Key]bool)
	for _, e := range g.Outgoing(key, feature.Prerequisite) {
		if onPath[e.To] || seen[e.To] {
			continue
		}
		seen[e.To] = true
		n.Children = append(n.Children, g.expand(e.To, g.Name(e.To), depth+1, maxDepth, onPath))
	}
	return n
}

// PrerequisitesFlat lists the transitive prerequisites of key, deepest
// first, each feature once, key itself excluded.
func (g *Graph) PrerequisitesFlat(key feature.Key) []feature.Key {
	visited := map[feature.Key]bool{key: true}
	var out []feature.Key

	var walk func(k feature.Key)
	walk = func(k feature.Key) {
		for _, e := range g.Outgoing(k, feature.Prerequisite) {
			if visited[e.To] {
				continue
			}
			visited[e.To] = true
			walk(e.To)
			out = append(out, e.To)
		}
	}
	walk(key)
	return out
}

// DependentsOf returns the features that declare key as a Prerequisite. With
// recursive set it returns the breadth-first closure over reverse
// Prerequisite edges. key is never part of its own result.
func (g *Graph) DependentsOf(key feature.Key, recursive bool) []feature.Key {
	if !recursive {
		return sortedKeys(g.directDependents(key), key)
	}
	return sortedKeys(g.dependentDistances(key), key)
}

func (g *Graph) directDependents(key feature.Key) map[feature.Key]int {
	set := make(map[feature.Key]int)
	for _, e := range g.Incoming(key, feature.Prerequisite) {
		set[e.From] = 1
	}
	return set
}

// dependentDistances maps every transitive dependent of key to its BFS
// distance.
func (g *Graph) dependentDistances(key feature.Key) map[feature.Key]int {
	dist := map[feature.Key]int{key: 0}
	queue := []feature.Key{key}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.Incoming(cur, feature.Prerequisite) {
			if _, seen := dist[e.From]; seen {
				continue
			}
			dist[e.From] = dist[cur] + 1
			queue = append(queue, e.From)
		}
	}
	delete(dist, key)
	return dist
}

// ConflictsOf returns every feature that key conflicts with, whichever side
// declared the relation.
func (g *Graph) ConflictsOf(key feature.Key) []feature.Key {
	set := make(map[feature.Key]int)
	for _, e := range g.Outgoing(key, feature.Conflicting) {
		set[e.To] = 1
	}
	for _, e := range g.Incoming(key, feature.Conflicting) {
		set[e.From] = 1
	}
	return sortedKeys(set, key)
}

// RelatedTo returns features linked to key by a Related edge in either
// direction.
func (g *Graph) RelatedTo(key feature.Key) []feature.Key {
	set := make(map[feature.Key]int)
	for _, e := range g.Outgoing(key, feature.Related) {
		set[e.To] = 1
	}
	for _, e := range g.Incoming(key, feature.Related) {
		set[e.From] = 1
	}
	return sortedKeys(set, key)
}

// ConflictPair is an unordered conflict, stored with A < B.
type ConflictPair struct {
	A     feature.Key `json:"feature1"`
	AName string      `json:"feature1_name"`
	B     feature.Key `json:"feature2"`
	BName string      `json:"feature2_name"`
}

func (g *Graph) pair(a, b feature.Key) ConflictPair {
	if b < a {
		a, b = b, a
	}
	return ConflictPair{A: a, AName: g.Name(a), B: b, BName: g.Name(b)}
}

// AllConflicts returns every distinct conflicting pair in the graph.
func (g *Graph) AllConflicts() []ConflictPair {
	seen := make(map[[2]feature.Key]bool)
	var out []ConflictPair
	for _, e := range g.Edges(feature.Conflicting) {
		if e.From == e.To {
			continue
		}
		p := g.pair(e.From, e.To)
		id := [2]feature.Key{p.A, p.B}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, p)
	}
	sortPairs(out)
	return out
}

func sortPairs(pairs []ConflictPair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
}

// FindCycles reports Prerequisite cycles found by a depth-first search from
// every unvisited node. Each cycle starts and ends with the same key. At
// least one cycle is reported per cyclic region; the result is empty exactly
// when the Prerequisite subgraph is acyclic.
func (g *Graph) FindCycles() [][]feature.Key {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[feature.Key]int, len(g.keys))
	pos := make(map[feature.Key]int)
	var stack []feature.Key
	var cycles [][]feature.Key

	var visit func(k feature.Key)
	visit = func(k feature.Key) {
		state[k] = onStack
		pos[k] = len(stack)
		stack = append(stack, k)

		for _, e := range g.Outgoing(k, feature.Prerequisite) {
			switch state[e.To] {
			case onStack:
				cycle := make([]feature.Key, 0, len(stack)-pos[e.To]+1)
				cycle = append(cycle, stack[pos[e.To]:]...)
				cycles = append(cycles, append(cycle, e.To))
			case unvisited:
				visit(e.To)
			}
		}

		stack = stack[:len(stack)-1]
		delete(pos, k)
		state[k] = done
	}

	for _, k := range g.keys {
		if state[k] == unvisited {
			visit(k)
		}
	}
	return cycles
}

func sortedKeys(set map[feature.Key]int, exclude feature.Key) []feature.Key {
	out := make([]feature.Key, 0, len(set))
	for k := range set {
		if k != exclude {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
