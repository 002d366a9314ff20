package dependency

import (
	"sort"

	"ranfeat/internal/feature"
	"ranfeat/pkg/logging"
)

// PlanStep is one feature in an activation sequence.
type PlanStep struct {
	Position int           `json:"position"`
	Key      feature.Key   `json:"faj"`
	Name     string        `json:"name"`
	Acronym  string        `json:"acronym,omitempty"`
	CXC      string        `json:"cxc,omitempty"`
	IsTarget bool          `json:"is_target"`
	InIndex  bool          `json:"in_index"`
	Requires []feature.Key `json:"requires,omitempty"`
}

// ActivationPlan is the result of Order. Steps never place a feature before
// one of its in-set prerequisites. Blocked holds features caught in a
// prerequisite cycle, which no order can satisfy.
type ActivationPlan struct {
	Targets    []feature.Key  `json:"targets"`
	Steps      []PlanStep     `json:"sequence"`
	Conflicts  []ConflictPair `json:"conflicts"`
	Unresolved []string       `json:"not_found"`
	Blocked    []feature.Key  `json:"blocked,omitempty"`
}

// TargetCount returns the number of explicitly requested steps.
func (p *ActivationPlan) TargetCount() int {
	n := 0
	for _, s := range p.Steps {
		if s.IsTarget {
			n++
		}
	}
	return n
}

// PrerequisiteCount returns the number of steps pulled in as prerequisites.
func (p *ActivationPlan) PrerequisiteCount() int {
	return len(p.Steps) - p.TargetCount()
}

// Order computes a safe activation sequence for the requested features and
// all of their transitive prerequisites. Among features that are ready at
// the same time, the one with the smaller display name goes first, so the
// output depends only on the requested set. Conflicts inside the set are
// reported and do not stop the ordering.
func (e *Engine) Order(queries []string) *ActivationPlan {
	g := e.graph
	targets, unresolved := e.ResolveAll(queries)
	plan := &ActivationPlan{Unresolved: unresolved}

	isTarget := make(map[feature.Key]bool, len(targets))
	union := make(map[feature.Key]bool)
	for _, t := range targets {
		isTarget[t] = true
		union[t] = true
		for _, p := range g.PrerequisitesFlat(t) {
			union[p] = true
		}
	}
	plan.Targets = sortedKeys(boolSet(isTarget), "")

	seenPair := make(map[[2]feature.Key]bool)
	for _, t := range plan.Targets {
		for _, c := range g.ConflictsOf(t) {
			if !union[c] {
				continue
			}
			p := g.pair(t, c)
			id := [2]feature.Key{p.A, p.B}
			if !seenPair[id] {
				seenPair[id] = true
				plan.Conflicts = append(plan.Conflicts, p)
			}
		}
	}
	sortPairs(plan.Conflicts)

	requires := make(map[feature.Key][]feature.Key, len(union))
	dependents := make(map[feature.Key][]feature.Key, len(union))
	indegree := make(map[feature.Key]int, len(union))
	for n := range union {
		seen := make(map[feature.Key]bool)
		for _, edge := range g.Outgoing(n, feature.Prerequisite) {
			if !union[edge.To] || edge.To == n || seen[edge.To] {
				continue
			}
			seen[edge.To] = true
			requires[n] = append(requires[n], edge.To)
			dependents[edge.To] = append(dependents[edge.To], n)
			indegree[n]++
		}
	}

	less := func(a, b feature.Key) bool {
		na, nb := g.Name(a), g.Name(b)
		if na != nb {
			return na < nb
		}
		return a < b
	}

	var ready []feature.Key
	for n := range union {
		if indegree[n] == 0 {
			ready = append(ready, n)
		}
	}

	emitted := make(map[feature.Key]bool, len(union))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return less(ready[i], ready[j]) })
		n := ready[0]
		ready = ready[1:]
		emitted[n] = true

		node, _ := g.Node(n)
		reqs := append([]feature.Key(nil), requires[n]...)
		sort.Slice(reqs, func(i, j int) bool { return reqs[i] < reqs[j] })
		plan.Steps = append(plan.Steps, PlanStep{
			Position: len(plan.Steps) + 1,
			Key:      n,
			Name:     g.Name(n),
			Acronym:  node.Acronym,
			CXC:      node.CXC,
			IsTarget: isTarget[n],
			InIndex:  g.InIndex(n),
			Requires: reqs,
		})

		for _, d := range dependents[n] {
			indegree[d]--
			if indegree[d] == 0 {
				ready = append(ready, d)
			}
		}
	}

	for n := range union {
		if !emitted[n] {
			plan.Blocked = append(plan.Blocked, n)
		}
	}
	sort.Slice(plan.Blocked, func(i, j int) bool { return less(plan.Blocked[i], plan.Blocked[j]) })

	if len(plan.Blocked) > 0 {
		logging.Warn("ActivationOrder", "%d features are part of a prerequisite cycle and were left out of the sequence", len(plan.Blocked))
	}
	return plan
}

func boolSet(m map[feature.Key]bool) map[feature.Key]int {
	out := make(map[feature.Key]int, len(m))
	for k, v := range m {
		if v {
			out[k] = 1
		}
	}
	return out
}
