package dependency

import (
	"fmt"
	"strings"

	"ranfeat/internal/feature"
)

// Status is the overall verdict of a coexistence check.
type Status string

const (
	// StatusSatisfied: no conflicts and every prerequisite is in the set.
	StatusSatisfied Status = "satisfied"
	// StatusWarnings: no conflicts but some prerequisites are missing.
	StatusWarnings Status = "warnings"
	// StatusConflict: at least one pair in the set conflicts.
	StatusConflict Status = "conflict"
	// StatusUnresolved: none of the queries resolved.
	StatusUnresolved Status = "unresolved"
)

// ResolvedFeature maps a query to the feature it resolved to.
type ResolvedFeature struct {
	Query   string      `json:"query"`
	Key     feature.Key `json:"faj"`
	Name    string      `json:"name"`
	Acronym string      `json:"acronym,omitempty"`
}

// MissingPrerequisite is a prerequisite that is not part of the checked set.
type MissingPrerequisite struct {
	Key     feature.Key `json:"faj"`
	Name    string      `json:"name"`
	InIndex bool        `json:"in_index"`
}

// MemberPrerequisites lists the missing prerequisites of one set member.
type MemberPrerequisites struct {
	Key     feature.Key           `json:"faj"`
	Name    string                `json:"feature_name"`
	Acronym string                `json:"acronym,omitempty"`
	Missing []MissingPrerequisite `json:"missing"`
}

// ValidationResult is the outcome of Validate.
type ValidationResult struct {
	CanCoexist           bool                  `json:"can_coexist"`
	Status               Status                `json:"status"`
	Resolved             []ResolvedFeature     `json:"features"`
	Unresolved           []string              `json:"not_found"`
	ConflictPairs        []ConflictPair        `json:"conflicts"`
	MissingPrerequisites []MemberPrerequisites `json:"missing_prerequisites"`
	Warnings             []string              `json:"warnings"`
}

// Validate checks whether the requested features can be active together.
// Only conflicts between members of the set count; missing prerequisites
// are reported as warnings and never make the set fail on their own.
func (e *Engine) Validate(queries []string) *ValidationResult {
	g := e.graph
	res := &ValidationResult{}

	members := make(map[feature.Key]bool)
	var order []feature.Key
	for _, q := range queries {
		key, ok := e.Resolve(q)
		if !ok {
			res.Unresolved = append(res.Unresolved, q)
			continue
		}
		node, _ := g.Node(key)
		res.Resolved = append(res.Resolved, ResolvedFeature{Query: q, Key: key, Name: g.Name(key), Acronym: node.Acronym})
		if !members[key] {
			members[key] = true
			order = append(order, key)
		}
	}

	if len(order) == 0 {
		res.Status = StatusUnresolved
		return res
	}

	seenPair := make(map[[2]feature.Key]bool)
	for _, m := range order {
		for _, c := range g.ConflictsOf(m) {
			if !members[c] {
				continue
			}
			p := g.pair(m, c)
			id := [2]feature.Key{p.A, p.B}
			if !seenPair[id] {
				seenPair[id] = true
				res.ConflictPairs = append(res.ConflictPairs, p)
			}
		}
	}
	sortPairs(res.ConflictPairs)

	for _, m := range order {
		var missing []MissingPrerequisite
		seen := make(map[feature.Key]bool)
		for _, edge := range g.Outgoing(m, feature.Prerequisite) {
			if members[edge.To] || seen[edge.To] {
				continue
			}
			seen[edge.To] = true
			missing = append(missing, MissingPrerequisite{Key: edge.To, Name: g.Name(edge.To), InIndex: g.InIndex(edge.To)})
		}
		if len(missing) == 0 {
			continue
		}
		node, _ := g.Node(m)
		res.MissingPrerequisites = append(res.MissingPrerequisites, MemberPrerequisites{
			Key: m, Name: g.Name(m), Acronym: node.Acronym, Missing: missing,
		})
		res.Warnings = append(res.Warnings, missingWarning(g.Name(m), missing))
	}

	switch {
	case len(res.ConflictPairs) > 0:
		res.Status = StatusConflict
	case len(res.MissingPrerequisites) > 0:
		res.CanCoexist = true
		res.Status = StatusWarnings
	default:
		res.CanCoexist = true
		res.Status = StatusSatisfied
	}
	return res
}

func missingWarning(name string, missing []MissingPrerequisite) string {
	parts := make([]string, 0, len(missing))
	for _, m := range missing {
		s := fmt.Sprintf("%s (%s)", m.Name, m.Key.Code())
		if !m.InIndex {
			s += " [not indexed]"
		}
		parts = append(parts, s)
	}
	return fmt.Sprintf("%s requires %s", name, strings.Join(parts, ", "))
}
