package cli

import (
	"fmt"
	"strconv"
	"strings"

	"ranfeat/internal/dependency"
	"ranfeat/internal/feature"
	"ranfeat/internal/formatting"
)

// PlanDocument renders an activation plan: the ordered steps followed by
// conflicts, blocked features and unresolved queries as notes.
func PlanDocument(p *dependency.ActivationPlan) *formatting.Document {
	doc := formatting.NewDocument(p)
	s := doc.Table("Activation order", "step", "faj", "name", "acronym", "role", "cxc", "requires").
		Wide(5, 6).
		WhenEmpty("Nothing to activate")
	for _, step := range p.Steps {
		role := "prerequisite"
		if step.IsTarget {
			role = "target"
		}
		name := step.Name
		if !step.InIndex {
			name += " " + notIndexed
		}
		s.AddRow(strconv.Itoa(step.Position), string(step.Key), name, dash(step.Acronym), role,
			dash(step.CXC), dash(joinKeys(step.Requires)))
	}
	if len(p.Steps) > 0 {
		s.Note(fmt.Sprintf("%d target(s), %d prerequisite(s)", p.TargetCount(), p.PrerequisiteCount()))
	}
	for _, c := range p.Conflicts {
		s.Note(FormatWarning(fmt.Sprintf("%s conflicts with %s", c.AName, c.BName)))
	}
	if len(p.Blocked) > 0 {
		s.Note(FormatWarning("Blocked by a prerequisite cycle: " + joinKeys(p.Blocked)))
	}
	if len(p.Unresolved) > 0 {
		s.Note(FormatWarning("Not found: " + strings.Join(p.Unresolved, ", ")))
	}
	return doc
}

// ValidationDocument renders a coexistence check.
func ValidationDocument(r *dependency.ValidationResult) *formatting.Document {
	doc := formatting.NewDocument(r)

	s := doc.Table("Features", "query", "faj", "name", "acronym").WhenEmpty("No feature resolved")
	for _, f := range r.Resolved {
		s.AddRow(f.Query, string(f.Key), f.Name, dash(f.Acronym))
	}
	s.Note("Status: " + verdict(r))
	if len(r.Unresolved) > 0 {
		s.Note(FormatWarning("Not found: " + strings.Join(r.Unresolved, ", ")))
	}

	if len(r.ConflictPairs) > 0 {
		c := doc.Table("Conflicts", "feature", "name", "conflicts with", "name")
		for _, p := range r.ConflictPairs {
			c.AddRow(string(p.A), p.AName, string(p.B), p.BName)
		}
	}
	if len(r.MissingPrerequisites) > 0 {
		m := doc.Table("Missing prerequisites", "feature", "requires", "name", "indexed")
		for _, mp := range r.MissingPrerequisites {
			for _, miss := range mp.Missing {
				idx := "yes"
				if !miss.InIndex {
					idx = "no"
				}
				m.AddRow(mp.Name, string(miss.Key), miss.Name, idx)
			}
		}
		for _, w := range r.Warnings {
			m.Note(FormatWarning(w))
		}
	}
	return doc
}

func verdict(r *dependency.ValidationResult) string {
	switch r.Status {
	case dependency.StatusSatisfied:
		return FormatSuccess("features can coexist")
	case dependency.StatusWarnings:
		return FormatWarning("features can coexist, prerequisites missing")
	case dependency.StatusConflict:
		return "✗ features conflict"
	default:
		return "no feature resolved"
	}
}

func joinKeys(keys []feature.Key) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
