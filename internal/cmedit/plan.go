package cmedit

import (
	"ranfeat/internal/dependency"
	"ranfeat/internal/feature"
)

// Skip reasons for plan steps that get no commands.
const (
	SkipNotIndexed = "not in the feature index, activate manually"
	SkipNoCXC      = "no CXC activation code"
)

// PlanEntry is one activation step together with its commands.
type PlanEntry struct {
	dependency.PlanStep
	Commands   *CommandSet `json:"commands,omitempty"`
	SkipReason string      `json:"skip_reason,omitempty"`
}

// PlanScript is an activation plan turned into cmedit commands.
type PlanScript struct {
	Steps      []PlanEntry               `json:"steps"`
	Conflicts  []dependency.ConflictPair `json:"conflicts,omitempty"`
	Blocked    []feature.Key             `json:"blocked,omitempty"`
	Unresolved []string                  `json:"not_found,omitempty"`
}

// TargetCount returns the number of explicitly requested steps.
func (p *PlanScript) TargetCount() int {
	n := 0
	for _, s := range p.Steps {
		if s.IsTarget {
			n++
		}
	}
	return n
}

// Plan generates commands for every step of plan, in order. Steps for
// features outside the index or without a CXC code are kept with a reason.
func (g *Generator) Plan(plan *dependency.ActivationPlan, snap *feature.Snapshot) *PlanScript {
	ps := &PlanScript{
		Conflicts:  plan.Conflicts,
		Blocked:    plan.Blocked,
		Unresolved: plan.Unresolved,
	}
	for _, step := range plan.Steps {
		entry := PlanEntry{PlanStep: step}
		rec, ok := snap.Get(step.Key)
		switch {
		case !ok:
			entry.SkipReason = SkipNotIndexed
		case rec.CXC == "":
			entry.SkipReason = SkipNoCXC
		default:
			entry.Commands = g.Commands(step.Key, rec)
		}
		ps.Steps = append(ps.Steps, entry)
	}
	return ps
}
