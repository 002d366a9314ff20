package dependency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ranfeat/internal/feature"
)

func stepKeys(plan *ActivationPlan) []feature.Key {
	out := make([]feature.Key, 0, len(plan.Steps))
	for _, s := range plan.Steps {
		out = append(out, s.Key)
	}
	return out
}

func TestOrder_SharedPrerequisite(t *testing.T) {
	eng := engineOf(
		def{code: "FAJ 30 1", name: "Beta Y", deps: []feature.Dependency{requires("FAJ 30 3")}},
		def{code: "FAJ 30 2", name: "Alpha X", deps: []feature.Dependency{requires("FAJ 30 3")}},
		def{code: "FAJ 30 3", name: "Platform P"},
	)

	plan := eng.Order([]string{"FAJ 30 1", "FAJ 30 2"})

	assert.Equal(t, []feature.Key{key("FAJ 30 3"), key("FAJ 30 2"), key("FAJ 30 1")}, stepKeys(plan))
	assert.False(t, plan.Steps[0].IsTarget)
	assert.True(t, plan.Steps[1].IsTarget)
	assert.Equal(t, 1, plan.Steps[0].Position)
	assert.Equal(t, []feature.Key{key("FAJ 30 3")}, plan.Steps[2].Requires)
	assert.Equal(t, 2, plan.TargetCount())
	assert.Equal(t, 1, plan.PrerequisiteCount())
	assert.Empty(t, plan.Conflicts)
	assert.Empty(t, plan.Unresolved)
}

func orderFixture() *Engine {
	// Five targets over a layered prerequisite DAG plus a dangling target.
	return engineOf(
		def{code: "FAJ 31 1", name: "Massive MIMO", acronym: "MM", deps: []feature.Dependency{requires("FAJ 31 4"), requires("FAJ 31 5")}},
		def{code: "FAJ 31 2", name: "Carrier Aggregation", acronym: "CA", deps: []feature.Dependency{requires("FAJ 31 5")}},
		def{code: "FAJ 31 3", name: "Dual Connectivity", acronym: "DC", deps: []feature.Dependency{requires("FAJ 31 2"), requires("FAJ 31 90")}},
		def{code: "FAJ 31 4", name: "Beamforming", deps: []feature.Dependency{requires("FAJ 31 6")}},
		def{code: "FAJ 31 5", name: "Scheduler", deps: []feature.Dependency{requires("FAJ 31 6")}},
		def{code: "FAJ 31 6", name: "Baseband"},
	)
}

func TestOrder_PermutationInvariant(t *testing.T) {
	eng := orderFixture()

	queries := [][]string{
		{"MM", "CA", "DC"},
		{"DC", "MM", "CA"},
		{"CA", "DC", "MM", "CA"},
		{"FAJ 31 3", "massive", "ca"},
	}

	want := stepKeys(eng.Order(queries[0]))
	require.NotEmpty(t, want)
	for _, q := range queries[1:] {
		assert.Equal(t, want, stepKeys(eng.Order(q)), "queries %v", q)
	}
}

func TestOrder_PrerequisitesFirst(t *testing.T) {
	eng := orderFixture()
	g := eng.Graph()

	plan := eng.Order([]string{"MM", "DC"})
	pos := make(map[feature.Key]int)
	for i, s := range plan.Steps {
		pos[s.Key] = i
	}

	for _, s := range plan.Steps {
		for _, e := range g.Outgoing(s.Key, feature.Prerequisite) {
			if p, inSet := pos[e.To]; inSet {
				assert.Less(t, p, pos[s.Key], "%s must come after %s", s.Name, g.Name(e.To))
			}
		}
	}

	assert.Contains(t, pos, key("FAJ 31 90"), "dangling prerequisites are still ordered")
	for _, s := range plan.Steps {
		if s.Key == key("FAJ 31 90") {
			assert.False(t, s.InIndex)
		}
	}
}

func TestOrder_ConflictsReported(t *testing.T) {
	eng := engineOf(
		def{code: "FAJ 32 1", name: "A", deps: []feature.Dependency{requires("FAJ 32 3")}},
		def{code: "FAJ 32 2", name: "B"},
		def{code: "FAJ 32 3", name: "C", deps: []feature.Dependency{conflicts("FAJ 32 2")}},
	)

	plan := eng.Order([]string{"FAJ 32 1", "FAJ 32 2", "nothing like this"})

	assert.Len(t, plan.Steps, 3, "conflicts do not stop ordering")
	require.Len(t, plan.Conflicts, 1)
	assert.Equal(t, key("FAJ 32 2"), plan.Conflicts[0].A)
	assert.Equal(t, key("FAJ 32 3"), plan.Conflicts[0].B)
	assert.Equal(t, []string{"nothing like this"}, plan.Unresolved)
}

func TestOrder_CycleIsBlocked(t *testing.T) {
	eng := engineOf(
		def{code: "FAJ 33 1", name: "A", deps: []feature.Dependency{requires("FAJ 33 2"), requires("FAJ 33 3")}},
		def{code: "FAJ 33 2", name: "B", deps: []feature.Dependency{requires("FAJ 33 1")}},
		def{code: "FAJ 33 3", name: "C"},
	)

	plan := eng.Order([]string{"FAJ 33 1"})

	assert.Equal(t, []feature.Key{key("FAJ 33 3")}, stepKeys(plan))
	assert.Equal(t, []feature.Key{key("FAJ 33 1"), key("FAJ 33 2")}, plan.Blocked)
}

func TestOrder_NothingResolved(t *testing.T) {
	eng := orderFixture()

	plan := eng.Order([]string{"zzz", "yyy"})
	assert.Empty(t, plan.Steps)
	assert.Equal(t, []string{"zzz", "yyy"}, plan.Unresolved)
}
