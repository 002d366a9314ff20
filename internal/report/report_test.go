package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ranfeat/internal/dependency"
	"ranfeat/internal/feature"
)

func fixtureEngine() *dependency.Engine {
	records := map[feature.Key]*feature.Record{
		"FAJ_121_0001": {
			Name:     "Carrier Aggregation",
			Acronym:  "CA",
			FAJ:      "FAJ 121 0001",
			CXC:      "CXC4011001",
			Summary:  "Combines carriers.",
			Access:   []string{"LTE"},
			License:  true,
			Params:   []string{"EUtranCellFDD.x", "EUtranCellFDD.y"},
			Counters: []string{"EUtranCellFDD.pmX"},
			Releases: []string{"23.Q4", "24.Q1"},
			Deps: []feature.Dependency{
				{Name: "Basic Scheduler", FAJ: "FAJ 121 0002", Type: "Prerequisite"},
				{Name: "Uplink Boost", FAJ: "FAJ 121 0004", Type: "Prerequisite"},
				{Name: "Legacy Mode", FAJ: "FAJ 121 0003", Type: "Conflicting"},
			},
			Activation: &feature.Activation{Steps: []string{"Activate."}},
		},
		"FAJ_121_0002": {
			Name:    "Basic Scheduler",
			Acronym: "BS",
			FAJ:     "FAJ 121 0002",
			Params:  []string{"EUtranCellFDD.x"},
		},
		"FAJ_121_0003": {
			Name:    "Legacy Mode",
			Acronym: "LM",
			FAJ:     "FAJ 121 0003",
			Params:  []string{"EUtranCellFDD.x", "ENodeBFunction.z"},
			Deps: []feature.Dependency{
				{Name: "Basic Scheduler", FAJ: "FAJ 121 0002", Type: "Prerequisite"},
			},
		},
		"FAJ_121_0005": {
			Name: "Lonely Feature",
			FAJ:  "FAJ 121 0005",
		},
	}
	snap := feature.NewSnapshot(records)
	return dependency.NewEngine(dependency.Build(snap), feature.NewResolver(snap))
}

func TestCompare(t *testing.T) {
	c, err := Compare(fixtureEngine(), []string{"CA", "LM", "nope"})
	require.NoError(t, err)

	require.Len(t, c.Features, 2)
	assert.Equal(t, "24.Q1", c.Features[0].LatestRelease)
	assert.Equal(t, []feature.Key{"FAJ_121_0003"}, c.Features[0].ConflictsWith)
	assert.Equal(t, []feature.Key{"FAJ_121_0002"}, c.SharedPrerequisites)
	assert.Equal(t, map[feature.Key][]feature.Key{"FAJ_121_0001": {"FAJ_121_0004"}}, c.UniquePrerequisites)
	assert.Equal(t, []string{"EUtranCellFDD.x"}, c.SharedParameters)
	assert.Equal(t, map[feature.Key][]string{
		"FAJ_121_0001": {"EUtranCellFDD.y"},
		"FAJ_121_0003": {"ENodeBFunction.z"},
	}, c.UniqueParameters)
	require.Len(t, c.Conflicts, 1)
	assert.Equal(t, feature.Key("FAJ_121_0001"), c.Conflicts[0].A)
	assert.Equal(t, feature.Key("FAJ_121_0003"), c.Conflicts[0].B)
	assert.Equal(t, []string{"nope"}, c.Unresolved)

	rows := c.Rows()
	require.Len(t, rows, 9)
	assert.Equal(t, []string{"ASPECT", "CA", "LM"}, rows[0])
	assert.Equal(t, []string{"Name", "Carrier Aggregation", "Legacy Mode"}, rows[1])
	assert.Equal(t, []string{"CXC", "CXC4011001", "-"}, rows[3])
	assert.Equal(t, []string{"License", "Yes", "No"}, rows[5])
	assert.Equal(t, []string{"Params", "2", "2"}, rows[6])
}

func TestCompare_TooFew(t *testing.T) {
	tests := []struct {
		name    string
		queries []string
	}{
		{"single", []string{"CA"}},
		{"same feature twice", []string{"CA", "Carrier Aggregation"}},
		{"nothing resolves", []string{"x1", "x2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compare(fixtureEngine(), tt.queries)
			assert.ErrorIs(t, err, ErrTooFewFeatures)
		})
	}
}

func TestNewAudit(t *testing.T) {
	a := NewAudit(fixtureEngine().Graph(), 2)

	assert.Equal(t, 4, a.Total)
	assert.Equal(t, []feature.Key{"FAJ_121_0002", "FAJ_121_0003", "FAJ_121_0005"}, a.Gaps[GapCXC])
	assert.Equal(t, []feature.Key{"FAJ_121_0002", "FAJ_121_0005"}, a.Gaps[GapDeps])
	assert.Equal(t, []feature.Key{"FAJ_121_0005"}, a.Gaps[GapAcronym])
	assert.Equal(t, 3, a.GapCount(GapActivation))
	assert.Equal(t, 3, a.GapCount(GapSummary))
	for _, name := range GapNames {
		assert.Contains(t, a.Gaps, name)
	}

	assert.Equal(t, []Count{{Label: "Unknown", Count: 3}, {Label: "LTE", Count: 1}}, a.Access)
	assert.Equal(t, []Count{{Label: "Licensed", Count: 1}, {Label: "Unlicensed", Count: 3}}, a.License)
	assert.Equal(t, Distribution{Total: 5, Average: 1.3, Max: 2, WithNonZero: 3}, a.Parameters)

	assert.Equal(t, []feature.Key{"FAJ_121_0005"}, a.Orphans)
	require.Len(t, a.Dangling, 1)
	assert.Equal(t, feature.Key("FAJ_121_0004"), a.Dangling[0].Key)
	assert.Empty(t, a.Cycles)

	require.Len(t, a.TopByParams, 2)
	assert.Equal(t, feature.Key("FAJ_121_0001"), a.TopByParams[0].Key)
	assert.Equal(t, feature.Key("FAJ_121_0003"), a.TopByParams[1].Key)
}
