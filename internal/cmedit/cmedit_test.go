package cmedit

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ranfeat/internal/dependency"
	"ranfeat/internal/feature"
)

func carrierAggregation() *feature.Record {
	return &feature.Record{
		Name:    "Carrier Aggregation",
		Acronym: "CA",
		FAJ:     "FAJ 121 0001",
		CXC:     "CXC4011001",
		ParamDetails: []feature.ParamDetail{
			{Name: "EUtranCellFDD.caEnabled", Type: "Introduced"},
			{Name: "EUtranCellFDD.caMode", Type: "Affected"},
			{Name: "ENodeBFunction.caTimer", Type: "Affecting"},
			{Name: "EUtranCellFDD.caEnabled", Type: "Introduced"},
			{Name: "Not.a.param", Type: "Introduced"},
		},
		MOClasses: []string{"ENodeBFunction", "EUtranCellFDD", "FeatureState"},
	}
}

var fixedHeader = Header{
	RunID:       "0b8a4f8e-0000-4000-8000-000000000001",
	GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	Scope:       DefaultSite,
}

func TestScope(t *testing.T) {
	tests := []struct {
		name  string
		scope Scope
		want  string
	}{
		{"default site", Scope{}, DefaultSite},
		{"named site", Scope{Site: "ERBS_01"}, "ERBS_01"},
		{"collection wins", Scope{Site: "ERBS_01", Collection: "Sweden"}, "-co Sweden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scope.String())
		})
	}
}

func TestGenerator_Commands(t *testing.T) {
	set := NewGenerator(Scope{}).Commands("FAJ_121_0001", carrierAggregation())

	assert.Equal(t, FeatureInfo{
		Key: "FAJ_121_0001", Name: "Carrier Aggregation", Acronym: "CA", FAJ: "FAJ 121 0001", CXC: "CXC4011001",
	}, set.Feature)

	require.Len(t, set.Get, 2)
	assert.Equal(t, "cmedit get <SITE_NAME> EUtranCellFDD.(caEnabled,caMode)", set.Get[0].Raw)
	assert.Equal(t, 2, set.Get[0].AttributeCount())
	assert.Equal(t, "cmedit get <SITE_NAME> ENodeBFunction.caTimer", set.Get[1].Raw)
	assert.Equal(t, "Read caTimer (Affecting)", set.Get[1].Description)

	require.Len(t, set.Set, 2)
	assert.Equal(t, "cmedit set <SITE_NAME> EUtranCellFDD caEnabled=<value>", set.Set[0].Raw)
	assert.Equal(t, "cmedit set <SITE_NAME> ENodeBFunction caTimer=<value>", set.Set[1].Raw)

	require.Len(t, set.GetAll, 2)
	assert.Equal(t, "cmedit get <SITE_NAME> ENodeBFunction.*", set.GetAll[0].Raw)

	require.NotNil(t, set.Activate)
	assert.Equal(t, "cmedit set <SITE_NAME> FeatureState=CXC4011001 featureState=ACTIVATED", set.Activate.Raw)
	assert.Equal(t, "cmedit set $SITE FeatureState=CXC4011001 featureState=ACTIVATED", set.Activate.ForScript())
	require.NotNil(t, set.Deactivate)
	assert.Equal(t, "DEACTIVATED", set.Deactivate.Value)
	require.NotNil(t, set.CheckState)
	assert.Equal(t, "cmedit get <SITE_NAME> FeatureState=CXC4011001 featureState,licenseState,serviceState", set.CheckState.Raw)
}

func TestGenerator_CollectionScope(t *testing.T) {
	set := NewGenerator(Scope{Collection: "Sweden"}).Commands("FAJ_121_0001", carrierAggregation())
	assert.Equal(t, "cmedit set -co Sweden FeatureState=CXC4011001 featureState=ACTIVATED", set.Activate.Raw)
	assert.Equal(t, set.Activate.Raw, set.Activate.ForScript())
}

func TestGenerator_NoCXC(t *testing.T) {
	rec := carrierAggregation()
	rec.CXC = ""
	set := NewGenerator(Scope{}).Commands("FAJ_121_0001", rec)
	assert.Nil(t, set.Activate)
	assert.Nil(t, set.Deactivate)
	assert.Nil(t, set.CheckState)
	assert.NotEmpty(t, set.Get)
}

func TestRender(t *testing.T) {
	g := NewGenerator(Scope{})
	set := g.Commands("FAJ_121_0001", carrierAggregation())

	tests := []struct {
		format   Format
		contains []string
	}{
		{FormatText, []string{
			"# Carrier Aggregation [CA]",
			"# FAJ: FAJ 121 0001 | CXC: CXC4011001",
			"## Read Parameters (grouped by MO Class)",
			"# EUtranCellFDD (2 params)",
			"## Activation\ncmedit set <SITE_NAME> FeatureState=CXC4011001 featureState=ACTIVATED",
		}},
		{FormatMarkdown, []string{
			"### cmedit Commands for Carrier Aggregation [CA]",
			"| EUtranCellFDD | 2 params |",
			"| ENodeBFunction | caTimer |",
			"```bash",
		}},
		{FormatScript, []string{
			"#!/bin/bash",
			"# Run ID: 0b8a4f8e-0000-4000-8000-000000000001",
			"# Generated: 2026-03-01T12:00:00Z",
			`SITE="<SITE_NAME>"`,
			"cmedit get $SITE EUtranCellFDD.(caEnabled,caMode)",
			"# cmedit set $SITE EUtranCellFDD caEnabled=<value>",
			"# cmedit set $SITE FeatureState=CXC4011001 featureState=ACTIVATED",
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, g.Render(&buf, set, tt.format, fixedHeader))
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRender_JSON(t *testing.T) {
	g := NewGenerator(Scope{})
	var buf bytes.Buffer
	require.NoError(t, g.Render(&buf, g.Commands("FAJ_121_0001", carrierAggregation()), FormatJSON, fixedHeader))

	var out struct {
		Header   Header     `json:"header"`
		Commands CommandSet `json:"commands"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, fixedHeader.RunID, out.Header.RunID)
	assert.Len(t, out.Commands.Get, 2)
	require.NotNil(t, out.Commands.Activate)
	assert.Equal(t, OpAction, out.Commands.Activate.Operation)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("Script")
	require.NoError(t, err)
	assert.Equal(t, FormatScript, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}

func TestNewHeader(t *testing.T) {
	h := NewHeader(Scope{Collection: "Sweden"})
	assert.Len(t, h.RunID, 36)
	assert.Equal(t, "-co Sweden", h.Scope)
	assert.WithinDuration(t, time.Now(), h.GeneratedAt, time.Minute)
}

func TestGenerator_Plan(t *testing.T) {
	records := map[feature.Key]*feature.Record{
		"FAJ_121_0001": {
			Name: "Carrier Aggregation", Acronym: "CA", FAJ: "FAJ 121 0001", CXC: "CXC4011001",
			Deps: []feature.Dependency{{Name: "Basic Scheduler", FAJ: "FAJ 121 0002", Type: "Prerequisite"}},
		},
		"FAJ_121_0002": {
			Name: "Basic Scheduler", FAJ: "FAJ 121 0002",
			Deps: []feature.Dependency{{Name: "Radio Core", FAJ: "FAJ 121 0009", Type: "Prerequisite"}},
		},
	}
	snap := feature.NewSnapshot(records)
	engine := dependency.NewEngine(dependency.Build(snap), feature.NewResolver(snap))

	g := NewGenerator(Scope{Site: "ERBS_01"})
	ps := g.Plan(engine.Order([]string{"CA"}), snap)

	require.Len(t, ps.Steps, 3)
	assert.Equal(t, feature.Key("FAJ_121_0009"), ps.Steps[0].Key)
	assert.Equal(t, SkipNotIndexed, ps.Steps[0].SkipReason)
	assert.Equal(t, SkipNoCXC, ps.Steps[1].SkipReason)
	assert.Empty(t, ps.Steps[2].SkipReason)
	require.NotNil(t, ps.Steps[2].Commands)
	assert.Equal(t, 1, ps.TargetCount())

	var buf bytes.Buffer
	require.NoError(t, g.RenderPlan(&buf, ps, FormatScript, fixedHeader))
	out := buf.String()
	assert.Contains(t, out, `SITE="ERBS_01"`)
	assert.Contains(t, out, "# Step 1: Radio Core (FAJ_121_0009)\n# Skipped: "+SkipNotIndexed)
	assert.Contains(t, out, "# Step 3: Carrier Aggregation (FAJ_121_0001) [target]")
	assert.Contains(t, out, "cmedit set $SITE FeatureState=CXC4011001 featureState=ACTIVATED")
}

func TestCommandSet_Only(t *testing.T) {
	set := NewGenerator(Scope{}).Commands("FAJ_121_0001", carrierAggregation())

	tests := []struct {
		mode  Mode
		check func(t *testing.T, s *CommandSet)
	}{
		{ModeGet, func(t *testing.T, s *CommandSet) {
			assert.Len(t, s.Get, 2)
			assert.Len(t, s.GetAll, 2)
			assert.Empty(t, s.Set)
			assert.Nil(t, s.Activate)
		}},
		{ModeSet, func(t *testing.T, s *CommandSet) {
			assert.Len(t, s.Set, 2)
			assert.Empty(t, s.Get)
		}},
		{ModeActivate, func(t *testing.T, s *CommandSet) {
			require.NotNil(t, s.Activate)
			assert.Nil(t, s.Deactivate)
			assert.Nil(t, s.CheckState)
		}},
		{ModeVerify, func(t *testing.T, s *CommandSet) {
			require.NotNil(t, s.CheckState)
			assert.Nil(t, s.Activate)
		}},
		{ModeAll, func(t *testing.T, s *CommandSet) {
			assert.Same(t, set, s)
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got := set.Only(tt.mode)
			assert.Equal(t, set.Feature, got.Feature)
			tt.check(t, got)
		})
	}

	rec := carrierAggregation()
	rec.CXC = ""
	assert.True(t, NewGenerator(Scope{}).Commands("FAJ_121_0001", rec).Only(ModeActivate).Empty())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeAll, m)

	m, err = ParseMode("Verify")
	require.NoError(t, err)
	assert.Equal(t, ModeVerify, m)

	_, err = ParseMode("delete")
	assert.ErrorContains(t, err, "unsupported cmedit mode")
}
