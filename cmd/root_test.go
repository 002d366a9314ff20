package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ranfeat/internal/cli"
	"ranfeat/internal/feature"
)

const fixtureIndex = `{
  "FAJ_121_0001": {
    "name": "Carrier Aggregation", "acronym": "CA", "faj": "FAJ 121 0001", "cxc": "CXC4011001",
    "access": ["LTE"],
    "params": ["EUtranCellFDD.caEnabled"],
    "param_details": [{"name": "EUtranCellFDD.caEnabled", "type": "Introduced"}],
    "deps": [
      {"name": "Basic Scheduler", "faj": "FAJ 121 0002", "type": "Prerequisite"},
      {"name": "Legacy Mode", "faj": "FAJ 121 0003", "type": "Conflicting"}
    ]
  },
  "FAJ_121_0002": {
    "name": "Basic Scheduler", "acronym": "BS", "faj": "FAJ 121 0002",
    "deps": [{"name": "Radio Core", "faj": "FAJ 121 0009", "type": "Prerequisite"}]
  },
  "FAJ_121_0003": {"name": "Legacy Mode", "acronym": "LM", "faj": "FAJ 121 0003", "access": ["LTE"]}
}`

func writeIndex(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, feature.SnapshotFile), []byte(fixtureIndex), 0o644))
	return dir
}

// run executes a fresh command tree against the fixture index.
func run(t *testing.T, snapshotDir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	t.Setenv("RANFEAT_SNAPSHOT_DIR", "")

	root := newRootCmd()
	root.Version = "1.2.3-test"
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config-path", t.TempDir(), "--snapshot-dir", snapshotDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "ranfeat", root.Use)
	assert.NotEmpty(t, root.Short)
	assert.NotEmpty(t, root.Long)
	assert.True(t, root.SilenceUsage)

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"build", "deps", "order", "validate", "conflicts", "cycles", "impact",
		"stats", "search", "compare", "audit", "cmedit", "shell", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestSetVersion(t *testing.T) {
	original := GetVersion()
	defer SetVersion(original)

	SetVersion("9.9.9")
	assert.Equal(t, "9.9.9", GetVersion())
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"general", errors.New("boom"), ExitCodeError},
		{"usage", cli.Usagef("bad"), ExitCodeUsage},
		{"wrapped usage", fmt.Errorf("x: %w", cli.Usagef("bad")), ExitCodeUsage},
		{"conflict", &cli.ConflictError{Pairs: 1}, ExitCodeConflict},
		{"warnings", &cli.WarningsError{Count: 2}, ExitCodeWarnings},
		{"snapshot missing", &cli.SnapshotMissingError{Path: "x"}, ExitCodeSnapshotMissing},
		{"raw not found", &feature.NotFoundError{Path: "x"}, ExitCodeSnapshotMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}

func TestCommands(t *testing.T) {
	dir := writeIndex(t)

	tests := []struct {
		name     string
		args     []string
		contains []string
		exitCode int
	}{
		{"deps", []string{"deps", "CA"}, []string{"└── Basic Scheduler (FAJ_121_0002)", "Radio Core (FAJ_121_0009) [not indexed]"}, ExitCodeSuccess},
		{"deps by name", []string{"deps", "carrier", "aggregation", "--depth", "1"}, []string{"1 prerequisite(s)"}, ExitCodeSuccess},
		{"reverse deps", []string{"deps", "BS", "--reverse"}, []string{"Carrier Aggregation"}, ExitCodeSuccess},
		{"order", []string{"order", "CA"}, []string{"1 target(s), 2 prerequisite(s)"}, ExitCodeSuccess},
		{"order script", []string{"order", "CA", "-o", "script", "--site", "ERBS_01"}, []string{
			"#!/bin/bash", `SITE="ERBS_01"`, "cmedit set $SITE FeatureState=CXC4011001 featureState=ACTIVATED",
		}, ExitCodeSuccess},
		{"validate ok", []string{"validate", "BS", "LM"}, []string{"features can coexist"}, ExitCodeSuccess},
		{"validate conflict", []string{"validate", "CA", "LM"}, []string{"features conflict"}, ExitCodeConflict},
		{"validate strict warnings", []string{"validate", "BS", "LM", "--strict"}, []string{"prerequisites missing"}, ExitCodeWarnings},
		{"validate single", []string{"validate", "CA"}, nil, ExitCodeUsage},
		{"validate nothing resolves", []string{"validate", "x1", "x2"}, nil, ExitCodeError},
		{"conflicts", []string{"conflicts"}, []string{"Legacy Mode", "1 pair(s)"}, ExitCodeSuccess},
		{"cycles", []string{"cycles"}, []string{"No cycles found"}, ExitCodeSuccess},
		{"impact", []string{"impact", "BS"}, []string{"1 direct, 1 total dependent(s)"}, ExitCodeSuccess},
		{"stats", []string{"stats", "--no-headers"}, []string{"features", "3"}, ExitCodeSuccess},
		{"search", []string{"search", "carrier"}, []string{"FAJ_121_0001", "1 result(s)"}, ExitCodeSuccess},
		{"search filter only", []string{"search", "--access", "LTE"}, []string{"2 result(s)"}, ExitCodeSuccess},
		{"search empty", []string{"search"}, nil, ExitCodeUsage},
		{"search two modes", []string{"search", "x", "--fuzzy", "--acronym"}, nil, ExitCodeUsage},
		{"compare", []string{"compare", "CA", "LM"}, []string{"Carrier Aggregation", "Legacy Mode"}, ExitCodeSuccess},
		{"compare same feature", []string{"compare", "CA", "carrier aggregation"}, nil, ExitCodeUsage},
		{"audit", []string{"audit"}, []string{"Audit of 3 features"}, ExitCodeSuccess},
		{"audit top", []string{"audit", "--top", "0"}, nil, ExitCodeUsage},
		{"cmedit activate", []string{"cmedit", "CA", "--mode", "activate"}, []string{"featureState=ACTIVATED"}, ExitCodeSuccess},
		{"cmedit bad mode", []string{"cmedit", "CA", "--mode", "delete"}, nil, ExitCodeUsage},
		{"cmedit yaml", []string{"cmedit", "CA", "-o", "yaml"}, nil, ExitCodeUsage},
		{"unknown feature", []string{"deps", "nope"}, nil, ExitCodeError},
		{"bad output format", []string{"stats", "-o", "xml"}, nil, ExitCodeUsage},
		{"unknown flag", []string{"stats", "--bogus"}, nil, ExitCodeUsage},
		{"version", []string{"version"}, []string{"ranfeat version 1.2.3-test"}, ExitCodeSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, dir, tt.args...)
			if tt.exitCode == ExitCodeSuccess {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.exitCode, getExitCode(err), err.Error())
			}
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestOrder_JSON(t *testing.T) {
	out, err := run(t, writeIndex(t), "order", "CA", "nope", "-o", "json")
	require.NoError(t, err)

	var plan struct {
		Steps []struct {
			Key      string `json:"faj"`
			IsTarget bool   `json:"is_target"`
		} `json:"sequence"`
		Unresolved []string `json:"not_found"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	require.Len(t, plan.Steps, 3)
	assert.Equal(t, "FAJ_121_0001", plan.Steps[2].Key)
	assert.Equal(t, []string{"nope"}, plan.Unresolved)
}

func TestSnapshotMissing(t *testing.T) {
	_, err := run(t, filepath.Join(t.TempDir(), "absent"), "stats")
	require.Error(t, err)
	assert.Equal(t, ExitCodeSnapshotMissing, getExitCode(err))
	assert.Contains(t, err.Error(), "ranfeat build")
}

func TestBuildThenQuery(t *testing.T) {
	source := t.TempDir()
	doc := "# 1 Basic Scheduler Overview\n\n| Feature Identity | FAJ 121 0002 |\n"
	require.NoError(t, os.WriteFile(filepath.Join(source, "bs.md"), []byte(doc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(source, "notes.md"), []byte("# Notes\n"), 0o644))
	out := t.TempDir()

	buildOut, err := run(t, out, "build", "--source", source, "--workers", "2", "-q")
	require.NoError(t, err)
	assert.Contains(t, buildOut, "documents")
	assert.FileExists(t, filepath.Join(out, feature.SnapshotFile))

	statsOut, err := run(t, out, "stats", "-o", "json")
	require.NoError(t, err)
	var stats struct {
		Features int `json:"features"`
	}
	require.NoError(t, json.Unmarshal([]byte(statsOut), &stats))
	assert.Equal(t, 1, stats.Features)
}

func TestBuild_RequiresSource(t *testing.T) {
	_, err := run(t, t.TempDir(), "build")
	require.Error(t, err)
	assert.Equal(t, ExitCodeUsage, getExitCode(err))
}
