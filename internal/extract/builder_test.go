package extract

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ranfeat/internal/feature"
)

const basicSchedulerDoc = "# 1 Basic Scheduler Overview\n\n| Feature Identity | FAJ 121 0002 |\n\n# Appendix A: Feature Change History\n\n## Appendix A.a: 24.Q3: Faster scheduling\n"

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestDiscover(t *testing.T) {
	fsys := fstest.MapFS{
		"lte/ca.md":         {Data: []byte("x")},
		"lte/notes.txt":     {Data: []byte("x")},
		"nr/dss.md":         {Data: []byte("x")},
		"drafts/wip.md":     {Data: []byte("x")},
		"README.md":         {Data: []byte("x")},
		"nr/deep/nested.md": {Data: []byte("x")},
	}

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{
			name:    "all markdown",
			include: []string{"**/*.md"},
			want:    []string{"README.md", "drafts/wip.md", "lte/ca.md", "nr/deep/nested.md", "nr/dss.md"},
		},
		{
			name:    "exclude drafts and root files",
			include: []string{"**/*.md"},
			exclude: []string{"drafts/**", "README.md"},
			want:    []string{"lte/ca.md", "nr/deep/nested.md", "nr/dss.md"},
		},
		{
			name:    "overlapping includes are deduplicated",
			include: []string{"nr/**/*.md", "**/dss.md"},
			want:    []string{"nr/deep/nested.md", "nr/dss.md"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := discover(fsys, tt.include, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuilder_Build(t *testing.T) {
	src := writeTree(t, map[string]string{
		"lte/ca.md":          readFixture(t, "carrier_aggregation.md"),
		"lte/scheduler.md":   basicSchedulerDoc,
		"lte/z_duplicate.md": basicSchedulerDoc,
		"notes.md":           "# Release notes\n\nNothing to index.\n",
		"drafts/ca_v2.md":    readFixture(t, "carrier_aggregation.md"),
	})
	out := filepath.Join(t.TempDir(), "references")

	res, err := NewBuilder(Options{
		SourceDir: src,
		OutputDir: out,
		Workers:   2,
		Exclude:   []string{"drafts/**"},
	}).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, res.Documents)
	assert.Equal(t, 2, res.Features)
	assert.Equal(t, []string{"notes.md"}, res.Skipped)
	assert.Equal(t, []string{"lte/z_duplicate.md"}, res.Duplicates)
	assert.Len(t, res.Files, 7)

	snap, err := feature.Load(out)
	require.NoError(t, err)
	assert.Equal(t, []feature.Key{"FAJ_121_0001", "FAJ_121_0002"}, snap.Keys())
	sched, ok := snap.Get("FAJ_121_0002")
	require.True(t, ok)
	assert.Equal(t, "lte/scheduler.md", sched.File)

	var acronyms map[string]feature.Key
	readJSON(t, filepath.Join(out, AcronymIndexFile), &acronyms)
	assert.Equal(t, feature.Key("FAJ_121_0001"), acronyms["CA"])
	assert.Equal(t, feature.Key("FAJ_121_0002"), acronyms["BS"])

	var cxc map[string]feature.Key
	readJSON(t, filepath.Join(out, CXCIndexFile), &cxc)
	assert.Equal(t, map[string]feature.Key{"CXC4011001": "FAJ_121_0001"}, cxc)

	var releases []ReleaseEntry
	readJSON(t, filepath.Join(out, ReleasesFile), &releases)
	var tags []string
	for _, r := range releases {
		tags = append(tags, r.Release)
	}
	assert.Equal(t, []string{"24.Q3", "24.Q1", "23.Q4.1"}, tags)

	var graph GraphExport
	readJSON(t, filepath.Join(out, GraphFile), &graph)
	assert.Equal(t, 3, graph.Stats.Nodes)
	assert.Equal(t, 2, graph.Stats.Indexed)
	assert.Equal(t, 1, graph.Stats.Dangling)
	assert.Equal(t, 1, graph.Stats.Prerequisites)
	assert.Equal(t, 1, graph.Stats.Conflicts)
	assert.Len(t, graph.Edges, 2)
}

func TestBuilder_MissingSource(t *testing.T) {
	_, err := NewBuilder(Options{SourceDir: filepath.Join(t.TempDir(), "absent")}).Build(context.Background())
	assert.Error(t, err)
}

func TestBuilder_Cancelled(t *testing.T) {
	src := writeTree(t, map[string]string{"a.md": basicSchedulerDoc})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(Options{SourceDir: src}).Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCounterAndParameterIndex(t *testing.T) {
	records := map[feature.Key]*feature.Record{
		"FAJ_121_0001": {
			Name:         "A",
			Counters:     []string{"EUtranCellFDD.pmX"},
			ParamDetails: []feature.ParamDetail{{Name: "EUtranCellFDD.x", Type: "Introduced"}},
		},
		"FAJ_121_0002": {
			Name:         "B",
			Counters:     []string{"EUtranCellFDD.pmX"},
			ParamDetails: []feature.ParamDetail{{Name: "EUtranCellFDD.x", Type: "Affecting"}},
		},
	}

	counters := CounterIndex(records)
	require.Contains(t, counters, "EUtranCellFDD.pmX")
	assert.Equal(t, &CounterEntry{
		Name:     "pmX",
		MOClass:  "EUtranCellFDD",
		Features: []feature.Key{"FAJ_121_0001", "FAJ_121_0002"},
	}, counters["EUtranCellFDD.pmX"])

	params := ParameterIndex(records)
	require.Contains(t, params, "EUtranCellFDD.x")
	assert.Equal(t, []string{"Introduced", "Affecting"}, params["EUtranCellFDD.x"].Types)
	assert.Equal(t, "EUtranCellFDD", params["EUtranCellFDD.x"].MOClass)
}

func readJSON(t *testing.T, path string, v interface{}) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}
