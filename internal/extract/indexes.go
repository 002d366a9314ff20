package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ranfeat/internal/dependency"
	"ranfeat/internal/feature"
)

// Index file names written next to features.json.
const (
	AcronymIndexFile = "index_acronym.json"
	CXCIndexFile     = "index_cxc.json"
	ParametersFile   = "parameters.json"
	CountersFile     = "counters.json"
	ReleasesFile     = "releases.json"
	GraphFile        = "dependency_graph.json"
)

// ParameterEntry lists the features that introduce or reference a
// parameter.
type ParameterEntry struct {
	MOClass  string        `json:"mo_class"`
	Types    []string      `json:"types"`
	Features []feature.Key `json:"features"`
}

// CounterEntry lists the features whose Performance section names a
// counter.
type CounterEntry struct {
	Name     string        `json:"name"`
	MOClass  string        `json:"mo_class"`
	Features []feature.Key `json:"features"`
}

type ReleaseChange struct {
	Key         feature.Key `json:"faj"`
	FeatureName string      `json:"feature_name"`
	Title       string      `json:"title"`
}

// ReleaseEntry groups change history entries by release tag.
type ReleaseEntry struct {
	Release  string          `json:"release"`
	Features []feature.Key   `json:"features"`
	Changes  []ReleaseChange `json:"changes"`
}

// GraphExport is the shape of dependency_graph.json.
type GraphExport struct {
	Nodes []dependency.Node `json:"nodes"`
	Edges []dependency.Edge `json:"edges"`
	Stats dependency.Stats  `json:"stats"`
}

func sortedRecordKeys(records map[feature.Key]*feature.Record) []feature.Key {
	keys := make([]feature.Key, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// AcronymIndex maps each acronym to its feature. On a clash the smaller key
// wins.
func AcronymIndex(records map[feature.Key]*feature.Record) map[string]feature.Key {
	out := make(map[string]feature.Key)
	for _, k := range sortedRecordKeys(records) {
		if a := records[k].Acronym; a != "" {
			if _, taken := out[a]; !taken {
				out[a] = k
			}
		}
	}
	return out
}

// CXCIndex maps each activation code to its feature.
func CXCIndex(records map[feature.Key]*feature.Record) map[string]feature.Key {
	out := make(map[string]feature.Key)
	for _, k := range sortedRecordKeys(records) {
		if c := records[k].CXC; c != "" {
			if _, taken := out[c]; !taken {
				out[c] = k
			}
		}
	}
	return out
}

func ParameterIndex(records map[feature.Key]*feature.Record) map[string]*ParameterEntry {
	out := make(map[string]*ParameterEntry)
	for _, k := range sortedRecordKeys(records) {
		for _, p := range records[k].ParamDetails {
			e, ok := out[p.Name]
			if !ok {
				mo, _, _ := strings.Cut(p.Name, ".")
				e = &ParameterEntry{MOClass: mo}
				out[p.Name] = e
			}
			if p.Type != "" && !containsString(e.Types, p.Type) {
				e.Types = append(e.Types, p.Type)
			}
			if !containsKey(e.Features, k) {
				e.Features = append(e.Features, k)
			}
		}
	}
	return out
}

func CounterIndex(records map[feature.Key]*feature.Record) map[string]*CounterEntry {
	out := make(map[string]*CounterEntry)
	for _, k := range sortedRecordKeys(records) {
		for _, c := range records[k].Counters {
			e, ok := out[c]
			if !ok {
				mo, name, _ := strings.Cut(c, ".")
				e = &CounterEntry{Name: name, MOClass: mo}
				out[c] = e
			}
			if !containsKey(e.Features, k) {
				e.Features = append(e.Features, k)
			}
		}
	}
	return out
}

// ReleaseIndex groups change history by release, newest first. Tags that
// do not parse sort last.
func ReleaseIndex(records map[feature.Key]*feature.Record) []ReleaseEntry {
	byTag := make(map[string]*ReleaseEntry)
	var tags []string
	for _, k := range sortedRecordKeys(records) {
		rec := records[k]
		for _, ch := range rec.ChangeHistory {
			e, ok := byTag[ch.Release]
			if !ok {
				e = &ReleaseEntry{Release: ch.Release}
				byTag[ch.Release] = e
				tags = append(tags, ch.Release)
			}
			if !containsKey(e.Features, k) {
				e.Features = append(e.Features, k)
			}
			e.Changes = append(e.Changes, ReleaseChange{Key: k, FeatureName: rec.Name, Title: ch.Title})
		}
	}
	out := make([]ReleaseEntry, 0, len(tags))
	for _, tag := range feature.SortReleases(tags) {
		out = append(out, *byTag[tag])
	}
	return out
}

// ExportGraph flattens g for dependency_graph.json. Edges are listed
// prerequisites first, then related, then conflicting.
func ExportGraph(g *dependency.Graph) GraphExport {
	out := GraphExport{Nodes: g.Nodes(), Stats: g.Stats()}
	for _, kind := range feature.RelationKinds {
		out.Edges = append(out.Edges, g.Edges(kind)...)
	}
	return out
}

// WriteIndexes writes features.json and its derived indexes into dir and
// returns the paths written.
func WriteIndexes(dir string, records map[feature.Key]*feature.Record, g *dependency.Graph) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory %s: %w", dir, err)
	}

	files := []struct {
		name string
		v    interface{}
	}{
		{feature.SnapshotFile, records},
		{AcronymIndexFile, AcronymIndex(records)},
		{CXCIndexFile, CXCIndex(records)},
		{ParametersFile, ParameterIndex(records)},
		{CountersFile, CounterIndex(records)},
		{ReleasesFile, ReleaseIndex(records)},
		{GraphFile, ExportGraph(g)},
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := writeJSON(path, f.v); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsKey(list []feature.Key, k feature.Key) bool {
	for _, v := range list {
		if v == k {
			return true
		}
	}
	return false
}
