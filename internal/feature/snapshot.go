package feature

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"ranfeat/pkg/logging"
)

// SnapshotFile is the file name of the feature snapshot inside an index
// directory.
const SnapshotFile = "features.json"

// Snapshot is an immutable view over a set of feature records. It is safe
// for concurrent readers.
type Snapshot struct {
	path     string
	loadedAt time.Time
	records  map[Key]*Record
	keys     []Key
	skipped  []SkippedDependency
}

// Load reads a feature snapshot. path may name the JSON file itself or the
// index directory holding features.json. A missing file yields a
// *NotFoundError; any decode failure aborts the whole load.
func Load(path string) (*Snapshot, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, SnapshotFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read feature snapshot %s: %w", path, err)
	}

	raw := make(map[string]*Record)
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode feature snapshot %s: %w", path, err)
	}

	records := make(map[Key]*Record, len(raw))
	rawKeys := make([]string, 0, len(raw))
	for k := range raw {
		rawKeys = append(rawKeys, k)
	}
	sort.Strings(rawKeys)
	for _, k := range rawKeys {
		rec := raw[k]
		if rec == nil {
			continue
		}
		key := NormalizeKey(k)
		if key == "" {
			key = NormalizeKey(rec.FAJ)
		}
		if key == "" {
			logging.Warn("FeatureStore", "Ignoring record %q without a usable key", k)
			continue
		}
		if _, dup := records[key]; dup {
			logging.Warn("FeatureStore", "Duplicate record for %s (from %q), keeping the first", key, k)
			continue
		}
		records[key] = rec
	}

	snap := NewSnapshot(records)
	snap.path = path
	logging.Debug("FeatureStore", "Loaded %d features from %s", snap.Len(), path)
	if n := len(snap.skipped); n > 0 {
		logging.Warn("FeatureStore", "Skipped %d malformed dependency entries in %s", n, path)
	}
	return snap, nil
}

// NewSnapshot builds a snapshot from records keyed by canonical key. The
// records are copied; dependency entries are validated and malformed ones
// are reported through Skipped.
func NewSnapshot(records map[Key]*Record) *Snapshot {
	s := &Snapshot{
		loadedAt: time.Now(),
		records:  make(map[Key]*Record, len(records)),
		keys:     make([]Key, 0, len(records)),
	}
	for key := range records {
		s.keys = append(s.keys, key)
	}
	sort.Slice(s.keys, func(i, j int) bool { return s.keys[i] < s.keys[j] })

	for _, key := range s.keys {
		rec := *records[key]
		rec.edges = nil
		for _, dep := range rec.Deps {
			edge, reason := validateDependency(dep)
			if reason != "" {
				s.skipped = append(s.skipped, SkippedDependency{Source: key, Entry: dep, Reason: reason})
				continue
			}
			rec.edges = append(rec.edges, edge)
		}
		s.records[key] = &rec
	}
	return s
}

func validateDependency(dep Dependency) (Edge, string) {
	kind, err := ParseRelationKind(dep.Type)
	if err != nil {
		return Edge{}, err.Error()
	}
	target := NormalizeKey(dep.FAJ)
	if target == "" {
		return Edge{}, "missing faj"
	}
	name := dep.Name
	if name == "" {
		name = target.Code()
	}
	return Edge{Target: target, TargetName: name, Kind: kind}, ""
}

// Get returns the record stored under key.
func (s *Snapshot) Get(key Key) (*Record, bool) {
	rec, ok := s.records[key]
	return rec, ok
}

// Has reports whether key names a record.
func (s *Snapshot) Has(key Key) bool {
	_, ok := s.records[key]
	return ok
}

// Keys returns all keys in ascending order. The slice must not be modified.
func (s *Snapshot) Keys() []Key {
	return s.keys
}

func (s *Snapshot) Len() int {
	return len(s.keys)
}

// Skipped lists dependency entries dropped during validation.
func (s *Snapshot) Skipped() []SkippedDependency {
	return s.skipped
}

// Path is the file the snapshot was loaded from, empty for in-memory
// snapshots.
func (s *Snapshot) Path() string {
	return s.path
}

func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// DisplayName returns the record name for key, or fallback when the key is
// not in the snapshot.
func (s *Snapshot) DisplayName(key Key, fallback string) string {
	if rec, ok := s.records[key]; ok && rec.Name != "" {
		return rec.Name
	}
	if fallback != "" {
		return fallback
	}
	return key.Code()
}
