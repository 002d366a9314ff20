package catalog

import (
	"fmt"
	"sync"
	"sync/atomic"

	"ranfeat/internal/dependency"
	"ranfeat/internal/feature"
	"ranfeat/pkg/logging"
)

// View is one consistent generation of the loaded data. All fields are
// immutable and belong together: a graph is only ever queried with the
// snapshot it was built from.
type View struct {
	Snapshot   *feature.Snapshot
	Graph      *dependency.Graph
	Resolver   *feature.SnapshotResolver
	Engine     *dependency.Engine
	Generation uint64
}

// NewView builds graph, resolver and engine for snap.
func NewView(snap *feature.Snapshot) *View {
	g := dependency.Build(snap)
	r := feature.NewResolver(snap)
	return &View{
		Snapshot: snap,
		Graph:    g,
		Resolver: r,
		Engine:   dependency.NewEngine(g, r),
	}
}

// Catalog owns the current View of a snapshot file and replaces it as a
// whole on Reload. Readers call View once per operation and keep using that
// value; they never observe a half-updated graph.
type Catalog struct {
	path       string
	current    atomic.Pointer[View]
	generation atomic.Uint64
	reloadMu   sync.Mutex
}

// Open loads the snapshot at path. path may be the index directory or the
// features.json file.
func Open(path string) (*Catalog, error) {
	c := &Catalog{path: path}
	if _, err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromSnapshot wraps an in-memory snapshot. Reload is not available for
// such catalogs.
func FromSnapshot(snap *feature.Snapshot) *Catalog {
	c := &Catalog{}
	v := NewView(snap)
	v.Generation = c.generation.Add(1)
	c.current.Store(v)
	return c
}

// View returns the current generation.
func (c *Catalog) View() *View {
	return c.current.Load()
}

// Path is the snapshot location the catalog reloads from.
func (c *Catalog) Path() string {
	return c.path
}

// Reload loads the snapshot again and swaps it in. On failure the previous
// view stays current and the error is returned.
func (c *Catalog) Reload() (*View, error) {
	if c.path == "" {
		return nil, fmt.Errorf("catalog has no snapshot path to reload from")
	}

	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	snap, err := feature.Load(c.path)
	if err != nil {
		return nil, err
	}
	v := NewView(snap)
	v.Generation = c.generation.Add(1)
	c.current.Store(v)

	logging.Info("Catalog", "Loaded generation %d: %d features from %s", v.Generation, snap.Len(), snap.Path())
	return v, nil
}
