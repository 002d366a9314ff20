package dependency

import (
	"sort"

	"ranfeat/internal/feature"
)

// Dependent is a feature affected by a change to another feature.
type Dependent struct {
	Key      feature.Key `json:"faj"`
	Name     string      `json:"name"`
	Distance int         `json:"distance"`
	InIndex  bool        `json:"in_index"`
}

// ImpactReport describes what deactivating or changing a feature touches.
type ImpactReport struct {
	Key        feature.Key   `json:"faj"`
	Name       string        `json:"name"`
	InIndex    bool          `json:"in_index"`
	Direct     []feature.Key `json:"direct_dependents"`
	Dependents []Dependent   `json:"dependents"`
	Conflicts  []feature.Key `json:"conflicts"`
	Related    []feature.Key `json:"related"`
}

// Total is the number of transitive dependents.
func (r *ImpactReport) Total() int {
	return len(r.Dependents)
}

// Impact collects the transitive dependents of key, nearest first, together
// with its conflicts and related features.
func (g *Graph) Impact(key feature.Key) *ImpactReport {
	dist := g.dependentDistances(key)

	deps := make([]Dependent, 0, len(dist))
	for k, d := range dist {
		deps = append(deps, Dependent{Key: k, Name: g.Name(k), Distance: d, InIndex: g.InIndex(k)})
	}
	sort.Slice(deps, func(i, j int) bool {
		if deps[i].Distance != deps[j].Distance {
			return deps[i].Distance < deps[j].Distance
		}
		if deps[i].Name != deps[j].Name {
			return deps[i].Name < deps[j].Name
		}
		return deps[i].Key < deps[j].Key
	})

	return &ImpactReport{
		Key:        key,
		Name:       g.Name(key),
		InIndex:    g.InIndex(key),
		Direct:     g.DependentsOf(key, false),
		Dependents: deps,
		Conflicts:  g.ConflictsOf(key),
		Related:    g.RelatedTo(key),
	}
}
