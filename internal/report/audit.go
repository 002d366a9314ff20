package report

import (
	"math"
	"sort"

	"ranfeat/internal/dependency"
	"ranfeat/internal/feature"
)

// Gap names, in report order.
const (
	GapCXC        = "missing_cxc"
	GapDeps       = "missing_deps"
	GapCounters   = "missing_counters"
	GapParams     = "missing_params"
	GapSummary    = "missing_summary"
	GapActivation = "missing_activation"
	GapAcronym    = "missing_acronym"
)

// GapNames lists the data-quality checks in report order.
var GapNames = []string{GapCXC, GapDeps, GapCounters, GapParams, GapSummary, GapActivation, GapAcronym}

// Count is a label with an occurrence count.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Distribution summarises a per-feature count.
type Distribution struct {
	Total       int     `json:"total"`
	Average     float64 `json:"avg_per_feature"`
	Max         int     `json:"max"`
	WithNonZero int     `json:"features_with_any"`
}

// Ranked is a feature with the value it was ranked by.
type Ranked struct {
	Key   feature.Key `json:"faj"`
	Name  string      `json:"name"`
	Label string      `json:"label"`
	Value int         `json:"value"`
}

// Audit is the data-quality report over a whole snapshot.
type Audit struct {
	Total          int                         `json:"total"`
	Gaps           map[string][]feature.Key    `json:"gaps"`
	Access         []Count                     `json:"access_distribution"`
	License        []Count                     `json:"license_distribution"`
	Parameters     Distribution                `json:"parameters"`
	Counters       Distribution                `json:"counters"`
	Dependencies   Distribution                `json:"dependencies"`
	Orphans        []feature.Key               `json:"orphans"`
	TopByParams    []Ranked                    `json:"top_by_params"`
	TopByCounters  []Ranked                    `json:"top_by_counters"`
	Dangling       []dependency.Node           `json:"dangling"`
	Cycles         [][]feature.Key             `json:"cycles"`
	SkippedEntries []feature.SkippedDependency `json:"skipped_entries"`
	Stats          dependency.Stats            `json:"stats"`
}

// GapCount returns how many features fail the named check.
func (a *Audit) GapCount(name string) int {
	return len(a.Gaps[name])
}

// NewAudit inspects every feature of g. top bounds the ranked lists; zero
// or less means 10.
func NewAudit(g *dependency.Graph, top int) *Audit {
	if top <= 0 {
		top = 10
	}
	snap := g.Snapshot()
	a := &Audit{
		Total:          snap.Len(),
		Gaps:           make(map[string][]feature.Key, len(GapNames)),
		Cycles:         g.FindCycles(),
		SkippedEntries: snap.Skipped(),
		Stats:          g.Stats(),
	}
	for _, name := range GapNames {
		a.Gaps[name] = []feature.Key{}
	}

	access := make(map[string]int)
	licensed, unlicensed := 0, 0
	var params, counters, deps []int

	for _, key := range snap.Keys() {
		rec, _ := snap.Get(key)
		for name, missing := range gapChecks(rec) {
			if missing {
				a.Gaps[name] = append(a.Gaps[name], key)
			}
		}

		if len(rec.Access) == 0 {
			access["Unknown"]++
		}
		for _, t := range rec.Access {
			access[t]++
		}
		if rec.License {
			licensed++
		} else {
			unlicensed++
		}

		params = append(params, len(rec.Params))
		counters = append(counters, len(rec.Counters))
		deps = append(deps, len(rec.Deps))

		if isOrphan(g, key) {
			a.Orphans = append(a.Orphans, key)
		}
	}

	a.Access = sortedCounts(access)
	a.License = []Count{{Label: "Licensed", Count: licensed}, {Label: "Unlicensed", Count: unlicensed}}
	a.Parameters = distribution(params)
	a.Counters = distribution(counters)
	a.Dependencies = distribution(deps)
	a.TopByParams = topFeatures(snap, top, func(r *feature.Record) int { return len(r.Params) })
	a.TopByCounters = topFeatures(snap, top, func(r *feature.Record) int { return len(r.Counters) })

	for _, n := range g.Nodes() {
		if !n.InIndex {
			a.Dangling = append(a.Dangling, n)
		}
	}
	return a
}

func gapChecks(rec *feature.Record) map[string]bool {
	return map[string]bool{
		GapCXC:        rec.CXC == "",
		GapDeps:       len(rec.Deps) == 0,
		GapCounters:   len(rec.Counters) == 0,
		GapParams:     len(rec.Params) == 0,
		GapSummary:    rec.Summary == "",
		GapActivation: rec.Activation == nil || len(rec.Activation.Steps) == 0,
		GapAcronym:    rec.Acronym == "",
	}
}

// isOrphan reports a feature with no edge of any kind in or out.
func isOrphan(g *dependency.Graph, key feature.Key) bool {
	for _, kind := range feature.RelationKinds {
		if len(g.Outgoing(key, kind)) > 0 || len(g.Incoming(key, kind)) > 0 {
			return false
		}
	}
	return true
}

func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for label, n := range m {
		out = append(out, Count{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func distribution(values []int) Distribution {
	var d Distribution
	for _, v := range values {
		d.Total += v
		if v > d.Max {
			d.Max = v
		}
		if v > 0 {
			d.WithNonZero++
		}
	}
	if len(values) > 0 {
		d.Average = math.Round(float64(d.Total)/float64(len(values))*10) / 10
	}
	return d
}

func topFeatures(snap *feature.Snapshot, limit int, value func(*feature.Record) int) []Ranked {
	var out []Ranked
	for _, key := range snap.Keys() {
		rec, _ := snap.Get(key)
		out = append(out, Ranked{Key: key, Name: rec.Name, Label: rec.Label(), Value: value(rec)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
