package report

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"ranfeat/internal/dependency"
	"ranfeat/internal/feature"
	pkgstrings "ranfeat/pkg/strings"
)

// ErrTooFewFeatures is returned when fewer than two queries resolve.
var ErrTooFewFeatures = errors.New("need at least 2 features to compare")

const compareNameLen = 25

// ComparedFeature is one column of a comparison.
type ComparedFeature struct {
	Key           feature.Key   `json:"faj"`
	Label         string        `json:"label"`
	Name          string        `json:"name"`
	FAJ           string        `json:"faj_code"`
	CXC           string        `json:"cxc,omitempty"`
	Access        []string      `json:"access,omitempty"`
	License       bool          `json:"license"`
	Params        int           `json:"params"`
	Counters      int           `json:"counters"`
	LatestRelease string        `json:"latest_release,omitempty"`
	ConflictsWith []feature.Key `json:"conflicts_with,omitempty"`
}

// Comparison lines up several features and their overlap.
type Comparison struct {
	Features            []ComparedFeature             `json:"features"`
	SharedPrerequisites []feature.Key                 `json:"shared_prerequisites"`
	UniquePrerequisites map[feature.Key][]feature.Key `json:"unique_prerequisites"`
	SharedParameters    []string                      `json:"shared_parameters"`
	UniqueParameters    map[feature.Key][]string      `json:"unique_parameters"`
	Conflicts           []dependency.ConflictPair     `json:"conflicts"`
	Unresolved          []string                      `json:"not_found,omitempty"`
}

// Compare resolves queries and compares the features found.
func Compare(e *dependency.Engine, queries []string) (*Comparison, error) {
	keys, unresolved := e.ResolveAll(queries)
	if len(keys) < 2 {
		return nil, ErrTooFewFeatures
	}
	g := e.Graph()
	snap := g.Snapshot()

	c := &Comparison{
		UniquePrerequisites: make(map[feature.Key][]feature.Key),
		UniqueParameters:    make(map[feature.Key][]string),
		Unresolved:          unresolved,
	}

	prereqs := make([]map[string]bool, len(keys))
	params := make([]map[string]bool, len(keys))
	members := make(map[feature.Key]bool, len(keys))
	for i, key := range keys {
		rec, _ := snap.Get(key)
		members[key] = true

		cf := ComparedFeature{
			Key:           key,
			Label:         rec.Label(),
			Name:          rec.Name,
			FAJ:           rec.FAJ,
			CXC:           rec.CXC,
			Access:        rec.Access,
			License:       rec.License,
			Params:        len(rec.Params),
			Counters:      len(rec.Counters),
			LatestRelease: rec.LatestRelease,
			ConflictsWith: g.ConflictsOf(key),
		}
		if cf.LatestRelease == "" {
			cf.LatestRelease = feature.LatestRelease(rec.Releases)
		}
		c.Features = append(c.Features, cf)

		prereqs[i] = make(map[string]bool)
		for _, edge := range g.Outgoing(key, feature.Prerequisite) {
			prereqs[i][string(edge.To)] = true
		}
		params[i] = make(map[string]bool)
		for _, p := range rec.Params {
			params[i][p] = true
		}
	}

	sharedPrereqs := intersect(prereqs)
	for _, k := range sharedPrereqs {
		c.SharedPrerequisites = append(c.SharedPrerequisites, feature.Key(k))
	}
	c.SharedParameters = intersect(params)
	for i, key := range keys {
		for _, k := range difference(prereqs[i], sharedPrereqs) {
			c.UniquePrerequisites[key] = append(c.UniquePrerequisites[key], feature.Key(k))
		}
		if u := difference(params[i], c.SharedParameters); len(u) > 0 {
			c.UniqueParameters[key] = u
		}
	}

	for _, p := range g.AllConflicts() {
		if members[p.A] && members[p.B] {
			c.Conflicts = append(c.Conflicts, p)
		}
	}
	return c, nil
}

// Rows renders the side-by-side table, one aspect per row. The first row
// is the header.
func (c *Comparison) Rows() [][]string {
	header := []string{"ASPECT"}
	rows := [][]string{
		{"Name"}, {"FAJ"}, {"CXC"}, {"Access"}, {"License"}, {"Params"}, {"Counters"}, {"Latest"},
	}
	for _, f := range c.Features {
		header = append(header, f.Label)
		access := strings.Join(f.Access, "/")
		license := "No"
		if f.License {
			license = "Yes"
		}
		cells := []string{
			pkgstrings.TruncateLabel(f.Name, compareNameLen),
			f.FAJ,
			dash(f.CXC),
			dash(access),
			license,
			strconv.Itoa(f.Params),
			strconv.Itoa(f.Counters),
			dash(f.LatestRelease),
		}
		for i := range rows {
			rows[i] = append(rows[i], cells[i])
		}
	}
	return append([][]string{header}, rows...)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// intersect returns the sorted values present in every set.
func intersect(sets []map[string]bool) []string {
	if len(sets) == 0 {
		return nil
	}
	var out []string
	for v := range sets[0] {
		inAll := true
		for _, s := range sets[1:] {
			if !s[v] {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func difference(set map[string]bool, exclude []string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, v := range exclude {
		skip[v] = true
	}
	var out []string
	for v := range set {
		if !skip[v] {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
