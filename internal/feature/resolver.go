package feature

import (
	"strings"

	"golang.org/x/text/cases"
)

// Resolver turns a free-form query (FAJ code, acronym or partial name) into
// a feature. The graph components depend on this interface only.
type Resolver interface {
	Resolve(query string) (Key, *Record, bool)
}

// Fold returns the Unicode case-folded form of s used for case-insensitive
// matching.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// SnapshotResolver resolves queries against a Snapshot. Strategies are tried
// in order: canonical key, exact acronym, acronym suffix, name substring.
// Candidates are scanned in key order so the same query always resolves to
// the same feature.
type SnapshotResolver struct {
	snap     *Snapshot
	acronyms map[string]Key
	folded   map[Key]folded
}

type folded struct {
	acronym string
	name    string
}

// NewResolver indexes snap for lookups.
func NewResolver(snap *Snapshot) *SnapshotResolver {
	r := &SnapshotResolver{
		snap:     snap,
		acronyms: make(map[string]Key),
		folded:   make(map[Key]folded, snap.Len()),
	}
	for _, key := range snap.Keys() {
		rec, _ := snap.Get(key)
		f := folded{acronym: Fold(rec.Acronym), name: Fold(rec.Name)}
		r.folded[key] = f
		if f.acronym == "" {
			continue
		}
		if _, taken := r.acronyms[f.acronym]; !taken {
			r.acronyms[f.acronym] = key
		}
	}
	return r
}

// Resolve implements Resolver.
func (r *SnapshotResolver) Resolve(query string) (Key, *Record, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil, false
	}

	if key := NormalizeKey(query); r.snap.Has(key) {
		rec, _ := r.snap.Get(key)
		return key, rec, true
	}

	q := Fold(query)
	if key, ok := r.acronyms[q]; ok {
		rec, _ := r.snap.Get(key)
		return key, rec, true
	}

	if len([]rune(q)) >= 2 {
		for _, key := range r.snap.Keys() {
			if acr := r.folded[key].acronym; acr != "" && strings.HasSuffix(acr, q) {
				rec, _ := r.snap.Get(key)
				return key, rec, true
			}
		}
	}

	for _, key := range r.snap.Keys() {
		if strings.Contains(r.folded[key].name, q) {
			rec, _ := r.snap.Get(key)
			return key, rec, true
		}
	}
	return "", nil, false
}
