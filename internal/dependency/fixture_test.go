package dependency

import (
	"ranfeat/internal/feature"
)

type def struct {
	code    string
	name    string
	acronym string
	deps    []feature.Dependency
}

func requires(code string) feature.Dependency {
	return feature.Dependency{FAJ: code, Type: "Prerequisite"}
}

func conflicts(code string) feature.Dependency {
	return feature.Dependency{FAJ: code, Type: "Conflicting"}
}

func related(code string) feature.Dependency {
	return feature.Dependency{FAJ: code, Type: "Related"}
}

func snapshotOf(defs ...def) *feature.Snapshot {
	records := make(map[feature.Key]*feature.Record, len(defs))
	for _, d := range defs {
		records[feature.NormalizeKey(d.code)] = &feature.Record{
			Name:    d.name,
			Acronym: d.acronym,
			FAJ:     d.code,
			Deps:    d.deps,
		}
	}
	return feature.NewSnapshot(records)
}

func graphOf(defs ...def) *Graph {
	return Build(snapshotOf(defs...))
}

func engineOf(defs ...def) *Engine {
	snap := snapshotOf(defs...)
	return NewEngine(Build(snap), feature.NewResolver(snap))
}

func key(code string) feature.Key {
	return feature.NormalizeKey(code)
}
