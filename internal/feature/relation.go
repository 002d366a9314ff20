package feature

import (
	"encoding/json"
	"fmt"
)

// RelationKind classifies a dependency edge.
type RelationKind int

const (
	RelationUnknown RelationKind = iota
	// Prerequisite reads "source requires target".
	Prerequisite
	Related
	// Conflicting may be declared on only one side; consumers treat it as
	// symmetric.
	Conflicting
)

var relationNames = map[RelationKind]string{
	Prerequisite: "Prerequisite",
	Related:      "Related",
	Conflicting:  "Conflicting",
}

// RelationKinds lists the valid kinds in display order.
var RelationKinds = []RelationKind{Prerequisite, Related, Conflicting}

func (r RelationKind) String() string {
	if name, ok := relationNames[r]; ok {
		return name
	}
	return "Unknown"
}

// Label is the verb used for edges in the exported graph.
func (r RelationKind) Label() string {
	switch r {
	case Prerequisite:
		return "requires"
	case Related:
		return "related"
	case Conflicting:
		return "conflicts"
	default:
		return "unknown"
	}
}

// ParseRelationKind parses the snapshot spelling of a relation kind.
func ParseRelationKind(s string) (RelationKind, error) {
	for kind, name := range relationNames {
		if name == s {
			return kind, nil
		}
	}
	return RelationUnknown, fmt.Errorf("unknown relation kind %q", s)
}

func (r RelationKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *RelationKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	kind, err := ParseRelationKind(s)
	if err != nil {
		return err
	}
	*r = kind
	return nil
}
