package feature

// Dependency is the wire form of a dependency entry in the snapshot.
type Dependency struct {
	Name string `json:"name"`
	FAJ  string `json:"faj"`
	Type string `json:"type"`
}

// Edge is a validated dependency: the edge lives on the source record and
// points to Target.
type Edge struct {
	Target     Key          `json:"target"`
	TargetName string       `json:"targetName"`
	Kind       RelationKind `json:"kind"`
}

type ValuePackage struct {
	Name string `json:"name,omitempty"`
	FAJ  string `json:"faj,omitempty"`
}

type ParamDetail struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

type Activation struct {
	Prerequisites []string `json:"prerequisites,omitempty"`
	Steps         []string `json:"steps,omitempty"`
	AfterTask     string   `json:"after_task,omitempty"`
}

type Deactivation struct {
	Steps []string `json:"steps,omitempty"`
}

// Metadata carries the YAML front matter of the source document.
type Metadata struct {
	ComplexityScore float64 `json:"complexity_score,omitempty" yaml:"complexity_score"`
	QualityScore    float64 `json:"quality_score,omitempty" yaml:"quality_score"`
	TablesExtracted int     `json:"tables_extracted,omitempty" yaml:"tables_extracted"`
	ImagesExtracted int     `json:"images_extracted,omitempty" yaml:"images_extracted"`
	SourceFile      string  `json:"source_file,omitempty" yaml:"source_file"`
}

type ChangeEntry struct {
	Release string `json:"release"`
	Title   string `json:"title"`
}

// Record is one feature as stored in features.json. Records are never
// mutated after a Snapshot has been built from them.
type Record struct {
	Name          string        `json:"name"`
	Acronym       string        `json:"acronym,omitempty"`
	Summary       string        `json:"summary,omitempty"`
	FAJ           string        `json:"faj"`
	CXC           string        `json:"cxc,omitempty"`
	Access        []string      `json:"access,omitempty"`
	License       bool          `json:"license"`
	ValuePackage  *ValuePackage `json:"value_package,omitempty"`
	File          string        `json:"file,omitempty"`
	Metadata      *Metadata     `json:"metadata,omitempty"`
	Params        []string      `json:"params,omitempty"`
	ParamDetails  []ParamDetail `json:"param_details,omitempty"`
	MOClasses     []string      `json:"mo_classes,omitempty"`
	Deps          []Dependency  `json:"deps,omitempty"`
	Counters      []string      `json:"counters,omitempty"`
	KPIs          []string      `json:"kpis,omitempty"`
	Events        []string      `json:"events,omitempty"`
	Activation    *Activation   `json:"activation,omitempty"`
	Deactivation  *Deactivation `json:"deactivation,omitempty"`
	ChangeHistory []ChangeEntry `json:"change_history,omitempty"`
	Releases      []string      `json:"releases,omitempty"`
	LatestRelease string        `json:"latest_release,omitempty"`

	edges []Edge
}

// Edges returns the validated dependency edges in declaration order.
func (r *Record) Edges() []Edge {
	return r.edges
}

// EdgesOf returns the edges of the given kind in declaration order.
func (r *Record) EdgesOf(kind RelationKind) []Edge {
	var out []Edge
	for _, e := range r.edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Label is the short display form: the acronym when present, else the name.
func (r *Record) Label() string {
	if r.Acronym != "" {
		return r.Acronym
	}
	return r.Name
}
