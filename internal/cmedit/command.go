package cmedit

import (
	"fmt"
	"strings"

	"ranfeat/internal/feature"
)

const (
	// DefaultSite is the scope placeholder used when no site is configured.
	DefaultSite = "<SITE_NAME>"
	// ValuePlaceholder stands for a value the operator has to fill in.
	ValuePlaceholder = "<value>"

	featureStateClass = "FeatureState"
)

// Operation is the cmedit verb of a command.
type Operation string

const (
	OpGet    Operation = "get"
	OpSet    Operation = "set"
	OpAction Operation = "action"
)

// Scope selects the nodes a command applies to: a single site or a named
// collection. A collection wins over a site.
type Scope struct {
	Site       string
	Collection string
}

// IsCollection reports whether the scope addresses a collection.
func (s Scope) IsCollection() bool {
	return s.Collection != ""
}

// String renders the scope as it appears in a command line.
func (s Scope) String() string {
	if s.IsCollection() {
		return "-co " + s.Collection
	}
	if s.Site == "" {
		return DefaultSite
	}
	return s.Site
}

// Command is a single cmedit command line.
type Command struct {
	Operation   Operation `json:"operation"`
	Scope       string    `json:"scope"`
	MOClass     string    `json:"mo_class"`
	Attribute   string    `json:"attribute"`
	Value       string    `json:"value,omitempty"`
	Raw         string    `json:"raw"`
	Description string    `json:"description"`
	Attributes  []string  `json:"attributes,omitempty"`
}

// AttributeCount is the number of attributes the command touches.
func (c Command) AttributeCount() int {
	if len(c.Attributes) == 0 {
		return 1
	}
	return len(c.Attributes)
}

// ForScript rewrites the site scope to the $SITE shell variable. Collection
// scoped commands are returned unchanged.
func (c Command) ForScript() string {
	if strings.HasPrefix(c.Scope, "-co ") {
		return c.Raw
	}
	return strings.Replace(c.Raw, " "+c.Scope+" ", " $SITE ", 1)
}

// FeatureInfo identifies the feature a command set was generated for.
type FeatureInfo struct {
	Key     feature.Key `json:"key"`
	Name    string      `json:"name"`
	Acronym string      `json:"acronym,omitempty"`
	FAJ     string      `json:"faj"`
	CXC     string      `json:"cxc,omitempty"`
}

// CommandSet holds every command generated for one feature. Activation,
// deactivation and the state check need a CXC code and are nil without one.
type CommandSet struct {
	Feature    FeatureInfo `json:"feature"`
	Get        []Command   `json:"get"`
	GetAll     []Command   `json:"get_all"`
	Set        []Command   `json:"set"`
	Activate   *Command    `json:"activate"`
	Deactivate *Command    `json:"deactivate"`
	CheckState *Command    `json:"check_state"`
}

type moGroup struct {
	moClass    string
	attributes []string
	types      map[string]string
}

// Generator builds cmedit commands for features.
type Generator struct {
	scope Scope
}

// NewGenerator creates a Generator for scope.
func NewGenerator(scope Scope) *Generator {
	return &Generator{scope: scope}
}

// Scope returns the scope commands are generated for.
func (g *Generator) Scope() Scope {
	return g.scope
}

// Commands generates the full command set for rec.
func (g *Generator) Commands(key feature.Key, rec *feature.Record) *CommandSet {
	return &CommandSet{
		Feature: FeatureInfo{
			Key:     key,
			Name:    rec.Name,
			Acronym: rec.Acronym,
			FAJ:     rec.FAJ,
			CXC:     rec.CXC,
		},
		Get:        g.getCommands(rec),
		GetAll:     g.getAllCommands(rec),
		Set:        g.setCommands(rec),
		Activate:   g.stateCommand(rec, "ACTIVATED", "Activate "+rec.Name),
		Deactivate: g.stateCommand(rec, "DEACTIVATED", "Deactivate "+rec.Name),
		CheckState: g.checkState(rec),
	}
}

// groupParams groups MOClass.attribute parameters by class in order of
// first appearance. writableOnly keeps Introduced and Affecting parameters.
func groupParams(rec *feature.Record, writableOnly bool) []*moGroup {
	var groups []*moGroup
	byClass := make(map[string]*moGroup)
	for _, p := range rec.ParamDetails {
		parts := strings.Split(p.Name, ".")
		if len(parts) != 2 {
			continue
		}
		if writableOnly && p.Type != "Introduced" && p.Type != "Affecting" {
			continue
		}
		class, attr := parts[0], parts[1]
		grp, ok := byClass[class]
		if !ok {
			grp = &moGroup{moClass: class, types: make(map[string]string)}
			byClass[class] = grp
			groups = append(groups, grp)
		}
		if _, seen := grp.types[attr]; !seen {
			grp.attributes = append(grp.attributes, attr)
			grp.types[attr] = p.Type
		}
	}
	return groups
}

func (g *Generator) getCommands(rec *feature.Record) []Command {
	scope := g.scope.String()
	var out []Command
	for _, grp := range groupParams(rec, false) {
		cmd := Command{
			Operation:  OpGet,
			Scope:      scope,
			MOClass:    grp.moClass,
			Attribute:  strings.Join(grp.attributes, ","),
			Attributes: grp.attributes,
		}
		if len(grp.attributes) == 1 {
			attr := grp.attributes[0]
			cmd.Raw = fmt.Sprintf("cmedit get %s %s.%s", scope, grp.moClass, attr)
			cmd.Description = fmt.Sprintf("Read %s (%s)", attr, grp.types[attr])
		} else {
			cmd.Raw = fmt.Sprintf("cmedit get %s %s.(%s)", scope, grp.moClass, cmd.Attribute)
			cmd.Description = fmt.Sprintf("Read %d params from %s", len(grp.attributes), grp.moClass)
		}
		out = append(out, cmd)
	}
	return out
}

func (g *Generator) getAllCommands(rec *feature.Record) []Command {
	scope := g.scope.String()
	var out []Command
	seen := make(map[string]bool)
	for _, class := range rec.MOClasses {
		if seen[class] || class == featureStateClass {
			continue
		}
		seen[class] = true
		out = append(out, Command{
			Operation:   OpGet,
			Scope:       scope,
			MOClass:     class,
			Attribute:   "*",
			Raw:         fmt.Sprintf("cmedit get %s %s.*", scope, class),
			Description: fmt.Sprintf("Read all %s attributes", class),
		})
	}
	return out
}

func (g *Generator) setCommands(rec *feature.Record) []Command {
	scope := g.scope.String()
	var out []Command
	for _, grp := range groupParams(rec, true) {
		assignments := make([]string, len(grp.attributes))
		for i, attr := range grp.attributes {
			assignments[i] = attr + "=" + ValuePlaceholder
		}
		cmd := Command{
			Operation:  OpSet,
			Scope:      scope,
			MOClass:    grp.moClass,
			Attribute:  strings.Join(grp.attributes, ","),
			Value:      ValuePlaceholder,
			Raw:        fmt.Sprintf("cmedit set %s %s %s", scope, grp.moClass, strings.Join(assignments, ",")),
			Attributes: grp.attributes,
		}
		if len(grp.attributes) == 1 {
			cmd.Description = "Set " + grp.attributes[0]
		} else {
			cmd.Description = fmt.Sprintf("Set %d params on %s", len(grp.attributes), grp.moClass)
		}
		out = append(out, cmd)
	}
	return out
}

func (g *Generator) stateCommand(rec *feature.Record, state, description string) *Command {
	if rec.CXC == "" {
		return nil
	}
	scope := g.scope.String()
	return &Command{
		Operation:   OpAction,
		Scope:       scope,
		MOClass:     featureStateClass,
		Attribute:   "featureState",
		Value:       state,
		Raw:         fmt.Sprintf("cmedit set %s FeatureState=%s featureState=%s", scope, rec.CXC, state),
		Description: description,
	}
}

func (g *Generator) checkState(rec *feature.Record) *Command {
	if rec.CXC == "" {
		return nil
	}
	scope := g.scope.String()
	return &Command{
		Operation:   OpGet,
		Scope:       scope,
		MOClass:     featureStateClass,
		Attribute:   "featureState,licenseState,serviceState",
		Raw:         fmt.Sprintf("cmedit get %s FeatureState=%s featureState,licenseState,serviceState", scope, rec.CXC),
		Description: "Check feature state and license",
	}
}
