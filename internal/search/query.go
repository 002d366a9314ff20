package search

import (
	"errors"
	"fmt"
	"strings"

	"ranfeat/internal/feature"
)

// Mode selects how the free text of a Query is matched.
type Mode string

const (
	// ModeName matches name substrings and falls back to keyword matching
	// when no name contains the text.
	ModeName    Mode = "name"
	ModeFuzzy   Mode = "fuzzy"
	ModeAcronym Mode = "acronym"
	ModeBoolean Mode = "boolean"
)

// SelectMode picks the text mode from mutually exclusive switches. No
// switch means ModeName.
func SelectMode(fuzzy, acronym, boolean bool) (Mode, error) {
	mode, n := ModeName, 0
	for _, m := range []struct {
		on   bool
		mode Mode
	}{{fuzzy, ModeFuzzy}, {acronym, ModeAcronym}, {boolean, ModeBoolean}} {
		if m.on {
			mode = m.mode
			n++
		}
	}
	if n > 1 {
		return "", fmt.Errorf("choose at most one of fuzzy, acronym and boolean matching")
	}
	return mode, nil
}

// ErrEmptyQuery is returned when a Query has neither text nor filters.
var ErrEmptyQuery = errors.New("search needs text or at least one filter")

// Query combines free text with attribute filters. Every non-empty filter
// must match; the text decides the ranking.
type Query struct {
	Text    string
	Mode    Mode
	Param   string
	Counter string
	MOClass string
	Access  string
	CXC     string
	Release string
}

// String describes the query for result titles.
func (q Query) String() string {
	var parts []string
	if t := strings.TrimSpace(q.Text); t != "" {
		parts = append(parts, t)
	}
	for _, f := range []struct{ name, value string }{
		{"param", q.Param}, {"counter", q.Counter}, {"mo", q.MOClass},
		{"access", q.Access}, {"cxc", q.CXC}, {"release", q.Release},
	} {
		if v := strings.TrimSpace(f.value); v != "" {
			parts = append(parts, f.name+"="+v)
		}
	}
	return strings.Join(parts, " ")
}

func (q Query) filters(s *Searcher) []func(string) []Result {
	var fs []func(string) []Result
	add := func(value string, f func(string) []Result) {
		if strings.TrimSpace(value) != "" {
			fs = append(fs, func(string) []Result { return f(value) })
		}
	}
	add(q.Param, s.ByParam)
	add(q.Counter, s.ByCounter)
	add(q.MOClass, s.ByMOClass)
	add(q.Access, s.ByAccess)
	add(q.CXC, s.ByCXC)
	add(q.Release, s.ByRelease)
	return fs
}

// Run evaluates q. Without text, the first filter provides the ranking.
func (s *Searcher) Run(q Query) ([]Result, error) {
	unlimited := *s
	unlimited.opts.Limit = 0

	filters := q.filters(&unlimited)
	text := strings.TrimSpace(q.Text)
	if text == "" && len(filters) == 0 {
		return nil, ErrEmptyQuery
	}

	var results []Result
	if text != "" {
		results = unlimited.text(text, q.Mode)
	} else {
		results = filters[0]("")
		filters = filters[1:]
	}

	for _, f := range filters {
		allowed := make(map[feature.Key]string)
		for _, r := range f("") {
			allowed[r.Key] = r.Match
		}
		kept := results[:0]
		for _, r := range results {
			if match, ok := allowed[r.Key]; ok {
				if r.Match == "" {
					r.Match = match
				}
				kept = append(kept, r)
			}
		}
		results = kept
	}
	return s.rank(results), nil
}

func (s *Searcher) text(text string, mode Mode) []Result {
	switch mode {
	case ModeFuzzy:
		return s.Fuzzy(text)
	case ModeAcronym:
		return s.Acronym(text)
	case ModeBoolean:
		return s.Boolean(text)
	default:
		if results := s.ByName(text); len(results) > 0 {
			return results
		}
		return s.Keyword(text)
	}
}
