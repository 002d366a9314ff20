package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"ranfeat/internal/feature"
)

// Result is one matching feature.
type Result struct {
	Key     feature.Key     `json:"faj"`
	Name    string          `json:"name"`
	Acronym string          `json:"acronym,omitempty"`
	Score   float64         `json:"score"`
	Match   string          `json:"match,omitempty"`
	Record  *feature.Record `json:"-"`
}

// Options tunes ranking and result size.
type Options struct {
	Limit            int
	FuzzyThreshold   float64
	AcronymThreshold float64
}

// DefaultOptions mirrors the defaults of the config package.
func DefaultOptions() Options {
	return Options{Limit: 20, FuzzyThreshold: 0.4, AcronymThreshold: 0.6}
}

// Searcher runs text queries over a snapshot. It keeps folded copies of the
// searchable fields so repeated queries do not fold the data again.
type Searcher struct {
	snap   *feature.Snapshot
	opts   Options
	folded map[feature.Key]*foldedRecord
}

type foldedRecord struct {
	name     string
	acronym  string
	summary  string
	params   []string
	counters []string
	text     string
}

// New prepares a Searcher for snap.
func New(snap *feature.Snapshot, opts Options) *Searcher {
	s := &Searcher{snap: snap, opts: opts, folded: make(map[feature.Key]*foldedRecord, snap.Len())}
	for _, key := range snap.Keys() {
		rec, _ := snap.Get(key)
		f := &foldedRecord{
			name:    feature.Fold(rec.Name),
			acronym: feature.Fold(rec.Acronym),
			summary: feature.Fold(rec.Summary),
		}
		for _, p := range rec.Params {
			f.params = append(f.params, feature.Fold(p))
		}
		for _, c := range rec.Counters {
			f.counters = append(f.counters, feature.Fold(c))
		}
		f.text = strings.Join([]string{
			f.name, f.summary,
			strings.Join(f.params, " "),
			feature.Fold(strings.Join(rec.Access, " ")),
			strings.Join(f.counters, " "),
		}, " ")
		s.folded[key] = f
	}
	return s
}

func (s *Searcher) result(key feature.Key, score float64, match string) Result {
	rec, _ := s.snap.Get(key)
	return Result{Key: key, Name: rec.Name, Acronym: rec.Acronym, Score: score, Match: match, Record: rec}
}

// rank orders by score, then name, then key, and applies the limit.
func (s *Searcher) rank(results []Result) []Result {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Name != results[j].Name {
			return results[i].Name < results[j].Name
		}
		return results[i].Key < results[j].Key
	})
	if s.opts.Limit > 0 && len(results) > s.opts.Limit {
		results = results[:s.opts.Limit]
	}
	return results
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

// substringScore rewards early and proportionally long matches of q in name.
// It returns false when q is not a substring of name.
func substringScore(q, name string) (float64, bool) {
	idx := strings.Index(name, q)
	if idx < 0 || name == "" {
		return 0, false
	}
	pos := runeLen(name[:idx])
	return float64(100-pos) + float64(runeLen(q))/float64(runeLen(name))*50, true
}

// ByName matches name substrings.
func (s *Searcher) ByName(query string) []Result {
	q := feature.Fold(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []Result
	for _, key := range s.snap.Keys() {
		if score, ok := substringScore(q, s.folded[key].name); ok {
			out = append(out, s.result(key, score, ""))
		}
	}
	return s.rank(out)
}

// Fuzzy matches names tolerating typos. Substring hits rank above similarity
// hits; a single name word that is close enough also counts.
func (s *Searcher) Fuzzy(query string) []Result {
	q := feature.Fold(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	threshold := s.opts.FuzzyThreshold
	var out []Result
	for _, key := range s.snap.Keys() {
		name := s.folded[key].name
		if score, ok := substringScore(q, name); ok {
			out = append(out, s.result(key, 100+score, ""))
			continue
		}
		if sim := Similarity(q, name); sim >= threshold {
			out = append(out, s.result(key, sim*80, ""))
			continue
		}
		for _, word := range strings.Fields(name) {
			if sim := Similarity(q, word); sim >= threshold+0.1 {
				out = append(out, s.result(key, sim*60, word))
				break
			}
		}
	}
	return s.rank(out)
}

// Acronym ranks acronym matches: exact, suffix, query ending in the acronym,
// whole word of the name, then plain similarity.
func (s *Searcher) Acronym(query string) []Result {
	q := feature.Fold(strings.TrimSpace(query))
	if runeLen(q) < 2 {
		return nil
	}
	word := regexp.MustCompile(`\b` + regexp.QuoteMeta(q) + `\b`)

	var out []Result
	for _, key := range s.snap.Keys() {
		f := s.folded[key]
		if f.acronym == "" {
			continue
		}
		var score float64
		switch {
		case f.acronym == q:
			score = 100
		case strings.HasSuffix(f.acronym, q):
			score = 80
		case strings.HasSuffix(q, "-"+f.acronym):
			score = 70
		case word.MatchString(f.name):
			score = 60
		default:
			if sim := Similarity(q, f.acronym); sim >= s.opts.AcronymThreshold {
				score = sim * 50
			}
		}
		if score > 0 {
			out = append(out, s.result(key, score, ""))
		}
	}
	return s.rank(out)
}

// Keyword scores a term across name, parameters, summary and counters.
func (s *Searcher) Keyword(query string) []Result {
	q := feature.Fold(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	word := regexp.MustCompile(`\b` + regexp.QuoteMeta(q) + `\b`)

	var out []Result
	for _, key := range s.snap.Keys() {
		f := s.folded[key]
		score := 0.0
		if strings.Contains(f.name, q) {
			score += 100
			if word.MatchString(f.name) {
				score += 50
			}
		}
		for _, p := range f.params {
			if strings.Contains(p, q) {
				score += 20
			}
		}
		if strings.Contains(f.summary, q) {
			score += 30
		}
		for _, c := range f.counters {
			if strings.Contains(c, q) {
				score += 20
				break
			}
		}
		if score > 0 {
			out = append(out, s.result(key, score, ""))
		}
	}
	return s.rank(out)
}

// BooleanQuery is a parsed keyword expression.
type BooleanQuery struct {
	Op      string
	Include []string
	Exclude []string
}

var (
	andSplit = regexp.MustCompile(`(?i)\s+AND\s+`)
	orSplit  = regexp.MustCompile(`(?i)\s+OR\s+`)
	notSplit = regexp.MustCompile(`(?i)\s+NOT\s+`)
)

// ParseBoolean splits "a AND b", "a OR b" or "a NOT b NOT c". Only one
// operator kind is honoured per query, checked in that order.
func ParseBoolean(query string) BooleanQuery {
	query = strings.TrimSpace(query)
	switch {
	case andSplit.MatchString(query):
		return BooleanQuery{Op: "AND", Include: trimAll(andSplit.Split(query, -1))}
	case orSplit.MatchString(query):
		return BooleanQuery{Op: "OR", Include: trimAll(orSplit.Split(query, -1))}
	case notSplit.MatchString(query):
		parts := trimAll(notSplit.Split(query, -1))
		if len(parts) > 0 {
			return BooleanQuery{Op: "NOT", Include: parts[:1], Exclude: parts[1:]}
		}
	}
	return BooleanQuery{Op: "SINGLE", Include: []string{feature.Fold(query)}}
}

func trimAll(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, feature.Fold(p))
		}
	}
	return out
}

// Boolean evaluates a boolean keyword query over name, summary, parameters,
// access types and counters. Terms found in the name weigh more.
func (s *Searcher) Boolean(query string) []Result {
	bq := ParseBoolean(query)
	if len(bq.Include) == 0 || bq.Include[0] == "" {
		return nil
	}

	var out []Result
	for _, key := range s.snap.Keys() {
		f := s.folded[key]
		in := func(term string) bool { return strings.Contains(f.text, term) }

		var match bool
		switch bq.Op {
		case "AND":
			match = allOf(bq.Include, in)
		case "OR":
			match = anyOf(bq.Include, in)
		case "NOT":
			match = in(bq.Include[0]) && !anyOf(bq.Exclude, in)
		default:
			match = in(bq.Include[0])
		}
		if !match {
			continue
		}

		score := 0.0
		for _, term := range bq.Include {
			switch {
			case strings.Contains(f.name, term):
				score += 100
			case in(term):
				score += 30
			}
		}
		out = append(out, s.result(key, score, ""))
	}
	return s.rank(out)
}

func allOf(terms []string, pred func(string) bool) bool {
	for _, t := range terms {
		if !pred(t) {
			return false
		}
	}
	return true
}

func anyOf(terms []string, pred func(string) bool) bool {
	for _, t := range terms {
		if pred(t) {
			return true
		}
	}
	return false
}

// ByParam finds features declaring a parameter whose name contains the
// query. Exact names rank first, then prefixes.
func (s *Searcher) ByParam(query string) []Result {
	return s.byList(query, func(f *foldedRecord) []string { return f.params },
		func(rec *feature.Record) []string { return rec.Params })
}

// ByCounter finds features by PM counter. Queries containing * or ? are
// glob patterns; otherwise exact, prefix and substring matches are ranked.
// A counter matches on its full "MOClass.pmName" form or on the bare name.
func (s *Searcher) ByCounter(query string) []Result {
	return s.byList(query, func(f *foldedRecord) []string { return f.counters },
		func(rec *feature.Record) []string { return rec.Counters })
}

func (s *Searcher) byList(query string, folded func(*foldedRecord) []string, raw func(*feature.Record) []string) []Result {
	q := feature.Fold(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	glob := strings.ContainsAny(q, "*?")

	var out []Result
	for _, key := range s.snap.Keys() {
		rec, _ := s.snap.Get(key)
		best, match := 0.0, ""
		for i, item := range folded(s.folded[key]) {
			score := listScore(q, item, glob)
			if score > best {
				best, match = score, raw(rec)[i]
			}
		}
		if best > 0 {
			out = append(out, s.result(key, best, match))
		}
	}
	return s.rank(out)
}

func listScore(q, item string, glob bool) float64 {
	short := item
	if i := strings.LastIndex(item, "."); i >= 0 {
		short = item[i+1:]
	}
	if glob {
		if ok, _ := doublestar.Match(q, item); ok {
			return 80
		}
		if ok, _ := doublestar.Match(q, short); ok {
			return 80
		}
		return 0
	}
	switch {
	case q == short:
		return 100
	case strings.HasPrefix(short, q):
		return 90
	case q == item:
		return 85
	case strings.HasPrefix(item, q):
		return 75
	case strings.Contains(item, q):
		return 60
	}
	return 0
}

// ByMOClass finds features touching a managed object class.
func (s *Searcher) ByMOClass(query string) []Result {
	q := feature.Fold(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []Result
	for _, key := range s.snap.Keys() {
		rec, _ := s.snap.Get(key)
		for _, mo := range rec.MOClasses {
			fmo := feature.Fold(mo)
			if fmo == q {
				out = append(out, s.result(key, 100, mo))
				break
			}
			if strings.Contains(fmo, q) {
				out = append(out, s.result(key, 60, mo))
				break
			}
		}
	}
	return s.rank(out)
}

// ByAccess filters features by radio access type (LTE, NR, WCDMA, GSM).
func (s *Searcher) ByAccess(access string) []Result {
	q := feature.Fold(strings.TrimSpace(access))
	var out []Result
	for _, key := range s.snap.Keys() {
		rec, _ := s.snap.Get(key)
		for _, a := range rec.Access {
			if feature.Fold(a) == q {
				out = append(out, s.result(key, 0, a))
				break
			}
		}
	}
	return s.rank(out)
}

// ByCXC looks up the activation code. An exact code returns that feature
// only; otherwise every code containing the query matches.
func (s *Searcher) ByCXC(query string) []Result {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var partial []Result
	for _, key := range s.snap.Keys() {
		rec, _ := s.snap.Get(key)
		cxc := strings.ToUpper(rec.CXC)
		if cxc == "" {
			continue
		}
		if cxc == q {
			return []Result{s.result(key, 100, rec.CXC)}
		}
		if strings.Contains(cxc, q) {
			partial = append(partial, s.result(key, 50, rec.CXC))
		}
	}
	return s.rank(partial)
}

// ByRelease finds features changed in a release range such as
// ">= 23.Q2, < 24.Q1" or "24". Expressions that are not valid ranges fall
// back to substring matching on the tags. Newer releases rank first.
func (s *Searcher) ByRelease(expr string) []Result {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil
	}
	rng, err := feature.ParseReleaseRange(expr)
	needle := strings.ToUpper(strings.ReplaceAll(expr, " ", ""))

	var out []Result
	for _, key := range s.snap.Keys() {
		rec, _ := s.snap.Get(key)
		var hits []string
		for _, tag := range rec.Releases {
			if (err == nil && rng.Contains(tag)) || (err != nil && strings.Contains(strings.ToUpper(tag), needle)) {
				hits = append(hits, tag)
			}
		}
		if len(hits) == 0 {
			continue
		}
		latest := feature.SortReleases(hits)[0]
		score := 0.0
		if v, perr := feature.ParseRelease(latest); perr == nil {
			score = float64(v.Major()*100 + v.Minor()*10 + v.Patch())
		}
		out = append(out, s.result(key, score, latest))
	}
	return s.rank(out)
}
