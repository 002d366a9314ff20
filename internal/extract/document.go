package extract

import (
	"bufio"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"ranfeat/internal/feature"
	pkgstrings "ranfeat/pkg/strings"
)

const (
	maxSummaryLen     = 500
	maxDescriptionLen = 200
)

var (
	sectionBreakRe = regexp.MustCompile(`# \d+ `)
	appendixRe     = regexp.MustCompile(`# Appendix`)

	titleContentsRe = regexp.MustCompile(`(?m)^# \s*\n\n([^\n]+)\n\nContents`)
	titleOverviewRe = regexp.MustCompile(`(?m)^# \d+ ([^\n]+) Overview`)
	fajRe           = regexp.MustCompile(`\|\s*Feature Identity:?\s*\|\s*(FAJ\s+\d+\s+\d+)`)
	cxcRe           = regexp.MustCompile(`FeatureState[=:]?\s*(CXC\d+)`)
	accessRe        = regexp.MustCompile(`\|\s*Access Type:?\s*\|\s*([^|]+)\|`)
	accessSplitRe   = regexp.MustCompile(`[,/]`)
	licensingRe     = regexp.MustCompile(`\|\s*Licensing:?\s*\|\s*([^|]+)\|`)
	vpNameRe        = regexp.MustCompile(`\|\s*Value Package\s+Name:?\s*\|\s*([^|]+)\|`)
	vpIdentityRe    = regexp.MustCompile(`\|\s*Value Package\s+Identity:?\s*\|\s*(FAJ\s+\d+\s+\d+)`)

	dependenciesRe = regexp.MustCompile(`# \d+ Dependencies`)
	dependencyRow  = regexp.MustCompile(`\|\s*([^|]+)\(FAJ\s+(\d+)\s+(\d+)\)[^|]*\|\s*(Prerequisite|Related|Conflicting)\s*\|`)

	parametersRe     = regexp.MustCompile(`# \d+ Parameters`)
	parameterRow     = regexp.MustCompile(`\|\s*([A-Za-z][A-Za-z0-9]*\.[a-zA-Z][a-zA-Z0-9]*)\s*\|\s*(Introduced|Affecting|Affected)\s*\|\s*([^|]+)\|`)
	parameterRowBare = regexp.MustCompile(`\|\s*([A-Za-z][A-Za-z0-9]*\.[a-zA-Z][a-zA-Z0-9]*)\s*\|\s*(Introduced|Affecting|Affected)\s*\|`)
	inlineParamRe    = regexp.MustCompile(`\b([A-Z][a-zA-Z0-9]+)\.([a-z][a-zA-Z0-9]+)\b`)

	performanceRe = regexp.MustCompile(`# \d+ Performance`)
	counterRe     = regexp.MustCompile(`([A-Za-z]+\.pm[A-Za-z0-9]+)`)
	kpiTableRe    = regexp.MustCompile(`Table \d+\s+Key Performance Indicators`)
	eventRe       = regexp.MustCompile(`(INTERNAL_EVENT_[A-Z_]+|EVENT_PARAM_[A-Z_]+)`)

	activateRe   = regexp.MustCompile(`# \d+ Activat(?:e|ing)[^\n]*\n`)
	deactivateRe = regexp.MustCompile(`# \d+ Deactivat(?:e|ing)[^\n]*\n`)
	prereqHeadRe = regexp.MustCompile(`Prerequisites\s*\n\n`)
	stepsHeadRe  = regexp.MustCompile(`Steps\s*\n\n`)
	afterHeadRe  = regexp.MustCompile(`After This Task\s*\n\n`)
	numberedRe   = regexp.MustCompile(`^\s*\d+\.\s+(.*)$`)
	bulletRe     = regexp.MustCompile(`^\s*[-*]\s+(.*)$`)

	historyRe      = regexp.MustCompile(`# Appendix[^:\n]*: Feature Change History`)
	historyEntryRe = regexp.MustCompile(`## Appendix [A-Za-z]\.[a-z]+:\s*(\d{2}\.Q\d(?:\.\d)?):?\s*([^\n]+)`)

	moSuffixRe    = regexp.MustCompile(`\b([A-Z][a-zA-Z0-9]+(?:Function|Relation|Cell|Profile|Config|Data|Carrier|Bearer|Qci))[.\s]`)
	moSpecificRes = []*regexp.Regexp{
		regexp.MustCompile(`\b(EUtranCell(?:FDD|TDD))\b`),
		regexp.MustCompile(`\b(NRCell(?:DU|CU))\b`),
		regexp.MustCompile(`\b(GNBCUCPFunction)\b`),
		regexp.MustCompile(`\b(ENodeBFunction)\b`),
		regexp.MustCompile(`\b(LoadBalancingFunction)\b`),
		regexp.MustCompile(`\b(FeatureState)\b`),
		regexp.MustCompile(`\b(EUtranCellRelation)\b`),
		regexp.MustCompile(`\b(EUtranFreqRelation)\b`),
		regexp.MustCompile(`\b(NRSectorCarrier)\b`),
		regexp.MustCompile(`\b(QciProfile(?:Predefined|OperatorDefined)?)\b`),
		regexp.MustCompile(`\b(ReportConfig[A-Za-z]+)\b`),
	}

	summaryHeadRe   = regexp.MustCompile(`Summary\s*\n\n`)
	overviewParaRe  = regexp.MustCompile(`# \d+ [^\n]+ Overview\s*\n\n([^\n|#]+)`)
	faultyAttrNames = map[string]bool{"md": true, "html": true, "png": true, "jpg": true, "pdf": true, "xml": true, "json": true}
)

// FrontMatter is the optional YAML header of a feature document.
type FrontMatter struct {
	Acronym         string  `yaml:"acronym"`
	Title           string  `yaml:"title"`
	ComplexityScore float64 `yaml:"complexity_score"`
	QualityScore    float64 `yaml:"quality_score"`
	TablesExtracted int     `yaml:"tables_extracted"`
	ImagesExtracted int     `yaml:"images_extracted"`
	SourceFile      string  `yaml:"source_file"`
}

// ParseFrontMatter decodes a leading "---" delimited YAML block. It returns
// nil when the document has none or the block does not decode.
func ParseFrontMatter(content string) *FrontMatter {
	if !strings.HasPrefix(content, "---") {
		return nil
	}
	end := strings.Index(content[3:], "---")
	if end < 0 {
		return nil
	}
	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(strings.TrimSpace(content[3:3+end])), &fm); err != nil {
		return nil
	}
	return &fm
}

// ParseDocument extracts a feature record from one markdown document. rel
// is stored as the record's file. It returns false when the document lacks
// a feature name or FAJ identity.
func ParseDocument(rel, content string) (*feature.Record, bool) {
	fm := ParseFrontMatter(content)

	name := FeatureName(content)
	if name == "" && fm != nil {
		name = strings.TrimSpace(fm.Title)
	}
	faj := firstGroup(fajRe, content)
	if name == "" || faj == "" {
		return nil, false
	}
	faj = strings.Join(strings.Fields(faj), " ")

	rec := &feature.Record{
		Name:    name,
		Summary: Summary(content),
		FAJ:     faj,
		CXC:     firstGroup(cxcRe, content),
		Access:  AccessTypes(content),
		License: strings.Contains(strings.ToLower(firstGroup(licensingRe, content)), "license-controlled"),
		File:    rel,
	}

	if vpName := firstGroup(vpNameRe, content); vpName != "" {
		rec.ValuePackage = &feature.ValuePackage{
			Name: vpName,
			FAJ:  strings.Join(strings.Fields(firstGroup(vpIdentityRe, content)), " "),
		}
	}

	if fm != nil {
		rec.Metadata = &feature.Metadata{
			ComplexityScore: fm.ComplexityScore,
			QualityScore:    fm.QualityScore,
			TablesExtracted: fm.TablesExtracted,
			ImagesExtracted: fm.ImagesExtracted,
			SourceFile:      fm.SourceFile,
		}
	}
	if fm != nil && strings.TrimSpace(fm.Acronym) != "" {
		rec.Acronym = strings.TrimSpace(fm.Acronym)
	} else {
		rec.Acronym = GenerateAcronym(name)
	}

	rec.Deps = Dependencies(content)
	rec.ParamDetails = Parameters(content)
	for _, p := range rec.ParamDetails {
		rec.Params = append(rec.Params, p.Name)
	}

	perf := section(content, performanceRe, false)
	rec.Counters = Counters(perf)
	rec.KPIs = kpis(perf)
	rec.Events = events(perf)

	rec.MOClasses = MOClasses(content)
	rec.Activation = activation(section(content, activateRe, false))
	if d := activation(section(content, deactivateRe, true)); d != nil && len(d.Steps) > 0 {
		rec.Deactivation = &feature.Deactivation{Steps: d.Steps}
	}

	rec.ChangeHistory = ChangeHistory(content)
	for _, ch := range rec.ChangeHistory {
		rec.Releases = append(rec.Releases, ch.Release)
	}
	if len(rec.ChangeHistory) > 0 {
		rec.LatestRelease = rec.ChangeHistory[0].Release
	}
	return rec, true
}

// FeatureName reads the document title. The "# \n\nName\n\nContents" form
// wins over the "# N Name Overview" heading.
func FeatureName(content string) string {
	if name := firstGroup(titleContentsRe, content); name != "" {
		return name
	}
	return firstGroup(titleOverviewRe, content)
}

// AccessTypes splits the Access Type cell on commas and slashes.
func AccessTypes(content string) []string {
	cell := firstGroup(accessRe, content)
	if cell == "" {
		return nil
	}
	var out []string
	for _, t := range accessSplitRe.Split(cell, -1) {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Dependencies reads the rows of the Dependencies table.
func Dependencies(content string) []feature.Dependency {
	text := section(content, dependenciesRe, false)
	if text == "" {
		return nil
	}
	var deps []feature.Dependency
	for _, m := range dependencyRow.FindAllStringSubmatch(text, -1) {
		deps = append(deps, feature.Dependency{
			Name: strings.TrimSpace(m[1]),
			FAJ:  "FAJ " + m[2] + " " + m[3],
			Type: m[4],
		})
	}
	return deps
}

// Parameters reads the Parameters table and adds MOClass.attribute
// references found anywhere in the document. Table rows take precedence.
func Parameters(content string) []feature.ParamDetail {
	var params []feature.ParamDetail
	if text := section(content, parametersRe, false); text != "" {
		for _, m := range parameterRow.FindAllStringSubmatch(text, -1) {
			params = append(params, feature.ParamDetail{
				Name:        m[1],
				Type:        m[2],
				Description: pkgstrings.TruncateSummary(m[3], maxDescriptionLen),
			})
		}
		if len(params) == 0 {
			for _, m := range parameterRowBare.FindAllStringSubmatch(text, -1) {
				params = append(params, feature.ParamDetail{Name: m[1], Type: m[2], Description: "-"})
			}
		}
	}

	seen := make(map[string]bool, len(params))
	for _, p := range params {
		seen[p.Name] = true
	}
	for _, m := range inlineParamRe.FindAllStringSubmatch(content, -1) {
		attr := m[2]
		if faultyAttrNames[attr] || len(attr) < 3 {
			continue
		}
		full := m[1] + "." + attr
		if seen[full] {
			continue
		}
		seen[full] = true
		params = append(params, feature.ParamDetail{
			Name:        full,
			Type:        "Referenced",
			Description: "Referenced in feature documentation",
		})
	}
	return params
}

// Counters returns the distinct PM counters named in a Performance section,
// sorted.
func Counters(perf string) []string {
	return distinctSorted(counterRe.FindAllString(perf, -1))
}

func kpis(perf string) []string {
	loc := kpiTableRe.FindStringIndex(perf)
	if loc == nil {
		return nil
	}
	var out []string
	inTable := false
	sc := bufio.NewScanner(strings.NewReader(perf[loc[1]:]))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "|") {
			if inTable {
				break
			}
			continue
		}
		inTable = true
		cells := strings.Split(strings.Trim(line, "|"), "|")
		name := strings.TrimSpace(cells[0])
		if name == "" || strings.HasPrefix(name, "-") || strings.EqualFold(name, "kpi") {
			continue
		}
		out = append(out, name)
	}
	return out
}

func events(perf string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range eventRe.FindAllString(perf, -1) {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

// MOClasses returns every managed object class the document mentions,
// sorted.
func MOClasses(content string) []string {
	var found []string
	for _, m := range moSuffixRe.FindAllStringSubmatch(content, -1) {
		found = append(found, m[1])
	}
	for _, re := range moSpecificRes {
		found = append(found, re.FindAllString(content, -1)...)
	}
	return distinctSorted(found)
}

// Summary reads the paragraph(s) after "Summary" up to the next table,
// heading or "Additional Information" block, falling back to the first
// paragraph of the Overview section.
func Summary(content string) string {
	if loc := summaryHeadRe.FindStringIndex(content); loc != nil {
		var paras []string
		for _, p := range strings.Split(content[loc[1]:], "\n\n") {
			t := strings.TrimSpace(p)
			if strings.HasPrefix(t, "Additional Information") || strings.HasPrefix(t, "#") || strings.HasPrefix(t, "|") {
				if len(paras) > 0 {
					return pkgstrings.TruncateSummary(strings.Join(paras, " "), maxSummaryLen)
				}
				break
			}
			paras = append(paras, p)
		}
	}
	if s := firstGroup(overviewParaRe, content); s != "" {
		return pkgstrings.TruncateSummary(s, maxSummaryLen)
	}
	return ""
}

func activation(text string) *feature.Activation {
	if text == "" {
		return nil
	}
	act := &feature.Activation{}

	if loc := prereqHeadRe.FindStringIndex(text); loc != nil {
		block := untilParagraph(text[loc[1]:], func(p string) bool {
			return strings.HasPrefix(p, "Steps") || numberedRe.MatchString(firstLine(p))
		})
		act.Prerequisites = listItems(block, bulletRe)
		if len(act.Prerequisites) == 0 && strings.TrimSpace(block) != "" {
			act.Prerequisites = []string{pkgstrings.OneLine(block)}
		}
	}
	if loc := stepsHeadRe.FindStringIndex(text); loc != nil {
		block := untilParagraph(text[loc[1]:], func(p string) bool {
			return strings.HasPrefix(p, "After This Task")
		})
		act.Steps = listItems(block, numberedRe)
	}
	if loc := afterHeadRe.FindStringIndex(text); loc != nil {
		block := untilParagraph(text[loc[1]:], func(p string) bool {
			return strings.HasPrefix(p, "#")
		})
		act.AfterTask = pkgstrings.OneLine(block)
	}

	if len(act.Prerequisites) == 0 && len(act.Steps) == 0 && act.AfterTask == "" {
		return nil
	}
	return act
}

// ChangeHistory reads the "Feature Change History" appendix in document
// order. Release tags look like 23.Q4 or 24.Q1.0.
func ChangeHistory(content string) []feature.ChangeEntry {
	loc := historyRe.FindStringIndex(content)
	if loc == nil {
		return nil
	}
	var out []feature.ChangeEntry
	for _, m := range historyEntryRe.FindAllStringSubmatch(content[loc[1]:], -1) {
		out = append(out, feature.ChangeEntry{Release: m[1], Title: strings.TrimSpace(m[2])})
	}
	return out
}

// section returns the text from the heading matched by head up to the next
// numbered top-level heading. stopAtAppendix also ends it at "# Appendix".
func section(content string, head *regexp.Regexp, stopAtAppendix bool) string {
	loc := head.FindStringIndex(content)
	if loc == nil {
		return ""
	}
	rest := content[loc[1]:]
	end := len(rest)
	if next := sectionBreakRe.FindStringIndex(rest); next != nil {
		end = next[0]
	}
	if stopAtAppendix {
		if next := appendixRe.FindStringIndex(rest); next != nil && next[0] < end {
			end = next[0]
		}
	}
	return content[loc[0] : loc[1]+end]
}

// untilParagraph returns the paragraphs of text preceding the first one for
// which stop reports true.
func untilParagraph(text string, stop func(string) bool) string {
	paras := strings.Split(text, "\n\n")
	for i, p := range paras {
		if i > 0 && stop(strings.TrimSpace(p)) {
			return strings.Join(paras[:i], "\n\n")
		}
	}
	return text
}

// listItems collects items introduced by marker. Continuation lines are
// folded into the current item; a blank line ends it.
func listItems(block string, marker *regexp.Regexp) []string {
	var items []string
	var cur []string
	flush := func() {
		if s := pkgstrings.OneLine(strings.Join(cur, " ")); s != "" {
			items = append(items, s)
		}
		cur = nil
	}
	sc := bufio.NewScanner(strings.NewReader(block))
	for sc.Scan() {
		line := sc.Text()
		if m := marker.FindStringSubmatch(line); m != nil {
			flush()
			cur = []string{m[1]}
			continue
		}
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if cur != nil {
			cur = append(cur, line)
		}
	}
	flush()
	return items
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func distinctSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	set := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !set[s] {
			set[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
