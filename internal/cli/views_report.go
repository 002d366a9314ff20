package cli

import (
	"fmt"
	"strconv"
	"strings"

	"ranfeat/internal/extract"
	"ranfeat/internal/feature"
	"ranfeat/internal/formatting"
	"ranfeat/internal/report"
	"ranfeat/internal/search"
)

// SearchDocument renders ranked search results.
func SearchDocument(query string, results []search.Result) *formatting.Document {
	if results == nil {
		results = []search.Result{}
	}
	doc := formatting.NewDocument(results)
	s := doc.Table(fmt.Sprintf("Results for %q", query), "score", "faj", "name", "acronym", "match").
		Wide(4).
		WhenEmpty("No features found")
	for _, r := range results {
		s.AddRow(strconv.FormatFloat(r.Score, 'f', 1, 64), string(r.Key), r.Name, dash(r.Acronym), dash(r.Match))
	}
	if len(results) > 0 {
		s.Note(fmt.Sprintf("%d result(s)", len(results)))
	}
	return doc
}

// CompareDocument renders a side-by-side comparison and the overlap of
// prerequisites and parameters.
func CompareDocument(c *report.Comparison) *formatting.Document {
	doc := formatting.NewDocument(c)
	rows := c.Rows()
	s := doc.Table("Comparison", rows[0]...)
	for _, r := range rows[1:] {
		s.AddRow(r...)
	}
	for _, p := range c.Conflicts {
		s.Note(FormatWarning(fmt.Sprintf("%s conflicts with %s", p.AName, p.BName)))
	}
	if len(c.Unresolved) > 0 {
		s.Note(FormatWarning("Not found: " + strings.Join(c.Unresolved, ", ")))
	}

	o := doc.Table("Overlap", "aspect", "feature", "items")
	o.AddRow("shared prerequisites", "all", dash(joinKeys(c.SharedPrerequisites)))
	for _, f := range c.Features {
		if keys := c.UniquePrerequisites[f.Key]; len(keys) > 0 {
			o.AddRow("unique prerequisites", f.Label, joinKeys(keys))
		}
	}
	o.AddRow("shared parameters", "all", dash(strings.Join(c.SharedParameters, ", ")))
	for _, f := range c.Features {
		if params := c.UniqueParameters[f.Key]; len(params) > 0 {
			o.AddRow("unique parameters", f.Label, strings.Join(params, ", "))
		}
	}
	return doc
}

// AuditOptions selects the audit sections shown in text output.
type AuditOptions struct {
	Gaps    bool
	Orphans bool
}

// AuditDocument renders a data-quality audit. Without section flags the
// overview, distributions and rankings are shown.
func AuditDocument(a *report.Audit, opts AuditOptions) *formatting.Document {
	doc := formatting.NewDocument(a)
	overview := !opts.Gaps && !opts.Orphans

	if overview {
		s := doc.Table(fmt.Sprintf("Audit of %d features", a.Total), "check", "features", "share")
		for _, name := range report.GapNames {
			s.AddRow(name, strconv.Itoa(a.GapCount(name)), percent(a.GapCount(name), a.Total))
		}
		s.AddRow("orphans", strconv.Itoa(len(a.Orphans)), percent(len(a.Orphans), a.Total))
		s.AddRow("dangling references", strconv.Itoa(len(a.Dangling)), "-")
		s.AddRow("cycles", strconv.Itoa(len(a.Cycles)), "-")
		s.AddRow("skipped entries", strconv.Itoa(len(a.SkippedEntries)), "-")

		d := doc.Table("Distributions", "metric", "total", "avg", "max", "features with any")
		for _, m := range []struct {
			name string
			d    report.Distribution
		}{{"parameters", a.Parameters}, {"counters", a.Counters}, {"dependencies", a.Dependencies}} {
			d.AddRow(m.name, strconv.Itoa(m.d.Total), strconv.FormatFloat(m.d.Average, 'f', 1, 64),
				strconv.Itoa(m.d.Max), strconv.Itoa(m.d.WithNonZero))
		}

		acc := doc.Table("Access types", "access", "features")
		for _, c := range a.Access {
			acc.AddRow(c.Label, strconv.Itoa(c.Count))
		}
		lic := doc.Table("Licensing", "license", "features")
		for _, c := range a.License {
			lic.AddRow(c.Label, strconv.Itoa(c.Count))
		}

		top := doc.Table("Top features by parameters", "faj", "feature", "params")
		for _, r := range a.TopByParams {
			top.AddRow(string(r.Key), r.Label, strconv.Itoa(r.Value))
		}
	}

	if opts.Gaps {
		s := doc.Table("Data-quality gaps", "check", "count", "features").Wide(2)
		for _, name := range report.GapNames {
			s.AddRow(name, strconv.Itoa(a.GapCount(name)), dash(joinKeys(a.Gaps[name])))
		}
	}
	if opts.Orphans {
		s := doc.Table("Orphans", "faj").WhenEmpty("No orphan features")
		for _, k := range a.Orphans {
			s.AddRow(string(k))
		}
	}
	return doc
}

func percent(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}

// BuildDocument summarises an index build.
func BuildDocument(r *extract.Result, outDir string) *formatting.Document {
	doc := formatting.NewDocument(r)
	s := doc.Table("Index build", "metric", "value")
	s.AddRow("documents", strconv.Itoa(r.Documents))
	s.AddRow("features", strconv.Itoa(r.Features))
	s.AddRow("skipped", strconv.Itoa(len(r.Skipped)))
	s.AddRow("duplicates", strconv.Itoa(len(r.Duplicates)))
	if r.Graph != nil {
		st := r.Graph.Stats()
		s.AddRow("prerequisite edges", strconv.Itoa(st.Prerequisites))
		s.AddRow("conflict edges", strconv.Itoa(st.Conflicts))
		s.AddRow("dangling nodes", strconv.Itoa(st.Dangling))
	}
	if outDir != "" {
		s.Note(FormatSuccess(fmt.Sprintf("Wrote %d file(s) to %s", len(r.Files), outDir)))
	}
	for _, d := range r.Duplicates {
		s.Note(FormatWarning("Duplicate feature in " + d))
	}
	return doc
}

// FeatureDocument renders the stored record of one feature.
func FeatureDocument(key feature.Key, rec *feature.Record) *formatting.Document {
	doc := formatting.NewDocument(rec)
	s := doc.Table(rec.Name, "field", "value")
	s.AddRow("faj", string(key))
	s.AddRow("acronym", dash(rec.Acronym))
	s.AddRow("cxc", dash(rec.CXC))
	s.AddRow("access", dash(strings.Join(rec.Access, ", ")))
	s.AddRow("license", strconv.FormatBool(rec.License))
	s.AddRow("params", strconv.Itoa(len(rec.Params)))
	s.AddRow("counters", strconv.Itoa(len(rec.Counters)))
	s.AddRow("latest release", dash(firstNonEmpty(rec.LatestRelease, feature.LatestRelease(rec.Releases))))
	if rec.Summary != "" {
		s.Note(rec.Summary)
	}
	return doc
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
