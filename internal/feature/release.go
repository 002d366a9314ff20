package feature

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var releasePattern = regexp.MustCompile(`^(\d{2})\.Q(\d)(?:\.(\d+))?$`)

// ParseRelease converts a release tag such as "23.Q4" or "24.Q1.2" into a
// comparable version (23.4.0, 24.1.2).
func ParseRelease(tag string) (*semver.Version, error) {
	m := releasePattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(tag)))
	if m == nil {
		return nil, fmt.Errorf("invalid release tag %q", tag)
	}
	year, _ := strconv.ParseUint(m[1], 10, 64)
	quarter, _ := strconv.ParseUint(m[2], 10, 64)
	var patch uint64
	if m[3] != "" {
		patch, _ = strconv.ParseUint(m[3], 10, 64)
	}
	return semver.New(year, quarter, patch, "", ""), nil
}

// ReleaseTag renders a version produced by ParseRelease back into tag form.
func ReleaseTag(v *semver.Version) string {
	tag := fmt.Sprintf("%02d.Q%d", v.Major(), v.Minor())
	if v.Patch() > 0 {
		tag += fmt.Sprintf(".%d", v.Patch())
	}
	return tag
}

// ReleaseRange matches release tags against a constraint written in tag
// form, e.g. ">= 23.Q2, < 24.Q1".
type ReleaseRange struct {
	raw        string
	constraint *semver.Constraints
}

var tagInConstraint = regexp.MustCompile(`(?i)(\d{2})\.Q(\d)(?:\.(\d+))?`)

// ParseReleaseRange rewrites every tag in expr into semver form and compiles
// the result. A bare tag covers its maintenance releases: "23.Q4" matches
// "23.Q4" and "23.Q4.1" but not "24.Q1".
func ParseReleaseRange(expr string) (*ReleaseRange, error) {
	if v, err := ParseRelease(expr); err == nil {
		c, _ := semver.NewConstraint("~" + v.String())
		return &ReleaseRange{raw: expr, constraint: c}, nil
	}
	rewritten := tagInConstraint.ReplaceAllStringFunc(expr, func(tag string) string {
		v, err := ParseRelease(tag)
		if err != nil {
			return tag
		}
		return v.String()
	})
	c, err := semver.NewConstraint(rewritten)
	if err != nil {
		return nil, fmt.Errorf("invalid release range %q: %w", expr, err)
	}
	return &ReleaseRange{raw: expr, constraint: c}, nil
}

func (r *ReleaseRange) String() string { return r.raw }

// Contains reports whether tag satisfies the range. Unparseable tags never
// match.
func (r *ReleaseRange) Contains(tag string) bool {
	v, err := ParseRelease(tag)
	if err != nil {
		return false
	}
	return r.constraint.Check(v)
}

// SortReleases orders tags newest first. Unparseable tags go last in their
// original order.
func SortReleases(tags []string) []string {
	type parsed struct {
		tag string
		v   *semver.Version
	}
	var valid []parsed
	var invalid []string
	for _, tag := range tags {
		if v, err := ParseRelease(tag); err == nil {
			valid = append(valid, parsed{tag, v})
		} else {
			invalid = append(invalid, tag)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].v.GreaterThan(valid[j].v) })

	out := make([]string, 0, len(tags))
	for _, p := range valid {
		out = append(out, p.tag)
	}
	return append(out, invalid...)
}

// LatestRelease returns the newest parseable tag, or "".
func LatestRelease(tags []string) string {
	sorted := SortReleases(tags)
	if len(sorted) == 0 {
		return ""
	}
	if _, err := ParseRelease(sorted[0]); err != nil {
		return ""
	}
	return sorted[0]
}
