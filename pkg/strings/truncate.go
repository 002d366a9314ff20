package strings

import (
	"strings"
)

// DefaultSummaryMaxLen is the summary width used by table output.
const DefaultSummaryMaxLen = 60

// DefaultLabelMaxLen is the node label width used in diagrams.
const DefaultLabelMaxLen = 25

// MinTruncateLen is the smallest maxLen TruncateSummary honours.
const MinTruncateLen = 4

// TruncateSummary collapses whitespace to single spaces and cuts s to at most
// maxLen runes, ending with "..." when cut. maxLen is clamped to
// MinTruncateLen.
func TruncateSummary(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// TruncateLabel keeps the first maxLen runes of s and appends ".." when it
// had to cut. Diagram labels use this form.
func TruncateLabel(s string, maxLen int) string {
	if maxLen < 1 {
		maxLen = 1
	}
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + ".."
	}
	return string(runes)
}

// OneLine flattens s onto a single line.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
