package extract

import (
	"regexp"
	"strings"
)

var (
	acronymSkipWords = map[string]bool{
		"a": true, "an": true, "the": true, "at": true, "by": true, "for": true, "in": true,
		"of": true, "on": true, "to": true, "with": true, "and": true, "or": true,
	}
	trailingAcronymRe = regexp.MustCompile(`^[A-Z]{2,}(-[A-Z]+)*$`)
	shortAcronymRe    = regexp.MustCompile(`^[A-Z]{2,3}$`)
)

// GenerateAcronym derives an acronym from a feature name. Small words are
// skipped and hyphenated words contribute one letter per part. A trailing
// acronym of three or more letters is kept whole behind a prefix built from
// the preceding words:
//
//	Inter-Frequency Load Balancing  -> IFLB
//	UE Throughput-Aware IFLB        -> UTA-IFLB
func GenerateAcronym(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return ""
	}

	last := words[len(words)-1]
	if trailingAcronymRe.MatchString(last) && len(last) >= 3 {
		prefix := initials(words[:len(words)-1])
		if prefix == "" {
			return last
		}
		return prefix + "-" + last
	}
	return initials(words)
}

func initials(words []string) string {
	var b strings.Builder
	for _, word := range words {
		if acronymSkipWords[strings.ToLower(word)] {
			continue
		}
		if strings.Contains(word, "-") {
			for _, part := range strings.Split(word, "-") {
				if part != "" && !acronymSkipWords[strings.ToLower(part)] {
					b.WriteString(strings.ToUpper(firstRune(part)))
				}
			}
			continue
		}
		if shortAcronymRe.MatchString(word) {
			b.WriteString(word[:1])
			continue
		}
		b.WriteString(strings.ToUpper(firstRune(word)))
	}
	return b.String()
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
