package feature

import "strings"

// Key is the canonical identifier of a feature, e.g. "FAJ_121_4219".
type Key string

// String returns the key as stored in the snapshot.
func (k Key) String() string { return string(k) }

// Code returns the vendor display form of the key ("FAJ 121 4219").
func (k Key) Code() string {
	return strings.ReplaceAll(string(k), "_", " ")
}

// NormalizeKey maps any FAJ spelling onto its canonical key.
//
//	"FAJ 121 4219"  -> "FAJ_121_4219"
//	"faj_121_4219"  -> "FAJ_121_4219"
//	"121 4219"      -> "FAJ_121_4219"
//
// Inputs with fewer than two groups map to a best-effort key that may not
// resolve. Blank input maps to the empty key. NormalizeKey(NormalizeKey(s))
// equals NormalizeKey(s) for every s.
func NormalizeKey(s string) Key {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "FAJ")
	parts := strings.Fields(strings.ReplaceAll(s, "_", " "))
	switch {
	case len(parts) == 0:
		return ""
	case len(parts) >= 2:
		return Key("FAJ_" + parts[0] + "_" + parts[1])
	default:
		return Key("FAJ_" + parts[0])
	}
}
