package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Key
	}{
		{"spaced vendor code", "FAJ 121 4219", "FAJ_121_4219"},
		{"already canonical", "FAJ_121_4219", "FAJ_121_4219"},
		{"lower case", "faj 121 4219", "FAJ_121_4219"},
		{"no prefix", "121 4219", "FAJ_121_4219"},
		{"prefix glued to digits", "FAJ121 4219", "FAJ_121_4219"},
		{"padding and tabs", "  FAJ\t121   4219 ", "FAJ_121_4219"},
		{"revision suffix dropped", "FAJ 121 4219 R2", "FAJ_121_4219"},
		{"single group", "4219", "FAJ_4219"},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.input))
		})
	}
}

func TestNormalizeKey_Idempotent(t *testing.T) {
	inputs := []string{
		"FAJ 121 4219", "faj_801_0400", "4219", "", "  x  y  z ", "FAJ", "FAJ_", "ANR", "Carrier Aggregation",
	}
	for _, in := range inputs {
		once := NormalizeKey(in)
		assert.Equal(t, once, NormalizeKey(string(once)), "input %q", in)
	}
}

func TestKeyCode(t *testing.T) {
	assert.Equal(t, "FAJ 121 4219", Key("FAJ_121_4219").Code())
}

func TestParseRelationKind(t *testing.T) {
	for _, kind := range RelationKinds {
		got, err := ParseRelationKind(kind.String())
		assert.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	_, err := ParseRelationKind("prerequisite")
	assert.Error(t, err, "relation kinds are case-sensitive")
}
