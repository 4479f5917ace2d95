package dna

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	cases := map[string]struct {
		input interface{}
		valid bool
	}{
		"Uppercase":        {"ATCG", true},
		"Lowercase":        {"atcgga", true},
		"Mixed":            {"AtCg", true},
		"TooShort":         {"ATC", false},
		"Empty":            {"", false},
		"InvalidBase":      {"ATCN", false},
		"Whitespace":       {"ATC G", false},
		"NotAString":       {1234, false},
		"Nil":              {nil, false},
		"UnicodeLookalike": {"ATCĞ", false},
	}

	for name, tc := range cases {
		assert.Equal(t, tc.valid, IsValid(tc.input), name)
	}
}

func TestIsValidString_Property(t *testing.T) {
	for _, s := range []string{"", "a", "acg", "acgt", "ACGTX", "GGGGGGGG", "tttt", "AC-GT"} {
		expected := len(s) >= 4
		for _, r := range strings.ToUpper(s) {
			if !strings.ContainsRune("ATCG", r) {
				expected = false
			}
		}
		assert.Equal(t, expected, IsValidString(s), s)
	}
}

func TestKmers(t *testing.T) {
	assert.Equal(t, []string{"ATCG", "TCGA", "CGAT"}, Kmers("ATCGAT", 4))
	assert.Equal(t, []string{"AAAA"}, Kmers("AAAA", 4))
	assert.Empty(t, Kmers("ATC", 4))
	assert.Empty(t, Kmers("", 4))
}

func TestKmers_Property(t *testing.T) {
	for _, s := range []string{"ACGT", "ACGTACGTTT", "GATTACAGATTACA"} {
		for k := 1; k <= len(s); k++ {
			kmers := Kmers(s, k)
			assert.Len(t, kmers, len(s)-k+1)
			for i, kmer := range kmers {
				assert.Len(t, kmer, k)
				assert.Equal(t, s[i:i+k], kmer)
			}
		}
	}
}

func TestKmers_MultiByte(t *testing.T) {
	assert.Equal(t, []string{"AÇGT", "ÇGTA"}, Kmers("AÇGTA", 4))
}
