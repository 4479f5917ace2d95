package dna

import (
	"strings"
	"unicode/utf8"
)

// K is the k-mer length used for featurizing sequences.
const K = 4

// MinLength is the shortest sequence that yields at least one k-mer.
const MinLength = K

// Normalize uppercases a sequence.
func Normalize(seq string) string {
	return strings.ToUpper(seq)
}

// IsValid reports whether v is a string holding a DNA sequence of at least MinLength
// bases drawn from A, T, C and G (case insensitive).
func IsValid(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return IsValidString(s)
}

// IsValidString is IsValid for callers that already hold a string.
func IsValidString(seq string) bool {
	upper := Normalize(seq)
	if utf8.RuneCountInString(upper) < MinLength {
		return false
	}
	for _, r := range upper {
		switch r {
		case 'A', 'T', 'C', 'G':
		default:
			return false
		}
	}
	return true
}

// Kmers returns every overlapping substring of length k in seq, left to right.
// Sequences shorter than k produce no k-mers.
func Kmers(seq string, k int) []string {
	if k <= 0 || utf8.RuneCountInString(seq) < k {
		return nil
	}
	if len(seq) == utf8.RuneCountInString(seq) {
		kmers := make([]string, 0, len(seq)-k+1)
		for i := 0; i+k <= len(seq); i++ {
			kmers = append(kmers, seq[i:i+k])
		}
		return kmers
	}

	// multi-byte input is windowed by rune so no k-mer splits a character
	runes := []rune(seq)
	kmers := make([]string, 0, len(runes)-k+1)
	for i := 0; i+k <= len(runes); i++ {
		kmers = append(kmers, string(runes[i:i+k]))
	}
	return kmers
}
