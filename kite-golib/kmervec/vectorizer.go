package kmervec

import (
	"sort"

	"github.com/kiteco/dnamutation/kite-golib/dna"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Analyzer splits a document into the tokens that are counted as features.
type Analyzer func(string) []string

// KmerAnalyzer returns an Analyzer producing overlapping k-mers.
func KmerAnalyzer(k int) Analyzer {
	return func(seq string) []string {
		return dna.Kmers(seq, k)
	}
}

// EmptyVocabularyError is returned when fitting produced no features.
type EmptyVocabularyError struct {
	Documents int
}

// Error implements error
func (e *EmptyVocabularyError) Error() string {
	return "No features extracted. Check if sequences contain valid characters."
}

// Vocabulary maps each term seen during fitting to a column index. Terms are ordered
// lexicographically.
type Vocabulary struct {
	terms    []string
	index    map[string]int
	analyzer Analyzer
}

// Len is the number of columns produced by Transform.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Terms returns the term for each column, in column order.
func (v *Vocabulary) Terms() []string {
	return append([]string(nil), v.terms...)
}

// Term returns the term for column i.
func (v *Vocabulary) Term(i int) string {
	return v.terms[i]
}

// Index returns the column of term, if the term is known.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Transform counts the known terms of each document. Terms missing from the vocabulary
// are ignored, so a document with no known terms yields a zero row.
func (v *Vocabulary) Transform(docs []string) *mat.Dense {
	// mat.NewDense panics on zero dimensions
	rows, cols := len(docs), len(v.terms)
	if rows == 0 || cols == 0 {
		return &mat.Dense{}
	}

	m := mat.NewDense(rows, cols, nil)
	for i, doc := range docs {
		for _, tok := range v.analyzer(doc) {
			if j, ok := v.index[tok]; ok {
				m.Set(i, j, m.At(i, j)+1)
			}
		}
	}
	return m
}

// Fit builds a vocabulary from the k-mers of docs.
func Fit(docs []string, k int) (*Vocabulary, error) {
	return FitAnalyzer(docs, KmerAnalyzer(k))
}

// FitAnalyzer builds a vocabulary from the tokens analyzer extracts from docs.
func FitAnalyzer(docs []string, analyzer Analyzer) (*Vocabulary, error) {
	seen := make(map[string]struct{})
	for _, doc := range docs {
		for _, tok := range analyzer(doc) {
			seen[tok] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, errors.WithStack(&EmptyVocabularyError{Documents: len(docs)})
	}

	terms := make([]string, 0, len(seen))
	for tok := range seen {
		terms = append(terms, tok)
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	for i, t := range terms {
		index[t] = i
	}

	return &Vocabulary{
		terms:    terms,
		index:    index,
		analyzer: analyzer,
	}, nil
}

// FitTransform fits a vocabulary on docs and returns it along with the count matrix of docs.
func FitTransform(docs []string, k int) (*Vocabulary, *mat.Dense, error) {
	vocab, err := Fit(docs, k)
	if err != nil {
		return nil, nil, err
	}
	return vocab, vocab.Transform(docs), nil
}
