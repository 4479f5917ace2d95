package kmervec

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFitTransform_SingleKmer(t *testing.T) {
	vocab, m, err := FitTransform([]string{"AAAA", "AAAA"}, 4)
	require.NoError(t, err)

	assert.Equal(t, []string{"AAAA"}, vocab.Terms())
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 1, c)
	assert.True(t, mat.Equal(mat.NewDense(2, 1, []float64{1, 1}), m))
}

func TestFitTransform_CountsRepeats(t *testing.T) {
	vocab, m, err := FitTransform([]string{"AAAAAA", "ACGTA"}, 4)
	require.NoError(t, err)

	assert.Equal(t, []string{"AAAA", "ACGT", "CGTA"}, vocab.Terms())
	expected := mat.NewDense(2, 3, []float64{
		3, 0, 0,
		0, 1, 1,
	})
	assert.True(t, mat.Equal(expected, m))
}

func TestFitTransform_RowSumsBoundedByLength(t *testing.T) {
	docs := []string{"ACGTACGTAC", "TTTTGGGGCCCCAAAA", "GATTACA"}
	_, m, err := FitTransform(docs, 4)
	require.NoError(t, err)

	for i, doc := range docs {
		assert.LessOrEqual(t, mat.Sum(m.RowView(i)), float64(len(doc)-3), doc)
	}
}

func TestTransform_OutOfVocabulary(t *testing.T) {
	vocab, err := Fit([]string{"AAAAA"}, 4)
	require.NoError(t, err)

	m := vocab.Transform([]string{"CCCCGG", "AAAAC"})
	assert.Equal(t, 0.0, mat.Sum(m.RowView(0)))
	assert.Equal(t, 1.0, m.At(1, 0))
}

func TestFit_EmptyVocabulary(t *testing.T) {
	cases := map[string][]string{
		"NoDocuments": nil,
		"TooShort":    {"ACG", "T"},
	}

	for name, docs := range cases {
		_, _, err := FitTransform(docs, 4)
		require.Error(t, err, name)

		var empty *EmptyVocabularyError
		assert.True(t, errors.As(err, &empty), name)
	}
}

func TestVocabulary_Index(t *testing.T) {
	vocab, err := Fit([]string{"CCCCA", "AAAAT"}, 4)
	require.NoError(t, err)

	assert.Equal(t, 4, vocab.Len())
	i, ok := vocab.Index("CCCA")
	assert.True(t, ok)
	assert.Equal(t, "CCCA", vocab.Term(i))

	_, ok = vocab.Index("GGGG")
	assert.False(t, ok)
}
