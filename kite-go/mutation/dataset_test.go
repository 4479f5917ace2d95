package mutation

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeDataset(t *testing.T, contents string) afero.Fs {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "dna.csv", []byte(contents), 0644))
	return fs
}

func TestLoadDataset_Cleans(t *testing.T) {
	fs := writeDataset(t, "Sequence,Mutation,Source\n"+
		"acgtac,1,a\n"+
		"ACG,0,b\n"+
		"ACGN,0,c\n"+
		"TTTTGG,0,d\n"+
		",1,e\n")

	ds, err := LoadDataset(fs, "dna.csv", zap.NewNop().Sugar())
	require.NoError(t, err)

	assert.Equal(t, []Record{
		{Sequence: "ACGTAC", Label: 1},
		{Sequence: "TTTTGG", Label: 0},
	}, ds.Records)
	assert.Equal(t, 3, ds.Invalid)
}

func TestLoadDataset_Errors(t *testing.T) {
	cases := map[string]string{
		"MissingLabelColumn":    "Sequence,Label\nACGT,1\n",
		"MissingSequenceColumn": "Seq,Mutation\nACGT,1\n",
		"NonIntegerLabel":       "Sequence,Mutation\nACGT,yes\n",
		"NonBinaryLabel":        "Sequence,Mutation\nACGT,2\n",
		"Empty":                 "",
	}

	for name, contents := range cases {
		fs := writeDataset(t, contents)
		_, err := LoadDataset(fs, "dna.csv", zap.NewNop().Sugar())
		assert.Error(t, err, name)
	}

	_, err := LoadDataset(afero.NewMemMapFs(), "missing.csv", zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestSplit_Deterministic(t *testing.T) {
	var records []Record
	for i := 0; i < 11; i++ {
		records = append(records, Record{Sequence: "ACGT" + string("ACGT"[i%4]), Label: i % 2})
	}
	ds, err := NewDataset(records)
	require.NoError(t, err)

	a := ds.Split(DefaultTestSize, DefaultSeed)
	b := ds.Split(DefaultTestSize, DefaultSeed)
	assert.Equal(t, a, b)

	// ceil(0.2 * 11) = 3
	assert.Len(t, a.TestSequences, 3)
	assert.Len(t, a.TestLabels, 3)
	assert.Len(t, a.TrainSequences, 8)
	assert.Len(t, a.TrainLabels, 8)
}

func TestSplit_Empty(t *testing.T) {
	ds, err := NewDataset(nil)
	require.NoError(t, err)

	s := ds.Split(DefaultTestSize, DefaultSeed)
	assert.Empty(t, s.TrainSequences)
	assert.Empty(t, s.TestSequences)
}

func TestInfo(t *testing.T) {
	ds, err := NewDataset([]Record{
		{Sequence: "ACGT", Label: 1},
		{Sequence: "ACGTAC", Label: 0},
		{Sequence: "ACGTACGT", Label: 1},
		{Sequence: "XX", Label: 0},
	})
	require.NoError(t, err)

	info := ds.Info()
	assert.Equal(t, 3, info.TotalSequences)
	assert.Equal(t, 2, info.MutationCount)
	assert.Equal(t, 1, info.NormalCount)
	assert.Equal(t, 1, info.InvalidSequences)
	assert.Equal(t, LengthSummary{Min: 4, Max: 8, Mean: 6, Median: 6}, info.SequenceLength)
}
