package mutation

import (
	"bytes"
	"math"
	"math/rand"

	"github.com/dustin/go-humanize"
	"github.com/gocarina/gocsv"
	"github.com/kiteco/dnamutation/kite-golib/dna"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	sequenceColumn = "Sequence"
	labelColumn    = "Mutation"

	// DefaultTestSize is the fraction of the dataset held out for evaluation.
	DefaultTestSize = 0.2
	// DefaultSeed makes the train/test split reproducible across restarts.
	DefaultSeed = 42
)

// Record is a labeled DNA sequence. Label is 1 for a mutation, 0 otherwise.
type Record struct {
	Sequence string `csv:"Sequence"`
	Label    int    `csv:"Mutation"`
}

// Dataset is the cleaned set of records loaded at startup. It is never modified after
// construction.
type Dataset struct {
	Records []Record
	// Invalid counts the rows dropped because their sequence failed validation.
	Invalid int
}

// LoadDataset reads a CSV with Sequence and Mutation columns from fs, then cleans it
// with NewDataset.
func LoadDataset(fs afero.Fs, path string, logger *zap.SugaredLogger) (*Dataset, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading dataset %s", path)
	}

	header, err := gocsv.DefaultCSVReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, errors.Wrapf(err, "error reading header of %s", path)
	}
	if err := checkColumns(header); err != nil {
		return nil, errors.Wrapf(err, "malformed dataset %s", path)
	}

	var records []Record
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		return nil, errors.Wrapf(err, "error decoding dataset %s", path)
	}

	ds, err := NewDataset(records)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed dataset %s", path)
	}

	logger.Infof("Loaded %d valid DNA sequences from %s (%s), dropped %d invalid",
		len(ds.Records), path, humanize.Bytes(uint64(len(data))), ds.Invalid)
	return ds, nil
}

func checkColumns(header []string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	for _, col := range []string{sequenceColumn, labelColumn} {
		if !have[col] {
			return errors.Errorf("missing required column %q", col)
		}
	}
	return nil
}

// NewDataset uppercases every sequence and keeps the records that pass dna.IsValidString.
// Labels must be 0 or 1.
func NewDataset(records []Record) (*Dataset, error) {
	ds := &Dataset{
		Records: make([]Record, 0, len(records)),
	}
	for i, rec := range records {
		if rec.Label != 0 && rec.Label != 1 {
			return nil, errors.Errorf("row %d: %s label must be 0 or 1, got %d", i+1, labelColumn, rec.Label)
		}
		seq := dna.Normalize(rec.Sequence)
		if !dna.IsValidString(seq) {
			ds.Invalid++
			continue
		}
		ds.Records = append(ds.Records, Record{Sequence: seq, Label: rec.Label})
	}
	return ds, nil
}

// Len is the number of valid records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Split holds the train and test partitions of a Dataset.
type Split struct {
	TrainSequences []string
	TrainLabels    []int
	TestSequences  []string
	TestLabels     []int
}

// Split shuffles the records with the given seed and holds out ceil(testSize * n) of them
// for testing.
func (d *Dataset) Split(testSize float64, seed int64) Split {
	n := len(d.Records)
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest > n {
		nTest = n
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)

	var s Split
	for i, idx := range perm {
		rec := d.Records[idx]
		if i < nTest {
			s.TestSequences = append(s.TestSequences, rec.Sequence)
			s.TestLabels = append(s.TestLabels, rec.Label)
			continue
		}
		s.TrainSequences = append(s.TrainSequences, rec.Sequence)
		s.TrainLabels = append(s.TrainLabels, rec.Label)
	}
	return s
}

// LengthSummary describes the distribution of sequence lengths.
type LengthSummary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// DatasetInfo summarizes the cleaned dataset.
type DatasetInfo struct {
	TotalSequences   int           `json:"total_sequences"`
	MutationCount    int           `json:"mutation_count"`
	NormalCount      int           `json:"normal_count"`
	InvalidSequences int           `json:"invalid_sequences"`
	SequenceLength   LengthSummary `json:"sequence_length"`
}

// Info computes the dataset summary reported by the performance analysis.
func (d *Dataset) Info() DatasetInfo {
	info := DatasetInfo{
		TotalSequences:   len(d.Records),
		InvalidSequences: d.Invalid,
	}

	lengths := make(stats.Float64Data, 0, len(d.Records))
	for _, rec := range d.Records {
		info.MutationCount += rec.Label
		lengths = append(lengths, float64(len(rec.Sequence)))
	}
	info.NormalCount = info.TotalSequences - info.MutationCount

	if len(lengths) == 0 {
		return info
	}
	// errors are only returned for empty input, which is handled above
	info.SequenceLength.Min, _ = lengths.Min()
	info.SequenceLength.Max, _ = lengths.Max()
	info.SequenceLength.Mean, _ = lengths.Mean()
	info.SequenceLength.Median, _ = lengths.Median()
	return info
}
