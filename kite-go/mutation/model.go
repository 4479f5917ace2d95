package mutation

import (
	"encoding/json"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/kiteco/dnamutation/kite-golib/dna"
	"github.com/kiteco/dnamutation/kite-golib/kmervec"
	"github.com/kiteco/dnamutation/kite-golib/logreg"
	"github.com/kiteco/dnamutation/kite-golib/metrics"
	"github.com/pkg/errors"
)

// Model is a fitted classifier together with the vocabulary its features were built from.
// The two are only ever created together, by Train, and are not modified afterwards.
type Model struct {
	vocab      *kmervec.Vocabulary
	classifier *logreg.LogisticRegression
}

// NumFeatures is the number of k-mer columns the model was trained on.
func (m *Model) NumFeatures() int {
	return m.vocab.Len()
}

// Predict classifies each sequence, 1 meaning a mutation.
func (m *Model) Predict(seqs []string) []int {
	if len(seqs) == 0 {
		return nil
	}
	return m.classifier.Predict(m.vocab.Transform(seqs))
}

// FeatureWeight is a k-mer and its signed coefficient. It serializes as a [kmer, weight] pair.
type FeatureWeight struct {
	Kmer   string
	Weight float64
}

// MarshalJSON implements json.Marshaler
func (f FeatureWeight) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{f.Kmer, f.Weight})
}

// TopFeatures returns the n k-mers with the largest absolute coefficients, ordered by
// increasing magnitude.
func (m *Model) TopFeatures(n int) []FeatureWeight {
	coefs := m.classifier.Coefs
	idx := make([]int, len(coefs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return math.Abs(coefs[idx[a]]) < math.Abs(coefs[idx[b]])
	})

	if n > len(idx) {
		n = len(idx)
	}
	top := make([]FeatureWeight, 0, n)
	for _, i := range idx[len(idx)-n:] {
		top = append(top, FeatureWeight{Kmer: m.vocab.Term(i), Weight: coefs[i]})
	}
	return top
}

// Train fits a fresh model on the given sequences and labels.
func Train(seqs []string, labels []int) (*Model, error) {
	if len(seqs) == 0 {
		return nil, errors.WithStack(&InsufficientDataError{})
	}
	if len(seqs) != len(labels) {
		return nil, errors.Errorf("got %d sequences but %d labels", len(seqs), len(labels))
	}

	minLength := -1
	for _, seq := range seqs {
		if l := utf8.RuneCountInString(seq); minLength < 0 || l < minLength {
			minLength = l
		}
	}
	if minLength < dna.MinLength {
		return nil, errors.WithStack(&SequenceTooShortError{MinLength: minLength})
	}

	vocab, x, err := kmervec.FitTransform(seqs, dna.K)
	if err != nil {
		return nil, err
	}

	clf := logreg.New()
	if err := clf.Fit(x, labels); err != nil {
		return nil, errors.Wrap(err, "error fitting classifier")
	}

	return &Model{
		vocab:      vocab,
		classifier: clf,
	}, nil
}

// Evaluation holds the test set metrics of a model.
type Evaluation struct {
	Predictions     []int
	Accuracy        float64
	Precision       float64
	Recall          float64
	F1              float64
	ConfusionMatrix [2][2]int
	Report          metrics.ClassificationReport
}

// Evaluate scores the model on a labeled test set. Precision, recall and F1 are those of
// the mutation class.
func Evaluate(m *Model, seqs []string, labels []int) Evaluation {
	preds := m.Predict(seqs)
	prf := metrics.PrecisionRecallF1(labels, preds, 1)
	return Evaluation{
		Predictions:     preds,
		Accuracy:        metrics.Accuracy(labels, preds),
		Precision:       prf.Precision,
		Recall:          prf.Recall,
		F1:              prf.F1,
		ConfusionMatrix: metrics.ConfusionMatrix(labels, preds),
		Report:          metrics.Report(labels, preds),
	}
}

// Detection is the classification of a single sequence.
type Detection struct {
	MutationDetected bool `json:"mutation_detected"`
}

// Detect classifies one sequence.
func Detect(m *Model, seq string) Detection {
	preds := m.Predict([]string{seq})
	return Detection{MutationDetected: preds[0] == 1}
}
