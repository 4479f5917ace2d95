package mutation

import (
	"time"

	"github.com/kiteco/dnamutation/kite-golib/dna"
	"github.com/kiteco/dnamutation/kite-golib/metrics"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	algorithmName     = "Logistic Regression"
	featureExtraction = "CountVectorizer (4-gram)"
	topFeatureCount   = 10
	metricPrecision   = 4
)

// Pipeline retrains and evaluates a model for every request against a split that is fixed
// at startup. Trained models are never kept between calls.
type Pipeline struct {
	dataset *Dataset
	split   Split
	logger  *zap.SugaredLogger
}

// NewPipeline returns a Pipeline serving the given dataset and split. Neither is modified.
func NewPipeline(dataset *Dataset, split Split, logger *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		dataset: dataset,
		split:   split,
		logger:  logger,
	}
}

// DetectionResult is the response to a detection request.
type DetectionResult struct {
	Detection
	Accuracy        float64   `json:"accuracy"`
	ConfusionMatrix [2][2]int `json:"confusion_matrix"`
}

// DetectMutations retrains with seq added to the training split as a mutation, evaluates the
// model on the test split and classifies seq with it.
func (p *Pipeline) DetectMutations(seq string) (*DetectionResult, error) {
	// copy so concurrent requests never share the appended slot
	seqs := make([]string, 0, len(p.split.TrainSequences)+1)
	seqs = append(seqs, p.split.TrainSequences...)
	seqs = append(seqs, seq)
	labels := make([]int, 0, len(p.split.TrainLabels)+1)
	labels = append(labels, p.split.TrainLabels...)
	labels = append(labels, 1)

	model, err := p.train(seqs, labels)
	if err != nil {
		return nil, err
	}

	eval := Evaluate(model, p.split.TestSequences, p.split.TestLabels)
	return &DetectionResult{
		Detection:       Detect(model, seq),
		Accuracy:        eval.Accuracy,
		ConfusionMatrix: eval.ConfusionMatrix,
	}, nil
}

// ModelInfo describes the model trained for a performance analysis.
type ModelInfo struct {
	Algorithm         string          `json:"algorithm"`
	FeatureExtraction string          `json:"feature_extraction"`
	TrainingSamples   int             `json:"training_samples"`
	TestSamples       int             `json:"test_samples"`
	TotalFeatures     int             `json:"total_features"`
	TopFeatures       []FeatureWeight `json:"top_features"`
}

// PerformanceReport is the response to a performance analysis request.
type PerformanceReport struct {
	Accuracy             float64                      `json:"accuracy"`
	Precision            float64                      `json:"precision"`
	Recall               float64                      `json:"recall"`
	F1                   float64                      `json:"f1_score"`
	ConfusionMatrix      [2][2]int                    `json:"confusion_matrix"`
	ClassificationReport metrics.ClassificationReport `json:"classification_report"`
	ModelInfo            ModelInfo                    `json:"model_info"`
	DatasetInfo          DatasetInfo                  `json:"dataset_info"`
}

// Analyze trains on the training split and reports how the model does on the test split.
func (p *Pipeline) Analyze() (*PerformanceReport, error) {
	model, err := p.train(p.split.TrainSequences, p.split.TrainLabels)
	if err != nil {
		return nil, err
	}

	eval := Evaluate(model, p.split.TestSequences, p.split.TestLabels)
	return &PerformanceReport{
		Accuracy:             metrics.Round(eval.Accuracy, metricPrecision),
		Precision:            metrics.Round(eval.Precision, metricPrecision),
		Recall:               metrics.Round(eval.Recall, metricPrecision),
		F1:                   metrics.Round(eval.F1, metricPrecision),
		ConfusionMatrix:      eval.ConfusionMatrix,
		ClassificationReport: eval.Report,
		ModelInfo: ModelInfo{
			Algorithm:         algorithmName,
			FeatureExtraction: featureExtraction,
			TrainingSamples:   len(p.split.TrainSequences),
			TestSamples:       len(p.split.TestSequences),
			TotalFeatures:     model.NumFeatures(),
			TopFeatures:       model.TopFeatures(topFeatureCount),
		},
		DatasetInfo: p.dataset.Info(),
	}, nil
}

func (p *Pipeline) train(seqs []string, labels []int) (*Model, error) {
	start := time.Now()
	model, err := Train(seqs, labels)
	if err != nil {
		return nil, errors.Wrapf(err, "error training on %d sequences", len(seqs))
	}
	p.logger.Infow("trained model",
		"samples", len(seqs),
		"features", model.NumFeatures(),
		"k", dna.K,
		"iterations", model.classifier.Iterations,
		"status", model.classifier.Status.String(),
		"duration", time.Since(start),
	)
	return model, nil
}
