package metrics

import (
	"encoding/json"
	"math"
	"strconv"
)

// Classes are the labels of a binary classification problem, in report order.
var Classes = []int{0, 1}

// Accuracy returns the fraction of predictions that match the true labels.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	var correct int
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// ConfusionMatrix counts (true label, predicted label) pairs. Row i holds true label i and
// column j predicted label j. Labels other than 0 and 1 are ignored.
func ConfusionMatrix(yTrue, yPred []int) [2][2]int {
	var cm [2][2]int
	for i := range yTrue {
		t, p := yTrue[i], yPred[i]
		if t < 0 || t > 1 || p < 0 || p > 1 {
			continue
		}
		cm[t][p]++
	}
	return cm
}

// Scores holds per-class (or averaged) precision, recall and F1.
type Scores struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1-score"`
	Support   int     `json:"support"`
}

// PrecisionRecallF1 computes the scores of the positive class. Any ratio with a zero
// denominator is defined as 0.
func PrecisionRecallF1(yTrue, yPred []int, positive int) Scores {
	var tp, fp, fn, support int
	for i := range yTrue {
		t, p := yTrue[i] == positive, yPred[i] == positive
		switch {
		case t && p:
			tp++
		case p:
			fp++
		case t:
			fn++
		}
		if t {
			support++
		}
	}

	precision := safeDiv(float64(tp), float64(tp+fp))
	recall := safeDiv(float64(tp), float64(tp+fn))
	return Scores{
		Precision: precision,
		Recall:    recall,
		F1:        safeDiv(2*precision*recall, precision+recall),
		Support:   support,
	}
}

// ClassificationReport is the per-class breakdown of a binary classification.
type ClassificationReport struct {
	PerClass    map[int]Scores
	Accuracy    float64
	MacroAvg    Scores
	WeightedAvg Scores
}

// Report builds the classification report for yTrue and yPred over Classes.
func Report(yTrue, yPred []int) ClassificationReport {
	report := ClassificationReport{
		PerClass: make(map[int]Scores, len(Classes)),
		Accuracy: Accuracy(yTrue, yPred),
	}

	var total int
	for _, c := range Classes {
		s := PrecisionRecallF1(yTrue, yPred, c)
		report.PerClass[c] = s
		total += s.Support

		report.MacroAvg.Precision += s.Precision / float64(len(Classes))
		report.MacroAvg.Recall += s.Recall / float64(len(Classes))
		report.MacroAvg.F1 += s.F1 / float64(len(Classes))

		w := float64(s.Support)
		report.WeightedAvg.Precision += s.Precision * w
		report.WeightedAvg.Recall += s.Recall * w
		report.WeightedAvg.F1 += s.F1 * w
	}

	report.MacroAvg.Support = total
	report.WeightedAvg.Support = total
	report.WeightedAvg.Precision = safeDiv(report.WeightedAvg.Precision, float64(total))
	report.WeightedAvg.Recall = safeDiv(report.WeightedAvg.Recall, float64(total))
	report.WeightedAvg.F1 = safeDiv(report.WeightedAvg.F1, float64(total))
	return report
}

// MarshalJSON renders the report keyed by class label, "accuracy", "macro avg" and
// "weighted avg".
func (r ClassificationReport) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.PerClass)+3)
	for c, s := range r.PerClass {
		out[strconv.Itoa(c)] = s
	}
	out["accuracy"] = r.Accuracy
	out["macro avg"] = r.MacroAvg
	out["weighted avg"] = r.WeightedAvg
	return json.Marshal(out)
}

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(x*pow) / pow
}

func safeDiv(num, denom float64) float64 {
	if denom == 0 {
		return 0
	}
	return num / denom
}
