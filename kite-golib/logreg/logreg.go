package logreg

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

const (
	// DefaultMaxIter bounds the number of LBFGS iterations during Fit.
	DefaultMaxIter = 1000
	// DefaultTolerance is the gradient norm below which Fit stops.
	DefaultTolerance = 1e-4
	// DefaultC is the inverse L2 regularization strength.
	DefaultC = 1.0
)

// LogisticRegression is an L2 regularized binary logistic regression classifier.
type LogisticRegression struct {
	Bias  float64
	Coefs []float64

	// C is the inverse of the regularization strength, smaller values regularize more.
	C         float64
	MaxIter   int
	Tolerance float64

	// Status and Iterations describe how the last call to Fit terminated.
	Status     optimize.Status
	Iterations int
}

// New returns an unfitted classifier with the default hyperparameters.
func New() *LogisticRegression {
	return &LogisticRegression{
		C:         DefaultC,
		MaxIter:   DefaultMaxIter,
		Tolerance: DefaultTolerance,
	}
}

// Fit trains the classifier on the rows of x with labels y, each 0 or 1. Running out of
// iterations is not an error, the best parameters found so far are kept. If y holds a
// single class the classifier always predicts that class.
func (l *LogisticRegression) Fit(x mat.Matrix, y []int) error {
	rows, cols := x.Dims()
	if rows != len(y) {
		return errors.Errorf("got %d feature rows but %d labels", rows, len(y))
	}
	if rows == 0 || cols == 0 {
		return errors.Errorf("cannot fit on an empty %dx%d feature matrix", rows, cols)
	}

	var positives int
	labels := make([]float64, len(y))
	for i, label := range y {
		switch label {
		case 0:
		case 1:
			positives++
			labels[i] = 1
		default:
			return errors.Errorf("label %d at row %d is not binary", label, i)
		}
	}

	l.Coefs = make([]float64, cols)
	l.Iterations = 0
	switch positives {
	case 0:
		l.Bias = math.Inf(-1)
		l.Status = optimize.Success
		return nil
	case rows:
		l.Bias = math.Inf(1)
		l.Status = optimize.Success
		return nil
	}

	obj := &objective{x: x, y: labels, invC: 1 / l.c(), rows: rows, cols: cols}
	problem := optimize.Problem{
		Func: obj.loss,
		Grad: obj.grad,
	}
	settings := &optimize.Settings{
		MajorIterations:   l.maxIter(),
		GradientThreshold: l.tolerance(),
	}

	res, err := optimize.Minimize(problem, make([]float64, cols+1), settings, &optimize.LBFGS{})
	if res == nil {
		return errors.Wrap(err, "error fitting logistic regression")
	}
	// a failed line search still leaves the best location found, which is what we keep

	copy(l.Coefs, res.X[:cols])
	l.Bias = res.X[cols]
	l.Status = res.Status
	l.Iterations = res.MajorIterations
	return nil
}

// DecisionFunction returns the signed distance of each row of x to the separating hyperplane.
func (l *LogisticRegression) DecisionFunction(x mat.Matrix) []float64 {
	rows, cols := x.Dims()
	if rows == 0 {
		return nil
	}
	if cols != len(l.Coefs) {
		panic(fmt.Sprintf("feature length %d is not equal to length of coefs %d", cols, len(l.Coefs)))
	}

	var scores mat.VecDense
	scores.MulVec(x, mat.NewVecDense(cols, l.Coefs))

	out := make([]float64, rows)
	for i := range out {
		out[i] = scores.AtVec(i) + l.Bias
	}
	return out
}

// Predict returns the predicted class, 0 or 1, for each row of x.
func (l *LogisticRegression) Predict(x mat.Matrix) []int {
	scores := l.DecisionFunction(x)
	preds := make([]int, len(scores))
	for i, s := range scores {
		if s > 0 {
			preds[i] = 1
		}
	}
	return preds
}

// PredictProba returns the probability of each row of x to be classified as class 1.
func (l *LogisticRegression) PredictProba(x mat.Matrix) []float64 {
	scores := l.DecisionFunction(x)
	for i, s := range scores {
		scores[i] = sigmoid(s)
	}
	return scores
}

// Evaluate returns the probability of the feature vector to be classified as class 1 (v.s. 0)
// given the model.
func (l *LogisticRegression) Evaluate(feats []float64) float64 {
	if len(feats) != len(l.Coefs) {
		panic(fmt.Sprintf("feature length %d is not equal to length of coefs %d", len(feats), len(l.Coefs)))
	}
	return sigmoid(floats.Dot(feats, l.Coefs) + l.Bias)
}

func (l *LogisticRegression) c() float64 {
	if l.C <= 0 {
		return DefaultC
	}
	return l.C
}

func (l *LogisticRegression) maxIter() int {
	if l.MaxIter <= 0 {
		return DefaultMaxIter
	}
	return l.MaxIter
}

func (l *LogisticRegression) tolerance() float64 {
	if l.Tolerance <= 0 {
		return DefaultTolerance
	}
	return l.Tolerance
}

// objective is the penalized negative log likelihood. The last parameter is the bias,
// which is not penalized.
type objective struct {
	x          mat.Matrix
	y          []float64
	invC       float64
	rows, cols int
}

func (o *objective) scores(params []float64) *mat.VecDense {
	var z mat.VecDense
	z.MulVec(o.x, mat.NewVecDense(o.cols, params[:o.cols]))
	bias := params[o.cols]
	for i := 0; i < o.rows; i++ {
		z.SetVec(i, z.AtVec(i)+bias)
	}
	return &z
}

func (o *objective) loss(params []float64) float64 {
	z := o.scores(params)

	var nll float64
	for i := 0; i < o.rows; i++ {
		zi := z.AtVec(i)
		nll += logOnePlusExp(zi) - o.y[i]*zi
	}

	w := params[:o.cols]
	return nll + 0.5*o.invC*floats.Dot(w, w)
}

func (o *objective) grad(grad, params []float64) {
	z := o.scores(params)

	residuals := mat.NewVecDense(o.rows, nil)
	for i := 0; i < o.rows; i++ {
		residuals.SetVec(i, sigmoid(z.AtVec(i))-o.y[i])
	}

	gw := mat.NewVecDense(o.cols, grad[:o.cols])
	gw.MulVec(o.x.T(), residuals)
	floats.AddScaled(grad[:o.cols], o.invC, params[:o.cols])
	grad[o.cols] = mat.Sum(residuals)
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// logOnePlusExp computes log(1 + exp(z)) without overflowing for large z.
func logOnePlusExp(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}
