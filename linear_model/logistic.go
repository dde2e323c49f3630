// Package linear_model provides linear classifiers compatible with
// scikit-learn's linear_model module.
package linear_model

import (
	"fmt"
	"math"
	"sort"

	"github.com/YuminosukeSato/churngrid/core/model"
	"github.com/YuminosukeSato/churngrid/pkg/errors"
	"github.com/YuminosukeSato/churngrid/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// LogisticRegression implements logistic regression for classification
// Compatible with scikit-learn's LogisticRegression
//
// Weights are zero-initialized, so fitting the same data always produces
// the same coefficients.
type LogisticRegression struct {
	state *model.StateManager // State management (composition)

	// Hyperparameters
	penalty      string  // Regularization: "l2", "none"
	C            float64 // Inverse regularization strength (1/lambda)
	fitIntercept bool    // Whether to fit intercept
	maxIter      int     // Maximum iterations
	tol          float64 // Tolerance for stopping
	learningRate float64 // Base step size for gradient descent
	warmStart    bool    // Reuse previous solution
	maxGradNorm  float64 // Gradient norm ceiling, 0 disables clipping

	// Model parameters
	coef_      [][]float64 // Coefficients (1 x n_features for binary, n_classes x n_features otherwise)
	intercept_ []float64   // Intercept terms
	classes_   []float64   // Unique class labels, ascending
	nClasses_  int         // Number of classes
	nFeatures_ int         // Number of features
	nIter_     []int       // Actual iterations per class
}

var (
	_ model.CloneableClassifier = (*LogisticRegression)(nil)
	_ model.ClassifierMixin     = (*LogisticRegression)(nil)
	_ model.SKLearnCompatible   = (*LogisticRegression)(nil)
	_ model.LinearModel         = (*LogisticRegression)(nil)
)

// LogisticRegressionOption is a functional option for LogisticRegression
type LogisticRegressionOption func(*LogisticRegression)

// NewLogisticRegression creates a new LogisticRegression classifier
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      "l2",
		C:            1.0,
		fitIntercept: true,
		maxIter:      100,
		tol:          1e-4,
		learningRate: 1.0,
		warmStart:    false,
		maxGradNorm:  1e3,
	}

	// Apply options
	for _, opt := range opts {
		opt(lr)
	}

	return lr
}

// Option functions

// WithLRPenalty sets the regularization type
func WithLRPenalty(penalty string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.penalty = penalty
	}
}

// WithLRC sets the inverse regularization strength
func WithLRC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.C = c
	}
}

// WithLogisticFitIntercept sets whether to fit intercept
func WithLogisticFitIntercept(fit bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithLRMaxIter sets the maximum number of iterations
func WithLRMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithLRTol sets the tolerance for stopping criteria
func WithLRTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithLRLearningRate sets the base step size for gradient descent
func WithLRLearningRate(rate float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.learningRate = rate
	}
}

// WithLRWarmStart sets whether Fit reuses the previous solution
func WithLRWarmStart(warmStart bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.warmStart = warmStart
	}
}

// WithLRMaxGradNorm sets the gradient clipping threshold (0 disables clipping)
func WithLRMaxGradNorm(maxNorm float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.maxGradNorm = maxNorm
	}
}

// Fit trains the logistic regression model
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}

	yRows, yCols := y.Dims()
	if nSamples != yRows {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("LogisticRegression.Fit",
			fmt.Sprintf("y must be a column vector, got shape (%d, %d)", yRows, yCols))
	}

	// Extract unique classes
	lr.extractClasses(y)
	if lr.nClasses_ < 2 {
		return errors.NewValueError("LogisticRegression.Fit",
			"y contains a single class; at least 2 classes are required")
	}
	lr.nFeatures_ = nFeatures

	// Initialize coefficients
	if !lr.warmStart || lr.coef_ == nil || len(lr.coef_[0]) != nFeatures {
		lr.initializeWeights(nFeatures)
	}

	if lr.nClasses_ == 2 {
		// Binary classification: a single weight vector scoring classes_[1]
		err := lr.fitBinaryClass(X, binaryTargets(y, lr.classes_[1]), 0)
		if err != nil {
			return err
		}
	} else {
		// One-vs-rest
		for classIdx, class := range lr.classes_ {
			err := lr.fitBinaryClass(X, binaryTargets(y, class), classIdx)
			if err != nil {
				return errors.Wrapf(err, "failed to fit class %g", class)
			}
		}
	}

	lr.state.SetFitted()
	return nil
}

// extractClasses identifies unique class labels
func (lr *LogisticRegression) extractClasses(y mat.Matrix) {
	rows, _ := y.Dims()
	classMap := make(map[float64]bool)

	for i := 0; i < rows; i++ {
		classMap[y.At(i, 0)] = true
	}

	lr.classes_ = make([]float64, 0, len(classMap))
	for class := range classMap {
		lr.classes_ = append(lr.classes_, class)
	}
	sort.Float64s(lr.classes_)

	lr.nClasses_ = len(lr.classes_)
}

// binaryTargets maps y to 1.0 where the label equals positive and 0.0 elsewhere
func binaryTargets(y mat.Matrix, positive float64) []float64 {
	rows, _ := y.Dims()
	targets := make([]float64, rows)
	for i := 0; i < rows; i++ {
		if y.At(i, 0) == positive {
			targets[i] = 1.0
		}
	}
	return targets
}

// initializeWeights initializes model weights
// Zero initialization keeps training deterministic for identical inputs
func (lr *LogisticRegression) initializeWeights(nFeatures int) {
	nSets := 1
	if lr.nClasses_ > 2 {
		nSets = lr.nClasses_
	}

	lr.coef_ = make([][]float64, nSets)
	for i := range lr.coef_ {
		lr.coef_[i] = make([]float64, nFeatures)
	}
	lr.intercept_ = make([]float64, nSets)
	lr.nIter_ = make([]int, nSets)
}

// fitBinaryClass runs gradient descent for one weight vector against 0/1 targets
func (lr *LogisticRegression) fitBinaryClass(X mat.Matrix, targets []float64, classIdx int) error {
	nSamples, nFeatures := X.Dims()
	weights := lr.coef_[classIdx]
	intercept := &lr.intercept_[classIdx]

	lambda := 0.0
	if lr.penalty == "l2" {
		lambda = 1.0 / lr.C
	}

	gradWeights := make([]float64, nFeatures)
	converged := false

	for iter := 0; iter < lr.maxIter; iter++ {
		for j := range gradWeights {
			gradWeights[j] = 0
		}
		gradIntercept := 0.0

		// Accumulate gradients of the log loss
		for i := 0; i < nSamples; i++ {
			z := *intercept
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * weights[j]
			}
			diff := sigmoid(z) - targets[i]
			gradIntercept += diff
			for j := 0; j < nFeatures; j++ {
				gradWeights[j] += diff * X.At(i, j)
			}
		}

		for j := range gradWeights {
			gradWeights[j] /= float64(nSamples)
		}
		gradIntercept /= float64(nSamples)

		// L2 regularization gradient
		if lambda > 0 {
			for j := range weights {
				gradWeights[j] += lambda * weights[j]
			}
		}

		if lr.maxGradNorm > 0 {
			gradWeights = errors.ClipGradient(gradWeights, lr.maxGradNorm)
		}

		// Adaptive learning rate
		learningRate := lr.learningRate / (1.0 + 0.1*float64(iter))

		// Update weights
		for j := range weights {
			weights[j] -= learningRate * gradWeights[j]
		}
		if lr.fitIntercept {
			*intercept -= learningRate * gradIntercept
		}

		lr.nIter_[classIdx] = iter + 1

		if err := errors.CheckNumericalStability("LogisticRegression.Fit", weights, iter); err != nil {
			return err
		}

		// Check convergence
		maxGrad := math.Abs(gradIntercept)
		for _, g := range gradWeights {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < lr.tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.maxIter, ""))
	}

	logger := log.GetLoggerWithName("linear_model.logistic")
	logger.Debug("Gradient descent finished",
		"class_index", classIdx,
		log.IterationKey, lr.nIter_[classIdx],
		"converged", converged)

	return nil
}

// DecisionFunction computes raw scores before the sigmoid or softmax.
// The result is n_samples x 1 for binary models and n_samples x n_classes
// otherwise.
func (lr *LogisticRegression) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "DecisionFunction")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != lr.nFeatures_ {
		return nil, errors.NewDimensionError("LogisticRegression.DecisionFunction", lr.nFeatures_, nFeatures, 1)
	}

	scores := mat.NewDense(nSamples, len(lr.coef_), nil)
	for i := 0; i < nSamples; i++ {
		for k := range lr.coef_ {
			z := lr.intercept_[k]
			for j := 0; j < lr.nFeatures_; j++ {
				z += X.At(i, j) * lr.coef_[k][j]
			}
			scores.Set(i, k, z)
		}
	}

	return scores, nil
}

// Predict makes predictions for input data
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	scores, err := lr.DecisionFunction(X)
	if err != nil {
		return nil, errors.Wrap(err, "Predict")
	}

	nSamples, _ := X.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)

	if lr.nClasses_ == 2 {
		// sigmoid(z) >= 0.5 is equivalent to z >= 0
		for i := 0; i < nSamples; i++ {
			if scores.At(i, 0) >= 0 {
				predictions.Set(i, 0, lr.classes_[1])
			} else {
				predictions.Set(i, 0, lr.classes_[0])
			}
		}
	} else {
		for i := 0; i < nSamples; i++ {
			best := 0
			for k := 1; k < lr.nClasses_; k++ {
				if scores.At(i, k) > scores.At(i, best) {
					best = k
				}
			}
			predictions.Set(i, 0, lr.classes_[best])
		}
	}

	return predictions, nil
}

// PredictProba returns probability estimates for each class.
// Columns follow the ascending order of Classes.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	scores, err := lr.DecisionFunction(X)
	if err != nil {
		return nil, errors.Wrap(err, "PredictProba")
	}

	nSamples, _ := X.Dims()
	probas := mat.NewDense(nSamples, lr.nClasses_, nil)

	if lr.nClasses_ == 2 {
		for i := 0; i < nSamples; i++ {
			p := sigmoid(scores.At(i, 0))
			probas.Set(i, 0, 1.0-p)
			probas.Set(i, 1, p)
		}
	} else {
		// Softmax over one-vs-rest scores
		for i := 0; i < nSamples; i++ {
			maxScore := scores.At(i, 0)
			for k := 1; k < lr.nClasses_; k++ {
				if scores.At(i, k) > maxScore {
					maxScore = scores.At(i, k)
				}
			}

			sum := 0.0
			exps := make([]float64, lr.nClasses_)
			for k := 0; k < lr.nClasses_; k++ {
				exps[k] = errors.StabilizeExp(scores.At(i, k) - maxScore)
				sum += exps[k]
			}
			for k := 0; k < lr.nClasses_; k++ {
				probas.Set(i, k, exps[k]/sum)
			}
		}
	}

	return probas, nil
}

// PredictLogProba returns the logarithm of the probability estimates
func (lr *LogisticRegression) PredictLogProba(X mat.Matrix) (mat.Matrix, error) {
	probas, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}

	nSamples, nClasses := probas.Dims()
	logProbas := mat.NewDense(nSamples, nClasses, nil)
	for i := 0; i < nSamples; i++ {
		for k := 0; k < nClasses; k++ {
			logProbas.Set(i, k, errors.StabilizeLog(probas.At(i, k)))
		}
	}

	return logProbas, nil
}

// Score returns the mean accuracy on the given test data and labels
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	nSamples, _ := X.Dims()
	yRows, _ := y.Dims()
	if yRows != nSamples {
		return 0, errors.NewDimensionError("LogisticRegression.Score", nSamples, yRows, 0)
	}

	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}

	return float64(correct) / float64(nSamples), nil
}

// IsFitted returns whether the model has been fitted
func (lr *LogisticRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// Classes returns the class labels seen during fitting, ascending
func (lr *LogisticRegression) Classes() []float64 {
	out := make([]float64, len(lr.classes_))
	copy(out, lr.classes_)
	return out
}

// NClasses returns the number of classes seen during fitting
func (lr *LogisticRegression) NClasses() int {
	return lr.nClasses_
}

// Weights returns the coefficient vector of the first decision function
func (lr *LogisticRegression) Weights() []float64 {
	if len(lr.coef_) == 0 {
		return nil
	}
	out := make([]float64, len(lr.coef_[0]))
	copy(out, lr.coef_[0])
	return out
}

// Intercept returns the intercept of the first decision function
func (lr *LogisticRegression) Intercept() float64 {
	if len(lr.intercept_) == 0 {
		return 0
	}
	return lr.intercept_[0]
}

// NIter returns the number of gradient descent iterations per class
func (lr *LogisticRegression) NIter() []int {
	out := make([]int, len(lr.nIter_))
	copy(out, lr.nIter_)
	return out
}

// Clone returns an unfitted copy with the same hyperparameters
func (lr *LogisticRegression) Clone() model.SKLearnCompatible {
	return lr.cloneUnfitted()
}

// CloneClassifier returns an unfitted copy with the same hyperparameters
func (lr *LogisticRegression) CloneClassifier() model.Classifier {
	return lr.cloneUnfitted()
}

func (lr *LogisticRegression) cloneUnfitted() *LogisticRegression {
	return NewLogisticRegression(
		WithLRPenalty(lr.penalty),
		WithLRC(lr.C),
		WithLogisticFitIntercept(lr.fitIntercept),
		WithLRMaxIter(lr.maxIter),
		WithLRTol(lr.tol),
		WithLRLearningRate(lr.learningRate),
		WithLRWarmStart(lr.warmStart),
		WithLRMaxGradNorm(lr.maxGradNorm),
	)
}

// GetParams returns the model hyperparameters.
// deep is accepted for scikit-learn compatibility and ignored because the
// model has no nested estimators.
func (lr *LogisticRegression) GetParams(deep bool) map[string]interface{} {
	return map[string]interface{}{
		"penalty":       lr.penalty,
		"C":             lr.C,
		"fit_intercept": lr.fitIntercept,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
		"learning_rate": lr.learningRate,
		"warm_start":    lr.warmStart,
		"max_grad_norm": lr.maxGradNorm,
	}
}

// SetParams sets the model hyperparameters
func (lr *LogisticRegression) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "penalty":
			lr.penalty = value.(string)
		case "C":
			lr.C = value.(float64)
		case "fit_intercept":
			lr.fitIntercept = value.(bool)
		case "max_iter":
			lr.maxIter = value.(int)
		case "tol":
			lr.tol = value.(float64)
		case "learning_rate":
			lr.learningRate = value.(float64)
		case "warm_start":
			lr.warmStart = value.(bool)
		case "max_grad_norm":
			lr.maxGradNorm = value.(float64)
		default:
			return errors.NewValueError("LogisticRegression.SetParams",
				fmt.Sprintf("unknown parameter: %s", key))
		}
	}
	return nil
}

// String returns a scikit-learn style representation of the model
func (lr *LogisticRegression) String() string {
	return fmt.Sprintf("LogisticRegression(penalty=%q, C=%g, max_iter=%d, tol=%g)",
		lr.penalty, lr.C, lr.maxIter, lr.tol)
}

// sigmoid computes the sigmoid function
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
