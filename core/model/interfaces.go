// Classification-facing contracts built on top of the base interfaces in
// estimator.go. The cross-validation loop and the pipeline depend on these
// rather than on concrete estimator types.

package model

import (
	"gonum.org/v1/gonum/mat"
)

// Scorer is the interface for models that report a single quality score.
// Classifiers return mean accuracy on the given samples.
type Scorer interface {
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}

// Classifier is the contract a binary or multiclass classifier exposes to
// the rest of the library.
type Classifier interface {
	Estimator
	Predictor
	Scorer

	// PredictProba returns one probability column per class, rows summing
	// to one.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the distinct labels seen during fitting, ascending.
	Classes() []float64
}

// CloneableClassifier is a classifier that can produce an unfitted copy
// of itself. Cross-validation trains an independent model per fold and
// needs fresh instances that share only hyperparameters.
type CloneableClassifier interface {
	Classifier

	// CloneClassifier returns an unfitted copy with the same hyperparameters.
	CloneClassifier() Classifier
}

// ParameterGetter is implemented by transformers that expose their
// hyperparameters, so a pipeline can report the settings of every step.
type ParameterGetter interface {
	GetParams() map[string]interface{}
}
