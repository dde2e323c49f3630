// Package log defines the attribute vocabulary for structured records.
//
// Every component logs through these shared keys so that one jq filter can
// follow a fold, a grid point, or a pipeline variant across packages. Keys
// are namespaced by concern ("cv.fold", "search.grid_point", "metrics.auc")
// rather than by package, because the same fold index appears in records
// from model_selection, linear_model, and experiment alike.

package log

// Model and operation context. These identify what was running when the
// record was emitted.
const (
	// ModelNameKey holds the estimator or transformer type,
	// such as "LogisticRegression" or "StandardScaler".
	ModelNameKey = "model.name"

	// EstimatorIDKey distinguishes instances of the same model type when
	// several are alive at once, as during a parallel grid search.
	EstimatorIDKey = "estimator.id"

	// OperationKey holds the operation verb. Use the Operation* constants.
	OperationKey = "ml.operation"

	// ComponentKey names the emitting package. GetLoggerWithName sets it
	// on every derived logger.
	ComponentKey = "ml.component"

	// PhaseKey holds the lifecycle phase. Use the Phase* constants.
	PhaseKey = "ml.phase"
)

// Data shape. Row and column counts make shape mismatches diagnosable
// from logs alone.
const (
	// SamplesKey is the number of rows being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns being processed.
	FeaturesKey = "data.features"
)

// Cross-validation and search context. Together these locate a single
// evaluation inside the full experiment.
const (
	// FoldKey is the zero-based index of the validation fold.
	FoldKey = "cv.fold"

	// FoldCountKey is the total number of folds in the partition.
	FoldCountKey = "cv.folds"

	// VariantKey names the pipeline variant under evaluation:
	// "baseline", "scaled", or "polynomial".
	VariantKey = "experiment.variant"

	// GridPointKey is the hyperparameter combination being evaluated,
	// rendered through Params.String for stable formatting.
	GridPointKey = "search.grid_point"

	// GridSizeKey is the total number of grid points in the search.
	GridSizeKey = "search.grid_size"

	// BestScoreKey is the winning cross-validated score of a search.
	BestScoreKey = "search.best_score"
)

// Performance and training progress.
const (
	// DurationMsKey is the wall-clock time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey is a classification accuracy in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// AUCKey is an area under the ROC curve, 0.5 meaning random ranking.
	AUCKey = "metrics.auc"

	// LossKey is a loss value; for this library, binary log-loss.
	LossKey = "metrics.loss"

	// IterationKey is the iteration count of an iterative solver.
	IterationKey = "training.iteration"
)

// Error context.
const (
	// ErrorCodeKey carries one of the Error* codes for filtering.
	ErrorCodeKey = "error.code"

	// StacktraceKey carries the stack trace lifted from a wrapped error.
	// ErrFmtHandler fills it when a record includes an error attribute.
	StacktraceKey = "error.stacktrace"

	// SuggestionKey carries a remediation hint when one is known,
	// such as "Increase max_iterations".
	SuggestionKey = "error.suggestion"
)

// Configuration.
const (
	// RandomSeedKey is the seed used for shuffling and fold assignment.
	// Recorded so a run can be reproduced exactly.
	RandomSeedKey = "config.random_seed"
)

// Values for OperationKey.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"
)

// Values for PhaseKey.
const (
	PhaseTraining   = "training"
	PhaseValidation = "validation"
	PhaseInference  = "inference"
)

// Values for ErrorCodeKey, one per error type in pkg/errors.
const (
	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
	ErrorDegenerateFold    = "DEGENERATE_FOLD"
	ErrorBadConfiguration  = "INVALID_CONFIGURATION"
)
