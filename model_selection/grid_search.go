package model_selection

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/churngrid/metrics"
	"github.com/YuminosukeSato/churngrid/pipeline"
	"github.com/YuminosukeSato/churngrid/pkg/errors"
	"github.com/YuminosukeSato/churngrid/pkg/log"
)

// Params is one point of the hyperparameter grid. Degree 0 means the
// pipeline has no polynomial stage.
type Params struct {
	C               float64
	Degree          int
	InteractionOnly bool
}

// String renders the point the way it appears in logs and reports.
func (p Params) String() string {
	if p.Degree > 0 {
		return fmt.Sprintf("C=%g, degree=%d, interaction_only=%t", p.C, p.Degree, p.InteractionOnly)
	}
	return fmt.Sprintf("C=%g", p.C)
}

// PipelineFactory builds a fresh unfitted pipeline for one grid point.
type PipelineFactory func(p Params) (*pipeline.Pipeline, error)

// PointResult holds the cross-validated outcome of one grid point.
// FoldScores keeps only the folds that produced a score; folds lost to a
// degenerate validation split or a fit error are counted and recorded
// instead. MeanAccuracy and MeanLogLoss are secondary statistics averaged
// over the same scored folds.
type PointResult struct {
	Params          Params
	FoldScores      []float64
	MeanScore       float64
	StdScore        float64
	MeanAccuracy    float64
	MeanLogLoss     float64
	DegenerateFolds int
	Err             error
}

// scored reports whether at least one fold produced a score.
func (pr *PointResult) scored() bool {
	return len(pr.FoldScores) > 0
}

// SearchResult is the outcome of a full grid search. Points holds every
// scoreable grid point in grid order; Skipped holds the points where no
// fold could be scored.
type SearchResult struct {
	Best    PointResult
	Points  []PointResult
	Skipped []PointResult
}

// GridSearchCV exhaustively evaluates a hyperparameter grid with k-fold
// cross-validation. Grid points are scored concurrently; X, y, and the
// folds are shared read-only, and every evaluation works on its own
// pipeline clone.
type GridSearchCV struct {
	Factory PipelineFactory
	Grid    []Params
	Folds   []Fold
	Workers int
}

// Run scores every grid point and selects the one with the highest mean
// validation AUC. Ties break toward the earlier grid point, so the result
// is deterministic for a fixed grid order.
func (gs *GridSearchCV) Run(X *mat.Dense, y *mat.VecDense) (*SearchResult, error) {
	if gs.Factory == nil {
		return nil, errors.NewValueError("GridSearchCV.Run", "no pipeline factory")
	}
	if len(gs.Grid) == 0 {
		return nil, errors.NewValueError("GridSearchCV.Run", "empty parameter grid")
	}
	if len(gs.Folds) == 0 {
		return nil, errors.NewValueError("GridSearchCV.Run", "no folds")
	}

	nSamples, _ := X.Dims()
	if y.Len() != nSamples {
		return nil, errors.NewDimensionError("GridSearchCV.Run", nSamples, y.Len(), 0)
	}

	workers := gs.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(gs.Grid) {
		workers = len(gs.Grid)
	}

	results := make([]PointResult, len(gs.Grid))

	var wg sync.WaitGroup
	jobs := make(chan int, len(gs.Grid))

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = gs.evaluatePoint(gs.Grid[idx], X, y)
			}
		}()
	}

	for idx := range gs.Grid {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	result := &SearchResult{}
	bestIdx := -1
	for i := range results {
		if !results[i].scored() {
			result.Skipped = append(result.Skipped, results[i])
			continue
		}
		result.Points = append(result.Points, results[i])
		if bestIdx < 0 || results[i].MeanScore > results[bestIdx].MeanScore {
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		return nil, errors.NewModelError("GridSearchCV.Run",
			"no grid point could be scored on any fold", errors.ErrEmptyData)
	}
	result.Best = results[bestIdx]

	logger := log.GetLoggerWithName("model_selection.grid_search")
	logger.Info("Grid search finished",
		log.GridSizeKey, len(gs.Grid),
		"skipped", len(result.Skipped),
		log.GridPointKey, result.Best.Params.String(),
		log.BestScoreKey, result.Best.MeanScore)

	return result, nil
}

// evaluatePoint cross-validates one grid point over every fold.
func (gs *GridSearchCV) evaluatePoint(p Params, X *mat.Dense, y *mat.VecDense) PointResult {
	result := PointResult{Params: p}

	proto, err := gs.Factory(p)
	if err != nil {
		result.Err = errors.Wrapf(err, "failed to build pipeline for %s", p)
		return result
	}

	var accuracies, logLosses []float64
	for foldIdx, fold := range gs.Folds {
		score, err := gs.scoreFold(proto, fold, foldIdx, X, y)
		if err != nil {
			var degenerate *errors.DegenerateFoldError
			if errors.As(err, &degenerate) {
				result.DegenerateFolds++
			}
			if result.Err == nil {
				result.Err = err
			}
			continue
		}
		result.FoldScores = append(result.FoldScores, score.auc)
		accuracies = append(accuracies, score.accuracy)
		logLosses = append(logLosses, score.logLoss)
	}

	if result.scored() {
		result.MeanScore = mean(result.FoldScores)
		result.StdScore = std(result.FoldScores, result.MeanScore)
		result.MeanAccuracy = mean(accuracies)
		result.MeanLogLoss = mean(logLosses)
	}
	return result
}

// foldScore bundles the metrics computed on one validation fold.
type foldScore struct {
	auc      float64
	accuracy float64
	logLoss  float64
}

// scoreFold fits a fresh clone on the fold's training rows and scores the
// positive-class probabilities on the validation rows.
func (gs *GridSearchCV) scoreFold(proto *pipeline.Pipeline, fold Fold, foldIdx int,
	X *mat.Dense, y *mat.VecDense) (fs foldScore, err error) {
	defer errors.Recover(&err, fmt.Sprintf("fold %d", foldIdx))

	yVal := subsetVec(y, fold.ValIndices)
	if class, ok := singleClass(yVal); ok {
		return fs, errors.NewDegenerateFoldError(foldIdx, class)
	}

	clone, err := proto.Clone()
	if err != nil {
		return fs, errors.Wrapf(err, "failed to clone pipeline for fold %d", foldIdx)
	}

	XTrain := subsetMatrix(X, fold.TrainIndices)
	yTrain := subsetVec(y, fold.TrainIndices)
	if err := clone.Fit(XTrain, columnVector(yTrain)); err != nil {
		return fs, errors.Wrapf(err, "failed to fit fold %d", foldIdx)
	}

	XVal := subsetMatrix(X, fold.ValIndices)
	proba, err := clone.PredictProba(XVal)
	if err != nil {
		return fs, errors.Wrapf(err, "failed to predict fold %d", foldIdx)
	}
	probaPos := positiveColumn(proba)

	pred, err := clone.Predict(XVal)
	if err != nil {
		return fs, errors.Wrapf(err, "failed to predict fold %d", foldIdx)
	}

	if fs.auc, err = metrics.AUC(yVal, probaPos); err != nil {
		return fs, err
	}
	if fs.accuracy, err = metrics.Accuracy(yVal, firstColumn(pred)); err != nil {
		return fs, err
	}
	if fs.logLoss, err = metrics.BinaryLogLoss(yVal, probaPos); err != nil {
		return fs, err
	}
	return fs, nil
}

// subsetMatrix copies the selected rows of X into a new matrix.
func subsetMatrix(X *mat.Dense, indices []int) *mat.Dense {
	_, cols := X.Dims()
	out := mat.NewDense(len(indices), cols, nil)
	for i, idx := range indices {
		for j := 0; j < cols; j++ {
			out.Set(i, j, X.At(idx, j))
		}
	}
	return out
}

// subsetVec copies the selected entries of y into a new vector.
func subsetVec(y *mat.VecDense, indices []int) *mat.VecDense {
	out := mat.NewVecDense(len(indices), nil)
	for i, idx := range indices {
		out.SetVec(i, y.AtVec(idx))
	}
	return out
}

// columnVector reshapes a vector into the n x 1 matrix estimators expect.
func columnVector(v *mat.VecDense) *mat.Dense {
	out := mat.NewDense(v.Len(), 1, nil)
	for i := 0; i < v.Len(); i++ {
		out.Set(i, 0, v.AtVec(i))
	}
	return out
}

// positiveColumn extracts P(y=1), the second column of a PredictProba
// result.
func positiveColumn(proba mat.Matrix) *mat.VecDense {
	rows, cols := proba.Dims()
	out := mat.NewVecDense(rows, nil)
	col := cols - 1
	for i := 0; i < rows; i++ {
		out.SetVec(i, proba.At(i, col))
	}
	return out
}

// firstColumn extracts the label column of a Predict result.
func firstColumn(pred mat.Matrix) *mat.VecDense {
	rows, _ := pred.Dims()
	out := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		out.SetVec(i, pred.At(i, 0))
	}
	return out
}

// singleClass reports whether every value of y is the same.
func singleClass(y *mat.VecDense) (float64, bool) {
	if y.Len() == 0 {
		return 0, false
	}
	first := y.AtVec(0)
	for i := 1; i < y.Len(); i++ {
		if y.AtVec(i) != first {
			return 0, false
		}
	}
	return first, true
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// std is the sample standard deviation of the fold scores.
func std(values []float64, mean float64) float64 {
	if len(values) <= 1 {
		return 0.0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}
