package experiment

import (
	"context"

	"github.com/YuminosukeSato/churngrid/dataset"
	"github.com/YuminosukeSato/churngrid/linear_model"
	"github.com/YuminosukeSato/churngrid/model_selection"
	"github.com/YuminosukeSato/churngrid/pipeline"
	"github.com/YuminosukeSato/churngrid/pkg/errors"
	"github.com/YuminosukeSato/churngrid/pkg/log"
	"github.com/YuminosukeSato/churngrid/preprocessing"
)

// Variant names one of the three candidate pipelines.
type Variant string

const (
	VariantBaseline   Variant = "baseline"
	VariantScaled     Variant = "scaled"
	VariantPolynomial Variant = "polynomial"
)

// Runner executes the three variant searches over one dataset. The
// variants share the same shuffled row order, feature/target split, and
// fold partition, so their scores are directly comparable.
type Runner struct {
	cfg   Config
	table *dataset.Table
}

// NewRunner creates a Runner for a loaded table.
func NewRunner(cfg Config, table *dataset.Table) *Runner {
	return &Runner{cfg: cfg, table: table}
}

// variantSpec bundles a variant's grid expansion with its pipeline shape.
type variantSpec struct {
	variant Variant
	grid    []model_selection.Params
	factory model_selection.PipelineFactory
}

// Run validates the configuration, prepares the shared data, and runs the
// three grid searches in order. The context is consulted before each
// search; cancellation aborts with the context error.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	logger := log.GetLoggerWithName("experiment.runner")

	if err := r.cfg.validate(r.table); err != nil {
		return nil, err
	}

	prepared, err := r.table.Drop(r.cfg.DropColumns...)
	if err != nil {
		return nil, err
	}
	prepared = prepared.Shuffle(r.cfg.Seed)

	X, y, features, err := prepared.SplitXY(r.cfg.Target)
	if err != nil {
		return nil, err
	}

	folds, err := model_selection.NewKFold(r.cfg.Folds).Split(prepared.Rows())
	if err != nil {
		return nil, err
	}

	logger.Info("Experiment prepared",
		log.SamplesKey, prepared.Rows(),
		log.FeaturesKey, len(features),
		log.FoldCountKey, r.cfg.Folds,
		log.RandomSeedKey, r.cfg.Seed)

	report := &Report{
		Rows:     prepared.Rows(),
		Features: len(features),
		Folds:    r.cfg.Folds,
		Seed:     r.cfg.Seed,
	}

	for _, spec := range r.variants() {
		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(ctx.Err(), "experiment canceled before %s search", spec.variant)
		default:
		}

		search := &model_selection.GridSearchCV{
			Factory: spec.factory,
			Grid:    spec.grid,
			Folds:   folds,
			Workers: r.cfg.Workers,
		}
		result, err := search.Run(X, y)
		if err != nil {
			return nil, errors.Wrapf(err, "%s search failed", spec.variant)
		}

		report.Variants = append(report.Variants, newVariantResult(spec.variant, result))

		logger.Info("Variant search finished",
			log.VariantKey, string(spec.variant),
			log.GridPointKey, result.Best.Params.String(),
			log.BestScoreKey, result.Best.MeanScore,
			"evaluated", len(result.Points),
			"skipped", len(result.Skipped))
	}

	return report, nil
}

// variants builds the three searches in their fixed reporting order.
func (r *Runner) variants() []variantSpec {
	return []variantSpec{
		{
			variant: VariantBaseline,
			grid:    expandC(r.cfg.Baseline.C),
			factory: baselineFactory,
		},
		{
			variant: VariantScaled,
			grid:    expandC(r.cfg.Scaled.C),
			factory: scaledFactory,
		},
		{
			variant: VariantPolynomial,
			grid:    expandPolynomial(r.cfg.Polynomial),
			factory: polynomialFactory,
		},
	}
}

// expandC turns a C grid into flat search points.
func expandC(cs []float64) []model_selection.Params {
	grid := make([]model_selection.Params, 0, len(cs))
	for _, c := range cs {
		grid = append(grid, model_selection.Params{C: c})
	}
	return grid
}

// expandPolynomial is the cartesian product of the polynomial grid, with
// degree outermost and C innermost. The expansion order fixes how ties
// break, so it must stay stable.
func expandPolynomial(g PolynomialGrid) []model_selection.Params {
	grid := make([]model_selection.Params, 0, len(g.Degree)*len(g.InteractionOnly)*len(g.C))
	for _, degree := range g.Degree {
		for _, interactionOnly := range g.InteractionOnly {
			for _, c := range g.C {
				grid = append(grid, model_selection.Params{
					C:               c,
					Degree:          degree,
					InteractionOnly: interactionOnly,
				})
			}
		}
	}
	return grid
}

func newLogReg(c float64) *linear_model.LogisticRegression {
	return linear_model.NewLogisticRegression(
		linear_model.WithLRC(c),
		linear_model.WithLRMaxIter(200),
	)
}

func baselineFactory(p model_selection.Params) (*pipeline.Pipeline, error) {
	return pipeline.NewPipeline().
		Final("logreg", newLogReg(p.C)), nil
}

func scaledFactory(p model_selection.Params) (*pipeline.Pipeline, error) {
	return pipeline.NewPipeline().
		Add("scaler", preprocessing.NewStandardScalerDefault()).
		Final("logreg", newLogReg(p.C)), nil
}

func polynomialFactory(p model_selection.Params) (*pipeline.Pipeline, error) {
	if p.Degree < 1 {
		return nil, errors.NewValidationError("degree", "polynomial grid requires degree >= 1", p.Degree)
	}
	return pipeline.NewPipeline().
		Add("poly", preprocessing.NewPolynomialFeatures(p.Degree,
			preprocessing.WithInteractionOnly(p.InteractionOnly))).
		Add("scaler", preprocessing.NewStandardScalerDefault()).
		Final("logreg", newLogReg(p.C)), nil
}

// newVariantResult condenses a search result for the report.
func newVariantResult(variant Variant, result *model_selection.SearchResult) VariantResult {
	vr := VariantResult{
		Variant:      variant,
		BestScore:    result.Best.MeanScore,
		BestStd:      result.Best.StdScore,
		BestAccuracy: result.Best.MeanAccuracy,
		BestLogLoss:  result.Best.MeanLogLoss,
		BestParams:   result.Best.Params,
		Evaluated:    len(result.Points),
	}
	for _, point := range result.Skipped {
		reason := "no scoreable folds"
		if point.Err != nil {
			reason = point.Err.Error()
		}
		vr.Skipped = append(vr.Skipped, SkippedPoint{Params: point.Params, Reason: reason})
	}
	return vr
}
