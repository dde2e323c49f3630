// Package pipeline composes named transformer steps with a final estimator
// so the whole chain can be fitted, applied, and cloned as one model.
package pipeline

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/churngrid/core/model"
	"github.com/YuminosukeSato/churngrid/pkg/errors"
)

// Step is one named transformer stage of a Pipeline.
type Step struct {
	Name        string
	Transformer model.Transformer
}

// probaPredictor is satisfied by final estimators that expose class
// probabilities.
type probaPredictor interface {
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}

// Pipeline chains zero or more transformer steps into a final estimator.
// Fit learns each step on the output of the previous one, then fits the
// final estimator on the fully transformed data. Only the final stage
// predicts.
type Pipeline struct {
	state     *model.StateManager
	steps     []Step
	finalName string
	final     model.Estimator
}

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{
		state: model.NewStateManager(),
	}
}

// Add appends a named transformer step. Returns the pipeline for chaining.
func (p *Pipeline) Add(name string, t model.Transformer) *Pipeline {
	p.steps = append(p.steps, Step{Name: name, Transformer: t})
	return p
}

// Final sets the named final estimator. Returns the pipeline for chaining.
func (p *Pipeline) Final(name string, est model.Estimator) *Pipeline {
	p.finalName = name
	p.final = est
	return p
}

// Steps returns a copy of the transformer steps.
func (p *Pipeline) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// validate checks the pipeline wiring before fitting.
func (p *Pipeline) validate() error {
	if p.final == nil {
		return errors.NewValueError("Pipeline.Fit", "pipeline has no final estimator")
	}
	if p.finalName == "" {
		return errors.NewValueError("Pipeline.Fit", "final estimator name must not be empty")
	}

	seen := make(map[string]bool, len(p.steps)+1)
	for _, step := range p.steps {
		if step.Name == "" {
			return errors.NewValueError("Pipeline.Fit", "step name must not be empty")
		}
		if step.Transformer == nil {
			return errors.NewValueError("Pipeline.Fit",
				fmt.Sprintf("step %q has no transformer", step.Name))
		}
		if seen[step.Name] {
			return errors.NewValueError("Pipeline.Fit",
				fmt.Sprintf("duplicate step name: %q", step.Name))
		}
		seen[step.Name] = true
	}
	if seen[p.finalName] {
		return errors.NewValueError("Pipeline.Fit",
			fmt.Sprintf("duplicate step name: %q", p.finalName))
	}
	return nil
}

// Fit learns every transformer step in order and then the final estimator.
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	if err := p.validate(); err != nil {
		return err
	}

	xr, xc := X.Dims()
	yr, yc := y.Dims()
	if xr != yr {
		return errors.NewInputShapeError("training", []int{xr, xc}, []int{yr, yc})
	}

	current := X
	for _, step := range p.steps {
		transformed, err := step.Transformer.FitTransform(current)
		if err != nil {
			return errors.Wrapf(err, "failed to fit pipeline step %q", step.Name)
		}
		current = transformed
	}

	if err := p.final.Fit(current, y); err != nil {
		return errors.Wrapf(err, "failed to fit final estimator %q", p.finalName)
	}

	p.state.SetDimensions(xc, xr)
	p.state.SetFitted()
	return nil
}

// transform runs X through the fitted transformer steps.
func (p *Pipeline) transform(X mat.Matrix) (mat.Matrix, error) {
	current := X
	for _, step := range p.steps {
		transformed, err := step.Transformer.Transform(current)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to apply pipeline step %q", step.Name)
		}
		current = transformed
	}
	return current, nil
}

// Predict transforms X through the fitted steps and delegates to the final
// estimator.
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !p.state.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Predict")
	}
	predictor, ok := p.final.(model.Predictor)
	if !ok {
		return nil, errors.NewModelError("Pipeline.Predict",
			fmt.Sprintf("final estimator %q cannot predict", p.finalName),
			errors.ErrNotImplemented)
	}

	current, err := p.transform(X)
	if err != nil {
		return nil, err
	}
	return predictor.Predict(current)
}

// PredictProba transforms X through the fitted steps and returns the final
// estimator's class probabilities. The final estimator must implement
// PredictProba.
func (p *Pipeline) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !p.state.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "PredictProba")
	}
	proba, ok := p.final.(probaPredictor)
	if !ok {
		return nil, errors.NewModelError("Pipeline.PredictProba",
			fmt.Sprintf("final estimator %q does not expose probabilities", p.finalName),
			errors.ErrNotImplemented)
	}

	current, err := p.transform(X)
	if err != nil {
		return nil, err
	}
	return proba.PredictProba(current)
}

// IsFitted returns whether the pipeline has been fitted.
func (p *Pipeline) IsFitted() bool {
	return p.state.IsFitted()
}

// Clone returns an unfitted copy of the pipeline. Every step must implement
// model.CloneableTransformer and the final estimator
// model.CloneableClassifier.
func (p *Pipeline) Clone() (*Pipeline, error) {
	clone := NewPipeline()
	for _, step := range p.steps {
		ct, ok := step.Transformer.(model.CloneableTransformer)
		if !ok {
			return nil, errors.NewValueError("Pipeline.Clone",
				fmt.Sprintf("step %q is not cloneable", step.Name))
		}
		clone.Add(step.Name, ct.CloneTransformer())
	}
	if p.final != nil {
		cc, ok := p.final.(model.CloneableClassifier)
		if !ok {
			return nil, errors.NewValueError("Pipeline.Clone",
				fmt.Sprintf("final estimator %q is not cloneable", p.finalName))
		}
		clone.Final(p.finalName, cc.CloneClassifier())
	}
	return clone, nil
}

// Params collects hyperparameters from every step that exposes them,
// keyed as "step__param". The final estimator contributes under its own
// name when it implements model.SKLearnCompatible.
func (p *Pipeline) Params() map[string]interface{} {
	params := make(map[string]interface{})
	for _, step := range p.steps {
		pg, ok := step.Transformer.(model.ParameterGetter)
		if !ok {
			continue
		}
		for k, v := range pg.GetParams() {
			params[step.Name+"__"+k] = v
		}
	}
	if sk, ok := p.final.(model.SKLearnCompatible); ok {
		for k, v := range sk.GetParams(false) {
			params[p.finalName+"__"+k] = v
		}
	}
	return params
}

// String returns the step names joined in application order.
func (p *Pipeline) String() string {
	names := make([]string, 0, len(p.steps)+1)
	for _, step := range p.steps {
		names = append(names, step.Name)
	}
	if p.finalName != "" {
		names = append(names, p.finalName)
	}
	return fmt.Sprintf("Pipeline(%s)", strings.Join(names, " -> "))
}
