// Package experiment runs the churn grid-search workflow: three candidate
// pipelines, each tuned by cross-validated grid search over a shared fold
// partition, reported side by side.
package experiment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/churngrid/dataset"
	"github.com/YuminosukeSato/churngrid/pkg/errors"
)

// BaselineGrid is the search space of the bare logistic regression.
type BaselineGrid struct {
	C []float64
}

// ScaledGrid is the search space of the scaler + logistic regression
// pipeline.
type ScaledGrid struct {
	C []float64
}

// PolynomialGrid is the search space of the polynomial + scaler +
// logistic regression pipeline. The grid is the cartesian product of the
// three fields.
type PolynomialGrid struct {
	Degree          []int
	InteractionOnly []bool
	C               []float64
}

// Config describes one experiment run.
type Config struct {
	DataPath    string
	Target      string
	DropColumns []string
	Folds       int
	Seed        int64
	Workers     int
	Baseline    BaselineGrid
	Scaled      ScaledGrid
	Polynomial  PolynomialGrid
}

// defaultCGrid returns the regularization grid shared by all variants.
func defaultCGrid() []float64 {
	return []float64{0.001, 0.01, 0.1, 1, 10, 100}
}

// DefaultConfig returns the standard churn experiment: drop the
// identifier columns, five folds, a fixed shuffle seed, and the shared
// C grid. Seed -1 restores a time-based shuffle.
func DefaultConfig() Config {
	return Config{
		Target:      "churn",
		DropColumns: []string{"state", "area_code", "phone_number"},
		Folds:       5,
		Seed:        42,
		Baseline:    BaselineGrid{C: defaultCGrid()},
		Scaled:      ScaledGrid{C: defaultCGrid()},
		Polynomial: PolynomialGrid{
			Degree:          []int{1, 2},
			InteractionOnly: []bool{false, true},
			C:               defaultCGrid(),
		},
	}
}

// validate checks the configuration against the loaded table before any
// work starts. Every violation is a ConfigurationError naming the field.
func (c Config) validate(table *dataset.Table) error {
	if c.Target == "" {
		return errors.NewConfigurationError("target", "target column must be set", c.Target)
	}
	if !table.Has(c.Target) {
		return errors.NewConfigurationError("target", "column not found in dataset", c.Target)
	}

	for _, name := range c.DropColumns {
		if name == c.Target {
			return errors.NewConfigurationError("drop_columns", "cannot drop the target column", name)
		}
		if !table.Has(name) {
			return errors.NewConfigurationError("drop_columns", "column not found in dataset", name)
		}
	}

	if c.Folds < 2 {
		return errors.NewConfigurationError("folds", "must be at least 2", c.Folds)
	}
	if c.Folds > table.Rows() {
		return errors.NewConfigurationError("folds", "cannot exceed the number of rows", c.Folds)
	}

	target, err := table.Column(c.Target)
	if err != nil {
		return err
	}
	if !dataset.IsBinary(mat.NewVecDense(len(target), target)) {
		return errors.NewConfigurationError("target",
			"column must be binary with both classes present", c.Target)
	}

	if len(c.Baseline.C) == 0 {
		return errors.NewConfigurationError("baseline.c", "grid must not be empty", c.Baseline.C)
	}
	if len(c.Scaled.C) == 0 {
		return errors.NewConfigurationError("scaled.c", "grid must not be empty", c.Scaled.C)
	}
	if len(c.Polynomial.C) == 0 {
		return errors.NewConfigurationError("polynomial.c", "grid must not be empty", c.Polynomial.C)
	}
	if len(c.Polynomial.Degree) == 0 {
		return errors.NewConfigurationError("polynomial.degree", "grid must not be empty", c.Polynomial.Degree)
	}
	if len(c.Polynomial.InteractionOnly) == 0 {
		return errors.NewConfigurationError("polynomial.interaction_only",
			"grid must not be empty", c.Polynomial.InteractionOnly)
	}

	return nil
}
