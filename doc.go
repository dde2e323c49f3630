// Package churngrid benchmarks logistic-regression churn pipelines by
// exhaustive grid search with k-fold cross-validated ROC-AUC.
//
// churngrid loads a telecom churn CSV export into an immutable named-column
// table, drops identifier columns, and tunes three pipeline variants against
// each other: raw logistic regression, standardized logistic regression, and
// polynomial feature expansion followed by standardization and logistic
// regression. Every variant is scored on the same shuffled fold assignment so
// the resulting AUC numbers are directly comparable.
//
// # Installation
//
// Install churngrid using go get:
//
//	go get github.com/YuminosukeSato/churngrid
//
// # Quick Start
//
// Running the full experiment on a churn export takes a table and a config:
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//	    "os"
//
//	    "github.com/YuminosukeSato/churngrid/dataset"
//	    "github.com/YuminosukeSato/churngrid/experiment"
//	)
//
//	func main() {
//	    table, err := dataset.ReadCSVFile("churn.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    cfg := experiment.DefaultConfig()
//	    report, err := experiment.NewRunner(cfg, table).Run(context.Background())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    report.Render(os.Stdout)
//	}
//
// # Packages
//
// The module is organized into several packages:
//
//   - dataset: CSV loading and the immutable named-column table
//   - preprocessing: StandardScaler, MinMaxScaler and PolynomialFeatures
//   - linear_model: Gradient-descent logistic regression
//   - pipeline: Chained transformer plus estimator composition
//   - model_selection: K-fold splitting and parallel grid search
//   - metrics: ROC-AUC and classification metrics
//   - experiment: The three-variant churn benchmark and its report
//   - core/model: Core interfaces and fitted-state management
//
// # Determinism
//
// A fixed shuffle seed makes every run reproducible: the same seed yields the
// same fold assignment, the same per-fold scores, and the same winning
// hyperparameters regardless of how many grid workers are used. Grid ties
// resolve to the earlier point in grid order.
package churngrid
