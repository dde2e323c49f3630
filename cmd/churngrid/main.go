package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/churngrid/dataset"
	"github.com/YuminosukeSato/churngrid/experiment"
	"github.com/YuminosukeSato/churngrid/pkg/errors"
	"github.com/YuminosukeSato/churngrid/pkg/log"
)

var (
	dataPath  string
	target    string
	dropCols  []string
	folds     int
	seed      int64
	workers   int
	chartPath string
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "churngrid",
	Short: "Grid-search churn pipelines and compare them by cross-validated AUC",
	Long: `churngrid loads a telecom churn CSV export and benchmarks three
logistic-regression pipelines against each other:

  baseline    logistic regression on the raw features
  scaled      standardization followed by logistic regression
  polynomial  polynomial feature expansion, standardization, logistic regression

Each pipeline is tuned by exhaustive grid search over its hyperparameters,
scored with k-fold cross-validated ROC-AUC, and the winners are printed as a
comparison table. Identifier columns are dropped before training and yes/no
style columns are converted to 1/0 on load.`,
	RunE: runExperiment,
}

func init() {
	defaults := experiment.DefaultConfig()

	rootCmd.Flags().StringVar(&dataPath, "data", "", "Path to the churn CSV file (required)")
	rootCmd.Flags().StringVar(&target, "target", defaults.Target, "Name of the binary label column")
	rootCmd.Flags().StringSliceVar(&dropCols, "drop", defaults.DropColumns, "Identifier columns to drop before training")
	rootCmd.Flags().IntVar(&folds, "folds", defaults.Folds, "Number of cross-validation folds")
	rootCmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Row shuffle seed (negative for a time-based shuffle)")
	rootCmd.Flags().IntVar(&workers, "workers", defaults.Workers, "Concurrent grid workers (0 uses all cores)")
	rootCmd.Flags().StringVar(&chartPath, "chart", "", "Write a best-AUC bar chart PNG to this path")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	rootCmd.MarkFlagRequired("data")
}

func runExperiment(cmd *cobra.Command, args []string) error {
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.NewValidationError("log-level", "must be one of debug, info, warn, error", logLevel)
	}
	log.SetupLogger(logLevel)
	errors.SetZerologWarnFunc(log.NewZerologWarnFunc(os.Stderr))

	table, err := dataset.ReadCSVFile(dataPath)
	if err != nil {
		return err
	}

	cfg := experiment.DefaultConfig()
	cfg.DataPath = dataPath
	cfg.Target = target
	cfg.DropColumns = dropCols
	cfg.Folds = folds
	cfg.Seed = seed
	cfg.Workers = workers

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := experiment.NewRunner(cfg, table).Run(ctx)
	if err != nil {
		return err
	}
	report.Render(os.Stdout)

	if chartPath != "" {
		if err := report.SaveChart(chartPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "chart written to %s\n", chartPath)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
