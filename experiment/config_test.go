package experiment

import (
	"context"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/churngrid/dataset"
	"github.com/YuminosukeSato/churngrid/pkg/errors"
)

// craftedTable builds a balanced, strongly separated churn table with the
// identifier columns the default drop-list removes.
func craftedTable(t *testing.T, n int) *dataset.Table {
	t.Helper()
	columns := []string{"state", "area_code", "phone_number", "day_minutes", "eve_calls", "churn"}
	values := make([]float64, 0, n*len(columns))
	for i := 0; i < n; i++ {
		class := float64(i % 2)
		day := 0.5 + 0.02*float64(i)
		eve := 0.8 + 0.01*float64(i)
		if class == 1 {
			day += 4.5
			eve += 4.7
		}
		values = append(values,
			float64(i%50),        // state
			408+float64(i%3),     // area_code
			3_300_000+float64(i), // phone_number
			day, eve, class)
	}
	table, err := dataset.New(columns, mat.NewDense(n, len(columns), values))
	if err != nil {
		t.Fatalf("failed to build table: %v", err)
	}
	return table
}

// testConfig returns a small, fast configuration for the crafted table.
func testConfig() Config {
	cs := []float64{0.01, 1, 100}
	return Config{
		Target:      "churn",
		DropColumns: []string{"state", "area_code", "phone_number"},
		Folds:       4,
		Seed:        42,
		Baseline:    BaselineGrid{C: cs},
		Scaled:      ScaledGrid{C: cs},
		Polynomial: PolynomialGrid{
			Degree:          []int{1, 2},
			InteractionOnly: []bool{false, true},
			C:               cs,
		},
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Target != "churn" {
		t.Errorf("Target = %q, want churn", cfg.Target)
	}
	if cfg.Folds != 5 {
		t.Errorf("Folds = %d, want 5", cfg.Folds)
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Seed)
	}
	if len(cfg.DropColumns) != 3 {
		t.Errorf("DropColumns = %v, want 3 entries", cfg.DropColumns)
	}
	if len(cfg.Baseline.C) != 6 || len(cfg.Scaled.C) != 6 || len(cfg.Polynomial.C) != 6 {
		t.Error("Every variant should carry the 6-value C grid")
	}
	if len(cfg.Polynomial.Degree) != 2 || len(cfg.Polynomial.InteractionOnly) != 2 {
		t.Error("Polynomial grid should span degrees {1,2} and interaction {false,true}")
	}
}

func TestConfigValidation(t *testing.T) {
	table := craftedTable(t, 20)

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			"missing target column",
			func(c *Config) { c.Target = "missing" },
			"target",
		},
		{
			"unknown drop column",
			func(c *Config) { c.DropColumns = []string{"state", "missing"} },
			"drop_columns",
		},
		{
			"dropping the target",
			func(c *Config) { c.DropColumns = []string{"churn"} },
			"drop_columns",
		},
		{
			"folds below 2",
			func(c *Config) { c.Folds = 1 },
			"folds",
		},
		{
			"folds above row count",
			func(c *Config) { c.Folds = 21 },
			"folds",
		},
		{
			"empty baseline grid",
			func(c *Config) { c.Baseline.C = nil },
			"baseline.c",
		},
		{
			"empty polynomial degree grid",
			func(c *Config) { c.Polynomial.Degree = nil },
			"polynomial.degree",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			_, err := NewRunner(cfg, table).Run(context.Background())
			if err == nil {
				t.Fatalf("Expected error for %s", tt.name)
			}

			var confErr *errors.ConfigurationError
			if !errors.As(err, &confErr) {
				t.Fatalf("Expected ConfigurationError, got %T: %v", err, err)
			}
			if confErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", confErr.Field, tt.field)
			}
		})
	}
}

func TestConfigValidationNonBinaryTarget(t *testing.T) {
	columns := []string{"day_minutes", "churn"}
	values := []float64{
		1.0, 0,
		2.0, 1,
		3.0, 2,
		4.0, 1,
	}
	table, err := dataset.New(columns, mat.NewDense(4, 2, values))
	if err != nil {
		t.Fatalf("failed to build table: %v", err)
	}

	cfg := testConfig()
	cfg.DropColumns = nil
	cfg.Folds = 2

	_, err = NewRunner(cfg, table).Run(context.Background())
	if err == nil {
		t.Fatal("Expected error for non-binary target")
	}
	var confErr *errors.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("Expected ConfigurationError, got %T", err)
	}
	if confErr.Field != "target" {
		t.Errorf("Field = %q, want target", confErr.Field)
	}
}
