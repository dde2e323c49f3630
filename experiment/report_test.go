package experiment

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YuminosukeSato/churngrid/model_selection"
)

func sampleReport() *Report {
	return &Report{
		Rows:     3333,
		Features: 17,
		Folds:    5,
		Seed:     42,
		Variants: []VariantResult{
			{
				Variant:      VariantBaseline,
				BestScore:    0.8012,
				BestStd:      0.0150,
				BestAccuracy: 0.8656,
				BestLogLoss:  0.4012,
				BestParams:   model_selection.Params{C: 1},
				Evaluated:    6,
			},
			{
				Variant:      VariantScaled,
				BestScore:    0.8173,
				BestStd:      0.0120,
				BestAccuracy: 0.8701,
				BestLogLoss:  0.3804,
				BestParams:   model_selection.Params{C: 10},
				Evaluated:    6,
			},
			{
				Variant:      VariantPolynomial,
				BestScore:    0.8474,
				BestStd:      0.0098,
				BestAccuracy: 0.8866,
				BestLogLoss:  0.3422,
				BestParams:   model_selection.Params{C: 0.1, Degree: 2, InteractionOnly: false},
				Evaluated:    23,
				Skipped: []SkippedPoint{
					{
						Params: model_selection.Params{C: 100, Degree: 2, InteractionOnly: true},
						Reason: "no scoreable folds",
					},
				},
			},
		},
	}
}

func TestReportRender(t *testing.T) {
	var buf bytes.Buffer
	sampleReport().Render(&buf)
	out := buf.String()

	for _, want := range []string{
		"3333 rows", "17 features", "5 folds", "seed 42",
		"baseline", "scaled", "polynomial",
		"0.8012", "0.8474", "0.8866", "0.3422",
		"C=10", "C=0.1, degree=2, interaction_only=false",
		"skipped polynomial point",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Rendered report missing %q:\n%s", want, out)
		}
	}
}

func TestReportBest(t *testing.T) {
	report := sampleReport()
	best := report.Best()
	if best == nil {
		t.Fatal("Best returned nil for a populated report")
	}
	if best.Variant != VariantPolynomial {
		t.Errorf("Best variant = %s, want polynomial", best.Variant)
	}

	// Ties resolve to the variant listed first.
	report.Variants[0].BestScore = 0.9
	report.Variants[2].BestScore = 0.9
	if got := report.Best(); got.Variant != VariantBaseline {
		t.Errorf("Tie resolved to %s, want baseline", got.Variant)
	}

	empty := &Report{}
	if empty.Best() != nil {
		t.Error("Best should be nil for an empty report")
	}
}

func TestSaveChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auc.png")

	if err := sampleReport().SaveChart(path); err != nil {
		t.Fatalf("SaveChart failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("chart file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("chart file is empty")
	}
}

func TestSaveChartEmptyReport(t *testing.T) {
	empty := &Report{}
	path := filepath.Join(t.TempDir(), "auc.png")
	if err := empty.SaveChart(path); err == nil {
		t.Error("Expected error for a report with no variants")
	}
}
