package experiment

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/YuminosukeSato/churngrid/model_selection"
)

// SkippedPoint records a grid point that produced no score on any fold.
type SkippedPoint struct {
	Params model_selection.Params
	Reason string
}

// VariantResult is the condensed outcome of one variant's grid search.
// BestAccuracy and BestLogLoss are the winning point's secondary statistics,
// averaged over the same folds as the winning AUC.
type VariantResult struct {
	Variant      Variant
	BestScore    float64
	BestStd      float64
	BestAccuracy float64
	BestLogLoss  float64
	BestParams   model_selection.Params
	Evaluated    int
	Skipped      []SkippedPoint
}

// Report holds the three variant results in their fixed order baseline,
// scaled, polynomial, plus the shared run parameters.
type Report struct {
	Variants []VariantResult
	Rows     int
	Features int
	Folds    int
	Seed     int64
}

// Best returns the variant with the highest best score, or nil for an empty
// report. Ties break toward the earlier variant, keeping the report
// deterministic.
func (r *Report) Best() *VariantResult {
	if len(r.Variants) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(r.Variants); i++ {
		if r.Variants[i].BestScore > r.Variants[best].BestScore {
			best = i
		}
	}
	return &r.Variants[best]
}

// Render writes the result table in ASCII form.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintf(w, "%d rows, %d features, %d folds, seed %d\n",
		r.Rows, r.Features, r.Folds, r.Seed)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Variant", "Best AUC", "Std", "Accuracy", "Log Loss", "Best Params", "Evaluated", "Skipped"})
	for _, v := range r.Variants {
		table.Append([]string{
			string(v.Variant),
			fmt.Sprintf("%.4f", v.BestScore),
			fmt.Sprintf("%.4f", v.BestStd),
			fmt.Sprintf("%.4f", v.BestAccuracy),
			fmt.Sprintf("%.4f", v.BestLogLoss),
			v.BestParams.String(),
			strconv.Itoa(v.Evaluated),
			strconv.Itoa(len(v.Skipped)),
		})
	}
	table.Render()

	for _, v := range r.Variants {
		for _, point := range v.Skipped {
			fmt.Fprintf(w, "skipped %s point %s: %s\n", v.Variant, point.Params, point.Reason)
		}
	}
}
