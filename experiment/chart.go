package experiment

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/churngrid/pkg/errors"
)

// SaveChart renders the three best scores as a bar chart. The y-axis is
// pinned to [0, 1] so charts from different runs compare directly. A panic
// inside the plotting stack comes back as an error, not a crash.
func (r *Report) SaveChart(path string) error {
	if len(r.Variants) == 0 {
		return errors.NewValueError("Report.SaveChart", "report has no variant results")
	}

	return errors.SafeExecute("render chart", func() error {
		p := plot.New()
		p.Title.Text = "Best cross-validated AUC by pipeline variant"
		p.Y.Label.Text = "ROC-AUC"
		p.Y.Min = 0
		p.Y.Max = 1

		values := make(plotter.Values, len(r.Variants))
		names := make([]string, len(r.Variants))
		for i, v := range r.Variants {
			values[i] = v.BestScore
			names[i] = string(v.Variant)
		}

		bars, err := plotter.NewBarChart(values, vg.Points(40))
		if err != nil {
			return errors.Wrap(err, "failed to build bar chart")
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = color.RGBA{R: 68, G: 119, B: 170, A: 255}
		p.Add(bars)
		p.NominalX(names...)

		if err := p.Save(5*vg.Inch, 4*vg.Inch, path); err != nil {
			return errors.Wrapf(err, "failed to save chart to %s", path)
		}
		return nil
	})
}
