package output

import (
	"fmt"
	"image/color"

	"github.com/mrzor/centrality-eta/internal/analysis"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg"
)

// PlotName returns the PNG file name of the i-th centrality bin.
func PlotName(i int) string {
	return fmt.Sprintf("d01-x01-y%02d.png", i+1)
}

// SavePlot draws h as a step histogram and saves it to path.
// The image format follows the file extension.
func SavePlot(h *hbook.H1D, upperEdge float64, path string) error {
	p := hplot.New()
	p.Title.Text = fmt.Sprintf("%s, centrality < %g%%", analysis.Name, upperEdge)
	p.Title.Padding = 2 * vg.Millimeter
	p.X.Label.Text = "η"
	p.Y.Label.Text = "(1/N) dN/dη"

	hh := hplot.NewH1D(h)
	hh.LineStyle.Color = color.Black
	hh.LineStyle.Width = vg.Points(1)
	p.Add(hh)
	p.Add(hplot.NewGrid())

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}
