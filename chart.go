package curvelab

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ============================================================
// Chart rendering
// ============================================================

// Default figure size, matching a 6x5 inch canvas.
const (
	chartWidth  = 6 * vg.Inch
	chartHeight = 5 * vg.Inch
)

var (
	colorData      = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	colorFit       = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
	colorGPoint    = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	colorHighlight = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
)

// Chart builds the annotated figure for one analysis: data scatter,
// best-fit line when present, the G Point as a cross marker, and the
// highlighted random samples with coordinate labels. The title gains a
// subtitle reporting the G Point and, when defined, the slope there.
func Chart(res *AnalysisResult, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = chartTitle(res, title)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	pts := make(plotter.XYs, len(res.X))
	for i := range pts {
		pts[i].X = res.X[i]
		pts[i].Y = res.Y[i]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyle.Color = colorData
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)
	p.Legend.Add("Data points", scatter)

	if res.Fit != nil {
		linePts := make(plotter.XYs, len(res.X))
		for i := range linePts {
			linePts[i].X = res.X[i]
			linePts[i].Y = res.FitY[i]
		}
		line, err := plotter.NewLine(linePts)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = colorFit
		p.Add(line)
		p.Legend.Add("Best fit line", line)
	}

	gPoint, err := plotter.NewScatter(plotter.XYs{{X: res.GX, Y: res.GY}})
	if err != nil {
		return nil, err
	}
	gPoint.GlyphStyle = draw.GlyphStyle{
		Color:  colorGPoint,
		Radius: vg.Points(5),
		Shape:  draw.CrossGlyph{},
	}
	p.Add(gPoint)
	p.Legend.Add("G Point", gPoint)

	if len(res.Highlights) > 0 {
		hl := make(plotter.XYs, len(res.Highlights))
		labels := make([]string, len(res.Highlights))
		for i, idx := range res.Highlights {
			hl[i].X = res.X[idx]
			hl[i].Y = res.Y[idx]
			labels[i] = fmt.Sprintf("(%.3g, %.3g)", res.X[idx], res.Y[idx])
		}
		hlScatter, err := plotter.NewScatter(hl)
		if err != nil {
			return nil, err
		}
		hlScatter.GlyphStyle.Color = colorHighlight
		hlScatter.GlyphStyle.Radius = vg.Points(4)
		p.Add(hlScatter)
		p.Legend.Add("Random points", hlScatter)

		annot, err := plotter.NewLabels(plotter.XYLabels{XYs: hl, Labels: labels})
		if err != nil {
			return nil, err
		}
		p.Add(annot)
	}

	return p, nil
}

func chartTitle(res *AnalysisResult, title string) string {
	sub := fmt.Sprintf("G=(%.4g, %.4g)", res.GX, res.GY)
	if !math.IsNaN(res.Slope) {
		sub += fmt.Sprintf("   |   slope at G=%.4g", res.Slope)
	}
	if title == "" {
		return sub
	}
	return title + "\n" + sub
}

// WriteChartPNG renders the figure as PNG bytes. Nothing is written if
// building the figure fails.
func WriteChartPNG(res *AnalysisResult, title string, w io.Writer) error {
	p, err := Chart(res, title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SaveChart renders the figure to a file; the format follows the path
// extension.
func SaveChart(res *AnalysisResult, title, path string) error {
	p, err := Chart(res, title)
	if err != nil {
		return err
	}
	return p.Save(chartWidth, chartHeight, path)
}

// StatusLine renders the one-line summary shown under the chart, with
// "n/a" for an undefined slope.
func (r *AnalysisResult) StatusLine() string {
	slope := "n/a"
	if !math.IsNaN(r.Slope) {
		slope = fmt.Sprintf("%.6g", r.Slope)
	}
	return fmt.Sprintf("G Point: (%.6g, %.6g)    |    Slope at G: %s", r.GX, r.GY, slope)
}
