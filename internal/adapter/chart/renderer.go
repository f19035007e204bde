package chart

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log/slog"

	"github.com/couchcryptid/nyc-collision-visualizer/internal/adapter/artifact"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Output file names.
const (
	HourChartFile   = "crashes_by_hour.png"
	DayChartFile    = "crashes_by_day.png"
	FactorChartFile = "top_contributing_factors.png"
)

// DefaultDPI is the raster resolution of saved charts.
const DefaultDPI = 300

// fallbackColor is used if a colour map cannot produce a value.
var fallbackColor = color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0xff}

// layout holds the file name, labels and geometry of one chart.
type layout struct {
	file       string
	title      string
	xLabel     string
	yLabel     string
	width      vg.Length
	height     vg.Length
	horizontal bool
	colors     func() palette.ColorMap
}

var (
	hourLayout = layout{
		file:   HourChartFile,
		title:  "Crashes by Hour of Day",
		xLabel: "Hour",
		yLabel: "Number of Crashes",
		width:  12 * vg.Inch,
		height: 7 * vg.Inch,
		colors: func() palette.ColorMap { return moreland.SmoothBlueRed() },
	}
	dayLayout = layout{
		file:   DayChartFile,
		title:  "Crashes by Day of Week",
		xLabel: "Day of Week",
		yLabel: "Number of Crashes",
		width:  12 * vg.Inch,
		height: 7 * vg.Inch,
		colors: moreland.Kindlmann,
	}
	factorLayout = layout{
		file:       FactorChartFile,
		title:      "Top 10 Contributing Factors (Vehicle 1)",
		xLabel:     "Number of Crashes",
		yLabel:     "Contributing Factor",
		width:      12 * vg.Inch,
		height:     8 * vg.Inch,
		horizontal: true,
		colors:     moreland.BlackBody,
	}
)

// Renderer draws aggregate bar charts to PNG files.
// It implements pipeline.ChartRenderer.
type Renderer struct {
	outputDir string
	dpi       int
	logger    *slog.Logger
}

// NewRenderer creates a Renderer writing into outputDir at the given DPI.
func NewRenderer(outputDir string, dpi int, logger *slog.Logger) *Renderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{outputDir: outputDir, dpi: dpi, logger: logger}
}

// RenderHourChart draws one bar per observed hour.
func (r *Renderer) RenderHourChart(_ context.Context, counts []domain.Count) (string, error) {
	return r.render(hourLayout, counts)
}

// RenderDayChart draws one bar per weekday, in the order given.
func (r *Renderer) RenderDayChart(_ context.Context, counts []domain.Count) (string, error) {
	return r.render(dayLayout, counts)
}

// RenderFactorChart draws horizontal bars with the first count at the top.
func (r *Renderer) RenderFactorChart(_ context.Context, counts []domain.Count) (string, error) {
	return r.render(factorLayout, counts)
}

func (r *Renderer) render(s layout, counts []domain.Count) (string, error) {
	p, err := newBarPlot(s, counts)
	if err != nil {
		return "", fmt.Errorf("build %s: %w", s.file, err)
	}

	path, err := artifact.Write(r.outputDir, s.file, func(w io.Writer) error {
		c := vgimg.NewWith(vgimg.UseWH(s.width, s.height), vgimg.UseDPI(r.dpi))
		p.Draw(draw.New(c))
		_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
		return err
	})
	if err != nil {
		return "", err
	}
	r.logger.Debug("chart rendered", "file", s.file, "bars", len(counts), "dpi", r.dpi)
	return path, nil
}

// newBarPlot lays out one bar per count on a nominal axis. Each bar is its
// own BarChart so it can take a colour from the gradient.
func newBarPlot(s layout, counts []domain.Count) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = s.title
	p.Title.TextStyle.Font.Size = vg.Points(18)
	p.X.Label.Text = s.xLabel
	p.Y.Label.Text = s.yLabel
	p.X.Label.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.TextStyle.Font.Size = vg.Points(14)
	p.X.Tick.Label.Font.Size = vg.Points(12)
	p.Y.Tick.Label.Font.Size = vg.Points(12)

	grid := plotter.NewGrid()
	if s.horizontal {
		grid.Horizontal.Color = nil
	}
	p.Add(grid)

	n := len(counts)
	colors := gradient(s.colors(), n)
	width := barWidth(s, n)
	labels := make([]string, n)

	for i, c := range counts {
		pos := i
		if s.horizontal {
			pos = n - 1 - i
		}
		labels[pos] = c.Label

		bars, err := plotter.NewBarChart(plotter.Values{float64(c.Value)}, width)
		if err != nil {
			return nil, fmt.Errorf("bar %q: %w", c.Label, err)
		}
		bars.XMin = float64(pos)
		bars.Horizontal = s.horizontal
		bars.Color = colors[i]
		bars.LineStyle.Width = 0
		p.Add(bars)
	}

	switch {
	case n == 0:
		// Nominal axes need at least one label.
	case s.horizontal:
		p.NominalY(labels...)
	default:
		p.NominalX(labels...)
	}
	return p, nil
}

// barWidth spreads bars across ~70% of the category axis, capped at one inch.
func barWidth(s layout, n int) vg.Length {
	if n < 1 {
		n = 1
	}
	axis := s.width
	if s.horizontal {
		axis = s.height
	}
	w := axis * 0.7 / vg.Length(n)
	if w > vg.Inch {
		w = vg.Inch
	}
	return w
}

// gradient samples n evenly spaced colours from a colour map.
func gradient(cm palette.ColorMap, n int) []color.Color {
	cm.SetMax(1)
	cm.SetMin(0)

	out := make([]color.Color, n)
	for i := range out {
		v := 0.5
		if n > 1 {
			v = float64(i) / float64(n-1)
		}
		c, err := cm.At(v)
		if err != nil {
			c = fallbackColor
		}
		out[i] = c
	}
	return out
}
