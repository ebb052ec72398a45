// Package plot renders kinetic-energy spectra against the CBC reference
// curves on shared log-log axes.
//
// A Figure accumulates series across checkpoints: the driver adds one
// simulated spectrum per time window onto the same axes, then saves once or
// repeatedly. Series colors, axis limits, and the grid-cutoff marker follow
// the conventions of the experimental comparison.
package plot

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/hitsim/internal/field"
	"github.com/san-kum/hitsim/internal/refdata"
	"github.com/san-kum/hitsim/internal/spectral"
)

// Fixed axis window for the CBC comparison.
const (
	XMin = 10.0
	XMax = 2000.0
	YMin = 1e-8
	YMax = 1e-3

	figureWidth  = 760
	figureHeight = 570

	referenceLabel = "CBC (exp)"
)

var (
	cutoffColor = drawing.Color{R: 128, G: 128, B: 128, A: 255}
	gridColor   = drawing.Color{R: 0, G: 0, B: 0, A: 40}
)

// Options control a single comparison pass over a velocity field.
type Options struct {
	// CBCPath points at the experimental table; empty skips the
	// reference curve.
	CBCPath string
	// Column selects the experimental time column (1-based past the
	// wavenumber column).
	Column int
	// Label names the simulated series in the legend.
	Label string
	// OutPath, when set, renders the accumulated figure to a PNG file.
	OutPath string
}

// Figure is an accumulating spectrum plot. The zero value is not usable;
// construct with New.
type Figure struct {
	series   []chart.Series
	simCount int
}

func New() *Figure {
	return &Figure{}
}

// CutoffWavenumber is the vertical-marker position 2*pi / (L / (N/2)),
// the wavenumber of twice the effective grid spacing.
func CutoffWavenumber(length float64, resolution int) float64 {
	return 2.0 * math.Pi / (length / (float64(resolution) / 2.0))
}

// SeriesLabels returns the legend labels currently on the figure, in draw
// order. Unlabeled decoration series are skipped.
func (f *Figure) SeriesLabels() []string {
	var labels []string
	for _, s := range f.series {
		if name := seriesName(s); name != "" {
			labels = append(labels, name)
		}
	}
	return labels
}

func (f *Figure) hasReference() bool {
	for _, s := range f.series {
		if strings.Contains(seriesName(s), "CBC") {
			return true
		}
	}
	return false
}

func seriesName(s chart.Series) string {
	if cs, ok := s.(chart.ContinuousSeries); ok {
		return cs.Name
	}
	return s.GetName()
}

// AddReference overlays an experimental curve in black. Adding is skipped
// when the figure already holds a series labeled with "CBC", so repeated
// passes do not duplicate the legend entry.
func (f *Figure) AddReference(ref *refdata.Reference) {
	if f.hasReference() {
		return
	}
	f.series = append(f.series, chart.ContinuousSeries{
		Name:    referenceLabel,
		XValues: ref.Wavenumbers,
		YValues: ref.Energies,
		Style: chart.Style{
			StrokeColor: chart.ColorBlack,
			StrokeWidth: 1.5,
		},
	})
}

// AddSpectrum overlays a simulated spectrum. Bin 0 (the zero mode) is
// dropped, as are non-positive energies that a log axis cannot place. Each
// call advances the palette counter.
func (f *Figure) AddSpectrum(curve *spectral.Curve, label string) {
	xs := make([]float64, 0, len(curve.K))
	ys := make([]float64, 0, len(curve.E))
	for i := 1; i < len(curve.K); i++ {
		if curve.E[i] <= 0 {
			continue
		}
		xs = append(xs, curve.K[i])
		ys = append(ys, curve.E[i])
	}

	col := PaletteColor(f.simCount)
	f.simCount++

	f.series = append(f.series, chart.ContinuousSeries{
		Name:    label,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: col,
			StrokeWidth: 1.0,
			DotColor:    col,
			DotWidth:    2.5,
		},
	})
}

// AddCutoff draws the dashed grey vertical marker at the grid cutoff. The
// series carries no label and stays out of the legend.
func (f *Figure) AddCutoff(length float64, resolution int) {
	kc := CutoffWavenumber(length, resolution)
	f.series = append(f.series, chart.ContinuousSeries{
		XValues: []float64{kc, kc},
		YValues: []float64{YMin, YMax},
		Style: chart.Style{
			StrokeColor:     cutoffColor,
			StrokeWidth:     1.0,
			StrokeDashArray: []float64{4.0, 4.0},
		},
	})
}

// PlotField runs one full comparison pass: reference overlay (if requested
// and not yet present), simulated spectrum of the field, cutoff marker, and
// an optional render to disk. It returns the figure so calls chain across
// time windows.
func (f *Figure) PlotField(fld *field.Field, opts Options) (*Figure, error) {
	return f.PlotCurve(spectral.Spectrum(fld), opts, fld.L, fld.N)
}

// PlotCurve is PlotField for a spectrum that already exists, e.g. one
// reloaded from a stored run. length and resolution place the cutoff.
func (f *Figure) PlotCurve(c *spectral.Curve, opts Options, length float64, resolution int) (*Figure, error) {
	if opts.CBCPath != "" {
		ref, err := refdata.Load(opts.CBCPath, opts.Column)
		if err != nil {
			return f, fmt.Errorf("plot: reference load: %w", err)
		}
		f.AddReference(ref)
	}

	f.AddSpectrum(c, opts.Label)
	f.AddCutoff(length, resolution)

	if opts.OutPath != "" {
		if err := f.Save(opts.OutPath); err != nil {
			return f, err
		}
	}
	return f, nil
}

// Render writes the accumulated figure as a PNG.
func (f *Figure) Render(w io.Writer) error {
	graph := chart.Chart{
		Width:  figureWidth,
		Height: figureHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 16, Left: 12, Right: 16, Bottom: 12},
		},
		XAxis: chart.XAxis{
			Name:           "κ (1/m)",
			Range:          &chart.LogarithmicRange{Min: XMin, Max: XMax},
			Ticks:          logTicks(XMin, XMax),
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 1.0},
			GridMinorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 0.5},
		},
		YAxis: chart.YAxis{
			Name:           "E(κ) (m³/s²)",
			Range:          &chart.LogarithmicRange{Min: YMin, Max: YMax},
			Ticks:          logTicks(YMin, YMax),
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 1.0},
			GridMinorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 0.5},
		},
		Series: f.series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

// Save renders to path and logs a confirmation.
func (f *Figure) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := f.Render(file); err != nil {
		return err
	}
	logrus.WithField("path", path).Info("figure saved")
	return nil
}

// logTicks produces decade tick marks spanning [lo, hi], endpoints
// included; the logarithmic axis needs explicit ticks below 1.
func logTicks(lo, hi float64) []chart.Tick {
	ticks := []chart.Tick{{Value: lo, Label: formatTick(lo)}}
	for exp := math.Ceil(math.Log10(lo)); exp <= math.Floor(math.Log10(hi)); exp++ {
		v := math.Pow(10, exp)
		if v <= lo || v >= hi {
			continue
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
	}
	ticks = append(ticks, chart.Tick{Value: hi, Label: formatTick(hi)})
	return ticks
}

func formatTick(v float64) string {
	if v >= 1 {
		return fmt.Sprintf("%g", v)
	}
	return fmt.Sprintf("%.0e", v)
}
