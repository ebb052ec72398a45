package plot

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/hitsim/internal/field"
	"github.com/san-kum/hitsim/internal/spectral"
)

func writeCBC(t *testing.T) string {
	t.Helper()
	content := "0.2 129 106\n0.5 457 168\n2.0 120 34.6\n10.0 7.42 0.9\n20.0 0.8 0.033\n"
	path := filepath.Join(t.TempDir(), "cbc.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func sineField(t *testing.T) *field.Field {
	t.Helper()
	f, err := field.New(16, 9.0*2.0*math.Pi/100.0)
	if err != nil {
		t.Fatal(err)
	}
	for k := 0; k < 16; k++ {
		for j := 0; j < 16; j++ {
			for i := 0; i < 16; i++ {
				x := float64(i) * f.Spacing()
				f.U[f.Idx(i, j, k)] = 0.1 * math.Cos(2.0*math.Pi*x/f.L*3.0)
			}
		}
	}
	return f
}

func TestCutoffWavenumber(t *testing.T) {
	length := 9.0 * 2.0 * math.Pi / 100.0
	want := 2.0 * math.Pi / (length / 16.0)

	got := CutoffWavenumber(length, 32)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("cutoff %v, want %v", got, want)
	}
	// literal value: 2*pi*16 / (9*2*pi/100) = 1600/9
	if math.Abs(got-1600.0/9.0) > 1e-9 {
		t.Errorf("cutoff %v, want %v", got, 1600.0/9.0)
	}
}

func TestReferenceDeduplicated(t *testing.T) {
	cbc := writeCBC(t)
	fld := sineField(t)

	fig := New()
	var err error
	fig, err = fig.PlotField(fld, Options{CBCPath: cbc, Column: 1, Label: "t=0.5"})
	if err != nil {
		t.Fatal(err)
	}
	fig, err = fig.PlotField(fld, Options{CBCPath: cbc, Column: 2, Label: "t=1.0"})
	if err != nil {
		t.Fatal(err)
	}

	count := 0
	for _, label := range fig.SeriesLabels() {
		if strings.Contains(label, "CBC") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one CBC series, got %d (labels %v)", count, fig.SeriesLabels())
	}
}

func TestPaletteDeterministic(t *testing.T) {
	if PaletteColor(0) != PaletteColor(10) {
		t.Error("palette should wrap at 10")
	}
	if PaletteColor(0) == PaletteColor(1) {
		t.Error("successive colors should differ")
	}

	fig := New()
	curve := &spectral.Curve{K: []float64{0, 50, 100}, E: []float64{0, 1e-5, 1e-6}}
	fig.AddSpectrum(curve, "a")
	fig.AddSpectrum(curve, "b")
	if fig.simCount != 2 {
		t.Errorf("palette counter %d, want 2", fig.simCount)
	}
}

func TestAddSpectrumDropsZeroMode(t *testing.T) {
	fig := New()
	curve := &spectral.Curve{
		K: []float64{0, 50, 100, 150},
		E: []float64{9.9, 1e-5, 0, 1e-6},
	}
	fig.AddSpectrum(curve, "s")

	// bin 0 and the zero-energy bin are both dropped
	xs := fig.series[0].(interface{ Len() int })
	if xs.Len() != 2 {
		t.Errorf("expected 2 plotted bins, got %d", xs.Len())
	}
}

func TestSeriesLabelsSkipCutoff(t *testing.T) {
	fig := New()
	fig.AddCutoff(1.0, 32)
	if len(fig.SeriesLabels()) != 0 {
		t.Errorf("cutoff must not appear in legend labels: %v", fig.SeriesLabels())
	}
}

func TestRenderPNG(t *testing.T) {
	cbc := writeCBC(t)
	fld := sineField(t)

	fig := New()
	if _, err := fig.PlotField(fld, Options{CBCPath: cbc, Column: 1, Label: "t=0.5"}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := fig.Render(&buf); err != nil {
		t.Fatal(err)
	}

	png := []byte{0x89, 'P', 'N', 'G'}
	if !bytes.HasPrefix(buf.Bytes(), png) {
		t.Error("render output is not a PNG")
	}
}

func TestSaveWritesFile(t *testing.T) {
	fld := sineField(t)

	fig := New()
	fig.AddSpectrum(spectral.Spectrum(fld), "t=0.5")
	fig.AddCutoff(fld.L, fld.N)

	path := filepath.Join(t.TempDir(), "spec.png")
	if err := fig.Save(path); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("saved figure is empty")
	}
}

func TestPlotFieldBadReference(t *testing.T) {
	fld := sineField(t)
	fig := New()
	if _, err := fig.PlotField(fld, Options{CBCPath: "no/such/file.txt", Column: 1}); err == nil {
		t.Error("missing reference file should fail")
	}
}
