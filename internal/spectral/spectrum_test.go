package spectral

import (
	"math"
	"testing"

	"github.com/san-kum/hitsim/internal/field"
)

func TestFrequenciesOrdering(t *testing.T) {
	k := Frequencies(8, 2*math.Pi)

	// unit domain spacing 2*pi gives integer wavenumbers in FFT order
	want := []float64{0, 1, 2, 3, -4, -3, -2, -1}
	for i := range want {
		if math.Abs(k[i]-want[i]) > 1e-12 {
			t.Errorf("bin %d: got %f, want %f", i, k[i], want[i])
		}
	}
}

func TestFFT3RoundTrip(t *testing.T) {
	n := 8
	data := make([]float64, n*n*n)
	for i := range data {
		data[i] = math.Sin(float64(i)*0.37) + 0.2*float64(i%5)
	}

	back := IFFT3(FFT3(data, n), n)

	for i := range data {
		if math.Abs(real(back[i])-data[i]) > 1e-9 {
			t.Fatalf("index %d: round trip %f != %f", i, real(back[i]), data[i])
		}
		if math.Abs(imag(back[i])) > 1e-9 {
			t.Fatalf("index %d: residual imaginary part %e", i, imag(back[i]))
		}
	}
}

func TestSpectrumZeroField(t *testing.T) {
	f, _ := field.New(8, 1.0)
	curve := Spectrum(f)

	for i, e := range curve.E {
		if e != 0 {
			t.Errorf("bin %d: zero field should give zero energy, got %e", i, e)
		}
	}
}

func TestSpectrumSingleMode(t *testing.T) {
	n := 16
	length := 2 * math.Pi
	f, _ := field.New(n, length)

	// u = A cos(k1 x) puts all energy, A^2/4, in shell 1
	amp := 2.0
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				x := float64(i) * length / float64(n)
				f.U[f.Idx(i, j, k)] = amp * math.Cos(x)
			}
		}
	}

	curve := Spectrum(f)
	dk := curve.K[1] - curve.K[0]

	if math.Abs(curve.E[1]*dk-amp*amp/4) > 1e-9 {
		t.Errorf("shell 1 energy: got %e, want %e", curve.E[1]*dk, amp*amp/4)
	}
	for s := range curve.E {
		if s == 1 {
			continue
		}
		if math.Abs(curve.E[s]) > 1e-9 {
			t.Errorf("shell %d should be empty, got %e", s, curve.E[s])
		}
	}
}

func TestSpectrumParseval(t *testing.T) {
	n := 8
	f, _ := field.New(n, 1.0)
	for i := range f.U {
		f.U[i] = math.Sin(float64(3*i) * 0.11)
		f.V[i] = math.Cos(float64(i) * 0.07)
		f.W[i] = 0.3 * math.Sin(float64(i)*0.21)
	}

	curve := Spectrum(f)

	// shell binning with round() keeps every mode of an 8^3 grid (max
	// |m| component is 4, shell index <= 6 < nBins only when all corners
	// fit; modes beyond N/2 shells are dropped, so compare loosely
	ke := f.KineticEnergy()
	total := curve.TotalEnergy()

	if total > ke+1e-9 {
		t.Errorf("binned energy %e exceeds field energy %e", total, ke)
	}
	if total < 0.5*ke {
		t.Errorf("binned energy %e lost more than half of %e", total, ke)
	}
}

func TestModeNumber(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 8, 0},
		{3, 8, 3},
		{4, 8, -4},
		{7, 8, -1},
		{2, 5, 2},
		{3, 5, -2},
	}
	for _, tt := range tests {
		if got := modeNumber(tt.i, tt.n); got != tt.want {
			t.Errorf("modeNumber(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}
