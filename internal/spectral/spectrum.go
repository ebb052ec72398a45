package spectral

import (
	"math"

	"github.com/san-kum/hitsim/internal/field"
)

// Curve is a shell-binned kinetic-energy spectrum: energy density E(k)
// sampled at wavenumber bins K. Bin 0 is the zero mode.
type Curve struct {
	K []float64
	E []float64
}

// Spectrum computes the discrete kinetic-energy spectrum of a velocity
// field. Fourier amplitudes are normalized by N^3, binned onto integer
// spherical shells, and divided by the bin width dk = 2*pi/L so that
// sum(E*dk) recovers the cell-averaged kinetic energy of resolved shells.
func Spectrum(f *field.Field) *Curve {
	n := f.N
	n3 := float64(n * n * n)
	dk := 2.0 * math.Pi / f.L

	nBins := n/2 + 1
	energy := make([]float64, nBins)

	for _, comp := range f.Components() {
		hat := FFT3(comp, n)

		for k := 0; k < n; k++ {
			mk := modeNumber(k, n)
			for j := 0; j < n; j++ {
				mj := modeNumber(j, n)
				for i := 0; i < n; i++ {
					mi := modeNumber(i, n)

					shell := int(math.Round(math.Sqrt(float64(mi*mi + mj*mj + mk*mk))))
					if shell >= nBins {
						continue
					}

					c := hat[i+n*(j+n*k)]
					amp := real(c)*real(c) + imag(c)*imag(c)
					energy[shell] += 0.5 * amp / (n3 * n3)
				}
			}
		}
	}

	curve := &Curve{
		K: make([]float64, nBins),
		E: make([]float64, nBins),
	}
	for s := 0; s < nBins; s++ {
		curve.K[s] = float64(s) * dk
		curve.E[s] = energy[s] / dk
	}
	return curve
}

// modeNumber maps an FFT bin index to its signed integer mode.
func modeNumber(i, n int) int {
	if i < (n+1)/2 {
		return i
	}
	return i - n
}

// TotalEnergy integrates the curve, sum(E*dk) over all shells.
func (c *Curve) TotalEnergy() float64 {
	if len(c.K) < 2 {
		return 0
	}
	dk := c.K[1] - c.K[0]
	total := 0.0
	for _, e := range c.E {
		total += e * dk
	}
	return total
}
