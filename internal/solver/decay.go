package solver

import (
	"math"

	"github.com/san-kum/hitsim/internal/field"
	"github.com/san-kum/hitsim/internal/spectral"
)

// Decay advances a periodic velocity field under pure viscous diffusion,
// integrated exactly in Fourier space: u_hat *= exp(-nu k^2 dt). It is the
// reference stand-in for an external flow solver; there is no pressure
// projection and no closure model here.
type Decay struct {
	f    *field.Field
	nu   float64
	time float64

	kSq []float64
}

func NewDecay(f *field.Field, nu float64) *Decay {
	return NewDecayAt(f, nu, 0)
}

// NewDecayAt resumes at a given simulation time, e.g. from a checkpoint.
func NewDecayAt(f *field.Field, nu float64, t float64) *Decay {
	n := f.N
	freqs := spectral.Frequencies(n, f.L)

	kSq := make([]float64, n*n*n)
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			kjk := freqs[j]*freqs[j] + freqs[k]*freqs[k]
			for i := 0; i < n; i++ {
				kSq[i+n*(j+n*k)] = freqs[i]*freqs[i] + kjk
			}
		}
	}

	return &Decay{f: f, nu: nu, time: t, kSq: kSq}
}

func (d *Decay) Time() float64       { return d.time }
func (d *Decay) Field() *field.Field { return d.f }
func (d *Decay) Viscosity() float64  { return d.nu }

func (d *Decay) Step(dt float64) error {
	n := d.f.N

	for _, comp := range d.f.Components() {
		hat := spectral.FFT3(comp, n)
		for i := range hat {
			decay := math.Exp(-d.nu * d.kSq[i] * dt)
			hat[i] = complex(real(hat[i])*decay, imag(hat[i])*decay)
		}
		back := spectral.IFFT3(hat, n)
		for i := range comp {
			comp[i] = real(back[i])
		}
	}

	d.time += dt

	if !d.f.IsValid() {
		return ErrUnstable
	}
	return nil
}
