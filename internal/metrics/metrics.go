package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/hitsim/internal/field"
	"github.com/san-kum/hitsim/internal/spectral"
)

type Metric interface {
	Name() string
	Observe(f *field.Field, t float64)
	Value() float64
	Reset()
}

// KineticEnergy tracks the resolved kinetic energy of the latest observed
// field.
type KineticEnergy struct {
	current float64
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) Observe(f *field.Field, t float64) {
	k.current = f.KineticEnergy()
}

func (k *KineticEnergy) Value() float64 { return k.current }

func (k *KineticEnergy) Reset() { k.current = 0 }

// DecayFraction reports the remaining energy fraction relative to the first
// observation.
type DecayFraction struct {
	initial float64
	current float64
	samples int
}

func NewDecayFraction() *DecayFraction { return &DecayFraction{} }

func (d *DecayFraction) Name() string { return "decay_fraction" }

func (d *DecayFraction) Observe(f *field.Field, t float64) {
	ke := f.KineticEnergy()
	if d.samples == 0 {
		d.initial = ke
	}
	d.current = ke
	d.samples++
}

func (d *DecayFraction) Value() float64 {
	if d.initial == 0 {
		return 0
	}
	return d.current / d.initial
}

func (d *DecayFraction) Reset() {
	d.initial = 0
	d.current = 0
	d.samples = 0
}

// DissipationRate estimates the viscous dissipation 2*nu*sum(k^2 E(k) dk)
// from a binned spectrum.
func DissipationRate(c *spectral.Curve, nu float64) float64 {
	if len(c.K) < 2 {
		return 0
	}
	dk := c.K[1] - c.K[0]

	weighted := make([]float64, len(c.K))
	for i := range weighted {
		weighted[i] = c.K[i] * c.K[i] * c.E[i]
	}
	return 2.0 * nu * floats.Sum(weighted) * dk
}

// TaylorMicroscale returns lambda = sqrt(10 nu K / eps) for a binned
// spectrum, the standard isotropic estimate.
func TaylorMicroscale(c *spectral.Curve, nu float64) float64 {
	eps := DissipationRate(c, nu)
	if eps == 0 {
		return 0
	}
	return math.Sqrt(10.0 * nu * c.TotalEnergy() / eps)
}
