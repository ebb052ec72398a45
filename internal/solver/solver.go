// Package solver defines the contract the simulation driver programs
// against (advance, query time, expose the velocity field) and a spectral
// viscous-decay reference implementation. A production Navier-Stokes solver
// plugs in behind the same interface.
package solver

import (
	"errors"

	"github.com/san-kum/hitsim/internal/field"
)

// Domain errors for solver operations.
var (
	// ErrUnstable indicates the advanced field contains NaN or Inf.
	ErrUnstable = errors.New("solver: field diverged (NaN or Inf detected)")

	// ErrBadCheckpoint indicates a checkpoint file that is truncated,
	// corrupt, or from an incompatible version.
	ErrBadCheckpoint = errors.New("solver: invalid checkpoint file")
)

type Solver interface {
	// Step advances the simulation by dt seconds.
	Step(dt float64) error
	// Time returns the elapsed simulation time in seconds.
	Time() float64
	// Field exposes the current velocity field. Callers must treat it as
	// read-only while the solver owns it.
	Field() *field.Field
}

// StepSizer chooses the next time step. Passing the strategy explicitly
// keeps step-size policy out of solver state: a driver that wants constant
// dt uses FixedDt and nothing else can override it.
type StepSizer interface {
	Next(s Solver) float64
}

// FixedDt always returns the same step, regardless of flow state.
type FixedDt struct {
	Dt float64
}

func (f FixedDt) Next(Solver) float64 { return f.Dt }

// CFLSizer is the convective-limit adaptive step: dt = Target * h / max|u|,
// capped at MaxDt. A quiescent field gets MaxDt.
type CFLSizer struct {
	Target float64
	MaxDt  float64
}

func (c CFLSizer) Next(s Solver) float64 {
	f := s.Field()
	umax := f.MaxVelocity()
	if umax == 0 {
		return c.MaxDt
	}
	dt := c.Target * f.Spacing() / umax
	if dt > c.MaxDt {
		dt = c.MaxDt
	}
	return dt
}
