package field

import (
	"math"
	"testing"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		length float64
		ok     bool
	}{
		{"valid", 8, 1.0, true},
		{"zero resolution", 0, 1.0, false},
		{"negative resolution", -4, 1.0, false},
		{"zero length", 8, 0, false},
	}

	for _, tt := range tests {
		_, err := New(tt.n, tt.length)
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestIdx(t *testing.T) {
	f, _ := New(4, 1.0)

	if f.Idx(0, 0, 0) != 0 {
		t.Errorf("origin index should be 0, got %d", f.Idx(0, 0, 0))
	}
	if f.Idx(1, 0, 0) != 1 {
		t.Errorf("x is the fastest axis, got %d", f.Idx(1, 0, 0))
	}
	if f.Idx(0, 1, 0) != 4 {
		t.Errorf("expected y stride 4, got %d", f.Idx(0, 1, 0))
	}
	if f.Idx(3, 3, 3) != 63 {
		t.Errorf("last cell should be 63, got %d", f.Idx(3, 3, 3))
	}
}

func TestKineticEnergyUniform(t *testing.T) {
	f, _ := New(4, 1.0)
	for i := range f.U {
		f.U[i] = 2.0
	}

	// 0.5 * (2^2) averaged over cells
	if math.Abs(f.KineticEnergy()-2.0) > 1e-12 {
		t.Errorf("expected KE 2.0, got %f", f.KineticEnergy())
	}
}

func TestEnforcePeriodicRemovesMean(t *testing.T) {
	f, _ := New(4, 1.0)
	for i := range f.U {
		f.U[i] = 1.0 + float64(i%3)
		f.V[i] = -0.5
	}

	f.EnforcePeriodic()

	for _, c := range f.Components() {
		mean := 0.0
		for _, v := range c {
			mean += v
		}
		mean /= float64(len(c))
		if math.Abs(mean) > 1e-12 {
			t.Errorf("component mean should vanish, got %e", mean)
		}
	}
}

func TestMaxVelocity(t *testing.T) {
	f, _ := New(4, 1.0)
	f.U[5] = 3.0
	f.V[5] = 4.0

	if math.Abs(f.MaxVelocity()-5.0) > 1e-12 {
		t.Errorf("expected max |u| 5.0, got %f", f.MaxVelocity())
	}
}

func TestIsValid(t *testing.T) {
	f, _ := New(2, 1.0)
	if !f.IsValid() {
		t.Error("zero field should be valid")
	}

	f.W[0] = math.NaN()
	if f.IsValid() {
		t.Error("NaN sample should invalidate field")
	}
}

func TestCloneIndependence(t *testing.T) {
	f, _ := New(2, 1.0)
	f.U[0] = 1.0

	c := f.Clone()
	c.U[0] = 9.0

	if f.U[0] != 1.0 {
		t.Error("mutating clone must not touch original")
	}
}
