// Package refdata loads tabulated experimental reference spectra, in
// particular the Comte-Bellot & Corrsin (1971) grid-turbulence dataset.
//
// Tables are whitespace-delimited numeric text: column 1 holds raw
// wavenumbers, columns 2..K energy densities at successive measurement
// times. Raw values carry the dataset's cm-based units and are rescaled on
// load (wavenumber x100 to 1/m, energy x1e-6 to m^3/s^2).
package refdata

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/interp"
)

// Fixed unit conversions applied to every loaded table.
const (
	WavenumberScale = 100.0
	EnergyScale     = 1e-6
)

var (
	// ErrBadTable indicates ragged rows, non-numeric cells, or a column
	// index beyond the table width.
	ErrBadTable = errors.New("refdata: malformed reference table")

	// ErrOutOfDomain indicates an interpolant query outside the sampled
	// wavenumber range.
	ErrOutOfDomain = errors.New("refdata: wavenumber outside sampled range")
)

// Reference is an immutable experimental spectrum: scaled sample points
// plus a piecewise-linear interpolant bounded to the sampled range.
type Reference struct {
	Wavenumbers []float64
	Energies    []float64

	pl interp.PiecewiseLinear
}

// Load reads a reference table and returns the spectrum in the requested
// energy column. column is 1-based counting from the first column after the
// wavenumber column.
func Load(path string, column int) (*Reference, error) {
	if column < 1 {
		return nil, fmt.Errorf("%w: column selector %d must be >= 1", ErrBadTable, column)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var ks, es []float64

	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if column >= len(fields) {
			return nil, fmt.Errorf("%w: line %d has %d columns, need %d", ErrBadTable, line, len(fields), column+1)
		}

		k, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d wavenumber %q", ErrBadTable, line, fields[0])
		}
		e, err := strconv.ParseFloat(fields[column], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d column %d %q", ErrBadTable, line, column, fields[column])
		}

		ks = append(ks, k*WavenumberScale)
		es = append(es, e*EnergyScale)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(ks) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 rows, got %d", ErrBadTable, len(ks))
	}

	ref := &Reference{Wavenumbers: ks, Energies: es}
	if err := ref.pl.Fit(ks, es); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadTable, err)
	}
	return ref, nil
}

// Eval returns the interpolated energy density at wavenumber k. Queries
// outside the sampled range fail with ErrOutOfDomain; the dataset has
// finite support and extrapolation would be meaningless.
func (r *Reference) Eval(k float64) (float64, error) {
	if k < r.Wavenumbers[0] || k > r.Wavenumbers[len(r.Wavenumbers)-1] {
		return 0, fmt.Errorf("%w: k=%g not in [%g, %g]",
			ErrOutOfDomain, k, r.Wavenumbers[0], r.Wavenumbers[len(r.Wavenumbers)-1])
	}
	return r.pl.Predict(k), nil
}

// Domain returns the sampled wavenumber range.
func (r *Reference) Domain() (lo, hi float64) {
	return r.Wavenumbers[0], r.Wavenumbers[len(r.Wavenumbers)-1]
}
