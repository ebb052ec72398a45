package spectral

import (
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/hitsim/internal/compute"
)

// Frequencies returns the angular wavenumbers along one axis in FFT bin
// order: 0 and positive frequencies first, then negative, scaled by 2*pi/L.
func Frequencies(n int, length float64) []float64 {
	k := make([]float64, n)
	scale := 2.0 * math.Pi / length
	for i := 0; i < n; i++ {
		if i < (n+1)/2 {
			k[i] = float64(i) * scale
		} else {
			k[i] = float64(i-n) * scale
		}
	}
	return k
}

// FFT3 computes the unnormalized forward 3D transform of a real scalar
// sampled on an n^3 grid (flattened x-fastest). The cube decomposes into
// n*n independent 1D transforms per axis; batches run on the active
// compute backend.
func FFT3(data []float64, n int) []complex128 {
	out := make([]complex128, len(data))
	for i, v := range data {
		out[i] = complex(v, 0)
	}

	b := compute.GetBackend()

	// x-axis: contiguous rows
	b.Dispatch(n*n, func(idx int) {
		base := idx * n
		row := fft.FFT(out[base : base+n])
		copy(out[base:base+n], row)
	})

	// y-axis
	b.Dispatch(n*n, func(idx int) {
		i, k := idx%n, idx/n
		line := make([]complex128, n)
		for j := 0; j < n; j++ {
			line[j] = out[i+n*(j+n*k)]
		}
		line = fft.FFT(line)
		for j := 0; j < n; j++ {
			out[i+n*(j+n*k)] = line[j]
		}
	})

	// z-axis
	b.Dispatch(n*n, func(idx int) {
		i, j := idx%n, idx/n
		line := make([]complex128, n)
		for k := 0; k < n; k++ {
			line[k] = out[i+n*(j+n*k)]
		}
		line = fft.FFT(line)
		for k := 0; k < n; k++ {
			out[i+n*(j+n*k)] = line[k]
		}
	})

	return out
}

// IFFT3 inverts FFT3. go-dsp's IFFT applies the 1/n factor per axis, so
// three passes leave the result fully normalized.
func IFFT3(data []complex128, n int) []complex128 {
	out := make([]complex128, len(data))
	copy(out, data)

	b := compute.GetBackend()

	b.Dispatch(n*n, func(idx int) {
		base := idx * n
		row := fft.IFFT(out[base : base+n])
		copy(out[base:base+n], row)
	})

	b.Dispatch(n*n, func(idx int) {
		i, k := idx%n, idx/n
		line := make([]complex128, n)
		for j := 0; j < n; j++ {
			line[j] = out[i+n*(j+n*k)]
		}
		line = fft.IFFT(line)
		for j := 0; j < n; j++ {
			out[i+n*(j+n*k)] = line[j]
		}
	})

	b.Dispatch(n*n, func(idx int) {
		i, j := idx%n, idx/n
		line := make([]complex128, n)
		for k := 0; k < n; k++ {
			line[k] = out[i+n*(j+n*k)]
		}
		line = fft.IFFT(line)
		for k := 0; k < n; k++ {
			out[i+n*(j+n*k)] = line[k]
		}
	})

	return out
}
