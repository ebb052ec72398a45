// Package compute provides execution backends for batched transform work.
//
// The package automatically selects the best available backend:
//
//   - accel: device-offloaded batch execution (requires the accel build tag)
//   - cpu: goroutine-parallel fallback, always available
//
// FFT passes over a 3D field decompose into N*N independent 1D transforms
// per axis; backends schedule those batches:
//
//	backend := compute.GetBackend()
//	backend.Dispatch(n*n, func(idx int) { ... })
package compute
