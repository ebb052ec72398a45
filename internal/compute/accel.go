//go:build !accel

package compute

// AccelBackend is the accelerator offload path. Without the accel build tag
// no device runtime is linked in, so it reports unavailable and delegates to
// the CPU backend.
type AccelBackend struct{}

func NewAccelBackend() *AccelBackend {
	return &AccelBackend{}
}

func (a *AccelBackend) Name() string    { return "accel (not available)" }
func (a *AccelBackend) Available() bool { return false }
func (a *AccelBackend) Cleanup()        {}

func (a *AccelBackend) Dispatch(n int, fn func(idx int)) {
	cpu := NewCPUBackend()
	cpu.Dispatch(n, fn)
}
