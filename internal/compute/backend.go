package compute

type Backend interface {
	Name() string
	Available() bool
	// Dispatch runs fn for every index in [0, n), using whatever execution
	// resources the backend owns. fn must not share mutable state across
	// indices.
	Dispatch(n int, fn func(idx int))
	Cleanup()
}

var activeBackend Backend

func init() {
	// Auto-select best available backend (accelerator if present, else CPU)
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

func AutoSelectBackend() Backend {
	accel := NewAccelBackend()
	if accel.Available() {
		return accel
	}
	return NewCPUBackend()
}

// Select resolves a backend by configuration name. Unknown names fall back
// to auto-selection.
func Select(name string) Backend {
	switch name {
	case "cpu":
		return NewCPUBackend()
	case "accel":
		return NewAccelBackend()
	default:
		return AutoSelectBackend()
	}
}
