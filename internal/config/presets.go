package config

var Presets = map[string]*Config{
	// canonical CBC comparison run
	"cbc32": {
		LengthScale:   DefaultLength,
		VelocityScale: DefaultVelocity,
		CBCPath:       "data/cbc_spectra.txt",
		Nu:            DefaultNu,
		Backend:       "cpu",
		Precision:     "f64",
		Resolution:    32,
		Modes:         64,
		Windows:       []float64{0.5, 1.0, 1.5},
		Dt:            DefaultDt,
		Seed:          42,
		SmagorinskyCs: DefaultCs,
		Scheme:        DefaultScheme,
		Checkpoint:    true,
		OutDir:        "figures",
		DataDir:       ".hitsim",
	},
	"cbc64": {
		LengthScale:   DefaultLength,
		VelocityScale: DefaultVelocity,
		CBCPath:       "data/cbc_spectra.txt",
		Nu:            DefaultNu,
		Backend:       "cpu",
		Precision:     "f32",
		Resolution:    64,
		Modes:         128,
		Windows:       []float64{0.5, 1.0, 1.5},
		Dt:            0.001,
		Seed:          42,
		SmagorinskyCs: DefaultCs,
		Scheme:        DefaultScheme,
		Checkpoint:    true,
		OutDir:        "figures",
		DataDir:       ".hitsim",
	},
	// fast smoke run for development
	"quick": {
		LengthScale:   DefaultLength,
		VelocityScale: DefaultVelocity,
		CBCPath:       "data/cbc_spectra.txt",
		Nu:            DefaultNu,
		Backend:       "cpu",
		Precision:     "f64",
		Resolution:    16,
		Modes:         24,
		Windows:       []float64{0.1},
		Dt:            0.01,
		Seed:          1,
		SmagorinskyCs: DefaultCs,
		Scheme:        DefaultScheme,
		Checkpoint:    false,
		OutDir:        "figures",
		DataDir:       ".hitsim",
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
