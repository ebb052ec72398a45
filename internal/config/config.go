package config

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultLength is the CBC box size: 9 mesh spacings of the 2-inch
	// grid, in meters.
	DefaultLength     = 9.0 * 2.0 * math.Pi / 100.0
	DefaultResolution = 32
	DefaultModes      = 64
	DefaultVelocity   = 0.2
	DefaultNu         = 1.5e-5
	DefaultDt         = 0.002
	DefaultCs         = 0.17
	DefaultScheme     = "central"
)

type Config struct {
	Load          bool      `yaml:"load"`
	LengthScale   float64   `yaml:"length_scale"`
	VelocityScale float64   `yaml:"velocity_scale"`
	CBCPath       string    `yaml:"cbc_path"`
	Nu            float64   `yaml:"nu"`
	Backend       string    `yaml:"backend"`
	Precision     string    `yaml:"precision"`
	Resolution    int       `yaml:"resolution"`
	Modes         int       `yaml:"modes"`
	Windows       []float64 `yaml:"windows"`
	Dt            float64   `yaml:"dt"`
	Seed          int64     `yaml:"seed"`
	SmagorinskyCs float64   `yaml:"smagorinsky_cs"`
	Scheme        string    `yaml:"scheme"`
	Checkpoint    bool      `yaml:"checkpoint"`
	OutDir        string    `yaml:"out_dir"`
	DataDir       string    `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		LengthScale:   DefaultLength,
		VelocityScale: DefaultVelocity,
		CBCPath:       "data/cbc_spectra.txt",
		Nu:            DefaultNu,
		Backend:       "cpu",
		Precision:     "f64",
		Resolution:    DefaultResolution,
		Modes:         DefaultModes,
		Windows:       []float64{0.5, 1.0, 1.5},
		Dt:            DefaultDt,
		Seed:          42,
		SmagorinskyCs: DefaultCs,
		Scheme:        DefaultScheme,
		Checkpoint:    true,
		OutDir:        "figures",
		DataDir:       ".hitsim",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConvectiveTime is one CTU in seconds, L/U.
func (c *Config) ConvectiveTime() float64 {
	return c.LengthScale / c.VelocityScale
}
