// Package driver orchestrates a full comparison run: initial condition,
// solver advancement across convective-time windows, spectrum capture,
// persistence, and figure overlay.
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/hitsim/internal/compute"
	"github.com/san-kum/hitsim/internal/config"
	"github.com/san-kum/hitsim/internal/hit"
	"github.com/san-kum/hitsim/internal/metrics"
	"github.com/san-kum/hitsim/internal/plot"
	"github.com/san-kum/hitsim/internal/refdata"
	"github.com/san-kum/hitsim/internal/solver"
	"github.com/san-kum/hitsim/internal/spectral"
	"github.com/san-kum/hitsim/internal/store"
)

// Snapshot is the per-step view given to observers.
type Snapshot struct {
	Step   int
	Time   float64
	CTU    float64
	Energy float64
}

type Observer func(Snapshot)

type Runner struct {
	cfg       *config.Config
	st        *store.Store
	observers []Observer
	log       *logrus.Entry
}

func New(cfg *config.Config) *Runner {
	return &Runner{
		cfg: cfg,
		st:  store.New(cfg.DataDir),
		log: logrus.WithField("component", "driver"),
	}
}

func (r *Runner) AddObserver(o Observer) {
	r.observers = append(r.observers, o)
}

// FigureName encodes the run parameters and elapsed convective time into
// the output file name.
func FigureName(cfg *config.Config, ctu float64) string {
	return fmt.Sprintf("spectrum_N%d_m%d_cs%.2f_%s_t%.2f.png",
		cfg.Resolution, cfg.Modes, cfg.SmagorinskyCs, cfg.Scheme, ctu)
}

// Run executes the configured comparison and returns the stored run ID.
// Any failure aborts the run; there is no recovery or retry.
func (r *Runner) Run(ctx context.Context) (string, error) {
	cfg := r.cfg

	compute.SetBackend(compute.Select(cfg.Backend))
	prec, err := solver.ParsePrecision(cfg.Precision)
	if err != nil {
		return "", err
	}

	if err := r.st.Init(); err != nil {
		return "", fmt.Errorf("driver: store init: %w", err)
	}
	if cfg.OutDir != "" {
		if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
			return "", fmt.Errorf("driver: figure dir: %w", err)
		}
	}

	sol, startCTU, err := r.buildSolver()
	if err != nil {
		return "", err
	}

	runID := store.NewRunID(cfg.Resolution)
	r.log.WithFields(logrus.Fields{
		"run":     runID,
		"backend": compute.GetBackend().Name(),
		"n":       cfg.Resolution,
		"start":   startCTU,
	}).Info("run started")

	// Constant step from start to finish. The solver's CFL sizer exists
	// but the comparison runs must not change dt with the flow state.
	sizer := solver.FixedDt{Dt: cfg.Dt}

	observed := []metrics.Metric{metrics.NewKineticEnergy(), metrics.NewDecayFraction()}
	for _, m := range observed {
		m.Reset()
	}

	ctuSeconds := cfg.ConvectiveTime()
	fig := plot.New()
	step := 0

	for wi, windowEnd := range cfg.Windows {
		if windowEnd <= startCTU {
			r.log.WithField("window", windowEnd).Info("window before restored time, skipped")
			continue
		}

		for sol.Time() < windowEnd*ctuSeconds {
			select {
			case <-ctx.Done():
				return runID, ctx.Err()
			default:
			}

			dt := sizer.Next(sol)
			if err := sol.Step(dt); err != nil {
				return runID, fmt.Errorf("driver: step %d (t=%.4f): %w", step, sol.Time(), err)
			}
			step++

			snap := Snapshot{
				Step:   step,
				Time:   sol.Time(),
				CTU:    sol.Time() / ctuSeconds,
				Energy: sol.Field().KineticEnergy(),
			}
			for _, m := range observed {
				m.Observe(sol.Field(), sol.Time())
			}
			for _, o := range r.observers {
				o(snap)
			}
		}

		if err := r.capture(sol, fig, runID, wi, windowEnd, prec); err != nil {
			return runID, err
		}
	}

	meta := &store.RunMetadata{
		ID:            runID,
		Timestamp:     time.Now().UTC(),
		Resolution:    cfg.Resolution,
		Modes:         cfg.Modes,
		LengthScale:   cfg.LengthScale,
		VelocityScale: cfg.VelocityScale,
		Nu:            cfg.Nu,
		Dt:            cfg.Dt,
		Seed:          cfg.Seed,
		Windows:       cfg.Windows,
		Scheme:        cfg.Scheme,
		SmagorinskyCs: cfg.SmagorinskyCs,
		Metrics:       map[string]float64{},
	}
	for _, m := range observed {
		meta.Metrics[m.Name()] = m.Value()
	}
	if err := r.st.SaveMetadata(meta); err != nil {
		return runID, fmt.Errorf("driver: metadata: %w", err)
	}

	r.log.WithFields(logrus.Fields{"run": runID, "steps": step}).Info("run finished")
	return runID, nil
}

// capture extracts and persists the spectrum at a window boundary, writes
// an optional checkpoint, and overlays the comparison figure.
func (r *Runner) capture(sol *solver.Decay, fig *plot.Figure, runID string, wi int, windowEnd float64, prec solver.Precision) error {
	cfg := r.cfg

	curve := spectral.Spectrum(sol.Field())
	if err := r.st.SaveSpectrum(runID, windowEnd, curve); err != nil {
		return fmt.Errorf("driver: spectrum save: %w", err)
	}

	if cfg.Checkpoint {
		path := filepath.Join(cfg.DataDir, solver.CheckpointName(cfg.Resolution, windowEnd))
		if err := solver.SaveCheckpoint(path, sol, prec); err != nil {
			return fmt.Errorf("driver: checkpoint: %w", err)
		}
		r.log.WithField("path", path).Info("checkpoint saved")
	}

	outPath := ""
	if cfg.OutDir != "" {
		outPath = filepath.Join(cfg.OutDir, FigureName(cfg, windowEnd))
	}
	_, err := fig.PlotField(sol.Field(), plot.Options{
		CBCPath: cfg.CBCPath,
		Column:  wi + 1,
		Label:   fmt.Sprintf("t=%.2f CTU", windowEnd),
		OutPath: outPath,
	})
	if err != nil {
		return fmt.Errorf("driver: plot: %w", err)
	}
	return nil
}

// buildSolver returns a fresh or restored solver plus its starting time in
// convective units.
func (r *Runner) buildSolver() (*solver.Decay, float64, error) {
	cfg := r.cfg

	if cfg.Load {
		path, err := latestCheckpoint(cfg.DataDir, cfg.Resolution)
		if err != nil {
			return nil, 0, err
		}
		sol, err := solver.LoadCheckpoint(path)
		if err != nil {
			return nil, 0, err
		}
		r.log.WithField("path", path).Info("checkpoint restored")
		return sol, sol.Time() / cfg.ConvectiveTime(), nil
	}

	ref, err := refdata.Load(cfg.CBCPath, 1)
	if err != nil {
		return nil, 0, fmt.Errorf("driver: target spectrum: %w", err)
	}

	f, err := hit.Generate(ref, hit.Options{
		Length:     cfg.LengthScale,
		Resolution: cfg.Resolution,
		Modes:      cfg.Modes,
		Seed:       cfg.Seed,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("driver: initial condition: %w", err)
	}
	f.EnforcePeriodic()

	return solver.NewDecay(f, cfg.Nu), 0, nil
}

// latestCheckpoint picks the flow_N{n}_t*.chk file with the largest
// encoded time.
func latestCheckpoint(dataDir string, n int) (string, error) {
	pattern := filepath.Join(dataDir, fmt.Sprintf("flow_N%d_t*.chk", n))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("driver: no checkpoint matching %s", pattern)
	}

	sort.Slice(matches, func(i, j int) bool {
		return checkpointTime(matches[i]) < checkpointTime(matches[j])
	})
	return matches[len(matches)-1], nil
}

func checkpointTime(path string) float64 {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".chk")
	idx := strings.LastIndex(base, "_t")
	if idx < 0 {
		return 0
	}
	t, err := strconv.ParseFloat(base[idx+2:], 64)
	if err != nil {
		return 0
	}
	return t
}
