package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/hitsim/internal/config"
	"github.com/san-kum/hitsim/internal/driver"
	"github.com/san-kum/hitsim/internal/metrics"
	"github.com/san-kum/hitsim/internal/plot"
	"github.com/san-kum/hitsim/internal/solver"
	"github.com/san-kum/hitsim/internal/spectral"
	"github.com/san-kum/hitsim/internal/store"
	"github.com/san-kum/hitsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	resolution int
	modes      int
	dt         float64
	nu         float64
	seed       int64
	backend    string
	precision  string
	windows    []float64
	cbcPath    string
	outDir     string
	checkpoint bool
	loadLatest bool
	verbose    bool
	// spectrum command
	csvPath string
	// plot command
	outFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hitsim",
		Short: "decaying isotropic turbulence spectrum lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".hitsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a decay simulation and compare against the measured spectra",
		RunE:  runComparison,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with a live terminal monitor",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [checkpoint]",
		Short: "inspect the energy spectrum of a saved flow field",
		Args:  cobra.ExactArgs(1),
		RunE:  showSpectrum,
	}
	spectrumCmd.Flags().StringVar(&csvPath, "csv", "", "also write the spectrum as CSV")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "rebuild the comparison figure from stored spectra",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&cbcPath, "cbc", "data/cbc_spectra.txt", "reference spectrum table")
	plotCmd.Flags().StringVar(&outFile, "out", "", "output PNG path (default figures/<run_id>.png)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)
			for _, name := range names {
				p := config.GetPreset(name)
				fmt.Printf("  %-8s N=%d modes=%d dt=%g windows=%v\n", name, p.Resolution, p.Modes, p.Dt, p.Windows)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, spectrumCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset configuration")
	cmd.Flags().IntVar(&resolution, "n", config.DefaultResolution, "grid resolution per axis")
	cmd.Flags().IntVar(&modes, "modes", config.DefaultModes, "Fourier modes in the initial field")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	cmd.Flags().Float64Var(&nu, "nu", config.DefaultNu, "kinematic viscosity")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().StringVar(&backend, "backend", "cpu", "compute backend (cpu, accel)")
	cmd.Flags().StringVar(&precision, "precision", "f64", "checkpoint precision (f32, f64)")
	cmd.Flags().Float64SliceVar(&windows, "windows", []float64{0.5, 1.0, 1.5}, "capture times in convective units")
	cmd.Flags().StringVar(&cbcPath, "cbc", "data/cbc_spectra.txt", "reference spectrum table")
	cmd.Flags().StringVar(&outDir, "out", "figures", "figure output directory")
	cmd.Flags().BoolVar(&checkpoint, "checkpoint", true, "save a flow checkpoint at each window")
	cmd.Flags().BoolVar(&loadLatest, "load", false, "resume from the newest checkpoint")
}

// buildConfig resolves precedence: defaults, then preset, then config
// file, then explicitly set flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("n") {
		cfg.Resolution = resolution
	}
	if cmd.Flags().Changed("modes") {
		cfg.Modes = modes
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("nu") {
		cfg.Nu = nu
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("backend") {
		cfg.Backend = backend
	}
	if cmd.Flags().Changed("precision") {
		cfg.Precision = precision
	}
	if cmd.Flags().Changed("windows") {
		cfg.Windows = windows
	}
	if cmd.Flags().Changed("cbc") {
		cfg.CBCPath = cbcPath
	}
	if cmd.Flags().Changed("out") {
		cfg.OutDir = outDir
	}
	if cmd.Flags().Changed("checkpoint") {
		cfg.Checkpoint = checkpoint
	}
	if cmd.Flags().Changed("load") {
		cfg.Load = loadLatest
	}
	if cmd.Flags().Changed("data") {
		cfg.DataDir = dataDir
	}

	sort.Float64s(cfg.Windows)
	return cfg, nil
}

func runComparison(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("running %d³ decay over %v CTU...\n", cfg.Resolution, cfg.Windows)
	start := time.Now()

	runID, err := driver.New(cfg).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("run id: %s\n", runID)

	meta, err := store.New(cfg.DataDir).Load(runID)
	if err != nil {
		return err
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(meta.Metrics))
	for name := range meta.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, meta.Metrics[name])
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	// the TUI owns the terminal; keep log lines out of it
	logrus.SetLevel(logrus.WarnLevel)

	p := tea.NewProgram(viz.NewModel(cfg))
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := store.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tN\tMODES\tDT\tNU\tWINDOWS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4g\t%.3g\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Resolution,
			run.Modes,
			run.Dt,
			run.Nu,
			formatWindows(run.Windows),
		)
	}
	return w.Flush()
}

func formatWindows(ws []float64) string {
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = fmt.Sprintf("%.2f", w)
	}
	return strings.Join(parts, ",")
}

func showSpectrum(cmd *cobra.Command, args []string) error {
	sol, err := solver.LoadCheckpoint(args[0])
	if err != nil {
		return err
	}

	f := sol.Field()
	curve := spectral.Spectrum(f)

	fmt.Printf("field: %d³, L=%.4f m, t=%.4f s\n", f.N, f.L, sol.Time())
	fmt.Printf("kinetic energy: %.6e m²/s²\n", f.KineticEnergy())
	fmt.Printf("dissipation:    %.6e m²/s³\n\n", metrics.DissipationRate(curve, sol.Viscosity()))

	// log scale so the inertial range is visible in ASCII
	logE := make([]float64, 0, len(curve.E))
	for i, e := range curve.E {
		if i == 0 || e <= 0 {
			continue
		}
		logE = append(logE, math.Log10(e))
	}
	if len(logE) > 1 {
		fmt.Println(asciigraph.Plot(logE, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("log10 E(κ) by shell")))
	}

	if csvPath != "" {
		if err := store.WriteSpectrumCSV(csvPath, curve); err != nil {
			return err
		}
		fmt.Printf("\nspectrum written to %s\n", csvPath)
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := store.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fig := plot.New()
	for i, w := range meta.Windows {
		curve, err := st.LoadSpectrum(runID, w)
		if err != nil {
			return err
		}
		if _, err := fig.PlotCurve(curve, plot.Options{
			CBCPath: cbcPath,
			Column:  i + 1,
			Label:   fmt.Sprintf("t=%.2f CTU", w),
		}, meta.LengthScale, meta.Resolution); err != nil {
			return err
		}
	}

	out := outFile
	if out == "" {
		out = filepath.Join("figures", runID+".png")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}
	if err := fig.Save(out); err != nil {
		return err
	}
	fmt.Printf("figure written to %s\n", out)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := store.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
