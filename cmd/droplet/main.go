package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/sphlab/droplet/internal/config"
	"github.com/sphlab/droplet/internal/driver"
	"github.com/sphlab/droplet/internal/fluid"
	"github.com/sphlab/droplet/internal/gui"
	"github.com/sphlab/droplet/internal/metrics"
	"github.com/sphlab/droplet/internal/store"
	"github.com/sphlab/droplet/internal/tui"
	"github.com/sphlab/droplet/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	duration   float64
	warmup     int
	seed       int64
	workers    int
	svgOut     string
	sampleRate int
	noSave     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "droplet",
		Short: "2D smoothed-particle hydrodynamics lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, args)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".droplet", "run data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "scene preset (see 'droplet presets')")
	rootCmd.PersistentFlags().Float64Var(&dt, "dt", 0, "timestep override")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed override")
	rootCmd.PersistentFlags().IntVar(&warmup, "warmup", -1, "warm-up step override")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "solver worker count (0 = all CPUs)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and record the results",
		RunE:  runHeadless,
	}
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration override")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write a final-state SVG snapshot")
	runCmd.Flags().IntVar(&sampleRate, "sample", 10, "record every Nth step")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "skip writing the run directory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		RunE:  runLive,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "interactive window",
		RunE:  runGUI,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scene presets",
		RunE:  listPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, presetsCmd, runsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig layers the sources: defaults, then preset, then config file,
// then command-line overrides.
func loadConfig() (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "dam_break"

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, "", fmt.Errorf("unknown preset %q", preset)
		}
		cfg = p
		name = preset
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		name = configFile
	}

	if dt > 0 {
		cfg.Run.Dt = dt
	}
	if duration > 0 {
		cfg.Run.Duration = duration
	}
	if warmup >= 0 {
		cfg.Run.WarmupSteps = warmup
	}
	if seed != 0 {
		cfg.Run.Seed = seed
	}
	if workers > 0 {
		cfg.Run.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig()
	if err != nil {
		return err
	}

	w := cfg.BuildWorld()
	s := fluid.NewSolver(w)
	if cfg.Run.Workers > 0 {
		s.SetWorkers(cfg.Run.Workers)
	}

	runner := driver.New(w, s)
	energy := metrics.NewHistory(metrics.NewKineticEnergy())
	momentum := metrics.NewHistory(metrics.NewNetMomentum())
	density := metrics.NewHistory(metrics.NewDensityRatio())
	recorder := store.NewRecorder(sampleRate)
	for _, o := range []driver.Observer{energy, momentum, density, recorder} {
		runner.AddObserver(o)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("simulating %s: %d particles, dt=%g, t=%gs\n",
		name, w.Count(), cfg.Run.Dt, cfg.Run.Duration)

	result, err := runner.Run(ctx, driver.Config{
		Dt:          cfg.Run.Dt,
		Duration:    cfg.Run.Duration,
		WarmupSteps: cfg.Run.WarmupSteps,
		WarmupDt:    cfg.Run.WarmupDt,
	})
	if err != nil {
		return err
	}

	fmt.Printf("done: %d steps of %gs simulated in %s\n\n",
		result.StepsTaken, result.SimTime, result.WallTime.Round(1e6))

	for _, h := range []*metrics.History{energy, density} {
		if len(h.Values()) > 1 {
			fmt.Println(asciigraph.Plot(h.Values(),
				asciigraph.Height(8), asciigraph.Width(64), asciigraph.Caption(h.Name())))
			fmt.Println()
		}
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "kinetic energy\t%.6f J\n", energy.Value())
	fmt.Fprintf(tw, "net momentum\t%.6f kg·m/s\n", momentum.Value())
	fmt.Fprintf(tw, "max density ratio\t%.4f\n", density.Value())
	tw.Flush()

	if svgOut != "" {
		view := cfg.Scene.View
		err := store.WriteSnapshotSVG(w,
			fluid.Rect{X: view.X, Y: view.Y, W: view.W, H: view.H}, 800, svgOut)
		if err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		fmt.Println("snapshot written to", svgOut)
	}

	if noSave {
		return nil
	}
	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(store.RunMetadata{
		Preset:    name,
		Seed:      cfg.Run.Seed,
		Dt:        cfg.Run.Dt,
		Duration:  result.SimTime,
		Steps:     result.StepsTaken,
		Particles: w.Count(),
		Metrics: map[string]float64{
			energy.Name():   energy.Value(),
			momentum.Name(): momentum.Value(),
			density.Name():  density.Value(),
		},
	}, recorder.Frames())
	if err != nil {
		return err
	}
	fmt.Println("saved run", runID)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig()
	if err != nil {
		return err
	}

	view := cfg.Scene.View
	scene := viz.NewScene(fluid.Rect{X: view.X, Y: view.Y, W: view.W, H: view.H}, 80, 26)
	return tui.Run(cfg.BuildWorld, scene, tui.Options{
		Name:        name,
		Dt:          cfg.Run.Dt,
		WarmupSteps: cfg.Run.WarmupSteps,
		WarmupDt:    cfg.Run.WarmupDt,
		Workers:     cfg.Run.Workers,
	})
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig()
	if err != nil {
		return err
	}

	view := cfg.Scene.View
	app := gui.NewApp(cfg.BuildWorld, gui.Options{
		Name:        name,
		View:        fluid.Rect{X: view.X, Y: view.Y, W: view.W, H: view.H},
		Dt:          cfg.Run.Dt,
		WarmupSteps: cfg.Run.WarmupSteps,
		WarmupDt:    cfg.Run.WarmupDt,
		Workers:     cfg.Run.Workers,
	})
	return app.Run()
}

func listPresets(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFLUID RECTS\tBOUNDARIES")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(tw, "%s\t%d\t%d\n", name, len(p.Scene.FluidRects), len(p.Scene.BoundaryLines))
	}
	return tw.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := store.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs in", dataDir)
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRESET\tPARTICLES\tSTEPS\tDURATION\tWHEN")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.2fs\t%s\n",
			r.ID, r.Preset, r.Particles, r.Steps, r.Duration,
			r.Timestamp.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
