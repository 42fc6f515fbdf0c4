package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/kossner/accrete/internal/analysis"
	"github.com/kossner/accrete/internal/body"
	"github.com/kossner/accrete/internal/config"
	"github.com/kossner/accrete/internal/export"
	"github.com/kossner/accrete/internal/gravity"
	"github.com/kossner/accrete/internal/metrics"
	"github.com/kossner/accrete/internal/scenario"
	"github.com/kossner/accrete/internal/sim"
	"github.com/kossner/accrete/internal/storage"
	"github.com/kossner/accrete/internal/tui"
)

var (
	dataDir     string
	dt          float64
	duration    float64
	bodies      int
	dimFlag     int
	seed        int64
	solver      string
	workers     int
	pipelined   bool
	sampleEvery int
	theta       float64
	configFile  string
	preset      string
	withSamples bool
	svgOut      string
	bodyIndex   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "accrete",
		Short: "gravitational accretion simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".accrete", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a simulation and store the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored run diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().BoolVar(&withSamples, "samples", false, "include per-tick snapshots")
	exportCmd.Flags().StringVar(&svgOut, "svg", "", "write a trajectory svg to this path instead of json")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate orbital periods from a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&bodyIndex, "body", 0, "sample index of the body to analyze")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run with a live terminal view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "compare solver throughput",
		Args:  cobra.ExactArgs(1),
		RunE:  benchScenario,
	}
	benchCmd.Flags().Float64Var(&dt, "dt", 1.0, "timestep")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list available scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range scenario.Names() {
				fmt.Println(name)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, analyzeCmd, liveCmd, benchCmd, scenariosCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().IntVar(&bodies, "bodies", config.DefaultBodies, "number of bodies")
	cmd.Flags().IntVar(&dimFlag, "dim", config.DefaultDim, "spatial dimensions (2 or 3)")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&solver, "solver", "tree", "force solver (direct or tree)")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines for direct solver")
	cmd.Flags().BoolVar(&pipelined, "pipelined", false, "double-buffer force evaluation")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", 60, "snapshot interval in ticks (0 disables)")
	cmd.Flags().Float64Var(&theta, "theta", 0, "tree opening angle (0 = default)")
}

// buildConfig merges preset, config file, and flags, in rising priority.
func buildConfig(cmd *cobra.Command, scenarioName string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Scenario = scenarioName

	if preset != "" {
		p := config.GetPreset(scenarioName, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scenarioName))
		}
		*cfg = *p
		if cfg.Bodies == 0 {
			cfg.Bodies = config.DefaultBodies
		}
		if cfg.SampleEvery == 0 {
			cfg.SampleEvery = 60
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		loaded.Scenario = scenarioName
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("bodies") {
		cfg.Bodies = bodies
	}
	if cmd.Flags().Changed("dim") {
		cfg.Dim = dimFlag
	}
	if cmd.Flags().Changed("solver") {
		cfg.Solver = solver
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("pipelined") {
		cfg.Pipelined = pipelined
	}
	if cmd.Flags().Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if cmd.Flags().Changed("theta") {
		cfg.Constants.Theta = theta
	}
	if cfg.Seed == 0 || cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setup(cfg *config.Config) (*gravity.Step, *body.Batch, error) {
	gen, err := scenario.Get(cfg.Scenario)
	if err != nil {
		return nil, nil, err
	}

	consts := cfg.GravityConstants()
	batch := gen(scenario.Params{
		Bodies: cfg.Bodies,
		Dim:    cfg.Dim,
		Seed:   cfg.Seed,
		Consts: consts,
	})

	solv, err := cfg.BuildSolver()
	if err != nil {
		return nil, nil, err
	}
	return gravity.NewStep(consts, solv, cfg.Dim), batch, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	step, batch, err := setup(cfg)
	if err != nil {
		return err
	}
	initial := batch.Len()

	runner := sim.New(step)
	runner.AddMetric(metrics.NewEnergy(step.Consts))
	runner.AddMetric(metrics.NewMomentum())
	runner.AddMetric(metrics.NewAngularMomentum())
	runner.AddMetric(metrics.NewPeakTemperature())
	runner.AddMetric(metrics.NewCount())

	fmt.Printf("running %s (%d bodies, %s solver)...\n", cfg.Scenario, initial, cfg.Solver)
	start := time.Now()

	result, err := runner.Run(context.Background(), batch, sim.Config{
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		SampleEvery: cfg.SampleEvery,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Scenario:      cfg.Scenario,
		Solver:        cfg.Solver,
		Seed:          cfg.Seed,
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		Dim:           cfg.Dim,
		InitialBodies: initial,
		FinalBodies:   batch.Len(),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v (%.0f steps/sec)\n", elapsed, float64(result.StepsTaken)/elapsed.Seconds())
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("bodies: %d -> %d (%d merges)\n", initial, batch.Len(), len(result.Removed))
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6g\n", name, val)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tSOLVER\tTIME\tDURATION\tDT\tBODIES\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0fs\t%.2fs\t%d->%d\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Solver,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.InitialBodies,
			run.FinalBodies,
			run.EnergyDrift,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSnapshots(runID, meta.Dim)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no snapshots to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s (%s solver)\n", meta.Scenario, meta.Solver)
	fmt.Printf("samples: %d\n\n", len(samples))

	counts := make([]float64, len(samples))
	peaks := make([]float64, len(samples))
	for i, s := range samples {
		counts[i] = float64(len(s.IDs))
		for _, t := range s.Temp {
			if t > peaks[i] {
				peaks[i] = t
			}
		}
	}

	fmt.Println(asciigraph.Plot(counts,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("surviving bodies"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(peaks,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("peak temperature (K)"),
	))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	if svgOut != "" {
		samples, err := st.LoadSnapshots(runID, meta.Dim)
		if err != nil {
			return err
		}
		if err := export.SVGFile(svgOut, samples, meta.Dim, 800, 800); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
		return nil
	}

	result := &sim.Result{
		Metrics:     meta.Metrics,
		EnergyDrift: meta.EnergyDrift,
	}
	if withSamples {
		samples, err := st.LoadSnapshots(runID, meta.Dim)
		if err != nil {
			return err
		}
		result.Samples = samples
	}
	return export.JSON(os.Stdout, meta.Scenario, meta.Solver, meta.Dt, meta.Duration, result)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSnapshots(runID, meta.Dim)
	if err != nil {
		return err
	}
	if len(samples) < 4 {
		return fmt.Errorf("not enough snapshots to analyze")
	}

	series := make([]float64, 0, len(samples))
	for _, s := range samples {
		if bodyIndex >= len(s.IDs) {
			continue
		}
		series = append(series, s.Pos[bodyIndex*meta.Dim])
	}
	if len(series) < 4 {
		return fmt.Errorf("body index %d absent from most snapshots", bodyIndex)
	}

	sampleDt := samples[1].T - samples[0].T
	ps := analysis.PowerSpectrum(series)

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("body index: %d, samples: %d\n\n", bodyIndex, len(series))

	fmt.Println(asciigraph.Plot(ps[:len(ps)/2],
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (x coordinate)"),
	))
	fmt.Println()

	if period := analysis.DominantPeriod(series, sampleDt); period > 0 {
		fmt.Printf("dominant period: %.1f s\n", period)
	} else {
		fmt.Println("no dominant period found")
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	step, batch, err := setup(cfg)
	if err != nil {
		return err
	}
	return tui.RunLive(cfg.Scenario, step, batch, cfg.Dt, cfg.Duration)
}

func benchScenario(cmd *cobra.Command, args []string) error {
	name := args[0]
	gen, err := scenario.Get(name)
	if err != nil {
		return err
	}
	consts := gravity.DefaultConstants()

	solvers := []struct {
		label string
		build func() gravity.Solver
	}{
		{"direct", func() gravity.Solver { return gravity.Direct{} }},
		{"parallel", func() gravity.Solver { return gravity.ParallelDirect{} }},
		{"tree", func() gravity.Solver { return gravity.NewBarnesHut(3) }},
	}
	sizes := []int{64, 256, 1024}
	const ticks = 50

	fmt.Printf("benchmarking %s (dt=%.2f, %d ticks)\n\n", name, dt, ticks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOLVER\tBODIES\tTIME\tTICKS/SEC")

	for _, sv := range solvers {
		for _, n := range sizes {
			batch := gen(scenario.Params{Bodies: n, Dim: 3, Seed: 42, Consts: consts})
			step := gravity.NewStep(consts, sv.build(), 3)

			start := time.Now()
			for i := 0; i < ticks; i++ {
				step.Tick(batch, dt)
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%s\t%d\t%v\t%.0f\n",
				sv.label, n, elapsed.Round(time.Microsecond), ticks/elapsed.Seconds())
		}
	}
	return w.Flush()
}
