package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/subsim/internal/analysis"
	"github.com/san-kum/subsim/internal/automation"
	"github.com/san-kum/subsim/internal/config"
	"github.com/san-kum/subsim/internal/control"
	"github.com/san-kum/subsim/internal/experiment"
	"github.com/san-kum/subsim/internal/export"
	"github.com/san-kum/subsim/internal/logging"
	"github.com/san-kum/subsim/internal/optim"
	"github.com/san-kum/subsim/internal/sim"
	"github.com/san-kum/subsim/internal/storage"
	"github.com/san-kum/subsim/internal/submarine"
	"github.com/san-kum/subsim/internal/tui"
)

var (
	configFile string
	preset     string
	logLevel   string
	logFile    string
	dataDir    string

	kp           float64
	ki           float64
	kd           float64
	dt           float64
	duration     float64
	targetOffset float64
	height       float64
	frameRate    int

	csvPath   string
	jsonPath  string
	svgPath   string
	save      bool
	noPlot    bool
	showPhase bool

	kpValues []float64
	kiValues []float64
	kdValues []float64
	metric   string
	workers  int
	top      int

	trials int
	spread float64
	seed   uint64
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "subsim",
		Short:        "submarine depth control with a live-tunable pid",
		SilenceUsage: true,
		RunE:         runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "start from a named preset")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".subsim", "directory for saved runs")
	rootCmd.PersistentFlags().Float64Var(&kp, "kp", control.DefaultKp, "proportional gain")
	rootCmd.PersistentFlags().Float64Var(&ki, "ki", control.DefaultKi, "integral gain")
	rootCmd.PersistentFlags().Float64Var(&kd, "kd", control.DefaultKd, "derivative gain")
	rootCmd.PersistentFlags().Float64Var(&height, "height", submarine.DefaultHeight, "playfield height")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive depth control",
		RunE:  runTUI,
	}
	tuiCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFrameRate, "frame rate")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "headless scenario run",
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&csvPath, "csv", "", "export samples to csv")
	runCmd.Flags().StringVar(&jsonPath, "json", "", "export run to json")
	runCmd.Flags().BoolVar(&save, "save", false, "keep the run in the data directory")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "export the depth plot to svg")
	runCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the depth plot")
	runCmd.Flags().BoolVar(&showPhase, "phase", false, "draw the error/velocity phase portrait")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid sweep over gains",
		RunE:  runTune,
	}
	addScenarioFlags(tuneCmd)
	tuneCmd.Flags().Float64SliceVar(&kpValues, "kp-values", []float64{0.05, 0.1, 0.2, 0.5, 1}, "kp candidates")
	tuneCmd.Flags().Float64SliceVar(&kiValues, "ki-values", []float64{0, 0.003, 0.01}, "ki candidates")
	tuneCmd.Flags().Float64SliceVar(&kdValues, "kd-values", []float64{0.8, 2, 4, 8}, "kd candidates")
	tuneCmd.Flags().StringVar(&metric, "metric", "itae", "metric to minimise")
	tuneCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = one per cpu)")
	tuneCmd.Flags().IntVar(&top, "top", 10, "rows to show")

	batchCmd := &cobra.Command{
		Use:   "batch [script.yaml]",
		Short: "run every scenario in a batch script",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&save, "save", false, "keep each run in the data directory")

	robustCmd := &cobra.Command{
		Use:   "robust",
		Short: "monte carlo over perturbed hull parameters",
		RunE:  runRobust,
	}
	addScenarioFlags(robustCmd)
	robustCmd.Flags().IntVar(&trials, "trials", 50, "number of perturbed hulls")
	robustCmd.Flags().Float64Var(&spread, "spread", 0.2, "relative perturbation of each physics parameter")
	robustCmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	robustCmd.Flags().StringVar(&metric, "metric", "itae", "metric to summarise")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE:  printConfig,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	rootCmd.AddCommand(tuiCmd, runCmd, tuneCmd, batchCmd, robustCmd, presetsCmd, configCmd, listCmd, plotCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().Float64Var(&targetOffset, "target-offset", config.DefaultStepOffset, "single target step from the start depth (negative is deeper)")
}

// loadConfig layers defaults, preset, config file and explicitly set flags,
// in that order.
func loadConfig(cmd *cobra.Command, logger *zap.Logger) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if err := config.Apply(cfg, preset); err != nil {
			return nil, err
		}
		logger.Info("preset selected", zap.String("preset", preset))
	}
	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		logger.Info("config loaded", zap.String("path", configFile))
	}

	flags := cmd.Flags()
	if flags.Changed("kp") {
		cfg.Gains.Kp = kp
	}
	if flags.Changed("ki") {
		cfg.Gains.Ki = ki
	}
	if flags.Changed("kd") {
		cfg.Gains.Kd = kd
	}
	if flags.Changed("height") {
		cfg.Playfield.Height = height
	}
	if flags.Lookup("dt") != nil && flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Lookup("time") != nil && flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Lookup("target-offset") != nil && flags.Changed("target-offset") {
		cfg.Run.Setpoints = []config.SetpointConfig{{At: 0, Offset: targetOffset}}
	}
	if flags.Lookup("fps") != nil && flags.Changed("fps") {
		cfg.TUI.FrameRate = frameRate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func scenarioName() string {
	if preset != "" {
		return preset
	}
	return "step"
}

func runTUI(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := logging.NewInteractive(logLevel, logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}
	s, err := cfg.NewSimulation()
	if err != nil {
		return err
	}

	session := submarine.NewSession(s, control.NewTuner(cfg.GetGains()), logger)
	return tui.Run(session, tui.Options{
		FrameRate:  cfg.TUI.FrameRate,
		MaxFrameDt: cfg.TUI.MaxFrameDt,
	})
}

func runScenario(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := logging.New(logLevel, logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}
	s, err := cfg.NewSimulation()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sc := cfg.GetScenario(scenarioName())
	gains := cfg.GetGains()
	exp := experiment.New(sc, s, gains, logger)
	for _, m := range experiment.DefaultMetrics(experiment.DefaultSettleAfter) {
		exp.AddMetric(m)
	}

	fmt.Printf("running %s with %v...\n", sc.Name, gains)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("steps: %d\n", result.StepsTaken)
	last := result.Samples[len(result.Samples)-1]
	fmt.Printf("final depth: %.2f (target %.2f)\n", last.Depth, last.Target)

	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range experiment.MetricNames() {
		fmt.Fprintf(w, "  %s\t%.4f\n", name, result.Metrics[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if osc := analysis.DetectOscillation(result.Samples, experiment.DefaultSettleAfter); osc.Oscillating && osc.Amplitude > 1 {
		fmt.Printf("\nlimit cycle: period %.2fs (spectrum %.2fs), amplitude ±%.2f over %d cycles\n",
			osc.Period, analysis.DominantPeriod(result.Samples, experiment.DefaultSettleAfter), osc.Amplitude, osc.Cycles)
	}

	if !noPlot {
		fmt.Println()
		fmt.Println(plotDepth(result.Samples, "depth (cyan) vs target (yellow)"))
	}
	if showPhase {
		fmt.Println("\nphase portrait (error →, velocity ↑):")
		fmt.Print(analysis.NewPhasePortrait(result.Samples, 0).ASCII(60, 16))
	}

	if csvPath != "" {
		if err := storage.ExportCSV(csvPath, result.Samples); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", csvPath)
	}
	if svgPath != "" {
		if err := export.WriteSVG(svgPath, result.Samples, 800, 300); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	if jsonPath != "" {
		data := storage.ExportData{
			Scenario: sc.Name,
			Kp:       gains.Kp,
			Ki:       gains.Ki,
			Kd:       gains.Kd,
			Dt:       sc.Dt,
			Duration: sc.Duration,
			Steps:    result.StepsTaken,
			Metrics:  result.Metrics,
			Samples:  result.Samples,
		}
		if err := storage.ExportJSON(jsonPath, data); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonPath)
	}
	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(sc, gains, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func plotDepth(samples []sim.Sample, caption string) string {
	r := &sim.Result{Samples: samples}
	return asciigraph.PlotMany(
		[][]float64{
			r.Series(func(s sim.Sample) float64 { return s.Depth }),
			r.Series(func(s sim.Sample) float64 { return s.Target }),
		},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Yellow),
		asciigraph.Caption(caption),
	)
}

func runTune(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := logging.New(logLevel, logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gs := optim.NewGridSearch(cfg.GetScenario(scenarioName()), metric)
	gs.Params = cfg.GetParams()
	gs.Height = cfg.Playfield.Height
	gs.Logger = logger
	if workers > 0 {
		gs.Workers = workers
	}

	grid := optim.Grid{Kp: kpValues, Ki: kiValues, Kd: kdValues}
	fmt.Printf("sweeping %d gain sets by %s...\n", grid.Size(), metric)
	start := time.Now()

	results, err := gs.Search(ctx, grid)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RANK\tKP\tKI\tKD\t%s\tOVERSHOOT\tSETTLE\n", metric)
	for i, r := range results {
		if i >= top {
			break
		}
		fmt.Fprintf(w, "%d\t%g\t%g\t%g\t%.3f\t%.2f\t%.2fs\n",
			i+1, r.Gains.Kp, r.Gains.Ki, r.Gains.Kd, r.Score,
			r.Metrics["overshoot"], r.Metrics["settling_time"])
	}
	return w.Flush()
}

func runBatch(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := logging.New(logLevel, logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	base, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("batch %s: %d runs\n", script.Name, len(script.Runs))
	outcomes, err := automation.RunScript(ctx, script, base, logger)
	if err != nil {
		return err
	}

	var st *storage.Store
	if save {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKP\tKI\tKD\tITAE\tOVERSHOOT\tSETTLE\tRUN ID")
	for _, o := range outcomes {
		g := o.Config.GetGains()
		runID := "-"
		if st != nil {
			if runID, err = st.Save(o.Config.GetScenario(o.Run.Name), g, o.Result); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%.2f\t%.2f\t%.2fs\t%s\n",
			o.Run.Name, g.Kp, g.Ki, g.Kd,
			o.Result.Metrics["itae"], o.Result.Metrics["overshoot"], o.Result.Metrics["settling_time"], runID)
	}
	return w.Flush()
}

func runRobust(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := logging.New(logLevel, logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mc := &automation.MonteCarlo{
		Scenario:    cfg.GetScenario(scenarioName()),
		Gains:       cfg.GetGains(),
		Params:      cfg.GetParams(),
		Height:      cfg.Playfield.Height,
		Spread:      spread,
		Trials:      trials,
		Seed:        seed,
		Metric:      metric,
		SettleAfter: experiment.DefaultSettleAfter,
		Logger:      logger,
	}
	fmt.Printf("%d hulls within ±%.0f%% of nominal, gains %v\n", trials, spread*100, mc.Gains)

	summary, err := mc.Run(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "stable\t%d/%d\n", summary.Stable, len(summary.Trials))
	fmt.Fprintf(w, "%s mean\t%.4f\n", metric, summary.Mean)
	fmt.Fprintf(w, "%s stddev\t%.4f\n", metric, summary.StdDev)
	fmt.Fprintf(w, "%s worst\t%.4f\n", metric, summary.Worst)
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKP\tKI\tKD\tDURATION\tSETPOINTS")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%.0fs\t%s\n",
			name, cfg.Gains.Kp, cfg.Gains.Ki, cfg.Gains.Kd, cfg.Run.Duration, formatSetpoints(cfg.Run.Setpoints))
	}
	return w.Flush()
}

func formatSetpoints(sps []config.SetpointConfig) string {
	sorted := append([]config.SetpointConfig(nil), sps...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	out := ""
	for i, sp := range sorted {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%+g@%gs", sp.Offset, sp.At)
	}
	return out
}

func printConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, zap.NewNop())
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tKP\tKI\tKD\tITAE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%g\t%.2f\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Gains.Kp,
			run.Gains.Ki,
			run.Gains.Kd,
			run.Metrics["itae"],
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
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("gains: %v\n", meta.Gains)
	fmt.Printf("samples: %d\n\n", len(samples))
	fmt.Println(plotDepth(samples, "depth (cyan) vs target (yellow)"))
	return nil
}
