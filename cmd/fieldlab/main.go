package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/fieldlab/internal/config"
	"github.com/san-kum/fieldlab/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	logFormat  string
	logger     *slog.Logger

	// simulation overrides, shared by run, live, watch and sweep
	duration    float64
	scenarioID  string
	field       string
	current     float64
	turns       int
	particles   int
	charges     string
	chargeSpeed float64
	speed       float64
	probeX      float64
	probeY      float64
	preset      string

	metricsAddr string
)

// main registers the fieldlab commands and runs the root command. With no
// subcommand it opens the interactive launcher.
func main() {
	rootCmd := &cobra.Command{
		Use:           "fieldlab",
		Short:         "wave interference and magnetic field lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(logLevel, logFormat)
			if err != nil {
				return err
			}
			logger = l
			slog.SetDefault(l)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadBaseConfig()
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(viz.NewApp(cfg, quietLogger()), tea.WithAltScreen()).Run()
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fieldlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run [wave|magnetic]",
		Short: "run a headless simulation and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")

	liveCmd := &cobra.Command{
		Use:   "live [wave|magnetic]",
		Short: "run with the live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	watchCmd := &cobra.Command{
		Use:   "watch [wave|magnetic]",
		Short: "run in real time and log frames until interrupted",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatch,
	}
	addSimFlags(watchCmd)
	watchCmd.Flags().IntVar(&watchEvery, "every", 60, "log every n-th frame")
	watchCmd.Flags().DurationVar(&watchCycle, "cycle", 0, "advance to the next wave scenario at this wall-clock interval")
	watchCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	probeCmd := &cobra.Command{
		Use:   "probe [x] [y]",
		Short: "evaluate the wave field at a point",
		Args:  cobra.ExactArgs(2),
		RunE:  probePoint,
	}
	addSimFlags(probeCmd)
	probeCmd.Flags().Float64Var(&atTime, "at", 0, "simulated time in seconds")

	fieldCmd := &cobra.Command{
		Use:   "field [x] [y]",
		Short: "evaluate the magnetic field at a plane point",
		Args:  cobra.MaximumNArgs(2),
		RunE:  fieldPoint,
	}
	addSimFlags(fieldCmd)
	fieldCmd.Flags().IntVar(&mapCols, "cols", 40, "columns of the magnitude map when no point is given")
	fieldCmd.Flags().IntVar(&mapRows, "rows", 20, "rows of the magnitude map when no point is given")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and divergence analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a run as SVG (probe, trails or grid)",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgKind, "kind", "", "probe, trails or grid (default by mode)")
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().Float64Var(&atTime, "at", 0, "simulated time of the grid snapshot")

	sonifyCmd := &cobra.Command{
		Use:   "sonify [run_id]",
		Short: "render a run's probe signal as a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE:  sonifyRun,
	}
	sonifyCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.wav)")
	sonifyCmd.Flags().Float64Var(&octaves, "octaves", 1, "pitch swing at full displacement")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list wave scenarios",
		RunE:  listScenarios,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [field]",
		Short: "list magnetic presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [wave|magnetic]",
		Short: "grid search over parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=min:max:steps (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "probe_peak", "metric to optimise")
	sweepCmd.Flags().BoolVar(&sweepMaximize, "maximize", false, "maximise instead of minimise")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a yaml script of simulation steps",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb field current and charge speed over many magnetic runs",
		RunE:  runMonteCarlo,
	}
	addSimFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&mcTrials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&mcPerturb, "perturb", 0.1, "fractional perturbation")
	monteCarloCmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed (0 = time)")

	rootCmd.AddCommand(runCmd, liveCmd, watchCmd, probeCmd, fieldCmd, listCmd, plotCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, sonifyCmd, scenariosCmd, presetsCmd, sweepCmd, scriptCmd, monteCarloCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration in simulated seconds")
	f.StringVar(&scenarioID, "scenario", "", "wave scenario id")
	f.StringVar(&field, "field", "coil", "magnetic field (wire, coil, bar)")
	f.Float64Var(&current, "current", config.DefaultCurrent, "field current")
	f.IntVar(&turns, "turns", config.DefaultTurns, "coil turns")
	f.IntVar(&particles, "particles", config.DefaultParticles, "number of charged particles")
	f.StringVar(&charges, "charges", "alternating", "charge mode (positive, negative, alternating)")
	f.Float64Var(&chargeSpeed, "charge-speed", config.DefaultChargeSpeed, "initial particle speed")
	f.Float64Var(&speed, "speed", config.DefaultSpeed, "clock speed multiplier")
	f.Float64Var(&probeX, "probe-x", 50, "wave probe x")
	f.Float64Var(&probeY, "probe-y", 50, "wave probe y")
	f.StringVar(&preset, "preset", "", "magnetic preset for --field")
}

func newLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return nil, fmt.Errorf("log format %q: want text or json", format)
}

// quietLogger keeps log lines from tearing the full-screen views.
func quietLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func loadBaseConfig() (*config.Config, error) {
	if configFile == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// buildConfig layers the config file, a preset, the mode argument and every
// flag the user actually set.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := loadBaseConfig()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()

	if preset != "" {
		f := cfg.Magnetic.Field
		if flags.Changed("field") {
			f = field
		}
		p := config.GetPreset(f, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available for %s: %v)", preset, f, config.ListPresets(f))
		}
		cfg.Mode = p.Mode
		cfg.Magnetic = p.Magnetic
		cfg.Particles = p.Particles
	}

	if len(args) > 0 {
		cfg.Mode = args[0]
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("scenario") {
		cfg.Wave.Scenario = scenarioID
	}
	if flags.Changed("field") {
		cfg.Magnetic.Field = field
	}
	if flags.Changed("current") {
		cfg.Magnetic.Current = current
	}
	if flags.Changed("turns") {
		cfg.Magnetic.Turns = turns
	}
	if flags.Changed("particles") {
		cfg.Particles.Count = particles
		cfg.Particles.Enabled = particles > 0
	}
	if flags.Changed("charges") {
		cfg.Particles.ChargeMode = charges
	}
	if flags.Changed("charge-speed") {
		cfg.Particles.Speed = chargeSpeed
	}
	if flags.Changed("speed") {
		cfg.Clock.SpeedMultiplier = speed
	}
	if flags.Changed("probe-x") {
		cfg.Wave.ProbeX = probeX
	}
	if flags.Changed("probe-y") {
		cfg.Wave.ProbeY = probeY
	}
	return cfg, nil
}
