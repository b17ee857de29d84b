package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/san-kum/fieldlab/internal/experiment"
	"github.com/san-kum/fieldlab/internal/metrics"
	"github.com/san-kum/fieldlab/internal/physics"
	"github.com/san-kum/fieldlab/internal/scenario"
	"github.com/san-kum/fieldlab/internal/sim"
	"github.com/san-kum/fieldlab/internal/storage"
	"github.com/san-kum/fieldlab/internal/viz"
	"github.com/spf13/cobra"
)

var (
	watchEvery int
	watchCycle time.Duration
	atTime     float64
	mapCols    int
	mapRows    int
)

func setupExperiment(cmd *cobra.Command, args []string) (*experiment.Experiment, error) {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return nil, err
	}
	exp := experiment.New(cfg, logger)
	if err := exp.Setup(); err != nil {
		return nil, err
	}
	return exp, nil
}

// serveMetrics exposes a fresh registry fed by s on addr. The returned
// function shuts the server down.
func serveMetrics(addr string, s *sim.Simulator) (func(), error) {
	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		return nil, err
	}
	s.AddObserver(rec)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr, "path", "/metrics")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	exp, err := setupExperiment(cmd, args)
	if err != nil {
		return err
	}
	cfg := exp.Config()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if metricsAddr != "" {
		shutdown, err := serveMetrics(metricsAddr, exp.Simulator())
		if err != nil {
			return err
		}
		defer shutdown()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("running %s simulation...\n", cfg.Mode)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.MetadataFromConfig(cfg), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.Ticks)
	if cfg.Mode == experiment.ModeMagnetic {
		fmt.Printf("bounces: %d  clamped: %d\n", result.Bounces, result.Clamped)
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Mode == experiment.ModeMagnetic && !cmd.Flags().Changed("particles") {
		cfg.Particles.Enabled = true
	}
	exp := experiment.New(cfg, quietLogger())
	if err := exp.Setup(); err != nil {
		return err
	}
	_, err = tea.NewProgram(viz.NewModel(exp.Simulator(), exp.Config()), tea.WithAltScreen()).Run()
	return err
}

// runWatch drives the simulator from the real-time loop until the
// configured duration has been simulated or the process is interrupted.
func runWatch(cmd *cobra.Command, args []string) error {
	exp, err := setupExperiment(cmd, args)
	if err != nil {
		return err
	}
	cfg, s := exp.Config(), exp.Simulator()

	if metricsAddr != "" {
		shutdown, err := serveMetrics(metricsAddr, s)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	finished := make(chan struct{})
	var once sync.Once
	every := uint64(max(watchEvery, 1))

	loop := sim.NewLoop(s, cfg.Clock.FrameInterval)
	err = loop.Start(ctx, func(f sim.Frame) {
		if f.Tick%every == 0 {
			logger.Info("frame",
				"tick", f.Tick,
				"time", strconv.FormatFloat(f.Time, 'f', 3, 64),
				"probe", f.Probe,
				"particles", len(f.Particles),
				"bounces", f.Stats.Bounces,
			)
		}
		if f.Time >= cfg.Duration {
			once.Do(func() { close(finished) })
		}
	})
	if err != nil {
		return err
	}
	defer loop.Stop()

	var cycle <-chan time.Time
	if watchCycle > 0 && cfg.Mode == experiment.ModeWave {
		t := time.NewTicker(watchCycle)
		defer t.Stop()
		cycle = t.C
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("interrupted", "time", s.Clock().Elapsed())
			return nil
		case <-finished:
			logger.Info("watch complete", "duration", cfg.Duration)
			return nil
		case <-cycle:
			loop.Submit(func(s *sim.Simulator) {
				if sc, err := s.Scenarios().Next(); err == nil {
					logger.Info("scenario", "id", sc.ID)
				}
			})
		}
	}
}

func probePoint(cmd *cobra.Command, args []string) error {
	x, y, err := parsePoint(args)
	if err != nil {
		return err
	}
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}
	cfg.Clamp()

	params := cfg.Wave.WaveParams()
	if cfg.Wave.Scenario != "" {
		store := scenario.NewDefault()
		if _, err := store.Select(cfg.Wave.Scenario); err != nil {
			return err
		}
		params = store.Live()
	}

	amp, kind := physics.ClassifyAt(params, x, y, atTime)
	maxAmp := physics.MaxAmplitude(params.Sources)
	fmt.Printf("point: (%.2f, %.2f) at t=%.3fs\n", x, y, atTime)
	fmt.Printf("amplitude: %+.6f\n", amp)
	fmt.Printf("max possible: %.6f\n", maxAmp)
	fmt.Printf("interference: %s\n", kind)
	for i, src := range params.Sources {
		fmt.Printf("  source %d: %+.6f\n", i, physics.SourceContribution(src, x, y, atTime, params.WaveSpeed, params.Damping))
	}
	return nil
}

// fieldPoint prints B at one plane point, or a magnitude map of the plane
// when no point is given.
func fieldPoint(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}
	cfg.Clamp()

	src, err := experiment.NewRegistry().GetField(cfg.Magnetic)
	if err != nil {
		return err
	}
	plane := cfg.Magnetic.Plane()

	if len(args) == 2 {
		x, y, err := parsePoint(args)
		if err != nil {
			return err
		}
		b := src.FieldAt(x, y, plane)
		fmt.Printf("%s field at (%.1f, %.1f)\n", src.Kind(), x, y)
		fmt.Printf("  B = (%.6f, %.6f, %.6f)\n", b.X, b.Y, b.Z)
		fmt.Printf("  |B| = %.6f\n", b.Norm())
		return nil
	}
	if len(args) == 1 {
		return fmt.Errorf("field takes zero or two coordinates")
	}

	fmt.Print(fieldMap(src, plane, mapCols, mapRows))
	return nil
}

const mapShades = " .:-=+*#%@"

// fieldMap renders |B| on a log scale, since all three sources fall off
// with a power of the distance.
func fieldMap(src physics.Source, plane physics.Plane, cols, rows int) string {
	samples := physics.SampleField(src, plane, cols, rows)
	if len(samples) == 0 {
		return ""
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	logs := make([]float64, len(samples))
	for i, b := range samples {
		logs[i] = math.Log1p(b.Norm())
		lo = math.Min(lo, logs[i])
		hi = math.Max(hi, logs[i])
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	out := make([]byte, 0, (cols+1)*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			idx := int((logs[r*cols+c] - lo) / rng * float64(len(mapShades)-1))
			out = append(out, mapShades[idx])
		}
		out = append(out, '\n')
	}
	return string(out)
}

func parsePoint(args []string) (float64, float64, error) {
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("y: %w", err)
	}
	return x, y, nil
}
