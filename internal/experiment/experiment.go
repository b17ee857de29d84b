package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/fieldlab/internal/config"
	"github.com/san-kum/fieldlab/internal/dynamo"
	"github.com/san-kum/fieldlab/internal/scenario"
	"github.com/san-kum/fieldlab/internal/sim"
)

// DefaultSnapshotEvery records particle positions at 10 Hz of a 60 Hz run.
const DefaultSnapshotEvery = 6

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	logger    *slog.Logger
	simulator *sim.Simulator

	SnapshotEvery int
}

// New prepares an experiment for cfg. The config is copied; Setup clamps
// the copy.
func New(cfg *config.Config, logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.Default()
	}
	return &Experiment{
		cfg:           cfg.Clone(),
		registry:      NewRegistry(),
		logger:        logger,
		SnapshotEvery: DefaultSnapshotEvery,
	}
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Setup clamps the config and builds the simulator from it.
func (e *Experiment) Setup() error {
	cfg := e.cfg
	for _, name := range cfg.Clamp() {
		e.logger.Warn("parameter clamped to range", "field", name)
	}
	if cfg.Mode != ModeWave && cfg.Mode != ModeMagnetic {
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownMode, cfg.Mode)
	}

	store := scenario.NewDefault()
	if cfg.Wave.Scenario != "" {
		if _, err := store.Select(cfg.Wave.Scenario); err != nil {
			return err
		}
	} else if len(cfg.Wave.Sources) > 0 {
		store.Apply(cfg.Wave.WaveParams())
	}

	field, err := e.registry.GetField(cfg.Magnetic)
	if err != nil {
		return err
	}
	mode, err := e.registry.GetChargeMode(cfg.Particles.ChargeMode)
	if err != nil {
		return err
	}

	e.simulator = sim.New(sim.Options{
		FixedStep:   cfg.Clock.FixedStep,
		MinInterval: cfg.Clock.FrameInterval,
		Speed:       cfg.Clock.SpeedMultiplier,
		Scenarios:   store,
		Field:       field,
		Plane:       cfg.Magnetic.Plane(),
		Particles: sim.ParticleOptions{
			Enabled: cfg.Particles.Enabled && cfg.Mode == ModeMagnetic,
			Count:   cfg.Particles.Count,
			Mode:    mode,
			Speed:   cfg.Particles.Speed,
		},
		GridCols: cfg.Wave.GridCols,
		GridRows: cfg.Wave.GridRows,
		ProbeX:   cfg.Wave.ProbeX,
		ProbeY:   cfg.Wave.ProbeY,
	})
	for _, m := range e.registry.DefaultMetrics(cfg.Mode, cfg.Particles.Speed) {
		e.simulator.AddMetric(m)
	}

	active, _ := store.Active()
	e.logger.Debug("experiment ready",
		"mode", cfg.Mode,
		"field", field.Kind(),
		"scenario", active,
		"particles", len(e.simulator.Particles()),
	)
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, dynamo.ErrNotSetup
	}

	res, err := e.simulator.Run(ctx, sim.RunConfig{
		Duration:      e.cfg.Duration,
		SnapshotEvery: e.SnapshotEvery,
		ValidateState: true,
	})
	if err != nil {
		e.logger.Error("run failed", "err", err)
		return res, err
	}
	e.logger.Info("run complete",
		"mode", e.cfg.Mode,
		"ticks", res.Ticks,
		"bounces", res.Bounces,
		"clamped", res.Clamped,
	)
	return res, nil
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}
