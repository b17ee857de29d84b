package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/fieldlab/internal/config"
	"github.com/san-kum/fieldlab/internal/experiment"
	"github.com/san-kum/fieldlab/internal/sim"
	"github.com/san-kum/fieldlab/internal/storage"
	"gopkg.in/yaml.v3"
)

// Script is a named sequence of runs. Each step starts from the base config
// and overrides only the fields it sets.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is a single run of a script. Pointer fields distinguish "not set"
// from zero.
type Step struct {
	Name            string   `yaml:"name"`
	Mode            string   `yaml:"mode"`
	Scenario        string   `yaml:"scenario"`
	Field           string   `yaml:"field"`
	Current         *float64 `yaml:"current"`
	Turns           *int     `yaml:"turns"`
	Charges         string   `yaml:"charges"`
	Particles       *int     `yaml:"particles"`
	ChargeSpeed     *float64 `yaml:"charge_speed"`
	SpeedMultiplier *float64 `yaml:"speed_multiplier"`
	Duration        float64  `yaml:"duration"`
	SaveAs          string   `yaml:"save_as"`
}

// Saver persists a finished run. *storage.Store satisfies it.
type Saver interface {
	Save(meta storage.RunMetadata, result *sim.Result) (string, error)
}

// StepResult is the outcome of one step.
type StepResult struct {
	Step   Step
	Config *config.Config
	Result *sim.Result
	RunID  string
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse script %q: no steps", script.Name)
	}
	return &script, nil
}

// Apply returns base with the step's overrides.
func (s Step) Apply(base *config.Config) *config.Config {
	cfg := base.Clone()
	if s.Mode != "" {
		cfg.Mode = s.Mode
	}
	if s.Scenario != "" {
		cfg.Wave.Scenario = s.Scenario
	}
	if s.Field != "" {
		cfg.Magnetic.Field = s.Field
	}
	if s.Current != nil {
		cfg.Magnetic.Current = *s.Current
	}
	if s.Turns != nil {
		cfg.Magnetic.Turns = *s.Turns
	}
	if s.Charges != "" {
		cfg.Particles.ChargeMode = s.Charges
	}
	if s.Particles != nil {
		cfg.Particles.Count = *s.Particles
		cfg.Particles.Enabled = *s.Particles > 0
	}
	if s.ChargeSpeed != nil {
		cfg.Particles.Speed = *s.ChargeSpeed
	}
	if s.SpeedMultiplier != nil {
		cfg.Clock.SpeedMultiplier = *s.SpeedMultiplier
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	return cfg
}

func (s Step) label(i int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("step %d", i+1)
}

// RunScript executes every step in order. saver may be nil, in which case
// save_as is ignored. The results of completed steps are returned along
// with the first error.
func RunScript(ctx context.Context, script *Script, base *config.Config, saver Saver, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]StepResult, 0, len(script.Steps))

	for i, step := range script.Steps {
		label := step.label(i)
		logger.Info("running step", "script", script.Name, "step", label, "n", i+1, "of", len(script.Steps))

		exp := experiment.New(step.Apply(base), logger)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("%s setup: %w", label, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("%s run: %w", label, err)
		}

		sr := StepResult{Step: step, Config: exp.Config(), Result: result}
		if step.SaveAs != "" && saver != nil {
			meta := storage.MetadataFromConfig(exp.Config())
			if meta.Scenario == "" && meta.Mode == experiment.ModeWave {
				meta.Scenario = step.SaveAs
			}
			id, err := saver.Save(meta, result)
			if err != nil {
				return results, fmt.Errorf("%s save: %w", label, err)
			}
			sr.RunID = id
			logger.Info("saved step", "step", label, "run_id", id, "as", step.SaveAs)
		}
		results = append(results, sr)
	}

	return results, nil
}

// MonteCarloConfig perturbs the field current and the charge speed of a
// magnetic base config.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64 // fractional, 0.1 = ±10%
	NumTrials    int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID     int
	Current     float64
	ChargeSpeed float64
	Bounces     int
	MaxSpeed    float64
	Stable      bool // finite state and the speed bound held on every tick
}

// RunMonteCarlo executes NumTrials magnetic runs with random perturbations.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig, logger *slog.Logger) ([]MonteCarloResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		run := cfg.Base.Clone()
		run.Mode = experiment.ModeMagnetic
		run.Particles.Enabled = true
		run.Magnetic.Current *= 1 + (rng.Float64()-0.5)*2*cfg.Perturbation
		run.Particles.Speed *= 1 + (rng.Float64()-0.5)*2*cfg.Perturbation

		exp := experiment.New(run, logger)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}
		res := MonteCarloResult{
			TrialID:     trial,
			Current:     exp.Config().Magnetic.Current,
			ChargeSpeed: exp.Config().Particles.Speed,
		}

		result, err := exp.Run(ctx)
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		if result != nil {
			res.Bounces = result.Bounces
			res.MaxSpeed = result.Metrics["max_speed"]
			res.Stable = err == nil && result.Metrics["speed_bound"] == 1
		}
		results = append(results, res)

		if (trial+1)%10 == 0 {
			logger.Info("monte carlo progress", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
