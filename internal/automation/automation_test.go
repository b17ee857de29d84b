package automation

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/fieldlab/internal/config"
	"github.com/san-kum/fieldlab/internal/dynamo"
	"github.com/san-kum/fieldlab/internal/sim"
	"github.com/san-kum/fieldlab/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoScript = `
name: demo
description: beats then a wire
steps:
  - name: beats
    mode: wave
    scenario: beats
    duration: 0.5
    save_as: beats-run
  - mode: magnetic
    field: wire
    current: 3
    particles: 4
    charges: negative
    duration: 0.5
`

type fakeSaver struct {
	metas []storage.RunMetadata
	err   error
}

func (f *fakeSaver) Save(meta storage.RunMetadata, _ *sim.Result) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.metas = append(f.metas, meta)
	return "run-" + meta.Mode, nil
}

func quiet() *slog.Logger { return slog.New(slog.DiscardHandler) }

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte(demoScript))
	require.NoError(t, err)
	assert.Equal(t, "demo", s.Name)
	require.Len(t, s.Steps, 2)

	wire := s.Steps[1]
	require.NotNil(t, wire.Current)
	assert.Equal(t, 3.0, *wire.Current)
	require.NotNil(t, wire.Particles)
	assert.Equal(t, 4, *wire.Particles)
	assert.Nil(t, wire.Turns)
	assert.Nil(t, s.Steps[0].Current)

	_, err = ParseScript([]byte("name: empty\n"))
	assert.Error(t, err)
	_, err = ParseScript([]byte("steps: [unterminated"))
	assert.Error(t, err)
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(demoScript), 0644))

	s, err := LoadScript(path)
	require.NoError(t, err)
	assert.Len(t, s.Steps, 2)

	_, err = LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestStepApplyOverridesOnlySetFields(t *testing.T) {
	base := config.DefaultConfig()
	current, turns := 2.5, 4
	step := Step{Mode: "magnetic", Current: &current, Turns: &turns}

	cfg := step.Apply(base)
	assert.Equal(t, "magnetic", cfg.Mode)
	assert.Equal(t, 2.5, cfg.Magnetic.Current)
	assert.Equal(t, 4, cfg.Magnetic.Turns)
	assert.Equal(t, base.Magnetic.Field, cfg.Magnetic.Field)
	assert.Equal(t, base.Duration, cfg.Duration)
	assert.Equal(t, config.DefaultCurrent, base.Magnetic.Current, "base modified")

	zero := 0
	cfg = Step{Particles: &zero}.Apply(base)
	assert.False(t, cfg.Particles.Enabled)
}

func TestRunScript(t *testing.T) {
	s, err := ParseScript([]byte(demoScript))
	require.NoError(t, err)
	saver := &fakeSaver{}

	results, err := RunScript(context.Background(), s, config.DefaultConfig(), saver, quiet())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, uint64(30), results[0].Result.Ticks)
	assert.Equal(t, "run-wave", results[0].RunID)
	assert.Empty(t, results[1].RunID, "step without save_as was saved")

	assert.Equal(t, "wire", results[1].Config.Magnetic.Field)
	assert.Equal(t, "negative", results[1].Config.Particles.ChargeMode)
	require.NotEmpty(t, results[1].Result.Snapshots)
	for _, p := range results[1].Result.Snapshots[0].Particles {
		assert.Equal(t, -1.0, p.Charge)
	}

	require.Len(t, saver.metas, 1)
	assert.Equal(t, "beats", saver.metas[0].Scenario)
}

func TestRunScriptStopsAtFirstError(t *testing.T) {
	s := &Script{Name: "bad", Steps: []Step{
		{Mode: "wave", Duration: 0.1},
		{Name: "missing", Mode: "wave", Scenario: "no-such-scenario"},
		{Mode: "wave", Duration: 0.1},
	}}

	results, err := RunScript(context.Background(), s, config.DefaultConfig(), nil, quiet())
	require.Error(t, err)
	assert.ErrorIs(t, err, dynamo.ErrScenarioNotFound)
	assert.Contains(t, err.Error(), "missing")
	assert.Len(t, results, 1)
}

func TestRunScriptSaveError(t *testing.T) {
	s := &Script{Steps: []Step{{Mode: "wave", Duration: 0.1, SaveAs: "x"}}}
	boom := errors.New("disk full")

	_, err := RunScript(context.Background(), s, config.DefaultConfig(), &fakeSaver{err: boom}, quiet())
	assert.ErrorIs(t, err, boom)
}

func TestRunScriptPersists(t *testing.T) {
	store := storage.New(t.TempDir())
	require.NoError(t, store.Init())
	s := &Script{Steps: []Step{{Mode: "magnetic", Duration: 0.2, SaveAs: "coil"}}}

	results, err := RunScript(context.Background(), s, config.DefaultConfig(), store, quiet())
	require.NoError(t, err)

	runs, err := store.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, results[0].RunID, runs[0].ID)
	assert.Equal(t, "coil", runs[0].Field)
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.DefaultConfig()
	base.Duration = 0.5

	results, err := RunMonteCarlo(context.Background(), MonteCarloConfig{
		Base:         base,
		Perturbation: 0.1,
		NumTrials:    3,
		Seed:         42,
	}, quiet())
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, r := range results {
		assert.InDelta(t, config.DefaultCurrent, r.Current, 0.5+1e-9)
		assert.InDelta(t, config.DefaultChargeSpeed, r.ChargeSpeed, 0.3+1e-9)
		assert.True(t, r.Stable, "trial %d", r.TrialID)
	}

	stable, unstable := MonteCarloStats(results)
	assert.Equal(t, 3, stable)
	assert.Equal(t, 0, unstable)
}

func TestRunMonteCarloCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := RunMonteCarlo(ctx, MonteCarloConfig{Base: config.DefaultConfig(), NumTrials: 2, Seed: 1}, quiet())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestMonteCarloStats(t *testing.T) {
	stable, unstable := MonteCarloStats([]MonteCarloResult{{Stable: true}, {}, {Stable: true}})
	assert.Equal(t, 2, stable)
	assert.Equal(t, 1, unstable)
}
