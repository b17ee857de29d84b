package optim

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/san-kum/fieldlab/internal/config"
	"github.com/san-kum/fieldlab/internal/experiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func waveBase() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Duration = 1
	return cfg
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, Linspace(0, 1, 5))
	assert.Equal(t, []float64{3}, Linspace(3, 9, 1))
}

func TestParseRange(t *testing.T) {
	got, err := ParseRange("2")
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, got)

	got, err = ParseRange("0:10:3")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 5, 10}, got)

	for _, bad := range []string{"x", "1:2", "1:2:0", "a:2:3", "1:b:3", "1:2:c"} {
		_, err := ParseRange(bad)
		assert.Error(t, err, bad)
	}
}

func TestApply(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, Apply(cfg, map[string]float64{
		"current":   7,
		"turns":     7.6,
		"phase_deg": 90,
		"frequency": 2,
	}))
	assert.Equal(t, 7.0, cfg.Magnetic.Current)
	assert.Equal(t, 8, cfg.Magnetic.Turns)
	assert.Equal(t, 90.0, cfg.Wave.Sources[1].PhaseDeg)
	for _, s := range cfg.Wave.Sources {
		assert.Equal(t, 2.0, s.Frequency)
	}

	err := Apply(cfg, map[string]float64{"mass": 1})
	assert.ErrorIs(t, err, ErrUnknownParameter)
}

func TestParametersSorted(t *testing.T) {
	names := Parameters()
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, "damping")
}

func TestGridSearchGoal(t *testing.T) {
	build := ConfigBuilder(waveBase(), quietLogger())

	// heavier damping weakens the ripples reaching the probe
	params, best, err := NewGridSearch([]string{"damping"}, [][]float64{{0.01, 0.1}}).
		WithGoal(Maximize).
		Search(context.Background(), build, "probe_peak")
	require.NoError(t, err)
	assert.Equal(t, 0.01, params["damping"])
	assert.Greater(t, best, 1.0)

	g := NewGridSearch([]string{"damping"}, [][]float64{{0.01, 0.1}})
	params, best, err = g.Search(context.Background(), build, "probe_peak")
	require.NoError(t, err)
	assert.Equal(t, 0.1, params["damping"])
	assert.Less(t, best, 0.5)
	assert.Len(t, g.Trials(), 2)
}

func TestGridSearchVisitsEveryPoint(t *testing.T) {
	g := NewGridSearch(
		[]string{"damping", "wave_speed"},
		[][]float64{{0.01, 0.05}, {1, 2, 3}},
	)
	assert.Equal(t, 6, g.Size())

	_, _, err := g.Search(context.Background(), ConfigBuilder(waveBase(), quietLogger()), "probe_rms")
	require.NoError(t, err)
	require.Len(t, g.Trials(), 6)
	assert.Equal(t, map[string]float64{"damping": 0.01, "wave_speed": 1}, g.Trials()[0].Params)
	assert.Equal(t, map[string]float64{"damping": 0.05, "wave_speed": 3}, g.Trials()[5].Params)
}

func TestGridSearchFailures(t *testing.T) {
	boom := errors.New("boom")
	failing := func(map[string]float64) (*experiment.Experiment, error) { return nil, boom }

	g := NewGridSearch([]string{"current"}, [][]float64{{1, 2}})
	_, _, err := g.Search(context.Background(), failing, "energy")
	assert.ErrorIs(t, err, ErrNoResult)
	for _, tr := range g.Trials() {
		assert.ErrorIs(t, tr.Err, boom)
	}

	_, _, err = NewGridSearch([]string{"damping"}, [][]float64{{0.01}}).
		Search(context.Background(), ConfigBuilder(waveBase(), quietLogger()), "no_such_metric")
	assert.ErrorIs(t, err, ErrNoResult)

	_, _, err = NewGridSearch([]string{"a", "b"}, [][]float64{{1}}).
		Search(context.Background(), failing, "energy")
	assert.Error(t, err)
}

func TestGridSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGridSearch([]string{"damping"}, [][]float64{{0.01, 0.02}})
	_, _, err := g.Search(ctx, ConfigBuilder(waveBase(), quietLogger()), "probe_peak")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, g.Trials())
}

func TestGoalString(t *testing.T) {
	assert.Equal(t, "minimize", Minimize.String())
	assert.Equal(t, "maximize", Maximize.String())
}
