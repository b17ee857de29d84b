package optim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"

	"github.com/san-kum/fieldlab/internal/config"
	"github.com/san-kum/fieldlab/internal/experiment"
)

var ErrNoResult = errors.New("optim: no trial produced the metric")

type Goal int

const (
	Minimize Goal = iota
	Maximize
)

func (g Goal) String() string {
	if g == Maximize {
		return "maximize"
	}
	return "minimize"
}

// better reports whether a beats b under g.
func (g Goal) better(a, b float64) bool {
	if g == Maximize {
		return a > b
	}
	return a < b
}

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// GridSearch evaluates every combination of the parameter ranges.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	goal       Goal
	logger     *slog.Logger
	trials     []Trial
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, logger: slog.New(slog.DiscardHandler)}
}

func (g *GridSearch) WithGoal(goal Goal) *GridSearch {
	g.goal = goal
	return g
}

func (g *GridSearch) WithLogger(logger *slog.Logger) *GridSearch {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	if len(g.ranges) == 0 {
		return 0
	}
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Trials returns every point evaluated by the last Search, in visit order.
func (g *GridSearch) Trials() []Trial { return g.trials }

// Search builds an experiment per grid point, sets it up and runs it, and
// returns the point whose metricName is best under the goal. Failed trials
// are recorded and skipped; cancellation stops the search.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("grid search: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	g.trials = g.trials[:0]
	best := math.Inf(1)
	if g.goal == Maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) {
		t := g.evaluate(ctx, params, buildExperiment, metricName)
		g.trials = append(g.trials, t)
		if t.Err != nil {
			g.logger.Warn("trial failed", "params", params, "error", t.Err)
			return
		}
		g.logger.Debug("trial", "params", params, metricName, t.Value)
		if bestParams == nil || g.goal.better(t.Value, best) {
			best = t.Value
			bestParams = params
		}
	})
	if err != nil {
		return bestParams, best, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("%w: %s", ErrNoResult, metricName)
	}
	return bestParams, best, nil
}

// ConfigBuilder returns a builder that applies each grid point to a copy of
// base.
func ConfigBuilder(base *config.Config, logger *slog.Logger) func(map[string]float64) (*experiment.Experiment, error) {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		if err := Apply(cfg, params); err != nil {
			return nil, err
		}
		return experiment.New(cfg, logger), nil
	}
}

func (g *GridSearch) evaluate(
	ctx context.Context,
	params map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
) Trial {
	t := Trial{Params: params}
	exp, err := buildExperiment(params)
	if err != nil {
		t.Err = err
		return t
	}
	if err := exp.Setup(); err != nil {
		t.Err = err
		return t
	}
	result, err := exp.Run(ctx)
	if err != nil {
		t.Err = err
		return t
	}
	val, ok := result.Metrics[metricName]
	if !ok || math.IsNaN(val) {
		t.Err = fmt.Errorf("%w: %s", ErrNoResult, metricName)
		return t
	}
	t.Value = val
	return t
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		visit(current)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := maps.Clone(current)
		newParams[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, newParams, visit); err != nil {
			return err
		}
	}
	return nil
}
