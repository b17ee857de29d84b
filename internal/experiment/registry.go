package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/fieldlab/internal/config"
	"github.com/san-kum/fieldlab/internal/dynamo"
	"github.com/san-kum/fieldlab/internal/integrators"
	"github.com/san-kum/fieldlab/internal/metrics"
	"github.com/san-kum/fieldlab/internal/physics"
	"github.com/san-kum/fieldlab/internal/sim"
)

const (
	ModeWave     = "wave"
	ModeMagnetic = "magnetic"
)

type Registry struct {
	fields      map[string]func(config.MagneticConfig) physics.Source
	chargeModes map[string]integrators.ChargeMode
}

func NewRegistry() *Registry {
	r := &Registry{
		fields:      make(map[string]func(config.MagneticConfig) physics.Source),
		chargeModes: make(map[string]integrators.ChargeMode),
	}

	r.fields["wire"] = func(m config.MagneticConfig) physics.Source {
		return physics.Wire{Current: m.Current, Distance: m.WireDistance}
	}
	r.fields["coil"] = func(m config.MagneticConfig) physics.Source {
		return physics.Coil{Current: m.Current, Turns: m.Turns}
	}
	r.fields["bar"] = func(m config.MagneticConfig) physics.Source {
		return physics.BarMagnet{Current: m.Current}
	}

	for _, m := range []integrators.ChargeMode{integrators.AllPositive, integrators.AllNegative, integrators.Alternating} {
		r.chargeModes[m.String()] = m
	}
	return r
}

// GetField builds the source for m.Field. Aliases accepted by
// physics.ParseSourceKind resolve to their canonical name.
func (r *Registry) GetField(m config.MagneticConfig) (physics.Source, error) {
	kind, err := physics.ParseSourceKind(m.Field)
	if err != nil {
		return nil, err
	}
	fn, ok := r.fields[kind.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownField, m.Field)
	}
	return fn(m), nil
}

func (r *Registry) GetChargeMode(name string) (integrators.ChargeMode, error) {
	if m, ok := r.chargeModes[name]; ok {
		return m, nil
	}
	return integrators.ParseChargeMode(name)
}

func (r *Registry) ListFields() []string {
	return sortedKeys(r.fields)
}

func (r *Registry) ListChargeModes() []string {
	return sortedKeys(r.chargeModes)
}

func (r *Registry) ListModes() []string {
	return []string{ModeMagnetic, ModeWave}
}

func (r *Registry) DefaultMetrics(mode string, chargeSpeed float64) []sim.Metric {
	if mode == ModeWave {
		return []sim.Metric{
			metrics.NewProbePeak(),
			metrics.NewProbeRMS(),
		}
	}
	return []sim.Metric{
		metrics.NewEnergy(),
		metrics.NewEnergyLoss(),
		metrics.NewSpeedBound(chargeSpeed * integrators.MaxSpeedFactor),
		metrics.NewMaxSpeed(),
		metrics.NewBounces(),
		metrics.NewProbePeak(),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
