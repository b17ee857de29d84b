package config

import (
	"math"
	"os"
	"time"

	"github.com/san-kum/fieldlab/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDuration      = 10.0
	DefaultFixedStep     = 1.0 / 60
	DefaultFrameInterval = 16 * time.Millisecond
	DefaultSpeed         = 1.0
	DefaultWaveSpeed     = 1.0
	DefaultDamping       = 0.02
	DefaultGridCols      = 60
	DefaultGridRows      = 30
	DefaultCurrent       = 5.0
	DefaultWireDistance  = 20.0
	DefaultTurns         = 10
	DefaultParticles     = 8
	DefaultChargeSpeed   = 3.0
)

type Config struct {
	Mode      string          `yaml:"mode"`
	Duration  float64         `yaml:"duration"`
	Clock     ClockConfig     `yaml:"clock"`
	Wave      WaveConfig      `yaml:"wave"`
	Magnetic  MagneticConfig  `yaml:"magnetic"`
	Particles ParticlesConfig `yaml:"particles"`
}

type ClockConfig struct {
	FixedStep       float64       `yaml:"fixed_step"`
	FrameInterval   time.Duration `yaml:"frame_interval"`
	SpeedMultiplier float64       `yaml:"speed_multiplier"`
}

type WaveConfig struct {
	Scenario  string         `yaml:"scenario"`
	WaveSpeed float64        `yaml:"wave_speed"`
	Damping   float64        `yaml:"damping"`
	Sources   []SourceConfig `yaml:"sources"`
	GridCols  int            `yaml:"grid_cols"`
	GridRows  int            `yaml:"grid_rows"`
	ProbeX    float64        `yaml:"probe_x"`
	ProbeY    float64        `yaml:"probe_y"`
}

// SourceConfig is a wave source as a user edits it: phase in degrees.
type SourceConfig struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"`
	PhaseDeg  float64 `yaml:"phase_deg"`
	Active    bool    `yaml:"active"`
}

type MagneticConfig struct {
	Field        string  `yaml:"field"`
	Current      float64 `yaml:"current"`
	WireDistance float64 `yaml:"wire_distance"`
	Turns        int     `yaml:"turns"`
	PlaneWidth   float64 `yaml:"plane_width"`
	PlaneHeight  float64 `yaml:"plane_height"`
}

type ParticlesConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Count      int     `yaml:"count"`
	ChargeMode string  `yaml:"charge_mode"`
	Speed      float64 `yaml:"speed"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:     "wave",
		Duration: DefaultDuration,
		Clock: ClockConfig{
			FixedStep:       DefaultFixedStep,
			FrameInterval:   DefaultFrameInterval,
			SpeedMultiplier: DefaultSpeed,
		},
		Wave: WaveConfig{
			WaveSpeed: DefaultWaveSpeed,
			Damping:   DefaultDamping,
			Sources: []SourceConfig{
				{X: 30, Y: 50, Frequency: 1.5, Amplitude: 1, Active: true},
				{X: 70, Y: 50, Frequency: 1.5, Amplitude: 1, Active: true},
			},
			GridCols: DefaultGridCols,
			GridRows: DefaultGridRows,
			ProbeX:   50,
			ProbeY:   50,
		},
		Magnetic: MagneticConfig{
			Field:        "coil",
			Current:      DefaultCurrent,
			WireDistance: DefaultWireDistance,
			Turns:        DefaultTurns,
			PlaneWidth:   physics.DefaultPlane.Width,
			PlaneHeight:  physics.DefaultPlane.Height,
		},
		Particles: ParticlesConfig{
			Enabled:    true,
			Count:      DefaultParticles,
			ChargeMode: "alternating",
			Speed:      DefaultChargeSpeed,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WaveSource converts to the model representation, phase in radians.
func (s SourceConfig) WaveSource() physics.WaveSource {
	return physics.WaveSource{
		X:         s.X,
		Y:         s.Y,
		Frequency: s.Frequency,
		Amplitude: s.Amplitude,
		Phase:     s.PhaseDeg * math.Pi / 180,
		Active:    s.Active,
	}
}

// FromWaveSource converts a model source back to user units.
func FromWaveSource(src physics.WaveSource) SourceConfig {
	return SourceConfig{
		X:         src.X,
		Y:         src.Y,
		Frequency: src.Frequency,
		Amplitude: src.Amplitude,
		PhaseDeg:  src.Phase * 180 / math.Pi,
		Active:    src.Active,
	}
}

// WaveParams builds the model input from the wave section.
func (w WaveConfig) WaveParams() physics.WaveParams {
	p := physics.WaveParams{WaveSpeed: w.WaveSpeed, Damping: w.Damping}
	for _, s := range w.Sources {
		p.Sources = append(p.Sources, s.WaveSource())
	}
	return p
}

func (m MagneticConfig) Plane() physics.Plane {
	return physics.Plane{Width: m.PlaneWidth, Height: m.PlaneHeight, Margin: physics.DefaultPlane.Margin}
}

// Source builds the configured field variant.
func (m MagneticConfig) Source() (physics.Source, error) {
	kind, err := physics.ParseSourceKind(m.Field)
	if err != nil {
		return nil, err
	}
	return physics.NewSource(kind, m.Current, m.Turns, m.WireDistance), nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Wave.Sources = append([]SourceConfig(nil), c.Wave.Sources...)
	return &out
}
