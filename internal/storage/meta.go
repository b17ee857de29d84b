package storage

import "github.com/san-kum/fieldlab/internal/config"

// MetadataFromConfig describes a run of cfg. Fields that only apply to the
// other mode stay empty.
func MetadataFromConfig(cfg *config.Config) RunMetadata {
	meta := RunMetadata{
		Mode:      cfg.Mode,
		FixedStep: cfg.Clock.FixedStep,
		Speed:     cfg.Clock.SpeedMultiplier,
		Duration:  cfg.Duration,
		ProbeX:    cfg.Wave.ProbeX,
		ProbeY:    cfg.Wave.ProbeY,
	}
	if cfg.Mode == "magnetic" {
		meta.Field = cfg.Magnetic.Field
		meta.Current = cfg.Magnetic.Current
		meta.Turns = cfg.Magnetic.Turns
		if cfg.Particles.Enabled {
			meta.Particles = cfg.Particles.Count
			meta.ChargeMode = cfg.Particles.ChargeMode
			meta.ChargeSpeed = cfg.Particles.Speed
		}
		return meta
	}
	meta.Scenario = cfg.Wave.Scenario
	return meta
}
