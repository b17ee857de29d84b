package config

import "sort"

func magneticPreset(field string, current float64, turns int, count int, mode string, speed float64) *Config {
	cfg := DefaultConfig()
	cfg.Mode = "magnetic"
	cfg.Magnetic.Field = field
	cfg.Magnetic.Current = current
	cfg.Magnetic.Turns = turns
	cfg.Particles.Count = count
	cfg.Particles.ChargeMode = mode
	cfg.Particles.Speed = speed
	return cfg
}

// Presets holds named magnetic setups keyed by field kind.
var Presets = map[string]map[string]*Config{
	"wire": {
		"gentle":  magneticPreset("wire", 2, DefaultTurns, 8, "alternating", 2),
		"strong":  magneticPreset("wire", 10, DefaultTurns, 12, "positive", 4),
		"reverse": magneticPreset("wire", 6, DefaultTurns, 8, "negative", 3),
	},
	"coil": {
		"orbit":  magneticPreset("coil", 5, 10, 8, "positive", 3),
		"dense":  magneticPreset("coil", 8, 20, 16, "alternating", 5),
		"sparse": magneticPreset("coil", 3, 2, 4, "alternating", 2),
	},
	"bar": {
		"dipole": magneticPreset("bar", 5, DefaultTurns, 12, "alternating", 3),
		"swarm":  magneticPreset("bar", 8, DefaultTurns, 48, "alternating", 6),
		"calm":   magneticPreset("bar", 1, DefaultTurns, 6, "positive", 1),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(field, preset string) *Config {
	fieldPresets, ok := Presets[field]
	if !ok {
		return nil
	}
	cfg, ok := fieldPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(field string) []string {
	fieldPresets, ok := Presets[field]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(fieldPresets))
	for name := range fieldPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetFields lists the field kinds that have presets.
func PresetFields() []string {
	fields := make([]string, 0, len(Presets))
	for f := range Presets {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
