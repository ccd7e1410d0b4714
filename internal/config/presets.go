package config

import (
	"fmt"
	"sort"
)

// Presets are named starting points: gain sets and setpoint schedules.
// Each entry only lists what it changes from DefaultConfig.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"damped": func(c *Config) {
		c.Gains = GainsConfig{Kp: 0.1, Ki: 0.01, Kd: 2}
	},
	"aggressive": func(c *Config) {
		c.Gains = GainsConfig{Kp: 1, Ki: 0.01, Kd: 8}
	},
	"sluggish": func(c *Config) {
		c.Gains = GainsConfig{Kp: 0.05, Ki: 0, Kd: 0.8}
	},
	"staircase": func(c *Config) {
		c.Run.Duration = 90
		c.Run.Setpoints = []SetpointConfig{
			{At: 0, Offset: -50},
			{At: 30, Offset: -100},
			{At: 60, Offset: 0},
		}
	},
	"surface": func(c *Config) {
		c.Run.Duration = 60
		c.Run.Setpoints = []SetpointConfig{{At: 0, Offset: 1000}}
	},
}

// GetPreset returns DefaultConfig with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// Apply layers the named preset onto cfg.
func Apply(cfg *Config, name string) error {
	apply, ok := Presets[name]
	if !ok {
		return fmt.Errorf("%w: unknown preset %q (available: %v)", ErrInvalid, name, ListPresets())
	}
	apply(cfg)
	return nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
