package config

import (
	"fmt"
	"math"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/subsim/internal/control"
	"github.com/san-kum/subsim/internal/experiment"
	"github.com/san-kum/subsim/internal/physics"
	"github.com/san-kum/subsim/internal/submarine"
)

const (
	DefaultDt         = 1.0 / 60
	DefaultDuration   = 30.0
	DefaultFrameRate  = 60
	DefaultMaxFrameDt = 0.25
	DefaultStepOffset = -50.0
)

type Config struct {
	Gains     GainsConfig     `yaml:"gains"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Playfield PlayfieldConfig `yaml:"playfield"`
	Run       RunConfig       `yaml:"run"`
	TUI       TUIConfig       `yaml:"tui"`
}

type GainsConfig struct {
	Kp float64 `yaml:"kp"`
	Ki float64 `yaml:"ki"`
	Kd float64 `yaml:"kd"`
}

type PhysicsConfig struct {
	BuoyancyFactor float64 `yaml:"buoyancy_factor"`
	Gravity        float64 `yaml:"gravity"`
	Mass           float64 `yaml:"mass"`
	Drag           float64 `yaml:"drag"`
	AirChangeRate  float64 `yaml:"air_change_rate"`
}

type PlayfieldConfig struct {
	Height float64 `yaml:"height"`
}

type RunConfig struct {
	Dt        float64          `yaml:"dt"`
	Duration  float64          `yaml:"duration"`
	Setpoints []SetpointConfig `yaml:"setpoints"`
}

// SetpointConfig moves the target to Offset units from the starting depth
// at time At.
type SetpointConfig struct {
	At     float64 `yaml:"at"`
	Offset float64 `yaml:"offset"`
}

type TUIConfig struct {
	FrameRate  int     `yaml:"fps"`
	MaxFrameDt float64 `yaml:"max_frame_dt"`
}

func DefaultConfig() *Config {
	p := physics.DefaultParams()
	return &Config{
		Gains: GainsConfig{
			Kp: control.DefaultKp,
			Ki: control.DefaultKi,
			Kd: control.DefaultKd,
		},
		Physics: PhysicsConfig{
			BuoyancyFactor: p.BuoyancyFactor,
			Gravity:        p.Gravity,
			Mass:           p.Mass,
			Drag:           p.Drag,
			AirChangeRate:  p.AirChangeRate,
		},
		Playfield: PlayfieldConfig{Height: submarine.DefaultHeight},
		Run: RunConfig{
			Dt:        DefaultDt,
			Duration:  DefaultDuration,
			Setpoints: []SetpointConfig{{At: 0, Offset: DefaultStepOffset}},
		},
		TUI: TUIConfig{
			FrameRate:  DefaultFrameRate,
			MaxFrameDt: DefaultMaxFrameDt,
		},
	}
}

// Load reads a yaml file on top of the defaults, so a file only needs the
// keys it changes.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto reads a yaml file over an existing config, such as a preset.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every problem in the config at once.
func (c *Config) Validate() error {
	var err error
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"gains.kp", c.Gains.Kp},
		{"gains.ki", c.Gains.Ki},
		{"gains.kd", c.Gains.Kd},
		{"physics.buoyancy_factor", c.Physics.BuoyancyFactor},
		{"physics.gravity", c.Physics.Gravity},
		{"physics.mass", c.Physics.Mass},
		{"physics.drag", c.Physics.Drag},
		{"physics.air_change_rate", c.Physics.AirChangeRate},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			err = multierr.Append(err, fmt.Errorf("%w: %s must be finite", ErrInvalid, f.name))
		}
	}
	if c.Physics.Mass <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: physics.mass must be positive, got %v", ErrInvalid, c.Physics.Mass))
	}
	if c.Physics.Drag < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: physics.drag must not be negative, got %v", ErrInvalid, c.Physics.Drag))
	}
	if !(c.Playfield.Height > 2*submarine.Margin) {
		err = multierr.Append(err, fmt.Errorf("%w: playfield.height must exceed %v, got %v", ErrInvalid, 2*submarine.Margin, c.Playfield.Height))
	}
	if !(c.Run.Dt > 0) {
		err = multierr.Append(err, fmt.Errorf("%w: run.dt must be positive, got %v", ErrInvalid, c.Run.Dt))
	}
	if !(c.Run.Duration > 0) {
		err = multierr.Append(err, fmt.Errorf("%w: run.duration must be positive, got %v", ErrInvalid, c.Run.Duration))
	}
	for i, sp := range c.Run.Setpoints {
		if sp.At < 0 {
			err = multierr.Append(err, fmt.Errorf("%w: run.setpoints[%d].at must not be negative", ErrInvalid, i))
		}
	}
	if c.TUI.FrameRate <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: tui.fps must be positive, got %d", ErrInvalid, c.TUI.FrameRate))
	}
	if !(c.TUI.MaxFrameDt > 0) {
		err = multierr.Append(err, fmt.Errorf("%w: tui.max_frame_dt must be positive, got %v", ErrInvalid, c.TUI.MaxFrameDt))
	}
	return err
}

func (c *Config) GetGains() control.Gains {
	return control.Gains{Kp: c.Gains.Kp, Ki: c.Gains.Ki, Kd: c.Gains.Kd}
}

func (c *Config) GetParams() physics.Params {
	return physics.Params{
		BuoyancyFactor: c.Physics.BuoyancyFactor,
		Gravity:        c.Physics.Gravity,
		Mass:           c.Physics.Mass,
		Drag:           c.Physics.Drag,
		AirChangeRate:  c.Physics.AirChangeRate,
	}
}

func (c *Config) GetScenario(name string) experiment.Scenario {
	sc := experiment.Scenario{
		Name:     name,
		Dt:       c.Run.Dt,
		Duration: c.Run.Duration,
	}
	for _, sp := range c.Run.Setpoints {
		sc.Setpoints = append(sc.Setpoints, experiment.Setpoint{At: sp.At, Offset: sp.Offset})
	}
	return sc
}

// NewSimulation builds the simulation described by the physics and
// playfield sections.
func (c *Config) NewSimulation() (*submarine.Simulation, error) {
	return submarine.New(c.GetParams(), c.Playfield.Height)
}
