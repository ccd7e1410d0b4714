package automation

import (
	"context"
	"fmt"
	"os"
	"slices"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/subsim/internal/config"
	"github.com/san-kum/subsim/internal/experiment"
	"github.com/san-kum/subsim/internal/sim"
)

// Script is a batch of headless runs read from yaml.
type Script struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Runs        []RunSpec `yaml:"runs"`
}

// RunSpec describes one run as changes to the base config. Preset is
// applied first, then any field that is set.
type RunSpec struct {
	Name      string                  `yaml:"name"`
	Preset    string                  `yaml:"preset"`
	Kp        *float64                `yaml:"kp"`
	Ki        *float64                `yaml:"ki"`
	Kd        *float64                `yaml:"kd"`
	Duration  float64                 `yaml:"duration"`
	Setpoints []config.SetpointConfig `yaml:"setpoints"`
}

type Outcome struct {
	Run    RunSpec
	Config *config.Config
	Result *sim.Result
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(script.Runs) == 0 {
		return nil, fmt.Errorf("%s: script has no runs", path)
	}
	return &script, nil
}

// Resolve builds the config for the run on a copy of base.
func (rs RunSpec) Resolve(base *config.Config) (*config.Config, error) {
	cfg := *base
	cfg.Run.Setpoints = slices.Clone(base.Run.Setpoints)

	if rs.Preset != "" {
		if err := config.Apply(&cfg, rs.Preset); err != nil {
			return nil, err
		}
	}
	if rs.Kp != nil {
		cfg.Gains.Kp = *rs.Kp
	}
	if rs.Ki != nil {
		cfg.Gains.Ki = *rs.Ki
	}
	if rs.Kd != nil {
		cfg.Gains.Kd = *rs.Kd
	}
	if rs.Duration != 0 {
		cfg.Run.Duration = rs.Duration
	}
	if rs.Setpoints != nil {
		cfg.Run.Setpoints = slices.Clone(rs.Setpoints)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RunScript executes every run in order and stops at the first failure,
// returning the outcomes completed so far.
func RunScript(ctx context.Context, script *Script, base *config.Config, logger *zap.Logger) ([]Outcome, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("automation")

	outcomes := make([]Outcome, 0, len(script.Runs))
	for i, rs := range script.Runs {
		name := rs.Name
		if name == "" {
			name = fmt.Sprintf("run%d", i+1)
		}
		rs.Name = name
		logger.Info("batch run", zap.Int("index", i+1), zap.Int("total", len(script.Runs)), zap.String("name", name))

		cfg, err := rs.Resolve(base)
		if err != nil {
			return outcomes, fmt.Errorf("run %s: %w", name, err)
		}
		s, err := cfg.NewSimulation()
		if err != nil {
			return outcomes, fmt.Errorf("run %s: %w", name, err)
		}

		exp := experiment.New(cfg.GetScenario(name), s, cfg.GetGains(), logger)
		for _, m := range experiment.DefaultMetrics(experiment.DefaultSettleAfter) {
			exp.AddMetric(m)
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return outcomes, fmt.Errorf("run %s: %w", name, err)
		}
		outcomes = append(outcomes, Outcome{Run: rs, Config: cfg, Result: res})
	}
	return outcomes, nil
}
