package experiment

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/san-kum/subsim/internal/control"
	"github.com/san-kum/subsim/internal/sim"
	"github.com/san-kum/subsim/internal/submarine"
)

// Setpoint moves the target to Offset depth units from the starting depth
// once the run reaches At seconds. Negative offsets are deeper.
type Setpoint struct {
	At     float64 `json:"at"`
	Offset float64 `json:"offset"`
}

// Scenario is a fixed-step headless run with a setpoint schedule.
type Scenario struct {
	Name      string     `json:"name"`
	Dt        float64    `json:"dt"`
	Duration  float64    `json:"duration"`
	Setpoints []Setpoint `json:"setpoints"`
}

func (sc Scenario) Config() sim.Config {
	return sim.Config{Dt: sc.Dt, Duration: sc.Duration}
}

func (sc Scenario) Validate() error {
	if err := sc.Config().Validate(); err != nil {
		return err
	}
	for i, sp := range sc.Setpoints {
		if sp.At < 0 {
			return fmt.Errorf("%w: setpoint %d at %v is before the start", sim.ErrInvalidConfig, i, sp.At)
		}
	}
	return nil
}

// schedule returns the setpoints ordered by time.
func (sc Scenario) schedule() []Setpoint {
	out := append([]Setpoint(nil), sc.Setpoints...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out
}

type Experiment struct {
	scenario  Scenario
	sim       *submarine.Simulation
	gains     control.Gains
	metrics   []sim.Metric
	observers []sim.Observer
	logger    *zap.Logger
}

func New(sc Scenario, s *submarine.Simulation, g control.Gains, logger *zap.Logger) *Experiment {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Experiment{
		scenario: sc,
		sim:      s,
		gains:    g,
		logger:   logger.Named("experiment"),
	}
}

func (e *Experiment) AddMetric(m sim.Metric)     { e.metrics = append(e.metrics, m) }
func (e *Experiment) AddObserver(o sim.Observer) { e.observers = append(e.observers, o) }

// Run resets the simulation and steps it through the scenario. Metrics and
// observers see the starting sample (Dt == 0) and then one sample per step.
// On cancellation the partial result is returned with ctx.Err().
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if err := e.scenario.Validate(); err != nil {
		return nil, err
	}

	cfg := e.scenario.Config()
	steps := cfg.Steps()
	result := &sim.Result{
		Scenario: e.scenario.Name,
		Samples:  make([]sim.Sample, 0, steps+1),
		Metrics:  make(map[string]float64),
	}
	for _, m := range e.metrics {
		m.Reset()
	}

	e.sim.Reset()
	start := e.sim.State().Depth
	schedule := e.scenario.schedule()
	next := 0
	apply := func(t float64) {
		for next < len(schedule) && schedule[next].At <= t+1e-9 {
			e.sim.SetTarget(start + schedule[next].Offset)
			next++
		}
	}

	e.logger.Info("scenario started",
		zap.String("scenario", e.scenario.Name),
		zap.Stringer("gains", e.gains),
		zap.Int("steps", steps))

	apply(0)
	e.record(result, 0, 0)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		apply(float64(i) * cfg.Dt)
		e.sim.Advance(cfg.Dt, e.gains)
		t := float64(i+1) * cfg.Dt

		st := e.sim.State()
		if !(sim.State{st.Position, st.Velocity}).IsValid() {
			return result, &sim.SimError{Time: t, Step: i, Wrapped: sim.ErrInvalidState}
		}
		e.record(result, t, cfg.Dt)
		result.StepsTaken++
	}

	fields := []zap.Field{zap.String("scenario", e.scenario.Name)}
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
		fields = append(fields, zap.Float64(m.Name(), m.Value()))
	}
	e.logger.Info("scenario finished", fields...)

	return result, nil
}

func (e *Experiment) record(result *sim.Result, t, dt float64) {
	st := e.sim.State()
	s := sim.Sample{
		Time:     t,
		Dt:       dt,
		Depth:    st.Depth,
		Target:   st.TargetDepth,
		Error:    st.TargetDepth - st.Depth,
		AirLevel: st.AirLevel,
		Velocity: st.Velocity,
		Output:   st.Output,
	}
	result.Samples = append(result.Samples, s)
	for _, m := range e.metrics {
		m.Observe(s)
	}
	for _, o := range e.observers {
		o.OnStep(s)
	}
}
