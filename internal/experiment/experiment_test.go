package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/subsim/internal/control"
	"github.com/san-kum/subsim/internal/sim"
	"github.com/san-kum/subsim/internal/submarine"
)

func stepScenario() Scenario {
	return Scenario{
		Name:      "step",
		Dt:        1.0 / 60,
		Duration:  30,
		Setpoints: []Setpoint{{At: 0, Offset: -50}},
	}
}

func run(t *testing.T, sc Scenario, g control.Gains) *sim.Result {
	t.Helper()
	exp := New(sc, submarine.NewDefault(), g, nil)
	for _, m := range DefaultMetrics(DefaultSettleAfter) {
		exp.AddMetric(m)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return res
}

func TestRun_DefaultGainsStayBounded(t *testing.T) {
	res := run(t, stepScenario(), control.DefaultGains())

	if res.StepsTaken != 1800 {
		t.Errorf("expected 1800 steps, got %d", res.StepsTaken)
	}
	if len(res.Samples) != 1801 {
		t.Errorf("expected 1801 samples, got %d", len(res.Samples))
	}
	first := res.Samples[0]
	if first.Time != 0 || first.Dt != 0 || first.Error != -50 {
		t.Errorf("unexpected starting sample %+v", first)
	}
	if v := res.Metrics["max_settled_error"]; v > 40 {
		t.Errorf("error after transient should stay within 40, got %f", v)
	}
	for _, name := range MetricNames() {
		if _, ok := res.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
}

func TestRun_DampedGainsBeatDefault(t *testing.T) {
	base := run(t, stepScenario(), control.DefaultGains())
	damped := run(t, stepScenario(), control.Gains{Kp: 0.1, Ki: 0.01, Kd: 2})

	if damped.Metrics["itae"] >= base.Metrics["itae"] {
		t.Errorf("expected damped itae %f below default %f", damped.Metrics["itae"], base.Metrics["itae"])
	}
	last := damped.Samples[len(damped.Samples)-1]
	if math.Abs(last.Error) > 2 {
		t.Errorf("expected damped gains to settle within 2, final error %f", last.Error)
	}
}

func TestRun_Schedule(t *testing.T) {
	sc := Scenario{
		Dt:        1,
		Duration:  4,
		Setpoints: []Setpoint{{At: 2, Offset: -20}, {At: 0, Offset: -10}},
	}
	res := run(t, sc, control.DefaultGains())

	want := []float64{-310, -310, -310, -320, -320}
	if len(res.Samples) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(res.Samples))
	}
	for i, s := range res.Samples {
		if s.Target != want[i] {
			t.Errorf("sample %d (t=%v): expected target %v, got %v", i, s.Time, want[i], s.Target)
		}
		if s.Time != float64(i) {
			t.Errorf("sample %d: expected time %d, got %v", i, i, s.Time)
		}
	}
}

func TestRun_Repeatable(t *testing.T) {
	exp := New(stepScenario(), submarine.NewDefault(), control.DefaultGains(), nil)
	a, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	b, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if a.Samples[len(a.Samples)-1] != b.Samples[len(b.Samples)-1] {
		t.Error("second run should start from a fresh reset")
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exp := New(stepScenario(), submarine.NewDefault(), control.DefaultGains(), nil)
	res, err := exp.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res == nil || len(res.Samples) != 1 {
		t.Error("expected the starting sample in the partial result")
	}
}

func TestRun_InvalidScenario(t *testing.T) {
	tests := []struct {
		name string
		sc   Scenario
	}{
		{"zero dt", Scenario{Dt: 0, Duration: 1}},
		{"zero duration", Scenario{Dt: 0.1}},
		{"negative setpoint", Scenario{Dt: 0.1, Duration: 1, Setpoints: []Setpoint{{At: -1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := New(tt.sc, submarine.NewDefault(), control.DefaultGains(), nil)
			if _, err := exp.Run(context.Background()); !errors.Is(err, sim.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestRun_NaNGains(t *testing.T) {
	exp := New(stepScenario(), submarine.NewDefault(), control.Gains{Kp: math.NaN()}, nil)
	_, err := exp.Run(context.Background())

	var simErr *sim.SimError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected *sim.SimError, got %v", err)
	}
	if simErr.Step != 0 || !errors.Is(err, sim.ErrInvalidState) {
		t.Errorf("unexpected error %v", err)
	}
}

type counter struct{ n int }

func (c *counter) OnStep(sim.Sample) { c.n++ }

func TestRun_Observers(t *testing.T) {
	c := &counter{}
	exp := New(Scenario{Dt: 0.1, Duration: 1}, submarine.NewDefault(), control.DefaultGains(), nil)
	exp.AddObserver(c)
	if _, err := exp.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.n != 11 {
		t.Errorf("expected 11 observed samples, got %d", c.n)
	}
}

func TestIsMetric(t *testing.T) {
	if !IsMetric("itae") {
		t.Error("itae should be a metric")
	}
	if IsMetric("energy") {
		t.Error("energy should not be a metric")
	}
}
