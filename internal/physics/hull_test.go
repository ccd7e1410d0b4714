package physics

import (
	"math"
	"testing"

	"github.com/san-kum/subsim/internal/sim"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.BuoyancyFactor != 0.15 || p.Gravity != 0.2 || p.Mass != 1.0 || p.Drag != 0.05 || p.AirChangeRate != 0.8 {
		t.Errorf("unexpected defaults: %+v", p)
	}
}

func TestHullForces(t *testing.T) {
	h := NewHull(DefaultParams())

	tests := []struct {
		name     string
		air, vel float64
		buoyancy float64
		drag     float64
	}{
		{"neutral at rest", 50, 0, 0, 0},
		{"more air lifts", 90, 0, -6, 0},
		{"less air sinks", 10, 0, 6, 0},
		{"drag opposes descent", 50, 2, 0, -0.2},
		{"drag opposes ascent", 50, -2, 0, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := h.Forces(tt.air, tt.vel)
			if math.Abs(f.Buoyancy-tt.buoyancy) > 1e-12 {
				t.Errorf("buoyancy = %v, want %v", f.Buoyancy, tt.buoyancy)
			}
			if math.Abs(f.Drag-tt.drag) > 1e-12 {
				t.Errorf("drag = %v, want %v", f.Drag, tt.drag)
			}
			if f.Gravity != 0.2 {
				t.Errorf("gravity = %v, want 0.2", f.Gravity)
			}
		})
	}
}

func TestHullDerivative(t *testing.T) {
	h := NewHull(DefaultParams())
	dx := h.Derivative(sim.State{300, 1.5}, sim.Control{50}, 0)

	if dx[0] != 1.5 {
		t.Errorf("position derivative should be velocity, got %v", dx[0])
	}
	want := (0.2 - 0.05*1.5*1.5) / 1.0
	if math.Abs(dx[1]-want) > 1e-12 {
		t.Errorf("acceleration = %v, want %v", dx[1], want)
	}
}

func TestHullDerivative_NoControlIsNeutral(t *testing.T) {
	h := NewHull(DefaultParams())
	dx := h.Derivative(sim.State{300, 0}, nil, 0)
	if math.Abs(dx[1]-0.2) > 1e-12 {
		t.Errorf("expected pure gravity, got %v", dx[1])
	}
}

func TestNeutralBuoyancyAir(t *testing.T) {
	h := NewHull(DefaultParams())
	air := h.NeutralBuoyancyAir()
	if math.Abs(h.Acceleration(air, 0)) > 1e-12 {
		t.Errorf("air %v should hold the hull still, got accel %v", air, h.Acceleration(air, 0))
	}
}

func TestTerminalVelocity(t *testing.T) {
	h := NewHull(DefaultParams())
	v := h.TerminalVelocity(MaxAir)
	if v >= 0 {
		t.Fatalf("full air should rise (negative velocity), got %v", v)
	}
	if math.Abs(h.Acceleration(MaxAir, v)) > 1e-9 {
		t.Errorf("acceleration at terminal velocity should vanish, got %v", h.Acceleration(MaxAir, v))
	}
}

func TestClampAir(t *testing.T) {
	if ClampAir(5) != MinAir || ClampAir(95) != MaxAir || ClampAir(42) != 42 {
		t.Error("ClampAir did not respect [10, 90]")
	}
	if ClampAir(math.NaN()) != MaxAir || ClampAir(math.Inf(-1)) != MinAir {
		t.Error("ClampAir let a non-finite level through")
	}
}
