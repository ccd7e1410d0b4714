package control

import (
	"math"
	"testing"
)

func TestPIDProportionalOnly(t *testing.T) {
	var p PID
	out := p.Update(10, 0.1, Gains{Kp: 0.5})
	if out != 5 {
		t.Errorf("expected 5, got %v", out)
	}
}

func TestPIDDerivativeFilter(t *testing.T) {
	var p PID
	p.Update(10, 1.0, Gains{})
	if p.PrevDerivative != 2.0 {
		t.Errorf("filtered derivative = %v, want 2.0 (not the raw 10)", p.PrevDerivative)
	}
	if p.PrevError != 10 {
		t.Errorf("prev error = %v, want 10", p.PrevError)
	}

	// error holds steady: raw derivative 0, the filter decays
	p.Update(10, 1.0, Gains{})
	if math.Abs(p.PrevDerivative-1.6) > 1e-12 {
		t.Errorf("filtered derivative = %v, want 1.6", p.PrevDerivative)
	}
}

func TestPIDZeroDt(t *testing.T) {
	p := PID{Integral: 3, PrevError: 1, PrevDerivative: 5}
	out := p.Update(4, 0, Gains{Kp: 1, Ki: 1, Kd: 1})

	if p.Integral != 3 {
		t.Errorf("integral changed with zero dt: %v", p.Integral)
	}
	if p.PrevDerivative != 4 {
		t.Errorf("filtered derivative = %v, want 0.8*5 = 4", p.PrevDerivative)
	}
	if want := 4.0 + 3.0 + 4.0; out != want {
		t.Errorf("output = %v, want %v", out, want)
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		t.Error("zero dt produced a non-finite output")
	}
}

func TestPIDAntiWindup(t *testing.T) {
	tests := []struct {
		name string
		err  float64
		want float64
	}{
		{"positive saturation", 1000, IntegralLimit},
		{"negative saturation", -1000, -IntegralLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p PID
			for i := 0; i < 100; i++ {
				p.Update(tt.err, 0.5, DefaultGains())
			}
			if p.Integral != tt.want {
				t.Errorf("integral = %v, want %v", p.Integral, tt.want)
			}
		})
	}
}

func TestPIDIntegralTerm(t *testing.T) {
	var p PID
	p.Update(10, 0.5, Gains{})
	out := p.Update(10, 0.5, Gains{Ki: 2})
	if p.Integral != 10 {
		t.Errorf("integral = %v, want 10", p.Integral)
	}
	if out != 20 {
		t.Errorf("output = %v, want 20", out)
	}
}

func TestPIDReset(t *testing.T) {
	p := PID{Integral: 7, PrevError: 3, PrevDerivative: 1}
	p.ResetIntegral()
	if p.Integral != 0 || p.PrevError != 3 || p.PrevDerivative != 1 {
		t.Errorf("ResetIntegral touched more than the integral: %+v", p)
	}
	p.Reset()
	if p != (PID{}) {
		t.Errorf("Reset left state behind: %+v", p)
	}
}

func TestPIDIntegralStaysBounded(t *testing.T) {
	var p PID
	p.Update(math.NaN(), 1, DefaultGains())
	if p.Integral != IntegralLimit {
		t.Errorf("NaN error should pin the integral at %v, got %v", IntegralLimit, p.Integral)
	}

	p.Reset()
	p.Update(-1e308, 1e3, DefaultGains())
	if p.Integral != -IntegralLimit {
		t.Errorf("expected %v, got %v", -IntegralLimit, p.Integral)
	}
}
