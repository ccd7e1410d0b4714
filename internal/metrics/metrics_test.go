package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/subsim/internal/sim"
)

func feed(m sim.Metric, samples []sim.Sample) float64 {
	m.Reset()
	for _, s := range samples {
		m.Observe(s)
	}
	return m.Value()
}

// ramp builds samples every dt seconds with the given errors and a fixed
// target of 0, so Depth == -Error.
func ramp(dt float64, errs ...float64) []sim.Sample {
	out := make([]sim.Sample, len(errs))
	for i, e := range errs {
		out[i] = sim.Sample{Time: float64(i) * dt, Dt: dt, Error: e, Depth: -e}
	}
	return out
}

func TestIAE(t *testing.T) {
	got := feed(NewIAE(), ramp(0.5, 2, -2, 4))
	if math.Abs(got-4) > 1e-12 {
		t.Errorf("expected 4, got %f", got)
	}
}

func TestITAE(t *testing.T) {
	// times 0, 1, 2
	got := feed(NewITAE(), ramp(1, 5, -3, 2))
	if math.Abs(got-7) > 1e-12 {
		t.Errorf("expected 7, got %f", got)
	}
}

func TestRMSError(t *testing.T) {
	got := feed(NewRMSError(), ramp(1, 3, -3, 3, -3))
	if math.Abs(got-3) > 1e-12 {
		t.Errorf("expected 3, got %f", got)
	}
	if v := feed(NewRMSError(), nil); v != 0 {
		t.Errorf("expected 0 for no samples, got %f", v)
	}
}

func TestSettledError(t *testing.T) {
	samples := ramp(1, 100, 50, 2, -4, 2, -4)

	if got := feed(NewMaxSettledError(2), samples); got != 4 {
		t.Errorf("max settled error: expected 4, got %f", got)
	}
	if got := feed(NewErrorStdDev(2), samples); math.Abs(got-3) > 1e-12 {
		t.Errorf("error stddev: expected 3, got %f", got)
	}
	if got := feed(NewErrorStdDev(100), samples); got != 0 {
		t.Errorf("expected 0 with no settled samples, got %f", got)
	}
}

func TestControlEffort(t *testing.T) {
	samples := []sim.Sample{{Output: 1}, {Output: -3}}
	if got := feed(NewControlEffort(), samples); got != 2 {
		t.Errorf("expected 2, got %f", got)
	}
}

func TestAirSaturation(t *testing.T) {
	samples := []sim.Sample{{AirLevel: 10}, {AirLevel: 50}, {AirLevel: 90}, {AirLevel: 89}}
	if got := feed(NewAirSaturation(), samples); got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}
}

// stepResponse starts at depth 0 with the target stepped to -100 and then
// walks through the given depths.
func stepResponse(depths ...float64) []sim.Sample {
	out := []sim.Sample{{Time: 0, Depth: 0, Target: -100, Error: -100}}
	for i, d := range depths {
		out = append(out, sim.Sample{
			Time:   float64(i + 1),
			Dt:     1,
			Depth:  d,
			Target: -100,
			Error:  -100 - d,
		})
	}
	return out
}

func TestOvershoot(t *testing.T) {
	got := feed(NewOvershoot(), stepResponse(-60, -112, -95, -100))
	if math.Abs(got-12) > 1e-12 {
		t.Errorf("expected 12, got %f", got)
	}

	// approaching from below never counts as overshoot
	if got := feed(NewOvershoot(), stepResponse(-40, -80, -99)); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
}

func TestOvershoot_SecondStep(t *testing.T) {
	samples := stepResponse(-100, -100)
	samples = append(samples,
		sim.Sample{Time: 3, Dt: 1, Depth: -80, Target: -50, Error: 30},
		sim.Sample{Time: 4, Dt: 1, Depth: -45, Target: -50, Error: -5},
	)
	if got := feed(NewOvershoot(), samples); math.Abs(got-5) > 1e-12 {
		t.Errorf("expected 5, got %f", got)
	}
}

func TestSettlingTime(t *testing.T) {
	// band is 2 units for a 100 unit step
	got := feed(NewSettlingTime(), stepResponse(-60, -103, -99, -101, -100))
	if got != 2 {
		t.Errorf("expected 2, got %f", got)
	}
}

func TestSettlingTime_Unsettled(t *testing.T) {
	got := feed(NewSettlingTime(), stepResponse(-60, -90, -110))
	if got != 3 {
		t.Errorf("expected whole window 3, got %f", got)
	}
}

func TestSettlingTime_RestartsOnNewTarget(t *testing.T) {
	samples := stepResponse(-100, -100)
	samples = append(samples,
		sim.Sample{Time: 3, Dt: 1, Depth: -90, Target: -50, Error: 40},
		sim.Sample{Time: 4, Dt: 1, Depth: -50, Target: -50, Error: 0},
	)
	// the new step begins at t=2, the last sample outside the band is t=3
	if got := feed(NewSettlingTime(), samples); got != 1 {
		t.Errorf("expected 1, got %f", got)
	}
}

func TestMetricNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range []sim.Metric{
		NewIAE(), NewITAE(), NewRMSError(), NewMaxSettledError(0), NewErrorStdDev(0),
		NewOvershoot(), NewSettlingTime(), NewControlEffort(), NewAirSaturation(),
	} {
		if seen[m.Name()] {
			t.Errorf("duplicate metric name %s", m.Name())
		}
		seen[m.Name()] = true
	}
}
