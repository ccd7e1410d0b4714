package metrics

import (
	"math"

	"github.com/san-kum/subsim/internal/sim"
)

const (
	// SettleBand is the settling band as a fraction of the step size.
	SettleBand = 0.02

	// MinSettleBand keeps the band usable for tiny or zero steps.
	MinSettleBand = 1.0
)

// setpointTracker notices target changes and remembers where the hull was
// when the current step began.
type setpointTracker struct {
	started bool
	target  float64
	origin  float64
	changed float64
}

// observe reports whether s starts a new step.
func (t *setpointTracker) observe(s sim.Sample, prevDepth float64) bool {
	if t.started && s.Target == t.target {
		return false
	}
	if t.started {
		t.origin = prevDepth
		t.changed = s.Time - s.Dt
	} else {
		t.origin = s.Depth
		t.changed = s.Time
	}
	t.started = true
	t.target = s.Target
	return true
}

func (t *setpointTracker) step() float64 { return t.target - t.origin }

// Overshoot is the furthest the depth ran past any target in the direction
// it was travelling, in depth units.
type Overshoot struct {
	name    string
	tracker setpointTracker
	last    float64
	peak    float64
}

func NewOvershoot() *Overshoot {
	return &Overshoot{name: "overshoot"}
}

func (o *Overshoot) Name() string {
	return o.name
}

func (o *Overshoot) Observe(s sim.Sample) {
	o.tracker.observe(s, o.last)
	o.last = s.Depth

	step := o.tracker.step()
	if step == 0 {
		return
	}
	if past := math.Copysign(1, step) * (s.Depth - s.Target); past > o.peak {
		o.peak = past
	}
}

func (o *Overshoot) Value() float64 {
	return o.peak
}

func (o *Overshoot) Reset() {
	*o = Overshoot{name: o.name}
}

// SettlingTime is the time from the most recent setpoint change until the
// error last left the settling band. A run that never settles scores the
// whole window since the change.
type SettlingTime struct {
	name        string
	tracker     setpointTracker
	last        float64
	band        float64
	lastOutside float64
}

func NewSettlingTime() *SettlingTime {
	return &SettlingTime{name: "settling_time"}
}

func (m *SettlingTime) Name() string {
	return m.name
}

func (m *SettlingTime) Observe(s sim.Sample) {
	if m.tracker.observe(s, m.last) {
		m.band = math.Max(SettleBand*math.Abs(m.tracker.step()), MinSettleBand)
		m.lastOutside = m.tracker.changed
	}
	m.last = s.Depth
	if math.Abs(s.Error) > m.band {
		m.lastOutside = s.Time
	}
}

func (m *SettlingTime) Value() float64 {
	return m.lastOutside - m.tracker.changed
}

func (m *SettlingTime) Reset() {
	*m = SettlingTime{name: m.name}
}
