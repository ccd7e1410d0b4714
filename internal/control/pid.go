package control

import "github.com/san-kum/subsim/internal/sim"

const (
	// IntegralLimit bounds the accumulated error (anti-windup).
	IntegralLimit = 100.0

	derivativeWeight = 0.2
	historyWeight    = 0.8
)

// PID holds the error history of the depth controller. The gains are
// passed in on every update so they can be retuned between frames.
type PID struct {
	Integral       float64
	PrevError      float64
	PrevDerivative float64
}

// Update runs one controller step for error err over dt seconds and
// returns the controller output.
//
// The derivative is low-pass filtered against the previous step. With
// dt == 0 the raw derivative is taken as zero, so the filtered value only
// decays.
func (p *PID) Update(err, dt float64, g Gains) float64 {
	p.Integral = sim.Clamp(p.Integral+err*dt, -IntegralLimit, IntegralLimit)

	raw := 0.0
	if dt > 0 {
		raw = (err - p.PrevError) / dt
	}
	derivative := derivativeWeight*raw + historyWeight*p.PrevDerivative

	out := g.Kp*err + g.Ki*p.Integral + g.Kd*derivative

	p.PrevError = err
	p.PrevDerivative = derivative
	return out
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.Integral = 0
	p.PrevError = 0
	p.PrevDerivative = 0
}

// ResetIntegral drops the accumulated error, used after the gains change.
func (p *PID) ResetIntegral() {
	p.Integral = 0
}
