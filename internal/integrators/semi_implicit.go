package integrators

import "github.com/san-kum/subsim/internal/sim"

// SemiImplicitEuler advances second-order systems laid out as
// [positions..., velocities...]: velocities are updated from the
// acceleration at the start of the step, positions from the new velocities.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Step(dyn sim.Dynamics, x sim.State, u sim.Control, t float64, dt float64) sim.State {
	dx := dyn.Derivative(x, u, t)
	n := len(x)
	half := n / 2
	result := make(sim.State, n)

	if n%2 != 0 {
		// no position/velocity split, fall back to a plain Euler step
		for i := range x {
			result[i] = x[i] + dx[i]*dt
		}
		return result
	}

	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + dx[half+i]*dt
		result[i] = x[i] + result[half+i]*dt
	}
	return result
}
