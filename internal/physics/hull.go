package physics

import (
	"math"

	"github.com/san-kum/subsim/internal/sim"
)

const (
	DefaultBuoyancyFactor = 0.15
	DefaultGravity        = 0.2
	DefaultMass           = 1.0
	DefaultDrag           = 0.05
	DefaultAirChangeRate  = 0.8

	// NeutralAir is the ballast air level at which buoyancy is zero.
	NeutralAir = 50.0
	MinAir     = 10.0
	MaxAir     = 90.0
)

// Params are the lumped constants of the hull. They are fixed for the
// lifetime of a simulation.
type Params struct {
	BuoyancyFactor float64
	Gravity        float64
	Mass           float64
	Drag           float64
	AirChangeRate  float64
}

func DefaultParams() Params {
	return Params{
		BuoyancyFactor: DefaultBuoyancyFactor,
		Gravity:        DefaultGravity,
		Mass:           DefaultMass,
		Drag:           DefaultDrag,
		AirChangeRate:  DefaultAirChangeRate,
	}
}

type Forces struct {
	Buoyancy float64
	Gravity  float64
	Drag     float64
}

func (f Forces) Net() float64 {
	return f.Buoyancy + f.Gravity + f.Drag
}

// Hull is the vertical force balance of the submarine in screen space,
// where positive means downward.
//
// State is [position, velocity]; control is [air level].
type Hull struct {
	p Params
}

func NewHull(p Params) *Hull {
	return &Hull{p: p}
}

func (h *Hull) StateDim() int   { return 2 }
func (h *Hull) ControlDim() int { return 1 }

func (h *Hull) Params() Params { return h.p }

func (h *Hull) Forces(air, velocity float64) Forces {
	return Forces{
		Buoyancy: -(air - NeutralAir) * h.p.BuoyancyFactor,
		Gravity:  h.p.Gravity * h.p.Mass,
		Drag:     -h.p.Drag * velocity * math.Abs(velocity),
	}
}

func (h *Hull) Acceleration(air, velocity float64) float64 {
	return h.Forces(air, velocity).Net() / h.p.Mass
}

func (h *Hull) Derivative(x sim.State, u sim.Control, t float64) sim.State {
	air := NeutralAir
	if len(u) > 0 {
		air = u[0]
	}
	return sim.State{x[1], h.Acceleration(air, x[1])}
}

// NeutralBuoyancyAir is the air level at which buoyancy cancels gravity.
func (h *Hull) NeutralBuoyancyAir() float64 {
	return NeutralAir + h.p.Gravity*h.p.Mass/h.p.BuoyancyFactor
}

// TerminalVelocity is the speed at which drag balances the given net
// buoyancy and gravity force.
func (h *Hull) TerminalVelocity(air float64) float64 {
	f := h.Forces(air, 0)
	net := f.Buoyancy + f.Gravity
	if h.p.Drag <= 0 {
		return math.Inf(int(math.Copysign(1, net)))
	}
	return math.Copysign(math.Sqrt(math.Abs(net)/h.p.Drag), net)
}

func ClampAir(air float64) float64 {
	return sim.Clamp(air, MinAir, MaxAir)
}
