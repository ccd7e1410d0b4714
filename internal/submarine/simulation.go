package submarine

import (
	"fmt"
	"math"

	"github.com/san-kum/subsim/internal/control"
	"github.com/san-kum/subsim/internal/integrators"
	"github.com/san-kum/subsim/internal/physics"
	"github.com/san-kum/subsim/internal/sim"
)

const (
	DefaultHeight = 600.0

	// Margin keeps the hull this far inside the top and bottom of the
	// playfield.
	Margin = 10.0

	// TargetStep is how far one key press moves the target depth.
	TargetStep = 10.0
)

// State is a read-only view of the simulation after the last step.
// IdealAir and TargetAir are the air levels implied by the current and
// target depth; they are informational and do not drive the ballast.
type State struct {
	Position    float64
	Depth       float64
	TargetDepth float64
	Velocity    float64
	AirLevel    float64
	Integral    float64
	Derivative  float64
	Output      float64
	IdealAir    float64
	TargetAir   float64
	Elapsed     float64
}

// Simulation owns the physical state of one submarine and its controller
// memory. It is not safe for concurrent use.
type Simulation struct {
	hull   *physics.Hull
	integ  sim.Integrator
	params physics.Params
	height float64

	position float64
	velocity float64
	target   float64
	air      float64
	pid      control.PID
	output   float64
	elapsed  float64
}

func New(p physics.Params, height float64) (*Simulation, error) {
	if !(height > 2*Margin) {
		return nil, fmt.Errorf("%w: height %v must exceed %v", ErrPlayfield, height, 2*Margin)
	}
	if !(p.Mass > 0) {
		return nil, fmt.Errorf("%w: mass must be positive, got %v", ErrParams, p.Mass)
	}
	s := &Simulation{
		hull:   physics.NewHull(p),
		integ:  integrators.NewSemiImplicitEuler(),
		params: p,
		height: height,
	}
	s.Reset()
	return s, nil
}

// NewDefault builds a simulation with the stock hull on a 600-unit playfield.
func NewDefault() *Simulation {
	s, err := New(physics.DefaultParams(), DefaultHeight)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Simulation) Params() physics.Params { return s.params }
func (s *Simulation) Height() float64        { return s.height }

// Bounds returns the lowest and highest position the hull may occupy.
func (s *Simulation) Bounds() (top, bottom float64) {
	return Margin, s.height - Margin
}

// Reset puts the hull at the playfield centre, holding its own depth, with
// neutral ballast and no controller memory.
func (s *Simulation) Reset() {
	s.position = math.Floor(s.height / 2)
	s.target = -s.position
	s.velocity = 0
	s.air = physics.NeutralAir
	s.pid.Reset()
	s.output = 0
	s.elapsed = 0
}

// ResetIntegral drops the controller's accumulated error.
func (s *Simulation) ResetIntegral() {
	s.pid.ResetIntegral()
}

// AdjustTarget moves the target depth by delta. The target is not bounded.
func (s *Simulation) AdjustTarget(delta float64) {
	s.target += delta
}

func (s *Simulation) SetTarget(depth float64) {
	s.target = depth
}

// Advance runs one control and physics step of dt seconds.
//
// A zero dt leaves position, velocity and air level untouched while the
// filtered derivative decays. Negative, NaN or infinite dt is treated as
// zero.
func (s *Simulation) Advance(dt float64, g control.Gains) {
	if !(dt > 0) || math.IsInf(dt, 1) {
		dt = 0
	}

	depth := -s.position
	err := s.target - depth
	s.output = s.pid.Update(err, dt, g)

	s.air = physics.ClampAir(s.air + s.output*s.params.AirChangeRate*dt)

	x := s.integ.Step(s.hull, sim.State{s.position, s.velocity}, sim.Control{s.air}, s.elapsed, dt)

	// clamped against the walls, velocity keeps integrating
	top, bottom := s.Bounds()
	s.position = sim.Clamp(x[0], top, bottom)
	s.velocity = x[1]
	s.elapsed += dt
}

func (s *Simulation) State() State {
	depth := -s.position
	return State{
		Position:    s.position,
		Depth:       depth,
		TargetDepth: s.target,
		Velocity:    s.velocity,
		AirLevel:    s.air,
		Integral:    s.pid.Integral,
		Derivative:  s.pid.PrevDerivative,
		Output:      s.output,
		IdealAir:    physics.NeutralAir - depth/10,
		TargetAir:   physics.NeutralAir - s.target/10,
		Elapsed:     s.elapsed,
	}
}
