package sim

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Control []float64

type Dynamics interface {
	Derivative(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn Dynamics, x State, u Control, t float64, dt float64) State
}

// Sample is one recorded frame of a depth-control run.
type Sample struct {
	Time     float64 `json:"time"`
	Dt       float64 `json:"dt"`
	Depth    float64 `json:"depth"`
	Target   float64 `json:"target"`
	Error    float64 `json:"error"`
	AirLevel float64 `json:"air_level"`
	Velocity float64 `json:"velocity"`
	Output   float64 `json:"output"`
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

type Config struct {
	Dt       float64
	Duration float64
}

type Result struct {
	Scenario   string             `json:"scenario"`
	Samples    []Sample           `json:"samples"`
	Metrics    map[string]float64 `json:"metrics"`
	StepsTaken int                `json:"steps"`
}

// Series extracts one column of the recorded samples.
func (r *Result) Series(pick func(Sample) float64) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = pick(s)
	}
	return out
}
