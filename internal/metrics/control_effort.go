package metrics

import (
	"math"

	"github.com/san-kum/subsim/internal/physics"
	"github.com/san-kum/subsim/internal/sim"
)

// ControlEffort is the mean absolute controller output.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(s sim.Sample) {
	c.sum += math.Abs(s.Output)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// AirSaturation is the fraction of samples with the ballast pinned at
// either air limit.
type AirSaturation struct {
	name      string
	saturated int
	samples   int
}

func NewAirSaturation() *AirSaturation {
	return &AirSaturation{name: "air_saturation"}
}

func (a *AirSaturation) Name() string {
	return a.name
}

func (a *AirSaturation) Observe(s sim.Sample) {
	a.samples++
	if s.AirLevel <= physics.MinAir || s.AirLevel >= physics.MaxAir {
		a.saturated++
	}
}

func (a *AirSaturation) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return float64(a.saturated) / float64(a.samples)
}

func (a *AirSaturation) Reset() {
	a.saturated = 0
	a.samples = 0
}
