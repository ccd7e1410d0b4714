package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/subsim/internal/sim"
)

// Oscillation summarises the error after the settle window.
type Oscillation struct {
	Oscillating bool
	Period      float64
	Amplitude   float64
	Mean        float64
	Cycles      int
}

// errorWindow returns the times and errors of samples at or after after.
func errorWindow(samples []sim.Sample, after float64) (times, errs []float64) {
	for _, s := range samples {
		if s.Time >= after {
			times = append(times, s.Time)
			errs = append(errs, s.Error)
		}
	}
	return times, errs
}

// DetectOscillation records each upward crossing of the error through its
// mean, interpolated between samples. Two or more crossings make a cycle.
func DetectOscillation(samples []sim.Sample, after float64) Oscillation {
	times, errs := errorWindow(samples, after)
	if len(errs) < 2 {
		return Oscillation{}
	}

	mean := stat.Mean(errs, nil)
	lo, hi := errs[0], errs[0]
	var crossings []float64
	for i := 1; i < len(errs); i++ {
		lo = min(lo, errs[i])
		hi = max(hi, errs[i])

		prev, curr := errs[i-1]-mean, errs[i]-mean
		if prev < 0 && curr >= 0 {
			frac := -prev / (curr - prev)
			crossings = append(crossings, times[i-1]+frac*(times[i]-times[i-1]))
		}
	}

	osc := Oscillation{
		Amplitude: (hi - lo) / 2,
		Mean:      mean,
	}
	if len(crossings) < 2 {
		return osc
	}
	osc.Oscillating = true
	osc.Cycles = len(crossings) - 1
	osc.Period = (crossings[len(crossings)-1] - crossings[0]) / float64(osc.Cycles)
	return osc
}
