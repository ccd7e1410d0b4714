package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/subsim/internal/sim"
)

// PowerSpectrum returns the magnitude of the first half of the DFT of data
// with its mean removed.
func PowerSpectrum(data []float64) []float64 {
	mean := stat.Mean(data, nil)
	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	bins := fft.FFTReal(centred)
	ps := make([]float64, len(bins)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}
	return ps
}

// DominantPeriod is the period of the strongest non-zero frequency in the
// error after the settle window. It assumes a fixed step and returns 0 when
// there is too little data.
func DominantPeriod(samples []sim.Sample, after float64) float64 {
	times, errs := errorWindow(samples, after)
	if len(errs) < 4 {
		return 0
	}
	dt := (times[len(times)-1] - times[0]) / float64(len(times)-1)

	ps := PowerSpectrum(errs)
	peak := 0
	for k := 1; k < len(ps); k++ {
		if peak == 0 || ps[k] > ps[peak] {
			peak = k
		}
	}
	if peak == 0 {
		return 0
	}
	return float64(len(errs)) * dt / float64(peak)
}
