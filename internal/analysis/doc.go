// Package analysis characterises the error signal of a finished run.
//
// A PID loop with too little damping does not settle, it trades ballast
// back and forth in a limit cycle. These tools measure that cycle:
//
//   - [DetectOscillation]: period and amplitude from mean crossings
//   - [DominantPeriod]: the strongest period in the error spectrum
//   - [NewPhasePortrait]: error against velocity, drawn as ASCII
//
// For example:
//
//	osc := analysis.DetectOscillation(result.Samples, 3)
//	if osc.Oscillating {
//	    fmt.Printf("limit cycle: %.1fs, ±%.1f\n", osc.Period, osc.Amplitude)
//	}
package analysis
