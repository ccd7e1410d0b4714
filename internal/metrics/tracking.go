package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/subsim/internal/sim"
)

// IAE integrates |error| over time.
type IAE struct {
	name string
	sum  float64
}

func NewIAE() *IAE { return &IAE{name: "iae"} }

func (m *IAE) Name() string         { return m.name }
func (m *IAE) Observe(s sim.Sample) { m.sum += math.Abs(s.Error) * s.Dt }
func (m *IAE) Value() float64       { return m.sum }
func (m *IAE) Reset()               { m.sum = 0 }

// ITAE weights |error| by elapsed time, so late error costs more than the
// initial transient.
type ITAE struct {
	name string
	sum  float64
}

func NewITAE() *ITAE { return &ITAE{name: "itae"} }

func (m *ITAE) Name() string         { return m.name }
func (m *ITAE) Observe(s sim.Sample) { m.sum += s.Time * math.Abs(s.Error) * s.Dt }
func (m *ITAE) Value() float64       { return m.sum }
func (m *ITAE) Reset()               { m.sum = 0 }

// RMSError is the root mean square tracking error over the whole run.
type RMSError struct {
	name   string
	errors []float64
}

func NewRMSError() *RMSError { return &RMSError{name: "rms_error"} }

func (m *RMSError) Name() string { return m.name }

func (m *RMSError) Observe(s sim.Sample) {
	m.errors = append(m.errors, s.Error)
}

func (m *RMSError) Value() float64 {
	if len(m.errors) == 0 {
		return 0
	}
	return floats.Norm(m.errors, 2) / math.Sqrt(float64(len(m.errors)))
}

func (m *RMSError) Reset() { m.errors = m.errors[:0] }

// SettledError looks only at samples after the settle window and reports
// either the largest |error| or the error's standard deviation.
type SettledError struct {
	name   string
	after  float64
	stddev bool
	errors []float64
}

// NewMaxSettledError tracks the peak |error| once Time >= after.
func NewMaxSettledError(after float64) *SettledError {
	return &SettledError{name: "max_settled_error", after: after}
}

// NewErrorStdDev tracks the spread of the error once Time >= after. A
// limit cycle shows up here even when the mean error is near zero.
func NewErrorStdDev(after float64) *SettledError {
	return &SettledError{name: "error_stddev", after: after, stddev: true}
}

func (m *SettledError) Name() string { return m.name }

func (m *SettledError) Observe(s sim.Sample) {
	if s.Time >= m.after {
		m.errors = append(m.errors, s.Error)
	}
}

func (m *SettledError) Value() float64 {
	if m.stddev {
		if len(m.errors) < 2 {
			return 0
		}
		return stat.PopStdDev(m.errors, nil)
	}
	peak := 0.0
	for _, e := range m.errors {
		peak = math.Max(peak, math.Abs(e))
	}
	return peak
}

func (m *SettledError) Reset() { m.errors = m.errors[:0] }
