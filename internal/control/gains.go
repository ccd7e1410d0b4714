package control

import "fmt"

const (
	DefaultKp = 0.5
	DefaultKi = 0.003
	DefaultKd = 0.8
)

type Gains struct {
	Kp float64 `json:"kp"`
	Ki float64 `json:"ki"`
	Kd float64 `json:"kd"`
}

func DefaultGains() Gains {
	return Gains{Kp: DefaultKp, Ki: DefaultKi, Kd: DefaultKd}
}

// GainField names one of the three tunable gains.
type GainField int

const (
	GainNone GainField = iota
	GainKp
	GainKi
	GainKd
)

// GainFields lists the editable fields in display order.
var GainFields = []GainField{GainKp, GainKi, GainKd}

func (f GainField) String() string {
	switch f {
	case GainKp:
		return "kp"
	case GainKi:
		return "ki"
	case GainKd:
		return "kd"
	default:
		return "none"
	}
}

func ParseGainField(s string) (GainField, error) {
	switch s {
	case "kp", "KP", "Kp":
		return GainKp, nil
	case "ki", "KI", "Ki":
		return GainKi, nil
	case "kd", "KD", "Kd":
		return GainKd, nil
	}
	return GainNone, fmt.Errorf("%w: %q", ErrUnknownField, s)
}

func (g Gains) Get(f GainField) float64 {
	switch f {
	case GainKp:
		return g.Kp
	case GainKi:
		return g.Ki
	case GainKd:
		return g.Kd
	}
	return 0
}

// With returns a copy of g with field f set to v.
func (g Gains) With(f GainField, v float64) Gains {
	switch f {
	case GainKp:
		g.Kp = v
	case GainKi:
		g.Ki = v
	case GainKd:
		g.Kd = v
	}
	return g
}

func (g Gains) String() string {
	return fmt.Sprintf("kp=%.3f ki=%.3f kd=%.3f", g.Kp, g.Ki, g.Kd)
}
