package submarine

import (
	"go.uber.org/zap"

	"github.com/san-kum/subsim/internal/control"
)

// Snapshot is everything the driver needs to draw one frame.
type Snapshot struct {
	State
	Gains  control.Gains
	Active control.GainField
	Buffer string
}

// Session pairs a simulation with the tuner that drives it. A successful
// gain commit resets the simulation's integral so a stale anti-windup term
// does not carry over to the new gains.
type Session struct {
	Sim    *Simulation
	Tuner  *control.Tuner
	logger *zap.Logger
}

func NewSession(s *Simulation, t *control.Tuner, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{Sim: s, Tuner: t, logger: logger.Named("session")}
}

// Step advances the simulation with the tuner's current gains.
func (s *Session) Step(dt float64) {
	s.Sim.Advance(dt, s.Tuner.Gains())
}

func (s *Session) Raise() { s.Sim.AdjustTarget(TargetStep) }
func (s *Session) Lower() { s.Sim.AdjustTarget(-TargetStep) }

func (s *Session) Reset() {
	s.Sim.Reset()
	s.logger.Debug("simulation reset", zap.Float64("target", s.Sim.State().TargetDepth))
}

func (s *Session) BeginEdit(f control.GainField) { s.Tuner.BeginEdit(f) }
func (s *Session) AppendChar(r rune)             { s.Tuner.AppendChar(r) }
func (s *Session) Backspace()                    { s.Tuner.Backspace() }
func (s *Session) Cancel()                       { s.Tuner.Cancel() }

// Commit applies the pending gain edit. Rejected text is returned as a
// *control.ParseError and leaves the gains and the integral alone.
func (s *Session) Commit() error {
	field, err := s.Tuner.Commit()
	if err != nil {
		s.logger.Warn("gain edit rejected", zap.Stringer("field", field), zap.Error(err))
		return err
	}
	s.Sim.ResetIntegral()
	s.logger.Info("gain updated",
		zap.Stringer("field", field),
		zap.Float64("value", s.Tuner.Gains().Get(field)))
	return nil
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		State:  s.Sim.State(),
		Gains:  s.Tuner.Gains(),
		Active: s.Tuner.Active(),
		Buffer: s.Tuner.Buffer(),
	}
}
