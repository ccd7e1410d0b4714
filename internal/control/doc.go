// Package control implements the depth controller and its live tuning.
//
//   - [PID]: error history with anti-windup and a filtered derivative
//   - [Gains]: the Kp, Ki, Kd triple, passed into every [PID.Update]
//   - [Tuner]: gains plus the in-progress text edit of one of them
//
// # Editing
//
//	t := control.NewTuner(control.DefaultGains())
//	t.BeginEdit(control.GainKp) // buffer seeded with "0.5"
//	t.Backspace()
//	t.AppendChar('7')
//	field, err := t.Commit()    // *ParseError on bad text, gain unchanged
package control
