// Package submarine runs the PID-driven depth simulation.
//
// Each call to [Simulation.Advance] performs one frame in a fixed order:
// the controller turns the depth error into an output, the output moves
// the ballast air level, and the resulting buoyancy, gravity and drag are
// integrated into velocity and position with a semi-implicit Euler step.
// Air level, integral and position are clamped, never reflected.
//
// [Session] is the unit a driver loop owns: one simulation plus the
// [control.Tuner] whose gains it is advanced with.
//
// # Thread Safety
//
// Neither type is safe for concurrent use. Drivers step, edit and render
// from a single goroutine.
package submarine
