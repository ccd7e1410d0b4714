// Package physics models the vertical motion of the submarine hull.
//
// [Hull] implements [sim.Dynamics] over the state [position, velocity] with
// the ballast air level as its single control input. Three forces act on
// the hull:
//
//	buoyancy = -(air - 50) * BuoyancyFactor
//	gravity  = Gravity * Mass
//	drag     = -Drag * v * |v|
//
// Screen-space position grows downward, so a positive net force sinks the
// hull. The model is a lumped force balance, not a fluid simulation.
package physics
