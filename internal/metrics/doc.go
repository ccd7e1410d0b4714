// Package metrics scores a depth-control run from its recorded samples.
//
// Every metric implements sim.Metric and sees each sample once, in order.
// Error-based metrics weight samples by their Dt, so an initial sample
// recorded with Dt == 0 only sets the starting point.
package metrics
