// Package automation runs many headless experiments at once.
//
// A [Script] is a yaml list of runs, each described as a preset plus
// overrides on a base config. [MonteCarlo] checks how a gain set holds up
// when the hull it was tuned on is not quite the hull it drives.
package automation
