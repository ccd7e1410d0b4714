// Package tui is the interactive driver: a bubbletea program that ticks the
// submarine session at the configured frame rate, feeds it key and mouse
// input, and draws the playfield, gains and a depth history graph.
package tui
