// Package viz renders disk kinematics in the terminal.
//
// Line charts are drawn with asciigraph and styled with lipgloss. [Explorer]
// is a Bubble Tea program that sweeps galactic longitude at a fixed distance
// and latitude and redraws as the observer changes them.
//
// # Key Bindings
//
//	j/k   - Decrease/increase distance
//	h/l   - Decrease/increase latitude
//	tab   - Cycle pml, pmb, vrad
//	r     - Reset to initial values
//	q     - Quit
package viz
