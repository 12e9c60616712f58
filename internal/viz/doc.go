// Package viz renders solved eigenstates for the terminal.
//
//   - [Report]: lipgloss panel with the energy, the nearest analytic level and
//     the search diagnostics
//   - [Plot]: asciigraph chart of the peak-normalized wavefunction
//   - [Phase]: (ψ, ψ') phase portrait of a trajectory
//
// Output is plain strings so callers decide where it goes. lipgloss drops
// colors automatically when stdout is not a terminal.
package viz
