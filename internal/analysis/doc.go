// Package analysis post-processes solved eigenstates for display and
// validation.
//
//   - [Normalize] and [NormalizeL2]: scale ψ by its peak or to unit probability
//   - [Nodes] and [NodePositions]: interior zero crossings of ψ
//   - [AnalyticEnergy], [NearestLevel], [RelativeError]: closed-form levels of
//     the infinite well, E_n = n²π²/(2L²)
//   - [NewPhasePortrait]: the (ψ, ψ') curve of a trajectory, with ASCII output
//
// # Validation
//
// A solved ground state should sit on the first analytic level:
//
//	n, en := analysis.NearestLevel(state.Energy, 1)
//	if n != 1 || analysis.RelativeError(state.Energy, 1) > 1e-8 {
//	    // suspect bracket or tolerances
//	}
package analysis
