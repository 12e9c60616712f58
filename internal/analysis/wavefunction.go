package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// Normalize returns a copy of psi divided by its largest magnitude. An
// all-zero input is returned unchanged.
func Normalize(psi []float64) []float64 {
	out := make([]float64, len(psi))
	copy(out, psi)
	if len(out) == 0 {
		return out
	}
	peak := floats.Norm(out, math.Inf(1))
	if peak == 0 {
		return out
	}
	floats.Scale(1/peak, out)
	return out
}

// NormalizeL2 returns a copy of psi scaled so that the trapezoidal integral
// of ψ² over xs is one. xs must be increasing and match psi in length.
func NormalizeL2(xs, psi []float64) []float64 {
	out := make([]float64, len(psi))
	copy(out, psi)
	if len(out) < 2 || len(xs) != len(out) {
		return out
	}
	sq := make([]float64, len(out))
	floats.MulTo(sq, out, out)
	norm := integrate.Trapezoidal(xs, sq)
	if norm <= 0 {
		return out
	}
	floats.Scale(1/math.Sqrt(norm), out)
	return out
}

// Nodes counts interior sign changes of psi. The first and last samples sit
// on the boundary and are ignored, so a node inside the final cell cannot be
// told apart from the boundary zero and is not counted. Samples that are
// exactly zero are skipped: the node is counted once, where the sign flips
// between the surrounding non-zero samples.
func Nodes(psi []float64) int {
	return len(crossings(psi))
}

// NodePositions locates interior zeros. A sign change between neighbours is
// placed by linear interpolation; a run of exact zeros is placed at its
// midpoint.
func NodePositions(xs, psi []float64) []float64 {
	cells := crossings(psi)
	out := make([]float64, 0, len(cells))
	for _, c := range cells {
		lo, hi := c[0], c[1]
		if hi-lo > 1 {
			out = append(out, (xs[lo+1]+xs[hi-1])/2)
			continue
		}
		frac := psi[lo] / (psi[lo] - psi[hi])
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			frac = 0.5
		}
		out = append(out, xs[lo]+frac*(xs[hi]-xs[lo]))
	}
	return out
}

// crossings returns index pairs (lo, hi) of consecutive non-zero interior
// samples with opposite signs.
func crossings(psi []float64) [][2]int {
	var cells [][2]int
	prev := -1
	for i := 1; i < len(psi)-1; i++ {
		if psi[i] == 0 {
			continue
		}
		if prev >= 0 && math.Signbit(psi[prev]) != math.Signbit(psi[i]) {
			cells = append(cells, [2]int{prev, i})
		}
		prev = i
	}
	return cells
}
