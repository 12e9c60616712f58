package analysis

import "math"

// AnalyticEnergy is the n-th level of an infinite well of the given width.
func AnalyticEnergy(n int, width float64) float64 {
	return float64(n*n) * math.Pi * math.Pi / (2 * width * width)
}

// NearestLevel returns the analytic level closest to energy. Energies below
// the ground state map to n = 1.
func NearestLevel(energy, width float64) (int, float64) {
	if energy <= 0 {
		return 1, AnalyticEnergy(1, width)
	}
	n := int(math.Round(width * math.Sqrt(2*energy) / math.Pi))
	if n < 1 {
		n = 1
	}
	return n, AnalyticEnergy(n, width)
}

// RelativeError compares energy with its nearest analytic level.
func RelativeError(energy, width float64) float64 {
	_, en := NearestLevel(energy, width)
	return math.Abs(energy-en) / en
}
