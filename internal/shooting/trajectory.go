package shooting

// Sample is one point of a trajectory on the integrator's adaptive grid.
type Sample struct {
	X    float64 `json:"x"`
	Psi  float64 `json:"psi"`
	DPsi float64 `json:"dpsi"`
}

// Trajectory is the ordered list of samples produced by one shot.
type Trajectory []Sample

func (t Trajectory) Len() int { return len(t) }

func (t Trajectory) At(i int) Sample { return t[i] }

// End returns the last sample, or the zero Sample for an empty trajectory.
func (t Trajectory) End() Sample {
	if len(t) == 0 {
		return Sample{}
	}
	return t[len(t)-1]
}

func (t Trajectory) Xs() []float64 {
	out := make([]float64, len(t))
	for i, s := range t {
		out[i] = s.X
	}
	return out
}

func (t Trajectory) Psis() []float64 {
	out := make([]float64, len(t))
	for i, s := range t {
		out[i] = s.Psi
	}
	return out
}

func (t Trajectory) DPsis() []float64 {
	out := make([]float64, len(t))
	for i, s := range t {
		out[i] = s.DPsi
	}
	return out
}
