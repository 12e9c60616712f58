package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/qwell/internal/shooting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineTrajectory(n, samples int) shooting.Trajectory {
	traj := make(shooting.Trajectory, samples)
	k := float64(n) * math.Pi
	for i := range traj {
		x := float64(i) / float64(samples-1)
		traj[i] = shooting.Sample{X: x, Psi: math.Sin(k*x) / k, DPsi: math.Cos(k * x)}
	}
	return traj
}

func TestAnalyticEnergy(t *testing.T) {
	assert.InDelta(t, 4.934802200544679, AnalyticEnergy(1, 1), 1e-12)
	assert.InDelta(t, 19.739208802178716, AnalyticEnergy(2, 1), 1e-12)
	assert.InDelta(t, AnalyticEnergy(1, 1)/4, AnalyticEnergy(1, 2), 1e-12)
}

func TestNearestLevel(t *testing.T) {
	cases := []struct {
		energy float64
		n      int
	}{
		{-3, 1},
		{0.1, 1},
		{4.93, 1},
		{4.4326, 1},
		{19.7, 2},
		{44.4, 3},
	}
	for _, tc := range cases {
		n, en := NearestLevel(tc.energy, 1)
		assert.Equal(t, tc.n, n, "E=%g", tc.energy)
		assert.Equal(t, AnalyticEnergy(tc.n, 1), en)
	}

	assert.InDelta(t, 0, RelativeError(AnalyticEnergy(2, 1), 1), 1e-15)
	assert.Greater(t, RelativeError(4.4326, 1), 0.1)
}

func TestNormalize(t *testing.T) {
	got := Normalize([]float64{0, -2, 1, 0.5})
	assert.Equal(t, []float64{0, -1, 0.5, 0.25}, got)

	in := []float64{0, 0}
	assert.Equal(t, in, Normalize(in))
	assert.Empty(t, Normalize(nil))

	src := []float64{1, 2}
	Normalize(src)
	assert.Equal(t, []float64{1, 2}, src, "input must not be modified")
}

func TestNormalizeL2(t *testing.T) {
	traj := sineTrajectory(1, 2001)
	psi := NormalizeL2(traj.Xs(), traj.Psis())

	// ∫ 2 sin²(πx) dx = 1 on [0, 1]
	assert.InDelta(t, math.Sqrt2, psi[1000], 1e-5)

	short := NormalizeL2([]float64{0}, []float64{3})
	assert.Equal(t, []float64{3}, short)
}

func TestNodes(t *testing.T) {
	for n := 1; n <= 4; n++ {
		traj := sineTrajectory(n, 401)
		assert.Equal(t, n-1, Nodes(traj.Psis()), "n=%d", n)

		pos := NodePositions(traj.Xs(), traj.Psis())
		require.Len(t, pos, n-1)
		for j, x := range pos {
			assert.InDelta(t, float64(j+1)/float64(n), x, 1e-4)
		}
	}

	assert.Equal(t, 0, Nodes([]float64{0, 1, 2, -1e-12}), "a sign flip on the last sample is a boundary artifact")
}

func TestNodesExactZeroSample(t *testing.T) {
	xs := []float64{0, 0.25, 0.5, 0.75, 1}
	psi := []float64{0, 1, 0, -1, 1e-12}
	assert.Equal(t, 1, Nodes(psi))
	assert.Equal(t, []float64{0.5}, NodePositions(xs, psi))

	xs = []float64{0, 0.2, 0.4, 0.6, 0.8, 1}
	psi = []float64{0, 1, 0, 0, -1, 0}
	assert.Equal(t, 1, Nodes(psi))
	pos := NodePositions(xs, psi)
	require.Len(t, pos, 1)
	assert.InDelta(t, 0.5, pos[0], 1e-12)

	assert.Equal(t, 0, Nodes([]float64{0, 1, 0, 2, 0}), "a touch without a sign change is not a node")
}

func TestPhasePortrait(t *testing.T) {
	traj := sineTrajectory(1, 100)
	p := NewPhasePortrait(traj)
	require.Len(t, p.Points, 100)
	assert.Equal(t, traj[10].Psi, p.Points[10].X)
	assert.Equal(t, traj[10].DPsi, p.Points[10].Y)
	assert.Empty(t, p.Nodes, "the ground state has no interior node")

	art := PhasePortraitToASCII(p, 40, 10)
	lines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	assert.Len(t, lines, 10)
	assert.Contains(t, art, "•")
	assert.Contains(t, art, "ψ'")
	assert.NotContains(t, art, "◆")

	assert.Empty(t, PhasePortraitToASCII(nil, 40, 10))
	assert.Empty(t, PhasePortraitToASCII(&PhasePortrait2D{}, 40, 10))
}

func TestPhasePortraitNodes(t *testing.T) {
	p := NewPhasePortrait(sineTrajectory(3, 301))
	require.Len(t, p.Nodes, 2)
	// ψ' = cos(3πx) at x = 1/3 and 2/3
	assert.InDelta(t, -1, p.Nodes[0].Y, 1e-3)
	assert.InDelta(t, 1, p.Nodes[1].Y, 1e-3)
	for _, n := range p.Nodes {
		assert.Equal(t, 0.0, n.X)
	}

	art := PhasePortraitToASCII(p, 41, 21)
	assert.Equal(t, 2, strings.Count(art, "◆"))
}
