package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/qwell/internal/shooting"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D is the (ψ, ψ') curve traced across the well. Nodes holds
// the points where the curve crosses ψ = 0 inside the domain, so every node
// sits on the ψ' axis.
type PhasePortrait2D struct {
	Points []Point
	Nodes  []Point
}

// NewPhasePortrait records ψ on the x-axis and ψ' on the y-axis.
func NewPhasePortrait(traj shooting.Trajectory) *PhasePortrait2D {
	portrait := &PhasePortrait2D{Points: make([]Point, 0, len(traj))}
	for _, s := range traj {
		portrait.Points = append(portrait.Points, Point{X: s.Psi, Y: s.DPsi})
	}

	for _, c := range crossings(traj.Psis()) {
		lo, hi := traj[c[0]], traj[c[1]]
		var slope float64
		if c[1]-c[0] > 1 {
			slope = traj[c[0]+1].DPsi
		} else {
			frac := lo.Psi / (lo.Psi - hi.Psi)
			slope = lo.DPsi + frac*(hi.DPsi-lo.DPsi)
		}
		portrait.Nodes = append(portrait.Nodes, Point{X: 0, Y: slope})
	}
	return portrait
}

const (
	curveMark = '•'
	nodeMark  = '◆'
)

// plane maps phase-space coordinates onto a character grid. Both ranges
// always contain zero so the ψ and ψ' axes are on screen.
type plane struct {
	cells         [][]rune
	width, height int
	minX, rangeX  float64
	minY, rangeY  float64
}

func newPlane(points []Point, width, height int) *plane {
	minX, maxX := 0.0, 0.0
	minY, maxY := 0.0, 0.0
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	padX := math.Max(maxX-minX, 1e-300) * 0.1
	padY := math.Max(maxY-minY, 1e-300) * 0.1

	pl := &plane{
		cells:  make([][]rune, height),
		width:  width,
		height: height,
		minX:   minX - padX,
		rangeX: maxX - minX + 2*padX,
		minY:   minY - padY,
		rangeY: maxY - minY + 2*padY,
	}
	for i := range pl.cells {
		pl.cells[i] = []rune(strings.Repeat(" ", width))
	}
	return pl
}

func (pl *plane) col(x float64) int {
	return int((x - pl.minX) / pl.rangeX * float64(pl.width-1))
}

func (pl *plane) row(y float64) int {
	return pl.height - 1 - int((y-pl.minY)/pl.rangeY*float64(pl.height-1))
}

func (pl *plane) set(row, col int, r rune) {
	if row >= 0 && row < pl.height && col >= 0 && col < pl.width {
		pl.cells[row][col] = r
	}
}

// PhasePortraitToASCII draws the curve with '•', the interior nodes with
// '◆' on the ψ' axis, and labels both axes.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 4 || height < 2 {
		return ""
	}

	pl := newPlane(append(portrait.Points, portrait.Nodes...), width, height)
	axisCol, axisRow := pl.col(0), pl.row(0)

	for r := 0; r < height; r++ {
		pl.set(r, axisCol, '│')
	}
	for c := 0; c < width; c++ {
		pl.set(axisRow, c, '─')
	}
	pl.set(axisRow, axisCol, '┼')

	for _, p := range portrait.Points {
		pl.set(pl.row(p.Y), pl.col(p.X), curveMark)
	}
	for _, n := range portrait.Nodes {
		pl.set(pl.row(n.Y), axisCol, nodeMark)
	}

	pl.set(0, axisCol+1, 'ψ')
	pl.set(0, axisCol+2, '\'')
	pl.set(axisRow, width-1, 'ψ')

	var sb strings.Builder
	for _, row := range pl.cells {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
