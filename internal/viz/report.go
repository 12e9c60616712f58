package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/qwell/internal/analysis"
	"github.com/san-kum/qwell/internal/shooting"
	"github.com/san-kum/qwell/internal/solver"
)

const (
	PlotHeight = 12
	PlotWidth  = 72
)

// Report summarizes state in a bordered panel. width is the well width used
// for the analytic comparison.
func Report(state *solver.Eigenstate, width float64) string {
	if state == nil {
		return ""
	}

	n, en := analysis.NearestLevel(state.Energy, width)
	psi := analysis.Normalize(state.Trajectory.Psis())

	status := StatusOK.Render("converged")
	if !state.Converged {
		status = StatusWarn.Render("not converged")
	}

	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, MetricLabel.Render(label), MetricValue.Render(value))
	}

	lines := []string{
		Title.Render("eigenstate " + state.Bracket.String()),
		"",
		row("energy", fmt.Sprintf("%.12f", state.Energy)),
		row("level", fmt.Sprintf("n=%d  E_n=%.12f", n, en)),
		row("rel. error", fmt.Sprintf("%.3e", analysis.RelativeError(state.Energy, width))),
		row("residual", fmt.Sprintf("%.3e", state.Residual)),
		row("nodes", fmt.Sprintf("%d", analysis.Nodes(state.Trajectory.Psis()))),
		"",
		row("status", status),
		row("iterations", fmt.Sprintf("%d (%d shots)", state.Iterations, state.FunctionCalls)),
		row("steps", fmt.Sprintf("%d accepted, %d rejected", state.Stats.Steps, state.Stats.Rejected)),
		"",
		SparklineChart(psi, 40),
	}
	return Panel.Render(strings.Join(lines, "\n"))
}

// Plot charts the peak-normalized ψ of traj. Returns "" for an empty
// trajectory.
func Plot(traj shooting.Trajectory, caption string) string {
	if len(traj) == 0 {
		return ""
	}
	return asciigraph.Plot(analysis.Normalize(traj.Psis()),
		asciigraph.Height(PlotHeight),
		asciigraph.Width(PlotWidth),
		asciigraph.Caption(caption),
	)
}

// Phase draws the (ψ, ψ') portrait of traj.
func Phase(traj shooting.Trajectory, width, height int) string {
	art := analysis.PhasePortraitToASCII(analysis.NewPhasePortrait(traj), width, height)
	if art == "" {
		return ""
	}
	return Subtle.Render("ψ' vs ψ") + "\n" + art
}
