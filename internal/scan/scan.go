// Package scan proposes energy brackets by sampling a residual on a grid.
package scan

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/qwell/internal/roots"
	"github.com/san-kum/qwell/internal/solver"
)

// Grid holds the residual sampled at evenly spaced energies.
type Grid struct {
	Energies  []float64
	Residuals []float64
}

// Sample evaluates f at n+1 evenly spaced points over [lo, hi].
func Sample(ctx context.Context, f roots.Func, lo, hi float64, n int) (*Grid, error) {
	if n < 1 {
		return nil, fmt.Errorf("scan: need at least one cell, got %d", n)
	}
	if !(lo < hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, fmt.Errorf("scan: invalid range [%g, %g]", lo, hi)
	}

	g := &Grid{
		Energies:  floats.Span(make([]float64, n+1), lo, hi),
		Residuals: make([]float64, n+1),
	}
	for i, e := range g.Energies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := f(e)
		if err != nil {
			return nil, fmt.Errorf("scan at E=%g: %w", e, err)
		}
		g.Residuals[i] = r
	}
	return g, nil
}

// Brackets returns every cell of g whose endpoints straddle a root. A sample
// that is exactly zero closes the cell on its left.
func (g *Grid) Brackets() []solver.Bracket {
	var out []solver.Bracket
	for i := 1; i < len(g.Residuals); i++ {
		a, b := g.Residuals[i-1], g.Residuals[i]
		if a == 0 && i > 1 {
			continue
		}
		if a*b <= 0 {
			out = append(out, solver.Bracket{Lo: g.Energies[i-1], Hi: g.Energies[i]})
		}
	}
	return out
}

// Brackets samples f on n uniform cells and returns the sign-change cells.
func Brackets(ctx context.Context, f roots.Func, lo, hi float64, n int) ([]solver.Bracket, error) {
	g, err := Sample(ctx, f, lo, hi, n)
	if err != nil {
		return nil, err
	}
	return g.Brackets(), nil
}
