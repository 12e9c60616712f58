package export

import (
	"fmt"
	"strings"
)

const (
	DefaultStroke = "#00ccff"
	axisStroke    = "#444466"
)

// WavefunctionSVG draws ψ(x) as a single path with a dashed line at ψ = 0.
// Returns "" when fewer than two points are given or the lengths differ.
func WavefunctionSVG(xs, ys []float64, width, height int, strokeColor string) string {
	if len(xs) < 2 || len(xs) != len(ys) || width <= 0 || height <= 0 {
		return ""
	}
	if strokeColor == "" {
		strokeColor = DefaultStroke
	}

	// Find bounds, always including the axis
	minX, maxX := xs[0], xs[0]
	minY, maxY := 0.0, 0.0
	for i := range xs {
		if xs[i] < minX {
			minX = xs[i]
		}
		if xs[i] > maxX {
			maxX = xs[i]
		}
		if ys[i] < minY {
			minY = ys[i]
		}
		if ys[i] > maxY {
			maxY = ys[i]
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	// vertical padding only; the path spans the full width
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	px := func(x float64) float64 { return (x - minX) / rangeX * float64(width) }
	py := func(y float64) float64 { return float64(height) - (y-minY)/rangeY*float64(height) }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-width="1" stroke-dasharray="4,4"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height,
		py(0), width, py(0), axisStroke,
		strokeColor))

	for i := range xs {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(xs[i]), py(ys[i])))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px(xs[i]), py(ys[i])))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
