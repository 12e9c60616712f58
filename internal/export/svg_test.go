package export

import (
	"math"
	"strings"
	"testing"
)

func halfSine(n int) ([]float64, []float64) {
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i) / float64(n-1)
		ys[i] = math.Sin(math.Pi * xs[i])
	}
	return xs, ys
}

func TestWavefunctionSVG(t *testing.T) {
	xs, ys := halfSine(11)
	svg := WavefunctionSVG(xs, ys, 200, 100, "#ff0000")

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not a complete SVG document: %q", svg)
	}
	for _, want := range []string{`width="200"`, `height="100"`, `stroke="#ff0000"`, "<line", "<path"} {
		if !strings.Contains(svg, want) {
			t.Errorf("missing %s", want)
		}
	}
	if got := strings.Count(svg, " L"); got != 10 {
		t.Errorf("expected 10 line segments, got %d", got)
	}
	// ψ ranges over [0, 1], padded by 0.1: the axis sits at 100 - 0.1/1.2*100
	if !strings.Contains(svg, `y1="91.7"`) {
		t.Errorf("axis not at ψ=0: %s", svg)
	}
}

func TestWavefunctionSVGDefaults(t *testing.T) {
	xs, ys := halfSine(3)
	if svg := WavefunctionSVG(xs, ys, 50, 50, ""); !strings.Contains(svg, DefaultStroke) {
		t.Error("expected default stroke color")
	}

	flat := WavefunctionSVG([]float64{0, 1}, []float64{0, 0}, 10, 10, "")
	if strings.Contains(flat, "NaN") {
		t.Error("flat input must not produce NaN coordinates")
	}
}

func TestWavefunctionSVGInvalid(t *testing.T) {
	tests := []struct {
		name   string
		xs, ys []float64
		w, h   int
	}{
		{"single point", []float64{0}, []float64{0}, 10, 10},
		{"length mismatch", []float64{0, 1}, []float64{0}, 10, 10},
		{"zero size", []float64{0, 1}, []float64{0, 1}, 0, 10},
	}
	for _, tt := range tests {
		if svg := WavefunctionSVG(tt.xs, tt.ys, tt.w, tt.h, ""); svg != "" {
			t.Errorf("%s: expected empty output", tt.name)
		}
	}
}
