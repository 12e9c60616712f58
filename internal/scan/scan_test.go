package scan

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/qwell/internal/dynamo"
	"github.com/san-kum/qwell/internal/physics"
	"github.com/san-kum/qwell/internal/shooting"
	"github.com/san-kum/qwell/internal/solver"
)

func TestBracketsSine(t *testing.T) {
	f := func(x float64) (float64, error) { return math.Sin(x), nil }
	got, err := Brackets(context.Background(), f, 0.5, 10, 19)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 brackets, got %v", got)
	}
	for i, b := range got {
		root := float64(i+1) * math.Pi
		if b.Lo > root || b.Hi < root {
			t.Errorf("bracket %v does not contain %g", b, root)
		}
	}
}

func TestBracketsExactZero(t *testing.T) {
	f := func(x float64) (float64, error) { return x - 2, nil }
	got, err := Brackets(context.Background(), f, 0, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []solver.Bracket{{Lo: 1, Hi: 2}}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBracketsWellLevels(t *testing.T) {
	d := dynamo.Domain{Min: 0, Max: 1}
	sh, err := shooting.New(physics.NewInfiniteWell(d), d)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Brackets(context.Background(), sh.Residual, 1, 50, 49)
	if err != nil {
		t.Fatal(err)
	}
	want := []solver.Bracket{{Lo: 4, Hi: 5}, {Lo: 19, Hi: 20}, {Lo: 44, Hi: 45}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bracket %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSampleGrid(t *testing.T) {
	calls := 0
	f := func(x float64) (float64, error) { calls++; return x, nil }
	g, err := Sample(context.Background(), f, 0, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 5 || len(g.Energies) != 5 {
		t.Fatalf("expected 5 samples, got %d calls and %d energies", calls, len(g.Energies))
	}
	if g.Energies[0] != 0 || g.Energies[4] != 1 || g.Energies[2] != 0.5 {
		t.Errorf("unexpected grid %v", g.Energies)
	}
}

func TestSampleErrors(t *testing.T) {
	ok := func(x float64) (float64, error) { return x, nil }
	cases := []struct {
		name   string
		lo, hi float64
		n      int
	}{
		{"no cells", 0, 1, 0},
		{"inverted", 1, 0, 4},
		{"nan", math.NaN(), 1, 4},
		{"inf", 0, math.Inf(1), 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Sample(context.Background(), ok, tc.lo, tc.hi, tc.n); err == nil {
				t.Error("expected error")
			}
		})
	}

	boom := errors.New("boom")
	bad := func(float64) (float64, error) { return 0, boom }
	if _, err := Brackets(context.Background(), bad, 0, 1, 2); !errors.Is(err, boom) {
		t.Errorf("expected wrapped evaluation error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Brackets(ctx, ok, 0, 1, 2); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func BenchmarkBracketsWell(b *testing.B) {
	d := dynamo.Domain{Min: 0, Max: 1}
	sh, _ := shooting.New(physics.NewInfiniteWell(d), d)
	for i := 0; i < b.N; i++ {
		_, _ = Brackets(context.Background(), sh.Residual, 1, 50, 49)
	}
}
