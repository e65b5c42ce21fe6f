package solver

import (
	"math"
	"sort"
	"testing"

	"plotkit/cas"
	"plotkit/core"
	"plotkit/expreval"
)

func sortByX(cands []Candidate) {
	sort.Slice(cands, func(i, j int) bool { return cands[i].X < cands[j].X })
}

func TestSymbolicAllZeros(t *testing.T) {
	alg := cas.NewSymbolic()
	ev := expreval.New()
	cands := Symbolic(alg, ev, "x^2 - 4", core.Zero, nil, 2)
	sortByX(cands)
	if len(cands) != 2 {
		t.Fatalf("Expected two zeros of x^2 - 4, got %d: %v", len(cands), cands)
	}
	if math.Abs(cands[0].X+2) > 1e-6 || math.Abs(cands[1].X-2) > 1e-6 {
		t.Errorf("Expected zeros at -2 and 2, got %v and %v", cands[0].X, cands[1].X)
	}
	for _, c := range cands {
		if c.Y != 0 {
			t.Errorf("Expected zero candidate to carry y=0, got %v", c.Y)
		}
	}
}

func TestSymbolicMaximum(t *testing.T) {
	alg := cas.NewSymbolic()
	ev := expreval.New()
	cands := Symbolic(alg, ev, "4 - x^2", core.Maximum, nil, 2)
	if len(cands) != 1 {
		t.Fatalf("Expected a single maximum, got %d: %v", len(cands), cands)
	}
	c := cands[0]
	if math.Abs(c.X) > 1e-6 || math.Abs(c.Y-4) > 1e-6 {
		t.Errorf("Expected maximum at (0, 4), got (%v, %v)", c.X, c.Y)
	}
	if c.Label != "Max(0, 4)" {
		t.Errorf("Expected label 'Max(0, 4)', got %q", c.Label)
	}
}

func TestSymbolicRejectsWrongKind(t *testing.T) {
	alg := cas.NewSymbolic()
	ev := expreval.New()
	// The only stationary point of 4 - x^2 has negative curvature, so a
	// minimum query yields nothing.
	if cands := Symbolic(alg, ev, "4 - x^2", core.Minimum, nil, 2); len(cands) != 0 {
		t.Errorf("Expected no minima on a concave parabola, got %v", cands)
	}
}

func TestSymbolicCubicExtrema(t *testing.T) {
	alg := cas.NewSymbolic()
	ev := expreval.New()
	// x^3 - 3x has a maximum at (-1, 2) and a minimum at (1, -2).
	maxima := Symbolic(alg, ev, "x^3 - 3*x", core.Maximum, nil, 2)
	if len(maxima) != 1 || math.Abs(maxima[0].X+1) > 1e-6 || math.Abs(maxima[0].Y-2) > 1e-6 {
		t.Errorf("Expected maximum at (-1, 2), got %v", maxima)
	}
	minima := Symbolic(alg, ev, "x^3 - 3*x", core.Minimum, nil, 2)
	if len(minima) != 1 || math.Abs(minima[0].X-1) > 1e-6 || math.Abs(minima[0].Y+2) > 1e-6 {
		t.Errorf("Expected minimum at (1, -2), got %v", minima)
	}
}

func TestSymbolicSubstitutesParams(t *testing.T) {
	alg := cas.NewSymbolic()
	ev := expreval.New()
	params := []core.Parameter{{Name: "a", Value: 9}}
	cands := Symbolic(alg, ev, "x^2 - a", core.Zero, params, 2)
	sortByX(cands)
	if len(cands) != 2 {
		t.Fatalf("Expected two zeros of x^2 - 9, got %d: %v", len(cands), cands)
	}
	if math.Abs(cands[0].X+3) > 1e-6 || math.Abs(cands[1].X-3) > 1e-6 {
		t.Errorf("Expected zeros at -3 and 3, got %v and %v", cands[0].X, cands[1].X)
	}
}

func TestSymbolicDeduplicatesRoots(t *testing.T) {
	alg := cas.NewSymbolic()
	ev := expreval.New()
	// (x - 1)^2 has a double root; the fingerprint keeps one candidate.
	cands := Symbolic(alg, ev, "x^2 - 2*x + 1", core.Zero, nil, 2)
	if len(cands) != 1 {
		t.Fatalf("Expected the double root to collapse to one candidate, got %v", cands)
	}
	if math.Abs(cands[0].X-1) > 1e-6 {
		t.Errorf("Expected root 1, got %v", cands[0].X)
	}
}
