// Package solver contains the root, extremum and intersection solvers the
// resolver delegates to, together with the shared result formatting.
package solver

import (
	"math"

	"plotkit/core"
	"plotkit/expreval"
	"plotkit/geometry"
)

// Newton iteration cap and guards. A pathological input degrades to
// "no result", it never hangs.
const (
	maxNewtonIterations = 30
	derivativeStep      = 1e-5
	residualTolerance   = 1e-7
	derivativeFloor     = 1e-9
	divergenceBound     = 1e6
	stepTolerance       = 1e-12
)

// Candidate is a solver result: a concrete point plus its display label.
type Candidate struct {
	X, Y  float64
	Label string
}

// Numeric locates the zero, minimum or maximum of the expression nearest to
// targetX by Newton-Raphson, returning false when the search fails to
// converge or the converged point has the wrong curvature for the requested
// kind. The scope supplies parameter values and any referenced object
// quantities; the expression's free variable is x.
func Numeric(ev *expreval.Evaluator, expression string, kind core.CriticalKind, targetX float64, params []core.Parameter, precision int, scope map[string]float64) (Candidate, bool) {
	base := make(map[string]float64, len(scope)+len(params)+1)
	for name, value := range scope {
		base[name] = value
	}
	for _, p := range params {
		base[p.Name] = p.Value
	}

	f := func(x float64) (float64, bool) {
		base["x"] = x
		v, err := ev.Evaluate(expression, base)
		if err != nil || !geometry.IsFinite(v) {
			return 0, false
		}
		return v, true
	}
	// For extrema we chase zeros of the centered-difference derivative.
	g := f
	if kind != core.Zero {
		g = func(x float64) (float64, bool) {
			return centeredDiff(f, x)
		}
	}

	x := targetX
	converged := false
	for i := 0; i < maxNewtonIterations; i++ {
		gx, ok := g(x)
		if !ok {
			return Candidate{}, false
		}
		if math.Abs(gx) < residualTolerance {
			converged = true
			break
		}
		dgx, ok := centeredDiff(g, x)
		if !ok || math.Abs(dgx) < derivativeFloor {
			return Candidate{}, false
		}
		step := gx / dgx
		x -= step
		if math.Abs(x) > divergenceBound {
			return Candidate{}, false
		}
		if math.Abs(step) < stepTolerance {
			converged = true
			break
		}
	}
	if !converged {
		return Candidate{}, false
	}

	var y float64
	if kind == core.Zero {
		y = 0
	} else {
		fy, ok := f(x)
		if !ok {
			return Candidate{}, false
		}
		y = fy
		curvature, ok := secondDiff(f, x)
		if !ok {
			return Candidate{}, false
		}
		if kind == core.Maximum && curvature >= 0 {
			return Candidate{}, false
		}
		if kind == core.Minimum && curvature <= 0 {
			return Candidate{}, false
		}
	}
	return Candidate{X: x, Y: y, Label: PointLabel(kind, x, y, precision)}, true
}

// centeredDiff approximates g'(x) with a centered finite difference.
func centeredDiff(g func(float64) (float64, bool), x float64) (float64, bool) {
	hi, ok := g(x + derivativeStep)
	if !ok {
		return 0, false
	}
	lo, ok := g(x - derivativeStep)
	if !ok {
		return 0, false
	}
	d := (hi - lo) / (2 * derivativeStep)
	if !geometry.IsFinite(d) {
		return 0, false
	}
	return d, true
}

// secondDiff approximates f''(x) with a centered finite difference.
func secondDiff(f func(float64) (float64, bool), x float64) (float64, bool) {
	hi, ok := f(x + derivativeStep)
	if !ok {
		return 0, false
	}
	mid, ok := f(x)
	if !ok {
		return 0, false
	}
	lo, ok := f(x - derivativeStep)
	if !ok {
		return 0, false
	}
	d := (hi - 2*mid + lo) / (derivativeStep * derivativeStep)
	if !geometry.IsFinite(d) {
		return 0, false
	}
	return d, true
}
