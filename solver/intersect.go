package solver

import (
	"math"
	"sort"

	"plotkit/cas"
	"plotkit/core"
	"plotkit/expreval"
	"plotkit/geometry"
)

// proximityLimit is how far (in world units) an intersection candidate may
// sit from a requested nearX anchor and still be selected exclusively.
const proximityLimit = 5.0

// Intersections finds the intersection points of two explicit curves:
// the CAS solves f1 - f2 = 0, with a Newton fallback when the symbolic
// route yields nothing. Candidates are deduplicated on a 3-decimal
// fingerprint; when nearX is given and the closest candidate lies within
// the proximity limit, only that candidate is returned.
func Intersections(alg cas.Engine, ev *expreval.Evaluator, a, b core.Curve, params []core.Parameter, precision int, bounds core.Bounds, nearX *float64, scope map[string]float64) []Candidate {
	if a.ID == b.ID || a.Kind != core.Explicit || b.Kind != core.Explicit {
		return nil
	}

	ea := SubstituteParams(a.Expression, params)
	eb := SubstituteParams(b.Expression, params)
	difference := "(" + ea + ") - (" + eb + ")"

	roots, err := alg.Solve(difference, "x")
	var xs []float64
	if err == nil {
		for _, root := range roots {
			x, err := alg.ToDecimal(root)
			if err == nil && geometry.IsFinite(x) {
				xs = append(xs, x)
			}
		}
	}
	if len(xs) == 0 {
		// Numeric fallback: chase a single root from the anchor (or the
		// viewport centre when no anchor was given).
		seed := (bounds.XMin + bounds.XMax) / 2
		if nearX != nil {
			seed = *nearX
		}
		if c, ok := Numeric(ev, difference, core.Zero, seed, params, precision, scope); ok {
			xs = append(xs, c.X)
		}
	}

	eval := make(map[string]float64, len(scope)+len(params)+1)
	for name, value := range scope {
		eval[name] = value
	}
	for _, p := range params {
		eval[p.Name] = p.Value
	}

	seen := make(map[int64]bool)
	var out []Candidate
	for _, x := range xs {
		key := int64(math.Round(x * fingerprintScale))
		if seen[key] {
			continue
		}
		eval["x"] = x
		y, err := ev.Evaluate(a.Expression, eval)
		if err != nil || !geometry.IsFinite(y) {
			continue
		}
		seen[key] = true
		label := "P(" + Nicest(x, precision) + ", " + Nicest(y, precision) + ")"
		out = append(out, Candidate{X: x, Y: y, Label: label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].X < out[j].X })

	if nearX != nil && len(out) > 0 {
		best := 0
		for i := range out {
			if math.Abs(out[i].X-*nearX) < math.Abs(out[best].X-*nearX) {
				best = i
			}
		}
		if math.Abs(out[best].X-*nearX) <= proximityLimit {
			return []Candidate{out[best]}
		}
	}
	return out
}
