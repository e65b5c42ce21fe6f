package solver

import (
	"math"
	"regexp"
	"strconv"

	"plotkit/cas"
	"plotkit/core"
	"plotkit/expreval"
	"plotkit/geometry"
)

// fingerprintScale rounds candidate x values to 3 decimal places for
// deduplication; the CAS frequently reports the same root twice with noise
// in the last bits.
const fingerprintScale = 1e3

// Symbolic finds all zeros or extrema of the expression through the CAS:
// parameters are substituted textually, the equation (or its symbolic
// derivative) is solved, and each candidate is evaluated numerically.
// Extremum candidates whose second-derivative sign contradicts the
// requested kind are discarded.
func Symbolic(alg cas.Engine, ev *expreval.Evaluator, expression string, kind core.CriticalKind, params []core.Parameter, precision int) []Candidate {
	subbed := SubstituteParams(expression, params)

	target := subbed
	if kind != core.Zero {
		derivative, err := alg.Differentiate(subbed, "x")
		if err != nil {
			return nil
		}
		target = derivative
	}
	roots, err := alg.Solve(target, "x")
	if err != nil {
		return nil
	}

	var second string
	if kind != core.Zero {
		if second, err = alg.Differentiate(target, "x"); err != nil {
			return nil
		}
	}

	seen := make(map[int64]bool)
	var out []Candidate
	for _, root := range roots {
		x, err := alg.ToDecimal(root)
		if err != nil || !geometry.IsFinite(x) {
			continue
		}
		key := int64(math.Round(x * fingerprintScale))
		if seen[key] {
			continue
		}

		y := 0.0
		if kind != core.Zero {
			fy, err := ev.Evaluate(subbed, map[string]float64{"x": x})
			if err != nil || !geometry.IsFinite(fy) {
				continue
			}
			curvature, err := ev.Evaluate(second, map[string]float64{"x": x})
			if err != nil || !geometry.IsFinite(curvature) {
				continue
			}
			if kind == core.Maximum && curvature >= 0 {
				continue
			}
			if kind == core.Minimum && curvature <= 0 {
				continue
			}
			y = fy
		}
		seen[key] = true
		out = append(out, Candidate{X: x, Y: y, Label: PointLabel(kind, x, y, precision)})
	}
	return out
}

var identPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// SubstituteParams replaces every whole-word occurrence of a parameter name
// with its parenthesised numeric value. The result stays within the surface
// syntax both the evaluator and the CAS accept.
func SubstituteParams(expression string, params []core.Parameter) string {
	if len(params) == 0 {
		return expression
	}
	values := make(map[string]float64, len(params))
	for _, p := range params {
		values[p.Name] = p.Value
	}
	return identPattern.ReplaceAllStringFunc(expression, func(name string) string {
		v, ok := values[name]
		if !ok {
			return name
		}
		return "(" + strconv.FormatFloat(v, 'g', -1, 64) + ")"
	})
}
