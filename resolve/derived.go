package resolve

import (
	"plotkit/cas"
	"plotkit/core"
)

// maxDeriveDepth caps how far a chain of derived curves is followed when a
// parent expression changes. Longer chains stop refreshing rather than
// recursing without bound.
const maxDeriveDepth = 5

// RefreshDerived recomputes the expression of every derivative/integral
// curve from its parent through the CAS, parents before children, and
// returns the updated slice. Curves whose parent is missing or whose
// recomputation fails keep their previous expression.
func RefreshDerived(curves []core.Curve, alg cas.Engine) []core.Curve {
	out := make([]core.Curve, len(curves))
	copy(out, curves)
	index := make(map[int]int, len(out))
	for i, c := range out {
		index[c.ID] = i
	}

	var refresh func(i, depth int)
	refresh = func(i, depth int) {
		if depth >= maxDeriveDepth {
			return
		}
		c := out[i]
		if c.Derivation == core.NotDerived || c.DerivedFrom == 0 {
			return
		}
		parentIdx, ok := index[c.DerivedFrom]
		if !ok {
			return
		}
		refresh(parentIdx, depth+1)
		parent := out[parentIdx]

		var expression string
		var err error
		switch c.Derivation {
		case core.Derivative:
			expression, err = alg.Differentiate(parent.Expression, "x")
		case core.Integral:
			expression, err = alg.Integrate(parent.Expression, "x")
		}
		if err == nil && expression != "" {
			out[i].Expression = expression
		}
	}
	for i := range out {
		refresh(i, 0)
	}
	return out
}
