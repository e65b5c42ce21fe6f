// Package resolve turns a collection of symbolic objects (curves,
// parameters, geometric constructions referencing each other) into concrete
// numeric coordinates. It hosts the scope builder, the bounded fixed-point
// resolver, the dependency-closure pruner and the derived-curve cascade.
package resolve

import (
	"plotkit/core"
	"plotkit/expreval"
	"plotkit/geometry"
)

// slopeStep is the centered-difference step used when differentiating a
// tangent's source curve at its anchor.
const slopeStep = 1e-5

type env struct {
	ev      *expreval.Evaluator
	params  []core.Parameter
	points  []core.ResolvedPoint
	objects []core.Construction
	curves  []core.Curve
}

// BuildScope produces the flat name→value mapping for one resolution step:
// every parameter by name, x_/y_ entries for every resolved labelled point,
// and slope entries under four aliases for every labelled line-like object
// whose slope is currently computable. Objects in the visited set are
// skipped; a slope that cannot be computed is simply omitted. The function
// has no side effects.
func BuildScope(ev *expreval.Evaluator, params []core.Parameter, points []core.ResolvedPoint, objects []core.Construction, curves []core.Curve, visited map[int]bool) map[string]float64 {
	e := env{ev: ev, params: params, points: points, objects: objects, curves: curves}
	return buildScope(e, visited)
}

func buildScope(e env, visited map[int]bool) map[string]float64 {
	scope := make(map[string]float64)
	for _, p := range e.params {
		scope[p.Name] = p.Value
	}
	for _, pt := range e.points {
		if pt.Label == "" || !isIdentifier(pt.Label) {
			continue
		}
		scope["x_"+pt.Label] = pt.X
		scope["y_"+pt.Label] = pt.Y
	}
	for _, obj := range e.objects {
		label := obj.ObjectName()
		if label == "" || !isIdentifier(label) {
			continue
		}
		switch obj.(type) {
		case core.Line, core.Ray, core.Segment, core.TangentLine, core.SlopeValue:
			if visited[obj.ObjectID()] {
				continue
			}
			m, ok := slopeOf(e, obj, visited)
			if !ok {
				continue
			}
			scope[label] = m
			scope["declive_"+label] = m
			scope["slope_"+label] = m
			scope["m_"+label] = m
		}
	}
	return scope
}

// slopeOf computes the current slope of a line-like construction. The
// visited set is the cycle guard: it is threaded through recursive calls as
// an extended copy, never mutated in place, so sibling lookups stay
// unaffected.
func slopeOf(e env, obj core.Construction, visited map[int]bool) (float64, bool) {
	if visited[obj.ObjectID()] {
		return 0, false
	}
	child := make(map[int]bool, len(visited)+1)
	for id := range visited {
		child[id] = true
	}
	child[obj.ObjectID()] = true

	switch v := obj.(type) {
	case core.Line:
		return endpointSlope(e, v.Vertices)
	case core.Ray:
		return endpointSlope(e, v.Vertices)
	case core.Segment:
		return endpointSlope(e, v.Vertices)
	case core.TangentLine:
		return tangentSlope(e, v, child)
	case core.SlopeValue:
		target, ok := findObject(e.objects, v.Target)
		if !ok {
			return 0, false
		}
		return slopeOf(e, target, child)
	}
	return 0, false
}

func endpointSlope(e env, vertices []int) (float64, bool) {
	if len(vertices) != 2 {
		return 0, false
	}
	p1, ok := core.FindPoint(e.points, core.PointID(vertices[0]))
	if !ok {
		return 0, false
	}
	p2, ok := core.FindPoint(e.points, core.PointID(vertices[1]))
	if !ok {
		return 0, false
	}
	return geometry.Slope(p1.X, p1.Y, p2.X, p2.Y)
}

// tangentSlope differentiates the tangent's source curve at the anchor x
// with a centered finite difference.
func tangentSlope(e env, t core.TangentLine, visited map[int]bool) (float64, bool) {
	x := t.AnchorX
	if t.ThroughVertex != 0 {
		p, ok := core.FindPoint(e.points, core.PointID(t.ThroughVertex))
		if !ok {
			return 0, false
		}
		x = p.X
	}
	curve, ok := core.FindCurve(e.curves, t.CurveID)
	if !ok || curve.Kind != core.Explicit {
		return 0, false
	}
	scope := buildScope(e, visited)

	scope["x"] = x + slopeStep
	hi, err := e.ev.Evaluate(curve.Expression, scope)
	if err != nil {
		return 0, false
	}
	scope["x"] = x - slopeStep
	lo, err := e.ev.Evaluate(curve.Expression, scope)
	if err != nil {
		return 0, false
	}
	m := (hi - lo) / (2 * slopeStep)
	if !geometry.IsFinite(m) {
		return 0, false
	}
	return m, true
}

func findObject(objects []core.Construction, id int) (core.Construction, bool) {
	for _, obj := range objects {
		if obj.ObjectID() == id {
			return obj, true
		}
	}
	return nil, false
}

// isIdentifier reports whether a label can appear as a scope key the
// expression grammar can reference.
func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return s != ""
}
