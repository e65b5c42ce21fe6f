package resolve

import (
	"math"

	"plotkit/cas"
	"plotkit/core"
	"plotkit/expreval"
	"plotkit/geometry"
	"plotkit/solver"
)

// maxRounds bounds the fixed-point iteration. Real scenes are shallow; five
// rounds cover every chain of indirection worth supporting, and anything
// still pending after that is an unbreakable cycle or a missing reference.
const maxRounds = 5

// Resolver owns the capabilities one recomputation needs. It carries no
// per-pass state: Scene is a pure function of its arguments.
type Resolver struct {
	Eval    *expreval.Evaluator
	Algebra cas.Engine
}

// New creates a Resolver over the given evaluator and CAS.
func New(ev *expreval.Evaluator, alg cas.Engine) *Resolver {
	return &Resolver{Eval: ev, Algebra: alg}
}

// Scene resolves every construction it can and returns the complete list of
// concrete points for this pass. Objects that fail to resolve — dangling
// references, cycles, solver failures, out-of-domain positions — are simply
// absent from the output; nothing is reported as an error.
func (r *Resolver) Scene(curves []core.Curve, params []core.Parameter, objects []core.Construction, precision int, bounds core.Bounds) []core.ResolvedPoint {
	e := env{ev: r.Eval, params: params, objects: objects, curves: curves}
	var resolved []core.ResolvedPoint
	done := make(map[int]bool, len(objects))

	// Free points are authoritative; place them before the first round.
	for i, obj := range objects {
		if p, ok := obj.(core.FreePoint); ok {
			resolved = append(resolved, core.ResolvedPoint{
				ID:     core.PointID(p.ID),
				X:      p.X,
				Y:      p.Y,
				Label:  p.Name,
				Origin: i,
			})
			done[p.ID] = true
		}
	}

	for round := 0; round < maxRounds; round++ {
		progress := false
		for i, obj := range objects {
			if done[obj.ObjectID()] {
				continue
			}
			e.points = resolved
			points, ok := r.resolveOne(e, obj, i, precision, bounds)
			if !ok {
				continue
			}
			resolved = append(resolved, points...)
			done[obj.ObjectID()] = true
			progress = true
		}
		if !progress {
			break
		}
	}
	return resolved
}

// resolveOne attempts one construction against the current scope. It
// returns the points the object contributes (none for scalar objects) and
// whether the object is now resolved.
func (r *Resolver) resolveOne(e env, obj core.Construction, origin, precision int, bounds core.Bounds) ([]core.ResolvedPoint, bool) {
	switch v := obj.(type) {
	case core.FreePoint:
		// Already placed before the first round.
		return nil, false

	case core.ExpressionPoint:
		scope := buildScope(e, map[int]bool{v.ID: true})
		x, y := 0.0, 0.0
		var err error
		if v.XExpr != "" {
			if x, err = e.ev.Evaluate(v.XExpr, scope); err != nil {
				return nil, false
			}
		}
		if v.YExpr != "" {
			if y, err = e.ev.Evaluate(v.YExpr, scope); err != nil {
				return nil, false
			}
		}
		if !geometry.IsFinite(x) || !geometry.IsFinite(y) {
			return nil, false
		}
		return r.point(v.ID, origin, x, y, v.Name, precision), true

	case core.PointOnCurve:
		return r.resolvePointOnCurve(e, v, origin, precision)

	case core.TangentLine:
		x := v.AnchorX
		if v.ThroughVertex != 0 {
			p, ok := core.FindPoint(e.points, core.PointID(v.ThroughVertex))
			if !ok {
				return nil, false
			}
			x = p.X
		}
		curve, ok := core.FindCurve(e.curves, v.CurveID)
		if !ok || curve.Kind != core.Explicit {
			return nil, false
		}
		scope := buildScope(e, map[int]bool{v.ID: true})
		scope["x"] = x
		y, err := e.ev.Evaluate(curve.Expression, scope)
		if err != nil || !geometry.IsFinite(y) {
			return nil, false
		}
		return r.point(v.ID, origin, x, y, v.Name, precision), true

	case core.Line:
		return r.markerPoint(e, v.ID, origin, v.Vertices, 2, v.Name)
	case core.Ray:
		return r.markerPoint(e, v.ID, origin, v.Vertices, 2, v.Name)
	case core.Segment:
		return r.markerPoint(e, v.ID, origin, v.Vertices, 2, v.Name)
	case core.Polygon:
		return r.markerPoint(e, v.ID, origin, v.Vertices, 3, v.Name)

	case core.IntersectionPoint:
		return r.resolveIntersection(e, v, origin, precision, bounds)

	case core.CriticalPoint:
		return r.resolveCritical(e, v, origin, precision)

	case core.SlopeValue:
		// Scalar object: resolved once its slope is computable, feeding the
		// scope builder rather than the point list.
		if _, ok := slopeOf(e, v, nil); !ok {
			return nil, false
		}
		return nil, true
	}
	return nil, false
}

func (r *Resolver) point(id, origin int, x, y float64, name string, precision int) []core.ResolvedPoint {
	label := name
	if label == "" {
		label = "P(" + solver.Nicest(x, precision) + ", " + solver.Nicest(y, precision) + ")"
	}
	return []core.ResolvedPoint{{ID: core.PointID(id), X: x, Y: y, Label: label, Origin: origin}}
}

// markerPoint resolves a line-like or polygon object to its single label
// anchor (midpoint, or centroid for polygons) once every referenced vertex
// is resolved. A wrong-arity vertex list never resolves.
func (r *Resolver) markerPoint(e env, id, origin int, vertices []int, arity int, name string) ([]core.ResolvedPoint, bool) {
	if (arity == 2 && len(vertices) != 2) || (arity == 3 && len(vertices) < 3) {
		return nil, false
	}
	var sx, sy float64
	for _, vid := range vertices {
		p, ok := core.FindPoint(e.points, core.PointID(vid))
		if !ok {
			return nil, false
		}
		sx += p.X
		sy += p.Y
	}
	n := float64(len(vertices))
	return []core.ResolvedPoint{{
		ID:     core.PointID(id),
		X:      sx / n,
		Y:      sy / n,
		Label:  name,
		Origin: origin,
	}}, true
}

func (r *Resolver) resolvePointOnCurve(e env, v core.PointOnCurve, origin, precision int) ([]core.ResolvedPoint, bool) {
	curve, ok := core.FindCurve(e.curves, v.CurveID)
	if !ok {
		return nil, false
	}
	scope := buildScope(e, map[int]bool{v.ID: true})

	// Domain bounds are expressions themselves; a bound that fails to
	// evaluate is treated as absent rather than poisoning the point.
	if curve.DomainMin != "" {
		if lo, err := e.ev.Evaluate(curve.DomainMin, scope); err == nil && v.X < lo {
			return nil, false
		}
	}
	if curve.DomainMax != "" {
		if hi, err := e.ev.Evaluate(curve.DomainMax, scope); err == nil && v.X > hi {
			return nil, false
		}
	}

	switch curve.Kind {
	case core.Explicit:
		scope["x"] = v.X
		y, err := e.ev.Evaluate(curve.Expression, scope)
		if err != nil || !geometry.IsFinite(y) {
			return nil, false
		}
		return r.point(v.ID, origin, v.X, y, v.Name, precision), true
	case core.Vertical:
		// x = c: the stored coordinate rides the line as the ordinate.
		c, err := e.ev.Evaluate(curve.Expression, scope)
		if err != nil || !geometry.IsFinite(c) {
			return nil, false
		}
		return r.point(v.ID, origin, c, v.X, v.Name, precision), true
	default:
		return nil, false
	}
}

func (r *Resolver) resolveIntersection(e env, v core.IntersectionPoint, origin, precision int, bounds core.Bounds) ([]core.ResolvedPoint, bool) {
	curveA, okA := core.FindCurve(e.curves, v.CurveA)
	curveB, okB := core.FindCurve(e.curves, v.CurveB)
	if !okA || !okB {
		return nil, false
	}
	scope := buildScope(e, map[int]bool{v.ID: true})
	candidates := solver.Intersections(r.Algebra, r.Eval, curveA, curveB, e.params, precision, bounds, v.NearX, scope)
	if len(candidates) == 0 {
		return nil, false
	}
	best := candidates[0]
	if v.NearX != nil {
		for _, c := range candidates[1:] {
			if math.Abs(c.X-*v.NearX) < math.Abs(best.X-*v.NearX) {
				best = c
			}
		}
		if math.Abs(best.X-*v.NearX) > 5 {
			return nil, false
		}
	}
	label := v.Name
	if label == "" {
		label = best.Label
	}
	return []core.ResolvedPoint{{ID: core.PointID(v.ID), X: best.X, Y: best.Y, Label: label, Origin: origin}}, true
}

func (r *Resolver) resolveCritical(e env, v core.CriticalPoint, origin, precision int) ([]core.ResolvedPoint, bool) {
	curve, ok := core.FindCurve(e.curves, v.CurveID)
	if !ok || curve.Kind != core.Explicit {
		return nil, false
	}
	scope := buildScope(e, map[int]bool{v.ID: true})

	if v.NearX != nil {
		c, ok := solver.Numeric(r.Eval, curve.Expression, v.Kind, *v.NearX, e.params, precision, scope)
		if !ok {
			// Symbolic fallback: take the candidate nearest the anchor.
			candidates := solver.Symbolic(r.Algebra, r.Eval, curve.Expression, v.Kind, e.params, precision)
			if len(candidates) == 0 {
				return nil, false
			}
			c = candidates[0]
			for _, other := range candidates[1:] {
				if math.Abs(other.X-*v.NearX) < math.Abs(c.X-*v.NearX) {
					c = other
				}
			}
		}
		label := v.Name
		if label == "" {
			label = c.Label
		}
		return []core.ResolvedPoint{{ID: core.PointID(v.ID), X: c.X, Y: c.Y, Label: label, Origin: origin}}, true
	}

	// No anchor: multi-result, one sub-id per qualifying point.
	candidates := solver.Symbolic(r.Algebra, r.Eval, curve.Expression, v.Kind, e.params, precision)
	if len(candidates) == 0 {
		return nil, false
	}
	points := make([]core.ResolvedPoint, len(candidates))
	for i, c := range candidates {
		points[i] = core.ResolvedPoint{
			ID:     core.SubPointID(v.ID, i),
			X:      c.X,
			Y:      c.Y,
			Label:  c.Label,
			Origin: origin,
		}
	}
	return points, true
}
