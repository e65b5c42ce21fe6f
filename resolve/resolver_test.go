package resolve

import (
	"math"
	"reflect"
	"testing"

	"plotkit/cas"
	"plotkit/core"
	"plotkit/expreval"
)

var testBounds = core.Bounds{XMin: -10, XMax: 10, YMin: -10, YMax: 10}

func newTestResolver() *Resolver {
	return New(expreval.New(), cas.NewSymbolic())
}

func TestSceneFreeAndExpressionPoints(t *testing.T) {
	r := newTestResolver()
	objects := []core.Construction{
		core.FreePoint{ID: 1, Name: "A", X: 2, Y: 3},
		core.ExpressionPoint{ID: 2, Name: "B", XExpr: "x_A + 1", YExpr: "y_A * 2"},
	}

	points := r.Scene(nil, nil, objects, 2, testBounds)
	if len(points) != 2 {
		t.Fatalf("Expected two resolved points, got %d: %v", len(points), points)
	}
	b, ok := core.FindPoint(points, "2")
	if !ok {
		t.Fatal("Expected point B to resolve")
	}
	if b.X != 3 || b.Y != 6 {
		t.Errorf("Expected B at (3, 6), got (%v, %v)", b.X, b.Y)
	}
}

func TestSceneIsIdempotent(t *testing.T) {
	r := newTestResolver()
	curves := []core.Curve{{ID: 1, Name: "f", Expression: "x^2 - 4", Kind: core.Explicit}}
	params := []core.Parameter{{Name: "a", Value: 1.5}}
	objects := []core.Construction{
		core.FreePoint{ID: 2, Name: "A", X: 1, Y: 1},
		core.ExpressionPoint{ID: 3, Name: "B", XExpr: "x_A + a", YExpr: "0"},
		core.PointOnCurve{ID: 4, Name: "C", CurveID: 1, X: 3},
		core.CriticalPoint{ID: 5, CurveID: 1, Kind: core.Zero},
	}

	first := r.Scene(curves, params, objects, 2, testBounds)
	second := r.Scene(curves, params, objects, 2, testBounds)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical output across passes:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestSceneCycleLeavesBothUnresolved(t *testing.T) {
	r := newTestResolver()
	objects := []core.Construction{
		core.ExpressionPoint{ID: 1, Name: "A", XExpr: "x_B", YExpr: "0"},
		core.ExpressionPoint{ID: 2, Name: "B", XExpr: "x_A", YExpr: "0"},
	}

	points := r.Scene(nil, nil, objects, 2, testBounds)
	if len(points) != 0 {
		t.Errorf("Expected a mutual reference cycle to resolve nothing, got %v", points)
	}
}

func TestSceneChainedReferencesResolveAcrossRounds(t *testing.T) {
	r := newTestResolver()
	// Declared in reverse dependency order on purpose: each round resolves
	// one more link.
	objects := []core.Construction{
		core.ExpressionPoint{ID: 1, Name: "C", XExpr: "x_B + 1", YExpr: "0"},
		core.ExpressionPoint{ID: 2, Name: "B", XExpr: "x_A + 1", YExpr: "0"},
		core.FreePoint{ID: 3, Name: "A", X: 0, Y: 0},
	}

	points := r.Scene(nil, nil, objects, 2, testBounds)
	c, ok := core.FindPoint(points, "1")
	if !ok {
		t.Fatal("Expected the chain to resolve point C")
	}
	if c.X != 2 {
		t.Errorf("Expected C at x=2, got %v", c.X)
	}
}

func TestScenePointOnCurveDomain(t *testing.T) {
	r := newTestResolver()
	curves := []core.Curve{{
		ID: 1, Name: "f", Expression: "x^2", Kind: core.Explicit,
		DomainMin: "0", DomainMax: "a",
	}}
	params := []core.Parameter{{Name: "a", Value: 5}}
	inside := []core.Construction{core.PointOnCurve{ID: 2, Name: "P", CurveID: 1, X: 3}}
	outside := []core.Construction{core.PointOnCurve{ID: 2, Name: "P", CurveID: 1, X: 7}}

	points := r.Scene(curves, params, inside, 2, testBounds)
	p, ok := core.FindPoint(points, "2")
	if !ok || p.Y != 9 {
		t.Fatalf("Expected P at (3, 9) inside the domain, got %v (ok=%v)", p, ok)
	}

	if points := r.Scene(curves, params, outside, 2, testBounds); len(points) != 0 {
		t.Errorf("Expected the out-of-domain point to be dropped, got %v", points)
	}

	// Widening the domain brings the same point back.
	params[0].Value = 10
	points = r.Scene(curves, params, outside, 2, testBounds)
	if _, ok := core.FindPoint(points, "2"); !ok {
		t.Error("Expected the point to reappear once the domain covers it")
	}
}

func TestScenePointOnVerticalCurve(t *testing.T) {
	r := newTestResolver()
	curves := []core.Curve{{ID: 1, Expression: "3", Kind: core.Vertical}}
	objects := []core.Construction{core.PointOnCurve{ID: 2, Name: "P", CurveID: 1, X: -2}}

	points := r.Scene(curves, nil, objects, 2, testBounds)
	p, ok := core.FindPoint(points, "2")
	if !ok {
		t.Fatal("Expected the point on x=3 to resolve")
	}
	if p.X != 3 || p.Y != -2 {
		t.Errorf("Expected (3, -2) on the vertical line, got (%v, %v)", p.X, p.Y)
	}
}

func TestSceneTangentLineThroughVertex(t *testing.T) {
	r := newTestResolver()
	curves := []core.Curve{{ID: 1, Expression: "x^2", Kind: core.Explicit}}
	objects := []core.Construction{
		core.FreePoint{ID: 2, Name: "A", X: 2, Y: 0},
		core.TangentLine{ID: 3, Name: "t", CurveID: 1, ThroughVertex: 2},
	}

	points := r.Scene(curves, nil, objects, 2, testBounds)
	p, ok := core.FindPoint(points, "3")
	if !ok {
		t.Fatal("Expected the tangent's contact point to resolve")
	}
	if p.X != 2 || p.Y != 4 {
		t.Errorf("Expected contact point (2, 4), got (%v, %v)", p.X, p.Y)
	}
}

func TestSceneSegmentMarker(t *testing.T) {
	r := newTestResolver()
	objects := []core.Construction{
		core.FreePoint{ID: 1, Name: "A", X: 0, Y: 0},
		core.FreePoint{ID: 2, Name: "B", X: 4, Y: 2},
		core.Segment{ID: 3, Name: "s", Vertices: []int{1, 2}},
	}

	points := r.Scene(nil, nil, objects, 2, testBounds)
	m, ok := core.FindPoint(points, "3")
	if !ok {
		t.Fatal("Expected the segment marker to resolve")
	}
	if m.X != 2 || m.Y != 1 {
		t.Errorf("Expected the marker at the midpoint (2, 1), got (%v, %v)", m.X, m.Y)
	}
}

func TestScenePolygonCentroid(t *testing.T) {
	r := newTestResolver()
	objects := []core.Construction{
		core.FreePoint{ID: 1, Name: "A", X: 0, Y: 0},
		core.FreePoint{ID: 2, Name: "B", X: 3, Y: 0},
		core.FreePoint{ID: 3, Name: "C", X: 0, Y: 3},
		core.Polygon{ID: 4, Name: "T", Vertices: []int{1, 2, 3}},
	}

	points := r.Scene(nil, nil, objects, 2, testBounds)
	m, ok := core.FindPoint(points, "4")
	if !ok {
		t.Fatal("Expected the polygon marker to resolve")
	}
	if m.X != 1 || m.Y != 1 {
		t.Errorf("Expected the centroid (1, 1), got (%v, %v)", m.X, m.Y)
	}
}

func TestSceneWrongArityNeverResolves(t *testing.T) {
	r := newTestResolver()
	objects := []core.Construction{
		core.FreePoint{ID: 1, Name: "A", X: 0, Y: 0},
		core.Segment{ID: 2, Name: "s", Vertices: []int{1}},
		core.Polygon{ID: 3, Name: "T", Vertices: []int{1, 1}},
	}

	points := r.Scene(nil, nil, objects, 2, testBounds)
	if len(points) != 1 {
		t.Errorf("Expected only the free point to resolve, got %v", points)
	}
}

func TestSceneCriticalPointMultiResult(t *testing.T) {
	r := newTestResolver()
	curves := []core.Curve{{ID: 1, Expression: "x^2 - 4", Kind: core.Explicit}}
	objects := []core.Construction{
		core.CriticalPoint{ID: 2, CurveID: 1, Kind: core.Zero},
	}

	points := r.Scene(curves, nil, objects, 2, testBounds)
	if len(points) != 2 {
		t.Fatalf("Expected both zeros as sub points, got %v", points)
	}
	for i, p := range points {
		want := core.SubPointID(2, i)
		if p.ID != want {
			t.Errorf("Expected sub point id %q, got %q", want, p.ID)
		}
	}
}

func TestSceneCriticalPointAnchored(t *testing.T) {
	r := newTestResolver()
	curves := []core.Curve{{ID: 1, Expression: "x^2 - 4", Kind: core.Explicit}}
	nearX := 1.5
	objects := []core.Construction{
		core.CriticalPoint{ID: 2, Name: "Z", CurveID: 1, Kind: core.Zero, NearX: &nearX},
	}

	points := r.Scene(curves, nil, objects, 2, testBounds)
	if len(points) != 1 {
		t.Fatalf("Expected a single anchored point, got %v", points)
	}
	p := points[0]
	if p.ID != "2" {
		t.Errorf("Expected plain id '2' for an anchored point, got %q", p.ID)
	}
	if math.Abs(p.X-2) > 1e-6 {
		t.Errorf("Expected the root near the anchor, got %v", p.X)
	}
	if p.Label != "Z" {
		t.Errorf("Expected the explicit name to win over the generated label, got %q", p.Label)
	}
}

func TestSceneIntersectionPoint(t *testing.T) {
	r := newTestResolver()
	curves := []core.Curve{
		{ID: 1, Expression: "x", Kind: core.Explicit},
		{ID: 2, Expression: "x^2", Kind: core.Explicit},
	}
	nearX := 0.8
	objects := []core.Construction{
		core.IntersectionPoint{ID: 3, CurveA: 1, CurveB: 2, NearX: &nearX},
	}

	points := r.Scene(curves, nil, objects, 2, testBounds)
	if len(points) != 1 {
		t.Fatalf("Expected one intersection point, got %v", points)
	}
	if math.Abs(points[0].X-1) > 1e-6 || math.Abs(points[0].Y-1) > 1e-6 {
		t.Errorf("Expected the intersection near (1, 1), got (%v, %v)", points[0].X, points[0].Y)
	}
}

func TestSceneSlopeValueFeedsExpression(t *testing.T) {
	r := newTestResolver()
	objects := []core.Construction{
		core.FreePoint{ID: 1, Name: "A", X: 0, Y: 0},
		core.FreePoint{ID: 2, Name: "B", X: 2, Y: 6},
		core.Segment{ID: 3, Name: "s", Vertices: []int{1, 2}},
		core.SlopeValue{ID: 4, Name: "k", Target: 3},
		core.ExpressionPoint{ID: 5, Name: "Q", XExpr: "k", YExpr: "0"},
	}

	points := r.Scene(nil, nil, objects, 2, testBounds)
	q, ok := core.FindPoint(points, "5")
	if !ok {
		t.Fatal("Expected the expression point fed by the slope value to resolve")
	}
	if q.X != 3 {
		t.Errorf("Expected Q at x=3 (the slope of s), got %v", q.X)
	}
	// The slope value itself contributes no point.
	if _, ok := core.FindPoint(points, "4"); ok {
		t.Error("Expected the slope value to produce no point of its own")
	}
}

func TestSceneDefaultLabels(t *testing.T) {
	r := newTestResolver()
	objects := []core.Construction{
		core.ExpressionPoint{ID: 1, XExpr: "1/2", YExpr: "2"},
	}

	points := r.Scene(nil, nil, objects, 2, testBounds)
	if len(points) != 1 {
		t.Fatalf("Expected one point, got %v", points)
	}
	if points[0].Label != "P(1/2, 2)" {
		t.Errorf("Expected generated label 'P(1/2, 2)', got %q", points[0].Label)
	}
}

func TestSceneDanglingReference(t *testing.T) {
	r := newTestResolver()
	objects := []core.Construction{
		core.Segment{ID: 1, Name: "s", Vertices: []int{7, 8}},
		core.SlopeValue{ID: 2, Name: "k", Target: 99},
	}

	points := r.Scene(nil, nil, objects, 2, testBounds)
	if len(points) != 0 {
		t.Errorf("Expected dangling references to resolve nothing, got %v", points)
	}
}
