// Package core contains the fundamental types used throughout the plotkit engine.
package core

import "strconv"

// Parameter is a named scalar the user can drive with a slider or direct edit.
// Parameters are unique by name and contribute their value to every scope.
type Parameter struct {
	Name  string
	Value float64
	Min   float64
	Max   float64
	Step  float64
}

// CurveKind classifies how a curve's expression is interpreted.
type CurveKind int

const (
	// Explicit is y = f(x).
	Explicit CurveKind = iota
	// Implicit is F(x, y) = 0.
	Implicit
	// Inequality is F(x, y) compared against 0.
	Inequality
	// Vertical is x = c.
	Vertical
	// Empty is a placeholder with no graph.
	Empty
)

// String returns the string representation of a CurveKind.
func (k CurveKind) String() string {
	switch k {
	case Explicit:
		return "Explicit"
	case Implicit:
		return "Implicit"
	case Inequality:
		return "Inequality"
	case Vertical:
		return "Vertical"
	case Empty:
		return "Empty"
	default:
		return "Unknown"
	}
}

// Derivation records how a curve was derived from its parent, if at all.
type Derivation int

const (
	// NotDerived marks an independent curve.
	NotDerived Derivation = iota
	// Derivative marks a curve holding d/dx of its parent.
	Derivative
	// Integral marks a curve holding an antiderivative of its parent.
	Integral
)

// Curve is a user-declared function. Expression is a sanitized algebraic
// string in x (and y for implicit/inequality kinds). DomainMin and DomainMax
// are themselves expressions evaluated against the scope; empty means
// unbounded. DerivedFrom is the parent curve id for derived curves, 0 for
// none (object ids are always positive).
type Curve struct {
	ID          int
	Name        string
	Expression  string
	Kind        CurveKind
	Relation    Relation
	DomainMin   string
	DomainMax   string
	DerivedFrom int
	Derivation  Derivation
}

// Relation is the comparison an Implicit or Inequality curve applies
// against zero.
type Relation int

const (
	EqualZero Relation = iota
	LessZero
	LessEqZero
	GreaterZero
	GreaterEqZero
)

// Strict reports whether the relation excludes the boundary.
func (r Relation) Strict() bool {
	return r == LessZero || r == GreaterZero
}

// CriticalKind selects which feature of a curve a CriticalPoint locates.
type CriticalKind int

const (
	// Zero locates a root of the curve.
	Zero CriticalKind = iota
	// Minimum locates a local minimum.
	Minimum
	// Maximum locates a local maximum.
	Maximum
)

// String returns the string representation of a CriticalKind.
func (k CriticalKind) String() string {
	switch k {
	case Zero:
		return "Zero"
	case Minimum:
		return "Minimum"
	case Maximum:
		return "Maximum"
	default:
		return "Unknown"
	}
}

// Bounds is a rectangular region of the plane in world coordinates.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Width returns the horizontal extent of the bounds.
func (b Bounds) Width() float64 { return b.XMax - b.XMin }

// Height returns the vertical extent of the bounds.
func (b Bounds) Height() float64 { return b.YMax - b.YMin }

// ResolvedPoint is the authoritative numeric output of one resolution pass.
// It is ephemeral: fully rebuilt every pass, never persisted. ID equals the
// owning construction's id in decimal form; multi-result objects use the
// "{id}-{index}" suffix convention.
type ResolvedPoint struct {
	ID     string
	X, Y   float64
	Label  string
	Origin int // index of the owning construction in the input slice
}

// PointID returns the resolved-point id for a construction id.
func PointID(id int) string { return strconv.Itoa(id) }

// SubPointID returns the resolved-point id for the n-th result of a
// multi-result construction.
func SubPointID(id, n int) string { return strconv.Itoa(id) + "-" + strconv.Itoa(n) }

// Construction is the closed set of analysis objects the resolver knows how
// to place. Every variant except FreePoint and CriticalPoint without an
// anchor resolves to at most one concrete point per pass.
type Construction interface {
	// ObjectID returns the construction's id (always positive).
	ObjectID() int
	// ObjectName returns the user-facing label, empty if unnamed.
	ObjectName() string

	construction()
}

// FreePoint is an independent point with authoritative coordinates.
type FreePoint struct {
	ID   int
	Name string
	X, Y float64
}

// ExpressionPoint has coordinates given by expressions that may reference
// parameters and other named objects (x_A, y_A, slope aliases).
type ExpressionPoint struct {
	ID    int
	Name  string
	XExpr string
	YExpr string
}

// PointOnCurve rides a curve: x is authoritative, y is derived by evaluating
// the curve. Positions outside the curve's declared domain are dropped for
// the pass.
type PointOnCurve struct {
	ID      int
	Name    string
	CurveID int
	X       float64
}

// TangentLine is tangent to a curve at an anchor x, taken either directly
// from AnchorX or from the current x of the referenced point when
// ThroughVertex is non-zero.
type TangentLine struct {
	ID            int
	Name          string
	CurveID       int
	AnchorX       float64
	ThroughVertex int
}

// Line is the infinite line through two referenced points.
type Line struct {
	ID       int
	Name     string
	Vertices []int
}

// Ray is the half-infinite line from the first referenced point through the
// second.
type Ray struct {
	ID       int
	Name     string
	Vertices []int
}

// Segment is the bounded segment between two referenced points.
type Segment struct {
	ID       int
	Name     string
	Vertices []int
}

// Polygon is the closed polygon over three or more referenced points.
type Polygon struct {
	ID       int
	Name     string
	Vertices []int
}

// IntersectionPoint locates an intersection of two explicit curves,
// optionally anchored near a given x.
type IntersectionPoint struct {
	ID     int
	Name   string
	CurveA int
	CurveB int
	NearX  *float64
}

// CriticalPoint locates a zero, minimum or maximum of a curve. Without an
// anchor it is multi-result: every qualifying point is produced, each under
// its own "{id}-{index}" id.
type CriticalPoint struct {
	ID      int
	Name    string
	CurveID int
	Kind    CriticalKind
	NearX   *float64
}

// SlopeValue is a scalar derived from the slope of another construction.
// It produces no point of its own; its value enters scopes under the slope
// aliases of its label.
type SlopeValue struct {
	ID     int
	Name   string
	Target int
}

func (p FreePoint) ObjectID() int              { return p.ID }
func (p FreePoint) ObjectName() string         { return p.Name }
func (p FreePoint) construction()              {}
func (p ExpressionPoint) ObjectID() int        { return p.ID }
func (p ExpressionPoint) ObjectName() string   { return p.Name }
func (p ExpressionPoint) construction()        {}
func (p PointOnCurve) ObjectID() int           { return p.ID }
func (p PointOnCurve) ObjectName() string      { return p.Name }
func (p PointOnCurve) construction()           {}
func (t TangentLine) ObjectID() int            { return t.ID }
func (t TangentLine) ObjectName() string       { return t.Name }
func (t TangentLine) construction()            {}
func (l Line) ObjectID() int                   { return l.ID }
func (l Line) ObjectName() string              { return l.Name }
func (l Line) construction()                   {}
func (r Ray) ObjectID() int                    { return r.ID }
func (r Ray) ObjectName() string               { return r.Name }
func (r Ray) construction()                    {}
func (s Segment) ObjectID() int                { return s.ID }
func (s Segment) ObjectName() string           { return s.Name }
func (s Segment) construction()                {}
func (p Polygon) ObjectID() int                { return p.ID }
func (p Polygon) ObjectName() string           { return p.Name }
func (p Polygon) construction()                {}
func (p IntersectionPoint) ObjectID() int      { return p.ID }
func (p IntersectionPoint) ObjectName() string { return p.Name }
func (p IntersectionPoint) construction()      {}
func (p CriticalPoint) ObjectID() int          { return p.ID }
func (p CriticalPoint) ObjectName() string     { return p.Name }
func (p CriticalPoint) construction()          {}
func (s SlopeValue) ObjectID() int             { return s.ID }
func (s SlopeValue) ObjectName() string        { return s.Name }
func (s SlopeValue) construction()             {}

// VertexRefs returns the point-object references a construction carries:
// its vertex list, its slope target, and a tangent's through-vertex. These
// are the edges of the dependency graph the pruner walks.
func VertexRefs(c Construction) []int {
	switch v := c.(type) {
	case Line:
		return v.Vertices
	case Ray:
		return v.Vertices
	case Segment:
		return v.Vertices
	case Polygon:
		return v.Vertices
	case TangentLine:
		if v.ThroughVertex != 0 {
			return []int{v.ThroughVertex}
		}
	case SlopeValue:
		return []int{v.Target}
	}
	return nil
}

// FindCurve returns the curve with the given id, if present.
func FindCurve(curves []Curve, id int) (Curve, bool) {
	for _, c := range curves {
		if c.ID == id {
			return c, true
		}
	}
	return Curve{}, false
}

// FindPoint returns the resolved point with the given id, if present.
func FindPoint(points []ResolvedPoint, id string) (ResolvedPoint, bool) {
	for _, p := range points {
		if p.ID == id {
			return p, true
		}
	}
	return ResolvedPoint{}, false
}
