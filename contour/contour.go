// Package contour extracts implicit-curve outlines and inequality regions
// by marching squares over a grid-sampled scalar field.
package contour

import (
	"math"

	"plotkit/core"
	"plotkit/expreval"
	"plotkit/geometry"
)

// DefaultCellSize is the screen-space sampling cell size in pixels.
const DefaultCellSize = 8

// Point is a world-space coordinate pair.
type Point struct {
	X, Y float64
}

// Segment is one piece of a contour outline in world space.
type Segment struct {
	A, B Point
}

// Result holds the extracted geometry for one implicit or inequality
// expression: boundary segments, one fill polygon per satisfied cell, and
// whether the boundary should be drawn dashed (strict inequality).
type Result struct {
	Segments []Segment
	Fills    [][]Point
	Dashed   bool
}

// Extract samples F(x, y) on a regular screen-space grid over the viewport
// and runs marching squares on the result. Cells with a NaN corner are
// skipped entirely, so undefined regions produce no contour artifacts.
func Extract(ev *expreval.Evaluator, expression string, rel core.Relation, scope map[string]float64, b core.Bounds, screenW, screenH, cellPx int) Result {
	if cellPx <= 0 {
		cellPx = DefaultCellSize
	}
	cols := screenW / cellPx
	rows := screenH / cellPx
	if cols < 1 || rows < 1 || b.Width() <= 0 || b.Height() <= 0 {
		return Result{Dashed: rel.Strict()}
	}

	cellW := b.Width() / float64(cols)
	cellH := b.Height() / float64(rows)

	sample := make(map[string]float64, len(scope)+2)
	for name, value := range scope {
		sample[name] = value
	}
	field := make([][]float64, rows+1)
	for j := 0; j <= rows; j++ {
		field[j] = make([]float64, cols+1)
		for i := 0; i <= cols; i++ {
			sample["x"] = b.XMin + float64(i)*cellW
			sample["y"] = b.YMin + float64(j)*cellH
			v, err := ev.Evaluate(expression, sample)
			if err != nil || math.IsInf(v, 0) {
				v = math.NaN()
			}
			field[j][i] = v
		}
	}

	inside := insidePredicate(rel)
	fill := rel != core.EqualZero

	result := Result{Dashed: rel.Strict()}
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			x0 := b.XMin + float64(i)*cellW
			y0 := b.YMin + float64(j)*cellH
			cell := cellValues{
				bl: field[j][i], br: field[j][i+1],
				tl: field[j+1][i], tr: field[j+1][i+1],
				x0: x0, x1: x0 + cellW,
				y0: y0, y1: y0 + cellH,
			}
			if cell.hasNaN() {
				continue
			}
			result.Segments = append(result.Segments, cell.segments(inside)...)
			if fill {
				if poly := cell.fillPolygon(inside); len(poly) >= 3 {
					result.Fills = append(result.Fills, poly)
				}
			}
		}
	}
	return result
}

// insidePredicate maps the relation to the corner membership test: < 0 for
// less-than relations, > 0 otherwise (the default).
func insidePredicate(rel core.Relation) func(float64) bool {
	if rel == core.LessZero || rel == core.LessEqZero {
		return func(v float64) bool { return v < 0 }
	}
	return func(v float64) bool { return v > 0 }
}

type cellValues struct {
	tl, tr, br, bl float64
	x0, x1, y0, y1 float64
}

func (c cellValues) hasNaN() bool {
	return math.IsNaN(c.tl) || math.IsNaN(c.tr) || math.IsNaN(c.br) || math.IsNaN(c.bl)
}

// crossing returns the interpolation fraction of the zero crossing between
// two corner values. Equal corners fall back to the midpoint.
func crossing(a, b float64) float64 {
	if a == b {
		return 0.5
	}
	return a / (a - b)
}

func (c cellValues) topPoint() Point {
	return Point{geometry.Lerp(c.x0, c.x1, crossing(c.tl, c.tr)), c.y1}
}
func (c cellValues) rightPoint() Point {
	return Point{c.x1, geometry.Lerp(c.y1, c.y0, crossing(c.tr, c.br))}
}
func (c cellValues) bottomPoint() Point {
	return Point{geometry.Lerp(c.x0, c.x1, crossing(c.bl, c.br)), c.y0}
}
func (c cellValues) leftPoint() Point {
	return Point{c.x0, geometry.Lerp(c.y1, c.y0, crossing(c.tl, c.bl))}
}

// segments emits the boundary pieces for this cell from the standard
// 16-case table. Saddle cases (5 and 10) keep the two inside corners
// separated.
func (c cellValues) segments(inside func(float64) bool) []Segment {
	idx := 0
	if inside(c.tl) {
		idx |= 1
	}
	if inside(c.tr) {
		idx |= 2
	}
	if inside(c.br) {
		idx |= 4
	}
	if inside(c.bl) {
		idx |= 8
	}
	switch idx {
	case 1, 14:
		return []Segment{{c.topPoint(), c.leftPoint()}}
	case 2, 13:
		return []Segment{{c.topPoint(), c.rightPoint()}}
	case 3, 12:
		return []Segment{{c.leftPoint(), c.rightPoint()}}
	case 4, 11:
		return []Segment{{c.rightPoint(), c.bottomPoint()}}
	case 5:
		return []Segment{{c.topPoint(), c.leftPoint()}, {c.rightPoint(), c.bottomPoint()}}
	case 6, 9:
		return []Segment{{c.topPoint(), c.bottomPoint()}}
	case 7, 8:
		return []Segment{{c.leftPoint(), c.bottomPoint()}}
	case 10:
		return []Segment{{c.topPoint(), c.rightPoint()}, {c.leftPoint(), c.bottomPoint()}}
	default: // 0, 15
		return nil
	}
}

// fillPolygon walks the cell perimeter, keeping inside corners and
// inserting edge crossings, producing the clipped polygon of the
// satisfying region within this cell.
func (c cellValues) fillPolygon(inside func(float64) bool) []Point {
	type corner struct {
		v    float64
		p    Point
		edge func() Point // crossing on the edge to the next corner
	}
	corners := []corner{
		{c.tl, Point{c.x0, c.y1}, c.topPoint},
		{c.tr, Point{c.x1, c.y1}, c.rightPoint},
		{c.br, Point{c.x1, c.y0}, c.bottomPoint},
		{c.bl, Point{c.x0, c.y0}, c.leftPoint},
	}
	var poly []Point
	for i, cur := range corners {
		next := corners[(i+1)%len(corners)]
		if inside(cur.v) {
			poly = append(poly, cur.p)
		}
		if inside(cur.v) != inside(next.v) {
			poly = append(poly, cur.edge())
		}
	}
	return poly
}
