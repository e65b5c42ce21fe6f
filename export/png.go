// Package export renders a resolved scene to an image file.
package export

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"plotkit/core"
	"plotkit/expreval"
	"plotkit/geometry"
)

// curveSamples is the number of sample intervals per explicit curve.
const curveSamples = 256

// WritePNG samples every explicit curve across the bounds, overlays the
// resolved points, and saves the plot as a PNG. Undefined stretches of a
// curve are simply left out, matching the engine's best-effort contract.
func WritePNG(path, title string, curves []core.Curve, params []core.Parameter, points []core.ResolvedPoint, ev *expreval.Evaluator, b core.Bounds) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.X.Min, p.X.Max = b.XMin, b.XMax
	p.Y.Min, p.Y.Max = b.YMin, b.YMax

	scope := make(map[string]float64, len(params)+1)
	for _, param := range params {
		scope[param.Name] = param.Value
	}

	for _, c := range curves {
		if c.Kind != core.Explicit {
			continue
		}
		xys := make(plotter.XYs, 0, curveSamples+1)
		for i := 0; i <= curveSamples; i++ {
			x := b.XMin + b.Width()*float64(i)/curveSamples
			scope["x"] = x
			y, err := ev.Evaluate(c.Expression, scope)
			if err != nil || !geometry.IsFinite(y) {
				continue
			}
			xys = append(xys, plotter.XY{X: x, Y: y})
		}
		delete(scope, "x")
		if len(xys) == 0 {
			continue
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("curve %q: %w", c.Name, err)
		}
		if c.Name != "" {
			err = plotutil.AddLines(p, c.Name, line)
		} else {
			err = plotutil.AddLines(p, line)
		}
		if err != nil {
			return fmt.Errorf("curve %q: %w", c.Name, err)
		}
	}

	if len(points) > 0 {
		xys := make(plotter.XYs, 0, len(points))
		for _, pt := range points {
			xys = append(xys, plotter.XY{X: pt.X, Y: pt.Y})
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("points: %w", err)
		}
		p.Add(scatter)
	}

	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}
