// Command plotkit is an interactive terminal grapher over the plotkit
// engine: pass expressions as arguments, pan and zoom the viewport, and
// snap markers to zeros and extrema of the first curve.
//
// Usage:
//
//	plotkit [-precision 2] [-bounds xmin,xmax,ymin,ymax] [-png out.png] "x^2 - 4" "sin(x)" ...
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"plotkit/cas"
	"plotkit/core"
	"plotkit/expreval"
	"plotkit/export"
	"plotkit/resolve"
)

func main() {
	var (
		precision int
		boundsArg string
		pngPath   string
	)
	flag.IntVar(&precision, "precision", 2, "decimal places for point labels")
	flag.StringVar(&boundsArg, "bounds", "-10,10,-10,10", "viewport as xmin,xmax,ymin,ymax")
	flag.StringVar(&pngPath, "png", "", "render to a PNG file instead of the terminal")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: plotkit [flags] expression [expression ...]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	bounds, err := parseBounds(boundsArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -bounds: %v\n", err)
		os.Exit(1)
	}

	curves, params, err := buildScene(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ev := expreval.New()
	resolver := resolve.New(ev, cas.NewSymbolic())

	if pngPath != "" {
		points := resolver.Scene(curves, params, nil, precision, bounds)
		if err := export.WritePNG(pngPath, strings.Join(flag.Args(), ", "), curves, params, points, ev, bounds); err != nil {
			fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("wrote", pngPath)
		return
	}

	app := newApp(resolver, ev, curves, params, precision, bounds)
	if err := app.run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildScene turns the argument expressions into curves, auto-detecting
// parameters from free symbols beyond the curve variables.
func buildScene(expressions []string) ([]core.Curve, []core.Parameter, error) {
	var curves []core.Curve
	seen := make(map[string]bool)
	var params []core.Parameter
	for i, expression := range expressions {
		free, err := expreval.FreeVariables(expression)
		if err != nil {
			return nil, nil, fmt.Errorf("expression %q: %v", expression, err)
		}
		kind := core.Explicit
		for _, name := range free {
			switch name {
			case "x":
			case "y":
				kind = core.Implicit
			default:
				if !seen[name] {
					seen[name] = true
					params = append(params, core.Parameter{Name: name, Value: 1, Min: -5, Max: 5, Step: 0.1})
				}
			}
		}
		curves = append(curves, core.Curve{
			ID:         i + 1,
			Name:       "f" + strconv.Itoa(i+1),
			Expression: expression,
			Kind:       kind,
		})
	}
	return curves, params, nil
}

func parseBounds(s string) (core.Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return core.Bounds{}, fmt.Errorf("want four comma-separated numbers, got %q", s)
	}
	vals := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return core.Bounds{}, err
		}
		vals[i] = v
	}
	b := core.Bounds{XMin: vals[0], XMax: vals[1], YMin: vals[2], YMax: vals[3]}
	if b.Width() <= 0 || b.Height() <= 0 {
		return core.Bounds{}, fmt.Errorf("bounds must have positive extent")
	}
	return b, nil
}
