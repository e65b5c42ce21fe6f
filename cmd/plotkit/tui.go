package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"plotkit/contour"
	"plotkit/core"
	"plotkit/expreval"
	"plotkit/geometry"
	"plotkit/resolve"
	"plotkit/solver"
)

// app holds the interactive grapher state: the scene, the viewport, and
// the marker points placed by the snap keys.
type app struct {
	resolver  *resolve.Resolver
	ev        *expreval.Evaluator
	curves    []core.Curve
	params    []core.Parameter
	objects   []core.Construction
	precision int
	bounds    core.Bounds
	nextID    int
	status    string
}

func newApp(resolver *resolve.Resolver, ev *expreval.Evaluator, curves []core.Curve, params []core.Parameter, precision int, bounds core.Bounds) *app {
	return &app{
		resolver:  resolver,
		ev:        ev,
		curves:    curves,
		params:    params,
		precision: precision,
		bounds:    bounds,
		nextID:    len(curves) + 1,
		status:    "arrows pan · +/- zoom · z/m/x mark zero/min/max · u undo mark · q quit",
	}
}

func (a *app) run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.HideCursor()

	for {
		a.draw(screen)
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if a.handleKey(ev) {
				return nil
			}
		}
	}
}

// handleKey applies one key event. Returns true when the app should exit.
func (a *app) handleKey(ev *tcell.EventKey) bool {
	panX := a.bounds.Width() * 0.1
	panY := a.bounds.Height() * 0.1
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyLeft:
		a.pan(-panX, 0)
	case tcell.KeyRight:
		a.pan(panX, 0)
	case tcell.KeyUp:
		a.pan(0, panY)
	case tcell.KeyDown:
		a.pan(0, -panY)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case '+', '=':
			a.zoom(0.8)
		case '-', '_':
			a.zoom(1.25)
		case 'z':
			a.mark(core.Zero)
		case 'm':
			a.mark(core.Minimum)
		case 'x':
			a.mark(core.Maximum)
		case 'u':
			if len(a.objects) > 0 {
				a.objects = a.objects[:len(a.objects)-1]
				a.status = "removed last marker"
			}
		}
	}
	return false
}

func (a *app) pan(dx, dy float64) {
	a.bounds.XMin += dx
	a.bounds.XMax += dx
	a.bounds.YMin += dy
	a.bounds.YMax += dy
}

func (a *app) zoom(factor float64) {
	cx := (a.bounds.XMin + a.bounds.XMax) / 2
	cy := (a.bounds.YMin + a.bounds.YMax) / 2
	hw := a.bounds.Width() / 2 * factor
	hh := a.bounds.Height() / 2 * factor
	a.bounds = core.Bounds{XMin: cx - hw, XMax: cx + hw, YMin: cy - hh, YMax: cy + hh}
}

// mark runs the numeric solver on the first explicit curve, seeded at the
// view center, and drops a named critical point at the result.
func (a *app) mark(kind core.CriticalKind) {
	var target *core.Curve
	for i := range a.curves {
		if a.curves[i].Kind == core.Explicit {
			target = &a.curves[i]
			break
		}
	}
	if target == nil {
		a.status = "no explicit curve to solve on"
		return
	}
	center := (a.bounds.XMin + a.bounds.XMax) / 2
	cand, ok := solver.Numeric(a.ev, target.Expression, kind, center, a.params, a.precision, nil)
	if !ok {
		a.status = fmt.Sprintf("no %s found near x = %s", kind, solver.Nicest(center, a.precision))
		return
	}
	nearX := cand.X
	a.objects = append(a.objects, core.CriticalPoint{
		ID:      a.nextID,
		CurveID: target.ID,
		Kind:    kind,
		NearX:   &nearX,
	})
	a.nextID++
	a.status = fmt.Sprintf("%s marked %s", target.Name, cand.Label)
}

func (a *app) draw(screen tcell.Screen) {
	screen.Clear()
	w, h := screen.Size()
	plotH := h - 1
	if w < 4 || plotH < 4 {
		screen.Show()
		return
	}

	a.drawAxes(screen, w, plotH)
	styles := []tcell.Style{
		tcell.StyleDefault.Foreground(tcell.ColorGreen),
		tcell.StyleDefault.Foreground(tcell.ColorAqua),
		tcell.StyleDefault.Foreground(tcell.ColorYellow),
		tcell.StyleDefault.Foreground(tcell.ColorFuchsia),
	}
	scope := make(map[string]float64, len(a.params)+2)
	for _, p := range a.params {
		scope[p.Name] = p.Value
	}
	for i, c := range a.curves {
		style := styles[i%len(styles)]
		switch c.Kind {
		case core.Explicit:
			a.drawExplicit(screen, c, scope, w, plotH, style)
		case core.Implicit, core.Inequality:
			a.drawImplicit(screen, c, scope, w, plotH, style)
		case core.Vertical:
			a.drawVertical(screen, c, scope, w, plotH, style)
		}
	}
	a.drawPoints(screen, w, plotH)
	a.drawStatus(screen, w, h)
	screen.Show()
}

func (a *app) toScreen(x, y float64, w, h int) (int, int, bool) {
	if !geometry.IsFinite(x) || !geometry.IsFinite(y) {
		return 0, 0, false
	}
	sx := int(math.Round((x - a.bounds.XMin) / a.bounds.Width() * float64(w-1)))
	sy := int(math.Round((a.bounds.YMax - y) / a.bounds.Height() * float64(h-1)))
	if sx < 0 || sx >= w || sy < 0 || sy >= h {
		return 0, 0, false
	}
	return sx, sy, true
}

func (a *app) drawAxes(screen tcell.Screen, w, h int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	if sx, _, ok := a.toScreen(0, a.bounds.YMin, w, h); ok {
		for y := 0; y < h; y++ {
			screen.SetContent(sx, y, '│', nil, style)
		}
	}
	if _, sy, ok := a.toScreen(a.bounds.XMin, 0, w, h); ok {
		for x := 0; x < w; x++ {
			screen.SetContent(x, sy, '─', nil, style)
		}
	}
	if sx, sy, ok := a.toScreen(0, 0, w, h); ok {
		screen.SetContent(sx, sy, '┼', nil, style)
	}
}

// drawExplicit samples one y value per column and fills vertical runs
// between adjacent columns so steep slopes stay connected.
func (a *app) drawExplicit(screen tcell.Screen, c core.Curve, scope map[string]float64, w, h int, style tcell.Style) {
	prevY := math.NaN()
	for sx := 0; sx < w; sx++ {
		x := a.bounds.XMin + a.bounds.Width()*float64(sx)/float64(w-1)
		scope["x"] = x
		y, err := a.ev.Evaluate(c.Expression, scope)
		delete(scope, "x")
		if err != nil || !geometry.IsFinite(y) {
			prevY = math.NaN()
			continue
		}
		_, sy, ok := a.toScreen(x, y, w, h)
		if !ok {
			prevY = y
			continue
		}
		screen.SetContent(sx, sy, '•', nil, style)
		if !math.IsNaN(prevY) {
			if _, prevSy, ok := a.toScreen(x, prevY, w, h); ok {
				step := 1
				if prevSy < sy {
					step = -1
				}
				for fy := sy + step; fy != prevSy; fy += step {
					if fy >= 0 && fy < h {
						screen.SetContent(sx, fy, '·', nil, style)
					}
				}
			}
		}
		prevY = y
	}
}

func (a *app) drawImplicit(screen tcell.Screen, c core.Curve, scope map[string]float64, w, h int, style tcell.Style) {
	// Terminal cells are coarse already; march one square per character.
	res := contour.Extract(a.ev, c.Expression, c.Relation, scope, a.bounds, w, h, 1)
	mark := '•'
	if res.Dashed {
		mark = '◦'
	}
	for _, seg := range res.Segments {
		a.plotSegment(screen, seg.A.X, seg.A.Y, seg.B.X, seg.B.Y, w, h, mark, style)
	}
}

func (a *app) drawVertical(screen tcell.Screen, c core.Curve, scope map[string]float64, w, h int, style tcell.Style) {
	x, err := a.ev.Evaluate(c.Expression, scope)
	if err != nil || !geometry.IsFinite(x) {
		return
	}
	if sx, _, ok := a.toScreen(x, a.bounds.YMin, w, h); ok {
		for y := 0; y < h; y++ {
			screen.SetContent(sx, y, '•', nil, style)
		}
	}
}

func (a *app) plotSegment(screen tcell.Screen, x1, y1, x2, y2 float64, w, h int, mark rune, style tcell.Style) {
	const steps = 4
	for i := 0; i <= steps; i++ {
		t := float64(i) / steps
		if sx, sy, ok := a.toScreen(geometry.Lerp(x1, x2, t), geometry.Lerp(y1, y2, t), w, h); ok {
			screen.SetContent(sx, sy, mark, nil, style)
		}
	}
}

func (a *app) drawPoints(screen tcell.Screen, w, h int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	points := a.resolver.Scene(a.curves, a.params, a.objects, a.precision, a.bounds)
	for _, pt := range points {
		sx, sy, ok := a.toScreen(pt.X, pt.Y, w, h)
		if !ok {
			continue
		}
		screen.SetContent(sx, sy, '●', nil, style)
		label := pt.Label
		lx := sx + 2
		if lx+len(label) >= w {
			lx = sx - len(label) - 1
		}
		for i, r := range label {
			if lx+i >= 0 && lx+i < w {
				screen.SetContent(lx+i, sy, r, nil, style)
			}
		}
	}
}

func (a *app) drawStatus(screen tcell.Screen, w, h int) {
	style := tcell.StyleDefault.Reverse(true)
	line := fmt.Sprintf(" x: [%s, %s]  y: [%s, %s]  %s",
		solver.Nicest(a.bounds.XMin, a.precision), solver.Nicest(a.bounds.XMax, a.precision),
		solver.Nicest(a.bounds.YMin, a.precision), solver.Nicest(a.bounds.YMax, a.precision),
		a.status)
	col := 0
	for _, r := range line {
		if col >= w {
			break
		}
		screen.SetContent(col, h-1, r, nil, style)
		col++
	}
	for ; col < w; col++ {
		screen.SetContent(col, h-1, ' ', nil, style)
	}
}
