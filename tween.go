package trellis

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 scalar properties on an Element simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenSize,
// TweenColor, TweenOpacity) and call Update(dt) each frame. If the target
// element is disposed, the group stops immediately.
//
// There is no global animation manager — hosts call Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	target *Element
	apply  func(e *Element, values [4]float64)
	Done   bool
}

// Update advances all tweens by dt seconds and applies the values to the
// target element. If the target has been disposed, Done is set to true and
// nothing is applied.
func (g *TweenGroup) Update(dt float64) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	var values [4]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(float32(dt))
		values[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil && g.apply != nil {
		g.apply(g.target, values)
	}
}

// TweenPosition animates an element's position to the given coordinates over
// the specified duration using the easing function.
func TweenPosition(e *Element, to IntVec2, duration float64, fn ease.TweenFunc) *TweenGroup {
	from := e.Position()
	g := &TweenGroup{count: 2, target: e}
	g.tweens[0] = gween.New(float32(from.X), float32(to.X), float32(duration), fn)
	g.tweens[1] = gween.New(float32(from.Y), float32(to.Y), float32(duration), fn)
	g.apply = func(e *Element, v [4]float64) {
		e.SetPosition(int(v[0]+0.5), int(v[1]+0.5))
	}
	return g
}

// TweenSize animates an element's size to the given dimensions over the
// specified duration using the easing function.
func TweenSize(e *Element, to IntVec2, duration float64, fn ease.TweenFunc) *TweenGroup {
	from := e.Size()
	g := &TweenGroup{count: 2, target: e}
	g.tweens[0] = gween.New(float32(from.X), float32(to.X), float32(duration), fn)
	g.tweens[1] = gween.New(float32(from.Y), float32(to.Y), float32(duration), fn)
	g.apply = func(e *Element, v [4]float64) {
		e.SetSize(int(v[0]+0.5), int(v[1]+0.5))
	}
	return g
}

// TweenColor animates all four components of an element's uniform color to
// the target color over the specified duration.
func TweenColor(e *Element, to Color, duration float64, fn ease.TweenFunc) *TweenGroup {
	from := e.Color()
	g := &TweenGroup{count: 4, target: e}
	g.tweens[0] = gween.New(float32(from.R), float32(to.R), float32(duration), fn)
	g.tweens[1] = gween.New(float32(from.G), float32(to.G), float32(duration), fn)
	g.tweens[2] = gween.New(float32(from.B), float32(to.B), float32(duration), fn)
	g.tweens[3] = gween.New(float32(from.A), float32(to.A), float32(duration), fn)
	g.apply = func(e *Element, v [4]float64) {
		e.SetColor(Color{R: v[0], G: v[1], B: v[2], A: v[3]})
	}
	return g
}

// TweenOpacity animates an element's opacity to the target value over the
// specified duration using the easing function.
func TweenOpacity(e *Element, to float64, duration float64, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: e}
	g.tweens[0] = gween.New(float32(e.Opacity), float32(to), float32(duration), fn)
	g.apply = func(e *Element, v [4]float64) {
		e.SetOpacity(v[0])
	}
	return g
}
