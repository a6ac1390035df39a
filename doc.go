// Package trellis is a retained-mode UI layer for [Ebitengine].
//
// Trellis provides the widget tree, per-frame quad batching, input routing
// (hover, click, double click, drag and drop, focus), modal dialogs, a
// software cursor, tooltips, and XML layouts that a game UI needs.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window, polls
// input and drives the game loop for you:
//
//	ui := trellis.NewUI(640, 480)
//	// ... add elements ...
//	trellis.Run(ui, trellis.RunConfig{
//		Title: "My Game", Width: 640, Height: 480,
//	})
//
// For full control, implement [ebiten.Game] yourself, feed the router from
// your own input handling, and call the frame methods directly:
//
//	type Game struct{ ui *trellis.UI }
//
//	func (g *Game) Update() error {
//		// route input: g.ui.MouseMove, g.ui.MouseButtonDown, ...
//		g.ui.Update(1.0 / float64(ebiten.TPS()))
//		return nil
//	}
//	func (g *Game) Draw(screen *ebiten.Image) {
//		g.ui.CollectBatches()
//		g.ui.Draw(screen)
//	}
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// # Widget tree
//
// Every widget is an [Element]. Elements form a tree rooted at [UI.Root];
// children inherit their parent's screen position, opacity and clipping.
// Create widgets with typed constructors: [NewElement], [NewBorderImage],
// [NewButton], [NewCheckbox], [NewText], [NewWindow], [NewSprite],
// [NewTooltip].
//
//	window := trellis.NewWindow("settings", skin)
//	window.SetPosition(40, 40)
//	window.SetSize(320, 240)
//	ui.Root().AddChild(window)
//
//	ok := trellis.NewButton("ok", skin)
//	ok.OnClick = func(ev *trellis.Event) { fmt.Println("clicked") }
//	window.AddChild(ok)
//
// React to input through per-element callback fields (OnClick, OnDragBegin,
// ...), [Element.Subscribe] listeners, or UI-wide [UI.Observe] observers.
//
// # Key features
//
// Trellis includes 9-patch border images with hover/pressed/disabled states,
// priority-ordered drawing with batch merging, scissor clipping, modal
// windows with shade, two-phase drag and drop, keyboard focus with Tab
// cycling, render-to-texture surfaces for in-world panels, bitmap font text,
// clipboard integration, tooltip fades (via [gween]), and synthetic input
// injection for tests and automation.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package trellis
