package trellis

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Offscreen surface pool ---

// surfacePool manages reusable offscreen ebiten.Images keyed by power-of-two
// dimensions. After warmup, Acquire/Release are zero-alloc.
type surfacePool struct {
	buckets map[uint64][]*ebiten.Image
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared offscreen image with at least (w, h) pixels.
// Dimensions are rounded up to the next power of two.
func (p *surfacePool) Acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			img := stack[len(stack)-1]
			p.buckets[key] = stack[:len(stack)-1]
			img.Clear()
			return img
		}
	}

	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release returns an image to the pool for reuse. The image is cleared on
// next Acquire, not here.
func (p *surfacePool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())

	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], img)
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

// --- Render-to-texture surfaces ---

// RenderTarget hosts a UI subtree rendered into its own offscreen image, for
// in-world panels and similar surfaces. It keeps separate batch and vertex
// lists so the main pass is undisturbed. Hit testing happens in the
// surface's own coordinate space: hosts project a pointer position onto the
// surface and call ElementAt.
type RenderTarget struct {
	root       *Element
	target     *ebiten.Image
	pooled     bool
	clearColor Color

	vertexData []Vertex
	batches    []Batch
}

// AddRenderTarget registers a subtree root to render into target every
// frame. A nil target acquires a pooled surface sized to the root.
func (ui *UI) AddRenderTarget(root *Element, target *ebiten.Image) *RenderTarget {
	if root == nil || root.disposed {
		return nil
	}
	rt := &RenderTarget{root: root, target: target, clearColor: ColorBlack}
	if target == nil {
		w, h := root.Width(), root.Height()
		if w <= 0 || h <= 0 {
			w, h = 1, 1
		}
		rt.target = ui.surfaces.Acquire(w, h)
		rt.pooled = true
	}
	ui.renderTargets = append(ui.renderTargets, rt)
	return rt
}

// RemoveRenderTarget unregisters a surface, returning pooled images for
// reuse.
func (ui *UI) RemoveRenderTarget(rt *RenderTarget) {
	for i, existing := range ui.renderTargets {
		if existing == rt {
			copy(ui.renderTargets[i:], ui.renderTargets[i+1:])
			ui.renderTargets[len(ui.renderTargets)-1] = nil
			ui.renderTargets = ui.renderTargets[:len(ui.renderTargets)-1]
			if rt.pooled {
				ui.surfaces.Release(rt.target)
				rt.target = nil
			}
			return
		}
	}
}

// RenderTargets returns the registered surfaces.
func (ui *UI) RenderTargets() []*RenderTarget { return ui.renderTargets }

// Root returns the subtree root rendered into this surface.
func (rt *RenderTarget) Root() *Element { return rt.root }

// Target returns the surface image.
func (rt *RenderTarget) Target() *ebiten.Image { return rt.target }

// SetClearColor sets the color the surface clears to when the subtree emits
// nothing.
func (rt *RenderTarget) SetClearColor(c Color) { rt.clearColor = c }

// ElementAt hit tests the surface's subtree at a position in the surface's
// coordinate space.
func (rt *RenderTarget) ElementAt(pos IntVec2, enabledOnly bool) *Element {
	if rt.root == nil || rt.root.disposed {
		return nil
	}
	var result *Element
	elementAt(&result, rt.root, pos, enabledOnly)
	return result
}

// collect rebuilds the surface's batch list by temporarily swapping the
// frame buffers under the shared traversal. An empty subtree emits a single
// clear-color quad so the surface never shows stale pixels as its only
// content.
func (rt *RenderTarget) collect(ui *UI) {
	if rt.root == nil || rt.root.disposed {
		return
	}

	savedBatches, savedVerts := ui.batches, ui.vertexData
	ui.batches, ui.vertexData = rt.batches[:0], rt.vertexData[:0]

	rect := IntRect{0, 0, rt.root.Width(), rt.root.Height()}
	if rt.root.Visible {
		ui.collect(rt.root, rect)
	}
	if len(ui.batches) == 0 {
		batch := ui.newBatch(rt.root, BlendReplace, rect, nil, &ui.vertexData)
		batch.SetColor(rt.clearColor, true)
		batch.AddQuad(0, 0, float32(rect.Width()), float32(rect.Height()), 0, 0, 0, 0)
		ui.batches = AddOrMerge(batch, ui.batches)
	}

	rt.batches, rt.vertexData = ui.batches, ui.vertexData
	ui.batches, ui.vertexData = savedBatches, savedVerts
}

// draw submits the surface's batches into its target image. Returns the draw
// call count.
func (rt *RenderTarget) draw(ui *UI) int {
	if rt.target == nil || rt.root == nil || rt.root.disposed {
		return 0
	}
	return ui.drawBatches(rt.target, rt.batches, rt.vertexData, 1)
}

// pruneRenderTargets drops surfaces whose roots were disposed, releasing
// pooled images.
func (ui *UI) pruneRenderTargets() {
	kept := ui.renderTargets[:0]
	for _, rt := range ui.renderTargets {
		if rt.root == nil || rt.root.disposed {
			if rt.pooled {
				ui.surfaces.Release(rt.target)
				rt.target = nil
			}
			continue
		}
		kept = append(kept, rt)
	}
	for i := len(kept); i < len(ui.renderTargets); i++ {
		ui.renderTargets[i] = nil
	}
	ui.renderTargets = kept
}
