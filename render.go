package trellis

import (
	"image"
	gocolor "image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Statistics holds per-frame batching and submission counters.
type Statistics struct {
	Batches   int
	Quads     int
	Vertices  int
	DrawCalls int
}

// renderer owns the compiled shader variants and the scratch buffers vertex
// conversion reuses every frame.
type renderer struct {
	alphaShader *ebiten.Shader
	maskShader  *ebiten.Shader

	verts   []ebiten.Vertex
	indices []uint32
}

// alphaShaderSrc modulates the vertex color by a glyph atlas' alpha channel.
const alphaShaderSrc = `//kage:unit pixels

package main

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	return color * imageSrc0At(src).a
}
`

// maskShaderSrc alpha-tests the texture for blend modes that ignore source
// alpha, so cut-out edges stay hard instead of smearing.
const maskShaderSrc = `//kage:unit pixels

package main

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a < 0.5 {
		discard()
	}
	return c * color
}
`

func newRenderer() *renderer {
	r := &renderer{}
	var err error
	r.alphaShader, err = ebiten.NewShader([]byte(alphaShaderSrc))
	if err != nil {
		debugLog("alpha shader compile failed: %v", err)
	}
	r.maskShader, err = ebiten.NewShader([]byte(maskShaderSrc))
	if err != nil {
		debugLog("mask shader compile failed: %v", err)
	}
	return r
}

// colorToRGBA converts a Color to the stdlib color type for image fills.
func colorToRGBA(c Color) gocolor.RGBA {
	return gocolor.RGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// Draw submits the collected batches: render-to-texture surfaces first, then
// the main batch list to the screen. Call after CollectBatches.
func (ui *UI) Draw(screen *ebiten.Image) {
	if ui.renderer == nil {
		ui.renderer = newRenderer()
	}

	calls := 0
	for _, rt := range ui.renderTargets {
		calls += rt.draw(ui)
	}
	calls += ui.drawBatches(screen, ui.batches, ui.vertexData, ui.scale)
	ui.stats.DrawCalls = calls

	ui.flushScreenshots(screen)
}

// drawBatches issues one draw call per batch, selecting the shader variant
// from the batch's texture and blend state. Returns the call count.
func (ui *UI) drawBatches(target *ebiten.Image, batches []Batch, vertexData []Vertex, scale float64) int {
	if ui.renderer == nil {
		ui.renderer = newRenderer()
	}
	r := ui.renderer
	calls := 0

	for i := range batches {
		batch := &batches[i]
		if batch.End <= batch.Start {
			continue
		}

		dst := scissorTarget(target, batch.Scissor, scale)
		src := WhitePixel
		var alphaOnly bool
		if batch.Texture != nil && batch.Texture.Image != nil {
			src = batch.Texture.Image
			alphaOnly = batch.Texture.AlphaOnly
		}

		r.convertVertices(vertexData[batch.Start:batch.End], src, scale)
		blend := batch.Blend.EbitenBlend()

		switch {
		case batch.Material != nil && batch.Material.Shader != nil:
			var op ebiten.DrawTrianglesShaderOptions
			op.Blend = blend
			op.Uniforms = batch.Material.Uniforms
			op.Images[0] = src
			for j, img := range batch.Material.Images {
				if j+1 >= len(op.Images) {
					break
				}
				op.Images[j+1] = img
			}
			dst.DrawTrianglesShader32(r.verts, r.indices, batch.Material.Shader, &op)

		case alphaOnly && r.alphaShader != nil:
			var op ebiten.DrawTrianglesShaderOptions
			op.Blend = blend
			op.Images[0] = src
			dst.DrawTrianglesShader32(r.verts, r.indices, r.alphaShader, &op)

		case batch.Texture != nil && needsAlphaMask(batch.Blend) && r.maskShader != nil:
			var op ebiten.DrawTrianglesShaderOptions
			op.Blend = blend
			op.Images[0] = src
			dst.DrawTrianglesShader32(r.verts, r.indices, r.maskShader, &op)

		default:
			var op ebiten.DrawTrianglesOptions
			op.Blend = blend
			op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
			dst.DrawTriangles32(r.verts, r.indices, src, &op)
		}
		calls++
	}
	return calls
}

// needsAlphaMask reports whether a blend mode ignores source alpha and needs
// the alpha-test shader for textured batches.
func needsAlphaMask(blend BlendMode) bool {
	switch blend {
	case BlendAlpha, BlendAddAlpha, BlendPremulAlpha:
		return false
	}
	return true
}

// scissorTarget clips drawing to the batch scissor, scaled into backbuffer
// space. Drawing into a SubImage writes through to the parent with clipping.
func scissorTarget(target *ebiten.Image, scissor IntRect, scale float64) *ebiten.Image {
	bounds := target.Bounds()
	full := IntRect{bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y}
	if scale != 1 {
		scissor.Left = int(float64(scissor.Left) * scale)
		scissor.Top = int(float64(scissor.Top) * scale)
		scissor.Right = int(float64(scissor.Right) * scale)
		scissor.Bottom = int(float64(scissor.Bottom) * scale)
	}
	scissor = scissor.Intersect(full)
	if scissor == full {
		return target
	}
	if scissor.Empty() {
		scissor = IntRect{full.Left, full.Top, full.Left, full.Top}
	}
	return target.SubImage(image.Rect(scissor.Left, scissor.Top, scissor.Right, scissor.Bottom)).(*ebiten.Image)
}

// convertVertices fills the scratch ebiten vertex and index buffers from a
// batch's vertex run. Positions scale into backbuffer space; UVs convert
// from normalized to source pixels; colors premultiply.
func (r *renderer) convertVertices(verts []Vertex, src *ebiten.Image, scale float64) {
	bounds := src.Bounds()
	texW := float32(bounds.Dx())
	texH := float32(bounds.Dy())
	offX := float32(bounds.Min.X)
	offY := float32(bounds.Min.Y)
	s := float32(scale)

	r.verts = r.verts[:0]
	for i := range verts {
		v := &verts[i]
		cr := float32(v.Color&0xff) / 255
		cg := float32(v.Color>>8&0xff) / 255
		cb := float32(v.Color>>16&0xff) / 255
		ca := float32(v.Color>>24&0xff) / 255
		r.verts = append(r.verts, ebiten.Vertex{
			DstX:   v.X * s,
			DstY:   v.Y * s,
			SrcX:   offX + v.U*texW,
			SrcY:   offY + v.V*texH,
			ColorR: cr * ca,
			ColorG: cg * ca,
			ColorB: cb * ca,
			ColorA: ca,
		})
	}

	for len(r.indices) < len(r.verts) {
		r.indices = append(r.indices, uint32(len(r.indices)))
	}
	r.indices = r.indices[:len(r.verts)]
}
