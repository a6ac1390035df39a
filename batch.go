package trellis

import "github.com/hajimehoshi/ebiten/v2"

// Vertex is one corner of a UI triangle: position, packed color, and
// normalized texture coordinates. Quads emit six of these (two triangles).
type Vertex struct {
	X, Y, Z float32
	Color   uint32
	U, V    float32
}

// VerticesPerQuad is the vertex count a single quad appends.
const VerticesPerQuad = 6

// Texture is an image plus the metadata batching needs without touching the
// GPU resource. AlphaOnly marks single-channel glyph atlases, which select a
// different shader variant at submission.
type Texture struct {
	Image     *ebiten.Image
	Width     int
	Height    int
	AlphaOnly bool
}

// Material overrides the built-in shader selection for a batch. Images are
// bound in order after the batch texture.
type Material struct {
	Shader   *ebiten.Shader
	Images   []*ebiten.Image
	Uniforms map[string]any
}

// Batch is a run of vertices sharing render state: blend mode, scissor,
// texture and optional material. Adjacent compatible batches merge so the
// whole UI usually submits in a handful of draw calls.
type Batch struct {
	Element  *Element
	Blend    BlendMode
	Scissor  IntRect
	Texture  *Texture
	Material *Material

	// Verts is the shared frame vertex buffer; the batch owns [Start, End).
	Verts *[]Vertex
	Start int
	End   int

	invTexW, invTexH float32
	color            uint32
	useGradient      bool

	// alignOffset shifts emitted positions so pixel centers land where the
	// backend samples them. It comes from the owning UI context.
	alignOffset IntVec2
}

// NewBatch prepares an empty batch appending to verts. The element supplies
// the default color state; a nil element means plain opaque white.
func NewBatch(element *Element, blend BlendMode, scissor IntRect, texture *Texture, verts *[]Vertex) Batch {
	b := Batch{
		Element: element,
		Blend:   blend,
		Scissor: scissor,
		Texture: texture,
		Verts:   verts,
		Start:   len(*verts),
		End:     len(*verts),
		invTexW: 1,
		invTexH: 1,
	}
	if texture != nil && texture.Width > 0 && texture.Height > 0 {
		b.invTexW = 1 / float32(texture.Width)
		b.invTexH = 1 / float32(texture.Height)
	}
	b.SetDefaultColor()
	return b
}

// SetAlignOffset sets the half-pixel style position adjustment. The UI
// context applies its configured offset to every batch it creates.
func (b *Batch) SetAlignOffset(offset IntVec2) {
	b.alignOffset = offset
}

// SetColor overrides the element's color state with a flat color. Unless
// overrideAlpha is set (or there is no element), the element's derived
// opacity still modulates the alpha channel.
func (b *Batch) SetColor(c Color, overrideAlpha bool) {
	if b.Element == nil {
		overrideAlpha = true
	}
	b.useGradient = false
	if overrideAlpha {
		b.color = c.Pack()
	} else {
		c.A *= b.Element.DerivedOpacity()
		b.color = c.Pack()
	}
}

// SetDefaultColor resets the color state from the element: its derived color,
// and gradient mode when the corner colors differ.
func (b *Batch) SetDefaultColor() {
	if b.Element != nil {
		b.color = b.Element.DerivedColor().Pack()
		b.useGradient = b.Element.HasColorGradient()
	} else {
		b.color = 0xffffffff
		b.useGradient = false
	}
}

// AddQuad appends an axis-aligned quad at (x, y) in element-local
// coordinates. texWidth/texHeight of zero default to the quad size, which
// stretches or repeats one texel depending on the texture. A flat color whose
// alpha packed to zero emits nothing.
func (b *Batch) AddQuad(x, y, width, height float32, texOffsetX, texOffsetY, texWidth, texHeight int) {
	var topLeft, topRight, bottomLeft, bottomRight uint32

	if !b.useGradient {
		// Fully transparent flat color renders nothing; skip the quad.
		if b.color&0xff000000 == 0 {
			return
		}
		topLeft = b.color
		topRight = b.color
		bottomLeft = b.color
		bottomRight = b.color
	} else {
		topLeft = b.interpolatedColor(x, y)
		topRight = b.interpolatedColor(x+width, y)
		bottomLeft = b.interpolatedColor(x, y+height)
		bottomRight = b.interpolatedColor(x+width, y+height)
	}

	screen := b.Element.ScreenPosition()

	left := x + float32(screen.X) - float32(b.alignOffset.X)
	right := left + width
	top := y + float32(screen.Y) - float32(b.alignOffset.Y)
	bottom := top + height

	tw := float32(texWidth)
	if texWidth == 0 {
		tw = width
	}
	th := float32(texHeight)
	if texHeight == 0 {
		th = height
	}
	leftUV := float32(texOffsetX) * b.invTexW
	topUV := float32(texOffsetY) * b.invTexH
	rightUV := (float32(texOffsetX) + tw) * b.invTexW
	bottomUV := (float32(texOffsetY) + th) * b.invTexH

	*b.Verts = append(*b.Verts,
		Vertex{X: left, Y: top, Color: topLeft, U: leftUV, V: topUV},
		Vertex{X: right, Y: top, Color: topRight, U: rightUV, V: topUV},
		Vertex{X: left, Y: bottom, Color: bottomLeft, U: leftUV, V: bottomUV},
		Vertex{X: right, Y: top, Color: topRight, U: rightUV, V: topUV},
		Vertex{X: right, Y: bottom, Color: bottomRight, U: rightUV, V: bottomUV},
		Vertex{X: left, Y: bottom, Color: bottomLeft, U: leftUV, V: bottomUV},
	)
	b.End = len(*b.Verts)
}

// AddQuadTransformed appends a quad run through an affine transform, for
// rotated or scaled widgets. Corner order matches AddQuad.
func (b *Batch) AddQuadTransformed(transform *Transform, x, y, width, height, texOffsetX, texOffsetY, texWidth, texHeight int) {
	var topLeft, topRight, bottomLeft, bottomRight uint32

	if !b.useGradient {
		if b.color&0xff000000 == 0 {
			return
		}
		topLeft = b.color
		topRight = b.color
		bottomLeft = b.color
		bottomRight = b.color
	} else {
		topLeft = b.interpolatedColor(float32(x), float32(y))
		topRight = b.interpolatedColor(float32(x+width), float32(y))
		bottomLeft = b.interpolatedColor(float32(x), float32(y+height))
		bottomRight = b.interpolatedColor(float32(x+width), float32(y+height))
	}

	ax := float32(b.alignOffset.X)
	ay := float32(b.alignOffset.Y)
	x1, y1 := transform.Apply(float64(x), float64(y))
	x2, y2 := transform.Apply(float64(x+width), float64(y))
	x3, y3 := transform.Apply(float64(x), float64(y+height))
	x4, y4 := transform.Apply(float64(x+width), float64(y+height))

	tw := texWidth
	if tw == 0 {
		tw = width
	}
	th := texHeight
	if th == 0 {
		th = height
	}
	leftUV := float32(texOffsetX) * b.invTexW
	topUV := float32(texOffsetY) * b.invTexH
	rightUV := float32(texOffsetX+tw) * b.invTexW
	bottomUV := float32(texOffsetY+th) * b.invTexH

	v1 := Vertex{X: float32(x1) - ax, Y: float32(y1) - ay, Color: topLeft, U: leftUV, V: topUV}
	v2 := Vertex{X: float32(x2) - ax, Y: float32(y2) - ay, Color: topRight, U: rightUV, V: topUV}
	v3 := Vertex{X: float32(x3) - ax, Y: float32(y3) - ay, Color: bottomLeft, U: leftUV, V: bottomUV}
	v4 := Vertex{X: float32(x4) - ax, Y: float32(y4) - ay, Color: bottomRight, U: rightUV, V: bottomUV}

	*b.Verts = append(*b.Verts, v1, v2, v3, v2, v4, v3)
	b.End = len(*b.Verts)
}

// AddQuadTiled appends a quad, repeating the source region across the area
// when tiled is set. Edge tiles clamp to the remaining span so the fill never
// overshoots. Transparent flat colors skip all emission up front.
func (b *Batch) AddQuadTiled(x, y, width, height, texOffsetX, texOffsetY, texWidth, texHeight int, tiled bool) {
	if !(b.Element.HasColorGradient() || b.Element.DerivedColor().Pack()&0xff000000 != 0) {
		return
	}

	if !tiled {
		b.AddQuad(float32(x), float32(y), float32(width), float32(height), texOffsetX, texOffsetY, texWidth, texHeight)
		return
	}

	tileY := 0
	for tileY < height {
		tileH := min(height-tileY, texHeight)
		tileX := 0
		for tileX < width {
			tileW := min(width-tileX, texWidth)
			b.AddQuad(float32(x+tileX), float32(y+tileY), float32(tileW), float32(tileH), texOffsetX, texOffsetY, tileW, tileH)
			tileX += tileW
		}
		tileY += tileH
	}
}

// AddQuadFree appends an arbitrary convex quad with explicit texture
// coordinates for each corner (in texels). Corners run clockwise from
// top-left; the batch's flat color applies to all four.
func (b *Batch) AddQuadFree(transform *Transform, a, bp, c, d IntVec2, texA, texB, texC, texD IntVec2) {
	col := b.color
	b.addFreeQuad(transform, a, bp, c, d, texA, texB, texC, texD, col, col, col, col)
}

// AddQuadFreeColors is AddQuadFree with an explicit color per corner.
func (b *Batch) AddQuadFreeColors(transform *Transform, a, bp, c, d IntVec2, texA, texB, texC, texD IntVec2, colA, colB, colC, colD Color) {
	b.addFreeQuad(transform, a, bp, c, d, texA, texB, texC, texD,
		colA.Pack(), colB.Pack(), colC.Pack(), colD.Pack())
}

func (b *Batch) addFreeQuad(transform *Transform, a, bp, c, d IntVec2, texA, texB, texC, texD IntVec2, colA, colB, colC, colD uint32) {
	ax := float32(b.alignOffset.X)
	ay := float32(b.alignOffset.Y)
	x1, y1 := transform.Apply(float64(a.X), float64(a.Y))
	x2, y2 := transform.Apply(float64(bp.X), float64(bp.Y))
	x3, y3 := transform.Apply(float64(c.X), float64(c.Y))
	x4, y4 := transform.Apply(float64(d.X), float64(d.Y))

	v1 := Vertex{X: float32(x1) - ax, Y: float32(y1) - ay, Color: colA,
		U: float32(texA.X) * b.invTexW, V: float32(texA.Y) * b.invTexH}
	v2 := Vertex{X: float32(x2) - ax, Y: float32(y2) - ay, Color: colB,
		U: float32(texB.X) * b.invTexW, V: float32(texB.Y) * b.invTexH}
	v3 := Vertex{X: float32(x3) - ax, Y: float32(y3) - ay, Color: colC,
		U: float32(texC.X) * b.invTexW, V: float32(texC.Y) * b.invTexH}
	v4 := Vertex{X: float32(x4) - ax, Y: float32(y4) - ay, Color: colD,
		U: float32(texD.X) * b.invTexW, V: float32(texD.Y) * b.invTexH}

	// Clockwise corner order splits into triangles (1,2,3) and (1,3,4).
	*b.Verts = append(*b.Verts, v1, v2, v3, v1, v3, v4)
	b.End = len(*b.Verts)
}

// interpolatedColor bilinearly blends the element's corner colors at an
// element-local point, then modulates alpha by the derived opacity. A
// degenerate element size falls back to the top-left corner color.
func (b *Batch) interpolatedColor(x, y float32) uint32 {
	size := b.Element.Size()

	if size.X > 0 && size.Y > 0 {
		tx := clamp01(float64(x) / float64(size.X))
		ty := clamp01(float64(y) / float64(size.Y))

		top := b.Element.CornerColor(TopLeft).Lerp(b.Element.CornerColor(TopRight), tx)
		bottom := b.Element.CornerColor(BottomLeft).Lerp(b.Element.CornerColor(BottomRight), tx)
		c := top.Lerp(bottom, ty)
		c.A *= b.Element.DerivedOpacity()
		return c.Pack()
	}

	c := b.Element.CornerColor(TopLeft)
	c.A *= b.Element.DerivedOpacity()
	return c.Pack()
}

// Merge absorbs other into b when they share render state and other's
// vertices directly follow b's in the same buffer. Reports whether the merge
// happened.
func (b *Batch) Merge(other *Batch) bool {
	if other.Blend != b.Blend ||
		other.Scissor != b.Scissor ||
		other.Texture != b.Texture ||
		other.Material != b.Material ||
		other.Verts != b.Verts ||
		other.Start != b.End {
		return false
	}
	b.End = other.End
	return true
}

// AddOrMerge appends batch to batches, folding it into the previous batch
// when possible. Empty batches are dropped.
func AddOrMerge(batch Batch, batches []Batch) []Batch {
	if batch.End == batch.Start {
		return batches
	}
	if len(batches) > 0 && batches[len(batches)-1].Merge(&batch) {
		return batches
	}
	return append(batches, batch)
}
