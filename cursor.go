package trellis

// CursorShape selects the software cursor's current image.
type CursorShape uint8

const (
	CursorNormal CursorShape = iota
	CursorIBeam
	CursorCross
	CursorResizeVertical
	CursorResizeHorizontal
	CursorResizeDiagonalTopRight
	CursorResizeDiagonalTopLeft
	CursorResizeAll
	CursorAcceptDrop
	CursorRejectDrop
	CursorBusy
	numCursorShapes
)

// CursorShapeDef is one entry in a cursor's shape table: a texture region
// plus the hotspot the pointer position maps to.
type CursorShapeDef struct {
	Texture   *Texture
	ImageRect IntRect
	Hotspot   IntVec2
}

// Cursor is the software mouse cursor. It lives outside both UI trees and
// composites after everything else; when the OS cursor is visible it only
// tracks position and emits nothing.
type Cursor struct {
	element *Element
	shapes  [numCursorShapes]CursorShapeDef
	shape   CursorShape

	// useSystemShapes suppresses compositing and leaves drawing to the OS.
	useSystemShapes bool
}

// NewCursor creates a cursor with an empty shape table.
func NewCursor() *Cursor {
	e := &Element{Name: "Cursor", Kind: KindCursor}
	elementDefaults(e)
	c := &Cursor{element: e}
	e.UserData = c
	return c
}

// DefineShape registers the image for one cursor shape.
func (c *Cursor) DefineShape(shape CursorShape, def CursorShapeDef) {
	c.shapes[shape] = def
	if shape == c.shape {
		c.applyShape()
	}
}

// SetShape switches the active shape. Unregistered shapes fall back to
// CursorNormal.
func (c *Cursor) SetShape(shape CursorShape) {
	if c.shapes[shape].Texture == nil {
		shape = CursorNormal
	}
	if shape == c.shape {
		return
	}
	c.shape = shape
	c.applyShape()
}

// Shape returns the active shape.
func (c *Cursor) Shape() CursorShape { return c.shape }

// SetUseSystemShapes disables software compositing, deferring to the OS
// cursor.
func (c *Cursor) SetUseSystemShapes(use bool) { c.useSystemShapes = use }

// UseSystemShapes reports whether the OS cursor is in charge.
func (c *Cursor) UseSystemShapes() bool { return c.useSystemShapes }

// Position returns the cursor position in UI space.
func (c *Cursor) Position() IntVec2 { return c.element.Position() }

// SetPosition moves the cursor in UI space.
func (c *Cursor) SetPosition(pos IntVec2) {
	c.element.SetPosition(pos.X, pos.Y)
}

func (c *Cursor) applyShape() {
	def := c.shapes[c.shape]
	c.element.Texture = def.Texture
	c.element.ImageRect = def.ImageRect
	c.element.Hotspot = def.Hotspot
	if def.Texture != nil {
		c.element.SetSize(def.ImageRect.Width(), def.ImageRect.Height())
	}
}

// buildCursorBatches emits the cursor quad, shifted so the hotspot lands on
// the pointer position.
func (ui *UI) buildCursorBatches(e *Element, batches []Batch, verts *[]Vertex, scissor IntRect) []Batch {
	if e.Texture == nil {
		return batches
	}
	batch := ui.newBatch(e, e.BlendMode, scissor, e.Texture, verts)
	batch.AddQuad(float32(-e.Hotspot.X), float32(-e.Hotspot.Y),
		float32(e.size.X), float32(e.size.Y),
		e.ImageRect.Left, e.ImageRect.Top, e.ImageRect.Width(), e.ImageRect.Height())
	return AddOrMerge(batch, batches)
}
