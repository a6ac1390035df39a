package trellis

// Widget construction and per-kind behavior. Every widget is an Element; the
// Kind field selects how it turns visual state into quads and how it reacts
// to router input.

// NewBorderImage creates an element that renders a texture with optional
// 9-patch borders and tiling. A nil texture renders the element's color as a
// plain (possibly gradient) quad.
func NewBorderImage(name string, texture *Texture) *Element {
	e := &Element{Name: name, Kind: KindBorderImage, Texture: texture}
	elementDefaults(e)
	if texture != nil {
		e.ImageRect = IntRect{0, 0, texture.Width, texture.Height}
	}
	return e
}

// NewButton creates a clickable button. The pressed offset shifts the source
// image while held; hover and disabled offsets come from the border image
// fields.
func NewButton(name string, texture *Texture) *Element {
	e := NewBorderImage(name, texture)
	e.Kind = KindButton
	e.FocusMode = FocusFocusable
	return e
}

// NewCheckbox creates a two-state toggle. The checked offset shifts the
// source image when checked; clicking flips the state and fires Toggled.
func NewCheckbox(name string, texture *Texture) *Element {
	e := NewBorderImage(name, texture)
	e.Kind = KindCheckbox
	e.FocusMode = FocusFocusable
	return e
}

// NewText creates a text element sized to its content.
func NewText(name, text string, font *FontFace) *Element {
	e := &Element{Name: name, Kind: KindText, Text: text, Font: font}
	elementDefaults(e)
	if font != nil {
		size := font.MeasureText(text)
		e.size = size
		e.MinSize = size
	}
	return e
}

// SetText replaces a text element's content and resizes it to fit.
func (e *Element) SetText(text string) {
	e.Text = text
	if e.Kind == KindText && e.Font != nil {
		size := e.Font.MeasureText(text)
		e.MinSize = size
		e.MaxSize = IntVec2{maxInt, maxInt}
		e.SetSize(size.X, size.Y)
	}
}

// NewWindow creates a movable, resizable top-level container. Windows clip
// their children and raise themselves on click.
func NewWindow(name string, texture *Texture) *Element {
	e := NewBorderImage(name, texture)
	e.Kind = KindWindow
	e.ClipChildren = true
	e.Movable = true
	e.Resizable = false
	e.ResizeBorder = IntRect{4, 4, 4, 4}
	e.BringsToFront = true
	e.FocusMode = FocusFocusable
	return e
}

/// NewSprite creates a free-transform element: position, hotspot, scale and
// rotation place its quad off the integer grid. Sprites do not hit test.
func NewSprite(name string, texture *Texture) *Element {
	e := &Element{Name: name, Kind: KindSprite, Texture: texture}
	elementDefaults(e)
	if texture != nil {
		e.ImageRect = IntRect{0, 0, texture.Width, texture.Height}
		e.size = IntVec2{texture.Width, texture.Height}
	}
	return e
}

// --- Batch building ---

// buildBatches emits the element's own quads. Child traversal lives in
// collect.go; this only handles the widget's visual state.
func (ui *UI) buildBatches(e *Element, batches []Batch, verts *[]Vertex, scissor IntRect) []Batch {
	switch e.Kind {
	case KindElement:
		// Plain elements group children and emit nothing themselves.
		return batches
	case KindText:
		return ui.buildTextBatches(e, batches, verts, scissor)
	case KindSprite:
		return ui.buildSpriteBatches(e, batches, verts, scissor)
	case KindCursor:
		return ui.buildCursorBatches(e, batches, verts, scissor)
	default:
		return ui.buildBorderImageBatches(e, batches, verts, scissor)
	}
}

// imageOffset returns the source-rect shift for the element's interaction
// state (hover, pressed, checked, disabled).
func (e *Element) imageOffset() IntVec2 {
	var offset IntVec2
	if !e.Enabled {
		offset = offset.Add(e.DisabledOffset)
	} else {
		if e.hovering || e.Selected {
			offset = offset.Add(e.HoverOffset)
		}
		if e.Kind == KindButton && e.pressed {
			offset = offset.Add(e.PressedOffset)
		}
	}
	if e.Kind == KindCheckbox && e.Checked {
		offset = offset.Add(e.CheckedOffset)
	}
	return offset
}

// buildBorderImageBatches emits a 9-patch grid when borders are set, or a
// single stretched/tiled quad when not. Shared by BorderImage, Button,
// Checkbox, Window and Tooltip kinds.
func (ui *UI) buildBorderImageBatches(e *Element, batches []Batch, verts *[]Vertex, scissor IntRect) []Batch {
	batch := ui.newBatch(e, e.BlendMode, scissor, e.Texture, verts)

	if e.Texture == nil {
		// Color-only quad; gradient corners interpolate across it.
		batch.AddQuad(0, 0, float32(e.size.X), float32(e.size.Y), 0, 0, 0, 0)
		return AddOrMerge(batch, batches)
	}

	offset := e.imageOffset()
	img := e.ImageRect
	img.Left += offset.X
	img.Top += offset.Y
	img.Right += offset.X
	img.Bottom += offset.Y

	border := e.Border
	imageBorder := e.ImageBorder
	if imageBorder.IsZero() {
		imageBorder = border
	}

	if border.IsZero() && imageBorder.IsZero() {
		batch.AddQuadTiled(0, 0, e.size.X, e.size.Y, img.Left, img.Top, img.Width(), img.Height(), e.Tiled)
		return AddOrMerge(batch, batches)
	}

	// 9-patch cell boundaries in destination and source space.
	xs := [4]int{0, border.Left, e.size.X - border.Right, e.size.X}
	ys := [4]int{0, border.Top, e.size.Y - border.Bottom, e.size.Y}
	us := [4]int{img.Left, img.Left + imageBorder.Left, img.Right - imageBorder.Right, img.Right}
	vs := [4]int{img.Top, img.Top + imageBorder.Top, img.Bottom - imageBorder.Bottom, img.Bottom}

	for row := 0; row < 3; row++ {
		h := ys[row+1] - ys[row]
		th := vs[row+1] - vs[row]
		if h <= 0 || th <= 0 {
			continue
		}
		for col := 0; col < 3; col++ {
			w := xs[col+1] - xs[col]
			tw := us[col+1] - us[col]
			if w <= 0 || tw <= 0 {
				continue
			}
			// Only interior cells tile; corners always match their source.
			tiled := e.Tiled && (row == 1 || col == 1)
			batch.AddQuadTiled(xs[col], ys[row], w, h, us[col], vs[row], tw, th, tiled)
		}
	}
	return AddOrMerge(batch, batches)
}

// buildTextBatches emits one quad per visible glyph.
func (ui *UI) buildTextBatches(e *Element, batches []Batch, verts *[]Vertex, scissor IntRect) []Batch {
	font := e.Font
	if font == nil || font.Texture == nil || e.Text == "" {
		return batches
	}

	batch := ui.newBatch(e, e.BlendMode, scissor, font.Texture, verts)

	penX, penY := 0, 0
	var prev rune
	for _, r := range e.Text {
		if r == '\n' {
			penX = 0
			penY += font.LineHeight
			prev = 0
			continue
		}
		g, ok := font.Glyph(r)
		if !ok {
			continue
		}
		penX += font.KerningFor(prev, r)
		w := g.Rect.Width()
		h := g.Rect.Height()
		if w > 0 && h > 0 {
			batch.AddQuad(float32(penX+g.OffsetX), float32(penY+g.OffsetY), float32(w), float32(h),
				g.Rect.Left, g.Rect.Top, w, h)
		}
		penX += g.Advance
		prev = r
	}
	return AddOrMerge(batch, batches)
}

// buildSpriteBatches emits a single transformed quad.
func (ui *UI) buildSpriteBatches(e *Element, batches []Batch, verts *[]Vertex, scissor IntRect) []Batch {
	batch := ui.newBatch(e, e.BlendMode, scissor, e.Texture, verts)
	transform := NewTransform(e.ScreenPosition(), e.Hotspot, e.ScaleX, e.ScaleY, e.Rotation)
	batch.AddQuadTransformed(&transform, 0, 0, e.size.X, e.size.Y,
		e.ImageRect.Left, e.ImageRect.Top, e.ImageRect.Width(), e.ImageRect.Height())
	return AddOrMerge(batch, batches)
}

// --- Router-driven widget behavior ---
//
// These run before the event reaches user callbacks, so widget visuals stay
// consistent no matter what handlers do.

type windowDragMode uint8

const (
	windowDragNone windowDragMode = iota
	windowDragMove
	windowDragResizeTopLeft
	windowDragResizeTop
	windowDragResizeTopRight
	windowDragResizeRight
	windowDragResizeBottomRight
	windowDragResizeBottom
	windowDragResizeBottomLeft
	windowDragResizeLeft
)

func (e *Element) widgetClickBegin(pos IntVec2) {
	switch e.Kind {
	case KindButton:
		e.pressed = true
	}
}

// widgetClickEnd reports whether the release counts as a completed click:
// the press began on this element and the release landed inside it.
func (e *Element) widgetClickEnd(pos IntVec2) bool {
	completed := e.IsInside(pos, true)
	switch e.Kind {
	case KindButton:
		e.pressed = false
		e.repeatTimer = 0
	case KindCheckbox:
		if completed {
			e.Checked = !e.Checked
		}
	}
	return completed
}

func (e *Element) widgetDragBegin(pos IntVec2) {
	switch e.Kind {
	case KindButton:
		e.pressed = true
	case KindWindow:
		e.windowDragMode = e.windowHitMode(pos)
		e.dragBeginCursor = pos
		e.dragBeginPos = e.position
		e.dragBeginSize = e.size
	}
}

func (e *Element) widgetDragMove(pos IntVec2) {
	switch e.Kind {
	case KindButton:
		// Keep the pressed visual only while the pointer stays on the button.
		e.pressed = e.IsInside(pos, true)
	case KindWindow:
		e.windowApplyDrag(pos)
	}
}

func (e *Element) widgetDragEnd() {
	switch e.Kind {
	case KindButton:
		e.pressed = false
		e.repeatTimer = 0
	case KindWindow:
		e.windowDragMode = windowDragNone
	}
}

// windowHitMode classifies a screen point against the window's resize
// borders. Interior points move the window when it is movable.
func (e *Element) windowHitMode(screenPos IntVec2) windowDragMode {
	if !e.Movable && !e.Resizable {
		return windowDragNone
	}
	local := e.ScreenToElement(screenPos)

	if e.Resizable {
		onLeft := local.X < e.ResizeBorder.Left
		onRight := local.X >= e.size.X-e.ResizeBorder.Right
		onTop := local.Y < e.ResizeBorder.Top
		onBottom := local.Y >= e.size.Y-e.ResizeBorder.Bottom
		switch {
		case onTop && onLeft:
			return windowDragResizeTopLeft
		case onTop && onRight:
			return windowDragResizeTopRight
		case onBottom && onLeft:
			return windowDragResizeBottomLeft
		case onBottom && onRight:
			return windowDragResizeBottomRight
		case onTop:
			return windowDragResizeTop
		case onBottom:
			return windowDragResizeBottom
		case onLeft:
			return windowDragResizeLeft
		case onRight:
			return windowDragResizeRight
		}
	}
	if e.Movable {
		return windowDragMove
	}
	return windowDragNone
}

func (e *Element) windowApplyDrag(pos IntVec2) {
	if e.windowDragMode == windowDragNone {
		return
	}
	delta := pos.Sub(e.dragBeginCursor)
	origin := e.dragBeginPos
	size := e.dragBeginSize

	switch e.windowDragMode {
	case windowDragMove:
		e.SetPosition(origin.X+delta.X, origin.Y+delta.Y)
		return
	case windowDragResizeTopLeft:
		e.resizeEdges(delta, origin, size, true, true, false, false)
	case windowDragResizeTop:
		e.resizeEdges(delta, origin, size, false, true, false, false)
	case windowDragResizeTopRight:
		e.resizeEdges(delta, origin, size, false, true, true, false)
	case windowDragResizeRight:
		e.resizeEdges(delta, origin, size, false, false, true, false)
	case windowDragResizeBottomRight:
		e.resizeEdges(delta, origin, size, false, false, true, true)
	case windowDragResizeBottom:
		e.resizeEdges(delta, origin, size, false, false, false, true)
	case windowDragResizeBottomLeft:
		e.resizeEdges(delta, origin, size, true, false, false, true)
	case windowDragResizeLeft:
		e.resizeEdges(delta, origin, size, true, false, false, false)
	}
}

// resizeEdges resizes from the drag-begin geometry, keeping opposite edges
// fixed. Size clamping reflows the position so the anchored edge never moves.
func (e *Element) resizeEdges(delta, origin, size IntVec2, left, top, right, bottom bool) {
	newPos := origin
	newSize := size
	if left {
		newSize.X = size.X - delta.X
	}
	if right {
		newSize.X = size.X + delta.X
	}
	if top {
		newSize.Y = size.Y - delta.Y
	}
	if bottom {
		newSize.Y = size.Y + delta.Y
	}
	e.SetSize(newSize.X, newSize.Y)
	if left {
		newPos.X = origin.X + size.X - e.size.X
	}
	if top {
		newPos.Y = origin.Y + size.Y - e.size.Y
	}
	e.SetPosition(newPos.X, newPos.Y)
}
