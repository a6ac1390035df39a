package trellis

// UI owns the widget trees and all per-frame state: batching buffers, the
// input router, focus, the software cursor and configuration. Everything
// hangs off this context; there is no package-level singleton.
type UI struct {
	root      *Element
	modalRoot *Element
	cursor    *Cursor

	// Frame buffers, reused across frames.
	vertexData         []Vertex
	batches            []Batch
	nonModalBatchCount int

	renderTargets []*RenderTarget
	surfaces      surfacePool

	// Configuration
	scale               float64
	customSize          IntVec2
	alignOffset         IntVec2
	doubleClickInterval float64
	maxDoubleClickDist  float64
	dragBeginInterval   float64
	dragBeginDistance   int
	tooltipDelay        float64

	// Router state (input.go)
	cursorPos       IntVec2
	mouseButtons    MouseButton
	qualifiers      Qualifiers
	hovered         map[*Element]bool // value: touched this frame
	drags           map[*Element]*dragSession
	focus           *Element
	clickElement    *Element
	doubleClickEl   *Element
	doubleClickPos  IntVec2
	timeSinceClick  float64
	lastClickButton MouseButton
	usingTouchInput bool
	touchPositions  map[int]IntVec2

	injectQueue []syntheticEvent
	testRunner  *TestRunner

	screenshotQueue []string
	screenshotDir   string

	observers map[EventType][]listenerEntry

	clipboard Clipboard

	renderer *renderer
	stats    Statistics
}

// Option defaults match long-standing desktop conventions.
const (
	DefaultDoubleClickInterval = 0.5
	DefaultMaxDoubleClickDist  = 10.0
	DefaultDragBeginInterval   = 0.5
	DefaultDragBeginDistance   = 5
	DefaultTooltipDelay        = 0.5
)

// NewUI creates a UI context sized to the given backbuffer dimensions. Both
// root trees traverse depth-first so each top-level window renders complete
// before the next; descendants default to breadth-first so their batches
// merge.
func NewUI(width, height int) *UI {
	ui := &UI{
		scale:               1,
		doubleClickInterval: DefaultDoubleClickInterval,
		maxDoubleClickDist:  DefaultMaxDoubleClickDist,
		dragBeginInterval:   DefaultDragBeginInterval,
		dragBeginDistance:   DefaultDragBeginDistance,
		tooltipDelay:        DefaultTooltipDelay,
		hovered:             make(map[*Element]bool),
		drags:               make(map[*Element]*dragSession),
		touchPositions:      make(map[int]IntVec2),
		clipboard:           newMemoryClipboard(),
	}

	ui.root = NewElement("UIRoot")
	ui.root.Traversal = TraversalDepthFirst
	ui.modalRoot = NewElement("UIModalRoot")
	ui.modalRoot.Traversal = TraversalDepthFirst
	ui.Resize(width, height)
	return ui
}

// Root returns the normal widget tree root.
func (ui *UI) Root() *Element { return ui.root }

// ModalRoot returns the modal tree root. Elements under it receive input
// exclusively and render above the normal tree.
func (ui *UI) ModalRoot() *Element { return ui.modalRoot }

// Cursor returns the software cursor, or nil when none is set.
func (ui *UI) Cursor() *Cursor { return ui.cursor }

// SetCursor installs a software cursor. The cursor is composited after both
// trees each frame.
func (ui *UI) SetCursor(c *Cursor) {
	ui.cursor = c
	if c != nil {
		c.SetPosition(ui.cursorPos)
	}
}

// Resize adjusts the root trees to a new backbuffer size, honoring scale and
// any custom size override.
func (ui *UI) Resize(width, height int) {
	w, h := width, height
	if ui.customSize.X > 0 && ui.customSize.Y > 0 {
		w, h = ui.customSize.X, ui.customSize.Y
	} else if ui.scale != 1 {
		w = int(float64(w) / ui.scale)
		h = int(float64(h) / ui.scale)
	}
	ui.root.SetSize(w, h)
	ui.modalRoot.SetSize(w, h)
}

// SetScale sets the UI pixel scale: logical UI pixels map to scale
// backbuffer pixels. Resize with the real backbuffer size afterwards.
func (ui *UI) SetScale(scale float64) {
	if scale > 0 {
		ui.scale = scale
	}
}

// Scale returns the UI pixel scale.
func (ui *UI) Scale() float64 { return ui.scale }

// SetCustomSize forces a fixed logical size regardless of backbuffer
// dimensions. Zero disables the override.
func (ui *UI) SetCustomSize(w, h int) {
	ui.customSize = IntVec2{w, h}
}

// SetAlignOffset sets the position adjustment subtracted from every emitted
// vertex, for backends that sample between pixel centers.
func (ui *UI) SetAlignOffset(offset IntVec2) { ui.alignOffset = offset }

// SetDoubleClickInterval sets the maximum seconds between two clicks that
// form a double click.
func (ui *UI) SetDoubleClickInterval(seconds float64) { ui.doubleClickInterval = seconds }

// SetMaxDoubleClickDistance sets how far apart (in UI pixels) two clicks may
// land and still form a double click.
func (ui *UI) SetMaxDoubleClickDistance(pixels float64) { ui.maxDoubleClickDist = pixels }

// SetDragBeginInterval sets the hold time that promotes a pending drag.
func (ui *UI) SetDragBeginInterval(seconds float64) { ui.dragBeginInterval = seconds }

// SetDragBeginDistance sets the per-axis movement that promotes a pending
// drag.
func (ui *UI) SetDragBeginDistance(pixels int) { ui.dragBeginDistance = pixels }

// SetTooltipDelay sets the hover time before tooltips appear.
func (ui *UI) SetTooltipDelay(seconds float64) { ui.tooltipDelay = seconds }

// SetClipboard replaces the clipboard backend. NewUI installs an in-memory
// clipboard; hosts wanting OS integration install NewSystemClipboard().
func (ui *UI) SetClipboard(c Clipboard) {
	if c != nil {
		ui.clipboard = c
	}
}

// Clipboard returns the active clipboard backend.
func (ui *UI) Clipboard() Clipboard { return ui.clipboard }

// CursorPosition returns the last pointer position in UI space.
func (ui *UI) CursorPosition() IntVec2 { return ui.cursorPos }

// Statistics returns the batching counters from the last frame.
func (ui *UI) Statistics() Statistics { return ui.stats }

// ConvertSystemToUI maps a backbuffer position to UI space.
func (ui *UI) ConvertSystemToUI(pos IntVec2) IntVec2 {
	return IntVec2{int(float64(pos.X) / ui.scale), int(float64(pos.Y) / ui.scale)}
}

// ConvertUIToSystem maps a UI position to backbuffer space.
func (ui *UI) ConvertUIToSystem(pos IntVec2) IntVec2 {
	return IntVec2{int(float64(pos.X) * ui.scale), int(float64(pos.Y) * ui.scale)}
}

// Update advances time-based router state: hover evaluation and grace
// eviction, pending drag promotion, the double-click window, button repeat
// and tooltips. dt is the frame delta in seconds.
func (ui *UI) Update(dt float64) {
	if ui.testRunner != nil {
		ui.testRunner.step(ui)
	}
	ui.timeSinceClick += dt
	ui.updateDragTimers(dt)
	ui.processHoverFrame()
	ui.updateButtonRepeat(dt)
	ui.updateTooltips(dt)
	ui.updateCursorShape()
}

// Clear removes all elements from both trees. The cursor survives.
func (ui *UI) Clear() {
	ui.root.RemoveChildren()
	ui.modalRoot.RemoveChildren()
	ui.focus = nil
	ui.clickElement = nil
	ui.doubleClickEl = nil
	for e := range ui.hovered {
		delete(ui.hovered, e)
	}
	for e := range ui.drags {
		delete(ui.drags, e)
	}
}

// --- Queries ---

// ElementAt returns the topmost element containing the position, searching
// the modal tree first, then the normal tree. enabledOnly skips disabled
// elements.
func (ui *UI) ElementAt(pos IntVec2, enabledOnly bool) *Element {
	var result *Element
	if ui.HasModalElement() {
		elementAt(&result, ui.modalRoot, pos, enabledOnly)
	}
	if result == nil {
		elementAt(&result, ui.root, pos, enabledOnly)
	}
	return result
}

// elementAt walks current's children in priority order, keeping the latest
// (topmost) hit. Children sort lowest priority first, so later matches
// overwrite earlier ones.
func elementAt(result **Element, current *Element, pos IntVec2, enabledOnly bool) {
	for _, child := range current.sortChildrenByPriority() {
		if child.Kind == KindCursor || !child.Visible {
			continue
		}
		if child.IsInside(pos, true) {
			if child.Enabled || !enabledOnly {
				*result = child
			}
			if len(child.children) > 0 {
				elementAt(result, child, pos, enabledOnly)
			}
		} else if len(child.children) > 0 && child.IsInsideCombined(pos, true) {
			elementAt(result, child, pos, enabledOnly)
		}
	}
}

// FrontElement returns the highest-priority enabled, visible top-level
// element of the normal tree.
func (ui *UI) FrontElement() *Element {
	var front *Element
	maxPriority := 0
	for _, child := range ui.root.children {
		if !child.Enabled || !child.Visible {
			continue
		}
		if front == nil || child.Priority > maxPriority {
			maxPriority = child.Priority
			front = child
		}
	}
	return front
}

// DragElements returns the elements with confirmed drags in progress.
// Pending (not yet promoted) drags are excluded.
func (ui *UI) DragElements() []*Element {
	var out []*Element
	for e, s := range ui.drags {
		if !s.pending && !e.disposed {
			out = append(out, e)
		}
	}
	return out
}

// --- Modal handling ---

// HasModalElement reports whether the modal tree holds any element.
func (ui *UI) HasModalElement() bool {
	return len(ui.modalRoot.children) > 0
}

// SetModal moves an element into or out of the modal tree. While modal, the
// element and its descendants receive input exclusively. Restoring reparents
// the element back to its pre-modal position. Reports success.
func (ui *UI) SetModal(e *Element, enable bool) bool {
	if e == nil || e.disposed {
		return false
	}
	if enable {
		if e.Modal {
			return true
		}
		e.modalOrigParent = e.Parent
		e.modalOrigIndex = -1
		if e.Parent != nil {
			e.modalOrigIndex = e.Parent.ChildIndex(e)
		}
		ui.modalRoot.AddChild(e)
		e.Modal = true
	} else {
		if !e.Modal {
			return true
		}
		if e.Parent != ui.modalRoot {
			return false
		}
		ui.modalRoot.RemoveChild(e)
		if e.modalOrigParent != nil && !e.modalOrigParent.disposed {
			index := e.modalOrigIndex
			if index < 0 || index > len(e.modalOrigParent.children) {
				index = len(e.modalOrigParent.children)
			}
			e.modalOrigParent.AddChildAt(e, index)
		}
		e.modalOrigParent = nil
		e.Modal = false
	}

	ev := Event{Type: EventModalChanged, Accept: enable}
	ui.fire(e, &ev)
	return true
}
