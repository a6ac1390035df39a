package trellis

import "sort"

// Kind discriminates element behavior. A single flat struct is used for all
// element kinds to avoid interface dispatch on the per-frame paths; the kind
// selects batch building and input behavior in widgets.go.
type Kind uint8

const (
	KindElement Kind = iota
	KindBorderImage
	KindButton
	KindCheckbox
	KindText
	KindWindow
	KindSprite
	KindCursor
	KindTooltip
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindBorderImage:
		return "BorderImage"
	case KindButton:
		return "Button"
	case KindCheckbox:
		return "Checkbox"
	case KindText:
		return "Text"
	case KindWindow:
		return "Window"
	case KindSprite:
		return "Sprite"
	case KindCursor:
		return "Cursor"
	case KindTooltip:
		return "Tooltip"
	}
	return "Unknown"
}

// TraversalMode controls how an element's subtree contributes batches.
type TraversalMode uint8

const (
	// TraversalBreadthFirst emits all same-priority siblings before
	// descending, letting their batches merge.
	TraversalBreadthFirst TraversalMode = iota
	// TraversalDepthFirst emits each child's subtree completely before the
	// next sibling, preserving strict back-to-front order.
	TraversalDepthFirst
)

// FocusMode controls how an element interacts with keyboard focus.
type FocusMode uint8

const (
	// FocusNotFocusable ignores focus entirely; clicks fall through to the
	// nearest focusable ancestor.
	FocusNotFocusable FocusMode = iota
	// FocusResetFocus is not focusable itself and clears focus when clicked.
	FocusResetFocus
	// FocusFocusable acquires focus on click.
	FocusFocusable
	// FocusFocusableDefocusable acquires focus on click and releases it when
	// clicked again.
	FocusFocusableDefocusable
)

// DragDropMode is a bitmask of drag-and-drop roles.
type DragDropMode uint8

const (
	DragDropDisabled        DragDropMode = 0
	DragDropSource          DragDropMode = 1 << 0
	DragDropTarget          DragDropMode = 1 << 1
	DragDropSourceAndTarget              = DragDropSource | DragDropTarget
)

// elementIDCounter is a plain counter (trellis is single-goroutine).
var elementIDCounter uint32

func nextElementID() uint32 {
	elementIDCounter++
	return elementIDCounter
}

// Element is the fundamental UI tree node. Geometry is integer UI pixels.
// Widget-specific fields sit directly on the struct and are meaningful only
// for the matching Kind.
type Element struct {
	// Identity
	ID   uint32
	Name string
	Kind Kind

	// Hierarchy
	Parent   *Element
	children []*Element

	// Geometry
	position IntVec2
	size     IntVec2
	MinSize  IntVec2
	MaxSize  IntVec2

	// Appearance
	colors        [numCorners]Color
	colorGradient bool
	Opacity       float64
	BlendMode     BlendMode
	Visible       bool
	Enabled       bool

	// Behavior
	Priority      int
	SortChildren  bool
	Traversal     TraversalMode
	FocusMode     FocusMode
	DragDrop      DragDropMode
	BringsToFront bool
	Internal      bool
	Selected      bool

	// Clipping
	ClipChildren bool
	ClipBorder   IntRect

	// Border image / button / checkbox fields
	Texture        *Texture
	ImageRect      IntRect
	Border         IntRect
	ImageBorder    IntRect
	HoverOffset    IntVec2
	DisabledOffset IntVec2
	Tiled          bool
	PressedOffset  IntVec2
	Checked        bool
	CheckedOffset  IntVec2

	// Text fields
	Text string
	Font *FontFace

	// Sprite fields
	Hotspot  IntVec2
	Rotation float64
	ScaleX   float64
	ScaleY   float64

	// Button repeat fields
	RepeatDelay float64
	RepeatRate  float64
	repeatTimer float64

	// Window fields
	Movable      bool
	Resizable    bool
	ResizeBorder IntRect

	// Window drag internals
	windowDragMode  windowDragMode
	dragBeginCursor IntVec2
	dragBeginPos    IntVec2
	dragBeginSize   IntVec2

	// Modal state (managed by UI.SetModal)
	Modal           bool
	ModalShadeColor Color
	modalOrigParent *Element
	modalOrigIndex  int

	// Tooltip fields
	TooltipDelay float64

	// Metadata
	UserData any

	// Cached derived state
	screenPosition      IntVec2
	positionDirty       bool
	derivedColor        Color
	derivedColorDirty   bool
	derivedOpacity      float64
	derivedOpacityDirty bool

	// Router-maintained state
	hovering bool
	pressed  bool
	focused  bool

	// Per-element callbacks (nil by default; zero cost when unused). The
	// callback runs before listeners and UI observers for the same event.
	OnClick          func(*Event)
	OnClickEnd       func(*Event)
	OnDoubleClick    func(*Event)
	OnHoverBegin     func(*Event)
	OnHoverEnd       func(*Event)
	OnWheel          func(*Event)
	OnDragBegin      func(*Event)
	OnDragMove       func(*Event)
	OnDragEnd        func(*Event)
	OnDragCancel     func(*Event)
	OnDragDropTest   func(*Event)
	OnDragDropFinish func(*Event)
	OnFocus          func(*Event)
	OnDefocus        func(*Event)
	OnKey            func(*Event)
	OnTextInput      func(*Event)
	OnToggle         func(*Event)
	OnResize         func(*Element)

	// Subscribed listeners, keyed by event type.
	listeners map[EventType][]listenerEntry

	// Internal
	disposed       bool
	sortOrderDirty bool
	sortedChildren []*Element // reused buffer for priority-sorted traversal

	// tooltip internals (tooltip.go)
	tooltipTimer float64
	tooltipTween *fadeTween
}

// elementDefaults sets the common default field values shared by all
// constructors.
func elementDefaults(e *Element) {
	e.ID = nextElementID()
	e.Opacity = 1
	for i := range e.colors {
		e.colors[i] = ColorWhite
	}
	e.Visible = true
	e.Enabled = true
	e.SortChildren = true
	e.ScaleX = 1
	e.ScaleY = 1
	e.MaxSize = IntVec2{maxInt, maxInt}
	e.BlendMode = BlendAlpha
	e.positionDirty = true
	e.derivedColorDirty = true
	e.derivedOpacityDirty = true
}

const maxInt = int(^uint(0) >> 1)

// NewElement creates a plain element: a grouping and layout node that emits
// no geometry of its own. Use [NewBorderImage] with a nil texture for solid
// or gradient quads.
func NewElement(name string) *Element {
	e := &Element{Name: name, Kind: KindElement}
	elementDefaults(e)
	return e
}

// --- Tree manipulation ---

// AddChild appends child to this element's children. If child already has a
// parent, it is removed from that parent first. Panics if child is nil or an
// ancestor of this element (cycle).
func (e *Element) AddChild(child *Element) {
	e.AddChildAt(child, len(e.children))
}

// AddChildAt inserts child at the given index. Same reparenting and
// cycle-check behavior as AddChild.
func (e *Element) AddChildAt(child *Element, index int) {
	if child == nil {
		panic("trellis: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(e, "AddChildAt (parent)")
		debugCheckDisposed(child, "AddChildAt (child)")
	}
	if isAncestor(child, e) {
		panic("trellis: adding child would create a cycle")
	}
	if index < 0 || index > len(e.children) {
		panic("trellis: child index out of range")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = e
	e.children = append(e.children, nil)
	copy(e.children[index+1:], e.children[index:])
	e.children[index] = child
	e.sortOrderDirty = true
	markTreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(e)
	}
}

// RemoveChild detaches child from this element. Panics if child.Parent != e.
func (e *Element) RemoveChild(child *Element) {
	if globalDebug {
		debugCheckDisposed(e, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != e {
		panic("trellis: child's parent is not this element")
	}
	e.removeChildByPtr(child)
	child.Parent = nil
	e.sortOrderDirty = true
	markTreeDirty(child)
}

// RemoveChildAt removes and returns the child at the given index.
func (e *Element) RemoveChildAt(index int) *Element {
	if index < 0 || index >= len(e.children) {
		panic("trellis: child index out of range")
	}
	child := e.children[index]
	copy(e.children[index:], e.children[index+1:])
	e.children[len(e.children)-1] = nil
	e.children = e.children[:len(e.children)-1]
	child.Parent = nil
	e.sortOrderDirty = true
	markTreeDirty(child)
	return child
}

// RemoveFromParent detaches this element from its parent. No-op when
// detached already.
func (e *Element) RemoveFromParent() {
	if e.Parent == nil {
		return
	}
	e.Parent.RemoveChild(e)
}

// RemoveChildren detaches all children. Children are NOT disposed.
func (e *Element) RemoveChildren() {
	for _, child := range e.children {
		child.Parent = nil
		markTreeDirty(child)
	}
	e.children = e.children[:0]
	e.sortOrderDirty = false
}

// Children returns the child list in insertion order. The returned slice
// MUST NOT be mutated by the caller.
func (e *Element) Children() []*Element {
	return e.children
}

// NumChildren returns the number of children.
func (e *Element) NumChildren() int {
	return len(e.children)
}

// ChildAt returns the child at the given index.
func (e *Element) ChildAt(index int) *Element {
	return e.children[index]
}

// ChildByName returns the first child with the given name, searching
// recursively, or nil.
func (e *Element) ChildByName(name string) *Element {
	for _, child := range e.children {
		if child.Name == name {
			return child
		}
		if found := child.ChildByName(name); found != nil {
			return found
		}
	}
	return nil
}

// ChildIndex returns child's index among e's children, or -1.
func (e *Element) ChildIndex(child *Element) int {
	for i, c := range e.children {
		if c == child {
			return i
		}
	}
	return -1
}

// Root returns the topmost ancestor (possibly e itself).
func (e *Element) Root() *Element {
	p := e
	for p.Parent != nil {
		p = p.Parent
	}
	return p
}

// isAncestor reports whether candidate is an ancestor of element (or the
// element itself).
func isAncestor(candidate, element *Element) bool {
	for p := element; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from e.children without clearing
// child.Parent. Uses copy+nil to avoid retaining a dangling pointer in the
// backing array.
func (e *Element) removeChildByPtr(child *Element) {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			return
		}
	}
}

// markTreeDirty invalidates cached screen positions and derived colors for
// element and all its descendants.
func markTreeDirty(element *Element) {
	element.positionDirty = true
	element.derivedColorDirty = true
	element.derivedOpacityDirty = true
	for _, child := range element.children {
		markTreeDirty(child)
	}
}

// --- Geometry ---

// Position returns the element's position relative to its parent.
func (e *Element) Position() IntVec2 { return e.position }

// SetPosition moves the element relative to its parent.
func (e *Element) SetPosition(x, y int) {
	p := IntVec2{x, y}
	if p == e.position {
		return
	}
	e.position = p
	markPositionDirty(e)
}

func markPositionDirty(element *Element) {
	element.positionDirty = true
	for _, child := range element.children {
		markPositionDirty(child)
	}
}

// Size returns the element's size.
func (e *Element) Size() IntVec2 { return e.size }

// Width returns the element's width.
func (e *Element) Width() int { return e.size.X }

// Height returns the element's height.
func (e *Element) Height() int { return e.size.Y }

// SetSize resizes the element, clamped to [MinSize, MaxSize].
func (e *Element) SetSize(w, h int) {
	w = clampInt(w, e.MinSize.X, e.MaxSize.X)
	h = clampInt(h, e.MinSize.Y, e.MaxSize.Y)
	s := IntVec2{w, h}
	if s == e.size {
		return
	}
	e.size = s
	if e.OnResize != nil {
		e.OnResize(e)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ScreenPosition returns the element's absolute position, cached until the
// element or an ancestor moves.
func (e *Element) ScreenPosition() IntVec2 {
	if e.positionDirty {
		pos := e.position
		if e.Parent != nil {
			pos = pos.Add(e.Parent.ScreenPosition())
		}
		e.screenPosition = pos
		e.positionDirty = false
	}
	return e.screenPosition
}

// ScreenRect returns the element's own screen-space rectangle.
func (e *Element) ScreenRect() IntRect {
	pos := e.ScreenPosition()
	return IntRect{pos.X, pos.Y, pos.X + e.size.X, pos.Y + e.size.Y}
}

// CombinedScreenRect returns the union of the element's rect with all its
// descendants' rects, for hit testing trees whose children overhang.
func (e *Element) CombinedScreenRect() IntRect {
	combined := e.ScreenRect()
	for _, child := range e.children {
		combined = combined.Union(child.CombinedScreenRect())
	}
	return combined
}

// ScreenToElement converts a screen-space point to element-local space.
func (e *Element) ScreenToElement(screenPos IntVec2) IntVec2 {
	return screenPos.Sub(e.ScreenPosition())
}

// ElementToScreen converts an element-local point to screen space.
func (e *Element) ElementToScreen(localPos IntVec2) IntVec2 {
	return localPos.Add(e.ScreenPosition())
}

// IsInside reports whether a point is inside the element. isScreen selects
// screen-space or element-local input.
func (e *Element) IsInside(pos IntVec2, isScreen bool) bool {
	if isScreen {
		pos = e.ScreenToElement(pos)
	}
	return pos.X >= 0 && pos.Y >= 0 && pos.X < e.size.X && pos.Y < e.size.Y
}

// IsInsideCombined reports whether a point is inside the element or any of
// its descendants.
func (e *Element) IsInsideCombined(pos IntVec2, isScreen bool) bool {
	if !isScreen {
		pos = e.ElementToScreen(pos)
	}
	return e.CombinedScreenRect().Contains(pos)
}

// IsWithinScissor reports whether any part of the element lies inside the
// scissor rectangle. Invisible elements report false.
func (e *Element) IsWithinScissor(scissor IntRect) bool {
	if !e.Visible {
		return false
	}
	pos := e.ScreenPosition()
	return pos.X < scissor.Right && pos.X+e.size.X > scissor.Left &&
		pos.Y < scissor.Bottom && pos.Y+e.size.Y > scissor.Top
}

// AdjustScissor shrinks the scissor to the element's clip region when the
// element clips its children. A fully clipped-away region collapses to zero
// area rather than inverting.
func (e *Element) AdjustScissor(scissor IntRect) IntRect {
	if !e.ClipChildren {
		return scissor
	}
	pos := e.ScreenPosition()
	scissor.Left = max(scissor.Left, pos.X+e.ClipBorder.Left)
	scissor.Top = max(scissor.Top, pos.Y+e.ClipBorder.Top)
	scissor.Right = min(scissor.Right, pos.X+e.size.X-e.ClipBorder.Right)
	scissor.Bottom = min(scissor.Bottom, pos.Y+e.size.Y-e.ClipBorder.Bottom)
	if scissor.Right < scissor.Left {
		scissor.Right = scissor.Left
	}
	if scissor.Bottom < scissor.Top {
		scissor.Bottom = scissor.Top
	}
	return scissor
}

// --- Color and opacity ---

// SetColor sets all four corner colors to the same value.
func (e *Element) SetColor(c Color) {
	for i := range e.colors {
		e.colors[i] = c
	}
	e.colorGradient = false
	e.derivedColorDirty = true
}

// SetCornerColor sets one corner color, enabling gradient interpolation when
// the corners no longer agree.
func (e *Element) SetCornerColor(corner Corner, c Color) {
	e.colors[corner] = c
	e.colorGradient = false
	e.derivedColorDirty = true
	for i := 1; i < int(numCorners); i++ {
		if e.colors[i] != e.colors[0] {
			e.colorGradient = true
			break
		}
	}
}

// CornerColor returns one corner color.
func (e *Element) CornerColor(corner Corner) Color {
	return e.colors[corner]
}

// Color returns the top-left corner color, which is the whole color for
// non-gradient elements.
func (e *Element) Color() Color {
	return e.colors[TopLeft]
}

// HasColorGradient reports whether the corner colors differ.
func (e *Element) HasColorGradient() bool {
	return e.colorGradient
}

// SetOpacity sets the element's own opacity, clamped to [0, 1]. Descendants
// inherit it multiplicatively.
func (e *Element) SetOpacity(opacity float64) {
	e.Opacity = clamp01(opacity)
	markDerivedOpacityDirty(e)
}

func markDerivedOpacityDirty(element *Element) {
	element.derivedOpacityDirty = true
	element.derivedColorDirty = true
	for _, child := range element.children {
		markDerivedOpacityDirty(child)
	}
}

// DerivedOpacity returns the element's opacity multiplied up the ancestor
// chain, cached until any contributor changes.
func (e *Element) DerivedOpacity() float64 {
	if e.derivedOpacityDirty {
		e.derivedOpacity = e.Opacity
		if e.Parent != nil {
			e.derivedOpacity *= e.Parent.DerivedOpacity()
		}
		e.derivedOpacityDirty = false
	}
	return e.derivedOpacity
}

// DerivedColor returns the top-left color with derived opacity folded into
// alpha. Only meaningful for non-gradient elements.
func (e *Element) DerivedColor() Color {
	if e.derivedColorDirty {
		e.derivedColor = e.colors[TopLeft]
		e.derivedColor.A *= e.DerivedOpacity()
		e.derivedColorDirty = false
	}
	return e.derivedColor
}

// --- Visibility and interaction state ---

// SetVisible shows or hides the element and its subtree.
func (e *Element) SetVisible(visible bool) {
	e.Visible = visible
}

// VisibleEffective reports whether the element and all its ancestors are
// visible.
func (e *Element) VisibleEffective() bool {
	for p := e; p != nil; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// Hovering reports whether the pointer was over this element last frame.
func (e *Element) Hovering() bool { return e.hovering }

// Pressed reports whether a click is currently held on this element.
func (e *Element) Pressed() bool { return e.pressed }

// Focused reports whether this element holds keyboard focus.
func (e *Element) Focused() bool { return e.focused }

// --- Ordering ---

// SetPriority changes the element's draw priority among siblings. Higher
// priorities draw later (on top).
func (e *Element) SetPriority(priority int) {
	if e.Priority == priority {
		return
	}
	e.Priority = priority
	if e.Parent != nil {
		e.Parent.sortOrderDirty = true
	}
}

// sortChildrenByPriority refreshes the priority-sorted traversal buffer. The
// sort is stable so same-priority siblings keep insertion order.
func (e *Element) sortChildrenByPriority() []*Element {
	if !e.SortChildren {
		return e.children
	}
	if e.sortOrderDirty || len(e.sortedChildren) != len(e.children) {
		e.sortedChildren = append(e.sortedChildren[:0], e.children...)
		sort.SliceStable(e.sortedChildren, func(i, j int) bool {
			return e.sortedChildren[i].Priority < e.sortedChildren[j].Priority
		})
		e.sortOrderDirty = false
	}
	return e.sortedChildren
}

// BringToFront raises the element's top-level ancestor above its sibling
// windows by assigning it the highest priority in use.
func (e *Element) BringToFront() {
	root := e.Root()
	if root == e {
		return
	}

	// Find the ancestor directly under the root.
	top := e
	for top.Parent != nil && top.Parent != root {
		top = top.Parent
	}
	if !top.BringsToFront {
		return
	}

	maxPriority := top.Priority
	for _, other := range root.children {
		if other != top && other.Enabled && other.Priority > maxPriority {
			maxPriority = other.Priority
		}
	}
	if maxPriority >= top.Priority {
		top.SetPriority(maxPriority + 1)
	}
}

// --- Disposal ---

// Dispose removes this element from its parent, marks it disposed, and
// recursively disposes all descendants. The router and batch collector treat
// disposed elements as gone even when stale pointers linger.
func (e *Element) Dispose() {
	if e.disposed {
		return
	}
	e.RemoveFromParent()
	e.dispose()
}

func (e *Element) dispose() {
	e.disposed = true
	e.ID = 0
	for _, child := range e.children {
		child.Parent = nil
		child.dispose()
	}
	e.children = nil
	e.sortedChildren = nil
	e.Parent = nil
	e.Texture = nil
	e.Font = nil
	e.UserData = nil
	e.listeners = nil
	e.tooltipTween = nil
	e.OnClick = nil
	e.OnClickEnd = nil
	e.OnDoubleClick = nil
	e.OnHoverBegin = nil
	e.OnHoverEnd = nil
	e.OnWheel = nil
	e.OnDragBegin = nil
	e.OnDragMove = nil
	e.OnDragEnd = nil
	e.OnDragCancel = nil
	e.OnDragDropTest = nil
	e.OnDragDropFinish = nil
	e.OnFocus = nil
	e.OnDefocus = nil
	e.OnKey = nil
	e.OnTextInput = nil
	e.OnToggle = nil
	e.OnResize = nil
}

// IsDisposed reports whether this element has been disposed.
func (e *Element) IsDisposed() bool {
	return e.disposed
}
