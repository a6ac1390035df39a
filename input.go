package trellis

// Input router: hosts push pointer/keyboard events in, the router resolves
// them against the trees and fires typed events. All routing is synchronous
// and single-goroutine, like the rest of the UI.

// dragSession tracks one element's press-to-release interaction. Every click
// begins a pending session; it becomes a confirmed drag when held longer
// than the drag-begin interval or moved past the drag-begin distance.
// Multi-touch drags accumulate pointer positions so the centroid drives
// movement.
type dragSession struct {
	pending     bool
	timer       float64
	buttons     MouseButton
	numButtons  int
	sumPos      IntVec2
	beginSumPos IntVec2
}

func (s *dragSession) addPointer(pos IntVec2, button MouseButton) {
	s.sumPos = s.sumPos.Add(pos)
	s.beginSumPos = s.beginSumPos.Add(pos)
	s.buttons |= button
	s.numButtons = s.buttons.Count()
}

func (s *dragSession) removePointer(pos IntVec2, button MouseButton) {
	s.sumPos = s.sumPos.Sub(pos)
	s.beginSumPos = s.beginSumPos.Sub(pos)
	s.buttons &^= button
	s.numButtons = s.buttons.Count()
}

func (s *dragSession) centroid() IntVec2 {
	if s.numButtons == 0 {
		return s.sumPos
	}
	return s.sumPos.Div(s.numButtons)
}

func (s *dragSession) beginCentroid() IntVec2 {
	if s.numButtons == 0 {
		return s.beginSumPos
	}
	return s.beginSumPos.Div(s.numButtons)
}

// --- Host event intake ---

// MouseMove updates the pointer position and advances any drags.
func (ui *UI) MouseMove(pos IntVec2) {
	ui.usingTouchInput = false
	delta := pos.Sub(ui.cursorPos)
	ui.cursorPos = pos
	if ui.cursor != nil {
		ui.cursor.SetPosition(pos)
	}
	if delta != (IntVec2{}) {
		ui.processMove(pos, delta, ui.mouseButtons)
	}
}

// MouseButtonDown begins a click on the element under the pointer.
func (ui *UI) MouseButtonDown(button MouseButton, qualifiers Qualifiers) {
	ui.usingTouchInput = false
	ui.mouseButtons |= button
	ui.qualifiers = qualifiers
	ui.processClickBegin(ui.cursorPos, button, qualifiers)
}

// MouseButtonUp ends a click, completing or ending any drag it was part of.
func (ui *UI) MouseButtonUp(button MouseButton, qualifiers Qualifiers) {
	ui.mouseButtons &^= button
	ui.qualifiers = qualifiers
	ui.processClickEnd(ui.cursorPos, button, qualifiers)
}

// MouseWheel routes wheel movement to the focused element, falling back to
// the element under the pointer.
func (ui *UI) MouseWheel(delta int, qualifiers Qualifiers) {
	ui.qualifiers = qualifiers
	e := ui.focus
	if e == nil {
		e = ui.ElementAt(ui.cursorPos, true)
	}
	if e != nil && ui.HasModalElement() && !isAncestor(ui.modalRoot, e) {
		e = nil
	}
	ev := Event{
		Type:       EventWheel,
		Pos:        ui.cursorPos,
		Wheel:      delta,
		Buttons:    ui.mouseButtons,
		Qualifiers: qualifiers,
	}
	if e != nil {
		ev.ElementPos = e.ScreenToElement(ui.cursorPos)
	}
	ui.fire(e, &ev)
}

// TouchBegin begins a click for one touch contact. Touch contacts map onto
// high button bits so multi-touch shares the click/drag machinery.
func (ui *UI) TouchBegin(id int, pos IntVec2) {
	ui.usingTouchInput = true
	button := TouchIDMask(id)
	ui.mouseButtons |= button
	ui.touchPositions[id] = pos
	ui.cursorPos = pos
	if ui.cursor != nil {
		ui.cursor.SetPosition(pos)
	}
	ui.processClickBegin(pos, button, ui.qualifiers)
}

// TouchMove advances drags driven by one touch contact.
func (ui *UI) TouchMove(id int, pos IntVec2) {
	prev, ok := ui.touchPositions[id]
	if !ok {
		return
	}
	delta := pos.Sub(prev)
	ui.touchPositions[id] = pos
	ui.cursorPos = pos
	if delta != (IntVec2{}) {
		ui.processMove(pos, delta, TouchIDMask(id))
	}
}

// TouchEnd ends the click for one touch contact.
func (ui *UI) TouchEnd(id int, pos IntVec2) {
	button := TouchIDMask(id)
	ui.mouseButtons &^= button
	delete(ui.touchPositions, id)
	ui.processClickEnd(pos, button, ui.qualifiers)
}

// KeyDown routes a key press. Escape cancels an active drag or dismisses the
// front modal element; Tab cycles focus; everything else goes to the focused
// element.
func (ui *UI) KeyDown(key Key, qualifiers Qualifiers) {
	ui.qualifiers = qualifiers

	switch key {
	case KeyEscape:
		if ui.hasConfirmedDrag() {
			ui.CancelDrags()
			return
		}
		if ui.HasModalElement() {
			children := ui.modalRoot.children
			ui.SetModal(children[len(children)-1], false)
			return
		}
	case KeyTab:
		if ui.focus != nil {
			ui.cycleFocus(qualifiers&QualShift != 0)
			return
		}
	}

	ev := Event{Type: EventKey, Key: key, Qualifiers: qualifiers, Buttons: ui.mouseButtons}
	ui.fire(ui.focus, &ev)
}

// TextInput routes typed text to the focused element.
func (ui *UI) TextInput(text string) {
	if text == "" {
		return
	}
	ev := Event{Type: EventTextInput, Text: text, Qualifiers: ui.qualifiers}
	ui.fire(ui.focus, &ev)
}

// --- Click handling ---

func (ui *UI) processClickBegin(pos IntVec2, button MouseButton, qualifiers Qualifiers) {
	e := ui.ElementAt(pos, true)
	if e != nil && ui.HasModalElement() && !isAncestor(ui.modalRoot, e) {
		// Modal elements take input exclusively.
		e = nil
	}

	if e == nil {
		// Clicking empty space clears focus, except while a modal holds it.
		if !ui.HasModalElement() {
			ui.setFocusElement(nil, false)
		}
		ui.doubleClickEl = nil
		ev := Event{Type: EventClick, Pos: pos, Button: button, Buttons: ui.mouseButtons, Qualifiers: qualifiers}
		ui.fire(nil, &ev)
		return
	}

	if button == MouseButtonLeft || ui.usingTouchInput {
		if e == ui.focus && e.FocusMode == FocusFocusableDefocusable {
			ui.setFocusElement(nil, false)
		} else {
			ui.setFocusElement(e, false)
		}
		e.BringToFront()
	}

	e.widgetClickBegin(pos)
	e.repeatTimer = e.RepeatDelay
	ui.clickElement = e

	ev := Event{
		Type:       EventClick,
		Pos:        pos,
		ElementPos: e.ScreenToElement(pos),
		Button:     button,
		Buttons:    ui.mouseButtons,
		Qualifiers: qualifiers,
	}
	ui.fire(e, &ev)

	// A double click needs the same element, the same button, inside the
	// interval, and within the distance limit. All four, or it is just a
	// first click again.
	if ui.doubleClickEl == e &&
		ui.timeSinceClick < ui.doubleClickInterval &&
		ui.lastClickButton == button &&
		pos.Sub(ui.doubleClickPos).Length() < ui.maxDoubleClickDist {
		dev := ev
		dev.Type = EventDoubleClick
		ui.fire(e, &dev)
		ui.doubleClickEl = nil
	} else {
		ui.doubleClickEl = e
		ui.doubleClickPos = pos
	}
	ui.timeSinceClick = 0
	ui.lastClickButton = button

	if e.disposed {
		return
	}
	s := ui.drags[e]
	if s == nil {
		s = &dragSession{pending: true}
		ui.drags[e] = s
	}
	s.addPointer(pos, button)
}

func (ui *UI) processClickEnd(pos IntVec2, button MouseButton, qualifiers Qualifiers) {
	under := ui.ElementAt(pos, true)

	for _, e := range ui.dragSnapshot() {
		s := ui.drags[e]
		if s == nil || s.buttons&button == 0 {
			continue
		}
		if e.disposed {
			delete(ui.drags, e)
			continue
		}

		completed := e.widgetClickEnd(pos)

		ev := Event{
			Type:       EventClickEnd,
			Pos:        pos,
			ElementPos: e.ScreenToElement(pos),
			Button:     button,
			Buttons:    ui.mouseButtons,
			Qualifiers: qualifiers,
			Source:     under,
		}
		ui.fire(e, &ev)

		if completed && e.Kind == KindCheckbox && !e.disposed {
			tev := Event{Type: EventToggled, Accept: e.Checked}
			ui.fire(e, &tev)
		}

		s.removePointer(pos, button)
		if s.buttons != 0 {
			continue
		}

		if !s.pending && !e.disposed {
			ui.finishDrag(e, pos, under)
		}
		delete(ui.drags, e)
		if ui.clickElement == e {
			ui.clickElement = nil
		}
	}
}

// finishDrag ends a confirmed drag on release: DragEnd first, then the
// two-phase drop finish when source and target roles line up.
func (ui *UI) finishDrag(e *Element, pos IntVec2, under *Element) {
	e.widgetDragEnd()
	dev := Event{
		Type:       EventDragEnd,
		Pos:        pos,
		ElementPos: e.ScreenToElement(pos),
		Buttons:    ui.mouseButtons,
	}
	ui.fire(e, &dev)

	if e.disposed || e.DragDrop&DragDropSource == 0 {
		return
	}
	if under == nil || under == e || under.disposed || under.DragDrop&DragDropTarget == 0 {
		return
	}
	fev := Event{
		Type:       EventDragDropFinish,
		Pos:        pos,
		ElementPos: under.ScreenToElement(pos),
		Source:     e,
		Accept:     true,
	}
	ui.fire(under, &fev)
}

// --- Drag handling ---

func (ui *UI) processMove(pos, delta IntVec2, buttons MouseButton) {
	for _, e := range ui.dragSnapshot() {
		s := ui.drags[e]
		if s == nil || s.buttons&buttons == 0 {
			continue
		}
		if e.disposed {
			delete(ui.drags, e)
			continue
		}

		s.sumPos = s.sumPos.Add(delta)

		if s.pending {
			begin := s.beginCentroid()
			current := s.centroid()
			if absInt(current.X-begin.X) >= ui.dragBeginDistance ||
				absInt(current.Y-begin.Y) >= ui.dragBeginDistance {
				ui.confirmDrag(e, s)
			}
		}
		if s.pending || e.disposed {
			continue
		}

		e.widgetDragMove(pos)
		ev := Event{
			Type:       EventDragMove,
			Pos:        pos,
			ElementPos: e.ScreenToElement(pos),
			Delta:      delta,
			Buttons:    s.buttons,
			NumButtons: s.numButtons,
			Qualifiers: ui.qualifiers,
		}
		ui.fire(e, &ev)
		if !e.disposed {
			ui.processDragDropTest(e, pos)
		}
	}
}

// confirmDrag promotes a pending session into an actual drag.
func (ui *UI) confirmDrag(e *Element, s *dragSession) {
	s.pending = false
	pos := ui.cursorPos
	e.widgetDragBegin(pos)
	ev := Event{
		Type:       EventDragBegin,
		Pos:        pos,
		ElementPos: e.ScreenToElement(pos),
		Buttons:    s.buttons,
		NumButtons: s.numButtons,
		Qualifiers: ui.qualifiers,
	}
	ui.fire(e, &ev)
}

// processDragDropTest runs the cancellable first phase of drag-and-drop
// while a source drags over a potential target, and sets the cursor's
// accept/reject shape.
func (ui *UI) processDragDropTest(source *Element, pos IntVec2) {
	if source.DragDrop&DragDropSource == 0 {
		return
	}
	target := ui.ElementAt(pos, true)

	accept := false
	if target != nil && target != source && target.DragDrop&DragDropTarget != 0 {
		ev := Event{
			Type:       EventDragDropTest,
			Pos:        pos,
			ElementPos: target.ScreenToElement(pos),
			Source:     source,
			Accept:     true,
		}
		ui.fire(target, &ev)
		accept = ev.Accept
	}

	if ui.cursor != nil {
		if accept {
			ui.cursor.SetShape(CursorAcceptDrop)
		} else {
			ui.cursor.SetShape(CursorRejectDrop)
		}
	}
}

// updateDragTimers advances pending drags toward time promotion and ends
// drags whose element became disabled or invisible mid-interaction.
func (ui *UI) updateDragTimers(dt float64) {
	for _, e := range ui.dragSnapshot() {
		s := ui.drags[e]
		if s == nil {
			continue
		}
		if e.disposed || !e.Enabled || !e.VisibleEffective() {
			if !s.pending && !e.disposed {
				e.widgetDragEnd()
				ev := Event{Type: EventDragCancel, Pos: ui.cursorPos, Buttons: s.buttons}
				ui.fire(e, &ev)
			}
			delete(ui.drags, e)
			if ui.clickElement == e {
				ui.clickElement = nil
			}
			continue
		}
		s.timer += dt
		if s.pending && s.timer >= ui.dragBeginInterval {
			ui.confirmDrag(e, s)
		}
	}
}

// CancelDrags aborts every drag in progress, firing DragCancel for the
// confirmed ones. The Escape key routes here.
func (ui *UI) CancelDrags() {
	for _, e := range ui.dragSnapshot() {
		s := ui.drags[e]
		if s != nil && !s.pending && !e.disposed {
			e.widgetDragEnd()
			ev := Event{
				Type:       EventDragCancel,
				Pos:        ui.cursorPos,
				ElementPos: e.ScreenToElement(ui.cursorPos),
				Buttons:    s.buttons,
			}
			ui.fire(e, &ev)
		}
		delete(ui.drags, e)
	}
	ui.clickElement = nil
}

func (ui *UI) hasConfirmedDrag() bool {
	for e, s := range ui.drags {
		if !s.pending && !e.disposed {
			return true
		}
	}
	return false
}

// dragSnapshot copies the drag keys so event handlers can mutate the map
// mid-iteration.
func (ui *UI) dragSnapshot() []*Element {
	out := make([]*Element, 0, len(ui.drags))
	for e := range ui.drags {
		out = append(out, e)
	}
	return out
}

// --- Hover handling ---

// processHoverFrame recomputes hover each frame: touched flags reset, the
// pointer (or every touch) marks its element, and entries left untouched are
// evicted with a HoverEnd. An element keeps hover for the one frame between
// the pointer leaving and the next evaluation.
func (ui *UI) processHoverFrame() {
	for e := range ui.hovered {
		ui.hovered[e] = false
	}

	if ui.usingTouchInput {
		for _, pos := range ui.touchPositions {
			ui.hoverAt(pos)
		}
	} else {
		ui.hoverAt(ui.cursorPos)
	}

	for e, touched := range ui.hovered {
		if touched && !e.disposed {
			continue
		}
		if !e.disposed {
			e.hovering = false
			ev := Event{Type: EventHoverEnd, Pos: ui.cursorPos}
			ui.fire(e, &ev)
		}
		delete(ui.hovered, e)
	}
}

func (ui *UI) hoverAt(pos IntVec2) {
	e := ui.ElementAt(pos, true)
	if e == nil {
		return
	}
	if ui.HasModalElement() && !isAncestor(ui.modalRoot, e) {
		return
	}
	if _, known := ui.hovered[e]; !known {
		e.hovering = true
		ev := Event{
			Type:       EventHoverBegin,
			Pos:        pos,
			ElementPos: e.ScreenToElement(pos),
			Buttons:    ui.mouseButtons,
			Qualifiers: ui.qualifiers,
		}
		ui.fire(e, &ev)
		if e.disposed {
			return
		}
	}
	ui.hovered[e] = true
}

// --- Button repeat ---

// updateButtonRepeat refires Click for a held button configured with a
// repeat rate, after its initial delay.
func (ui *UI) updateButtonRepeat(dt float64) {
	e := ui.clickElement
	if e == nil || e.disposed || e.Kind != KindButton || !e.pressed || e.RepeatRate <= 0 {
		return
	}
	e.repeatTimer -= dt
	for e.repeatTimer <= 0 && !e.disposed {
		e.repeatTimer += 1 / e.RepeatRate
		ev := Event{
			Type:       EventClick,
			Pos:        ui.cursorPos,
			ElementPos: e.ScreenToElement(ui.cursorPos),
			Button:     ui.lastClickButton,
			Buttons:    ui.mouseButtons,
			Qualifiers: ui.qualifiers,
		}
		ui.fire(e, &ev)
	}
}

// --- Cursor shape ---

// updateCursorShape resets the software cursor shape each frame when no drag
// is steering it: resize shapes over window borders, normal otherwise.
func (ui *UI) updateCursorShape() {
	if ui.cursor == nil || ui.hasConfirmedDrag() {
		return
	}
	shape := CursorNormal
	if e := ui.ElementAt(ui.cursorPos, true); e != nil && e.Kind == KindWindow && e.Resizable {
		switch e.windowHitMode(ui.cursorPos) {
		case windowDragResizeTop, windowDragResizeBottom:
			shape = CursorResizeVertical
		case windowDragResizeLeft, windowDragResizeRight:
			shape = CursorResizeHorizontal
		case windowDragResizeTopRight, windowDragResizeBottomLeft:
			shape = CursorResizeDiagonalTopRight
		case windowDragResizeTopLeft, windowDragResizeBottomRight:
			shape = CursorResizeDiagonalTopLeft
		}
	}
	ui.cursor.SetShape(shape)
}

// --- Focus ---

// FocusElement returns the element holding keyboard focus, or nil.
func (ui *UI) FocusElement() *Element { return ui.focus }

// SetFocusElement moves keyboard focus. Passing a non-focusable element
// walks up to the nearest focusable ancestor; nil clears focus. While a
// modal element is active, focus stays within the modal tree.
func (ui *UI) SetFocusElement(e *Element) {
	ui.setFocusElement(e, false)
}

func (ui *UI) setFocusElement(e *Element, byKey bool) {
	original := e

	if e != nil {
		if ui.focus == e || e.disposed {
			return
		}
		if ui.HasModalElement() && !isAncestor(ui.modalRoot, e) {
			return
		}
		e = focusableElement(e)
		if e == nil {
			return
		}
	}

	// Defocus first, then focus, then announce the change globally.
	if ui.focus != nil {
		old := ui.focus
		ui.focus = nil
		old.focused = false
		ev := Event{Type: EventDefocused}
		ui.fire(old, &ev)
	}

	if e != nil && (e.FocusMode == FocusFocusable || e.FocusMode == FocusFocusableDefocusable) {
		ui.focus = e
		e.focused = true
		ev := Event{Type: EventFocused, ByKey: byKey}
		ui.fire(e, &ev)
	}

	cev := Event{Type: EventFocusChanged, Target: ui.focus, Source: original, ByKey: byKey}
	for _, entry := range ui.observers[EventFocusChanged] {
		entry.fn(&cev)
	}
}

// focusableElement walks up from e to the first element that can alter
// focus: either focusable or a focus-resetting one.
func focusableElement(e *Element) *Element {
	for e != nil && e.FocusMode == FocusNotFocusable {
		e = e.Parent
	}
	return e
}

// cycleFocus moves focus to the next (or previous) focusable element within
// the focused element's top-level container, wrapping around.
func (ui *UI) cycleFocus(backward bool) {
	top := ui.focus
	for top.Parent != nil && top.Parent != ui.root && top.Parent != ui.modalRoot {
		top = top.Parent
	}

	var order []*Element
	collectFocusable(top, &order)
	if len(order) < 2 {
		return
	}

	current := 0
	for i, e := range order {
		if e == ui.focus {
			current = i
			break
		}
	}
	step := 1
	if backward {
		step = len(order) - 1
	}
	next := order[(current+step)%len(order)]
	ui.setFocusElement(next, true)
}

func collectFocusable(e *Element, out *[]*Element) {
	if (e.FocusMode == FocusFocusable || e.FocusMode == FocusFocusableDefocusable) &&
		e.Enabled && e.VisibleEffective() {
		*out = append(*out, e)
	}
	for _, child := range e.children {
		collectFocusable(child, out)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
