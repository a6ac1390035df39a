package trellis

import "testing"

const testDT = 1.0 / 60

// routerFixture is a UI with one 50x50 panel at (10, 10) for pointer tests.
func routerFixture(t *testing.T) (*UI, *Element) {
	t.Helper()
	ui := NewUI(200, 200)
	e := NewBorderImage("panel", nil)
	e.SetPosition(10, 10)
	e.SetSize(50, 50)
	ui.Root().AddChild(e)
	return ui, e
}

// --- Hover ---

func TestHoverBeginOnPointerEnter(t *testing.T) {
	ui, e := routerFixture(t)
	entered := 0
	e.OnHoverBegin = func(*Event) { entered++ }

	ui.MouseMove(IntVec2{20, 20})
	ui.Update(testDT)

	if entered != 1 {
		t.Errorf("HoverBegin fired %d times, want 1", entered)
	}
	if !e.Hovering() {
		t.Error("element should report hovering")
	}

	// Staying put must not refire.
	ui.Update(testDT)
	if entered != 1 {
		t.Errorf("HoverBegin refired while stationary, count = %d", entered)
	}
}

func TestHoverEndOnPointerLeave(t *testing.T) {
	ui, e := routerFixture(t)
	ended := 0
	e.OnHoverEnd = func(*Event) { ended++ }

	ui.MouseMove(IntVec2{20, 20})
	ui.Update(testDT)
	ui.MouseMove(IntVec2{150, 150})
	ui.Update(testDT)

	if ended != 1 {
		t.Errorf("HoverEnd fired %d times, want 1", ended)
	}
	if e.Hovering() {
		t.Error("element should no longer report hovering")
	}
}

func TestHoverMovesBetweenSiblings(t *testing.T) {
	ui, a := routerFixture(t)
	b := NewBorderImage("other", nil)
	b.SetPosition(100, 10)
	b.SetSize(50, 50)
	ui.Root().AddChild(b)

	ui.MouseMove(IntVec2{20, 20})
	ui.Update(testDT)
	ui.MouseMove(IntVec2{110, 20})
	ui.Update(testDT)

	if a.Hovering() {
		t.Error("left element should have lost hover")
	}
	if !b.Hovering() {
		t.Error("entered element should be hovering")
	}
}

// --- Click ---

func TestClickFiresOnElementUnderPointer(t *testing.T) {
	ui, e := routerFixture(t)
	var got *Event
	e.OnClick = func(ev *Event) { c := *ev; got = &c }

	ui.MouseMove(IntVec2{25, 30})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)

	if got == nil {
		t.Fatal("OnClick not fired")
	}
	if got.Pos != (IntVec2{25, 30}) {
		t.Errorf("Pos = %v, want {25 30}", got.Pos)
	}
	if got.ElementPos != (IntVec2{15, 20}) {
		t.Errorf("ElementPos = %v, want {15 20}", got.ElementPos)
	}
	if got.Button != MouseButtonLeft {
		t.Errorf("Button = %v, want left", got.Button)
	}
}

func TestClickEndFiresOnRelease(t *testing.T) {
	ui, e := routerFixture(t)
	ends := 0
	e.OnClickEnd = func(*Event) { ends++ }

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseButtonUp(MouseButtonLeft, QualNone)

	if ends != 1 {
		t.Errorf("ClickEnd fired %d times, want 1", ends)
	}
}

func TestClickOnEmptySpaceFiresNilTarget(t *testing.T) {
	ui, e := routerFixture(t)
	clicked := 0
	e.OnClick = func(*Event) { clicked++ }
	observed := 0
	ui.Observe(EventClick, func(ev *Event) {
		if ev.Target == nil {
			observed++
		}
	})

	ui.MouseMove(IntVec2{150, 150})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)

	if clicked != 0 {
		t.Error("element should not receive empty-space click")
	}
	if observed != 1 {
		t.Errorf("nil-target click observed %d times, want 1", observed)
	}
}

func TestClickSkipsDisabledElement(t *testing.T) {
	ui, e := routerFixture(t)
	e.Enabled = false
	clicked := 0
	e.OnClick = func(*Event) { clicked++ }

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)

	if clicked != 0 {
		t.Error("disabled element should not receive clicks")
	}
}

func TestButtonPressedState(t *testing.T) {
	ui := NewUI(200, 200)
	b := NewButton("b", nil)
	b.SetPosition(10, 10)
	b.SetSize(50, 20)
	ui.Root().AddChild(b)

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	if !b.Pressed() {
		t.Error("button should be pressed while held")
	}
	ui.MouseButtonUp(MouseButtonLeft, QualNone)
	if b.Pressed() {
		t.Error("button should release on mouse up")
	}
}

// --- Checkbox toggling ---

func TestCheckboxTogglesOnCompletedClick(t *testing.T) {
	ui := NewUI(200, 200)
	c := NewCheckbox("c", nil)
	c.SetPosition(10, 10)
	c.SetSize(20, 20)
	ui.Root().AddChild(c)

	var toggled []bool
	c.OnToggle = func(ev *Event) { toggled = append(toggled, ev.Accept) }

	ui.MouseMove(IntVec2{15, 15})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseButtonUp(MouseButtonLeft, QualNone)

	if !c.Checked {
		t.Error("checkbox should be checked after a click")
	}
	if len(toggled) != 1 || !toggled[0] {
		t.Errorf("Toggled events = %v, want [true]", toggled)
	}

	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseButtonUp(MouseButtonLeft, QualNone)
	if c.Checked {
		t.Error("second click should uncheck")
	}
	if len(toggled) != 2 || toggled[1] {
		t.Errorf("Toggled events = %v, want [true false]", toggled)
	}
}

func TestCheckboxReleaseOutsideDoesNotToggle(t *testing.T) {
	ui := NewUI(200, 200)
	c := NewCheckbox("c", nil)
	c.SetPosition(10, 10)
	c.SetSize(20, 20)
	ui.Root().AddChild(c)

	ui.MouseMove(IntVec2{15, 15})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseMove(IntVec2{100, 100})
	ui.MouseButtonUp(MouseButtonLeft, QualNone)

	if c.Checked {
		t.Error("release outside the checkbox must not toggle it")
	}
}

// --- Double click ---

func TestDoubleClick(t *testing.T) {
	ui, e := routerFixture(t)
	doubles := 0
	e.OnDoubleClick = func(*Event) { doubles++ }

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseButtonUp(MouseButtonLeft, QualNone)
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseButtonUp(MouseButtonLeft, QualNone)

	if doubles != 1 {
		t.Errorf("DoubleClick fired %d times, want 1", doubles)
	}

	// Third click starts a fresh sequence, no second double.
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseButtonUp(MouseButtonLeft, QualNone)
	if doubles != 1 {
		t.Errorf("third click produced a double, count = %d", doubles)
	}
}

func TestDoubleClickExpiresWithTime(t *testing.T) {
	ui, e := routerFixture(t)
	doubles := 0
	e.OnDoubleClick = func(*Event) { doubles++ }

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseButtonUp(MouseButtonLeft, QualNone)
	ui.Update(DefaultDoubleClickInterval + 0.1)
	ui.MouseButtonDown(MouseButtonLeft, QualNone)

	if doubles != 0 {
		t.Error("clicks outside the interval must not form a double click")
	}
}

func TestDoubleClickRequiresSameButton(t *testing.T) {
	ui, e := routerFixture(t)
	doubles := 0
	e.OnDoubleClick = func(*Event) { doubles++ }

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseButtonUp(MouseButtonLeft, QualNone)
	ui.MouseButtonDown(MouseButtonRight, QualNone)

	if doubles != 0 {
		t.Error("different buttons must not form a double click")
	}
}

func TestDoubleClickRequiresProximity(t *testing.T) {
	ui, e := routerFixture(t)
	doubles := 0
	e.OnDoubleClick = func(*Event) { doubles++ }

	ui.SetDragBeginDistance(1000) // keep the move from starting a drag
	ui.MouseMove(IntVec2{12, 12})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseButtonUp(MouseButtonLeft, QualNone)
	ui.MouseMove(IntVec2{50, 50})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)

	if doubles != 0 {
		t.Error("clicks far apart must not form a double click")
	}
}

// --- Drag promotion ---

func TestDragConfirmsByDistance(t *testing.T) {
	ui, e := routerFixture(t)
	var began *Event
	e.OnDragBegin = func(ev *Event) { c := *ev; began = &c }
	moves := 0
	e.OnDragMove = func(*Event) { moves++ }

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseMove(IntVec2{20 + DefaultDragBeginDistance, 20})

	if began == nil {
		t.Fatal("drag should confirm after moving past the distance")
	}
	if began.NumButtons != 1 {
		t.Errorf("NumButtons = %d, want 1", began.NumButtons)
	}
	if moves != 1 {
		t.Errorf("DragMove fired %d times, want 1", moves)
	}
	if len(ui.DragElements()) != 1 {
		t.Errorf("DragElements = %d, want 1", len(ui.DragElements()))
	}
}

func TestDragConfirmsByHoldTime(t *testing.T) {
	ui, e := routerFixture(t)
	begins := 0
	e.OnDragBegin = func(*Event) { begins++ }

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	if len(ui.DragElements()) != 0 {
		t.Fatal("pending drag must not appear in DragElements")
	}
	ui.Update(DefaultDragBeginInterval)

	if begins != 1 {
		t.Errorf("DragBegin fired %d times, want 1", begins)
	}
	if len(ui.DragElements()) != 1 {
		t.Errorf("DragElements = %d, want 1", len(ui.DragElements()))
	}
}

func TestSmallMoveStaysPending(t *testing.T) {
	ui, e := routerFixture(t)
	begins := 0
	e.OnDragBegin = func(*Event) { begins++ }

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseMove(IntVec2{21, 21})

	if begins != 0 {
		t.Error("movement under the threshold must not confirm a drag")
	}
}

func TestDragEndOnRelease(t *testing.T) {
	ui, e := routerFixture(t)
	ends := 0
	e.OnDragEnd = func(*Event) { ends++ }

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseMove(IntVec2{40, 20})
	ui.MouseButtonUp(MouseButtonLeft, QualNone)

	if ends != 1 {
		t.Errorf("DragEnd fired %d times, want 1", ends)
	}
	if len(ui.DragElements()) != 0 {
		t.Error("drag session should be gone after release")
	}
}

func TestPendingReleaseSkipsDragEnd(t *testing.T) {
	ui, e := routerFixture(t)
	ends := 0
	e.OnDragEnd = func(*Event) { ends++ }

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseButtonUp(MouseButtonLeft, QualNone)

	if ends != 0 {
		t.Error("releasing a pending session must not fire DragEnd")
	}
}

// --- Drag and drop ---

func dragDropFixture(t *testing.T) (*UI, *Element, *Element) {
	t.Helper()
	ui := NewUI(300, 200)
	source := NewBorderImage("source", nil)
	source.SetPosition(0, 0)
	source.SetSize(40, 40)
	source.DragDrop = DragDropSource
	target := NewBorderImage("target", nil)
	target.SetPosition(100, 0)
	target.SetSize(40, 40)
	target.DragDrop = DragDropTarget
	ui.Root().AddChild(source)
	ui.Root().AddChild(target)
	return ui, source, target
}

func TestDragDropTestFiresOverTarget(t *testing.T) {
	ui, source, target := dragDropFixture(t)
	var tested *Event
	target.OnDragDropTest = func(ev *Event) { c := *ev; tested = &c }

	ui.MouseMove(IntVec2{10, 10})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseMove(IntVec2{110, 10})

	if tested == nil {
		t.Fatal("DragDropTest should fire while dragging over a target")
	}
	if tested.Source != source {
		t.Error("test event should carry the drag source")
	}
	if !tested.Accept {
		t.Error("Accept should default to true")
	}
}

func TestDragDropFinishOnRelease(t *testing.T) {
	ui, source, target := dragDropFixture(t)
	var finished *Event
	target.OnDragDropFinish = func(ev *Event) { c := *ev; finished = &c }

	ui.MouseMove(IntVec2{10, 10})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseMove(IntVec2{110, 10})
	ui.MouseButtonUp(MouseButtonLeft, QualNone)

	if finished == nil {
		t.Fatal("DragDropFinish should fire on release over a target")
	}
	if finished.Source != source {
		t.Error("finish event should carry the drag source")
	}
	if finished.ElementPos != (IntVec2{10, 10}) {
		t.Errorf("ElementPos = %v, want target-local {10 10}", finished.ElementPos)
	}
}

func TestDragDropSkipsNonSource(t *testing.T) {
	ui, source, target := dragDropFixture(t)
	source.DragDrop = DragDropDisabled
	finished := 0
	target.OnDragDropFinish = func(*Event) { finished++ }

	ui.MouseMove(IntVec2{10, 10})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseMove(IntVec2{110, 10})
	ui.MouseButtonUp(MouseButtonLeft, QualNone)

	if finished != 0 {
		t.Error("a non-source element must not produce drop finish events")
	}
}

func TestDragDropSkipsNonTarget(t *testing.T) {
	ui, _, target := dragDropFixture(t)
	target.DragDrop = DragDropDisabled
	finished := 0
	target.OnDragDropFinish = func(*Event) { finished++ }

	ui.MouseMove(IntVec2{10, 10})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseMove(IntVec2{110, 10})
	ui.MouseButtonUp(MouseButtonLeft, QualNone)

	if finished != 0 {
		t.Error("a non-target element must not receive drop finish events")
	}
}

// --- Drag cancellation ---

func TestEscapeCancelsConfirmedDrag(t *testing.T) {
	ui, e := routerFixture(t)
	cancels := 0
	e.OnDragCancel = func(*Event) { cancels++ }

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseMove(IntVec2{40, 20})
	ui.KeyDown(KeyEscape, QualNone)

	if cancels != 1 {
		t.Errorf("DragCancel fired %d times, want 1", cancels)
	}
	if len(ui.DragElements()) != 0 {
		t.Error("cancelled drag should be removed")
	}
}

func TestDragAutoCancelsWhenHidden(t *testing.T) {
	ui, e := routerFixture(t)
	cancels := 0
	e.OnDragCancel = func(*Event) { cancels++ }

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseMove(IntVec2{40, 20})
	e.Visible = false
	ui.Update(testDT)

	if cancels != 1 {
		t.Errorf("DragCancel fired %d times, want 1", cancels)
	}
}

func TestDragAutoCancelsWhenDisabled(t *testing.T) {
	ui, e := routerFixture(t)
	cancels := 0
	e.OnDragCancel = func(*Event) { cancels++ }

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseMove(IntVec2{40, 20})
	e.Enabled = false
	ui.Update(testDT)

	if cancels != 1 {
		t.Errorf("DragCancel fired %d times, want 1", cancels)
	}
}

// --- Escape and modals ---

func TestEscapeDismissesFrontModal(t *testing.T) {
	ui, e := routerFixture(t)
	if !ui.SetModal(e, true) {
		t.Fatal("SetModal failed")
	}

	ui.KeyDown(KeyEscape, QualNone)

	if e.Modal {
		t.Error("Escape should dismiss the modal element")
	}
	if ui.HasModalElement() {
		t.Error("modal tree should be empty")
	}
}

func TestEscapePrefersDragCancelOverModal(t *testing.T) {
	ui := NewUI(200, 200)
	m := NewBorderImage("modal", nil)
	m.SetSize(200, 200)
	ui.Root().AddChild(m)
	ui.SetModal(m, true)

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseMove(IntVec2{40, 20})

	ui.KeyDown(KeyEscape, QualNone)
	if !m.Modal {
		t.Error("first Escape should cancel the drag, not the modal")
	}
	ui.KeyDown(KeyEscape, QualNone)
	if m.Modal {
		t.Error("second Escape should dismiss the modal")
	}
}

// --- Modal input containment ---

func TestModalBlocksOutsideClicks(t *testing.T) {
	ui, e := routerFixture(t)
	clicked := 0
	e.OnClick = func(*Event) { clicked++ }

	modal := NewBorderImage("modal", nil)
	modal.SetPosition(100, 100)
	modal.SetSize(50, 50)
	ui.Root().AddChild(modal)
	ui.SetModal(modal, true)

	ui.MouseMove(IntVec2{20, 20}) // over e, outside the modal
	ui.MouseButtonDown(MouseButtonLeft, QualNone)

	if clicked != 0 {
		t.Error("elements outside the modal tree must not receive clicks")
	}
}

func TestModalReceivesItsOwnClicks(t *testing.T) {
	ui := NewUI(200, 200)
	modal := NewBorderImage("modal", nil)
	modal.SetPosition(100, 100)
	modal.SetSize(50, 50)
	ui.Root().AddChild(modal)
	ui.SetModal(modal, true)
	clicked := 0
	modal.OnClick = func(*Event) { clicked++ }

	ui.MouseMove(IntVec2{110, 110})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)

	if clicked != 1 {
		t.Errorf("modal element clicks = %d, want 1", clicked)
	}
}

func TestModalBlocksOutsideHover(t *testing.T) {
	ui, e := routerFixture(t)
	modal := NewBorderImage("modal", nil)
	modal.SetPosition(100, 100)
	modal.SetSize(50, 50)
	ui.Root().AddChild(modal)
	ui.SetModal(modal, true)

	ui.MouseMove(IntVec2{20, 20})
	ui.Update(testDT)

	if e.Hovering() {
		t.Error("elements outside the modal tree must not hover")
	}
}

// --- Focus ---

func TestClickFocusesButton(t *testing.T) {
	ui := NewUI(200, 200)
	b := NewButton("b", nil)
	b.SetPosition(10, 10)
	b.SetSize(50, 20)
	ui.Root().AddChild(b)
	focused, defocused := 0, 0
	b.OnFocus = func(*Event) { focused++ }
	b.OnDefocus = func(*Event) { defocused++ }

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseButtonUp(MouseButtonLeft, QualNone)

	if ui.FocusElement() != b || !b.Focused() {
		t.Error("button should hold focus after a click")
	}
	if focused != 1 {
		t.Errorf("Focused fired %d times, want 1", focused)
	}

	// Clicking empty space clears focus.
	ui.MouseMove(IntVec2{150, 150})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	if ui.FocusElement() != nil || b.Focused() {
		t.Error("empty-space click should clear focus")
	}
	if defocused != 1 {
		t.Errorf("Defocused fired %d times, want 1", defocused)
	}
}

func TestClickWalksUpToFocusableAncestor(t *testing.T) {
	ui := NewUI(200, 200)
	w := NewWindow("w", nil)
	w.SetPosition(10, 10)
	w.SetSize(100, 100)
	ui.Root().AddChild(w)
	label := NewBorderImage("label", nil)
	label.SetPosition(20, 20)
	label.SetSize(40, 20)
	w.AddChild(label)

	ui.MouseMove(IntVec2{40, 40}) // over the non-focusable label
	ui.MouseButtonDown(MouseButtonLeft, QualNone)

	if ui.FocusElement() != w {
		t.Error("focus should land on the nearest focusable ancestor")
	}
}

func TestDefocusableReleasesOnSecondClick(t *testing.T) {
	ui := NewUI(200, 200)
	b := NewButton("b", nil)
	b.FocusMode = FocusFocusableDefocusable
	b.SetPosition(10, 10)
	b.SetSize(50, 20)
	ui.Root().AddChild(b)

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	ui.MouseButtonUp(MouseButtonLeft, QualNone)
	if ui.FocusElement() != b {
		t.Fatal("first click should focus")
	}
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	if ui.FocusElement() != nil {
		t.Error("second click on a defocusable element should clear focus")
	}
}

func TestFocusChangedObserver(t *testing.T) {
	ui := NewUI(200, 200)
	b := NewButton("b", nil)
	b.SetSize(20, 20)
	ui.Root().AddChild(b)

	var changes []*Element
	ui.Observe(EventFocusChanged, func(ev *Event) { changes = append(changes, ev.Target) })

	ui.SetFocusElement(b)
	ui.SetFocusElement(nil)

	if len(changes) != 2 || changes[0] != b || changes[1] != nil {
		t.Errorf("FocusChanged targets = %v, want [b nil]", changes)
	}
}

func TestSetFocusContainedByModal(t *testing.T) {
	ui := NewUI(200, 200)
	outside := NewButton("outside", nil)
	outside.SetSize(20, 20)
	ui.Root().AddChild(outside)
	modal := NewBorderImage("modal", nil)
	ui.Root().AddChild(modal)
	ui.SetModal(modal, true)

	ui.SetFocusElement(outside)
	if ui.FocusElement() == outside {
		t.Error("focus must stay inside the modal tree")
	}
}

func TestFocusDisposedElementIgnored(t *testing.T) {
	ui := NewUI(200, 200)
	b := NewButton("b", nil)
	ui.Root().AddChild(b)
	b.Dispose()

	ui.SetFocusElement(b)
	if ui.FocusElement() != nil {
		t.Error("disposed elements must not take focus")
	}
}

// --- Focus cycling ---

func focusCycleFixture(t *testing.T) (*UI, *Element, *Element, *Element) {
	t.Helper()
	ui := NewUI(300, 200)
	panel := NewElement("panel")
	panel.SetSize(300, 200)
	ui.Root().AddChild(panel)

	a := NewButton("a", nil)
	a.SetPosition(10, 10)
	a.SetSize(40, 20)
	b := NewButton("b", nil)
	b.SetPosition(10, 40)
	b.SetSize(40, 20)
	c := NewButton("c", nil)
	c.SetPosition(10, 70)
	c.SetSize(40, 20)
	panel.AddChild(a)
	panel.AddChild(b)
	panel.AddChild(c)
	return ui, a, b, c
}

func TestTabCyclesFocusForward(t *testing.T) {
	ui, a, b, c := focusCycleFixture(t)
	ui.SetFocusElement(a)

	ui.KeyDown(KeyTab, QualNone)
	if ui.FocusElement() != b {
		t.Errorf("focus = %v, want b", ui.FocusElement())
	}
	ui.KeyDown(KeyTab, QualNone)
	if ui.FocusElement() != c {
		t.Errorf("focus = %v, want c", ui.FocusElement())
	}
	ui.KeyDown(KeyTab, QualNone)
	if ui.FocusElement() != a {
		t.Error("Tab should wrap back to the first element")
	}
}

func TestShiftTabCyclesBackward(t *testing.T) {
	ui, a, _, c := focusCycleFixture(t)
	ui.SetFocusElement(a)

	ui.KeyDown(KeyTab, QualShift)
	if ui.FocusElement() != c {
		t.Error("Shift+Tab should wrap backward to the last element")
	}
}

func TestTabSkipsHiddenAndDisabled(t *testing.T) {
	ui, a, b, c := focusCycleFixture(t)
	b.Visible = false
	ui.SetFocusElement(a)

	ui.KeyDown(KeyTab, QualNone)
	if ui.FocusElement() != c {
		t.Error("Tab should skip invisible elements")
	}
}

func TestTabWithoutFocusRoutesAsKey(t *testing.T) {
	ui, _, _, _ := focusCycleFixture(t)
	keys := 0
	ui.Observe(EventKey, func(*Event) { keys++ })

	ui.KeyDown(KeyTab, QualNone)
	if keys != 1 {
		t.Errorf("unfocused Tab should dispatch as a key event, got %d", keys)
	}
}

// --- Keyboard and text routing ---

func TestKeyDownRoutesToFocused(t *testing.T) {
	ui := NewUI(200, 200)
	b := NewButton("b", nil)
	ui.Root().AddChild(b)
	ui.SetFocusElement(b)

	var got Key
	b.OnKey = func(ev *Event) { got = ev.Key }
	ui.KeyDown(KeyReturn, QualNone)

	if got != KeyReturn {
		t.Errorf("focused element got key %v, want KeyReturn", got)
	}
}

func TestTextInputRoutesToFocused(t *testing.T) {
	ui := NewUI(200, 200)
	b := NewButton("b", nil)
	ui.Root().AddChild(b)
	ui.SetFocusElement(b)

	var got string
	b.OnTextInput = func(ev *Event) { got += ev.Text }
	ui.TextInput("hi")
	ui.TextInput("") // dropped

	if got != "hi" {
		t.Errorf("text = %q, want %q", got, "hi")
	}
}

// --- Wheel ---

func TestWheelPrefersFocusedElement(t *testing.T) {
	ui, e := routerFixture(t)
	b := NewButton("b", nil)
	b.SetPosition(100, 100)
	b.SetSize(20, 20)
	ui.Root().AddChild(b)
	ui.SetFocusElement(b)

	hits := 0
	b.OnWheel = func(ev *Event) {
		hits++
		if ev.Wheel != -1 {
			t.Errorf("Wheel = %d, want -1", ev.Wheel)
		}
	}
	e.OnWheel = func(*Event) { t.Error("unfocused element got the wheel event") }

	ui.MouseMove(IntVec2{20, 20}) // over e, but b holds focus
	ui.MouseWheel(-1, QualNone)

	if hits != 1 {
		t.Errorf("focused wheel events = %d, want 1", hits)
	}
}

func TestWheelFallsBackToHovered(t *testing.T) {
	ui, e := routerFixture(t)
	hits := 0
	e.OnWheel = func(*Event) { hits++ }

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseWheel(1, QualNone)

	if hits != 1 {
		t.Errorf("under-cursor wheel events = %d, want 1", hits)
	}
}

// --- Button repeat ---

func TestButtonRepeatFiresWhileHeld(t *testing.T) {
	ui := NewUI(200, 200)
	b := NewButton("b", nil)
	b.SetPosition(10, 10)
	b.SetSize(50, 20)
	b.RepeatDelay = 0.1
	b.RepeatRate = 10
	ui.Root().AddChild(b)

	clicks := 0
	b.OnClick = func(*Event) { clicks++ }

	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	if clicks != 1 {
		t.Fatalf("initial click count = %d, want 1", clicks)
	}

	clicks = 0
	ui.Update(0.3)
	if clicks != 3 {
		t.Errorf("repeat clicks over 0.3s = %d, want 3", clicks)
	}

	ui.MouseButtonUp(MouseButtonLeft, QualNone)
	clicks = 0
	ui.Update(0.3)
	if clicks != 0 {
		t.Errorf("released button still repeated %d times", clicks)
	}
}

func TestButtonWithoutRepeatRateDoesNotRepeat(t *testing.T) {
	ui := NewUI(200, 200)
	b := NewButton("b", nil)
	b.SetPosition(10, 10)
	b.SetSize(50, 20)
	ui.Root().AddChild(b)

	clicks := 0
	b.OnClick = func(*Event) { clicks++ }
	ui.MouseMove(IntVec2{20, 20})
	ui.MouseButtonDown(MouseButtonLeft, QualNone)
	clicks = 0
	ui.Update(1.0)

	if clicks != 0 {
		t.Errorf("zero-rate button repeated %d times", clicks)
	}
}

// --- Touch ---

func TestTouchClick(t *testing.T) {
	ui, e := routerFixture(t)
	var got *Event
	e.OnClick = func(ev *Event) { c := *ev; got = &c }

	ui.TouchBegin(0, IntVec2{20, 20})
	if got == nil {
		t.Fatal("touch begin should fire a click")
	}
	if got.Button != TouchIDMask(0) {
		t.Errorf("Button = %v, want touch mask %v", got.Button, TouchIDMask(0))
	}
	ui.TouchEnd(0, IntVec2{20, 20})
}

func TestTouchDragConfirms(t *testing.T) {
	ui, e := routerFixture(t)
	begins := 0
	e.OnDragBegin = func(*Event) { begins++ }

	ui.TouchBegin(0, IntVec2{20, 20})
	ui.TouchMove(0, IntVec2{20 + DefaultDragBeginDistance, 20})

	if begins != 1 {
		t.Errorf("DragBegin fired %d times, want 1", begins)
	}
}

func TestMultiTouchCentroidDrivesDrag(t *testing.T) {
	ui, e := routerFixture(t)
	var began *Event
	e.OnDragBegin = func(ev *Event) { c := *ev; began = &c }

	ui.TouchBegin(0, IntVec2{20, 20})
	ui.TouchBegin(1, IntVec2{40, 20})

	// Moving one finger by 2*distance shifts the two-finger centroid by
	// exactly the distance threshold.
	ui.TouchMove(0, IntVec2{20 + 2*DefaultDragBeginDistance, 20})

	if began == nil {
		t.Fatal("centroid movement should confirm the drag")
	}
	if began.NumButtons != 2 {
		t.Errorf("NumButtons = %d, want 2", began.NumButtons)
	}
}

func TestTouchMoveForUnknownIDIgnored(t *testing.T) {
	ui, e := routerFixture(t)
	e.OnDragBegin = func(*Event) { t.Error("unknown touch should not drive drags") }
	ui.TouchMove(7, IntVec2{100, 100})
}
