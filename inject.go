package trellis

// Synthetic input: queued events that feed the router exactly like real
// input, one per frame, so drag promotion, double-click timing and hover
// grace behave identically. Useful for automation and integration tests.

type syntheticEventKind uint8

const (
	syntheticMove syntheticEventKind = iota
	syntheticDown
	syntheticUp
	syntheticWheel
	syntheticKey
	syntheticText
)

type syntheticEvent struct {
	kind       syntheticEventKind
	pos        IntVec2
	button     MouseButton
	qualifiers Qualifiers
	wheel      int
	key        Key
	text       string
}

// InjectMove queues a pointer move to the given UI-space position.
func (ui *UI) InjectMove(pos IntVec2) {
	ui.injectQueue = append(ui.injectQueue, syntheticEvent{kind: syntheticMove, pos: pos})
}

// InjectPress queues a button press at the given position. A move to the
// position is queued first so hover state matches real input.
func (ui *UI) InjectPress(pos IntVec2, button MouseButton) {
	ui.InjectMove(pos)
	ui.injectQueue = append(ui.injectQueue, syntheticEvent{kind: syntheticDown, pos: pos, button: button})
}

// InjectRelease queues a button release at the given position.
func (ui *UI) InjectRelease(pos IntVec2, button MouseButton) {
	ui.InjectMove(pos)
	ui.injectQueue = append(ui.injectQueue, syntheticEvent{kind: syntheticUp, pos: pos, button: button})
}

// InjectClick queues a press followed by a release at the same position.
func (ui *UI) InjectClick(pos IntVec2, button MouseButton) {
	ui.InjectPress(pos, button)
	ui.InjectRelease(pos, button)
}

// InjectDrag queues a full drag: press at from, linearly interpolated moves
// over frames-2 intermediate frames, release at to. Minimum frames is 2.
func (ui *UI) InjectDrag(from, to IntVec2, button MouseButton, frames int) {
	if frames < 2 {
		frames = 2
	}
	ui.InjectPress(from, button)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		pos := IntVec2{
			X: from.X + (to.X-from.X)*i/(steps+1),
			Y: from.Y + (to.Y-from.Y)*i/(steps+1),
		}
		ui.InjectMove(pos)
	}
	ui.InjectRelease(to, button)
}

// InjectWheel queues a wheel step at the current pointer position.
func (ui *UI) InjectWheel(delta int, qualifiers Qualifiers) {
	ui.injectQueue = append(ui.injectQueue, syntheticEvent{kind: syntheticWheel, wheel: delta, qualifiers: qualifiers})
}

// InjectKey queues a key press.
func (ui *UI) InjectKey(key Key, qualifiers Qualifiers) {
	ui.injectQueue = append(ui.injectQueue, syntheticEvent{kind: syntheticKey, key: key, qualifiers: qualifiers})
}

// InjectText queues a text input event.
func (ui *UI) InjectText(text string) {
	ui.injectQueue = append(ui.injectQueue, syntheticEvent{kind: syntheticText, text: text})
}

// ProcessInjectedInput pops one queued event and routes it. Returns true if
// an event was consumed; hosts skip real pointer input that frame so the two
// streams never interleave. [Run] calls this automatically.
func (ui *UI) ProcessInjectedInput() bool {
	if len(ui.injectQueue) == 0 {
		return false
	}
	evt := ui.injectQueue[0]
	copy(ui.injectQueue, ui.injectQueue[1:])
	ui.injectQueue = ui.injectQueue[:len(ui.injectQueue)-1]

	switch evt.kind {
	case syntheticMove:
		ui.MouseMove(evt.pos)
	case syntheticDown:
		ui.MouseMove(evt.pos)
		ui.MouseButtonDown(evt.button, evt.qualifiers)
	case syntheticUp:
		ui.MouseMove(evt.pos)
		ui.MouseButtonUp(evt.button, evt.qualifiers)
	case syntheticWheel:
		ui.MouseWheel(evt.wheel, evt.qualifiers)
	case syntheticKey:
		ui.KeyDown(evt.key, evt.qualifiers)
	case syntheticText:
		ui.TextInput(evt.text)
	}
	return true
}
