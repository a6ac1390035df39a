package trellis

// EventType identifies a UI event.
type EventType int

const (
	EventClick EventType = iota
	EventClickEnd
	EventDoubleClick
	EventHoverBegin
	EventHoverEnd
	EventWheel
	EventDragBegin
	EventDragMove
	EventDragEnd
	EventDragCancel
	EventDragDropTest
	EventDragDropFinish
	EventFocused
	EventDefocused
	EventFocusChanged
	EventModalChanged
	EventKey
	EventTextInput
	EventToggled
	EventResized
	numEventTypes
)

func (t EventType) String() string {
	names := [...]string{
		"Click", "ClickEnd", "DoubleClick", "HoverBegin", "HoverEnd",
		"Wheel", "DragBegin", "DragMove", "DragEnd", "DragCancel",
		"DragDropTest", "DragDropFinish", "Focused", "Defocused",
		"FocusChanged", "ModalChanged", "Key", "TextInput", "Toggled",
		"Resized",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return "Unknown"
}

// Event carries the payload for one dispatched event. Fields outside the
// common set are meaningful only for matching types; Accept is read back by
// the router for the cancellable drag-drop events.
type Event struct {
	Type   EventType
	Target *Element

	Pos        IntVec2 // screen-space position
	ElementPos IntVec2 // position in Target's local space
	Button     MouseButton
	Buttons    MouseButton // all buttons held
	Qualifiers Qualifiers
	NumButtons int     // held button count, for multi-touch drags
	Delta      IntVec2 // movement since last event
	Wheel      int
	Key        Key
	Text       string
	Source     *Element // drag-drop source, or the clicked element for FocusChanged
	ByKey      bool     // focus acquired via Tab rather than click

	// Accept is the drag-drop verdict. It starts true; any handler may veto
	// by clearing it. For DragDropFinish it reports whether the payload was
	// taken.
	Accept bool
}

// Handle identifies a subscribed listener so it can be removed later.
type Handle uint64

var handleCounter Handle

func nextHandle() Handle {
	handleCounter++
	return handleCounter
}

type listenerEntry struct {
	handle Handle
	fn     func(*Event)
}

// Subscribe registers a listener for one event type on this element. It runs
// after the element's callback field and before UI-level observers.
func (e *Element) Subscribe(t EventType, fn func(*Event)) Handle {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]listenerEntry)
	}
	h := nextHandle()
	e.listeners[t] = append(e.listeners[t], listenerEntry{h, fn})
	return h
}

// Unsubscribe removes a listener by handle. Reports whether it was found.
func (e *Element) Unsubscribe(t EventType, h Handle) bool {
	entries := e.listeners[t]
	for i, entry := range entries {
		if entry.handle == h {
			copy(entries[i:], entries[i+1:])
			entries[len(entries)-1] = listenerEntry{}
			e.listeners[t] = entries[:len(entries)-1]
			return true
		}
	}
	return false
}

func (e *Element) dispatch(ev *Event) {
	for _, entry := range e.listeners[ev.Type] {
		entry.fn(ev)
	}
}

// callbackFor maps an event type to the element's callback field.
func (e *Element) callbackFor(t EventType) func(*Event) {
	switch t {
	case EventClick:
		return e.OnClick
	case EventClickEnd:
		return e.OnClickEnd
	case EventDoubleClick:
		return e.OnDoubleClick
	case EventHoverBegin:
		return e.OnHoverBegin
	case EventHoverEnd:
		return e.OnHoverEnd
	case EventWheel:
		return e.OnWheel
	case EventDragBegin:
		return e.OnDragBegin
	case EventDragMove:
		return e.OnDragMove
	case EventDragEnd:
		return e.OnDragEnd
	case EventDragCancel:
		return e.OnDragCancel
	case EventDragDropTest:
		return e.OnDragDropTest
	case EventDragDropFinish:
		return e.OnDragDropFinish
	case EventFocused:
		return e.OnFocus
	case EventDefocused:
		return e.OnDefocus
	case EventKey:
		return e.OnKey
	case EventTextInput:
		return e.OnTextInput
	case EventToggled:
		return e.OnToggle
	}
	return nil
}

// Observe registers a UI-level observer for one event type. Observers run
// last, after the target element's callback and listeners, so element-local
// handlers always see their own events first.
func (ui *UI) Observe(t EventType, fn func(*Event)) Handle {
	if ui.observers == nil {
		ui.observers = make(map[EventType][]listenerEntry)
	}
	h := nextHandle()
	ui.observers[t] = append(ui.observers[t], listenerEntry{h, fn})
	return h
}

// StopObserving removes a UI-level observer by handle.
func (ui *UI) StopObserving(t EventType, h Handle) bool {
	entries := ui.observers[t]
	for i, entry := range entries {
		if entry.handle == h {
			copy(entries[i:], entries[i+1:])
			entries[len(entries)-1] = listenerEntry{}
			ui.observers[t] = entries[:len(entries)-1]
			return true
		}
	}
	return false
}

// fire dispatches an event synchronously: the target's widget behavior has
// already run by the time this is called, then the target's callback field,
// its subscribed listeners, and finally the UI observers.
func (ui *UI) fire(target *Element, ev *Event) {
	ev.Target = target
	if target != nil && !target.disposed {
		if cb := target.callbackFor(ev.Type); cb != nil {
			cb(ev)
		}
		target.dispatch(ev)
	}
	for _, entry := range ui.observers[ev.Type] {
		entry.fn(ev)
	}
}
