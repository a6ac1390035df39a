package trellis

import "testing"

func TestLoadTestScriptRejectsBadInput(t *testing.T) {
	if _, err := LoadTestScript([]byte("not json")); err == nil {
		t.Error("malformed JSON should error")
	}
	if _, err := LoadTestScript([]byte(`{"steps": []}`)); err == nil {
		t.Error("empty step list should error")
	}
}

func TestTestRunnerDrivesClicks(t *testing.T) {
	ui, e := routerFixture(t)
	clicks := 0
	e.OnClick = func(*Event) { clicks++ }

	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "click", "x": 20, "y": 20}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	ui.SetTestRunner(runner)

	for i := 0; i < 20 && !runner.Done(); i++ {
		ui.ProcessInjectedInput()
		ui.Update(testDT)
	}

	if !runner.Done() {
		t.Fatal("runner should finish within the frame budget")
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}

func TestTestRunnerWaitDelaysNextStep(t *testing.T) {
	ui, e := routerFixture(t)
	clicks := 0
	e.OnClick = func(*Event) { clicks++ }

	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "wait", "frames": 5},
		{"action": "click", "x": 20, "y": 20}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	ui.SetTestRunner(runner)

	// Frames 1-5 are consumed by the wait; no click can land before that.
	for i := 0; i < 5; i++ {
		ui.ProcessInjectedInput()
		ui.Update(testDT)
	}
	if clicks != 0 {
		t.Errorf("click landed during the wait, clicks = %d", clicks)
	}

	for i := 0; i < 20 && !runner.Done(); i++ {
		ui.ProcessInjectedInput()
		ui.Update(testDT)
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1 after the wait", clicks)
	}
}

func TestTestRunnerDragScript(t *testing.T) {
	ui, _, target := dragDropFixture(t)
	finished := 0
	target.OnDragDropFinish = func(*Event) { finished++ }

	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "drag", "fromX": 10, "fromY": 10, "toX": 110, "toY": 10, "frames": 6}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	ui.SetTestRunner(runner)

	for i := 0; i < 40 && !runner.Done(); i++ {
		ui.ProcessInjectedInput()
		ui.Update(testDT)
	}

	if !runner.Done() {
		t.Fatal("runner should finish")
	}
	if finished != 1 {
		t.Errorf("DragDropFinish fired %d times, want 1", finished)
	}
}

func TestTestRunnerKeyScript(t *testing.T) {
	ui := NewUI(200, 200)
	b := NewButton("b", nil)
	ui.Root().AddChild(b)
	ui.SetFocusElement(b)
	var got Key
	b.OnKey = func(ev *Event) { got = ev.Key }

	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "key", "key": "return"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	ui.SetTestRunner(runner)

	for i := 0; i < 10 && !runner.Done(); i++ {
		ui.ProcessInjectedInput()
		ui.Update(testDT)
	}

	if got != KeyReturn {
		t.Errorf("routed key = %v, want KeyReturn", got)
	}
}

func TestScriptKeyNames(t *testing.T) {
	cases := map[string]Key{
		"escape":    KeyEscape,
		"tab":       KeyTab,
		"return":    KeyReturn,
		"enter":     KeyReturn,
		"backspace": KeyBackspace,
		"delete":    KeyDelete,
		"left":      KeyLeft,
		"right":     KeyRight,
		"up":        KeyUp,
		"down":      KeyDown,
		"home":      KeyHome,
		"end":       KeyEnd,
		"bogus":     KeyNone,
	}
	for name, want := range cases {
		if got := scriptKey(name); got != want {
			t.Errorf("scriptKey(%q) = %v, want %v", name, got, want)
		}
	}
}
