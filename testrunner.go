package trellis

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	FromX  int    `json:"fromX,omitempty"`
	FromY  int    `json:"fromY,omitempty"`
	ToX    int    `json:"toX,omitempty"`
	ToY    int    `json:"toY,omitempty"`
	Frames int    `json:"frames,omitempty"`
	Key    string `json:"key,omitempty"`
	Text   string `json:"text,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected input events and screenshots across frames
// for automated visual testing. Attach to a UI via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready to
// be attached via SetTestRunner. Supported actions: "move", "click",
// "drag", "key", "text", "screenshot", "wait".
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner. The runner's step method is called
// from UI.Update before timers advance each frame.
func (ui *UI) SetTestRunner(runner *TestRunner) {
	ui.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame. Called from UI.Update.
func (r *TestRunner) step(ui *UI) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(ui.injectQueue) > 0 {
		return
	}
	// Count down wait frames.
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		ui.Screenshot(st.Label)
	case "move":
		ui.InjectMove(IntVec2{st.X, st.Y})
	case "click":
		ui.InjectClick(IntVec2{st.X, st.Y}, MouseButtonLeft)
	case "drag":
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		ui.InjectDrag(IntVec2{st.FromX, st.FromY}, IntVec2{st.ToX, st.ToY}, MouseButtonLeft, frames)
	case "key":
		ui.InjectKey(scriptKey(st.Key), QualNone)
	case "text":
		ui.InjectText(st.Text)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	// Check if we've reached the end after executing.
	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(ui.injectQueue) == 0 {
		r.done = true
	}
}

// scriptKey maps a test-script key name to a router key.
func scriptKey(name string) Key {
	switch name {
	case "escape":
		return KeyEscape
	case "tab":
		return KeyTab
	case "return", "enter":
		return KeyReturn
	case "backspace":
		return KeyBackspace
	case "delete":
		return KeyDelete
	case "left":
		return KeyLeft
	case "right":
		return KeyRight
	case "up":
		return KeyUp
	case "down":
		return KeyDown
	case "home":
		return KeyHome
	case "end":
		return KeyEnd
	}
	return KeyNone
}
