package trellis

import (
	"fmt"
	"os"
)

// globalDebug enables liveness checks and diagnostic logging. Off by default;
// the checks are skipped entirely in release use.
var globalDebug bool

// SetDebug toggles debug mode: disposed-element checks panic with context,
// structural warnings print to stderr, and internal errors (such as shader
// compile failures) are logged instead of silently ignored.
func SetDebug(enabled bool) {
	globalDebug = enabled
}

// debugLog prints a diagnostic line to stderr when debug mode is on.
func debugLog(format string, args ...any) {
	if !globalDebug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[trellis] "+format+"\n", args...)
}

// debugCheckDisposed panics with a descriptive message when a disposed
// element is used in a tree operation. Only called when debug mode is on.
func debugCheckDisposed(e *Element, op string) {
	if e.disposed {
		panic(fmt.Sprintf("trellis debug: %s on disposed element %q (ID was %d)", op, e.Name, e.ID))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(e *Element) {
	depth := 0
	for p := e; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[trellis] warning: tree depth %d exceeds %d (element %q)\n",
			depth, debugMaxTreeDepth, e.Name)
	}
}

// debugCheckChildCount warns on stderr if an element has more than 1000
// children.
const debugMaxChildCount = 1000

func debugCheckChildCount(e *Element) {
	if len(e.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[trellis] warning: element %q has %d children (threshold %d)\n",
			e.Name, len(e.children), debugMaxChildCount)
	}
}
