package trellis

import (
	"fmt"

	"golang.design/x/clipboard"
)

// Clipboard abstracts text copy/paste so text widgets work the same with or
// without OS integration.
type Clipboard interface {
	Text() string
	SetText(text string)
}

// memoryClipboard is the default backend: a plain string, private to the UI
// context. Useful headless and in tests.
type memoryClipboard struct {
	text string
}

func newMemoryClipboard() Clipboard { return &memoryClipboard{} }

func (c *memoryClipboard) Text() string        { return c.text }
func (c *memoryClipboard) SetText(text string) { c.text = text }

// systemClipboard bridges to the OS clipboard.
type systemClipboard struct{}

// NewSystemClipboard returns a clipboard backed by the OS clipboard. Returns
// an error when the platform clipboard is unavailable (for example headless
// Linux without X11); callers can fall back to the default in-memory backend.
func NewSystemClipboard() (Clipboard, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("trellis: system clipboard unavailable: %w", err)
	}
	return &systemClipboard{}, nil
}

func (c *systemClipboard) Text() string {
	return string(clipboard.Read(clipboard.FmtText))
}

func (c *systemClipboard) SetText(text string) {
	clipboard.Write(clipboard.FmtText, []byte(text))
}
