package trellis

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tooltips are regular elements attached as children of the element they
// describe. They stay invisible until the parent has been hovered for the
// tooltip delay, then fade in; they fade out when the hover ends.

// tooltipFadeDuration is the fade in/out time in seconds.
const tooltipFadeDuration = 0.15

// fadeTween drives an element opacity fade. hideOnDone marks a fade-out,
// which hides the element when it completes.
type fadeTween struct {
	tween      *gween.Tween
	hideOnDone bool
}

func newFadeTween(from, to float64, duration float64, hideOnDone bool) *fadeTween {
	return &fadeTween{
		tween:      gween.New(float32(from), float32(to), float32(duration), ease.OutQuad),
		hideOnDone: hideOnDone,
	}
}

// NewTooltip creates a tooltip container. Add it as a child of the element it
// describes, position it relative to that element, and add content (text,
// border images) as its children. Delay comes from the element's TooltipDelay
// when positive, otherwise the UI default.
func NewTooltip(name string) *Element {
	e := &Element{Name: name, Kind: KindTooltip}
	elementDefaults(e)
	e.Visible = false
	return e
}

// updateTooltips advances hover timers and fades for every tooltip in both
// trees. Called from Update each frame.
func (ui *UI) updateTooltips(dt float64) {
	ui.updateTooltipTree(ui.root, dt)
	ui.updateTooltipTree(ui.modalRoot, dt)
}

func (ui *UI) updateTooltipTree(e *Element, dt float64) {
	for _, child := range e.children {
		if child.Kind == KindTooltip {
			ui.updateTooltip(child, dt)
		}
		ui.updateTooltipTree(child, dt)
	}
}

func (ui *UI) updateTooltip(t *Element, dt float64) {
	parent := t.Parent
	hovered := parent != nil && parent.hovering

	if hovered {
		delay := t.TooltipDelay
		if delay <= 0 {
			delay = ui.tooltipDelay
		}
		t.tooltipTimer += dt
		if t.tooltipTimer >= delay && (!t.Visible || (t.tooltipTween != nil && t.tooltipTween.hideOnDone)) {
			// Interrupted fade-outs resume from their current opacity.
			if !t.Visible {
				t.SetOpacity(0)
			}
			t.Visible = true
			t.tooltipTween = newFadeTween(t.Opacity, 1, tooltipFadeDuration, false)
		}
	} else {
		t.tooltipTimer = 0
		if t.Visible && (t.tooltipTween == nil || !t.tooltipTween.hideOnDone) {
			t.tooltipTween = newFadeTween(t.Opacity, 0, tooltipFadeDuration, true)
		}
	}

	if t.tooltipTween != nil {
		value, done := t.tooltipTween.tween.Update(float32(dt))
		t.SetOpacity(float64(value))
		if done {
			if t.tooltipTween.hideOnDone {
				t.Visible = false
			}
			t.tooltipTween = nil
		}
	}
}
