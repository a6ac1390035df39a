package trellis

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig configures the window and game loop created by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int

	// Scale sets the UI pixel scale (default 1).
	Scale float64

	// Resizable makes the window resizable; the UI resizes with it.
	Resizable bool

	// ClearColor fills the screen before the UI draws.
	ClearColor Color

	// Update runs every tick after input routing, with the frame delta in
	// seconds. Returning an error stops the loop.
	Update func(dt float64) error

	// Draw runs after the UI draws, for overlays.
	Draw func(screen *ebiten.Image)

	// ShowFPS overlays an FPS/TPS counter.
	ShowFPS bool
}

// Run creates a window and runs the UI with input polled from ebiten. For
// full control implement [ebiten.Game] yourself, feed the router from your
// own input handling, and call [UI.Update], [UI.CollectBatches] and
// [UI.Draw] directly.
func Run(ui *UI, config RunConfig) error {
	if config.Width <= 0 || config.Height <= 0 {
		return fmt.Errorf("trellis: RunConfig requires positive Width and Height")
	}
	if config.Scale > 0 {
		ui.SetScale(config.Scale)
	}
	ebiten.SetWindowTitle(config.Title)
	ebiten.SetWindowSize(config.Width, config.Height)
	if config.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	g := &game{ui: ui, config: config}
	ui.Resize(config.Width, config.Height)
	return ebiten.RunGame(g)
}

type game struct {
	ui     *UI
	config RunConfig

	lastWidth  int
	lastHeight int
}

func (g *game) Update() error {
	// One injected event per tick replaces real pointer input that tick.
	if !g.ui.ProcessInjectedInput() {
		g.pollPointer()
	}
	g.pollKeyboard()

	dt := 1.0 / float64(ebiten.TPS())
	g.ui.Update(dt)
	if g.config.Update != nil {
		return g.config.Update(dt)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.config.ClearColor.A > 0 {
		screen.Fill(colorToRGBA(g.config.ClearColor))
	}
	g.ui.CollectBatches()
	g.ui.Draw(screen)
	if g.config.Draw != nil {
		g.config.Draw(screen)
	}
	if g.config.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f",
			ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.lastWidth || outsideHeight != g.lastHeight {
		g.lastWidth, g.lastHeight = outsideWidth, outsideHeight
		g.ui.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// pollMouseButtons maps ebiten mouse buttons to router buttons.
var pollMouseButtons = [...]struct {
	ebiten ebiten.MouseButton
	button MouseButton
}{
	{ebiten.MouseButtonLeft, MouseButtonLeft},
	{ebiten.MouseButtonRight, MouseButtonRight},
	{ebiten.MouseButtonMiddle, MouseButtonMiddle},
}

func (g *game) pollPointer() {
	ui := g.ui
	qualifiers := pollQualifiers()

	x, y := ebiten.CursorPosition()
	ui.MouseMove(ui.ConvertSystemToUI(IntVec2{x, y}))

	for _, m := range pollMouseButtons {
		if inpututil.IsMouseButtonJustPressed(m.ebiten) {
			ui.MouseButtonDown(m.button, qualifiers)
		}
		if inpututil.IsMouseButtonJustReleased(m.ebiten) {
			ui.MouseButtonUp(m.button, qualifiers)
		}
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		step := 1
		if wy < 0 {
			step = -1
		}
		ui.MouseWheel(step, qualifiers)
	}

	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		tx, ty := ebiten.TouchPosition(id)
		ui.TouchBegin(int(id), ui.ConvertSystemToUI(IntVec2{tx, ty}))
	}
	for _, id := range ebiten.AppendTouchIDs(nil) {
		if inpututil.TouchPressDuration(id) > 1 {
			tx, ty := ebiten.TouchPosition(id)
			ui.TouchMove(int(id), ui.ConvertSystemToUI(IntVec2{tx, ty}))
		}
	}
	for _, id := range inpututil.AppendJustReleasedTouchIDs(nil) {
		tx, ty := inpututil.TouchPositionInPreviousTick(id)
		ui.TouchEnd(int(id), ui.ConvertSystemToUI(IntVec2{tx, ty}))
	}
}

// pollKeys maps the ebiten keys the router understands to router keys.
var pollKeys = [...]struct {
	ebiten ebiten.Key
	key    Key
}{
	{ebiten.KeyEscape, KeyEscape},
	{ebiten.KeyTab, KeyTab},
	{ebiten.KeyEnter, KeyReturn},
	{ebiten.KeyBackspace, KeyBackspace},
	{ebiten.KeyDelete, KeyDelete},
	{ebiten.KeyArrowLeft, KeyLeft},
	{ebiten.KeyArrowRight, KeyRight},
	{ebiten.KeyArrowUp, KeyUp},
	{ebiten.KeyArrowDown, KeyDown},
	{ebiten.KeyHome, KeyHome},
	{ebiten.KeyEnd, KeyEnd},
}

func (g *game) pollKeyboard() {
	ui := g.ui
	qualifiers := pollQualifiers()

	for _, k := range pollKeys {
		if inpututil.IsKeyJustPressed(k.ebiten) {
			ui.KeyDown(k.key, qualifiers)
		}
	}

	if chars := ebiten.AppendInputChars(nil); len(chars) > 0 {
		ui.TextInput(string(chars))
	}
}

func pollQualifiers() Qualifiers {
	var q Qualifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		q |= QualShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		q |= QualCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		q |= QualAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		q |= QualMeta
	}
	return q
}
