package trellis

import (
	"strings"
	"testing"
)

// --- Loading ---

func TestLoadLayoutBuildsTree(t *testing.T) {
	layout := `
		<element type="Window" name="settings" position="40 40" size="320 240">
			<element type="Button" name="ok" position="8 208" size="64 24"/>
			<element type="Text" name="title" text="Settings"/>
		</element>`

	root, err := LoadLayout(strings.NewReader(layout), nil)
	if err != nil {
		t.Fatal(err)
	}

	if root.Kind != KindWindow || root.Name != "settings" {
		t.Errorf("root = %v %q, want Window settings", root.Kind, root.Name)
	}
	if root.Position() != (IntVec2{40, 40}) || root.Size() != (IntVec2{320, 240}) {
		t.Errorf("root placed at %v %v", root.Position(), root.Size())
	}
	if len(root.Children()) != 2 {
		t.Fatalf("children = %d, want 2", len(root.Children()))
	}
	ok := root.ChildByName("ok")
	if ok == nil || ok.Kind != KindButton {
		t.Fatal("ok button missing or wrong kind")
	}
	if ok.Position() != (IntVec2{8, 208}) || ok.Size() != (IntVec2{64, 24}) {
		t.Errorf("button placed at %v %v", ok.Position(), ok.Size())
	}
	title := root.ChildByName("title")
	if title == nil || title.Kind != KindText || title.Text != "Settings" {
		t.Error("title text missing or wrong")
	}
}

func TestLoadLayoutAppliesAttributes(t *testing.T) {
	layout := `
		<element type="BorderImage" name="panel"
			priority="3" opacity="0.5" color="1 0 0 1"
			visible="false" enabled="false"
			border="4 4 4 4" imagerect="0 0 16 16" tiled="true"
			focusmode="focusable" dragdrop="target" blend="add"
			minsize="10 10" maxsize="500 500"
			clipchildren="true" clipborder="2 2 2 2"
			hoveroffset="16 0" pressedoffset="32 0"/>`

	e, err := LoadLayout(strings.NewReader(layout), nil)
	if err != nil {
		t.Fatal(err)
	}

	if e.Priority != 3 || e.Opacity != 0.5 {
		t.Errorf("priority/opacity = %d/%v", e.Priority, e.Opacity)
	}
	if c := e.Color(); c != (Color{1, 0, 0, 1}) {
		t.Errorf("color = %v, want red", c)
	}
	if e.Visible || e.Enabled {
		t.Error("visible/enabled flags not applied")
	}
	if e.Border != (IntRect{4, 4, 4, 4}) || e.ImageRect != (IntRect{0, 0, 16, 16}) || !e.Tiled {
		t.Error("image attributes not applied")
	}
	if e.FocusMode != FocusFocusable || e.DragDrop != DragDropTarget || e.BlendMode != BlendAdd {
		t.Error("mode attributes not applied")
	}
	if e.MinSize != (IntVec2{10, 10}) || e.MaxSize != (IntVec2{500, 500}) {
		t.Error("size constraints not applied")
	}
	if !e.ClipChildren || e.ClipBorder != (IntRect{2, 2, 2, 2}) {
		t.Error("clipping attributes not applied")
	}
	if e.HoverOffset != (IntVec2{16, 0}) || e.PressedOffset != (IntVec2{32, 0}) {
		t.Error("state offsets not applied")
	}
}

func TestLoadLayoutResolvesTextures(t *testing.T) {
	tex := &Texture{Width: 64, Height: 32}
	resolver := func(name string) *Texture {
		if name == "skin" {
			return tex
		}
		return nil
	}
	layout := `<element type="BorderImage" name="panel" texture="skin"/>`

	e, err := LoadLayout(strings.NewReader(layout), resolver)
	if err != nil {
		t.Fatal(err)
	}
	if e.Texture != tex {
		t.Fatal("texture not resolved")
	}
	// With no explicit imagerect the full texture is used.
	if e.ImageRect != (IntRect{0, 0, 64, 32}) {
		t.Errorf("ImageRect = %v, want full texture", e.ImageRect)
	}
}

func TestLoadLayoutDefaultsToElementType(t *testing.T) {
	e, err := LoadLayout(strings.NewReader(`<element name="plain"/>`), nil)
	if err != nil {
		t.Fatal(err)
	}
	if e.Kind != KindElement {
		t.Errorf("Kind = %v, want KindElement", e.Kind)
	}
}

func TestLoadLayoutRejectsUnknownRootType(t *testing.T) {
	if _, err := LoadLayout(strings.NewReader(`<element type="Nope" name="x"/>`), nil); err == nil {
		t.Error("unknown root type should error")
	}
}

func TestLoadLayoutSkipsUnknownChildTypes(t *testing.T) {
	layout := `
		<element type="Element" name="root">
			<element type="Nope" name="ghost"/>
			<element type="Button" name="ok"/>
		</element>`

	root, err := LoadLayout(strings.NewReader(layout), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(root.Children()) != 1 {
		t.Fatalf("children = %d, want 1 (unknown type skipped)", len(root.Children()))
	}
	if root.Children()[0].Name != "ok" {
		t.Error("surviving child should be the button")
	}
}

func TestLoadLayoutRejectsMalformedXML(t *testing.T) {
	if _, err := LoadLayout(strings.NewReader(`<element`), nil); err == nil {
		t.Error("malformed XML should error")
	}
}

func TestRegisterElementType(t *testing.T) {
	RegisterElementType("Gauge", func(name string) *Element {
		e := NewElement(name)
		e.SetSize(100, 12)
		return e
	})
	defer delete(elementFactories, "Gauge")

	e, err := LoadLayout(strings.NewReader(`<element type="Gauge" name="hp"/>`), nil)
	if err != nil {
		t.Fatal(err)
	}
	if e.Name != "hp" || e.Size() != (IntVec2{100, 12}) {
		t.Error("custom factory not used")
	}
}

func TestRegisterElementTypePanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("empty type name should panic")
		}
	}()
	RegisterElementType("", NewElement)
}

// --- Saving ---

func TestSaveLayoutRoundTrip(t *testing.T) {
	win := NewWindow("settings", nil)
	win.SetPosition(40, 40)
	win.SetSize(320, 240)
	b := NewButton("ok", nil)
	b.SetPosition(8, 208)
	b.SetSize(64, 24)
	b.SetPriority(2)
	win.AddChild(b)

	var buf strings.Builder
	if err := SaveLayout(&buf, win); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadLayout(strings.NewReader(buf.String()), nil)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Kind != KindWindow || loaded.Position() != (IntVec2{40, 40}) || loaded.Size() != (IntVec2{320, 240}) {
		t.Error("window did not survive the round trip")
	}
	ok := loaded.ChildByName("ok")
	if ok == nil {
		t.Fatal("button did not survive the round trip")
	}
	if ok.Position() != (IntVec2{8, 208}) || ok.Size() != (IntVec2{64, 24}) || ok.Priority != 2 {
		t.Error("button attributes did not survive the round trip")
	}
}

func TestSaveLayoutWritesOnlyNonDefaults(t *testing.T) {
	e := NewElement("plain")

	var buf strings.Builder
	if err := SaveLayout(&buf, e); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, attr := range []string{"position", "size", "priority", "opacity", "color", "visible"} {
		if strings.Contains(out, attr+"=") {
			t.Errorf("default attribute %q should be omitted, got:\n%s", attr, out)
		}
	}
}

func TestSaveLayoutSkipsInternalChildren(t *testing.T) {
	root := NewElement("root")
	private := NewElement("scratch")
	private.Internal = true
	root.AddChild(private)
	public := NewButton("ok", nil)
	root.AddChild(public)

	var buf strings.Builder
	if err := SaveLayout(&buf, root); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if strings.Contains(out, "scratch") {
		t.Error("internal children must not be saved")
	}
	if !strings.Contains(out, `name="ok"`) {
		t.Error("public children must be saved")
	}
}

// --- Value parsers ---

func TestParseColorDefaultsAlpha(t *testing.T) {
	if got := parseColor("0.5 0.25 1"); got != (Color{0.5, 0.25, 1, 1}) {
		t.Errorf("parseColor = %v, want alpha to default to 1", got)
	}
}

func TestParseIntVec2(t *testing.T) {
	if got := parseIntVec2("12 -7"); got != (IntVec2{12, -7}) {
		t.Errorf("parseIntVec2 = %v, want {12 -7}", got)
	}
	if got := parseIntVec2("garbage"); got != (IntVec2{}) {
		t.Errorf("parseIntVec2(garbage) = %v, want zero", got)
	}
}

func TestParseIntRect(t *testing.T) {
	if got := parseIntRect("1 2 3 4"); got != (IntRect{1, 2, 3, 4}) {
		t.Errorf("parseIntRect = %v, want {1 2 3 4}", got)
	}
}

func TestParseBlendMode(t *testing.T) {
	cases := map[string]BlendMode{
		"replace":     BlendReplace,
		"add":         BlendAdd,
		"addalpha":    BlendAddAlpha,
		"multiply":    BlendMultiply,
		"premulalpha": BlendPremulAlpha,
		"unknown":     BlendAlpha,
	}
	for in, want := range cases {
		if got := parseBlendMode(in); got != want {
			t.Errorf("parseBlendMode(%q) = %v, want %v", in, got, want)
		}
	}
}
