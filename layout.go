package trellis

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// XML layouts describe widget trees declaratively:
//
//	<element type="Window" name="settings" position="40 40" size="320 240">
//		<element type="Button" name="ok" position="8 208" size="64 24"/>
//	</element>
//
// Textures are referenced by name and resolved through a caller-supplied
// resolver, since the layer does not own asset loading.

// ElementFactory creates an element of a registered layout type.
type ElementFactory func(name string) *Element

// TextureResolver maps a texture name from a layout to a loaded texture.
// Returning nil leaves the element untextured.
type TextureResolver func(name string) *Texture

var elementFactories = map[string]ElementFactory{
	"Element":     NewElement,
	"BorderImage": func(name string) *Element { return NewBorderImage(name, nil) },
	"Button":      func(name string) *Element { return NewButton(name, nil) },
	"Checkbox":    func(name string) *Element { return NewCheckbox(name, nil) },
	"Text":        func(name string) *Element { return NewText(name, "", nil) },
	"Window":      func(name string) *Element { return NewWindow(name, nil) },
	"Sprite":      func(name string) *Element { return NewSprite(name, nil) },
	"Tooltip":     NewTooltip,
}

// RegisterElementType registers a factory for a custom layout type name,
// overriding any builtin of the same name.
func RegisterElementType(typeName string, factory ElementFactory) {
	if typeName == "" || factory == nil {
		panic("trellis: RegisterElementType requires a type name and factory")
	}
	elementFactories[typeName] = factory
}

// layoutNode mirrors one <element> in a layout file.
type layoutNode struct {
	XMLName  xml.Name     `xml:"element"`
	Type     string       `xml:"type,attr"`
	Name     string       `xml:"name,attr"`
	Attrs    []xml.Attr   `xml:",any,attr"`
	Children []layoutNode `xml:"element"`
}

// LoadLayout reads an XML layout and builds the widget tree it describes.
// An unknown root type is an error; unknown child types are logged and
// skipped so a layout from a newer version degrades instead of failing.
// textures may be nil when the layout references no textures.
func LoadLayout(r io.Reader, textures TextureResolver) (*Element, error) {
	var root layoutNode
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("trellis: layout parse: %w", err)
	}
	e := buildLayoutElement(&root, textures)
	if e == nil {
		debugLog("layout root has unknown type %q", root.Type)
		return nil, fmt.Errorf("trellis: layout root has unknown type %q", root.Type)
	}
	return e, nil
}

func buildLayoutElement(node *layoutNode, textures TextureResolver) *Element {
	typeName := node.Type
	if typeName == "" {
		typeName = "Element"
	}
	factory, ok := elementFactories[typeName]
	if !ok {
		return nil
	}
	e := factory(node.Name)
	applyLayoutAttrs(e, node.Attrs, textures)
	for i := range node.Children {
		child := buildLayoutElement(&node.Children[i], textures)
		if child == nil {
			debugLog("layout element %q has unknown type %q, skipped", node.Children[i].Name, node.Children[i].Type)
			continue
		}
		e.AddChild(child)
	}
	return e
}

func applyLayoutAttrs(e *Element, attrs []xml.Attr, textures TextureResolver) {
	for _, attr := range attrs {
		value := attr.Value
		switch attr.Name.Local {
		case "position":
			v := parseIntVec2(value)
			e.SetPosition(v.X, v.Y)
		case "size":
			v := parseIntVec2(value)
			e.SetSize(v.X, v.Y)
		case "minsize":
			e.MinSize = parseIntVec2(value)
		case "maxsize":
			e.MaxSize = parseIntVec2(value)
		case "priority":
			e.SetPriority(parseInt(value))
		case "opacity":
			e.SetOpacity(parseFloat(value))
		case "color":
			e.SetColor(parseColor(value))
		case "topleftcolor":
			e.SetCornerColor(TopLeft, parseColor(value))
		case "toprightcolor":
			e.SetCornerColor(TopRight, parseColor(value))
		case "bottomleftcolor":
			e.SetCornerColor(BottomLeft, parseColor(value))
		case "bottomrightcolor":
			e.SetCornerColor(BottomRight, parseColor(value))
		case "visible":
			e.SetVisible(parseBool(value))
		case "enabled":
			e.Enabled = parseBool(value)
		case "selected":
			e.Selected = parseBool(value)
		case "bringtofront":
			e.BringsToFront = parseBool(value)
		case "clipchildren":
			e.ClipChildren = parseBool(value)
		case "clipborder":
			e.ClipBorder = parseIntRect(value)
		case "traversal":
			if value == "depthfirst" {
				e.Traversal = TraversalDepthFirst
			}
		case "focusmode":
			e.FocusMode = parseFocusMode(value)
		case "dragdrop":
			e.DragDrop = parseDragDropMode(value)
		case "blend":
			e.BlendMode = parseBlendMode(value)
		case "texture":
			if textures != nil {
				if tex := textures(value); tex != nil {
					e.Texture = tex
					if e.ImageRect.IsZero() {
						e.ImageRect = IntRect{0, 0, tex.Width, tex.Height}
					}
				}
			}
		case "imagerect":
			e.ImageRect = parseIntRect(value)
		case "border":
			e.Border = parseIntRect(value)
		case "imageborder":
			e.ImageBorder = parseIntRect(value)
		case "hoveroffset":
			e.HoverOffset = parseIntVec2(value)
		case "pressedoffset":
			e.PressedOffset = parseIntVec2(value)
		case "disabledoffset":
			e.DisabledOffset = parseIntVec2(value)
		case "checkedoffset":
			e.CheckedOffset = parseIntVec2(value)
		case "checked":
			e.Checked = parseBool(value)
		case "tiled":
			e.Tiled = parseBool(value)
		case "text":
			e.SetText(value)
		case "hotspot":
			e.Hotspot = parseIntVec2(value)
		case "rotation":
			e.Rotation = parseFloat(value)
		case "scale":
			e.ScaleX = parseFloat(value)
			e.ScaleY = e.ScaleX
		case "movable":
			e.Movable = parseBool(value)
		case "resizable":
			e.Resizable = parseBool(value)
		case "resizeborder":
			e.ResizeBorder = parseIntRect(value)
		case "repeatdelay":
			e.RepeatDelay = parseFloat(value)
		case "repeatrate":
			e.RepeatRate = parseFloat(value)
		case "tooltipdelay":
			e.TooltipDelay = parseFloat(value)
		default:
			debugLog("layout element %q has unknown attribute %q", e.Name, attr.Name.Local)
		}
	}
}

// --- Attribute value parsers ---

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseBool(s string) bool {
	v, _ := strconv.ParseBool(s)
	return v
}

func parseIntVec2(s string) IntVec2 {
	var v IntVec2
	_, _ = fmt.Sscanf(s, "%d %d", &v.X, &v.Y)
	return v
}

func parseIntRect(s string) IntRect {
	var r IntRect
	_, _ = fmt.Sscanf(s, "%d %d %d %d", &r.Left, &r.Top, &r.Right, &r.Bottom)
	return r
}

func parseColor(s string) Color {
	c := Color{A: 1}
	_, _ = fmt.Sscanf(s, "%g %g %g %g", &c.R, &c.G, &c.B, &c.A)
	return c
}

func parseFocusMode(s string) FocusMode {
	switch s {
	case "resetfocus":
		return FocusResetFocus
	case "focusable":
		return FocusFocusable
	case "focusabledefocusable":
		return FocusFocusableDefocusable
	}
	return FocusNotFocusable
}

func parseDragDropMode(s string) DragDropMode {
	switch s {
	case "source":
		return DragDropSource
	case "target":
		return DragDropTarget
	case "sourceandtarget":
		return DragDropSourceAndTarget
	}
	return DragDropDisabled
}

func parseBlendMode(s string) BlendMode {
	switch s {
	case "replace":
		return BlendReplace
	case "add":
		return BlendAdd
	case "addalpha":
		return BlendAddAlpha
	case "multiply":
		return BlendMultiply
	case "premulalpha":
		return BlendPremulAlpha
	}
	return BlendAlpha
}

// --- Saving ---

// SaveLayout writes an element tree as an XML layout. Internal children
// (created by widgets for their own use) are skipped. Textures cannot be
// saved by name and are omitted.
func SaveLayout(w io.Writer, root *Element) error {
	node := layoutNodeFromElement(root)
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(node); err != nil {
		return fmt.Errorf("trellis: layout save: %w", err)
	}
	return enc.Close()
}

func layoutNodeFromElement(e *Element) *layoutNode {
	node := &layoutNode{
		Type: e.Kind.String(),
		Name: e.Name,
	}
	addAttr := func(name, value string) {
		node.Attrs = append(node.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	}

	if pos := e.Position(); pos != (IntVec2{}) {
		addAttr("position", formatIntVec2(pos))
	}
	if size := e.Size(); size != (IntVec2{}) {
		addAttr("size", formatIntVec2(size))
	}
	if e.Priority != 0 {
		addAttr("priority", strconv.Itoa(e.Priority))
	}
	if e.Opacity != 1 {
		addAttr("opacity", formatFloat(e.Opacity))
	}
	if e.HasColorGradient() {
		addAttr("topleftcolor", formatColor(e.CornerColor(TopLeft)))
		addAttr("toprightcolor", formatColor(e.CornerColor(TopRight)))
		addAttr("bottomleftcolor", formatColor(e.CornerColor(BottomLeft)))
		addAttr("bottomrightcolor", formatColor(e.CornerColor(BottomRight)))
	} else if c := e.Color(); c != ColorWhite {
		addAttr("color", formatColor(c))
	}
	if !e.Visible {
		addAttr("visible", "false")
	}
	if !e.Enabled {
		addAttr("enabled", "false")
	}
	if e.Text != "" {
		addAttr("text", e.Text)
	}
	if !e.ImageRect.IsZero() && e.Texture != nil &&
		e.ImageRect != (IntRect{0, 0, e.Texture.Width, e.Texture.Height}) {
		addAttr("imagerect", formatIntRect(e.ImageRect))
	}
	if !e.Border.IsZero() {
		addAttr("border", formatIntRect(e.Border))
	}
	if e.Tiled {
		addAttr("tiled", "true")
	}
	if e.Checked {
		addAttr("checked", "true")
	}

	for _, child := range e.children {
		if child.Internal {
			continue
		}
		node.Children = append(node.Children, *layoutNodeFromElement(child))
	}
	return node
}

func formatIntVec2(v IntVec2) string {
	return strconv.Itoa(v.X) + " " + strconv.Itoa(v.Y)
}

func formatIntRect(r IntRect) string {
	return fmt.Sprintf("%d %d %d %d", r.Left, r.Top, r.Right, r.Bottom)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatColor(c Color) string {
	return fmt.Sprintf("%g %g %g %g", c.R, c.G, c.B, c.A)
}
