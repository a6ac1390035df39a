package trellis

import (
	"math"
	"math/bits"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default element color.
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is fully opaque black, used to clear offscreen UI surfaces.
var ColorBlack = Color{0, 0, 0, 1}

// Pack converts the color to the 32-bit vertex format: one byte per channel,
// alpha in the top byte. A fully transparent color packs to a value whose
// 0xff000000 mask is zero, which is what the quad emission fast path tests.
func (c Color) Pack() uint32 {
	r := uint32(clamp01(c.R)*255 + 0.5)
	g := uint32(clamp01(c.G)*255 + 0.5)
	b := uint32(clamp01(c.B)*255 + 0.5)
	a := uint32(clamp01(c.A)*255 + 0.5)
	return a<<24 | b<<16 | g<<8 | r
}

// Lerp linearly interpolates between c and other by t in [0, 1].
func (c Color) Lerp(other Color, t float64) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// WhitePixel is a 1x1 white image used for solid color batches that carry no
// texture of their own.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(colorToRGBA(ColorWhite))
}

// Corner identifies one of an element's four corner colors.
type Corner uint8

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
	numCorners
)

// IntVec2 is an integer 2D vector. Element geometry and cursor positions are
// expressed in whole UI pixels.
type IntVec2 struct {
	X, Y int
}

// Add returns v + other.
func (v IntVec2) Add(other IntVec2) IntVec2 { return IntVec2{v.X + other.X, v.Y + other.Y} }

// Sub returns v - other.
func (v IntVec2) Sub(other IntVec2) IntVec2 { return IntVec2{v.X - other.X, v.Y - other.Y} }

// Div returns v divided component-wise by n.
func (v IntVec2) Div(n int) IntVec2 { return IntVec2{v.X / n, v.Y / n} }

// Length returns the Euclidean length of v.
func (v IntVec2) Length() float64 {
	return math.Sqrt(float64(v.X*v.X + v.Y*v.Y))
}

// IntRect is an axis-aligned rectangle with exclusive right/bottom edges.
// Scissor rectangles and image sub-rects use this form.
type IntRect struct {
	Left, Top, Right, Bottom int
}

// Width returns Right - Left.
func (r IntRect) Width() int { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r IntRect) Height() int { return r.Bottom - r.Top }

// IsZero reports whether all four edges are zero.
func (r IntRect) IsZero() bool { return r == IntRect{} }

// Empty reports whether the rectangle encloses no area.
func (r IntRect) Empty() bool { return r.Left >= r.Right || r.Top >= r.Bottom }

// Contains reports whether the point lies inside the rectangle.
func (r IntRect) Contains(p IntVec2) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// Intersect returns the overlap of r and other. A disjoint pair yields a
// degenerate rectangle for which Empty reports true.
func (r IntRect) Intersect(other IntRect) IntRect {
	out := r
	if other.Left > out.Left {
		out.Left = other.Left
	}
	if other.Top > out.Top {
		out.Top = other.Top
	}
	if other.Right < out.Right {
		out.Right = other.Right
	}
	if other.Bottom < out.Bottom {
		out.Bottom = other.Bottom
	}
	return out
}

// Union returns the smallest rectangle covering both r and other.
func (r IntRect) Union(other IntRect) IntRect {
	out := r
	if other.Left < out.Left {
		out.Left = other.Left
	}
	if other.Top < out.Top {
		out.Top = other.Top
	}
	if other.Right > out.Right {
		out.Right = other.Right
	}
	if other.Bottom > out.Bottom {
		out.Bottom = other.Bottom
	}
	return out
}

// Intersects reports whether r and other overlap.
func (r IntRect) Intersects(other IntRect) bool {
	return !r.Intersect(other).Empty()
}

// BlendMode selects a compositing operation for a batch. Each maps to a
// specific ebiten.Blend value at submission time.
type BlendMode uint8

const (
	BlendReplace    BlendMode = iota // opaque copy (skip blending)
	BlendAlpha                       // source-over (standard alpha blending)
	BlendAdd                         // additive without alpha weighting
	BlendAddAlpha                    // additive weighted by source alpha
	BlendMultiply                    // multiply (source * destination)
	BlendPremulAlpha                 // source-over with premultiplied source
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendReplace:
		return ebiten.BlendCopy
	case BlendAlpha:
		return ebiten.BlendSourceOver
	case BlendAdd:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendAddAlpha:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorSourceAlpha,
			BlendFactorSourceAlpha:      ebiten.BlendFactorSourceAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorZero,
			BlendFactorDestinationAlpha: ebiten.BlendFactorZero,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendPremulAlpha:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	}
	return ebiten.BlendSourceOver
}

// MouseButton is a bitmask of pointer buttons. Touch contacts occupy the high
// bits so a multi-touch interaction can share one mask with mouse buttons.
type MouseButton uint32

const (
	MouseButtonNone   MouseButton = 0
	MouseButtonLeft   MouseButton = 1 << 0
	MouseButtonMiddle MouseButton = 1 << 1
	MouseButtonRight  MouseButton = 1 << 2
	MouseButtonX1     MouseButton = 1 << 3
	MouseButtonX2     MouseButton = 1 << 4
)

// touchButtonShift is the first bit reserved for touch contact IDs.
const touchButtonShift = 8

// maxTouches is the number of distinct touch IDs representable in the mask.
const maxTouches = 32 - touchButtonShift

// TouchIDMask maps a touch contact ID to its MouseButton bit. IDs outside the
// representable range fold onto the last bit.
func TouchIDMask(id int) MouseButton {
	if id < 0 {
		id = 0
	}
	if id >= maxTouches {
		id = maxTouches - 1
	}
	return MouseButton(1 << (touchButtonShift + id))
}

// Count returns the number of set button bits.
func (b MouseButton) Count() int { return bits.OnesCount32(uint32(b)) }

// Qualifiers is a bitmask of modifier keys held during an input event.
type Qualifiers uint8

const (
	QualNone  Qualifiers = 0
	QualShift Qualifiers = 1 << 0
	QualCtrl  Qualifiers = 1 << 1
	QualAlt   Qualifiers = 1 << 2
	QualMeta  Qualifiers = 1 << 3
)

// Key identifies a keyboard key in router events. Only the keys the router
// itself reacts to are named; everything else passes through to the focused
// element's OnKey callback unchanged.
type Key int

const (
	KeyNone Key = iota
	KeyEscape
	KeyTab
	KeyReturn
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	keyFirstCustom // host-specific keys start here
)

// CustomKey builds a Key value for a host key code the router has no name
// for, so hosts can forward their full keyboard range.
func CustomKey(code int) Key { return keyFirstCustom + Key(code) }
