package trellis

import "math"

// Transform is a 2D affine matrix in column-major [a, b, c, d, tx, ty] form:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
//
// Sprites and other free-form widgets use it to place quads off the integer
// grid the rest of the UI lives on.
type Transform [6]float64

// IdentityTransform is the identity affine matrix.
var IdentityTransform = Transform{1, 0, 0, 1, 0, 0}

// TranslationTransform returns a pure translation.
func TranslationTransform(x, y float64) Transform {
	return Transform{1, 0, 0, 1, x, y}
}

// NewTransform builds the matrix for the usual sprite composition:
//
//	Translate(-hotspot) -> Scale -> Rotate -> Translate(position)
//
// Rotation is in radians, clockwise with Y down.
func NewTransform(position IntVec2, hotspot IntVec2, scaleX, scaleY, rotation float64) Transform {
	sin, cos := math.Sincos(rotation)

	a := cos * scaleX
	b := sin * scaleX
	c := -sin * scaleY
	d := cos * scaleY

	hx := float64(hotspot.X)
	hy := float64(hotspot.Y)
	return Transform{
		a, b, c, d,
		-hx*a - hy*c + float64(position.X),
		-hx*b - hy*d + float64(position.Y),
	}
}

// Multiply returns t * other, applying other first.
func (t Transform) Multiply(other Transform) Transform {
	return Transform{
		t[0]*other[0] + t[2]*other[1],
		t[1]*other[0] + t[3]*other[1],
		t[0]*other[2] + t[2]*other[3],
		t[1]*other[2] + t[3]*other[3],
		t[0]*other[4] + t[2]*other[5] + t[4],
		t[1]*other[4] + t[3]*other[5] + t[5],
	}
}

// Invert returns the inverse matrix, or the identity when t is singular.
func (t Transform) Invert() Transform {
	det := t[0]*t[3] - t[2]*t[1]
	if det > -1e-12 && det < 1e-12 {
		return IdentityTransform
	}
	invDet := 1.0 / det
	a := t[3] * invDet
	b := -t[1] * invDet
	c := -t[2] * invDet
	d := t[0] * invDet
	return Transform{
		a, b, c, d,
		-(a*t[4] + c*t[5]),
		-(b*t[4] + d*t[5]),
	}
}

// Apply transforms a point.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t[0]*x + t[2]*y + t[4], t[1]*x + t[3]*y + t[5]
}
