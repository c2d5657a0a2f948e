package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Transform is a 2D affine transformation (rotation, mirroring and translation).
// The zero value of Transform is the identity transform.
type Transform struct {
	// diagonal elements are stored with 1 subtracted so the zero
	// value is the identity, same as the 3D transform.
	d00, x01, x02 float64
	x10, d11, x12 float64
}

// Translate returns t followed by a translation of v.
func (t Transform) Translate(v r2.Vec) Transform {
	t.x02 += v.X
	t.x12 += v.Y
	return t
}

// MirrorX returns a reflection about the Y axis, mapping x to -x.
func MirrorX() Transform {
	return Transform{d00: -2}
}

// Inv returns the inverse transform. Inv panics if t is singular.
func (t Transform) Inv() Transform {
	if t == (Transform{}) {
		return t
	}
	a00, a11 := t.d00+1, t.d11+1
	det := a00*a11 - t.x01*t.x10
	if math.Abs(det) < 1e-12 {
		panic("singular transform")
	}
	i00 := a11 / det
	i01 := -t.x01 / det
	i10 := -t.x10 / det
	i11 := a00 / det
	return Transform{
		d00: i00 - 1, x01: i01, x02: -(i00*t.x02 + i01*t.x12),
		x10: i10, d11: i11 - 1, x12: -(i10*t.x02 + i11*t.x12),
	}
}

// ApplyPos applies the transform to a position.
func (t Transform) ApplyPos(b r2.Vec) r2.Vec {
	if t == (Transform{}) {
		return b
	}
	return r2.Vec{
		X: (t.d00+1)*b.X + t.x01*b.Y + t.x02,
		Y: t.x10*b.X + (t.d11+1)*b.Y + t.x12,
	}
}

// ApplyBox transforms a 2d bounding box and resizes for axis-alignment.
func (t Transform) ApplyBox(box Box) Box {
	if t == (Transform{}) {
		return box
	}
	v := box.Vertices()
	for i := range v {
		v[i] = t.ApplyPos(v[i])
	}
	return Box{Min: v.Min(), Max: v.Max()}
}
