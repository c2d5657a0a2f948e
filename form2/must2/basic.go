package must2

import (
	"math"

	"github.com/printmount/touchmount/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// 2D Circle

// circle is the 2d signed distance object for a circle.
type circle struct {
	radius float64
	bb     r2.Box
}

// Circle returns the SDF2 for a 2d circle.
func Circle(radius float64) *circle {
	if radius <= 0 {
		panic("radius <= 0")
	}
	s := circle{}
	s.radius = radius
	d := r2.Vec{X: radius, Y: radius}
	s.bb = r2.Box{Min: r2.Scale(-1, d), Max: d}
	return &s
}

// Evaluate returns the minimum distance to a 2d circle.
func (s *circle) Evaluate(p r2.Vec) float64 {
	return r2.Norm(p) - s.radius
}

// Bounds returns the bounding box of a 2d circle.
func (s *circle) Bounds() r2.Box {
	return s.bb
}

// 2D Box (rounded corners with round > 0)

// box is the 2d signed distance object for a rectangular box.
type box struct {
	size  r2.Vec
	round float64
	bb    r2.Box
}

// Box returns a 2d box centered on the origin.
func Box(size r2.Vec, round float64) *box {
	if d2.LTEZero(size) {
		panic("size <= 0")
	}
	if round < 0 {
		panic("round < 0")
	}
	if 2*round > d2.Min(size) {
		panic("round > half of smallest side")
	}
	size = r2.Scale(0.5, size)
	s := box{}
	s.size = r2.Sub(size, d2.Elem(round))
	s.round = round
	s.bb = r2.Box{Min: r2.Scale(-1, size), Max: size}
	return &s
}

// Evaluate returns the minimum distance to a 2d box.
func (s *box) Evaluate(p r2.Vec) float64 {
	return sdfBox2d(p, s.size) - s.round
}

// Bounds returns the bounding box for a 2d box.
func (s *box) Bounds() r2.Box {
	return s.bb
}

// 2D rectangle with an independent radius on each corner.

type roundedRect struct {
	half  r2.Vec
	radii [4]float64
	bb    r2.Box
}

// RoundedRect returns a rectangle centered on the origin with independently
// rounded corners. radii are ordered counter clockwise starting at the
// bottom left corner: bottom-left, bottom-right, top-right, top-left.
// A zero radius leaves a sharp corner.
func RoundedRect(size r2.Vec, radii [4]float64) *roundedRect {
	if d2.LTEZero(size) {
		panic("size <= 0")
	}
	for _, r := range radii {
		if r < 0 {
			panic("corner radius < 0")
		}
		if 2*r > d2.Min(size) {
			panic("corner radius > half of smallest side")
		}
	}
	half := r2.Scale(0.5, size)
	return &roundedRect{
		half:  half,
		radii: radii,
		bb:    r2.Box{Min: r2.Scale(-1, half), Max: half},
	}
}

// Evaluate returns the minimum distance to a rounded rectangle.
func (s *roundedRect) Evaluate(p r2.Vec) float64 {
	var r float64
	switch {
	case p.X <= 0 && p.Y <= 0:
		r = s.radii[0]
	case p.Y <= 0:
		r = s.radii[1]
	case p.X > 0:
		r = s.radii[2]
	default:
		r = s.radii[3]
	}
	q := r2.Add(r2.Sub(d2.AbsElem(p), s.half), d2.Elem(r))
	outside := r2.Norm(d2.MaxElem(q, r2.Vec{}))
	return math.Min(d2.Max(q), 0) + outside - r
}

// Bounds returns the bounding box for a rounded rectangle.
func (s *roundedRect) Bounds() r2.Box {
	return s.bb
}

// Material removed when filleting a convex corner.

type cornerFillet struct {
	corner r2.Vec
	sign   r2.Vec
	radius float64
	bb     r2.Box
}

// CornerFillet returns the region removed when a convex corner at the point
// corner is rounded with the given radius. into points from the corner
// towards the material, only the sign of its components is used. The
// result is the square between the corner and the fillet center minus the
// fillet circle, and is meant to be unioned into a cutout.
func CornerFillet(corner, into r2.Vec, radius float64) *cornerFillet {
	if radius <= 0 {
		panic("radius <= 0")
	}
	if into.X == 0 || into.Y == 0 {
		panic("into must point into a quadrant")
	}
	sign := r2.Vec{X: math.Copysign(1, into.X), Y: math.Copysign(1, into.Y)}
	far := r2.Add(corner, r2.Scale(radius, sign))
	return &cornerFillet{
		corner: corner,
		sign:   sign,
		radius: radius,
		bb:     r2.Box{Min: d2.MinElem(corner, far), Max: d2.MaxElem(corner, far)},
	}
}

// Evaluate returns the minimum distance to the fillet region.
func (s *cornerFillet) Evaluate(p r2.Vec) float64 {
	// local frame with the material in the positive quadrant.
	q := r2.Sub(p, s.corner)
	q = r2.Vec{X: q.X * s.sign.X, Y: q.Y * s.sign.Y}
	h := s.radius / 2
	square := sdfBox2d(r2.Sub(q, d2.Elem(h)), d2.Elem(h))
	disk := r2.Norm(r2.Sub(q, d2.Elem(s.radius))) - s.radius
	return math.Max(square, -disk)
}

// Bounds returns the bounding box for the fillet region.
func (s *cornerFillet) Bounds() r2.Box {
	return s.bb
}

func sdfBox2d(p, s r2.Vec) float64 {
	p = d2.AbsElem(p)
	d := r2.Sub(p, s)
	k := s.Y - s.X
	if d.X > 0 && d.Y > 0 {
		return r2.Norm(d)
	}
	if p.Y-p.X > k {
		return d.Y
	}
	return d.X
}
