package sdf

import (
	"math"
	"strconv"

	"github.com/printmount/touchmount/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// SDF2 is the interface to a 2d signed distance function object.
type SDF2 interface {
	// Evaluate takes a point in the plane as input and returns
	// the minimum distance of the SDF2 to the point. The distance
	// is negative if the point is contained within the SDF2.
	Evaluate(p r2.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the SDF2.
	Bounds() r2.Box
}

// transform2 is an SDF2 transformed with an affine 2d transform.
type transform2 struct {
	sdf     SDF2
	inverse d2.Transform
	bb      r2.Box
}

func newTransform2(sdf SDF2, t d2.Transform) SDF2 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	return &transform2{
		sdf:     sdf,
		inverse: t.Inv(),
		bb:      r2.Box(t.ApplyBox(d2.Box(sdf.Bounds()))),
	}
}

// Translate2D moves an SDF2 by v.
func Translate2D(sdf SDF2, v r2.Vec) SDF2 {
	return newTransform2(sdf, d2.Transform{}.Translate(v))
}

// MirrorX2D reflects an SDF2 across the Y axis.
func MirrorX2D(sdf SDF2) SDF2 {
	return newTransform2(sdf, d2.MirrorX())
}

// Evaluate returns the minimum distance to a transformed SDF2.
func (s *transform2) Evaluate(p r2.Vec) float64 {
	return s.sdf.Evaluate(s.inverse.ApplyPos(p))
}

// Bounds returns the bounding box of a transformed SDF2.
func (s *transform2) Bounds() r2.Box {
	return s.bb
}

// union2 is a union of SDF2s.
type union2 struct {
	sdf []SDF2
	bb  r2.Box
}

// Union2D returns the union of multiple SDF2 objects.
// Union2D will panic if arguments list is empty or if
// an argument SDF2 is nil.
func Union2D(sdf ...SDF2) SDF2 {
	if len(sdf) == 0 {
		panic("union requires at least 1 sdf")
	}
	s := union2{sdf: sdf}
	for i, x := range s.sdf {
		if x == nil {
			panic("nil sdf argument (" + strconv.Itoa(i) + ") to Union2D")
		}
	}
	bb := d2.Box(s.sdf[0].Bounds())
	for _, x := range s.sdf[1:] {
		bb = bb.Extend(d2.Box(x.Bounds()))
	}
	s.bb = r2.Box(bb)
	return &s
}

// Evaluate returns the minimum distance to the SDF2 union.
func (s *union2) Evaluate(p r2.Vec) float64 {
	d := s.sdf[0].Evaluate(p)
	for _, x := range s.sdf[1:] {
		d = math.Min(d, x.Evaluate(p))
	}
	return d
}

// Bounds returns the bounding box of an SDF2 union.
func (s *union2) Bounds() r2.Box {
	return s.bb
}

// diff2 is the difference of two SDF2s.
type diff2 struct {
	s0 SDF2
	s1 SDF2
	bb r2.Box
}

// Difference2D returns the difference of two SDF2 objects, s0 - s1.
// Difference2D will panic if one any of the arguments is nil.
func Difference2D(s0, s1 SDF2) SDF2 {
	if s0 == nil || s1 == nil {
		panic("nil argument to Difference2D")
	}
	return &diff2{
		s0: s0,
		s1: s1,
		bb: s0.Bounds(),
	}
}

// Evaluate returns the minimum distance to the SDF2 difference.
func (s *diff2) Evaluate(p r2.Vec) float64 {
	return math.Max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
}

// Bounds returns the bounding box of the SDF2 difference.
func (s *diff2) Bounds() r2.Box {
	return s.bb
}

// Multi2D creates a union of an SDF2 at a set of 2D positions.
func Multi2D(s SDF2, positions []r2.Vec) SDF2 {
	if s == nil {
		panic("nil sdf argument")
	}
	if len(positions) == 0 {
		panic("empty positions")
	}
	objects := make([]SDF2, len(positions))
	for i, p := range positions {
		objects[i] = Translate2D(s, p)
	}
	return Union2D(objects...)
}
