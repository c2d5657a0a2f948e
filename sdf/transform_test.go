package sdf

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-12

func vecNear(a, b r3.Vec, tol float64) bool {
	return r3.Norm(r3.Sub(a, b)) < tol
}

func TestTransformInv(t *testing.T) {
	for _, test := range []struct {
		name string
		t    Transform
	}{
		{"identity", Transform{}},
		{"translate", Translate3D(r3.Vec{X: 1, Y: -2, Z: 3})},
		{"scale", Scale3D(r3.Vec{X: 2, Y: 0.5, Z: 4})},
		{"rotate x", RotateX(0.3)},
		{"rotate axis", Rotate3D(r3.Vec{X: 1, Y: 1, Z: -1}, 2)},
		{"placement", Translate3D(r3.Vec{X: 10, Z: -4}).Mul(RotateY(1.1)).Mul(RotateZ(-0.4))},
		{"scaled placement", Scale3D(r3.Vec{X: 1.002, Y: 1.002, Z: 1.01}).Mul(Translate3D(r3.Vec{Y: 7}).Mul(RotateX(math.Pi / 2)))},
	} {
		inv := test.t.Inv()
		if got := inv.Mul(test.t); !got.Equals(Transform{}, tol) {
			t.Errorf("%s: inv*t = %v, want identity", test.name, got.Rows())
		}
		if got := test.t.Mul(inv); !got.Equals(Transform{}, tol) {
			t.Errorf("%s: t*inv = %v, want identity", test.name, got.Rows())
		}
		p := r3.Vec{X: 0.5, Y: -3, Z: 8}
		if got := inv.Apply(test.t.Apply(p)); !vecNear(got, p, 1e-9) {
			t.Errorf("%s: round trip of %v gave %v", test.name, p, got)
		}
	}
}

func TestTransformInvSingular(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic inverting a flattening scale")
		}
	}()
	Scale3D(r3.Vec{X: 1, Y: 0, Z: 1}).Inv()
}

func TestTransformMulOrder(t *testing.T) {
	move := Translate3D(r3.Vec{X: 2})
	turn := RotateZ(math.Pi / 2)
	for _, test := range []struct {
		name string
		t    Transform
		want r3.Vec
	}{
		// turn first: (1,0,0) -> (0,1,0) -> (2,1,0).
		{"move after turn", move.Mul(turn), r3.Vec{X: 2, Y: 1}},
		// move first: (1,0,0) -> (3,0,0) -> (0,3,0).
		{"turn after move", turn.Mul(move), r3.Vec{Y: 3}},
		{"identity left", Transform{}.Mul(move), r3.Vec{X: 3}},
		{"identity right", turn.Mul(Transform{}), r3.Vec{Y: 1}},
	} {
		if got := test.t.Apply(r3.Vec{X: 1}); !vecNear(got, test.want, 1e-9) {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
	}
	if got := move.Mul(turn).Translation(); !vecNear(got, r3.Vec{X: 2}, tol) {
		t.Errorf("translation %v", got)
	}
	if got := move.Mul(turn).ApplyDir(r3.Vec{X: 1}); !vecNear(got, r3.Vec{Y: 1}, 1e-9) {
		t.Errorf("direction %v ignores translation", got)
	}
}

func TestTransformApplyBox(t *testing.T) {
	box := r3.Box{Min: r3.Vec{X: -1, Y: -2, Z: -3}, Max: r3.Vec{X: 1, Y: 2, Z: 3}}
	s2 := math.Sqrt2
	for _, test := range []struct {
		name string
		t    Transform
		want r3.Box
	}{
		{"identity", Transform{}, box},
		{
			"translate", Translate3D(r3.Vec{X: 5, Z: -1}),
			r3.Box{Min: r3.Vec{X: 4, Y: -2, Z: -4}, Max: r3.Vec{X: 6, Y: 2, Z: 2}},
		},
		{
			"quarter turn", RotateZ(math.Pi / 2),
			r3.Box{Min: r3.Vec{X: -2, Y: -1, Z: -3}, Max: r3.Vec{X: 2, Y: 1, Z: 3}},
		},
		{
			// the rotated corners stick out past the original box.
			"eighth turn", RotateZ(math.Pi / 4),
			r3.Box{Min: r3.Vec{X: -1.5 * s2, Y: -1.5 * s2, Z: -3}, Max: r3.Vec{X: 1.5 * s2, Y: 1.5 * s2, Z: 3}},
		},
		{
			"mirror scale", Scale3D(r3.Vec{X: -1, Y: 1, Z: 2}),
			r3.Box{Min: r3.Vec{X: -1, Y: -2, Z: -6}, Max: r3.Vec{X: 1, Y: 2, Z: 6}},
		},
	} {
		got := test.t.ApplyBox(box)
		if !vecNear(got.Min, test.want.Min, 1e-9) || !vecNear(got.Max, test.want.Max, 1e-9) {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
	}
}

func TestRotateToVector(t *testing.T) {
	for _, test := range []struct {
		name string
		a, b r3.Vec
	}{
		{"z to x", r3.Vec{Z: 1}, r3.Vec{X: 1}},
		{"z to tilted", r3.Vec{Z: 1}, r3.Vec{X: 1, Y: -2, Z: 3}},
		{"unnormalized", r3.Vec{X: 4}, r3.Vec{Y: 0.25}},
		{"same", r3.Vec{Z: 2}, r3.Vec{Z: 1}},
		{"opposed z", r3.Vec{Z: 1}, r3.Vec{Z: -1}},
		{"opposed x", r3.Vec{X: 1}, r3.Vec{X: -3}},
	} {
		m := RotateToVector(test.a, test.b)
		if got, want := m.Apply(r3.Unit(test.a)), r3.Unit(test.b); !vecNear(got, want, 1e-9) {
			t.Errorf("%s: rotated %v to %v, want %v", test.name, test.a, got, want)
		}
		if d := m.Det(); math.Abs(d-1) > 1e-9 {
			t.Errorf("%s: determinant %g, not a rotation", test.name, d)
		}
	}
}
