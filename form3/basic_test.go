package form3_test

import (
	"math"
	"strings"
	"testing"

	"github.com/printmount/touchmount/form3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCylinderAlong(t *testing.T) {
	for _, test := range []struct {
		name     string
		origin   r3.Vec
		dir      r3.Vec
		from, to float64
		inside   []r3.Vec
		outside  []r3.Vec
	}{
		{
			name:    "along y",
			origin:  r3.Vec{X: 1},
			dir:     r3.Vec{Y: 3},
			from:    2,
			to:      6,
			inside:  []r3.Vec{{X: 1, Y: 2.1}, {X: 1, Y: 5.9}, {X: 1.4, Y: 4}},
			outside: []r3.Vec{{X: 1, Y: 1.9}, {X: 1, Y: 6.1}, {X: 1, Y: 4, Z: 0.6}},
		},
		{
			name:    "down z",
			dir:     r3.Vec{Z: -1},
			from:    1,
			to:      3,
			inside:  []r3.Vec{{Z: -1.1}, {Z: -2.9}},
			outside: []r3.Vec{{Z: -0.9}, {Z: 1.5}, {Z: -3.1}},
		},
		{
			name:    "negative start",
			origin:  r3.Vec{Z: 10},
			dir:     r3.Vec{X: 1, Z: 1},
			from:    -2,
			to:      2,
			inside:  []r3.Vec{{Z: 10}, {X: 1.3, Z: 11.3}, {X: -1.3, Z: 8.7}},
			outside: []r3.Vec{{X: 1.5, Z: 11.5}, {X: -1.5, Z: 8.5}},
		},
	} {
		s, err := form3.CylinderAlong(test.origin, test.dir, 0.5, test.from, test.to)
		if err != nil {
			t.Fatalf("%s: %v", test.name, err)
		}
		for _, p := range test.inside {
			if d := s.Evaluate(p); d >= 0 {
				t.Errorf("%s: %v outside, d=%g", test.name, p, d)
			}
		}
		for _, p := range test.outside {
			if d := s.Evaluate(p); d <= 0 {
				t.Errorf("%s: %v inside, d=%g", test.name, p, d)
			}
		}
	}
}

func TestBasicShapes(t *testing.T) {
	box, err := form3.Box(r3.Vec{X: 4, Y: 2, Z: 6}, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	sphere, err := form3.Sphere(2)
	if err != nil {
		t.Fatal(err)
	}
	cyl, err := form3.Cylinder(4, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name string
		got  float64
		want float64
	}{
		{"box face", box.Evaluate(r3.Vec{X: 3}), 1},
		{"box center", box.Evaluate(r3.Vec{}), -1},
		{"sphere", sphere.Evaluate(r3.Vec{X: 1, Y: 1, Z: 1}), math.Sqrt(3) - 2},
		{"cylinder side", cyl.Evaluate(r3.Vec{Y: 1.5}), 0.5},
		{"cylinder top", cyl.Evaluate(r3.Vec{Z: 2.25}), 0.25},
	} {
		if math.Abs(test.got-test.want) > 1e-9 {
			t.Errorf("%s: got %g, want %g", test.name, test.got, test.want)
		}
	}
}

func TestInvalidShapes(t *testing.T) {
	for _, test := range []struct {
		name string
		make func() error
		want string
	}{
		{"empty span", func() error {
			_, err := form3.CylinderAlong(r3.Vec{}, r3.Vec{Z: 1}, 1, 2, 2)
			return err
		}, "to <= from"},
		{"reversed span", func() error {
			_, err := form3.CylinderAlong(r3.Vec{}, r3.Vec{Z: 1}, 1, 3, -1)
			return err
		}, "to <= from"},
		{"zero direction", func() error {
			_, err := form3.CylinderAlong(r3.Vec{X: 1}, r3.Vec{}, 1, 0, 1)
			return err
		}, "zero direction"},
		{"along radius", func() error {
			_, err := form3.CylinderAlong(r3.Vec{}, r3.Vec{Z: 1}, 0, 0, 1)
			return err
		}, "radius <= 0"},
		{"box round", func() error { _, err := form3.Box(r3.Vec{X: 1, Y: 1, Z: 1}, 0.6); return err }, "round > half"},
		{"box size", func() error { _, err := form3.Box(r3.Vec{X: 1, Z: 1}, 0); return err }, "size <= 0"},
		{"sphere", func() error { _, err := form3.Sphere(-1); return err }, "radius <= 0"},
		{"cylinder height", func() error { _, err := form3.Cylinder(0, 1, 0); return err }, "height <= 0"},
		{"cylinder round", func() error { _, err := form3.Cylinder(4, 1, 1.5); return err }, "round > radius"},
	} {
		err := test.make()
		if err == nil {
			t.Errorf("%s: expected error", test.name)
			continue
		}
		if !strings.Contains(err.Error(), test.want) {
			t.Errorf("%s: error %q does not mention %q", test.name, err, test.want)
		}
	}
}
