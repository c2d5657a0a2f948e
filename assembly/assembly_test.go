package assembly

import (
	"errors"
	"math"
	"testing"

	"github.com/printmount/touchmount/form3"
	"github.com/printmount/touchmount/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func vecEqual(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < tol
}

func TestRot(t *testing.T) {
	for _, test := range []struct {
		x, y, z float64
		in, out r3.Vec
	}{
		{90, 0, 0, r3.Vec{Y: 1}, r3.Vec{Z: 1}},
		{0, 90, 0, r3.Vec{Z: 1}, r3.Vec{X: 1}},
		{0, 0, 90, r3.Vec{X: 1}, r3.Vec{Y: 1}},
		{180, 0, 0, r3.Vec{X: 1, Y: 1, Z: 1}, r3.Vec{X: 1, Y: -1, Z: -1}},
		// X is applied first: Y->Z, then Z rotation leaves Z alone.
		{90, 0, 90, r3.Vec{Y: 1}, r3.Vec{Z: 1}},
		// X then Z: X stays X under the X rotation, then goes to Y.
		{90, 0, 90, r3.Vec{X: 1}, r3.Vec{Y: 1}},
	} {
		got := Rot(test.x, test.y, test.z).Apply(test.in)
		if !vecEqual(got, test.out) {
			t.Errorf("Rot(%g,%g,%g) applied to %v = %v, want %v", test.x, test.y, test.z, test.in, got, test.out)
		}
	}
}

func TestJointsOrderAndLookup(t *testing.T) {
	p := NewPart("plate", Grey, nil)
	for _, name := range []string{"spacer0", "spacer1", "spacer2"} {
		if _, err := p.AddJoint(name, sdf.Transform{}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := p.AddJoint("spacer1", sdf.Transform{}); !errors.Is(err, ErrDuplicateJoint) {
		t.Errorf("expected duplicate joint error, got %v", err)
	}
	joints := p.Joints()
	if len(joints) != 3 {
		t.Fatalf("got %d joints", len(joints))
	}
	for i, j := range joints {
		if want := []string{"spacer0", "spacer1", "spacer2"}[i]; j.Name != want {
			t.Errorf("joint %d is %s, want %s", i, j.Name, want)
		}
		if j.Part() != p {
			t.Error("joint not bound to its part")
		}
	}
	if _, err := p.Joint("lcd"); !errors.Is(err, ErrJointNotFound) {
		t.Errorf("expected joint not found, got %v", err)
	}
}

func TestConnect(t *testing.T) {
	plate := NewPart("plate", Grey, nil)
	plate.SetLocation(Pos(1, 2, 3))
	hole, _ := plate.AddJoint("hole", Pos(10, 0, 0).Mul(Rot(180, 0, 0)))

	spacer := NewPart("spacer", Grey, nil)
	base, _ := spacer.AddJoint("plate", sdf.Transform{})
	top, _ := spacer.AddJoint("pcb", Pos(0, 0, 5))

	if err := hole.ConnectTo(base); err != nil {
		t.Fatal(err)
	}
	if !Coincident(hole, base, tol) {
		t.Fatal("connected joints do not coincide")
	}
	// spacer hangs below the plate, its top joint 5 below the hole.
	if got, want := top.World().Translation(), (r3.Vec{X: 11, Y: 2, Z: -2}); !vecEqual(got, want) {
		t.Errorf("spacer top at %v, want %v", got, want)
	}
	// plate did not move.
	if got := plate.World().Translation(); !vecEqual(got, r3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Errorf("plate moved to %v", got)
	}
	if err := base.ConnectTo(top); err == nil {
		t.Error("expected error connecting joints on the same part")
	}
}

func TestCompoundConnect(t *testing.T) {
	board := NewPart("board", Green, nil)
	screen := NewPart("screen", Black, nil)
	screen.SetLocation(Pos(0, 0, -1))
	pcb, err := NewCompound("pcb assembly", board, screen)
	if err != nil {
		t.Fatal(err)
	}
	corner, _ := pcb.AddJoint("corner", Pos(5, 5, 0))

	post := NewPart("post", Grey, nil)
	post.SetLocation(Pos(0, 0, 10))
	tip, _ := post.AddJoint("tip", Pos(0, 0, 2))
	if err := tip.ConnectTo(corner); err != nil {
		t.Fatal(err)
	}
	if !Coincident(tip, corner, tol) {
		t.Fatal("compound joint not coincident")
	}
	// compound moved by (-5,-5,12), children follow.
	if got := screen.World().Translation(); !vecEqual(got, r3.Vec{X: -5, Y: -5, Z: 11}) {
		t.Errorf("screen world position %v", got)
	}
	if _, err := NewCompound("again", board); err == nil {
		t.Error("expected error adding a part to two compounds")
	}
}

func TestNewCompoundFailureLeavesChildren(t *testing.T) {
	board := NewPart("board", Green, nil)
	lcd := NewPart("lcd", Black, nil)
	owned := NewPart("owned", Grey, nil)
	if _, err := NewCompound("first", owned); err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name     string
		children []*Part
	}{
		{name: "nil child", children: []*Part{board, lcd, nil}},
		{name: "owned child", children: []*Part{board, lcd, owned}},
		{name: "repeated child", children: []*Part{board, lcd, board}},
	} {
		if _, err := NewCompound(test.name, test.children...); err == nil {
			t.Errorf("%s: expected error", test.name)
		}
	}
	// the rejected compounds did not claim the valid children.
	c, err := NewCompound("pcb", board, lcd)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(c.Children()); got != 2 {
		t.Errorf("got %d children, want 2", got)
	}
}

func TestConnectNestedPart(t *testing.T) {
	// moving a part nested in a moved compound accounts for the parent placement.
	lcd := NewPart("lcd", Black, nil)
	group, _ := NewCompound("group", lcd)
	group.SetLocation(Rot(0, 0, 90).Mul(Pos(3, 0, 0)))
	a, _ := lcd.AddJoint("a", Pos(1, 1, 1))

	anchor := NewPart("anchor", Grey, nil)
	b, _ := anchor.AddJoint("b", Pos(-4, 2, 7).Mul(Rot(0, 45, 0)))
	if err := b.ConnectTo(a); err != nil {
		t.Fatal(err)
	}
	if !Coincident(a, b, 1e-9) {
		t.Error("nested joint not coincident")
	}
}

func TestCopy(t *testing.T) {
	shape, err := form3.Cylinder(6.8, 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	spacer := NewPart("PCB Spacer", Grey, shape)
	spacer.AddJoint("plate", sdf.Transform{})
	c := spacer.Copy("PCB Spacer 0")
	if c.Label != "PCB Spacer 0" || c.Shape() != shape || c.Color != Grey {
		t.Error("copy lost label, shape or colour")
	}
	j, err := c.Joint("plate")
	if err != nil {
		t.Fatal(err)
	}
	if j.Part() != c {
		t.Error("copied joint bound to the original part")
	}
	c.SetLocation(Pos(1, 0, 0))
	if spacer.Location() != (sdf.Transform{}) {
		t.Error("moving the copy moved the original")
	}
}

func TestWorldShapes(t *testing.T) {
	box, err := form3.Box(r3.Vec{X: 2, Y: 2, Z: 2}, 0)
	if err != nil {
		t.Fatal(err)
	}
	a := NewPart("a", Green, box)
	b := NewPart("b", Black, box)
	b.SetLocation(Pos(10, 0, 0))
	inner, _ := NewCompound("inner", b)
	inner.SetLocation(Pos(0, 10, 0))
	root, _ := NewCompound("root", a, inner)
	root.SetLocation(Pos(0, 0, 10))

	placed := root.WorldShapes()
	if len(placed) != 2 {
		t.Fatalf("got %d placed shapes", len(placed))
	}
	if placed[0].Label != "a" || placed[1].Label != "b" {
		t.Errorf("unexpected order %s, %s", placed[0].Label, placed[1].Label)
	}
	s := placed[1].WorldShape()
	if d := s.Evaluate(r3.Vec{X: 10, Y: 10, Z: 10}); d >= 0 {
		t.Errorf("b center not inside its world shape, d=%g", d)
	}
	if d := s.Evaluate(r3.Vec{}); d <= 0 {
		t.Errorf("origin inside b world shape, d=%g", d)
	}
	if d := math.Abs(s.Evaluate(r3.Vec{X: 11, Y: 10, Z: 10})); d > 1e-9 {
		t.Errorf("b face not at x=11, d=%g", d)
	}
}
