package stock

import (
	"math"
	"testing"

	"github.com/printmount/touchmount/assembly"
	"github.com/printmount/touchmount/mount"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func near(a, b r3.Vec) bool { return r3.Norm(r3.Sub(a, b)) < 1e-6 }

func TestNew(t *testing.T) {
	m, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != Name {
		t.Errorf("name %q", m.Name)
	}
	// board rests on the spacers, its holes 0.4 left of the plate holes.
	if got, want := m.PCB.World().Translation(), (r3.Vec{X: 0.4, Z: -8.4}); !near(got, want) {
		t.Errorf("board at %v, want %v", got, want)
	}
	for i, s := range m.Spacers {
		if want := "PCB Spacer " + string(rune('0'+i)); s.Label != want {
			t.Errorf("spacer %d label %q", i, s.Label)
		}
		top, err := s.Joint(mount.JointPCB)
		if err != nil {
			t.Fatal(err)
		}
		if z := top.World().Translation().Z; math.Abs(z+spacerHeight) > 1e-9 {
			t.Errorf("spacer %d top at z=%g", i, z)
		}
		pj, _ := m.PCB.Joint(mount.SpacerJoint(i))
		if !assembly.Coincident(top, pj, 1e-6) {
			t.Errorf("spacer %d not under board joint", i)
		}
	}
}

func TestPlateSketch(t *testing.T) {
	m, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	sk := m.Sketch()
	edge := m.PlateSize().X / 2
	for _, test := range []struct {
		name  string
		p     r2.Vec
		solid bool
	}{
		{"centre cutout", r2.Vec{}, false},
		{"right notch", r2.Vec{X: 60}, false},
		{"left notch", r2.Vec{X: -60}, false},
		{"right notch edge fillet", r2.Vec{X: edge - 0.1, Y: 11.1}, false},
		{"beside right notch", r2.Vec{X: 50, Y: 11.5}, true},
		{"left notch edge fillet", r2.Vec{X: -edge + 0.1, Y: 11.1}, false},
		{"left notch lower edge fillet", r2.Vec{X: -edge + 0.1, Y: -11.1}, false},
		{"beside left notch", r2.Vec{X: -50, Y: -11.5}, true},
		{"above centre cutout", r2.Vec{Y: 25}, true},
		{"spacer hole", r2.Vec{X: 47.4, Y: -26.5}, false},
		{"spacer hole", r2.Vec{X: -47.4, Y: 26.5}, false},
		{"beside spacer hole", r2.Vec{X: 47.4 + 1.6, Y: -26.5}, true},
		{"outside", r2.Vec{Y: 33}, false},
	} {
		d := sk.Evaluate(test.p)
		if (d < 0) != test.solid {
			t.Errorf("%s at %v: distance %g, solid want %v", test.name, test.p, d, test.solid)
		}
	}
}

func TestScreenPlacement(t *testing.T) {
	m, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	placed := map[string]assembly.Placed{}
	for _, p := range m.Assembly.WorldShapes() {
		placed[p.Label] = p
	}
	for _, label := range []string{"Plate", "PCB", "LCD", "PCB Spacer 0", "PCB Spacer 3"} {
		if _, ok := placed[label]; !ok {
			t.Fatalf("missing %s in assembly", label)
		}
	}
	lcd := placed["LCD"].WorldShape()
	if d := lcd.Evaluate(r3.Vec{X: 0.8, Y: 1, Z: -8.4 - lcdThickness/2}); d >= 0 {
		t.Errorf("display center not inside display, distance %g", d)
	}
	board := placed["PCB"].WorldShape()
	if d := board.Evaluate(r3.Vec{X: 30, Z: -7.6}); d >= 0 {
		t.Errorf("board not under the spacers, distance %g", d)
	}
	// board holes line up with the plate holes.
	if d := board.Evaluate(r3.Vec{X: 47.4, Y: 26.5, Z: -7.6}); d <= 0 {
		t.Errorf("board solid under plate hole, distance %g", d)
	}
	spacer := placed["PCB Spacer 0"].WorldShape()
	if d := spacer.Evaluate(r3.Vec{X: -47.4 + 2.4, Y: 26.5, Z: -3.4}); d >= 0 {
		t.Errorf("spacer wall missing, distance %g", d)
	}
}
