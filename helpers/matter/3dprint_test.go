package matter

import (
	"math"
	"testing"

	"github.com/printmount/touchmount/form3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestInternalDimScale(t *testing.T) {
	for _, test := range []struct {
		m    ViscousMaterial
		real float64
		want float64
	}{
		{PLA, 3.6, 3.6*1.002 + .45},
		{PLA, 1.8, 1.8*1.002 + .45},
		{PETG, 2.8, 2.8*1.004 + .5},
	} {
		got := test.m.InternalDimScale(test.real)
		if math.Abs(got-test.want) > 1e-12 {
			t.Errorf("%s InternalDimScale(%g) = %g, want %g", test.m.Name, test.real, got, test.want)
		}
		if got <= test.real {
			t.Errorf("%s internal dimension must grow", test.m.Name)
		}
	}
}

func TestInternalDimScalePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero dimension")
		}
	}()
	PLA.InternalDimScale(0)
}

func TestScale(t *testing.T) {
	box, err := form3.Box(r3.Vec{X: 100, Y: 10, Z: 10}, 0)
	if err != nil {
		t.Fatal(err)
	}
	scaled := PLA.Scale(box)
	want := 50 / (1 - PLA.shrink)
	if got := scaled.Bounds().Max.X; math.Abs(got-want) > 1e-9 {
		t.Errorf("scaled half length %g, want %g", got, want)
	}
	// the nominal surface is now inside the part.
	if d := scaled.Evaluate(r3.Vec{X: 50}); d >= 0 {
		t.Errorf("nominal face should be inside scaled part, distance %g", d)
	}
}

func TestByName(t *testing.T) {
	m, err := ByName("PETG")
	if err != nil || m != PETG {
		t.Errorf("ByName(PETG) = %v, %v", m, err)
	}
	if _, err := ByName("ABS"); err == nil {
		t.Error("expected error for unknown material")
	}
}
