package form2

import (
	"fmt"
	"runtime/debug"

	"github.com/printmount/touchmount/form2/must2"
	"github.com/printmount/touchmount/sdf"
	"gonum.org/v1/gonum/spatial/r2"
)

type shapeErr struct {
	panicObj interface{}
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s", s.panicObj)
}

// Circle returns the SDF2 for a 2d circle.
func Circle(radius float64) (s sdf.SDF2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must2.Circle(radius), err
}

// Box returns a 2d box.
func Box(size r2.Vec, round float64) (s sdf.SDF2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must2.Box(size, round), err
}

// RoundedRect returns a rectangle with a radius per corner, ordered
// bottom-left, bottom-right, top-right, top-left.
func RoundedRect(size r2.Vec, radii [4]float64) (s sdf.SDF2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must2.RoundedRect(size, radii), err
}

// CornerFillet returns the material removed when rounding the convex corner
// at corner. into points from the corner towards the material.
func CornerFillet(corner, into r2.Vec, radius float64) (s sdf.SDF2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must2.CornerFillet(corner, into, radius), err
}
