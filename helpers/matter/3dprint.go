// Package matter compensates printed part dimensions for material shrinkage.
package matter

import (
	"fmt"

	"github.com/printmount/touchmount/sdf"
)

var (
	// PLA (polylactic acid) is the most widely used plastic filament material in 3D printing.
	PLA = ViscousMaterial{Name: "PLA", shrink: 0.2e-2, pullShrink: .45} // 0.2% shrinkage
	// PETG contracts a little more than PLA and strings into holes.
	PETG = ViscousMaterial{Name: "PETG", shrink: 0.4e-2, pullShrink: .5}
)

// ViscousMaterial describes how a printed thermoplastic deviates from the model.
type ViscousMaterial struct {
	Name string
	// shrink is the thermal contraction shrinkage of a material once the material
	// cools to room temperature after the heated bed is turned off.
	shrink float64
	// pullShrink takes into account viscoelastic shrinkage of internal
	// features such as holes, in millimeters.
	pullShrink float64
}

// ByName returns the material with the given name.
func ByName(name string) (ViscousMaterial, error) {
	for _, m := range []ViscousMaterial{PLA, PETG} {
		if m.Name == name {
			return m, nil
		}
	}
	return ViscousMaterial{}, fmt.Errorf("unknown material %q", name)
}

// Scale enlarges a part so it measures its nominal size after cooling.
func (m ViscousMaterial) Scale(s sdf.SDF3) sdf.SDF3 {
	return sdf.ScaleUniform3D(s, 1/(1-m.shrink))
}

// InternalDimScale returns the dimension to model for an internal feature
// (a hole diameter for instance) that should print at real.
func (m ViscousMaterial) InternalDimScale(real float64) float64 {
	if real <= 0 {
		panic("InternalDimScale only works for non-zero dimensions")
	}
	return real*(m.shrink+1) + m.pullShrink
}
