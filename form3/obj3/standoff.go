package obj3

import (
	"errors"

	"github.com/printmount/touchmount/form3/must3"
	"github.com/printmount/touchmount/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// PCB Standoffs, Mounting Pillars

// StandoffParams defines the parameters for a board standoff pillar.
type StandoffParams struct {
	PillarHeight   float64
	PillarDiameter float64
	// HoleDepth > 0 is a blind hole from the top, HoleDepth >= PillarHeight
	// bores all the way through.
	HoleDepth    float64
	HoleDiameter float64
}

// Standoff returns a single board standoff with its base on z=0
// and its top face on z=PillarHeight.
func Standoff(k StandoffParams) (s sdf.SDF3, err error) {
	switch {
	case k.PillarHeight <= 0:
		return nil, errors.New("pillar height <= 0")
	case k.PillarDiameter <= 0:
		return nil, errors.New("pillar diameter <= 0")
	case k.HoleDiameter >= k.PillarDiameter:
		return nil, errors.New("hole diameter must be smaller than pillar diameter")
	case k.HoleDepth < 0:
		return nil, errors.New("hole depth < 0")
	case k.HoleDiameter < 0:
		return nil, errors.New("hole diameter < 0")
	}
	switch {
	case k.HoleDiameter == 0 || k.HoleDepth == 0:
		s = pillar(k)
	case k.HoleDepth >= k.PillarHeight:
		s = must3.Tube(k.PillarHeight, 0.5*k.PillarDiameter, 0.5*k.HoleDiameter)
	default:
		s = sdf.Difference3D(pillar(k), pillarHole(k))
	}
	return sdf.Transform3D(s, sdf.Translate3D(r3.Vec{Z: 0.5 * k.PillarHeight})), nil
}

// pillar returns a cylindrical pillar
func pillar(k StandoffParams) sdf.SDF3 {
	return must3.Cylinder(k.PillarHeight, 0.5*k.PillarDiameter, 0)
}

// pillarHole returns a blind screw hole from the top face.
func pillarHole(k StandoffParams) sdf.SDF3 {
	s := must3.Cylinder(k.HoleDepth, 0.5*k.HoleDiameter, 0)
	zOfs := 0.5 * (k.PillarHeight - k.HoleDepth)
	return sdf.Transform3D(s, sdf.Translate3D(r3.Vec{Z: zOfs}))
}
