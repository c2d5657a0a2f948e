package mount

import (
	"math"

	"github.com/printmount/touchmount/sdf"
)

// Printer holds the geometry of the screen mounting screws on a printer.
type Printer struct {
	// MountAngle is the tilt of the screen mounting face in degrees.
	MountAngle float64
	// Distance between screws along the face, and vertically.
	ScrewXSpacing, ScrewZSpacing float64

	ScrewHoleOD, ScrewHoleID float64
	ScrewHoleLength          float64
	CounterboreDepth         float64
	CounterboreDiameter      float64
	// ProtrusionSpan is the width of the screw seat the bosses sink into.
	ProtrusionSpan float64
}

// FourMaxPro is the Anycubic 4Max Pro screen mount.
var FourMaxPro = Printer{
	MountAngle:          45,
	ScrewXSpacing:       116,
	ScrewZSpacing:       28,
	ScrewHoleOD:         10,
	ScrewHoleID:         3.6,
	ScrewHoleLength:     10.5,
	CounterboreDepth:    6.1,
	CounterboreDiameter: 6.8,
	ProtrusionSpan:      7.2,
}

// ScrewYSpacing is the screw spacing projected on the plate.
func (p Printer) ScrewYSpacing() float64 {
	return p.ScrewZSpacing / math.Sin(sdf.DtoR(p.MountAngle))
}

// ProtrusionOffset is how far the boss base plane sits behind the screw seat.
func (p Printer) ProtrusionOffset() float64 {
	return math.Tan(sdf.DtoR(p.MountAngle)) * p.ProtrusionSpan / 2
}
