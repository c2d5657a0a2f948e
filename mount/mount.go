// Package mount builds the touchscreen mounting plate for a printer and
// wires it to its spacers and the screen board through named joints.
//
// Coordinates: the plate lies on z=0..Thickness with its top face up. The
// screen hangs below the plate, so spacer positions are given in the
// bottom-face frame, which is the top frame rotated 180 degrees about X:
// a bottom-face point (x, y) sits at world (x, -y, 0).
package mount

import (
	"errors"
	"fmt"
	"strings"

	"github.com/printmount/touchmount/assembly"
	"github.com/printmount/touchmount/form2"
	"github.com/printmount/touchmount/form3"
	"github.com/printmount/touchmount/helpers/matter"
	"github.com/printmount/touchmount/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Plate dimensions not tied to the printer.
const (
	PlateThickness    = 3.0
	PlateCornerRadius = 3.0
	plateMarginX      = 12.5
	plateMarginY      = 25.0
	// counterbores run out through the plate bottom.
	counterboreLength = 100.0
	jointTolerance    = 1e-6
)

// Joint names. Spacers carry JointPlate and JointPCB, the plate and the
// screen board carry one SpacerJoint(i) per spacer.
const (
	JointPlate = "plate"
	JointPCB   = "pcb"
)

// SpacerJoint returns the name of the i'th spacer joint on the plate or board.
func SpacerJoint(i int) string { return fmt.Sprintf("spacer%d", i) }

// JointRotation returns the extra rotation in degrees of spacer joint i.
// The first two joints step by inc, the rest step back from the start by inc
// so the four corners of a grid all face the same way around the board.
func JointRotation(i int, inc float64) float64 {
	if i < 2 {
		return float64(i) * inc
	}
	return float64(i-1) * -inc
}

// Params describes a mount variant.
type Params struct {
	Name    string
	Printer Printer
	// PCB is the screen assembly. It must carry one SpacerJoint per spacer position.
	PCB *assembly.Part
	// Spacer is the template copied onto every spacer position.
	// It must carry JointPlate and JointPCB.
	Spacer  *assembly.Part
	Cutouts CutoutFunc
	// SpacerPositions in the bottom-face frame.
	SpacerPositions    []r2.Vec
	SpacerHoleDiameter float64
	// Spacer joint rotation about the face normal, in degrees.
	SpacerJointInitialRot   float64
	SpacerJointRotIncrement float64
	// Material compensates hole diameters and the printed size when set.
	Material *matter.ViscousMaterial
}

// Mount is a built touchscreen mount.
type Mount struct {
	Name     string
	Printer  Printer
	Plate    *assembly.Part
	Spacer   *assembly.Part
	Spacers  []*assembly.Part
	PCB      *assembly.Part
	Assembly *assembly.Part
	Material *matter.ViscousMaterial

	plateSize r2.Vec
	sketch    sdf.SDF2
	holes     []r2.Vec
	bosses    []r2.Vec
}

// Sketch returns the plate profile seen from the top, with cutouts and spacer holes.
func (m *Mount) Sketch() sdf.SDF2 { return m.sketch }

// PlateSize returns the plate outline width and height.
func (m *Mount) PlateSize() r2.Vec { return m.plateSize }

// SpacerHoles returns the spacer hole centers in world XY.
func (m *Mount) SpacerHoles() []r2.Vec { return append([]r2.Vec(nil), m.holes...) }

// Bosses returns where the boss axes meet the plate top, in world XY.
func (m *Mount) Bosses() []r2.Vec { return append([]r2.Vec(nil), m.bosses...) }

// Printable returns the part shape ready to print, compensated for material shrinkage.
func (m *Mount) Printable(p *assembly.Part) sdf.SDF3 {
	s := p.Shape()
	if s == nil || m.Material == nil {
		return s
	}
	return m.Material.Scale(s)
}

// InternalDim returns the modelled size of an internal feature that should print at d.
func InternalDim(m *matter.ViscousMaterial, d float64) float64 {
	if m == nil {
		return d
	}
	return m.InternalDimScale(d)
}

// Build constructs the plate and assembles the spacers and screen on it.
func Build(p Params) (*Mount, error) {
	switch {
	case p.PCB == nil:
		return nil, errors.New("mount: nil PCB")
	case p.Spacer == nil:
		return nil, errors.New("mount: nil spacer")
	case p.Printer.MountAngle == 0:
		return nil, errors.New("mount: printer mount angle not set")
	case len(p.SpacerPositions) == 0:
		return nil, errors.New("mount: no spacer positions")
	case p.SpacerHoleDiameter <= 0:
		return nil, errors.New("mount: spacer hole diameter <= 0")
	}
	m := &Mount{
		Name:     p.Name,
		Printer:  p.Printer,
		Spacer:   p.Spacer,
		PCB:      p.PCB,
		Material: p.Material,
		plateSize: r2.Vec{
			X: p.Printer.ScrewXSpacing + plateMarginX,
			Y: p.Printer.ScrewYSpacing() + plateMarginY,
		},
	}
	for _, pos := range p.SpacerPositions {
		m.holes = append(m.holes, r2.Vec{X: pos.X, Y: -pos.Y})
	}
	m.bosses = GridLocations(r2.Vec{}, p.Printer.ScrewXSpacing, p.Printer.ScrewYSpacing(), 2, 2)

	var err error
	m.sketch, err = plateSketch(m.plateSize, p.Cutouts, m.holes, InternalDim(p.Material, p.SpacerHoleDiameter))
	if err != nil {
		return nil, fmt.Errorf("%s plate sketch: %w", p.Name, err)
	}
	shape, err := plateBody(m.sketch, p.Printer, m.bosses, p.Material)
	if err != nil {
		return nil, fmt.Errorf("%s plate: %w", p.Name, err)
	}
	m.Plate = assembly.NewPart("Plate", assembly.Indigo, shape)
	for i, pos := range p.SpacerPositions {
		rot := p.SpacerJointInitialRot + JointRotation(i, p.SpacerJointRotIncrement)
		rel := assembly.Pos(pos.X, -pos.Y, 0).Mul(assembly.Rot(180, 0, 0)).Mul(assembly.Rot(0, 0, rot))
		if _, err := m.Plate.AddJoint(SpacerJoint(i), rel); err != nil {
			return nil, err
		}
	}
	if err := m.wire(); err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}
	parts := append([]*assembly.Part{m.Plate, m.PCB}, m.Spacers...)
	m.Assembly, err = assembly.NewCompound("4Max Pro Touchscreen Mount", parts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}
	return m, nil
}

// wire places one spacer copy on every plate joint and the screen on the spacers.
func (m *Mount) wire() error {
	plateJoints := spacerJoints(m.Plate)
	pcbJoints := spacerJoints(m.PCB)
	if len(plateJoints) != len(pcbJoints) {
		return fmt.Errorf("plate has %d spacer joints, %s has %d: %w",
			len(plateJoints), m.PCB.Label, len(pcbJoints), assembly.ErrJointCount)
	}
	type pair struct{ a, b *assembly.Joint }
	var pairs []pair
	for i, pj := range plateJoints {
		spacer := m.Spacer.Copy(fmt.Sprintf("%s %d", m.Spacer.Label, i))
		base, err := spacer.Joint(JointPlate)
		if err != nil {
			return err
		}
		top, err := spacer.Joint(JointPCB)
		if err != nil {
			return err
		}
		if err := pj.ConnectTo(base); err != nil {
			return err
		}
		m.Spacers = append(m.Spacers, spacer)
		pairs = append(pairs, pair{pj, base}, pair{top, pcbJoints[i]})
	}
	// The screen is placed by the first spacer, the others must agree.
	first := pairs[1]
	if err := first.a.ConnectTo(first.b); err != nil {
		return err
	}
	for _, p := range pairs {
		if !assembly.Coincident(p.a, p.b, jointTolerance) {
			return fmt.Errorf("%s on %q and %s on %q: %w", p.a.Name, p.a.Part().Label,
				p.b.Name, p.b.Part().Label, assembly.ErrJointMismatch)
		}
	}
	return nil
}

func spacerJoints(p *assembly.Part) []*assembly.Joint {
	var js []*assembly.Joint
	for _, j := range p.Joints() {
		if strings.HasPrefix(j.Name, "spacer") {
			js = append(js, j)
		}
	}
	return js
}

func plateSketch(size r2.Vec, cutouts CutoutFunc, holes []r2.Vec, holeDiameter float64) (sdf.SDF2, error) {
	outline, err := form2.Box(size, PlateCornerRadius)
	if err != nil {
		return nil, err
	}
	var removed []sdf.SDF2
	if cutouts != nil {
		removed, err = cutouts(size)
		if err != nil {
			return nil, fmt.Errorf("cutouts: %w", err)
		}
	}
	hole, err := form2.Circle(holeDiameter / 2)
	if err != nil {
		return nil, fmt.Errorf("spacer hole: %w", err)
	}
	removed = append(removed, sdf.Multi2D(hole, holes))
	return sdf.Difference2D(outline, sdf.Union2D(removed...)), nil
}

// plateBody extrudes the sketch and adds the angled screw bosses.
func plateBody(sketch sdf.SDF2, pr Printer, bosses []r2.Vec, mat *matter.ViscousMaterial) (sdf.SDF3, error) {
	body := sdf.Transform3D(sdf.Extrude3D(sketch, PlateThickness), sdf.Translate3D(r3.Vec{Z: PlateThickness / 2}))
	// boss axis, pointing from the screw seat down into the plate.
	n := sdf.RotateX(sdf.DtoR(180 + pr.MountAngle)).ApplyDir(r3.Vec{Z: 1})
	if n.Z >= 0 {
		return nil, fmt.Errorf("mount angle %g does not point the bosses into the plate", pr.MountAngle)
	}
	top := r3.Vec{Z: PlateThickness}
	holeR := InternalDim(mat, pr.ScrewHoleID) / 2
	boreR := InternalDim(mat, pr.CounterboreDiameter) / 2
	posts := []sdf.SDF3{body}
	var cuts []sdf.SDF3
	for _, b := range bosses {
		o := r3.Sub(r3.Vec{X: b.X, Y: b.Y, Z: PlateThickness}, r3.Scale(pr.ProtrusionOffset(), n))
		// long enough for the whole rim to reach below the plate top.
		postLen := (o.Z - PlateThickness + pr.ScrewHoleOD/2) / -n.Z
		post, err := form3.CylinderAlong(o, n, pr.ScrewHoleOD/2, 0, postLen)
		if err != nil {
			return nil, fmt.Errorf("boss: %w", err)
		}
		posts = append(posts, sdf.Cut3D(post, top, r3.Vec{Z: 1}))

		throughLen := (o.Z+holeR+1)/-n.Z + 1
		hole, err := form3.CylinderAlong(o, n, holeR, -1, throughLen)
		if err != nil {
			return nil, fmt.Errorf("boss hole: %w", err)
		}
		from := pr.ScrewHoleLength - pr.CounterboreDepth
		bore, err := form3.CylinderAlong(o, n, boreR, from, from+counterboreLength)
		if err != nil {
			return nil, fmt.Errorf("counterbore: %w", err)
		}
		cuts = append(cuts, hole, bore)
	}
	return sdf.Difference3D(sdf.Union3D(posts...), sdf.Union3D(cuts...)), nil
}
