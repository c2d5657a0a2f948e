// Package stock builds the mount for the touchscreen the 4Max Pro ships with.
package stock

import (
	"fmt"

	"github.com/printmount/touchmount/assembly"
	"github.com/printmount/touchmount/form2"
	"github.com/printmount/touchmount/form3"
	"github.com/printmount/touchmount/form3/obj3"
	"github.com/printmount/touchmount/helpers/matter"
	"github.com/printmount/touchmount/mount"
	"github.com/printmount/touchmount/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Name is the export file name prefix.
const Name = "4Max_Pro_Touchscreen_Mount"

// Screen board.
const (
	pcbWidth        = 107.6
	pcbHeight       = 60.0
	pcbThickness    = 1.6
	pcbCornerRadius = 2.0
	pcbScrewX       = 94.8
	pcbScrewY       = 53.0
	pcbHoleDiameter = 2.8
	// holes sit this much closer to the left board edge.
	pcbHoleShift = 0.4

	lcdWidth     = 84.6
	lcdHeight    = 55.5
	lcdThickness = 3.8
	lcdOffsetX   = 0.4
	lcdOffsetY   = -1.0
)

// Spacer.
const (
	spacerOD     = 6.0
	spacerID     = 3.5
	spacerHeight = 6.8
)

// Plate cutouts.
const (
	centreCutoutWidth  = 77.75
	centreCutoutHeight = 34.8
	centreCutoutRadius = 2.0
	edgeCutoutDepth    = 16.5
	edgeCutoutHeight   = 22.0
	edgeCutoutRadius   = 3.0
)

// New builds the stock screen mount. mat may be nil for nominal dimensions.
func New(mat *matter.ViscousMaterial) (*mount.Mount, error) {
	pcb, err := PCB()
	if err != nil {
		return nil, err
	}
	spacer, err := Spacer(mat)
	if err != nil {
		return nil, err
	}
	return mount.Build(mount.Params{
		Name:               Name,
		Printer:            mount.FourMaxPro,
		PCB:                pcb,
		Spacer:             spacer,
		Cutouts:            Cutouts,
		SpacerPositions:    mount.GridLocations(r2.Vec{}, pcbScrewX, pcbScrewY, 2, 2),
		SpacerHoleDiameter: pcbHoleDiameter,
		Material:           mat,
	})
}

// Cutouts opens the plate behind the screen and notches both short edges.
func Cutouts(plate r2.Vec) ([]sdf.SDF2, error) {
	centre, err := mount.RoundedCutout(r2.Vec{}, r2.Vec{X: centreCutoutWidth, Y: centreCutoutHeight}, centreCutoutRadius)
	if err != nil {
		return nil, err
	}
	edge := plate.X / 2
	half := edgeCutoutHeight / 2
	right, err := mount.Notch{
		Side:        mount.Right,
		Min:         r2.Vec{X: edge - edgeCutoutDepth, Y: -half},
		Max:         r2.Vec{X: edge, Y: half},
		EdgeRadius:  edgeCutoutRadius,
		InnerRadius: edgeCutoutRadius,
	}.Shape()
	if err != nil {
		return nil, err
	}
	// the left notch is the right one mirrored across the plate center line.
	cuts := []sdf.SDF2{centre, right, sdf.MirrorX2D(right)}
	return cuts, nil
}

// Spacer is a round standoff bored through for the board screw.
func Spacer(mat *matter.ViscousMaterial) (*assembly.Part, error) {
	s, err := obj3.Standoff(obj3.StandoffParams{
		PillarHeight:   spacerHeight,
		PillarDiameter: spacerOD,
		HoleDepth:      spacerHeight,
		HoleDiameter:   mount.InternalDim(mat, spacerID),
	})
	if err != nil {
		return nil, fmt.Errorf("spacer: %w", err)
	}
	p := assembly.NewPart("PCB Spacer", assembly.Grey, s)
	if _, err := p.AddJoint(mount.JointPlate, sdf.Transform{}); err != nil {
		return nil, err
	}
	if _, err := p.AddJoint(mount.JointPCB, assembly.Pos(0, 0, spacerHeight)); err != nil {
		return nil, err
	}
	return p, nil
}

// PCB returns the screen board with its display, bottom face on z=0.
// Its spacer joints sit on the board top face over each screw hole.
func PCB() (*assembly.Part, error) {
	outline, err := form2.Box(r2.Vec{X: pcbWidth, Y: pcbHeight}, pcbCornerRadius)
	if err != nil {
		return nil, fmt.Errorf("pcb outline: %w", err)
	}
	hole, err := form2.Circle(pcbHoleDiameter / 2)
	if err != nil {
		return nil, fmt.Errorf("pcb hole: %w", err)
	}
	var holes []r2.Vec
	for _, g := range mount.GridLocations(r2.Vec{X: -pcbHoleShift}, pcbScrewX, pcbScrewY, 2, 2) {
		// bottom-face coordinates to board coordinates.
		holes = append(holes, r2.Vec{X: g.X, Y: -g.Y})
	}
	board := sdf.Extrude3D(sdf.Difference2D(outline, sdf.Multi2D(hole, holes)), pcbThickness)
	board = sdf.Transform3D(board, sdf.Translate3D(r3.Vec{Z: pcbThickness / 2}))

	lcd, err := form3.Box(r3.Vec{X: lcdWidth, Y: lcdHeight, Z: lcdThickness}, 0)
	if err != nil {
		return nil, fmt.Errorf("lcd: %w", err)
	}
	lcd = sdf.Transform3D(lcd, sdf.Translate3D(r3.Vec{X: lcdOffsetX, Y: -lcdOffsetY, Z: -lcdThickness / 2}))

	pcbPart := assembly.NewPart("PCB", assembly.Green, board)
	lcdPart := assembly.NewPart("LCD", assembly.Black, lcd)
	if err := mate(pcbPart, lcdPart); err != nil {
		return nil, err
	}
	asm, err := assembly.NewCompound("PCB Assembly", pcbPart, lcdPart)
	if err != nil {
		return nil, err
	}
	for i, h := range holes {
		rel := assembly.Pos(h.X, h.Y, 0).Mul(assembly.Rot(180, 0, 0)).Mul(assembly.Pos(0, 0, -pcbThickness))
		if _, err := asm.AddJoint(mount.SpacerJoint(i), rel); err != nil {
			return nil, err
		}
	}
	return asm, nil
}

// mate fixes the display under the board.
func mate(pcb, lcd *assembly.Part) error {
	a, err := pcb.AddJoint("lcd", sdf.Transform{})
	if err != nil {
		return err
	}
	b, err := lcd.AddJoint("pcb", sdf.Transform{})
	if err != nil {
		return err
	}
	return a.ConnectTo(b)
}
