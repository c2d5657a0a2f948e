// Package rpi builds the mount for the official Raspberry Pi touchscreen.
//
// The display glass is taped to the board with adhesive foam, so the spacers
// carry the board by its corners on a ledge instead of through screw holes.
package rpi

import (
	"fmt"

	"github.com/printmount/touchmount/assembly"
	"github.com/printmount/touchmount/form3"
	"github.com/printmount/touchmount/helpers/matter"
	"github.com/printmount/touchmount/mount"
	"github.com/printmount/touchmount/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Name is the export file name prefix.
const Name = "4Max_Pro_RPi_Touchscreen_Mount"

const (
	foamThickness  = 0.6
	// stock standoff height less the foam the display gains.
	mountingHeight = 6.8 - foamThickness

	spacerSide            = 7.0
	spacerWall            = 1.2
	spacerBottom          = 1.2
	spacerScrewHoleDia    = 2.4
	spacerHeight          = mountingHeight + pcbThickness + lcdThickness
	plateScrewHoleDia     = 1.8
	plateOffsetX          = -4.6
	spacerJointInitialRot = 90.0
	spacerJointRotInc     = -90.0

	pcbWidth     = 85.2
	pcbHeight    = 54.85
	pcbThickness = 1.6

	lcdWidth     = 82.5
	lcdHeight    = 54.35
	lcdThickness = 3.8

	connectorLength  = 33.5
	connectorWidth   = 4.95
	connectorHeight  = 13.6
	connectorToRight = 7.0
	connectorToTop   = 0.6
)

// Plate cutouts.
const (
	connectorCutoutWidth  = 42.0
	connectorCutoutHeight = 10.0
	// fraction along the straight top plate edge, from the left, where the cutout ends.
	connectorCutoutAt     = 0.763
	connectorCutoutEdgeR  = 3.0
	connectorCutoutInnerR = 1.0
	centreCutoutWidth     = 80.0
	centreCutoutHeight    = 28.0
	centreCutoutRadius    = 2.0
	centreCutoutOffsetY   = -2.0
)

// New builds the Raspberry Pi screen mount. mat may be nil for nominal dimensions.
func New(mat *matter.ViscousMaterial) (*mount.Mount, error) {
	spacer, err := Spacer(mat)
	if err != nil {
		return nil, err
	}
	sx, sy, err := ScrewSpacing(spacer)
	if err != nil {
		return nil, err
	}
	pcb, err := PCB()
	if err != nil {
		return nil, err
	}
	return mount.Build(mount.Params{
		Name:                    Name,
		Printer:                 mount.FourMaxPro,
		PCB:                     pcb,
		Spacer:                  spacer,
		Cutouts:                 Cutouts,
		SpacerPositions:         mount.GridLocations(r2.Vec{X: plateOffsetX}, sx, sy, 2, 2),
		SpacerHoleDiameter:      plateScrewHoleDia,
		SpacerJointInitialRot:   spacerJointInitialRot,
		SpacerJointRotIncrement: spacerJointRotInc,
		Material:                mat,
	})
}

// ScrewSpacing returns the plate screw grid implied by where the spacer
// holds the board corner relative to its screw.
func ScrewSpacing(spacer *assembly.Part) (x, y float64, err error) {
	plate, err := spacer.Joint(mount.JointPlate)
	if err != nil {
		return 0, 0, err
	}
	pcb, err := spacer.Joint(mount.JointPCB)
	if err != nil {
		return 0, 0, err
	}
	off := r3.Sub(pcb.Relative().Translation(), plate.Relative().Translation())
	return pcbWidth + 2*off.X, pcbHeight - 2*off.Y, nil
}

// Cutouts clears the ribbon connector at the top edge and opens the plate
// behind the display.
func Cutouts(plate r2.Vec) ([]sdf.SDF2, error) {
	straight := plate.X - 2*mount.PlateCornerRadius
	right := -straight/2 + connectorCutoutAt*straight
	top := plate.Y / 2
	connector, err := mount.Notch{
		Side:        mount.Top,
		Min:         r2.Vec{X: right - connectorCutoutWidth, Y: top - connectorCutoutHeight},
		Max:         r2.Vec{X: right, Y: top},
		EdgeRadius:  connectorCutoutEdgeR,
		InnerRadius: connectorCutoutInnerR,
	}.Shape()
	if err != nil {
		return nil, err
	}
	centre, err := mount.RoundedCutout(r2.Vec{Y: centreCutoutOffsetY},
		r2.Vec{X: centreCutoutWidth, Y: centreCutoutHeight}, centreCutoutRadius)
	if err != nil {
		return nil, err
	}
	return []sdf.SDF2{connector, centre}, nil
}

// Spacer is a square post with an L shaped ledge the board corner rests in.
// Its screw hole is off center, under the ledge pocket.
func Spacer(mat *matter.ViscousMaterial) (*assembly.Part, error) {
	body, err := form3.Box(r3.Vec{X: spacerSide, Y: spacerSide, Z: spacerHeight}, 0)
	if err != nil {
		return nil, fmt.Errorf("spacer: %w", err)
	}
	body = sdf.Transform3D(body, sdf.Translate3D(r3.Vec{Z: spacerHeight / 2}))

	// ledge pocket, open on the top face, down to the mounting height.
	ledgeSide := spacerSide - spacerWall
	ledgeDepth := spacerHeight - mountingHeight + 1
	ledge, err := form3.Box(r3.Vec{X: ledgeSide, Y: ledgeSide, Z: ledgeDepth}, 0)
	if err != nil {
		return nil, fmt.Errorf("spacer ledge: %w", err)
	}
	ledgeCenter := r2.Vec{X: spacerWall / 2, Y: -spacerWall / 2}
	ledge = sdf.Transform3D(ledge, sdf.Translate3D(r3.Vec{X: ledgeCenter.X, Y: ledgeCenter.Y, Z: mountingHeight + ledgeDepth/2}))

	// inner pocket under the ledge down to the bottom thickness, overlapping the ledge pocket.
	innerSide := spacerSide - 2*spacerWall
	screw := r2.Vec{X: spacerWall / 2, Y: -spacerWall / 2}
	innerTop := mountingHeight + 1
	inner, err := form3.Box(r3.Vec{X: innerSide, Y: innerSide, Z: innerTop - spacerBottom}, 0)
	if err != nil {
		return nil, fmt.Errorf("spacer pocket: %w", err)
	}
	inner = sdf.Transform3D(inner, sdf.Translate3D(r3.Vec{X: screw.X, Y: screw.Y, Z: (innerTop + spacerBottom) / 2}))

	hole, err := form3.Cylinder(2*spacerBottom+2, mount.InternalDim(mat, spacerScrewHoleDia)/2, 0)
	if err != nil {
		return nil, fmt.Errorf("spacer screw hole: %w", err)
	}
	hole = sdf.Transform3D(hole, sdf.Translate3D(r3.Vec{X: screw.X, Y: screw.Y}))

	s := sdf.Difference3D(body, sdf.Union3D(ledge, inner, hole))
	p := assembly.NewPart("Spacer", assembly.Grey, s)
	if _, err := p.AddJoint(mount.JointPlate, assembly.Pos(screw.X, screw.Y, 0)); err != nil {
		return nil, err
	}
	// inner corner of the ledge, where the board corner sits.
	corner := r2.Vec{X: ledgeCenter.X - ledgeSide/2, Y: ledgeCenter.Y + ledgeSide/2}
	if _, err := p.AddJoint(mount.JointPCB, assembly.Pos(corner.X, corner.Y, mountingHeight)); err != nil {
		return nil, err
	}
	return p, nil
}

// PCB returns the display board, display and ribbon connector. The board
// bottom face is on z=0 with the display under it. Spacer joints sit on the
// board top face at its corners.
func PCB() (*assembly.Part, error) {
	board, err := form3.Box(r3.Vec{X: pcbWidth, Y: pcbHeight, Z: pcbThickness}, 0)
	if err != nil {
		return nil, fmt.Errorf("pcb: %w", err)
	}
	board = sdf.Transform3D(board, sdf.Translate3D(r3.Vec{Z: pcbThickness / 2}))

	lcdT := lcdThickness + 2*foamThickness
	lcd, err := form3.Box(r3.Vec{X: lcdWidth, Y: lcdHeight, Z: lcdT}, 0)
	if err != nil {
		return nil, fmt.Errorf("lcd: %w", err)
	}
	lcd = sdf.Transform3D(lcd, sdf.Translate3D(r3.Vec{Z: -lcdT / 2}))

	conn, err := form3.Box(r3.Vec{X: connectorLength, Y: connectorWidth, Z: connectorHeight}, 0)
	if err != nil {
		return nil, fmt.Errorf("connector: %w", err)
	}
	// right and top sides measured from the board's top right corner.
	connMax := r2.Vec{X: pcbWidth/2 - connectorToRight, Y: pcbHeight/2 - connectorToTop}
	conn = sdf.Transform3D(conn, sdf.Translate3D(r3.Vec{
		X: connMax.X - connectorLength/2,
		Y: connMax.Y - connectorWidth/2,
		Z: pcbThickness + connectorHeight/2,
	}))

	pcbPart := assembly.NewPart("PCB", assembly.Green, board)
	lcdPart := assembly.NewPart("LCD", assembly.Black, lcd)
	a, err := pcbPart.AddJoint("lcd", sdf.Transform{})
	if err != nil {
		return nil, err
	}
	b, err := lcdPart.AddJoint("pcb", sdf.Transform{})
	if err != nil {
		return nil, err
	}
	if err := a.ConnectTo(b); err != nil {
		return nil, err
	}
	connPart := assembly.NewPart("Connector", assembly.Black, conn)
	asm, err := assembly.NewCompound("PCB Assembly", pcbPart, lcdPart, connPart)
	if err != nil {
		return nil, err
	}
	for i, c := range mount.GridLocations(r2.Vec{}, pcbWidth, pcbHeight, 2, 2) {
		rot := spacerJointInitialRot + mount.JointRotation(i, spacerJointRotInc)
		rel := assembly.Pos(c.X, -c.Y, 0).
			Mul(assembly.Rot(180, 0, 0)).
			Mul(assembly.Pos(0, 0, -pcbThickness)).
			Mul(assembly.Rot(0, 0, rot))
		if _, err := asm.AddJoint(mount.SpacerJoint(i), rel); err != nil {
			return nil, err
		}
	}
	return asm, nil
}
