// Package assembly places parts relative to each other through named joints.
//
// A joint is a frame fixed to a part. Connecting two joints moves the second
// joint's part so both frames coincide, which is how repeated parts such as
// spacers are positioned over the holes they mate with.
package assembly

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/printmount/touchmount/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrJointNotFound is returned when looking up a joint name a part does not have.
	ErrJointNotFound = errors.New("joint not found")
	// ErrDuplicateJoint is returned when adding a joint name twice to a part.
	ErrDuplicateJoint = errors.New("duplicate joint name")
	// ErrJointCount is returned when two joint sets that are wired pairwise differ in length.
	ErrJointCount = errors.New("joint count mismatch")
	// ErrJointMismatch is returned when connected joints do not coincide after wiring.
	ErrJointMismatch = errors.New("connected joints do not coincide")
)

// Common part colors.
var (
	Grey   = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	Green  = color.RGBA{G: 0x80, A: 0xff}
	Black  = color.RGBA{A: 0xff}
	Indigo = color.RGBA{R: 0x4b, B: 0x82, A: 0xff}
)

// Pos returns a location translated by x, y, z.
func Pos(x, y, z float64) sdf.Transform {
	return sdf.Translate3D(r3.Vec{X: x, Y: y, Z: z})
}

// Rot returns a location rotated by x, y and z degrees about the fixed
// X, Y and Z axes, applied in that order.
func Rot(x, y, z float64) sdf.Transform {
	return sdf.RotateZ(sdf.DtoR(z)).Mul(sdf.RotateY(sdf.DtoR(y))).Mul(sdf.RotateX(sdf.DtoR(x)))
}

// Part is a shape with a placement, optional children and named joints.
// Parts with a nil shape are pure containers (compounds).
type Part struct {
	Label string
	Color color.RGBA

	shape    sdf.SDF3
	loc      sdf.Transform // relative to parent
	parent   *Part
	children []*Part
	joints   []*Joint
}

// NewPart returns a part at the origin.
func NewPart(label string, c color.RGBA, shape sdf.SDF3) *Part {
	return &Part{Label: label, Color: c, shape: shape}
}

// NewCompound groups parts under a container. Moving the compound moves its children.
// A part may only belong to one compound. On error no child is modified.
func NewCompound(label string, children ...*Part) (*Part, error) {
	seen := make(map[*Part]bool, len(children))
	for _, child := range children {
		switch {
		case child == nil:
			return nil, fmt.Errorf("compound %q: nil child", label)
		case child.parent != nil:
			return nil, fmt.Errorf("part %q already belongs to %q", child.Label, child.parent.Label)
		case seen[child]:
			return nil, fmt.Errorf("compound %q: part %q listed twice", label, child.Label)
		}
		seen[child] = true
	}
	c := &Part{Label: label, children: append([]*Part(nil), children...)}
	for _, child := range children {
		child.parent = c
	}
	return c, nil
}

// Shape returns the part's shape in its own coordinates.
func (p *Part) Shape() sdf.SDF3 { return p.shape }

// Children returns the parts grouped under p.
func (p *Part) Children() []*Part { return append([]*Part(nil), p.children...) }

// Location returns the placement of p relative to its parent.
func (p *Part) Location() sdf.Transform { return p.loc }

// SetLocation sets the placement of p relative to its parent.
func (p *Part) SetLocation(loc sdf.Transform) { p.loc = loc }

// World returns the placement of p in world coordinates.
func (p *Part) World() sdf.Transform {
	if p.parent == nil {
		return p.loc
	}
	return p.parent.World().Mul(p.loc)
}

// AddJoint fixes a named frame to the part at rel, in part coordinates.
func (p *Part) AddJoint(name string, rel sdf.Transform) (*Joint, error) {
	for _, j := range p.joints {
		if j.Name == name {
			return nil, fmt.Errorf("%s on %q: %w", name, p.Label, ErrDuplicateJoint)
		}
	}
	j := &Joint{Name: name, part: p, rel: rel}
	p.joints = append(p.joints, j)
	return j, nil
}

// Joint returns the joint called name.
func (p *Part) Joint(name string) (*Joint, error) {
	for _, j := range p.joints {
		if j.Name == name {
			return j, nil
		}
	}
	return nil, fmt.Errorf("%s on %q: %w", name, p.Label, ErrJointNotFound)
}

// Joints returns the part's joints in the order they were added.
func (p *Part) Joints() []*Joint { return append([]*Joint(nil), p.joints...) }

// Copy returns an unattached copy of p and its children labelled label.
// The copy shares the immutable shapes of p but has its own placement and joints.
func (p *Part) Copy(label string) *Part {
	c := &Part{
		Label: label,
		Color: p.Color,
		shape: p.shape,
		loc:   p.loc,
	}
	for _, j := range p.joints {
		c.joints = append(c.joints, &Joint{Name: j.Name, part: c, rel: j.rel})
	}
	for _, child := range p.children {
		cc := child.Copy(child.Label)
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// Placed is a leaf shape with its world placement.
type Placed struct {
	Label string
	Color color.RGBA
	// Shape is in part coordinates.
	Shape sdf.SDF3
	World sdf.Transform
}

// WorldShape returns the shape moved to its world placement.
func (pl Placed) WorldShape() sdf.SDF3 {
	return sdf.Transform3D(pl.Shape, pl.World)
}

// WorldShapes flattens p into its shaped parts, depth first.
func (p *Part) WorldShapes() []Placed {
	var out []Placed
	var walk func(q *Part, parent sdf.Transform)
	walk = func(q *Part, parent sdf.Transform) {
		world := parent.Mul(q.loc)
		if q.shape != nil {
			out = append(out, Placed{Label: q.Label, Color: q.Color, Shape: q.shape, World: world})
		}
		for _, child := range q.children {
			walk(child, world)
		}
	}
	var parent sdf.Transform
	if p.parent != nil {
		parent = p.parent.World()
	}
	walk(p, parent)
	return out
}

// Joint is a named frame fixed to a part.
type Joint struct {
	Name string
	part *Part
	rel  sdf.Transform
}

// Part returns the part the joint is fixed to.
func (j *Joint) Part() *Part { return j.part }

// Relative returns the joint frame in part coordinates.
func (j *Joint) Relative() sdf.Transform { return j.rel }

// World returns the joint frame in world coordinates.
func (j *Joint) World() sdf.Transform { return j.part.World().Mul(j.rel) }

// ConnectTo moves other's part so that other's frame coincides with j's frame.
// j's part does not move.
func (j *Joint) ConnectTo(other *Joint) error {
	if other.part == j.part {
		return fmt.Errorf("connect %s to %s: joints are on the same part %q", j.Name, other.Name, j.part.Label)
	}
	var parentWorld sdf.Transform
	if other.part.parent != nil {
		parentWorld = other.part.parent.World()
	}
	other.part.loc = parentWorld.Inv().Mul(j.World()).Mul(other.rel.Inv())
	return nil
}

// Coincident reports whether the world frames of a and b are equal within tol.
func Coincident(a, b *Joint, tol float64) bool {
	return a.World().Equals(b.World(), tol)
}
