package mount

import (
	"fmt"

	"github.com/printmount/touchmount/form2"
	"github.com/printmount/touchmount/sdf"
	"gonum.org/v1/gonum/spatial/r2"
)

// CutoutFunc returns the regions removed from a plate outline of the given
// size. The plate is centered on the origin, seen from the top face.
type CutoutFunc func(plate r2.Vec) ([]sdf.SDF2, error)

// Side is an edge of the plate.
type Side int

const (
	Right Side = iota
	Top
	Left
	Bottom
)

func (s Side) String() string {
	switch s {
	case Right:
		return "right"
	case Top:
		return "top"
	case Left:
		return "left"
	case Bottom:
		return "bottom"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Notch is a rectangular cutout open to one edge of the plate.
type Notch struct {
	Side Side
	// Rectangle in plate coordinates. The coordinate facing Side lies on the plate edge.
	Min, Max r2.Vec
	// EdgeRadius fillets the two corners where the notch meets the plate edge.
	EdgeRadius float64
	// InnerRadius rounds the corners inside the plate.
	InnerRadius float64
}

// Shape returns the region removed by the notch.
func (n Notch) Shape() (sdf.SDF2, error) {
	if n.Max.X <= n.Min.X || n.Max.Y <= n.Min.Y {
		return nil, fmt.Errorf("%s notch: empty rectangle %v-%v", n.Side, n.Min, n.Max)
	}
	// Run the notch past the plate edge so the edge fillets are all that shape it there.
	ext := n.EdgeRadius + 1
	lo, hi := n.Min, n.Max
	var radii [4]float64 // bottom-left, bottom-right, top-right, top-left
	type fillet struct{ corner, into r2.Vec }
	var fillets [2]fillet
	switch n.Side {
	case Right:
		hi.X += ext
		radii = [4]float64{n.InnerRadius, 0, 0, n.InnerRadius}
		fillets = [2]fillet{
			{r2.Vec{X: n.Max.X, Y: n.Min.Y}, r2.Vec{X: -1, Y: -1}},
			{n.Max, r2.Vec{X: -1, Y: 1}},
		}
	case Top:
		hi.Y += ext
		radii = [4]float64{n.InnerRadius, n.InnerRadius, 0, 0}
		fillets = [2]fillet{
			{r2.Vec{X: n.Min.X, Y: n.Max.Y}, r2.Vec{X: -1, Y: -1}},
			{n.Max, r2.Vec{X: 1, Y: -1}},
		}
	case Left:
		lo.X -= ext
		radii = [4]float64{0, n.InnerRadius, n.InnerRadius, 0}
		fillets = [2]fillet{
			{n.Min, r2.Vec{X: 1, Y: -1}},
			{r2.Vec{X: n.Min.X, Y: n.Max.Y}, r2.Vec{X: 1, Y: 1}},
		}
	case Bottom:
		lo.Y -= ext
		radii = [4]float64{0, 0, n.InnerRadius, n.InnerRadius}
		fillets = [2]fillet{
			{n.Min, r2.Vec{X: -1, Y: 1}},
			{r2.Vec{X: n.Max.X, Y: n.Min.Y}, r2.Vec{X: 1, Y: 1}},
		}
	default:
		return nil, fmt.Errorf("invalid notch side %d", n.Side)
	}
	rect, err := form2.RoundedRect(r2.Sub(hi, lo), radii)
	if err != nil {
		return nil, fmt.Errorf("%s notch: %w", n.Side, err)
	}
	parts := []sdf.SDF2{sdf.Translate2D(rect, r2.Scale(0.5, r2.Add(lo, hi)))}
	if n.EdgeRadius > 0 {
		for _, f := range fillets {
			s, err := form2.CornerFillet(f.corner, f.into, n.EdgeRadius)
			if err != nil {
				return nil, fmt.Errorf("%s notch fillet: %w", n.Side, err)
			}
			parts = append(parts, s)
		}
	}
	return sdf.Union2D(parts...), nil
}

// RoundedCutout returns a rectangular window of the given size centered at
// center with all corners rounded by radius.
func RoundedCutout(center, size r2.Vec, radius float64) (sdf.SDF2, error) {
	box, err := form2.Box(size, radius)
	if err != nil {
		return nil, fmt.Errorf("rounded cutout: %w", err)
	}
	return sdf.Translate2D(box, center), nil
}

// GridLocations returns the nx by ny grid of points with the given spacing
// centered on center. Points are ordered by column, then row, starting at
// the lowest x and y.
func GridLocations(center r2.Vec, xSpacing, ySpacing float64, nx, ny int) []r2.Vec {
	locs := make([]r2.Vec, 0, nx*ny)
	x0 := center.X - xSpacing*float64(nx-1)/2
	y0 := center.Y - ySpacing*float64(ny-1)/2
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			locs = append(locs, r2.Vec{X: x0 + float64(i)*xSpacing, Y: y0 + float64(j)*ySpacing})
		}
	}
	return locs
}
