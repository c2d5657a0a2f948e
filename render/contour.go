package render

import (
	"math"

	"github.com/printmount/touchmount/internal/d2"
	"github.com/printmount/touchmount/sdf"
	"gonum.org/v1/gonum/spatial/r2"
)

// Segment is a 2D line segment.
type Segment struct {
	A, B r2.Vec
}

// squareEdges lists the edges crossed by the zero contour for each inside
// corner configuration. Bit i set means corner i is inside.
// Corners run counter clockwise from the lower left, edge i joins
// corner i to corner i+1. Saddles (5 and 10) are resolved in Contour2D.
var squareEdges = [16][][2]int{
	0:  nil,
	1:  {{3, 0}},
	2:  {{0, 1}},
	3:  {{3, 1}},
	4:  {{1, 2}},
	6:  {{0, 2}},
	7:  {{3, 2}},
	8:  {{2, 3}},
	9:  {{0, 2}},
	11: {{1, 2}},
	12: {{1, 3}},
	13: {{0, 1}},
	14: {{3, 0}},
	15: nil,
}

// Contour2D returns the zero level contour of s as line segments, sampling
// a square grid with cells divisions along the longest side of the bounding box.
func Contour2D(s sdf.SDF2, cells int) []Segment {
	if cells < 2 {
		panic("cells must be 2 or larger")
	}
	bb := d2.Box(s.Bounds()).ScaleAboutCenter(1.02)
	size := bb.Size()
	step := d2.Max(size) / float64(cells)
	nx := int(math.Ceil(size.X/step)) + 1
	ny := int(math.Ceil(size.Y/step)) + 1

	pos := func(i, j int) r2.Vec {
		return r2.Vec{X: bb.Min.X + float64(i)*step, Y: bb.Min.Y + float64(j)*step}
	}
	values := make([]float64, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			values[j*nx+i] = s.Evaluate(pos(i, j))
		}
	}

	var segs []Segment
	for j := 0; j < ny-1; j++ {
		for i := 0; i < nx-1; i++ {
			corner := [4][2]int{{i, j}, {i + 1, j}, {i + 1, j + 1}, {i, j + 1}}
			var d [4]float64
			var p [4]r2.Vec
			idx := 0
			for k, c := range corner {
				d[k] = values[c[1]*nx+c[0]]
				p[k] = pos(c[0], c[1])
				if d[k] < 0 {
					idx |= 1 << k
				}
			}
			edges := squareEdges[idx]
			switch idx {
			case 5, 10:
				center := s.Evaluate(r2.Scale(0.5, r2.Add(p[0], p[2])))
				if (center < 0) == (idx == 5) {
					edges = [][2]int{{0, 1}, {2, 3}}
				} else {
					edges = [][2]int{{3, 0}, {1, 2}}
				}
			}
			for _, e := range edges {
				segs = append(segs, Segment{
					A: squareCrossing(p, d, e[0]),
					B: squareCrossing(p, d, e[1]),
				})
			}
		}
	}
	return segs
}

func squareCrossing(p [4]r2.Vec, d [4]float64, edge int) r2.Vec {
	a, b := edge, (edge+1)%4
	den := d[a] - d[b]
	if den == 0 {
		return p[a]
	}
	t := d[a] / den
	return r2.Add(p[a], r2.Scale(t, r2.Sub(p[b], p[a])))
}
