package render

import (
	"github.com/printmount/touchmount/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// Marching tetrahedra. Each lattice cube is split into six tetrahedra
// sharing the diagonal between corner 0 and corner 6.

// maxTrianglesPerCube is the most triangles a single cube can emit:
// six tetrahedra with at most two triangles each.
const maxTrianglesPerCube = 12

// cubeCorners are the lattice offsets of a level 1 cube's corners.
var cubeCorners = [8]sdf.V3i{
	{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0},
	{0, 0, 2}, {2, 0, 2}, {2, 2, 2}, {0, 2, 2},
}

// cubeTetrahedra indexes cubeCorners.
var cubeTetrahedra = [6][4]int{
	{0, 6, 1, 2},
	{0, 6, 2, 3},
	{0, 6, 3, 7},
	{0, 6, 7, 4},
	{0, 6, 4, 5},
	{0, 6, 5, 1},
}

type latticePoint struct {
	i sdf.V3i
	p r3.Vec
	d float64
}

func (lp *latticePoint) inside() bool { return lp.d < 0 }

// mtToTriangles writes the triangles of the surface crossing the cube into dst
// and returns how many were written. dst must fit maxTrianglesPerCube.
func mtToTriangles(dst []r3.Triangle, corners *[8]latticePoint) int {
	n := 0
	for _, tet := range cubeTetrahedra {
		var in, out [4]*latticePoint
		nin, nout := 0, 0
		for _, ci := range tet {
			c := &corners[ci]
			if c.inside() {
				in[nin] = c
				nin++
			} else {
				out[nout] = c
				nout++
			}
		}
		switch nin {
		case 0, 4:
			// tetrahedron does not cross the surface.
		case 1, 3:
			var apex *latticePoint
			var base [3]*latticePoint
			if nin == 1 {
				apex = in[0]
				copy(base[:], out[:3])
			} else {
				apex = out[0]
				copy(base[:], in[:3])
			}
			t := r3.Triangle{
				edgeCrossing(apex, base[0]),
				edgeCrossing(apex, base[1]),
				edgeCrossing(apex, base[2]),
			}
			n += emitTriangle(dst[n:], t, in[:nin], out[:nout])
		case 2:
			p0 := edgeCrossing(in[0], out[0])
			p1 := edgeCrossing(in[0], out[1])
			p2 := edgeCrossing(in[1], out[1])
			p3 := edgeCrossing(in[1], out[0])
			n += emitTriangle(dst[n:], r3.Triangle{p0, p1, p2}, in[:2], out[:2])
			n += emitTriangle(dst[n:], r3.Triangle{p0, p2, p3}, in[:2], out[:2])
		}
	}
	return n
}

// edgeCrossing returns the point where the surface crosses the edge between
// a and b. The endpoints are ordered by lattice position so that the two
// cubes sharing an edge compute exactly the same point.
func edgeCrossing(a, b *latticePoint) r3.Vec {
	if b.i.Less(a.i) {
		a, b = b, a
	}
	den := a.d - b.d
	if den == 0 {
		return a.p
	}
	t := a.d / den
	return r3.Add(a.p, r3.Scale(t, r3.Sub(b.p, a.p)))
}

// emitTriangle writes t to dst oriented so its normal points from the inside
// corners towards the outside corners. Triangles with repeated vertices
// are dropped.
func emitTriangle(dst []r3.Triangle, t r3.Triangle, in, out []*latticePoint) int {
	if t[0] == t[1] || t[1] == t[2] || t[2] == t[0] {
		return 0
	}
	dir := r3.Sub(centroid(out), centroid(in))
	if r3.Dot(t.Normal(), dir) < 0 {
		t[1], t[2] = t[2], t[1]
	}
	dst[0] = t
	return 1
}

func centroid(pts []*latticePoint) r3.Vec {
	var c r3.Vec
	for _, p := range pts {
		c = r3.Add(c, p.p)
	}
	return r3.Scale(1/float64(len(pts)), c)
}
